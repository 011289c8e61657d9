package console

import (
	"context"
	"errors"

	"github.com/a-h/qadocs/models"
)

type call struct {
	Op     string
	ID     string
	Params models.ListParams
	Upd    models.QADocumentUpdator
}

type fakeAPI struct {
	calls []call
	page  models.QADocumentPage
	err   error
}

func (f *fakeAPI) List(ctx context.Context, params models.ListParams) (models.QADocumentPage, error) {
	f.calls = append(f.calls, call{Op: "list", Params: params})
	return f.page, f.err
}

func (f *fakeAPI) Get(ctx context.Context, id string) (models.QADocument, error) {
	f.calls = append(f.calls, call{Op: "get", ID: id})
	return models.QADocument{ID: id}, f.err
}

func (f *fakeAPI) Create(ctx context.Context, upd models.QADocumentUpdator) (models.QADocumentResponse, error) {
	f.calls = append(f.calls, call{Op: "create", Upd: upd})
	if f.err != nil {
		return models.QADocumentResponse{}, f.err
	}
	return models.QADocumentResponse{Data: models.QADocument{ID: "new", Question: upd.Question, Answer: upd.Answer, Enabled: true}}, nil
}

func (f *fakeAPI) Update(ctx context.Context, id string, upd models.QADocumentUpdator) (models.QADocumentResponse, error) {
	f.calls = append(f.calls, call{Op: "update", ID: id, Upd: upd})
	if f.err != nil {
		return models.QADocumentResponse{}, f.err
	}
	return models.QADocumentResponse{Data: models.QADocument{ID: id, Question: upd.Question, Answer: upd.Answer, Enabled: true}}, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id string) error {
	f.calls = append(f.calls, call{Op: "delete", ID: id})
	return f.err
}

var errServer = errors.New("server error")
