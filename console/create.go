package console

import (
	"context"

	"github.com/a-h/qadocs/models"
)

// CreateForm is the state of the create modal. A failed create keeps the
// modal open with the entered text.
type CreateForm struct {
	Question string
	Answer   string
	open     bool
	saving   bool
	onSave   func()
}

// NewCreateForm returns a closed form. onSave is called after each
// successful create.
func NewCreateForm(onSave func()) *CreateForm {
	return &CreateForm{onSave: onSave}
}

func (f *CreateForm) Open()        { f.open = true }
func (f *CreateForm) IsOpen() bool { return f.open }
func (f *CreateForm) Saving() bool { return f.saving }

// Begin validates the form and marks it as saving. The returned payload is
// the untrimmed text.
func (f *CreateForm) Begin() (upd models.QADocumentUpdator, err error) {
	if f.saving {
		return upd, ErrInFlight
	}
	upd = models.QADocumentUpdator{Question: f.Question, Answer: f.Answer}
	if err = upd.Validate(); err != nil {
		return upd, err
	}
	f.saving = true
	return upd, nil
}

// Finish completes a save started by Begin.
func (f *CreateForm) Finish(err error) Notice {
	f.saving = false
	if err != nil {
		return failureNotice("Failed to create QA document", err)
	}
	f.clear()
	f.open = false
	if f.onSave != nil {
		f.onSave()
	}
	return successNotice("QA document created")
}

// Cancel discards the entered text and closes the modal.
func (f *CreateForm) Cancel() {
	f.clear()
	f.open = false
}

func (f *CreateForm) clear() {
	f.Question = ""
	f.Answer = ""
}

// Submit runs Begin, the create call and Finish.
func (f *CreateForm) Submit(ctx context.Context, api API) Notice {
	upd, err := f.Begin()
	if err != nil {
		return ValidationNotice(err)
	}
	_, err = api.Create(ctx, upd)
	return f.Finish(err)
}
