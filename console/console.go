// Package console holds the state of the QA document console: the list view,
// the create and detail modals, the row delete action and the store that
// shares in-flight saves between them.
//
// State only changes through method calls. Network calls are made by the
// caller between a Begin and a Finish (or Resolve), so the types can be
// driven from an event loop such as bubbletea, or synchronously with the
// helpers that take an API.
package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/a-h/qadocs/models"
)

const (
	// PageSize is the fixed number of documents requested per page.
	PageSize = 15
)

// API is the set of document operations the console uses. It is satisfied
// by client.QADocuments.
type API interface {
	List(ctx context.Context, params models.ListParams) (models.QADocumentPage, error)
	Get(ctx context.Context, id string) (models.QADocument, error)
	Create(ctx context.Context, upd models.QADocumentUpdator) (models.QADocumentResponse, error)
	Update(ctx context.Context, id string, upd models.QADocumentUpdator) (models.QADocumentResponse, error)
	Delete(ctx context.Context, id string) error
}

var (
	// ErrInFlight is returned when a save or delete is started while the
	// previous one has not completed.
	ErrInFlight    = errors.New("a request is already in progress")
	ErrNotOperable = errors.New("document cannot be changed")
	ErrNotEditing  = errors.New("document is not being edited")
	ErrNotConfirm  = errors.New("delete has not been requested")
)

type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeFailure
	NoticeValidation
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeSuccess:
		return "success"
	case NoticeFailure:
		return "failure"
	case NoticeValidation:
		return "validation"
	}
	return fmt.Sprintf("NoticeKind(%d)", int(k))
}

// Notice is a message to show the user after an operation.
type Notice struct {
	Kind    NoticeKind
	Message string
}

func successNotice(msg string) Notice {
	return Notice{Kind: NoticeSuccess, Message: msg}
}

func failureNotice(msg string, err error) Notice {
	return Notice{Kind: NoticeFailure, Message: fmt.Sprintf("%s: %v", msg, err)}
}

// ValidationNotice converts an error returned by a Begin method into a
// notice. In-flight errors are failures, everything else is a validation
// message.
func ValidationNotice(err error) Notice {
	if errors.Is(err, ErrInFlight) {
		return Notice{Kind: NoticeFailure, Message: err.Error()}
	}
	switch {
	case errors.Is(err, models.ErrQuestionEmpty):
		return Notice{Kind: NoticeValidation, Message: "Please enter a question"}
	case errors.Is(err, models.ErrAnswerEmpty):
		return Notice{Kind: NoticeValidation, Message: "Please enter an answer"}
	}
	return Notice{Kind: NoticeValidation, Message: err.Error()}
}
