package console

import (
	"context"

	"github.com/a-h/qadocs/models"
)

// OperationDelete is passed to the refresh callback after a delete.
const OperationDelete = "delete"

// RowAction is the confirm-gated delete of a single list row.
type RowAction struct {
	doc        models.QADocument
	operable   bool
	confirming bool
	deleting   bool
	refresh    func(operation string)
}

// NewRowAction returns the action for doc. refresh is called once after each
// confirmed delete completes, whatever the outcome.
func NewRowAction(doc models.QADocument, operable bool, refresh func(operation string)) *RowAction {
	return &RowAction{
		doc:      doc,
		operable: operable,
		refresh:  refresh,
	}
}

func (a *RowAction) Document() models.QADocument { return a.doc }
func (a *RowAction) Confirming() bool            { return a.confirming }
func (a *RowAction) Deleting() bool              { return a.deleting }

// CanDelete is false when the document is not operable. The row then shows
// its status instead.
func (a *RowAction) CanDelete() bool {
	return a.operable && !a.deleting
}

// Request opens the confirmation dialog.
func (a *RowAction) Request() error {
	if !a.operable {
		return ErrNotOperable
	}
	if a.deleting {
		return ErrInFlight
	}
	a.confirming = true
	return nil
}

// Dismiss closes the confirmation dialog without deleting.
func (a *RowAction) Dismiss() {
	a.confirming = false
}

// Confirm closes the dialog and returns the id to delete.
func (a *RowAction) Confirm() (id string, err error) {
	if !a.confirming {
		return id, ErrNotConfirm
	}
	if a.deleting {
		return id, ErrInFlight
	}
	a.confirming = false
	a.deleting = true
	return a.doc.ID, nil
}

// Finish completes a delete started by Confirm.
func (a *RowAction) Finish(err error) Notice {
	a.deleting = false
	if a.refresh != nil {
		a.refresh(OperationDelete)
	}
	if err != nil {
		return failureNotice("Failed to delete QA document", err)
	}
	return successNotice("QA document deleted")
}

// Delete runs Confirm, the delete call and Finish.
func (a *RowAction) Delete(ctx context.Context, api API) Notice {
	id, err := a.Confirm()
	if err != nil {
		return ValidationNotice(err)
	}
	return a.Finish(api.Delete(ctx, id))
}
