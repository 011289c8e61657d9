package console

import (
	"context"

	"github.com/a-h/qadocs/models"
)

type DetailMode int

const (
	DetailViewing DetailMode = iota
	DetailEditing
)

func (m DetailMode) String() string {
	if m == DetailEditing {
		return "editing"
	}
	return "viewing"
}

// Detail is the state of the detail modal. Unlike the create modal it closes
// when an update completes, whether or not it succeeded.
type Detail struct {
	Question string
	Answer   string

	doc                models.QADocument
	mode               DetailMode
	open               bool
	embeddingAvailable bool
	store              *SavingStore
	onSave             func()
}

// NewDetail opens the modal for doc. onSave is called after a successful
// update.
func NewDetail(doc models.QADocument, embeddingAvailable bool, store *SavingStore, onSave func()) *Detail {
	return &Detail{
		Question:           doc.Question,
		Answer:             doc.Answer,
		doc:                doc,
		mode:               DetailViewing,
		open:               true,
		embeddingAvailable: embeddingAvailable,
		store:              store,
		onSave:             onSave,
	}
}

func (d *Detail) Document() models.QADocument { return d.doc }
func (d *Detail) Mode() DetailMode            { return d.mode }
func (d *Detail) IsOpen() bool                { return d.open }

// CanEdit reports whether the edit affordance is shown.
func (d *Detail) CanEdit() bool {
	return d.embeddingAvailable && d.mode == DetailViewing
}

func (d *Detail) Saving() bool {
	return d.store.Get(d.doc.ID) == SavingInProgress
}

// Edit switches to editing. It returns false if editing is not permitted.
func (d *Detail) Edit() bool {
	if !d.CanEdit() {
		return false
	}
	d.mode = DetailEditing
	return true
}

// Cancel discards edits and returns to viewing. When already viewing it
// closes the modal.
func (d *Detail) Cancel() {
	if d.mode == DetailEditing {
		d.Question = d.doc.Question
		d.Answer = d.doc.Answer
		d.mode = DetailViewing
		return
	}
	d.open = false
}

// Begin validates the edits and marks the document as saving.
func (d *Detail) Begin() (id string, upd models.QADocumentUpdator, err error) {
	if d.mode != DetailEditing {
		return id, upd, ErrNotEditing
	}
	if d.Saving() {
		return id, upd, ErrInFlight
	}
	upd = models.QADocumentUpdator{Question: d.Question, Answer: d.Answer}
	if err = upd.Validate(); err != nil {
		return id, upd, err
	}
	d.store.Set(d.doc.ID, SavingInProgress)
	return d.doc.ID, upd, nil
}

// Finish completes an update started by Begin and closes the modal.
func (d *Detail) Finish(updated models.QADocument, err error) Notice {
	d.store.Set(d.doc.ID, SavingIdle)
	d.mode = DetailViewing
	d.open = false
	if err != nil {
		return failureNotice("Failed to update QA document", err)
	}
	d.doc = updated
	d.Question = updated.Question
	d.Answer = updated.Answer
	if d.onSave != nil {
		d.onSave()
	}
	return successNotice("QA document updated")
}

// Save runs Begin, the update call and Finish.
func (d *Detail) Save(ctx context.Context, api API) Notice {
	id, upd, err := d.Begin()
	if err != nil {
		return ValidationNotice(err)
	}
	resp, err := api.Update(ctx, id, upd)
	return d.Finish(resp.Data, err)
}
