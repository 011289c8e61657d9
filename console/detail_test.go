package console

import (
	"context"
	"errors"
	"testing"

	"github.com/a-h/qadocs/models"
	"github.com/google/go-cmp/cmp"
)

var detailDoc = models.QADocument{ID: "d1", Question: "Q", Answer: "A", Position: 3, Enabled: true}

func TestDetailCancelRestores(t *testing.T) {
	api := &fakeAPI{}
	d := NewDetail(detailDoc, true, NewSavingStore(), nil)
	if !d.Edit() {
		t.Fatal("expected edit to be allowed")
	}
	d.Question, d.Answer = "changed", "also changed"
	d.Cancel()

	if d.Mode() != DetailViewing {
		t.Errorf("expected viewing, got %v", d.Mode())
	}
	if d.Question != "Q" || d.Answer != "A" {
		t.Errorf("expected Q/A, got %q/%q", d.Question, d.Answer)
	}
	if !d.IsOpen() {
		t.Error("expected modal to stay open")
	}
	if len(api.calls) != 0 {
		t.Errorf("expected no calls, got %+v", api.calls)
	}
	d.Cancel()
	if d.IsOpen() {
		t.Error("expected second cancel to close")
	}
}

func TestDetailEditRequiresEmbedding(t *testing.T) {
	d := NewDetail(detailDoc, false, NewSavingStore(), nil)
	if d.CanEdit() || d.Edit() {
		t.Error("expected edit to be unavailable")
	}
	if d.Mode() != DetailViewing {
		t.Errorf("expected viewing, got %v", d.Mode())
	}
	if _, _, err := d.Begin(); !errors.Is(err, ErrNotEditing) {
		t.Errorf("expected ErrNotEditing, got %v", err)
	}
}

func TestDetailSave(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expected    NoticeKind
		expectSaved int
	}{
		{name: "success closes", expected: NoticeSuccess, expectSaved: 1},
		{name: "failure also closes", err: errServer, expected: NoticeFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{err: tt.err}
			store := NewSavingStore()
			var changes []string
			store.Subscribe(func(id string, state SavingState) {
				changes = append(changes, id+":"+state.String())
			})
			var saved int
			d := NewDetail(detailDoc, true, store, func() { saved++ })
			d.Edit()
			d.Answer = "A2"

			notice := d.Save(context.Background(), api)

			if notice.Kind != tt.expected {
				t.Errorf("expected %v, got %+v", tt.expected, notice)
			}
			if d.IsOpen() {
				t.Error("expected modal to close")
			}
			if saved != tt.expectSaved {
				t.Errorf("expected %d on-save calls, got %d", tt.expectSaved, saved)
			}
			expectedCalls := []call{{Op: "update", ID: "d1", Upd: models.QADocumentUpdator{Question: "Q", Answer: "A2"}}}
			if diff := cmp.Diff(expectedCalls, api.calls); diff != "" {
				t.Errorf("unexpected calls: %v", diff)
			}
			if diff := cmp.Diff([]string{"d1:saving", "d1:idle"}, changes); diff != "" {
				t.Errorf("unexpected saving changes: %v", diff)
			}
		})
	}
}

func TestDetailSaveValidation(t *testing.T) {
	api := &fakeAPI{}
	store := NewSavingStore()
	d := NewDetail(detailDoc, true, store, nil)
	d.Edit()
	d.Question = " "

	notice := d.Save(context.Background(), api)

	if notice.Kind != NoticeValidation {
		t.Errorf("expected validation, got %+v", notice)
	}
	if !d.IsOpen() || d.Mode() != DetailEditing {
		t.Error("expected modal to stay in editing")
	}
	if len(api.calls) != 0 || store.Get("d1") != SavingIdle {
		t.Error("expected no call and no saving state")
	}
}

func TestDetailRejectsDoubleSave(t *testing.T) {
	store := NewSavingStore()
	d := NewDetail(detailDoc, true, store, nil)
	d.Edit()
	if _, _, err := d.Begin(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Saving() {
		t.Error("expected saving")
	}
	if _, _, err := d.Begin(); !errors.Is(err, ErrInFlight) {
		t.Errorf("expected ErrInFlight, got %v", err)
	}
}
