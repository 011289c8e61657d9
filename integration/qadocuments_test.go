package integration

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/a-h/jsonapi"
	"github.com/a-h/qadocs/client"
	"github.com/a-h/qadocs/models"
	"github.com/google/uuid"
)

// These tests expect `qadocs serve` on localhost:9020 with an API keys file
// containing "test-owner-key" (role owner) and "test-normal-key" (role normal).
const serverURL = "http://localhost:9020"

func TestQADocumentLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	docs := client.New(serverURL, "test-owner-key").QADocuments(models.ContainerDatasets, uuid.NewString())

	created, err := docs.Create(ctx, models.QADocumentUpdator{
		Question: "What port does rqlite listen on?",
		Answer:   "4001 by default.",
	})
	if err != nil {
		t.Fatalf("failed to create document: %v", err)
	}
	if created.Data.Position != 1 {
		t.Errorf("expected position 1, got %d", created.Data.Position)
	}

	page, err := docs.List(ctx, models.ListParams{Page: 1, Limit: 15})
	if err != nil {
		t.Fatalf("failed to list documents: %v", err)
	}
	if page.Total != 1 || len(page.Data) != 1 || page.Data[0].ID != created.Data.ID {
		t.Fatalf("unexpected page: %+v", page)
	}

	updated, err := docs.Update(ctx, created.Data.ID, models.QADocumentUpdator{
		Question: "What port does rqlite listen on?",
		Answer:   "4001, unless -http-addr is set.",
	})
	if err != nil {
		t.Fatalf("failed to update document: %v", err)
	}
	if updated.Data.Answer != "4001, unless -http-addr is set." {
		t.Errorf("unexpected answer: %q", updated.Data.Answer)
	}

	if err = docs.Delete(ctx, created.Data.ID); err != nil {
		t.Fatalf("failed to delete document: %v", err)
	}
	_, err = docs.Get(ctx, created.Data.ID)
	var ise jsonapi.InvalidStatusError
	if !errors.As(err, &ise) || ise.Status != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %v", err)
	}
}

func TestNormalUsersCannotCreate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	docs := client.New(serverURL, "test-normal-key").QADocuments(models.ContainerApps, uuid.NewString())
	_, err := docs.Create(context.Background(), models.QADocumentUpdator{Question: "Q", Answer: "A"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
