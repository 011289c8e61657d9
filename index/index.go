package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/a-h/qadocs/db"
	"github.com/tmc/langchaingo/embeddings"
)

type Store interface {
	QADocumentEmbeddingPut(ctx context.Context, id db.QADocumentID, embedding []float32) error
	QADocumentEmbeddingDelete(ctx context.Context, id db.QADocumentID) error
	QADocumentNearest(ctx context.Context, args db.QADocumentNearestArgs) ([]db.QADocumentNearestResult, error)
}

var ErrEmptyEmbedding = errors.New("index: embedder returned no embedding")

func New(log *slog.Logger, embedder embeddings.Embedder, store Store) *Vector {
	return &Vector{
		log:      log,
		embedder: embedder,
		store:    store,
	}
}

// Vector indexes QA documents by the embedding of their question.
type Vector struct {
	log      *slog.Logger
	embedder embeddings.Embedder
	store    Store
}

func (v *Vector) Add(ctx context.Context, doc db.QADocument) (err error) {
	embeddings, err := v.embedder.EmbedDocuments(ctx, []string{doc.Question})
	if err != nil {
		return fmt.Errorf("failed to embed question: %w", err)
	}
	if len(embeddings) != 1 || len(embeddings[0]) == 0 {
		return ErrEmptyEmbedding
	}
	if err = v.store.QADocumentEmbeddingPut(ctx, doc.QADocumentID, embeddings[0]); err != nil {
		return fmt.Errorf("failed to store embedding: %w", err)
	}
	v.log.Debug("indexed qa document", slog.String("id", doc.ID), slog.Int("dimensions", len(embeddings[0])))
	return nil
}

func (v *Vector) Remove(ctx context.Context, id db.QADocumentID) (err error) {
	if err = v.store.QADocumentEmbeddingDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete embedding: %w", err)
	}
	return nil
}

func (v *Vector) Nearest(ctx context.Context, container db.Container, text string, limit int) (docs []db.QADocumentNearestResult, err error) {
	embedding, err := v.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embedding) == 0 {
		return nil, ErrEmptyEmbedding
	}
	return v.store.QADocumentNearest(ctx, db.QADocumentNearestArgs{
		Container: container,
		Embedding: embedding,
		Limit:     limit,
	})
}
