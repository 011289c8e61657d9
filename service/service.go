package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/a-h/qadocs/auth"
	"github.com/a-h/qadocs/db"
	"github.com/a-h/qadocs/events"
	"github.com/a-h/qadocs/metrics"
	"github.com/a-h/qadocs/models"
	"github.com/google/uuid"
)

const (
	DefaultPage       = 1
	DefaultLimit      = 20
	MaxLimit          = 100
	DefaultMatchLimit = 3
	MaxMatchLimit     = 20
)

var (
	ErrNotFound         = errors.New("qa document not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidContainer = errors.New("invalid container")
	ErrTextEmpty        = errors.New("text is empty")
)

type Store interface {
	QADocumentInsert(ctx context.Context, args db.QADocumentInsertArgs) (db.QADocument, error)
	QADocumentGet(ctx context.Context, args db.QADocumentID) (db.QADocument, bool, error)
	QADocumentList(ctx context.Context, args db.QADocumentListArgs) ([]db.QADocument, int64, error)
	QADocumentUpdate(ctx context.Context, args db.QADocumentUpdateArgs) error
	QADocumentSetStatus(ctx context.Context, args db.QADocumentStatusArgs) error
	QADocumentDelete(ctx context.Context, args db.QADocumentID) error
}

type Index interface {
	Add(ctx context.Context, doc db.QADocument) error
	Remove(ctx context.Context, id db.QADocumentID) error
	Nearest(ctx context.Context, container db.Container, text string, limit int) ([]db.QADocumentNearestResult, error)
}

func New(log *slog.Logger, store Store, index Index, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		log:       log,
		store:     store,
		index:     index,
		publisher: publisher,
		Now:       time.Now,
		NewID:     uuid.NewString,
	}
}

// Service applies the QA document lifecycle: documents are kept in the store,
// their questions are kept in the vector index, and indexing failures are
// recorded on the document instead of failing the request.
type Service struct {
	log       *slog.Logger
	store     Store
	index     Index
	publisher events.Publisher
	Now       func() time.Time
	NewID     func() string
}

// Scope is the caller and the container a request applies to.
type Scope struct {
	User        auth.User
	Kind        models.ContainerKind
	ContainerID string
}

func (s Scope) container() db.Container {
	return db.Container{
		Tenant: s.User.Tenant,
		Kind:   string(s.Kind),
		ID:     s.ContainerID,
	}
}

func (s Scope) validate() error {
	if !s.Kind.Valid() || strings.TrimSpace(s.ContainerID) == "" {
		return ErrInvalidContainer
	}
	return nil
}

func (s Scope) validateManager() error {
	if err := s.validate(); err != nil {
		return err
	}
	if !s.User.IsManager() {
		return ErrForbidden
	}
	return nil
}

func (s Scope) documentID(id string) db.QADocumentID {
	return db.QADocumentID{Container: s.container(), ID: id}
}

func toModel(doc db.QADocument) models.QADocument {
	return models.QADocument{
		ID:        doc.ID,
		Position:  models.Position(doc.Position),
		Question:  doc.Question,
		Answer:    doc.Answer,
		Enabled:   doc.Enabled,
		Error:     doc.Error,
		CreatedAt: doc.CreatedAt.Unix(),
	}
}

func (s *Service) List(ctx context.Context, scope Scope, params models.ListParams) (page models.QADocumentPage, err error) {
	if err = scope.validate(); err != nil {
		return page, err
	}
	if params.Page < 1 {
		params.Page = DefaultPage
	}
	if params.Limit < 1 {
		params.Limit = DefaultLimit
	}
	if params.Limit > MaxLimit {
		params.Limit = MaxLimit
	}
	docs, total, err := s.store.QADocumentList(ctx, db.QADocumentListArgs{
		Container: scope.container(),
		Keyword:   params.Keyword,
		Offset:    (params.Page - 1) * params.Limit,
		Limit:     params.Limit,
		Ascending: params.Sort == models.SortCreatedAtAsc,
	})
	if err != nil {
		return page, fmt.Errorf("failed to list qa documents: %w", err)
	}
	page = models.QADocumentPage{
		Data:    make([]models.QADocument, len(docs)),
		HasMore: len(docs) == params.Limit,
		Limit:   params.Limit,
		Total:   int(total),
		Page:    params.Page,
	}
	for i, doc := range docs {
		page.Data[i] = toModel(doc)
	}
	return page, nil
}

func (s *Service) get(ctx context.Context, scope Scope, id string) (doc db.QADocument, err error) {
	doc, ok, err := s.store.QADocumentGet(ctx, scope.documentID(id))
	if err != nil {
		return doc, fmt.Errorf("failed to get qa document: %w", err)
	}
	if !ok {
		return doc, ErrNotFound
	}
	return doc, nil
}

func (s *Service) Get(ctx context.Context, scope Scope, id string) (doc models.QADocument, err error) {
	if err = scope.validate(); err != nil {
		return doc, err
	}
	d, err := s.get(ctx, scope, id)
	if err != nil {
		return doc, err
	}
	return toModel(d), nil
}

func (s *Service) Create(ctx context.Context, scope Scope, upd models.QADocumentUpdator) (doc models.QADocument, err error) {
	if err = scope.validateManager(); err != nil {
		return doc, err
	}
	if err = upd.Validate(); err != nil {
		return doc, err
	}
	d, err := s.store.QADocumentInsert(ctx, db.QADocumentInsertArgs{
		QADocumentID: scope.documentID(s.NewID()),
		Question:     upd.Question,
		Answer:       upd.Answer,
		CreatedAt:    s.Now().UTC(),
	})
	if err != nil {
		return doc, fmt.Errorf("failed to create qa document: %w", err)
	}
	if d, err = s.reindex(ctx, d); err != nil {
		return doc, err
	}
	s.publish(ctx, events.TypeCreated, d)
	return toModel(d), nil
}

func (s *Service) Update(ctx context.Context, scope Scope, id string, upd models.QADocumentUpdator) (doc models.QADocument, err error) {
	if err = scope.validateManager(); err != nil {
		return doc, err
	}
	if err = upd.Validate(); err != nil {
		return doc, err
	}
	d, err := s.get(ctx, scope, id)
	if err != nil {
		return doc, err
	}
	if d.Question == upd.Question && d.Answer == upd.Answer && d.Enabled {
		return toModel(d), nil
	}
	d.Question = upd.Question
	d.Answer = upd.Answer
	d.UpdatedAt = s.Now().UTC()
	err = s.store.QADocumentUpdate(ctx, db.QADocumentUpdateArgs{
		QADocumentID: d.QADocumentID,
		Question:     d.Question,
		Answer:       d.Answer,
		UpdatedAt:    d.UpdatedAt,
	})
	if err != nil {
		return doc, fmt.Errorf("failed to update qa document: %w", err)
	}
	if d, err = s.reindex(ctx, d); err != nil {
		return doc, err
	}
	s.publish(ctx, events.TypeUpdated, d)
	return toModel(d), nil
}

// reindex adds the document to the vector index and stores the outcome as the
// document status.
func (s *Service) reindex(ctx context.Context, d db.QADocument) (db.QADocument, error) {
	indexErr := s.index.Add(ctx, d)
	metrics.ObserveIndex("add", indexErr)
	status := db.QADocumentStatusArgs{QADocumentID: d.QADocumentID, Enabled: true}
	if indexErr != nil {
		s.log.Error("failed to index qa document", slog.String("id", d.ID), slog.Any("error", indexErr))
		status.Enabled = false
		status.Error = indexErr.Error()
	}
	if status.Enabled == d.Enabled && status.Error == d.Error {
		return d, nil
	}
	if err := s.store.QADocumentSetStatus(ctx, status); err != nil {
		return d, fmt.Errorf("failed to set qa document status: %w", err)
	}
	d.Enabled = status.Enabled
	d.Error = status.Error
	return d, nil
}

func (s *Service) Delete(ctx context.Context, scope Scope, id string) (err error) {
	if err = scope.validateManager(); err != nil {
		return err
	}
	d, err := s.get(ctx, scope, id)
	if err != nil {
		return err
	}
	indexErr := s.index.Remove(ctx, d.QADocumentID)
	metrics.ObserveIndex("remove", indexErr)
	if indexErr != nil {
		s.log.Error("failed to remove qa document from index", slog.String("id", d.ID), slog.Any("error", indexErr))
		err = s.store.QADocumentSetStatus(ctx, db.QADocumentStatusArgs{
			QADocumentID: d.QADocumentID,
			Enabled:      false,
			Error:        indexErr.Error(),
		})
		if err != nil {
			return fmt.Errorf("failed to set qa document status: %w", err)
		}
		return fmt.Errorf("failed to remove qa document from index: %w", indexErr)
	}
	if err = s.store.QADocumentDelete(ctx, d.QADocumentID); err != nil {
		return fmt.Errorf("failed to delete qa document: %w", err)
	}
	s.publish(ctx, events.TypeDeleted, d)
	return nil
}

func (s *Service) Match(ctx context.Context, scope Scope, req models.MatchPostRequest) (resp models.MatchPostResponse, err error) {
	if err = scope.validate(); err != nil {
		return resp, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return resp, ErrTextEmpty
	}
	limit := req.Limit
	if limit < 1 {
		limit = DefaultMatchLimit
	}
	if limit > MaxMatchLimit {
		limit = MaxMatchLimit
	}
	docs, err := s.index.Nearest(ctx, scope.container(), req.Text, limit)
	if err != nil {
		return resp, fmt.Errorf("failed to find nearest qa documents: %w", err)
	}
	resp.Results = make([]models.MatchResult, len(docs))
	for i, d := range docs {
		resp.Results[i] = models.MatchResult{
			Document: toModel(d.QADocument),
			Distance: d.Distance,
		}
	}
	return resp, nil
}

func (s *Service) publish(ctx context.Context, t events.Type, d db.QADocument) {
	err := s.publisher.Publish(ctx, events.Event{
		Type:          t,
		DocumentID:    d.ID,
		Tenant:        d.Tenant,
		ContainerKind: d.Kind,
		ContainerID:   d.Container.ID,
		Enabled:       d.Enabled,
		Timestamp:     s.Now().UTC(),
	})
	if err != nil {
		s.log.Warn("failed to publish qa document event", slog.String("type", string(t)), slog.String("id", d.ID), slog.Any("error", err))
	}
}
