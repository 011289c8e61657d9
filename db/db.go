package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rqlite/gorqlite"
)

func New(conn *gorqlite.Connection) *Queries {
	return &Queries{
		conn: conn,
	}
}

type Queries struct {
	conn *gorqlite.Connection
}

// Container identifies the owner of a set of QA documents within a tenant.
type Container struct {
	Tenant string
	Kind   string
	ID     string
}

func (c Container) String() string {
	return fmt.Sprintf("%s:%s:%s", c.Tenant, c.Kind, c.ID)
}

type QADocumentID struct {
	Container
	ID string
}

type QADocument struct {
	QADocumentID
	Position  int64
	Question  string
	Answer    string
	Enabled   bool
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const qaDocumentColumns = `id, tenant, container_kind, container_id, position, question, answer, enabled, error, created_at, updated_at`

func scanQADocument(result *gorqlite.QueryResult) (doc QADocument, err error) {
	var enabled, createdAt, updatedAt int64
	if err = result.Scan(&doc.ID, &doc.Tenant, &doc.Kind, &doc.Container.ID, &doc.Position, &doc.Question, &doc.Answer, &enabled, &doc.Error, &createdAt, &updatedAt); err != nil {
		return doc, err
	}
	doc.Enabled = enabled != 0
	doc.CreatedAt = time.Unix(createdAt, 0).UTC()
	doc.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return doc, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type QADocumentInsertArgs struct {
	QADocumentID
	Question  string
	Answer    string
	CreatedAt time.Time
}

// QADocumentInsert creates an enabled document positioned after the last
// document of its container.
func (q *Queries) QADocumentInsert(ctx context.Context, args QADocumentInsertArgs) (doc QADocument, err error) {
	stmt := gorqlite.ParameterizedStatement{
		Query: `insert into qa_document (id, container, tenant, container_kind, container_id, position, question, answer, enabled, error, created_at, updated_at)
select ?, ?, ?, ?, ?, coalesce(max(position), 0) + 1, ?, ?, 1, '', ?, ?
from qa_document
where container = ?`,
		Arguments: []any{
			args.ID, args.Container.String(), args.Tenant, args.Kind, args.Container.ID,
			args.Question, args.Answer, args.CreatedAt.Unix(), args.CreatedAt.Unix(),
			args.Container.String(),
		},
	}
	if _, err = q.conn.WriteOneParameterizedContext(ctx, stmt); err != nil {
		return doc, fmt.Errorf("failed to insert qa document: %w", err)
	}
	doc, ok, err := q.QADocumentGet(ctx, args.QADocumentID)
	if err != nil {
		return doc, err
	}
	if !ok {
		return doc, fmt.Errorf("inserted qa document %q not found", args.ID)
	}
	return doc, nil
}

func (q *Queries) QADocumentGet(ctx context.Context, args QADocumentID) (doc QADocument, ok bool, err error) {
	stmt := gorqlite.ParameterizedStatement{
		Query:     `select ` + qaDocumentColumns + ` from qa_document where container = ? and id = ?`,
		Arguments: []any{args.Container.String(), args.ID},
	}
	result, err := q.conn.QueryOneParameterizedContext(ctx, stmt)
	if err != nil {
		return QADocument{}, false, err
	}
	if !result.Next() {
		return QADocument{}, false, nil
	}
	if doc, err = scanQADocument(&result); err != nil {
		return QADocument{}, false, err
	}
	return doc, true, nil
}

type QADocumentListArgs struct {
	Container Container
	// Keyword filters documents whose answer contains it.
	Keyword   string
	Offset    int
	Limit     int
	Ascending bool
}

func (q *Queries) QADocumentList(ctx context.Context, args QADocumentListArgs) (docs []QADocument, total int64, err error) {
	where := `where container = ?`
	whereArgs := []any{args.Container.String()}
	if args.Keyword != "" {
		where += ` and answer like ?`
		whereArgs = append(whereArgs, "%"+args.Keyword+"%")
	}
	order := "desc"
	if args.Ascending {
		order = "asc"
	}

	countStmt := gorqlite.ParameterizedStatement{
		Query:     `select count(*) from qa_document ` + where,
		Arguments: whereArgs,
	}
	result, err := q.conn.QueryOneParameterizedContext(ctx, countStmt)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count qa documents: %w", err)
	}
	if result.Next() {
		if err = result.Scan(&total); err != nil {
			return nil, 0, err
		}
	}

	stmt := gorqlite.ParameterizedStatement{
		Query:     fmt.Sprintf(`select %s from qa_document %s order by created_at %s, position %s limit ? offset ?`, qaDocumentColumns, where, order, order),
		Arguments: append(append([]any{}, whereArgs...), args.Limit, args.Offset),
	}
	result, err = q.conn.QueryOneParameterizedContext(ctx, stmt)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list qa documents: %w", err)
	}
	for result.Next() {
		doc, err := scanQADocument(&result)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, doc)
	}
	return docs, total, nil
}

type QADocumentUpdateArgs struct {
	QADocumentID
	Question  string
	Answer    string
	UpdatedAt time.Time
}

func (q *Queries) QADocumentUpdate(ctx context.Context, args QADocumentUpdateArgs) (err error) {
	stmt := gorqlite.ParameterizedStatement{
		Query:     `update qa_document set question = ?, answer = ?, updated_at = ? where container = ? and id = ?`,
		Arguments: []any{args.Question, args.Answer, args.UpdatedAt.Unix(), args.Container.String(), args.ID},
	}
	_, err = q.conn.WriteOneParameterizedContext(ctx, stmt)
	return err
}

type QADocumentStatusArgs struct {
	QADocumentID
	Enabled bool
	Error   string
}

func (q *Queries) QADocumentSetStatus(ctx context.Context, args QADocumentStatusArgs) (err error) {
	stmt := gorqlite.ParameterizedStatement{
		Query:     `update qa_document set enabled = ?, error = ? where container = ? and id = ?`,
		Arguments: []any{boolToInt(args.Enabled), args.Error, args.Container.String(), args.ID},
	}
	_, err = q.conn.WriteOneParameterizedContext(ctx, stmt)
	return err
}

func (q *Queries) QADocumentDelete(ctx context.Context, args QADocumentID) (err error) {
	statements := []gorqlite.ParameterizedStatement{
		{
			Query:     `delete from qa_document_vec where document_id = ?`,
			Arguments: []any{args.ID},
		},
		{
			Query:     `delete from qa_document where container = ? and id = ?`,
			Arguments: []any{args.Container.String(), args.ID},
		},
	}
	if _, err = q.conn.WriteParameterizedContext(ctx, statements); err != nil {
		return err
	}
	return nil
}

func (q *Queries) QADocumentEmbeddingPut(ctx context.Context, id QADocumentID, embedding []float32) (err error) {
	embeddingJSON, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}
	statements := []gorqlite.ParameterizedStatement{
		{
			Query:     `delete from qa_document_vec where document_id = ?`,
			Arguments: []any{id.ID},
		},
		{
			Query:     `insert into qa_document_vec (document_id, container, embedding) values (?, ?, ?)`,
			Arguments: []any{id.ID, id.Container.String(), string(embeddingJSON)},
		},
	}
	_, err = q.conn.WriteParameterizedContext(ctx, statements)
	return err
}

func (q *Queries) QADocumentEmbeddingDelete(ctx context.Context, id QADocumentID) (err error) {
	stmt := gorqlite.ParameterizedStatement{
		Query:     `delete from qa_document_vec where document_id = ?`,
		Arguments: []any{id.ID},
	}
	_, err = q.conn.WriteOneParameterizedContext(ctx, stmt)
	return err
}

type QADocumentNearestArgs struct {
	Container Container
	Embedding []float32
	Limit     int
}

type QADocumentNearestResult struct {
	QADocument
	Distance float64
}

func (q *Queries) QADocumentNearest(ctx context.Context, args QADocumentNearestArgs) (docs []QADocumentNearestResult, err error) {
	inputEmbeddingJSON, err := json.Marshal(args.Embedding)
	if err != nil {
		return docs, fmt.Errorf("failed to marshal input embedding: %w", err)
	}
	columns := make([]string, 0, 11)
	for _, c := range strings.Split(qaDocumentColumns, ", ") {
		columns = append(columns, "d."+c)
	}
	stmt := gorqlite.ParameterizedStatement{
		Query: `with nearest as (
  select document_id, distance
  from qa_document_vec
  where container = ? and embedding match ?
  order by distance asc
  limit ?
)
select ` + strings.Join(columns, ", ") + `, n.distance
from nearest n
inner join qa_document d on d.id = n.document_id
where d.enabled = 1
order by n.distance asc;`,
		Arguments: []any{args.Container.String(), string(inputEmbeddingJSON), args.Limit},
	}
	result, err := q.conn.QueryOneParameterizedContext(ctx, stmt)
	if err != nil {
		return docs, err
	}
	for result.Next() {
		var r QADocumentNearestResult
		var enabled, createdAt, updatedAt int64
		if err = result.Scan(&r.ID, &r.Tenant, &r.Kind, &r.Container.ID, &r.Position, &r.Question, &r.Answer, &enabled, &r.Error, &createdAt, &updatedAt, &r.Distance); err != nil {
			return docs, err
		}
		r.Enabled = enabled != 0
		r.CreatedAt = time.Unix(createdAt, 0).UTC()
		r.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		docs = append(docs, r)
	}
	return docs, nil
}
