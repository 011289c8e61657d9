package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ContainerKind is the family of entity that owns a collection of QA documents.
type ContainerKind string

const (
	ContainerApps     ContainerKind = "apps"
	ContainerDatasets ContainerKind = "datasets"
)

var ContainerKinds = []ContainerKind{ContainerApps, ContainerDatasets}

func (k ContainerKind) Valid() bool {
	return k == ContainerApps || k == ContainerDatasets
}

// Position is the display ordinal of a QA document within its container.
// It is not a stable key: use the ID for mutations.
type Position int

// UnmarshalJSON accepts both numbers and numeric strings.
func (p *Position) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*p = 0
		return nil
	}
	v, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid position %q: %w", data, err)
	}
	*p = Position(v)
	return nil
}

func (p Position) String() string {
	return strconv.Itoa(int(p))
}

// Tag formats the position as shown on the detail view, zero padded to 3 digits.
func (p Position) Tag() string {
	return fmt.Sprintf("%03d", int(p))
}

type QADocument struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Enabled  bool     `json:"enabled"`
	// Error is set when the document could not be indexed.
	Error     string `json:"error,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// QADocumentUpdator is the write payload for create and update.
type QADocumentUpdator struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type QADocumentResponse struct {
	Data QADocument `json:"data"`
}

type Sort string

const (
	SortCreatedAtAsc  Sort = "created_at"
	SortCreatedAtDesc Sort = "-created_at"
)

type ListParams struct {
	Keyword string
	Page    int
	Limit   int
	Sort    Sort
}

type QADocumentPage struct {
	Data    []QADocument `json:"data"`
	HasMore bool         `json:"has_more"`
	Limit   int          `json:"limit"`
	Total   int          `json:"total"`
	Page    int          `json:"page"`
}

type CommonResponse struct {
	Result string `json:"result"`
}

const ResultSuccess = "success"

// MarshalJSON keeps data as an empty array rather than null.
func (p QADocumentPage) MarshalJSON() ([]byte, error) {
	type page QADocumentPage
	if p.Data == nil {
		p.Data = []QADocument{}
	}
	return json.Marshal(page(p))
}

var (
	ErrQuestionEmpty = errors.New("question is empty")
	ErrAnswerEmpty   = errors.New("answer is empty")
)

// Validate rejects payloads whose question or answer is blank. The values
// themselves are sent untrimmed.
func (u QADocumentUpdator) Validate() error {
	if strings.TrimSpace(u.Question) == "" {
		return ErrQuestionEmpty
	}
	if strings.TrimSpace(u.Answer) == "" {
		return ErrAnswerEmpty
	}
	return nil
}
