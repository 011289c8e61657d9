package models

import (
	"encoding/json"
	"testing"
)

func TestPositionUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Position
		err      bool
	}{
		{
			name:     "numbers are accepted",
			input:    `{"position":3}`,
			expected: 3,
		},
		{
			name:     "numeric strings are accepted",
			input:    `{"position":"12"}`,
			expected: 12,
		},
		{
			name:     "null is zero",
			input:    `{"position":null}`,
			expected: 0,
		},
		{
			name:  "non-numeric strings are rejected",
			input: `{"position":"abc"}`,
			err:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc QADocument
			err := json.Unmarshal([]byte(tt.input), &doc)
			if tt.err {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if doc.Position != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, doc.Position)
			}
		})
	}
}

func TestPositionTag(t *testing.T) {
	tests := []struct {
		position Position
		expected string
	}{
		{position: 1, expected: "001"},
		{position: 42, expected: "042"},
		{position: 1234, expected: "1234"},
	}
	for _, tt := range tests {
		if actual := tt.position.Tag(); actual != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, actual)
		}
	}
}

func TestPageMarshalEmptyData(t *testing.T) {
	b, err := json.Marshal(QADocumentPage{Limit: 15, Page: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `{"data":[],"has_more":false,"limit":15,"total":0,"page":1}`
	if string(b) != expected {
		t.Errorf("expected %s, got %s", expected, b)
	}
}

func TestUpdatorValidate(t *testing.T) {
	tests := []struct {
		name     string
		input    QADocumentUpdator
		expected error
	}{
		{name: "both present", input: QADocumentUpdator{Question: "Q", Answer: "A"}},
		{name: "surrounding whitespace is allowed", input: QADocumentUpdator{Question: " Q ", Answer: "\tA\n"}},
		{name: "empty question", input: QADocumentUpdator{Question: "", Answer: "A"}, expected: ErrQuestionEmpty},
		{name: "blank question", input: QADocumentUpdator{Question: "   ", Answer: "A"}, expected: ErrQuestionEmpty},
		{name: "empty answer", input: QADocumentUpdator{Question: "Q", Answer: ""}, expected: ErrAnswerEmpty},
		{name: "question is checked first", input: QADocumentUpdator{}, expected: ErrQuestionEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.input.Validate(); err != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}
