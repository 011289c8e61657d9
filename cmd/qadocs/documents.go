package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/a-h/qadocs/client"
	"github.com/a-h/qadocs/models"
)

// ContainerFlags selects the server and the container to work with.
type ContainerFlags struct {
	ServerURL   string `help:"The URL of the QA document server." env:"QADOCS_SERVER_URL" default:"http://localhost:9020"`
	APIKey      string `help:"The API key for the QA document server." env:"QADOCS_API_KEY" default:""`
	Kind        string `help:"The kind of container." env:"QADOCS_CONTAINER_KIND" enum:"apps,datasets" default:"datasets"`
	ContainerID string `help:"The ID of the app or dataset." env:"QADOCS_CONTAINER_ID" required:""`
}

func (f ContainerFlags) documents() client.QADocuments {
	return client.New(f.ServerURL, f.APIKey).QADocuments(models.ContainerKind(f.Kind), f.ContainerID)
}

func writeJSON(v any, pretty bool) error {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

type ListCommand struct {
	ContainerFlags `embed:""`
	Keyword        string `help:"Only include documents whose answer contains the keyword."`
	Page           int    `help:"The page to list." default:"1"`
	Limit          int    `help:"The number of documents per page." default:"15"`
	Ascending      bool   `help:"List the oldest documents first."`
	Pretty         bool   `help:"Pretty print the JSON output." default:"true"`
}

func (c ListCommand) Run(ctx context.Context) (err error) {
	params := models.ListParams{
		Keyword: c.Keyword,
		Page:    c.Page,
		Limit:   c.Limit,
		Sort:    models.SortCreatedAtDesc,
	}
	if c.Ascending {
		params.Sort = models.SortCreatedAtAsc
	}
	page, err := c.documents().List(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to list qa documents: %w", err)
	}
	return writeJSON(page, c.Pretty)
}

type GetCommand struct {
	ContainerFlags `embed:""`
	ID             string `arg:"" help:"The ID of the QA document."`
	Pretty         bool   `help:"Pretty print the JSON output." default:"true"`
}

func (c GetCommand) Run(ctx context.Context) (err error) {
	doc, err := c.documents().Get(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to get qa document: %w", err)
	}
	return writeJSON(doc, c.Pretty)
}

type CreateCommand struct {
	ContainerFlags `embed:""`
	Question       string `help:"The question." required:""`
	Answer         string `help:"The answer." required:""`
	Pretty         bool   `help:"Pretty print the JSON output." default:"true"`
}

func (c CreateCommand) Run(ctx context.Context) (err error) {
	upd := models.QADocumentUpdator{Question: c.Question, Answer: c.Answer}
	if err = upd.Validate(); err != nil {
		return err
	}
	resp, err := c.documents().Create(ctx, upd)
	if err != nil {
		return fmt.Errorf("failed to create qa document: %w", err)
	}
	return writeJSON(resp, c.Pretty)
}

type UpdateCommand struct {
	ContainerFlags `embed:""`
	ID             string `arg:"" help:"The ID of the QA document."`
	Question       string `help:"The new question. Defaults to the current question."`
	Answer         string `help:"The new answer. Defaults to the current answer."`
	Pretty         bool   `help:"Pretty print the JSON output." default:"true"`
}

func (c UpdateCommand) Run(ctx context.Context) (err error) {
	docs := c.documents()
	current, err := docs.Get(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to get qa document: %w", err)
	}
	upd := models.QADocumentUpdator{Question: current.Question, Answer: current.Answer}
	if c.Question != "" {
		upd.Question = c.Question
	}
	if c.Answer != "" {
		upd.Answer = c.Answer
	}
	resp, err := docs.Update(ctx, c.ID, upd)
	if err != nil {
		return fmt.Errorf("failed to update qa document: %w", err)
	}
	return writeJSON(resp, c.Pretty)
}

type DeleteCommand struct {
	ContainerFlags `embed:""`
	ID             string `arg:"" help:"The ID of the QA document."`
}

func (c DeleteCommand) Run(ctx context.Context) (err error) {
	if err = c.documents().Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete qa document: %w", err)
	}
	return writeJSON(models.CommonResponse{Result: models.ResultSuccess}, false)
}

type MatchCommand struct {
	ContainerFlags `embed:""`
	Text           string `arg:"" help:"The text to match against the questions."`
	Limit          int    `help:"The maximum number of documents to return." default:"3"`
	Pretty         bool   `help:"Pretty print the JSON output." default:"true"`
}

func (c MatchCommand) Run(ctx context.Context) (err error) {
	resp, err := c.documents().Match(ctx, models.MatchPostRequest{
		Text:  c.Text,
		Limit: c.Limit,
	})
	if err != nil {
		return fmt.Errorf("failed to match qa documents: %w", err)
	}
	return writeJSON(resp, c.Pretty)
}
