package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/a-h/qadocs/models"
	"github.com/pluja/pocketbase"
	"gopkg.in/yaml.v3"
)

type ImportCommand struct {
	ContainerFlags `embed:""`
	File           string `help:"A YAML file containing a list of question and answer pairs." env:"FILE" default:""`
	PocketbaseURL  string `help:"The URL of the Pocketbase server to import from." env:"POCKETBASE_URL" default:""`
	ID             string `help:"The ID of the Pocketbase record to import if you just want to import a single record." env:"ID" default:""`
	Collection     string `help:"The name of the collection to export from." env:"COLLECTION" default:"faqs"`
	Expand         string `help:"The fields to expand." env:"EXPAND" default:""`
	QuestionField  string `help:"The record field that holds the question." env:"QUESTION_FIELD" default:"question"`
	AnswerField    string `help:"The record field that holds the answer. If missing, the rest of the record is used as the answer." env:"ANSWER_FIELD" default:"answer"`
	DryRun         bool   `help:"Do not actually import the documents." env:"DRY_RUN" default:"false"`
	LogLevel       string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

var errNoImportSource = errors.New("either --file or --pocketbase-url must be set")

func (c ImportCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)
	docs := c.documents()

	var pairs iter.Seq[QAPair]
	var sourceErr func() error
	switch {
	case c.File != "":
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		filePairs, err := readPairs(f)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", c.File, err)
		}
		pairs = func(yield func(QAPair) bool) {
			for _, p := range filePairs {
				if !yield(p) {
					return
				}
			}
		}
		sourceErr = func() error { return nil }
	case c.PocketbaseURL != "":
		pbe := NewPocketbaseExporter(pocketbase.NewClient(c.PocketbaseURL), c.Collection, c.Expand, c.QuestionField, c.AnswerField)
		pairs = pbe.Export(ctx)
		sourceErr = func() error { return pbe.Error }
	default:
		return errNoImportSource
	}

	var imported, skipped int
	for pair := range pairs {
		if c.ID != "" && pair.ID != c.ID {
			continue
		}
		upd := models.QADocumentUpdator{Question: pair.Question, Answer: pair.Answer}
		if err := upd.Validate(); err != nil {
			log.Warn("skipping invalid pair", slog.String("id", pair.ID), slog.Any("error", err))
			skipped++
			continue
		}
		if c.DryRun {
			log.Info("skipping import in dry run mode", slog.String("id", pair.ID), slog.String("question", pair.Question))
			continue
		}
		resp, err := docs.Create(ctx, upd)
		if err != nil {
			return fmt.Errorf("failed to create qa document: %w", err)
		}
		imported++
		log.Info("qa document imported", slog.String("id", resp.Data.ID), slog.Int("position", int(resp.Data.Position)), slog.Bool("enabled", resp.Data.Enabled))
	}
	log.Info("import complete", slog.Int("imported", imported), slog.Int("skipped", skipped))
	return sourceErr()
}

// QAPair is a question and answer read from an import source.
type QAPair struct {
	ID       string `yaml:"id"`
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

func readPairs(r io.Reader) (pairs []QAPair, err error) {
	if err = yaml.NewDecoder(r).Decode(&pairs); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	for i := range pairs {
		if pairs[i].ID == "" {
			pairs[i].ID = fmt.Sprintf("%d", i+1)
		}
	}
	return pairs, nil
}

func NewPocketbaseExporter(client *pocketbase.Client, collection, expand, questionField, answerField string) *PocketbaseExporter {
	return &PocketbaseExporter{
		client:        client,
		collection:    collection,
		expand:        expand,
		questionField: questionField,
		answerField:   answerField,
		PageSize:      10,
		Error:         nil,
	}
}

type PocketbaseExporter struct {
	client        *pocketbase.Client
	collection    string
	expand        string
	questionField string
	answerField   string
	PageSize      int
	Error         error
}

func (p *PocketbaseExporter) Export(ctx context.Context) iter.Seq[QAPair] {
	var page int
	return func(yield func(QAPair) bool) {
		for {
			if ctx.Err() != nil {
				return
			}
			if p.Error != nil {
				return
			}
			page++
			response, err := p.client.List(p.collection, pocketbase.ParamsList{
				Page:   page,
				Size:   p.PageSize,
				Sort:   "created",
				Expand: p.expand,
			})
			if err != nil {
				p.Error = err
				return
			}
			if len(response.Items) == 0 {
				return
			}
			for _, item := range response.Items {
				if !yield(p.createPair(item)) {
					return
				}
			}
		}
	}
}

func useItemOrDefault(item map[string]any, keys []string, defaultValue string) string {
	for _, key := range keys {
		if value, ok := item[key].(string); ok {
			return value
		}
	}
	return defaultValue
}

// createPair reads the question and answer fields of a record. Records
// without an answer field are answered with the rest of the record as YAML.
func (p *PocketbaseExporter) createPair(item map[string]any) (pair QAPair) {
	pair.ID, _ = item["id"].(string)
	pair.Question = useItemOrDefault(item, []string{p.questionField, "title", "name"}, "")
	if answer, ok := item[p.answerField].(string); ok {
		pair.Answer = answer
		return pair
	}

	recursivelyApplyExpandedFields(item)
	recursivelyRemoveKeys(item, []string{"id", "collectionId", "collectionName", "created", "updated", p.questionField, "title", "name"})
	if len(item) == 0 {
		return pair
	}
	sb := new(strings.Builder)
	_ = yaml.NewEncoder(sb).Encode(item)
	pair.Answer = sb.String()
	return pair
}

func applyExpandedFields(data map[string]any) (changed bool) {
	for key, value := range data {
		if key == "expand" {
			expandMap, ok := value.(map[string]any)
			if !ok {
				continue
			}

			// Replace references with their expanded records.
			for parentKey := range data {
				if parentKey == "expand" {
					continue
				}
				if expandedValue, found := expandMap[parentKey]; found {
					data[parentKey] = expandedValue
					changed = true
				}
			}

			delete(data, "expand")
			changed = true
		} else if nestedMap, ok := value.(map[string]any); ok {
			if applyExpandedFields(nestedMap) {
				changed = true
			}
		} else if nestedSlice, ok := value.([]any); ok {
			for _, item := range nestedSlice {
				if itemMap, isMap := item.(map[string]any); isMap {
					if applyExpandedFields(itemMap) {
						changed = true
					}
				}
			}
		}
	}

	return changed
}

func recursivelyApplyExpandedFields(data map[string]any) {
	for {
		if changesMade := applyExpandedFields(data); !changesMade {
			return
		}
	}
}

func recursivelyRemoveKeys(item any, keys []string) {
	switch item := item.(type) {
	case map[string]any:
		for _, key := range keys {
			delete(item, key)
		}
		var emptyKeys []string
		for k, v := range item {
			switch v := v.(type) {
			case map[string]any:
				if len(v) == 0 {
					emptyKeys = append(emptyKeys, k)
				}
			case []any:
				if len(v) == 0 {
					emptyKeys = append(emptyKeys, k)
				}
			case string:
				if v == "" {
					emptyKeys = append(emptyKeys, k)
				}
			}
			recursivelyRemoveKeys(v, keys)
		}
		for _, key := range emptyKeys {
			delete(item, key)
		}
	case []any:
		for _, value := range item {
			recursivelyRemoveKeys(value, keys)
		}
	}
}
