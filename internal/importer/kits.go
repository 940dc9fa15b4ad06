package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/mquinones/prepterm/internal/catalog"
	"github.com/mquinones/prepterm/internal/store"
)

// kitSchema constrains kit documents before anything touches the store.
const kitSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["course", "unit", "topic", "summary"],
		"properties": {
			"course": {"type": "string", "minLength": 1},
			"unit": {"type": "string", "minLength": 1},
			"topic": {"type": "string", "minLength": 1},
			"summary": {
				"type": "object",
				"required": ["bullets"],
				"properties": {
					"bullets": {"type": "array", "items": {"type": "string"}, "minItems": 1},
					"notes": {"type": "array", "items": {"type": "string"}}
				}
			},
			"methods": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["name", "steps"],
					"properties": {
						"name": {"type": "string", "minLength": 1},
						"when_to_use": {"type": "string"},
						"steps": {"type": "array", "items": {"type": "string"}, "minItems": 1}
					}
				}
			},
			"mistakes": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["mistake", "fix"],
					"properties": {
						"mistake": {"type": "string", "minLength": 1},
						"fix": {"type": "string", "minLength": 1}
					}
				}
			},
			"checks": {"type": "array", "items": {"type": "string"}}
		}
	}
}`

var (
	compiledKitSchema     *jsonschema.Schema
	compileKitSchemaOnce  sync.Once
	compileKitSchemaError error
)

func kitDocumentSchema() (*jsonschema.Schema, error) {
	compileKitSchemaOnce.Do(func() {
		parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(kitSchema)))
		if err != nil {
			compileKitSchemaError = fmt.Errorf("parse kit schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://learning-kits.json", parsed); err != nil {
			compileKitSchemaError = fmt.Errorf("add kit schema resource: %w", err)
			return
		}
		compiledKitSchema, compileKitSchemaError = c.Compile("schema://learning-kits.json")
	})
	return compiledKitSchema, compileKitSchemaError
}

type kitDocument struct {
	Course   string               `json:"course"`
	Unit     string               `json:"unit"`
	Topic    string               `json:"topic"`
	Summary  catalog.KitSummary   `json:"summary"`
	Methods  []catalog.KitMethod  `json:"methods"`
	Mistakes []catalog.KitMistake `json:"mistakes"`
	Checks   []string             `json:"checks"`
}

// ImportKits loads learning kits from a JSON file. The whole document is
// schema-validated first; any violation rejects the file.
func ImportKits(ctx context.Context, s *store.Store, path string) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read kit file: %w", err)
	}

	schema, err := kitDocumentSchema()
	if err != nil {
		return nil, err
	}

	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("kit file is not valid JSON: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("kit file failed validation: %w", err)
	}

	var docs []kitDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode kit file: %w", err)
	}

	result := &Result{Errors: make([]string, 0)}
	cache := newCatalogCache(s)

	for i, doc := range docs {
		result.TotalProcessed++
		_, _, topicID, err := cache.resolve(ctx, doc.Course, doc.Unit, doc.Topic)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("kit %d (%s): %v", i+1, doc.Topic, err))
			continue
		}

		kit := catalog.LearningKit{
			TopicID:  topicID,
			Summary:  doc.Summary,
			Methods:  doc.Methods,
			Mistakes: doc.Mistakes,
			Checks:   doc.Checks,
		}
		if err := s.UpsertKit(ctx, kit); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("kit %d (%s): %v", i+1, doc.Topic, err))
			continue
		}
		result.Created++
	}
	return result, nil
}
