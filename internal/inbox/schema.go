// Package inbox accepts events from the capture side: JSON files dropped
// into a directory, validated against JSON Schema before they reach the
// queue.
package inbox

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/asteroid-belt/solvesync/internal/models"
)

// ErrInvalidEvent wraps every schema or decoding failure.
var ErrInvalidEvent = errors.New("invalid event")

const submissionSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["slug", "source", "at"],
  "properties": {
    "slug": {"type": "string", "minLength": 1, "pattern": "^[a-z0-9][a-z0-9-]*$"},
    "title": {"type": "string"},
    "category": {"type": "string"},
    "listName": {"type": "string"},
    "difficulty": {"type": "string"},
    "language": {"type": "string"},
    "code": {"type": "string"},
    "meta": {
      "type": "object",
      "properties": {
        "runtime": {"type": "string"},
        "memory": {"type": "string"}
      }
    },
    "source": {"enum": ["dom", "intercept", "manual"]},
    "at": {"type": "integer", "minimum": 0}
  }
}`

const catalogSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["entries"],
  "properties": {
    "entries": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["sourceUrl"],
        "properties": {
          "title": {"type": "string"},
          "category": {"type": "string"},
          "listName": {"type": "string"},
          "difficulty": {"type": "string"},
          "sourceUrl": {"type": "string", "minLength": 1}
        }
      }
    },
    "updatedAt": {"type": "integer"}
  }
}`

// Event is a decoded inbound event; exactly one field is set.
type Event struct {
	Submission *models.SubmissionPayload
	Catalog    *models.CatalogEvent
}

// Validator checks inbound documents against the event schemas.
type Validator struct {
	submission *jsonschema.Schema
	catalog    *jsonschema.Schema
}

// NewValidator compiles the event schemas.
func NewValidator() (*Validator, error) {
	c := jsonschema.NewCompiler()
	for name, src := range map[string]string{
		"submission.json": submissionSchema,
		"catalog.json":    catalogSchema,
	} {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		if err := c.AddResource(name, doc); err != nil {
			return nil, fmt.Errorf("add %s: %w", name, err)
		}
	}

	submission, err := c.Compile("submission.json")
	if err != nil {
		return nil, fmt.Errorf("compile submission schema: %w", err)
	}
	catalog, err := c.Compile("catalog.json")
	if err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}
	return &Validator{submission: submission, catalog: catalog}, nil
}

// Decode validates data and decodes it as a catalog event when it has an
// "entries" object, otherwise as a submission.
func (v *Validator) Decode(data []byte) (Event, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	obj, _ := inst.(map[string]any)
	if _, isCatalog := obj["entries"]; isCatalog {
		if err := v.catalog.Validate(inst); err != nil {
			return Event{}, fmt.Errorf("%w: catalog: %v", ErrInvalidEvent, err)
		}
		var ev models.CatalogEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return Event{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
		}
		return Event{Catalog: &ev}, nil
	}

	if err := v.submission.Validate(inst); err != nil {
		return Event{}, fmt.Errorf("%w: submission: %v", ErrInvalidEvent, err)
	}
	var p models.SubmissionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return Event{Submission: &p}, nil
}
