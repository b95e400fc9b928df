package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/hilal/pkg/domain"
	"github.com/xeipuuv/gojsonschema"
)

// ErrCorruptBlob reports a stored value that does not match its key's schema.
var ErrCorruptBlob = errors.New("stored value is corrupt")

const taskDefinition = `{
  "type": "object",
  "required": ["id", "title"],
  "properties": {
    "id": { "type": "integer" },
    "title": { "type": "string" },
    "description": { "type": "string" },
    "hasChecklist": { "type": "boolean" },
    "isCompleted": { "type": "boolean" },
    "createdAt": { "type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$" },
    "checklistItems": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["id", "text"],
        "properties": {
          "id": { "type": "string" },
          "text": { "type": "string" },
          "isCompleted": { "type": "boolean" }
        }
      }
    }
  }
}`

const tasksByDateSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "propertyNames": { "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$" },
  "additionalProperties": { "type": ["array", "null"], "items": ` + taskDefinition + ` }
}`

const recurringSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": ["array", "null"],
  "items": ` + taskDefinition + `
}`

const dateSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "string",
  "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"
}`

const tasbeehSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": ["array", "null"],
  "items": {
    "type": "object",
    "required": ["id", "name", "target", "count"],
    "properties": {
      "id": { "type": "string" },
      "name": { "type": "string" },
      "text": { "type": "string" },
      "target": { "type": "integer", "minimum": 0 },
      "count": { "type": "integer", "minimum": 0 },
      "color": { "type": "string" }
    }
  }
}`

const recentSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": ["array", "null"],
  "items": {
    "type": "object",
    "required": ["id", "surah", "page"],
    "properties": {
      "id": { "type": "string" },
      "surah": { "type": "integer", "minimum": 1 },
      "verse": { "type": "integer" },
      "page": { "type": "integer", "minimum": 1 },
      "juz": { "type": "integer" }
    }
  }
}`

const boolSchemaJSON = `{ "type": "boolean" }`
const intSchemaJSON = `{ "type": "integer" }`
const stringSchemaJSON = `{ "type": "string" }`

var (
	tasksByDateSchemaLoader = gojsonschema.NewStringLoader(tasksByDateSchemaJSON)
	recurringSchemaLoader   = gojsonschema.NewStringLoader(recurringSchemaJSON)
	dateSchemaLoader        = gojsonschema.NewStringLoader(dateSchemaJSON)
	tasbeehSchemaLoader     = gojsonschema.NewStringLoader(tasbeehSchemaJSON)
	recentSchemaLoader      = gojsonschema.NewStringLoader(recentSchemaJSON)
	boolSchemaLoader        = gojsonschema.NewStringLoader(boolSchemaJSON)
	intSchemaLoader         = gojsonschema.NewStringLoader(intSchemaJSON)
	stringSchemaLoader      = gojsonschema.NewStringLoader(stringSchemaJSON)
)

var keySchemas = map[string]gojsonschema.JSONLoader{
	domain.KeyTasksByDate:     tasksByDateSchemaLoader,
	domain.KeyRecurringTasks:  recurringSchemaLoader,
	domain.KeyActiveDate:      dateSchemaLoader,
	domain.KeyTasbeehs:        tasbeehSchemaLoader,
	domain.KeyTasbeehActive:   stringSchemaLoader,
	domain.KeyVibration:       boolSchemaLoader,
	domain.KeySound:           boolSchemaLoader,
	domain.KeyRecentlyRead:    recentSchemaLoader,
	domain.KeyQuranFontSize:   intSchemaLoader,
	domain.KeyQuranDarkMode:   boolSchemaLoader,
	domain.KeyQuranShowArabic: boolSchemaLoader,
	domain.KeyLastReadSurah:   intSchemaLoader,
	domain.KeyLastReadVerse:   intSchemaLoader,
	domain.KeyLastReadPage:    intSchemaLoader,
	domain.KeyLastReadJuz:     intSchemaLoader,
}

// Validate checks raw against the schema registered for key. Keys without a
// schema only need to be well-formed JSON.
func Validate(key, raw string) error {
	loader, ok := keySchemas[key]
	if !ok {
		if !json.Valid([]byte(raw)) {
			return fmt.Errorf("%w: %s is not valid JSON", ErrCorruptBlob, key)
		}
		return nil
	}

	result, err := gojsonschema.Validate(loader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptBlob, key, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("%w: %s: %s", ErrCorruptBlob, key, strings.Join(msgs, "; "))
	}
	return nil
}

// LoadJSON reads and decodes the value under key. found is false when the
// key has never been written.
func LoadJSON[T any](ctx context.Context, s domain.Store, key string) (value T, found bool, err error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return value, false, err
	}
	if err := Validate(key, raw); err != nil {
		return value, true, err
	}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return value, true, fmt.Errorf("%w: %s: %v", ErrCorruptBlob, key, err)
	}
	return value, true, nil
}

// SaveJSON encodes v and writes it under key.
func SaveJSON(ctx context.Context, s domain.Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(data))
}
