package recipe

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"txrecipe/internal/models"
)

// Per-action task schemas. The executor re-checks required fields at
// dispatch time; these exist so `txrecipe check` can report shape
// problems without executing anything.
var actionSchemas = map[models.Action]string{
	models.ActionDownloadGithub: `{
		"type": "object",
		"required": ["action", "src", "dest"],
		"properties": {
			"action":  {"const": "download_github"},
			"src":     {"type": "string", "minLength": 1},
			"dest":    {"type": "string", "minLength": 1},
			"ref":     {"type": "string"},
			"subpath": {"type": "string"}
		}
	}`,
	models.ActionDownloadFile: `{
		"type": "object",
		"required": ["action", "url", "path"],
		"properties": {
			"action": {"const": "download_file"},
			"url":    {"type": "string", "minLength": 1},
			"path":   {"type": "string", "minLength": 1}
		}
	}`,
	models.ActionUnzip: `{
		"type": "object",
		"required": ["action", "src", "dest"],
		"properties": {
			"action": {"const": "unzip"},
			"src":    {"type": "string", "minLength": 1},
			"dest":   {"type": "string", "minLength": 1}
		}
	}`,
	models.ActionMovePath: `{
		"type": "object",
		"required": ["action", "src", "dest"],
		"properties": {
			"action":    {"const": "move_path"},
			"src":       {"type": "string", "minLength": 1},
			"dest":      {"type": "string", "minLength": 1},
			"overwrite": {"type": "boolean"}
		}
	}`,
	models.ActionRemovePath: `{
		"type": "object",
		"required": ["action", "path"],
		"properties": {
			"action": {"const": "remove_path"},
			"path":   {"type": "string", "minLength": 1}
		}
	}`,
	models.ActionWasteTime: `{
		"type": "object",
		"required": ["action"],
		"properties": {
			"action":  {"const": "waste_time"},
			"seconds": {"type": "number", "minimum": 0}
		}
	}`,
	models.ActionConnectDatabase: `{
		"type": "object",
		"required": ["action"]
	}`,
	models.ActionQueryDatabase: `{
		"type": "object",
		"required": ["action"]
	}`,
}

// Validator checks task shapes against the per-action schemas.
type Validator struct {
	schemas map[models.Action]*jsonschema.Schema
}

// NewValidator compiles all action schemas.
func NewValidator() (*Validator, error) {
	compiled := make(map[models.Action]*jsonschema.Schema, len(actionSchemas))
	for action, doc := range actionSchemas {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		url := fmt.Sprintf("txrecipe://schemas/%s.json", action)
		if err := c.AddResource(url, strings.NewReader(doc)); err != nil {
			return nil, fmt.Errorf("adding schema for %s: %w", action, err)
		}
		s, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compiling schema for %s: %w", action, err)
		}
		compiled[action] = s
	}
	return &Validator{schemas: compiled}, nil
}

// ValidateTask reports whether the task's fields satisfy the schema
// for its action. Unknown actions are a validation error.
func (v *Validator) ValidateTask(task *models.Task) error {
	schema, ok := v.schemas[task.Action]
	if !ok {
		return models.NewTaskError(models.ErrValidation, "unknown action %q", task.Action)
	}

	// The schemas speak JSON; round-trip the task so the validator
	// sees plain decoded values.
	raw, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encoding task: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decoding task: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return models.NewTaskError(models.ErrValidation, "%s task invalid: %v", task.Action, err)
	}
	return nil
}
