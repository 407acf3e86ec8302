// Package recipe loads txAdmin recipe documents and validates their
// task shapes.
package recipe

import (
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"txrecipe/internal/models"
)

// Load reads and parses a recipe file. Lines whose first non-whitespace
// character is '$' carry txAdmin extension variables and are dropped
// before YAML parsing. A load failure is fatal for the run.
func Load(path string) (*models.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, models.NewTaskError(models.ErrConfig, "reading recipe: %v", err)
	}

	var rec models.Recipe
	if err := yaml.Unmarshal(stripExtensionVars(data), &rec); err != nil {
		return nil, models.NewTaskError(models.ErrConfig, "parsing recipe: %v", err)
	}

	slog.Debug("loaded recipe", "name", rec.Name, "tasks", len(rec.Tasks))
	return &rec, nil
}

func stripExtensionVars(data []byte) []byte {
	lines := strings.Split(string(data), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "$") {
			continue
		}
		kept = append(kept, line)
	}
	return []byte(strings.Join(kept, "\n"))
}
