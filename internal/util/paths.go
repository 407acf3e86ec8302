package util

import (
	"path/filepath"
	"strings"

	"txrecipe/internal/models"
)

// ResolvePath joins a task-relative path under root. Recipe paths are
// always interpreted relative to the output root: a leading "./" or
// "/" is stripped before joining. The cleaned result must stay inside
// root; a path that climbs out with ".." segments is rejected.
func ResolvePath(root, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "./")
	trimmed = strings.TrimPrefix(trimmed, "/")

	joined := filepath.Join(root, filepath.FromSlash(trimmed))

	rel, err := filepath.Rel(root, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", models.NewTaskError(models.ErrValidation, "path %q escapes the output root", raw)
	}

	return joined, nil
}
