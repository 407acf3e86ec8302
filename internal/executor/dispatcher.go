package executor

import (
	"context"
	"log/slog"

	"txrecipe/internal/models"
)

// dispatch routes one task to its handler. The action vocabulary is
// closed; database actions are acknowledged but never executed, and
// anything else fails the task without crashing the run.
func (o *Orchestrator) dispatch(ctx context.Context, task *models.Task) error {
	switch task.Action {
	case models.ActionDownloadGithub:
		return o.handleDownloadGithub(ctx, task)
	case models.ActionDownloadFile:
		return o.handleDownloadFile(ctx, task)
	case models.ActionUnzip:
		return o.handleUnzip(task)
	case models.ActionMovePath:
		return o.handleMovePath(task)
	case models.ActionRemovePath:
		return o.handleRemovePath(task)
	case models.ActionWasteTime:
		return o.handleWasteTime(ctx, task)
	case models.ActionConnectDatabase, models.ActionQueryDatabase:
		slog.Info("database action acknowledged, not executed", "action", task.Action)
		return nil
	default:
		return models.NewTaskError(models.ErrValidation, "unknown action %q", task.Action)
	}
}
