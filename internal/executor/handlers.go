package executor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"txrecipe/internal/fetch"
	"txrecipe/internal/models"
	"txrecipe/internal/util"
)

func (o *Orchestrator) handleDownloadGithub(ctx context.Context, task *models.Task) error {
	if task.Src == "" || task.Dest == "" {
		return models.NewTaskError(models.ErrValidation, "download_github requires src and dest")
	}
	ref := task.Ref
	if ref == "" {
		ref = "main"
	}

	dest, err := util.ResolvePath(o.run.OutputDir, task.Dest)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating destination parent: %w", err)
	}

	if o.run.DryRun {
		return o.planGithub(task, dest, ref)
	}

	slog.Info("cloning repository", "src", task.Src, "ref", ref, "dest", dest)
	return o.engine.CloneRepository(ctx, task.Src, ref, task.Subpath, dest)
}

// planGithub simulates a clone: it creates only the structural parent
// folders and logs what a live run would fetch. Placeholder and
// unparseable sources are warnings here, not failures, so a template
// recipe can still be previewed end to end.
func (o *Orchestrator) planGithub(task *models.Task, dest, ref string) error {
	if prefix := StructuralPrefix(task.Dest); prefix != "" {
		full := filepath.Join(o.run.OutputDir, prefix)
		if err := os.MkdirAll(full, 0755); err != nil {
			return fmt.Errorf("creating parent structure: %w", err)
		}
		slog.Info("created parent structure", "path", full)
	}

	resource := filepath.Base(dest)
	if task.Src == fetch.PlaceholderURL {
		slog.Info("would clone placeholder repository", "resource", resource, "ref", ref, "target", dest)
		return nil
	}

	owner, repo, err := fetch.ParseRepoSource(task.Src)
	if err != nil {
		slog.Warn("would clone unparseable source", "src", task.Src, "resource", resource, "target", dest)
		return nil
	}

	slog.Info("would clone", "repo", owner+"/"+repo, "ref", ref, "subpath", task.Subpath, "resource", resource, "target", dest)
	return nil
}

func (o *Orchestrator) handleDownloadFile(ctx context.Context, task *models.Task) error {
	if task.URL == "" || task.Path == "" {
		return models.NewTaskError(models.ErrValidation, "download_file requires url and path")
	}

	dest, err := util.ResolvePath(o.run.OutputDir, task.Path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating destination parent: %w", err)
	}

	if o.run.DryRun {
		slog.Info("would download", "url", task.URL, "dest", dest)
		return nil
	}

	slog.Info("downloading file", "url", task.URL, "dest", dest)
	return o.engine.DownloadFile(ctx, task.URL, dest)
}

func (o *Orchestrator) handleUnzip(task *models.Task) error {
	if task.Src == "" || task.Dest == "" {
		return models.NewTaskError(models.ErrValidation, "unzip requires src and dest")
	}

	src, err := util.ResolvePath(o.run.OutputDir, task.Src)
	if err != nil {
		return err
	}
	dest, err := util.ResolvePath(o.run.OutputDir, task.Dest)
	if err != nil {
		return err
	}

	if o.run.DryRun {
		if err := os.MkdirAll(dest, 0755); err != nil {
			return fmt.Errorf("creating destination: %w", err)
		}
		slog.Info("would extract", "src", src, "dest", dest)
		return nil
	}

	if _, err := os.Stat(src); err != nil {
		return models.NewTaskError(models.ErrValidation, "source archive not found: %s", src)
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	slog.Info("extracting archive", "src", src, "dest", dest)
	return extractZip(src, dest)
}

func (o *Orchestrator) handleMovePath(task *models.Task) error {
	if task.Src == "" || task.Dest == "" {
		return models.NewTaskError(models.ErrValidation, "move_path requires src and dest")
	}

	src, err := util.ResolvePath(o.run.OutputDir, task.Src)
	if err != nil {
		return err
	}
	dest, err := util.ResolvePath(o.run.OutputDir, task.Dest)
	if err != nil {
		return err
	}

	if o.run.DryRun {
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return fmt.Errorf("creating destination parent: %w", err)
		}
		slog.Info("would move", "src", src, "dest", dest, "overwrite", task.Overwrite)
		return nil
	}

	if _, err := os.Stat(src); err != nil {
		return models.NewTaskError(models.ErrValidation, "source path not found: %s", src)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating destination parent: %w", err)
	}

	if _, err := os.Stat(dest); err == nil {
		if !task.Overwrite {
			return models.NewTaskError(models.ErrFilesystemConflict,
				"destination already exists and overwrite is false: %s", dest)
		}
		if err := os.RemoveAll(dest); err != nil {
			return fmt.Errorf("removing existing destination: %w", err)
		}
	}

	slog.Info("moving path", "src", src, "dest", dest)
	if err := util.MovePath(src, dest); err != nil {
		return fmt.Errorf("moving path: %w", err)
	}
	return nil
}

func (o *Orchestrator) handleRemovePath(task *models.Task) error {
	if task.Path == "" {
		return models.NewTaskError(models.ErrValidation, "remove_path requires path")
	}

	target, err := util.ResolvePath(o.run.OutputDir, task.Path)
	if err != nil {
		return err
	}

	if o.run.DryRun {
		slog.Info("would remove", "path", target)
		return nil
	}

	// Removing an absent path is a success: the desired state holds.
	if _, err := os.Stat(target); os.IsNotExist(err) {
		slog.Debug("path already absent", "path", target)
		return nil
	}

	slog.Info("removing path", "path", target)
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("removing %s: %w", target, err)
	}
	return nil
}

func (o *Orchestrator) handleWasteTime(ctx context.Context, task *models.Task) error {
	if task.Seconds <= 0 {
		return nil
	}

	if o.run.DryRun {
		slog.Info("would wait", "seconds", task.Seconds)
		return nil
	}

	slog.Info("throttling", "seconds", task.Seconds)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(task.Seconds * float64(time.Second))):
		return nil
	}
}
