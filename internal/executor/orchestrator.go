package executor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"

	"txrecipe/internal/fetch"
	"txrecipe/internal/models"
)

// Orchestrator replays a recipe's tasks in declared order. It owns the
// scratch directory for the lifetime of one Run call and guarantees
// its release on every exit path.
type Orchestrator struct {
	run    Context
	engine *fetch.Engine

	// Out receives the user-facing progress and summary lines.
	Out io.Writer
}

// New prepares an orchestrator: the output root is created up front
// (it must exist before any task executes), and a scratch directory is
// allocated under os.TempDir in live mode only.
func New(outputDir string, settings models.Settings, verbose, dryRun bool) (*Orchestrator, error) {
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("resolving output directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	runID := ulid.Make().String()

	var scratch string
	if !dryRun {
		scratch = filepath.Join(os.TempDir(), "txrecipe-"+runID)
		if err := os.MkdirAll(scratch, 0755); err != nil {
			return nil, fmt.Errorf("creating scratch directory: %w", err)
		}
		slog.Debug("created scratch directory", "path", scratch)
	}

	run := Context{
		OutputDir: abs,
		Scratch:   scratch,
		RunID:     runID,
		Verbose:   verbose,
		DryRun:    dryRun,
	}

	return &Orchestrator{
		run:    run,
		engine: fetch.NewEngine(settings, scratch),
		Out:    os.Stdout,
	}, nil
}

// Engine exposes the fetch engine, for preflight probing.
func (o *Orchestrator) Engine() *fetch.Engine {
	return o.engine
}

// ScratchDir reports the scratch directory path, empty in dry-run mode
// or after cleanup.
func (o *Orchestrator) ScratchDir() string {
	return o.run.Scratch
}

// Run executes every task and reports aggregate counts. No task's
// failure halts the run; context cancellation stops it between tasks.
// The summary and the scratch cleanup happen on every path.
func (o *Orchestrator) Run(ctx context.Context, rec *models.Recipe) *models.RunResult {
	defer o.Cleanup()

	result := &models.RunResult{RecipeName: rec.Name, OutputDir: o.run.OutputDir}
	total := len(rec.Tasks)
	if total == 0 {
		slog.Warn("no tasks found in recipe", "recipe", rec.Name)
		return result
	}

	if o.run.DryRun {
		fmt.Fprintf(o.Out, "\nDRY-RUN MODE: creating folder structure for %d tasks...\n", total)
		fmt.Fprintln(o.Out, strings.Repeat("=", 60))
		fmt.Fprintln(o.Out, "Note: dry-run only creates parent folders with [brackets]")
		fmt.Fprintln(o.Out, "Resource folders are created during actual clone operations")
	} else {
		fmt.Fprintf(o.Out, "\nProcessing %d tasks...\n", total)
	}
	fmt.Fprintln(o.Out, strings.Repeat("=", 60))

	for i, task := range rec.Tasks {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}

		if task == nil {
			result.Record(models.TaskSkipped)
			continue
		}

		idx := i + 1
		if o.run.DryRun {
			percent := int(math.Round(float64(idx) / float64(total) * 100))
			fmt.Fprintf(o.Out, "\n[%d/%d] (%d%%) Processing: %s\n", idx, total, percent, task.Action)
		} else {
			fmt.Fprintf(o.Out, "\n[%d/%d] Processing: %s\n", idx, total, task.Action)
		}
		if target := task.Target(); target != "" {
			fmt.Fprintf(o.Out, "  -> %s\n", target)
		}

		if err := o.dispatch(ctx, task); err != nil {
			result.Record(models.TaskFailed)
			if models.ErrorTypeOf(err) == models.ErrValidation {
				slog.Warn("task failed", "index", idx, "action", task.Action, "error", err)
			} else {
				slog.Error("task failed", "index", idx, "action", task.Action, "error", err)
			}
			fmt.Fprintln(o.Out, "✗ Failed")
		} else {
			result.Record(models.TaskSucceeded)
			fmt.Fprintln(o.Out, "✓ Success")
		}
	}

	fmt.Fprintln(o.Out, "\n"+strings.Repeat("=", 60))
	fmt.Fprintf(o.Out, "Results: %d successful, %d failed, %d skipped\n",
		result.Successful, result.Failed, result.Skipped)
	fmt.Fprintf(o.Out, "Output directory: %s\n", o.run.OutputDir)

	return result
}

// Cleanup removes the scratch directory. It is safe to call more than
// once; dry-run has nothing to release.
func (o *Orchestrator) Cleanup() {
	if o.run.Scratch == "" {
		return
	}
	if err := os.RemoveAll(o.run.Scratch); err != nil {
		slog.Warn("failed to remove scratch directory", "path", o.run.Scratch, "error", err)
		return
	}
	slog.Debug("removed scratch directory", "path", o.run.Scratch)
	o.run.Scratch = ""
}
