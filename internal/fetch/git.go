package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"txrecipe/internal/models"
	"txrecipe/internal/util"
)

// PlaceholderURL is the token txAdmin recipes use for a source the
// recipe author still has to fill in. It is never a valid clone source.
const PlaceholderURL = "<GITHUB_URL>"

// Engine performs clones and downloads on behalf of the orchestrator.
// The scratch directory is lent to it for the duration of one run and
// owned (created and deleted) by the orchestrator.
type Engine struct {
	settings  models.Settings
	scratch   string
	client    *http.Client
	chunkSize int
}

// NewEngine builds an Engine around the given settings and scratch
// directory. Scratch may be empty only when the engine will never be
// asked to fetch (dry-run mode).
func NewEngine(settings models.Settings, scratch string) *Engine {
	chunk, err := util.ParseSize(settings.DownloadChunkSize)
	if err != nil || chunk <= 0 {
		slog.Warn("invalid download chunk size, using 8K", "value", settings.DownloadChunkSize)
		chunk = 8 * 1024
	}
	return &Engine{
		settings: settings,
		scratch:  scratch,
		client: &http.Client{
			Timeout: time.Duration(settings.DownloadTimeoutSec * float64(time.Second)),
		},
		chunkSize: chunk,
	}
}

// ParseRepoSource extracts owner and repo from a GitHub URL. The URL
// path must carry at least those two segments; the placeholder token
// is rejected outright.
func ParseRepoSource(src string) (owner, repo string, err error) {
	if src == "" || src == PlaceholderURL {
		return "", "", models.NewTaskError(models.ErrValidation, "invalid GitHub URL: %q", src)
	}
	u, err := url.Parse(src)
	if err != nil {
		return "", "", models.NewTaskError(models.ErrValidation, "invalid GitHub URL %q: %v", src, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", models.NewTaskError(models.ErrValidation, "invalid GitHub URL: %q", src)
	}
	return parts[0], parts[1], nil
}

// CloneRepository fetches src at ref into dest, optionally narrowing to
// subpath. The clone lands in scratch first; version-control metadata
// is purged before the tree is relocated. An existing destination is
// replaced wholesale, never merged. The whole operation is retried on
// transient failure.
func (e *Engine) CloneRepository(ctx context.Context, src, ref, subpath, dest string) error {
	owner, repo, err := ParseRepoSource(src)
	if err != nil {
		return err
	}

	cloneDir := filepath.Join(e.scratch, fmt.Sprintf("%s_%s_%s", owner, repo, sanitizeRef(ref)))

	return WithRetry(ctx, e.settings.Retry, "clone "+owner+"/"+repo, func() error {
		// A half-finished clone from a previous attempt would make
		// git refuse to reuse the directory.
		if err := os.RemoveAll(cloneDir); err != nil {
			return fmt.Errorf("clearing scratch clone: %w", err)
		}

		if err := e.clone(ctx, src, ref, cloneDir); err != nil {
			return err
		}

		if err := os.RemoveAll(filepath.Join(cloneDir, ".git")); err != nil {
			return fmt.Errorf("purging git metadata: %w", err)
		}

		return e.relocate(cloneDir, subpath, dest, owner, repo)
	})
}

// clone picks the strategy by ref type: commit hashes need a full
// clone plus an explicit checkout (failure is fatal); named refs get a
// shallow single-branch clone with a fallback to the default branch.
func (e *Engine) clone(ctx context.Context, src, ref, cloneDir string) error {
	if ClassifyRef(ref) == RefCommitHash {
		slog.Debug("ref looks like a commit hash, cloning full repository", "ref", ref)
		if err := e.git(ctx, e.cloneTimeout(), "", "clone", src, cloneDir); err != nil {
			return err
		}
		if err := e.git(ctx, e.checkoutTimeout(), cloneDir, "checkout", ref); err != nil {
			if models.ErrorTypeOf(err) == models.ErrFetchTimeout {
				return err
			}
			return models.NewTaskError(models.ErrCheckoutFailed, "checking out %s: %v", ref, err)
		}
		return nil
	}

	slog.Debug("attempting shallow clone", "ref", ref)
	err := e.git(ctx, e.cloneTimeout(), "", "clone", "--depth", "1", "--branch", ref, src, cloneDir)
	if err == nil {
		return nil
	}
	if models.ErrorTypeOf(err) == models.ErrFetchTimeout {
		return err
	}

	slog.Warn("shallow clone of ref failed, falling back to default branch", "ref", ref, "error", err)
	if err := os.RemoveAll(cloneDir); err != nil {
		return fmt.Errorf("clearing failed clone: %w", err)
	}
	if err := e.git(ctx, e.cloneTimeout(), "", "clone", "--depth", "1", src, cloneDir); err != nil {
		return err
	}

	if ref != "main" && ref != "master" {
		if err := e.git(ctx, e.checkoutTimeout(), cloneDir, "checkout", ref); err != nil {
			slog.Warn("could not check out ref, using default branch content", "ref", ref, "error", err)
		}
	}
	return nil
}

// relocate moves the scratch clone (or its subpath) to dest.
func (e *Engine) relocate(cloneDir, subpath, dest, owner, repo string) error {
	srcDir := cloneDir
	if subpath != "" {
		srcDir = filepath.Join(cloneDir, subpath)
		if _, err := os.Stat(srcDir); err != nil {
			return models.NewTaskError(models.ErrSubpathNotFound,
				"subpath %q not found in %s/%s (repository contains: %s)",
				subpath, owner, repo, strings.Join(listDirs(cloneDir), ", "))
		}
	}

	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("replacing destination: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating destination parent: %w", err)
	}

	if err := util.MovePath(srcDir, dest); err != nil {
		return fmt.Errorf("relocating clone: %w", err)
	}
	slog.Info("cloned repository", "repo", owner+"/"+repo, "dest", dest)
	return nil
}

// git runs one git subcommand with a timeout. A deadline hit is
// reported as fetch_timeout, never silently swallowed.
func (e *Engine) git(ctx context.Context, timeout time.Duration, dir string, args ...string) error {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, "git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if errors.Is(cctx.Err(), context.DeadlineExceeded) {
		return models.NewTaskError(models.ErrFetchTimeout, "git %s timed out after %s", args[0], timeout)
	}
	return fmt.Errorf("git %s: %v: %s", args[0], err, strings.TrimSpace(stderr.String()))
}

func (e *Engine) cloneTimeout() time.Duration {
	return time.Duration(e.settings.CloneTimeoutSec * float64(time.Second))
}

func (e *Engine) checkoutTimeout() time.Duration {
	return time.Duration(e.settings.CheckoutTimeoutSec * float64(time.Second))
}

// listDirs enumerates directories inside root as a diagnostic aid when
// a requested subpath does not exist. Dot-directories are skipped.
func listDirs(root string) []string {
	var dirs []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() || path == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if rel, err := filepath.Rel(root, path); err == nil {
			dirs = append(dirs, rel)
		}
		return nil
	})
	sort.Strings(dirs)
	return dirs
}

// sanitizeRef makes a ref safe to use in a scratch directory name.
func sanitizeRef(ref string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '-'
		}
	}, ref)
}
