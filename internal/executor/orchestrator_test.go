package executor_test

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txrecipe/internal/executor"
	"txrecipe/internal/models"
)

func fastSettings() models.Settings {
	return models.Settings{
		CloneTimeoutSec:    60,
		CheckoutTimeoutSec: 30,
		DownloadTimeoutSec: 5,
		DownloadChunkSize:  "8K",
		Retry: models.RetryPolicy{
			MaxAttempts:    1,
			InitialDelayMs: 1,
			MaxDelayMs:     5,
			Multiplier:     2.0,
		},
	}
}

func newOrchestrator(t *testing.T, outputDir string, dryRun bool) *executor.Orchestrator {
	t.Helper()
	o, err := executor.New(outputDir, fastSettings(), false, dryRun)
	require.NoError(t, err)
	o.Out = &bytes.Buffer{}
	return o
}

func TestRunCountsAlwaysSumToTotal(t *testing.T) {
	out := t.TempDir()
	o := newOrchestrator(t, out, false)

	rec := &models.Recipe{
		Name: "counting",
		Tasks: []*models.Task{
			{Action: models.ActionWasteTime}, // success (no-op)
			nil,                              // skipped
			{Action: "bogus_action"},         // failed
			nil,                              // skipped
			{Action: models.ActionConnectDatabase}, // success (acknowledged no-op)
		},
	}

	result := o.Run(context.Background(), rec)

	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, len(rec.Tasks), result.Total())
}

func TestRunDryRunCreatesOnlyStructuralFolders(t *testing.T) {
	out := t.TempDir()
	o := newOrchestrator(t, out, true)

	rec := &models.Recipe{
		Name: "skeleton",
		Tasks: []*models.Task{
			{
				Action: models.ActionDownloadGithub,
				Src:    "<GITHUB_URL>",
				Dest:   "./resources/[standalone]/mailserver",
			},
		},
	}

	result := o.Run(context.Background(), rec)

	assert.Equal(t, 1, result.Successful)
	assert.DirExists(t, filepath.Join(out, "resources", "[standalone]"))
	assert.NoDirExists(t, filepath.Join(out, "resources", "[standalone]", "mailserver"),
		"the resource folder itself is created by a real fetch, not the dry run")
}

func TestRunDryRunPerformsNoNetworkIO(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	out := t.TempDir()
	o := newOrchestrator(t, out, true)

	rec := &models.Recipe{
		Name: "no-network",
		Tasks: []*models.Task{
			{Action: models.ActionDownloadFile, URL: srv.URL + "/f.zip", Path: "./tmp/f.zip"},
			{Action: models.ActionDownloadGithub, Src: srv.URL + "/owner/repo", Dest: "./resources/repo"},
		},
	}

	result := o.Run(context.Background(), rec)

	assert.Equal(t, 2, result.Successful)
	assert.Zero(t, hits, "dry-run must not touch the network")
	assert.NoFileExists(t, filepath.Join(out, "tmp", "f.zip"))
}

func TestRunDownloadFileEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"locale":"en"}`))
	}))
	defer srv.Close()

	out := t.TempDir()
	o := newOrchestrator(t, out, false)

	rec := &models.Recipe{
		Name: "download",
		Tasks: []*models.Task{
			{Action: models.ActionDownloadFile, URL: srv.URL + "/settings.json", Path: "./configs/settings.json"},
		},
	}

	result := o.Run(context.Background(), rec)

	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 0, result.Skipped)

	data, err := os.ReadFile(filepath.Join(out, "configs", "settings.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"locale":"en"}`, string(data))
}

func TestRunMovePathOverwriteSemantics(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "src.txt"), []byte("new"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(out, "dest.txt"), []byte("old"), 0644))

	// overwrite=false fails and leaves both paths untouched
	o := newOrchestrator(t, out, false)
	rec := &models.Recipe{Tasks: []*models.Task{
		{Action: models.ActionMovePath, Src: "./src.txt", Dest: "./dest.txt"},
	}}
	result := o.Run(context.Background(), rec)
	assert.Equal(t, 1, result.Failed)

	data, err := os.ReadFile(filepath.Join(out, "dest.txt"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	assert.FileExists(t, filepath.Join(out, "src.txt"))

	// overwrite=true replaces the destination and removes the source
	o = newOrchestrator(t, out, false)
	rec = &models.Recipe{Tasks: []*models.Task{
		{Action: models.ActionMovePath, Src: "./src.txt", Dest: "./dest.txt", Overwrite: true},
	}}
	result = o.Run(context.Background(), rec)
	assert.Equal(t, 1, result.Successful)

	data, err = os.ReadFile(filepath.Join(out, "dest.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	assert.NoFileExists(t, filepath.Join(out, "src.txt"))
}

func TestRunRemovePathIsIdempotent(t *testing.T) {
	out := t.TempDir()
	o := newOrchestrator(t, out, false)

	rec := &models.Recipe{Tasks: []*models.Task{
		{Action: models.ActionRemovePath, Path: "./never-existed"},
	}}
	result := o.Run(context.Background(), rec)

	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 0, result.Failed)
}

func TestRunUnzip(t *testing.T) {
	out := t.TempDir()

	// Build a small archive inside the output root.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("nested/hello.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("zipped"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.MkdirAll(filepath.Join(out, "tmp"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "tmp", "files.zip"), buf.Bytes(), 0644))

	o := newOrchestrator(t, out, false)
	rec := &models.Recipe{Tasks: []*models.Task{
		{Action: models.ActionUnzip, Src: "./tmp/files.zip", Dest: "./extracted"},
	}}
	result := o.Run(context.Background(), rec)

	assert.Equal(t, 1, result.Successful)
	data, err := os.ReadFile(filepath.Join(out, "extracted", "nested", "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "zipped", string(data))
}

func TestRunTaskMissingFieldsFailsButContinues(t *testing.T) {
	out := t.TempDir()
	o := newOrchestrator(t, out, false)

	rec := &models.Recipe{Tasks: []*models.Task{
		{Action: models.ActionDownloadGithub}, // no src/dest
		{Action: models.ActionWasteTime},      // still runs
	}}
	result := o.Run(context.Background(), rec)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Successful)
}

func TestRunPathEscapeIsRejected(t *testing.T) {
	out := t.TempDir()
	o := newOrchestrator(t, out, false)

	rec := &models.Recipe{Tasks: []*models.Task{
		{Action: models.ActionRemovePath, Path: "../outside"},
	}}
	result := o.Run(context.Background(), rec)

	assert.Equal(t, 1, result.Failed)
}

func TestRunCancelledContext(t *testing.T) {
	out := t.TempDir()
	o := newOrchestrator(t, out, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &models.Recipe{Tasks: []*models.Task{
		{Action: models.ActionWasteTime},
	}}
	result := o.Run(ctx, rec)

	assert.True(t, result.Cancelled)
	assert.Equal(t, 0, result.Total())
}

func TestRunReleasesScratchDirectory(t *testing.T) {
	out := t.TempDir()
	o, err := executor.New(out, fastSettings(), false, false)
	require.NoError(t, err)
	o.Out = &bytes.Buffer{}

	scratch := o.ScratchDir()
	require.NotEmpty(t, scratch)
	assert.DirExists(t, scratch)

	o.Run(context.Background(), &models.Recipe{Tasks: []*models.Task{
		{Action: models.ActionWasteTime},
	}})

	assert.NoDirExists(t, scratch, "scratch must never outlive the run")
}

func TestNewDryRunAllocatesNoScratch(t *testing.T) {
	o, err := executor.New(t.TempDir(), fastSettings(), false, true)
	require.NoError(t, err)
	assert.Empty(t, o.ScratchDir())
}
