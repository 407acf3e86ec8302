package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"txrecipe/internal/models"
)

// DownloadFile streams url to dest in fixed-size chunks, retrying
// transient transport failures. A non-2xx status is an http_error.
func (e *Engine) DownloadFile(ctx context.Context, rawURL, dest string) error {
	return WithRetry(ctx, e.settings.Retry, "download "+rawURL, func() error {
		return e.downloadOnce(ctx, rawURL, dest)
	})
}

func (e *Engine) downloadOnce(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return models.NewTaskError(models.ErrValidation, "invalid URL %q: %v", rawURL, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return models.NewTaskError(models.ErrHTTP, "requesting %s: %v", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.NewTaskError(models.ErrHTTP, "%s returned %s", rawURL, resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	buf := make([]byte, e.chunkSize)
	if _, err := io.CopyBuffer(f, resp.Body, buf); err != nil {
		f.Close()
		os.Remove(dest)
		return models.NewTaskError(models.ErrHTTP, "downloading %s: %v", rawURL, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dest, err)
	}

	slog.Info("downloaded file", "url", rawURL, "dest", dest)
	return nil
}
