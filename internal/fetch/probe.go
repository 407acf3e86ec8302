package fetch

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ProbeURLs issues HEAD requests for every URL concurrently and
// returns the failures keyed by URL. A probe failure never cancels
// its siblings: the point is a complete report, not an early exit.
func (e *Engine) ProbeURLs(ctx context.Context, urls []string, limit int) map[string]error {
	failures := make(map[string]error)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, rawURL := range urls {
		rawURL := rawURL
		g.Go(func() error {
			if err := e.probeOnce(ctx, rawURL); err != nil {
				mu.Lock()
				failures[rawURL] = err
				mu.Unlock()
			}
			return nil
		})
	}

	g.Wait()
	return failures
}

func (e *Engine) probeOnce(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("returned %s", resp.Status)
	}
	return nil
}
