// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for outbound lookups.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RetryBaseDelay is the pause before the first retry; each further retry
// waits one more multiple of it. Tests override this to avoid real sleeps.
var RetryBaseDelay = 400 * time.Millisecond

const defaultMaxAttempts = 3

// DoWithRetry executes req up to maxAttempts times (default 3). Transport
// errors, HTTP 429 and 5xx replies are retried after a linear backoff of
// RetryBaseDelay per attempt. The final reply is returned as is, so the
// caller sees the last 429/5xx once attempts run out. A context cancelled
// during a backoff wait returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxAttempts int) (*http.Response, error) {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		switch {
		case err != nil:
			lastErr = err
		case retryable(resp.StatusCode) && attempt < maxAttempts:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
		default:
			return resp, nil
		}

		if attempt >= maxAttempts {
			return nil, fmt.Errorf("after %d attempts: %w", attempt, lastErr)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * RetryBaseDelay):
		}
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
