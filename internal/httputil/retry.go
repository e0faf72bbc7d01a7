package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Retrier wraps an http.Client with bounded exponential-backoff retries.
// Transport errors and 5xx responses are retried; anything below 500 is
// returned to the caller as-is.
type Retrier struct {
	Client      *http.Client
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Log         zerolog.Logger
}

// Do issues the request, retrying with exponential backoff. buildReq is
// invoked per attempt so request bodies are fresh each time. Context
// expiry aborts immediately rather than burning remaining attempts.
func (rt Retrier) Do(ctx context.Context, buildReq func() (*http.Request, error)) (*http.Response, error) {
	attempts := rt.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	delay := rt.BaseDelay
	if delay <= 0 {
		delay = time.Second
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		req, err := buildReq()
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := rt.Client.Do(req)
		switch {
		case err == nil && resp.StatusCode < 500:
			return resp, nil
		case err != nil:
			lastErr = err
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
		}

		if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
			return nil, lastErr
		}
		if attempt >= attempts {
			return nil, fmt.Errorf("all %d attempts failed, last error: %w", attempts, lastErr)
		}

		rt.Log.Warn().
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Dur("retry_in", delay).
			Err(lastErr).
			Msg("request failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if rt.MaxDelay > 0 && delay > rt.MaxDelay {
			delay = rt.MaxDelay
		}
	}
}
