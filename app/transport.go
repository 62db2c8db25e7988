package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fiffu/billwatch/config"
	"go.uber.org/zap"
)

const initialBackoff = 2 * time.Second

// NewTransport returns the RoundTripper shared by every outbound client.
// Each attempt is bounded by the upstream timeout, and failed attempts are
// retried a bounded number of times before the error is surfaced.
func NewTransport(cfg *config.Config, log *zap.Logger) http.RoundTripper {
	return &transport{
		base:    http.DefaultTransport,
		log:     log,
		timeout: cfg.Upstream.Timeout,
		retries: cfg.Upstream.Retries,
		backoff: initialBackoff,
	}
}

type transport struct {
	base    http.RoundTripper
	log     *zap.Logger
	timeout time.Duration
	retries int
	backoff time.Duration
}

func (tpt *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	attempts := 1
	if tpt.retries > 0 && replayable(req) {
		attempts += tpt.retries
	}

	var lastErr error
	backoff := tpt.backoff
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(backoff):
				backoff *= 2
			}
			tpt.log.Sugar().Infow("Retrying request", "url", req.URL.Redacted(), "attempt", attempt+1, "err", lastErr)
		}

		resp, err := tpt.attempt(req, attempt)
		switch {
		case err != nil:
			lastErr = err
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			if attempt == attempts-1 {
				return resp, nil
			}
			resp.Body.Close()
		default:
			return resp, nil
		}
	}
	return nil, fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

func (tpt *transport) attempt(req *http.Request, n int) (*http.Response, error) {
	r := req
	if n > 0 {
		r = req.Clone(req.Context())
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			r.Body = body
		}
	}
	if tpt.timeout <= 0 {
		return tpt.base.RoundTrip(r)
	}

	ctx, cancel := context.WithTimeout(r.Context(), tpt.timeout)
	resp, err := tpt.base.RoundTrip(r.WithContext(ctx))
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnClose{resp.Body, cancel}
	return resp, nil
}

// replayable reports whether a request can be sent more than once.
func replayable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

type cancelOnClose struct {
	body   io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Read(p []byte) (int, error) { return c.body.Read(p) }

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.body.Close()
}
