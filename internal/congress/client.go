// Package congress is a client for the api.congress.gov v3 JSON API and the
// Senate roll-call XML feed, plus the transforms that turn their loosely
// shaped records into domain types.
package congress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/tbourn/go-congress-backend/internal/config"
	"github.com/tbourn/go-congress-backend/internal/observability"
)

const maxPageLimit = 250

// ErrNotFound is returned when the upstream answers 404.
var ErrNotFound = errors.New("upstream record not found")

// StatusError is a non-2xx upstream answer that was not retried or that
// exhausted its retries.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Code)
}

// Client talks to api.congress.gov. It is safe for concurrent use; the
// limiter is shared by every call so bursts from concurrent syncs are
// smoothed.
type Client struct {
	http       *http.Client
	baseURL    string
	senateURL  string
	apiKey     string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New builds a Client from upstream settings. RPS <= 0 disables throttling.
func New(cfg config.UpstreamConfig, opts ...Option) *Client {
	lim := rate.NewLimiter(rate.Inf, 1)
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	c := &Client{
		http:       &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		senateURL:  cfg.SenateBaseURL,
		apiKey:     cfg.APIKey,
		limiter:    lim,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// get issues GET baseURL+path with the api key and format=json.
func (c *Client) get(ctx context.Context, op, path string, q url.Values) ([]byte, error) {
	if q == nil {
		q = url.Values{}
	}
	q.Set("format", "json")
	u := c.baseURL + path + "?" + q.Encode()
	return c.fetchWithRetry(ctx, op, u, true)
}

// FetchRaw downloads an absolute URL (e.g. a Senate XML sourceDataURL)
// through the same throttle and retry policy, without the api key.
func (c *Client) FetchRaw(ctx context.Context, op, rawURL string) ([]byte, error) {
	return c.fetchWithRetry(ctx, op, rawURL, false)
}

// fetchWithRetry retries transport errors, 429 and 5xx with exponential
// backoff (backoff * 2^attempt). Other statuses fail immediately.
func (c *Client) fetchWithRetry(ctx context.Context, op, u string, withKey bool) ([]byte, error) {
	var lastErr error
	attempts := c.maxRetries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := c.backoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, status, err := c.do(ctx, op, u, withKey)
		switch {
		case err != nil:
			lastErr = err
		case status == http.StatusOK:
			observability.UpstreamRequests.WithLabelValues(op, "ok").Inc()
			return body, nil
		case status == http.StatusNotFound:
			observability.UpstreamRequests.WithLabelValues(op, "error").Inc()
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		case status == http.StatusTooManyRequests || status >= 500:
			lastErr = &StatusError{Op: op, Code: status}
		default:
			observability.UpstreamRequests.WithLabelValues(op, "error").Inc()
			return nil, &StatusError{Op: op, Code: status}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		observability.UpstreamRequests.WithLabelValues(op, "retry").Inc()
		log.Warn().Err(lastErr).Str("op", op).Int("attempt", attempt+1).Int("max", attempts).Msg("upstream request failed")
	}
	observability.UpstreamRequests.WithLabelValues(op, "error").Inc()
	return nil, fmt.Errorf("%s: failed after %d attempts: %w", op, attempts, lastErr)
}

func (c *Client) do(ctx context.Context, op, u string, withKey bool) ([]byte, int, error) {
	start := time.Now()
	defer func() {
		observability.UpstreamLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: build request: %w", op, err)
	}
	if withKey && c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json, application/xml;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

func pageParams(limit, offset int) url.Values {
	if limit <= 0 || limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
}
