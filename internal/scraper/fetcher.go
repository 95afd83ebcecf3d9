package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ErrPageUnavailable is returned when a page could not be fetched after all
// retries, or when the circuit breaker is rejecting requests.
var ErrPageUnavailable = errors.New("page unavailable")

// defaultUserAgent matches a desktop browser; the directory site serves
// reduced markup to unknown clients.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// PageFetcher retrieves the body of a single page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherConfig holds the knobs for HTTPFetcher.
type FetcherConfig struct {
	// Timeout applies per request. Default: 15 seconds.
	Timeout time.Duration

	// MaxRetries is the number of additional attempts after the first
	// failure. Default: 3.
	MaxRetries int

	// RequestsPerSecond limits the request rate across all pages.
	// Default: 2.
	RequestsPerSecond float64

	// UserAgent overrides the default browser User-Agent header.
	UserAgent string
}

// HTTPFetcher fetches pages over HTTP with a per-request timeout, a
// token-bucket rate limit, capped exponential retry backoff, and a circuit
// breaker so a dead site fails fast instead of burning retries per page.
type HTTPFetcher struct {
	client     *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	maxRetries int
	userAgent  string

	// backoff computes the delay before retry n. Overridable in tests.
	backoff func(attempt int) time.Duration
}

// NewHTTPFetcher creates a fetcher with the given configuration. Zero
// values fall back to defaults.
func NewHTTPFetcher(cfg FetcherConfig) *HTTPFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "directory-fetch",
		MaxRequests: 2,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 8
		},
	})

	return &HTTPFetcher{
		client:     &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		breaker:    breaker,
		maxRetries: cfg.MaxRetries,
		userAgent:  cfg.UserAgent,
		backoff:    backoffDelay,
	}
}

// Fetch retrieves url, retrying transient failures with capped exponential
// backoff. An open circuit breaker short-circuits remaining retries.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, f.backoff(attempt)); err != nil {
				return nil, err
			}
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := f.breaker.Execute(func() (interface{}, error) {
			return f.doRequest(ctx, url)
		})
		if err == nil {
			return body.([]byte), nil
		}
		lastErr = err

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s: circuit open after repeated failures", ErrPageUnavailable, url)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("%w: %s: %v", ErrPageUnavailable, url, lastErr)
}

// doRequest performs one HTTP GET and returns the response body.
func (f *HTTPFetcher) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// backoffDelay returns the sleep before the given retry attempt,
// capped at 3 seconds.
func backoffDelay(attempt int) time.Duration {
	d := time.Duration(1<<uint(attempt-1)) * time.Second
	if d > 3*time.Second {
		d = 3 * time.Second
	}
	return d
}

// sleepContext waits for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
