package trust

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/neurograph/internal/cache"
	"github.com/ppiankov/neurograph/internal/model"
	"github.com/ppiankov/neurograph/internal/worker"
)

// retrySleep is the sleep function used between retries (injectable for tests)
var retrySleep = time.Sleep

// remoteClient is the shared transport for bibliometric lookups: per-host
// rate limiting, bounded retries with backoff, and response caching so a
// later offline run can reuse earlier answers.
type remoteClient struct {
	httpClient *http.Client
	limiter    *worker.Limiter
	cache      cache.Cache
	maxRetries int
	userAgent  string
}

func newRemoteClient(httpClient *http.Client, limiter *worker.Limiter, lookupCache cache.Cache, maxRetries int, userAgent string) *remoteClient {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &remoteClient{
		httpClient: httpClient,
		limiter:    limiter,
		cache:      lookupCache,
		maxRetries: maxRetries,
		userAgent:  userAgent,
	}
}

// get fetches a URL with retries, returning the response body. Every failure
// mode maps to ErrNetworkUnavailable: unreachable services are a normal
// input condition for the scorer, not an error to raise.
func (c *remoteClient) get(ctx context.Context, service, cacheKey, url string, headers map[string]string) ([]byte, error) {
	if c.cache != nil {
		if body, found := c.cache.Get(cacheKey); found {
			return body, nil
		}
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			retrySleep(time.Duration(attempt-1) * 500 * time.Millisecond)
		}

		body, retryable, err := c.getOnce(ctx, url, headers)
		if err == nil {
			if c.cache != nil {
				_ = c.cache.Set(cacheKey, body, 0)
			}
			return body, nil
		}

		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, fmt.Errorf("%w: %s: %v", model.ErrNetworkUnavailable, service, lastErr)
}

// getOnce performs a single rate-limited GET. The second return value
// reports whether the failure is worth retrying.
func (c *remoteClient) getOnce(ctx context.Context, url string, headers map[string]string) ([]byte, bool, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, url); err != nil {
			return nil, false, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for key, val := range headers {
		req.Header.Set(key, val)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, true, err
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("status %d", resp.StatusCode)
	default:
		// 404 and friends: the service answered, the DOI has no data.
		return nil, false, fmt.Errorf("status %d", resp.StatusCode)
	}
}
