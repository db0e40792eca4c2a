// Package fetch retrieves remote pages as queryable views.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lfrguimaraes/outy-back/internal/logger"
	"github.com/lfrguimaraes/outy-back/internal/pageview"
)

const (
	UserAgent = "outy-events/1.0 (github.com/lfrguimaraes/outy-back)"
	Timeout   = 30 * time.Second

	// defaultDelay spaces out consecutive requests so enrichment does not
	// hammer the listing sites.
	defaultDelay = 1 * time.Second
)

// Fetcher retrieves one page by URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*pageview.View, error)
}

// Client is an HTTP Fetcher with a politeness delay between requests.
type Client struct {
	httpClient *http.Client
	delay      time.Duration
	lastFetch  time.Time
}

// NewClient creates a fetching client. A nil httpClient gets a default with
// the package timeout.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: Timeout}
	}
	return &Client{
		httpClient: httpClient,
		delay:      defaultDelay,
	}
}

// SetDelay overrides the politeness delay. Zero disables it.
func (c *Client) SetDelay(d time.Duration) {
	c.delay = d
}

// Fetch retrieves url and builds a page view from the response.
func (c *Client) Fetch(ctx context.Context, url string) (*pageview.View, error) {
	if err := c.pause(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		logger.RecordTiming("fetch.page", time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.IncrCounter("fetch.failed")
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.IncrCounter("fetch.failed")
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	v, err := pageview.New(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	logger.IncrCounter("fetch.ok")
	logger.Debug("page fetched", logger.Fields{"url": url})
	return v, nil
}

// pause waits out the remainder of the politeness delay since the previous
// fetch.
func (c *Client) pause(ctx context.Context) error {
	if c.delay <= 0 || c.lastFetch.IsZero() {
		c.lastFetch = time.Now()
		return nil
	}
	wait := c.delay - time.Since(c.lastFetch)
	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.lastFetch = time.Now()
	return nil
}
