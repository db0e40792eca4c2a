// Package translate converts scraped text between languages.
//
// The Client talks to the public Google translate endpoint. Callers treat
// translation as best-effort: on failure they keep the original text, so the
// Translator interface is easy to satisfy with the Noop implementation in
// tests and offline runs.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/lfrguimaraes/outy-back/internal/logger"
)

// Translator translates text into the target language.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// Noop returns the input unchanged.
type Noop struct{}

func (Noop) Translate(_ context.Context, text, _ string) (string, error) {
	return text, nil
}

const (
	defaultEndpoint  = "https://translate.googleapis.com/translate_a/single"
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

	// maxChunkLen keeps each request under the endpoint's query limit.
	maxChunkLen = 4500
)

// Client translates via the unauthenticated gtx endpoint, retrying
// transient failures with exponential backoff.
type Client struct {
	httpClient *http.Client
	endpoint   string
	maxRetry   time.Duration
}

// NewClient creates a translation client. A nil httpClient gets a default
// with a 15 second timeout.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   defaultEndpoint,
		maxRetry:   30 * time.Second,
	}
}

// Translate converts text into the target language code (e.g. "en"). The
// source language is auto-detected. Long texts are split into chunks on
// sentence boundaries and translated piecewise.
func (c *Client) Translate(ctx context.Context, text, target string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	start := time.Now()
	defer func() {
		logger.RecordTiming("translate.request", time.Since(start))
	}()

	var out strings.Builder
	for _, chunk := range splitChunks(text, maxChunkLen) {
		translated, err := c.translateChunk(ctx, chunk, target)
		if err != nil {
			logger.IncrCounter("translate.failed")
			return "", err
		}
		out.WriteString(translated)
	}
	logger.IncrCounter("translate.ok")
	return out.String(), nil
}

func (c *Client) translateChunk(ctx context.Context, text, target string) (string, error) {
	var translated string
	operation := func() error {
		var err error
		translated, err = c.request(ctx, text, target)
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = c.maxRetry
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return "", fmt.Errorf("translating to %s: %w", target, err)
	}
	return translated, nil
}

func (c *Client) request(ctx context.Context, text, target string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", backoff.Permanent(err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		err := fmt.Errorf("translate endpoint returned %s", resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	translated, err := decodeResponse(body)
	if err != nil {
		return "", backoff.Permanent(err)
	}
	return translated, nil
}

// decodeResponse unpacks the gtx response, a nested array whose first
// element lists [translated, original, ...] segment pairs.
func decodeResponse(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("parsing translate response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translate response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("parsing translate segments: %w", err)
	}

	var out strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(seg[0], &piece); err != nil {
			continue
		}
		out.WriteString(piece)
	}
	return out.String(), nil
}

// splitChunks cuts text into pieces no longer than limit runes, preferring
// sentence boundaries.
func splitChunks(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(runes) > limit {
		cut := limit
		for i := limit - 1; i > limit/2; i-- {
			if runes[i] == '.' || runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
