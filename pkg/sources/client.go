package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Yui007/MangaForge/pkg/config"
)

// Client is the HTTP plumbing shared by all sources: browser-like
// headers, a per-source rate limiter and retry with backoff. Concrete
// sources hold one and build their requests on top of it.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	delays    []time.Duration
	userAgent string
	referer   string
}

// NewClient builds a client for one source, rate limited to the
// requests-per-second the config allows for that source.
func NewClient(cfg *config.Config, sourceID string) *Client {
	return &Client{
		http:      &http.Client{Timeout: cfg.Timeout()},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimit(sourceID)), 1),
		delays:    retryDelays(cfg.Network.RetryAttempts),
		userAgent: cfg.Network.UserAgent,
	}
}

// retryDelays returns the backoff schedule for the given total attempt
// count, drawn from the 1s/2s/4s ladder.
func retryDelays(attempts int) []time.Duration {
	delays := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	if n := attempts - 1; n >= 0 && n < len(delays) {
		return delays[:n]
	}
	return delays
}

// SetReferer adds a Referer header to every request. Some image hosts
// reject requests without one.
func (c *Client) SetReferer(referer string) {
	c.referer = referer
}

func (c *Client) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		if c.referer != "" {
			req.Header.Set("Referer", c.referer)
		}

		resp, err := c.http.Do(req)
		if err == nil {
			if resp.StatusCode < http.StatusBadRequest {
				return resp, nil
			}
			err = fmt.Errorf("GET %s: unexpected status %s", rawURL, resp.Status)
			resp.Body.Close()
			// 4xx responses are not retried, except 429.
			if resp.StatusCode < http.StatusInternalServerError && resp.StatusCode != http.StatusTooManyRequests {
				return nil, err
			}
		}
		lastErr = err

		if attempt >= len(c.delays) {
			return nil, lastErr
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"url":     rawURL,
			"attempt": attempt + 1,
		}).Warn("Request failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.delays[attempt]):
		}
	}
}

// GetJSON fetches rawURL, with optional query parameters, and decodes
// the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, v any) error {
	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}
	resp, err := c.get(ctx, rawURL, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	return nil
}

// GetDocument fetches rawURL and parses the response body as HTML.
func (c *Client) GetDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	resp, err := c.get(ctx, rawURL, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", rawURL, err)
	}
	return doc, nil
}

// FetchBytes downloads a raw resource, typically a page image. Sources
// without special image-host handling return this directly from their
// DownloadImage.
func (c *Client) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.get(ctx, rawURL, "image/webp,image/apng,image/*,*/*;q=0.8")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return body, nil
}
