package webcrawler

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"cpme_monitor/pkg/parser"

	"github.com/pkg/errors"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:106.0) Gecko/20100101 Firefox/106.0"
)

// Web crawler config with parser.
type Config[Result any] struct {
	URL       string
	UserAgent string
	Parser    parser.Parser[Result]
}

// Single page crawler.
// Each Crawl performs its own request, nothing is kept between calls.
type WebCrawler[Result any] struct {
	config  *Config[Result]
	client  *http.Client
	counter uint64
}

// Returns new Crawler for the given page.
func NewCrawler[Result any](config *Config[Result], client *http.Client) *WebCrawler[Result] {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	cfg := &Config[Result]{}
	*cfg = *config

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	return &WebCrawler[Result]{
		config: cfg,
		client: client,
	}
}

// Crawls configured page.
func (c *WebCrawler[Result]) Crawl(ctx context.Context, handler parser.HandlerFunc[Result]) error {
	atomic.AddUint64(&c.counter, 1)

	return c.DoCrawl(ctx, c.config.URL, handler)
}

// Loads resource payload, parses and passes results to the given handler.
func (c *WebCrawler[Result]) DoCrawl(ctx context.Context, url string, handler parser.HandlerFunc[Result]) error {
	// build request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return errors.Wrapf(err, "failed to build request for %s", url)
	}
	req.Header.Add("User-Agent", c.config.UserAgent)
	req.Header.Add("Accept", "text/html")

	// do request
	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to get %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("Error: %d - %s", resp.StatusCode, resp.Status)
	}

	return c.config.Parser.Parse(resp.Body, handler)
}

// Number of Crawl calls made.
func (c *WebCrawler[Result]) GetCount() uint64 {
	return atomic.LoadUint64(&c.counter)
}
