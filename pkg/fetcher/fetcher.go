// Package fetcher performs the HTTP fetches for both crawl levels: the seed
// page and the article pages.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

var (
	// ErrBadStatus marks a non-2xx response.
	ErrBadStatus = errors.New("unexpected HTTP status")
	// ErrNotHTML marks a response whose Content-Type is not an HTML media type.
	ErrNotHTML = errors.New("content type is not HTML")
)

// DefaultUserAgent identifies the client as a regular browser. Sites that
// reject unidentified clients must still be reachable.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36"

// Client fetches pages with per-call deadlines, a fixed identifying header
// and a request-rate cap shared across all calls. It holds no per-request
// state and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent overrides the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimit caps outgoing requests per second across all calls.
func WithRateLimit(rps int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), rps)
		}
	}
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a fetch client.
func NewClient(opts ...Option) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	}
	c := &Client{
		httpClient: &http.Client{Transport: transport},
		userAgent:  DefaultUserAgent,
		limiter:    rate.NewLimiter(rate.Limit(10), 10),
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchSeed retrieves the seed page. Non-2xx status and non-HTML content
// types are failures; the caller aborts the whole extraction on error.
func (c *Client) FetchSeed(ctx context.Context, pageURL string, timeout time.Duration) (string, error) {
	resp, body, err := c.get(ctx, pageURL, timeout)
	if err != nil {
		return "", err
	}
	if !isHTMLMIME(resp.Header.Get("Content-Type")) {
		return "", fmt.Errorf("%w: %s", ErrNotHTML, resp.Header.Get("Content-Type"))
	}
	return body, nil
}

// FetchArticle retrieves one article page. Only non-2xx status is a failure;
// the caller recovers per article.
func (c *Client) FetchArticle(ctx context.Context, pageURL string, timeout time.Duration) (string, error) {
	_, body, err := c.get(ctx, pageURL, timeout)
	if err != nil {
		return "", err
	}
	return body, nil
}

// FetchRobots retrieves and parses the robots.txt of seedURL's host. It
// returns nil when the file is unreachable or unparseable; callers treat nil
// as allow-everything.
func (c *Client) FetchRobots(ctx context.Context, seedURL string) *robotstxt.RobotsData {
	u, err := url.Parse(seedURL)
	if err != nil || u.Host == "" {
		return nil
	}
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)

	_, body, err := c.get(ctx, robotsURL, 5*time.Second)
	if err != nil {
		c.logger.Debug("robots.txt not available, allowing all", "url", robotsURL, "error", err)
		return nil
	}
	robots, err := robotstxt.FromString(body)
	if err != nil {
		c.logger.Debug("robots.txt unparseable, allowing all", "url", robotsURL, "error", err)
		return nil
	}
	return robots
}

func (c *Client) get(ctx context.Context, pageURL string, timeout time.Duration) (*http.Response, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: %d for %s", ErrBadStatus, resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read body of %s: %w", pageURL, err)
	}
	return resp, string(body), nil
}

func isHTMLMIME(contentType string) bool {
	mimeType := strings.TrimSpace(strings.Split(strings.ToLower(contentType), ";")[0])
	switch mimeType {
	case "text/html", "application/xhtml+xml", "application/xhtml":
		return true
	}
	return false
}
