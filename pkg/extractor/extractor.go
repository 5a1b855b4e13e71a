// Package extractor drives the two-level crawl: level 1 scans the seed page
// for article links, level 2 fetches each article in bounded concurrent
// batches and collects its cross-origin links.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/markusmobius/go-trafilatura"
	"github.com/temoto/robotstxt"
	"golang.org/x/sync/errgroup"

	"github.com/linkscout/linkscout/internal/config"
	"github.com/linkscout/linkscout/internal/models"
	"github.com/linkscout/linkscout/pkg/aggregator"
	"github.com/linkscout/linkscout/pkg/classifier"
	"github.com/linkscout/linkscout/pkg/fetcher"
	"github.com/linkscout/linkscout/pkg/scanner"
	"github.com/linkscout/linkscout/pkg/urlutil"
)

var (
	// ErrInvalidURL marks a missing or malformed seed URL; no network
	// activity has happened.
	ErrInvalidURL = errors.New("invalid seed URL")
	// ErrSeedFetch marks a failed seed fetch (network, status or content
	// type); the whole extraction aborts.
	ErrSeedFetch = errors.New("seed fetch failed")
	// ErrNoArticles marks a seed page with no classifiable article links.
	ErrNoArticles = errors.New("no articles found on seed page")
)

// Anchor text shorter than this is never worth classifying.
const minAnchorTextLen = 5

const robotsAgent = "linkscout"

// Extractor runs extractions. It is safe for concurrent use; all per-request
// state is local to Extract.
type Extractor struct {
	client *fetcher.Client
	cfg    config.CrawlerConfig
	logger *log.Logger
}

// New creates an Extractor on top of the given fetch client.
func New(client *fetcher.Client, cfg config.CrawlerConfig, logger *log.Logger) *Extractor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Extractor{client: client, cfg: cfg, logger: logger}
}

// Extract crawls seedURL and returns the aggregated external-link report.
// Exactly one of a full result or an error is returned; per-article failures
// are recovered internally and only show up as lower totals.
func (e *Extractor) Extract(ctx context.Context, seedURL string) (*models.ExtractionResult, error) {
	started := time.Now()

	if strings.TrimSpace(seedURL) == "" || !urlutil.IsValid(seedURL) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, seedURL)
	}

	e.logger.Info("fetching seed page", "url", seedURL)
	seedHTML, err := e.client.FetchSeed(ctx, seedURL, e.cfg.SeedTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSeedFetch, err)
	}

	articles := e.classifyArticles(seedHTML, seedURL)
	if len(articles) == 0 {
		return nil, ErrNoArticles
	}
	e.logger.Info("classified articles", "count", len(articles))

	// Per-request robots data; nil allows everything.
	var robots *robotstxt.RobotsData
	if e.cfg.FollowRobotsTxt {
		robots = e.client.FetchRobots(ctx, seedURL)
	}

	raw, err := e.crawlArticles(ctx, articles, robots)
	if err != nil {
		return nil, err
	}

	return aggregator.Aggregate(articles, raw, time.Since(started)), nil
}

// classifyArticles runs the scanner and classifier over the seed HTML,
// keeping same-origin links only, deduplicating by normalized URL with the
// first occurrence winning, and capping the candidate list after
// classification.
func (e *Extractor) classifyArticles(seedHTML, seedURL string) []models.ArticleLink {
	var articles []models.ArticleLink
	seen := make(map[string]bool)

	for _, anchor := range scanner.Scan(seedHTML) {
		title := strings.TrimSpace(anchor.Text)
		if len(title) < minAnchorTextLen {
			continue
		}
		if skipHref(anchor.Href) {
			continue
		}

		normalized := urlutil.Normalize(anchor.Href, seedURL)
		if !urlutil.IsValid(normalized) || urlutil.IsExternal(normalized, seedURL) {
			continue
		}
		domain := urlutil.Domain(normalized)
		if domain == "" {
			continue
		}

		if !classifier.IsArticle(normalized, title) {
			continue
		}
		if seen[normalized] {
			continue
		}
		seen[normalized] = true

		articles = append(articles, models.ArticleLink{
			URL:    normalized,
			Title:  title,
			Domain: domain,
		})
	}

	// The cap bounds level-2 fetching and applies after classification.
	if len(articles) > e.cfg.MaxArticles {
		articles = articles[:e.cfg.MaxArticles]
	}
	return articles
}

// crawlArticles fetches the articles in fixed-size batches. Batches run
// strictly in order: every fetch of a batch finishes before the next batch
// starts, with a fixed pause between batches. A per-article failure leaves a
// nil slot and never affects the rest of the crawl.
func (e *Extractor) crawlArticles(ctx context.Context, articles []models.ArticleLink, robots *robotstxt.RobotsData) ([]models.ExternalLink, error) {
	perArticle := make([][]models.ExternalLink, len(articles))

	batchSize := e.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 5
	}

	for start := 0; start < len(articles); start += batchSize {
		end := min(start+batchSize, len(articles))
		e.logger.Debug("crawling batch", "from", start, "to", end-1)

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				perArticle[i] = e.crawlArticle(gctx, &articles[i], robots)
				return nil
			})
		}
		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Pace the target site between batches, but not after the last one.
		if end < len(articles) {
			select {
			case <-time.After(e.cfg.BatchPause):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	var merged []models.ExternalLink
	for _, links := range perArticle {
		merged = append(merged, links...)
	}
	return merged, nil
}

// crawlArticle fetches one article and returns its cross-origin links in
// document order. Any failure yields zero links for this article only.
func (e *Extractor) crawlArticle(ctx context.Context, article *models.ArticleLink, robots *robotstxt.RobotsData) []models.ExternalLink {
	if robots != nil && !robots.TestAgent(urlPath(article.URL), robotsAgent) {
		e.logger.Debug("article disallowed by robots.txt", "url", article.URL)
		return nil
	}

	body, err := e.client.FetchArticle(ctx, article.URL, e.cfg.ArticleTimeout)
	if err != nil {
		e.logger.Debug("article fetch failed", "url", article.URL, "error", err)
		return nil
	}

	if result, err := trafilatura.Extract(strings.NewReader(body), trafilatura.Options{}); err == nil && result != nil {
		article.FetchedTitle = strings.TrimSpace(result.Metadata.Title)
	}

	var links []models.ExternalLink
	for _, anchor := range scanner.Scan(body) {
		if skipHref(anchor.Href) {
			continue
		}

		normalized := urlutil.Normalize(anchor.Href, article.URL)
		if !urlutil.IsValid(normalized) {
			continue
		}
		// Fragment-bearing links are dropped here the same way they are at
		// level 1, so foo.com/x and foo.com/x#section cannot both survive.
		if strings.Contains(normalized, "#") {
			continue
		}
		if !urlutil.IsExternal(normalized, article.URL) {
			continue
		}
		domain := urlutil.Domain(normalized)
		if domain == "" {
			continue
		}

		links = append(links, models.ExternalLink{
			URL:           normalized,
			Title:         strings.TrimSpace(anchor.Text),
			Source:        article.Title,
			SourceArticle: article.URL,
			Domain:        domain,
		})
	}
	return links
}

func urlPath(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

// skipHref filters hrefs that are never crawlable, before any normalization.
func skipHref(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return true
	}
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:")
}
