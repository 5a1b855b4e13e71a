// Package aggregator turns the raw external-link candidates collected during
// the crawl into the final deduplicated report.
package aggregator

import (
	"math"
	"sort"
	"time"

	"github.com/linkscout/linkscout/internal/models"
)

// Aggregate deduplicates raw external links by exact URL, keeping the first
// occurrence (the one from the earliest-processed article), sorts the result
// by ascending domain and derives the summary counts. elapsed is the
// wall-clock duration of the whole extraction.
func Aggregate(articles []models.ArticleLink, raw []models.ExternalLink, elapsed time.Duration) *models.ExtractionResult {
	deduped := make([]models.ExternalLink, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, link := range raw {
		if seen[link.URL] {
			continue
		}
		seen[link.URL] = true
		deduped = append(deduped, link)
	}

	// Stable so links sharing a domain keep first-seen order.
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Domain < deduped[j].Domain
	})

	domains := make(map[string]bool, len(deduped))
	sources := make(map[string]bool, len(deduped))
	for _, link := range deduped {
		domains[link.Domain] = true
		sources[link.SourceArticle] = true
	}

	if articles == nil {
		articles = []models.ArticleLink{}
	}

	return &models.ExtractionResult{
		TotalArticles:             len(articles),
		TotalExternalLinks:        len(deduped),
		UniqueDomains:             len(domains),
		ArticlesWithExternalLinks: len(sources),
		Articles:                  articles,
		ExternalLinks:             deduped,
		ProcessingTime:            math.Round(elapsed.Seconds()*100) / 100,
	}
}
