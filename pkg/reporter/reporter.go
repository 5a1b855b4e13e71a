// Package reporter exports a finished extraction result for downstream
// consumers. It builds a per-domain summary and serializes it; the core
// extraction pipeline knows nothing about export filtering.
package reporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/linkscout/linkscout/internal/models"
)

// Reporter handles report generation in various formats
type Reporter struct {
	excludedDomains map[string]bool
}

// New creates a Reporter. excludedDomains lists domains (without "www.") to
// drop from every summary, e.g. social or media CDNs the consumer does not
// care about.
func New(excludedDomains []string) *Reporter {
	excluded := make(map[string]bool, len(excludedDomains))
	for _, d := range excludedDomains {
		excluded[d] = true
	}
	return &Reporter{excludedDomains: excluded}
}

// DomainSummary rolls up the external links by domain, descending by count
// with ascending domain as the tiebreak, minus the excluded domains.
func (r *Reporter) DomainSummary(result *models.ExtractionResult) []models.DomainCount {
	counts := make(map[string]int)
	for _, link := range result.ExternalLinks {
		if r.excludedDomains[link.Domain] {
			continue
		}
		counts[link.Domain]++
	}

	summary := make([]models.DomainCount, 0, len(counts))
	for domain, count := range counts {
		summary = append(summary, models.DomainCount{Domain: domain, Count: count})
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].Count == summary[j].Count {
			return summary[i].Domain < summary[j].Domain
		}
		return summary[i].Count > summary[j].Count
	})
	return summary
}

// Generate serializes the domain summary in the requested format.
func (r *Reporter) Generate(result *models.ExtractionResult, format string) (string, error) {
	summary := r.DomainSummary(result)

	switch format {
	case "json":
		return generateJSON(summary)
	case "csv":
		return generateCSV(summary)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func generateJSON(summary []models.DomainCount) (string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %w", err)
	}
	return string(data), nil
}

func generateCSV(summary []models.DomainCount) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"domain", "count"}); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, entry := range summary {
		if err := w.Write([]string{entry.Domain, strconv.Itoa(entry.Count)}); err != nil {
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.String(), nil
}
