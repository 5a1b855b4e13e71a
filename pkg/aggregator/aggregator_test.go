package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkscout/linkscout/internal/models"
)

func TestAggregateDedupKeepsFirstSeen(t *testing.T) {
	raw := []models.ExternalLink{
		{URL: "https://foo.com/x", Source: "Article A", SourceArticle: "https://blog.test/a", Domain: "foo.com"},
		{URL: "https://foo.com/x", Source: "Article B", SourceArticle: "https://blog.test/b", Domain: "foo.com"},
	}

	result := Aggregate(nil, raw, time.Second)
	require.Len(t, result.ExternalLinks, 1)

	// Later duplicates never overwrite the kept entry's provenance.
	assert.Equal(t, "Article A", result.ExternalLinks[0].Source)
	assert.Equal(t, "https://blog.test/a", result.ExternalLinks[0].SourceArticle)
}

func TestAggregateSortsByDomain(t *testing.T) {
	raw := []models.ExternalLink{
		{URL: "https://zeta.com/1", Domain: "zeta.com", SourceArticle: "https://blog.test/a"},
		{URL: "https://alpha.com/1", Domain: "alpha.com", SourceArticle: "https://blog.test/a"},
		{URL: "https://mid.com/1", Domain: "mid.com", SourceArticle: "https://blog.test/a"},
	}

	result := Aggregate(nil, raw, time.Second)
	require.Len(t, result.ExternalLinks, 3)
	assert.Equal(t, "alpha.com", result.ExternalLinks[0].Domain)
	assert.Equal(t, "mid.com", result.ExternalLinks[1].Domain)
	assert.Equal(t, "zeta.com", result.ExternalLinks[2].Domain)
}

func TestAggregateSortIsStableWithinDomain(t *testing.T) {
	raw := []models.ExternalLink{
		{URL: "https://foo.com/first", Domain: "foo.com", SourceArticle: "https://blog.test/a"},
		{URL: "https://foo.com/second", Domain: "foo.com", SourceArticle: "https://blog.test/b"},
	}

	result := Aggregate(nil, raw, time.Second)
	require.Len(t, result.ExternalLinks, 2)
	assert.Equal(t, "https://foo.com/first", result.ExternalLinks[0].URL)
	assert.Equal(t, "https://foo.com/second", result.ExternalLinks[1].URL)
}

func TestAggregateCounts(t *testing.T) {
	articles := []models.ArticleLink{
		{URL: "https://blog.test/a", Title: "A", Domain: "blog.test"},
		{URL: "https://blog.test/b", Title: "B", Domain: "blog.test"},
		{URL: "https://blog.test/c", Title: "C", Domain: "blog.test"},
	}
	raw := []models.ExternalLink{
		{URL: "https://foo.com/x", Domain: "foo.com", SourceArticle: "https://blog.test/a"},
		{URL: "https://bar.com/y", Domain: "bar.com", SourceArticle: "https://blog.test/a"},
		// Article b only contributes a duplicate of a's link, so it must not
		// count as a contributing article.
		{URL: "https://foo.com/x", Domain: "foo.com", SourceArticle: "https://blog.test/b"},
	}

	result := Aggregate(articles, raw, 2500*time.Millisecond)

	assert.Equal(t, 3, result.TotalArticles)
	assert.Equal(t, 2, result.TotalExternalLinks)
	assert.Equal(t, 2, result.UniqueDomains)
	assert.Equal(t, 1, result.ArticlesWithExternalLinks)
	assert.Equal(t, 2.5, result.ProcessingTime)
}

func TestAggregateEmptyInputs(t *testing.T) {
	result := Aggregate(nil, nil, 10*time.Millisecond)

	assert.NotNil(t, result.Articles)
	assert.NotNil(t, result.ExternalLinks)
	assert.Zero(t, result.TotalExternalLinks)
	assert.Zero(t, result.UniqueDomains)
	assert.Zero(t, result.ArticlesWithExternalLinks)
	assert.Equal(t, 0.01, result.ProcessingTime)
}

func TestAggregateNoDuplicateURLsInvariant(t *testing.T) {
	raw := []models.ExternalLink{
		{URL: "https://a.com/1", Domain: "a.com"},
		{URL: "https://b.com/1", Domain: "b.com"},
		{URL: "https://a.com/1", Domain: "a.com"},
		{URL: "https://a.com/2", Domain: "a.com"},
		{URL: "https://b.com/1", Domain: "b.com"},
	}

	result := Aggregate(nil, raw, time.Second)

	seen := make(map[string]bool)
	for _, link := range result.ExternalLinks {
		assert.False(t, seen[link.URL], "duplicate url %s", link.URL)
		seen[link.URL] = true
	}
	assert.Len(t, result.ExternalLinks, 3)
}
