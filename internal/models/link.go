package models

// ArticleLink is an internal link on the seed page that was classified as
// likely article content. Identity is the normalized URL; the first
// occurrence on the page wins.
type ArticleLink struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	Domain       string `json:"domain"`
	FetchedTitle string `json:"fetchedTitle,omitempty"`
}

// ExternalLink is a link found inside an article page whose hostname differs
// from the article's own hostname.
type ExternalLink struct {
	URL           string `json:"url"`
	Title         string `json:"title,omitempty"`
	Source        string `json:"source"`
	SourceArticle string `json:"sourceArticle"`
	Domain        string `json:"domain"`
}

// ExtractionResult is the aggregate report for one extraction request.
type ExtractionResult struct {
	TotalArticles             int            `json:"totalArticles"`
	TotalExternalLinks        int            `json:"totalExternalLinks"`
	UniqueDomains             int            `json:"uniqueDomains"`
	ArticlesWithExternalLinks int            `json:"articlesWithExternalLinks"`
	Articles                  []ArticleLink  `json:"articles"`
	ExternalLinks             []ExternalLink `json:"externalLinks"`
	ProcessingTime            float64        `json:"processingTime"`
}

// DomainCount is one row of the per-domain export summary.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}
