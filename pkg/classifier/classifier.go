// Package classifier decides whether an internal link from the seed page
// plausibly points at article content rather than navigation or utility
// pages.
package classifier

import (
	"regexp"
	"strings"
)

// Navigation, taxonomy and utility paths that never hold article content.
var rejectPaths = []string{
	"/category/", "/tag/", "/author/", "/page/",
	"/search", "/login", "/register", "/contact", "/about",
}

var rejectExtensions = []string{".pdf", ".jpg", ".png", ".gif"}

// URL shapes that blogs and news sites use for content pages.
var acceptPaths = []string{"/article/", "/blog/", "/post/", "/news/", "/story/"}

var (
	datePathRe  = regexp.MustCompile(`/\d{4}/\d{2}/`)
	numericIDRe = regexp.MustCompile(`-\d+$`)
	yearTextRe  = regexp.MustCompile(`\b\d{4}\b`)
	keywordRe   = regexp.MustCompile(`(?i)\b(how|what|why|guide|tutorial|top|best|review|analysis|breaking|latest)\b`)
)

// IsArticle reports whether the normalized internal URL with the given
// anchor text should be crawled as an article. Rules run in order, first
// match wins. Callers pass only same-origin, successfully normalized links
// with anchor text of at least 5 characters.
func IsArticle(normalizedURL, anchorText string) bool {
	lower := strings.ToLower(normalizedURL)

	if strings.ContainsAny(normalizedURL, "#?") {
		return false
	}
	for _, p := range rejectPaths {
		if strings.Contains(lower, p) {
			return false
		}
	}
	for _, ext := range rejectExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}

	for _, p := range acceptPaths {
		if strings.Contains(lower, p) {
			return true
		}
	}
	if datePathRe.MatchString(normalizedURL) || numericIDRe.MatchString(normalizedURL) {
		return true
	}

	if yearTextRe.MatchString(anchorText) || keywordRe.MatchString(anchorText) {
		return true
	}

	// Fallback for sites without recognizable URL patterns: a long path
	// with a real title is usually content.
	return len(normalizedURL) > 20 && len(anchorText) > 10
}
