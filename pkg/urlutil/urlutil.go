// Package urlutil provides URL validation, normalization and origin
// comparison for the extraction pipeline.
package urlutil

import (
	"net/url"
	"strings"
)

// IsValid reports whether s parses as an absolute URL. Used as the admission
// filter before any link is kept.
func IsValid(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs() && u.Host != ""
}

// Domain returns the hostname of rawURL with a leading "www." stripped.
// Returns the empty string on parse failure; callers drop such links.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// Normalize resolves href against base per standard URI resolution. A
// protocol-relative href ("//host/path") is rewritten to https before
// resolution. Malformed input is returned unchanged.
func Normalize(href, base string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	refURL, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(refURL).String()
}

// IsExternal reports whether link, resolved against base, points at a
// different hostname than base. Parse failures count as not external so that
// malformed input never produces a false positive.
func IsExternal(link, base string) bool {
	baseURL, err := url.Parse(base)
	if err != nil || baseURL.Hostname() == "" {
		return false
	}
	linkURL, err := url.Parse(Normalize(link, base))
	if err != nil || linkURL.Hostname() == "" {
		return false
	}
	return linkURL.Hostname() != baseURL.Hostname()
}
