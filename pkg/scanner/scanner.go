// Package scanner discovers anchor elements in raw HTML.
//
// The scan is tolerant by contract: it walks the token stream and never
// fails on malformed or truncated markup. Pairs are emitted in document
// order and are not deduplicated; deduplication is a caller concern applied
// with different keys at each crawl level.
package scanner

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Anchor is one discovered anchor element with an href attribute.
type Anchor struct {
	Href string
	Text string
}

// Void elements never produce an end tag, so they must not affect the
// nesting depth inside an anchor body.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Scan extracts every anchor with an href attribute from htmlText. The
// anchor text is the literal text directly inside the anchor; text nested
// inside child elements is not flattened in.
func Scan(htmlText string) []Anchor {
	var anchors []Anchor
	tokenizer := html.NewTokenizer(strings.NewReader(htmlText))

	var (
		inAnchor bool
		href     string
		depth    int
		text     strings.Builder
	)

	flush := func() {
		if inAnchor {
			anchors = append(anchors, Anchor{Href: href, Text: strings.TrimSpace(text.String())})
		}
		inAnchor = false
		depth = 0
		text.Reset()
	}

	for {
		tokenType := tokenizer.Next()
		switch tokenType {
		case html.ErrorToken:
			// io.EOF and parse errors end the scan the same way; an open
			// anchor at EOF is still emitted.
			if tokenizer.Err() == io.EOF {
				flush()
			}
			return anchors

		case html.StartTagToken:
			token := tokenizer.Token()
			if token.Data == "a" {
				flush()
				for _, attr := range token.Attr {
					if attr.Key == "href" {
						inAnchor = true
						href = attr.Val
						break
					}
				}
			} else if inAnchor && !voidElements[token.Data] {
				depth++
			}

		case html.EndTagToken:
			token := tokenizer.Token()
			if token.Data == "a" {
				flush()
			} else if inAnchor && depth > 0 {
				depth--
			}

		case html.TextToken:
			if inAnchor && depth == 0 {
				text.WriteString(tokenizer.Token().Data)
			}
		}
	}
}
