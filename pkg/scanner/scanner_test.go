package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanDocumentOrder(t *testing.T) {
	htmlText := `
		<html><body>
		<a href="/first">First post</a>
		<p>filler</p>
		<a href="/second">Second post</a>
		<a href="/third">Third post</a>
		</body></html>
	`

	anchors := Scan(htmlText)
	require.Len(t, anchors, 3)
	assert.Equal(t, "/first", anchors[0].Href)
	assert.Equal(t, "/second", anchors[1].Href)
	assert.Equal(t, "/third", anchors[2].Href)
	assert.Equal(t, "First post", anchors[0].Text)
}

func TestScanDoesNotDeduplicate(t *testing.T) {
	htmlText := `<a href="/x">One</a><a href="/x">Two</a>`

	anchors := Scan(htmlText)
	require.Len(t, anchors, 2)
	assert.Equal(t, "One", anchors[0].Text)
	assert.Equal(t, "Two", anchors[1].Text)
}

func TestScanNestedMarkupNotFlattened(t *testing.T) {
	htmlText := `<a href="/x">before <span>inside span</span> after</a>`

	anchors := Scan(htmlText)
	require.Len(t, anchors, 1)
	assert.Equal(t, "before  after", anchors[0].Text)
}

func TestScanIgnoresAnchorsWithoutHref(t *testing.T) {
	htmlText := `<a name="top">Anchor target</a><a href="/real">Real</a>`

	anchors := Scan(htmlText)
	require.Len(t, anchors, 1)
	assert.Equal(t, "/real", anchors[0].Href)
}

func TestScanVoidElementsInsideAnchor(t *testing.T) {
	htmlText := `<a href="/x">read<br>more</a>`

	anchors := Scan(htmlText)
	require.Len(t, anchors, 1)
	assert.Equal(t, "readmore", anchors[0].Text)
}

func TestScanToleratesMalformedHTML(t *testing.T) {
	tests := []struct {
		name     string
		htmlText string
		want     int
	}{
		{"unclosed anchor at EOF", `<a href="/x">dangling`, 1},
		{"new anchor before close", `<a href="/a">one<a href="/b">two</a>`, 2},
		{"truncated tag", `<a href="/x">ok</a><a hre`, 1},
		{"empty input", ``, 0},
		{"not html at all", `just some text`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Scan(tt.htmlText), tt.want)
		})
	}
}
