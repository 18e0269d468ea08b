package linkmeta

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestExtractMetaPlainTitle(t *testing.T) {
	doc := docFrom(t, `<html><head>
		<title>  My Page  </title>
		<meta name="description" content="A page about things.">
	</head><body></body></html>`)

	meta := ExtractMeta(doc)
	if meta.Title != "My Page" {
		t.Errorf("title = %q, want %q", meta.Title, "My Page")
	}
	if meta.Description != "A page about things." {
		t.Errorf("description = %q", meta.Description)
	}
}

func TestExtractMetaPrefersOpenGraph(t *testing.T) {
	doc := docFrom(t, `<html><head>
		<title>Fallback</title>
		<meta property="og:title" content="OG Title">
		<meta name="description" content="plain desc">
		<meta property="og:description" content="og desc">
	</head></html>`)

	meta := ExtractMeta(doc)
	if meta.Title != "OG Title" {
		t.Errorf("title = %q, want OG Title", meta.Title)
	}
	if meta.Description != "og desc" {
		t.Errorf("description = %q, want og desc", meta.Description)
	}
}

func TestExtractMetaEmptyDocument(t *testing.T) {
	meta := ExtractMeta(docFrom(t, `<html><head></head><body></body></html>`))
	if meta.Title != "" || meta.Description != "" {
		t.Errorf("expected empty meta, got %+v", meta)
	}
}

func TestExtractMetaTruncatesLongTitle(t *testing.T) {
	long := strings.Repeat("a", 500)
	meta := ExtractMeta(docFrom(t, "<html><head><title>"+long+"</title></head></html>"))
	if len(meta.Title) != maxTitleLength {
		t.Errorf("title length = %d, want %d", len(meta.Title), maxTitleLength)
	}
}

func TestExtractMetaTruncatesOnRunes(t *testing.T) {
	// Multibyte titles must not be cut mid-rune.
	long := strings.Repeat("é", 300)
	meta := ExtractMeta(docFrom(t, "<html><head><title>"+long+"</title></head></html>"))
	if got := utf8.RuneCountInString(meta.Title); got != maxTitleLength {
		t.Errorf("title runes = %d, want %d", got, maxTitleLength)
	}
	if !utf8.ValidString(meta.Title) {
		t.Error("truncated title is not valid UTF-8")
	}
}
