package linkmeta

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const maxTitleLength = 200

// PageMeta is what we could learn about a link's destination page.
type PageMeta struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Fetcher loads a destination page and extracts display metadata for the
// link dashboard. Failures are tolerable: a link works without a title.
type Fetcher struct {
	httpClient *http.Client
	log        *zap.Logger
	maxRetries int
}

func NewFetcher(timeoutMS, maxRetries int, log *zap.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutMS) * time.Millisecond,
		},
		log:        log,
		maxRetries: maxRetries,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*PageMeta, error) {
	var doc *goquery.Document
	var lastErr error

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		lastErr = nil
		break
	}

	if lastErr != nil {
		return nil, lastErr
	}

	return ExtractMeta(doc), nil
}

// ExtractMeta pulls title and description out of a parsed document,
// preferring OpenGraph tags over plain HTML ones.
func ExtractMeta(doc *goquery.Document) *PageMeta {
	meta := &PageMeta{FetchedAt: time.Now()}

	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		meta.Title = strings.TrimSpace(og)
	} else {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if utf8.RuneCountInString(meta.Title) > maxTitleLength {
		meta.Title = string([]rune(meta.Title)[:maxTitleLength])
	}

	if og, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		meta.Description = strings.TrimSpace(og)
	} else if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		meta.Description = strings.TrimSpace(desc)
	}

	return meta
}
