package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"ArticleEnhancer/internal/domain"
)

// scrape fetches one result page and extracts its paragraph text. Returns an
// error for pages that are unreachable or too sparse to serve as reference
// material.
func (f *Fetcher) scrape(ctx context.Context, link string) (*domain.Reference, error) {
	ctx, cancel := context.WithTimeout(ctx, f.scrapeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	content := extractText(doc)
	if len(content) < minReferenceLen {
		return nil, fmt.Errorf("only %d chars of text", len(content))
	}

	f.debug("scraped page", "url", link, "chars", len(content))
	return &domain.Reference{URL: link, Content: content}, nil
}

// extractText strips script/style markup and joins paragraph text, truncated
// to the reference bound.
func extractText(doc *goquery.Document) string {
	doc.Find("script, style").Remove()

	var parts []string
	doc.Find("p").Each(func(i int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	content := strings.Join(parts, "\n\n")
	if len(content) > maxReferenceLen {
		cut := maxReferenceLen
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut]
	}
	return content
}
