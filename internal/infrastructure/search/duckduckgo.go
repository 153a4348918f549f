package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ArticleEnhancer/internal/domain"
	"ArticleEnhancer/internal/ports"
)

const (
	// maxReferences bounds the prompt; everything past the first two
	// ranked results is ignored.
	maxReferences   = 2
	maxReferenceLen = 5000
	minReferenceLen = 200

	defaultScrapeTimeout = 10 * time.Second

	// The HTML results page rejects obvious bot agents.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Fetcher discovers reference material via the DuckDuckGo HTML endpoint and
// scrapes the top-ranked result pages. Every failure degrades to fewer
// references; FindReferences only errors on programmer mistakes.
type Fetcher struct {
	endpoint      string
	excluded      []string
	scrapeTimeout time.Duration
	client        *http.Client
	logger        *slog.Logger
}

var _ ports.ReferenceSource = (*Fetcher)(nil)

// NewFetcher wires the search endpoint and the domains that must never be
// cited (the search provider itself, the publishing site, aggregators).
// client may be nil.
func NewFetcher(endpoint string, excluded []string, scrapeTimeout time.Duration, client *http.Client, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if scrapeTimeout <= 0 {
		scrapeTimeout = defaultScrapeTimeout
	}
	return &Fetcher{
		endpoint:      endpoint,
		excluded:      excluded,
		scrapeTimeout: scrapeTimeout,
		client:        client,
		logger:        logger,
	}
}

// FindReferences searches for the query and scrapes up to two result pages.
// Returns an empty slice when the provider is unreachable or every scrape
// fails; callers fall back to canned references.
func (f *Fetcher) FindReferences(ctx context.Context, query string) ([]domain.Reference, error) {
	links, err := f.search(ctx, query)
	if err != nil {
		f.warn("search failed", "query", query, "error", err)
		return nil, nil
	}
	f.debug("search produced links", "query", query, "count", len(links))

	if len(links) > maxReferences {
		links = links[:maxReferences]
	}

	// Scrapes are independently fallible; fan out and keep rank order.
	scraped := make([]*domain.Reference, len(links))
	var wg sync.WaitGroup
	for i, link := range links {
		wg.Add(1)
		go func(slot int, target string) {
			defer wg.Done()
			ref, err := f.scrape(ctx, target)
			if err != nil {
				f.warn("scrape failed", "url", target, "error", err)
				return
			}
			scraped[slot] = ref
		}(i, link)
	}
	wg.Wait()

	references := make([]domain.Reference, 0, len(scraped))
	for _, ref := range scraped {
		if ref != nil {
			references = append(references, *ref)
		}
	}
	return references, nil
}

func (f *Fetcher) search(ctx context.Context, query string) ([]string, error) {
	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}

	base, err := url.Parse(f.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %s: %w", f.endpoint, err)
	}

	var links []string
	doc.Find("a.result__a").Each(func(i int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		resolved := unwrapRedirect(base, href)
		if resolved == "" || f.isExcluded(resolved) {
			return
		}
		links = append(links, resolved)
	})

	return links, nil
}

// unwrapRedirect decodes the provider's outbound redirect (the uddg query
// parameter) and rejects anything that is not an absolute HTTP(S) URL.
func unwrapRedirect(base *url.URL, href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(parsed)

	if target := resolved.Query().Get("uddg"); target != "" {
		inner, err := url.Parse(target)
		if err != nil {
			return ""
		}
		resolved = inner
	}

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

func (f *Fetcher) isExcluded(link string) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return true
	}
	host := strings.ToLower(parsed.Hostname())
	for _, blocked := range f.excluded {
		blocked = strings.ToLower(blocked)
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return true
		}
	}
	return false
}

func (f *Fetcher) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}

func (f *Fetcher) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}
