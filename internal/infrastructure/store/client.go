package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ArticleEnhancer/internal/domain"
	"ArticleEnhancer/internal/ports"
)

// Client talks to the content store's REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.ArticleStore = (*Client)(nil)

// NewClient creates a reusable HTTP client; httpClient may be nil.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
	}
}

// PublishError reports a non-success response from the creation endpoint.
type PublishError struct {
	Status int
	Body   string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("content store returned %d: %s", e.Status, e.Body)
}

type articleRecord struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	SourceURL   string `json:"source_url"`
	PublishedAt string `json:"published_at"`
}

// listEnvelope matches the store's paginated listing. Some deployments return
// a bare array instead, so decoding tries both.
type listEnvelope struct {
	Data []articleRecord `json:"data"`
}

// ListArticles fetches the first page of articles, newest first.
func (c *Client) ListArticles(ctx context.Context) ([]domain.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/articles", nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list articles: unexpected status %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}

	records, err := decodeListing(raw)
	if err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	articles := make([]domain.Article, 0, len(records))
	for _, rec := range records {
		articles = append(articles, rec.toDomain())
	}
	return articles, nil
}

// Publish submits a new article record.
func (c *Client) Publish(ctx context.Context, result domain.EnhancementResult) error {
	body, err := json.Marshal(map[string]string{
		"title":        result.Title,
		"content":      result.Content,
		"source_url":   result.SourceURL,
		"published_at": result.PublishedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal article: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/articles", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("publish article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &PublishError{Status: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
	}

	return nil
}

func decodeListing(raw []byte) ([]articleRecord, error) {
	var envelope listEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data, nil
	}

	var bare []articleRecord
	if err := json.Unmarshal(raw, &bare); err != nil {
		return nil, err
	}
	return bare, nil
}

func (r articleRecord) toDomain() domain.Article {
	publishedAt, err := time.Parse(time.RFC3339, r.PublishedAt)
	if err != nil {
		// Laravel-style stores emit "2006-01-02 15:04:05" timestamps.
		publishedAt, _ = time.Parse("2006-01-02 15:04:05", r.PublishedAt)
	}
	return domain.Article{
		ID:          r.ID,
		Title:       r.Title,
		Content:     r.Content,
		SourceURL:   r.SourceURL,
		PublishedAt: publishedAt,
	}
}
