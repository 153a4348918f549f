package domain

import (
	"strings"
	"time"
)

// Enhancement title prefixes. A derivative produced by a successful rewrite
// carries EnhancedPrefix; a degraded stub carries DegradedPrefix. The two are
// distinct namespaces: a degraded stub does not count as a full enhancement,
// so a later run may still produce the real thing.
const (
	EnhancedPrefix = "[Enhanced] "
	DegradedPrefix = "[Mock-Enhanced] "
)

// Article is a record held by the content store.
type Article struct {
	ID          int64
	Title       string
	Content     string
	SourceURL   string
	PublishedAt time.Time
}

// Reference is scraped external text cited by the rewrite. Transient, never
// persisted.
type Reference struct {
	URL     string
	Content string
}

// EnhancementResult is the payload submitted to the content store at the end
// of a run.
type EnhancementResult struct {
	Title       string
	Content     string
	SourceURL   string
	PublishedAt time.Time
}

// IsEnhanced reports whether the title marks a successful derivative.
func IsEnhanced(title string) bool {
	return strings.HasPrefix(title, EnhancedPrefix)
}

// IsDegraded reports whether the title marks a degraded stub.
func IsDegraded(title string) bool {
	return strings.HasPrefix(title, DegradedPrefix)
}

// AttemptStatus records the outcome of one enhancement attempt in the journal.
type AttemptStatus string

const (
	StatusEnhanced AttemptStatus = "enhanced"
	StatusDegraded AttemptStatus = "degraded"
	StatusFailed   AttemptStatus = "failed"
)

// Attempt is the journal's view of past work on one source article, keyed by
// the source title.
type Attempt struct {
	Title     string
	Status    AttemptStatus
	Attempts  int
	UpdatedAt time.Time
}
