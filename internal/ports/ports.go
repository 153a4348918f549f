package ports

import (
	"context"
	"time"

	"ArticleEnhancer/internal/domain"
)

// ArticleStore is the content store the pipeline reads candidates from and
// publishes derivatives to.
type ArticleStore interface {
	ListArticles(ctx context.Context) ([]domain.Article, error)
	Publish(ctx context.Context, result domain.EnhancementResult) error
}

// ReferenceSource discovers reference material for a query. Implementations
// degrade to fewer (possibly zero) references instead of failing.
type ReferenceSource interface {
	FindReferences(ctx context.Context, query string) ([]domain.Reference, error)
}

// Rewriter sends a prompt to a generation service and returns the rewritten
// Markdown body.
type Rewriter interface {
	Rewrite(ctx context.Context, prompt string) (string, error)
}

// AttemptJournal tracks per-candidate outcomes so retries can be bounded
// independently of the tick period.
type AttemptJournal interface {
	Record(ctx context.Context, title string, status domain.AttemptStatus) error
	Lookup(ctx context.Context, title string) (domain.Attempt, bool, error)
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
