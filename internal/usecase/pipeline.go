package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ArticleEnhancer/internal/domain"
	"ArticleEnhancer/internal/ports"
)

// PipelineDeps wires all driven adapters into the enhancement pipeline.
type PipelineDeps struct {
	Store      ports.ArticleStore
	References ports.ReferenceSource
	Rewriter   ports.Rewriter
	Journal    ports.AttemptJournal

	// Fallback is cited when reference discovery yields nothing usable.
	Fallback []domain.Reference

	// PublishDomain hosts the synthetic source URLs of enhanced articles.
	PublishDomain string

	// MaxAttempts and Backoff bound retries per candidate; only enforced
	// when a journal is present.
	MaxAttempts int
	Backoff     time.Duration

	Logger *slog.Logger
	Now    func() time.Time
}

// Pipeline implements one enhancement run: select a candidate, gather
// references, rewrite, publish.
type Pipeline struct {
	store         ports.ArticleStore
	references    ports.ReferenceSource
	rewriter      ports.Rewriter
	journal       ports.AttemptJournal
	fallback      []domain.Reference
	publishDomain string
	maxAttempts   int
	backoff       time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		store:         deps.Store,
		references:    deps.References,
		rewriter:      deps.Rewriter,
		journal:       deps.Journal,
		fallback:      deps.Fallback,
		publishDomain: deps.PublishDomain,
		maxAttempts:   deps.MaxAttempts,
		backoff:       deps.Backoff,
		logger:        deps.Logger,
		now:           now,
	}
}

// Run executes a single tick. An error return means nothing was published
// this tick; the candidate stays eligible for the next one.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.store == nil {
		return nil
	}

	articles, err := p.store.ListArticles(ctx)
	if err != nil {
		return fmt.Errorf("list articles: %w", err)
	}

	candidate, ok := SelectCandidate(articles, p.retryFilter(ctx))
	if !ok {
		p.info("nothing to enhance", "articles", len(articles))
		return nil
	}
	p.info("selected candidate", "title", candidate.Title, "id", candidate.ID)

	references := p.gatherReferences(ctx, candidate.Title)
	if len(references) == 0 {
		return fmt.Errorf("no reference material for %q and no fallback configured", candidate.Title)
	}

	prompt := BuildPrompt(candidate, references)
	body, err := p.rewriter.Rewrite(ctx, prompt)
	if err != nil {
		return p.handleGenerationFailure(ctx, candidate, references, err)
	}

	result := domain.EnhancementResult{
		Title:       domain.EnhancedPrefix + candidate.Title,
		Content:     body,
		SourceURL:   fmt.Sprintf("https://%s/enhanced-article-%s", p.publishDomain, uuid.NewString()),
		PublishedAt: p.now(),
	}

	if err := p.store.Publish(ctx, result); err != nil {
		p.record(ctx, candidate.Title, domain.StatusFailed)
		return fmt.Errorf("publish enhanced article: %w", err)
	}

	p.record(ctx, candidate.Title, domain.StatusEnhanced)
	p.info("published enhanced article", "title", result.Title, "references", len(references))
	return nil
}

// gatherReferences runs discovery and falls back to the canned references so
// the run never starves downstream stages.
func (p *Pipeline) gatherReferences(ctx context.Context, query string) []domain.Reference {
	var references []domain.Reference
	if p.references != nil {
		found, err := p.references.FindReferences(ctx, query)
		if err != nil {
			p.warn("reference discovery failed", "query", query, "error", err)
		} else {
			references = found
		}
	}

	if len(references) == 0 && len(p.fallback) > 0 {
		p.warn("no usable references found, citing fallback material", "query", query)
		references = p.fallback
	}

	if len(references) > maxPromptReferences {
		references = references[:maxPromptReferences]
	}
	return references
}

// handleGenerationFailure publishes a degraded stub for recoverable statuses
// and ends the run unpublished otherwise.
func (p *Pipeline) handleGenerationFailure(ctx context.Context, candidate domain.Article, references []domain.Reference, cause error) error {
	var genErr *domain.GenerationError
	if !errors.As(cause, &genErr) || !genErr.Recoverable() {
		p.record(ctx, candidate.Title, domain.StatusFailed)
		return fmt.Errorf("rewrite %q: %w", candidate.Title, cause)
	}

	p.warn("generation failed, publishing degraded stub", "title", candidate.Title, "status", genErr.Status)

	result := buildDegradedResult(candidate, references, genErr.Status, p.now())
	if err := p.store.Publish(ctx, result); err != nil {
		p.record(ctx, candidate.Title, domain.StatusFailed)
		return fmt.Errorf("publish degraded article: %w", err)
	}

	p.record(ctx, candidate.Title, domain.StatusDegraded)
	p.info("published degraded article", "title", result.Title)
	return nil
}

// retryFilter skips candidates whose failure history exhausted the retry
// budget or whose last attempt is still inside the backoff window. Without a
// journal every candidate is retried on every tick.
func (p *Pipeline) retryFilter(ctx context.Context) func(domain.Article) bool {
	if p.journal == nil {
		return nil
	}

	return func(article domain.Article) bool {
		attempt, found, err := p.journal.Lookup(ctx, article.Title)
		if err != nil {
			p.warn("journal lookup failed", "title", article.Title, "error", err)
			return true
		}
		if !found || attempt.Status == domain.StatusEnhanced {
			return true
		}

		// Only failed outcomes consume the budget: a degraded stub was
		// published, so its source must stay reachable for a full
		// enhancement once the generation service recovers.
		if attempt.Status == domain.StatusFailed && p.maxAttempts > 0 && attempt.Attempts >= p.maxAttempts {
			p.debug("retry budget exhausted", "title", article.Title, "attempts", attempt.Attempts)
			return false
		}
		if p.backoff > 0 && p.now().Sub(attempt.UpdatedAt) < p.backoff {
			p.debug("candidate in backoff", "title", article.Title, "since", attempt.UpdatedAt)
			return false
		}
		return true
	}
}

func (p *Pipeline) record(ctx context.Context, title string, status domain.AttemptStatus) {
	if p.journal == nil {
		return
	}
	if err := p.journal.Record(ctx, title, status); err != nil {
		p.warn("journal record failed", "title", title, "error", err)
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
