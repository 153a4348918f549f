package app

import (
	"context"
	"log/slog"
	"net/url"

	"ArticleEnhancer/internal/config"
	"ArticleEnhancer/internal/infrastructure/journal"
	"ArticleEnhancer/internal/infrastructure/llm"
	"ArticleEnhancer/internal/infrastructure/scheduler"
	"ArticleEnhancer/internal/infrastructure/search"
	"ArticleEnhancer/internal/infrastructure/store"
	"ArticleEnhancer/internal/logging"
	"ArticleEnhancer/internal/ports"
	"ArticleEnhancer/internal/usecase"
)

// Application wires configuration to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	journal   *journal.SQLiteJournal
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	contentStore := store.NewClient(cfg.Store.BaseURL, nil)

	fetcher := search.NewFetcher(
		cfg.Search.Endpoint,
		excludedDomains(cfg),
		cfg.Search.ScrapeTimeout.Std(),
		nil,
		baseLogger.With("component", "search"),
	)

	rewriter := llm.NewClient(cfg.LLM)

	var attempts ports.AttemptJournal
	var sqliteJournal *journal.SQLiteJournal
	if cfg.Journal.Path != "" {
		opened, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return nil, err
		}
		sqliteJournal = opened
		attempts = opened
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Store:         contentStore,
		References:    fetcher,
		Rewriter:      rewriter,
		Journal:       attempts,
		Fallback:      search.FallbackReferences(),
		PublishDomain: cfg.Store.PublishDomain,
		MaxAttempts:   cfg.Retry.MaxAttempts,
		Backoff:       cfg.Retry.Backoff.Std(),
		Logger:        baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewIntervalScheduler(
		cfg.Scheduler.Interval.Std(),
		baseLogger.With("component", "scheduler"),
	)

	return &Application{
		cfg:       cfg,
		pipeline:  pipeline,
		scheduler: usecase.NewScheduler(driver, pipeline, baseLogger.With("component", "scheduler")),
		journal:   sqliteJournal,
	}, nil
}

// RunOnce executes a single enhancement run.
func (a *Application) RunOnce(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}
	return a.pipeline.Run(ctx)
}

// RunForever starts the scheduler and blocks until ctx is done.
func (a *Application) RunForever(ctx context.Context) error {
	if a.scheduler == nil {
		return nil
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return a.scheduler.Stop(context.Background())
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.journal == nil {
		return nil
	}
	return a.journal.Close()
}

// excludedDomains is the set of hosts reference discovery must never cite:
// the configured aggregators, the search provider itself, and the site the
// pipeline publishes to (citing it would feed enhanced articles back into
// later enhancements).
func excludedDomains(cfg config.Config) []string {
	excluded := append([]string{}, cfg.Search.ExcludedDomains...)
	if parsed, err := url.Parse(cfg.Search.Endpoint); err == nil && parsed.Hostname() != "" {
		excluded = append(excluded, parsed.Hostname())
	}
	if cfg.Store.PublishDomain != "" {
		excluded = append(excluded, cfg.Store.PublishDomain)
	}
	return excluded
}
