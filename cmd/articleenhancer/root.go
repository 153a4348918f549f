package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ArticleEnhancer/internal/app"
	"ArticleEnhancer/internal/config"
	"ArticleEnhancer/internal/logging"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "articleenhancer",
		Short:         "Rewrites content-store articles with web references and an LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newOnceCommand())
	rootCmd.AddCommand(newRunCommand())

	return rootCmd
}

// newOnceCommand executes a single enhancement run and exits.
func newOnceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Run one enhancement pass and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := logging.New(cfg.Logging.Level)

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			return application.RunOnce(cmd.Context())
		},
	}
}

// newRunCommand starts the recurring scheduler until interrupted.
func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the enhancement scheduler until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := logging.New(cfg.Logging.Level)

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("scheduler starting", "interval", cfg.Scheduler.Interval.Std())
			return application.RunForever(ctx)
		},
	}
}
