package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"barinalp/internal/app"
	"barinalp/internal/config"
	"barinalp/internal/domain/costobject"
	"barinalp/internal/domain/expense"
	"barinalp/internal/infrastructure/backend/webhook"
	"barinalp/pkg/logger"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "expense",
	Short: "BARIN ALP expense entry",
	Long: `Files supplier invoices against construction cost objects.

Without API_BASE_URL the command works in demo mode against an in-process
store (or Postgres when DATABASE_URL is set).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(objectsCmd, submitCmd, tokenCmd)
}

// setup loads config and puts a logger into ctx.
func setup(ctx context.Context) (context.Context, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return ctx, config.Config{}, err
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{
		Level:       level,
		Development: true,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return ctx, config.Config{}, fmt.Errorf("init logger: %w", err)
	}
	return logger.WithLogger(ctx, log), cfg, nil
}

// backend is what the commands talk to: the webhook API or the local services.
type backend struct {
	creator expense.InvoiceCreator
	objects expense.CostObjectLister
	close   func()
}

func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	if !cfg.Backend.Demo() {
		client := webhook.New(cfg.Backend)
		logger.Debug(ctx, "using webhook backend", "url", cfg.Backend.BaseURL)
		return &backend{
			creator: client,
			objects: costobject.NewCachedLister(client, cfg.Backend.ObjectsCacheTTL),
			close:   func() {},
		}, nil
	}

	stack, err := app.Build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "using local backend", "postgres", stack.Pool != nil)
	return &backend{
		creator: stack.Local,
		objects: stack.Local,
		close:   stack.Close,
	}, nil
}
