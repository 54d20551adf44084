// Package cli provides the command-line interface for tailorflow.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tailorflow/tailorflow/internal/compliance"
	"github.com/tailorflow/tailorflow/internal/config"
	"github.com/tailorflow/tailorflow/internal/extract"
	"github.com/tailorflow/tailorflow/internal/ground"
	"github.com/tailorflow/tailorflow/internal/index"
	"github.com/tailorflow/tailorflow/internal/llm"
	"github.com/tailorflow/tailorflow/internal/match"
	"github.com/tailorflow/tailorflow/internal/metrics"
	"github.com/tailorflow/tailorflow/internal/normalize"
	"github.com/tailorflow/tailorflow/internal/pipeline"
	"github.com/tailorflow/tailorflow/internal/qa"
	"github.com/tailorflow/tailorflow/internal/rewrite"
	"github.com/tailorflow/tailorflow/internal/service"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and clients
	cfg       config.Config
	tuning    config.Tuning
	idxClient *index.Client
	embedder  *llm.Embedder
	collector *metrics.Collector
	pool      *pipeline.Pool
	svc       *service.Service
	closeLog  func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tailorflow",
	Short: "Provenance-tracked resume tailoring pipeline",
	Long: `Tailorflow turns raw resumes into validated candidate profiles, grounds
them against job, ontology and template indices, and produces tailored
output in which every claim is backed by evidence from the source
document. Unsupported content is stripped or escalated, never invented.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip stack setup for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()

		logger, closer := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		closeLog = closer

		var err error
		tuning = config.DefaultTuning()
		if cfg.TuningFile != "" {
			tuning, err = config.LoadTuning(cfg.TuningFile)
			if err != nil {
				return fmt.Errorf("load tuning: %w", err)
			}
		}

		ctx := context.Background()
		idxClient, err = index.NewClient(ctx, index.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
			Dimension: cfg.EmbedDimension,
		}, logger)
		if err != nil {
			return fmt.Errorf("connect to index: %w", err)
		}
		if err := idxClient.InitSchema(ctx); err != nil {
			return fmt.Errorf("initialize index schema: %w", err)
		}

		embedder, err = llm.NewEmbedder(cfg)
		if err != nil {
			return fmt.Errorf("init embedder: %w", err)
		}
		model, err := llm.NewModel(ctx, cfg)
		if err != nil {
			return fmt.Errorf("init model: %w", err)
		}

		collector = metrics.NewCollector()
		pipe := pipeline.New(
			extract.New(logger),
			normalize.New(normalize.NewOntology(tuning.OntologyMinSimilarity), logger),
			ground.New(idxClient, embedder, tuning, cfg.IndexTimeout, logger),
			rewrite.New(model, tuning, logger),
			compliance.New(tuning, logger),
			qa.New(tuning, logger),
			match.New(tuning, logger),
			tuning, cfg.ModelTimeout, collector, logger,
		)
		pool = pipeline.NewPool(pipe, cfg.Workers, cfg.QueueCapacity, logger)
		svc = service.New(pool, cfg.TicketDeadline, collector, logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if pool != nil {
			pool.Close()
		}
		if idxClient != nil {
			if err := idxClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close index: %v\n", err)
			}
		}
		if closeLog != nil {
			if err := closeLog(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log: %v\n", err)
			}
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(bundleCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(seedCmd)
}

// exitWithError prints an error message and exits with code 1.
func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
