package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"trading-journal-stats/internal/logger"
	"trading-journal-stats/internal/parser"
	"trading-journal-stats/internal/parser/parserobs"
	"trading-journal-stats/internal/pipeline"
	"trading-journal-stats/internal/report"
	"trading-journal-stats/internal/source"
	"trading-journal-stats/internal/stats"
	"trading-journal-stats/internal/stats/statsobs"
	"trading-journal-stats/internal/store"
	"trading-journal-stats/internal/trace"
)

// initializeSystem loads .env and the config file, then sets up logger and tracer
func initializeSystem(configPath string) (*store.Config, error) {
	// Load environment variables
	_ = godotenv.Load()

	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	if err := logger.InitWithConfig(cfg.Log.LogConfig); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.InitWithConfig(cfg.Log.Tracing); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return cfg, nil
}

func shutdownSystem() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := trace.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to shut down tracer: %v\n", err)
	}
	_ = logger.Sync()
}

type app struct {
	runner   *pipeline.Runner
	renderer *report.Renderer
	metrics  *pipeline.Metrics
}

// buildApp wires the report pipeline with observability wrappers
func buildApp(cfg *store.Config) (*app, error) {
	src, err := source.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create message source: %w", err)
	}

	dealParser := parserobs.Wrap(parser.New(parser.Config{
		DateLayouts: cfg.Parser.DateLayouts,
		Location:    cfg.ParserLocation(),
	}))

	statsCfg := stats.Config{
		ProfitThreshold: cfg.Stats.ProfitThreshold,
		LossThreshold:   cfg.Stats.LossThreshold,
	}
	aggregator := statsobs.Wrap(stats.New(statsCfg))

	renderer, err := report.New(report.Format(cfg.Report.Format), report.Options{
		Comment:   cfg.Report.Comment,
		Signature: cfg.Report.Signature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	metrics := pipeline.NewMetrics()
	runner := pipeline.New(src, dealParser, aggregator, renderer, pipeline.Options{
		Workers: cfg.Pipeline.Workers,
		Stats:   statsCfg,
		Metrics: metrics,
	})

	return &app{runner: runner, renderer: renderer, metrics: metrics}, nil
}
