package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/rickgao/crypto-etl/internal/config"
	"github.com/rickgao/crypto-etl/internal/pipeline"
	"github.com/rickgao/crypto-etl/internal/table"
	"github.com/rickgao/crypto-etl/internal/version"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "path to config file")
	envFile := flag.String("env", config.DefaultEnvFile, "path to .env file")
	variantName := flag.String("variant", "", "pipeline variant (overrides config): markets, candles, listing")
	preview := flag.Int("preview", 5, "rows of the processed table to print, 0 to disable")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.LoadWithDefaults(*configPath)
	if err == nil && *variantName != "" {
		cfg.Variant = *variantName
	}
	if err == nil {
		err = cfg.Validate()
	}

	level := slog.LevelInfo
	if cfg != nil {
		level = cfg.Logging.SlogLevel()
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err != nil {
		logger.Error("failed to load config", "config", *configPath, "error", err)
		os.Exit(1)
	}

	logger.Info("starting etl",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"variant", cfg.Variant,
	)

	variant, err := pipeline.Lookup(cfg.Variant)
	if err != nil {
		logger.Error("invalid variant", "error", err)
		os.Exit(1)
	}

	p := pipeline.New(cfg, variant, pipeline.WithLogger(logger))

	summary, err := p.Run(context.Background())
	if err != nil {
		logger.Error("pipeline failed", "variant", variant.Name, "error", err)
		os.Exit(1)
	}

	fmt.Println("pipeline completed")
	fmt.Println("raw files:")
	for _, f := range summary.RawFiles {
		fmt.Println("  " + f)
	}
	fmt.Println("processed file:", summary.ProcessedFile)
	fmt.Println("rows loaded:", summary.RowCount)

	if *preview > 0 {
		fmt.Println()
		if err := table.Render(os.Stdout, summary.Table, *preview); err != nil {
			logger.Error("failed to render preview", "error", err)
			os.Exit(1)
		}
	}
}
