package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/byline/internal/cli"
	"horse.fit/byline/internal/config"
	"horse.fit/byline/internal/db"
	"horse.fit/byline/internal/logging"
)

func runProcess(args []string) int {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 15*time.Minute, "Command timeout for both stages")
	full := fs.Bool("full", false, "Ignore the dedup resume ledger and re-process every article")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("process command failed to connect to database")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	resolveResult, err := executeResolve(ctx, cfg, logger, pool, resolveOptions{
		NERRequestTimeout: 30 * time.Second,
	})
	if err != nil {
		logger.Error().Err(err).Msg("process: resolve stage failed")
		fmt.Fprintf(os.Stderr, "Resolve stage failed: %v\n", err)
		return 1
	}
	fmt.Printf(
		"resolve run_id=%d authors=%d edges=%d fields=%d gated=%d\n",
		resolveResult.RunID, resolveResult.Authors, resolveResult.Edges, resolveResult.Fields, resolveResult.Gated,
	)

	dedupResult, err := executeDedup(ctx, cfg, logger, pool, dedupOptions{Full: *full})
	if err != nil {
		logger.Error().Err(err).Msg("process: dedup stage failed")
		fmt.Fprintf(os.Stderr, "Dedup stage failed: %v\n", err)
		return 1
	}
	fmt.Printf(
		"dedup run_id=%d groups=%d duplicates=%d processed=%d reused=%d skipped=%d\n",
		dedupResult.RunID, dedupResult.Groups, dedupResult.Duplicates,
		dedupResult.Processed, dedupResult.Reused, dedupResult.Skipped,
	)
	return 0
}
