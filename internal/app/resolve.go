package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/byline/internal/authors"
	"horse.fit/byline/internal/cli"
	"horse.fit/byline/internal/config"
	"horse.fit/byline/internal/db"
	"horse.fit/byline/internal/globaltime"
	"horse.fit/byline/internal/logging"
	"horse.fit/byline/internal/ner"
)

type resolveSummary struct {
	RunID   int64
	Authors int
	Edges   int
	Fields  int
	Gated   int
}

func runResolve(args []string) int {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 5*time.Minute, "Command timeout")
	nerEndpoint := fs.String("ner-endpoint", "", "NER HTTP endpoint (overrides NER_ENDPOINT)")
	nerTimeout := fs.Duration("ner-timeout", 30*time.Second, "Per-request timeout for the NER API")

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
		logger.Error().Err(err).Msg("resolve command failed to connect to database")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	summary, err := executeResolve(ctx, cfg, logger, pool, resolveOptions{
		NEREndpoint:       *nerEndpoint,
		NERRequestTimeout: *nerTimeout,
	})
	if err != nil {
		logger.Error().Err(err).Msg("resolve failed")
		fmt.Fprintf(os.Stderr, "Resolve failed: %v\n", err)
		return 1
	}

	fmt.Printf(
		"resolve run_id=%d authors=%d edges=%d fields=%d gated=%d\n",
		summary.RunID, summary.Authors, summary.Edges, summary.Fields, summary.Gated,
	)
	return 0
}

type resolveOptions struct {
	NEREndpoint       string
	NERRequestTimeout time.Duration
}

// executeResolve runs one full author resolution pass and persists
// its output under a fresh pipeline run.
func executeResolve(
	ctx context.Context,
	cfg *config.Config,
	logger zerolog.Logger,
	pool *db.Pool,
	opts resolveOptions,
) (resolveSummary, error) {
	fields, err := pool.ListAuthorFields(ctx)
	if err != nil {
		return resolveSummary{}, err
	}

	runID, runUUID, err := pool.StartRun(ctx, db.StageResolveAuthors, len(fields), globaltime.UTC())
	if err != nil {
		return resolveSummary{}, err
	}
	logger.Info().
		Int64("run_id", runID).
		Str("run_uuid", runUUID).
		Int("fields", len(fields)).
		Msg("author resolution run started")

	endpoint := opts.NEREndpoint
	if endpoint == "" {
		endpoint = cfg.NEREndpoint
	}

	resolver := authors.NewResolver(
		authors.NewGate(cfg.OrganizationKeywordList(), cfg.MinRawFieldLength, cfg.MaxRawFieldTokens),
		authors.SplitExtractor{},
		authors.NewModelExtractor(ner.NewClient(ner.Options{
			Endpoint:       endpoint,
			RequestTimeout: opts.NERRequestTimeout,
		})),
		authors.NewNormalizer(cfg.NameParticleList()),
		authors.NewClusterer(cfg.NameSimilarityThreshold),
		authors.NewValidator(cfg.AuthorJunkTermList()),
		logger,
	)

	input := make([]authors.RawField, 0, len(fields))
	for _, field := range fields {
		input = append(input, authors.RawField{
			ArticleID: field.ArticleID,
			Text:      field.RawAuthorField,
		})
	}

	result, err := resolver.ResolveAuthors(ctx, input)
	if err != nil {
		failRun(ctx, pool, logger, runID, err)
		return resolveSummary{}, err
	}

	authorRecords := make([]db.AuthorRecord, 0, len(result.Authors))
	for _, author := range result.Authors {
		authorRecords = append(authorRecords, db.AuthorRecord{
			AuthorID:    author.AuthorID,
			DisplayName: author.DisplayName,
		})
	}
	edgeRecords := make([]db.EdgeRecord, 0, len(result.Edges))
	for _, edge := range result.Edges {
		edgeRecords = append(edgeRecords, db.EdgeRecord{
			ArticleID: edge.ArticleID,
			AuthorID:  edge.AuthorID,
		})
	}

	if err := pool.SaveAuthorResolution(ctx, runID, authorRecords, edgeRecords, globaltime.UTC()); err != nil {
		failRun(ctx, pool, logger, runID, err)
		return resolveSummary{}, err
	}

	if err := pool.FinishRun(ctx, runID, db.RunStatusSucceeded, len(authorRecords), nil, globaltime.UTC()); err != nil {
		return resolveSummary{}, err
	}

	return resolveSummary{
		RunID:   runID,
		Authors: len(authorRecords),
		Edges:   len(edgeRecords),
		Fields:  result.FieldsProcessed,
		Gated:   result.FieldsGated,
	}, nil
}

// failRun marks a run failed on a best-effort basis; the original
// error is what the caller reports.
func failRun(ctx context.Context, pool *db.Pool, logger zerolog.Logger, runID int64, cause error) {
	message := cause.Error()
	if err := pool.FinishRun(ctx, runID, db.RunStatusFailed, 0, &message, globaltime.UTC()); err != nil {
		logger.Error().Err(err).Int64("run_id", runID).Msg("failed to mark run as failed")
	}
}
