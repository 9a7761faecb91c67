package app

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/byline/internal/cli"
	"horse.fit/byline/internal/config"
	"horse.fit/byline/internal/db"
	"horse.fit/byline/internal/dedup"
	"horse.fit/byline/internal/globaltime"
	"horse.fit/byline/internal/logging"
)

type dedupSummary struct {
	RunID      int64
	Groups     int
	Duplicates int
	Processed  int
	Reused     int
	Skipped    int
}

func runDedup(args []string) int {
	fs := flag.NewFlagSet("dedup", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Minute, "Command timeout")
	full := fs.Bool("full", false, "Ignore the resume ledger and re-process every article")
	endpoint := fs.String("endpoint", "", "Embedding HTTP endpoint (overrides EMBEDDING_ENDPOINT)")
	batchSize := fs.Int("batch-size", 0, "Embedding request batch size (overrides EMBEDDING_BATCH_SIZE)")

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
		logger.Error().Err(err).Msg("dedup command failed to connect to database")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	summary, err := executeDedup(ctx, cfg, logger, pool, dedupOptions{
		Full:      *full,
		Endpoint:  *endpoint,
		BatchSize: *batchSize,
	})
	if err != nil {
		if errors.Is(err, dedup.ErrCorpusTooLarge) {
			fmt.Fprintf(os.Stderr, "Dedup failed: %v\nRaise MAX_CORPUS_ARTICLES or dedup after pruning.\n", err)
			return 1
		}
		logger.Error().Err(err).Msg("dedup failed")
		fmt.Fprintf(os.Stderr, "Dedup failed: %v\n", err)
		return 1
	}

	fmt.Printf(
		"dedup run_id=%d groups=%d duplicates=%d processed=%d reused=%d skipped=%d\n",
		summary.RunID, summary.Groups, summary.Duplicates, summary.Processed, summary.Reused, summary.Skipped,
	)
	return 0
}

type dedupOptions struct {
	Full      bool
	Endpoint  string
	BatchSize int
}

// executeDedup runs one duplicate detection pass over every article
// not already covered by the resume ledger, then persists the groups
// and refreshed ledger under a fresh pipeline run.
func executeDedup(
	ctx context.Context,
	cfg *config.Config,
	logger zerolog.Logger,
	pool *db.Pool,
	opts dedupOptions,
) (dedupSummary, error) {
	texts, err := pool.ListArticleTexts(ctx)
	if err != nil {
		return dedupSummary{}, err
	}

	ledger := map[int64]db.DecisionRecord{}
	if !opts.Full {
		ledger, err = pool.LoadDedupDecisions(ctx)
		if err != nil {
			return dedupSummary{}, err
		}
	}

	// Articles whose text hash matches their prior decision keep
	// that decision; everything else is (re-)processed.
	corpus := make([]dedup.Article, 0, len(texts))
	hashes := make(map[int64][]byte, len(texts))
	reused := 0
	for _, row := range texts {
		hash := dedup.ContentHash(row.BodyText)
		hashes[row.ArticleID] = hash
		if prior, ok := ledger[row.ArticleID]; ok && bytes.Equal(prior.ContentHash, hash) {
			reused++
			continue
		}
		corpus = append(corpus, dedup.Article{ID: row.ArticleID, Text: row.BodyText})
	}

	runID, runUUID, err := pool.StartRun(ctx, db.StageDeduplicate, len(corpus), globaltime.UTC())
	if err != nil {
		return dedupSummary{}, err
	}
	logger.Info().
		Int64("run_id", runID).
		Str("run_uuid", runUUID).
		Int("corpus", len(corpus)).
		Int("reused", reused).
		Bool("full", opts.Full).
		Msg("duplicate detection run started")

	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = cfg.EmbeddingEndpoint
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = cfg.EmbeddingBatchSize
	}

	embedder := dedup.NewHTTPEmbedder(dedup.EmbedderOptions{
		Endpoint:       endpoint,
		MaxLength:      cfg.EmbeddingMaxLength,
		RequestTimeout: time.Duration(cfg.EmbeddingTimeoutSeconds) * time.Second,
	})

	resolver, err := dedup.NewResolver(embedder, dedup.Options{
		Threshold:       cfg.DuplicateSimilarityThreshold,
		FingerprintSize: cfg.FingerprintSize,
		Bands:           cfg.LSHBands,
		Seed:            cfg.FingerprintSeed,
		BatchSize:       batchSize,
		MaxArticles:     cfg.MaxCorpusArticles,
	}, logger)
	if err != nil {
		failRun(ctx, pool, logger, runID, err)
		return dedupSummary{}, err
	}

	result, err := resolver.Deduplicate(ctx, corpus)
	if err != nil {
		failRun(ctx, pool, logger, runID, err)
		return dedupSummary{}, err
	}

	groups := make([]db.GroupRecord, 0, len(result.Groups))
	decisions := make([]db.DecisionRecord, 0, result.Processed)
	for _, group := range result.Groups {
		record := db.GroupRecord{KeptArticleID: group.KeptID}
		for _, member := range group.Members {
			record.Members = append(record.Members, db.GroupMemberRecord{
				ArticleID:  member.ArticleID,
				Similarity: member.Similarity,
			})

			decision := db.DecisionRecord{
				ArticleID:   member.ArticleID,
				ContentHash: hashes[member.ArticleID],
				Decision:    db.DecisionKept,
			}
			if member.ArticleID != group.KeptID {
				keptID := group.KeptID
				similarity := member.Similarity
				decision.Decision = db.DecisionDuplicate
				decision.DuplicateOfID = &keptID
				decision.Similarity = &similarity
			}
			decisions = append(decisions, decision)
		}
		groups = append(groups, record)
	}

	if err := pool.SaveDuplicateGroups(ctx, runID, groups, decisions, globaltime.UTC()); err != nil {
		failRun(ctx, pool, logger, runID, err)
		return dedupSummary{}, err
	}

	if err := pool.FinishRun(ctx, runID, db.RunStatusSucceeded, len(groups), nil, globaltime.UTC()); err != nil {
		return dedupSummary{}, err
	}

	return dedupSummary{
		RunID:      runID,
		Groups:     len(groups),
		Duplicates: result.Duplicate,
		Processed:  result.Processed,
		Reused:     reused,
		Skipped:    result.Skipped,
	}, nil
}
