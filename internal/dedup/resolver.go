package dedup

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// ErrCorpusTooLarge signals that embedding the corpus in one pass
// would exceed the configured memory bound. Callers should retry in
// smaller batches rather than truncate silently.
var ErrCorpusTooLarge = errors.New("corpus exceeds the configured article limit; process in smaller batches")

// Article is one input record for duplicate detection.
type Article struct {
	ID   int64
	Text string
}

// Member is one article inside a duplicate group with its estimated
// similarity to the kept article (1.0 for the kept article itself).
type Member struct {
	ArticleID  int64
	Similarity float64
}

// Group is one keep/drop decision: the kept id plus every member
// judged near-duplicate of it. Singleton groups have one member.
type Group struct {
	KeptID  int64
	Members []Member
}

type Options struct {
	Threshold       float64
	FingerprintSize int
	Bands           int
	Seed            uint64
	BatchSize       int
	MaxArticles     int
}

// Resolver runs the detection pass. Grouping is greedy and
// order-dependent by design: articles are processed in ascending id
// order and an article assigned to a group is never a query subject
// again, so the kept member is always the lowest id processed first.
type Resolver struct {
	embedder Embedder
	opts     Options
	logger   zerolog.Logger
}

// Result is the outcome of one detection pass.
type Result struct {
	Groups  []Group
	KeptIDs []int64

	Processed int
	Skipped   int
	Duplicate int
}

func NewResolver(embedder Embedder, opts Options, logger zerolog.Logger) (*Resolver, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if opts.Threshold <= 0 || opts.Threshold > 1 {
		return nil, fmt.Errorf("match threshold must be in (0, 1], got %g", opts.Threshold)
	}
	if opts.FingerprintSize <= 0 {
		opts.FingerprintSize = DefaultFingerprintSize
	}
	if opts.Bands <= 0 {
		opts.Bands = 16
	}
	if opts.FingerprintSize%opts.Bands != 0 {
		return nil, fmt.Errorf("bands (%d) must divide fingerprint size (%d)", opts.Bands, opts.FingerprintSize)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultEmbeddingBatchSize
	}
	return &Resolver{
		embedder: embedder,
		opts:     opts,
		logger:   logger,
	}, nil
}

// Deduplicate partitions the corpus into duplicate groups. Every
// article with non-empty text lands in exactly one group; empty
// articles are excluded from the stage output entirely.
func (r *Resolver) Deduplicate(ctx context.Context, corpus []Article) (Result, error) {
	if r == nil || r.embedder == nil {
		return Result{}, fmt.Errorf("dedup resolver is not initialized")
	}
	if r.opts.MaxArticles > 0 && len(corpus) > r.opts.MaxArticles {
		return Result{}, fmt.Errorf("%w: %d articles, limit %d", ErrCorpusTooLarge, len(corpus), r.opts.MaxArticles)
	}

	articles := make([]Article, 0, len(corpus))
	skipped := 0
	for _, article := range corpus {
		if strings.TrimSpace(article.Text) == "" {
			skipped++
			continue
		}
		articles = append(articles, article)
	}
	sort.Slice(articles, func(i, j int) bool { return articles[i].ID < articles[j].ID })

	fingerprints, err := r.fingerprintCorpus(ctx, articles)
	if err != nil {
		return Result{}, err
	}

	index, err := NewLSHIndex(r.opts.FingerprintSize, r.opts.Bands)
	if err != nil {
		return Result{}, err
	}
	for _, article := range articles {
		if err := index.Insert(article.ID, fingerprints[article.ID]); err != nil {
			return Result{}, err
		}
	}

	result := Result{Skipped: skipped}
	assigned := make(map[int64]struct{}, len(articles))

	for _, article := range articles {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if _, done := assigned[article.ID]; done {
			continue
		}

		group := Group{
			KeptID:  article.ID,
			Members: []Member{{ArticleID: article.ID, Similarity: 1}},
		}
		assigned[article.ID] = struct{}{}

		candidates, err := index.Query(article.ID, fingerprints[article.ID])
		if err != nil {
			return Result{}, err
		}
		for _, candidateID := range candidates {
			if _, done := assigned[candidateID]; done {
				continue
			}
			estimate := EstimateJaccard(fingerprints[article.ID], fingerprints[candidateID])
			if estimate < r.opts.Threshold {
				continue
			}
			assigned[candidateID] = struct{}{}
			group.Members = append(group.Members, Member{
				ArticleID:  candidateID,
				Similarity: estimate,
			})
			result.Duplicate++
		}

		result.Groups = append(result.Groups, group)
		result.KeptIDs = append(result.KeptIDs, group.KeptID)
		result.Processed++
	}

	r.logger.Info().
		Int("articles", len(articles)).
		Int("skipped_empty", skipped).
		Int("groups", len(result.Groups)).
		Int("duplicates", result.Duplicate).
		Msg("duplicate detection completed")

	return result, nil
}

// fingerprintCorpus embeds articles in batches and reduces each
// vector to its fingerprint immediately, so bulk embedding storage is
// released as soon as each batch is sketched.
func (r *Resolver) fingerprintCorpus(ctx context.Context, articles []Article) (map[int64]Fingerprint, error) {
	generator, err := NewGenerator(r.opts.FingerprintSize, r.opts.Seed)
	if err != nil {
		return nil, err
	}

	fingerprints := make(map[int64]Fingerprint, len(articles))
	for start := 0; start < len(articles); start += r.opts.BatchSize {
		end := min(start+r.opts.BatchSize, len(articles))
		batch := articles[start:end]

		texts := make([]string, 0, len(batch))
		for _, article := range batch {
			texts = append(texts, article.Text)
		}

		vectors, err := r.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed batch starting at article_id=%d: %w", batch[0].ID, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("embedding count mismatch: requested=%d returned=%d", len(batch), len(vectors))
		}

		for i, article := range batch {
			fingerprint, err := generator.Fingerprint(vectors[i])
			if err != nil {
				return nil, fmt.Errorf("fingerprint article_id=%d: %w", article.ID, err)
			}
			fingerprints[article.ID] = fingerprint
		}
	}
	return fingerprints, nil
}
