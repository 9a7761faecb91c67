package authors

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Resolver runs the full name-resolution pass over a corpus snapshot:
// per field gate -> extract -> normalize, then corpus-wide cluster ->
// canonical selection -> validation. Each run rebuilds everything from
// scratch; author ids are run-scoped.
type Resolver struct {
	gate       *Gate
	fastPath   Extractor
	modelPath  Extractor
	normalizer *Normalizer
	clusterer  *Clusterer
	validator  *Validator
	logger     zerolog.Logger
}

// Result holds the two output tables plus per-stage counters.
type Result struct {
	Authors []CanonicalAuthor
	Edges   []Edge

	FieldsProcessed  int
	FieldsEmpty      int
	FieldsGated      int
	Candidates       int
	Clusters         int
	ClustersRejected int
}

func NewResolver(
	gate *Gate,
	fastPath Extractor,
	modelPath Extractor,
	normalizer *Normalizer,
	clusterer *Clusterer,
	validator *Validator,
	logger zerolog.Logger,
) *Resolver {
	return &Resolver{
		gate:       gate,
		fastPath:   fastPath,
		modelPath:  modelPath,
		normalizer: normalizer,
		clusterer:  clusterer,
		validator:  validator,
		logger:     logger,
	}
}

// ResolveAuthors resolves every raw field into canonical authors and
// article edges. Empty fields are skipped. Extraction failures are
// logged and contribute zero candidates; they never abort the run.
func (r *Resolver) ResolveAuthors(ctx context.Context, fields []RawField) (Result, error) {
	var result Result

	// Normalized name -> article ids mentioning it, insertion-ordered.
	nameOrder := make([]string, 0, len(fields))
	nameArticles := make(map[string][]int64)

	for _, field := range fields {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		result.FieldsProcessed++
		raw := strings.TrimSpace(field.Text)
		if raw == "" {
			result.FieldsEmpty++
			continue
		}

		extractor := r.fastPath
		if r.gate.ShouldExtract(raw) {
			extractor = r.modelPath
			result.FieldsGated++
		}

		candidates, err := extractor.Extract(ctx, raw)
		if err != nil {
			r.logger.Warn().
				Err(err).
				Int64("article_id", field.ArticleID).
				Msg("author extraction failed; treating field as zero candidates")
			continue
		}

		for _, candidate := range candidates {
			normalized := r.normalizer.Normalize(candidate)
			if len(strings.Fields(normalized)) < 2 {
				continue
			}
			result.Candidates++
			if _, seen := nameArticles[normalized]; !seen {
				nameOrder = append(nameOrder, normalized)
			}
			nameArticles[normalized] = appendUniqueID(nameArticles[normalized], field.ArticleID)
		}
	}

	clusters := r.clusterer.Cluster(nameOrder)
	result.Clusters = len(clusters)

	var nextAuthorID int64 = 1
	for _, cluster := range clusters {
		display := SelectCanonical(cluster)
		if !r.validator.IsValid(display) {
			result.ClustersRejected++
			r.logger.Debug().
				Str("display_name", display).
				Int("members", len(cluster.Members)).
				Msg("cluster rejected by author validator")
			continue
		}

		author := CanonicalAuthor{
			AuthorID:    nextAuthorID,
			DisplayName: display,
		}
		nextAuthorID++
		result.Authors = append(result.Authors, author)

		seenArticles := make(map[int64]struct{})
		for _, member := range cluster.Members {
			for _, articleID := range nameArticles[member] {
				if _, dup := seenArticles[articleID]; dup {
					continue
				}
				seenArticles[articleID] = struct{}{}
				result.Edges = append(result.Edges, Edge{
					ArticleID: articleID,
					AuthorID:  author.AuthorID,
				})
			}
		}
	}

	r.logger.Info().
		Int("fields", result.FieldsProcessed).
		Int("gated", result.FieldsGated).
		Int("candidates", result.Candidates).
		Int("clusters", result.Clusters).
		Int("rejected", result.ClustersRejected).
		Int("authors", len(result.Authors)).
		Msg("author resolution completed")

	return result, nil
}

func appendUniqueID(ids []int64, id int64) []int64 {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
