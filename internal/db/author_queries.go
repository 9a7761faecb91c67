package db

import (
	"context"
	"fmt"
	"time"
)

// AuthorRecord is one canonical author row to persist.
type AuthorRecord struct {
	AuthorID    int64
	DisplayName string
}

// EdgeRecord is one article-author relation row to persist.
type EdgeRecord struct {
	ArticleID int64
	AuthorID  int64
}

// SaveAuthorResolution writes both output tables of one resolution
// run in a single transaction, so a failed run leaves no partial
// output behind.
func (p *Pool) SaveAuthorResolution(
	ctx context.Context,
	runID int64,
	authors []AuthorRecord,
	edges []EdgeRecord,
	now time.Time,
) error {
	tx, err := p.BeginTx(ctx, TxOptions{})
	if err != nil {
		return fmt.Errorf("begin author resolution tx: %w", err)
	}

	const insertAuthor = `
INSERT INTO byline.authors (author_id, run_id, display_name, created_at)
VALUES ($1, $2, $3, $4)
`
	for _, author := range authors {
		if _, err := tx.Exec(ctx, insertAuthor, author.AuthorID, runID, author.DisplayName, now); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("insert author %q: %w", author.DisplayName, err)
		}
	}

	const insertEdge = `
INSERT INTO byline.article_authors (run_id, article_id, author_id, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (run_id, article_id, author_id) DO NOTHING
`
	for _, edge := range edges {
		if _, err := tx.Exec(ctx, insertEdge, runID, edge.ArticleID, edge.AuthorID, now); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("insert article_author article_id=%d author_id=%d: %w", edge.ArticleID, edge.AuthorID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("commit author resolution tx: %w", err)
	}
	return nil
}

// AuthorSummary is one persisted author with its article count.
type AuthorSummary struct {
	AuthorID     int64      `json:"author_id"`
	RunID        int64      `json:"run_id"`
	DisplayName  string     `json:"display_name"`
	ArticleCount int        `json:"article_count"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ListAuthorsForRun returns the authors of one run ordered by id.
func (p *Pool) ListAuthorsForRun(ctx context.Context, runID int64, limit int) ([]AuthorSummary, error) {
	const q = `
SELECT
	a.author_id,
	a.run_id,
	a.display_name,
	COUNT(aa.article_id)::INT AS article_count,
	a.created_at
FROM byline.authors a
LEFT JOIN byline.article_authors aa
	ON aa.author_id = a.author_id AND aa.run_id = a.run_id
WHERE a.run_id = $1
GROUP BY a.author_id, a.run_id, a.display_name, a.created_at
ORDER BY a.author_id
LIMIT $2
`

	rows, err := p.Query(ctx, q, runID, limit)
	if err != nil {
		return nil, fmt.Errorf("select authors for run_id=%d: %w", runID, err)
	}
	defer rows.Close()

	summaries := make([]AuthorSummary, 0, limit)
	for rows.Next() {
		var row AuthorSummary
		if err := rows.Scan(&row.AuthorID, &row.RunID, &row.DisplayName, &row.ArticleCount, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan author summary: %w", err)
		}
		summaries = append(summaries, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate author summaries: %w", err)
	}
	return summaries, nil
}

// LatestRunID returns the most recent succeeded run id for a stage,
// or false when the stage has never succeeded.
func (p *Pool) LatestRunID(ctx context.Context, stage string) (int64, bool, error) {
	const q = `
SELECT run_id
FROM byline.pipeline_runs
WHERE stage = $1 AND status = 'succeeded'
ORDER BY run_id DESC
LIMIT 1
`
	var runID int64
	err := p.QueryRow(ctx, q, stage).Scan(&runID)
	if err != nil {
		if IsNoRows(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("select latest run for stage=%s: %w", stage, err)
	}
	return runID, true, nil
}
