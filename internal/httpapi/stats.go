package httpapi

import (
	"context"
	"fmt"
	"time"
)

type statsResponse struct {
	Articles        int64            `json:"articles"`
	Authors         int64            `json:"authors"`
	AuthorEdges     int64            `json:"author_edges"`
	DuplicateGroups int64            `json:"duplicate_groups"`
	RunningRuns     int64            `json:"running_runs"`
	LastRunFinished *time.Time       `json:"last_run_finished,omitempty"`
	DedupDecisions  map[string]int64 `json:"dedup_decisions"`
}

func (s *Server) queryStats(ctx context.Context) (*statsResponse, error) {
	const q = `
SELECT
	(SELECT COUNT(*) FROM byline.articles),
	(SELECT COUNT(*) FROM byline.authors),
	(SELECT COUNT(*) FROM byline.article_authors),
	(SELECT COUNT(*) FROM byline.duplicate_groups),
	(SELECT COUNT(*) FROM byline.pipeline_runs WHERE status = 'running'),
	(SELECT MAX(finished_at) FROM byline.pipeline_runs WHERE status = 'succeeded')
`

	stats := &statsResponse{DedupDecisions: make(map[string]int64)}
	if err := s.pool.QueryRow(ctx, q).Scan(
		&stats.Articles,
		&stats.Authors,
		&stats.AuthorEdges,
		&stats.DuplicateGroups,
		&stats.RunningRuns,
		&stats.LastRunFinished,
	); err != nil {
		return nil, fmt.Errorf("select counters: %w", err)
	}

	const decisionsQ = `
SELECT decision, COUNT(*)
FROM byline.dedup_decisions
GROUP BY decision
`
	rows, err := s.pool.Query(ctx, decisionsQ)
	if err != nil {
		return nil, fmt.Errorf("select decision counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var decision string
		var count int64
		if err := rows.Scan(&decision, &count); err != nil {
			return nil, fmt.Errorf("scan decision count: %w", err)
		}
		stats.DedupDecisions[decision] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decision counts: %w", err)
	}

	return stats, nil
}
