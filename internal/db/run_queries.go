package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	StageResolveAuthors = "resolve_authors"
	StageDeduplicate    = "deduplicate"

	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// StartRun opens a pipeline_runs row and returns its id and uuid.
func (p *Pool) StartRun(ctx context.Context, stage string, itemsInput int, now time.Time) (int64, string, error) {
	const q = `
INSERT INTO byline.pipeline_runs (run_uuid, stage, status, started_at, items_input)
VALUES ($1, $2, $3, $4, $5)
RETURNING run_id
`

	runUUID := uuid.NewString()
	var runID int64
	if err := p.QueryRow(ctx, q, runUUID, stage, RunStatusRunning, now, itemsInput).Scan(&runID); err != nil {
		return 0, "", fmt.Errorf("insert pipeline run stage=%s: %w", stage, err)
	}
	return runID, runUUID, nil
}

// FinishRun closes a pipeline_runs row with its final status.
func (p *Pool) FinishRun(ctx context.Context, runID int64, status string, itemsOutput int, errorMessage *string, now time.Time) error {
	const q = `
UPDATE byline.pipeline_runs
SET status = $2, items_output = $3, error_message = $4, finished_at = $5
WHERE run_id = $1
`

	if _, err := p.Exec(ctx, q, runID, status, itemsOutput, errorMessage, now); err != nil {
		return fmt.Errorf("finish pipeline run run_id=%d: %w", runID, err)
	}
	return nil
}

// RunSummary is one pipeline run row for stats output.
type RunSummary struct {
	RunID       int64      `json:"run_id"`
	RunUUID     string     `json:"run_uuid"`
	Stage       string     `json:"stage"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	ItemsInput  int        `json:"items_input"`
	ItemsOutput int        `json:"items_output"`
}

// ListRuns returns the most recent pipeline runs.
func (p *Pool) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	const q = `
SELECT run_id, run_uuid, stage, status, started_at, finished_at, items_input, items_output
FROM byline.pipeline_runs
ORDER BY run_id DESC
LIMIT $1
`

	rows, err := p.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("select pipeline runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunSummary, 0, limit)
	for rows.Next() {
		var row RunSummary
		if err := rows.Scan(
			&row.RunID,
			&row.RunUUID,
			&row.Stage,
			&row.Status,
			&row.StartedAt,
			&row.FinishedAt,
			&row.ItemsInput,
			&row.ItemsOutput,
		); err != nil {
			return nil, fmt.Errorf("scan pipeline run: %w", err)
		}
		runs = append(runs, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pipeline runs: %w", err)
	}
	return runs, nil
}
