package db

import (
	"context"
	"fmt"
	"time"
)

const (
	DecisionKept      = "kept"
	DecisionDuplicate = "duplicate"
)

// GroupRecord is one duplicate group to persist.
type GroupRecord struct {
	KeptArticleID int64
	Members       []GroupMemberRecord
}

// GroupMemberRecord is one member row inside a group.
type GroupMemberRecord struct {
	ArticleID  int64
	Similarity float64
}

// DecisionRecord is one resume-ledger row: what happened to an
// article in the last completed dedup pass.
type DecisionRecord struct {
	ArticleID     int64
	ContentHash   []byte
	Decision      string
	DuplicateOfID *int64
	Similarity    *float64
}

// SaveDuplicateGroups writes the groups, members, and resume ledger
// of one dedup run in a single transaction.
func (p *Pool) SaveDuplicateGroups(
	ctx context.Context,
	runID int64,
	groups []GroupRecord,
	decisions []DecisionRecord,
	now time.Time,
) error {
	tx, err := p.BeginTx(ctx, TxOptions{})
	if err != nil {
		return fmt.Errorf("begin dedup save tx: %w", err)
	}

	const insertGroup = `
INSERT INTO byline.duplicate_groups (run_id, kept_article_id, created_at)
VALUES ($1, $2, $3)
RETURNING group_id
`
	const insertMember = `
INSERT INTO byline.duplicate_group_members (group_id, article_id, similarity, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (group_id, article_id) DO NOTHING
`

	for _, group := range groups {
		var groupID int64
		if err := tx.QueryRow(ctx, insertGroup, runID, group.KeptArticleID, now).Scan(&groupID); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("insert duplicate group kept_article_id=%d: %w", group.KeptArticleID, err)
		}
		for _, member := range group.Members {
			if _, err := tx.Exec(ctx, insertMember, groupID, member.ArticleID, member.Similarity, now); err != nil {
				_ = tx.Rollback(ctx)
				return fmt.Errorf("insert group member group_id=%d article_id=%d: %w", groupID, member.ArticleID, err)
			}
		}
	}

	const upsertDecision = `
INSERT INTO byline.dedup_decisions (article_id, content_hash, decision, duplicate_of_id, similarity, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (article_id) DO UPDATE SET
	content_hash = EXCLUDED.content_hash,
	decision = EXCLUDED.decision,
	duplicate_of_id = EXCLUDED.duplicate_of_id,
	similarity = EXCLUDED.similarity,
	created_at = EXCLUDED.created_at
`
	for _, decision := range decisions {
		if _, err := tx.Exec(
			ctx,
			upsertDecision,
			decision.ArticleID,
			decision.ContentHash,
			decision.Decision,
			decision.DuplicateOfID,
			decision.Similarity,
			now,
		); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("upsert dedup decision article_id=%d: %w", decision.ArticleID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("commit dedup save tx: %w", err)
	}
	return nil
}

// LoadDedupDecisions returns the resume ledger keyed by article id.
func (p *Pool) LoadDedupDecisions(ctx context.Context) (map[int64]DecisionRecord, error) {
	const q = `
SELECT article_id, content_hash, decision, duplicate_of_id, similarity
FROM byline.dedup_decisions
`

	rows, err := p.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select dedup decisions: %w", err)
	}
	defer rows.Close()

	decisions := make(map[int64]DecisionRecord)
	for rows.Next() {
		var row DecisionRecord
		if err := rows.Scan(&row.ArticleID, &row.ContentHash, &row.Decision, &row.DuplicateOfID, &row.Similarity); err != nil {
			return nil, fmt.Errorf("scan dedup decision: %w", err)
		}
		decisions[row.ArticleID] = row
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dedup decisions: %w", err)
	}
	return decisions, nil
}

// GroupSummary is one persisted duplicate group with its size.
type GroupSummary struct {
	GroupID       int64     `json:"group_id"`
	RunID         int64     `json:"run_id"`
	KeptArticleID int64     `json:"kept_article_id"`
	MemberCount   int       `json:"member_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListDuplicateGroupsForRun lists a run's groups largest first.
func (p *Pool) ListDuplicateGroupsForRun(ctx context.Context, runID int64, limit int) ([]GroupSummary, error) {
	const q = `
SELECT
	g.group_id,
	g.run_id,
	g.kept_article_id,
	COUNT(m.article_id)::INT AS member_count,
	g.created_at
FROM byline.duplicate_groups g
LEFT JOIN byline.duplicate_group_members m ON m.group_id = g.group_id
WHERE g.run_id = $1
GROUP BY g.group_id, g.run_id, g.kept_article_id, g.created_at
ORDER BY member_count DESC, g.group_id
LIMIT $2
`

	rows, err := p.Query(ctx, q, runID, limit)
	if err != nil {
		return nil, fmt.Errorf("select duplicate groups for run_id=%d: %w", runID, err)
	}
	defer rows.Close()

	summaries := make([]GroupSummary, 0, limit)
	for rows.Next() {
		var row GroupSummary
		if err := rows.Scan(&row.GroupID, &row.RunID, &row.KeptArticleID, &row.MemberCount, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group summary: %w", err)
		}
		summaries = append(summaries, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate group summaries: %w", err)
	}
	return summaries, nil
}
