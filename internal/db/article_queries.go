package db

import (
	"context"
	"fmt"
	"time"
)

// ArticleInsert carries one validated article into storage.
type ArticleInsert struct {
	Source         string
	SourceItemID   string
	Title          string
	BodyText       string
	RawAuthorField string
	Language       string
	PublishedAt    *time.Time
	ContentHash    []byte
}

// InsertArticle stores one article; re-inserting the same
// (source, source_item_id) pair is a no-op.
func (p *Pool) InsertArticle(ctx context.Context, article ArticleInsert, now time.Time) (int64, bool, error) {
	const q = `
INSERT INTO byline.articles (
	source,
	source_item_id,
	title,
	body_text,
	raw_author_field,
	language,
	published_at,
	content_hash,
	created_at,
	updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
ON CONFLICT (source, source_item_id) DO NOTHING
RETURNING article_id
`

	var articleID int64
	err := p.QueryRow(
		ctx,
		q,
		article.Source,
		article.SourceItemID,
		article.Title,
		article.BodyText,
		article.RawAuthorField,
		article.Language,
		article.PublishedAt,
		article.ContentHash,
		now,
	).Scan(&articleID)
	if err != nil {
		if IsNoRows(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("insert article source=%s item=%s: %w", article.Source, article.SourceItemID, err)
	}
	return articleID, true, nil
}

// AuthorFieldRow is one article's raw author field.
type AuthorFieldRow struct {
	ArticleID      int64
	RawAuthorField string
}

// ListAuthorFields returns every article's raw author field in
// ascending article-id order.
func (p *Pool) ListAuthorFields(ctx context.Context) ([]AuthorFieldRow, error) {
	const q = `
SELECT article_id, raw_author_field
FROM byline.articles
ORDER BY article_id
`

	rows, err := p.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select author fields: %w", err)
	}
	defer rows.Close()

	fields := make([]AuthorFieldRow, 0)
	for rows.Next() {
		var row AuthorFieldRow
		if err := rows.Scan(&row.ArticleID, &row.RawAuthorField); err != nil {
			return nil, fmt.Errorf("scan author field: %w", err)
		}
		fields = append(fields, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate author fields: %w", err)
	}
	return fields, nil
}

// ArticleTextRow is one article's text plus its content hash, the key
// the dedup resume ledger is checked against.
type ArticleTextRow struct {
	ArticleID   int64
	BodyText    string
	ContentHash []byte
}

// ListArticleTexts returns every article's body text in ascending
// article-id order.
func (p *Pool) ListArticleTexts(ctx context.Context) ([]ArticleTextRow, error) {
	const q = `
SELECT article_id, body_text, content_hash
FROM byline.articles
ORDER BY article_id
`

	rows, err := p.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select article texts: %w", err)
	}
	defer rows.Close()

	texts := make([]ArticleTextRow, 0)
	for rows.Next() {
		var row ArticleTextRow
		if err := rows.Scan(&row.ArticleID, &row.BodyText, &row.ContentHash); err != nil {
			return nil, fmt.Errorf("scan article text: %w", err)
		}
		texts = append(texts, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate article texts: %w", err)
	}
	return texts, nil
}

// CountArticles returns the corpus size.
func (p *Pool) CountArticles(ctx context.Context) (int, error) {
	var count int
	if err := p.QueryRow(ctx, `SELECT COUNT(*) FROM byline.articles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}
