package db

import "time"

// Article maps byline.articles: one loaded corpus record.
type Article struct {
	ArticleID      int64      `gorm:"column:article_id;primaryKey;autoIncrement"`
	ArticleUUID    string     `gorm:"column:article_uuid;type:uuid;not null;default:gen_random_uuid();unique"`
	Source         string     `gorm:"column:source;type:text;not null;uniqueIndex:ux_articles_source_item"`
	SourceItemID   string     `gorm:"column:source_item_id;type:text;not null;uniqueIndex:ux_articles_source_item"`
	Title          string     `gorm:"column:title;type:text;not null"`
	BodyText       string     `gorm:"column:body_text;type:text;not null;default:''"`
	RawAuthorField string     `gorm:"column:raw_author_field;type:text;not null;default:''"`
	Language       string     `gorm:"column:language;type:text;not null;default:und"`
	PublishedAt    *time.Time `gorm:"column:published_at;type:timestamptz"`
	ContentHash    []byte     `gorm:"column:content_hash;type:bytea;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (Article) TableName() string { return "byline.articles" }

// Author maps byline.authors: one canonical identity per run.
type Author struct {
	AuthorID    int64     `gorm:"column:author_id;type:bigint;primaryKey"`
	RunID       int64     `gorm:"column:run_id;type:bigint;primaryKey"`
	DisplayName string    `gorm:"column:display_name;type:text;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (Author) TableName() string { return "byline.authors" }

// ArticleAuthor maps byline.article_authors: the many-to-many edge
// table; the composite key guarantees one edge per pair per run.
type ArticleAuthor struct {
	RunID     int64     `gorm:"column:run_id;type:bigint;primaryKey"`
	ArticleID int64     `gorm:"column:article_id;type:bigint;primaryKey"`
	AuthorID  int64     `gorm:"column:author_id;type:bigint;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (ArticleAuthor) TableName() string { return "byline.article_authors" }

// DuplicateGroup maps byline.duplicate_groups.
type DuplicateGroup struct {
	GroupID       int64     `gorm:"column:group_id;primaryKey;autoIncrement"`
	RunID         int64     `gorm:"column:run_id;type:bigint;not null"`
	KeptArticleID int64     `gorm:"column:kept_article_id;type:bigint;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (DuplicateGroup) TableName() string { return "byline.duplicate_groups" }

// DuplicateGroupMember maps byline.duplicate_group_members.
type DuplicateGroupMember struct {
	GroupID    int64     `gorm:"column:group_id;type:bigint;primaryKey"`
	ArticleID  int64     `gorm:"column:article_id;type:bigint;primaryKey"`
	Similarity float64   `gorm:"column:similarity;type:double precision;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (DuplicateGroupMember) TableName() string { return "byline.duplicate_group_members" }

// DedupDecision maps byline.dedup_decisions: the resume ledger. One
// row per article per corpus snapshot, keyed by the article's content
// hash so a changed corpus invalidates the entry.
type DedupDecision struct {
	ArticleID     int64     `gorm:"column:article_id;type:bigint;primaryKey"`
	ContentHash   []byte    `gorm:"column:content_hash;type:bytea;not null"`
	Decision      string    `gorm:"column:decision;type:text;not null"`
	DuplicateOfID *int64    `gorm:"column:duplicate_of_id;type:bigint"`
	Similarity    *float64  `gorm:"column:similarity;type:double precision"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (DedupDecision) TableName() string { return "byline.dedup_decisions" }

// PipelineRun maps byline.pipeline_runs: one row per stage execution.
type PipelineRun struct {
	RunID        int64      `gorm:"column:run_id;primaryKey;autoIncrement"`
	RunUUID      string     `gorm:"column:run_uuid;type:uuid;not null;unique"`
	Stage        string     `gorm:"column:stage;type:text;not null"`
	Status       string     `gorm:"column:status;type:text;not null;default:running"`
	StartedAt    time.Time  `gorm:"column:started_at;type:timestamptz;not null;default:now()"`
	FinishedAt   *time.Time `gorm:"column:finished_at;type:timestamptz"`
	ItemsInput   int        `gorm:"column:items_input;type:integer;not null;default:0"`
	ItemsOutput  int        `gorm:"column:items_output;type:integer;not null;default:0"`
	ErrorMessage *string    `gorm:"column:error_message;type:text"`
}

func (PipelineRun) TableName() string { return "byline.pipeline_runs" }
