// Package authors resolves raw free-text author fields into canonical
// author identities: gate, extract, normalize, cluster, select, validate.
package authors

// RawField is one unprocessed author string attached to an article.
type RawField struct {
	ArticleID int64
	Text      string
}

// Cluster is a set of normalized name variants judged to refer to the
// same person. Members keep first-encountered order.
type Cluster struct {
	Members []string
}

// CanonicalAuthor is one resolved identity with a run-scoped id.
type CanonicalAuthor struct {
	AuthorID    int64
	DisplayName string
}

// Edge links an article to a resolved author. Never duplicated for
// the same (article, author) pair.
type Edge struct {
	ArticleID int64
	AuthorID  int64
}
