package authors

import (
	"strings"

	"horse.fit/byline/internal/similarity"
)

const (
	ngramMin = 2
	ngramMax = 4
)

// Clusterer groups normalized names into identity clusters by
// transitive closure of pairwise links. Two names link when the
// cosine similarity of their character n-gram vectors reaches the
// threshold, or when one is an initial-abbreviated form of the other
// ("J Smith" vs "John Smith"). Chaining through intermediate names is
// deliberate: two members of one cluster need not be directly similar.
type Clusterer struct {
	threshold float64
}

func NewClusterer(threshold float64) *Clusterer {
	return &Clusterer{threshold: threshold}
}

// Cluster partitions names into clusters. Input order defines the
// first-encountered order inside each cluster and across clusters.
// Names with no neighbor become singleton clusters.
func (c *Clusterer) Cluster(names []string) []Cluster {
	if len(names) == 0 {
		return nil
	}

	vectors := make([]similarity.Vector, len(names))
	for i, name := range names {
		vectors[i] = similarity.NgramVector(name, ngramMin, ngramMax)
	}

	// O(n^2) pairwise linking; acceptable for corpora in the low
	// thousands of distinct names.
	uf := similarity.NewUnionFind(len(names))
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if c.linked(names[i], vectors[i], names[j], vectors[j]) {
				uf.Union(i, j)
			}
		}
	}

	components := uf.Components()
	clusters := make([]Cluster, 0, len(components))
	for _, component := range components {
		members := make([]string, 0, len(component))
		for _, index := range component {
			members = append(members, names[index])
		}
		clusters = append(clusters, Cluster{Members: members})
	}
	return clusters
}

func (c *Clusterer) linked(leftName string, left similarity.Vector, rightName string, right similarity.Vector) bool {
	if similarity.Cosine(left, right) >= c.threshold {
		return true
	}
	return initialsCompatible(leftName, rightName)
}

// initialsCompatible reports whether the shorter name abbreviates the
// longer one: equal last tokens, and every remaining token of the
// shorter name is a prefix of the corresponding token in the longer
// name. Comparison is case-insensitive.
func initialsCompatible(left, right string) bool {
	a := strings.Fields(strings.ToLower(left))
	b := strings.Fields(strings.ToLower(right))
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(a) < 2 {
		return false
	}
	if a[len(a)-1] != b[len(b)-1] {
		return false
	}
	for i := 0; i < len(a)-1; i++ {
		if !strings.HasPrefix(b[i], a[i]) {
			return false
		}
	}
	return true
}
