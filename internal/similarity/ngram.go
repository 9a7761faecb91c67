package similarity

import (
	"math"
	"strings"
	"unicode"
)

// Vector is a sparse character n-gram frequency vector.
type Vector map[string]float64

// NgramVector builds an L2-normalized frequency vector of character
// n-grams with n in [minN, maxN]. Each word is padded with a single
// space on both sides so that n-grams crossing word boundaries carry
// the boundary marker, matching the char_wb analyzer behavior.
func NgramVector(text string, minN, maxN int) Vector {
	if minN < 1 || maxN < minN {
		return nil
	}

	vector := make(Vector)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		padded := []rune(" " + word + " ")
		for n := minN; n <= maxN; n++ {
			if len(padded) < n {
				continue
			}
			for i := 0; i+n <= len(padded); i++ {
				vector[string(padded[i:i+n])]++
			}
		}
	}
	if len(vector) == 0 {
		return nil
	}

	var sumSquares float64
	for _, count := range vector {
		sumSquares += count * count
	}
	norm := math.Sqrt(sumSquares)
	for gram := range vector {
		vector[gram] /= norm
	}
	return vector
}

// Cosine returns the cosine similarity of two vectors. Both sides are
// expected to be L2-normalized, so this is a plain dot product.
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for gram, weight := range a {
		if other, ok := b[gram]; ok {
			dot += weight * other
		}
	}
	if dot > 1 {
		return 1
	}
	return dot
}

// TokenJaccard returns the Jaccard similarity of the whitespace token
// sets of two strings.
func TokenJaccard(left, right string) float64 {
	leftSet := tokenSet(left)
	rightSet := tokenSet(right)
	if len(leftSet) == 0 || len(rightSet) == 0 {
		return 0
	}

	intersection := 0
	for token := range leftSet {
		if _, ok := rightSet[token]; ok {
			intersection++
		}
	}
	if intersection == 0 {
		return 0
	}

	union := len(leftSet) + len(rightSet) - intersection
	if union <= 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	parts := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if len(parts) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		set[part] = struct{}{}
	}
	return set
}
