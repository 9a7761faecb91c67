package authors

import (
	"strings"
	"unicode"
)

// Normalizer rewrites candidate names into a comparison-stable
// "First [Middle] Last" form with consistent casing. Particles such
// as "van" or "de" stay lowercase; the particle list comes from
// configuration.
type Normalizer struct {
	particles map[string]struct{}
}

func NewNormalizer(particles []string) *Normalizer {
	set := make(map[string]struct{}, len(particles))
	for _, particle := range particles {
		particle = strings.ToLower(strings.TrimSpace(particle))
		if particle != "" {
			set[particle] = struct{}{}
		}
	}
	return &Normalizer{particles: set}
}

// Normalize applies, in order: "Last, First[, Middle]" reordering,
// whitespace collapse, punctuation stripping (internal hyphens and
// apostrophes survive), and per-token casing.
func (n *Normalizer) Normalize(candidate string) string {
	reordered := reorderCommaForm(candidate)

	tokens := strings.Fields(reordered)
	normalized := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = stripTokenPunctuation(token)
		if token == "" {
			continue
		}
		normalized = append(normalized, n.caseToken(token))
	}
	return strings.Join(normalized, " ")
}

// reorderCommaForm turns "Last, First, Middle" into "First Middle
// Last". Text without a comma passes through unchanged.
func reorderCommaForm(name string) string {
	if !strings.Contains(name, ",") {
		return name
	}

	parts := strings.Split(name, ",")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			segments = append(segments, part)
		}
	}
	if len(segments) < 2 {
		if len(segments) == 1 {
			return segments[0]
		}
		return ""
	}

	reordered := append([]string(nil), segments[1:]...)
	reordered = append(reordered, segments[0])
	return strings.Join(reordered, " ")
}

// stripTokenPunctuation drops every rune that is not a letter, digit,
// hyphen, or apostrophe, then trims hyphens and apostrophes from the
// token edges so only internal ones remain.
func stripTokenPunctuation(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '\'' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-'")
}

func (n *Normalizer) caseToken(token string) string {
	lowered := strings.ToLower(token)
	if _, particle := n.particles[lowered]; particle {
		return lowered
	}
	if isAllUpper(token) || lowered == token {
		return capitalizeWord(lowered)
	}
	// Mixed case is kept as written ("McDonald", "DiCaprio").
	return token
}
