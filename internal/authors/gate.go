package authors

import (
	"strings"
	"unicode"
)

// Gate decides whether a raw author field needs the expensive entity
// extractor. A clean "First Last" string fails every signal and takes
// the semicolon fast path instead.
type Gate struct {
	keywords  []string
	minLength int
	maxTokens int
}

func NewGate(keywords []string, minLength, maxTokens int) *Gate {
	lowered := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" {
			lowered = append(lowered, keyword)
		}
	}
	return &Gate{
		keywords:  lowered,
		minLength: minLength,
		maxTokens: maxTokens,
	}
}

// ShouldExtract returns true when any heuristic signal fires.
func (g *Gate) ShouldExtract(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}

	lowered := strings.ToLower(trimmed)
	for _, keyword := range g.keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}

	if isAllUpper(trimmed) {
		return true
	}
	if len([]rune(trimmed)) < g.minLength {
		return true
	}
	if len(strings.Fields(trimmed)) > g.maxTokens {
		return true
	}
	return containsDelimiter(trimmed)
}

// containsDelimiter skips the semicolon on purpose: a clean
// semicolon-separated list is exactly what the fast path handles.
func containsDelimiter(text string) bool {
	if strings.ContainsAny(text, "/#") {
		return true
	}
	return strings.Contains(strings.ToLower(text), " and ")
}

// isAllUpper reports whether every cased rune is uppercase and at
// least one cased rune exists.
func isAllUpper(text string) bool {
	cased := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
