package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"

	"horse.fit/byline/internal/language"
)

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// ResolveISO6391 returns the two-letter language code for an article.
// A declared tag from the scraper wins when it normalizes to a valid
// code; otherwise the language is detected from title and body text.
func ResolveISO6391(declared, title, body string) string {
	if code := language.NormalizeCode(declared); len(code) == 2 {
		return code
	}

	sample := strings.TrimSpace(title + "\n" + body)
	return DetectISO6391(sample)
}

// DetectISO6391 detects the language of a text sample and returns its
// ISO 639-1 code, or an empty string when detection is not reliable.
func DetectISO6391(text string) string {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return ""
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < 6 {
		return ""
	}

	lang, exists := getDetector().DetectLanguageOf(sample)
	if !exists {
		return ""
	}

	code := strings.ToLower(lang.IsoCode639_1().String())
	if len(code) != 2 {
		return ""
	}
	return code
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithPreloadedLanguageModels().
			Build()
	})
	return detector
}
