package authors

import (
	"context"
	"strings"

	"horse.fit/byline/internal/ner"
)

// Extractor turns a raw author field into candidate person-name
// strings. Implementations are deterministic for identical input and
// never panic on malformed text; internal failures surface as an
// error the caller logs and treats as zero candidates.
type Extractor interface {
	Extract(ctx context.Context, raw string) ([]string, error)
}

// SplitExtractor is the fast path for clean fields: split on
// semicolons, trim, recase all-uppercase segments.
type SplitExtractor struct{}

func (SplitExtractor) Extract(_ context.Context, raw string) ([]string, error) {
	segments := strings.Split(raw, ";")
	names := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		names = append(names, recaseUpper(segment))
	}
	return names, nil
}

// SpanPredictor is the learned sequence-labeling capability behind
// ModelExtractor. *ner.Client satisfies it; tests inject fakes.
type SpanPredictor interface {
	Predict(ctx context.Context, text string, labels []string) ([]ner.Span, error)
}

// ModelExtractor asks the entity recognizer for Person spans. Spans
// with fewer than two whitespace tokens are discarded as likely noise.
type ModelExtractor struct {
	predictor SpanPredictor
}

func NewModelExtractor(predictor SpanPredictor) *ModelExtractor {
	return &ModelExtractor{predictor: predictor}
}

func (m *ModelExtractor) Extract(ctx context.Context, raw string) ([]string, error) {
	spans, err := m.predictor.Predict(ctx, recaseUpper(raw), []string{ner.LabelPerson})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(spans))
	for _, span := range spans {
		if span.Label != ner.LabelPerson {
			continue
		}
		name := strings.TrimSpace(recaseUpper(span.Text))
		if len(strings.Fields(name)) < 2 {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// recaseUpper title-cases only the words that are entirely uppercase,
// leaving mixed-case words untouched.
func recaseUpper(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		if isAllUpper(word) {
			words[i] = capitalizeWord(strings.ToLower(word))
		}
	}
	return strings.Join(words, " ")
}

func capitalizeWord(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
