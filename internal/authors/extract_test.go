package authors

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"horse.fit/byline/internal/ner"
)

type fakePredictor struct {
	calls int
	spans []ner.Span
	err   error
}

func (f *fakePredictor) Predict(_ context.Context, _ string, _ []string) ([]ner.Span, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.spans, nil
}

func TestSplitExtractor(t *testing.T) {
	t.Parallel()

	names, err := SplitExtractor{}.Extract(context.Background(), " Jane Doe ; John Roe ;; ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Jane Doe", "John Roe"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("unexpected names: got %v want %v", names, want)
	}
}

func TestSplitExtractorRecasesAllCaps(t *testing.T) {
	t.Parallel()

	names, err := SplitExtractor{}.Extract(context.Background(), "JANE DOE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 1 || names[0] != "Jane Doe" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestModelExtractorFiltersSpans(t *testing.T) {
	t.Parallel()

	predictor := &fakePredictor{
		spans: []ner.Span{
			{Text: "Jane Doe", Label: ner.LabelPerson, Score: 0.99},
			{Text: "Reuters", Label: "Organization", Score: 0.97},
			{Text: "Smith", Label: ner.LabelPerson, Score: 0.91},
			{Text: "JOHN ROE", Label: ner.LabelPerson, Score: 0.88},
		},
	}

	names, err := NewModelExtractor(predictor).Extract(context.Background(), "by JANE DOE and JOHN ROE, Reuters")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Jane Doe", "John Roe"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("unexpected names: got %v want %v", names, want)
	}
	if predictor.calls != 1 {
		t.Fatalf("expected exactly one predict call, got %d", predictor.calls)
	}
}

func TestModelExtractorPropagatesError(t *testing.T) {
	t.Parallel()

	predictor := &fakePredictor{err: fmt.Errorf("service unavailable")}
	if _, err := NewModelExtractor(predictor).Extract(context.Background(), "anything"); err == nil {
		t.Fatalf("expected error from failing predictor")
	}
}
