package ner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPredict(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text   string   `json:"text"`
			Labels []string `json:"labels"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "by Jane Doe" || len(req.Labels) != 1 || req.Labels[0] != LabelPerson {
			t.Errorf("unexpected request: %+v", req)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"entities": []map[string]any{
				{"text": "Jane Doe", "label": "Person", "score": 0.97},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Options{Endpoint: server.URL + "/predict"})
	spans, err := client.Predict(context.Background(), "by Jane Doe", []string{LabelPerson})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 1 || spans[0].Text != "Jane Doe" || spans[0].Label != LabelPerson {
		t.Fatalf("unexpected spans: %+v", spans)
	}
}

func TestPredictServiceError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Options{Endpoint: server.URL + "/predict"})
	if _, err := client.Predict(context.Background(), "anything", []string{LabelPerson}); err == nil {
		t.Fatalf("expected error on non-2xx status")
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	t.Parallel()

	if got := normalizeEndpoint(""); got != DefaultEndpoint {
		t.Fatalf("unexpected default endpoint: %q", got)
	}
	if got := normalizeEndpoint("http://ner.internal:8845"); got != "http://ner.internal:8845/predict" {
		t.Fatalf("unexpected endpoint: %q", got)
	}
	if got := normalizeEndpoint("http://ner.internal:8845/custom"); got != "http://ner.internal:8845/custom" {
		t.Fatalf("expected explicit path to survive: %q", got)
	}
}
