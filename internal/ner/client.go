// Package ner talks to the external person-entity recognition service.
// The model is held by the service for process lifetime; this client is
// the explicitly-constructed handle callers inject into the extractor.
package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultEndpoint       = "http://127.0.0.1:8845/predict"
	DefaultRequestTimeout = 30 * time.Second

	// LabelPerson is the span label requested for author extraction.
	LabelPerson = "Person"
)

// Span is one labeled entity span returned by the recognizer.
type Span struct {
	Text  string  `json:"text"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type predictRequest struct {
	Text   string   `json:"text"`
	Labels []string `json:"labels"`
}

type predictResponse struct {
	Entities []Span `json:"entities"`
}

type Options struct {
	Endpoint       string
	RequestTimeout time.Duration
}

type Client struct {
	endpoint string
	timeout  time.Duration
	httpc    *http.Client
}

func NewClient(opts Options) *Client {
	endpoint := normalizeEndpoint(opts.Endpoint)
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Client{
		endpoint: endpoint,
		timeout:  timeout,
		httpc:    http.DefaultClient,
	}
}

// Predict requests labeled spans for the given text. It returns the
// raw spans in service order; filtering by label is the caller's job.
func (c *Client) Predict(ctx context.Context, text string, labels []string) ([]Span, error) {
	if c == nil {
		return nil, fmt.Errorf("ner client is not initialized")
	}

	body, err := json.Marshal(predictRequest{Text: text, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("marshal ner request: %w", err)
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build ner request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ner request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ner response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ner service status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed predictResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode ner response: %w", err)
	}
	return parsed.Entities, nil
}

func normalizeEndpoint(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DefaultEndpoint
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	if parsed.Path == "" || parsed.Path == "/" {
		parsed.Path = "/predict"
	}
	return parsed.String()
}
