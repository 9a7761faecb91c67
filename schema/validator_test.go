package payloadschema

import (
	"encoding/json"
	"testing"
)

func validPayload() string {
	return `{
		"payload_version": "v1",
		"source": "example_feed",
		"source_item_id": "item-123",
		"title": "Port expansion approved",
		"body_text": "The council approved the expansion on Monday.",
		"author": "Jane Doe; John Roe",
		"language": "en",
		"published_at": "2026-02-14T08:30:00Z",
		"source_metadata": {"scraped_at": "2026-02-14T09:00:00Z"}
	}`
}

func TestValidateArticlePayload(t *testing.T) {
	t.Parallel()

	article, err := ValidateArticlePayload(json.RawMessage(validPayload()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.Source != "example_feed" || article.SourceItemID != "item-123" {
		t.Fatalf("unexpected identity fields: %+v", article)
	}
	if article.Author == nil || *article.Author != "Jane Doe; John Roe" {
		t.Fatalf("unexpected author field: %+v", article.Author)
	}
}

func TestValidateArticlePayloadMinimal(t *testing.T) {
	t.Parallel()

	payload := `{"payload_version":"v1","source":"feed","source_item_id":"1","title":"t"}`
	article, err := ValidateArticlePayload(json.RawMessage(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.BodyText != nil || article.Author != nil {
		t.Fatalf("expected optional fields to stay nil: %+v", article)
	}
}

func TestValidateArticlePayloadRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"not json", "{"},
		{"trailing content", `{"payload_version":"v1","source":"s","source_item_id":"1","title":"t"} extra`},
		{"wrong version", `{"payload_version":"v2","source":"s","source_item_id":"1","title":"t"}`},
		{"missing title", `{"payload_version":"v1","source":"s","source_item_id":"1"}`},
		{"blank source", `{"payload_version":"v1","source":"  ","source_item_id":"1","title":"t"}`},
		{"unknown field", `{"payload_version":"v1","source":"s","source_item_id":"1","title":"t","extra":1}`},
		{"bad published_at", `{"payload_version":"v1","source":"s","source_item_id":"1","title":"t","published_at":"yesterday"}`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ValidateArticlePayload(json.RawMessage(tc.payload)); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}
