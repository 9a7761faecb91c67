package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/byline/internal/cli"
	"horse.fit/byline/internal/config"
	"horse.fit/byline/internal/db"
	"horse.fit/byline/internal/dedup"
	"horse.fit/byline/internal/globaltime"
	"horse.fit/byline/internal/langdetect"
	"horse.fit/byline/internal/logging"
	payloadschema "horse.fit/byline/schema"
)

func runIngest(args []string) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 20*time.Second, "Command timeout")
	payload := fs.String("payload", "", "Scraped article payload JSON")
	payloadFile := fs.String("payload-file", "", "Path to payload JSON file (overrides --payload)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	payloadJSON, err := loadJSONInput(*payload, *payloadFile, "payload")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid payload: %v\n", err)
		return 2
	}

	article, err := payloadschema.ValidateArticlePayload(payloadJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid payload: %v\n", err)
		return 2
	}

	publishedAt, err := parseOptionalRFC3339("payload.published_at", optionalString(article.PublishedAt))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid payload: %v\n", err)
		return 2
	}

	bodyText := optionalString(article.BodyText)
	languageCode := langdetect.ResolveISO6391(optionalString(article.Language), article.Title, bodyText)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("ingest command failed to connect to database")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	articleID, inserted, err := pool.InsertArticle(ctx, db.ArticleInsert{
		Source:         strings.TrimSpace(article.Source),
		SourceItemID:   strings.TrimSpace(article.SourceItemID),
		Title:          strings.TrimSpace(article.Title),
		BodyText:       bodyText,
		RawAuthorField: optionalString(article.Author),
		Language:       languageCode,
		PublishedAt:    publishedAt,
		ContentHash:    dedup.ContentHash(bodyText),
	}, globaltime.UTC())
	if err != nil {
		logger.Error().Err(err).Msg("ingest failed")
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		return 1
	}

	if !inserted {
		logger.Info().
			Str("source", article.Source).
			Str("source_item_id", article.SourceItemID).
			Msg("article already ingested")
		fmt.Printf("skipped: article already exists source=%s item=%s\n", article.Source, article.SourceItemID)
		return 0
	}

	logger.Info().
		Int64("article_id", articleID).
		Str("source", article.Source).
		Str("language", languageCode).
		Msg("article ingested")
	fmt.Printf("article_id=%d language=%s\n", articleID, languageCode)
	return 0
}

func loadJSONInput(inlineValue, filePath, label string) (json.RawMessage, error) {
	if path := strings.TrimSpace(filePath); path != "" {
		payload, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s file %q: %w", label, path, err)
		}
		trimmed := strings.TrimSpace(string(payload))
		if trimmed == "" {
			return nil, fmt.Errorf("%s file %q is empty", label, path)
		}
		return json.RawMessage(trimmed), nil
	}

	trimmed := strings.TrimSpace(inlineValue)
	if trimmed == "" {
		return nil, fmt.Errorf("%s JSON is empty", label)
	}
	return json.RawMessage(trimmed), nil
}

func parseOptionalRFC3339(fieldName, raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return nil, fmt.Errorf("%s must be RFC3339: %w", fieldName, err)
	}
	utc := ts.UTC()
	return &utc, nil
}

func optionalString(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
