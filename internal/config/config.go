package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Default word sets. Every entry is matched case-insensitively as a
// substring (keywords) or as a whole lowercase token (particles).
const (
	defaultOrganizationKeywords = "editorial,press,news,bureau,staff,team,times,media,university,school,department,foundation,center,centre,institute,committee,council,network,desk,journal,board,house,guest,contributor,columnist,reporter,editor,journalist"
	defaultAuthorJunkTerms      = "foundation,team,house,board,reporters,staff,editorial,press,guest"
	defaultNameParticles        = "van,von,de,del,della,da,di,la,le,den,der,ten,ter,bin,ibn"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMinConns  int32  `envconfig:"BYLINE_DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"BYLINE_DB_MAX_CONNS" default:"8"`

	// Name resolution thresholds and word sets.
	NameSimilarityThreshold float64 `envconfig:"NAME_SIMILARITY_THRESHOLD" default:"0.85"`
	OrganizationKeywords    string  `envconfig:"ORGANIZATION_KEYWORDS" default:""`
	AuthorJunkTerms         string  `envconfig:"AUTHOR_JUNK_TERMS" default:""`
	NameParticles           string  `envconfig:"NAME_PARTICLES" default:""`
	MinRawFieldLength       int     `envconfig:"MIN_RAW_FIELD_LENGTH" default:"5"`
	MaxRawFieldTokens       int     `envconfig:"MAX_RAW_FIELD_TOKENS" default:"6"`

	// Duplicate detection thresholds.
	DuplicateSimilarityThreshold float64 `envconfig:"DUPLICATE_SIMILARITY_THRESHOLD" default:"0.90"`
	FingerprintSize              int     `envconfig:"FINGERPRINT_SIZE" default:"64"`
	LSHBands                     int     `envconfig:"LSH_BANDS" default:"16"`
	FingerprintSeed              uint64  `envconfig:"FINGERPRINT_SEED" default:"1"`
	MaxCorpusArticles            int     `envconfig:"MAX_CORPUS_ARTICLES" default:"200000"`

	// External model services.
	NEREndpoint             string `envconfig:"NER_ENDPOINT" default:"http://127.0.0.1:8845/predict"`
	EmbeddingEndpoint       string `envconfig:"EMBEDDING_ENDPOINT" default:"http://127.0.0.1:8844/embed"`
	EmbeddingModelName      string `envconfig:"EMBEDDING_MODEL_NAME" default:"all-MiniLM-L6-v2"`
	EmbeddingModelVersion   string `envconfig:"EMBEDDING_MODEL_VERSION" default:"v1"`
	EmbeddingBatchSize      int    `envconfig:"EMBEDDING_BATCH_SIZE" default:"32"`
	EmbeddingMaxLength      int    `envconfig:"EMBEDDING_MAX_LENGTH" default:"512"`
	EmbeddingTimeoutSeconds int    `envconfig:"EMBEDDING_TIMEOUT_SECONDS" default:"45"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations that would silently change every
// clustering decision. Failures here are fatal at startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("BYLINE_DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("BYLINE_DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("BYLINE_DB_MIN_CONNS (%d) cannot exceed BYLINE_DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.NameSimilarityThreshold <= 0 || c.NameSimilarityThreshold >= 1 {
		return fmt.Errorf("NAME_SIMILARITY_THRESHOLD must be in (0, 1), got %g", c.NameSimilarityThreshold)
	}
	if c.DuplicateSimilarityThreshold <= 0 || c.DuplicateSimilarityThreshold > 1 {
		return fmt.Errorf("DUPLICATE_SIMILARITY_THRESHOLD must be in (0, 1], got %g", c.DuplicateSimilarityThreshold)
	}
	if c.FingerprintSize < 8 {
		return fmt.Errorf("FINGERPRINT_SIZE must be >= 8, got %d", c.FingerprintSize)
	}
	if c.LSHBands < 1 || c.FingerprintSize%c.LSHBands != 0 {
		return fmt.Errorf("LSH_BANDS (%d) must divide FINGERPRINT_SIZE (%d)", c.LSHBands, c.FingerprintSize)
	}
	if c.MinRawFieldLength < 1 {
		return fmt.Errorf("MIN_RAW_FIELD_LENGTH must be >= 1")
	}
	if c.MaxRawFieldTokens < 1 {
		return fmt.Errorf("MAX_RAW_FIELD_TOKENS must be >= 1")
	}
	if c.MaxCorpusArticles < 1 {
		return fmt.Errorf("MAX_CORPUS_ARTICLES must be >= 1")
	}
	if len(c.OrganizationKeywordList()) == 0 {
		return fmt.Errorf("ORGANIZATION_KEYWORDS must not resolve to an empty list")
	}
	return nil
}

// OrganizationKeywordList returns the configured keyword set, falling
// back to the built-in defaults when the variable is unset.
func (c *Config) OrganizationKeywordList() []string {
	return splitWordList(c.OrganizationKeywords, defaultOrganizationKeywords)
}

// AuthorJunkTermList returns the narrower keyword set the final
// author validator matches against canonical display names.
func (c *Config) AuthorJunkTermList() []string {
	return splitWordList(c.AuthorJunkTerms, defaultAuthorJunkTerms)
}

// NameParticleList returns lowercase particles kept uncapitalized
// during name normalization ("van", "de", ...).
func (c *Config) NameParticleList() []string {
	return splitWordList(c.NameParticles, defaultNameParticles)
}

func splitWordList(configured, fallback string) []string {
	raw := configured
	if strings.TrimSpace(raw) == "" {
		raw = fallback
	}

	parts := strings.Split(raw, ",")
	words := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		word := strings.ToLower(strings.TrimSpace(part))
		if word == "" {
			continue
		}
		if _, exists := seen[word]; exists {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	return words
}
