package types

import "time"

// AIConfig holds settings for the generative API.
type AIConfig struct {
	// APIKey is the bearer credential. Empty is a configuration error at call time.
	APIKey string `json:"-" yaml:"-"`

	// BaseURL is the API root (default https://api.openai.com/v1).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// ArticleModel generates articles.
	ArticleModel string `json:"article_model" yaml:"article_model"`

	// UtilModel generates ideas and design plans. Falls back to ArticleModel.
	UtilModel string `json:"util_model" yaml:"util_model"`

	// FallbackModel is tried in generic JSON mode after two client errors.
	// Empty disables the last cascade step.
	FallbackModel string `json:"fallback_model" yaml:"fallback_model"`

	// Timeout bounds each request (default 120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// ConnectTimeout bounds connection setup (default 10s).
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`

	// Debug includes truncated upstream bodies in returned errors.
	Debug bool `json:"debug" yaml:"debug"`
}

// ContentConfig holds article generation defaults.
type ContentConfig struct {
	// Topic is the subject area ideas and references are scoped to.
	Topic string `json:"topic" yaml:"topic"`

	// MinSentences is the per-paragraph minimum (default 4).
	MinSentences int `json:"min_sentences" yaml:"min_sentences"`

	// MaxInlineCitations caps kept markers in limited mode (default 3).
	MaxInlineCitations int `json:"max_inline_citations" yaml:"max_inline_citations"`

	// Paragraphs is the default paragraph target (default 9).
	Paragraphs int `json:"paragraphs" yaml:"paragraphs"`

	// FAQCount is the default FAQ target (default 8).
	FAQCount int `json:"faq_count" yaml:"faq_count"`

	// CitationMode is used when a request leaves it empty (default auto).
	CitationMode CitationMode `json:"citation_mode" yaml:"citation_mode"`

	// Temperature for first attempts (default 0.45).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// RetryTemperature for the single regeneration (default 0.55).
	RetryTemperature float64 `json:"retry_temperature" yaml:"retry_temperature"`

	// BanPhrases is the seed list of boilerplate openings to reject.
	BanPhrases []string `json:"ban_phrases" yaml:"ban_phrases"`
}

// IdeasConfig holds idea pool settings.
type IdeasConfig struct {
	// Dir holds one ideas_<lang>.json file per language.
	Dir string `json:"dir" yaml:"dir"`

	// Cap is the maximum pool size per language (default 2000).
	Cap int `json:"cap" yaml:"cap"`

	// MaxIterations bounds one seeding run (default 50).
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`

	// MinBatch is the floor batch size when backing off (default 10).
	MinBatch int `json:"min_batch" yaml:"min_batch"`
}

// ReferencesConfig holds settings for the PubMed lookup.
type ReferencesConfig struct {
	// CachePath is the sqlite database caching lookups.
	CachePath string `json:"cache_path" yaml:"cache_path"`

	// CacheTTL is how long a cached lookup stays fresh (default 24h).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`

	// RetMax is the maximum number of ids requested from esearch (default 12).
	RetMax int `json:"retmax" yaml:"retmax"`

	// Email and Tool identify the caller to E-utilities.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
	Tool  string `json:"tool,omitempty" yaml:"tool,omitempty"`

	// APIKey raises the E-utilities rate limit.
	APIKey string `json:"-" yaml:"-"`

	// RequestsPerSecond limits outbound calls (default 3).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// Timeout bounds each HTTP request (default 10s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Synonyms are alternative phrasings of the topic OR'd into every
	// query. Empty means the topic alone.
	Synonyms []string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`
}

// LogConfig selects the zap preset and level.
type LogConfig struct {
	Mode  string `json:"mode" yaml:"mode"`
	Level string `json:"level" yaml:"level"`
}

// Config is built once at startup and passed down explicitly.
type Config struct {
	AI         AIConfig         `json:"ai" yaml:"ai"`
	Content    ContentConfig    `json:"content" yaml:"content"`
	Ideas      IdeasConfig      `json:"ideas" yaml:"ideas"`
	References ReferencesConfig `json:"references" yaml:"references"`
	SchemaDir  string           `json:"schema_dir" yaml:"schema_dir"`
	Log        LogConfig        `json:"log" yaml:"log"`
}

// DefaultBanPhrases are openings the model tends to reuse verbatim.
var DefaultBanPhrases = []string{
	"Camel milk has garnered increasing attention",
	"Traditionally consumed in various cultures",
	"rich in proteins, vitamins, and minerals, making it a valuable dietary component",
	"This article explores its nutritional profile, potential health benefits",
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		AI: AIConfig{
			BaseURL:        "https://api.openai.com/v1",
			ArticleModel:   "gpt-4.1-mini",
			UtilModel:      "gpt-4.1-mini",
			Timeout:        120 * time.Second,
			ConnectTimeout: 10 * time.Second,
		},
		Content: ContentConfig{
			Topic:              "camel milk",
			MinSentences:       4,
			MaxInlineCitations: 3,
			Paragraphs:         9,
			FAQCount:           8,
			CitationMode:       CitationAuto,
			Temperature:        0.45,
			RetryTemperature:   0.55,
			BanPhrases:         append([]string(nil), DefaultBanPhrases...),
		},
		Ideas: IdeasConfig{
			Dir:           "storage/cache",
			Cap:           2000,
			MaxIterations: 50,
			MinBatch:      10,
		},
		References: ReferencesConfig{
			CachePath:         "storage/cache/references.db",
			CacheTTL:          24 * time.Hour,
			RetMax:            12,
			Tool:              "gpt-simple-generator",
			RequestsPerSecond: 3,
			Timeout:           10 * time.Second,
			Synonyms: []string{
				"camel milk",
				"camel's milk",
				"camels milk",
				"camel milk powder",
				"Camelus dromedarius",
				"camel milk product",
			},
		},
		SchemaDir: "schema",
		Log:       LogConfig{Mode: "dev", Level: "info"},
	}
}
