// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/adivvvv/gpt-simple-generator/internal/secrets"
	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

// setDefaults registers every config key with its built-in default so
// AutomaticEnv can resolve GPTGEN_* overrides for all of them.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()

	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", d.AI.BaseURL)
	v.SetDefault("ai.article_model", d.AI.ArticleModel)
	v.SetDefault("ai.util_model", d.AI.UtilModel)
	v.SetDefault("ai.fallback_model", d.AI.FallbackModel)
	v.SetDefault("ai.timeout", d.AI.Timeout)
	v.SetDefault("ai.connect_timeout", d.AI.ConnectTimeout)
	v.SetDefault("ai.debug", d.AI.Debug)

	v.SetDefault("content.topic", d.Content.Topic)
	v.SetDefault("content.min_sentences", d.Content.MinSentences)
	v.SetDefault("content.max_inline_citations", d.Content.MaxInlineCitations)
	v.SetDefault("content.paragraphs", d.Content.Paragraphs)
	v.SetDefault("content.faq_count", d.Content.FAQCount)
	v.SetDefault("content.citation_mode", string(d.Content.CitationMode))
	v.SetDefault("content.temperature", d.Content.Temperature)
	v.SetDefault("content.retry_temperature", d.Content.RetryTemperature)
	v.SetDefault("content.ban_phrases", d.Content.BanPhrases)

	v.SetDefault("ideas.dir", d.Ideas.Dir)
	v.SetDefault("ideas.cap", d.Ideas.Cap)
	v.SetDefault("ideas.max_iterations", d.Ideas.MaxIterations)
	v.SetDefault("ideas.min_batch", d.Ideas.MinBatch)

	v.SetDefault("references.cache_path", d.References.CachePath)
	v.SetDefault("references.cache_ttl", d.References.CacheTTL)
	v.SetDefault("references.retmax", d.References.RetMax)
	v.SetDefault("references.email", d.References.Email)
	v.SetDefault("references.tool", d.References.Tool)
	v.SetDefault("references.api_key", "")
	v.SetDefault("references.requests_per_second", d.References.RequestsPerSecond)
	v.SetDefault("references.timeout", d.References.Timeout)
	v.SetDefault("references.synonyms", d.References.Synonyms)

	v.SetDefault("schema.dir", d.SchemaDir)
	v.SetDefault("log.mode", d.Log.Mode)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("metrics.addr", "")
}

// loadConfig builds the explicit Config from v. Credentials left empty in
// v are filled from the secret set.
func loadConfig(v *viper.Viper, s secrets.Set) (types.Config, error) {
	c := types.Config{
		AI: types.AIConfig{
			APIKey:         s.Resolve(v.GetString("ai.api_key"), secrets.OpenAIAPIKey),
			BaseURL:        v.GetString("ai.base_url"),
			ArticleModel:   v.GetString("ai.article_model"),
			UtilModel:      v.GetString("ai.util_model"),
			FallbackModel:  v.GetString("ai.fallback_model"),
			Timeout:        v.GetDuration("ai.timeout"),
			ConnectTimeout: v.GetDuration("ai.connect_timeout"),
			Debug:          v.GetBool("ai.debug"),
		},
		Content: types.ContentConfig{
			Topic:              v.GetString("content.topic"),
			MinSentences:       v.GetInt("content.min_sentences"),
			MaxInlineCitations: v.GetInt("content.max_inline_citations"),
			Paragraphs:         v.GetInt("content.paragraphs"),
			FAQCount:           v.GetInt("content.faq_count"),
			CitationMode:       types.CitationMode(strings.ToLower(v.GetString("content.citation_mode"))),
			Temperature:        v.GetFloat64("content.temperature"),
			RetryTemperature:   v.GetFloat64("content.retry_temperature"),
			BanPhrases:         v.GetStringSlice("content.ban_phrases"),
		},
		Ideas: types.IdeasConfig{
			Dir:           v.GetString("ideas.dir"),
			Cap:           v.GetInt("ideas.cap"),
			MaxIterations: v.GetInt("ideas.max_iterations"),
			MinBatch:      v.GetInt("ideas.min_batch"),
		},
		References: types.ReferencesConfig{
			CachePath:         v.GetString("references.cache_path"),
			CacheTTL:          v.GetDuration("references.cache_ttl"),
			RetMax:            v.GetInt("references.retmax"),
			Email:             s.Resolve(v.GetString("references.email"), secrets.PubMedEmail),
			Tool:              v.GetString("references.tool"),
			APIKey:            s.Resolve(v.GetString("references.api_key"), secrets.PubMedAPIKey),
			RequestsPerSecond: v.GetFloat64("references.requests_per_second"),
			Timeout:           v.GetDuration("references.timeout"),
			Synonyms:          v.GetStringSlice("references.synonyms"),
		},
		SchemaDir: v.GetString("schema.dir"),
		Log: types.LogConfig{
			Mode:  v.GetString("log.mode"),
			Level: v.GetString("log.level"),
		},
	}

	switch c.Content.CitationMode {
	case types.CitationNone, types.CitationLimited, types.CitationAuto:
	default:
		return c, &types.ConfigurationError{Setting: "content.citation_mode", Reason: "must be none, limited or auto"}
	}
	if c.AI.UtilModel == "" {
		c.AI.UtilModel = c.AI.ArticleModel
	}
	return c, nil
}
