// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ideas

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/adivvvv/gpt-simple-generator/internal/llm"
	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

const (
	schemaName      = "ideas_schema"
	ideaTemperature = 0.4
	// MaxKeywordIdeas bounds one direct keyword generation call.
	MaxKeywordIdeas = 200
)

// Caller issues one structured call. *llm.Executor implements it.
type Caller interface {
	Call(ctx context.Context, spec llm.CallSpec) (map[string]any, error)
}

// Generator asks the generative API for batches of idea records.
type Generator struct {
	caller Caller
	schema map[string]any
	model  string
	topic  string
	logger *zap.Logger
}

// NewGenerator returns a Generator producing ideas about topic.
func NewGenerator(caller Caller, schema map[string]any, model, topic string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{caller: caller, schema: schema, model: model, topic: topic, logger: logger}
}

// GenerateIdeas requests count ideas in lang seeded by seeds. The records
// are read from "ideas", then "items" (which also holds a bare list).
func (g *Generator) GenerateIdeas(ctx context.Context, lang string, seeds []string, count int) ([]types.IdeaRecord, error) {
	payload, err := json.Marshal(map[string]any{
		"task":        "seed_ideas",
		"language":    lang,
		"seed_topics": seeds,
		"count":       count,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding idea payload: %w", err)
	}

	obj, err := g.caller.Call(ctx, llm.CallSpec{
		Model: g.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Text: fmt.Sprintf("Generate unique, high-intent SEO ideas in %s about %s. Return ONLY JSON matching the schema; no duplicates; diverse angles.", lang, g.topic)},
			{Role: llm.RoleUser, Text: "USER_PAYLOAD_JSON:\n" + string(payload)},
		},
		SchemaName:  schemaName,
		Schema:      g.schema,
		Temperature: ideaTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generating ideas: %w", err)
	}

	records := decodeIdeas(obj)
	g.logger.Debug("idea batch received", zap.String("lang", lang), zap.Int("requested", count), zap.Int("received", len(records)))
	return records, nil
}

// GenerateForKeywords validates a direct keyword request and returns the
// generated ideas without touching any pool.
func (g *Generator) GenerateForKeywords(ctx context.Context, lang string, seeds []string, count int) ([]types.IdeaRecord, error) {
	if !types.ValidLanguage(lang) {
		return nil, &types.ValidationError{Field: "lang", Reason: "unsupported language"}
	}
	if len(nonBlank(seeds)) == 0 {
		return nil, &types.ValidationError{Field: "seed_topics", Reason: "at least one seed topic is required"}
	}
	if count < 1 || count > MaxKeywordIdeas {
		return nil, &types.ValidationError{Field: "count", Reason: fmt.Sprintf("must be between 1 and %d", MaxKeywordIdeas)}
	}
	return g.GenerateIdeas(ctx, lang, nonBlank(seeds), count)
}

func decodeIdeas(obj map[string]any) []types.IdeaRecord {
	list, ok := obj["ideas"].([]any)
	if !ok {
		list, _ = obj["items"].([]any)
	}

	var out []types.IdeaRecord
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		raw, err := json.Marshal(m)
		if err != nil {
			continue
		}
		var r types.IdeaRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}
