// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

// Strategy pulls a JSON object out of a decoded response envelope. It
// reports false when its shape is absent.
type Strategy interface {
	Name() string
	Extract(envelope map[string]any) (map[string]any, bool)
}

// DefaultStrategies is the extraction precedence: typed structured field,
// flattened output_text, then a scan of every content block's text.
var DefaultStrategies = []Strategy{
	typedContentStrategy{},
	outputTextStrategy{},
	contentScanStrategy{},
}

// Extractor runs its strategies in order and returns the first success.
type Extractor struct {
	Strategies []Strategy
}

// NewExtractor returns an Extractor using DefaultStrategies.
func NewExtractor() *Extractor {
	return &Extractor{Strategies: DefaultStrategies}
}

// Extract decodes raw and returns the embedded JSON object.
func (e *Extractor) Extract(raw []byte) (map[string]any, error) {
	var envelope map[string]any
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &types.SchemaMismatchError{Reason: "response envelope is not a JSON object", Sample: sample(raw)}
	}
	for _, s := range e.Strategies {
		if obj, ok := s.Extract(envelope); ok {
			return obj, nil
		}
	}
	return nil, &types.SchemaMismatchError{Reason: "no extraction strategy matched", Sample: sample(raw)}
}

// typedContentStrategy reads an already-typed object from a content block,
// e.g. {"type":"output_json","json":{...}} or a "parsed" field.
type typedContentStrategy struct{}

func (typedContentStrategy) Name() string { return "typed_content" }

func (typedContentStrategy) Extract(envelope map[string]any) (map[string]any, bool) {
	for _, block := range contentBlocks(envelope) {
		for _, field := range []string{"json", "parsed"} {
			if obj, ok := block[field].(map[string]any); ok && len(obj) > 0 {
				return obj, true
			}
		}
	}
	return nil, false
}

type outputTextStrategy struct{}

func (outputTextStrategy) Name() string { return "output_text" }

func (outputTextStrategy) Extract(envelope map[string]any) (map[string]any, bool) {
	text, _ := envelope["output_text"].(string)
	return decodeObject(text)
}

type contentScanStrategy struct{}

func (contentScanStrategy) Name() string { return "content_scan" }

func (contentScanStrategy) Extract(envelope map[string]any) (map[string]any, bool) {
	for _, block := range contentBlocks(envelope) {
		text, _ := block["text"].(string)
		if obj, ok := decodeObject(text); ok {
			return obj, true
		}
	}
	return nil, false
}

// contentBlocks flattens output[].content[] in order, skipping anything
// that is not an object.
func contentBlocks(envelope map[string]any) []map[string]any {
	items, _ := envelope["output"].([]any)
	var blocks []map[string]any
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		content, _ := m["content"].([]any)
		for _, c := range content {
			if block, ok := c.(map[string]any); ok {
				blocks = append(blocks, block)
			}
		}
	}
	return blocks
}

// decodeObject parses text as JSON after stripping a markdown code fence.
// A top-level array is wrapped as {"items": [...]} so list-shaped outputs
// survive extraction.
func decodeObject(text string) (map[string]any, bool) {
	text = stripFence(text)
	if text == "" {
		return nil, false
	}

	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	switch val := v.(type) {
	case map[string]any:
		return val, true
	case []any:
		return map[string]any{"items": val}, true
	}
	return nil, false
}

func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func sample(raw []byte) string {
	return truncate(string(bytes.TrimSpace(raw)), 1000)
}
