// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ideas

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adivvvv/gpt-simple-generator/internal/llm"
	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

type stubCaller struct {
	obj   map[string]any
	err   error
	specs []llm.CallSpec
}

func (s *stubCaller) Call(_ context.Context, spec llm.CallSpec) (map[string]any, error) {
	s.specs = append(s.specs, spec)
	return s.obj, s.err
}

func idea(title string) map[string]any {
	return map[string]any{
		"title":               title,
		"primary_keyword":     "camel milk",
		"supporting_keywords": []any{"a", "b"},
		"angle":               "nutrition",
		"search_intent":       "informational",
	}
}

func TestGenerateIdeas_Shapes(t *testing.T) {
	tests := []struct {
		name string
		obj  map[string]any
		want int
	}{
		{name: "ideas field", obj: map[string]any{"ideas": []any{idea("a"), idea("b")}}, want: 2},
		{name: "items field", obj: map[string]any{"items": []any{idea("a")}}, want: 1},
		{name: "non-object entries skipped", obj: map[string]any{"ideas": []any{"x", idea("a"), 3.0}}, want: 1},
		{name: "unknown shape", obj: map[string]any{"results": []any{idea("a")}}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(&stubCaller{obj: tt.obj}, map[string]any{}, "util", "camel milk", nil)
			got, err := g.GenerateIdeas(context.Background(), "en", []string{"camel milk"}, 10)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestGenerateIdeas_RecordFieldsAndSpec(t *testing.T) {
	caller := &stubCaller{obj: map[string]any{"ideas": []any{idea("Camel milk for athletes")}}}
	g := NewGenerator(caller, map[string]any{"type": "object"}, "util-model", "camel milk", nil)

	got, err := g.GenerateIdeas(context.Background(), "sv", []string{"sport"}, 25)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, types.IdeaRecord{
		Title:              "Camel milk for athletes",
		PrimaryKeyword:     "camel milk",
		SupportingKeywords: []string{"a", "b"},
		Angle:              "nutrition",
		Intent:             "informational",
	}, got[0])

	require.Len(t, caller.specs, 1)
	spec := caller.specs[0]
	assert.Equal(t, "util-model", spec.Model)
	assert.Equal(t, "ideas_schema", spec.SchemaName)
	assert.Equal(t, 0.4, spec.Temperature)
	assert.Contains(t, spec.Messages[0].Text, "in sv about camel milk")

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(spec.Messages[1].Text, "USER_PAYLOAD_JSON:\n")), &payload))
	assert.Equal(t, float64(25), payload["count"])
	assert.Equal(t, []any{"sport"}, payload["seed_topics"])
}

func TestGenerateIdeas_ErrorPropagates(t *testing.T) {
	g := NewGenerator(&stubCaller{err: &types.UpstreamError{Status: 500}}, nil, "m", "t", nil)
	_, err := g.GenerateIdeas(context.Background(), "en", nil, 10)
	var ue *types.UpstreamError
	assert.True(t, errors.As(err, &ue))
}

func TestGenerateForKeywords_Validation(t *testing.T) {
	caller := &stubCaller{obj: map[string]any{"ideas": []any{}}}
	g := NewGenerator(caller, nil, "m", "t", nil)

	tests := []struct {
		name  string
		lang  string
		seeds []string
		count int
		field string
	}{
		{name: "bad lang", lang: "xx", seeds: []string{"a"}, count: 10, field: "lang"},
		{name: "no seeds", lang: "en", seeds: []string{" "}, count: 10, field: "seed_topics"},
		{name: "zero count", lang: "en", seeds: []string{"a"}, count: 0, field: "count"},
		{name: "too many", lang: "en", seeds: []string{"a"}, count: 201, field: "count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.GenerateForKeywords(context.Background(), tt.lang, tt.seeds, tt.count)
			var ve *types.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
	assert.Empty(t, caller.specs)

	_, err := g.GenerateForKeywords(context.Background(), "en", []string{"a"}, 200)
	require.NoError(t, err)
	assert.Len(t, caller.specs, 1)
}
