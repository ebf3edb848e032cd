// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package article

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

func TestCoerceShape_Fallbacks(t *testing.T) {
	refs := make([]types.ReferenceRecord, 10)
	for i := range refs {
		refs[i] = types.ReferenceRecord{ID: strings.Repeat(string(rune('1'+i%9)), 6), Title: "t", Excerpt: "e"}
	}
	refs[0].ID = ""

	obj := map[string]any{
		"article": "Body from article field.",
		"faqs": []any{
			map[string]any{"question": "Q1?", "answer": "A1."},
			map[string]any{"q": "Q2?", "a": "A2."},
			map[string]any{"question": "no answer"},
			"junk",
		},
	}

	a := coerceShape(obj, "Camel milk and diabetes", "camel milk", refs)

	assert.Equal(t, "Camel milk and diabetes", a.Subject)
	assert.Equal(t, "Camel milk and diabetes", a.Title)
	assert.Equal(t, "camel-milk-and-diabetes", a.Slug)
	assert.Equal(t, "Body from article field.", a.Body)
	assert.Equal(t, "Body from article field.", a.Summary)
	assert.Equal(t, []types.FAQ{{Question: "Q1?", Answer: "A1."}, {Question: "Q2?", Answer: "A2."}}, a.FAQ)
	assert.Equal(t, []string{"camel milk", "camel-milk-and"}, a.Tags)

	require.Len(t, a.References, types.MaxArticleReferences)
	assert.Equal(t, refs[1].ID, a.References[0].ID)
	assert.Equal(t, PubMedURL(refs[1].ID), a.References[0].URL)
	assert.Empty(t, a.References[0].Excerpt)
}

func TestCoerceShape_KeepsModelFields(t *testing.T) {
	obj := map[string]any{
		"title":         "Title",
		"slug":          "custom-slug",
		"summary":       "Short.",
		"body_markdown": "Body.",
		"article":       "ignored",
		"faq":           []any{map[string]any{"q": "Q?", "a": "A."}},
		"faqs":          []any{map[string]any{"q": "ignored?", "a": "ignored."}},
		"tags":          []any{"a", " ", "b"},
		"references":    []any{map[string]any{"pmid": float64(12345678), "title": "Ref"}},
		"subject":       "model echo is overwritten",
	}

	a := coerceShape(obj, "Request subject", "camel milk", nil)

	assert.Equal(t, "Request subject", a.Subject)
	assert.Equal(t, "custom-slug", a.Slug)
	assert.Equal(t, "Body.", a.Body)
	assert.Equal(t, []types.FAQ{{Question: "Q?", Answer: "A."}}, a.FAQ)
	assert.Equal(t, []string{"a", "b"}, a.Tags)
	assert.Equal(t, []types.ReferenceRecord{{ID: "12345678", Title: "Ref", URL: "https://pubmed.ncbi.nlm.nih.gov/12345678/"}}, a.References)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "kamelmilch-für-kinder-2024", Slugify("Kamelmilch für Kinder / 2024!", ""))
	assert.Equal(t, "camel-milk", Slugify("!!!", "Camel Milk"))
	assert.Equal(t, "article", Slugify("", ""))
}

func TestSummarize(t *testing.T) {
	long := strings.Repeat("word ", 60)
	s := Summarize(long, summaryRunes)
	assert.LessOrEqual(t, utf8.RuneCountInString(s), summaryRunes)
	assert.True(t, strings.HasSuffix(s, "…"))
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(s, "…"), " "))

	assert.Equal(t, "short text", Summarize("  short \n text ", summaryRunes))
}

func TestTagFromSubject(t *testing.T) {
	assert.Equal(t, "camel-milk-for", tagFromSubject("Camel milk, for kids & adults"))
	assert.Equal(t, "topic", tagFromSubject("ü!"))
}
