// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package article

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

const summaryRunes = 170

// coerceShape maps a model object onto GeneratedArticle, tolerating the
// alternate field names models produce and filling defaults from subject,
// topic and refs.
func coerceShape(obj map[string]any, subject, topic string, refs []types.ReferenceRecord) types.GeneratedArticle {
	a := types.GeneratedArticle{
		Subject: subject,
		Title:   str(obj["title"]),
		Slug:    str(obj["slug"]),
		Summary: str(obj["summary"]),
		Body:    str(obj["body_markdown"]),
	}

	if strings.TrimSpace(a.Body) == "" {
		a.Body = str(obj["article"])
	}

	a.FAQ = faqList(obj["faq"])
	if len(a.FAQ) == 0 {
		a.FAQ = faqList(obj["faqs"])
	}

	if strings.TrimSpace(a.Title) == "" {
		a.Title = subject
	}
	if strings.TrimSpace(a.Slug) == "" {
		a.Slug = Slugify(a.Title, topic)
	}
	if strings.TrimSpace(a.Summary) == "" {
		src := a.Body
		if strings.TrimSpace(src) == "" {
			src = subject
		}
		a.Summary = Summarize(src, summaryRunes)
	}

	a.Tags = strList(obj["tags"])
	if len(a.Tags) == 0 {
		a.Tags = defaultTags(topic, subject)
	}

	a.References = refList(obj["references"])
	if len(a.References) == 0 {
		for _, r := range refs {
			if r.ID == "" {
				continue
			}
			if r.URL == "" {
				r.URL = PubMedURL(r.ID)
			}
			r.Excerpt = ""
			a.References = append(a.References, r)
		}
	}
	if len(a.References) > types.MaxArticleReferences {
		a.References = a.References[:types.MaxArticleReferences]
	}

	return a
}

// PubMedURL returns the canonical article URL for id.
func PubMedURL(id string) string {
	return "https://pubmed.ncbi.nlm.nih.gov/" + id + "/"
}

var nonSlugRe = regexp.MustCompile(`[^\p{L}\p{Nd}]+`)

// Slugify lower-cases s and joins its letter and digit runs with '-'.
// An empty result falls back to the slugified fallback, then "article".
func Slugify(s, fallback string) string {
	slug := strings.Trim(nonSlugRe.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if slug != "" {
		return slug
	}
	if fallback != "" {
		return Slugify(fallback, "")
	}
	return "article"
}

// Summarize collapses whitespace and cuts text to max runes, ending with
// an ellipsis when cut.
func Summarize(text string, max int) string {
	t := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(t) <= max {
		return t
	}
	runes := []rune(t)
	return strings.TrimRightFunc(string(runes[:max-1]), unicode.IsSpace) + "…"
}

// tagFromSubject keeps ASCII letters, digits and spaces from subject and
// joins its first three words with '-'.
func tagFromSubject(subject string) string {
	var b strings.Builder
	for _, r := range subject {
		if r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ') {
			b.WriteRune(r)
		}
	}
	words := strings.Fields(b.String())
	if len(words) == 0 {
		return "topic"
	}
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.ToLower(strings.Join(words, "-"))
}

func defaultTags(topic, subject string) []string {
	var tags []string
	for _, t := range []string{topic, tagFromSubject(subject)} {
		if t != "" && (len(tags) == 0 || tags[0] != t) {
			tags = append(tags, t)
		}
	}
	return tags
}

func str(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

func strList(v any) []string {
	items, _ := v.([]any)
	var out []string
	for _, it := range items {
		if s := strings.TrimSpace(str(it)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func faqList(v any) []types.FAQ {
	items, _ := v.([]any)
	var out []types.FAQ
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		q := firstNonEmpty(str(m["q"]), str(m["question"]))
		a := firstNonEmpty(str(m["a"]), str(m["answer"]))
		if q != "" && a != "" {
			out = append(out, types.FAQ{Question: q, Answer: a})
		}
	}
	return out
}

func refList(v any) []types.ReferenceRecord {
	items, _ := v.([]any)
	var out []types.ReferenceRecord
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		id := firstNonEmpty(str(m["pmid"]), str(m["id"]))
		if id == "" {
			continue
		}
		url := str(m["url"])
		if url == "" {
			url = PubMedURL(id)
		}
		out = append(out, types.ReferenceRecord{ID: id, Title: str(m["title"]), URL: url})
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
