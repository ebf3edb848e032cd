package types

import (
	"strings"
)

// IdeaRecord is a candidate article subject held in an idea pool.
type IdeaRecord struct {
	Title              string   `json:"title" yaml:"title"`
	PrimaryKeyword     string   `json:"primary_keyword" yaml:"primary_keyword"`
	SupportingKeywords []string `json:"supporting_keywords,omitempty" yaml:"supporting_keywords,omitempty"`
	Angle              string   `json:"angle,omitempty" yaml:"angle,omitempty"`
	Intent             string   `json:"search_intent,omitempty" yaml:"search_intent,omitempty"`
}

// Key returns the identity key: the lower-cased, whitespace-normalized
// title joined by "|" to the lower-cased primary keyword. Records missing
// either part have no key.
func (r IdeaRecord) Key() (string, bool) {
	title := strings.Join(strings.Fields(r.Title), " ")
	pk := strings.TrimSpace(r.PrimaryKeyword)
	if title == "" || pk == "" {
		return "", false
	}
	return strings.ToLower(title) + "|" + strings.ToLower(pk), true
}
