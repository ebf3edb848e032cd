// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"slices"
	"strings"
)

// CitationMode controls how inline [PMID:n] markers survive in a body.
type CitationMode string

const (
	CitationNone    CitationMode = "none"
	CitationLimited CitationMode = "limited"
	// CitationAuto resolves to none or limited per request and must never
	// reach the generative API.
	CitationAuto CitationMode = "auto"
)

// LeadStyle names the opening device requested for an article.
type LeadStyle string

const (
	LeadQuestion       LeadStyle = "question"
	LeadSurprisingStat LeadStyle = "surprising-stat"
	LeadMythBusting    LeadStyle = "myth-busting"
	LeadHistoricalNote LeadStyle = "historical-note"
	LeadCaseContext    LeadStyle = "case-context"
	LeadAnalogy        LeadStyle = "analogy"
)

// LeadStyles is the fixed enumeration a lead style is drawn from.
var LeadStyles = []LeadStyle{
	LeadQuestion,
	LeadSurprisingStat,
	LeadMythBusting,
	LeadHistoricalNote,
	LeadCaseContext,
	LeadAnalogy,
}

// SupportedLanguages lists the accepted language codes.
var SupportedLanguages = []string{"en", "de", "fr", "it", "es", "sv", "fi", "nl", "pl", "cs"}

// ValidLanguage reports whether lang is one of SupportedLanguages.
func ValidLanguage(lang string) bool {
	return slices.Contains(SupportedLanguages, lang)
}

// GenerationRequest describes one article to generate.
type GenerationRequest struct {
	// Lang is the output language code.
	Lang string `json:"lang" yaml:"lang"`

	// Subject is echoed verbatim into the generated article.
	Subject string `json:"subject" yaml:"subject"`

	// Keywords steer the article and the reference lookup.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Paragraphs is the target paragraph count (default 9).
	Paragraphs int `json:"paragraphs" yaml:"paragraphs"`

	// FAQCount is the target number of FAQ entries (default 8).
	FAQCount int `json:"faq_count" yaml:"faq_count"`

	// StyleFlags are free-form tone tags, order preserved.
	StyleFlags []string `json:"style_flags" yaml:"style_flags"`

	// SpecialRequirements is passed to the model unchanged.
	SpecialRequirements string `json:"special_requirements,omitempty" yaml:"special_requirements,omitempty"`

	// MinSentences is the minimum sentences per paragraph. Nil takes the configured default.
	MinSentences *int `json:"min_sentences_per_paragraph,omitempty" yaml:"min_sentences_per_paragraph,omitempty"`

	// CitationMode is none, limited or auto. Empty takes the configured default.
	CitationMode CitationMode `json:"citation_mode,omitempty" yaml:"citation_mode,omitempty"`

	// MaxInlineCitations caps kept markers under the limited mode. Nil takes
	// the configured default; an explicit zero keeps no markers.
	MaxInlineCitations *int `json:"max_inline_citations,omitempty" yaml:"max_inline_citations,omitempty"`

	// BanPhrases are appended to the configured seed list.
	BanPhrases []string `json:"ban_phrases,omitempty" yaml:"ban_phrases,omitempty"`

	// LeadStyle pins the opening device. Empty picks one at random.
	LeadStyle LeadStyle `json:"lead_style,omitempty" yaml:"lead_style,omitempty"`

	// Temperature for the first attempt. Zero takes the configured default.
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

// Validate checks the request before any network call is made. It trims
// blank keywords in place and fills Subject from the first keyword.
func (r *GenerationRequest) Validate() error {
	if !ValidLanguage(r.Lang) {
		return &ValidationError{Field: "lang", Reason: "unsupported language " + quote(r.Lang)}
	}

	var keywords []string
	for _, k := range r.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) == 0 {
		return &ValidationError{Field: "keywords", Reason: "at least one keyword is required"}
	}
	r.Keywords = keywords

	if r.Paragraphs != 0 && (r.Paragraphs < 3 || r.Paragraphs > 20) {
		return &ValidationError{Field: "paragraphs", Reason: "must be between 3 and 20"}
	}
	if r.FAQCount < 0 || r.FAQCount > 20 {
		return &ValidationError{Field: "faq_count", Reason: "must be between 0 and 20"}
	}
	if n := r.MinSentences; n != nil && (*n < 1 || *n > 12) {
		return &ValidationError{Field: "min_sentences_per_paragraph", Reason: "must be between 1 and 12"}
	}
	if n := r.MaxInlineCitations; n != nil && (*n < 0 || *n > 20) {
		return &ValidationError{Field: "max_inline_citations", Reason: "must be between 0 and 20"}
	}
	switch r.CitationMode {
	case "", CitationNone, CitationLimited, CitationAuto:
	default:
		return &ValidationError{Field: "citation_mode", Reason: "must be none, limited or auto"}
	}
	if r.LeadStyle != "" && !slices.Contains(LeadStyles, r.LeadStyle) {
		return &ValidationError{Field: "lead_style", Reason: "unknown lead style " + quote(string(r.LeadStyle))}
	}

	if strings.TrimSpace(r.Subject) == "" {
		r.Subject = r.Keywords[0]
	}
	return nil
}

func quote(s string) string { return `"` + s + `"` }
