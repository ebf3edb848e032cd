// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package article

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/adivvvv/gpt-simple-generator/internal/llm"
	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

// systemPromptTmpl instructs the model on structure, tone and the
// resolved citation policy for one attempt.
var systemPromptTmpl = template.Must(template.New("article").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`You are a careful scientific editor writing in {{.Lang}}.
Goals:
- Start with a UNIQUE, non-generic introduction using the lead style: {{.LeadStyle}}. Do NOT reuse boilerplate.
- Use a varied opening device (a pointed question, surprising data, myth-busting, a short historical note, a practical scenario, or a crisp analogy).
- Structure: target {{.Paragraphs}} paragraphs; EACH paragraph must have at least {{.MinSentences}} sentences (full stops, not fragments). Separate paragraphs with a blank line.
- Summarize evidence and mechanisms clearly and neutrally; no medical advice; EU-compliant tone.
- FAQs: include {{.FAQCount}} questions and answers (plain text).
{{- if eq .Mode "none"}}
- Citations: include ZERO inline PMIDs anywhere in the body or FAQ.
{{- else}}
- Citations: include AT MOST {{.MaxInline}} inline PMIDs in the entire article (not per paragraph). Never repeat the same PMID and do not add PMIDs in the FAQ. Use only this allowed set: [{{join .Allowed ","}}].
{{- end}}
- Never fabricate PMIDs or study data. If uncertain, omit the inline citation.
{{- if .BanPhrases}}
Avoid these phrases verbatim or as near-duplicate paraphrases: • {{join .BanPhrases " • "}}.
{{- end}}
Constraints:
- Text only. No images, no tables.
- Use consistent terminology in {{.Lang}}.
- If you include PMIDs inline, cite like [PMID:12345678].
`))

// attemptParams is everything that varies between the two attempts.
type attemptParams struct {
	Lang         string
	LeadStyle    types.LeadStyle
	Paragraphs   int
	FAQCount     int
	MinSentences int
	Mode         types.CitationMode
	MaxInline    int
	Allowed      []string
	BanPhrases   []string
	Temperature  float64
}

type userPayload struct {
	Task                string                  `json:"task"`
	Language            string                  `json:"language"`
	Subject             string                  `json:"subject"`
	Keywords            []string                `json:"keywords"`
	StyleFlags          []string                `json:"styleFlags"`
	SpecialRequirements string                  `json:"specialRequirements"`
	References          []types.ReferenceRecord `json:"references"`
	Controls            payloadControls         `json:"controls"`
}

type payloadControls struct {
	LeadStyle    types.LeadStyle    `json:"leadStyle"`
	MinSentences int                `json:"minSentencesPerParagraph"`
	Mode         types.CitationMode `json:"pmidMode"`
	MaxInline    int                `json:"maxInlinePmids"`
	Allowed      []string           `json:"allowedPmids"`
	BanPhrases   []string           `json:"banPhrases"`
}

// buildMessages renders the system and user blocks for one attempt.
func buildMessages(req types.GenerationRequest, refs []types.ReferenceRecord, p attemptParams) ([]llm.Message, error) {
	var sys bytes.Buffer
	if err := systemPromptTmpl.Execute(&sys, p); err != nil {
		return nil, fmt.Errorf("rendering system prompt: %w", err)
	}

	if refs == nil {
		refs = []types.ReferenceRecord{}
	}
	allowed := p.Allowed
	if allowed == nil {
		allowed = []string{}
	}
	payload := userPayload{
		Task:                "write_article",
		Language:            p.Lang,
		Subject:             req.Subject,
		Keywords:            req.Keywords,
		StyleFlags:          req.StyleFlags,
		SpecialRequirements: req.SpecialRequirements,
		References:          refs,
		Controls: payloadControls{
			LeadStyle:    p.LeadStyle,
			MinSentences: p.MinSentences,
			Mode:         p.Mode,
			MaxInline:    p.MaxInline,
			Allowed:      allowed,
			BanPhrases:   p.BanPhrases,
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding user payload: %w", err)
	}

	return []llm.Message{
		{Role: llm.RoleSystem, Text: sys.String()},
		{Role: llm.RoleUser, Text: "USER_PAYLOAD_JSON:\n" + string(data)},
	}, nil
}
