package types

// ReferenceRecord is one bibliographic reference supplied by a lookup.
// ID is opaque (a PubMed id in practice) and unique within one set.
type ReferenceRecord struct {
	ID      string `json:"pmid" yaml:"pmid"`
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
	Excerpt string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
}

// AllowList returns the distinct non-empty reference ids in input order.
func AllowList(refs []ReferenceRecord) []string {
	seen := make(map[string]bool, len(refs))
	var ids []string
	for _, r := range refs {
		if r.ID == "" || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		ids = append(ids, r.ID)
	}
	return ids
}

// FAQ is one question and answer pair.
type FAQ struct {
	Question string `json:"q" yaml:"q"`
	Answer   string `json:"a" yaml:"a"`
}

// MaxArticleReferences caps GeneratedArticle.References.
const MaxArticleReferences = 8

// GeneratedArticle is the finished output of one generation request.
type GeneratedArticle struct {
	Title      string            `json:"title" yaml:"title"`
	Slug       string            `json:"slug" yaml:"slug"`
	Summary    string            `json:"summary" yaml:"summary"`
	Body       string            `json:"body_markdown" yaml:"body_markdown"`
	BodyHTML   string            `json:"body_html,omitempty" yaml:"body_html,omitempty"`
	FAQ        []FAQ             `json:"faq" yaml:"faq"`
	References []ReferenceRecord `json:"references" yaml:"references"`
	Tags       []string          `json:"tags" yaml:"tags"`
	Subject    string            `json:"subject" yaml:"subject"`
}

// GenerationMeta describes how an article was produced.
type GenerationMeta struct {
	RequestID    string       `json:"request_id" yaml:"request_id"`
	CitationMode CitationMode `json:"citation_mode" yaml:"citation_mode"`
	LeadStyle    LeadStyle    `json:"lead_style" yaml:"lead_style"`
	Regenerated  bool         `json:"regenerated" yaml:"regenerated"`
	Temperature  float64      `json:"temperature" yaml:"temperature"`
}
