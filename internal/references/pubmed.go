// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package references

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/adivvvv/gpt-simple-generator/internal/httputil"
	"github.com/adivvvv/gpt-simple-generator/internal/metrics"
	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

// eutilsBase is the E-utilities root. Declared as a var so tests can
// substitute an httptest server.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"

const (
	pubmedSource   = "pubmed"
	articleURL     = "https://pubmed.ncbi.nlm.nih.gov/%s/"
	userAgent      = "gpt-simple-generator/1.0"
	excerptLength  = 2
	keyedRateLimit = 10
)

// PubMed looks up references through esearch and efetch.
type PubMed struct {
	client  *http.Client
	cfg     types.ReferencesConfig
	topic   string
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewPubMed creates a PubMed lookup. A nil client gets one bounded by
// cfg.Timeout. With an API key the rate limit rises to 10 requests per
// second unless configured higher.
func NewPubMed(cfg types.ReferencesConfig, topic string, client *http.Client, logger *zap.Logger) *PubMed {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RetMax <= 0 {
		cfg.RetMax = 12
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 3
	}
	if cfg.APIKey != "" && rps < keyedRateLimit {
		rps = keyedRateLimit
	}

	return &PubMed{
		client:  client,
		cfg:     cfg,
		topic:   topic,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}
}

// Lookup implements Lookup. Records without an id or title are dropped,
// duplicates keep their first occurrence.
func (p *PubMed) Lookup(ctx context.Context, _ string, keywords []string, max int) ([]types.ReferenceRecord, error) {
	recs, err := p.lookup(ctx, keywords, max)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ReferenceLookups.WithLabelValues(pubmedSource, outcome).Inc()
	return recs, err
}

func (p *PubMed) lookup(ctx context.Context, keywords []string, max int) ([]types.ReferenceRecord, error) {
	term := BuildQuery(p.topicPhrases(), keywords)

	retmax := p.cfg.RetMax
	if max > retmax {
		retmax = max
	}

	ids, err := p.esearch(ctx, term, retmax)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		p.logger.Debug("pubmed search returned no ids", zap.String("term", term))
		return nil, nil
	}

	articles, err := p.efetch(ctx, ids)
	if err != nil {
		return nil, err
	}

	var recs []types.ReferenceRecord
	for _, a := range articles {
		id := strings.TrimSpace(a.PMID)
		title := cleanText(a.Title.Inner)
		if id == "" || title == "" {
			continue
		}

		var parts []string
		for _, s := range a.Abstract {
			if t := cleanText(s.Inner); t != "" {
				parts = append(parts, t)
			}
		}

		recs = append(recs, types.ReferenceRecord{
			ID:      id,
			Title:   title,
			URL:     fmt.Sprintf(articleURL, id),
			Excerpt: FirstSentences(strings.Join(parts, " "), excerptLength),
		})
	}

	out := dedupe(recs, max)
	p.logger.Debug("pubmed lookup",
		zap.String("term", term),
		zap.Int("ids", len(ids)),
		zap.Int("records", len(out)),
	)
	return out, nil
}

func (p *PubMed) topicPhrases() []string {
	if len(p.cfg.Synonyms) > 0 {
		return p.cfg.Synonyms
	}
	if p.topic != "" {
		return []string{p.topic}
	}
	return nil
}

// BuildQuery ORs the topic phrases and the keywords as title/abstract
// phrase searches and ANDs the two groups.
func BuildQuery(topic, keywords []string) string {
	topicTerm := orGroup(topic)
	kwTerm := orGroup(keywords)
	switch {
	case topicTerm == "":
		return kwTerm
	case kwTerm == "":
		return topicTerm
	default:
		return topicTerm + " AND " + kwTerm
	}
}

func orGroup(phrases []string) string {
	var parts []string
	for _, p := range phrases {
		p = strings.TrimSpace(strings.ReplaceAll(p, `"`, ""))
		if p != "" {
			parts = append(parts, `"`+p+`"[Title/Abstract]`)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

type esearchResponse struct {
	Result struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

func (p *PubMed) esearch(ctx context.Context, term string, retmax int) ([]string, error) {
	params := p.params()
	params.Set("retmode", "json")
	params.Set("retmax", strconv.Itoa(retmax))
	params.Set("sort", "relevance")
	params.Set("term", term)

	body, err := p.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("pubmed esearch: %w", err)
	}

	var res esearchResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	return res.Result.IDList, nil
}

type innerText struct {
	Inner string `xml:",innerxml"`
}

type pubmedArticle struct {
	PMID     string      `xml:"MedlineCitation>PMID"`
	Title    innerText   `xml:"MedlineCitation>Article>ArticleTitle"`
	Abstract []innerText `xml:"MedlineCitation>Article>Abstract>AbstractText"`
}

type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

func (p *PubMed) efetch(ctx context.Context, ids []string) ([]pubmedArticle, error) {
	params := p.params()
	params.Set("retmode", "xml")
	params.Set("id", strings.Join(ids, ","))

	body, err := p.get(ctx, "efetch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("pubmed efetch: %w", err)
	}

	var set pubmedArticleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}
	return set.Articles, nil
}

func (p *PubMed) params() url.Values {
	v := url.Values{}
	v.Set("db", "pubmed")
	if p.cfg.Tool != "" {
		v.Set("tool", p.cfg.Tool)
	}
	if p.cfg.Email != "" {
		v.Set("email", p.cfg.Email)
	}
	if p.cfg.APIKey != "" {
		v.Set("api_key", p.cfg.APIKey)
	}
	return v
}

func (p *PubMed) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, eutilsBase+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httputil.DoWithRetry(ctx, p.client, req, 3)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// cleanText strips inline markup, decodes entities and collapses whitespace.
func cleanText(s string) string {
	s = html.UnescapeString(tagPattern.ReplaceAllString(s, ""))
	return strings.Join(strings.Fields(s), " ")
}

// FirstSentences returns the first n sentences of text with whitespace
// collapsed. A sentence ends at '.', '!' or '?' followed by whitespace.
func FirstSentences(text string, n int) string {
	runes := []rune(strings.Join(strings.Fields(text), " "))
	count := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			count++
			if count == n {
				return string(runes[:i+1])
			}
		}
	}
	return string(runes)
}
