// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package article turns a GenerationRequest and its references into a
// finished GeneratedArticle. One structured call is made; if the result
// fails the acceptance check a second and final call is made with a new
// lead style, a higher temperature and a one-off banned nonce phrase.
package article

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math/rand"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/adivvvv/gpt-simple-generator/internal/citation"
	"github.com/adivvvv/gpt-simple-generator/internal/llm"
	"github.com/adivvvv/gpt-simple-generator/internal/metrics"
	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

const (
	schemaName = "article_schema"

	defaultMinSentences     = 4
	defaultMaxInline        = 3
	defaultParagraphs       = 9
	defaultFAQCount         = 8
	defaultTemperature      = 0.45
	defaultRetryTemperature = 0.55
)

// Caller issues one structured call. *llm.Executor implements it.
type Caller interface {
	Call(ctx context.Context, spec llm.CallSpec) (map[string]any, error)
}

// Rand is the randomness source behind the coin flip and lead style
// picks. *rand.Rand implements it.
type Rand interface {
	Intn(n int) int
}

// Result is a finished article and how it was produced.
type Result struct {
	Article types.GeneratedArticle `json:"article" yaml:"article"`
	Meta    types.GenerationMeta   `json:"meta" yaml:"meta"`
}

// Generator is the generation orchestrator.
type Generator struct {
	caller Caller
	schema map[string]any
	model  string
	cfg    types.ContentConfig
	rng    Rand
	now    func() time.Time
	newID  func() string
	logger *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand pins the randomness source.
func WithRand(r Rand) Option { return func(g *Generator) { g.rng = r } }

// WithClock replaces time.Now for nonce derivation.
func WithClock(now func() time.Time) Option { return func(g *Generator) { g.now = now } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(g *Generator) { g.logger = l } }

// NewGenerator returns a Generator calling model with the article schema.
func NewGenerator(caller Caller, schema map[string]any, model string, cfg types.ContentConfig, opts ...Option) *Generator {
	g := &Generator{
		caller: caller,
		schema: schema,
		model:  model,
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
		newID:  uuid.NewString,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate produces one article for req grounded on refs. Validation
// errors are returned before any call. A failed call on either attempt is
// returned as is; an article that fails acceptance twice is still returned.
func (g *Generator) Generate(ctx context.Context, req types.GenerationRequest, refs []types.ReferenceRecord) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := g.resolve(req, refs)
	meta := types.GenerationMeta{RequestID: g.newID(), CitationMode: p.Mode}

	art, err := g.attempt(ctx, req, refs, p)
	if err != nil {
		return nil, err
	}

	if NeedsRegeneration(art, p.BanPhrases, p.MinSentences) {
		g.logger.Info("article failed acceptance, regenerating",
			zap.String("request_id", meta.RequestID),
			zap.String("lead_style", string(p.LeadStyle)))

		p.LeadStyle = g.pickLead()
		p.Temperature = g.retryTemperature(p.Temperature)
		p.BanPhrases = append(slices.Clone(p.BanPhrases), Nonce(req.Keywords, g.now()))

		art, err = g.attempt(ctx, req, refs, p)
		if err != nil {
			return nil, err
		}
		meta.Regenerated = true
	}

	meta.LeadStyle = p.LeadStyle
	meta.Temperature = p.Temperature

	g.logger.Info("generated article",
		zap.String("request_id", meta.RequestID),
		zap.String("lang", req.Lang),
		zap.String("subject", req.Subject),
		zap.Strings("keywords", req.Keywords),
		zap.Strings("reference_ids", referenceIDs(refs)),
		zap.String("citation_mode", string(p.Mode)),
		zap.String("lead_style", string(p.LeadStyle)),
		zap.Bool("regenerated", meta.Regenerated))
	metrics.ArticlesGenerated.WithLabelValues(req.Lang, strconv.FormatBool(meta.Regenerated)).Inc()

	return &Result{Article: art, Meta: meta}, nil
}

func (g *Generator) attempt(ctx context.Context, req types.GenerationRequest, refs []types.ReferenceRecord, p attemptParams) (types.GeneratedArticle, error) {
	msgs, err := buildMessages(req, refs, p)
	if err != nil {
		return types.GeneratedArticle{}, err
	}

	obj, err := g.caller.Call(ctx, llm.CallSpec{
		Model:       g.model,
		Messages:    msgs,
		SchemaName:  schemaName,
		Schema:      g.schema,
		Temperature: p.Temperature,
	})
	if err != nil {
		return types.GeneratedArticle{}, fmt.Errorf("generating article: %w", err)
	}

	art := coerceShape(obj, req.Subject, g.cfg.Topic, refs)
	art.Body = citation.Enforce(art.Body, p.Mode, p.MaxInline, p.Allowed)
	return art, nil
}

// resolve fills every attempt parameter from req, then config, then the
// built-in defaults. Explicit request counts win even when zero. The
// citation mode is never left as auto.
func (g *Generator) resolve(req types.GenerationRequest, refs []types.ReferenceRecord) attemptParams {
	p := attemptParams{
		Lang:         req.Lang,
		LeadStyle:    req.LeadStyle,
		Paragraphs:   firstPositive(req.Paragraphs, g.cfg.Paragraphs, defaultParagraphs),
		FAQCount:     firstPositive(req.FAQCount, g.cfg.FAQCount, defaultFAQCount),
		MinSentences: firstPositive(g.cfg.MinSentences, defaultMinSentences),
		MaxInline:    firstPositive(g.cfg.MaxInlineCitations, defaultMaxInline),
		Allowed:      types.AllowList(refs),
		Temperature:  req.Temperature,
	}
	if req.MinSentences != nil {
		p.MinSentences = *req.MinSentences
	}
	if req.MaxInlineCitations != nil {
		p.MaxInline = *req.MaxInlineCitations
	}
	if p.Temperature <= 0 {
		p.Temperature = g.cfg.Temperature
	}
	if p.Temperature <= 0 {
		p.Temperature = defaultTemperature
	}

	p.Mode = req.CitationMode
	if p.Mode == "" {
		p.Mode = g.cfg.CitationMode
	}
	if p.Mode == "" || p.Mode == types.CitationAuto {
		p.Mode = types.CitationLimited
		if g.rng.Intn(2) == 0 {
			p.Mode = types.CitationNone
		}
	}

	if p.LeadStyle == "" {
		p.LeadStyle = g.pickLead()
	}

	p.BanPhrases = append(slices.Clone(g.cfg.BanPhrases), req.BanPhrases...)
	return p
}

func (g *Generator) pickLead() types.LeadStyle {
	return types.LeadStyles[g.rng.Intn(len(types.LeadStyles))]
}

func (g *Generator) retryTemperature(current float64) float64 {
	t := g.cfg.RetryTemperature
	if t <= 0 {
		t = defaultRetryTemperature
	}
	if t <= current {
		t = current + 0.1
	}
	return t
}

// Nonce returns the first 12 hex characters of a hash over keywords and t.
func Nonce(keywords []string, t time.Time) string {
	data, _ := json.Marshal([]any{keywords, t.UnixNano()})
	return fmt.Sprintf("%x", sha256.Sum256(data))[:12]
}

func referenceIDs(refs []types.ReferenceRecord) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return ids
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
