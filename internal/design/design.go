// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package design generates site design plans. The plan is opaque JSON
// shaped by the design-plan schema; only its seed is enforced here.
package design

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/adivvvv/gpt-simple-generator/internal/llm"
	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

const (
	schemaName      = "design_plan_schema"
	planTemperature = 0.7
	randomFlagCount = 2
)

// Caller issues one structured call. *llm.Executor implements it.
type Caller interface {
	Call(ctx context.Context, spec llm.CallSpec) (map[string]any, error)
}

// Rand backs seed and flag selection. *rand.Rand implements it.
type Rand interface {
	Int63n(n int64) int64
	Shuffle(n int, swap func(i, j int))
}

// PlanRequest describes one plan to generate.
type PlanRequest struct {
	Lang       string
	Seed       string
	StyleFlags []string
	Randomize  bool
}

// Planner builds design plans through the generative API.
type Planner struct {
	caller Caller
	schema map[string]any
	model  string
	rng    Rand
	logger *zap.Logger
}

// NewPlanner returns a Planner. A nil rng seeds one from the clock.
func NewPlanner(caller Caller, schema map[string]any, model string, rng Rand, logger *zap.Logger) *Planner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{caller: caller, schema: schema, model: model, rng: rng, logger: logger}
}

// Plan generates a plan for req. The returned plan's seed is always the
// request seed, or a generated "seed-" plus ten digits when none is given,
// whatever the model returned.
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (types.DesignPlan, error) {
	if !types.ValidLanguage(req.Lang) {
		return nil, &types.ValidationError{Field: "lang", Reason: "unsupported language"}
	}

	seed := strings.TrimSpace(req.Seed)
	if seed == "" {
		seed = fmt.Sprintf("seed-%d", 1_000_000_000+p.rng.Int63n(9_000_000_000))
	}
	flags := p.flags(req)

	payload, err := json.Marshal(map[string]any{
		"task":       "design_plan",
		"language":   req.Lang,
		"seed":       seed,
		"styleFlags": flags,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding plan payload: %w", err)
	}

	obj, err := p.caller.Call(ctx, llm.CallSpec{
		Model: p.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Text: "You are a web design system generator. Produce a cohesive, accessible design plan (typography, palette, spacing, layout, components) for a content site in " + req.Lang + ". Treat the seed as the source of variation and honor the style flags. Return ONLY JSON matching the schema."},
			{Role: llm.RoleUser, Text: "USER_PAYLOAD_JSON:\n" + string(payload)},
		},
		SchemaName:  schemaName,
		Schema:      p.schema,
		Temperature: planTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generating design plan: %w", err)
	}

	plan := types.DesignPlan(obj)
	plan["seed"] = seed
	p.logger.Info("generated design plan", zap.String("lang", req.Lang), zap.String("seed", seed), zap.Strings("style_flags", flags))
	return plan, nil
}

// flags honors explicit flags; with Randomize and none given it samples
// two from the design flag pool.
func (p *Planner) flags(req PlanRequest) []string {
	var out []string
	for _, f := range req.StyleFlags {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) > 0 || !req.Randomize {
		return out
	}

	pool := append([]string(nil), types.DesignStyleFlags...)
	p.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:randomFlagCount]
}
