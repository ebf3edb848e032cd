// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/adivvvv/gpt-simple-generator/internal/metrics"
	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

const (
	logBodyLimit   = 1000
	errorBodyLimit = 900
)

// Executor runs the degradation cascade for one CallSpec:
//
//  1. strict json_schema output against spec.Model
//  2. json_object output against spec.Model, on a 400/422 reply
//  3. json_object output against the fallback model, on a second 400/422,
//     when a fallback is configured and differs from spec.Model
//
// Any other failure stops the cascade immediately.
type Executor struct {
	transport     Transport
	extractor     *Extractor
	apiKey        string
	fallbackModel string
	debug         bool
	logger        *zap.Logger
}

// NewExecutor returns an Executor sending through t.
func NewExecutor(t Transport, cfg types.AIConfig, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		transport:     t,
		extractor:     NewExtractor(),
		apiKey:        cfg.APIKey,
		fallbackModel: strings.TrimSpace(cfg.FallbackModel),
		debug:         cfg.Debug,
		logger:        logger,
	}
}

type attempt struct {
	mode  OutputMode
	model string
}

func (e *Executor) plan(model string) []attempt {
	steps := []attempt{
		{mode: ModeStrictSchema, model: model},
		{mode: ModeJSONObject, model: model},
	}
	if e.fallbackModel != "" && e.fallbackModel != model {
		steps = append(steps, attempt{mode: ModeJSONObject, model: e.fallbackModel})
	}
	return steps
}

// Call returns the JSON object produced for spec. Errors are one of
// *types.ConfigurationError, *types.UpstreamError or
// *types.SchemaMismatchError.
func (e *Executor) Call(ctx context.Context, spec CallSpec) (map[string]any, error) {
	if e.apiKey == "" {
		return nil, &types.ConfigurationError{Setting: "ai.api_key", Reason: "generative API credential is not set"}
	}
	if spec.Schema == nil {
		return nil, &types.ConfigurationError{Setting: "schema", Reason: "no schema document for " + spec.SchemaName}
	}

	var last *StatusError
	var lastStep attempt
	for _, step := range e.plan(spec.Model) {
		body, err := buildRequest(spec, step.mode, step.model)
		if err != nil {
			return nil, err
		}

		raw, err := e.transport.Post(ctx, body)
		if err == nil {
			obj, xerr := e.extractor.Extract(raw)
			if xerr != nil {
				metrics.LLMCalls.WithLabelValues(step.mode.String(), "schema_mismatch").Inc()
				e.logger.Warn("structured output not decodable",
					zap.String("mode", step.mode.String()),
					zap.String("model", step.model),
					zap.String("body", truncate(string(raw), logBodyLimit)))
				return nil, xerr
			}
			metrics.LLMCalls.WithLabelValues(step.mode.String(), "ok").Inc()
			e.logger.Debug("structured call succeeded",
				zap.String("mode", step.mode.String()),
				zap.String("model", step.model))
			return obj, nil
		}

		var se *StatusError
		if !errors.As(err, &se) {
			metrics.LLMCalls.WithLabelValues(step.mode.String(), "transport_error").Inc()
			e.logger.Warn("structured call failed",
				zap.String("mode", step.mode.String()),
				zap.String("model", step.model),
				zap.Error(err))
			return nil, &types.UpstreamError{Mode: step.mode.String(), Model: step.model, Err: err}
		}

		e.logger.Warn("structured call failed",
			zap.String("mode", step.mode.String()),
			zap.String("model", step.model),
			zap.Int("status", se.Code),
			zap.String("body", truncate(se.Body, logBodyLimit)))

		if !isClientError(se.Code) {
			metrics.LLMCalls.WithLabelValues(step.mode.String(), "upstream_error").Inc()
			return nil, e.upstreamError(step, se)
		}
		metrics.LLMCalls.WithLabelValues(step.mode.String(), "client_error").Inc()
		last, lastStep = se, step
	}

	return nil, e.upstreamError(lastStep, last)
}

func (e *Executor) upstreamError(step attempt, se *StatusError) *types.UpstreamError {
	ue := &types.UpstreamError{Status: se.Code, Mode: step.mode.String(), Model: step.model, Err: se}
	if e.debug && se.Body != "" {
		ue.Detail = truncate(se.Body, errorBodyLimit)
	}
	return ue
}

func isClientError(code int) bool {
	return code == http.StatusBadRequest || code == http.StatusUnprocessableEntity
}
