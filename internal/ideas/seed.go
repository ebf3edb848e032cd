// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ideas

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/adivvvv/gpt-simple-generator/internal/metrics"
	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

const (
	defaultMaxIterations = 50
	defaultMinBatch      = 10
	minSeedTarget        = 100
)

// BatchSource produces one batch of idea records. *Generator implements it.
type BatchSource interface {
	GenerateIdeas(ctx context.Context, lang string, seeds []string, count int) ([]types.IdeaRecord, error)
}

// SeedRequest asks for a pool to be grown to Target records.
type SeedRequest struct {
	Lang       string
	Target     int
	Batch      int
	SeedTopics []string
}

// Validate rejects requests the loop cannot serve.
func (r SeedRequest) Validate() error {
	if !types.ValidLanguage(r.Lang) {
		return &types.ValidationError{Field: "lang", Reason: "unsupported language"}
	}
	if r.Target < minSeedTarget {
		return &types.ValidationError{Field: "target", Reason: fmt.Sprintf("must be at least %d", minSeedTarget)}
	}
	if r.Batch < defaultMinBatch {
		return &types.ValidationError{Field: "batch", Reason: fmt.Sprintf("must be at least %d", defaultMinBatch)}
	}
	return nil
}

// StopReason says why a seeding run ended.
type StopReason string

const (
	StopTargetReached StopReason = "target_reached"
	StopNoNewIdeas    StopReason = "no_new_ideas"
	StopGuard         StopReason = "iteration_guard"
	StopError         StopReason = "error"
)

// SeedResult summarizes one seeding run. It is returned alongside any
// error so callers see the progress made before the failure.
type SeedResult struct {
	Lang       string     `json:"lang" yaml:"lang"`
	Target     int        `json:"target" yaml:"target"`
	Count      int        `json:"count" yaml:"count"`
	Added      int        `json:"added" yaml:"added"`
	Iterations int        `json:"iterations" yaml:"iterations"`
	Stopped    StopReason `json:"stopped" yaml:"stopped"`
}

// Seeder drives repeated batch requests into a pool.
type Seeder struct {
	source        BatchSource
	cap           int
	maxIterations int
	minBatch      int
	topic         string
	logger        *zap.Logger
}

// NewSeeder returns a Seeder with limits from cfg.
func NewSeeder(source BatchSource, cfg types.IdeasConfig, topic string, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Seeder{
		source:        source,
		cap:           cfg.Cap,
		maxIterations: cfg.MaxIterations,
		minBatch:      cfg.MinBatch,
		topic:         topic,
		logger:        logger,
	}
	if s.cap <= 0 {
		s.cap = defaultCap
	}
	if s.maxIterations <= 0 {
		s.maxIterations = defaultMaxIterations
	}
	if s.minBatch <= 0 {
		s.minBatch = defaultMinBatch
	}
	return s
}

// Seed grows pool toward req.Target. Each iteration requests one batch;
// an empty batch halves the batch size (never below the minimum) and a
// batch adding nothing ends the run. The iteration guard counts every
// iteration. A source error ends the run and is returned with the result
// so far. Progress lines are written to w.
func (s *Seeder) Seed(ctx context.Context, pool *Pool, req SeedRequest, w io.Writer) (SeedResult, error) {
	res := SeedResult{Lang: req.Lang, Target: req.Target}
	if err := req.Validate(); err != nil {
		return res, err
	}

	seeds := nonBlank(req.SeedTopics)
	if len(seeds) == 0 && s.topic != "" {
		seeds = []string{s.topic}
	}

	batch := req.Batch
	res.Stopped = StopGuard
	for res.Iterations < s.maxIterations {
		if pool.Count() >= req.Target {
			res.Stopped = StopTargetReached
			break
		}

		records, err := s.source.GenerateIdeas(ctx, req.Lang, seeds, batch)
		if err != nil {
			res.Stopped = StopError
			res.Count = pool.Count()
			return res, fmt.Errorf("seeding %s after %d iterations: %w", req.Lang, res.Iterations, err)
		}
		res.Iterations++
		metrics.SeedIterations.WithLabelValues(req.Lang).Inc()

		if len(records) == 0 {
			batch = max(batch/2, s.minBatch)
			fmt.Fprintf(w, "iteration %d: empty batch, next batch size %d\n", res.Iterations, batch)
			continue
		}

		added := pool.AddIdeas(records, s.cap)
		res.Added += added
		s.logger.Info("seed iteration",
			zap.String("lang", req.Lang),
			zap.Int("iteration", res.Iterations),
			zap.Int("batch", batch),
			zap.Int("received", len(records)),
			zap.Int("added", added))
		fmt.Fprintf(w, "iteration %d: received %d, added %d\n", res.Iterations, len(records), added)

		if added == 0 {
			res.Stopped = StopNoNewIdeas
			break
		}
	}

	res.Count = pool.Count()
	if res.Stopped == StopGuard && res.Count >= req.Target {
		res.Stopped = StopTargetReached
	}
	return res, nil
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
