// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ideas

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

// batchFunc adapts a function to BatchSource and records requested sizes.
type batchFunc struct {
	fn    func(call, count int) ([]types.IdeaRecord, error)
	sizes []int
	seeds [][]string
}

func (b *batchFunc) GenerateIdeas(_ context.Context, _ string, seeds []string, count int) ([]types.IdeaRecord, error) {
	b.sizes = append(b.sizes, count)
	b.seeds = append(b.seeds, seeds)
	return b.fn(len(b.sizes), count)
}

func newSeeder(src BatchSource) *Seeder {
	return NewSeeder(src, types.IdeasConfig{}, "camel milk", nil)
}

func TestSeed_EmptyBatchesBackOffAndTerminate(t *testing.T) {
	src := &batchFunc{fn: func(int, int) ([]types.IdeaRecord, error) { return nil, nil }}
	pool := NewStore(t.TempDir(), nil).Pool("en")

	res, err := newSeeder(src).Seed(context.Background(), pool, SeedRequest{Lang: "en", Target: 1000, Batch: 100}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Added)
	assert.Equal(t, 50, res.Iterations)
	assert.Equal(t, StopGuard, res.Stopped)
	require.Len(t, src.sizes, 50)
	assert.Equal(t, []int{100, 50, 25, 12, 10, 10}, src.sizes[:6])
	assert.Equal(t, 10, src.sizes[49])
}

func TestSeed_StopsAtTarget(t *testing.T) {
	src := &batchFunc{fn: func(call, count int) ([]types.IdeaRecord, error) {
		return makeIdeas(fmt.Sprintf("call%d", call), count), nil
	}}
	pool := NewStore(t.TempDir(), nil).Pool("en")

	var out bytes.Buffer
	res, err := newSeeder(src).Seed(context.Background(), pool, SeedRequest{Lang: "en", Target: 100, Batch: 40}, &out)
	require.NoError(t, err)

	assert.Equal(t, StopTargetReached, res.Stopped)
	assert.Equal(t, 3, res.Iterations)
	assert.Equal(t, 120, res.Added)
	assert.Equal(t, 120, res.Count)
	assert.Contains(t, out.String(), "iteration 3: received 40, added 40")
}

func TestSeed_StopsWhenNothingNew(t *testing.T) {
	src := &batchFunc{fn: func(int, int) ([]types.IdeaRecord, error) { return makeIdeas("same", 20), nil }}
	pool := NewStore(t.TempDir(), nil).Pool("de")

	res, err := newSeeder(src).Seed(context.Background(), pool, SeedRequest{Lang: "de", Target: 500, Batch: 20}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, StopNoNewIdeas, res.Stopped)
	assert.Equal(t, 2, res.Iterations)
	assert.Equal(t, 20, res.Added)
	assert.Equal(t, 20, res.Count)
}

func TestSeed_StopsAtCap(t *testing.T) {
	src := &batchFunc{fn: func(call, count int) ([]types.IdeaRecord, error) {
		return makeIdeas(fmt.Sprintf("c%d", call), count), nil
	}}
	pool := NewStore(t.TempDir(), nil).Pool("en")
	seeder := NewSeeder(src, types.IdeasConfig{Cap: 150}, "camel milk", nil)

	res, err := seeder.Seed(context.Background(), pool, SeedRequest{Lang: "en", Target: 1000, Batch: 100}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, StopNoNewIdeas, res.Stopped)
	assert.Equal(t, 150, res.Count)
	assert.Equal(t, 150, res.Added)
}

func TestSeed_UpstreamErrorKeepsProgress(t *testing.T) {
	boom := &types.UpstreamError{Status: 503}
	src := &batchFunc{fn: func(call, count int) ([]types.IdeaRecord, error) {
		if call == 3 {
			return nil, boom
		}
		return makeIdeas(fmt.Sprintf("c%d", call), count), nil
	}}
	pool := NewStore(t.TempDir(), nil).Pool("en")

	res, err := newSeeder(src).Seed(context.Background(), pool, SeedRequest{Lang: "en", Target: 1000, Batch: 10}, io.Discard)
	var ue *types.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, StopError, res.Stopped)
	assert.Equal(t, 20, res.Added)
	assert.Equal(t, 20, res.Count)
}

func TestSeed_DefaultSeedTopic(t *testing.T) {
	src := &batchFunc{fn: func(int, int) ([]types.IdeaRecord, error) { return nil, nil }}
	pool := NewStore(t.TempDir(), nil).Pool("en")
	seeder := NewSeeder(src, types.IdeasConfig{MaxIterations: 1}, "camel milk", nil)

	_, err := seeder.Seed(context.Background(), pool, SeedRequest{Lang: "en", Target: 100, Batch: 10, SeedTopics: []string{" "}}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"camel milk"}}, src.seeds)
}

func TestSeedRequestValidate(t *testing.T) {
	tests := []struct {
		name  string
		req   SeedRequest
		field string
	}{
		{name: "valid", req: SeedRequest{Lang: "en", Target: 100, Batch: 10}},
		{name: "bad lang", req: SeedRequest{Lang: "jp", Target: 100, Batch: 10}, field: "lang"},
		{name: "small target", req: SeedRequest{Lang: "en", Target: 99, Batch: 10}, field: "target"},
		{name: "small batch", req: SeedRequest{Lang: "en", Target: 100, Batch: 9}, field: "batch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *types.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestSeed_InvalidRequestMakesNoCalls(t *testing.T) {
	src := &batchFunc{fn: func(int, int) ([]types.IdeaRecord, error) { return nil, nil }}
	pool := NewStore(t.TempDir(), nil).Pool("en")

	_, err := newSeeder(src).Seed(context.Background(), pool, SeedRequest{Lang: "en", Target: 10, Batch: 10}, io.Discard)
	require.Error(t, err)
	assert.Empty(t, src.sizes)
}
