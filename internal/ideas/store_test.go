// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ideas

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

func makeIdeas(prefix string, n int) []types.IdeaRecord {
	out := make([]types.IdeaRecord, n)
	for i := range out {
		out[i] = types.IdeaRecord{
			Title:          fmt.Sprintf("%s idea %d", prefix, i),
			PrimaryKeyword: "camel milk",
			Angle:          "health",
			Intent:         "informational",
		}
	}
	return out
}

// reverseShuffler reverses the slice so shuffled order is predictable.
type reverseShuffler struct{}

func (reverseShuffler) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func TestAddIdeas_IdempotentDedup(t *testing.T) {
	pool := NewStore(t.TempDir(), nil).Pool("en")
	batch := makeIdeas("a", 5)

	assert.Equal(t, 5, pool.AddIdeas(batch, 2000))
	count := pool.Count()
	assert.Equal(t, 0, pool.AddIdeas(batch, 2000))
	assert.Equal(t, count, pool.Count())
}

func TestAddIdeas_KeyNormalization(t *testing.T) {
	pool := NewStore(t.TempDir(), nil).Pool("en")
	added := pool.AddIdeas([]types.IdeaRecord{
		{Title: "Camel Milk  Benefits", PrimaryKeyword: "Camel Milk"},
		{Title: " camel milk\tbenefits ", PrimaryKeyword: "camel milk "},
		{Title: "Camel Milk Benefits", PrimaryKeyword: "lactoferrin"},
		{Title: "", PrimaryKeyword: "x"},
		{Title: "No keyword", PrimaryKeyword: "  "},
	}, 2000)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, pool.Count())
}

func TestAddIdeas_Cap(t *testing.T) {
	pool := NewStore(t.TempDir(), nil).Pool("de")

	assert.Equal(t, 3, pool.AddIdeas(makeIdeas("a", 5), 3))
	assert.Equal(t, 0, pool.AddIdeas(makeIdeas("b", 5), 3))
	assert.Equal(t, 3, pool.Count())
}

func TestAddIdeas_PersistedLayout(t *testing.T) {
	dir := t.TempDir()
	pool := NewStore(dir, nil).Pool("fr")
	pool.AddIdeas(makeIdeas("a", 2), 2000)

	raw, err := os.ReadFile(filepath.Join(dir, "ideas_fr.json"))
	require.NoError(t, err)

	var data struct {
		Ideas []map[string]any `json:"ideas"`
		Index map[string]int   `json:"index"`
	}
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.Len(t, data.Ideas, 2)
	assert.Equal(t, map[string]int{"a idea 0|camel milk": 1, "a idea 1|camel milk": 1}, data.Index)
	assert.Equal(t, "camel milk", data.Ideas[0]["primary_keyword"])
}

func TestPool_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	NewStore(dir, nil).Pool("it").AddIdeas(makeIdeas("a", 4), 2000)

	reopened := NewStore(dir, nil).Pool("it")
	assert.Equal(t, 4, reopened.Count())
	assert.Equal(t, 0, reopened.AddIdeas(makeIdeas("a", 4), 2000))
}

func TestPool_StaleIndexIsRebuilt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ideas_es.json")
	stale := `{"ideas":[{"title":"Kept","primary_keyword":"k"}],"index":{"ghost|k":1}}`
	require.NoError(t, os.WriteFile(path, []byte(stale), 0o644))

	pool := NewStore(dir, nil).Pool("es")
	assert.Equal(t, 0, pool.AddIdeas([]types.IdeaRecord{{Title: "kept", PrimaryKeyword: "K"}}, 2000))
	assert.Equal(t, 1, pool.AddIdeas([]types.IdeaRecord{{Title: "Ghost", PrimaryKeyword: "k"}}, 2000))
}

func TestPool_CorruptFileDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ideas_nl.json"), []byte("{not json"), 0o644))

	core, logs := observer.New(zap.WarnLevel)
	pool := NewStore(dir, zap.New(core)).Pool("nl")

	assert.Equal(t, 0, pool.Count())
	assert.Equal(t, 1, logs.FilterMessage("decoding idea pool").Len())
	assert.Equal(t, 2, pool.AddIdeas(makeIdeas("a", 2), 2000))
	assert.Equal(t, 2, pool.Count())
}

func TestPool_WriteFailureIsSwallowed(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	core, logs := observer.New(zap.WarnLevel)
	pool := NewStore(filepath.Join(blocker, "sub"), zap.New(core)).Pool("pl")

	assert.Equal(t, 2, pool.AddIdeas(makeIdeas("a", 2), 2000))
	assert.Equal(t, 1, logs.FilterMessage("writing idea pool").Len())
	assert.Equal(t, 0, pool.Count())
}

func TestList(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	store.SetShuffler(reverseShuffler{})
	pool := store.Pool("sv")
	pool.AddIdeas(makeIdeas("a", 5), 2000)

	ordered := pool.List(3, false)
	require.Len(t, ordered, 3)
	assert.Equal(t, "a idea 0", ordered[0].Title)

	shuffled := pool.List(2, true)
	require.Len(t, shuffled, 2)
	assert.Equal(t, "a idea 4", shuffled[0].Title)

	assert.Len(t, pool.List(0, false), 1)
	assert.Len(t, pool.List(100, true), 5)
}

func TestList_EmptyPool(t *testing.T) {
	pool := NewStore(t.TempDir(), nil).Pool("cs")
	assert.Empty(t, pool.List(10, true))
	assert.Equal(t, 0, pool.Count())
}

func TestStore_PoolIsPerLanguage(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	assert.Same(t, store.Pool("en"), store.Pool("en"))
	assert.NotSame(t, store.Pool("en"), store.Pool("fi"))

	store.Pool("en").AddIdeas(makeIdeas("a", 2), 2000)
	assert.Equal(t, 0, store.Pool("fi").Count())
}

func TestAddIdeas_ConcurrentWritersDoNotLoseRecords(t *testing.T) {
	pool := NewStore(t.TempDir(), nil).Pool("en")

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			pool.AddIdeas(makeIdeas(fmt.Sprintf("w%d", w), 10), 2000)
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 80, pool.Count())
}
