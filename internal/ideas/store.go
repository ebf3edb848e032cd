// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ideas maintains the per-language pool of deduplicated content
// ideas and the loop that seeds it from the generative API.
package ideas

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/adivvvv/gpt-simple-generator/internal/metrics"
	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

const defaultCap = 2000

// Shuffler randomizes list order. *rand.Rand implements it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Store hands out one Pool per language. Pools are created on first use
// and share nothing but the directory.
type Store struct {
	dir    string
	logger *zap.Logger
	rng    Shuffler

	mu    sync.Mutex
	pools map[string]*Pool
}

// NewStore returns a Store keeping pool files under dir.
func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		dir:    dir,
		logger: logger,
		pools:  make(map[string]*Pool),
	}
}

// SetShuffler pins the randomness source of pools created afterwards.
func (s *Store) SetShuffler(r Shuffler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng = r
}

// Pool returns the pool for lang.
func (s *Store) Pool(lang string) *Pool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pools[lang]; ok {
		return p
	}
	rng := s.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	p := &Pool{
		lang:   lang,
		path:   filepath.Join(s.dir, "ideas_"+lang+".json"),
		logger: s.logger.With(zap.String("lang", lang)),
		rng:    rng,
	}
	s.pools[lang] = p
	return p
}

// Pool is one language's idea collection backed by a JSON file. Every
// operation reads the file, and AddIdeas holds the pool lock across the
// whole read-merge-write cycle so concurrent callers in one process
// cannot lose each other's additions.
type Pool struct {
	lang   string
	path   string
	logger *zap.Logger
	rng    Shuffler

	mu sync.Mutex
}

// poolFile is the persisted layout: ordered records plus the key index.
type poolFile struct {
	Ideas []types.IdeaRecord `json:"ideas"`
	Index map[string]int     `json:"index"`
}

// Path returns the backing file.
func (p *Pool) Path() string { return p.path }

// AddIdeas appends every record with a title and primary keyword whose
// identity key is new, stopping once the pool holds limit records. The
// pool is written once after the batch. It returns the number added.
func (p *Pool) AddIdeas(records []types.IdeaRecord, limit int) int {
	if limit <= 0 {
		limit = defaultCap
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	data := p.load()
	added := 0
	for _, r := range records {
		if len(data.Ideas) >= limit {
			break
		}
		key, ok := r.Key()
		if !ok {
			continue
		}
		if _, dup := data.Index[key]; dup {
			continue
		}
		data.Ideas = append(data.Ideas, r)
		data.Index[key] = 1
		added++
	}

	p.save(data)
	if added > 0 {
		metrics.IdeasAdded.WithLabelValues(p.lang).Add(float64(added))
	}
	return added
}

// List returns up to limit records (at least one slot), in a fresh random
// order when shuffle is set and in stored order otherwise.
func (p *Pool) List(limit int, shuffle bool) []types.IdeaRecord {
	if limit < 1 {
		limit = 1
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ideas := p.load().Ideas
	if shuffle {
		p.rng.Shuffle(len(ideas), func(i, j int) { ideas[i], ideas[j] = ideas[j], ideas[i] })
	}
	if len(ideas) > limit {
		ideas = ideas[:limit]
	}
	return ideas
}

// Count returns the number of records in the pool.
func (p *Pool) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.load().Ideas)
}

// load reads the pool file. Missing, unreadable or malformed files yield
// an empty pool. The index is always rebuilt from the records so a stale
// or hand-edited index cannot admit duplicates.
func (p *Pool) load() poolFile {
	empty := poolFile{Index: map[string]int{}}

	raw, err := os.ReadFile(p.path)
	if err != nil {
		if !os.IsNotExist(err) {
			p.logger.Warn("reading idea pool", zap.Error(&types.StorageError{Op: "read", Path: p.path, Err: err}))
		}
		return empty
	}

	var data poolFile
	if err := json.Unmarshal(raw, &data); err != nil {
		p.logger.Warn("decoding idea pool", zap.Error(&types.StorageError{Op: "decode", Path: p.path, Err: err}))
		return empty
	}

	index := make(map[string]int, len(data.Ideas))
	for _, r := range data.Ideas {
		if key, ok := r.Key(); ok {
			index[key] = 1
		}
	}
	if len(index) != len(data.Index) {
		p.logger.Debug("rebuilt idea index", zap.Int("persisted", len(data.Index)), zap.Int("derived", len(index)))
	}
	data.Index = index
	return data
}

// save writes the pool through a temp file and rename. Failures are
// logged and swallowed.
func (p *Pool) save(data poolFile) {
	if err := p.write(data); err != nil {
		p.logger.Warn("writing idea pool", zap.Error(&types.StorageError{Op: "write", Path: p.path, Err: err}))
	}
}

func (p *Pool) write(data poolFile) error {
	if data.Ideas == nil {
		data.Ideas = []types.IdeaRecord{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding pool: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("creating pool directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p.path), filepath.Base(p.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	return os.Rename(tmp.Name(), p.path)
}
