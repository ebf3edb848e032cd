// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package references finds bibliographic records that articles may cite.
// Lookups come from PubMed E-utilities or from a local file, optionally
// behind a sqlite cache.
package references

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/adivvvv/gpt-simple-generator/internal/metrics"
	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

// Lookup returns up to max records relevant to keywords. max <= 0 means
// the implementation's own limit.
type Lookup interface {
	Lookup(ctx context.Context, lang string, keywords []string, max int) ([]types.ReferenceRecord, error)
}

// Cached serves lookups from Cache when fresh and fills it from Source
// otherwise. Cache failures are logged and bypassed.
type Cached struct {
	Name   string
	Source Lookup
	Cache  *Cache
	Logger *zap.Logger
}

// Lookup implements Lookup.
func (c *Cached) Lookup(ctx context.Context, lang string, keywords []string, max int) ([]types.ReferenceRecord, error) {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	key := CacheKey(c.Name, keywords, max)
	if c.Cache != nil {
		recs, ok, err := c.Cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.Warn("reference cache read failed", zap.Error(err))
		case ok:
			metrics.ReferenceLookups.WithLabelValues(c.Name, "cache_hit").Inc()
			return recs, nil
		}
	}

	recs, err := c.Source.Lookup(ctx, lang, keywords, max)
	if err != nil {
		return nil, err
	}

	if c.Cache != nil {
		if err := c.Cache.Put(ctx, key, recs); err != nil {
			logger.Warn("reference cache write failed", zap.Error(err))
		}
	}
	return recs, nil
}

// CacheKey derives a stable cache key from the source name, the normalised
// keyword list and the limit.
func CacheKey(source string, keywords []string, max int) string {
	norm := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			norm = append(norm, k)
		}
	}
	data, _ := json.Marshal([]any{source, norm, max})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func dedupe(recs []types.ReferenceRecord, max int) []types.ReferenceRecord {
	seen := make(map[string]bool, len(recs))
	out := make([]types.ReferenceRecord, 0, len(recs))
	for _, r := range recs {
		if r.ID == "" || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}
