// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/adivvvv/gpt-simple-generator/internal/llm"
	"github.com/adivvvv/gpt-simple-generator/internal/references"
	"github.com/adivvvv/gpt-simple-generator/internal/schema"
)

func newExecutor() *llm.Executor {
	return llm.NewExecutor(llm.NewOpenAITransport(cfg.AI), cfg.AI, logger)
}

func loadSchema(name string) (map[string]any, error) {
	return schema.Loader{Dir: cfg.SchemaDir}.Load(name)
}

// newLookup returns the reference source for this run. A refs file wins
// over PubMed. The returned close func is always safe to call.
func newLookup(ctx context.Context, refsFile string, useCache bool) (references.Lookup, func(), error) {
	if refsFile != "" {
		f, err := references.LoadFile(refsFile)
		if err != nil {
			return nil, func() {}, err
		}
		return f, func() {}, nil
	}

	pm := references.NewPubMed(cfg.References, cfg.Content.Topic, nil, logger)
	if !useCache || cfg.References.CachePath == "" {
		return pm, func() {}, nil
	}

	cache, err := references.OpenCache(ctx, cfg.References.CachePath, cfg.References.CacheTTL)
	if err != nil {
		logger.Warn("reference cache unavailable, continuing without it", zap.Error(err))
		return pm, func() {}, nil
	}
	return &references.Cached{Name: "pubmed", Source: pm, Cache: cache, Logger: logger},
		func() { cache.Close() }, nil
}

// writeOutput encodes v as indented JSON or YAML.
func writeOutput(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
}

// splitList splits comma-separated flag values and drops blanks.
func splitList(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
