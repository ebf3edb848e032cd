// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package references

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

// File serves a fixed reference list loaded from disk. Keywords are
// ignored.
type File struct {
	Records []types.ReferenceRecord
}

// LoadFile reads a YAML or JSON reference file. Either a bare list of
// records or a mapping with a "references" list is accepted.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reference file: %w", err)
	}

	var recs []types.ReferenceRecord
	if err := yaml.Unmarshal(data, &recs); err != nil {
		var wrapped struct {
			References []types.ReferenceRecord `yaml:"references"`
		}
		if err2 := yaml.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("parsing reference file %s: %w", path, err)
		}
		recs = wrapped.References
	}

	for i := range recs {
		if recs[i].URL == "" && recs[i].ID != "" {
			recs[i].URL = fmt.Sprintf(articleURL, recs[i].ID)
		}
	}
	return &File{Records: dedupe(recs, 0)}, nil
}

// Lookup implements Lookup.
func (f *File) Lookup(_ context.Context, _ string, _ []string, max int) ([]types.ReferenceRecord, error) {
	return dedupe(f.Records, max), nil
}
