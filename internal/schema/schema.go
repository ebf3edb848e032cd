// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schema loads the JSON Schema documents passed verbatim to the
// generative API.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

// Document file names under the schema directory.
const (
	Article    = "article.schema.json"
	Ideas      = "ideas.schema.json"
	DesignPlan = "design-plan.schema.json"
)

// Loader reads schema documents from Dir.
type Loader struct {
	Dir string
}

// Load returns the named document. A missing or malformed document is a
// *types.ConfigurationError.
func (l Loader) Load(name string) (map[string]any, error) {
	path := filepath.Join(l.Dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		reason := "cannot read schema document"
		if errors.Is(err, fs.ErrNotExist) {
			reason = "schema document not found"
		}
		return nil, &types.ConfigurationError{Setting: "schema " + path, Reason: reason, Err: err}
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &types.ConfigurationError{Setting: "schema " + path, Reason: "not a JSON object", Err: err}
	}
	if len(doc) == 0 {
		return nil, &types.ConfigurationError{Setting: "schema " + path, Reason: "empty schema document"}
	}
	return doc, nil
}

// MustExist checks that every named document loads.
func (l Loader) MustExist(names ...string) error {
	for _, n := range names {
		if _, err := l.Load(n); err != nil {
			return fmt.Errorf("checking schemas: %w", err)
		}
	}
	return nil
}
