// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render converts generated markdown into HTML for output.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Typographer))

// HTML renders markdown. Raw HTML in the input is not passed through.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

// Article fills a.BodyHTML from a.Body.
func Article(a *types.GeneratedArticle) error {
	html, err := HTML(a.Body)
	if err != nil {
		return err
	}
	a.BodyHTML = html
	return nil
}
