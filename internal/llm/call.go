// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm issues structured JSON calls against the generative API.
// The Executor degrades through output modes on client errors and the
// extractor pulls a JSON object out of whichever envelope shape the API
// returned.
package llm

import (
	"encoding/json"
	"fmt"
)

// Role tags an instruction or content block.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one role-tagged text block.
type Message struct {
	Role Role
	Text string
}

// CallSpec is one logical structured-JSON request.
type CallSpec struct {
	Model       string
	Messages    []Message
	SchemaName  string
	Schema      map[string]any
	Temperature float64
}

// OutputMode is the output declaration sent with a request.
type OutputMode int

const (
	ModeStrictSchema OutputMode = iota
	ModeJSONObject
	ModeNone
)

func (m OutputMode) String() string {
	switch m {
	case ModeStrictSchema:
		return "json_schema"
	case ModeJSONObject:
		return "json_object"
	default:
		return "none"
	}
}

type responsesRequest struct {
	Model       string       `json:"model"`
	Input       []inputItem  `json:"input"`
	Temperature float64      `json:"temperature"`
	Text        *textOptions `json:"text,omitempty"`
}

type inputItem struct {
	Role    Role          `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type textOptions struct {
	Format map[string]any `json:"format"`
}

// buildRequest renders spec as a Responses API body for the given mode
// and model. The prompt blocks and temperature are identical across modes.
func buildRequest(spec CallSpec, mode OutputMode, model string) (json.RawMessage, error) {
	req := responsesRequest{
		Model:       model,
		Temperature: spec.Temperature,
	}
	for _, m := range spec.Messages {
		req.Input = append(req.Input, inputItem{
			Role:    m.Role,
			Content: []contentPart{{Type: "input_text", Text: m.Text}},
		})
	}

	switch mode {
	case ModeStrictSchema:
		req.Text = &textOptions{Format: map[string]any{
			"type":   "json_schema",
			"name":   spec.SchemaName,
			"schema": spec.Schema,
			"strict": true,
		}}
	case ModeJSONObject:
		req.Text = &textOptions{Format: map[string]any{"type": "json_object"}}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	return body, nil
}
