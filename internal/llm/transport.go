// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

// Transport posts one rendered request body to the Responses endpoint and
// returns the raw response envelope. Non-2xx replies must be reported as
// *StatusError so the Executor can classify them.
type Transport interface {
	Post(ctx context.Context, body json.RawMessage) ([]byte, error)
}

// StatusError is a non-2xx reply from the generative API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d", e.Code)
}

// OpenAITransport sends requests through the openai-go client. SDK retries
// are disabled: the Executor owns the degradation policy.
type OpenAITransport struct {
	client openai.Client
}

// NewOpenAITransport builds a transport from cfg. The key is not checked
// here; the Executor rejects a missing key before any call.
func NewOpenAITransport(cfg types.AIConfig) *OpenAITransport {
	dialer := &net.Dialer{Timeout: orDefault(cfg.ConnectTimeout, 10*time.Second)}
	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: orDefault(cfg.ConnectTimeout, 10*time.Second),
		},
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithRequestTimeout(orDefault(cfg.Timeout, 120*time.Second)),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}

	return &OpenAITransport{client: openai.NewClient(opts...)}
}

// Post implements Transport.
func (t *OpenAITransport) Post(ctx context.Context, body json.RawMessage) ([]byte, error) {
	var raw []byte
	err := t.client.Post(ctx, "responses", body, &raw)
	if err == nil {
		return raw, nil
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		body := apiErr.RawJSON()
		if body == "" {
			body = apiErr.Error()
		}
		return nil, &StatusError{Code: apiErr.StatusCode, Body: body}
	}
	return nil, err
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
