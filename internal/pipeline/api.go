package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mlactions/internal/hub"
)

// DefaultInferenceEndpoint is the hosted Hugging Face Inference API.
const DefaultInferenceEndpoint = "https://api-inference.huggingface.co"

// API runs pipelines on the hosted Inference API. Models live remotely, so
// construction only validates the Spec.
type API struct {
	endpoint   string
	tokens     hub.TokenSource
	timeout    time.Duration
	httpClient *http.Client
}

// NewAPI constructs the hosted backend. tokens may be nil for public models.
func NewAPI(endpoint string, tokens hub.TokenSource, timeout time.Duration) *API {
	ep := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if ep == "" {
		ep = DefaultInferenceEndpoint
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &API{endpoint: ep, tokens: tokens, timeout: timeout, httpClient: &http.Client{Timeout: 0}}
}

func (a *API) New(ctx context.Context, spec Spec) (Pipeline, error) {
	spec, err := normalize(spec)
	if err != nil {
		return nil, err
	}
	return &apiPipeline{api: a, spec: spec}, nil
}

type apiPipeline struct {
	api  *API
	spec Spec
}

type apiRequest struct {
	Inputs  string         `json:"inputs"`
	Options map[string]any `json:"options,omitempty"`
}

func (p *apiPipeline) Run(ctx context.Context, input string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, p.api.timeout)
	defer cancel()
	body, _ := json.Marshal(apiRequest{Inputs: input, Options: map[string]any{"wait_for_model": true}})
	u := p.api.endpoint + "/models/" + escapeModel(p.spec.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.api.tokens != nil {
		if tok := p.api.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	resp, err := p.api.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusServiceUnavailable {
		return nil, ErrDependencyUnavailable("model loading: " + p.spec.Model)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(b)
		if len(msg) > 512 {
			msg = msg[:512]
		}
		return nil, fmt.Errorf("inference api http error: %s: %s", resp.Status, msg)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("inference api: decode: %w", err)
	}
	return out, nil
}

// escapeModel escapes each path segment of an "org/name" model id.
func escapeModel(model string) string {
	parts := strings.Split(model, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
