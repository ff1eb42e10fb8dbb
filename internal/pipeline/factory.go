package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"mlactions/internal/hub"
	"mlactions/internal/runner"
)

// Backend names accepted by NewFactory.
const (
	BackendPython = "python"
	BackendAPI    = "api"
	BackendLlama  = "llama"
)

// Deps holds what the backends need.
type Deps struct {
	Runner      runner.Runner
	PythonPath  string
	APIEndpoint string
	APITimeout  time.Duration
	Tokens      hub.TokenSource
	Llama       LlamaOptions
	Log         zerolog.Logger
}

// NewFactory builds a factory for the named backend. generation optionally
// overrides the backend used for text-generation.
func NewFactory(backend, generation string, d Deps) (Factory, error) {
	def, err := newBackend(backend, d)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(generation) == "" || generation == backend {
		return def, nil
	}
	gen, err := newBackend(generation, d)
	if err != nil {
		return nil, err
	}
	return ByTask{Default: def, Tasks: map[string]Factory{TaskTextGeneration: gen}}, nil
}

func newBackend(name string, d Deps) (Factory, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendPython:
		if d.Runner == nil {
			return nil, fmt.Errorf("pipeline: python backend needs a runner")
		}
		return NewPython(d.Runner, d.PythonPath, d.Tokens, d.Log), nil
	case BackendAPI:
		return NewAPI(d.APIEndpoint, d.Tokens, d.APITimeout), nil
	case BackendLlama:
		if !llamaBuilt {
			d.Log.Warn().Msg("llama backend selected but binary built without -tags=llama")
		}
		return NewLlama(d.Llama), nil
	default:
		return nil, fmt.Errorf("pipeline: unknown backend %q", name)
	}
}
