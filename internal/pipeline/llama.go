//go:build llama

package pipeline

import (
	"context"
	"errors"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"

	"mlactions/internal/common/fsutil"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// Llama runs text generation in-process on a GGUF model.
type Llama struct {
	opts LlamaOptions
}

// NewLlama constructs the llama.cpp backend.
func NewLlama(opts LlamaOptions) *Llama { return &Llama{opts: opts} }

func (l *Llama) New(ctx context.Context, spec Spec) (Pipeline, error) {
	spec, err := normalize(spec)
	if err != nil {
		return nil, err
	}
	if spec.Task != TaskTextGeneration {
		return nil, unsupportedTaskError{task: spec.Task}
	}
	path, err := fsutil.ExpandHome(l.opts.modelPath(spec.Model))
	if err != nil {
		return nil, err
	}
	if !fsutil.PathExists(path) {
		return nil, ErrDependencyUnavailable("gguf model not found: " + path)
	}
	m, err := llama.New(path, llama.SetContext(zn(l.opts.CtxSize, 2048)))
	if err != nil {
		return nil, err
	}
	return &llamaPipeline{model: m, opts: l.opts}, nil
}

// llamaPipeline owns the loaded model; llama.cpp contexts are not safe for
// concurrent prediction.
type llamaPipeline struct {
	mu    sync.Mutex
	model *llama.LLama
	opts  LlamaOptions
}

func (p *llamaPipeline) Run(ctx context.Context, input string) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.model == nil {
		return nil, errors.New("llama model not initialized")
	}
	p.model.SetTokenCallback(func(string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	})
	text, err := p.model.Predict(input,
		llama.SetTokens(zn(p.opts.MaxTokens, 256)),
		llama.SetThreads(zn(p.opts.Threads, 4)),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	// Same shape as a transformers text-generation pipeline.
	return []map[string]any{{"generated_text": text}}, nil
}

// Close frees the model.
func (p *llamaPipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.model != nil {
		p.model.Free()
		p.model = nil
	}
	return nil
}

func zn(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
