//go:build !llama

package pipeline

import "context"

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = false

// Llama is a stub that refuses to load models without the 'llama' build tag,
// keeping default builds CGO-free.
type Llama struct {
	opts LlamaOptions
}

// NewLlama constructs the llama.cpp backend stub.
func NewLlama(opts LlamaOptions) *Llama { return &Llama{opts: opts} }

func (l *Llama) New(ctx context.Context, spec Spec) (Pipeline, error) {
	return nil, ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}
