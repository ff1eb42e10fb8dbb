package pipeline

import "strings"

// LlamaOptions configures the in-process llama.cpp backend.
type LlamaOptions struct {
	CtxSize   int
	Threads   int
	MaxTokens int
	// Models maps a model id (e.g. mistralai/Mistral-7B-Instruct-v0.3) to a
	// local GGUF file. Unmapped ids are treated as file paths.
	Models map[string]string
}

func (o LlamaOptions) modelPath(model string) string {
	if p, ok := o.Models[model]; ok && strings.TrimSpace(p) != "" {
		return p
	}
	return model
}
