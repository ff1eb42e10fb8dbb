//go:build !llama

package pipeline

import (
	"context"
	"testing"
)

func TestLlamaStub_Unavailable(t *testing.T) {
	l := NewLlama(LlamaOptions{Models: map[string]string{"m": "/tmp/m.gguf"}})
	_, err := l.New(context.Background(), Spec{Task: TaskTextGeneration, Model: "m"})
	if !IsDependencyUnavailable(err) { t.Fatalf("expected dependency unavailable, got %v", err) }
	if got := l.opts.modelPath("m"); got != "/tmp/m.gguf" { t.Fatalf("modelPath=%q", got) }
	if got := l.opts.modelPath("/x.gguf"); got != "/x.gguf" { t.Fatalf("modelPath=%q", got) }
}
