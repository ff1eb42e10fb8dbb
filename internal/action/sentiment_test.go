package action

import (
	"context"
	"errors"
	"testing"

	"mlactions/internal/pipeline"
	"mlactions/internal/status"
)

func TestSentimentSetup(t *testing.T) {
	f := &fakeFactory{pl: &fakePipeline{}}
	deps, inst := newDeps(&fakeHub{}, f)
	st := status.New()
	if err := NewSentiment(deps, "").Setup(context.Background(), Args{}, st); err != nil { t.Fatalf("setup: %v", err) }
	if got := st.Join(); got != "installing torch\ninstalling transformers\nloading transformers" { t.Fatalf("status=%q", got) }
	if len(inst.installed) != 2 { t.Fatalf("installed=%v", inst.installed) }
	if len(f.specs) != 1 || f.specs[0].Task != pipeline.TaskSentimentAnalysis { t.Fatalf("specs=%+v", f.specs) }
}

func TestSentimentSetup_LoadFailurePropagates(t *testing.T) {
	f := &fakeFactory{err: errors.New("no weights")}
	deps, _ := newDeps(&fakeHub{}, f)
	if err := NewSentiment(deps, "").Setup(context.Background(), Args{}, status.New()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSentimentMain_StatusQuery(t *testing.T) {
	deps, _ := newDeps(&fakeHub{}, &fakeFactory{})
	resp, err := NewSentiment(deps, "").Main(context.Background(), Args{ArgSetupStatus: []string{"a", "b"}})
	if err != nil { t.Fatalf("main: %v", err) }
	if resp.Body != "a\nb" { t.Fatalf("body=%v", resp.Body) }
}

func TestSentimentMain_EmptyInput(t *testing.T) {
	f := &fakeFactory{pl: &fakePipeline{}}
	deps, _ := newDeps(&fakeHub{}, f)
	resp, err := NewSentiment(deps, "").Main(context.Background(), Args{})
	if err != nil { t.Fatalf("main: %v", err) }
	if resp.Body != "please provide some input" { t.Fatalf("body=%v", resp.Body) }
	if len(f.specs) != 0 { t.Fatalf("pipeline must not be invoked") }
}

func TestSentimentMain_ReturnsRawOutput(t *testing.T) {
	raw := []any{map[string]any{"label": "POSITIVE", "score": 0.99}}
	pl := &fakePipeline{out: raw}
	f := &fakeFactory{pl: pl}
	deps, _ := newDeps(&fakeHub{}, f)
	s := NewSentiment(deps, "")
	for i := 0; i < 2; i++ {
		resp, err := s.Main(context.Background(), Args{ArgInput: "great"})
		if err != nil { t.Fatalf("main: %v", err) }
		got, ok := resp.Body.([]any)
		if !ok || len(got) != 1 || got[0].(map[string]any)["label"] != "POSITIVE" { t.Fatalf("body=%#v", resp.Body) }
	}
	if len(f.specs) != 2 { t.Fatalf("pipeline should be built per call, got %d", len(f.specs)) }
}

func TestSentimentMain_PipelineError(t *testing.T) {
	f := &fakeFactory{pl: &fakePipeline{err: errors.New("oom")}}
	deps, _ := newDeps(&fakeHub{}, f)
	if _, err := NewSentiment(deps, "").Main(context.Background(), Args{ArgInput: "x"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestArgsString(t *testing.T) {
	a := Args{"s": "v", "n": 3, "nil": nil}
	if a.String("s") != "v" || a.String("n") != "3" || a.String("nil") != "" || a.String("missing") != "" {
		t.Fatalf("unexpected conversions")
	}
	if !a.Has("nil") || a.Has("missing") { t.Fatalf("Has mismatch") }
}
