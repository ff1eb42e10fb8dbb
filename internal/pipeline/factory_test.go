package pipeline

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"mlactions/internal/runner"
)

func TestNewFactory_Backends(t *testing.T) {
	d := Deps{Runner: &scriptedRunner{reply: func(pythonRequest) (runner.Result, error) { return runner.Result{}, nil }}, Log: zerolog.Nop()}
	if f, err := NewFactory("", "", d); err != nil { t.Fatalf("default: %v", err) } else if _, ok := f.(*Python); !ok { t.Fatalf("default=%T", f) }
	if f, err := NewFactory("api", "", d); err != nil { t.Fatalf("api: %v", err) } else if _, ok := f.(*API); !ok { t.Fatalf("api=%T", f) }
	if _, err := NewFactory("onnx", "", d); err == nil { t.Fatalf("expected unknown backend error") }
	if _, err := NewFactory("python", "", Deps{}); err == nil { t.Fatalf("python without runner must fail") }
}

func TestNewFactory_GenerationOverride(t *testing.T) {
	d := Deps{Runner: &scriptedRunner{reply: func(pythonRequest) (runner.Result, error) { return runner.Result{}, nil }}, Log: zerolog.Nop()}
	f, err := NewFactory("python", "api", d)
	if err != nil { t.Fatalf("factory: %v", err) }
	bt, ok := f.(ByTask)
	if !ok { t.Fatalf("want ByTask, got %T", f) }
	if _, ok := bt.Tasks[TaskTextGeneration].(*API); !ok { t.Fatalf("generation backend=%T", bt.Tasks[TaskTextGeneration]) }
}

func TestByTask_Routes(t *testing.T) {
	var used string
	mk := func(name string) Factory {
		return FactoryFunc(func(ctx context.Context, spec Spec) (Pipeline, error) { used = name; return nil, nil })
	}
	bt := ByTask{Default: mk("default"), Tasks: map[string]Factory{TaskTextGeneration: mk("gen")}}
	_, _ = bt.New(context.Background(), Spec{Task: TaskTextGeneration})
	if used != "gen" { t.Fatalf("used=%s", used) }
	_, _ = bt.New(context.Background(), Spec{Task: TaskSentimentAnalysis})
	if used != "default" { t.Fatalf("used=%s", used) }
	if _, err := (ByTask{}).New(context.Background(), Spec{Task: TaskSentimentAnalysis}); !IsDependencyUnavailable(err) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
}
