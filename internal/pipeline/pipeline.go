// Package pipeline wraps pretrained model pipelines behind a single
// call-style interface. Model loading and inference stay with the backend:
// a python subprocess running transformers, the hosted Inference API, or
// (built with -tags=llama) an in-process llama.cpp model.
package pipeline

import (
	"context"
	"fmt"
	"strings"
)

// Supported tasks.
const (
	TaskTextGeneration    = "text-generation"
	TaskSentimentAnalysis = "sentiment-analysis"
)

// DefaultSentimentModel is the checkpoint transformers picks for
// sentiment-analysis when no model is given.
const DefaultSentimentModel = "distilbert/distilbert-base-uncased-finetuned-sst-2-english"

// Spec selects a pipeline.
type Spec struct {
	Task  string
	Model string
}

func (s Spec) String() string {
	if s.Model == "" {
		return s.Task
	}
	return s.Task + ":" + s.Model
}

// Pipeline runs inference on a single input and returns the backend's raw
// output (for classification, a list of {label, score} objects).
type Pipeline interface {
	Run(ctx context.Context, input string) (any, error)
}

// Factory constructs pipelines. Construction loads the model, so errors
// such as a failed download surface here rather than at first Run.
type Factory interface {
	New(ctx context.Context, spec Spec) (Pipeline, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(ctx context.Context, spec Spec) (Pipeline, error)

func (f FactoryFunc) New(ctx context.Context, spec Spec) (Pipeline, error) { return f(ctx, spec) }

// ByTask routes construction to a per-task factory, falling back to Default.
type ByTask struct {
	Default Factory
	Tasks   map[string]Factory
}

func (b ByTask) New(ctx context.Context, spec Spec) (Pipeline, error) {
	if f, ok := b.Tasks[spec.Task]; ok && f != nil {
		return f.New(ctx, spec)
	}
	if b.Default == nil {
		return nil, ErrDependencyUnavailable("no pipeline backend for " + spec.Task)
	}
	return b.Default.New(ctx, spec)
}

// normalize validates the task and fills the default model.
func normalize(spec Spec) (Spec, error) {
	spec.Task = strings.TrimSpace(spec.Task)
	spec.Model = strings.TrimSpace(spec.Model)
	switch spec.Task {
	case TaskSentimentAnalysis:
		if spec.Model == "" {
			spec.Model = DefaultSentimentModel
		}
	case TaskTextGeneration:
		if spec.Model == "" {
			return spec, fmt.Errorf("pipeline: %s requires a model", spec.Task)
		}
	default:
		return spec, unsupportedTaskError{task: spec.Task}
	}
	return spec, nil
}
