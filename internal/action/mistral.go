package action

import (
	"context"
	"fmt"
	"sync"

	"mlactions/internal/pipeline"
	"mlactions/internal/status"
	"mlactions/pkg/types"
)

// MistralModel is the checkpoint warmed by the mistral action.
const MistralModel = "mistralai/Mistral-7B-Instruct-v0.3"

// MistralPackages are installed, in order, by Mistral.Setup.
var MistralPackages = []string{"huggingface_hub", "accelerate", "protobuf", "sentencepiece", "mistral_inference"}

const msgDownloadingMistral = "downloading mistral model - it is 14GB be patient!"

// Mistral authenticates against the hub and warms a text-generation
// pipeline. Main echoes the hub identity, or generates text when given input.
type Mistral struct {
	deps  Deps
	model string

	mu  sync.Mutex
	gen pipeline.Pipeline
}

// NewMistral constructs the action. An empty model selects MistralModel.
func NewMistral(deps Deps, model string) *Mistral {
	if trimmed(model) == "" {
		model = MistralModel
	}
	return &Mistral{deps: deps, model: model}
}

func (m *Mistral) Name() string { return "mistral" }

func (m *Mistral) Setup(ctx context.Context, args Args, st *status.Log) error {
	if err := installAll(ctx, m.deps.Installer, MistralPackages, st); err != nil {
		return err
	}
	if !Login(ctx, m.deps.Hub, args, st, m.deps.Log).OK() {
		return nil
	}
	st.Write(msgDownloadingMistral)
	p, err := m.deps.Pipelines.New(ctx, pipeline.Spec{Task: pipeline.TaskTextGeneration, Model: m.model})
	if err != nil {
		return fmt.Errorf("load %s: %w", m.model, err)
	}
	m.mu.Lock()
	m.gen = p
	m.mu.Unlock()
	return nil
}

func (m *Mistral) Main(ctx context.Context, args Args) (types.Response, error) {
	if resp, ok, err := statusQuery(args); ok {
		return resp, err
	}
	if input := args.String(ArgInput); input != "" {
		p, err := m.generator(ctx)
		if err != nil {
			return types.Response{}, err
		}
		out, err := p.Run(ctx, input)
		if err != nil {
			return types.Response{}, err
		}
		return types.Response{Body: out}, nil
	}
	id, err := m.deps.Hub.WhoAmI(ctx)
	if err != nil {
		return types.Response{}, err
	}
	return types.Response{Body: id.Body()}, nil
}

// generator returns the pipeline warmed by Setup, loading it on first use
// when setup ran in another process.
func (m *Mistral) generator(ctx context.Context) (pipeline.Pipeline, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != nil {
		return m.gen, nil
	}
	p, err := m.deps.Pipelines.New(ctx, pipeline.Spec{Task: pipeline.TaskTextGeneration, Model: m.model})
	if err != nil {
		return nil, err
	}
	m.gen = p
	return p, nil
}
