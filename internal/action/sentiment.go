package action

import (
	"context"

	"mlactions/internal/pipeline"
	"mlactions/internal/status"
	"mlactions/pkg/types"
)

// SentimentPackages are installed, in order, by Sentiment.Setup.
var SentimentPackages = []string{"torch", "transformers"}

const (
	msgLoadingTransformers = "loading transformers"
	msgNeedInput           = "please provide some input"
)

// Sentiment classifies the input text with a sentiment-analysis pipeline.
type Sentiment struct {
	deps  Deps
	model string
}

// NewSentiment constructs the action. An empty model leaves the choice to
// the pipeline backend's default.
func NewSentiment(deps Deps, model string) *Sentiment {
	return &Sentiment{deps: deps, model: trimmed(model)}
}

func (s *Sentiment) Name() string { return "sentiment" }

func (s *Sentiment) spec() pipeline.Spec {
	return pipeline.Spec{Task: pipeline.TaskSentimentAnalysis, Model: s.model}
}

// Setup installs the packages and constructs the pipeline once so download
// and load errors surface here instead of on the first request.
func (s *Sentiment) Setup(ctx context.Context, args Args, st *status.Log) error {
	if err := installAll(ctx, s.deps.Installer, SentimentPackages, st); err != nil {
		return err
	}
	st.Write(msgLoadingTransformers)
	_, err := s.deps.Pipelines.New(ctx, s.spec())
	return err
}

// Main builds the pipeline per call and returns its raw output.
func (s *Sentiment) Main(ctx context.Context, args Args) (types.Response, error) {
	if resp, ok, err := statusQuery(args); ok {
		return resp, err
	}
	input := args.String(ArgInput)
	if input == "" {
		return types.Response{Body: msgNeedInput}, nil
	}
	p, err := s.deps.Pipelines.New(ctx, s.spec())
	if err != nil {
		return types.Response{}, err
	}
	out, err := p.Run(ctx, input)
	if err != nil {
		return types.Response{}, err
	}
	return types.Response{Body: out}, nil
}
