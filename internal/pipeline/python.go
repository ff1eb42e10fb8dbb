package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"mlactions/internal/hub"
	"mlactions/internal/runner"
)

// pythonScript builds a transformers pipeline for argv[1]/argv[2] and, unless
// asked only to warm up, prints the JSON result of calling it on the input
// read from stdin.
const pythonScript = `import json, sys
from transformers import pipeline
task, model = sys.argv[1], sys.argv[2]
p = pipeline(task, model=model) if model else pipeline(task)
req = json.load(sys.stdin)
if req.get("warmup"):
    print("null")
else:
    print(json.dumps(p(req["input"]), default=str))
`

// tokenEnv is read by huggingface_hub in the interpreter, which may run on
// a remote host that never saw the local token file.
const tokenEnv = "HF_TOKEN"

// Python runs transformers pipelines in a python interpreter through a
// runner, so the same backend works locally and on a remote GPU host.
// Every invocation starts a fresh interpreter, so Run loads the model itself;
// New only warms a spec the first time it is seen.
type Python struct {
	Runner     runner.Runner
	PythonPath string
	// Tokens supplies the hub token exported as HF_TOKEN. May be nil.
	Tokens hub.TokenSource
	Log    zerolog.Logger

	mu     sync.Mutex
	warmed map[Spec]bool
}

// NewPython constructs the python backend. An empty path means "python3".
func NewPython(r runner.Runner, pythonPath string, tokens hub.TokenSource, log zerolog.Logger) *Python {
	if strings.TrimSpace(pythonPath) == "" {
		pythonPath = "python3"
	}
	return &Python{Runner: r, PythonPath: pythonPath, Tokens: tokens, Log: log, warmed: make(map[Spec]bool)}
}

type pythonRequest struct {
	Input  string `json:"input"`
	Warmup bool   `json:"warmup,omitempty"`
}

// New returns a pipeline bound to spec. The first New for a spec loads the
// model (warm-up) so download errors surface here; a failed warm-up is
// retried by the next New.
func (p *Python) New(ctx context.Context, spec Spec) (Pipeline, error) {
	spec, err := normalize(spec)
	if err != nil {
		return nil, err
	}
	if err := p.warm(ctx, spec); err != nil {
		return nil, err
	}
	return &pythonPipeline{backend: p, spec: spec}, nil
}

func (p *Python) warm(ctx context.Context, spec Spec) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.warmed[spec] {
		return nil
	}
	if _, err := p.invoke(ctx, spec, pythonRequest{Warmup: true}); err != nil {
		return err
	}
	if p.warmed == nil {
		p.warmed = make(map[Spec]bool)
	}
	p.warmed[spec] = true
	p.Log.Debug().Str("pipeline", spec.String()).Msg("pipeline loaded")
	return nil
}

type pythonPipeline struct {
	backend *Python
	spec    Spec
}

func (pp *pythonPipeline) Run(ctx context.Context, input string) (any, error) {
	out, err := pp.backend.invoke(ctx, pp.spec, pythonRequest{Input: input})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("pipeline %s: empty output", pp.spec)
	}
	return out, nil
}

func (p *Python) invoke(ctx context.Context, spec Spec, req pythonRequest) (any, error) {
	in, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	cmd := runner.Cmd{
		Path:  p.PythonPath,
		Args:  []string{"-c", pythonScript, spec.Task, spec.Model},
		Stdin: string(in),
	}
	if p.Tokens != nil {
		if tok := p.Tokens.Token(); tok != "" {
			cmd.Env = map[string]string{tokenEnv: tok}
		}
	}
	res, err := p.Runner.Run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", spec, err)
	}
	if !res.OK() {
		return nil, fmt.Errorf("pipeline %s: python exited %d: %s", spec, res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return decodeLastJSONLine(res.Stdout)
}

// decodeLastJSONLine parses the last non-empty stdout line. Libraries may
// print banners before the result; those lines are ignored. Empty output
// decodes to nil.
func decodeLastJSONLine(b []byte) (any, error) {
	lines := bytes.Split(bytes.TrimSpace(b), []byte("\n"))
	last := bytes.TrimSpace(lines[len(lines)-1])
	if len(last) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(last, &v); err != nil {
		return nil, errors.Join(errors.New("pipeline: undecodable output"), err)
	}
	return v, nil
}
