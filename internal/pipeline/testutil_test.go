package pipeline

import (
	"context"
	"encoding/json"

	"mlactions/internal/runner"
)

// scriptedRunner answers python invocations from a function of the decoded
// stdin request.
type scriptedRunner struct {
	calls []runner.Cmd
	reply func(req pythonRequest) (runner.Result, error)
}

func (s *scriptedRunner) Run(ctx context.Context, c runner.Cmd) (runner.Result, error) {
	s.calls = append(s.calls, c)
	var req pythonRequest
	_ = json.Unmarshal([]byte(c.Stdin), &req)
	return s.reply(req)
}

type staticTokens string

func (s staticTokens) Token() string { return string(s) }
