package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Local runs commands as child processes of this one.
type Local struct {
	Log zerolog.Logger
}

// NewLocal returns a Local runner logging to log.
func NewLocal(log zerolog.Logger) *Local { return &Local{Log: log} }

func (l *Local) Run(ctx context.Context, c Cmd) (Result, error) {
	if strings.TrimSpace(c.Path) == "" {
		return Result{}, errors.New("runner: empty command path")
	}
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	// inherit environment
	cmd.Env = os.Environ()
	for k, v := range c.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	if c.Stdin != "" {
		cmd.Stdin = strings.NewReader(c.Stdin)
	}
	var stdout bytes.Buffer
	stderr := &tailWriter{n: stderrTailBytes}
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("start %s: %w", c.Path, err)
	}
	l.Log.Debug().Str("cmd", c.String()).Int("pid", cmd.Process.Pid).Msg("runner start")
	werr := cmd.Wait()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.String()}
	if werr != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		var ee *exec.ExitError
		if !errors.As(werr, &ee) {
			return res, fmt.Errorf("wait %s: %w", c.Path, werr)
		}
		res.ExitCode = ee.ExitCode()
	}
	l.Log.Debug().Str("cmd", c.Path).Int("exit", res.ExitCode).Dur("dur", time.Since(start)).Msg("runner exit")
	return res, nil
}
