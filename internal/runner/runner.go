// Package runner executes external commands for the actions: package
// installers and pipeline backends. Implementations run locally (Local) or on
// a remote GPU host (see internal/remote).
package runner

import (
	"context"
	"strings"
)

// stderrTailBytes bounds how much stderr is retained for diagnostics.
const stderrTailBytes = 4096

// Cmd describes a command to run.
type Cmd struct {
	Path  string
	Args  []string
	Env   map[string]string // additional env vars
	Dir   string            // working directory
	Stdin string
}

// String renders the command line for logs.
func (c Cmd) String() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}

// Result is the outcome of a command that was started.
type Result struct {
	ExitCode int
	Stdout   []byte
	// Stderr holds at most the last 4 KiB of standard error.
	Stderr string
}

// OK reports whether the command exited with status 0.
func (r Result) OK() bool { return r.ExitCode == 0 }

// Runner runs commands. Run returns an error only when the command could not
// be started or ctx ended; a non-zero exit is reported through Result.
type Runner interface {
	Run(ctx context.Context, c Cmd) (Result, error)
}

// tailWriter keeps the last n bytes written to it.
type tailWriter struct {
	n   int
	buf []byte
}

func (w *tailWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	if len(w.buf) > w.n {
		w.buf = w.buf[len(w.buf)-w.n:]
	}
	return len(p), nil
}

func (w *tailWriter) String() string { return string(w.buf) }
