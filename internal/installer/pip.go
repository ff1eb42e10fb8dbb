// Package installer installs the Python packages an action needs at setup
// time by shelling out to pip.
package installer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"mlactions/internal/runner"
)

// Installer installs a single package.
type Installer interface {
	Install(ctx context.Context, pkg string) error
}

// Pip installs packages with `pip install <pkg>`. The exit code of pip is
// logged but not treated as a failure; only a command that cannot be run is.
type Pip struct {
	Runner    runner.Runner
	PipPath   string
	ExtraArgs []string
	Log       zerolog.Logger
}

// NewPip constructs a pip installer. An empty pipPath means "pip".
func NewPip(r runner.Runner, pipPath string, extra []string, log zerolog.Logger) *Pip {
	if strings.TrimSpace(pipPath) == "" {
		pipPath = "pip"
	}
	return &Pip{Runner: r, PipPath: pipPath, ExtraArgs: append([]string(nil), extra...), Log: log}
}

func (p *Pip) Install(ctx context.Context, pkg string) error {
	if strings.TrimSpace(pkg) == "" {
		return fmt.Errorf("install: empty package name")
	}
	args := append([]string{"install"}, p.ExtraArgs...)
	args = append(args, pkg)
	res, err := p.Runner.Run(ctx, runner.Cmd{Path: p.PipPath, Args: args})
	if err != nil {
		return fmt.Errorf("pip install %s: %w", pkg, err)
	}
	if !res.OK() {
		p.Log.Warn().Str("package", pkg).Int("exit", res.ExitCode).Str("stderr", res.Stderr).Msg("pip install exited non-zero")
		return nil
	}
	p.Log.Info().Str("package", pkg).Msg("installed")
	return nil
}
