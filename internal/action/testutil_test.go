package action

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"mlactions/internal/hub"
	"mlactions/internal/pipeline"
)

type fakeInstaller struct {
	installed []string
	failOn    string
}

func (f *fakeInstaller) Install(ctx context.Context, pkg string) error {
	if pkg == f.failOn {
		return errors.New("install failed: " + pkg)
	}
	f.installed = append(f.installed, pkg)
	return nil
}

// fakeHub accepts validToken; loggedIn starts the session authenticated.
type fakeHub struct {
	loggedIn    bool
	validToken  string
	loginCalls  int
	whoamiCalls int
}

func (f *fakeHub) WhoAmI(ctx context.Context) (hub.Identity, error) {
	f.whoamiCalls++
	if !f.loggedIn {
		return hub.Identity{}, hub.ErrNoToken
	}
	return hub.Identity{Type: "user", Name: "alice"}, nil
}

func (f *fakeHub) Login(ctx context.Context, token string) error {
	f.loginCalls++
	if token == "" {
		return hub.ErrNoToken
	}
	if token != f.validToken {
		return errors.New("invalid token")
	}
	f.loggedIn = true
	return nil
}

type fakePipeline struct {
	out    any
	err    error
	inputs []string
}

func (p *fakePipeline) Run(ctx context.Context, input string) (any, error) {
	p.inputs = append(p.inputs, input)
	return p.out, p.err
}

type fakeFactory struct {
	specs []pipeline.Spec
	pl    *fakePipeline
	err   error
}

func (f *fakeFactory) New(ctx context.Context, spec pipeline.Spec) (pipeline.Pipeline, error) {
	f.specs = append(f.specs, spec)
	if f.err != nil {
		return nil, f.err
	}
	return f.pl, nil
}

func newDeps(h *fakeHub, f *fakeFactory) (Deps, *fakeInstaller) {
	inst := &fakeInstaller{}
	return Deps{Installer: inst, Hub: h, Pipelines: f, Log: zerolog.Nop()}, inst
}
