package runtime

import (
	"context"
	"errors"
	"sync/atomic"

	"mlactions/internal/action"
	"mlactions/internal/status"
	"mlactions/pkg/types"
)

// fakeAction writes lines during setup and echoes args from Main.
type fakeAction struct {
	name     string
	lines    []string
	setupErr error
	mainErr  error
	panicMsg string
	setups   atomic.Int32
}

func (f *fakeAction) Name() string { return f.name }

func (f *fakeAction) Setup(ctx context.Context, args action.Args, st *status.Log) error {
	f.setups.Add(1)
	for _, l := range f.lines {
		st.Write(l)
	}
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.setupErr
}

func (f *fakeAction) Main(ctx context.Context, args action.Args) (types.Response, error) {
	if f.mainErr != nil {
		return types.Response{}, f.mainErr
	}
	if v, ok := args[action.ArgSetupStatus]; ok {
		lines, _ := status.FromArgs(v)
		return types.Response{Body: status.Join(lines)}, nil
	}
	return types.Response{Body: args.String(action.ArgInput)}, nil
}

var errBoom = errors.New("boom")

// failingStore errors on every call.
type failingStore struct{}

func (failingStore) Save(context.Context, string, []string) error { return errBoom }

func (failingStore) Load(context.Context, string) ([]string, bool, error) {
	return nil, false, errBoom
}
