// Package action implements the ML actions. Each action has a one-time
// Setup stage, which installs packages and warms its model while writing
// progress to a status log, and a per-request Main stage.
package action

import (
	"context"
	"fmt"
	"strings"

	"mlactions/internal/installer"
	"mlactions/internal/status"
	"mlactions/pkg/types"
)

// Argument keys recognized by the actions.
const (
	ArgHFToken     = "hf_token"
	ArgSetupStatus = "setup_status"
	ArgInput       = "input"
)

// Args are the per-invocation arguments.
type Args map[string]any

// String returns the string value for key, or "" when absent.
func (a Args) String(key string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Has reports whether key is present.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Action is a deployable unit with a setup stage and a request stage.
type Action interface {
	Name() string
	Setup(ctx context.Context, args Args, st *status.Log) error
	Main(ctx context.Context, args Args) (types.Response, error)
}

// statusQuery answers the status-query mode shared by all actions: when
// setup_status is present its lines are joined into the body.
func statusQuery(args Args) (types.Response, bool, error) {
	v, ok := args[ArgSetupStatus]
	if !ok {
		return types.Response{}, false, nil
	}
	lines, ok := status.FromArgs(v)
	if !ok {
		return types.Response{}, true, invalidArgError{key: ArgSetupStatus, want: "list of strings"}
	}
	return types.Response{Body: status.Join(lines)}, true, nil
}

// installAll writes "installing <pkg>" before each install, in order.
func installAll(ctx context.Context, inst installer.Installer, pkgs []string, st *status.Log) error {
	for _, p := range pkgs {
		st.Write("installing " + p)
		if err := inst.Install(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func trimmed(s string) string { return strings.TrimSpace(s) }
