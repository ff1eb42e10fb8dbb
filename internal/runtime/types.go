package runtime

import "mlactions/internal/action"

// State represents the lifecycle state of a hosted action.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateSettingUp     State = "setting_up"
	StateReady         State = "ready"
	StateFailed        State = "failed"
)

// Activation kinds.
const (
	KindSetup = "setup"
	KindRun   = "run"
)

// entry is a registered action and its state. Guarded by Host.mu.
type entry struct {
	act   action.Action
	state State
	err   string
}

// SetupResult describes a finished setup.
type SetupResult struct {
	Action       string
	State        State
	Status       []string
	ActivationID string
	Err          error
}
