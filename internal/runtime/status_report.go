package runtime

import "mlactions/pkg/types"

// List returns the registered actions in registration order.
func (h *Host) List() []types.ActionInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]types.ActionInfo, 0, len(h.order))
	for _, name := range h.order {
		e := h.entries[name]
		out = append(out, types.ActionInfo{Name: name, State: string(e.state), SetupError: e.err})
	}
	return out
}

// State returns the lifecycle state of the named action.
func (h *Host) State(name string) (State, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.entries[name]
	if !ok {
		return "", ErrActionNotFound(name)
	}
	return e.state, nil
}

// Ready reports whether at least one action is registered and every
// registered action finished setup successfully.
func (h *Host) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.order) == 0 {
		return false
	}
	for _, e := range h.entries {
		if e.state != StateReady {
			return false
		}
	}
	return true
}
