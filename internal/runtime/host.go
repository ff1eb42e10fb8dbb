package runtime

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mlactions/internal/action"
	"mlactions/internal/status"
	"mlactions/internal/store"
	"mlactions/pkg/types"
)

// Host owns the registered actions and drives their lifecycle.
type Host struct {
	mu            sync.RWMutex
	entries       map[string]*entry
	order         []string
	defaultAction string

	store       store.StatusStore
	activations *ActivationLog
	publisher   EventPublisher
	log         zerolog.Logger
}

// NewHost constructs a Host, filling unset config fields with defaults.
func NewHost(cfg HostConfig) *Host {
	if cfg.Store == nil {
		cfg.Store = store.NewMemory()
	}
	if cfg.Publisher == nil {
		cfg.Publisher = noopPublisher{}
	}
	acts, err := NewActivationLog(cfg.MaxActivations)
	if err != nil {
		// only fails for non-positive sizes, which NewActivationLog replaces
		acts, _ = NewActivationLog(defaultMaxActivations)
	}
	return &Host{
		entries:       make(map[string]*entry),
		defaultAction: cfg.DefaultAction,
		store:         cfg.Store,
		activations:   acts,
		publisher:     cfg.Publisher,
		log:           cfg.Log,
	}
}

// SetEventPublisher swaps the event publisher. Nil restores the no-op publisher.
func (h *Host) SetEventPublisher(p EventPublisher) {
	if p == nil {
		p = noopPublisher{}
	}
	h.mu.Lock()
	h.publisher = p
	h.mu.Unlock()
}

func (h *Host) publish(e Event) {
	h.mu.RLock()
	p := h.publisher
	h.mu.RUnlock()
	p.Publish(e)
}

// Register adds an action. Names must be unique and non-empty.
func (h *Host) Register(a action.Action) error {
	name := a.Name()
	if name == "" {
		return errors.New("action name must not be empty")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, dup := h.entries[name]; dup {
		return errors.New("action already registered: " + name)
	}
	h.entries[name] = &entry{act: a, state: StateUninitialized}
	h.order = append(h.order, name)
	actionsReady.WithLabelValues(name).Set(0)
	return nil
}

// DefaultAction returns the configured default action, or the only
// registered one when no default was configured.
func (h *Host) DefaultAction() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.defaultAction != "" {
		return h.defaultAction
	}
	if len(h.order) == 1 {
		return h.order[0]
	}
	return ""
}

func (h *Host) lookup(name string) (*entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.entries[name]
	if !ok {
		return nil, ErrActionNotFound(name)
	}
	return e, nil
}

// Setup runs the named action's setup stage. It succeeds at most once per
// action; later calls return an already-initialized error. The status lines
// written so far are returned and persisted even when setup fails.
func (h *Host) Setup(ctx context.Context, name string, args action.Args) (SetupResult, error) {
	res := SetupResult{Action: name}
	h.mu.Lock()
	e, ok := h.entries[name]
	if !ok {
		h.mu.Unlock()
		return res, ErrActionNotFound(name)
	}
	if e.state != StateUninitialized {
		res.State = e.state
		h.mu.Unlock()
		return res, alreadyInitializedError{name: name}
	}
	e.state = StateSettingUp
	h.mu.Unlock()

	h.publish(Event{Name: "setup_start", Action: name})
	h.log.Info().Str("action", name).Msg("setup starting")

	start := time.Now()
	st := status.New()
	err := h.runSetup(ctx, e.act, args, st)
	res.Status = st.Lines()

	// persist even when ctx was canceled mid-setup
	if serr := h.store.Save(context.WithoutCancel(ctx), name, res.Status); serr != nil {
		h.log.Error().Err(serr).Str("action", name).Msg("saving setup status failed")
	}

	act := types.Activation{
		Action:     name,
		Kind:       KindSetup,
		Start:      start.UnixMilli(),
		DurationMS: time.Since(start).Milliseconds(),
		Status:     res.Status,
	}
	h.mu.Lock()
	if err != nil {
		e.state = StateFailed
		e.err = err.Error()
		act.Error = e.err
	} else {
		e.state = StateReady
	}
	res.State = e.state
	h.mu.Unlock()

	res.ActivationID = h.activations.Record(act)
	observe(name, KindSetup, start, err)

	if err != nil {
		res.Err = setupFailedError{name: name, err: err}
		h.log.Error().Err(err).Str("action", name).Int("lines", len(res.Status)).Msg("setup failed")
		h.publish(Event{Name: "setup_failed", Action: name, Fields: map[string]any{
			"activation_id": res.ActivationID, "error": err.Error(),
		}})
		return res, res.Err
	}
	actionsReady.WithLabelValues(name).Set(1)
	h.log.Info().Str("action", name).Dur("took", time.Since(start)).Msg("setup done")
	h.publish(Event{Name: "setup_done", Action: name, Fields: map[string]any{
		"activation_id": res.ActivationID, "duration_ms": act.DurationMS,
	}})
	return res, nil
}

// runSetup calls the action's Setup, turning a panic into an error so the
// action lands in the failed state instead of staying setting_up.
func (h *Host) runSetup(ctx context.Context, a action.Action, args action.Args, st *status.Log) (err error) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Str("action", a.Name()).Interface("panic", r).Bytes("stack", debug.Stack()).Msg("setup panicked")
			err = fmt.Errorf("setup panicked: %v", r)
		}
	}()
	return a.Setup(ctx, args, st)
}

// Run invokes the named action's Main and records the activation.
func (h *Host) Run(ctx context.Context, name string, args action.Args) (types.Response, string, error) {
	e, err := h.lookup(name)
	if err != nil {
		return types.Response{}, "", err
	}
	start := time.Now()
	resp, err := e.act.Main(ctx, args)
	act := types.Activation{
		Action:     name,
		Kind:       KindRun,
		Start:      start.UnixMilli(),
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		act.Error = err.Error()
	} else {
		r := resp
		act.Response = &r
	}
	id := h.activations.Record(act)
	observe(name, KindRun, start, err)
	fields := map[string]any{"activation_id": id, "duration_ms": act.DurationMS}
	if err != nil {
		fields["error"] = err.Error()
		h.log.Warn().Err(err).Str("action", name).Str("activation", id).Msg("run failed")
	}
	h.publish(Event{Name: "run", Action: name, Fields: fields})
	return resp, id, err
}

// StatusQuery replays the stored setup status through the action's Main,
// the way the platform reports setup progress.
func (h *Host) StatusQuery(ctx context.Context, name string) (types.Response, error) {
	e, err := h.lookup(name)
	if err != nil {
		return types.Response{}, err
	}
	lines, ok, err := h.store.Load(ctx, name)
	if err != nil {
		return types.Response{}, err
	}
	if !ok {
		return types.Response{}, noStatusError{name: name}
	}
	return e.act.Main(ctx, action.Args{action.ArgSetupStatus: lines})
}

// Activation returns a recorded activation by id.
func (h *Host) Activation(id string) (types.Activation, error) {
	a, ok := h.activations.Get(id)
	if !ok {
		return types.Activation{}, notFoundError{what: "activation", id: id}
	}
	return a, nil
}
