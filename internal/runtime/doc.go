// Package runtime hosts actions on behalf of the platform. It is structured
// into small files by concern:
//
//   - host.go: Host type, registration, Setup/Run/StatusQuery entry points.
//   - config.go: HostConfig and package defaults.
//   - types.go: action lifecycle states.
//   - errors.go: error types and helpers (IsNotFound, IsAlreadyInitialized).
//   - activation.go: bounded log of recent activations (LRU, nanoid ids).
//   - events.go, eventpub_memory.go: lifecycle events and a test publisher.
//   - metrics.go: Prometheus instrumentation of setup and run.
//   - status_report.go: List/Ready views for the HTTP layer.
//
// Setup runs at most once per action. Status lines written during setup are
// persisted through a store.StatusStore so they can be replayed later.
package runtime
