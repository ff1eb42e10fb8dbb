package types

// Response is what an action returns from Main. Body is either a string
// (joined status log, user-facing message) or whatever the pipeline produced.
type Response struct {
	// Response body.
	// example: a\nb
	Body any `json:"body"`
}

// Activation records a single setup or run invocation of an action.
type Activation struct {
	// Unique activation id.
	// example: 3k9x0q2m7v1c8z5d
	ID string `json:"activation_id" example:"3k9x0q2m7v1c8z5d"`
	// Action name.
	// example: sentiment
	Action string `json:"action" example:"sentiment"`
	// Invocation kind: setup or run.
	// example: run
	Kind string `json:"kind" example:"run"`
	// Start time (unix milliseconds).
	// example: 1700000000000
	Start int64 `json:"start_unix_ms" example:"1700000000000"`
	// Wall-clock duration in milliseconds.
	// example: 42
	DurationMS int64 `json:"duration_ms" example:"42"`
	// Response produced by a successful run.
	Response *Response `json:"response,omitempty"`
	// Status lines written by a setup.
	Status []string `json:"status,omitempty"`
	// Error message when the invocation failed.
	Error string `json:"error,omitempty"`
}
