package types

// ActionInfo summarizes a registered action for GET /actions.
type ActionInfo struct {
	// Action name.
	// example: sentiment
	Name string `json:"name" example:"sentiment"`
	// Lifecycle state: uninitialized, setting_up, ready or failed.
	// example: ready
	State string `json:"state" example:"ready"`
	// Setup error, if setup failed.
	SetupError string `json:"setup_error,omitempty"`
}

// ActionsResponse wraps the list returned by GET /actions.
type ActionsResponse struct {
	Actions []ActionInfo `json:"actions"`
}

// SetupRequest is the payload for POST /actions/{name}/setup.
type SetupRequest struct {
	// Arguments passed to the setup stage (e.g. hf_token).
	Args map[string]any `json:"args,omitempty"`
}

// SetupResponse is returned by POST /actions/{name}/setup.
type SetupResponse struct {
	// Action name.
	// example: mistral
	Action string `json:"action" example:"mistral"`
	// State after setup.
	// example: ready
	State string `json:"state" example:"ready"`
	// Status lines written during setup, in order.
	// example: ["installing torch","installing transformers"]
	Status []string `json:"status"`
	// Activation id of the setup invocation.
	ActivationID string `json:"activation_id,omitempty"`
	// Error message if setup failed.
	Error string `json:"error,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// InitRequest is the OpenWhisk action-proxy /init payload.
type InitRequest struct {
	Value InitValue `json:"value"`
}

// InitValue carries the init parameters. Main selects the action; Env is
// passed to setup as its arguments.
type InitValue struct {
	Main string         `json:"main,omitempty"`
	Env  map[string]any `json:"env,omitempty"`
}

// RunRequest is the OpenWhisk action-proxy /run payload.
type RunRequest struct {
	Value map[string]any `json:"value"`
}
