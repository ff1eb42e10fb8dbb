package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mlactions/internal/action"
	"mlactions/internal/runtime"
	"mlactions/pkg/types"
)

// proxyError is the error payload of the action-proxy routes.
type proxyError struct {
	Error string `json:"error"`
}

const initTwiceMsg = "Cannot initialize the action more than once."

// mountActionProxy registers /init and /run, the action-proxy protocol used
// by OpenWhisk-style platforms. Both target the default action.
func mountActionProxy(r chi.Router, svc Service) {
	r.Post("/init", func(w http.ResponseWriter, r *http.Request) {
		name := svc.DefaultAction()
		if name == "" {
			writeJSON(w, http.StatusNotFound, proxyError{Error: "no default action configured"})
			return
		}
		var req types.InitRequest
		if !decodeBody(w, r, &req) {
			return
		}
		rl := newReqLog(r, name, "init")
		ctx, cancel := setupContext(r.Context())
		defer cancel()
		res, err := svc.Setup(ctx, name, action.Args(req.Value.Env))
		rl.lines(res.Status)
		switch {
		case err == nil:
			rl.end("init", http.StatusOK, nil)
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		case runtime.IsAlreadyInitialized(err):
			IncrementRejected("already_initialized")
			rl.end("init", http.StatusForbidden, err)
			writeJSON(w, http.StatusForbidden, proxyError{Error: initTwiceMsg})
		default:
			status := statusFor(err)
			rl.end("init", status, err)
			writeJSON(w, status, proxyError{Error: err.Error()})
		}
	})

	r.Post("/run", func(w http.ResponseWriter, r *http.Request) {
		name := svc.DefaultAction()
		if name == "" {
			writeJSON(w, http.StatusNotFound, proxyError{Error: "no default action configured"})
			return
		}
		var req types.RunRequest
		if !decodeBody(w, r, &req) {
			return
		}
		resp, id, status, err := run(r, svc, name, action.Args(req.Value))
		if r.Context().Err() != nil {
			return
		}
		if id != "" {
			w.Header().Set(activationHeader, id)
		}
		if err != nil {
			writeJSON(w, status, proxyError{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})
}
