package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mlactions/internal/action"
	"mlactions/internal/runtime"
	"mlactions/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	List() []types.ActionInfo
	Setup(ctx context.Context, name string, args action.Args) (runtime.SetupResult, error)
	Run(ctx context.Context, name string, args action.Args) (types.Response, string, error)
	StatusQuery(ctx context.Context, name string) (types.Response, error)
	Activation(id string) (types.Activation, error)
	DefaultAction() string
	Ready() bool
}

// activationHeader carries the activation id of a run.
const activationHeader = "X-Activation-Id"

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		origins, methods, headers := corsDefaults()
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: methods,
			AllowedHeaders: headers,
			ExposedHeaders: []string{activationHeader},
			MaxAge:         300,
		}))
	}

	r.Get("/actions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.ActionsResponse{Actions: svc.List()})
	})

	r.Route("/actions/{name}", func(r chi.Router) {
		r.Post("/setup", func(w http.ResponseWriter, r *http.Request) {
			name := chi.URLParam(r, "name")
			var req types.SetupRequest
			if !decodeBody(w, r, &req) {
				return
			}
			setup(w, r, svc, name, action.Args(req.Args))
		})

		r.Post("/run", func(w http.ResponseWriter, r *http.Request) {
			name := chi.URLParam(r, "name")
			var args map[string]any
			if !decodeBody(w, r, &args) {
				return
			}
			resp, id, status, err := run(r, svc, name, action.Args(args))
			if r.Context().Err() != nil {
				// client went away
				return
			}
			if id != "" {
				w.Header().Set(activationHeader, id)
			}
			if err != nil {
				writeJSONError(w, status, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, resp)
		})

		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			name := chi.URLParam(r, "name")
			resp, err := svc.StatusQuery(r.Context(), name)
			if err != nil {
				writeJSONError(w, statusFor(err), err.Error())
				return
			}
			writeJSON(w, http.StatusOK, resp)
		})
	})

	r.Get("/activations/{id}", func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Activation(chi.URLParam(r, "id"))
		if err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, a)
	})

	mountActionProxy(r, svc)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("setting up"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)

	return r
}

// setup runs the setup stage and writes its result. A failed setup still
// returns the status lines written before the failure.
func setup(w http.ResponseWriter, r *http.Request, svc Service, name string, args action.Args) {
	rl := newReqLog(r, name, "setup")
	// Setup is not tied to the client connection; only shutdown cancels it.
	ctx, cancel := setupContext(r.Context())
	defer cancel()
	res, err := svc.Setup(ctx, name, args)
	rl.lines(res.Status)
	if err != nil && !runtime.IsSetupFailed(err) {
		status := statusFor(err)
		if runtime.IsAlreadyInitialized(err) {
			IncrementRejected("already_initialized")
		}
		rl.end("setup", status, err)
		writeJSONError(w, status, err.Error())
		return
	}
	out := types.SetupResponse{
		Action:       res.Action,
		State:        string(res.State),
		Status:       res.Status,
		ActivationID: res.ActivationID,
	}
	if out.Status == nil {
		out.Status = []string{}
	}
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		out.Error = err.Error()
	}
	rl.end("setup", status, err)
	writeJSON(w, status, out)
}

// run invokes the action and maps its error to a status code.
func run(r *http.Request, svc Service, name string, args action.Args) (types.Response, string, int, error) {
	rl := newReqLog(r, name, "run")
	ctx, cancel := handlerContext(r.Context(), runTimeout)
	defer cancel()
	resp, id, err := svc.Run(ctx, name, args)
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
	}
	rl.end("run", status, err)
	return resp, id, status, err
}

// decodeBody decodes an optional JSON body into v. It writes the error
// response and returns false when the body is unacceptable.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	// Content-Type check
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		IncrementRejected("content_type")
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	// Limit body size (configurable, default 1MiB)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// If exceeded size, MaxBytesReader may cause an error; still return 400 to avoid size leak details
		IncrementRejected("invalid_body")
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
