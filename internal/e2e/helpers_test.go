package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"mlactions/internal/action"
	"mlactions/internal/httpapi"
	"mlactions/internal/hub"
	"mlactions/internal/installer"
	"mlactions/internal/pipeline"
	"mlactions/internal/runner"
	"mlactions/internal/runtime"
	"mlactions/internal/store"
)

const goodToken = "hf_good"

// fakeHF serves whoami-v2 and the inference API.
type fakeHF struct {
	mu       sync.Mutex
	inferred []string
}

func (f *fakeHF) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/api/whoami-v2":
		if r.Header.Get("Authorization") != "Bearer "+goodToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"type":"user","name":"alice","fullname":"Alice"}`))
	case strings.HasPrefix(r.URL.Path, "/models/"):
		var req struct {
			Inputs string `json:"inputs"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.inferred = append(f.inferred, r.URL.Path)
		f.mu.Unlock()
		if strings.Contains(r.URL.Path, "distilbert") {
			_, _ = w.Write([]byte(`[{"label":"POSITIVE","score":0.99}]`))
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]string{{"generated_text": req.Inputs + " ..."}})
	default:
		http.NotFound(w, r)
	}
}

// stack is a full server: real pip installer over the local runner, the
// HTTP hub client and the hosted pipeline backend, all against fakeHF.
type stack struct {
	srv       *httptest.Server
	host      *runtime.Host
	hf        *fakeHF
	tokenPath string
}

func newStack(t *testing.T) *stack {
	t.Helper()
	truePath, err := exec.LookPath("true")
	if err != nil {
		t.Skip("no 'true' binary on PATH")
	}
	hf := &fakeHF{}
	hfSrv := httptest.NewServer(hf)
	t.Cleanup(hfSrv.Close)

	log := zerolog.Nop()
	tokenPath := filepath.Join(t.TempDir(), "hf", "token")
	session := hub.NewClient(hub.Options{Endpoint: hfSrv.URL, TokenPath: tokenPath, Log: log})
	pipes, err := pipeline.NewFactory(pipeline.BackendAPI, "", pipeline.Deps{APIEndpoint: hfSrv.URL, Tokens: session, Log: log})
	if err != nil {
		t.Fatalf("NewFactory: %v", err)
	}
	deps := action.Deps{
		Installer: installer.NewPip(runner.NewLocal(log), truePath, nil, log),
		Hub:       session,
		Pipelines: pipes,
		Log:       log,
	}
	host := runtime.NewHost(runtime.HostConfig{Store: store.NewMemory(), Log: log, DefaultAction: "sentiment"})
	for _, a := range []action.Action{action.NewMistral(deps, ""), action.NewSentiment(deps, "")} {
		if err := host.Register(a); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}
	srv := httptest.NewServer(httpapi.NewMux(host))
	t.Cleanup(srv.Close)
	return &stack{srv: srv, host: host, hf: hf, tokenPath: tokenPath}
}

func (s *stack) post(t *testing.T, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(s.srv.URL+path, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

func (s *stack) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(s.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}
