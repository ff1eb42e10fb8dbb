package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"mlactions/internal/action"
	"mlactions/internal/common/fsutil"
	"mlactions/internal/config"
	"mlactions/internal/hub"
	"mlactions/internal/installer"
	"mlactions/internal/pipeline"
	"mlactions/internal/registry"
	"mlactions/internal/remote"
	"mlactions/internal/runner"
	"mlactions/internal/runtime"
	"mlactions/internal/store"
)

const defaultSSHKeyPath = "~/.ssh/id_ed25519"

// app is the wired object graph.
type app struct {
	host    *runtime.Host
	closers []func() error
}

// Close releases remote connections and stores in reverse order.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// logPublisher forwards host events to the debug log.
type logPublisher struct{ log zerolog.Logger }

func (p logPublisher) Publish(e runtime.Event) {
	p.log.Debug().Str("event", e.Name).Str("action", e.Action).Fields(e.Fields).Msg("host event")
}

// build wires runner, installer, hub session, pipelines, actions and host
// from cfg.
func build(ctx context.Context, cfg config.Config, log zerolog.Logger) (*app, error) {
	a := &app{}
	fail := func(err error) (*app, error) {
		_ = a.Close()
		return nil, err
	}

	run, closeRun, err := buildRunner(ctx, cfg, log)
	if err != nil {
		return fail(err)
	}
	if closeRun != nil {
		a.closers = append(a.closers, closeRun)
	}

	st, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}

	session := hub.NewClient(hub.Options{
		Endpoint:  cfg.Hub.Endpoint,
		Token:     cfg.Hub.Token,
		TokenPath: cfg.Hub.TokenPath,
		Log:       log.With().Str("component", "hub").Logger(),
	})

	models, err := llamaModels(cfg, log)
	if err != nil {
		return fail(err)
	}
	pipes, err := pipeline.NewFactory(cfg.Pipeline.Backend, cfg.Pipeline.Generation, pipeline.Deps{
		Runner:      run,
		PythonPath:  cfg.PythonPath,
		APIEndpoint: cfg.Pipeline.APIEndpoint,
		APITimeout:  time.Duration(cfg.Pipeline.APITimeoutSec) * time.Second,
		Tokens:      session,
		Llama: pipeline.LlamaOptions{
			CtxSize:   cfg.Pipeline.LlamaCtxSize,
			Threads:   cfg.Pipeline.LlamaThreads,
			MaxTokens: cfg.Pipeline.LlamaMaxTokens,
			Models:    models,
		},
		Log: log.With().Str("component", "pipeline").Logger(),
	})
	if err != nil {
		return fail(err)
	}

	deps := action.Deps{
		Installer: installer.NewPip(run, cfg.PipPath, cfg.PipArgs, log.With().Str("component", "pip").Logger()),
		Hub:       session,
		Pipelines: pipes,
		Log:       log,
	}
	acts, err := buildActions(cfg, deps)
	if err != nil {
		return fail(err)
	}

	a.host = runtime.NewHost(runtime.HostConfig{
		Store:          st,
		Publisher:      logPublisher{log: log},
		Log:            log.With().Str("component", "host").Logger(),
		MaxActivations: cfg.MaxActivations,
		DefaultAction:  cfg.DefaultAction,
	})
	for _, act := range acts {
		if err := a.host.Register(act); err != nil {
			return fail(err)
		}
	}
	if cfg.DefaultAction != "" {
		if _, err := a.host.State(cfg.DefaultAction); err != nil {
			return fail(fmt.Errorf("default action: %w", err))
		}
	}
	return a, nil
}

// buildActions constructs the actions named in cfg.Actions, or all of them.
func buildActions(cfg config.Config, deps action.Deps) ([]action.Action, error) {
	names := cfg.Actions
	if len(names) == 0 {
		names = []string{"mistral", "sentiment"}
	}
	out := make([]action.Action, 0, len(names))
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "mistral":
			out = append(out, action.NewMistral(deps, cfg.Pipeline.MistralModel))
		case "sentiment":
			out = append(out, action.NewSentiment(deps, cfg.Pipeline.SentimentModel))
		default:
			return nil, fmt.Errorf("unknown action %q", n)
		}
	}
	return out, nil
}

// buildRunner returns a local runner, or an SSH runner when a remote host
// is configured. The address may come from a Vast.ai instance lookup.
func buildRunner(ctx context.Context, cfg config.Config, log zerolog.Logger) (runner.Runner, func() error, error) {
	if !cfg.Remote.Enabled() {
		return runner.NewLocal(log.With().Str("component", "runner").Logger()), nil, nil
	}
	rc := cfg.Remote
	addr := strings.TrimSpace(rc.SSHAddr)
	if addr == "" {
		v := remote.NewVastAI(rc.VastEndpoint, rc.VastAPIKey, log.With().Str("component", "vastai").Logger())
		a, err := v.SSHAddress(ctx, rc.VastInstanceID)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve vast.ai instance %s: %w", rc.VastInstanceID, err)
		}
		addr = a
	}
	keyPath := rc.SSHKeyPath
	if keyPath == "" {
		keyPath = defaultSSHKeyPath
	}
	keyPath, err := fsutil.ExpandHome(keyPath)
	if err != nil {
		return nil, nil, err
	}
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read ssh key: %w", err)
	}
	r, err := remote.NewSSHRunner(remote.SSHOptions{
		Addr:       addr,
		User:       rc.SSHUser,
		PrivateKey: string(key),
		HostKey:    rc.SSHHostKey,
		Log:        log.With().Str("component", "ssh").Str("addr", addr).Logger(),
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("addr", addr).Msg("running commands on remote host")
	return r, r.Close, nil
}

// llamaModels extends the configured model map with GGUF files found in
// LlamaModelsDir for the generation model.
func llamaModels(cfg config.Config, log zerolog.Logger) (map[string]string, error) {
	dir := strings.TrimSpace(cfg.Pipeline.LlamaModelsDir)
	if dir == "" {
		return cfg.Pipeline.LlamaModels, nil
	}
	found, err := registry.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan llama models: %w", err)
	}
	model := cfg.Pipeline.MistralModel
	if model == "" {
		model = action.MistralModel
	}
	out := registry.Merge(cfg.Pipeline.LlamaModels, found, model)
	log.Debug().Str("dir", dir).Int("gguf", len(found)).Str("model", out[model]).Msg("llama models scanned")
	return out, nil
}

// buildStore returns the redis store when configured, else the memory store.
func buildStore(ctx context.Context, cfg config.Config) (store.StatusStore, func() error, error) {
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return store.NewMemory(), nil, nil
	}
	r, err := store.NewRedis(ctx, store.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      time.Duration(cfg.Redis.TTLSec) * time.Second,
	})
	if err != nil {
		return nil, nil, err
	}
	return r, r.Close, nil
}

// setupArgs are the args used for setups started by the process itself.
func setupArgs(cfg config.Config) action.Args {
	args := action.Args{}
	if cfg.Hub.Token != "" {
		args[action.ArgHFToken] = cfg.Hub.Token
	}
	return args
}
