package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mlactions/internal/httpapi"
	"mlactions/internal/runtime"
)

func buildServeCmd(o *options) *cobra.Command {
	var (
		addr          string
		defaultAction string
		setupOnStart  bool
		corsEnabled   bool
		corsOrigins   string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &o.cfg
			f := cmd.Flags()
			if f.Changed("addr") {
				cfg.Addr = addr
			}
			if f.Changed("default-action") {
				cfg.DefaultAction = defaultAction
			}
			if f.Changed("setup-on-start") {
				cfg.SetupOnStart = setupOnStart
			}
			if f.Changed("cors-enabled") {
				cfg.CORS.Enabled = corsEnabled
			}
			if f.Changed("cors-origins") {
				cfg.CORS.Origins = splitCSV(corsOrigins)
			}
			return serve(cmd.Context(), o)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address, e.g. :8080")
	cmd.Flags().StringVar(&defaultAction, "default-action", "", "Action served by /init and /run")
	cmd.Flags().BoolVar(&setupOnStart, "setup-on-start", false, "Run setup for every action at startup")
	cmd.Flags().BoolVar(&corsEnabled, "cors-enabled", false, "Enable CORS")
	cmd.Flags().StringVar(&corsOrigins, "cors-origins", "", "Comma-separated allowed origins")
	return cmd
}

func serve(parent context.Context, o *options) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg := o.cfg
	log := o.log
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	httpapi.SetLogger(log.With().Str("component", "http").Logger())
	httpapi.SetDefaultLogLevel(cfg.RequestLog)
	httpapi.SetBaseContext(ctx)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetRunTimeoutSeconds(cfg.RunTimeoutSec)
	httpapi.SetCORSOptions(cfg.CORS.Enabled, cfg.CORS.Origins, cfg.CORS.Methods, cfg.CORS.Headers)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(a.host),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("mlactions listening")
		errCh <- srv.ListenAndServe()
	}()
	if cfg.SetupOnStart {
		go setupAll(ctx, a.host, o)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

// setupAll runs setup for every registered action in order. Failures are
// logged; the action stays in the failed state.
func setupAll(ctx context.Context, h *runtime.Host, o *options) {
	args := setupArgs(o.cfg)
	for _, info := range h.List() {
		res, err := h.Setup(ctx, info.Name, args)
		if err != nil {
			o.log.Error().Err(err).Str("action", info.Name).Strs("status", res.Status).Msg("startup setup failed")
			continue
		}
		o.log.Info().Str("action", info.Name).Int("lines", len(res.Status)).Msg("startup setup done")
	}
}
