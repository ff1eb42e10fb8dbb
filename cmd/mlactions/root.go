package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mlactions/internal/action"
	"mlactions/internal/config"
)

// options collects the persistent flags and the resolved configuration.
type options struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string

	cfg config.Config
	log zerolog.Logger
}

// buildRootCmd constructs the command tree. out receives command output;
// logs go to stderr.
func buildRootCmd(out io.Writer) *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "mlactions",
		Short:         "Host ML actions with a one-time setup and per-request invocation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "Config file (.yaml, .yml, .json, .toml)")
	pf.StringVar(&o.envFile, "env-file", ".env", "Dotenv file loaded before reading MLACTIONS_* variables")
	pf.StringVar(&o.logLevel, "log-level", "", "Log level: debug|info|warn|error (defaults MLACTIONS_LOG_LEVEL or info)")
	pf.StringVar(&o.logFormat, "log-format", "", "Log format: json|console")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return o.load()
	}

	root.AddCommand(
		buildServeCmd(o),
		buildSetupCmd(o),
		buildInvokeCmd(o),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), "mlactions", version)
			},
		},
	)
	return root
}

// load resolves configuration: dotenv, then file, then environment, then
// flags, then defaults.
func (o *options) load() error {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return err
	}
	var cfg config.Config
	if o.configPath != "" {
		c, err := config.Load(o.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		cfg.LogFormat = o.logFormat
	}
	cfg.ApplyDefaults()
	o.cfg = cfg
	o.log = newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	return nil
}

// parseArgs turns repeated key=value flags into action args.
func parseArgs(pairs []string) (action.Args, error) {
	args := action.Args{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --arg %q: want key=value", p)
		}
		args[strings.TrimSpace(k)] = v
	}
	return args, nil
}
