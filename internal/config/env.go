package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MLACTIONS_"

// LoadDotEnv loads KEY=VALUE files into the process environment. Missing
// files are skipped; variables already set are not overridden.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

type envVar struct {
	name string
	set  func(c *Config, v string) error
}

func str(dst func(c *Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error { *dst(c) = v; return nil }
}

func list(dst func(c *Config) *[]string) func(*Config, string) error {
	return func(c *Config, v string) error { *dst(c) = SplitCSV(v); return nil }
}

func integer(dst func(c *Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

func int64v(dst func(c *Config) *int64) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

func boolean(dst func(c *Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst(c) = b
		return nil
	}
}

var envVars = []envVar{
	{"ADDR", str(func(c *Config) *string { return &c.Addr })},
	{"LOG_LEVEL", str(func(c *Config) *string { return &c.LogLevel })},
	{"LOG_FORMAT", str(func(c *Config) *string { return &c.LogFormat })},
	{"REQUEST_LOG", str(func(c *Config) *string { return &c.RequestLog })},
	{"ACTIONS", list(func(c *Config) *[]string { return &c.Actions })},
	{"DEFAULT_ACTION", str(func(c *Config) *string { return &c.DefaultAction })},
	{"SETUP_ON_START", boolean(func(c *Config) *bool { return &c.SetupOnStart })},
	{"MAX_BODY_BYTES", int64v(func(c *Config) *int64 { return &c.MaxBodyBytes })},
	{"RUN_TIMEOUT_SEC", int64v(func(c *Config) *int64 { return &c.RunTimeoutSec })},
	{"MAX_ACTIVATIONS", integer(func(c *Config) *int { return &c.MaxActivations })},
	{"PIP", str(func(c *Config) *string { return &c.PipPath })},
	{"PIP_ARGS", list(func(c *Config) *[]string { return &c.PipArgs })},
	{"PYTHON", str(func(c *Config) *string { return &c.PythonPath })},
	{"PIPELINE_BACKEND", str(func(c *Config) *string { return &c.Pipeline.Backend })},
	{"GENERATION_BACKEND", str(func(c *Config) *string { return &c.Pipeline.Generation })},
	{"INFERENCE_ENDPOINT", str(func(c *Config) *string { return &c.Pipeline.APIEndpoint })},
	{"MISTRAL_MODEL", str(func(c *Config) *string { return &c.Pipeline.MistralModel })},
	{"SENTIMENT_MODEL", str(func(c *Config) *string { return &c.Pipeline.SentimentModel })},
	{"LLAMA_MODELS_DIR", str(func(c *Config) *string { return &c.Pipeline.LlamaModelsDir })},
	{"HF_ENDPOINT", str(func(c *Config) *string { return &c.Hub.Endpoint })},
	{"HF_TOKEN", str(func(c *Config) *string { return &c.Hub.Token })},
	{"HF_TOKEN_PATH", str(func(c *Config) *string { return &c.Hub.TokenPath })},
	{"REDIS_ADDR", str(func(c *Config) *string { return &c.Redis.Addr })},
	{"REDIS_PASSWORD", str(func(c *Config) *string { return &c.Redis.Password })},
	{"REDIS_DB", integer(func(c *Config) *int { return &c.Redis.DB })},
	{"SSH_ADDR", str(func(c *Config) *string { return &c.Remote.SSHAddr })},
	{"SSH_USER", str(func(c *Config) *string { return &c.Remote.SSHUser })},
	{"SSH_KEY_PATH", str(func(c *Config) *string { return &c.Remote.SSHKeyPath })},
	{"VASTAI_API_KEY", str(func(c *Config) *string { return &c.Remote.VastAPIKey })},
	{"VASTAI_INSTANCE", str(func(c *Config) *string { return &c.Remote.VastInstanceID })},
	{"CORS_ENABLED", boolean(func(c *Config) *bool { return &c.CORS.Enabled })},
	{"CORS_ORIGINS", list(func(c *Config) *[]string { return &c.CORS.Origins })},
}

// ApplyEnv overrides fields from MLACTIONS_* variables. The plain HF_TOKEN
// variable used by huggingface tooling is honored when MLACTIONS_HF_TOKEN
// is unset.
func ApplyEnv(c *Config) error {
	if v := strings.TrimSpace(os.Getenv("HF_TOKEN")); v != "" && c.Hub.Token == "" {
		c.Hub.Token = v
	}
	for _, e := range envVars {
		v, ok := os.LookupEnv(EnvPrefix + e.name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := e.set(c, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, e.name, err)
		}
	}
	return nil
}

// SplitCSV splits a comma-separated list, trimming blanks.
func SplitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
