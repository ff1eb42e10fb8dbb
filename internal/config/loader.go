package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr       string `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel   string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat  string `json:"log_format" yaml:"log_format" toml:"log_format"`
	RequestLog string `json:"request_log" yaml:"request_log" toml:"request_log"`

	// Actions lists the actions to host; empty hosts all of them.
	Actions       []string `json:"actions" yaml:"actions" toml:"actions"`
	DefaultAction string   `json:"default_action" yaml:"default_action" toml:"default_action"`
	// SetupOnStart runs setup for every hosted action when serving starts.
	SetupOnStart bool `json:"setup_on_start" yaml:"setup_on_start" toml:"setup_on_start"`

	MaxBodyBytes       int64 `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	RunTimeoutSec      int64 `json:"run_timeout_sec" yaml:"run_timeout_sec" toml:"run_timeout_sec"`
	ShutdownTimeoutSec int   `json:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec" toml:"shutdown_timeout_sec"`
	MaxActivations     int   `json:"max_activations" yaml:"max_activations" toml:"max_activations"`

	PipPath    string   `json:"pip_path" yaml:"pip_path" toml:"pip_path"`
	PipArgs    []string `json:"pip_args" yaml:"pip_args" toml:"pip_args"`
	PythonPath string   `json:"python_path" yaml:"python_path" toml:"python_path"`

	Pipeline PipelineConfig `json:"pipeline" yaml:"pipeline" toml:"pipeline"`
	Hub      HubConfig      `json:"hub" yaml:"hub" toml:"hub"`
	Redis    RedisConfig    `json:"redis" yaml:"redis" toml:"redis"`
	Remote   RemoteConfig   `json:"remote" yaml:"remote" toml:"remote"`
	CORS     CORSConfig     `json:"cors" yaml:"cors" toml:"cors"`
}

// PipelineConfig selects and tunes the model pipeline backends.
type PipelineConfig struct {
	// Backend is python, api or llama.
	Backend string `json:"backend" yaml:"backend" toml:"backend"`
	// Generation overrides the backend for text-generation.
	Generation     string `json:"generation" yaml:"generation" toml:"generation"`
	APIEndpoint    string `json:"api_endpoint" yaml:"api_endpoint" toml:"api_endpoint"`
	APITimeoutSec  int    `json:"api_timeout_sec" yaml:"api_timeout_sec" toml:"api_timeout_sec"`
	MistralModel   string `json:"mistral_model" yaml:"mistral_model" toml:"mistral_model"`
	SentimentModel string `json:"sentiment_model" yaml:"sentiment_model" toml:"sentiment_model"`

	LlamaCtxSize   int               `json:"llama_ctx_size" yaml:"llama_ctx_size" toml:"llama_ctx_size"`
	LlamaThreads   int               `json:"llama_threads" yaml:"llama_threads" toml:"llama_threads"`
	LlamaMaxTokens int               `json:"llama_max_tokens" yaml:"llama_max_tokens" toml:"llama_max_tokens"`
	LlamaModels    map[string]string `json:"llama_models" yaml:"llama_models" toml:"llama_models"`
	// LlamaModelsDir is scanned for *.gguf files matching model ids that
	// LlamaModels does not map.
	LlamaModelsDir string `json:"llama_models_dir" yaml:"llama_models_dir" toml:"llama_models_dir"`
}

// HubConfig configures the Hugging Face session.
type HubConfig struct {
	Endpoint  string `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	Token     string `json:"token" yaml:"token" toml:"token"`
	TokenPath string `json:"token_path" yaml:"token_path" toml:"token_path"`
}

// RedisConfig enables the redis status store when Addr is set.
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr" toml:"addr"`
	Password string `json:"password" yaml:"password" toml:"password"`
	DB       int    `json:"db" yaml:"db" toml:"db"`
	TTLSec   int    `json:"ttl_sec" yaml:"ttl_sec" toml:"ttl_sec"`
}

// RemoteConfig runs installs and python pipelines on a GPU host over SSH.
// The address is either given directly or resolved from a Vast.ai instance.
type RemoteConfig struct {
	SSHAddr        string `json:"ssh_addr" yaml:"ssh_addr" toml:"ssh_addr"`
	SSHUser        string `json:"ssh_user" yaml:"ssh_user" toml:"ssh_user"`
	SSHKeyPath     string `json:"ssh_key_path" yaml:"ssh_key_path" toml:"ssh_key_path"`
	SSHHostKey     string `json:"ssh_host_key" yaml:"ssh_host_key" toml:"ssh_host_key"`
	VastEndpoint   string `json:"vast_endpoint" yaml:"vast_endpoint" toml:"vast_endpoint"`
	VastAPIKey     string `json:"vast_api_key" yaml:"vast_api_key" toml:"vast_api_key"`
	VastInstanceID string `json:"vast_instance_id" yaml:"vast_instance_id" toml:"vast_instance_id"`
}

// Enabled reports whether commands should run remotely.
func (r RemoteConfig) Enabled() bool {
	return strings.TrimSpace(r.SSHAddr) != "" || strings.TrimSpace(r.VastInstanceID) != ""
}

// CORSConfig mirrors httpapi.SetCORSOptions.
type CORSConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	Origins []string `json:"origins" yaml:"origins" toml:"origins"`
	Methods []string `json:"methods" yaml:"methods" toml:"methods"`
	Headers []string `json:"headers" yaml:"headers" toml:"headers"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
