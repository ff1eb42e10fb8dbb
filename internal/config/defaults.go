package config

// Defaults for unset fields.
const (
	DefaultAddr               = ":8080"
	DefaultLogLevel           = "info"
	DefaultPipPath            = "pip"
	DefaultPythonPath         = "python3"
	DefaultBackend            = "python"
	DefaultTokenPath          = "~/.cache/huggingface/token"
	DefaultShutdownTimeoutSec = 5
	DefaultAPITimeoutSec      = 120
)

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.PipPath == "" {
		c.PipPath = DefaultPipPath
	}
	if c.PythonPath == "" {
		c.PythonPath = DefaultPythonPath
	}
	if c.ShutdownTimeoutSec <= 0 {
		c.ShutdownTimeoutSec = DefaultShutdownTimeoutSec
	}
	if c.Pipeline.Backend == "" {
		c.Pipeline.Backend = DefaultBackend
	}
	if c.Pipeline.APITimeoutSec <= 0 {
		c.Pipeline.APITimeoutSec = DefaultAPITimeoutSec
	}
	if c.Hub.TokenPath == "" {
		c.Hub.TokenPath = DefaultTokenPath
	}
}
