// Package config loads and validates apidash configuration from files,
// flags, and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all runtime settings for the mock server and the runner.
type Config struct {
	// Mock server.
	Port int `mapstructure:"port"`

	// Runner.
	BaseURL      string        `mapstructure:"base_url"`
	CatalogFile  string        `mapstructure:"catalog_file"`
	Timeout      time.Duration `mapstructure:"timeout"`
	ProxyPrefix  string        `mapstructure:"proxy_prefix"`
	Rate         int           `mapstructure:"rate"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`

	// Output.
	JSONOutput  bool   `mapstructure:"json_output"`
	HTMLOutput  string `mapstructure:"html_output"`
	ExcelOutput string `mapstructure:"excel_output"`
	PDFOutput   string `mapstructure:"pdf_output"`
	Dashboard   bool   `mapstructure:"dashboard"`

	// Gates.
	Thresholds []string `mapstructure:"thresholds"`

	// Ambient.
	LogLevel string        `mapstructure:"log_level"`
	Auth     AuthConfig    `mapstructure:"auth"`
	Tracing  TracingConfig `mapstructure:"tracing"`

	ConfigFile string `mapstructure:"-"`
}

// AuthConfig configures outgoing request authentication.
type AuthConfig struct {
	StaticToken string `mapstructure:"static_token"`
}

// TracingConfig configures OTLP trace export.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"`
	Insecure    bool    `mapstructure:"insecure"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// ValidationError aggregates every problem found in a config.
type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

// Validate checks the config for inconsistencies, collecting all issues.
func (c Config) Validate() error {
	var issues []string

	if c.Port < 1 || c.Port > 65535 {
		issues = append(issues, fmt.Sprintf("port must be between 1 and 65535, got %d", c.Port))
	}
	if c.Timeout <= 0 {
		issues = append(issues, "timeout must be positive")
	}
	if c.Rate < 0 {
		issues = append(issues, "rate must not be negative")
	}
	if c.MaxBodyBytes < 0 {
		issues = append(issues, "max_body_bytes must not be negative")
	}
	if c.ProxyPrefix != "" && !strings.HasPrefix(c.ProxyPrefix, "http://") && !strings.HasPrefix(c.ProxyPrefix, "https://") {
		issues = append(issues, fmt.Sprintf("proxy_prefix must be an http(s) URL, got %q", c.ProxyPrefix))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1.0 {
		issues = append(issues, fmt.Sprintf("tracing.sample_rate must be between 0.0 and 1.0, got %g", c.Tracing.SampleRate))
	}
	switch strings.ToLower(c.Tracing.Protocol) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing.protocol must be \"grpc\" or \"http\", got %q", c.Tracing.Protocol))
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}
