// Package config provides configuration loading and validation.
package config

import (
	"crypto/tls"
	"fmt"
	"strings"
	"time"
)

// Config holds the client configuration.
type Config struct {
	// Mode is the run mode: live or mock.
	Mode string `toml:"mode"`

	// App identifies this client to the backend. Name and Version are required.
	App AppConfig `toml:"app"`

	// Endpoints holds the base URL for each run mode.
	Endpoints EndpointsConfig `toml:"endpoints"`

	// Transport configuration. BaseURL is selected from Endpoints by Mode.
	Transport TransportConfig `toml:"transport"`

	// Store configuration for the auth token.
	Store StoreConfig `toml:"store"`

	// Logging configuration
	Logging LoggingConfig `toml:"logging"`
}

// AppConfig holds the application identity sent with every request.
type AppConfig struct {
	// Name is the application name, e.g. "feedclient".
	Name string `toml:"name"`

	// Version is the application version, e.g. "1.4.0".
	Version string `toml:"version"`
}

// EndpointsConfig holds the backend origins.
type EndpointsConfig struct {
	// Live is the production backend.
	// Example: "https://api.feed.example"
	Live string `toml:"live"`

	// Mock is the origin served by the in-process mock backend.
	Mock string `toml:"mock"`
}

// TransportConfig holds settings for the outbound transport.
// It is immutable once Load returns.
type TransportConfig struct {
	// BaseURL is the origin every request path is resolved against.
	BaseURL string `toml:"-"`

	// RequestTimeoutMS bounds the wait for response headers, in milliseconds.
	RequestTimeoutMS int `toml:"request_timeout_ms"`

	// ResourceTimeoutMS bounds the whole exchange including the body, in milliseconds.
	ResourceTimeoutMS int `toml:"resource_timeout_ms"`

	// ConnectTimeoutMS is the dial timeout in milliseconds.
	ConnectTimeoutMS int `toml:"connect_timeout_ms"`

	// TLSMinVersion is one of: 1.2, 1.3
	TLSMinVersion string `toml:"tls_min_version"`

	// MaxConnsPerHost caps connections per host. Only 1 is accepted.
	MaxConnsPerHost int `toml:"max_conns_per_host"`

	// CookiesEnabled attaches an in-memory cookie jar. Default false.
	CookiesEnabled bool `toml:"cookies_enabled"`

	// UserAgent overrides the derived "name/version (os/arch)" identity.
	UserAgent string `toml:"user_agent"`

	// ProxyURL routes requests through an explicit proxy. Environment proxies are ignored.
	ProxyURL string `toml:"proxy_url"`

	// MaxResponseBytes is the maximum response body size.
	MaxResponseBytes int64 `toml:"max_response_bytes"`

	// TLSRootCAFile is a PEM file of extra root CAs.
	TLSRootCAFile string `toml:"tls_root_ca_file"`

	// TLSRootCADir is a directory of .pem/.crt files of extra root CAs.
	TLSRootCADir string `toml:"tls_root_ca_dir"`
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (t TransportConfig) RequestTimeout() time.Duration {
	return time.Duration(t.RequestTimeoutMS) * time.Millisecond
}

// ResourceTimeout returns ResourceTimeoutMS as a duration.
func (t TransportConfig) ResourceTimeout() time.Duration {
	return time.Duration(t.ResourceTimeoutMS) * time.Millisecond
}

// ConnectTimeout returns ConnectTimeoutMS as a duration.
func (t TransportConfig) ConnectTimeout() time.Duration {
	return time.Duration(t.ConnectTimeoutMS) * time.Millisecond
}

// TLSVersion maps TLSMinVersion to a crypto/tls constant.
// Unknown values map to TLS 1.2; Load rejects them before this is reached.
func (t TransportConfig) TLSVersion() uint16 {
	if t.TLSMinVersion == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}

// StoreConfig holds token store settings.
type StoreConfig struct {
	// Driver is the store driver name: json, sqlite, redis, memory.
	Driver string `toml:"driver"`

	// DataDir is the directory for file-backed drivers (json, sqlite).
	DataDir string `toml:"data_dir"`

	// Drivers holds per-driver settings, e.g. [store.drivers.redis].
	Drivers map[string]map[string]any `toml:"drivers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `toml:"level"`

	// AllowSensitive permits logging of token values. Default false.
	AllowSensitive bool `toml:"allow_sensitive"`
}

// DriverConfig returns a copy of the raw settings for the named store driver.
// Returns nil if the driver has no section.
func (c *Config) DriverConfig(name string) map[string]any {
	raw, ok := c.Store.Drivers[name]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	return out
}

// Identity returns the client identity string, "name/version".
func (c *Config) Identity() string {
	return c.App.Name + "/" + c.App.Version
}

// Redacted returns a string representation of the config with secrets redacted.
func (c *Config) Redacted() string {
	var sb strings.Builder
	sb.WriteString("Config{\n")
	sb.WriteString(fmt.Sprintf("  Mode: %q,\n", c.Mode))
	sb.WriteString(fmt.Sprintf("  App: {Name: %q, Version: %q},\n", c.App.Name, c.App.Version))
	sb.WriteString("  Transport: {\n")
	sb.WriteString(fmt.Sprintf("    BaseURL: %q,\n", c.Transport.BaseURL))
	sb.WriteString(fmt.Sprintf("    RequestTimeoutMS: %d,\n", c.Transport.RequestTimeoutMS))
	sb.WriteString(fmt.Sprintf("    ResourceTimeoutMS: %d,\n", c.Transport.ResourceTimeoutMS))
	sb.WriteString(fmt.Sprintf("    ConnectTimeoutMS: %d,\n", c.Transport.ConnectTimeoutMS))
	sb.WriteString(fmt.Sprintf("    TLSMinVersion: %q,\n", c.Transport.TLSMinVersion))
	sb.WriteString(fmt.Sprintf("    MaxConnsPerHost: %d,\n", c.Transport.MaxConnsPerHost))
	sb.WriteString(fmt.Sprintf("    CookiesEnabled: %v,\n", c.Transport.CookiesEnabled))
	sb.WriteString(fmt.Sprintf("    UserAgent: %q,\n", c.Transport.UserAgent))
	if c.Transport.ProxyURL != "" {
		sb.WriteString("    ProxyURL: [REDACTED],\n")
	} else {
		sb.WriteString("    ProxyURL: \"\",\n")
	}
	sb.WriteString(fmt.Sprintf("    MaxResponseBytes: %d,\n", c.Transport.MaxResponseBytes))
	sb.WriteString(fmt.Sprintf("    TLSRootCAFile: %q,\n", c.Transport.TLSRootCAFile))
	sb.WriteString(fmt.Sprintf("    TLSRootCADir: %q,\n", c.Transport.TLSRootCADir))
	sb.WriteString("  },\n")
	sb.WriteString("  Store: {\n")
	sb.WriteString(fmt.Sprintf("    Driver: %q,\n", c.Store.Driver))
	sb.WriteString(fmt.Sprintf("    DataDir: %q,\n", c.Store.DataDir))
	sb.WriteString(fmt.Sprintf("    DriversCount: %d,\n", len(c.Store.Drivers)))
	sb.WriteString("  },\n")
	sb.WriteString("  Logging: {\n")
	sb.WriteString(fmt.Sprintf("    Level: %q,\n", c.Logging.Level))
	sb.WriteString(fmt.Sprintf("    AllowSensitive: %v,\n", c.Logging.AllowSensitive))
	sb.WriteString("  },\n")
	sb.WriteString("}")
	return sb.String()
}
