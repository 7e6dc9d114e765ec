package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Mode represents the client run mode.
type Mode string

const (
	ModeLive Mode = "live"
	ModeMock Mode = "mock"
)

// ParseMode parses a mode string, returning an error for invalid values.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "live", "":
		return ModeLive, nil
	case "mock":
		return ModeMock, nil
	default:
		return "", fmt.Errorf("invalid mode %q: must be one of live, mock", s)
	}
}

// LoaderOptions controls how configuration is loaded.
type LoaderOptions struct {
	// ConfigPath is the path to a TOML config file (optional).
	// If provided but file is missing or invalid, loading fails.
	ConfigPath string

	// ModeFlag is the --mode flag value (overrides config file mode).
	ModeFlag string

	// AppName and AppVersion are the build-time identity.
	// The config file may override them; the result must be non-empty.
	AppName    string
	AppVersion string

	// FlagOverrides are CLI flag values that override config file values.
	FlagOverrides FlagOverrides

	// Logger is used for warning messages (e.g., undecoded keys).
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// FlagOverrides holds CLI flag values that override config file values.
type FlagOverrides struct {
	BaseURL               *string
	StoreDriver           *string
	DataDir               *string
	LoggingLevel          *string
	LoggingAllowSensitive *string // "true", "false", or "" (unset)
}

// fileConfig mirrors Config but with pointer fields to detect presence.
type fileConfig struct {
	Mode      string             `toml:"mode"`
	App       *AppConfig         `toml:"app"`
	Endpoints *EndpointsConfig   `toml:"endpoints"`
	Transport *transportConfig   `toml:"transport"`
	Store     *StoreConfig       `toml:"store"`
	Logging   *loggingFileConfig `toml:"logging"`
}

// transportConfig holds transport settings from TOML.
// Bools are pointers so an explicit false is distinguishable from absence.
type transportConfig struct {
	RequestTimeoutMS  int    `toml:"request_timeout_ms"`
	ResourceTimeoutMS int    `toml:"resource_timeout_ms"`
	ConnectTimeoutMS  int    `toml:"connect_timeout_ms"`
	TLSMinVersion     string `toml:"tls_min_version"`
	MaxConnsPerHost   int    `toml:"max_conns_per_host"`
	CookiesEnabled    *bool  `toml:"cookies_enabled"`
	UserAgent         string `toml:"user_agent"`
	ProxyURL          string `toml:"proxy_url"`
	MaxResponseBytes  int64  `toml:"max_response_bytes"`
	TLSRootCAFile     string `toml:"tls_root_ca_file"`
	TLSRootCADir      string `toml:"tls_root_ca_dir"`
}

type loggingFileConfig struct {
	Level          string `toml:"level"`
	AllowSensitive *bool  `toml:"allow_sensitive"`
}

// Load loads configuration with the following precedence:
//  1. Determine effective mode: --mode flag > mode in config file > default (live)
//  2. Start from mode preset defaults
//  3. Overlay TOML config file values
//  4. Overlay CLI flags
//  5. Select the base URL for the mode and validate
//
// Any validation failure is a startup fault: callers are expected to exit.
func Load(opts LoaderOptions) (*Config, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var fc fileConfig

	if opts.ConfigPath != "" {
		data, err := os.ReadFile(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigPath, err)
		}
		md, err := toml.Decode(string(data), &fc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", opts.ConfigPath, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keyStr := k.String()
				// driver sections are free-form and decoded by the driver
				if strings.HasPrefix(keyStr, "store.drivers.") {
					continue
				}
				keys = append(keys, keyStr)
			}
			if len(keys) > 0 {
				logger.Warn("config file contains undecoded keys", "path", opts.ConfigPath, "keys", keys)
			}
		}
	}

	modeStr := "live"
	if fc.Mode != "" {
		modeStr = fc.Mode
	}
	if opts.ModeFlag != "" {
		modeStr = opts.ModeFlag
	}

	mode, err := ParseMode(modeStr)
	if err != nil {
		return nil, err
	}

	cfg := presetForMode(mode)
	cfg.App.Name = opts.AppName
	cfg.App.Version = opts.AppVersion

	overlayFileConfig(cfg, &fc)
	selectBaseURL(cfg, mode)
	overlayFlags(cfg, opts.FlagOverrides)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// presetForMode returns the base config for a given mode.
func presetForMode(mode Mode) *Config {
	if mode == ModeMock {
		return MockConfig()
	}
	return LiveConfig()
}

// LiveConfig returns defaults for talking to the production backend.
func LiveConfig() *Config {
	return &Config{
		Mode: string(ModeLive),
		Endpoints: EndpointsConfig{
			Live: "https://api.feed.example",
			Mock: "http://mock.feed.invalid",
		},
		Transport: TransportConfig{
			RequestTimeoutMS:  30000,
			ResourceTimeoutMS: 60000,
			ConnectTimeoutMS:  10000,
			TLSMinVersion:     "1.2",
			MaxConnsPerHost:   1,
			CookiesEnabled:    false,
			MaxResponseBytes:  4 << 20,
		},
		Store: StoreConfig{
			Driver:  "json",
			DataDir: ".feedclient",
		},
		Logging: LoggingConfig{
			Level:          "info",
			AllowSensitive: false,
		},
	}
}

// MockConfig returns defaults for the in-process mock backend.
// The token lives in memory so mock runs never touch a real session.
func MockConfig() *Config {
	cfg := LiveConfig()
	cfg.Mode = string(ModeMock)
	cfg.Transport.RequestTimeoutMS = 5000
	cfg.Transport.ResourceTimeoutMS = 10000
	cfg.Store.Driver = "memory"
	cfg.Logging.Level = "debug"
	return cfg
}

// overlayFileConfig applies TOML file values onto cfg.
func overlayFileConfig(cfg *Config, fc *fileConfig) {
	if fc.App != nil {
		if fc.App.Name != "" {
			cfg.App.Name = fc.App.Name
		}
		if fc.App.Version != "" {
			cfg.App.Version = fc.App.Version
		}
	}

	if fc.Endpoints != nil {
		if fc.Endpoints.Live != "" {
			cfg.Endpoints.Live = fc.Endpoints.Live
		}
		if fc.Endpoints.Mock != "" {
			cfg.Endpoints.Mock = fc.Endpoints.Mock
		}
	}

	if t := fc.Transport; t != nil {
		if t.RequestTimeoutMS != 0 {
			cfg.Transport.RequestTimeoutMS = t.RequestTimeoutMS
		}
		if t.ResourceTimeoutMS != 0 {
			cfg.Transport.ResourceTimeoutMS = t.ResourceTimeoutMS
		}
		if t.ConnectTimeoutMS != 0 {
			cfg.Transport.ConnectTimeoutMS = t.ConnectTimeoutMS
		}
		if t.TLSMinVersion != "" {
			cfg.Transport.TLSMinVersion = t.TLSMinVersion
		}
		if t.MaxConnsPerHost != 0 {
			cfg.Transport.MaxConnsPerHost = t.MaxConnsPerHost
		}
		if t.CookiesEnabled != nil {
			cfg.Transport.CookiesEnabled = *t.CookiesEnabled
		}
		if t.UserAgent != "" {
			cfg.Transport.UserAgent = t.UserAgent
		}
		if t.ProxyURL != "" {
			cfg.Transport.ProxyURL = t.ProxyURL
		}
		if t.MaxResponseBytes != 0 {
			cfg.Transport.MaxResponseBytes = t.MaxResponseBytes
		}
		if t.TLSRootCAFile != "" {
			cfg.Transport.TLSRootCAFile = t.TLSRootCAFile
		}
		if t.TLSRootCADir != "" {
			cfg.Transport.TLSRootCADir = t.TLSRootCADir
		}
	}

	if fc.Store != nil {
		if fc.Store.Driver != "" {
			cfg.Store.Driver = fc.Store.Driver
		}
		if fc.Store.DataDir != "" {
			cfg.Store.DataDir = fc.Store.DataDir
		}
		if len(fc.Store.Drivers) > 0 {
			cfg.Store.Drivers = fc.Store.Drivers
		}
	}

	if fc.Logging != nil {
		if fc.Logging.Level != "" {
			cfg.Logging.Level = fc.Logging.Level
		}
		if fc.Logging.AllowSensitive != nil {
			cfg.Logging.AllowSensitive = *fc.Logging.AllowSensitive
		}
	}
}

// selectBaseURL fixes the transport base URL from the run mode.
func selectBaseURL(cfg *Config, mode Mode) {
	if mode == ModeMock {
		cfg.Transport.BaseURL = cfg.Endpoints.Mock
		return
	}
	cfg.Transport.BaseURL = cfg.Endpoints.Live
}

// overlayFlags applies CLI flag values onto cfg.
func overlayFlags(cfg *Config, f FlagOverrides) {
	if f.BaseURL != nil && *f.BaseURL != "" {
		cfg.Transport.BaseURL = *f.BaseURL
	}
	if f.StoreDriver != nil && *f.StoreDriver != "" {
		cfg.Store.Driver = *f.StoreDriver
	}
	if f.DataDir != nil && *f.DataDir != "" {
		cfg.Store.DataDir = *f.DataDir
	}
	if f.LoggingLevel != nil && *f.LoggingLevel != "" {
		cfg.Logging.Level = *f.LoggingLevel
	}
	if f.LoggingAllowSensitive != nil {
		switch strings.ToLower(*f.LoggingAllowSensitive) {
		case "true":
			cfg.Logging.AllowSensitive = true
		case "false":
			cfg.Logging.AllowSensitive = false
		}
	}
}

// validate checks identity, enums, limits and the base URL.
func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.App.Name) == "" {
		return fmt.Errorf("app.name is required: the client cannot identify itself")
	}
	if strings.TrimSpace(cfg.App.Version) == "" {
		return fmt.Errorf("app.version is required: the client cannot identify itself")
	}

	switch cfg.Transport.TLSMinVersion {
	case "1.2", "1.3":
		// valid
	default:
		return fmt.Errorf("invalid transport.tls_min_version %q: must be one of 1.2, 1.3", cfg.Transport.TLSMinVersion)
	}

	switch cfg.Store.Driver {
	case "json", "sqlite", "redis", "memory":
		// valid
	default:
		return fmt.Errorf("invalid store.driver %q: must be one of json, sqlite, redis, memory", cfg.Store.Driver)
	}

	switch cfg.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid logging.level %q: must be one of trace, debug, info, warn, error", cfg.Logging.Level)
	}

	if cfg.Transport.MaxConnsPerHost != 1 {
		return fmt.Errorf("invalid transport.max_conns_per_host %d: must be 1", cfg.Transport.MaxConnsPerHost)
	}
	if cfg.Transport.RequestTimeoutMS <= 0 || cfg.Transport.ResourceTimeoutMS <= 0 || cfg.Transport.ConnectTimeoutMS <= 0 {
		return fmt.Errorf("transport timeouts must be positive")
	}
	if cfg.Transport.MaxResponseBytes <= 0 {
		return fmt.Errorf("invalid transport.max_response_bytes %d: must be positive", cfg.Transport.MaxResponseBytes)
	}

	if err := validateBaseURL(cfg.Transport.BaseURL); err != nil {
		return err
	}

	if cfg.Transport.ProxyURL != "" {
		u, err := url.Parse(cfg.Transport.ProxyURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid transport.proxy_url: must be an absolute URL")
		}
	}

	return nil
}

// validateBaseURL checks the selected base URL.
// Must be an absolute http/https URL with a host, no userinfo, query, or fragment.
// A path prefix is allowed (e.g. "https://host/api").
func validateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("base URL is empty")
	}
	if raw != strings.TrimSpace(raw) {
		return fmt.Errorf("invalid base URL %q: must not contain leading or trailing whitespace", raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http", "https":
		// valid
	default:
		return fmt.Errorf("invalid base URL %q: scheme must be http or https, got %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base URL %q: must include a host", raw)
	}
	if u.User != nil {
		return fmt.Errorf("invalid base URL %q: must not include userinfo", raw)
	}
	if u.RawQuery != "" {
		return fmt.Errorf("invalid base URL %q: must not include a query string", raw)
	}
	if u.Fragment != "" {
		return fmt.Errorf("invalid base URL %q: must not include a fragment", raw)
	}
	return nil
}
