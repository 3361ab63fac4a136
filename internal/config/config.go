package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// FilePermissions is the default permission mode for regular files
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories
	DirPermissions = 0755

	// EnvPrefix prefixes every environment override, e.g. RESTCHAT_BACKEND_BASE_URL
	EnvPrefix = "RESTCHAT"

	// LocalConfigFile is looked up in the working directory
	LocalConfigFile = "restchat.yaml"

	DefaultBaseURL       = "http://localhost:8000"
	DefaultHistoryWindow = 10
	DefaultLogLevel      = "info"
	DefaultProxyListen   = ":3000"
)

var (
	// ConfigDir is the global configuration directory (~/.restchat)
	ConfigDir string

	// ConfigFile is the global configuration file
	ConfigFile string

	// LogFile receives logs while the terminal UI owns stdout
	LogFile string
)

// Config is the resolved application configuration
type Config struct {
	Backend   BackendConfig                `mapstructure:"backend"`
	Chat      ChatConfig                   `mapstructure:"chat"`
	Endpoints EndpointsConfig              `mapstructure:"endpoints"`
	Log       LogConfig                    `mapstructure:"log"`
	Proxy     ProxyConfig                  `mapstructure:"proxy"`
	Keybinds  map[string]map[string]string `mapstructure:"keybinds"`

	// Source is the config file that was read, empty if none
	Source string `mapstructure:"-"`
}

// BackendConfig describes how to reach the chat backend
type BackendConfig struct {
	BaseURL            string            `mapstructure:"base_url"`
	Headers            map[string]string `mapstructure:"headers"`
	CAFile             string            `mapstructure:"ca_file"`
	CertFile           string            `mapstructure:"cert_file"`
	KeyFile            string            `mapstructure:"key_file"`
	InsecureSkipVerify bool              `mapstructure:"insecure_skip_verify"`
}

// ChatConfig tunes the chat view
type ChatConfig struct {
	HistoryWindow int `mapstructure:"history_window"`
}

// EndpointsConfig points at an optional endpoint definition file
type EndpointsConfig struct {
	File string `mapstructure:"file"`
}

// LogConfig controls zerolog output
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ProxyConfig configures the rewrite proxy
type ProxyConfig struct {
	Listen string `mapstructure:"listen"`
}

// LoadOptions selects where configuration comes from
type LoadOptions struct {
	// ConfigFile overrides the config file search
	ConfigFile string
	// EnvFile is loaded into the environment first; defaults to .env
	EnvFile string
	// Flags are bound to their config keys when set
	Flags *pflag.FlagSet
}

// FlagKeys maps command line flags to config keys
var FlagKeys = map[string]string{
	"base-url":  "backend.base_url",
	"endpoints": "endpoints.file",
	"log-level": "log.level",
	"listen":    "proxy.listen",
}

// Initialize sets up the configuration paths and creates ~/.restchat
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	ConfigDir = filepath.Join(homeDir, ".restchat")
	ConfigFile = filepath.Join(ConfigDir, "config.yaml")
	LogFile = filepath.Join(ConfigDir, "restchat.log")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	return nil
}

// Load resolves configuration from defaults, the config file, the
// environment and flags, in increasing order of precedence
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for flag, key := range FlagKeys {
			if f := opts.Flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", flag, err)
				}
			}
		}
	}

	source := opts.ConfigFile
	if source == "" {
		source = findConfigFile()
	}
	if source != "" {
		v.SetConfigFile(source)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Source = source

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.base_url", DefaultBaseURL)
	v.SetDefault("backend.headers", map[string]string{})
	v.SetDefault("backend.ca_file", "")
	v.SetDefault("backend.cert_file", "")
	v.SetDefault("backend.key_file", "")
	v.SetDefault("backend.insecure_skip_verify", false)

	v.SetDefault("chat.history_window", DefaultHistoryWindow)

	v.SetDefault("endpoints.file", "")

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.file", LogFile)

	v.SetDefault("proxy.listen", DefaultProxyListen)
}

// findConfigFile returns ./restchat.yaml or the global config file, if present
func findConfigFile() string {
	candidates := []string{LocalConfigFile}
	if ConfigFile != "" {
		candidates = append(candidates, ConfigFile)
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid backend.base_url %q: %w", c.Backend.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid backend.base_url %q: scheme must be http or https", c.Backend.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid backend.base_url %q: missing host", c.Backend.BaseURL)
	}

	if c.Chat.HistoryWindow <= 0 {
		return fmt.Errorf("chat.history_window must be positive, got %d", c.Chat.HistoryWindow)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}

	if (c.Backend.CertFile == "") != (c.Backend.KeyFile == "") {
		return fmt.Errorf("backend.cert_file and backend.key_file must be set together")
	}

	return nil
}
