// Package config resolves CLI configuration from defaults, an optional
// formbuilder.yaml, FORMBUILDER_* environment variables, and flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix  = "formbuilder"
	configName = "formbuilder"
)

// Draft store backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	General GeneralConfig
	API     APIConfig
	Drafts  DraftsConfig
	Server  ServerConfig
}

type GeneralConfig struct {
	LogLevel string
	Locale   string
	Format   string
}

type APIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type DraftsConfig struct {
	Backend string
	Dir     string
	DSN     string
}

type ServerConfig struct {
	Addr        string
	MetricsPath string
	// CORSOrigins empty allows any origin.
	CORSOrigins []string
}

// flag name -> config key
var flagKeys = map[string]string{
	"log-level":      "general.log_level",
	"locale":         "general.locale",
	"format":         "general.format",
	"api-url":        "api.base_url",
	"token":          "api.token",
	"timeout":        "api.timeout",
	"drafts-backend": "drafts.backend",
	"drafts-dir":     "drafts.dir",
	"drafts-dsn":     "drafts.dsn",
	"addr":           "server.addr",
	"cors-origin":    "server.cors_origins",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.log_level", "warn")
	v.SetDefault("general.locale", "en")
	v.SetDefault("general.format", "json")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("drafts.backend", BackendFile)
	v.SetDefault("drafts.dir", "drafts")
	v.SetDefault("drafts.dsn", "drafts.db")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics_path", "/metrics")
}

// RegisterFlags adds the shared flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a formbuilder.yaml file")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("locale", "", "interface language (en, ar)")
	fs.String("format", "", "output format for filled steps (json, form, pretty)")
	fs.String("api-url", "", "base URL of the menu API")
	fs.String("token", "", "bearer token for the menu API")
	fs.Duration("timeout", 0, "API request timeout")
	fs.String("drafts-backend", "", "draft store backend (file, sqlite, postgres)")
	fs.String("drafts-dir", "", "directory of the file draft store")
	fs.String("drafts-dsn", "", "DSN of the sqlite or postgres draft store")
	fs.String("addr", "", "listen address for serve")
	fs.StringSlice("cors-origin", nil, "origins allowed to call serve from a browser")
}

// Load resolves the configuration. The file is looked up in the working
// directory and searchPaths unless --config names one explicitly; a missing
// file is not an error. Flags are only applied when set.
func Load(fs *pflag.FlagSet, searchPaths ...string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			explicit = f.Value.String()
		}
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("config: bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := Config{
		General: GeneralConfig{
			LogLevel: v.GetString("general.log_level"),
			Locale:   v.GetString("general.locale"),
			Format:   v.GetString("general.format"),
		},
		API: APIConfig{
			BaseURL: v.GetString("api.base_url"),
			Token:   v.GetString("api.token"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Drafts: DraftsConfig{
			Backend: strings.ToLower(v.GetString("drafts.backend")),
			Dir:     v.GetString("drafts.dir"),
			DSN:     v.GetString("drafts.dsn"),
		},
		Server: ServerConfig{
			Addr:        v.GetString("server.addr"),
			MetricsPath: v.GetString("server.metrics_path"),
			CORSOrigins: v.GetStringSlice("server.cors_origins"),
		},
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Drafts.Backend {
	case BackendFile, BackendSQLite, BackendPostgres:
	default:
		return fmt.Errorf("config: unknown drafts backend %q", c.Drafts.Backend)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("config: api timeout must not be negative")
	}
	return nil
}
