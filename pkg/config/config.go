// Package config resolves canvascal's settings from, in increasing order of
// precedence, defaults, a .env file, config.yaml, CANVASCAL_* environment
// variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mattismoel/canvascal/pkg/backend"
	"github.com/mattismoel/canvascal/pkg/calendarapi"
	"github.com/mattismoel/canvascal/pkg/identity"
)

const EnvPrefix = "CANVASCAL"

const DefaultRedirectURL = "http://127.0.0.1:8085/oauth/callback"

type Config struct {
	BackendURL string `validate:"required,url"`
	Timezone   string `validate:"required,timezone"`
	Google     GoogleConfig
	Log        LogConfig
}

type GoogleConfig struct {
	APIKey       string
	ClientID     string
	DiscoveryURL string `validate:"required,url"`
	IdentityURL  string `validate:"required,url"`
	RedirectURL  string `validate:"required,url"`
}

type LogConfig struct {
	Level string `validate:"oneof=debug info warn error"`
	File  string
}

// Flags maps command line flags to config keys.
var Flags = map[string]string{
	"backend-url": "backend_url",
	"timezone":    "timezone",
	"log-level":   "log.level",
	"log-file":    "log.file",
}

// Dir is the directory config.yaml is read from.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, "canvascal")
}

// DefaultLogFile keeps the log out of the terminal the calendar page draws on.
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, "canvascal", "canvascal.log")
}

type Options struct {
	// ConfigFile overrides the config.yaml lookup when set.
	ConfigFile string
	Flags      *pflag.FlagSet
}

func Load(opts Options) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range Flags {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	cfg := &Config{
		BackendURL: v.GetString("backend_url"),
		Timezone:   v.GetString("timezone"),
		Google: GoogleConfig{
			APIKey:       v.GetString("google.api_key"),
			ClientID:     v.GetString("google.client_id"),
			DiscoveryURL: v.GetString("google.discovery_url"),
			IdentityURL:  v.GetString("google.identity_url"),
			RedirectURL:  v.GetString("google.redirect_url"),
		},
		Log: LogConfig{
			Level: strings.ToLower(v.GetString("log.level")),
			File:  v.GetString("log.file"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend_url", backend.DefaultBaseURL)
	v.SetDefault("timezone", defaultTimezone())
	v.SetDefault("google.api_key", "")
	v.SetDefault("google.client_id", "")
	v.SetDefault("google.discovery_url", calendarapi.DefaultDiscoveryURL)
	v.SetDefault("google.identity_url", identity.DefaultConfigURL)
	v.SetDefault("google.redirect_url", DefaultRedirectURL)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", DefaultLogFile())
}

// The calendar needs an IANA zone name, which time.Local does not carry.
func defaultTimezone() string {
	if tz := os.Getenv("TZ"); tz != "" && !strings.EqualFold(tz, "local") {
		return strings.TrimPrefix(tz, ":")
	}
	return "UTC"
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
