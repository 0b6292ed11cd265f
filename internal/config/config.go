package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Mirror backends
const (
	MirrorLocal    = "local"
	MirrorFirebase = "firebase"
	MirrorNone     = "none"
)

// Authorization policies for the local health store
const (
	AuthorizationGrant = "grant"
	AuthorizationDeny  = "deny"
)

// Config is the effective configuration after file, env and defaults are merged
type Config struct {
	DBPath   string
	LogFile  string
	LogLevel string

	HealthAvailable     bool
	HealthAuthorization string
	PollInterval        time.Duration

	SimulatorInterval time.Duration
	SimulatorHRVEvery int

	MirrorBackend           string
	MirrorTimeout           time.Duration
	FirebaseDatabaseURL     string
	FirebaseCredentialsFile string

	HistoryWindow string
}

// Dir returns the tranquil state directory (~/.tranquil)
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tranquil"), nil
}

// Init wires viper to the config file, the TRANQUIL_ env prefix and defaults.
// A missing config file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	dir, err := Dir()
	if err != nil {
		return fmt.Errorf("cannot find home directory: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("TRANQUIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v, dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// SetDefaults registers every key with its default value
func SetDefaults(v *viper.Viper, dir string) {
	v.SetDefault("db_path", filepath.Join(dir, "tranquil.db"))
	v.SetDefault("log_file", filepath.Join(dir, "tranquil.log"))
	v.SetDefault("log_level", "info")
	v.SetDefault("health.available", true)
	v.SetDefault("health.authorization", AuthorizationGrant)
	v.SetDefault("health.poll_interval", "500ms")
	v.SetDefault("simulator.interval", "1s")
	v.SetDefault("simulator.hrv_every", 5)
	v.SetDefault("mirror.backend", MirrorLocal)
	v.SetDefault("mirror.timeout", "10s")
	v.SetDefault("mirror.firebase.database_url", "")
	v.SetDefault("mirror.firebase.credentials_file", "")
	v.SetDefault("history.window", "7 days")
}

// Load reads the effective configuration out of v and validates it
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		DBPath:                  v.GetString("db_path"),
		LogFile:                 v.GetString("log_file"),
		LogLevel:                v.GetString("log_level"),
		HealthAvailable:         v.GetBool("health.available"),
		HealthAuthorization:     strings.ToLower(v.GetString("health.authorization")),
		PollInterval:            v.GetDuration("health.poll_interval"),
		SimulatorInterval:       v.GetDuration("simulator.interval"),
		SimulatorHRVEvery:       v.GetInt("simulator.hrv_every"),
		MirrorBackend:           strings.ToLower(v.GetString("mirror.backend")),
		MirrorTimeout:           v.GetDuration("mirror.timeout"),
		FirebaseDatabaseURL:     v.GetString("mirror.firebase.database_url"),
		FirebaseCredentialsFile: v.GetString("mirror.firebase.credentials_file"),
		HistoryWindow:           v.GetString("history.window"),
	}

	switch cfg.HealthAuthorization {
	case AuthorizationGrant, AuthorizationDeny:
	default:
		return Config{}, fmt.Errorf("health.authorization must be %q or %q, got %q", AuthorizationGrant, AuthorizationDeny, cfg.HealthAuthorization)
	}

	switch cfg.MirrorBackend {
	case MirrorLocal, MirrorNone:
	case MirrorFirebase:
		if cfg.FirebaseDatabaseURL == "" {
			return Config{}, fmt.Errorf("mirror.firebase.database_url is required for the firebase backend")
		}
	default:
		return Config{}, fmt.Errorf("unknown mirror.backend %q", cfg.MirrorBackend)
	}

	if cfg.PollInterval <= 0 {
		return Config{}, fmt.Errorf("health.poll_interval must be positive")
	}
	if cfg.SimulatorInterval <= 0 {
		return Config{}, fmt.Errorf("simulator.interval must be positive")
	}
	if cfg.SimulatorHRVEvery < 1 {
		cfg.SimulatorHRVEvery = 1
	}

	return cfg, nil
}
