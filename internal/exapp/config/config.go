// Package config loads the ExApp runtime configuration that AppAPI passes
// through the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"

	"visionatrix-exapp/internal/infra/nextcloud"
	"visionatrix-exapp/pkg/log"
)

// DefaultEnvFile is loaded before reading the environment when it exists.
const DefaultEnvFile = ".env"

type Config struct {
	AppID          string `env:"APP_ID" default:"visionatrix"`
	AppVersion     string `env:"APP_VERSION"`
	AppSecret      string `env:"APP_SECRET"`
	AppHost        string `env:"APP_HOST" default:"0.0.0.0"`
	AppPort        int    `env:"APP_PORT" default:"9100"`
	AppDisplayName string `env:"APP_DISPLAY_NAME" default:"Visionatrix"`
	NextcloudURL   string `env:"NEXTCLOUD_URL"`
	AAVersion      string `env:"AA_VERSION" default:"2.0.0"`

	BackendURL string `env:"BACKEND_URL" default:"http://127.0.0.1:8288"`
	// ClientDir holds the built web client served for non-API paths.
	ClientDir string `env:"CLIENT_DIR" default:"../../Visionatrix/visionatrix/client"`
	// ExAppDir is the directory containing ex_app/.
	ExAppDir string `env:"EXAPP_DIR" default:"../.."`
	L10NDir  string `env:"L10N_DIR" default:"../../l10n"`

	LogLevel       string `env:"LOG_LEVEL" default:"info"`
	LogFormat      string `env:"LOG_FORMAT" default:"text"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" default:"true"`

	// InitAttempts bounds the backend readiness probes of /init.
	InitAttempts    int           `env:"INIT_ATTEMPTS" default:"10"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads envFile (if present) and then the environment. Variables already
// set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
		log.Debug("No env file found, using environment variables", "path", envFile)
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg.NextcloudURL = nextcloud.NormalizeURL(cfg.NextcloudURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the variables AppAPI always provides.
func (c *Config) Validate() error {
	var errs []error
	required := []struct{ name, value string }{
		{"APP_ID", c.AppID},
		{"APP_VERSION", c.AppVersion},
		{"APP_SECRET", c.AppSecret},
		{"NEXTCLOUD_URL", c.NextcloudURL},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}
	if c.AppPort < 1 || c.AppPort > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT %d out of range", c.AppPort))
	}
	return errors.Join(errs...)
}

// Address is the listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.AppHost, c.AppPort)
}
