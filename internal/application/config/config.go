package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"visionatrix-exapp/pkg/log"
	"visionatrix-exapp/pkg/template"
	"visionatrix-exapp/pkg/yaml"
)

// OCCMode selects how occ is reached.
type OCCMode string

const (
	// OCCModeDocker runs occ inside the Nextcloud container.
	OCCModeDocker OCCMode = "docker"
	// OCCModeLocal runs occ with the host php binary.
	OCCModeLocal OCCMode = "local"
)

const (
	// DefaultConfigPath is used when no --config flag is given.
	DefaultConfigPath = "exapp.yaml"

	defaultAppID          = "visionatrix"
	defaultAppName        = "Visionatrix"
	defaultAppSecret      = "12345"
	defaultAppPort        = 9100
	defaultAppHost        = "0.0.0.0"
	defaultDaemon         = "docker_dev"
	defaultAAVersion      = "2.0.0"
	defaultNextcloudURL   = "http://nextcloud.local"
	defaultInfoXML        = "appinfo/info.xml"
	defaultImageOrg       = "cloud-py-api"
	defaultDockerfile     = "Dockerfile"
	defaultContextDir     = "."
	defaultOCCContainer   = "master-nextcloud-1"
	defaultTranslationDir = "translationfiles"
	defaultLocaleDir      = "locale"
	defaultTranslationBin = "translationtool.phar"
	defaultEnvFile        = ".env"
)

// Environment overrides.
const (
	EnvRegistryUsername = "REGISTRY_USERNAME"
	EnvRegistryToken    = "REGISTRY_TOKEN"
	EnvRepositoryOwner  = "GITHUB_REPOSITORY_OWNER"
	envGitHubActor      = "GITHUB_ACTOR"
	envGitHubToken      = "GITHUB_TOKEN"
)

// AppConfig describes the application as AppAPI registers it.
type AppConfig struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Version string `yaml:"version,omitempty"`
	Secret  string `yaml:"secret"`
	Port    int    `yaml:"port"`
	Host    string `yaml:"host"`
	// Daemon is the AppAPI deploy daemon the app is registered on.
	Daemon             string   `yaml:"daemon"`
	Scopes             []string `yaml:"scopes,omitempty"`
	SystemApp          bool     `yaml:"system_app"`
	TranslationsFolder string   `yaml:"translations_folder,omitempty"`
	// InfoXML is the path of appinfo/info.xml.
	InfoXML string `yaml:"info_xml"`
}

// ImageConfig describes the published container image.
type ImageConfig struct {
	Registry   string `yaml:"registry"`
	Org        string `yaml:"org"`
	Name       string `yaml:"name"`
	Dockerfile string `yaml:"dockerfile"`
	Context    string `yaml:"context"`
}

// RegistryConfig holds push credentials. Both are usually left empty in the
// file and provided through REGISTRY_USERNAME and REGISTRY_TOKEN.
type RegistryConfig struct {
	Username string `yaml:"username,omitempty"`
	Token    string `yaml:"token,omitempty"`
}

// NextcloudConfig locates the Nextcloud instance.
type NextcloudConfig struct {
	URL       string `yaml:"url"`
	AAVersion string `yaml:"aa_version"`
}

// OCCConfig tells how occ is executed.
type OCCConfig struct {
	Mode      OCCMode `yaml:"mode"`
	Container string  `yaml:"container,omitempty"`
	User      string  `yaml:"user,omitempty"`
	WorkDir   string  `yaml:"workdir,omitempty"`
	PHP       string  `yaml:"php,omitempty"`
	Path      string  `yaml:"path,omitempty"`
}

// TranslationsConfig locates the l10n tooling and files.
type TranslationsConfig struct {
	// Tool is the Nextcloud translationtool executable.
	Tool string `yaml:"tool"`
	// AppDir is where the tool runs, the app root holding appinfo/.
	AppDir    string `yaml:"app_dir"`
	SourceDir string `yaml:"source_dir"`
	LocaleDir string `yaml:"locale_dir"`
}

// Config holds the exappctl configuration
type Config struct {
	App          AppConfig          `yaml:"app"`
	Image        ImageConfig        `yaml:"image"`
	Registry     RegistryConfig     `yaml:"registry"`
	Nextcloud    NextcloudConfig    `yaml:"nextcloud"`
	OCC          OCCConfig          `yaml:"occ"`
	Translations TranslationsConfig `yaml:"translations"`
	// LogLevel specifies the minimum log level to output (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`
	// EnvFile is where `exappctl env` writes the manual install environment.
	EnvFile string `yaml:"env_file,omitempty"`
}

// NewConfig returns a configuration filled with defaults.
func NewConfig() *Config {
	cfg := &Config{}
	prepareConfig(cfg)
	return cfg
}

// prepareConfig applies defaults to every empty field
func prepareConfig(cfg *Config) {
	if cfg.App.ID == "" {
		cfg.App.ID = defaultAppID
	}
	if cfg.App.Name == "" {
		cfg.App.Name = defaultAppName
	}
	if cfg.App.Secret == "" {
		cfg.App.Secret = defaultAppSecret
	}
	if cfg.App.Port == 0 {
		cfg.App.Port = defaultAppPort
	}
	if cfg.App.Host == "" {
		cfg.App.Host = defaultAppHost
	}
	if cfg.App.Daemon == "" {
		cfg.App.Daemon = defaultDaemon
	}
	if cfg.App.InfoXML == "" {
		cfg.App.InfoXML = defaultInfoXML
	}

	if cfg.Image.Registry == "" {
		cfg.Image.Registry = "ghcr.io"
	}
	if cfg.Image.Org == "" {
		cfg.Image.Org = defaultImageOrg
	}
	if cfg.Image.Name == "" {
		cfg.Image.Name = cfg.App.ID
	}
	if cfg.Image.Dockerfile == "" {
		cfg.Image.Dockerfile = defaultDockerfile
	}
	if cfg.Image.Context == "" {
		cfg.Image.Context = defaultContextDir
	}

	if cfg.Nextcloud.URL == "" {
		cfg.Nextcloud.URL = defaultNextcloudURL
	}
	if cfg.Nextcloud.AAVersion == "" {
		cfg.Nextcloud.AAVersion = defaultAAVersion
	}

	if cfg.OCC.Mode == "" {
		cfg.OCC.Mode = OCCModeDocker
	}
	if cfg.OCC.Mode == OCCModeDocker && cfg.OCC.Container == "" {
		cfg.OCC.Container = defaultOCCContainer
	}
	if cfg.OCC.Mode == OCCModeLocal && cfg.OCC.Path == "" {
		cfg.OCC.Path = "occ"
	}

	if cfg.Translations.Tool == "" {
		cfg.Translations.Tool = defaultTranslationBin
	}
	if cfg.Translations.AppDir == "" {
		cfg.Translations.AppDir = "."
	}
	if cfg.Translations.SourceDir == "" {
		cfg.Translations.SourceDir = defaultTranslationDir
	}
	if cfg.Translations.LocaleDir == "" {
		cfg.Translations.LocaleDir = defaultLocaleDir
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.EnvFile == "" {
		cfg.EnvFile = defaultEnvFile
	}
}

// applyEnv overrides credentials from the environment. A CI token provided
// as GITHUB_TOKEN is used when REGISTRY_TOKEN is unset.
func applyEnv(cfg *Config) {
	if v := firstEnv(EnvRegistryUsername, envGitHubActor); v != "" {
		cfg.Registry.Username = v
	}
	if v := firstEnv(EnvRegistryToken, envGitHubToken); v != "" {
		cfg.Registry.Token = v
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// Validate reports configuration that can never work.
func (c *Config) Validate() error {
	var errs []error
	if c.App.Port < 1 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("app.port %d out of range", c.App.Port))
	}
	switch c.OCC.Mode {
	case OCCModeDocker, OCCModeLocal:
	default:
		errs = append(errs, fmt.Errorf("occ.mode %q must be %q or %q", c.OCC.Mode, OCCModeDocker, OCCModeLocal))
	}
	return errors.Join(errs...)
}

// LoadConfig loads the configuration from a YAML file. ${VAR} references are
// expanded from the environment first. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Debug("config file not found, using defaults", "path", configPath)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		expanded, err := template.Substitute(string(data), nil)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", configPath, err)
		}
		if err := yaml.UnmarshalYAML([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", configPath, err)
		}
	}

	prepareConfig(cfg)
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file. Registry credentials are
// never written.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.Errorf("failed to create config directory: %w", err)
	}

	prepareConfig(cfg)
	toSave := *cfg
	toSave.Registry = RegistryConfig{}

	data, err := yaml.MarshalYAML(toSave)
	if err != nil {
		return log.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return log.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// RepositoryOwner returns the CI repository owner, empty outside CI.
func RepositoryOwner() string {
	return strings.TrimSpace(os.Getenv(EnvRepositoryOwner))
}
