package registry

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"visionatrix-exapp/internal/domain/model"
	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/pkg/log"
)

// dockerRegistryRepository resolves push credentials from explicit values
// first and the docker CLI configuration (~/.docker/config.json) second.
// Login shells out to `docker login`.
type dockerRegistryRepository struct {
	mu       sync.Mutex
	explicit model.RegistryCredentials
	runner   repository.InputRunner
}

var _ repository.RegistryRepository = (*dockerRegistryRepository)(nil)

// NewDockerRegistryRepository creates the repository. explicit may be empty.
// runner executes `docker login`.
func NewDockerRegistryRepository(explicit model.RegistryCredentials, runner repository.InputRunner) repository.RegistryRepository {
	return &dockerRegistryRepository{explicit: explicit, runner: runner}
}

type dockerConfig struct {
	Auths map[string]struct {
		Auth string `json:"auth"`
	} `json:"auths"`
}

func (r *dockerRegistryRepository) readConfig() (*dockerConfig, error) {
	cfgPath, err := getDockerConfigPath()
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return &dockerConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read docker config: %w", err)
	}

	var cfg dockerConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse docker config: %w", err)
	}
	return &cfg, nil
}

// GetRegistries lists the registries present in the docker configuration,
// sorted by address. A missing file means no registries.
func (r *dockerRegistryRepository) GetRegistries() ([]model.Registry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, err := r.readConfig()
	if err != nil {
		return nil, err
	}

	registries := make([]model.Registry, 0, len(cfg.Auths))
	for addr := range cfg.Auths {
		registries = append(registries, model.Registry{Address: addr})
	}
	sort.Slice(registries, func(i, j int) bool { return registries[i].Address < registries[j].Address })
	return registries, nil
}

func (r *dockerRegistryRepository) Credentials(address string) (model.RegistryCredentials, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.explicit.Empty() {
		creds := r.explicit
		creds.Address = address
		return creds, nil
	}

	cfg, err := r.readConfig()
	if err != nil {
		return model.RegistryCredentials{}, err
	}

	for addr, entry := range cfg.Auths {
		if normalizeAddress(addr) != normalizeAddress(address) || entry.Auth == "" {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(entry.Auth)
		if err != nil {
			return model.RegistryCredentials{}, fmt.Errorf("invalid auth entry for %s: %w", addr, err)
		}
		user, pass, ok := strings.Cut(string(decoded), ":")
		if !ok {
			return model.RegistryCredentials{}, fmt.Errorf("invalid auth entry for %s", addr)
		}
		return model.RegistryCredentials{Address: address, Username: user, Password: pass}, nil
	}

	// Credential helpers are not consulted; the daemon push will be anonymous.
	log.Debug("[Registry] no stored credentials", "address", address)
	return model.RegistryCredentials{Address: address}, nil
}

// Login runs `docker login`. The password is passed via STDIN to keep it out
// of the process list.
func (r *dockerRegistryRepository) Login(ctx context.Context, creds model.RegistryCredentials) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if creds.Username == "" || creds.Password == "" {
		return fmt.Errorf("registry username and token are required for %s", creds.Address)
	}

	res, err := r.runner.RunWithInput(ctx, strings.NewReader(creds.Password), "", "docker", LoginArgs(creds)...)
	if err != nil {
		log.Error("[Registry] docker login failed", "address", creds.Address, "error", err, "output", res.Output)
		return fmt.Errorf("docker login failed: %w", err)
	}

	log.Info("[Registry] login successful", "address", creds.Address)
	return nil
}

// LoginArgs are the docker CLI arguments logging in with creds. The password
// is read from stdin.
func LoginArgs(creds model.RegistryCredentials) []string {
	return []string{"login", creds.Address, "--username", creds.Username, "--password-stdin"}
}

// getDockerConfigPath resolves ~/.docker/config.json honouring DOCKER_CONFIG.
func getDockerConfigPath() (string, error) {
	dockerCfgDir := os.Getenv("DOCKER_CONFIG")
	if dockerCfgDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine home directory: %w", err)
		}
		dockerCfgDir = filepath.Join(home, ".docker")
	}
	return filepath.Join(dockerCfgDir, "config.json"), nil
}

func normalizeAddress(addr string) string {
	addr = strings.TrimPrefix(addr, "https://")
	addr = strings.TrimPrefix(addr, "http://")
	return strings.TrimSuffix(addr, "/")
}
