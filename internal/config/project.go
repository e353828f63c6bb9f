package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/joho/godotenv"
)

// ProjectFile is the project configuration file name
const ProjectFile = "ecreds.toml"

// projectMarkers identify a project root, in order of preference
var projectMarkers = []string{ProjectFile, "hardhat.config.ts", "hardhat.config.js", "foundry.toml"}

// FindProjectRoot walks up from dir to the first directory holding a
// project marker, falling back to dir itself.
func FindProjectRoot(dir string) string {
	current := dir
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(current, marker)); err == nil {
				return current
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			return dir
		}
		current = parent
	}
}

// LoadEnvFiles loads .env and .env.local from the project root. Variables
// already set in the environment win.
func LoadEnvFiles(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			slog.Warn("failed to load env file", "path", envFile, "error", err)
		}
	}
}

// LoadProjectConfig decodes ecreds.toml, or the file at path when given,
// and expands ${VAR} references. A missing default file yields an empty
// config and an empty source.
func LoadProjectConfig(projectRoot, path string) (*config.ProjectConfig, string, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(projectRoot, ProjectFile)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(projectRoot, path)
	}

	cfg := &config.ProjectConfig{}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, "", nil
		}
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		slog.Warn("unknown keys in project config", "path", path, "keys", fmt.Sprint(undecoded))
	}

	expandProjectConfig(cfg)
	return cfg, path, nil
}

func expandProjectConfig(cfg *config.ProjectConfig) {
	for name, n := range cfg.Networks {
		n.RPCURL = os.ExpandEnv(n.RPCURL)
		n.ExplorerURL = os.ExpandEnv(n.ExplorerURL)
		cfg.Networks[name] = n
	}
	for name, a := range cfg.Accounts {
		a.PrivateKey = os.ExpandEnv(a.PrivateKey)
		a.Keystore = os.ExpandEnv(a.Keystore)
		a.Password = os.ExpandEnv(a.Password)
		a.Address = os.ExpandEnv(a.Address)
		cfg.Accounts[name] = a
	}
	for i, p := range cfg.Artifacts.Paths {
		cfg.Artifacts.Paths[i] = os.ExpandEnv(p)
	}
	for _, steps := range cfg.Plan {
		for i := range steps {
			for j, arg := range steps[i].Args {
				steps[i].Args[j] = os.ExpandEnv(arg)
			}
			steps[i].Value = os.ExpandEnv(steps[i].Value)
		}
	}
}
