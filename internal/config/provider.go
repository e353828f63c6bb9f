package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. ECREDS_NETWORK
	EnvPrefix = "ECREDS"
	// DataDirName holds the registry and local settings
	DataDirName = ".ecreds"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		projectRoot = FindProjectRoot(wd)
	}

	LoadEnvFiles(projectRoot)

	project, source, err := LoadProjectConfig(projectRoot, v.GetString("config"))
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:     projectRoot,
		DataDir:         filepath.Join(projectRoot, DataDirName),
		Debug:           v.GetBool("debug"),
		NonInteractive:  v.GetBool("non_interactive"),
		JSON:            v.GetBool("json"),
		Timeout:         v.GetDuration("timeout"),
		ConfirmInterval: v.GetDuration("confirm_interval"),
		DryRun:          v.GetBool("dry_run"),
		NoRecord:        v.GetBool("no_record"),
		Yes:             v.GetBool("yes"),
		ConfigSource:    source,
		ProjectConfig:   project,
		ArtifactPaths:   project.Artifacts.Paths,
	}

	network, err := NewNetworkResolver(project).Resolve(v.GetString("network"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network: %w", err)
	}
	cfg.Network = network

	plan, planSource, err := LoadPlan(v.GetString("plan"), projectRoot, project)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	cfg.Plan = plan
	cfg.PlanSource = planSource

	return cfg, nil
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// .ecreds/config.local.json holds per-checkout overrides
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("network", "localhost")
	v.SetDefault("plan", "default")
	v.SetDefault("timeout", 10*time.Minute)
	v.SetDefault("confirm_interval", 2*time.Second)
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	_ = v.ReadInConfig()

	if cmd != nil {
		bind := func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		}
		cmd.Flags().VisitAll(bind)
		cmd.InheritedFlags().VisitAll(bind)
	}

	return v
}
