package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/illumination-k/sealenv/pkg/config"
	"github.com/illumination-k/sealenv/pkg/env"
	"github.com/illumination-k/sealenv/pkg/logging"
	"github.com/illumination-k/sealenv/pkg/registry"
)

// loadConfig resolves flags, SEALENV_* variables and the config file.
// Flags win over the environment, which wins over the file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")

	v, err := config.NewViper(configFile)
	if err != nil {
		return nil, err
	}

	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}

	return config.Load(v)
}

func parseTarget(cmd *cobra.Command) (registry.Target, error) {
	value, _ := cmd.Flags().GetString("target")
	return registry.ParseTarget(value)
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *logging.Logger {
	return &logging.Logger{
		Out:     cmd.OutOrStdout(),
		Err:     cmd.ErrOrStderr(),
		Verbose: cfg.Verbose,
	}
}

func newResolver(cfg *config.Config, logger *logging.Logger) *env.Resolver {
	var ignores *env.IgnoreChecker
	if cfg.CheckIgnored {
		ignores = env.NewIgnoreChecker()
	}
	return env.NewResolver(logger, ignores)
}

// loadDefinitions returns the registry file when configured, the built-in table otherwise.
// Only unparsable files and duplicate outputs fail here; each definition is
// checked on its own when it is sealed.
func loadDefinitions(cfg *config.Config) ([]registry.Definition, error) {
	var defs []registry.Definition
	if cfg.RegistryFile != "" {
		loaded, err := registry.LoadFile(cfg.RegistryFile, filepath.Dir(cfg.RegistryFile))
		if err != nil {
			return nil, err
		}
		defs = loaded
	} else {
		defs = registry.Default(cfg.RepoRoot)
	}

	if err := registry.ValidateOutputs(defs); err != nil {
		return nil, fmt.Errorf("invalid registry: %w", err)
	}
	return defs, nil
}

// registryBase is the directory source dirs are shown relative to
func registryBase(cfg *config.Config) string {
	if cfg.RegistryFile != "" {
		return filepath.Dir(cfg.RegistryFile)
	}
	return cfg.RepoRoot
}
