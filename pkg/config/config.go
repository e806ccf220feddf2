package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding configuration
const EnvPrefix = "SEALENV"

// Configuration keys (also the CLI flag names)
const (
	KeyRoot         = "root"
	KeyRepoRoot     = "repo-root"
	KeyCert         = "cert"
	KeyOutputDir    = "output-dir"
	KeyRegistry     = "registry"
	KeyGenerator    = "generator"
	KeyKubectl      = "kubectl"
	KeyKubeseal     = "kubeseal"
	KeyTimeout      = "timeout"
	KeyCheckIgnored = "check-ignored"
	KeyVerbose      = "verbose"
)

// Keys lists every configuration key, for binding command-line flags
var Keys = []string{
	KeyRoot, KeyRepoRoot, KeyCert, KeyOutputDir, KeyRegistry, KeyGenerator,
	KeyKubectl, KeyKubeseal, KeyTimeout, KeyCheckIgnored, KeyVerbose,
}

const (
	// DefaultCertFile is the public sealing certificate, relative to the root
	DefaultCertFile = "pub-cert.pem"

	// DefaultTimeout bounds each external command
	DefaultTimeout = 2 * time.Minute
)

// DefaultOutputDir is where sealed secrets are written, relative to the root
var DefaultOutputDir = filepath.Join("infra", "k8s", "base", "sealed-secrets")

// Config holds the resolved settings of a run.
// Paths are absolute once returned by Load.
type Config struct {
	// Root is the deployment directory (holds the certificate and the manifests)
	Root string
	// RepoRoot holds the project checkouts referenced by the built-in registry
	RepoRoot     string
	CertPath     string
	OutputDir    string
	RegistryFile string
	Generator    string
	KubectlPath  string
	KubesealPath string
	Timeout      time.Duration
	CheckIgnored bool
	Verbose      bool
}

// NewViper creates a viper instance with defaults and SEALENV_* environment overrides.
// configFile is optional; a missing explicit file is an error.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault(KeyRoot, ".")
	v.SetDefault(KeyGenerator, "kubectl")
	v.SetDefault(KeyKubectl, "kubectl")
	v.SetDefault(KeyKubeseal, "kubeseal")
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyCheckIgnored, true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return v, nil
}

// BindFlags makes the flags of fs named after configuration keys override
// the environment and the config file when set on the command line
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, key := range Keys {
		flag := fs.Lookup(key)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", key, err)
		}
	}
	return nil
}

// Load resolves a Config from v. Unset paths derive from the root:
// repo root is its parent, the certificate and output dir live below it.
func Load(v *viper.Viper) (*Config, error) {
	root, err := ResolvePath(v.GetString(KeyRoot))
	if err != nil {
		return nil, fmt.Errorf("invalid root: %w", err)
	}

	cfg := &Config{
		Root:         root,
		Generator:    v.GetString(KeyGenerator),
		KubectlPath:  v.GetString(KeyKubectl),
		KubesealPath: v.GetString(KeyKubeseal),
		Timeout:      v.GetDuration(KeyTimeout),
		CheckIgnored: v.GetBool(KeyCheckIgnored),
		Verbose:      v.GetBool(KeyVerbose),
	}

	if cfg.RepoRoot, err = resolveOr(v.GetString(KeyRepoRoot), filepath.Dir(root)); err != nil {
		return nil, fmt.Errorf("invalid repo root: %w", err)
	}
	if cfg.CertPath, err = resolveOr(v.GetString(KeyCert), filepath.Join(root, DefaultCertFile)); err != nil {
		return nil, fmt.Errorf("invalid certificate path: %w", err)
	}
	if cfg.OutputDir, err = resolveOr(v.GetString(KeyOutputDir), filepath.Join(root, DefaultOutputDir)); err != nil {
		return nil, fmt.Errorf("invalid output directory: %w", err)
	}
	if registry := v.GetString(KeyRegistry); registry != "" {
		if cfg.RegistryFile, err = ResolvePath(registry); err != nil {
			return nil, fmt.Errorf("invalid registry path: %w", err)
		}
	}

	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %s", cfg.Timeout)
	}

	return cfg, nil
}

func resolveOr(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	return ResolvePath(path)
}
