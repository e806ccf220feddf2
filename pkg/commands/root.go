package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/illumination-k/sealenv/internal/version"
	"github.com/illumination-k/sealenv/pkg/assembler"
	"github.com/illumination-k/sealenv/pkg/config"
	"github.com/illumination-k/sealenv/pkg/kubernetes"
	"github.com/illumination-k/sealenv/pkg/registry"
	"github.com/illumination-k/sealenv/pkg/usecase"
)

// deps holds what commands create for external interaction; tests swap the runner
type deps struct {
	newRunner func(timeout time.Duration) kubernetes.Runner
}

func defaultDeps() deps {
	return deps{
		newRunner: func(timeout time.Duration) kubernetes.Runner {
			return kubernetes.NewExecRunner(timeout)
		},
	}
}

// NewRootCommand creates the root command for sealenv
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultDeps())
}

func newRootCommand(d deps) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sealenv",
		Short: "Generate SealedSecrets from local .env files",
		Long: `sealenv merges the layered .env files of each project into Kubernetes Secret
payloads and seals them with kubeseal and a public certificate.
The sealed manifests are safe to commit; nothing talks to a live cluster.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeal(cmd, d, dryRun)
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.String(config.KeyRoot, ".", "Deployment root holding the certificate and manifests")
	flags.String(config.KeyRepoRoot, "", "Directory holding the project checkouts (default: parent of --root)")
	flags.String("config", "", "Path to a sealenv config file")
	flags.String(config.KeyRegistry, "", "Path to a YAML registry file (default: built-in registry)")
	flags.String("target", string(registry.TargetAll), "Target project secrets: "+targetNames())
	flags.Bool(config.KeyCheckIgnored, true, "Warn about loaded .env files not covered by a .gitignore")
	flags.BoolP(config.KeyVerbose, "v", false, "Print info and debug output")

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Seal everything but do not write any file")
	cmd.Flags().String(config.KeyCert, "", "Public sealing certificate (default: <root>/pub-cert.pem)")
	cmd.Flags().String(config.KeyOutputDir, "", "Directory for sealed secrets (default: <root>/infra/k8s/base/sealed-secrets)")
	cmd.Flags().String(config.KeyGenerator, kubernetes.GeneratorKubectl, "Manifest generator: kubectl or builtin")
	cmd.Flags().Duration(config.KeyTimeout, config.DefaultTimeout, "Timeout for each external command (0 disables)")
	cmd.Flags().String(config.KeyKubectl, "kubectl", "kubectl binary")
	cmd.Flags().String(config.KeyKubeseal, "kubeseal", "kubeseal binary")

	// Add subcommands
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newEnvCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func runSeal(cmd *cobra.Command, d deps, dryRun bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	target, err := parseTarget(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	defs, err := loadDefinitions(cfg)
	if err != nil {
		return err
	}
	defs = registry.Filter(defs, target)

	runner := d.newRunner(cfg.Timeout)
	generator, err := kubernetes.NewManifestGenerator(cfg.Generator, runner, cfg.KubectlPath)
	if err != nil {
		return err
	}
	sealer := kubernetes.NewKubeseal(runner, cfg.KubesealPath, cfg.CertPath)

	service := usecase.NewSealService(
		newResolver(cfg, logger),
		assembler.New(generator, sealer, logger),
		logger,
	)

	summary, err := service.Run(cmd.Context(), defs, usecase.SealOptions{
		CertPath:  cfg.CertPath,
		OutputDir: cfg.OutputDir,
		DryRun:    dryRun,
	})
	if err != nil {
		return err
	}

	logger.Printf("\nDone: %d processed, %d written, %d failed",
		len(summary.Processed), len(summary.Written), len(summary.Failed))
	if len(summary.Failed) > 0 {
		logger.Warnf("Failed: %s", strings.Join(summary.Failed, ", "))
	}

	return nil
}

func targetNames() string {
	names := make([]string, 0, len(registry.Targets))
	for _, t := range registry.Targets {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sealenv version %s\n", version.Version)
		},
	}
}
