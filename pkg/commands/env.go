package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/illumination-k/sealenv/pkg/assembler"
	"github.com/illumination-k/sealenv/pkg/env"
	"github.com/illumination-k/sealenv/pkg/registry"
)

func newEnvCommand() *cobra.Command {
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "env <output>",
		Short: "Print the merged environment of a definition",
		Long: `Print the environment that would be used to build the secret written to <output>,
in dotenv format, preceded by the files it was loaded from.
Values are redacted unless --show-secrets is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnv(cmd, args[0], showSecrets)
		},
	}

	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print values in plain text")

	return cmd
}

func runEnv(cmd *cobra.Command, output string, showSecrets bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	defs, err := loadDefinitions(cfg)
	if err != nil {
		return err
	}
	def, ok := registry.Find(defs, output)
	if !ok {
		return fmt.Errorf("unknown output %q; run 'sealenv list' to see the definitions", output)
	}

	resolver := newResolver(cfg, logger)
	out := cmd.OutOrStdout()

	vars, sources := resolver.Resolve(def.SourceDirs)
	for _, source := range sources {
		_, _ = fmt.Fprintf(out, "# %s\n", source)
	}

	dump, err := env.Marshal(vars, showSecrets)
	if err != nil {
		return fmt.Errorf("failed to render environment: %w", err)
	}
	if dump != "" {
		_, _ = fmt.Fprintln(out, dump)
	}

	if _, err := assembler.Prepare(def, vars); err != nil {
		logger.Warnf("%s cannot be sealed yet: %v", def.Output, err)
	}

	return nil
}
