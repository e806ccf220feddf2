package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/illumination-k/sealenv/pkg/config"
	"github.com/illumination-k/sealenv/pkg/registry"
)

func newListCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List the secret definitions of the registry",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, yaml")

	return cmd
}

func runList(cmd *cobra.Command, outputFormat string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	target, err := parseTarget(cmd)
	if err != nil {
		return err
	}

	defs, err := loadDefinitions(cfg)
	if err != nil {
		return err
	}
	defs = registry.Filter(defs, target)

	switch outputFormat {
	case "yaml":
		return outputYAML(cmd.OutOrStdout(), defs, cfg)
	case "table":
		return outputTable(cmd.OutOrStdout(), defs)
	default:
		return fmt.Errorf("unknown output format %q (expected table or yaml)", outputFormat)
	}
}

func outputTable(out io.Writer, defs []registry.Definition) error {
	if len(defs) == 0 {
		_, _ = fmt.Fprintln(out, "No definitions found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	_, _ = fmt.Fprintln(w, "OUTPUT\tSECRET\tSOURCE\tFIELDS")

	for _, d := range defs {
		fields := make([]string, 0, len(d.Fields))
		for _, f := range d.Fields {
			if f.Source.Kind == registry.SourceFile {
				fields = append(fields, f.Name+"(file)")
			} else {
				fields = append(fields, f.Name)
			}
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			d.Output,
			d.SecretName,
			strings.Join(d.SourceDirs, ","),
			strings.Join(fields, ","),
		)
	}

	return nil
}

func outputYAML(out io.Writer, defs []registry.Definition, cfg *config.Config) error {
	data, err := registry.Encode(defs, registryBase(cfg))
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}
	_, err = out.Write(data)
	return err
}
