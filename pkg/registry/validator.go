package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/illumination-k/sealenv/pkg/env"
)

// ValidateOutputs rejects registries where two definitions write the same file.
// Problems local to one definition are left to ValidateDefinition.
func ValidateOutputs(defs []Definition) error {
	var errs []error
	seen := make(map[string]bool, len(defs))

	for _, d := range defs {
		if d.Output == "" {
			continue
		}
		if seen[d.Output] {
			errs = append(errs, fmt.Errorf("%s: duplicate output filename", d.Output))
		}
		seen[d.Output] = true
	}

	return errors.Join(errs...)
}

// ValidateDefinition checks a single definition and reports all of its problems at once
func ValidateDefinition(d Definition) error {
	var errs []error

	switch {
	case d.Output == "":
		errs = append(errs, errors.New("output filename is required"))
	case filepath.Base(d.Output) != d.Output:
		errs = append(errs, fmt.Errorf("output %q must be a plain file name", d.Output))
	}

	if msgs := validation.IsDNS1123Subdomain(d.SecretName); len(msgs) > 0 {
		errs = append(errs, fmt.Errorf("secret name %q: %s", d.SecretName, strings.Join(msgs, "; ")))
	}

	if len(d.SourceDirs) == 0 {
		errs = append(errs, errors.New("at least one source directory is required"))
	}

	if len(d.Fields) == 0 {
		errs = append(errs, errors.New("at least one field mapping is required"))
	}

	fieldNames := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		if msgs := validation.IsConfigMapKey(f.Name); len(msgs) > 0 {
			errs = append(errs, fmt.Errorf("field %q: %s", f.Name, strings.Join(msgs, "; ")))
		}
		if fieldNames[f.Name] {
			errs = append(errs, fmt.Errorf("field %q is mapped twice", f.Name))
		}
		fieldNames[f.Name] = true

		switch f.Source.Kind {
		case SourceEnv:
			if err := env.ValidateVarName(f.Source.Name); err != nil {
				errs = append(errs, fmt.Errorf("field %q: %w", f.Name, err))
			}
		case SourceFile:
			if !filepath.IsLocal(f.Source.Name) {
				errs = append(errs, fmt.Errorf("field %q: file %q must be relative to the source directories", f.Name, f.Source.Name))
			}
		default:
			errs = append(errs, fmt.Errorf("field %q: unknown source kind %s", f.Name, f.Source.Kind))
		}
	}

	return errors.Join(errs...)
}
