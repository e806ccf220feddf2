package assembler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/illumination-k/sealenv/pkg/env"
	"github.com/illumination-k/sealenv/pkg/kubernetes"
	"github.com/illumination-k/sealenv/pkg/logging"
	"github.com/illumination-k/sealenv/pkg/registry"
)

// Sealer encrypts an unsealed Secret manifest
type Sealer interface {
	Seal(ctx context.Context, manifest []byte) ([]byte, error)
}

// Result is the sealed form of one definition
type Result struct {
	Output []byte
	// Summary is nil when the sealed output could not be inspected
	Summary *kubernetes.SealedSummary
}

// Assembler turns a definition and its merged environment into a sealed secret
type Assembler struct {
	generator kubernetes.ManifestGenerator
	sealer    Sealer
	logger    *logging.Logger
}

// New creates an Assembler
func New(generator kubernetes.ManifestGenerator, sealer Sealer, logger *logging.Logger) *Assembler {
	return &Assembler{
		generator: generator,
		sealer:    sealer,
		logger:    logger,
	}
}

// Assemble validates def against vars, renders the Secret, strips its
// namespace and creation timestamp, and seals it.
// Nothing is generated or sealed unless every field resolves.
func (a *Assembler) Assemble(ctx context.Context, def registry.Definition, vars env.Map) (*Result, error) {
	req, err := Prepare(def, vars)
	if err != nil {
		return nil, err
	}

	if err := env.ValidateSecretSize(req.Data()); err != nil {
		return nil, err
	}

	obj, err := a.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	kubernetes.StripClusterMetadata(obj)

	manifest, err := obj.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize manifest: %w", err)
	}
	a.logger.Debugf("Rendered %s with %d fields", def.SecretName, len(def.Fields))

	var sealed []byte
	err = a.logger.Spin("Sealing "+def.SecretName, func() error {
		var sealErr error
		sealed, sealErr = a.sealer.Seal(ctx, manifest)
		return sealErr
	})
	if err != nil {
		return nil, err
	}

	result := &Result{Output: sealed}
	summary, err := kubernetes.InspectSealed(sealed)
	if err != nil {
		a.logger.Warnf("Could not inspect sealed output of %s: %v", def.Output, err)
	} else {
		result.Summary = summary
	}

	return result, nil
}

// Prepare resolves every field of def into a SecretRequest.
// Env and file fields are both checked before failing so that one run
// reports every missing variable and every missing file.
func Prepare(def registry.Definition, vars env.Map) (kubernetes.SecretRequest, error) {
	req := kubernetes.SecretRequest{Name: def.SecretName}

	var missingFields []MissingField
	for _, f := range def.EnvFields() {
		value, ok := vars[f.Source.Name]
		if !ok {
			missingFields = append(missingFields, MissingField{Field: f.Name, Variable: f.Source.Name})
			continue
		}
		req.Literals = append(req.Literals, kubernetes.Literal{Key: f.Name, Value: value})
	}

	var missingFiles []string
	for _, f := range def.FileFields() {
		path, ok := FindFile(def.SourceDirs, f.Source.Name)
		if !ok {
			missingFiles = append(missingFiles, f.Source.Name)
			continue
		}
		req.Files = append(req.Files, kubernetes.FileEntry{Key: f.Name, Path: path})
	}

	var errs []error
	if len(missingFields) > 0 {
		errs = append(errs, &MissingFieldError{Fields: missingFields})
	}
	if len(missingFiles) > 0 {
		errs = append(errs, &MissingFileError{Files: missingFiles})
	}
	if len(errs) > 0 {
		return kubernetes.SecretRequest{}, errors.Join(errs...)
	}

	for i := range req.Files {
		// #nosec G304 -- path was found inside a configured source directory
		content, err := os.ReadFile(req.Files[i].Path)
		if err != nil {
			return kubernetes.SecretRequest{}, fmt.Errorf("failed to read %s: %w", req.Files[i].Path, err)
		}
		req.Files[i].Content = content
	}

	return req, nil
}

// FindFile returns the first dirs/name that exists and is not a directory
func FindFile(dirs []string, name string) (string, bool) {
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
