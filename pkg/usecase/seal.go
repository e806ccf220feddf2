package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	serrors "github.com/illumination-k/sealenv/internal/errors"
	"github.com/illumination-k/sealenv/pkg/assembler"
	"github.com/illumination-k/sealenv/pkg/env"
	"github.com/illumination-k/sealenv/pkg/kubernetes"
	"github.com/illumination-k/sealenv/pkg/logging"
	"github.com/illumination-k/sealenv/pkg/registry"
)

// SealedFileMode is the mode of written sealed secrets; they are meant to be committed
const SealedFileMode os.FileMode = 0o644

// SealOptions contains all options for a sealing run
type SealOptions struct {
	CertPath  string
	OutputDir string
	DryRun    bool
}

// Summary reports the outcome of a run, by output filename
type Summary struct {
	Processed []string
	Written   []string
	Failed    []string
}

// SealService drives the per-definition pipeline: resolve, assemble, write
type SealService struct {
	resolver  *env.Resolver
	assembler *assembler.Assembler
	logger    *logging.Logger
	now       func() time.Time
}

// NewSealService creates a SealService
func NewSealService(resolver *env.Resolver, asm *assembler.Assembler, logger *logging.Logger) *SealService {
	return &SealService{
		resolver:  resolver,
		assembler: asm,
		logger:    logger,
		now:       time.Now,
	}
}

// Run seals every definition in order. A missing certificate aborts the run
// before anything is processed. An invalid definition or any other failure is
// reported and the remaining definitions still run.
func (s *SealService) Run(ctx context.Context, defs []registry.Definition, opts SealOptions) (*Summary, error) {
	if err := s.checkCertificate(opts.CertPath); err != nil {
		return nil, err
	}

	s.logger.Printf("Target directory for sealed secrets: %s", opts.OutputDir)
	if opts.DryRun {
		s.logger.Printf("Running in dry-run mode (no files will be written)")
	}

	summary := &Summary{}
	for _, def := range defs {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("interrupted before %s: %w", def.Output, err)
		}

		summary.Processed = append(summary.Processed, def.Output)
		written, err := s.sealOne(ctx, def, opts)
		if err != nil {
			s.reportFailure(def, err)
			summary.Failed = append(summary.Failed, def.Output)
			continue
		}
		if written {
			summary.Written = append(summary.Written, def.Output)
		}
	}

	return summary, nil
}

func (s *SealService) checkCertificate(path string) error {
	s.logger.Printf("Checking for public certificate at: %s", path)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: public certificate not found at %s", serrors.ErrPrerequisiteMissing, path)
	}

	cert, err := kubernetes.InspectCertificate(path, s.now())
	switch {
	case err != nil:
		s.logger.Warnf("%v", err)
	case cert.Expired:
		s.logger.Warnf("Certificate %s expired on %s", cert.Subject, cert.NotAfter.Format(time.RFC3339))
	default:
		s.logger.Debugf("Certificate %s valid until %s", cert.Subject, cert.NotAfter.Format(time.RFC3339))
	}

	return nil
}

func (s *SealService) sealOne(ctx context.Context, def registry.Definition, opts SealOptions) (bool, error) {
	s.logger.Printf("\nProcessing %s...", def.Output)

	if err := registry.ValidateDefinition(def); err != nil {
		return false, fmt.Errorf("invalid definition: %w", err)
	}

	vars, _ := s.resolver.Resolve(def.SourceDirs)

	result, err := s.assembler.Assemble(ctx, def, vars)
	if err != nil {
		return false, err
	}
	if result.Summary != nil {
		s.logger.Debugf("Sealed %s %q (cluster-wide: %t, fields: %s)",
			result.Summary.Kind, result.Summary.Name, result.Summary.ClusterWide, strings.Join(result.Summary.Fields, ", "))
	}

	path := filepath.Join(opts.OutputDir, def.Output)
	if opts.DryRun {
		s.logger.Printf("  [dry-run] Would write to %s", path)
		return false, nil
	}

	if err := WriteFileAtomic(path, result.Output, SealedFileMode); err != nil {
		return false, err
	}
	s.logger.Successf("Wrote %s", path)

	return true, nil
}

func (s *SealService) reportFailure(def registry.Definition, err error) {
	switch {
	case errors.Is(err, serrors.ErrMissingField), errors.Is(err, serrors.ErrMissingFile):
		for _, e := range unjoin(err) {
			s.logger.Errorf("%s: %v", def.Output, e)
		}
	default:
		s.logger.Errorf("%s: %v", def.Output, err)
	}

	var cmdErr *kubernetes.CommandError
	if errors.As(err, &cmdErr) && cmdErr.TimedOut {
		s.logger.Errorf("%s: command timed out; raise --timeout if the tool is slow to start", def.Output)
	}
}

// unjoin splits an errors.Join result so each cause gets its own line
func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
