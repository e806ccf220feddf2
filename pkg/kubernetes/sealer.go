package kubernetes

import (
	"context"
	"fmt"

	serrors "github.com/illumination-k/sealenv/internal/errors"
)

// ScopeClusterWide lets the sealed secret be decrypted in any namespace
const ScopeClusterWide = "cluster-wide"

// Kubeseal seals Secret manifests with the kubeseal CLI and a public certificate.
// It never contacts the cluster: the certificate is always passed explicitly.
type Kubeseal struct {
	runner   Runner
	binary   string
	certPath string
}

// NewKubeseal creates a Kubeseal sealer. An empty binary means "kubeseal" on PATH.
func NewKubeseal(runner Runner, binary, certPath string) *Kubeseal {
	if binary == "" {
		binary = "kubeseal"
	}
	return &Kubeseal{
		runner:   runner,
		binary:   binary,
		certPath: certPath,
	}
}

// Args returns the kubeseal arguments
func (k *Kubeseal) Args() []string {
	return []string{
		"--cert", k.certPath,
		"--scope", ScopeClusterWide,
		"--format", "yaml",
	}
}

// Seal pipes manifest to kubeseal on stdin and returns the sealed YAML
func (k *Kubeseal) Seal(ctx context.Context, manifest []byte) ([]byte, error) {
	result, err := k.runner.Run(ctx, k.binary, k.Args(), manifest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", serrors.ErrSealingFailed, err)
	}
	if len(result.Stdout) == 0 {
		return nil, fmt.Errorf("%w: %s produced no output", serrors.ErrSealingFailed, k.binary)
	}
	return result.Stdout, nil
}
