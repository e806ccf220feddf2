package kubernetes

import (
	"context"
	"errors"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"

	serrors "github.com/illumination-k/sealenv/internal/errors"
)

// Generator names accepted in configuration
const (
	GeneratorKubectl = "kubectl"
	GeneratorBuiltin = "builtin"
)

const redacted = "<REDACTED>"

// Literal is a Secret field populated from a string value
type Literal struct {
	Key   string
	Value string
}

// FileEntry is a Secret field populated from the raw contents of a file
type FileEntry struct {
	Key     string
	Path    string
	Content []byte
}

// SecretRequest describes an Opaque Secret to render
type SecretRequest struct {
	Name     string
	Literals []Literal
	Files    []FileEntry
}

// Data returns every field of the request as raw bytes
func (r SecretRequest) Data() map[string][]byte {
	data := make(map[string][]byte, len(r.Literals)+len(r.Files))
	for _, l := range r.Literals {
		data[l.Key] = []byte(l.Value)
	}
	for _, f := range r.Files {
		data[f.Key] = f.Content
	}
	return data
}

// ManifestGenerator renders an unsealed Secret manifest without contacting a cluster
type ManifestGenerator interface {
	Generate(ctx context.Context, req SecretRequest) (*unstructured.Unstructured, error)
}

// NewManifestGenerator returns the generator registered under name
func NewManifestGenerator(name string, runner Runner, kubectlPath string) (ManifestGenerator, error) {
	switch name {
	case "", GeneratorKubectl:
		return NewKubectlGenerator(runner, kubectlPath), nil
	case GeneratorBuiltin:
		return NewBuiltinGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown manifest generator %q (expected %s or %s)", name, GeneratorKubectl, GeneratorBuiltin)
	}
}

// KubectlGenerator renders manifests with `kubectl create secret generic --dry-run=client`
type KubectlGenerator struct {
	runner Runner
	binary string
}

// NewKubectlGenerator creates a KubectlGenerator. An empty binary means "kubectl" on PATH.
func NewKubectlGenerator(runner Runner, binary string) *KubectlGenerator {
	if binary == "" {
		binary = "kubectl"
	}
	return &KubectlGenerator{runner: runner, binary: binary}
}

// Args builds the kubectl arguments; literal values are masked when redact is true
func (g *KubectlGenerator) Args(req SecretRequest, redact bool) []string {
	args := []string{"create", "secret", "generic", req.Name, "--dry-run=client", "-o", "json"}
	for _, l := range req.Literals {
		value := l.Value
		if redact {
			value = redacted
		}
		args = append(args, "--from-literal", l.Key+"="+value)
	}
	for _, f := range req.Files {
		args = append(args, "--from-file", f.Key+"="+f.Path)
	}
	return args
}

// Generate runs kubectl and decodes its JSON output
func (g *KubectlGenerator) Generate(ctx context.Context, req SecretRequest) (*unstructured.Unstructured, error) {
	result, err := g.runner.Run(ctx, g.binary, g.Args(req, false), nil)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			// Never surface literal values in logs
			cmdErr.Command = append([]string{g.binary}, g.Args(req, true)...)
		}
		return nil, fmt.Errorf("%w: %w", serrors.ErrManifestGenerationFailed, err)
	}

	obj := &unstructured.Unstructured{}
	if err := obj.UnmarshalJSON(result.Stdout); err != nil {
		return nil, fmt.Errorf("%w: failed to decode kubectl output: %w", serrors.ErrManifestGenerationFailed, err)
	}

	return obj, nil
}

// BuiltinGenerator renders manifests in process from corev1 types
type BuiltinGenerator struct{}

// NewBuiltinGenerator creates a BuiltinGenerator
func NewBuiltinGenerator() *BuiltinGenerator {
	return &BuiltinGenerator{}
}

// Generate builds a corev1.Secret and converts it to its unstructured form
func (g *BuiltinGenerator) Generate(_ context.Context, req SecretRequest) (*unstructured.Unstructured, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: secret name is required", serrors.ErrManifestGenerationFailed)
	}

	secret := &corev1.Secret{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Secret",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: req.Name,
		},
		Data: req.Data(),
		Type: corev1.SecretTypeOpaque,
	}

	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", serrors.ErrManifestGenerationFailed, err)
	}

	return &unstructured.Unstructured{Object: content}, nil
}

// StripClusterMetadata removes metadata.namespace and metadata.creationTimestamp.
// The sealed result is then portable across namespaces. Safe to call repeatedly.
func StripClusterMetadata(obj *unstructured.Unstructured) {
	if obj == nil || obj.Object == nil {
		return
	}
	unstructured.RemoveNestedField(obj.Object, "metadata", "namespace")
	unstructured.RemoveNestedField(obj.Object, "metadata", "creationTimestamp")
}
