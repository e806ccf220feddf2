package kubernetes

import (
	"fmt"
	"sort"

	"sigs.k8s.io/yaml"
)

// ClusterWideAnnotation is set by kubeseal on cluster-wide sealed secrets
const ClusterWideAnnotation = "sealedsecrets.bitnami.com/cluster-wide"

// SealedSummary describes a sealed secret for log output
type SealedSummary struct {
	Kind        string
	Name        string
	ClusterWide bool
	Fields      []string
}

type sealedDocument struct {
	Kind     string `json:"kind"`
	Metadata struct {
		Name        string            `json:"name"`
		Annotations map[string]string `json:"annotations,omitempty"`
	} `json:"metadata"`
	Spec struct {
		EncryptedData map[string]string `json:"encryptedData,omitempty"`
	} `json:"spec"`
}

// InspectSealed reads the kind, name and encrypted field names of kubeseal output.
// It does not check that the ciphertext is valid.
func InspectSealed(out []byte) (*SealedSummary, error) {
	var doc sealedDocument
	if err := yaml.Unmarshal(out, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse sealed output: %w", err)
	}

	fields := make([]string, 0, len(doc.Spec.EncryptedData))
	for key := range doc.Spec.EncryptedData {
		fields = append(fields, key)
	}
	sort.Strings(fields)

	return &SealedSummary{
		Kind:        doc.Kind,
		Name:        doc.Metadata.Name,
		ClusterWide: doc.Metadata.Annotations[ClusterWideAnnotation] == "true",
		Fields:      fields,
	}, nil
}
