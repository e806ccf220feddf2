package kubernetes

import (
	"fmt"
	"os"
	"time"

	"k8s.io/client-go/util/cert"
)

// CertificateInfo summarizes the sealing certificate
type CertificateInfo struct {
	Subject  string
	NotAfter time.Time
	Expired  bool
}

// InspectCertificate parses the first certificate of a PEM file
func InspectCertificate(path string, now time.Time) (*CertificateInfo, error) {
	// #nosec G304 -- certificate path comes from configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate: %w", err)
	}

	certs, err := cert.ParseCertsPEM(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate %s: %w", path, err)
	}

	first := certs[0]
	return &CertificateInfo{
		Subject:  first.Subject.String(),
		NotAfter: first.NotAfter,
		Expired:  now.After(first.NotAfter),
	}, nil
}
