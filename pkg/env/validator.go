package env

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxSecretSize is the Kubernetes secret size limit (1MB)
	MaxSecretSize = 1 * 1024 * 1024 // 1MB in bytes
)

// ValidateVarName checks that name is a key Parse can produce: non-empty,
// without '=' or surrounding whitespace, and not starting with '#'.
// Dotenv keys such as DB-NAME or app.key are accepted.
func ValidateVarName(name string) error {
	switch {
	case name == "":
		return errors.New("variable name must not be empty")
	case strings.TrimSpace(name) != name:
		return fmt.Errorf("variable name %q must not have surrounding whitespace", name)
	case strings.Contains(name, "="):
		return fmt.Errorf("variable name %q must not contain '='", name)
	case strings.HasPrefix(name, "#"):
		return fmt.Errorf("variable name %q must not start with '#'", name)
	}
	return nil
}

// ValidateSecretSize checks if the secret data will fit in a K8s secret
func ValidateSecretSize(data map[string][]byte) error {
	// Estimate secret size by JSON marshaling (values become base64 as in the API)
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to estimate secret size: %w", err)
	}

	size := len(jsonData)
	if size > MaxSecretSize {
		return fmt.Errorf("secret data exceeds Kubernetes secret size limit (1MB): current size is %d bytes", size)
	}

	return nil
}
