package env

import (
	"fmt"

	"github.com/joho/godotenv"
)

// RedactedValue replaces secret values in dumps
const RedactedValue = "<REDACTED>"

// Marshal renders vars in dotenv format with keys sorted.
// Values are replaced with RedactedValue unless reveal is true.
func Marshal(vars Map, reveal bool) (string, error) {
	out := make(map[string]string, len(vars))
	for key, value := range vars {
		if reveal {
			out[key] = value
		} else {
			out[key] = RedactedValue
		}
	}

	content, err := godotenv.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to render dotenv: %w", err)
	}
	return content, nil
}
