package assembler

import (
	"fmt"
	"strings"

	serrors "github.com/illumination-k/sealenv/internal/errors"
)

// MissingField is a Secret field whose environment variable is not set
type MissingField struct {
	Field    string
	Variable string
}

func (m MissingField) String() string {
	return fmt.Sprintf("%s(from %s)", m.Field, m.Variable)
}

// MissingFieldError lists every env-sourced field that could not be resolved
type MissingFieldError struct {
	Fields []MissingField
}

func (e *MissingFieldError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.String())
	}
	return fmt.Sprintf("%s: %s", serrors.ErrMissingField, strings.Join(names, ", "))
}

func (e *MissingFieldError) Unwrap() error {
	return serrors.ErrMissingField
}

// MissingFileError lists every file-sourced field whose file was not found
type MissingFileError struct {
	Files []string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s: %s", serrors.ErrMissingFile, strings.Join(e.Files, ", "))
}

func (e *MissingFileError) Unwrap() error {
	return serrors.ErrMissingFile
}
