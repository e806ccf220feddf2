// Package errors defines the error kinds reported while sealing secrets.
//
// Callers match them with errors.Is; the packages that produce them wrap the
// sentinels with the details needed to diagnose a failure (missing names,
// command line, captured stderr).
package errors

import "errors"

// Validation errors stop a single definition before anything is generated.
var (
	// ErrMissingField indicates one or more mapped environment variables are absent.
	ErrMissingField = errors.New("missing environment variables")

	// ErrMissingFile indicates one or more mapped files exist in none of the source directories.
	ErrMissingFile = errors.New("missing files")
)

// External command errors.
var (
	// ErrManifestGenerationFailed indicates the Secret manifest could not be rendered.
	ErrManifestGenerationFailed = errors.New("manifest generation failed")

	// ErrSealingFailed indicates the sealer rejected the manifest or could not run.
	ErrSealingFailed = errors.New("sealing failed")
)

// Run errors abort the whole batch.
var (
	// ErrPrerequisiteMissing indicates the public certificate is absent.
	ErrPrerequisiteMissing = errors.New("prerequisite missing")
)
