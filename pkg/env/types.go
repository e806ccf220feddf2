package env

// Map is a merged set of environment variables (name -> value)
type Map map[string]string

// Candidate file names loaded for every source directory
const (
	SharedFile = ".env.shared"
	EnvFile    = ".env"
	LocalFile  = ".env.local"
)

// SkippedLine records a non-comment line that could not be parsed as KEY=VALUE.
// The line text is not kept since it may carry a secret.
type SkippedLine struct {
	Line   int
	Reason string
}
