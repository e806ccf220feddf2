package env

import (
	"os"
	"path/filepath"

	"github.com/illumination-k/sealenv/pkg/logging"
)

// Resolver loads and merges the layered dotenv files of a set of source directories
type Resolver struct {
	logger  *logging.Logger
	ignores *IgnoreChecker
}

// NewResolver creates a Resolver. ignores may be nil to disable the .gitignore check.
func NewResolver(logger *logging.Logger, ignores *IgnoreChecker) *Resolver {
	return &Resolver{
		logger:  logger,
		ignores: ignores,
	}
}

// CandidateFiles returns the files considered for dir, lowest precedence first.
//
// The parent-level .env is checked for every directory, not only for
// layouts that keep secrets one level above their config directory.
func CandidateFiles(dir string) []string {
	return []string{
		filepath.Join(dir, SharedFile),
		filepath.Join(dir, EnvFile),
		filepath.Join(filepath.Dir(dir), EnvFile),
		filepath.Join(dir, LocalFile),
	}
}

// Sources returns the candidate files that exist, in load order
func (r *Resolver) Sources(dirs []string) []string {
	var sources []string
	for _, dir := range dirs {
		for _, path := range CandidateFiles(dir) {
			if r.exists(path) {
				sources = append(sources, path)
			}
		}
	}
	return sources
}

// Resolve merges every existing candidate file of dirs with last-wins precedence
// and returns the files it loaded, in load order.
// Later directories override earlier ones; within a directory the order of
// CandidateFiles applies. Unreadable files only produce a warning.
func (r *Resolver) Resolve(dirs []string) (Map, []string) {
	merged := make(Map)
	var loaded []string

	for _, path := range r.Sources(dirs) {
		vars, skipped, err := ParseFile(path)
		if err != nil {
			r.logger.Warnf("Failed to read %s: %v (skipping)", path, err)
			continue
		}
		loaded = append(loaded, path)
		r.logger.Infof("Loading %s", path)

		for _, s := range skipped {
			r.logger.Debugf("%s:%d: skipped line (%s)", path, s.Line, s.Reason)
		}
		r.logger.Debugf("Loaded %d variables from %s", len(vars), path)

		if r.ignores != nil && !r.ignores.IsIgnored(path) {
			r.logger.Warnf("%s is not covered by a .gitignore; plaintext secrets may be committed", path)
		}

		for key, value := range vars {
			merged[key] = value
		}
	}

	return merged, loaded
}

func (r *Resolver) exists(path string) bool {
	_, err := os.Stat(path)
	if err == nil {
		return true
	}
	if !os.IsNotExist(err) {
		r.logger.Warnf("Cannot access %s: %v (skipping)", path, err)
	}
	return false
}
