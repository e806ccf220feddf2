package env

import (
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoreChecker tells whether a file is excluded by the .gitignore next to it
// or by the one in its parent directory.
type IgnoreChecker struct {
	matchers map[string]*ignore.GitIgnore
}

// NewIgnoreChecker creates an IgnoreChecker with an empty matcher cache
func NewIgnoreChecker() *IgnoreChecker {
	return &IgnoreChecker{matchers: make(map[string]*ignore.GitIgnore)}
}

// IsIgnored reports whether path is matched by a nearby .gitignore
func (c *IgnoreChecker) IsIgnored(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	dir := filepath.Dir(absPath)
	for _, base := range []string{dir, filepath.Dir(dir)} {
		matcher := c.matcher(base)
		if matcher == nil {
			continue
		}

		rel, err := filepath.Rel(base, absPath)
		if err != nil {
			continue
		}
		if matcher.MatchesPath(filepath.ToSlash(rel)) {
			return true
		}
	}

	return false
}

func (c *IgnoreChecker) matcher(dir string) *ignore.GitIgnore {
	if m, ok := c.matchers[dir]; ok {
		return m
	}

	var m *ignore.GitIgnore
	gitignorePath := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		compiled, err := ignore.CompileIgnoreFile(gitignorePath)
		if err == nil {
			m = compiled
		}
		// A malformed .gitignore is treated as absent
	}

	c.matchers[dir] = m
	return m
}
