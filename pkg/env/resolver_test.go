package env

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illumination-k/sealenv/pkg/logging"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func bufferLogger() (*logging.Logger, *bytes.Buffer) {
	color.NoColor = true
	var buf bytes.Buffer
	return &logging.Logger{Out: &buf, Err: &buf, Verbose: true}, &buf
}

func TestCandidateFiles(t *testing.T) {
	dir := filepath.Join("repo", "prj", "config")
	got := CandidateFiles(dir)

	assert.Equal(t, []string{
		filepath.Join("repo", "prj", "config", ".env.shared"),
		filepath.Join("repo", "prj", "config", ".env"),
		filepath.Join("repo", "prj", ".env"),
		filepath.Join("repo", "prj", "config", ".env.local"),
	}, got)
}

func TestResolver_Precedence(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "prj", "config")

	writeFile(t, filepath.Join(dir, ".env.shared"), "A=shared\nB=shared\nC=shared\nD=shared\n")
	writeFile(t, filepath.Join(dir, ".env"), "B=local-env\nC=local-env\nD=local-env\n")
	writeFile(t, filepath.Join(root, "prj", ".env"), "C=parent\nD=parent\n")
	writeFile(t, filepath.Join(dir, ".env.local"), "D=override\n")

	got, _ := NewResolver(logging.Discard(), nil).Resolve([]string{dir})

	assert.Equal(t, Map{
		"A": "shared",
		"B": "local-env",
		"C": "parent",
		"D": "override",
	}, got)
}

func TestResolver_SharedOverriddenByEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env.shared"), "DB_USER=base\n")
	writeFile(t, filepath.Join(dir, ".env"), "DB_USER=override\n")

	got, _ := NewResolver(logging.Discard(), nil).Resolve([]string{dir})
	assert.Equal(t, "override", got["DB_USER"])
}

func TestResolver_LaterDirectoryWins(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "a", "config")
	second := filepath.Join(root, "b", "config")

	// .env.local of the first dir still loses against the lowest file of the second
	writeFile(t, filepath.Join(first, ".env.local"), "KEY=first\nONLY_FIRST=1\n")
	writeFile(t, filepath.Join(second, ".env.shared"), "KEY=second\n")

	got, _ := NewResolver(logging.Discard(), nil).Resolve([]string{first, second})

	assert.Equal(t, "second", got["KEY"])
	assert.Equal(t, "1", got["ONLY_FIRST"])
}

func TestResolver_MissingFilesAreSilent(t *testing.T) {
	logger, buf := bufferLogger()
	logger.Verbose = false

	got, _ := NewResolver(logger, nil).Resolve([]string{filepath.Join(t.TempDir(), "nothing", "here")})

	assert.Empty(t, got)
	assert.Empty(t, buf.String())
}

func TestResolver_UnreadableFileWarns(t *testing.T) {
	dir := t.TempDir()
	// A directory named .env exists but cannot be read as a file
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".env"), 0o750))
	writeFile(t, filepath.Join(dir, ".env.local"), "KEY=value\n")

	logger, buf := bufferLogger()
	got, loaded := NewResolver(logger, nil).Resolve([]string{dir})

	assert.Equal(t, Map{"KEY": "value"}, got)
	assert.Equal(t, []string{filepath.Join(dir, ".env.local")}, loaded)
	assert.Contains(t, buf.String(), "[warn] Failed to read")
}

func TestResolver_InaccessibleCandidatesWarnOnce(t *testing.T) {
	root := t.TempDir()
	// Candidates below a regular file fail with ENOTDIR rather than not-exist
	writeFile(t, filepath.Join(root, "blocker"), "not a directory\n")
	dir := filepath.Join(root, "blocker", "config")

	logger, buf := bufferLogger()
	got, loaded := NewResolver(logger, nil).Resolve([]string{dir})

	assert.Empty(t, got)
	assert.Empty(t, loaded)
	assert.Equal(t, len(CandidateFiles(dir)), strings.Count(buf.String(), "Cannot access"))
}

func TestResolver_Sources(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "config")
	writeFile(t, filepath.Join(dir, ".env.local"), "X=1\n")
	writeFile(t, filepath.Join(root, ".env"), "Y=2\n")

	got := NewResolver(logging.Discard(), nil).Sources([]string{dir})

	assert.Equal(t, []string{
		filepath.Join(root, ".env"),
		filepath.Join(dir, ".env.local"),
	}, got)
}

func TestResolver_IgnoreCheckWarns(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "config")
	writeFile(t, filepath.Join(dir, ".env"), "X=1\n")
	writeFile(t, filepath.Join(dir, ".env.local"), "Y=2\n")
	writeFile(t, filepath.Join(root, ".gitignore"), "*.local\n")

	logger, buf := bufferLogger()
	_, _ = NewResolver(logger, NewIgnoreChecker()).Resolve([]string{dir})

	out := buf.String()
	assert.Contains(t, out, filepath.Join(dir, ".env")+" is not covered by a .gitignore")
	assert.NotContains(t, out, filepath.Join(dir, ".env.local")+" is not covered")
}
