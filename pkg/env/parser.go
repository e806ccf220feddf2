package env

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineSize bounds a single dotenv line (certificates pasted inline can be long)
const maxLineSize = 1024 * 1024

// ParseFile parses a single dotenv file
func ParseFile(path string) (Map, []SkippedLine, error) {
	// #nosec G304 -- path is built from registry source directories
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	vars, skipped, err := Parse(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return vars, skipped, nil
}

// Parse reads KEY=VALUE lines.
//
// Blank lines and lines starting with '#' are ignored. Other lines are split on
// the first '=' and both sides are trimmed. A value wrapped in a matching pair of
// single or double quotes loses those quotes; anything else is kept verbatim.
// A lone quote is not a pair, so KEY=" yields a value of ".
// Lines without '=' or with an empty key are skipped and reported.
// Later occurrences of a key override earlier ones.
func Parse(r io.Reader) (Map, []SkippedLine, error) {
	vars := make(Map)
	var skipped []SkippedLine

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			skipped = append(skipped, SkippedLine{Line: lineNo, Reason: "missing '='"})
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			skipped = append(skipped, SkippedLine{Line: lineNo, Reason: "empty key"})
			continue
		}

		vars[key] = unquote(strings.TrimSpace(value))
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	return vars, skipped, nil
}

// unquote strips one pair of matching surrounding quotes
func unquote(value string) string {
	if len(value) < 2 {
		return value
	}

	first, last := value[0], value[len(value)-1]
	if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
		return value[1 : len(value)-1]
	}

	return value
}
