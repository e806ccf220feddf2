package registry

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the on-disk registry format.
// keyMap and fileMap are YAML mappings whose order is preserved.
type File struct {
	Secrets []FileDefinition `yaml:"secrets"`
}

// FileDefinition is one entry of a registry file
type FileDefinition struct {
	Output     string    `yaml:"output"`
	SecretName string    `yaml:"secretName"`
	SourceDirs []string  `yaml:"sourceDirs"`
	KeyMap     yaml.Node `yaml:"keyMap,omitempty"`
	FileMap    yaml.Node `yaml:"fileMap,omitempty"`
}

// LoadFile reads a registry file. Relative source directories resolve against baseDir.
func LoadFile(path, baseDir string) ([]Definition, error) {
	// #nosec G304 -- user-provided registry path
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	defs, err := Parse(data, baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", path, err)
	}
	return defs, nil
}

// Parse decodes registry YAML
func Parse(data []byte, baseDir string) ([]Definition, error) {
	var file File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, err
	}

	defs := make([]Definition, 0, len(file.Secrets))
	for _, fd := range file.Secrets {
		def := Definition{
			Output:     fd.Output,
			SecretName: fd.SecretName,
		}

		for _, dir := range fd.SourceDirs {
			def.SourceDirs = append(def.SourceDirs, resolveDir(baseDir, dir))
		}

		keys, err := orderedPairs(&fd.KeyMap)
		if err != nil {
			return nil, fmt.Errorf("%s: keyMap: %w", fd.Output, err)
		}
		for _, kv := range keys {
			def.Fields = append(def.Fields, envField(kv[0], kv[1]))
		}

		files, err := orderedPairs(&fd.FileMap)
		if err != nil {
			return nil, fmt.Errorf("%s: fileMap: %w", fd.Output, err)
		}
		for _, kv := range files {
			def.Fields = append(def.Fields, fileField(kv[0], kv[1]))
		}

		defs = append(defs, def)
	}

	return defs, nil
}

// Encode renders defs in the registry file format.
// Source directories below baseDir are written relative to it.
func Encode(defs []Definition, baseDir string) ([]byte, error) {
	file := File{Secrets: make([]FileDefinition, 0, len(defs))}

	for _, d := range defs {
		fd := FileDefinition{
			Output:     d.Output,
			SecretName: d.SecretName,
		}
		for _, dir := range d.SourceDirs {
			fd.SourceDirs = append(fd.SourceDirs, relativeDir(baseDir, dir))
		}
		fd.KeyMap = mappingNode(d.EnvFields())
		fd.FileMap = mappingNode(d.FileFields())
		file.Secrets = append(file.Secrets, fd)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&file); err != nil {
		return nil, fmt.Errorf("failed to encode registry: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode registry: %w", err)
	}

	return buf.Bytes(), nil
}

// orderedPairs returns the key/value pairs of a string mapping node in document order
func orderedPairs(node *yaml.Node) ([][2]string, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", node.Line)
	}

	pairs := make([][2]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: expected scalar key and value", key.Line)
		}
		pairs = append(pairs, [2]string{key.Value, value.Value})
	}
	return pairs, nil
}

func mappingNode(fields []Field) yaml.Node {
	if len(fields) == 0 {
		return yaml.Node{}
	}

	node := yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.Source.Name},
		)
	}
	return node
}

func resolveDir(baseDir, dir string) string {
	if strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, dir[2:])
		}
	}
	if filepath.IsAbs(dir) || baseDir == "" {
		return filepath.Clean(dir)
	}
	return filepath.Join(baseDir, dir)
}

func relativeDir(baseDir, dir string) string {
	if baseDir == "" {
		return dir
	}
	rel, err := filepath.Rel(baseDir, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return dir
	}
	return filepath.ToSlash(rel)
}
