package registry

import "fmt"

// SourceKind tells where the value of a Secret field comes from
type SourceKind int

const (
	// SourceEnv reads the value of an environment variable from the merged dotenv files
	SourceEnv SourceKind = iota
	// SourceFile reads the raw bytes of a file found in the source directories
	SourceFile
)

func (k SourceKind) String() string {
	switch k {
	case SourceEnv:
		return "env"
	case SourceFile:
		return "file"
	default:
		return fmt.Sprintf("SourceKind(%d)", int(k))
	}
}

// Source is the origin of a field value: an env var name or a file name
type Source struct {
	Kind SourceKind
	Name string
}

// FromEnv returns a Source reading environment variable name
func FromEnv(name string) Source {
	return Source{Kind: SourceEnv, Name: name}
}

// FromFile returns a Source reading the file name from the source directories
func FromFile(name string) Source {
	return Source{Kind: SourceFile, Name: name}
}

// Field maps a Secret data key to its source
type Field struct {
	Name   string
	Source Source
}

// Definition describes one sealed secret file
type Definition struct {
	// Output is the sealed file name and the unique key of the definition
	Output string
	// SourceDirs are searched in order; later directories override earlier ones
	SourceDirs []string
	// SecretName is metadata.name of the generated Secret
	SecretName string
	// Fields are kept in declaration order
	Fields []Field
}

// EnvFields returns the fields sourced from environment variables
func (d Definition) EnvFields() []Field {
	return d.fieldsOf(SourceEnv)
}

// FileFields returns the fields sourced from files
func (d Definition) FileFields() []Field {
	return d.fieldsOf(SourceFile)
}

func (d Definition) fieldsOf(kind SourceKind) []Field {
	var fields []Field
	for _, f := range d.Fields {
		if f.Source.Kind == kind {
			fields = append(fields, f)
		}
	}
	return fields
}

// envField and fileField keep the built-in table short
func envField(name, variable string) Field {
	return Field{Name: name, Source: FromEnv(variable)}
}

func fileField(name, file string) Field {
	return Field{Name: name, Source: FromFile(file)}
}
