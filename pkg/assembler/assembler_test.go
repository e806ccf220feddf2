package assembler

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/illumination-k/sealenv/internal/errors"
	"github.com/illumination-k/sealenv/pkg/env"
	"github.com/illumination-k/sealenv/pkg/kubernetes"
	"github.com/illumination-k/sealenv/pkg/logging"
	"github.com/illumination-k/sealenv/pkg/registry"
)

const sealedYAML = `apiVersion: bitnami.com/v1alpha1
kind: SealedSecret
metadata:
  annotations:
    sealedsecrets.bitnami.com/cluster-wide: "true"
  name: obs-db-secret
spec:
  encryptedData:
    POSTGRES_USER: AgBy3i4OJSWK+PiTySYZZA==
`

func dbDefinition(dir string) registry.Definition {
	return registry.Definition{
		Output:     "obs-db-sealed-secret.yaml",
		SourceDirs: []string{dir},
		SecretName: "obs-db-secret",
		Fields: []registry.Field{
			{Name: "POSTGRES_USER", Source: registry.FromEnv("DB_USER")},
			{Name: "POSTGRES_DB", Source: registry.FromEnv("DB_NAME")},
			{Name: "DB_USER", Source: registry.FromEnv("DB_USER")},
		},
	}
}

func newTestAssembler(runner *kubernetes.MockRunner) *Assembler {
	return New(
		kubernetes.NewBuiltinGenerator(),
		kubernetes.NewKubeseal(runner, "", "/certs/pub-cert.pem"),
		logging.Discard(),
	)
}

func TestAssemble_Success(t *testing.T) {
	runner := kubernetes.NewMockRunner()
	runner.SetResponse("kubeseal", sealedYAML, "", 0)
	a := newTestAssembler(runner)

	result, err := a.Assemble(context.Background(), dbDefinition(t.TempDir()), env.Map{
		"DB_USER": "admin",
		"DB_NAME": "observer",
	})
	require.NoError(t, err)
	assert.Equal(t, sealedYAML, string(result.Output))
	require.NotNil(t, result.Summary)
	assert.True(t, result.Summary.ClusterWide)

	commands := runner.GetCommands()
	require.Len(t, commands, 1)
	assert.Equal(t, "kubeseal", commands[0].Name)

	var manifest map[string]any
	require.NoError(t, json.Unmarshal(commands[0].Stdin, &manifest))
	metadata := manifest["metadata"].(map[string]any)
	assert.Equal(t, "obs-db-secret", metadata["name"])
	assert.NotContains(t, metadata, "namespace")
	assert.NotContains(t, metadata, "creationTimestamp")

	data := manifest["data"].(map[string]any)
	assert.Len(t, data, 3)
	assert.Equal(t, "YWRtaW4=", data["POSTGRES_USER"])
	assert.Equal(t, "YWRtaW4=", data["DB_USER"])
}

func TestAssemble_KubectlStripsNamespace(t *testing.T) {
	runner := kubernetes.NewMockRunner()
	runner.SetResponse("kubectl create secret generic", `{
  "kind": "Secret",
  "apiVersion": "v1",
  "metadata": {"name": "obs-db-secret", "namespace": "default", "creationTimestamp": null},
  "data": {"POSTGRES_USER": "YWRtaW4="}
}`, "", 0)
	runner.SetResponse("kubeseal", sealedYAML, "", 0)

	a := New(
		kubernetes.NewKubectlGenerator(runner, ""),
		kubernetes.NewKubeseal(runner, "", "/certs/pub-cert.pem"),
		logging.Discard(),
	)

	_, err := a.Assemble(context.Background(), dbDefinition(t.TempDir()), env.Map{
		"DB_USER": "admin",
		"DB_NAME": "observer",
	})
	require.NoError(t, err)

	commands := runner.GetCommands()
	require.Len(t, commands, 2)
	assert.Equal(t, "kubectl", commands[0].Name)
	assert.Contains(t, commands[0].Args, "POSTGRES_DB=observer")

	var manifest map[string]any
	require.NoError(t, json.Unmarshal(commands[1].Stdin, &manifest))
	metadata := manifest["metadata"].(map[string]any)
	assert.NotContains(t, metadata, "namespace")
	assert.NotContains(t, metadata, "creationTimestamp")
}

func TestAssemble_MissingFieldsRunsNothing(t *testing.T) {
	runner := kubernetes.NewMockRunner()
	a := newTestAssembler(runner)

	_, err := a.Assemble(context.Background(), dbDefinition(t.TempDir()), env.Map{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, serrors.ErrMissingField))
	assert.Contains(t, err.Error(), "POSTGRES_USER(from DB_USER)")
	assert.Contains(t, err.Error(), "POSTGRES_DB(from DB_NAME)")
	assert.Contains(t, err.Error(), "DB_USER(from DB_USER)")
	assert.Empty(t, runner.GetCommands())
}

func TestAssemble_MissingFileRunsNothing(t *testing.T) {
	runner := kubernetes.NewMockRunner()
	a := newTestAssembler(runner)

	def := registry.Definition{
		Output:     "qts-credentials-sealed-secret.yaml",
		SourceDirs: []string{t.TempDir()},
		SecretName: "qts-credentials",
		Fields: []registry.Field{
			{Name: "credentials.json", Source: registry.FromFile("credentials.json")},
		},
	}

	_, err := a.Assemble(context.Background(), def, env.Map{})
	require.Error(t, err)

	var missing *MissingFileError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"credentials.json"}, missing.Files)
	assert.True(t, errors.Is(err, serrors.ErrMissingFile))
	assert.Empty(t, runner.GetCommands())
}

func TestAssemble_SealFailure(t *testing.T) {
	runner := kubernetes.NewMockRunner()
	runner.SetResponse("kubeseal", "", "error: cannot read certificate", 1)
	a := newTestAssembler(runner)

	_, err := a.Assemble(context.Background(), dbDefinition(t.TempDir()), env.Map{
		"DB_USER": "admin",
		"DB_NAME": "observer",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, serrors.ErrSealingFailed))

	var cmdErr *kubernetes.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Contains(t, cmdErr.Stderr, "cannot read certificate")
}

func TestAssemble_UninspectableOutputStillSucceeds(t *testing.T) {
	runner := kubernetes.NewMockRunner()
	runner.SetResponse("kubeseal", "kind: [unclosed", "", 0)
	a := newTestAssembler(runner)

	result, err := a.Assemble(context.Background(), dbDefinition(t.TempDir()), env.Map{
		"DB_USER": "admin",
		"DB_NAME": "observer",
	})
	require.NoError(t, err)
	assert.Nil(t, result.Summary)
	assert.Equal(t, "kind: [unclosed", string(result.Output))
}

func TestPrepare(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(second, "credentials.json"), []byte(`{"second":true}`), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(first, "token.json"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(second, "token.json"), []byte(`{}`), 0o600))

	tests := []struct {
		name        string
		fields      []registry.Field
		vars        env.Map
		wantErr     []error
		wantLiteral []kubernetes.Literal
		wantFiles   map[string]string
	}{
		{
			name: "env fields keep declaration order",
			fields: []registry.Field{
				{Name: "B", Source: registry.FromEnv("VAR_B")},
				{Name: "A", Source: registry.FromEnv("VAR_A")},
			},
			vars: env.Map{"VAR_A": "a", "VAR_B": "b"},
			wantLiteral: []kubernetes.Literal{
				{Key: "B", Value: "b"},
				{Key: "A", Value: "a"},
			},
		},
		{
			name: "empty value is present",
			fields: []registry.Field{
				{Name: "EMPTY", Source: registry.FromEnv("EMPTY")},
			},
			vars:        env.Map{"EMPTY": ""},
			wantLiteral: []kubernetes.Literal{{Key: "EMPTY", Value: ""}},
		},
		{
			name: "file found in later dir and directories are skipped",
			fields: []registry.Field{
				{Name: "credentials.json", Source: registry.FromFile("credentials.json")},
				{Name: "token.json", Source: registry.FromFile("token.json")},
			},
			wantFiles: map[string]string{
				"credentials.json": filepath.Join(second, "credentials.json"),
				"token.json":       filepath.Join(second, "token.json"),
			},
		},
		{
			name: "missing env and missing file reported together",
			fields: []registry.Field{
				{Name: "KEY", Source: registry.FromEnv("MISSING")},
				{Name: "nope.json", Source: registry.FromFile("nope.json")},
			},
			wantErr: []error{serrors.ErrMissingField, serrors.ErrMissingFile},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := registry.Definition{
				Output:     "out.yaml",
				SourceDirs: []string{first, second},
				SecretName: "test",
				Fields:     tt.fields,
			}

			req, err := Prepare(def, tt.vars)
			if len(tt.wantErr) > 0 {
				require.Error(t, err)
				for _, want := range tt.wantErr {
					assert.ErrorIs(t, err, want)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "test", req.Name)
			if tt.wantLiteral != nil {
				assert.Equal(t, tt.wantLiteral, req.Literals)
			}
			for _, f := range req.Files {
				assert.Equal(t, tt.wantFiles[f.Key], f.Path)
				assert.NotEmpty(t, f.Content)
			}
			assert.Len(t, req.Files, len(tt.wantFiles))
		})
	}
}
