package kubernetes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/illumination-k/sealenv/internal/errors"
)

func TestKubeseal_Seal(t *testing.T) {
	runner := NewMockRunner()
	runner.SetResponse("kubeseal", "kind: SealedSecret\n", "", 0)

	out, err := NewKubeseal(runner, "", "/deploy/pub-cert.pem").Seal(context.Background(), []byte(`{"kind":"Secret"}`))
	require.NoError(t, err)
	assert.Equal(t, "kind: SealedSecret\n", string(out))

	cmds := runner.GetCommands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "kubeseal", cmds[0].Name)
	assert.Equal(t, []string{"--cert", "/deploy/pub-cert.pem", "--scope", "cluster-wide", "--format", "yaml"}, cmds[0].Args)
	assert.Equal(t, `{"kind":"Secret"}`, string(cmds[0].Stdin))
}

func TestKubeseal_Failure(t *testing.T) {
	runner := NewMockRunner()
	runner.SetResponse("/opt/bin/kubeseal", "", "error: bad certificate", 2)

	_, err := NewKubeseal(runner, "/opt/bin/kubeseal", "cert.pem").Seal(context.Background(), []byte("{}"))
	require.Error(t, err)

	assert.True(t, errors.Is(err, serrors.ErrSealingFailed))
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "/opt/bin/kubeseal --cert cert.pem --scope cluster-wide --format yaml", cmdErr.CommandLine())
	assert.Contains(t, err.Error(), "error: bad certificate")
}

func TestKubeseal_EmptyOutput(t *testing.T) {
	runner := NewMockRunner()

	_, err := NewKubeseal(runner, "", "cert.pem").Seal(context.Background(), []byte("{}"))
	assert.True(t, errors.Is(err, serrors.ErrSealingFailed))
}
