package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	vars := Map{"B_KEY": "secret", "A_KEY": "hunter2"}

	redacted, err := Marshal(vars, false)
	require.NoError(t, err)
	assert.Equal(t, "A_KEY=\"<REDACTED>\"\nB_KEY=\"<REDACTED>\"", redacted)
	assert.NotContains(t, redacted, "hunter2")

	revealed, err := Marshal(vars, true)
	require.NoError(t, err)
	assert.Contains(t, revealed, "A_KEY=\"hunter2\"")
	assert.Contains(t, revealed, "B_KEY=\"secret\"")
}
