package guard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuard(t *testing.T) {
	var g Guard
	require.NoError(t, g.Enter())
	require.True(t, g.Held())
	require.ErrorIs(t, g.Enter(), ErrReentrant)
	g.Exit()
	require.False(t, g.Held())
	require.NoError(t, g.Enter())
	g.Exit()
}
