package concurrency

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuardRejectsReentry(t *testing.T) {
	g := NewGuard()

	require.True(t, g.Enter())
	require.False(t, g.Enter(), "reentry must be rejected")

	g.Exit()
	require.True(t, g.Enter(), "guard must be reusable after exit")
	g.Exit()
}

func TestGuardExitIdempotent(t *testing.T) {
	g := NewGuard()
	g.Exit()
	require.True(t, g.Enter())
}
