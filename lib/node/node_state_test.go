package node

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNodeInitState(t *testing.T) {
	require.Equal(t, NodeInitState, StateNONE)

	var h StateHolder
	require.Equal(t, StateNONE, h.State())
}

func TestNodeStateString(t *testing.T) {
	require.Equal(t, "NONE", StateNONE.String())
	require.Equal(t, "BOOTING", StateBOOTING.String())
	require.Equal(t, "SERVING", StateSERVING.String())
	require.Equal(t, "TERMINATING", StateTERMINATING.String())
}

func TestNodeStateJSON(t *testing.T) {
	for _, s := range []State{StateNONE, StateBOOTING, StateSERVING, StateTERMINATING} {
		b, err := s.MarshalJSON()
		require.NoError(t, err)

		var n State
		require.NoError(t, n.UnmarshalJSON(b))
		require.Equal(t, s, n)
	}

	var n State
	require.Error(t, n.UnmarshalJSON([]byte(`"SYNC"`)))
}

func TestStateHolder(t *testing.T) {
	var h StateHolder

	h.SetBooting()
	require.Equal(t, StateBOOTING, h.State())
	h.SetServing()
	require.Equal(t, StateSERVING, h.State())
	h.SetTerminating()
	require.Equal(t, StateTERMINATING, h.State())
}
