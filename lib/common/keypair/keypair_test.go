package keypair

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignatureRoundTrip(t *testing.T) {
	kp := Random()
	networkID := []byte("obscura-unittest")

	signature, err := MakeSignature(kp, networkID, "findme")
	require.NoError(t, err)

	require.NoError(t, VerifySignature(kp.Address(), networkID, "findme", signature))
	require.Error(t, VerifySignature(kp.Address(), networkID, "killme", signature))
	require.Error(t, VerifySignature(kp.Address(), []byte("another-network"), "findme", signature))
	require.Error(t, VerifySignature(Random().Address(), networkID, "findme", signature))
	require.Error(t, VerifySignature("showme", networkID, "findme", signature))
}

func TestIsAddress(t *testing.T) {
	kp := Random()

	require.True(t, IsAddress(kp.Address()))
	require.False(t, IsAddress(kp.Seed()))
	require.False(t, IsAddress("showme"))
}
