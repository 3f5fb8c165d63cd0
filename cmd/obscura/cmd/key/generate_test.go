package key

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	obscuracommon "boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/common/keypair"
)

func TestGenerateKP(t *testing.T) {
	{ // random
		kp, err := generateKP("", false)
		require.NoError(t, err)
		require.True(t, keypair.IsAddress(kp.Address()))
	}

	{ // from seed
		seed := keypair.Random()
		kp, err := generateKP(seed.Seed(), true)
		require.NoError(t, err)
		require.Equal(t, seed.Address(), kp.Address())
	}

	{ // address is not a seed
		_, err := generateKP(keypair.Random().Address(), true)
		require.Error(t, err)
	}

	{ // network passphrase gives the same master key
		a, err := generateKP("obscura-test-network", false)
		require.NoError(t, err)
		b, err := generateKP("obscura-test-network", false)
		require.NoError(t, err)
		require.Equal(t, a.Seed(), b.Seed())
	}
}

func TestKeyEncoders(t *testing.T) {
	passphrase := "obscura"
	kp := keyPair{Seed: "S", Address: "G", NetworkPassphrase: &passphrase}

	var b bytes.Buffer
	require.NoError(t, keyEncoders["oneline"](kp, &b))
	require.Equal(t, "S G\n", b.String())

	b.Reset()
	require.NoError(t, keyEncoders["default"](kp, &b))
	require.Contains(t, b.String(), `Network Passphrase: "obscura"`)
}

func TestGenerateTallyKey(t *testing.T) {
	key, err := generateTallyKey()
	require.NoError(t, err)
	require.Len(t, key, obscuracommon.TallyKeyLength*2)

	var config obscuracommon.Config
	require.NoError(t, config.SetTallyKeyHex(key))
}
