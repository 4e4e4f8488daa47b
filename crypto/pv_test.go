package crypto

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	eth_crypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeyFile(t *testing.T) {
	k, err := GenerateKey()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "key")
	raw := hex.EncodeToString(eth_crypto.FromECDSA(k.PrivateKey()))
	require.NoError(t, os.WriteFile(path, []byte("0x"+raw+"\n"), 0o600))

	loaded, err := LoadKeyFile(path)
	require.NoError(t, err)
	assert.Equal(t, k.Address(), loaded.Address())

	msg := []byte("govd")
	sig, err := loaded.Sign(msg)
	require.NoError(t, err)
	pub, err := eth_crypto.SigToPub(eth_crypto.Keccak256(msg), sig)
	require.NoError(t, err)
	assert.Equal(t, k.Address(), eth_crypto.PubkeyToAddress(*pub))

	_, err = ParseKey("zz")
	require.Error(t, err)
}
