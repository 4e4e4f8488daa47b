package tx

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timburman/Reactive-Governance/types"
)

func TestSignedRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sender := crypto.PubkeyToAddress(key.PublicKey)

	btx := &GovTx{
		Type:   GovTxTypeCreateProposal,
		Nonce:  7,
		Sender: sender,
		Tx: &CreateProposalTx{
			Title:       "treasury grant",
			Description: "fund the indexer work",
			Category:    types.CategoryTreasuryAction,
			Type:        types.ProposalTypeBinary,
			Target:      common.HexToAddress("0x0000000000000000000000000000000000000dae"),
			Value:       250,
		},
	}
	require.NoError(t, btx.Sign(key, "gov-1"))
	dat, err := MarshalGovTx(btx)
	require.NoError(t, err)

	decoded, err := UnmarshalGovTx(dat)
	require.NoError(t, err)
	assert.Equal(t, GovTxTypeCreateProposal, decoded.Type)
	assert.Equal(t, uint64(7), decoded.Nonce)
	body, ok := decoded.Tx.(*CreateProposalTx)
	require.True(t, ok)
	assert.Equal(t, uint64(250), body.Value)

	signer, err := decoded.Signer("gov-1")
	require.NoError(t, err)
	assert.Equal(t, sender, signer)

	other, err := decoded.Signer("gov-2")
	require.NoError(t, err)
	assert.NotEqual(t, sender, other)
}

func TestUnmarshalGovTx(t *testing.T) {
	_, err := UnmarshalGovTx([]byte(`{"type":99}`))
	require.ErrorIs(t, err, ErrUnsupportedTxType)
	_, err = UnmarshalGovTx([]byte(`not json`))
	require.ErrorIs(t, err, ErrUnsupportedTxType)
	_, err = UnmarshalGovTx([]byte(`{"version":3,"type":3,"tx":{"amount":1}}`))
	require.ErrorIs(t, err, ErrUnsupportedTxVersion)

	btx, err := UnmarshalGovTx([]byte(`{"type":12,"tx":{"proposal":4}}`))
	require.NoError(t, err)
	assert.Equal(t, uint64(4), btx.Tx.(*ProposalTx).Proposal)
	assert.Equal(t, "cancelProposal", btx.Type.String())

	_, err = btx.Signer("gov-1")
	require.ErrorIs(t, err, ErrMissingSig)
}
