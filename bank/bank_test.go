package bank

import (
	"testing"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timburman/Reactive-Governance/store"
)

var (
	alice   = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob     = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	custody = common.HexToAddress("0x00000000000000000000000000000000000010ed")
)

func newTestBank(t *testing.T) *Bank {
	t.Helper()
	b := NewBank(store.NewMemTree(), cmtlog.NewNopLogger())
	require.NoError(t, b.Mint(alice, 1000))
	return b
}

func TestTransfer(t *testing.T) {
	b := newTestBank(t)

	event, err := b.Transfer(alice, bob, 300)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), event.Amount)

	_, err = b.Transfer(bob, alice, 301)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	_, err = b.Transfer(alice, bob, 0)
	require.ErrorIs(t, err, ErrZeroAmount)

	bal, err := b.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(700), bal)
	bal, err = b.BalanceOf(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), bal)
	supply, err := b.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), supply)
}

func TestCustody(t *testing.T) {
	b := newTestBank(t)
	c := b.Custody(custody)

	require.ErrorIs(t, c.TransferFrom(alice, 100), ErrInsufficientAllowance)

	_, err := b.Approve(alice, custody, 400)
	require.NoError(t, err)
	require.NoError(t, c.TransferFrom(alice, 400))
	require.ErrorIs(t, c.TransferFrom(alice, 1), ErrInsufficientAllowance)

	allowed, err := c.Allowance(alice, custody)
	require.NoError(t, err)
	assert.Zero(t, allowed)
	held, err := c.BalanceOf(custody)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), held)

	require.NoError(t, c.Transfer(bob, 150))
	require.ErrorIs(t, c.Transfer(bob, 251), ErrInsufficientFunds)

	require.NoError(t, c.Execute(bob, 50, []byte("payout")))
	bal, err := b.BalanceOf(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), bal)
}
