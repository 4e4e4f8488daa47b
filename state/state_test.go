package state

import (
	"testing"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timburman/Reactive-Governance/gov"
	"github.com/timburman/Reactive-Governance/staking"
	"github.com/timburman/Reactive-Governance/tx"
	"github.com/timburman/Reactive-Governance/types"
)

var (
	owner = common.HexToAddress("0x000000000000000000000000000000000000000a")
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
)

func testGenesis() *types.AppGenesis {
	g := types.DefaultAppGenesis(owner)
	g.Allocations = []types.Allocation{{Address: alice, Amount: 1000}}
	g.Treasury = 5000
	return g
}

func commitGenesis(t *testing.T, db *StateDB) *State {
	t.Helper()
	st := db.NewState()
	st.SetChainId("gov-test")
	st.SetBlockTime(1_700_000_000)
	require.NoError(t, st.InitGenesis(testGenesis()))
	_, err := st.Update()
	require.NoError(t, err)
	_, err = db.SetState(st)
	require.NoError(t, err)
	return st
}

func TestInitGenesis(t *testing.T) {
	db, err := NewMemStateDB(cmtlog.NewNopLogger())
	require.NoError(t, err)
	commitGenesis(t, db)

	_, err = db.Query(func(st *State, m *Modules) error {
		bal, err := m.Bank.BalanceOf(alice)
		require.NoError(t, err)
		assert.Equal(t, uint64(1000), bal)
		treasury, err := m.Bank.BalanceOf(GovAddress)
		require.NoError(t, err)
		assert.Equal(t, uint64(5000), treasury)

		gc, err := m.Ledger.VotingContract()
		require.NoError(t, err)
		assert.Equal(t, GovAddress, gc)
		assert.True(t, m.Roles.HasRole(types.RoleOwner, owner))
		assert.True(t, m.Roles.HasRole(types.RoleProposer, owner))
		assert.False(t, m.Roles.HasRole(types.RoleAdmin, alice))
		assert.Equal(t, "gov-test", st.Header().ChainId)
		return nil
	})
	require.NoError(t, err)
}

func TestApplyIsAtomicAcrossModules(t *testing.T) {
	db, err := NewMemStateDB(cmtlog.NewNopLogger())
	require.NoError(t, err)
	commitGenesis(t, db)

	st := db.NewState()
	err = st.Apply(func(m *Modules) error {
		if _, err := m.Bank.Approve(alice, LedgerAddress, 400); err != nil {
			return err
		}
		_, err := m.Ledger.Stake(alice, 400)
		return err
	})
	require.NoError(t, err)

	err = st.Apply(func(m *Modules) error {
		if _, err := m.Bank.Transfer(alice, owner, 100); err != nil {
			return err
		}
		_, err := m.Ledger.Unstake(alice, 500)
		return err
	})
	require.ErrorIs(t, err, staking.ErrInsufficientStaked)

	err = st.Apply(func(m *Modules) error {
		bal, err := m.Bank.BalanceOf(alice)
		require.NoError(t, err)
		assert.Equal(t, uint64(600), bal)
		staked, err := m.Ledger.StakedAmount(alice)
		require.NoError(t, err)
		assert.Equal(t, uint64(400), staked)
		return nil
	})
	require.NoError(t, err)
}

func TestCommitAndReload(t *testing.T) {
	dir := t.TempDir()
	db, err := NewStateDB(dir, cmtlog.NewNopLogger())
	require.NoError(t, err)
	commitGenesis(t, db)

	st := db.NewState()
	st.SetBlockTime(1_700_000_100)
	err = st.Apply(func(m *Modules) error {
		_, err := m.Gov.CreateProposal(owner, gov.ProposalInput{
			Title:       "t",
			Description: "d",
			Category:    types.CategoryEmergencyAction,
		})
		return err
	})
	require.NoError(t, err)
	require.NoError(t, st.IncNonce(owner))
	_, err = st.Update()
	require.NoError(t, err)
	hash, err := db.SetState(st)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewStateDB(dir, cmtlog.NewNopLogger())
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, hash, db.State().Hash())
	assert.Equal(t, uint64(1), db.Header().Height)
	assert.Equal(t, uint64(1_700_000_100), db.Header().Time)

	_, err = db.Query(func(st *State, m *Modules) error {
		p, err := m.Gov.Proposal(1)
		require.NoError(t, err)
		assert.Equal(t, types.ProposalStateActive, p.State)
		ids, err := m.Ledger.ActiveProposals()
		require.NoError(t, err)
		assert.Equal(t, []uint64{1}, ids)
		nonce, err := st.Nonce(owner)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), nonce)
		return nil
	})
	require.NoError(t, err)
}

func TestVerify(t *testing.T) {
	db, err := NewMemStateDB(cmtlog.NewNopLogger())
	require.NoError(t, err)
	st := commitGenesis(t, db)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sender := crypto.PubkeyToAddress(key.PublicKey)
	btx := &tx.GovTx{
		Type:   tx.GovTxTypeStake,
		Nonce:  0,
		Sender: sender,
		Tx:     &tx.StakeTx{Amount: 10},
	}
	require.NoError(t, btx.Sign(key, "gov-test"))
	require.NoError(t, st.Verify(btx, false))

	btx.Nonce = 2
	require.NoError(t, btx.Sign(key, "gov-test"))
	require.ErrorIs(t, st.Verify(btx, false), ErrTxNonceInvalid)
	require.NoError(t, st.Verify(btx, true))

	btx.Sender = alice
	require.ErrorIs(t, st.Verify(btx, true), ErrTxSenderMismatch)

	btx.Sender = sender
	require.NoError(t, btx.Sign(key, "other-chain"))
	require.ErrorIs(t, st.Verify(btx, true), ErrTxSenderMismatch)
}
