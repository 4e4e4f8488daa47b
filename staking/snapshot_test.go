package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timburman/Reactive-Governance/types"
)

func TestOpenCloseRequiresVotingContract(t *testing.T) {
	tl := newTestLedger(t)

	require.ErrorIs(t, tl.OpenProposal(alice, 1), ErrNotAuthorized)
	require.NoError(t, tl.OpenProposal(govAddr, 1))
	require.ErrorIs(t, tl.OpenProposal(govAddr, 1), ErrAlreadyActive)
	require.ErrorIs(t, tl.CloseProposal(alice, 1), ErrNotAuthorized)
	require.NoError(t, tl.CloseProposal(govAddr, 1))
	require.ErrorIs(t, tl.CloseProposal(govAddr, 1), ErrNotActive)

	_, err := tl.SetVotingContract(alice, alice)
	require.ErrorIs(t, err, ErrNotAuthorized)
	_, err = tl.SetVotingContract(ownerAddr, bob)
	require.NoError(t, err)
	require.ErrorIs(t, tl.OpenProposal(govAddr, 2), ErrNotAuthorized)
	require.NoError(t, tl.OpenProposal(bob, 2))
}

func TestActiveProposalBound(t *testing.T) {
	tl := newTestLedger(t)
	for id := uint64(1); id <= types.MaxActiveProposals; id++ {
		require.NoError(t, tl.OpenProposal(govAddr, id))
	}
	require.ErrorIs(t, tl.OpenProposal(govAddr, 4), ErrTooManyActive)

	require.NoError(t, tl.CloseProposal(govAddr, 1))
	ids, err := tl.ActiveProposals()
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 2}, ids)

	require.NoError(t, tl.OpenProposal(govAddr, 4))
	active, err := tl.IsActive(4)
	require.NoError(t, err)
	assert.True(t, active)
	active, err = tl.IsActive(1)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestSnapshotFreezesFirstMutation(t *testing.T) {
	tl := newTestLedger(t)
	tl.token.fund(alice, 2000)
	tl.token.fund(bob, 2000)
	_, err := tl.Stake(alice, 1000)
	require.NoError(t, err)
	_, err = tl.Stake(bob, 400)
	require.NoError(t, err)

	require.NoError(t, tl.OpenProposal(govAddr, 7))

	event, err := tl.Stake(alice, 500)
	require.NoError(t, err)
	assert.Equal(t, []uint64{7}, event.Snapshots)
	event, err = tl.Stake(alice, 100)
	require.NoError(t, err)
	assert.Empty(t, event.Snapshots)

	power, err := tl.VotingPowerFor(alice, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), power)
	live, err := tl.VotingPower(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1600), live)

	// bob never mutates stake while the proposal is open
	_, err = tl.Stake(bob, 0)
	require.ErrorIs(t, err, ErrBelowMinimum)
	power, err = tl.VotingPowerFor(bob, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), power)

	// snapshots outlive the proposal window
	require.NoError(t, tl.CloseProposal(govAddr, 7))
	_, err = tl.Unstake(alice, 600)
	require.NoError(t, err)
	power, err = tl.VotingPowerFor(alice, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), power)
	tl.requireTotalConsistent(t, alice, bob)
}

func TestUnstakeSnapshotsEveryOpenProposal(t *testing.T) {
	tl := newTestLedger(t)
	tl.token.fund(alice, 900)
	_, err := tl.Stake(alice, 900)
	require.NoError(t, err)
	require.NoError(t, tl.OpenProposal(govAddr, 1))
	require.NoError(t, tl.OpenProposal(govAddr, 2))

	event, err := tl.Unstake(alice, 900)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{1, 2}, event.Snapshots)

	for _, id := range []uint64{1, 2} {
		power, err := tl.VotingPowerFor(alice, id)
		require.NoError(t, err)
		assert.Equal(t, uint64(900), power)
	}
	power, err := tl.VotingPowerFor(alice, 3)
	require.NoError(t, err)
	assert.Zero(t, power)
}
