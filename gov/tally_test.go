package gov

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/timburman/Reactive-Governance/types"
)

func TestQuorumThresholdNoOverflow(t *testing.T) {
	assert.Equal(t, uint64(0), quorumThreshold(3, 1000).Uint64())
	assert.Equal(t, uint64(300), quorumThreshold(1000, 3000).Uint64())
	assert.Equal(t, uint64(math.MaxUint64/4), quorumThreshold(math.MaxUint64, 2500).Uint64())
}

func TestApprovalPct(t *testing.T) {
	_, ok := approvalPct(0, 0)
	assert.False(t, ok)

	pct, ok := approvalPct(3, 0)
	assert.True(t, ok)
	assert.Equal(t, uint64(100), pct)

	pct, _ = approvalPct(2, 1)
	assert.Equal(t, uint64(66), pct)

	pct, _ = approvalPct(math.MaxUint64, math.MaxUint64)
	assert.Equal(t, uint64(50), pct)
}

func TestTallyMultiChoiceTieGoesToFirst(t *testing.T) {
	p := &types.Proposal{
		Type:       types.ProposalTypeMultiChoice,
		Votes:      []uint64{0, 7, 3, 7},
		TotalVotes: 17,
	}
	state, winner := tally(p)
	assert.Equal(t, types.ProposalStateSucceeded, state)
	assert.Equal(t, int64(1), winner)
}
