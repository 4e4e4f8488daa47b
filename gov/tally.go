package gov

import (
	"github.com/holiman/uint256"
	"github.com/timburman/Reactive-Governance/types"
)

// quorumThreshold is totalStaked * quorumBP / 10000, rounded down.
func quorumThreshold(totalStaked, quorumBP uint64) *uint256.Int {
	t := new(uint256.Int).Mul(uint256.NewInt(totalStaked), uint256.NewInt(quorumBP))
	return t.Div(t, uint256.NewInt(types.BasisPoints))
}

// approvalPct is forVotes * 100 / (forVotes + againstVotes). ok is false when
// nobody voted for or against.
func approvalPct(forVotes, againstVotes uint64) (pct uint64, ok bool) {
	denom := new(uint256.Int).Add(uint256.NewInt(forVotes), uint256.NewInt(againstVotes))
	if denom.IsZero() {
		return 0, false
	}
	n := new(uint256.Int).Mul(uint256.NewInt(forVotes), uint256.NewInt(100))
	return n.Div(n, denom).Uint64(), true
}

// tally computes the resolved state of an active proposal and its winning choice.
func tally(p *types.Proposal) (types.ProposalState, int64) {
	if uint256.NewInt(p.TotalVotes).Lt(quorumThreshold(p.TotalStaked, p.Requirements.QuorumBP)) {
		return types.ProposalStateDefeated, types.NoWinner
	}
	if p.Type == types.ProposalTypeBinary {
		pct, ok := approvalPct(p.Votes[types.ChoiceFor], p.Votes[types.ChoiceAgainst])
		if !ok || pct < p.Requirements.ApprovalPct {
			return types.ProposalStateDefeated, types.NoWinner
		}
		return types.ProposalStateSucceeded, types.ChoiceFor
	}
	winner := 0
	for i, v := range p.Votes {
		if v > p.Votes[winner] {
			winner = i
		}
	}
	return types.ProposalStateSucceeded, int64(winner)
}
