package gov

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/timburman/Reactive-Governance/types"
)

func (e *Engine) Proposal(id uint64) (*types.Proposal, error) {
	return govStore{e.kv}.proposal(id)
}

func (e *Engine) ProposalCount() (uint64, error) {
	return govStore{e.kv}.proposalCount()
}

// UserVote returns the vote voter cast on id. Voted is false when there is none.
func (e *Engine) UserVote(id uint64, voter common.Address) (types.VoteRecord, error) {
	return govStore{e.kv}.vote(id, voter)
}

func (e *Engine) Requirements() (types.RequirementsTable, error) {
	return govStore{e.kv}.requirements()
}

// VotingPower returns the weight voter would vote with on id right now.
func (e *Engine) VotingPower(voter common.Address, id uint64) (uint64, error) {
	return e.ledger.VotingPowerFor(voter, id)
}
