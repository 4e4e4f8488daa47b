package handler

import (
	abcitypes "github.com/cometbft/cometbft/abci/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/timburman/Reactive-Governance/gov"
	"github.com/timburman/Reactive-Governance/state"
	"github.com/timburman/Reactive-Governance/tx"
	"github.com/timburman/Reactive-Governance/types"
)

func applyCreateProposal(m *state.Modules, sender common.Address, body *tx.CreateProposalTx) ([]abcitypes.Event, error) {
	event, err := m.Gov.CreateProposal(sender, gov.ProposalInput{
		Title:       body.Title,
		Description: body.Description,
		Category:    body.Category,
		Type:        body.Type,
		Choices:     body.Choices,
		Target:      body.Target,
		Value:       body.Value,
		Data:        body.Data,
	})
	if err != nil {
		return nil, err
	}
	return []abcitypes.Event{types.EncodeEventProposal(event)}, nil
}

func applyVote(m *state.Modules, sender common.Address, body *tx.VoteTx) ([]abcitypes.Event, error) {
	event, err := m.Gov.Vote(sender, body.Proposal, body.Choice)
	if err != nil {
		return nil, err
	}
	return []abcitypes.Event{types.EncodeEventVote(event)}, nil
}

func applyResolveProposal(m *state.Modules, sender common.Address, body *tx.ProposalTx) ([]abcitypes.Event, error) {
	event, err := m.Gov.ResolveProposal(body.Proposal)
	if err != nil {
		return nil, err
	}
	return []abcitypes.Event{types.EncodeEventResolveProposal(event)}, nil
}

func applyExecuteProposal(m *state.Modules, sender common.Address, body *tx.ProposalTx) ([]abcitypes.Event, error) {
	event, err := m.Gov.ExecuteProposal(sender, body.Proposal)
	if err != nil {
		return nil, err
	}
	return []abcitypes.Event{types.EncodeEventExecuteProposal(event)}, nil
}

func applyCancelProposal(m *state.Modules, sender common.Address, body *tx.ProposalTx) ([]abcitypes.Event, error) {
	event, err := m.Gov.CancelProposal(sender, body.Proposal)
	if err != nil {
		return nil, err
	}
	return []abcitypes.Event{types.EncodeEventProposalState(event)}, nil
}

func applyExpireProposal(m *state.Modules, sender common.Address, body *tx.ProposalTx) ([]abcitypes.Event, error) {
	event, err := m.Gov.ExpireProposal(body.Proposal)
	if err != nil {
		return nil, err
	}
	return []abcitypes.Event{types.EncodeEventProposalState(event)}, nil
}
