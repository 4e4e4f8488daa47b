package handler

import (
	abcitypes "github.com/cometbft/cometbft/abci/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/timburman/Reactive-Governance/state"
	"github.com/timburman/Reactive-Governance/tx"
	"github.com/timburman/Reactive-Governance/types"
)

func applyTransfer(m *state.Modules, sender common.Address, body *tx.TransferTx) ([]abcitypes.Event, error) {
	event, err := m.Bank.Transfer(sender, body.To, body.Amount)
	if err != nil {
		return nil, err
	}
	return []abcitypes.Event{types.EncodeEventTransfer(event)}, nil
}

func applyApprove(m *state.Modules, sender common.Address, body *tx.ApproveTx) ([]abcitypes.Event, error) {
	event, err := m.Bank.Approve(sender, body.Spender, body.Amount)
	if err != nil {
		return nil, err
	}
	return []abcitypes.Event{types.EncodeEventApproval(event)}, nil
}
