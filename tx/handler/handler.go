package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/timburman/Reactive-Governance/state"
	"github.com/timburman/Reactive-Governance/tx"
)

// CodeTxFailed marks a tx whose body was rejected. The block still commits and
// the sender's nonce is consumed.
const CodeTxFailed uint32 = 1

type TxHandler interface {
	Check(ctx context.Context, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error)
	Process(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error)
}

type txHandler[T any] struct {
	logger cmtlog.Logger
	apply  func(m *state.Modules, sender common.Address, body *T) ([]abcitypes.Event, error)
}

func newTxHandler[T any](logger cmtlog.Logger, name string, apply func(m *state.Modules, sender common.Address, body *T) ([]abcitypes.Event, error)) TxHandler {
	return &txHandler[T]{
		logger: logger.With("module", name+"Tx"),
		apply:  apply,
	}
}

func NewTxHandlers(logger cmtlog.Logger) map[tx.GovTxType]TxHandler {
	return map[tx.GovTxType]TxHandler{
		tx.GovTxTypeTransfer:        newTxHandler(logger, "transfer", applyTransfer),
		tx.GovTxTypeApprove:         newTxHandler(logger, "approve", applyApprove),
		tx.GovTxTypeStake:           newTxHandler(logger, "stake", applyStake),
		tx.GovTxTypeUnstake:         newTxHandler(logger, "unstake", applyUnstake),
		tx.GovTxTypeClaim:           newTxHandler(logger, "claim", applyClaim),
		tx.GovTxTypeClaimAll:        newTxHandler(logger, "claimAll", applyClaimAll),
		tx.GovTxTypeLedgerConfig:    newTxHandler(logger, "ledgerConfig", applyLedgerConfig),
		tx.GovTxTypeCreateProposal:  newTxHandler(logger, "createProposal", applyCreateProposal),
		tx.GovTxTypeVote:            newTxHandler(logger, "vote", applyVote),
		tx.GovTxTypeResolveProposal: newTxHandler(logger, "resolveProposal", applyResolveProposal),
		tx.GovTxTypeExecuteProposal: newTxHandler(logger, "executeProposal", applyExecuteProposal),
		tx.GovTxTypeCancelProposal:  newTxHandler(logger, "cancelProposal", applyCancelProposal),
		tx.GovTxTypeExpireProposal:  newTxHandler(logger, "expireProposal", applyExpireProposal),
	}
}

func (h *txHandler[T]) body(btx *tx.GovTx) (*T, error) {
	body, ok := btx.Tx.(*T)
	if !ok {
		return nil, tx.ErrInvalidTx
	}
	return body, nil
}

type basicValidator interface {
	ValidateBasic() error
}

// Check only looks at the body itself. Balance, allowance and proposal state are
// left to FinalizeBlock, where earlier txs from the same sender have already run.
func (h *txHandler[T]) Check(ctx context.Context, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	body, err1 := h.body(btx)
	if v, ok := any(body).(basicValidator); ok && err1 == nil {
		err1 = v.ValidateBasic()
	}
	if err1 != nil {
		h.logger.Info("CheckTx fail", "sender", btx.Sender, "err", err1)
		res.Code = CodeTxFailed
		res.Log = err1.Error()
	}
	return
}

func (h *txHandler[T]) Process(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	res = &abcitypes.ExecTxResult{}
	body, err1 := h.body(btx)
	if err1 == nil {
		err1 = st.Apply(func(m *state.Modules) error {
			events, err := h.apply(m, btx.Sender, body)
			res.Events = events
			return err
		})
	}
	if err1 != nil {
		h.logger.Debug("tx failed", "sender", btx.Sender, "nonce", btx.Nonce, "err", err1)
		res.Events = nil
		res.Code = CodeTxFailed
		res.Log = err1.Error()
	}
	return
}
