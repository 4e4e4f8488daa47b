package app

import (
	"context"
	"errors"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	"github.com/timburman/Reactive-Governance/state"
	"github.com/timburman/Reactive-Governance/tx"
	"github.com/timburman/Reactive-Governance/tx/handler"
)

var (
	ErrUnsupportedTx       = errors.New("unsupported tx")
	ErrUnexpectedTxProcess = errors.New("unexpected tx process")
)

func (app *GovApp) parseTx(st *state.State, txDat []byte, allowNonceGap bool) (btx *tx.GovTx, h handler.TxHandler, err error) {
	btx, err = tx.UnmarshalGovTx(txDat)
	if err != nil {
		return nil, nil, err
	}
	h, ok := app.txHdlrs[btx.Type]
	if !ok {
		return nil, nil, ErrUnsupportedTx
	}
	if err = st.Verify(btx, allowNonceGap); err != nil {
		return nil, nil, err
	}
	return
}

func (app *GovApp) CheckTx(ctx context.Context, check *abcitypes.RequestCheckTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	st := app.db.State()
	btx, h, err := app.parseTx(st, check.Tx, true)
	if err != nil {
		app.logger.Info("check tx rejected", "err", err)
		res.Code = handler.CodeTxFailed
		res.Log = err.Error()
		err = nil
		return
	}
	app.logger.Debug("check tx", "type", btx.Type, "sender", btx.Sender, "nonce", btx.Nonce)
	return h.Check(ctx, btx)
}

// verifyBlock walks txs on a branch of the committed state, consuming one nonce
// per tx. It returns the txs that would be accepted in order.
func (app *GovApp) verifyBlock(txs [][]byte, maxBytes int64) (accepted [][]byte, rejected int) {
	st := app.db.State().Branch()
	var size int64
	for _, stx := range txs {
		btx, _, err := app.parseTx(st, stx, false)
		if err != nil {
			app.logger.Debug("drop tx", "err", err)
			rejected++
			continue
		}
		if maxBytes > 0 && size+int64(len(stx)) > maxBytes {
			break
		}
		if err = st.IncNonce(btx.Sender); err != nil {
			app.logger.Error("inc nonce fail", "err", err)
			rejected++
			continue
		}
		size += int64(len(stx))
		accepted = append(accepted, stx)
	}
	return
}

func (app *GovApp) PrepareProposal(ctx context.Context, proposal *abcitypes.RequestPrepareProposal) (res *abcitypes.ResponsePrepareProposal, err error) {
	txs, dropped := app.verifyBlock(proposal.Txs, proposal.MaxTxBytes)
	app.logger.Info("PrepareProposal", "height", proposal.Height, "txs", len(txs), "dropped", dropped)
	return &abcitypes.ResponsePrepareProposal{Txs: txs}, nil
}

func (app *GovApp) ProcessProposal(ctx context.Context, proposal *abcitypes.RequestProcessProposal) (res *abcitypes.ResponseProcessProposal, err error) {
	res = &abcitypes.ResponseProcessProposal{Status: abcitypes.ResponseProcessProposal_REJECT}
	if len(proposal.Txs) == 0 {
		res.Status = abcitypes.ResponseProcessProposal_ACCEPT
		return res, nil
	}
	if _, rejected := app.verifyBlock(proposal.Txs, 0); rejected > 0 {
		app.logger.Error("proposal rejected", "height", proposal.Height, "badTxs", rejected)
		return res, nil
	}
	res.Status = abcitypes.ResponseProcessProposal_ACCEPT
	app.logger.Info("proposal accepted", "height", proposal.Height)
	return res, nil
}

// finalize applies txs in order. A tx whose body fails still consumes the
// sender's nonce; a tx that cannot be attributed to a sender is recorded as
// failed and leaves state untouched.
func (app *GovApp) finalize(ctx context.Context, st *state.State, txs [][]byte) (res []*abcitypes.ExecTxResult, err error) {
	res = make([]*abcitypes.ExecTxResult, len(txs))
	for i, stx := range txs {
		btx, h, err := app.parseTx(st, stx, false)
		if err != nil {
			app.logger.Error("unexpected tx in block", "index", i, "err", err)
			app.metrics.Txs.WithLabelValues("unknown", resultBad).Inc()
			res[i] = &abcitypes.ExecTxResult{Code: handler.CodeTxFailed, Log: err.Error()}
			continue
		}
		result, err := h.Process(ctx, st, btx)
		if err != nil {
			app.logger.Error("unexpected process tx fail", "type", btx.Type, "err", err)
			return nil, ErrUnexpectedTxProcess
		}
		if err = st.IncNonce(btx.Sender); err != nil {
			return nil, err
		}
		label := resultOK
		if result.Code != 0 {
			label = resultFailed
		}
		app.metrics.Txs.WithLabelValues(btx.Type.String(), label).Inc()
		res[i] = result
	}
	return
}

func (app *GovApp) FinalizeBlock(ctx context.Context, req *abcitypes.RequestFinalizeBlock) (*abcitypes.ResponseFinalizeBlock, error) {
	app.logger.Info("FinalizeBlock", "height", req.Height, "txs", len(req.Txs))
	app.lastBlk.Set(req)
	st := app.db.NewState()
	st.SetBlockTime(uint64(req.Time.Unix()))
	app.st = st
	res, err := app.finalize(ctx, st, req.Txs)
	if err != nil {
		return nil, err
	}
	h, err := st.Update()
	if err != nil {
		app.logger.Error("state update hash fail", "err", err)
		return nil, err
	}
	return &abcitypes.ResponseFinalizeBlock{
		TxResults: res,
		AppHash:   h.Bytes(),
	}, nil
}

func (app *GovApp) Commit(ctx context.Context, commit *abcitypes.RequestCommit) (*abcitypes.ResponseCommit, error) {
	if app.st == nil {
		return nil, ErrUnexpectedTxProcess
	}
	_, err := app.db.SetState(app.st)
	if err != nil {
		return nil, err
	}
	app.st = nil
	app.updateGauges()
	app.logger.Info("Commit", "height", app.lastBlk.Height)
	return &abcitypes.ResponseCommit{}, nil
}

func (app *GovApp) updateGauges() {
	height, err := app.db.Query(func(st *state.State, m *state.Modules) error {
		total, err := m.Ledger.TotalStaked()
		if err != nil {
			return err
		}
		active, err := m.Ledger.ActiveProposals()
		if err != nil {
			return err
		}
		count, err := m.Gov.ProposalCount()
		if err != nil {
			return err
		}
		app.metrics.TotalStaked.Set(float64(total))
		app.metrics.ActiveProposals.Set(float64(len(active)))
		app.metrics.ProposalCount.Set(float64(count))
		return nil
	})
	if err != nil {
		if !errors.Is(err, state.ErrStateNotCommitted) {
			app.logger.Error("update gauges fail", "err", err)
		}
		return
	}
	app.metrics.Height.Set(float64(height))
}
