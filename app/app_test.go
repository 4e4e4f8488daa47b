package app

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"testing"
	"time"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timburman/Reactive-Governance/config"
	"github.com/timburman/Reactive-Governance/state"
	"github.com/timburman/Reactive-Governance/tx"
	"github.com/timburman/Reactive-Governance/tx/handler"
	"github.com/timburman/Reactive-Governance/types"
)

const chainId = "gov-test"

var genesisTime = time.Unix(1_700_000_000, 0)

type testApp struct {
	t      *testing.T
	app    *GovApp
	owner  *ecdsa.PrivateKey
	nonces map[common.Address]uint64
	height int64
	now    time.Time
}

func newTestApp(t *testing.T) *testApp {
	db, err := state.NewMemStateDB(cmtlog.NewNopLogger())
	require.NoError(t, err)
	cfg := config.DefaultGovAppConfig(t.TempDir())
	app := newGovApp(cfg, db, cmtlog.NewNopLogger(), NewMetrics("test", prometheus.NewRegistry()))

	owner, err := crypto.GenerateKey()
	require.NoError(t, err)
	g := types.DefaultAppGenesis(crypto.PubkeyToAddress(owner.PublicKey))
	g.Allocations = []types.Allocation{{Address: crypto.PubkeyToAddress(owner.PublicKey), Amount: 10_000}}
	appState, err := json.Marshal(g)
	require.NoError(t, err)

	res, err := app.InitChain(context.Background(), &abcitypes.RequestInitChain{
		Time:          genesisTime,
		ChainId:       chainId,
		AppStateBytes: appState,
	})
	require.NoError(t, err)
	require.Len(t, res.AppHash, common.HashLength)
	return &testApp{
		t:      t,
		app:    app,
		owner:  owner,
		nonces: make(map[common.Address]uint64),
		now:    genesisTime,
	}
}

func (a *testApp) sign(key *ecdsa.PrivateKey, typ tx.GovTxType, body any) []byte {
	a.t.Helper()
	sender := crypto.PubkeyToAddress(key.PublicKey)
	btx := &tx.GovTx{
		Type:   typ,
		Nonce:  a.nonces[sender],
		Sender: sender,
		Tx:     body,
	}
	a.nonces[sender]++
	require.NoError(a.t, btx.Sign(key, chainId))
	dat, err := tx.MarshalGovTx(btx)
	require.NoError(a.t, err)
	return dat
}

func (a *testApp) block(txs ...[]byte) []*abcitypes.ExecTxResult {
	a.t.Helper()
	ctx := context.Background()
	a.height++
	a.now = a.now.Add(5 * time.Second)
	pres, err := a.app.ProcessProposal(ctx, &abcitypes.RequestProcessProposal{Txs: txs, Height: a.height, Time: a.now})
	require.NoError(a.t, err)
	require.Equal(a.t, abcitypes.ResponseProcessProposal_ACCEPT, pres.Status)
	fres, err := a.app.FinalizeBlock(ctx, &abcitypes.RequestFinalizeBlock{Txs: txs, Height: a.height, Time: a.now})
	require.NoError(a.t, err)
	_, err = a.app.Commit(ctx, &abcitypes.RequestCommit{})
	require.NoError(a.t, err)
	return fres.TxResults
}

func (a *testApp) query(path string, params QueryParams, out any) {
	a.t.Helper()
	dat, err := json.Marshal(params)
	require.NoError(a.t, err)
	res, err := a.app.Query(context.Background(), &abcitypes.RequestQuery{Path: path, Data: dat})
	require.NoError(a.t, err)
	require.Equal(a.t, uint32(0), res.Code, res.Log)
	require.NoError(a.t, json.Unmarshal(res.Value, out))
}

func TestStakeAndVoteThroughBlocks(t *testing.T) {
	a := newTestApp(t)
	owner := crypto.PubkeyToAddress(a.owner.PublicKey)

	res := a.block(
		a.sign(a.owner, tx.GovTxTypeApprove, &tx.ApproveTx{Spender: state.LedgerAddress, Amount: 4000}),
		a.sign(a.owner, tx.GovTxTypeStake, &tx.StakeTx{Amount: 4000}),
		a.sign(a.owner, tx.GovTxTypeCreateProposal, &tx.CreateProposalTx{
			Title:       "raise minimum",
			Description: "d",
			Category:    types.CategoryParameterChange,
		}),
	)
	for _, r := range res {
		require.Equal(t, uint32(0), r.Code, r.Log)
	}

	res = a.block(a.sign(a.owner, tx.GovTxTypeVote, &tx.VoteTx{Proposal: 1, Choice: types.ChoiceFor}))
	require.Equal(t, uint32(0), res[0].Code, res[0].Log)
	require.Len(t, res[0].Events, 1)
	assert.Equal(t, types.EventVoteType, res[0].Events[0].Type)

	var stake StakeInfo
	a.query(QueryStake, QueryParams{Address: owner}, &stake)
	assert.Equal(t, uint64(4000), stake.Staked)
	assert.Equal(t, uint64(4000), stake.VotingPower)

	var vote VoteInfo
	a.query(QueryVote, QueryParams{Address: owner, Proposal: 1}, &vote)
	assert.True(t, vote.Voted)
	assert.Equal(t, uint64(4000), vote.Weight)

	var p types.Proposal
	a.query(QueryProposal, QueryParams{Proposal: 1}, &p)
	assert.Equal(t, types.ProposalStateActive, p.State)
	assert.Equal(t, uint64(4000), p.TotalVotes)

	var ledger LedgerInfo
	a.query(QueryLedger, QueryParams{}, &ledger)
	assert.Equal(t, uint64(4000), ledger.TotalStaked)
	assert.Equal(t, []uint64{1}, ledger.ActiveProposals)
	assert.Equal(t, state.GovAddress, ledger.VotingContract)
	assert.Equal(t, state.LedgerAddress, ledger.Ledger)
	assert.Equal(t, state.GovAddress, ledger.Governance)

	var nonce NonceInfo
	a.query(QueryNonce, QueryParams{Address: owner}, &nonce)
	assert.Equal(t, uint64(4), nonce.Nonce)

	m := a.app.metrics
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Txs.WithLabelValues("vote", resultOK)))
	assert.Equal(t, float64(4000), testutil.ToFloat64(m.TotalStaked))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ActiveProposals))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Height))
}

func TestFailedBodyConsumesNonce(t *testing.T) {
	a := newTestApp(t)
	owner := crypto.PubkeyToAddress(a.owner.PublicKey)

	res := a.block(
		a.sign(a.owner, tx.GovTxTypeStake, &tx.StakeTx{Amount: 100}),
		a.sign(a.owner, tx.GovTxTypeTransfer, &tx.TransferTx{To: common.HexToAddress("0xb0b"), Amount: 100}),
	)
	assert.Equal(t, handler.CodeTxFailed, res[0].Code)
	assert.Empty(t, res[0].Events)
	assert.Equal(t, uint32(0), res[1].Code)

	var nonce NonceInfo
	a.query(QueryNonce, QueryParams{Address: owner}, &nonce)
	assert.Equal(t, uint64(2), nonce.Nonce)

	var bal BalanceInfo
	a.query(QueryBalance, QueryParams{Address: owner}, &bal)
	assert.Equal(t, uint64(9900), bal.Balance)
	assert.Equal(t, float64(1), testutil.ToFloat64(a.app.metrics.Txs.WithLabelValues("stake", resultFailed)))
}

func TestProposalChecks(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	good := a.sign(a.owner, tx.GovTxTypeTransfer, &tx.TransferTx{To: common.HexToAddress("0xb0b"), Amount: 1})
	a.nonces[crypto.PubkeyToAddress(a.owner.PublicKey)] = 5
	gapped := a.sign(a.owner, tx.GovTxTypeTransfer, &tx.TransferTx{To: common.HexToAddress("0xb0b"), Amount: 1})
	emptyConfig := a.sign(a.owner, tx.GovTxTypeLedgerConfig, &tx.LedgerConfigTx{})

	cres, err := a.app.CheckTx(ctx, &abcitypes.RequestCheckTx{Tx: gapped})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), cres.Code, "future nonces wait in the mempool")

	cres, err = a.app.CheckTx(ctx, &abcitypes.RequestCheckTx{Tx: emptyConfig})
	require.NoError(t, err)
	assert.Equal(t, handler.CodeTxFailed, cres.Code, "config tx sets nothing")

	cres, err = a.app.CheckTx(ctx, &abcitypes.RequestCheckTx{Tx: []byte("junk")})
	require.NoError(t, err)
	assert.Equal(t, handler.CodeTxFailed, cres.Code)

	pres, err := a.app.PrepareProposal(ctx, &abcitypes.RequestPrepareProposal{
		Txs:        [][]byte{good, good, gapped, []byte("junk")},
		MaxTxBytes: 1 << 20,
	})
	require.NoError(t, err)
	assert.Equal(t, [][]byte{good}, pres.Txs)

	proc, err := a.app.ProcessProposal(ctx, &abcitypes.RequestProcessProposal{Txs: [][]byte{good, gapped}})
	require.NoError(t, err)
	assert.Equal(t, abcitypes.ResponseProcessProposal_REJECT, proc.Status)

	proc, err = a.app.ProcessProposal(ctx, &abcitypes.RequestProcessProposal{Txs: [][]byte{good}})
	require.NoError(t, err)
	assert.Equal(t, abcitypes.ResponseProcessProposal_ACCEPT, proc.Status)
}

func TestCheckTxAdmitsDependentTxs(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	owner := crypto.PubkeyToAddress(a.owner.PublicKey)

	txs := [][]byte{
		a.sign(a.owner, tx.GovTxTypeApprove, &tx.ApproveTx{Spender: state.LedgerAddress, Amount: 1000}),
		a.sign(a.owner, tx.GovTxTypeStake, &tx.StakeTx{Amount: 1000}),
		a.sign(a.owner, tx.GovTxTypeUnstake, &tx.UnstakeTx{Amount: 400}),
	}
	for i, dat := range txs {
		res, err := a.app.CheckTx(ctx, &abcitypes.RequestCheckTx{Tx: dat})
		require.NoError(t, err)
		assert.Equal(t, uint32(0), res.Code, "tx %d: %s", i, res.Log)
	}

	for i, res := range a.block(txs...) {
		assert.Equal(t, uint32(0), res.Code, "tx %d: %s", i, res.Log)
	}
	var stake StakeInfo
	a.query(QueryStake, QueryParams{Address: owner}, &stake)
	assert.Equal(t, uint64(600), stake.Staked)
	assert.Equal(t, uint64(1), stake.PendingRequests)
}

func TestUnknownQueryPath(t *testing.T) {
	a := newTestApp(t)
	res, err := a.app.Query(context.Background(), &abcitypes.RequestQuery{Path: "/nope"})
	require.NoError(t, err)
	assert.Equal(t, uint32(404), res.Code)

	res, err = a.app.Query(context.Background(), &abcitypes.RequestQuery{Path: QueryProposal, Data: []byte(`{"proposal":9}`)})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), res.Code)
}

func TestInfoAfterCommit(t *testing.T) {
	a := newTestApp(t)
	a.block()
	info, err := a.app.Info(context.Background(), &abcitypes.RequestInfo{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Len(t, info.LastBlockAppHash, common.HashLength)
	assert.Equal(t, Version, info.Version)
}
