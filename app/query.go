package app

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/timburman/Reactive-Governance/state"
	"github.com/timburman/Reactive-Governance/types"
)

const (
	QueryBalance      = "/balance/"
	QueryNonce        = "/nonce/"
	QueryStake        = "/stake/"
	QueryLedger       = "/ledger/"
	QueryUnstake      = "/unstake/"
	QueryVotingPower  = "/votingPower/"
	QueryProposal     = "/proposal/"
	QueryVote         = "/vote/"
	QueryActive       = "/active/"
	QueryRequirements = "/requirements/"

	defaultPageLimit = 10
)

var ErrQueryParams = errors.New("invalid query params")

// QueryParams is the JSON body of every query.
type QueryParams struct {
	Address  common.Address `json:"address"`
	Proposal uint64         `json:"proposal"`
	Offset   uint64         `json:"offset"`
	Limit    uint64         `json:"limit"`
}

type BalanceInfo struct {
	Balance   uint64 `json:"balance"`
	Allowance uint64 `json:"allowance"`
}

type NonceInfo struct {
	Nonce uint64 `json:"nonce"`
}

type StakeInfo struct {
	Staked            uint64   `json:"staked"`
	VotingPower       uint64   `json:"votingPower"`
	PendingRequests   uint64   `json:"pendingRequests"`
	PendingAmount     uint64   `json:"pendingAmount"`
	Claimable         []uint64 `json:"claimable"`
	NextClaimableTime uint64   `json:"nextClaimableTime"`
}

type LedgerInfo struct {
	Ledger          common.Address     `json:"ledger"`
	Governance      common.Address     `json:"governance"`
	Params          types.LedgerParams `json:"params"`
	VotingContract  common.Address     `json:"votingContract"`
	TotalStaked     uint64             `json:"totalStaked"`
	ActiveProposals []uint64           `json:"activeProposals"`
	ProposalCount   uint64             `json:"proposalCount"`
	Treasury        uint64             `json:"treasury"`
}

type UnstakePage struct {
	Requests []types.UnstakeRequest `json:"requests"`
	Total    uint64                 `json:"total"`
}

type VotingPowerInfo struct {
	Power uint64 `json:"power"`
}

type VoteInfo struct {
	Voted  bool   `json:"voted"`
	Choice uint64 `json:"choice"`
	Weight uint64 `json:"weight"`
}

type Querier interface {
	Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error)
}

type queryFunc func(st *state.State, m *state.Modules, p *QueryParams) (any, error)

// StateQuerier answers one query path from the last committed state.
type StateQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
	fn     queryFunc
}

func NewStateQuerier(db *state.StateDB, logger cmtlog.Logger, fn queryFunc) (q *StateQuerier) {
	q = &StateQuerier{
		db:     db,
		logger: logger,
		fn:     fn,
	}
	return
}

func (q *StateQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	var p QueryParams
	if len(req.Data) > 0 {
		if err := json.Unmarshal(req.Data, &p); err != nil {
			res.Code = 1
			res.Log = ErrQueryParams.Error()
			return res, nil
		}
	}
	var out any
	height, err := q.db.Query(func(st *state.State, m *state.Modules) (err error) {
		out, err = q.fn(st, m, &p)
		return
	})
	if err != nil {
		q.logger.Debug("query fail", "path", req.Path, "err", err)
		res.Code = 1
		res.Log = err.Error()
		return res, nil
	}
	res.Height = int64(height)
	res.Value, err = json.Marshal(out)
	return
}

func (app *GovApp) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	path := req.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	q, ok := app.queriers[path]
	if !ok {
		res = &abcitypes.ResponseQuery{}
		res.Code = 404
		return
	}
	res, err = q.Query(ctx, req)
	return
}

func (app *GovApp) registerQuerier() {
	logger := app.logger.With("module", "query")
	for path, fn := range map[string]queryFunc{
		QueryBalance:      queryBalance,
		QueryNonce:        queryNonce,
		QueryStake:        queryStake,
		QueryLedger:       queryLedger,
		QueryUnstake:      queryUnstake,
		QueryVotingPower:  queryVotingPower,
		QueryProposal:     queryProposal,
		QueryVote:         queryVote,
		QueryActive:       queryActive,
		QueryRequirements: queryRequirements,
	} {
		app.queriers[path] = NewStateQuerier(app.db, logger, fn)
	}
}

func queryBalance(st *state.State, m *state.Modules, p *QueryParams) (any, error) {
	bal, err := m.Bank.BalanceOf(p.Address)
	if err != nil {
		return nil, err
	}
	allowance, err := m.Bank.Allowance(p.Address, state.LedgerAddress)
	if err != nil {
		return nil, err
	}
	return &BalanceInfo{Balance: bal, Allowance: allowance}, nil
}

func queryNonce(st *state.State, m *state.Modules, p *QueryParams) (any, error) {
	nonce, err := st.Nonce(p.Address)
	if err != nil {
		return nil, err
	}
	return &NonceInfo{Nonce: nonce}, nil
}

func queryStake(st *state.State, m *state.Modules, p *QueryParams) (any, error) {
	info := new(StakeInfo)
	var err error
	if info.Staked, err = m.Ledger.StakedAmount(p.Address); err != nil {
		return nil, err
	}
	if info.VotingPower, err = m.Ledger.VotingPower(p.Address); err != nil {
		return nil, err
	}
	if info.PendingRequests, info.PendingAmount, err = m.Ledger.PendingUnstake(p.Address); err != nil {
		return nil, err
	}
	if info.Claimable, err = m.Ledger.ClaimableRequests(p.Address); err != nil {
		return nil, err
	}
	if info.NextClaimableTime, err = m.Ledger.NextClaimableTime(p.Address); err != nil {
		return nil, err
	}
	return info, nil
}

func queryLedger(st *state.State, m *state.Modules, p *QueryParams) (any, error) {
	info := &LedgerInfo{
		Ledger:     m.Ledger.Address(),
		Governance: m.Gov.Address(),
	}
	var err error
	if info.Params, err = m.Ledger.Params(); err != nil {
		return nil, err
	}
	if info.VotingContract, err = m.Ledger.VotingContract(); err != nil {
		return nil, err
	}
	if info.TotalStaked, err = m.Ledger.TotalStaked(); err != nil {
		return nil, err
	}
	if info.ActiveProposals, err = m.Ledger.ActiveProposals(); err != nil {
		return nil, err
	}
	if info.ProposalCount, err = m.Gov.ProposalCount(); err != nil {
		return nil, err
	}
	if info.Treasury, err = m.Bank.BalanceOf(info.Governance); err != nil {
		return nil, err
	}
	return info, nil
}

func queryUnstake(st *state.State, m *state.Modules, p *QueryParams) (any, error) {
	limit := p.Limit
	if limit == 0 {
		limit = defaultPageLimit
	}
	page, total, err := m.Ledger.UnstakeRequestsPage(p.Address, p.Offset, limit)
	if err != nil {
		return nil, err
	}
	if page == nil {
		page = []types.UnstakeRequest{}
	}
	return &UnstakePage{Requests: page, Total: total}, nil
}

func queryVotingPower(st *state.State, m *state.Modules, p *QueryParams) (any, error) {
	power, err := m.Gov.VotingPower(p.Address, p.Proposal)
	if err != nil {
		return nil, err
	}
	return &VotingPowerInfo{Power: power}, nil
}

func queryProposal(st *state.State, m *state.Modules, p *QueryParams) (any, error) {
	return m.Gov.Proposal(p.Proposal)
}

func queryVote(st *state.State, m *state.Modules, p *QueryParams) (any, error) {
	v, err := m.Gov.UserVote(p.Proposal, p.Address)
	if err != nil {
		return nil, err
	}
	return &VoteInfo{Voted: v.Voted, Choice: v.Choice, Weight: v.Weight}, nil
}

func queryActive(st *state.State, m *state.Modules, p *QueryParams) (any, error) {
	ids, err := m.Ledger.ActiveProposals()
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uint64{}
	}
	return ids, nil
}

func queryRequirements(st *state.State, m *state.Modules, p *QueryParams) (any, error) {
	return m.Gov.Requirements()
}
