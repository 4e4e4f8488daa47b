package staking

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/timburman/Reactive-Governance/types"
)

func (l *Ledger) Params() (types.LedgerParams, error) {
	return ledgerStore{l.kv}.params()
}

func (l *Ledger) VotingContract() (common.Address, error) {
	return ledgerStore{l.kv}.votingContract()
}

func (l *Ledger) StakedAmount(addr common.Address) (uint64, error) {
	return ledgerStore{l.kv}.stake(addr)
}

func (l *Ledger) TotalStaked() (uint64, error) {
	return ledgerStore{l.kv}.totalStaked()
}

// VotingPower is the live staked balance of addr.
func (l *Ledger) VotingPower(addr common.Address) (uint64, error) {
	return l.StakedAmount(addr)
}

func (l *Ledger) UnstakeRequests(addr common.Address) ([]types.UnstakeRequest, error) {
	return ledgerStore{l.kv}.queue(addr)
}

// UnstakeRequestsPage returns at most limit requests starting at offset, and the
// full queue length.
func (l *Ledger) UnstakeRequestsPage(addr common.Address, offset, limit uint64) (page []types.UnstakeRequest, total uint64, err error) {
	q, err := l.UnstakeRequests(addr)
	if err != nil {
		return
	}
	total = uint64(len(q))
	if offset >= total || limit == 0 {
		return []types.UnstakeRequest{}, total, nil
	}
	end := offset + limit
	if end > total || end < offset {
		end = total
	}
	page = q[offset:end]
	return
}

// PendingUnstake returns the number of queued requests and their summed amount.
func (l *Ledger) PendingUnstake(addr common.Address) (count, amount uint64, err error) {
	q, err := l.UnstakeRequests(addr)
	if err != nil {
		return
	}
	for _, r := range q {
		amount += r.Amount
	}
	count = uint64(len(q))
	return
}

// ClaimableRequests returns the queue indices that can be claimed now.
func (l *Ledger) ClaimableRequests(addr common.Address) ([]uint64, error) {
	ls := ledgerStore{l.kv}
	q, err := ls.queue(addr)
	if err != nil {
		return nil, err
	}
	p, err := ls.params()
	if err != nil {
		return nil, err
	}
	now := l.clock()
	indices := []uint64{}
	for i, r := range q {
		if r.Claimable(now, p.CooldownPeriod, p.EmergencyMode) {
			indices = append(indices, uint64(i))
		}
	}
	return indices, nil
}

// NextClaimableTime returns the earliest time a pending request unlocks, now when
// one is already claimable, or 0 when nothing is pending.
func (l *Ledger) NextClaimableTime(addr common.Address) (uint64, error) {
	ls := ledgerStore{l.kv}
	q, err := ls.queue(addr)
	if err != nil || len(q) == 0 {
		return 0, err
	}
	p, err := ls.params()
	if err != nil {
		return 0, err
	}
	now := l.clock()
	var next uint64
	for i, r := range q {
		t := r.RequestTime + p.CooldownPeriod
		if p.EmergencyMode || t < now {
			t = now
		}
		if i == 0 || t < next {
			next = t
		}
	}
	return next, nil
}
