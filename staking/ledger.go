package staking

import (
	"errors"
	"fmt"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/timburman/Reactive-Governance/guard"
	"github.com/timburman/Reactive-Governance/store"
	"github.com/timburman/Reactive-Governance/types"
)

var (
	ErrBelowMinimum          = errors.New("amount below minimum")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrInsufficientStaked    = errors.New("insufficient staked")
	ErrMaxRequestsReached    = errors.New("max unstake requests reached")
	ErrInvalidRequest        = errors.New("invalid unstake request")
	ErrCooldownNotPassed     = errors.New("cooldown not passed")
	ErrNoRequests            = errors.New("no unstake requests")
	ErrNoClaimableRequests   = errors.New("no claimable requests")
	ErrAlreadyActive         = errors.New("proposal already active")
	ErrNotActive             = errors.New("proposal not active")
	ErrTooManyActive         = errors.New("too many active proposals")
	ErrNotAuthorized         = errors.New("not authorized")
	ErrTransferFailed        = errors.New("token transfer failed")
	ErrInvalidCooldown       = errors.New("cooldown period out of bounds")
	ErrOverflow              = errors.New("amount overflow")
	ErrReentrant             = guard.ErrReentrant
)

// Clock returns the current time in unix seconds. Successive calls never go
// backwards.
type Clock func() uint64

// Ledger holds staked balances, pending unstake requests and the per-proposal
// balance snapshots taken while proposals are open.
type Ledger struct {
	logger  cmtlog.Logger
	address common.Address
	kv      store.KVStore
	token   Token
	acl     types.AccessControl
	clock   Clock
	guard   guard.Guard
}

// NewLedger returns a ledger whose token custody account is address.
func NewLedger(address common.Address, kv store.KVStore, token Token, acl types.AccessControl, clock Clock, logger cmtlog.Logger) *Ledger {
	return &Ledger{
		logger:  logger.With("module", "ledger"),
		address: address,
		kv:      kv,
		token:   token,
		acl:     acl,
		clock:   clock,
	}
}

func (l *Ledger) Address() common.Address {
	return l.address
}

// InitGenesis writes the initial parameters and registers the governance caller.
func (l *Ledger) InitGenesis(params types.LedgerParams, votingContract common.Address) error {
	if !types.ValidCooldown(params.CooldownPeriod) {
		return ErrInvalidCooldown
	}
	return store.Atomic(l.kv, func(kv store.KVStore) error {
		ls := ledgerStore{kv}
		if err := ls.setParams(params); err != nil {
			return err
		}
		return ls.setVotingContract(votingContract)
	})
}

// apply runs fn inside the ledger guard against a branch of the ledger store. The
// branch is written back only when fn succeeds.
func (l *Ledger) apply(fn func(ls ledgerStore) error) error {
	if err := l.guard.Enter(); err != nil {
		return err
	}
	defer l.guard.Exit()
	return store.Atomic(l.kv, func(kv store.KVStore) error {
		return fn(ledgerStore{kv})
	})
}

// takeSnapshots freezes balance for every open proposal addr has no snapshot for
// yet and returns the ids it snapshotted.
func (l *Ledger) takeSnapshots(ls ledgerStore, addr common.Address, balance uint64) (taken []uint64, err error) {
	set, err := ls.active()
	if err != nil {
		return nil, err
	}
	for _, id := range set.ids {
		snap, err := ls.snapshot(addr, id)
		if err != nil {
			return nil, err
		}
		if snap.Taken {
			continue
		}
		err = ls.setSnapshot(addr, id, types.Snapshot{Taken: true, Balance: balance})
		if err != nil {
			return nil, err
		}
		taken = append(taken, id)
	}
	return
}

func (l *Ledger) Stake(caller common.Address, amount uint64) (event *types.EventStake, err error) {
	l.logger.Debug("apply stake", "staker", caller, "amount", amount)
	err = l.apply(func(ls ledgerStore) error {
		p, err := ls.params()
		if err != nil {
			return err
		}
		if amount == 0 || amount < p.MinimumStake {
			return ErrBelowMinimum
		}
		balance, err := l.token.BalanceOf(caller)
		if err != nil {
			return err
		}
		if balance < amount {
			return ErrInsufficientBalance
		}
		allowance, err := l.token.Allowance(caller, l.address)
		if err != nil {
			return err
		}
		if allowance < amount {
			return ErrInsufficientAllowance
		}
		staked, err := ls.stake(caller)
		if err != nil {
			return err
		}
		total, err := ls.totalStaked()
		if err != nil {
			return err
		}
		if total+amount < total {
			return ErrOverflow
		}
		snaps, err := l.takeSnapshots(ls, caller, staked)
		if err != nil {
			return err
		}
		if err = l.token.TransferFrom(caller, amount); err != nil {
			return fmt.Errorf("%w: %w", ErrTransferFailed, err)
		}
		if err = ls.setStake(caller, staked+amount); err != nil {
			return err
		}
		if err = ls.setTotalStaked(total + amount); err != nil {
			return err
		}
		event = &types.EventStake{
			Staker:      caller,
			Amount:      amount,
			Balance:     staked + amount,
			TotalStaked: total + amount,
			Snapshots:   snaps,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return
}

func (l *Ledger) Unstake(caller common.Address, amount uint64) (event *types.EventUnstake, err error) {
	l.logger.Debug("apply unstake", "staker", caller, "amount", amount)
	err = l.apply(func(ls ledgerStore) error {
		p, err := ls.params()
		if err != nil {
			return err
		}
		if amount == 0 || amount < p.MinimumUnstake {
			return ErrBelowMinimum
		}
		staked, err := ls.stake(caller)
		if err != nil {
			return err
		}
		if staked < amount {
			return ErrInsufficientStaked
		}
		q, err := ls.queue(caller)
		if err != nil {
			return err
		}
		if len(q) >= types.MaxUnstakeRequests {
			return ErrMaxRequestsReached
		}
		total, err := ls.totalStaked()
		if err != nil {
			return err
		}
		snaps, err := l.takeSnapshots(ls, caller, staked)
		if err != nil {
			return err
		}
		if err = ls.setStake(caller, staked-amount); err != nil {
			return err
		}
		if err = ls.setTotalStaked(total - amount); err != nil {
			return err
		}
		now := l.clock()
		q = append(q, types.UnstakeRequest{Amount: amount, RequestTime: now})
		if err = ls.setQueue(caller, q); err != nil {
			return err
		}
		event = &types.EventUnstake{
			Staker:       caller,
			Amount:       amount,
			RequestIndex: uint64(len(q) - 1),
			RequestTime:  now,
			Balance:      staked - amount,
			TotalStaked:  total - amount,
			Snapshots:    snaps,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return
}

// ClaimUnstake pays out the request at index. The last request takes its slot.
func (l *Ledger) ClaimUnstake(caller common.Address, index uint64) (event *types.EventClaim, err error) {
	l.logger.Debug("apply claim", "staker", caller, "index", index)
	err = l.apply(func(ls ledgerStore) error {
		q, err := ls.queue(caller)
		if err != nil {
			return err
		}
		if index >= uint64(len(q)) {
			return ErrInvalidRequest
		}
		p, err := ls.params()
		if err != nil {
			return err
		}
		req := q[index]
		if !req.Claimable(l.clock(), p.CooldownPeriod, p.EmergencyMode) {
			return ErrCooldownNotPassed
		}
		q = swapRemove(q, int(index))
		if err = ls.setQueue(caller, q); err != nil {
			return err
		}
		if err = l.token.Transfer(caller, req.Amount); err != nil {
			return fmt.Errorf("%w: %w", ErrTransferFailed, err)
		}
		event = &types.EventClaim{
			Staker:       caller,
			Amount:       req.Amount,
			RequestIndex: index,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return
}

// ClaimAllReady pays out every request whose cooldown has passed with a single
// transfer. The queue is walked from the back so that the element swapped into a
// vacated slot has always been visited already.
func (l *Ledger) ClaimAllReady(caller common.Address) (event *types.EventClaimAll, err error) {
	l.logger.Debug("apply claim all", "staker", caller)
	err = l.apply(func(ls ledgerStore) error {
		q, err := ls.queue(caller)
		if err != nil {
			return err
		}
		if len(q) == 0 {
			return ErrNoRequests
		}
		p, err := ls.params()
		if err != nil {
			return err
		}
		now := l.clock()
		var count, total uint64
		for i := len(q) - 1; i >= 0; i-- {
			if !q[i].Claimable(now, p.CooldownPeriod, p.EmergencyMode) {
				continue
			}
			total += q[i].Amount
			count++
			q = swapRemove(q, i)
		}
		if count == 0 {
			return ErrNoClaimableRequests
		}
		if err = ls.setQueue(caller, q); err != nil {
			return err
		}
		if err = l.token.Transfer(caller, total); err != nil {
			return fmt.Errorf("%w: %w", ErrTransferFailed, err)
		}
		event = &types.EventClaimAll{
			Staker: caller,
			Count:  count,
			Total:  total,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return
}
