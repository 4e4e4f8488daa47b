package staking

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/timburman/Reactive-Governance/types"
)

// OpenProposal starts snapshotting for id. Only the registered voting contract
// may call it.
func (l *Ledger) OpenProposal(caller common.Address, id uint64) error {
	l.logger.Debug("open proposal", "proposal", id)
	return l.apply(func(ls ledgerStore) error {
		if err := l.requireVotingContract(ls, caller); err != nil {
			return err
		}
		set, err := ls.active()
		if err != nil {
			return err
		}
		if err = set.add(id, types.MaxActiveProposals); err != nil {
			return err
		}
		return ls.setActive(set)
	})
}

// CloseProposal stops snapshotting for id. Snapshots already taken are kept.
func (l *Ledger) CloseProposal(caller common.Address, id uint64) error {
	l.logger.Debug("close proposal", "proposal", id)
	return l.apply(func(ls ledgerStore) error {
		if err := l.requireVotingContract(ls, caller); err != nil {
			return err
		}
		set, err := ls.active()
		if err != nil {
			return err
		}
		if err = set.remove(id); err != nil {
			return err
		}
		return ls.setActive(set)
	})
}

func (l *Ledger) requireVotingContract(ls ledgerStore, caller common.Address) error {
	gov, err := ls.votingContract()
	if err != nil {
		return err
	}
	if gov == (common.Address{}) || caller != gov {
		return ErrNotAuthorized
	}
	return nil
}

// VotingPowerFor returns the balance frozen for addr on proposal id, or the live
// staked balance when addr has not touched its stake since id opened.
func (l *Ledger) VotingPowerFor(addr common.Address, id uint64) (uint64, error) {
	ls := ledgerStore{l.kv}
	snap, err := ls.snapshot(addr, id)
	if err != nil {
		return 0, err
	}
	if snap.Taken {
		return snap.Balance, nil
	}
	return ls.stake(addr)
}

func (l *Ledger) Snapshot(addr common.Address, id uint64) (types.Snapshot, error) {
	return ledgerStore{l.kv}.snapshot(addr, id)
}

func (l *Ledger) ActiveProposals() ([]uint64, error) {
	set, err := ledgerStore{l.kv}.active()
	if err != nil {
		return nil, err
	}
	return set.ids, nil
}

func (l *Ledger) IsActive(id uint64) (bool, error) {
	set, err := ledgerStore{l.kv}.active()
	if err != nil {
		return false, err
	}
	return set.contains(id), nil
}
