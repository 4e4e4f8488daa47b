package staking

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/timburman/Reactive-Governance/store"
	"github.com/timburman/Reactive-Governance/types"
)

var (
	KeyLedgerParams    = []byte("l/params")
	KeyVotingContract  = []byte("l/gov")
	KeyTotalStaked     = []byte("l/total")
	KeyActiveProposals = []byte("l/active")
	KeyStake           = "l/stake/%x"
	KeyUnstakeQueue    = "l/queue/%x"
	KeySnapshot        = "l/snap/%x/%d"
)

// ledgerStore gives typed access to the ledger's keys in kv.
type ledgerStore struct {
	kv store.KVStore
}

func getRLP(kv store.KVStore, key []byte, v any) (found bool, err error) {
	dat, err := kv.Get(key)
	if err != nil || dat == nil {
		return false, err
	}
	return true, rlp.DecodeBytes(dat, v)
}

func setRLP(kv store.KVStore, key []byte, v any) error {
	dat, err := rlp.EncodeToBytes(v)
	if err != nil {
		return err
	}
	return kv.Set(key, dat)
}

func (s ledgerStore) params() (p types.LedgerParams, err error) {
	found, err := getRLP(s.kv, KeyLedgerParams, &p)
	if err == nil && !found {
		p = types.DefaultLedgerParams()
	}
	return
}

func (s ledgerStore) setParams(p types.LedgerParams) error {
	return setRLP(s.kv, KeyLedgerParams, &p)
}

func (s ledgerStore) votingContract() (addr common.Address, err error) {
	dat, err := s.kv.Get(KeyVotingContract)
	if err != nil {
		return
	}
	addr = common.BytesToAddress(dat)
	return
}

func (s ledgerStore) setVotingContract(addr common.Address) error {
	return s.kv.Set(KeyVotingContract, addr.Bytes())
}

func (s ledgerStore) totalStaked() (uint64, error) {
	return store.GetUint64(s.kv, KeyTotalStaked)
}

func (s ledgerStore) setTotalStaked(v uint64) error {
	return store.SetUint64(s.kv, KeyTotalStaked, v)
}

func (s ledgerStore) stake(addr common.Address) (uint64, error) {
	return store.GetUint64(s.kv, []byte(fmt.Sprintf(KeyStake, addr.Bytes())))
}

func (s ledgerStore) setStake(addr common.Address, v uint64) error {
	return store.SetUint64(s.kv, []byte(fmt.Sprintf(KeyStake, addr.Bytes())), v)
}

func (s ledgerStore) queue(addr common.Address) (q []types.UnstakeRequest, err error) {
	_, err = getRLP(s.kv, []byte(fmt.Sprintf(KeyUnstakeQueue, addr.Bytes())), &q)
	return
}

func (s ledgerStore) setQueue(addr common.Address, q []types.UnstakeRequest) error {
	key := []byte(fmt.Sprintf(KeyUnstakeQueue, addr.Bytes()))
	if len(q) == 0 {
		return s.kv.Delete(key)
	}
	return setRLP(s.kv, key, q)
}

func (s ledgerStore) snapshot(addr common.Address, id uint64) (snap types.Snapshot, err error) {
	_, err = getRLP(s.kv, []byte(fmt.Sprintf(KeySnapshot, addr.Bytes(), id)), &snap)
	return
}

func (s ledgerStore) setSnapshot(addr common.Address, id uint64, snap types.Snapshot) error {
	return setRLP(s.kv, []byte(fmt.Sprintf(KeySnapshot, addr.Bytes(), id)), &snap)
}

func (s ledgerStore) active() (*activeSet, error) {
	var ids []uint64
	if _, err := getRLP(s.kv, KeyActiveProposals, &ids); err != nil {
		return nil, err
	}
	return newActiveSet(ids), nil
}

func (s ledgerStore) setActive(set *activeSet) error {
	if set.len() == 0 {
		return s.kv.Delete(KeyActiveProposals)
	}
	return setRLP(s.kv, KeyActiveProposals, set.ids)
}
