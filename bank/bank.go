package bank

import (
	"errors"
	"fmt"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/timburman/Reactive-Governance/store"
	"github.com/timburman/Reactive-Governance/types"
)

var (
	KeyBalance   = "b/bal/%x"
	KeyAllowance = "b/allow/%x/%x"
	KeySupply    = []byte("b/supply")
)

var (
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrZeroAmount            = errors.New("zero amount")
	ErrOverflow              = errors.New("balance overflow")
)

// Bank is the in-state fungible token. Balances and allowances live in kv.
type Bank struct {
	logger cmtlog.Logger
	kv     store.KVStore
}

func NewBank(kv store.KVStore, logger cmtlog.Logger) *Bank {
	return &Bank{
		logger: logger.With("module", "bank"),
		kv:     kv,
	}
}

func balanceKey(addr common.Address) []byte {
	return []byte(fmt.Sprintf(KeyBalance, addr.Bytes()))
}

func allowanceKey(owner, spender common.Address) []byte {
	return []byte(fmt.Sprintf(KeyAllowance, owner.Bytes(), spender.Bytes()))
}

func (b *Bank) BalanceOf(addr common.Address) (uint64, error) {
	return store.GetUint64(b.kv, balanceKey(addr))
}

func (b *Bank) Allowance(owner, spender common.Address) (uint64, error) {
	return store.GetUint64(b.kv, allowanceKey(owner, spender))
}

func (b *Bank) TotalSupply() (uint64, error) {
	return store.GetUint64(b.kv, KeySupply)
}

// Mint credits amount to addr out of thin air. Only genesis mints.
func (b *Bank) Mint(to common.Address, amount uint64) error {
	return store.Atomic(b.kv, func(kv store.KVStore) error {
		supply, err := store.GetUint64(kv, KeySupply)
		if err != nil {
			return err
		}
		if supply+amount < supply {
			return ErrOverflow
		}
		bal, err := store.GetUint64(kv, balanceKey(to))
		if err != nil {
			return err
		}
		if err = store.SetUint64(kv, balanceKey(to), bal+amount); err != nil {
			return err
		}
		return store.SetUint64(kv, KeySupply, supply+amount)
	})
}

func move(kv store.KVStore, from, to common.Address, amount uint64) error {
	fromBal, err := store.GetUint64(kv, balanceKey(from))
	if err != nil {
		return err
	}
	if fromBal < amount {
		return ErrInsufficientFunds
	}
	if err = store.SetUint64(kv, balanceKey(from), fromBal-amount); err != nil {
		return err
	}
	toBal, err := store.GetUint64(kv, balanceKey(to))
	if err != nil {
		return err
	}
	if toBal+amount < toBal {
		return ErrOverflow
	}
	return store.SetUint64(kv, balanceKey(to), toBal+amount)
}

func (b *Bank) Transfer(from, to common.Address, amount uint64) (event *types.EventTransfer, err error) {
	b.logger.Debug("apply transfer", "from", from, "to", to, "amount", amount)
	if amount == 0 {
		return nil, ErrZeroAmount
	}
	err = store.Atomic(b.kv, func(kv store.KVStore) error {
		return move(kv, from, to, amount)
	})
	if err != nil {
		return nil, err
	}
	event = &types.EventTransfer{From: from, To: to, Amount: amount}
	return
}

// Approve sets the amount spender may move out of owner's balance, replacing any
// previous allowance.
func (b *Bank) Approve(owner, spender common.Address, amount uint64) (event *types.EventApproval, err error) {
	b.logger.Debug("apply approve", "owner", owner, "spender", spender, "amount", amount)
	err = store.SetUint64(b.kv, allowanceKey(owner, spender), amount)
	if err != nil {
		return nil, err
	}
	event = &types.EventApproval{Owner: owner, Spender: spender, Amount: amount}
	return
}

// TransferFrom moves amount from owner to to on behalf of spender and consumes
// the allowance.
func (b *Bank) TransferFrom(spender, owner, to common.Address, amount uint64) (event *types.EventTransfer, err error) {
	b.logger.Debug("apply transfer from", "spender", spender, "owner", owner, "to", to, "amount", amount)
	if amount == 0 {
		return nil, ErrZeroAmount
	}
	err = store.Atomic(b.kv, func(kv store.KVStore) error {
		allowed, err := store.GetUint64(kv, allowanceKey(owner, spender))
		if err != nil {
			return err
		}
		if allowed < amount {
			return ErrInsufficientAllowance
		}
		if err = store.SetUint64(kv, allowanceKey(owner, spender), allowed-amount); err != nil {
			return err
		}
		return move(kv, owner, to, amount)
	})
	if err != nil {
		return nil, err
	}
	event = &types.EventTransfer{From: owner, To: to, Amount: amount}
	return
}
