package staking

import "github.com/ethereum/go-ethereum/common"

// Token is the fungible token the ledger takes custody of. TransferFrom debits
// owner into the ledger's custody and Transfer credits out of it; both either
// fully succeed or return an error.
type Token interface {
	BalanceOf(addr common.Address) (uint64, error)
	Allowance(owner, spender common.Address) (uint64, error)
	TransferFrom(owner common.Address, amount uint64) error
	Transfer(to common.Address, amount uint64) error
}
