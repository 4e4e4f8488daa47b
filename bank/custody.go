package bank

import (
	"github.com/ethereum/go-ethereum/common"
)

// Custody is the bank seen from an account that holds tokens on behalf of others,
// such as the staking ledger. It implements staking.Token.
type Custody struct {
	bank    *Bank
	address common.Address
}

func (b *Bank) Custody(address common.Address) *Custody {
	return &Custody{bank: b, address: address}
}

func (c *Custody) BalanceOf(addr common.Address) (uint64, error) {
	return c.bank.BalanceOf(addr)
}

func (c *Custody) Allowance(owner, spender common.Address) (uint64, error) {
	return c.bank.Allowance(owner, spender)
}

// TransferFrom pulls amount from owner into custody using owner's allowance to
// the custody account.
func (c *Custody) TransferFrom(owner common.Address, amount uint64) error {
	_, err := c.bank.TransferFrom(c.address, owner, c.address, amount)
	return err
}

func (c *Custody) Transfer(to common.Address, amount uint64) error {
	_, err := c.bank.Transfer(c.address, to, amount)
	return err
}

// Execute pays value out of custody to target. It lets the governance treasury
// act as the proposal executor; data is not interpreted.
func (c *Custody) Execute(target common.Address, value uint64, data []byte) error {
	if value == 0 {
		return nil
	}
	return c.Transfer(target, value)
}
