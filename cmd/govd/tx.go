package main

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/timburman/Reactive-Governance/state"
	"github.com/timburman/Reactive-Governance/tx"
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Sign and broadcast a transaction",
}

func init() {
	urlFlag(txCmd, &txArgs.Url)
	txCmd.PersistentFlags().StringVarP(&txArgs.Key, "key", "k", "./config/owner_priv_key", "hex private key file")
	txCmd.PersistentFlags().Int64VarP(&txArgs.Nonce, "nonce", "n", -1, "account nonce, queried when negative")
	txCmd.PersistentFlags().BoolVar(&txArgs.Sync, "sync", false, "return after CheckTx instead of waiting for the block")

	stakeCmd.Flags().Bool("approve", true, "approve the ledger for amount first")
	txCmd.AddCommand(transferCmd, approveCmd, stakeCmd, unstakeCmd, claimCmd, claimAllCmd)
	txCmd.AddCommand(govTxCmds()...)
	txCmd.AddCommand(ledgerConfigCmd)
}

func parseAmount(s string) (uint64, error) {
	amount, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount, nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

var transferCmd = &cobra.Command{
	Use:   "transfer <to> <amount>",
	Short: "Transfer tokens",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		return sendTx(tx.GovTxTypeTransfer, &tx.TransferTx{To: to, Amount: amount})
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <spender> <amount>",
	Short: "Allow spender to move amount of your tokens",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		spender, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		return sendTx(tx.GovTxTypeApprove, &tx.ApproveTx{Spender: spender, Amount: amount})
	},
}

var stakeCmd = &cobra.Command{
	Use:   "stake <amount>",
	Short: "Stake tokens in the ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		approve, _ := cmd.Flags().GetBool("approve")
		if approve {
			if err = sendTx(tx.GovTxTypeApprove, &tx.ApproveTx{Spender: state.LedgerAddress, Amount: amount}); err != nil {
				return err
			}
		}
		return sendTx(tx.GovTxTypeStake, &tx.StakeTx{Amount: amount})
	},
}

var unstakeCmd = &cobra.Command{
	Use:   "unstake <amount>",
	Short: "Queue an unstake request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		return sendTx(tx.GovTxTypeUnstake, &tx.UnstakeTx{Amount: amount})
	},
}

var claimCmd = &cobra.Command{
	Use:   "claim <index>",
	Short: "Claim one unstake request after its cooldown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return err
		}
		return sendTx(tx.GovTxTypeClaim, &tx.ClaimTx{Index: index})
	},
}

var claimAllCmd = &cobra.Command{
	Use:   "claim-all",
	Short: "Claim every unstake request past its cooldown",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendTx(tx.GovTxTypeClaimAll, &tx.ClaimAllTx{})
	},
}

var ledgerConfigCmd = &cobra.Command{
	Use:   "ledger-config",
	Short: "Update ledger parameters (owner only)",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		var body tx.LedgerConfigTx
		flags := cmd.Flags()
		if flags.Changed("voting-contract") {
			s, _ := flags.GetString("voting-contract")
			addr, err := parseAddress(s)
			if err != nil {
				return err
			}
			body.VotingContract = &addr
		}
		if flags.Changed("cooldown") {
			v, _ := flags.GetUint64("cooldown")
			body.CooldownPeriod = &v
		}
		if flags.Changed("min-stake") {
			v, _ := flags.GetUint64("min-stake")
			body.MinimumStake = &v
		}
		if flags.Changed("min-unstake") {
			v, _ := flags.GetUint64("min-unstake")
			body.MinimumUnstake = &v
		}
		if flags.Changed("emergency") {
			v, _ := flags.GetBool("emergency")
			body.EmergencyMode = &v
		}
		return sendTx(tx.GovTxTypeLedgerConfig, &body)
	},
}

func init() {
	ledgerConfigCmd.Flags().String("voting-contract", "", "address allowed to open and close proposals")
	ledgerConfigCmd.Flags().Uint64("cooldown", 0, "unstake cooldown in seconds")
	ledgerConfigCmd.Flags().Uint64("min-stake", 0, "minimum stake amount")
	ledgerConfigCmd.Flags().Uint64("min-unstake", 0, "minimum unstake amount")
	ledgerConfigCmd.Flags().Bool("emergency", false, "make every unstake request claimable at once")
}
