package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/timburman/Reactive-Governance/tx"
	"github.com/timburman/Reactive-Governance/types"
)

type proposeArguments struct {
	Title       string
	Description string
	Category    string
	Type        string
	Choices     []string
	Target      string
	Value       uint64
	Data        string
}

var proposeArgs proposeArguments

var proposeCmd = &cobra.Command{
	Use:   "propose",
	Short: "Create a proposal (proposer role)",
	Args:  cobra.ExactArgs(0),
	RunE:  proposeRun,
}

func init() {
	proposeCmd.Flags().StringVar(&proposeArgs.Title, "title", "", "proposal title")
	proposeCmd.Flags().StringVar(&proposeArgs.Description, "description", "", "proposal description")
	proposeCmd.Flags().StringVar(&proposeArgs.Category, "category", types.CategoryParameterChange.String(), "parameter-change, treasury-action, emergency-action or governance-change")
	proposeCmd.Flags().StringVar(&proposeArgs.Type, "type", types.ProposalTypeBinary.String(), "binary or multi-choice")
	proposeCmd.Flags().StringSliceVar(&proposeArgs.Choices, "choices", nil, "choices of a multi-choice proposal")
	proposeCmd.Flags().StringVar(&proposeArgs.Target, "target", "", "address paid or called on execution")
	proposeCmd.Flags().Uint64Var(&proposeArgs.Value, "value", 0, "treasury amount sent to target on execution")
	proposeCmd.Flags().StringVar(&proposeArgs.Data, "data", "", "hex call data")
}

func proposeRun(cmd *cobra.Command, args []string) error {
	category, err := types.ParseCategory(proposeArgs.Category)
	if err != nil {
		return err
	}
	ptype, err := types.ParseProposalType(proposeArgs.Type)
	if err != nil {
		return err
	}
	body := &tx.CreateProposalTx{
		Title:       proposeArgs.Title,
		Description: proposeArgs.Description,
		Category:    category,
		Type:        ptype,
		Choices:     proposeArgs.Choices,
		Value:       proposeArgs.Value,
	}
	if proposeArgs.Target != "" {
		if body.Target, err = parseAddress(proposeArgs.Target); err != nil {
			return err
		}
	}
	if proposeArgs.Data != "" {
		if body.Data, err = hexutil.Decode(proposeArgs.Data); err != nil {
			return fmt.Errorf("invalid data: %w", err)
		}
	}
	return sendTx(tx.GovTxTypeCreateProposal, body)
}

// parseChoice accepts a choice index or one of the binary choice names.
func parseChoice(s string) (uint64, error) {
	for i, name := range types.BinaryChoices {
		if strings.EqualFold(s, name) {
			return uint64(i), nil
		}
	}
	return strconv.ParseUint(s, 10, 64)
}

var voteCmd = &cobra.Command{
	Use:   "vote <proposal> <choice>",
	Short: "Vote on an active proposal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return err
		}
		choice, err := parseChoice(args[1])
		if err != nil {
			return fmt.Errorf("invalid choice %q: %w", args[1], err)
		}
		return sendTx(tx.GovTxTypeVote, &tx.VoteTx{Proposal: id, Choice: choice})
	},
}

func proposalTxCmd(use, short string, typ tx.GovTxType) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <proposal>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}
			return sendTx(typ, &tx.ProposalTx{Proposal: id})
		},
	}
}

func govTxCmds() []*cobra.Command {
	return []*cobra.Command{
		proposeCmd,
		voteCmd,
		proposalTxCmd("resolve", "Tally a proposal after its voting period", tx.GovTxTypeResolveProposal),
		proposalTxCmd("execute", "Execute a succeeded proposal (admin role)", tx.GovTxTypeExecuteProposal),
		proposalTxCmd("cancel", "Cancel an active proposal (proposer role)", tx.GovTxTypeCancelProposal),
		proposalTxCmd("expire", "Mark a succeeded proposal expired after its grace period", tx.GovTxTypeExpireProposal),
	}
}

