package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/timburman/Reactive-Governance/app"
)

type queryArguments struct {
	Url      string
	Address  string
	Proposal uint64
	Offset   uint64
	Limit    uint64
}

var queryArgs queryArguments

var queryPaths = map[string]string{
	"balance":      app.QueryBalance,
	"nonce":        app.QueryNonce,
	"stake":        app.QueryStake,
	"ledger":       app.QueryLedger,
	"unstake":      app.QueryUnstake,
	"power":        app.QueryVotingPower,
	"proposal":     app.QueryProposal,
	"vote":         app.QueryVote,
	"active":       app.QueryActive,
	"requirements": app.QueryRequirements,
}

func queryNames() []string {
	names := make([]string, 0, len(queryPaths))
	for name := range queryPaths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var queryCmd = &cobra.Command{
	Use:       "query <what>",
	Short:     "Query committed governance state",
	Long:      "Query committed governance state. <what> is one of: " + strings.Join(queryNames(), ", "),
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: queryNames(),
	RunE:      queryRun,
}

func init() {
	urlFlag(queryCmd, &queryArgs.Url)
	queryCmd.Flags().StringVarP(&queryArgs.Address, "address", "a", "", "account address")
	queryCmd.Flags().Uint64VarP(&queryArgs.Proposal, "proposal", "p", 0, "proposal id")
	queryCmd.Flags().Uint64Var(&queryArgs.Offset, "offset", 0, "page offset")
	queryCmd.Flags().Uint64Var(&queryArgs.Limit, "limit", 0, "page size")
}

func queryRun(cmd *cobra.Command, args []string) error {
	params := app.QueryParams{
		Proposal: queryArgs.Proposal,
		Offset:   queryArgs.Offset,
		Limit:    queryArgs.Limit,
	}
	if queryArgs.Address != "" {
		addr, err := parseAddress(queryArgs.Address)
		if err != nil {
			return err
		}
		params.Address = addr
	}
	cli, err := newClient(queryArgs.Url)
	if err != nil {
		return err
	}
	dat, err := abciQuery(context.Background(), cli, queryPaths[args[0]], params)
	if err != nil {
		return err
	}
	if err = printJSON(dat); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
