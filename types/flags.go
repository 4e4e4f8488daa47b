package types

// Command line flags shared by the govd commands.
const (
	FlagHome      = "home"
	FlagChainID   = "chain-id"
	FlagOverwrite = "overwrite"
	FlagSupply    = "supply"
	FlagTreasury  = "treasury"
)
