package tx

import (
	"errors"
)

type GovTxType uint8

const (
	GovTxTypeUnknown         GovTxType = 0
	GovTxTypeTransfer        GovTxType = 1
	GovTxTypeApprove         GovTxType = 2
	GovTxTypeStake           GovTxType = 3
	GovTxTypeUnstake         GovTxType = 4
	GovTxTypeClaim           GovTxType = 5
	GovTxTypeClaimAll        GovTxType = 6
	GovTxTypeLedgerConfig    GovTxType = 7
	GovTxTypeCreateProposal  GovTxType = 8
	GovTxTypeVote            GovTxType = 9
	GovTxTypeResolveProposal GovTxType = 10
	GovTxTypeExecuteProposal GovTxType = 11
	GovTxTypeCancelProposal  GovTxType = 12
	GovTxTypeExpireProposal  GovTxType = 13
)

var txTypeNames = map[GovTxType]string{
	GovTxTypeTransfer:        "transfer",
	GovTxTypeApprove:         "approve",
	GovTxTypeStake:           "stake",
	GovTxTypeUnstake:         "unstake",
	GovTxTypeClaim:           "claim",
	GovTxTypeClaimAll:        "claimAll",
	GovTxTypeLedgerConfig:    "ledgerConfig",
	GovTxTypeCreateProposal:  "createProposal",
	GovTxTypeVote:            "vote",
	GovTxTypeResolveProposal: "resolveProposal",
	GovTxTypeExecuteProposal: "executeProposal",
	GovTxTypeCancelProposal:  "cancelProposal",
	GovTxTypeExpireProposal:  "expireProposal",
}

func (t GovTxType) String() string {
	if name, ok := txTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

const (
	GovTxVersion0 uint8 = 0
)

var (
	ErrInvalidTx            = errors.New("invalid tx")
	ErrUnsupportedTxType    = errors.New("unsupported tx type")
	ErrUnsupportedTxVersion = errors.New("unsupported tx version")
	ErrMissingSig           = errors.New("missing signature")
)
