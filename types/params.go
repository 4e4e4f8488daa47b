package types

import (
	"errors"
	"fmt"
	"strings"
)

// Durations and timestamps are unix seconds.
const (
	Minute = uint64(60)
	Hour   = 60 * Minute
	Day    = 24 * Hour
)

const (
	MaxUnstakeRequests = 3
	MaxActiveProposals = 3

	MinCooldownPeriod     = 7 * Day
	MaxCooldownPeriod     = 30 * Day
	DefaultCooldownPeriod = 7 * Day

	VotingPeriod = 7 * Day
	GracePeriod  = 14 * Day

	MinChoices = 2
	MaxChoices = 10

	BasisPoints = 10000

	DefaultMinimumStake   = 1
	DefaultMinimumUnstake = 1
)

var (
	ErrInvalidCategory     = errors.New("invalid category")
	ErrInvalidProposalType = errors.New("invalid proposal type")
)

type Category uint8

const (
	CategoryParameterChange  Category = 0
	CategoryTreasuryAction   Category = 1
	CategoryEmergencyAction  Category = 2
	CategoryGovernanceChange Category = 3

	NumCategories = 4
)

var categoryNames = [NumCategories]string{
	"parameter-change",
	"treasury-action",
	"emergency-action",
	"governance-change",
}

func (c Category) Valid() bool {
	return c < NumCategories
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", uint8(c))
	}
	return categoryNames[c]
}

func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if strings.EqualFold(s, name) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// Requirements are the per-category thresholds a proposal is resolved against.
type Requirements struct {
	QuorumBP       uint64 `json:"quorumBp"`
	ApprovalPct    uint64 `json:"approvalPct"`
	ExecutionDelay uint64 `json:"executionDelay"`
}

func (r Requirements) Validate() error {
	if r.QuorumBP > BasisPoints {
		return fmt.Errorf("quorum %dbp exceeds %d", r.QuorumBP, BasisPoints)
	}
	if r.ApprovalPct > 100 {
		return fmt.Errorf("approval %d%% exceeds 100", r.ApprovalPct)
	}
	return nil
}

type RequirementsTable [NumCategories]Requirements

func DefaultRequirements() RequirementsTable {
	return RequirementsTable{
		CategoryParameterChange:  {QuorumBP: 1000, ApprovalPct: 51, ExecutionDelay: 2 * Day},
		CategoryTreasuryAction:   {QuorumBP: 2000, ApprovalPct: 60, ExecutionDelay: 3 * Day},
		CategoryEmergencyAction:  {QuorumBP: 3000, ApprovalPct: 67, ExecutionDelay: 0},
		CategoryGovernanceChange: {QuorumBP: 2500, ApprovalPct: 66, ExecutionDelay: 7 * Day},
	}
}

func (t RequirementsTable) For(c Category) (Requirements, error) {
	if !c.Valid() {
		return Requirements{}, ErrInvalidCategory
	}
	return t[c], nil
}

func (t RequirementsTable) Validate() error {
	for i, r := range t {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%v: %w", Category(i), err)
		}
	}
	return nil
}

// LedgerParams are the owner-configurable staking parameters.
type LedgerParams struct {
	MinimumStake   uint64 `json:"minimumStake"`
	MinimumUnstake uint64 `json:"minimumUnstake"`
	CooldownPeriod uint64 `json:"cooldownPeriod"`
	EmergencyMode  bool   `json:"emergencyMode"`
}

func DefaultLedgerParams() LedgerParams {
	return LedgerParams{
		MinimumStake:   DefaultMinimumStake,
		MinimumUnstake: DefaultMinimumUnstake,
		CooldownPeriod: DefaultCooldownPeriod,
	}
}

func ValidCooldown(period uint64) bool {
	return period >= MinCooldownPeriod && period <= MaxCooldownPeriod
}
