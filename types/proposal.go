package types

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

type ProposalType uint8

const (
	ProposalTypeBinary      ProposalType = 0
	ProposalTypeMultiChoice ProposalType = 1
)

func (t ProposalType) String() string {
	switch t {
	case ProposalTypeBinary:
		return "binary"
	case ProposalTypeMultiChoice:
		return "multi-choice"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

func ParseProposalType(s string) (ProposalType, error) {
	switch strings.ToLower(s) {
	case "binary":
		return ProposalTypeBinary, nil
	case "multi-choice", "multi":
		return ProposalTypeMultiChoice, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidProposalType, s)
}

// Fixed choice layout of binary proposals.
const (
	ChoiceFor     = 0
	ChoiceAgainst = 1
	ChoiceAbstain = 2
)

var BinaryChoices = []string{"For", "Against", "Abstain"}

type ProposalState uint8

const (
	ProposalStateActive    ProposalState = 1
	ProposalStateSucceeded ProposalState = 2
	ProposalStateDefeated  ProposalState = 3
	ProposalStateExecuted  ProposalState = 4
	ProposalStateCancelled ProposalState = 5
	ProposalStateExpired   ProposalState = 6
)

func (s ProposalState) String() string {
	switch s {
	case ProposalStateActive:
		return "active"
	case ProposalStateSucceeded:
		return "succeeded"
	case ProposalStateDefeated:
		return "defeated"
	case ProposalStateExecuted:
		return "executed"
	case ProposalStateCancelled:
		return "cancelled"
	case ProposalStateExpired:
		return "expired"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// NoWinner marks a proposal without a winning choice.
const NoWinner int64 = -1

type Proposal struct {
	ID          uint64         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    Category       `json:"category"`
	Type        ProposalType   `json:"type"`
	Choices     []string       `json:"choices"`
	Proposer    common.Address `json:"proposer"`

	CreatedAt     uint64 `json:"createdAt"`
	VotingEnd     uint64 `json:"votingEnd"`
	ExecutionTime uint64 `json:"executionTime"`
	GraceEnd      uint64 `json:"graceEnd"`

	Requirements Requirements `json:"requirements"`
	TotalStaked  uint64       `json:"totalStaked"`

	Votes         []uint64      `json:"votes"`
	TotalVotes    uint64        `json:"totalVotes"`
	State         ProposalState `json:"state"`
	WinningChoice int64         `json:"winningChoice"`

	Target common.Address `json:"target"`
	Value  uint64         `json:"value"`
	Data   []byte         `json:"data"`
}

func (p *Proposal) HasPayload() bool {
	return p.Target != (common.Address{})
}

type VoteRecord struct {
	Voted  bool
	Choice uint64
	Weight uint64
}

type UnstakeRequest struct {
	Amount      uint64 `json:"amount"`
	RequestTime uint64 `json:"requestTime"`
}

// Claimable reports whether the cooldown of r has elapsed at now.
func (r UnstakeRequest) Claimable(now, cooldown uint64, emergency bool) bool {
	return emergency || now >= r.RequestTime+cooldown
}

type Snapshot struct {
	Taken   bool
	Balance uint64
}
