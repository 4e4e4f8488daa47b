package types

import (
	"fmt"
	"strconv"
	"strings"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/ethereum/go-ethereum/common"
)

const (
	EventStakeType           = "stake"
	EventUnstakeType         = "unstake"
	EventClaimType           = "claim"
	EventClaimAllType        = "claim_all"
	EventLedgerConfigType    = "ledger_config"
	EventProposalType        = "proposal"
	EventVoteType            = "vote"
	EventResolveProposalType = "resolve_proposal"
	EventExecuteProposalType = "execute_proposal"
	EventCancelProposalType  = "cancel_proposal"
	EventExpireProposalType  = "expire_proposal"
	EventTransferType        = "transfer"
	EventApprovalType        = "approval"
)

func attr(key string, value any, index bool) abci.EventAttribute {
	return abci.EventAttribute{Key: key, Value: fmt.Sprintf("%v", value), Index: index}
}

func joinUints(vs []uint64) string {
	s := make([]string, len(vs))
	for i, v := range vs {
		s[i] = strconv.FormatUint(v, 10)
	}
	return strings.Join(s, ",")
}

// attrReader collects attribute values and remembers the first parse failure.
type attrReader struct {
	attrs map[string]string
	err   error
}

func newAttrReader(event abci.Event) *attrReader {
	r := &attrReader{attrs: make(map[string]string, len(event.Attributes))}
	for _, a := range event.Attributes {
		r.attrs[a.Key] = a.Value
	}
	return r
}

func (r *attrReader) str(key string) string {
	return r.attrs[key]
}

func (r *attrReader) uint(key string) uint64 {
	v, ok := r.attrs[key]
	if !ok || r.err != nil {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		r.err = err
	}
	return n
}

func (r *attrReader) int(key string) int64 {
	v, ok := r.attrs[key]
	if !ok || r.err != nil {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		r.err = err
	}
	return n
}

func (r *attrReader) bool(key string) bool {
	v, ok := r.attrs[key]
	if !ok || r.err != nil {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.err = err
	}
	return b
}

func (r *attrReader) address(key string) common.Address {
	v := r.attrs[key]
	if !common.IsHexAddress(v) {
		if r.err == nil {
			r.err = fmt.Errorf("invalid address %q", v)
		}
		return common.Address{}
	}
	return common.HexToAddress(v)
}

func (r *attrReader) uints(key string) []uint64 {
	v := r.attrs[key]
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	res := make([]uint64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			if r.err == nil {
				r.err = err
			}
			return nil
		}
		res = append(res, n)
	}
	return res
}

type EventStake struct {
	Staker      common.Address `json:"staker"`
	Amount      uint64         `json:"amount"`
	Balance     uint64         `json:"balance"`
	TotalStaked uint64         `json:"totalStaked"`
	Snapshots   []uint64       `json:"snapshots"`
}

func EncodeEventStake(event *EventStake) abci.Event {
	return abci.Event{
		Type: EventStakeType,
		Attributes: []abci.EventAttribute{
			attr("staker", event.Staker, true),
			attr("amount", event.Amount, false),
			attr("balance", event.Balance, false),
			attr("totalStaked", event.TotalStaked, false),
			attr("snapshots", joinUints(event.Snapshots), false),
		},
	}
}

func DecodeEventStake(originEvent abci.Event) *EventStake {
	r := newAttrReader(originEvent)
	event := &EventStake{
		Staker:      r.address("staker"),
		Amount:      r.uint("amount"),
		Balance:     r.uint("balance"),
		TotalStaked: r.uint("totalStaked"),
		Snapshots:   r.uints("snapshots"),
	}
	if r.err != nil {
		return nil
	}
	return event
}

type EventUnstake struct {
	Staker       common.Address `json:"staker"`
	Amount       uint64         `json:"amount"`
	RequestIndex uint64         `json:"requestIndex"`
	RequestTime  uint64         `json:"requestTime"`
	Balance      uint64         `json:"balance"`
	TotalStaked  uint64         `json:"totalStaked"`
	Snapshots    []uint64       `json:"snapshots"`
}

func EncodeEventUnstake(event *EventUnstake) abci.Event {
	return abci.Event{
		Type: EventUnstakeType,
		Attributes: []abci.EventAttribute{
			attr("staker", event.Staker, true),
			attr("amount", event.Amount, false),
			attr("requestIndex", event.RequestIndex, false),
			attr("requestTime", event.RequestTime, false),
			attr("balance", event.Balance, false),
			attr("totalStaked", event.TotalStaked, false),
			attr("snapshots", joinUints(event.Snapshots), false),
		},
	}
}

func DecodeEventUnstake(originEvent abci.Event) *EventUnstake {
	r := newAttrReader(originEvent)
	event := &EventUnstake{
		Staker:       r.address("staker"),
		Amount:       r.uint("amount"),
		RequestIndex: r.uint("requestIndex"),
		RequestTime:  r.uint("requestTime"),
		Balance:      r.uint("balance"),
		TotalStaked:  r.uint("totalStaked"),
		Snapshots:    r.uints("snapshots"),
	}
	if r.err != nil {
		return nil
	}
	return event
}

type EventClaim struct {
	Staker       common.Address `json:"staker"`
	Amount       uint64         `json:"amount"`
	RequestIndex uint64         `json:"requestIndex"`
}

func EncodeEventClaim(event *EventClaim) abci.Event {
	return abci.Event{
		Type: EventClaimType,
		Attributes: []abci.EventAttribute{
			attr("staker", event.Staker, true),
			attr("amount", event.Amount, false),
			attr("requestIndex", event.RequestIndex, false),
		},
	}
}

func DecodeEventClaim(originEvent abci.Event) *EventClaim {
	r := newAttrReader(originEvent)
	event := &EventClaim{
		Staker:       r.address("staker"),
		Amount:       r.uint("amount"),
		RequestIndex: r.uint("requestIndex"),
	}
	if r.err != nil {
		return nil
	}
	return event
}

type EventClaimAll struct {
	Staker common.Address `json:"staker"`
	Count  uint64         `json:"count"`
	Total  uint64         `json:"total"`
}

func EncodeEventClaimAll(event *EventClaimAll) abci.Event {
	return abci.Event{
		Type: EventClaimAllType,
		Attributes: []abci.EventAttribute{
			attr("staker", event.Staker, true),
			attr("count", event.Count, false),
			attr("total", event.Total, false),
		},
	}
}

func DecodeEventClaimAll(originEvent abci.Event) *EventClaimAll {
	r := newAttrReader(originEvent)
	event := &EventClaimAll{
		Staker: r.address("staker"),
		Count:  r.uint("count"),
		Total:  r.uint("total"),
	}
	if r.err != nil {
		return nil
	}
	return event
}

type EventLedgerConfig struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func EncodeEventLedgerConfig(event *EventLedgerConfig) abci.Event {
	return abci.Event{
		Type: EventLedgerConfigType,
		Attributes: []abci.EventAttribute{
			attr("field", event.Field, true),
			attr("value", event.Value, false),
		},
	}
}

type EventProposal struct {
	ProposalID    uint64         `json:"proposalId"`
	Proposer      common.Address `json:"proposer"`
	Category      Category       `json:"category"`
	Type          ProposalType   `json:"type"`
	Title         string         `json:"title"`
	Choices       uint64         `json:"choices"`
	VotingEnd     uint64         `json:"votingEnd"`
	ExecutionTime uint64         `json:"executionTime"`
	GraceEnd      uint64         `json:"graceEnd"`
	TotalStaked   uint64         `json:"totalStaked"`
}

func EncodeEventProposal(event *EventProposal) abci.Event {
	return abci.Event{
		Type: EventProposalType,
		Attributes: []abci.EventAttribute{
			attr("proposal", event.ProposalID, true),
			attr("proposer", event.Proposer, true),
			attr("category", uint8(event.Category), false),
			attr("type", uint8(event.Type), false),
			attr("title", event.Title, false),
			attr("choices", event.Choices, false),
			attr("votingEnd", event.VotingEnd, false),
			attr("executionTime", event.ExecutionTime, false),
			attr("graceEnd", event.GraceEnd, false),
			attr("totalStaked", event.TotalStaked, false),
		},
	}
}

func DecodeEventProposal(originEvent abci.Event) *EventProposal {
	r := newAttrReader(originEvent)
	event := &EventProposal{
		ProposalID:    r.uint("proposal"),
		Proposer:      r.address("proposer"),
		Category:      Category(r.uint("category")),
		Type:          ProposalType(r.uint("type")),
		Title:         r.str("title"),
		Choices:       r.uint("choices"),
		VotingEnd:     r.uint("votingEnd"),
		ExecutionTime: r.uint("executionTime"),
		GraceEnd:      r.uint("graceEnd"),
		TotalStaked:   r.uint("totalStaked"),
	}
	if r.err != nil {
		return nil
	}
	return event
}

type EventVote struct {
	ProposalID uint64         `json:"proposalId"`
	Voter      common.Address `json:"voter"`
	Choice     uint64         `json:"choice"`
	Weight     uint64         `json:"weight"`
}

func EncodeEventVote(event *EventVote) abci.Event {
	return abci.Event{
		Type: EventVoteType,
		Attributes: []abci.EventAttribute{
			attr("proposal", event.ProposalID, true),
			attr("voter", event.Voter, true),
			attr("choice", event.Choice, false),
			attr("weight", event.Weight, false),
		},
	}
}

func DecodeEventVote(originEvent abci.Event) *EventVote {
	r := newAttrReader(originEvent)
	event := &EventVote{
		ProposalID: r.uint("proposal"),
		Voter:      r.address("voter"),
		Choice:     r.uint("choice"),
		Weight:     r.uint("weight"),
	}
	if r.err != nil {
		return nil
	}
	return event
}

type EventResolveProposal struct {
	ProposalID    uint64        `json:"proposalId"`
	State         ProposalState `json:"state"`
	TotalVotes    uint64        `json:"totalVotes"`
	WinningChoice int64         `json:"winningChoice"`
}

func EncodeEventResolveProposal(event *EventResolveProposal) abci.Event {
	return abci.Event{
		Type: EventResolveProposalType,
		Attributes: []abci.EventAttribute{
			attr("proposal", event.ProposalID, true),
			attr("state", uint8(event.State), false),
			attr("totalVotes", event.TotalVotes, false),
			attr("winningChoice", event.WinningChoice, false),
		},
	}
}

func DecodeEventResolveProposal(originEvent abci.Event) *EventResolveProposal {
	r := newAttrReader(originEvent)
	event := &EventResolveProposal{
		ProposalID:    r.uint("proposal"),
		State:         ProposalState(r.uint("state")),
		TotalVotes:    r.uint("totalVotes"),
		WinningChoice: r.int("winningChoice"),
	}
	if r.err != nil {
		return nil
	}
	return event
}

type EventExecuteProposal struct {
	ProposalID uint64         `json:"proposalId"`
	Target     common.Address `json:"target"`
	Value      uint64         `json:"value"`
}

func EncodeEventExecuteProposal(event *EventExecuteProposal) abci.Event {
	return abci.Event{
		Type: EventExecuteProposalType,
		Attributes: []abci.EventAttribute{
			attr("proposal", event.ProposalID, true),
			attr("target", event.Target, false),
			attr("value", event.Value, false),
		},
	}
}

func DecodeEventExecuteProposal(originEvent abci.Event) *EventExecuteProposal {
	r := newAttrReader(originEvent)
	event := &EventExecuteProposal{
		ProposalID: r.uint("proposal"),
		Target:     r.address("target"),
		Value:      r.uint("value"),
	}
	if r.err != nil {
		return nil
	}
	return event
}

// EventProposalState reports a transition that carries no data beyond the id:
// cancellation and expiry.
type EventProposalState struct {
	ProposalID uint64        `json:"proposalId"`
	State      ProposalState `json:"state"`
}

func EncodeEventProposalState(event *EventProposalState) abci.Event {
	tp := EventCancelProposalType
	if event.State == ProposalStateExpired {
		tp = EventExpireProposalType
	}
	return abci.Event{
		Type: tp,
		Attributes: []abci.EventAttribute{
			attr("proposal", event.ProposalID, true),
			attr("state", uint8(event.State), false),
		},
	}
}

func DecodeEventProposalState(originEvent abci.Event) *EventProposalState {
	r := newAttrReader(originEvent)
	event := &EventProposalState{
		ProposalID: r.uint("proposal"),
		State:      ProposalState(r.uint("state")),
	}
	if r.err != nil {
		return nil
	}
	return event
}

type EventTransfer struct {
	From   common.Address `json:"from"`
	To     common.Address `json:"to"`
	Amount uint64         `json:"amount"`
}

func EncodeEventTransfer(event *EventTransfer) abci.Event {
	return abci.Event{
		Type: EventTransferType,
		Attributes: []abci.EventAttribute{
			attr("from", event.From, true),
			attr("to", event.To, true),
			attr("amount", event.Amount, false),
		},
	}
}

type EventApproval struct {
	Owner   common.Address `json:"owner"`
	Spender common.Address `json:"spender"`
	Amount  uint64         `json:"amount"`
}

func EncodeEventApproval(event *EventApproval) abci.Event {
	return abci.Event{
		Type: EventApprovalType,
		Attributes: []abci.EventAttribute{
			attr("owner", event.Owner, true),
			attr("spender", event.Spender, true),
			attr("amount", event.Amount, false),
		},
	}
}
