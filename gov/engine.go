package gov

import (
	"errors"
	"fmt"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/timburman/Reactive-Governance/guard"
	"github.com/timburman/Reactive-Governance/staking"
	"github.com/timburman/Reactive-Governance/store"
	"github.com/timburman/Reactive-Governance/types"
)

var (
	ErrTitleRequired          = errors.New("title required")
	ErrDescriptionRequired    = errors.New("description required")
	ErrBadChoiceCount         = errors.New("bad choice count")
	ErrTooManyActiveProposals = errors.New("too many active proposals")
	ErrProposalNotFound       = errors.New("proposal not found")
	ErrProposalNotActive      = errors.New("proposal not active")
	ErrVotingEnded            = errors.New("voting ended")
	ErrVotingStillActive      = errors.New("voting still active")
	ErrAlreadyVoted           = errors.New("already voted")
	ErrInvalidChoice          = errors.New("invalid choice")
	ErrNoVotingPower          = errors.New("no voting power")
	ErrNotPassed              = errors.New("proposal not passed")
	ErrDelayNotMet            = errors.New("execution delay not met")
	ErrGracePeriodExpired     = errors.New("grace period expired")
	ErrExecutionFailed        = errors.New("execution failed")
	ErrNotExpirable           = errors.New("proposal not expirable")
	ErrNotAuthorized          = errors.New("not authorized")
	ErrInvalidCategory        = types.ErrInvalidCategory
	ErrReentrant              = guard.ErrReentrant
)

// StakeLedger is the part of the staking ledger the engine drives. Open and close
// are accepted only from the engine's own address.
type StakeLedger interface {
	OpenProposal(caller common.Address, id uint64) error
	CloseProposal(caller common.Address, id uint64) error
	VotingPowerFor(addr common.Address, id uint64) (uint64, error)
	TotalStaked() (uint64, error)
}

// Executor performs the side effect attached to an executed proposal.
type Executor interface {
	Execute(target common.Address, value uint64, data []byte) error
}

type ExecutorFunc func(target common.Address, value uint64, data []byte) error

func (f ExecutorFunc) Execute(target common.Address, value uint64, data []byte) error {
	return f(target, value, data)
}

// ProposalInput carries the caller supplied fields of a new proposal. Choices must
// be empty for binary proposals.
type ProposalInput struct {
	Title       string
	Description string
	Category    types.Category
	Type        types.ProposalType
	Choices     []string
	Target      common.Address
	Value       uint64
	Data        []byte
}

type Engine struct {
	logger   cmtlog.Logger
	address  common.Address
	kv       store.KVStore
	ledger   StakeLedger
	acl      types.AccessControl
	executor Executor
	clock    staking.Clock
	guard    guard.Guard
}

func NewEngine(address common.Address, kv store.KVStore, ledger StakeLedger, acl types.AccessControl, executor Executor, clock staking.Clock, logger cmtlog.Logger) *Engine {
	return &Engine{
		logger:   logger.With("module", "gov"),
		address:  address,
		kv:       kv,
		ledger:   ledger,
		acl:      acl,
		executor: executor,
		clock:    clock,
	}
}

func (e *Engine) Address() common.Address {
	return e.address
}

func (e *Engine) InitGenesis(reqs types.RequirementsTable) error {
	if err := reqs.Validate(); err != nil {
		return err
	}
	return store.Atomic(e.kv, func(kv store.KVStore) error {
		return govStore{kv}.setRequirements(reqs)
	})
}

func (e *Engine) apply(fn func(gs govStore) error) error {
	if err := e.guard.Enter(); err != nil {
		return err
	}
	defer e.guard.Exit()
	return store.Atomic(e.kv, func(kv store.KVStore) error {
		return fn(govStore{kv})
	})
}

func (e *Engine) authorize(role types.Role, caller common.Address) error {
	if e.acl == nil || !e.acl.HasRole(role, caller) {
		return ErrNotAuthorized
	}
	return nil
}

func validateInput(in *ProposalInput) (choices []string, err error) {
	if in.Title == "" {
		return nil, ErrTitleRequired
	}
	if in.Description == "" {
		return nil, ErrDescriptionRequired
	}
	if !in.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	switch in.Type {
	case types.ProposalTypeBinary:
		if len(in.Choices) != 0 {
			return nil, ErrBadChoiceCount
		}
		choices = append([]string(nil), types.BinaryChoices...)
	case types.ProposalTypeMultiChoice:
		if len(in.Choices) < types.MinChoices || len(in.Choices) > types.MaxChoices {
			return nil, ErrBadChoiceCount
		}
		choices = append([]string(nil), in.Choices...)
	default:
		return nil, types.ErrInvalidProposalType
	}
	return
}

// CreateProposal allocates the next id, opens its snapshot window on the ledger
// and stores the proposal as active.
func (e *Engine) CreateProposal(caller common.Address, in ProposalInput) (event *types.EventProposal, err error) {
	e.logger.Debug("apply create proposal", "proposer", caller, "category", in.Category, "type", in.Type)
	if err = e.authorize(types.RoleProposer, caller); err != nil {
		return nil, err
	}
	choices, err := validateInput(&in)
	if err != nil {
		return nil, err
	}
	err = e.apply(func(gs govStore) error {
		reqs, err := gs.requirements()
		if err != nil {
			return err
		}
		req, err := reqs.For(in.Category)
		if err != nil {
			return err
		}
		count, err := gs.proposalCount()
		if err != nil {
			return err
		}
		total, err := e.ledger.TotalStaked()
		if err != nil {
			return err
		}
		now := e.clock()
		p := &types.Proposal{
			ID:            count + 1,
			Title:         in.Title,
			Description:   in.Description,
			Category:      in.Category,
			Type:          in.Type,
			Choices:       choices,
			Proposer:      caller,
			CreatedAt:     now,
			VotingEnd:     now + types.VotingPeriod,
			Requirements:  req,
			TotalStaked:   total,
			Votes:         make([]uint64, len(choices)),
			State:         types.ProposalStateActive,
			WinningChoice: types.NoWinner,
			Target:        in.Target,
			Value:         in.Value,
			Data:          in.Data,
		}
		p.ExecutionTime = p.VotingEnd + req.ExecutionDelay
		p.GraceEnd = p.ExecutionTime + types.GracePeriod
		dat, err := encodeProposal(p)
		if err != nil {
			return err
		}
		if err = gs.setProposalCount(p.ID); err != nil {
			return err
		}
		if err = e.ledger.OpenProposal(e.address, p.ID); err != nil {
			if errors.Is(err, staking.ErrTooManyActive) {
				return ErrTooManyActiveProposals
			}
			return err
		}
		if err = gs.setProposalBytes(p.ID, dat); err != nil {
			return err
		}
		event = &types.EventProposal{
			ProposalID:    p.ID,
			Proposer:      caller,
			Category:      p.Category,
			Type:          p.Type,
			Title:         p.Title,
			Choices:       uint64(len(p.Choices)),
			VotingEnd:     p.VotingEnd,
			ExecutionTime: p.ExecutionTime,
			GraceEnd:      p.GraceEnd,
			TotalStaked:   p.TotalStaked,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return
}

func (e *Engine) Vote(voter common.Address, id uint64, choice uint64) (event *types.EventVote, err error) {
	e.logger.Debug("apply vote", "voter", voter, "proposal", id, "choice", choice)
	err = e.apply(func(gs govStore) error {
		p, err := gs.proposal(id)
		if err != nil {
			return err
		}
		if p.State != types.ProposalStateActive {
			return ErrProposalNotActive
		}
		if e.clock() > p.VotingEnd {
			return ErrVotingEnded
		}
		rec, err := gs.vote(id, voter)
		if err != nil {
			return err
		}
		if rec.Voted {
			return ErrAlreadyVoted
		}
		if choice >= uint64(len(p.Votes)) {
			return ErrInvalidChoice
		}
		weight, err := e.ledger.VotingPowerFor(voter, id)
		if err != nil {
			return err
		}
		if weight == 0 {
			return ErrNoVotingPower
		}
		if p.Votes[choice]+weight < weight || p.TotalVotes+weight < weight {
			return staking.ErrOverflow
		}
		p.Votes[choice] += weight
		p.TotalVotes += weight
		dat, err := encodeProposal(p)
		if err != nil {
			return err
		}
		if err = gs.setProposalBytes(id, dat); err != nil {
			return err
		}
		if err = gs.setVote(id, voter, types.VoteRecord{Voted: true, Choice: choice, Weight: weight}); err != nil {
			return err
		}
		event = &types.EventVote{
			ProposalID: id,
			Voter:      voter,
			Choice:     choice,
			Weight:     weight,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return
}

// ResolveProposal closes voting on id and records the outcome. Anyone may call it
// once the voting period has ended.
func (e *Engine) ResolveProposal(id uint64) (event *types.EventResolveProposal, err error) {
	e.logger.Debug("apply resolve proposal", "proposal", id)
	err = e.apply(func(gs govStore) error {
		p, err := gs.proposal(id)
		if err != nil {
			return err
		}
		if p.State != types.ProposalStateActive {
			return ErrProposalNotActive
		}
		if e.clock() <= p.VotingEnd {
			return ErrVotingStillActive
		}
		p.State, p.WinningChoice = tally(p)
		dat, err := encodeProposal(p)
		if err != nil {
			return err
		}
		if err = e.ledger.CloseProposal(e.address, id); err != nil {
			return err
		}
		if err = gs.setProposalBytes(id, dat); err != nil {
			return err
		}
		event = &types.EventResolveProposal{
			ProposalID:    id,
			State:         p.State,
			TotalVotes:    p.TotalVotes,
			WinningChoice: p.WinningChoice,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return
}

// ExecuteProposal marks a succeeded proposal executed and runs its payload. A
// failing payload aborts the whole call.
func (e *Engine) ExecuteProposal(caller common.Address, id uint64) (event *types.EventExecuteProposal, err error) {
	e.logger.Debug("apply execute proposal", "caller", caller, "proposal", id)
	if err = e.authorize(types.RoleAdmin, caller); err != nil {
		return nil, err
	}
	err = e.apply(func(gs govStore) error {
		p, err := gs.proposal(id)
		if err != nil {
			return err
		}
		if p.State != types.ProposalStateSucceeded {
			return ErrNotPassed
		}
		now := e.clock()
		if now < p.ExecutionTime {
			return ErrDelayNotMet
		}
		if now > p.GraceEnd {
			return ErrGracePeriodExpired
		}
		p.State = types.ProposalStateExecuted
		dat, err := encodeProposal(p)
		if err != nil {
			return err
		}
		if err = gs.setProposalBytes(id, dat); err != nil {
			return err
		}
		if p.HasPayload() {
			if e.executor == nil {
				return ErrExecutionFailed
			}
			if err = e.executor.Execute(p.Target, p.Value, p.Data); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutionFailed, err)
			}
		}
		event = &types.EventExecuteProposal{
			ProposalID: id,
			Target:     p.Target,
			Value:      p.Value,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return
}

func (e *Engine) CancelProposal(caller common.Address, id uint64) (event *types.EventProposalState, err error) {
	e.logger.Debug("apply cancel proposal", "caller", caller, "proposal", id)
	if err = e.authorize(types.RoleProposer, caller); err != nil {
		return nil, err
	}
	err = e.apply(func(gs govStore) error {
		p, err := gs.proposal(id)
		if err != nil {
			return err
		}
		if p.State != types.ProposalStateActive {
			return ErrProposalNotActive
		}
		p.State = types.ProposalStateCancelled
		dat, err := encodeProposal(p)
		if err != nil {
			return err
		}
		if err = e.ledger.CloseProposal(e.address, id); err != nil {
			return err
		}
		if err = gs.setProposalBytes(id, dat); err != nil {
			return err
		}
		event = &types.EventProposalState{ProposalID: id, State: p.State}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return
}

// ExpireProposal moves a succeeded proposal whose grace period has lapsed to the
// terminal expired state.
func (e *Engine) ExpireProposal(id uint64) (event *types.EventProposalState, err error) {
	e.logger.Debug("apply expire proposal", "proposal", id)
	err = e.apply(func(gs govStore) error {
		p, err := gs.proposal(id)
		if err != nil {
			return err
		}
		if p.State != types.ProposalStateSucceeded || e.clock() <= p.GraceEnd {
			return ErrNotExpirable
		}
		p.State = types.ProposalStateExpired
		dat, err := encodeProposal(p)
		if err != nil {
			return err
		}
		if err = gs.setProposalBytes(id, dat); err != nil {
			return err
		}
		event = &types.EventProposalState{ProposalID: id, State: p.State}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return
}
