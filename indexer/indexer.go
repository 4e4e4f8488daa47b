package indexer

import (
	"context"
	"errors"
	"time"

	abci "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	comethttp "github.com/cometbft/cometbft/rpc/client/http"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/timburman/Reactive-Governance/types"
)

const pollInterval = time.Second

// ChainIndexer follows committed blocks over RPC and mirrors governance events
// into sqlite.
type ChainIndexer struct {
	logger        cmtlog.Logger
	Url           string
	Height        int64
	db            *gorm.DB
	cli           *comethttp.HTTP
	eventHandlers map[string]eventHandler
}

func OpenDB(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Height{}, &Proposal{}, &Vote{}, &StakeEvent{}).Error; err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func NewChainIndexer(logger cmtlog.Logger, dbPath string, chainUrl string) (*ChainIndexer, error) {
	logger.Info("NewChainIndexer", "dbPath", dbPath, "url", chainUrl)
	cli, err := comethttp.New(chainUrl, "/websocket")
	if err != nil {
		return nil, err
	}
	db, err := OpenDB(dbPath)
	if err != nil {
		return nil, err
	}
	c, err := newChainIndexer(logger, db, cli)
	if err != nil {
		db.Close()
		return nil, err
	}
	c.Url = chainUrl
	return c, nil
}

func newChainIndexer(logger cmtlog.Logger, db *gorm.DB, cli *comethttp.HTTP) (*ChainIndexer, error) {
	h := Height{Id: 1}
	if err := db.First(&h).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	c := &ChainIndexer{
		logger: logger.With("module", "indexer"),
		Height: int64(h.Height + 1),
		db:     db,
		cli:    cli,
	}
	c.eventHandlers = map[string]eventHandler{
		types.EventProposalType:        c.handleEventProposal,
		types.EventVoteType:            c.handleEventVote,
		types.EventResolveProposalType: c.handleEventResolveProposal,
		types.EventExecuteProposalType: c.handleEventExecuteProposal,
		types.EventCancelProposalType:  c.handleEventProposalState,
		types.EventExpireProposalType:  c.handleEventProposalState,
		types.EventStakeType:           c.handleEventStake,
		types.EventUnstakeType:         c.handleEventUnstake,
		types.EventClaimType:           c.handleEventClaim,
		types.EventClaimAllType:        c.handleEventClaimAll,
	}
	return c, nil
}

func (c *ChainIndexer) Close() error {
	return c.db.Close()
}

// Start polls the node until ctx is done.
func (c *ChainIndexer) Start(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := c.sync(ctx); err != nil && ctx.Err() == nil {
				c.logger.Error("sync fail", "height", c.Height, "err", err)
			}
		}
	}
}

func (c *ChainIndexer) sync(ctx context.Context) error {
	status, err := c.cli.Status(ctx)
	if err != nil {
		return err
	}
	for status.SyncInfo.LatestBlockHeight >= c.Height {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		height := c.Height
		res, err := c.cli.BlockResults(ctx, &height)
		if err != nil {
			return err
		}
		c.logger.Debug("indexer syncing", "height", height)
		if err = c.indexBlock(ctx, height, res.TxsResults); err != nil {
			return err
		}
		c.Height++
	}
	return nil
}

// indexBlock records the events of successful txs and the height in one db
// transaction.
func (c *ChainIndexer) indexBlock(ctx context.Context, height int64, results []*abci.ExecTxResult) error {
	tx := c.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	for _, res := range results {
		if res.Code != 0 {
			continue
		}
		for _, event := range res.Events {
			if err := c.handleEvent(ctx, tx, event, height); err != nil {
				tx.Rollback()
				return err
			}
		}
	}
	if err := tx.Save(&Height{Id: 1, Height: uint64(height)}).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

type eventHandler func(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error

var errDecodeEvent = errors.New("decode event fail")

func (c *ChainIndexer) handleEvent(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	if h, ok := c.eventHandlers[event.Type]; ok {
		return h(ctx, db, event, height)
	}
	return nil
}

func (c *ChainIndexer) handleEventProposal(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	ev := types.DecodeEventProposal(event)
	if ev == nil {
		return errDecodeEvent
	}
	proposal := Proposal{
		Id:            ev.ProposalID,
		Proposer:      ev.Proposer.Hex(),
		Category:      uint64(ev.Category),
		Type:          uint64(ev.Type),
		Title:         ev.Title,
		Choices:       ev.Choices,
		VotingEnd:     ev.VotingEnd,
		ExecutionTime: ev.ExecutionTime,
		GraceEnd:      ev.GraceEnd,
		TotalStaked:   ev.TotalStaked,
		State:         uint64(types.ProposalStateActive),
		WinningChoice: types.NoWinner,
		NewHeight:     uint64(height),
	}
	return db.Save(&proposal).Error
}

func (c *ChainIndexer) handleEventVote(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	ev := types.DecodeEventVote(event)
	if ev == nil {
		return errDecodeEvent
	}
	vote := Vote{
		Proposal: ev.ProposalID,
		Voter:    ev.Voter.Hex(),
		Choice:   ev.Choice,
		Weight:   ev.Weight,
		Height:   uint64(height),
	}
	if err := db.Create(&vote).Error; err != nil {
		return err
	}
	return db.Model(&Proposal{}).Where("id = ?", ev.ProposalID).
		UpdateColumn("total_votes", gorm.Expr("total_votes + ?", ev.Weight)).Error
}

func (c *ChainIndexer) handleEventResolveProposal(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	ev := types.DecodeEventResolveProposal(event)
	if ev == nil {
		return errDecodeEvent
	}
	return db.Model(&Proposal{}).Where("id = ?", ev.ProposalID).Updates(map[string]any{
		"state":          uint64(ev.State),
		"total_votes":    ev.TotalVotes,
		"winning_choice": ev.WinningChoice,
		"settle_height":  uint64(height),
	}).Error
}

func (c *ChainIndexer) handleEventExecuteProposal(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	ev := types.DecodeEventExecuteProposal(event)
	if ev == nil {
		return errDecodeEvent
	}
	return db.Model(&Proposal{}).Where("id = ?", ev.ProposalID).Updates(map[string]any{
		"state":       uint64(types.ProposalStateExecuted),
		"exec_height": uint64(height),
	}).Error
}

func (c *ChainIndexer) handleEventProposalState(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	ev := types.DecodeEventProposalState(event)
	if ev == nil {
		return errDecodeEvent
	}
	return db.Model(&Proposal{}).Where("id = ?", ev.ProposalID).Updates(map[string]any{
		"state":         uint64(ev.State),
		"settle_height": uint64(height),
	}).Error
}

func (c *ChainIndexer) handleEventStake(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	ev := types.DecodeEventStake(event)
	if ev == nil {
		return errDecodeEvent
	}
	return db.Create(&StakeEvent{
		Kind:        StakeKindStake,
		Address:     ev.Staker.Hex(),
		Amount:      ev.Amount,
		Balance:     ev.Balance,
		TotalStaked: ev.TotalStaked,
		Height:      uint64(height),
	}).Error
}

func (c *ChainIndexer) handleEventUnstake(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	ev := types.DecodeEventUnstake(event)
	if ev == nil {
		return errDecodeEvent
	}
	return db.Create(&StakeEvent{
		Kind:        StakeKindUnstake,
		Address:     ev.Staker.Hex(),
		Amount:      ev.Amount,
		Balance:     ev.Balance,
		TotalStaked: ev.TotalStaked,
		Height:      uint64(height),
	}).Error
}

func (c *ChainIndexer) handleEventClaim(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	ev := types.DecodeEventClaim(event)
	if ev == nil {
		return errDecodeEvent
	}
	return db.Create(&StakeEvent{
		Kind:    StakeKindClaim,
		Address: ev.Staker.Hex(),
		Amount:  ev.Amount,
		Height:  uint64(height),
	}).Error
}

func (c *ChainIndexer) handleEventClaimAll(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	ev := types.DecodeEventClaimAll(event)
	if ev == nil {
		return errDecodeEvent
	}
	return db.Create(&StakeEvent{
		Kind:    StakeKindClaimAll,
		Address: ev.Staker.Hex(),
		Amount:  ev.Total,
		Height:  uint64(height),
	}).Error
}

func (c *ChainIndexer) getProposals(state uint64, proposer string, page int, pageSize int) ([]Proposal, uint64, error) {
	q := c.db.Model(&Proposal{})
	if state != 0 {
		q = q.Where("state = ?", state)
	}
	if proposer != "" {
		q = q.Where("proposer = ?", proposer)
	}
	var total uint64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var proposals []Proposal
	err := q.Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&proposals).Error
	if err != nil {
		return nil, 0, err
	}
	return proposals, total, nil
}

func (c *ChainIndexer) getProposalById(proposalId uint64) (Proposal, error) {
	var proposal Proposal
	err := c.db.Where("id = ?", proposalId).First(&proposal).Error
	if err != nil {
		return Proposal{}, err
	}
	return proposal, nil
}

func (c *ChainIndexer) getVotes(proposal uint64, voter string, page int, pageSize int) ([]Vote, uint64, error) {
	q := c.db.Model(&Vote{})
	if proposal != 0 {
		q = q.Where("proposal = ?", proposal)
	}
	if voter != "" {
		q = q.Where("voter = ?", voter)
	}
	var total uint64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var votes []Vote
	err := q.Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&votes).Error
	if err != nil {
		return nil, 0, err
	}
	return votes, total, nil
}

func (c *ChainIndexer) getStakeEvents(address string, page int, pageSize int) ([]StakeEvent, uint64, error) {
	q := c.db.Model(&StakeEvent{}).Where("address = ?", address)
	var total uint64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var events []StakeEvent
	err := q.Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
