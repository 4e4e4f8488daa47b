package indexer

// sqlite models

type Height struct {
	Id     uint64 `gorm:"primary_key" json:"id"`
	Height uint64 `json:"height"`
}

type Proposal struct {
	Id            uint64 `gorm:"primary_key" json:"id"`
	Proposer      string `json:"proposer"`
	Category      uint64 `json:"category"`
	Type          uint64 `json:"type"`
	Title         string `json:"title"`
	Choices       uint64 `json:"choices"`
	VotingEnd     uint64 `json:"voting_end"`
	ExecutionTime uint64 `json:"execution_time"`
	GraceEnd      uint64 `json:"grace_end"`
	TotalStaked   uint64 `json:"total_staked"`
	TotalVotes    uint64 `json:"total_votes"`
	State         uint64 `json:"state"`
	WinningChoice int64  `json:"winning_choice"`
	NewHeight     uint64 `json:"new_height"`
	SettleHeight  uint64 `json:"settle_height"`
	ExecHeight    uint64 `json:"exec_height"`
}

type Vote struct {
	Id       uint64 `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Proposal uint64 `json:"proposal"`
	Voter    string `json:"voter"`
	Choice   uint64 `json:"choice"`
	Weight   uint64 `json:"weight"`
	Height   uint64 `json:"height"`
}

const (
	StakeKindStake    = "stake"
	StakeKindUnstake  = "unstake"
	StakeKindClaim    = "claim"
	StakeKindClaimAll = "claim_all"
)

type StakeEvent struct {
	Id          uint64 `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Kind        string `json:"kind"`
	Address     string `json:"address"`
	Amount      uint64 `json:"amount"`
	Balance     uint64 `json:"balance"`
	TotalStaked uint64 `json:"total_staked"`
	Height      uint64 `json:"height"`
}
