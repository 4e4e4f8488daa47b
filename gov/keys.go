package gov

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/timburman/Reactive-Governance/store"
	"github.com/timburman/Reactive-Governance/types"
)

var (
	KeyProposalCount = []byte("g/count")
	KeyRequirements  = []byte("g/reqs")
	KeyProposal      = "g/p/%d"
	KeyVote          = "g/v/%d/%x"
)

type govStore struct {
	kv store.KVStore
}

func (s govStore) proposalCount() (uint64, error) {
	return store.GetUint64(s.kv, KeyProposalCount)
}

func (s govStore) setProposalCount(n uint64) error {
	return store.SetUint64(s.kv, KeyProposalCount, n)
}

func (s govStore) requirements() (t types.RequirementsTable, err error) {
	dat, err := s.kv.Get(KeyRequirements)
	if err != nil {
		return
	}
	if dat == nil {
		return types.DefaultRequirements(), nil
	}
	var rs []types.Requirements
	if err = rlp.DecodeBytes(dat, &rs); err != nil {
		return
	}
	if len(rs) != types.NumCategories {
		err = fmt.Errorf("requirements table has %d categories", len(rs))
		return
	}
	copy(t[:], rs)
	return
}

func (s govStore) setRequirements(t types.RequirementsTable) error {
	dat, err := rlp.EncodeToBytes(t[:])
	if err != nil {
		return err
	}
	return s.kv.Set(KeyRequirements, dat)
}

func (s govStore) proposal(id uint64) (*types.Proposal, error) {
	dat, err := s.kv.Get([]byte(fmt.Sprintf(KeyProposal, id)))
	if err != nil {
		return nil, err
	}
	if dat == nil {
		return nil, ErrProposalNotFound
	}
	p := new(types.Proposal)
	if err = json.Unmarshal(dat, p); err != nil {
		return nil, err
	}
	return p, nil
}

func encodeProposal(p *types.Proposal) ([]byte, error) {
	return json.Marshal(p)
}

func (s govStore) setProposalBytes(id uint64, dat []byte) error {
	return s.kv.Set([]byte(fmt.Sprintf(KeyProposal, id)), dat)
}

func (s govStore) vote(id uint64, voter common.Address) (rec types.VoteRecord, err error) {
	dat, err := s.kv.Get([]byte(fmt.Sprintf(KeyVote, id, voter.Bytes())))
	if err != nil || dat == nil {
		return
	}
	err = rlp.DecodeBytes(dat, &rec)
	return
}

func (s govStore) setVote(id uint64, voter common.Address, rec types.VoteRecord) error {
	dat, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		return err
	}
	return s.kv.Set([]byte(fmt.Sprintf(KeyVote, id, voter.Bytes())), dat)
}
