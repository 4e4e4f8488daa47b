package tx

import (
	"crypto/ecdsa"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/timburman/Reactive-Governance/types"
)

// GovTx is the signed envelope every transaction travels in. Tx holds a pointer
// to the body type selected by Type.
type GovTx struct {
	Version uint8          `json:"version"`
	Type    GovTxType      `json:"type"`
	Nonce   uint64         `json:"nonce"`
	Sender  common.Address `json:"sender"`
	Tx      any            `json:"tx"`
	Sig     []byte         `json:"sig"`
}

type TransferTx struct {
	To     common.Address `json:"to"`
	Amount uint64         `json:"amount"`
}

type ApproveTx struct {
	Spender common.Address `json:"spender"`
	Amount  uint64         `json:"amount"`
}

type StakeTx struct {
	Amount uint64 `json:"amount"`
}

type UnstakeTx struct {
	Amount uint64 `json:"amount"`
}

type ClaimTx struct {
	Index uint64 `json:"index"`
}

type ClaimAllTx struct{}

// LedgerConfigTx updates every field that is set.
type LedgerConfigTx struct {
	VotingContract *common.Address `json:"votingContract,omitempty"`
	CooldownPeriod *uint64         `json:"cooldownPeriod,omitempty"`
	MinimumStake   *uint64         `json:"minimumStake,omitempty"`
	MinimumUnstake *uint64         `json:"minimumUnstake,omitempty"`
	EmergencyMode  *bool           `json:"emergencyMode,omitempty"`
}

func (tx *LedgerConfigTx) ValidateBasic() error {
	if tx.VotingContract == nil && tx.CooldownPeriod == nil && tx.MinimumStake == nil &&
		tx.MinimumUnstake == nil && tx.EmergencyMode == nil {
		return ErrInvalidTx
	}
	return nil
}

type CreateProposalTx struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Category    types.Category     `json:"category"`
	Type        types.ProposalType `json:"type"`
	Choices     []string           `json:"choices"`
	Target      common.Address     `json:"target"`
	Value       uint64             `json:"value"`
	Data        []byte             `json:"data"`
}

type VoteTx struct {
	Proposal uint64 `json:"proposal"`
	Choice   uint64 `json:"choice"`
}

// ProposalTx names the proposal a resolve, execute, cancel or expire tx acts on.
type ProposalTx struct {
	Proposal uint64 `json:"proposal"`
}

type govTxTmpl[Tx any] struct {
	Version uint8          `json:"version"`
	Type    GovTxType      `json:"type"`
	Nonce   uint64         `json:"nonce"`
	Sender  common.Address `json:"sender"`
	Tx      Tx             `json:"tx"`
	Sig     []byte         `json:"sig"`
}

// SigData is the JSON encoding of tx with the signature replaced by the chain id.
func (tx *GovTx) SigData(chainId []byte) (dat []byte, err error) {
	ntx := *tx
	ntx.Sig = chainId
	dat, err = json.Marshal(ntx)
	return
}

func (tx *GovTx) SigHash(chainId string) (h common.Hash, err error) {
	dat, err := tx.SigData([]byte(chainId))
	if err != nil {
		return
	}
	h = crypto.Keccak256Hash(dat)
	return
}

func (tx *GovTx) Sign(key *ecdsa.PrivateKey, chainId string) error {
	h, err := tx.SigHash(chainId)
	if err != nil {
		return err
	}
	sig, err := crypto.Sign(h[:], key)
	if err != nil {
		return err
	}
	tx.Sig = sig
	return nil
}

// Signer recovers the address that signed tx for chainId.
func (tx *GovTx) Signer(chainId string) (addr common.Address, err error) {
	if len(tx.Sig) != crypto.SignatureLength {
		return addr, ErrMissingSig
	}
	h, err := tx.SigHash(chainId)
	if err != nil {
		return
	}
	pub, err := crypto.SigToPub(h[:], tx.Sig)
	if err != nil {
		return
	}
	addr = crypto.PubkeyToAddress(*pub)
	return
}

func parseGovTxType(dat []byte) GovTxType {
	var tx struct {
		Type GovTxType `json:"type"`
	}
	err := json.Unmarshal(dat, &tx)
	if err != nil {
		return GovTxTypeUnknown
	}
	return tx.Type
}

func unmarshalGovTx[Tx any](dat []byte) (btx *GovTx, err error) {
	var txt govTxTmpl[Tx]
	err = json.Unmarshal(dat, &txt)
	if err != nil {
		return
	}
	if txt.Version != GovTxVersion0 {
		return nil, ErrUnsupportedTxVersion
	}
	btx = new(GovTx)
	btx.Version = txt.Version
	btx.Type = txt.Type
	btx.Nonce = txt.Nonce
	btx.Sender = txt.Sender
	btx.Tx = &txt.Tx
	btx.Sig = txt.Sig
	return
}

func UnmarshalGovTx(dat []byte) (btx *GovTx, err error) {
	tp := parseGovTxType(dat)
	switch tp {
	case GovTxTypeTransfer:
		return unmarshalGovTx[TransferTx](dat)
	case GovTxTypeApprove:
		return unmarshalGovTx[ApproveTx](dat)
	case GovTxTypeStake:
		return unmarshalGovTx[StakeTx](dat)
	case GovTxTypeUnstake:
		return unmarshalGovTx[UnstakeTx](dat)
	case GovTxTypeClaim:
		return unmarshalGovTx[ClaimTx](dat)
	case GovTxTypeClaimAll:
		return unmarshalGovTx[ClaimAllTx](dat)
	case GovTxTypeLedgerConfig:
		return unmarshalGovTx[LedgerConfigTx](dat)
	case GovTxTypeCreateProposal:
		return unmarshalGovTx[CreateProposalTx](dat)
	case GovTxTypeVote:
		return unmarshalGovTx[VoteTx](dat)
	case GovTxTypeResolveProposal, GovTxTypeExecuteProposal, GovTxTypeCancelProposal, GovTxTypeExpireProposal:
		return unmarshalGovTx[ProposalTx](dat)
	default:
		err = ErrUnsupportedTxType
	}
	return
}

func MarshalGovTx(btx *GovTx) (dat []byte, err error) {
	return json.Marshal(btx)
}
