package state

import (
	"errors"
	"fmt"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/timburman/Reactive-Governance/bank"
	"github.com/timburman/Reactive-Governance/gov"
	"github.com/timburman/Reactive-Governance/staking"
	"github.com/timburman/Reactive-Governance/store"
	"github.com/timburman/Reactive-Governance/tx"
	"github.com/timburman/Reactive-Governance/types"
)

var (
	KeyState = []byte("s")
	KeyNonce = "n/%x"
	KeyRole  = "r/%d/%x"
)

var (
	ErrTxNonceInvalid    = errors.New("nonce invalid")
	ErrTxSigInvalid      = errors.New("signature invalid")
	ErrTxSenderMismatch  = errors.New("sender does not match signature")
	ErrStateNotCommitted = errors.New("state not committed")
)

// Module accounts. The ledger holds staked tokens and the engine holds the
// treasury.
var (
	LedgerAddress = ModuleAddress(types.StakingModuleName)
	GovAddress    = ModuleAddress(types.GovModuleName)
)

func ModuleAddress(name string) common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte(name))[12:])
}

type StateHeader struct {
	Height   uint64
	Time     uint64
	ChainId  string
	RootHash []byte
	Hash     []byte
}

func (h *StateHeader) clone() *StateHeader {
	n := *h
	n.RootHash = common.CopyBytes(h.RootHash)
	n.Hash = common.CopyBytes(h.Hash)
	return &n
}

// Modules are the governance components bound to one store view.
type Modules struct {
	Bank   *bank.Bank
	Ledger *staking.Ledger
	Gov    *gov.Engine
	Roles  *Roles
}

type State struct {
	logger cmtlog.Logger
	db     *iavl.MutableTree
	kv     store.KVStore
	dbVer  int64

	header *StateHeader
}

func newState(db *iavl.MutableTree, logger cmtlog.Logger) *State {
	return &State{
		logger: logger,
		db:     db,
		kv:     store.NewTree(db),
		header: new(StateHeader),
	}
}

func (s *State) nextState() *State {
	n := &State{
		logger: s.logger,
		db:     s.db,
		kv:     s.kv,
		dbVer:  s.dbVer,
	}
	n.header = s.header.clone()
	if s.header.Hash != nil {
		n.header.Height = s.header.Height + 1
	}
	return n
}

// Branch returns a copy of s whose writes are buffered and never reach the tree.
// Proposal checks run on a branch.
func (s *State) Branch() *State {
	return &State{
		logger: s.logger,
		db:     s.db,
		kv:     store.NewCacheKV(s.kv),
		dbVer:  s.dbVer,
		header: s.header.clone(),
	}
}

func (s *State) load() (err error) {
	val, err := s.db.Get(KeyState)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil
		}
		return err
	}
	if val == nil {
		return nil
	}
	if err = rlp.DecodeBytes(val, s.header); err != nil {
		return
	}
	if h := s.db.Hash(); h != nil {
		s.calcHash(h, true)
	}
	return
}

func (s *State) calcHash(rootHash []byte, update bool) (h common.Hash) {
	h = crypto.Keccak256Hash(rootHash)
	if update {
		s.header.RootHash = common.CopyBytes(rootHash)
		s.header.Hash = common.CopyBytes(h[:])
	}
	return
}

// Update writes the header and returns the app hash of the working tree.
func (s *State) Update() (h common.Hash, err error) {
	hdr := *s.header
	hdr.RootHash, hdr.Hash = nil, nil
	val, err := rlp.EncodeToBytes(&hdr)
	if err != nil {
		return
	}
	if _, err = s.db.Set(KeyState, val); err != nil {
		s.db.Rollback()
		return
	}
	h = s.calcHash(s.db.WorkingHash(), false)
	return
}

func (s *State) save() (h common.Hash, err error) {
	hash, ver, err := s.db.SaveVersion()
	if err != nil {
		return h, err
	}
	s.dbVer = ver
	h = s.calcHash(hash, true)
	return
}

func (s *State) Header() *StateHeader {
	return s.header
}

func (s *State) Hash() (h common.Hash) {
	if s.header.Hash != nil {
		copy(h[:], s.header.Hash)
	}
	return
}

func (s *State) SetChainId(chainId string) {
	s.header.ChainId = chainId
}

// SetBlockTime sets the clock every module reads. Block times never decrease.
func (s *State) SetBlockTime(t uint64) {
	if t > s.header.Time {
		s.header.Time = t
	}
}

func (s *State) Now() uint64 {
	return s.header.Time
}

func (s *State) modules(kv store.KVStore) *Modules {
	roles := &Roles{kv: kv}
	b := bank.NewBank(kv, s.logger)
	ledger := staking.NewLedger(LedgerAddress, kv, b.Custody(LedgerAddress), roles, s.Now, s.logger)
	engine := gov.NewEngine(GovAddress, kv, ledger, roles, b.Custody(GovAddress), s.Now, s.logger)
	return &Modules{
		Bank:   b,
		Ledger: ledger,
		Gov:    engine,
		Roles:  roles,
	}
}

// Apply runs fn against a branch of the working tree and writes the branch back
// only when fn succeeds, so a failed tx leaves no trace across modules.
func (s *State) Apply(fn func(m *Modules) error) error {
	return store.Atomic(s.kv, func(kv store.KVStore) error {
		return fn(s.modules(kv))
	})
}

func (s *State) InitGenesis(g *types.AppGenesis) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return s.Apply(func(m *Modules) error {
		if err := m.Roles.Grant(types.RoleOwner, g.Owner); err != nil {
			return err
		}
		for _, a := range g.Admins {
			if err := m.Roles.Grant(types.RoleAdmin, a); err != nil {
				return err
			}
		}
		for _, p := range g.Proposers {
			if err := m.Roles.Grant(types.RoleProposer, p); err != nil {
				return err
			}
		}
		if err := m.Ledger.InitGenesis(g.Ledger, GovAddress); err != nil {
			return err
		}
		if err := m.Gov.InitGenesis(g.Requirements); err != nil {
			return err
		}
		for _, a := range g.Allocations {
			if err := m.Bank.Mint(a.Address, a.Amount); err != nil {
				return fmt.Errorf("allocation %v: %w", a.Address, err)
			}
		}
		if g.Treasury > 0 {
			return m.Bank.Mint(GovAddress, g.Treasury)
		}
		return nil
	})
}

func nonceKey(addr common.Address) []byte {
	return []byte(fmt.Sprintf(KeyNonce, addr.Bytes()))
}

func (s *State) Nonce(addr common.Address) (uint64, error) {
	return store.GetUint64(s.kv, nonceKey(addr))
}

func (s *State) IncNonce(addr common.Address) error {
	n, err := s.Nonce(addr)
	if err != nil {
		return err
	}
	return store.SetUint64(s.kv, nonceKey(addr), n+1)
}

// Verify checks that btx is signed by its sender for this chain and carries the
// sender's next nonce. With allowNonceGap a future nonce is accepted too.
func (s *State) Verify(btx *tx.GovTx, allowNonceGap bool) (err error) {
	signer, err := btx.Signer(s.header.ChainId)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTxSigInvalid, err)
	}
	if signer != btx.Sender {
		return ErrTxSenderMismatch
	}
	nonce, err := s.Nonce(btx.Sender)
	if err != nil {
		return err
	}
	if !(nonce == btx.Nonce || (allowNonceGap && nonce < btx.Nonce)) {
		return ErrTxNonceInvalid
	}
	return nil
}

// Roles is the access control list kept in state.
type Roles struct {
	kv store.KVStore
}

func roleKey(role types.Role, addr common.Address) []byte {
	return []byte(fmt.Sprintf(KeyRole, uint8(role), addr.Bytes()))
}

func (r *Roles) HasRole(role types.Role, addr common.Address) bool {
	dat, err := r.kv.Get(roleKey(role, addr))
	return err == nil && dat != nil
}

func (r *Roles) Grant(role types.Role, addr common.Address) error {
	return r.kv.Set(roleKey(role, addr), []byte{1})
}
