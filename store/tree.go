package store

import (
	"cosmossdk.io/log"
	"github.com/cosmos/iavl"
	dbm "github.com/cosmos/iavl/db"
)

// Tree adapts an iavl mutable tree to KVStore.
type Tree struct {
	tree *iavl.MutableTree
}

func NewTree(tree *iavl.MutableTree) *Tree {
	return &Tree{tree: tree}
}

// NewMemTree returns a tree over an in-memory database.
func NewMemTree() *Tree {
	return NewTree(iavl.NewMutableTree(dbm.NewMemDB(), 128, true, log.NewNopLogger()))
}

func (t *Tree) Get(key []byte) ([]byte, error) {
	return t.tree.Get(key)
}

func (t *Tree) Set(key, value []byte) error {
	_, err := t.tree.Set(key, value)
	return err
}

func (t *Tree) Delete(key []byte) error {
	_, _, err := t.tree.Remove(key)
	return err
}
