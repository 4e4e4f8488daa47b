package store

import "errors"

var (
	ErrReadOnly = errors.New("read-only store")
)

type Getter interface {
	Get(key []byte) ([]byte, error)
}

// ReadOnly exposes a Getter, such as a committed iavl version, as a KVStore that
// rejects writes.
type ReadOnly struct {
	g Getter
}

func NewReadOnly(g Getter) ReadOnly {
	return ReadOnly{g: g}
}

func (r ReadOnly) Get(key []byte) ([]byte, error) {
	return r.g.Get(key)
}

func (r ReadOnly) Set(key, value []byte) error {
	return ErrReadOnly
}

func (r ReadOnly) Delete(key []byte) error {
	return ErrReadOnly
}
