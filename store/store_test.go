package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKVBuffersUntilWrite(t *testing.T) {
	parent := NewMemTree()
	require.NoError(t, parent.Set([]byte("a"), []byte("1")))

	c := NewCacheKV(parent)
	require.NoError(t, c.Set([]byte("b"), []byte("2")))
	require.NoError(t, c.Delete([]byte("a")))

	v, err := c.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, v)
	v, err = parent.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
	v, err = parent.Get([]byte("b"))
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, c.Write())
	assert.Equal(t, 0, c.Dirty())
	v, _ = parent.Get([]byte("a"))
	assert.Nil(t, v)
	v, _ = parent.Get([]byte("b"))
	assert.Equal(t, []byte("2"), v)
}

func TestAtomicDiscardsOnError(t *testing.T) {
	parent := NewMemTree()
	boom := errors.New("boom")
	err := Atomic(parent, func(b KVStore) error {
		require.NoError(t, b.Set([]byte("k"), []byte("v")))
		return boom
	})
	require.ErrorIs(t, err, boom)
	v, err := parent.Get([]byte("k"))
	require.NoError(t, err)
	assert.Nil(t, v)

	err = Atomic(parent, func(b KVStore) error {
		return b.Set([]byte("k"), []byte("v"))
	})
	require.NoError(t, err)
	v, _ = parent.Get([]byte("k"))
	assert.Equal(t, []byte("v"), v)
}

func TestUint64Counters(t *testing.T) {
	kv := NewCacheKV(NewMemTree())
	v, err := GetUint64(kv, []byte("n"))
	require.NoError(t, err)
	assert.Zero(t, v)

	require.NoError(t, SetUint64(kv, []byte("n"), 42))
	v, err = GetUint64(kv, []byte("n"))
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	require.NoError(t, SetUint64(kv, []byte("n"), 0))
	v, err = GetUint64(kv, []byte("n"))
	require.NoError(t, err)
	assert.Zero(t, v)
}
