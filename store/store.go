package store

import (
	"errors"
	"sort"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var (
	ErrNilValue = errors.New("nil value")
)

// KVStore is the minimal key/value surface the state machine needs. A missing key
// reads as a nil value with a nil error.
type KVStore interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
}

type cacheValue struct {
	value   []byte
	deleted bool
}

// CacheKV buffers writes on top of a parent store until Write is called.
// Discarding a CacheKV drops every buffered write.
type CacheKV struct {
	parent KVStore
	cache  map[string]cacheValue
}

func NewCacheKV(parent KVStore) *CacheKV {
	return &CacheKV{
		parent: parent,
		cache:  make(map[string]cacheValue),
	}
}

func (c *CacheKV) Get(key []byte) ([]byte, error) {
	if v, ok := c.cache[string(key)]; ok {
		if v.deleted {
			return nil, nil
		}
		return v.value, nil
	}
	return c.parent.Get(key)
}

func (c *CacheKV) Set(key, value []byte) error {
	if value == nil {
		return ErrNilValue
	}
	dat := make([]byte, len(value))
	copy(dat, value)
	c.cache[string(key)] = cacheValue{value: dat}
	return nil
}

func (c *CacheKV) Delete(key []byte) error {
	c.cache[string(key)] = cacheValue{deleted: true}
	return nil
}

// Write flushes buffered writes to the parent in key order so that tree-backed
// parents produce the same root regardless of map iteration order.
func (c *CacheKV) Write() (err error) {
	keys := make([]string, 0, len(c.cache))
	for k := range c.cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := c.cache[k]
		if v.deleted {
			err = c.parent.Delete([]byte(k))
		} else {
			err = c.parent.Set([]byte(k), v.value)
		}
		if err != nil {
			return
		}
	}
	c.cache = make(map[string]cacheValue)
	return
}

// Dirty reports the number of buffered writes.
func (c *CacheKV) Dirty() int {
	return len(c.cache)
}

// Atomic runs fn against a fresh branch of kv and writes the branch back only when
// fn succeeds.
func Atomic(kv KVStore, fn func(b KVStore) error) error {
	b := NewCacheKV(kv)
	if err := fn(b); err != nil {
		return err
	}
	return b.Write()
}

func GetUint64(kv KVStore, key []byte) (v uint64, err error) {
	dat, err := kv.Get(key)
	if err != nil || dat == nil {
		return
	}
	var w wrapperspb.UInt64Value
	if err = proto.Unmarshal(dat, &w); err != nil {
		return
	}
	v = w.GetValue()
	return
}

func SetUint64(kv KVStore, key []byte, v uint64) error {
	dat, err := proto.Marshal(wrapperspb.UInt64(v))
	if err != nil {
		return err
	}
	if dat == nil {
		// proto3 encodes zero as an empty message
		dat = []byte{}
	}
	return kv.Set(key, dat)
}
