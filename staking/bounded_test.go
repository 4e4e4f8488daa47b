package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwapRemove(t *testing.T) {
	s := []int{1, 2, 3, 4}
	s = swapRemove(s, 1)
	assert.Equal(t, []int{1, 4, 3}, s)
	s = swapRemove(s, 2)
	assert.Equal(t, []int{1, 4}, s)
	s = swapRemove(s, 0)
	assert.Equal(t, []int{4}, s)
	s = swapRemove(s, 0)
	assert.Empty(t, s)
}

func TestActiveSet(t *testing.T) {
	set := newActiveSet(nil)
	require.NoError(t, set.add(10, 3))
	require.NoError(t, set.add(20, 3))
	require.NoError(t, set.add(30, 3))
	require.ErrorIs(t, set.add(20, 3), ErrAlreadyActive)
	require.ErrorIs(t, set.add(40, 3), ErrTooManyActive)

	require.NoError(t, set.remove(10))
	assert.Equal(t, []uint64{30, 20}, set.ids)
	assert.True(t, set.contains(30))
	assert.False(t, set.contains(10))
	require.ErrorIs(t, set.remove(10), ErrNotActive)

	require.NoError(t, set.remove(20))
	require.NoError(t, set.remove(30))
	assert.Zero(t, set.len())

	reloaded := newActiveSet([]uint64{5, 6})
	require.NoError(t, reloaded.remove(5))
	assert.Equal(t, []uint64{6}, reloaded.ids)
	assert.True(t, reloaded.contains(6))
}
