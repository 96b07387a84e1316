package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotAllocatorAppend(t *testing.T) {
	alloc := newSlotAllocator(10, 14)

	for i := 0; i < 7; i++ {
		slots, err := alloc.allocate(1)
		require.NoError(t, err)
		assert.Equal(t, []int{i}, slots)
		assert.Equal(t, i+1, alloc.occupancy())
	}
	assert.False(t, alloc.full())
}

func TestSlotAllocatorAppendBatch(t *testing.T) {
	alloc := newSlotAllocator(10, 14)

	slots, err := alloc.allocate(4)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, slots)

	slots, err = alloc.allocate(6)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5, 6, 7, 8, 9}, slots)
	assert.True(t, alloc.full())
}

func TestSlotAllocatorSplit(t *testing.T) {
	alloc := newSlotAllocator(10, 14)
	_, err := alloc.allocate(7)
	require.NoError(t, err)

	// The batch overflows: the first 3 slots fill the buffer, the
	// remaining 2 overwrite already occupied episodes
	slots, err := alloc.allocate(5)
	require.NoError(t, err)
	require.Len(t, slots, 5)
	assert.Equal(t, []int{7, 8, 9}, slots[:3])
	for _, slot := range slots[3:] {
		assert.GreaterOrEqual(t, slot, 0)
		assert.Less(t, slot, 7)
	}

	assert.Equal(t, 10, alloc.occupancy())
	assert.True(t, alloc.full())
}

func TestSlotAllocatorRandomOverwrite(t *testing.T) {
	alloc := newSlotAllocator(10, 14)
	_, err := alloc.allocate(10)
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		slots, err := alloc.allocate(1)
		require.NoError(t, err)
		require.Len(t, slots, 1)
		assert.GreaterOrEqual(t, slots[0], 0)
		assert.Less(t, slots[0], 10)
		assert.Equal(t, 10, alloc.occupancy())
	}
}

func TestSlotAllocatorBatchTooLarge(t *testing.T) {
	alloc := newSlotAllocator(10, 14)

	slots, err := alloc.allocate(11)
	assert.True(t, IsBatchTooLarge(err))
	assert.Nil(t, slots)
	assert.Equal(t, 0, alloc.occupancy())
}

func TestSlotAllocatorZeroIncrement(t *testing.T) {
	alloc := newSlotAllocator(10, 14)
	_, err := alloc.allocate(3)
	require.NoError(t, err)

	// Inserting zero episodes is a no-op, not a single insert
	slots, err := alloc.allocate(0)
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.Equal(t, 3, alloc.occupancy())
}

func TestSlotAllocatorReset(t *testing.T) {
	alloc := newSlotAllocator(10, 14)
	_, err := alloc.allocate(10)
	require.NoError(t, err)
	require.True(t, alloc.full())

	alloc.reset()
	assert.Equal(t, 0, alloc.occupancy())
	assert.False(t, alloc.full())

	slots, err := alloc.allocate(2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, slots)
}
