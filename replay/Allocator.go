package replay

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goreplay/utils/intutils"
)

// slotAllocator computes which episode slots each incoming batch
// occupies and tracks the buffer's occupancy. Slots are handed out
// contiguously until the buffer fills; afterwards incoming episodes
// overwrite stored ones chosen uniformly at random, with replacement.
// An episode may therefore be overwritten several times before another
// is touched at all. Downstream sampling statistics depend on these
// exact semantics, so they must not be tightened to true reservoir
// sampling.
//
// A slotAllocator is not safe for concurrent use; the owning buffer
// serializes access to it.
type slotAllocator struct {
	capacity int
	size     int
	rng      *rand.Rand
}

// newSlotAllocator returns a new slotAllocator for a buffer holding at
// most capacity episodes
func newSlotAllocator(capacity int, seed uint64) *slotAllocator {
	return &slotAllocator{
		capacity: capacity,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// allocate returns the episode slots that a batch of inc incoming
// episodes should be written to and advances the occupancy. An
// increment of 0 inserts nothing and returns no slots. A batch larger
// than the total capacity can never be stored and is rejected before
// any slot is chosen.
func (s *slotAllocator) allocate(inc int) ([]int, error) {
	if inc > s.capacity {
		return nil, fmt.Errorf("%w: %v episodes exceed capacity %v",
			errBatchTooLarge, inc, s.capacity)
	}
	if inc == 0 {
		return nil, nil
	}

	slots := make([]int, inc)
	switch {
	case s.size+inc <= s.capacity:
		// Contiguous append
		for i := range slots {
			slots[i] = s.size + i
		}

	case s.size < s.capacity:
		// The batch overflows a partially filled buffer: fill the
		// remaining slots, then overwrite occupied episodes at random
		head := s.capacity - s.size
		for i := 0; i < head; i++ {
			slots[i] = s.size + i
		}
		for i := head; i < inc; i++ {
			slots[i] = s.rng.Intn(s.size)
		}

	default:
		// Buffer full: overwrite episodes chosen uniformly at random
		for i := range slots {
			slots[i] = s.rng.Intn(s.capacity)
		}
	}

	s.size = intutils.Min(s.capacity, s.size+inc)
	return slots, nil
}

// occupancy returns the number of episodes currently stored
func (s *slotAllocator) occupancy() int {
	return s.size
}

// full returns whether every episode slot holds valid data
func (s *slotAllocator) full() bool {
	return s.size == s.capacity
}

// reset marks every slot as vacant. Slot contents are left to be
// overwritten by later batches.
func (s *slotAllocator) reset() {
	s.size = 0
}
