// Package replay implements a fixed-capacity, concurrency-safe store
// for episodic trajectory data. Episodes of a fixed horizon are stored
// in batches and served back as randomized minibatches of transitions
// through a pluggable sampling Strategy.
package replay

import (
	"fmt"
	"sync"

	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goreplay/utils/tensorutils"
)

// column is the preallocated storage of a single field: a rectangular
// region of shape [capacity, steps, field dims...] backed by one flat
// slice. Columns are allocated once at construction and never resized.
type column struct {
	field  Field
	steps  int
	rowLen int
	data   []float64
}

// Buffer is a fixed-capacity store for episodes of a fixed horizon.
// Batches of episodes are written with Store; randomized minibatches of
// transitions are drawn with Sample through the buffer's Strategy.
//
// Capacity is expressed in transitions and converted once to a capacity
// in episodes; any fractional remainder is dropped. While below
// capacity, episodes are appended. Once capacity is reached, incoming
// episodes overwrite stored ones chosen uniformly at random with
// replacement.
//
// All methods are safe for concurrent use by multiple goroutines. A
// single mutex guards the storage and both size counters, so readers
// never observe a batch mid-write nor an occupancy that outruns the
// writes behind it. The Strategy is always invoked outside the lock, on
// a private snapshot.
type Buffer struct {
	mu       sync.Mutex
	schema   *Schema
	columns  map[string]*column
	alloc    *slotAllocator
	strategy Strategy

	capacity int // Capacity in episodes
	horizon  int

	// Total transitions ever ingested, including overwritten ones
	transitionsStored int
}

// New creates and returns a new Buffer storing the fields declared by
// schema. The capacity is given in transitions and must cover at least
// one full episode of the schema's horizon. The strategy converts
// snapshots of stored episodes into minibatches; see Strategy for the
// contract its output must honor.
func New(schema *Schema, capacityInTransitions int, strategy Strategy,
	seed uint64) (*Buffer, error) {
	if schema == nil {
		return nil, &Error{
			Op:  "new",
			Err: fmt.Errorf("%w: schema is nil", errInvalidConfig),
		}
	}
	if strategy == nil {
		return nil, &Error{
			Op:  "new",
			Err: fmt.Errorf("%w: sampling strategy is nil", errInvalidConfig),
		}
	}

	capacity := capacityInTransitions / schema.Horizon()
	if capacity < 1 {
		return nil, &Error{
			Op: "new",
			Err: fmt.Errorf("%w: capacity of %v transitions holds no "+
				"episode of horizon %v", errInvalidConfig,
				capacityInTransitions, schema.Horizon()),
		}
	}

	columns := make(map[string]*column, len(schema.fields))
	for _, field := range schema.fields {
		columns[field.Name] = &column{
			field:  field,
			steps:  field.steps(schema.Horizon()),
			rowLen: field.rowLen(schema.Horizon()),
			data:   make([]float64, capacity*field.rowLen(schema.Horizon())),
		}
	}

	return &Buffer{
		schema:   schema,
		columns:  columns,
		alloc:    newSlotAllocator(capacity, seed),
		strategy: strategy,
		capacity: capacity,
		horizon:  schema.Horizon(),
	}, nil
}

// Store writes a batch of episodes into the buffer. Each field of the
// batch must have shape [batchSize, T or T+1, field dims...] as
// declared by the schema, and all fields must agree on batchSize. A
// batch that fails validation is rejected before any write occurs.
func (b *Buffer) Store(batch Batch) error {
	batchSize, err := batch.validate(b.schema)
	if err != nil {
		return &Error{Op: "store", Err: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	slots, err := b.alloc.allocate(batchSize)
	if err != nil {
		return &Error{Op: "store", Err: err}
	}

	for name, col := range b.columns {
		src := batch[name].Data().([]float64)
		for i, slot := range slots {
			dst := col.data[slot*col.rowLen : (slot+1)*col.rowLen]
			copy(dst, src[i*col.rowLen:(i+1)*col.rowLen])
		}
	}

	// The counter update strictly follows the writes so that no reader
	// observes occupancy outrunning the data behind it
	b.transitionsStored += batchSize * b.horizon
	return nil
}

// Sample draws a minibatch of batchSize transitions from the currently
// stored episodes through the buffer's Strategy. Sampling an empty
// buffer is a precondition violation and fails with an error satisfying
// IsEmptyBuffer.
//
// The snapshot handed to the Strategy holds, besides every stored
// field, a next-step view name+NextSuffix for each field stored with an
// extra time step, whose time axis is shorter by exactly one. The
// returned batch is checked to contain every stored field, RewardKey,
// and every next-step field.
func (b *Buffer) Sample(batchSize int) (Batch, error) {
	snapshot, err := b.snapshot()
	if err != nil {
		return nil, err
	}

	// Derive the next-step fields outside the lock; the slices drop the
	// first time step of each episode
	for _, field := range b.schema.fields {
		if !field.NextStep {
			continue
		}
		steps := field.steps(b.horizon)
		view, err := snapshot[field.Name].Slice(nil, tensorutils.From(1, steps))
		if err != nil {
			return nil, &Error{Op: "sample", Err: err}
		}
		next, ok := view.Materialize().(*tensor.Dense)
		if !ok {
			return nil, &Error{
				Op:  "sample",
				Err: fmt.Errorf("could not materialize next-step view of %q", field.Name),
			}
		}
		snapshot[field.Name+NextSuffix] = next
	}

	transitions, err := b.strategy.Sample(snapshot, batchSize)
	if err != nil {
		return nil, &Error{Op: "sample", Err: err}
	}
	if err := b.checkContract(transitions); err != nil {
		return nil, &Error{Op: "sample", Err: err}
	}
	return transitions, nil
}

// snapshot copies the valid episodes of every field under the lock so
// that sampling can proceed without holding it
func (b *Buffer) snapshot() (Batch, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	episodes := b.alloc.occupancy()
	if episodes == 0 {
		return nil, &Error{Op: "sample", Err: errEmptyBuffer}
	}

	snapshot := make(Batch, 2*len(b.columns))
	for name, col := range b.columns {
		data := make([]float64, episodes*col.rowLen)
		copy(data, col.data[:episodes*col.rowLen])

		shape := append([]int{episodes, col.steps}, col.field.Shape...)
		snapshot[name] = tensor.New(tensor.WithShape(shape...),
			tensor.WithBacking(data))
	}
	return snapshot, nil
}

// checkContract verifies that a strategy's output holds every required
// field
func (b *Buffer) checkContract(transitions Batch) error {
	required := make([]string, 0, 2*len(b.schema.fields)+1)
	required = append(required, RewardKey)
	for _, field := range b.schema.fields {
		required = append(required, field.Name)
		if field.NextStep {
			required = append(required, field.Name+NextSuffix)
		}
	}

	for _, name := range required {
		if _, ok := transitions[name]; !ok {
			return fmt.Errorf("%w: %q missing from transitions",
				errContractViolation, name)
		}
	}
	return nil
}

// Full returns whether the buffer holds as many episodes as it can
// retain. Once full, a buffer stays full until cleared.
func (b *Buffer) Full() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.alloc.full()
}

// CurrentEpisodeSize returns the number of episodes currently stored
func (b *Buffer) CurrentEpisodeSize() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.alloc.occupancy()
}

// CurrentSize returns the number of transitions currently stored
func (b *Buffer) CurrentSize() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.alloc.occupancy() * b.horizon
}

// TransitionsStored returns the total number of transitions ever
// written to the buffer, including those since overwritten. The counter
// increases monotonically and is unaffected by Clear.
func (b *Buffer) TransitionsStored() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transitionsStored
}

// Clear resets the buffer to empty. Storage is neither freed nor
// zeroed; stale episode data beyond the logical size is inert until
// overwritten by later batches.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.alloc.reset()
}

// Capacity returns the maximum number of episodes the buffer retains at
// once
func (b *Buffer) Capacity() int {
	return b.capacity
}

// Horizon returns the number of transitions in one stored episode
func (b *Buffer) Horizon() int {
	return b.horizon
}
