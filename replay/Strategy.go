package replay

const (
	// RewardKey is the field under which a sampling strategy must
	// report the reward of each sampled transition
	RewardKey = "r"

	// NextSuffix is appended to the name of each field stored with an
	// extra trailing time step to name its derived next-step view
	NextSuffix = "_2"
)

// Strategy turns a snapshot of stored episodes into a minibatch of
// transitions. The snapshot maps each declared field to its valid
// episodes, with shape [episodes, T or T+1, field dims...], and
// additionally holds a next-step view named name+NextSuffix for every
// field stored with an extra time step, offset by one along the time
// axis.
//
// The returned batch must contain every declared field, RewardKey, and
// every next-step field of the snapshot; a strategy is free to relabel
// field contents (for example, substituting goals in hindsight) and to
// add further fields.
//
// The snapshot is a private copy of buffer state: a Strategy never
// receives a live reference and must not retain state between calls
// that depends on one. Strategies must be safe for concurrent use, as
// the buffer invokes them outside of its lock.
type Strategy interface {
	Sample(snapshot Batch, batchSize int) (Batch, error)
}

// StrategyFunc adapts an ordinary function to the Strategy interface
type StrategyFunc func(snapshot Batch, batchSize int) (Batch, error)

// Sample satisfies the Strategy interface
func (f StrategyFunc) Sample(snapshot Batch, batchSize int) (Batch, error) {
	return f(snapshot, batchSize)
}
