package replay

// Config implements a specific configuration of a replay Buffer
type Config struct {
	// Horizon is the number of transitions in one episode
	Horizon int

	// CapacityInTransitions is the buffer capacity expressed in
	// transitions; the capacity in episodes is
	// CapacityInTransitions / Horizon
	CapacityInTransitions int

	// Fields declares the quantities stored per episode
	Fields []Field

	// Seed seeds the random overwrite policy
	Seed uint64
}

// Create creates and returns the Buffer with the specified Config,
// sampling minibatches through the given Strategy.
func (c Config) Create(strategy Strategy) (*Buffer, error) {
	schema, err := NewSchema(c.Horizon, c.Fields...)
	if err != nil {
		return nil, err
	}
	return New(schema, c.CapacityInTransitions, strategy, c.Seed)
}
