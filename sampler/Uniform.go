package sampler

import (
	"fmt"
	"sync"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goreplay/replay"
)

// Uniform implements a replay.Strategy that samples single transitions
// uniformly at random from the stored episodes. Both the episode and
// the time step of every sampled transition are drawn uniformly, and
// the reward of each transition is recomputed through the injected
// RewardFunc.
type Uniform struct {
	mu     sync.Mutex // Guards rng
	rng    *rand.Rand
	reward RewardFunc
}

// NewUniform creates and returns a new Uniform sampling strategy
func NewUniform(reward RewardFunc, seed uint64) (*Uniform, error) {
	if reward == nil {
		return nil, fmt.Errorf("newUniform: reward function is nil")
	}
	return &Uniform{
		rng:    rand.New(rand.NewSource(seed)),
		reward: reward,
	}, nil
}

// Sample implements the replay.Strategy interface
func (u *Uniform) Sample(snapshot replay.Batch, batchSize int) (replay.Batch,
	error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("sample: batch size must be positive, got %v",
			batchSize)
	}

	episodes, horizon, err := snapshotDims(snapshot)
	if err != nil {
		return nil, err
	}

	selectedEps := make([]int, batchSize)
	selectedTs := make([]int, batchSize)
	u.mu.Lock()
	for i := 0; i < batchSize; i++ {
		selectedEps[i] = u.rng.Intn(episodes)
		selectedTs[i] = u.rng.Intn(horizon)
	}
	u.mu.Unlock()

	transitions, err := gather(snapshot, selectedEps, selectedTs)
	if err != nil {
		return nil, err
	}
	if err := fillRewards(transitions, u.reward); err != nil {
		return nil, err
	}
	return transitions, nil
}
