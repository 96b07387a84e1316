package sampler

import (
	"fmt"
	"sync"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goreplay/replay"
	"github.com/samuelfneumann/goreplay/utils/intutils"
)

// Hindsight implements a replay.Strategy that relabels goals in
// hindsight. Transitions are first drawn uniformly as by Uniform; then,
// with probability 1 - 1/(1+replayK), the desired goal of a transition
// is substituted with a goal actually achieved at a uniformly random
// later time step of the same episode. Rewards are recomputed after
// substitution, so a transition relabeled with a goal it went on to
// achieve reports the reward of success.
//
// A replayK of 0 never relabels and is equivalent to Uniform; a replayK
// of 4 relabels four out of five transitions on average.
type Hindsight struct {
	mu      sync.Mutex // Guards rng
	rng     *rand.Rand
	reward  RewardFunc
	futureP float64
}

// NewHindsight creates and returns a new Hindsight sampling strategy.
// The replayK parameter is the ratio of relabeled to unaltered
// transitions in an average minibatch and must be non-negative.
func NewHindsight(replayK float64, reward RewardFunc,
	seed uint64) (*Hindsight, error) {
	if reward == nil {
		return nil, fmt.Errorf("newHindsight: reward function is nil")
	}
	if replayK < 0 {
		return nil, fmt.Errorf("newHindsight: replayK must be "+
			"non-negative, got %v", replayK)
	}

	return &Hindsight{
		rng:     rand.New(rand.NewSource(seed)),
		reward:  reward,
		futureP: 1.0 - 1.0/(1.0+replayK),
	}, nil
}

// Sample implements the replay.Strategy interface
func (h *Hindsight) Sample(snapshot replay.Batch, batchSize int) (replay.Batch,
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

	// futureTs[i] is the time step whose achieved goal replaces the
	// goal of transition i, or -1 if the transition keeps its goal
	futureTs := make([]int, batchSize)

	h.mu.Lock()
	for i := 0; i < batchSize; i++ {
		selectedEps[i] = h.rng.Intn(episodes)
		selectedTs[i] = h.rng.Intn(horizon)

		if h.rng.Float64() < h.futureP {
			futureTs[i] = selectedTs[i] + 1 + h.rng.Intn(horizon-selectedTs[i])
		} else {
			futureTs[i] = -1
		}
	}
	h.mu.Unlock()

	transitions, err := gather(snapshot, selectedEps, selectedTs)
	if err != nil {
		return nil, err
	}
	if err := h.relabel(snapshot, transitions, selectedEps, futureTs); err != nil {
		return nil, err
	}
	if err := fillRewards(transitions, h.reward); err != nil {
		return nil, err
	}
	return transitions, nil
}

// relabel substitutes the goal of each selected transition with the
// goal achieved at its future time step
func (h *Hindsight) relabel(snapshot, transitions replay.Batch, episodes,
	futureTs []int) error {
	achieved, ok := snapshot[AchievedGoalKey]
	if !ok {
		return fmt.Errorf("sample: %q missing from snapshot", AchievedGoalKey)
	}
	goals, ok := transitions[GoalKey]
	if !ok {
		return fmt.Errorf("sample: %q missing from transitions", GoalKey)
	}

	shape := achieved.Shape()
	goalLen := intutils.Prod(shape[2:]...)
	rowLen := shape[1] * goalLen
	if intutils.Prod(goals.Shape()[1:]...) != goalLen {
		return fmt.Errorf("sample: achieved and desired goal sizes differ "+
			"\n\twant(%v)\n\thave(%v)", goalLen,
			intutils.Prod(goals.Shape()[1:]...))
	}

	achievedData := achieved.Data().([]float64)
	goalData := goals.Data().([]float64)

	for i, futureT := range futureTs {
		if futureT < 0 {
			continue
		}
		base := episodes[i]*rowLen + futureT*goalLen
		copy(goalData[i*goalLen:(i+1)*goalLen],
			achievedData[base:base+goalLen])
	}
	return nil
}
