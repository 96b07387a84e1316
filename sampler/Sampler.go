// Package sampler implements sampling strategies for episodic replay
// buffers. Strategies convert a snapshot of stored episodes into a
// minibatch of single transitions, computing the reward of each
// transition through an injected RewardFunc and, optionally, relabeling
// goals in hindsight.
package sampler

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goreplay/replay"
	"github.com/samuelfneumann/goreplay/utils/intutils"
)

// Field names the strategies in this package expect a snapshot to hold
const (
	// ObservationKey names the observation field, stored with one
	// extra trailing time step
	ObservationKey = "o"

	// ActionKey names the action field
	ActionKey = "u"

	// GoalKey names the desired-goal field
	GoalKey = "g"

	// AchievedGoalKey names the achieved-goal field, stored with one
	// extra trailing time step
	AchievedGoalKey = "ag"
)

// RewardFunc computes the reward for having achieved achievedGoal while
// pursuing goal. The vectors alias sampler-owned storage and must not
// be mutated or retained.
type RewardFunc func(achievedGoal, goal mat.Vector) float64

// snapshotDims returns the number of stored episodes and the episode
// horizon described by a snapshot. The horizon is recovered from the
// observation field, which carries one extra trailing time step.
func snapshotDims(snapshot replay.Batch) (episodes, horizon int, err error) {
	obs, ok := snapshot[ObservationKey]
	if !ok {
		return 0, 0, fmt.Errorf("sample: %q missing from snapshot",
			ObservationKey)
	}

	shape := obs.Shape()
	if len(shape) < 2 || shape[0] < 1 || shape[1] < 2 {
		return 0, 0, fmt.Errorf("sample: illegal observation shape %v", shape)
	}
	return shape[0], shape[1] - 1, nil
}

// gather copies one transition per (episode, time step) pair out of
// every field of a snapshot. Fields of differing episode-axis lengths
// share the same time index, so next-step fields yield the data one
// step ahead of their parents. The result maps each field to a tensor
// of shape [len(episodes), field dims...].
func gather(snapshot replay.Batch, episodes, steps []int) (replay.Batch, error) {
	transitions := make(replay.Batch, len(snapshot)+1)

	for name, field := range snapshot {
		shape := field.Shape()
		if len(shape) < 2 {
			return nil, fmt.Errorf("sample: field %q has no time axis", name)
		}

		stepLen := intutils.Prod(shape[2:]...)
		rowLen := shape[1] * stepLen
		src := field.Data().([]float64)

		dst := make([]float64, len(episodes)*stepLen)
		for i := range episodes {
			base := episodes[i]*rowLen + steps[i]*stepLen
			copy(dst[i*stepLen:(i+1)*stepLen], src[base:base+stepLen])
		}

		outShape := append([]int{len(episodes)}, shape[2:]...)
		transitions[name] = tensor.New(tensor.WithShape(outShape...),
			tensor.WithBacking(dst))
	}

	return transitions, nil
}

// fillRewards computes the reward of every gathered transition from its
// next achieved goal and its (possibly relabeled) goal
func fillRewards(transitions replay.Batch, reward RewardFunc) error {
	achieved, ok := transitions[AchievedGoalKey+replay.NextSuffix]
	if !ok {
		return fmt.Errorf("sample: %q missing from transitions",
			AchievedGoalKey+replay.NextSuffix)
	}
	goals, ok := transitions[GoalKey]
	if !ok {
		return fmt.Errorf("sample: %q missing from transitions", GoalKey)
	}

	batchSize := achieved.Shape()[0]
	goalLen := intutils.Prod(achieved.Shape()[1:]...)
	if intutils.Prod(goals.Shape()[1:]...) != goalLen {
		return fmt.Errorf("sample: achieved and desired goal sizes differ "+
			"\n\twant(%v)\n\thave(%v)", goalLen,
			intutils.Prod(goals.Shape()[1:]...))
	}

	achievedData := achieved.Data().([]float64)
	goalData := goals.Data().([]float64)

	rewards := make([]float64, batchSize)
	for i := 0; i < batchSize; i++ {
		achievedVec := mat.NewVecDense(goalLen,
			achievedData[i*goalLen:(i+1)*goalLen])
		goalVec := mat.NewVecDense(goalLen, goalData[i*goalLen:(i+1)*goalLen])
		rewards[i] = reward(achievedVec, goalVec)
	}

	transitions[replay.RewardKey] = tensor.New(tensor.WithShape(batchSize),
		tensor.WithBacking(rewards))
	return nil
}
