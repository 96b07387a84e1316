package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/goreplay/replay"
)

func TestUniformSampleShapes(t *testing.T) {
	strategy, err := NewUniform(testReward, 14)
	require.NoError(t, err)

	transitions, err := strategy.Sample(testSnapshot(), 16)
	require.NoError(t, err)

	assert.Equal(t, []int{16, testObsDim},
		[]int(transitions[ObservationKey].Shape()))
	assert.Equal(t, []int{16, testObsDim},
		[]int(transitions[ObservationKey+replay.NextSuffix].Shape()))
	assert.Equal(t, []int{16, 1}, []int(transitions[ActionKey].Shape()))
	assert.Equal(t, []int{16, 1}, []int(transitions[GoalKey].Shape()))
	assert.Equal(t, []int{16}, []int(transitions[replay.RewardKey].Shape()))
}

func TestUniformSampleConsistency(t *testing.T) {
	strategy, err := NewUniform(testReward, 14)
	require.NoError(t, err)

	const batchSize = 64
	transitions, err := strategy.Sample(testSnapshot(), batchSize)
	require.NoError(t, err)

	obs := transitions[ObservationKey].Data().([]float64)
	nextObs := transitions[ObservationKey+replay.NextSuffix].Data().([]float64)
	acts := transitions[ActionKey].Data().([]float64)
	goals := transitions[GoalKey].Data().([]float64)
	achieved := transitions[AchievedGoalKey].Data().([]float64)
	nextAchieved := transitions[AchievedGoalKey+replay.NextSuffix].Data().([]float64)
	rewards := transitions[replay.RewardKey].Data().([]float64)

	for i := 0; i < batchSize; i++ {
		// Recover which (episode, time step) this transition came from
		ep, step, code, dim := decode(obs[i*testObsDim])
		require.Equal(t, obsCode, code)
		require.Equal(t, 0, dim)
		assert.Less(t, ep, testEpisodes)
		assert.Less(t, step, testHorizon)

		// Every field of one transition refers to the same position
		assert.Equal(t, encode(ep, step, obsCode, 1), obs[i*testObsDim+1])
		assert.Equal(t, encode(ep, step+1, obsCode, 0), nextObs[i*testObsDim])
		assert.Equal(t, encode(ep, step, actCode, 0), acts[i])
		assert.Equal(t, encode(ep, step, goalCode, 0), goals[i])
		assert.Equal(t, encode(ep, step, achievedCode, 0), achieved[i])
		assert.Equal(t, encode(ep, step+1, achievedCode, 0), nextAchieved[i])

		// Rewards are recomputed from the next achieved goal and goal
		assert.Equal(t, nextAchieved[i]-goals[i], rewards[i])
	}
}

func TestUniformSampleInvalidBatchSize(t *testing.T) {
	strategy, err := NewUniform(testReward, 14)
	require.NoError(t, err)

	_, err = strategy.Sample(testSnapshot(), 0)
	assert.Error(t, err)
}

func TestUniformSampleMissingObservation(t *testing.T) {
	strategy, err := NewUniform(testReward, 14)
	require.NoError(t, err)

	snapshot := testSnapshot()
	delete(snapshot, ObservationKey)

	_, err = strategy.Sample(snapshot, 8)
	assert.Error(t, err)
}

func TestNewUniformNilReward(t *testing.T) {
	_, err := NewUniform(nil, 14)
	assert.Error(t, err)
}
