package sampler

import (
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goreplay/replay"
)

// Test snapshot geometry
const (
	testEpisodes = 3
	testHorizon  = 4
	testObsDim   = 2
)

// Field codes for position-encoded test values
const (
	obsCode = iota
	actCode
	goalCode
	achievedCode
)

// encode returns a value that uniquely identifies its position in the
// test snapshot: episode, time step, field, and feature dimension
func encode(episode, step, code, dim int) float64 {
	return float64(episode*1000 + step*100 + code*10 + dim)
}

// decode recovers the position of an encoded test value
func decode(value float64) (episode, step, code, dim int) {
	v := int(value)
	return v / 1000, (v / 100) % 10, (v / 10) % 10, v % 10
}

// testSnapshot builds a snapshot in the layout a replay buffer hands to
// its strategy: every stored field restricted to the valid episodes,
// plus the derived next-step fields. All values are position-encoded.
func testSnapshot() replay.Batch {
	obs := make([]float64, testEpisodes*(testHorizon+1)*testObsDim)
	acts := make([]float64, testEpisodes*testHorizon)
	goals := make([]float64, testEpisodes*testHorizon)
	achieved := make([]float64, testEpisodes*(testHorizon+1))

	for ep := 0; ep < testEpisodes; ep++ {
		for t := 0; t <= testHorizon; t++ {
			for d := 0; d < testObsDim; d++ {
				obs[(ep*(testHorizon+1)+t)*testObsDim+d] = encode(ep, t, obsCode, d)
			}
			achieved[ep*(testHorizon+1)+t] = encode(ep, t, achievedCode, 0)
		}
		for t := 0; t < testHorizon; t++ {
			acts[ep*testHorizon+t] = encode(ep, t, actCode, 0)
			goals[ep*testHorizon+t] = encode(ep, t, goalCode, 0)
		}
	}

	nextObs := make([]float64, testEpisodes*testHorizon*testObsDim)
	nextAchieved := make([]float64, testEpisodes*testHorizon)
	for ep := 0; ep < testEpisodes; ep++ {
		for t := 0; t < testHorizon; t++ {
			for d := 0; d < testObsDim; d++ {
				nextObs[(ep*testHorizon+t)*testObsDim+d] = encode(ep, t+1, obsCode, d)
			}
			nextAchieved[ep*testHorizon+t] = encode(ep, t+1, achievedCode, 0)
		}
	}

	return replay.Batch{
		ObservationKey: tensor.New(
			tensor.WithShape(testEpisodes, testHorizon+1, testObsDim),
			tensor.WithBacking(obs)),
		ActionKey: tensor.New(
			tensor.WithShape(testEpisodes, testHorizon, 1),
			tensor.WithBacking(acts)),
		GoalKey: tensor.New(
			tensor.WithShape(testEpisodes, testHorizon, 1),
			tensor.WithBacking(goals)),
		AchievedGoalKey: tensor.New(
			tensor.WithShape(testEpisodes, testHorizon+1, 1),
			tensor.WithBacking(achieved)),
		ObservationKey + replay.NextSuffix: tensor.New(
			tensor.WithShape(testEpisodes, testHorizon, testObsDim),
			tensor.WithBacking(nextObs)),
		AchievedGoalKey + replay.NextSuffix: tensor.New(
			tensor.WithShape(testEpisodes, testHorizon, 1),
			tensor.WithBacking(nextAchieved)),
	}
}

// testReward is a deterministic reward for checking that rewards are
// recomputed from the sampled (and possibly relabeled) batch
func testReward(achieved, goal mat.Vector) float64 {
	return achieved.AtVec(0) - goal.AtVec(0)
}
