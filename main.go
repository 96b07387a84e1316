package main

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goreplay/replay"
	"github.com/samuelfneumann/goreplay/sampler"
)

const (
	horizon  = 10 // Transitions per episode
	obsDim   = 4
	actDim   = 2
	goalDim  = 2
	capacity = 1_000 // Buffer capacity in transitions
)

func main() {
	var seed uint64 = 192382

	// Sparse reach reward: 0 within tolerance of the goal, -1 otherwise
	reward := func(achieved, goal mat.Vector) float64 {
		diff := mat.NewVecDense(achieved.Len(), nil)
		diff.SubVec(achieved, goal)
		if mat.Norm(diff, 2) < 0.05 {
			return 0
		}
		return -1
	}

	strategy, err := sampler.NewHindsight(4.0, reward, seed)
	if err != nil {
		panic(err)
	}

	conf := replay.Config{
		Horizon:               horizon,
		CapacityInTransitions: capacity,
		Fields: []replay.Field{
			{Name: sampler.ObservationKey, Shape: []int{obsDim}, NextStep: true},
			{Name: sampler.ActionKey, Shape: []int{actDim}},
			{Name: sampler.GoalKey, Shape: []int{goalDim}},
			{Name: sampler.AchievedGoalKey, Shape: []int{goalDim}, NextStep: true},
		},
		Seed: seed,
	}
	buffer, err := conf.Create(strategy)
	if err != nil {
		panic(err)
	}

	// Fill the buffer past capacity so that the random overwrite policy
	// kicks in
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < 30; i++ {
		if err := buffer.Store(rolloutBatch(rng, 4)); err != nil {
			panic(err)
		}
	}

	fmt.Println("Episodes stored:", buffer.CurrentEpisodeSize())
	fmt.Println("Transitions stored:", buffer.CurrentSize())
	fmt.Println("Transitions ever ingested:", buffer.TransitionsStored())
	fmt.Println("Full:", buffer.Full())

	minibatch, err := buffer.Sample(64)
	if err != nil {
		panic(err)
	}

	rewards := minibatch[replay.RewardKey].Data().([]float64)
	fmt.Printf("Sampled %v transitions, mean reward %.3f\n", len(rewards),
		floats.Sum(rewards)/float64(len(rewards)))
}

// rolloutBatch generates a batch of synthetic reach-task episodes: the
// achieved goal drifts from a random start toward a fixed random goal
func rolloutBatch(rng *rand.Rand, batchSize int) replay.Batch {
	obs := make([]float64, batchSize*(horizon+1)*obsDim)
	acts := make([]float64, batchSize*horizon*actDim)
	goals := make([]float64, batchSize*horizon*goalDim)
	achieved := make([]float64, batchSize*(horizon+1)*goalDim)

	for i := range obs {
		obs[i] = rng.NormFloat64()
	}
	for i := range acts {
		acts[i] = rng.NormFloat64()
	}

	for ep := 0; ep < batchSize; ep++ {
		gx, gy := rng.Float64(), rng.Float64()
		for t := 0; t < horizon; t++ {
			goals[(ep*horizon+t)*goalDim] = gx
			goals[(ep*horizon+t)*goalDim+1] = gy
		}

		// Drift toward the goal, reaching it at the final step
		x, y := rng.Float64(), rng.Float64()
		for t := 0; t <= horizon; t++ {
			frac := float64(t) / float64(horizon)
			achieved[(ep*(horizon+1)+t)*goalDim] = x + frac*(gx-x)
			achieved[(ep*(horizon+1)+t)*goalDim+1] = y + frac*(gy-y)
		}
	}

	return replay.Batch{
		sampler.ObservationKey: tensor.New(
			tensor.WithShape(batchSize, horizon+1, obsDim),
			tensor.WithBacking(obs)),
		sampler.ActionKey: tensor.New(
			tensor.WithShape(batchSize, horizon, actDim),
			tensor.WithBacking(acts)),
		sampler.GoalKey: tensor.New(
			tensor.WithShape(batchSize, horizon, goalDim),
			tensor.WithBacking(goals)),
		sampler.AchievedGoalKey: tensor.New(
			tensor.WithShape(batchSize, horizon+1, goalDim),
			tensor.WithBacking(achieved)),
	}
}
