// Package operators provides selection, crossover and mutation operators for
// the individual variants of package evolve.
package operators

import (
	"math"
	"math/rand/v2"

	"github.com/baldhumanity/evolve-go/evolve"
)

// minWeightScore keeps proportional weights finite for zero scores.
const minWeightScore = 1e-12

// Tournament picks the best of Size uniformly drawn individuals (with replacement).
type Tournament[T evolve.Scorer] struct {
	Size int
}

func (t Tournament[T]) Select(population []T, rng *rand.Rand) T {
	size := t.Size
	if size < 1 {
		size = 2
	}
	best := population[rng.IntN(len(population))]
	bestScore := evolve.MustScore(best)
	for i := 1; i < size; i++ {
		candidate := population[rng.IntN(len(population))]
		if s := evolve.MustScore(candidate); s < bestScore {
			best, bestScore = candidate, s
		}
	}
	return best
}

// Proportional is fitness-proportionate (roulette wheel) selection for
// minimization: the weight of an individual is the inverse of its score.
type Proportional[T evolve.Scorer] struct{}

func (Proportional[T]) Select(population []T, rng *rand.Rand) T {
	weights := make([]float64, len(population))
	total := 0.0
	for i, ind := range population {
		weights[i] = 1 / math.Max(evolve.MustScore(ind), minWeightScore)
		total += weights[i]
	}
	return population[spin(weights, total, rng)]
}

// LinearRank selects by rank instead of raw score. Pressure in [1, 2] is the
// expected number of offspring of the best individual; 1 means uniform.
type LinearRank[T evolve.Scorer] struct {
	Pressure float64
}

func (lr LinearRank[T]) Select(population []T, rng *rand.Rand) T {
	sorted, err := evolve.SortByScore(population)
	if err != nil {
		panic(err)
	}
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	sp := lr.Pressure
	if sp < 1 || sp > 2 {
		sp = 1.5
	}

	// Rank 0 is the best individual.
	weights := make([]float64, n)
	total := 0.0
	for rank := range weights {
		weights[rank] = (sp - (2*sp-2)*float64(rank)/float64(n-1)) / float64(n)
		total += weights[rank]
	}
	return sorted[spin(weights, total, rng)]
}

// Random selects uniformly, without any selection pressure.
type Random[T any] struct{}

func (Random[T]) Select(population []T, rng *rand.Rand) T {
	return population[rng.IntN(len(population))]
}

// MultiSelector delegates every call to one of its selectors, chosen uniformly.
type MultiSelector[T any] []evolve.Selector[T]

func (m MultiSelector[T]) Select(population []T, rng *rand.Rand) T {
	return m[rng.IntN(len(m))].Select(population, rng)
}

// spin draws an index with probability weights[i]/total.
func spin(weights []float64, total float64, rng *rand.Rand) int {
	target := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if target < acc {
			return i
		}
	}
	return len(weights) - 1
}
