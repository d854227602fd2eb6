package operators

import (
	"math/rand/v2"

	"github.com/baldhumanity/evolve-go/evolve"
)

// BitFlip flips every bit independently with probability Rate*strength,
// capped at 1. A zero Rate means one expected flip per individual.
type BitFlip struct {
	Rate float64
}

func (bf BitFlip) Mutate(ind *evolve.BinaryIndividual, strength float64, rng *rand.Rand) *evolve.BinaryIndividual {
	n := len(ind.Phenotype)
	if n == 0 {
		return ind
	}
	rate := bf.Rate
	if rate <= 0 {
		rate = 1 / float64(n)
	}
	p := min(rate*strength, 1)
	for i := range ind.Phenotype {
		if rng.Float64() < p {
			ind.Phenotype[i] = !ind.Phenotype[i]
		}
	}
	return ind
}

// Inversion reverses the tour between two random positions, inclusive.
type Inversion struct{}

func (Inversion) Mutate(ind *evolve.PathIndividual, _ float64, rng *rand.Rand) *evolve.PathIndividual {
	n := len(ind.Phenotype)
	if n < 2 {
		return ind
	}
	i, j := rng.IntN(n), rng.IntN(n)
	if i > j {
		i, j = j, i
	}
	for ; i < j; i, j = i+1, j-1 {
		ind.Phenotype[i], ind.Phenotype[j] = ind.Phenotype[j], ind.Phenotype[i]
	}
	return ind
}

// Swap exchanges two random cities of the tour.
type Swap struct{}

func (Swap) Mutate(ind *evolve.PathIndividual, _ float64, rng *rand.Rand) *evolve.PathIndividual {
	n := len(ind.Phenotype)
	if n < 2 {
		return ind
	}
	i, j := rng.IntN(n), rng.IntN(n)
	ind.Phenotype[i], ind.Phenotype[j] = ind.Phenotype[j], ind.Phenotype[i]
	return ind
}

// Gaussian adds N(0, strength^2) noise to every coordinate. With Clip the
// coordinates are clamped back into the individual's value range.
type Gaussian struct {
	Clip bool
}

func (g Gaussian) Mutate(ind *evolve.RealValueIndividual, strength float64, rng *rand.Rand) *evolve.RealValueIndividual {
	for i := range ind.Phenotype {
		ind.Phenotype[i] += rng.NormFloat64() * strength
	}
	if g.Clip {
		ind.Clip()
	}
	return ind
}

// MultiMutator delegates every call to one of its mutators, chosen uniformly.
type MultiMutator[T any] []evolve.Mutator[T]

func (m MultiMutator[T]) Mutate(ind T, strength float64, rng *rand.Rand) T {
	return m[rng.IntN(len(m))].Mutate(ind, strength, rng)
}
