package problems

import (
	"math/rand/v2"

	"github.com/baldhumanity/evolve-go/evolve"
)

// OneMax asks for a bit string of all ones. The score is the number of unset
// bits plus one, so the optimum scores 1.
type OneMax struct {
	Size int
}

var _ evolve.Problem[*evolve.BinaryIndividual] = OneMax{}

func (om OneMax) CreateIndividual(rng *rand.Rand) *evolve.BinaryIndividual {
	return evolve.NewRandomBinaryIndividual(om.Size, rng)
}

func (om OneMax) ScoreIndividual(ind *evolve.BinaryIndividual) {
	unset := 0
	for _, bit := range ind.Phenotype {
		if !bit {
			unset++
		}
	}
	ind.SetScore(float64(unset + 1))
}
