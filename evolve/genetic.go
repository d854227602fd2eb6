package evolve

import (
	"context"
	"fmt"
)

// GeneticAlgorithm evolves a population through elitism, crossover and mutation.
//
// Every generation the NumElites best individuals are carried over unchanged;
// the rest of the next population is bred from pairs of selected parents,
// crossed over and mutated.
type GeneticAlgorithm[T Individual[T]] struct {
	*Evolution[T]

	config    GeneticConfig
	selector  Selector[T]
	crossover Crossover[T]
	mutator   Mutator[T]
}

var _ Algorithm[*PathIndividual] = (*GeneticAlgorithm[*PathIndividual])(nil)

// NewGeneticAlgorithm validates the configuration and creates the initial, scored population.
func NewGeneticAlgorithm[T Individual[T]](
	config *Config,
	problem Problem[T],
	selector Selector[T],
	crossover Crossover[T],
	mutator Mutator[T],
	opts Options[T],
) (*GeneticAlgorithm[T], error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is required", ErrInvalidConfig)
	}
	if err := config.Evolution.validate(); err != nil {
		return nil, err
	}
	if err := config.Genetic.validateFor(config.Evolution); err != nil {
		return nil, err
	}
	if selector == nil || crossover == nil || mutator == nil {
		return nil, fmt.Errorf("%w: selector, crossover and mutator are required", ErrInvalidConfig)
	}

	ga := &GeneticAlgorithm[T]{
		config:    config.Genetic,
		selector:  selector,
		crossover: crossover,
		mutator:   mutator,
	}
	evolution, err := newEvolution(problem, config.Evolution, opts, ga.evolveOnce)
	if err != nil {
		return nil, fmt.Errorf("failed to create genetic algorithm: %w", err)
	}
	ga.Evolution = evolution
	return ga, nil
}

// NumElites returns the number of individuals carried over unchanged.
func (ga *GeneticAlgorithm[T]) NumElites() int { return ga.config.NumElites }

func (ga *GeneticAlgorithm[T]) evolveOnce(_ context.Context) error {
	elites, _, err := ga.splitElites(ga.population)
	if err != nil {
		return fmt.Errorf("failed to split elites: %w", err)
	}

	children := ga.generateChildren(ga.PopulationSize() - len(elites))

	// Only children are mutated; elites pass through untouched. A crossover may
	// hand back its parents, so every child is cloned before in-place mutation
	// and loses the score it inherited.
	next := make([]T, 0, len(children)+len(elites))
	for _, child := range children {
		offspring := child.Clone()
		offspring.ClearScore()
		next = append(next, ga.mutator.Mutate(offspring, ga.config.MutationStrength, ga.rng))
	}
	next = append(next, elites...)

	return ga.SetPopulation(next)
}

// splitElites returns the NumElites best individuals by ascending score and the remainder.
func (ga *GeneticAlgorithm[T]) splitElites(population []T) ([]T, []T, error) {
	if ga.config.NumElites == 0 {
		return nil, population, nil
	}
	sorted, err := SortByScore(population)
	if err != nil {
		return nil, nil, err
	}
	k := min(ga.config.NumElites, len(sorted))
	return sorted[:k], sorted[k:], nil
}

// generateChildren breeds exactly n children. Crossover yields pairs, so the
// last pair is cut short when n is odd.
func (ga *GeneticAlgorithm[T]) generateChildren(n int) []T {
	if n <= 0 {
		return nil
	}
	children := make([]T, 0, n+1)
	for len(children) < n {
		father := ga.selector.Select(ga.population, ga.rng)
		mother := ga.selector.Select(ga.population, ga.rng)
		first, second := ga.crossover.Cross(father, mother, ga.rng)
		children = append(children, first, second)
	}
	return children[:n]
}
