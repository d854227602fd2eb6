package evolve

import (
	"context"
	"fmt"
	"slices"
)

// EvolutionStrategy evolves a population by truncation selection over mutated
// clones, adapting the mutation strength sigma with the 1/5 success rule.
//
// With KeepParents the parents compete with their children ('mu+lambda'),
// otherwise only the children survive ('mu,lambda').
type EvolutionStrategy[T Individual[T]] struct {
	*Evolution[T]

	config   StrategyConfig
	selector Selector[T]
	mutator  Mutator[T]

	sigma          float64
	sigmaHistory   []float64
	successHistory []int
}

var _ Algorithm[*RealValueIndividual] = (*EvolutionStrategy[*RealValueIndividual])(nil)

// NewEvolutionStrategy validates the configuration and creates the initial, scored population.
// NumChildren larger than PopulationSize is a configuration error.
func NewEvolutionStrategy[T Individual[T]](
	config *Config,
	problem Problem[T],
	selector Selector[T],
	mutator Mutator[T],
	opts Options[T],
) (*EvolutionStrategy[T], error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is required", ErrInvalidConfig)
	}
	if err := config.Evolution.validate(); err != nil {
		return nil, err
	}
	if err := config.Strategy.validateFor(config.Evolution); err != nil {
		return nil, err
	}
	if selector == nil || mutator == nil {
		return nil, fmt.Errorf("%w: selector and mutator are required", ErrInvalidConfig)
	}

	es := &EvolutionStrategy[T]{
		config:   config.Strategy,
		selector: selector,
		mutator:  mutator,
		sigma:    config.Strategy.SigmaStart,
	}
	evolution, err := newEvolution(problem, config.Evolution, opts, es.evolveOnce)
	if err != nil {
		return nil, fmt.Errorf("failed to create evolution strategy: %w", err)
	}
	es.Evolution = evolution
	return es, nil
}

// Sigma returns the current mutation strength.
func (es *EvolutionStrategy[T]) Sigma() float64 { return es.sigma }

// SigmaHistory returns sigma after every generation.
func (es *EvolutionStrategy[T]) SigmaHistory() []float64 { return slices.Clone(es.sigmaHistory) }

// SuccessHistory returns the number of improving children of every generation.
func (es *EvolutionStrategy[T]) SuccessHistory() []int { return slices.Clone(es.successHistory) }

func (es *EvolutionStrategy[T]) evolveOnce(_ context.Context) error {
	children, numSuccess, err := es.generateChildren()
	if err != nil {
		return err
	}

	if es.config.KeepParents {
		children = append(children, es.population...)
	}

	sorted, err := SortByScore(children)
	if err != nil {
		return fmt.Errorf("failed to rank candidates: %w", err)
	}
	next := sorted[:min(es.PopulationSize(), len(sorted))]
	if err := es.SetPopulation(next); err != nil {
		return err
	}

	es.adaptSigma(numSuccess)
	return nil
}

// generateChildren mutates NumChildren clones of selected parents and counts
// the children that beat their parent's score.
func (es *EvolutionStrategy[T]) generateChildren() ([]T, int, error) {
	children := make([]T, 0, es.config.NumChildren+len(es.population))
	numSuccess := 0

	for i := 0; i < es.config.NumChildren; i++ {
		parent := es.selector.Select(es.population, es.rng)
		parentScore, err := parent.Score()
		if err != nil {
			return nil, 0, fmt.Errorf("selected parent: %w", err)
		}

		child := parent.Clone()
		child.ClearScore()
		child = es.mutator.Mutate(child, es.sigma, es.rng)
		es.problem.ScoreIndividual(child)
		childScore, err := child.Score()
		if err != nil {
			return nil, 0, fmt.Errorf("problem did not score child %d: %w", i, err)
		}

		children = append(children, child)
		if childScore < parentScore {
			numSuccess++
		}
	}
	return children, numSuccess, nil
}

// adaptSigma applies the 1/5 success rule (Rechenberg, Schwefel 1981): widen
// the search when more than a fifth of the children improved, narrow it otherwise.
func (es *EvolutionStrategy[T]) adaptSigma(numSuccess int) {
	if float64(numSuccess) > float64(es.config.NumChildren)/5 {
		es.sigma *= es.config.SigmaMultiplier
	} else {
		es.sigma /= es.config.SigmaMultiplier
	}
	es.successHistory = append(es.successHistory, numSuccess)
	es.sigmaHistory = append(es.sigmaHistory, es.sigma)
}
