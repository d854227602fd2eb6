package evolve

import "math/rand/v2"

// Problem creates individuals and assigns their score.
type Problem[T any] interface {
	// CreateIndividual returns a fresh, unscored individual.
	CreateIndividual(rng *rand.Rand) T
	// ScoreIndividual assigns the individual's score in place. Lower is better.
	ScoreIndividual(ind T)
}

// Selector returns one individual from a population.
type Selector[T any] interface {
	Select(population []T, rng *rand.Rand) T
}

// SelectorFunc adapts a plain function to a Selector.
type SelectorFunc[T any] func(population []T, rng *rand.Rand) T

func (f SelectorFunc[T]) Select(population []T, rng *rand.Rand) T {
	return f(population, rng)
}

// Crossover crossbreeds two parents into exactly two new children.
type Crossover[T any] interface {
	Cross(father, mother T, rng *rand.Rand) (T, T)
}

// CrossoverFunc adapts a plain function to a Crossover.
type CrossoverFunc[T any] func(father, mother T, rng *rand.Rand) (T, T)

func (f CrossoverFunc[T]) Cross(father, mother T, rng *rand.Rand) (T, T) {
	return f(father, mother, rng)
}

// Mutator mutates an individual and returns it. Strength controls the size
// of the change; operators without a notion of strength ignore it.
type Mutator[T any] interface {
	Mutate(ind T, strength float64, rng *rand.Rand) T
}

// MutatorFunc adapts a plain function to a Mutator.
type MutatorFunc[T any] func(ind T, strength float64, rng *rand.Rand) T

func (f MutatorFunc[T]) Mutate(ind T, strength float64, rng *rand.Rand) T {
	return f(ind, strength, rng)
}

// Progress is the read-only view of a run handed to callbacks.
type Progress struct {
	Generation       int
	MaxGenerations   int
	BestScore        float64
	CurrentBestScore float64
}

// Callback observes the lifecycle of a run. Hooks run synchronously on the
// evolution goroutine; a returned error aborts the run.
type Callback interface {
	OnTrainStart(p Progress) error
	OnTrainEnd(p Progress) error
	OnGenerationStart(p Progress) error
	OnGenerationEnd(p Progress) error
}

// NopCallback implements every hook as a no-op. Embed it to override a subset.
type NopCallback struct{}

func (NopCallback) OnTrainStart(Progress) error      { return nil }
func (NopCallback) OnTrainEnd(Progress) error        { return nil }
func (NopCallback) OnGenerationStart(Progress) error { return nil }
func (NopCallback) OnGenerationEnd(Progress) error   { return nil }
