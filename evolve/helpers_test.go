package evolve

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 42))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scalarProblem hands out one-dimensional individuals with the given values in
// turn and scores each by its single coordinate.
type scalarProblem struct {
	values []float64
	next   int
}

func (p *scalarProblem) CreateIndividual(*rand.Rand) *RealValueIndividual {
	v := p.values[p.next%len(p.values)]
	p.next++
	return NewRealValueIndividual([]float64{v}, ValueRange{Min: -100, Max: 100})
}

func (p *scalarProblem) ScoreIndividual(ind *RealValueIndividual) {
	ind.SetScore(ind.Phenotype[0])
}

// sortingProblem scores a tour by the number of cities out of place, plus one.
type sortingProblem struct {
	size int
}

func (p sortingProblem) CreateIndividual(rng *rand.Rand) *PathIndividual {
	return NewRandomPathIndividual(p.size, rng)
}

func (p sortingProblem) ScoreIndividual(ind *PathIndividual) {
	misplaced := 0
	for i, city := range ind.Phenotype {
		if i != city {
			misplaced++
		}
	}
	ind.SetScore(float64(misplaced + 1))
}

// lazyProblem never scores anything.
type lazyProblem struct{}

func (lazyProblem) CreateIndividual(rng *rand.Rand) *PathIndividual {
	return NewRandomPathIndividual(3, rng)
}

func (lazyProblem) ScoreIndividual(*PathIndividual) {}

// budgetProblem stops scoring once it has scored budget individuals.
type budgetProblem[T any] struct {
	Problem[T]
	budget int
}

func (p *budgetProblem[T]) ScoreIndividual(ind T) {
	if p.budget > 0 {
		p.budget--
		p.Problem.ScoreIndividual(ind)
	}
}

func firstSelector[T any]() Selector[T] {
	return SelectorFunc[T](func(population []T, _ *rand.Rand) T { return population[0] })
}

func randomSelector[T any]() Selector[T] {
	return SelectorFunc[T](func(population []T, rng *rand.Rand) T {
		return population[rng.IntN(len(population))]
	})
}

func identityCrossover[T any]() Crossover[T] {
	return CrossoverFunc[T](func(father, mother T, _ *rand.Rand) (T, T) { return father, mother })
}

func noopMutator[T any]() Mutator[T] {
	return MutatorFunc[T](func(ind T, _ float64, _ *rand.Rand) T { return ind })
}

// swapMutator exchanges two random cities in place.
func swapMutator() Mutator[*PathIndividual] {
	return MutatorFunc[*PathIndividual](func(ind *PathIndividual, _ float64, rng *rand.Rand) *PathIndividual {
		i, j := rng.IntN(len(ind.Phenotype)), rng.IntN(len(ind.Phenotype))
		ind.Phenotype[i], ind.Phenotype[j] = ind.Phenotype[j], ind.Phenotype[i]
		return ind
	})
}

// gaussianMutator shifts every coordinate by N(0, strength^2).
func gaussianMutator() Mutator[*RealValueIndividual] {
	return MutatorFunc[*RealValueIndividual](func(ind *RealValueIndividual, strength float64, rng *rand.Rand) *RealValueIndividual {
		for i := range ind.Phenotype {
			ind.Phenotype[i] += rng.NormFloat64() * strength
		}
		return ind
	})
}

// scriptedMutator sets the single coordinate of the n-th child to outputs[n]
// and records the strength it was called with.
type scriptedMutator struct {
	outputs   []float64
	strengths []float64
}

func (m *scriptedMutator) Mutate(ind *RealValueIndividual, strength float64, _ *rand.Rand) *RealValueIndividual {
	ind.Phenotype[0] = m.outputs[len(m.strengths)%len(m.outputs)]
	m.strengths = append(m.strengths, strength)
	return ind
}

func isNonIncreasing(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1] {
			return false
		}
	}
	return true
}

type snapshotOf struct {
	phenotype []int
	score     float64
}

func takeSnapshot(ind *PathIndividual) snapshotOf {
	return snapshotOf{phenotype: slices.Clone(ind.Phenotype), score: MustScore(ind)}
}

// recordingCallback logs every hook it sees.
type recordingCallback struct {
	events []string
	failOn string
	err    error
	onEnd  func(Progress)
}

func (c *recordingCallback) hook(name string, p Progress) error {
	c.events = append(c.events, name)
	if name == c.failOn {
		return c.err
	}
	if name == "generation_end" && c.onEnd != nil {
		c.onEnd(p)
	}
	return nil
}

func (c *recordingCallback) OnTrainStart(p Progress) error      { return c.hook("train_start", p) }
func (c *recordingCallback) OnTrainEnd(p Progress) error        { return c.hook("train_end", p) }
func (c *recordingCallback) OnGenerationStart(p Progress) error { return c.hook("generation_start", p) }
func (c *recordingCallback) OnGenerationEnd(p Progress) error   { return c.hook("generation_end", p) }
