package evolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func esConfig(populationSize, numChildren, maxGenerations int, keepParents bool) *Config {
	config := DefaultConfig()
	config.Evolution.PopulationSize = populationSize
	config.Evolution.MaxGenerations = maxGenerations
	config.Strategy.NumChildren = numChildren
	config.Strategy.KeepParents = keepParents
	return config
}

func TestEvolutionStrategySigmaAdaptation(t *testing.T) {
	tests := []struct {
		name      string
		improving int
		want      func(start, mult float64) float64
	}{
		{"three of ten improve", 3, func(s, m float64) float64 { return s * m }},
		{"one of ten improves", 1, func(s, m float64) float64 { return s / m }},
		{"exactly a fifth improves", 2, func(s, m float64) float64 { return s / m }},
		{"all improve", 10, func(s, m float64) float64 { return s * m }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Every parent scores 5; improving children score 4, the rest 6.
			outputs := make([]float64, 10)
			for i := range outputs {
				outputs[i] = 6
				if i < tt.improving {
					outputs[i] = 4
				}
			}
			mutator := &scriptedMutator{outputs: outputs}

			config := esConfig(10, 10, 5, false)
			config.Strategy.SigmaStart = 0.5
			config.Strategy.SigmaMultiplier = 1.15

			es, err := NewEvolutionStrategy(config, Problem[*RealValueIndividual](&scalarProblem{values: []float64{5}}),
				firstSelector[*RealValueIndividual](), Mutator[*RealValueIndividual](mutator),
				Options[*RealValueIndividual]{Rand: testRand(), Logger: quietLogger()})
			require.NoError(t, err)
			require.NoError(t, es.EvolveOnce(context.Background()))

			assert.InDelta(t, tt.want(0.5, 1.15), es.Sigma(), 1e-12)
			assert.Equal(t, []int{tt.improving}, es.SuccessHistory())
			assert.Len(t, mutator.strengths, 10)
			for _, s := range mutator.strengths {
				assert.Equal(t, 0.5, s)
			}
		})
	}
}

func TestEvolutionStrategySigmaFollowsRule(t *testing.T) {
	es, err := NewEvolutionStrategy(esConfig(15, 10, 40, true), Problem[*RealValueIndividual](&scalarProblem{values: []float64{3, 8, 20}}),
		randomSelector[*RealValueIndividual](), gaussianMutator(),
		Options[*RealValueIndividual]{Rand: testRand(), Logger: quietLogger()})
	require.NoError(t, err)
	require.NoError(t, es.Evolve(context.Background()))

	sigmas := es.SigmaHistory()
	successes := es.SuccessHistory()
	require.Len(t, sigmas, 40)
	require.Len(t, successes, 40)
	prev := 1.0
	for i, sigma := range sigmas {
		if float64(successes[i])/10 > 0.2 {
			assert.InDelta(t, prev*1.15, sigma, 1e-9)
		} else {
			assert.InDelta(t, prev/1.15, sigma, 1e-9)
		}
		prev = sigma
	}
}

func TestEvolutionStrategyPlusKeepsCurrentBest(t *testing.T) {
	es, err := NewEvolutionStrategy(esConfig(10, 5, 50, true), Problem[*RealValueIndividual](&scalarProblem{values: []float64{4, 9, 16, 25}}),
		randomSelector[*RealValueIndividual](), gaussianMutator(),
		Options[*RealValueIndividual]{Rand: testRand(), Logger: quietLogger()})
	require.NoError(t, err)
	require.NoError(t, es.Evolve(context.Background()))

	assert.True(t, isNonIncreasing(es.CurrentBestScores()))
	assert.True(t, isNonIncreasing(es.BestScores()))
	assert.Len(t, es.Population(), 10)
}

func TestEvolutionStrategyCommaKeepsHistoricalBest(t *testing.T) {
	es, err := NewEvolutionStrategy(esConfig(10, 10, 50, false), Problem[*RealValueIndividual](&scalarProblem{values: []float64{4, 9, 16, 25}}),
		randomSelector[*RealValueIndividual](), gaussianMutator(),
		Options[*RealValueIndividual]{Rand: testRand(), Logger: quietLogger()})
	require.NoError(t, err)
	require.NoError(t, es.Evolve(context.Background()))

	assert.True(t, isNonIncreasing(es.BestScores()))
	best := es.BestScores()
	current := es.CurrentBestScores()
	for i := range best {
		assert.LessOrEqual(t, best[i], current[i])
	}
}

func TestEvolutionStrategyCommaWithFewerChildrenShrinks(t *testing.T) {
	es, err := NewEvolutionStrategy(esConfig(10, 4, 1, false), Problem[*RealValueIndividual](&scalarProblem{values: []float64{1}}),
		randomSelector[*RealValueIndividual](), gaussianMutator(),
		Options[*RealValueIndividual]{Rand: testRand(), Logger: quietLogger()})
	require.NoError(t, err)
	require.NoError(t, es.EvolveOnce(context.Background()))
	assert.Len(t, es.Population(), 4)
}

func TestEvolutionStrategyRejectsTooManyChildren(t *testing.T) {
	_, err := NewEvolutionStrategy(esConfig(5, 10, 1, false), Problem[*RealValueIndividual](&scalarProblem{values: []float64{1}}),
		randomSelector[*RealValueIndividual](), gaussianMutator(),
		Options[*RealValueIndividual]{Rand: testRand(), Logger: quietLogger()})
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "number of children (10) larger than number of parents (5)")
}

func TestEvolutionStrategyDoesNotMutateParents(t *testing.T) {
	problem := &scalarProblem{values: []float64{5}}
	es, err := NewEvolutionStrategy(esConfig(3, 3, 1, true), Problem[*RealValueIndividual](problem),
		firstSelector[*RealValueIndividual](), Mutator[*RealValueIndividual](&scriptedMutator{outputs: []float64{7}}),
		Options[*RealValueIndividual]{Rand: testRand(), Logger: quietLogger()})
	require.NoError(t, err)

	parents := es.Population()
	require.NoError(t, es.EvolveOnce(context.Background()))
	for _, p := range parents {
		assert.Equal(t, []float64{5}, p.Phenotype)
	}
	// Parents survive in mu+lambda because every child is worse.
	for _, ind := range es.Population() {
		assert.Equal(t, 5.0, MustScore(ind))
	}
}

func TestEvolutionStrategyCommaCurrentBestCanWorsen(t *testing.T) {
	// Every generation all children are worse than their parents: 6, then 7, then 8.
	mutator := &scriptedMutator{outputs: []float64{6, 6, 6, 7, 7, 7, 8, 8, 8}}
	es, err := NewEvolutionStrategy(esConfig(3, 3, 3, false), Problem[*RealValueIndividual](&scalarProblem{values: []float64{5}}),
		firstSelector[*RealValueIndividual](), Mutator[*RealValueIndividual](mutator),
		Options[*RealValueIndividual]{Rand: testRand(), Logger: quietLogger()})
	require.NoError(t, err)
	require.NoError(t, es.Evolve(context.Background()))

	assert.Equal(t, []float64{6, 7, 8}, es.CurrentBestScores())
	assert.Equal(t, []float64{5, 5, 5}, es.BestScores())
	assert.Equal(t, []int{0, 0, 0}, es.SuccessHistory())
	assert.Equal(t, []float64{5}, es.Best().Phenotype)
}

func TestEvolutionStrategyRejectsUnscoredChildren(t *testing.T) {
	problem := &budgetProblem[*RealValueIndividual]{Problem: &scalarProblem{values: []float64{5}}, budget: 4}
	es, err := NewEvolutionStrategy(esConfig(4, 4, 1, true), Problem[*RealValueIndividual](problem),
		firstSelector[*RealValueIndividual](), noopMutator[*RealValueIndividual](),
		Options[*RealValueIndividual]{Rand: testRand(), Logger: quietLogger()})
	require.NoError(t, err)

	err = es.EvolveOnce(context.Background())
	assert.ErrorIs(t, err, ErrNotScored)
	assert.Empty(t, es.SigmaHistory())
}
