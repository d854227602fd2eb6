package evolve

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate())
	assert.Equal(t, 100, config.Evolution.PopulationSize)
	assert.Equal(t, 1000, config.Evolution.MaxGenerations)
	assert.Equal(t, 10, config.Strategy.NumChildren)
	assert.Equal(t, 1.15, config.Strategy.SigmaMultiplier)
	assert.False(t, config.Strategy.KeepParents)
	assert.Equal(t, time.Second/6, config.Plot.Cadence)
}

func TestParseConfigKeepsDefaultsForMissingKeys(t *testing.T) {
	config, err := ParseConfig([]byte(`
[Evolution]
population_size = 40
seed = 7

[EvolutionStrategy]
keep_parents = true
sigma_start = 0.3

[Plot]
enabled = true
output = run.png   # written next to the binary
cadence = 250ms
overflow = DROP_NEWEST
`))
	require.NoError(t, err)

	assert.Equal(t, 40, config.Evolution.PopulationSize)
	assert.Equal(t, 1000, config.Evolution.MaxGenerations)
	assert.Equal(t, uint64(7), config.Evolution.Seed)
	assert.Equal(t, 0, config.Genetic.NumElites)
	assert.Equal(t, 1.0, config.Genetic.MutationStrength)
	assert.True(t, config.Strategy.KeepParents)
	assert.Equal(t, 0.3, config.Strategy.SigmaStart)
	assert.Equal(t, 10, config.Strategy.NumChildren)
	assert.True(t, config.Plot.Enabled)
	assert.Equal(t, "run.png", config.Plot.Output)
	assert.Equal(t, 250*time.Millisecond, config.Plot.Cadence)
	assert.Equal(t, string(DropNewest), config.Plot.Overflow)
}

func TestParseConfigRejectsInvalidValues(t *testing.T) {
	for name, data := range map[string]string{
		"zero population":   "[Evolution]\npopulation_size = 0\n",
		"negative elites":   "[GeneticAlgorithm]\nnum_elites = -2\n",
		"zero multiplier":   "[EvolutionStrategy]\nsigma_multiplier = 0\n",
		"unknown overflow":  "[Plot]\noverflow = block\n",
		"negative children": "[EvolutionStrategy]\nnum_children = -1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(data))
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), "config error:")
		})
	}
}

func TestParseConfigRejectsMalformedValues(t *testing.T) {
	_, err := ParseConfig([]byte("[Evolution]\npopulation_size = many\n"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ini")
	require.NoError(t, os.WriteFile(path, []byte("[GeneticAlgorithm]\nnum_elites = 3\n"), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, config.Genetic.NumElites)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)
}

func TestPopulationDependentLimits(t *testing.T) {
	config := DefaultConfig()
	config.Evolution.PopulationSize = 5

	// Valid on its own: the strategy limit only applies to an evolution strategy.
	require.NoError(t, config.Validate())
	assert.ErrorIs(t, config.Strategy.validateFor(config.Evolution), ErrInvalidConfig)
	assert.NoError(t, config.Genetic.validateFor(config.Evolution))

	config.Genetic.NumElites = 6
	assert.ErrorIs(t, config.Genetic.validateFor(config.Evolution), ErrInvalidConfig)
}

func TestCleanIniString(t *testing.T) {
	assert.Equal(t, "value", cleanIniString("  value  ; trailing"))
	assert.Equal(t, "a", cleanIniString("a# comment"))
	assert.Equal(t, "", cleanIniString("   "))
}
