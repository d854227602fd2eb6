package evolve

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/ini.v1"
)

// ErrInvalidConfig marks fatal configuration errors. Algorithms refuse to be
// constructed from a configuration that fails validation.
var ErrInvalidConfig = errors.New("config error")

// Config stores the configuration parameters of an evolution run.
type Config struct {
	Evolution EvolutionConfig
	Genetic   GeneticConfig
	Strategy  StrategyConfig
	Plot      PlotConfig
}

// EvolutionConfig holds parameters shared by every algorithm.
type EvolutionConfig struct {
	PopulationSize int    `ini:"population_size"` // the 'mu' parameter
	MaxGenerations int    `ini:"max_generations"`
	Seed           uint64 `ini:"seed"` // 0 draws a random seed
}

// GeneticConfig holds parameters specific to the genetic algorithm.
type GeneticConfig struct {
	NumElites        int     `ini:"num_elites"`
	MutationStrength float64 `ini:"mutation_strength"` // strength handed to the mutator
}

// StrategyConfig holds parameters specific to the evolution strategy.
type StrategyConfig struct {
	NumChildren     int     `ini:"num_children"` // the 'lambda' parameter
	SigmaStart      float64 `ini:"sigma_start"`
	SigmaMultiplier float64 `ini:"sigma_multiplier"`
	KeepParents     bool    `ini:"keep_parents"` // true: mu+lambda, false: mu,lambda
}

// PlotConfig controls the live progress observer.
type PlotConfig struct {
	Enabled  bool          `ini:"enabled"`
	Output   string        `ini:"output"`
	Cadence  time.Duration `ini:"cadence"`
	Buffer   int           `ini:"buffer"`
	Overflow string        `ini:"overflow"` // drop_oldest or drop_newest
}

// DefaultConfig returns the defaults used for keys missing from a config file.
func DefaultConfig() *Config {
	return &Config{
		Evolution: EvolutionConfig{
			PopulationSize: 100,
			MaxGenerations: 1000,
		},
		Genetic: GeneticConfig{
			NumElites:        0,
			MutationStrength: 1.0,
		},
		Strategy: StrategyConfig{
			NumChildren:     10,
			SigmaStart:      1.0,
			SigmaMultiplier: 1.15,
			KeepParents:     false,
		},
		Plot: PlotConfig{
			Enabled:  false,
			Output:   "progress.png",
			Cadence:  time.Second / 6,
			Buffer:   16,
			Overflow: string(DropOldest),
		},
	}
}

// LoadConfig loads configuration parameters from an INI file.
// Keys that are absent keep their DefaultConfig value.
func LoadConfig(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}
	return parseConfig(cfg)
}

// ParseConfig loads configuration parameters from INI data in memory.
func ParseConfig(data []byte) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return parseConfig(cfg)
}

func parseConfig(cfg *ini.File) (*Config, error) {
	config := DefaultConfig()

	if err := cfg.Section("Evolution").StrictMapTo(&config.Evolution); err != nil {
		return nil, fmt.Errorf("failed to map [Evolution] section: %w", err)
	}
	if err := cfg.Section("GeneticAlgorithm").StrictMapTo(&config.Genetic); err != nil {
		return nil, fmt.Errorf("failed to map [GeneticAlgorithm] section: %w", err)
	}
	if err := cfg.Section("EvolutionStrategy").StrictMapTo(&config.Strategy); err != nil {
		return nil, fmt.Errorf("failed to map [EvolutionStrategy] section: %w", err)
	}
	if err := cfg.Section("Plot").StrictMapTo(&config.Plot); err != nil {
		return nil, fmt.Errorf("failed to map [Plot] section: %w", err)
	}

	config.Plot.Output = cleanIniString(config.Plot.Output)
	config.Plot.Overflow = strings.ToLower(cleanIniString(config.Plot.Overflow))

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks every section on its own. Limits that depend on the
// population size are checked again when an algorithm is constructed.
func (c *Config) Validate() error {
	if err := c.Evolution.validate(); err != nil {
		return err
	}
	if err := c.Genetic.validate(); err != nil {
		return err
	}
	if err := c.Strategy.validate(); err != nil {
		return err
	}
	return c.Plot.validate()
}

func (ec EvolutionConfig) validate() error {
	if ec.PopulationSize <= 0 {
		return fmt.Errorf("%w: population_size must be positive, got %d", ErrInvalidConfig, ec.PopulationSize)
	}
	if ec.MaxGenerations < 0 {
		return fmt.Errorf("%w: max_generations cannot be negative", ErrInvalidConfig)
	}
	return nil
}

func (gc GeneticConfig) validate() error {
	if gc.NumElites < 0 {
		return fmt.Errorf("%w: num_elites cannot be negative", ErrInvalidConfig)
	}
	if gc.MutationStrength < 0 {
		return fmt.Errorf("%w: mutation_strength cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// validateFor checks the genetic parameters against the population size.
func (gc GeneticConfig) validateFor(ec EvolutionConfig) error {
	if err := gc.validate(); err != nil {
		return err
	}
	if gc.NumElites > ec.PopulationSize {
		return fmt.Errorf("%w: num_elites (%d) larger than population_size (%d)",
			ErrInvalidConfig, gc.NumElites, ec.PopulationSize)
	}
	return nil
}

func (sc StrategyConfig) validate() error {
	if sc.NumChildren <= 0 {
		return fmt.Errorf("%w: num_children must be positive, got %d", ErrInvalidConfig, sc.NumChildren)
	}
	if sc.SigmaStart <= 0 {
		return fmt.Errorf("%w: sigma_start must be positive", ErrInvalidConfig)
	}
	if sc.SigmaMultiplier <= 0 {
		return fmt.Errorf("%w: sigma_multiplier must be positive", ErrInvalidConfig)
	}
	return nil
}

// validateFor checks the strategy parameters against the population size.
func (sc StrategyConfig) validateFor(ec EvolutionConfig) error {
	if err := sc.validate(); err != nil {
		return err
	}
	if sc.NumChildren > ec.PopulationSize {
		return fmt.Errorf("%w: number of children (%d) larger than number of parents (%d)",
			ErrInvalidConfig, sc.NumChildren, ec.PopulationSize)
	}
	return nil
}

func (pc PlotConfig) validate() error {
	if pc.Buffer <= 0 {
		return fmt.Errorf("%w: plot buffer must be positive", ErrInvalidConfig)
	}
	if pc.Cadence <= 0 {
		return fmt.Errorf("%w: plot cadence must be positive", ErrInvalidConfig)
	}
	if _, err := ParseOverflowPolicy(pc.Overflow); err != nil {
		return err
	}
	return nil
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
