package evolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyPopulation is returned when a population without members is set.
var ErrEmptyPopulation = errors.New("population is empty")

// Algorithm is implemented by every evolution variant.
type Algorithm[T Individual[T]] interface {
	// Evolve runs generations until the stop flag is set or ctx is done.
	Evolve(ctx context.Context) error
	// EvolveOnce runs exactly one generation.
	EvolveOnce(ctx context.Context) error
	Stop()
	Stopped() bool
	Population() []T
	Best() T
	CurrentBest() T
	Generation() int
	BestScores() []float64
	CurrentBestScores() []float64
}

// Options carries the optional collaborators of an algorithm.
type Options[T any] struct {
	Callbacks []Callback
	// Feed receives a snapshot after every generation. Nil disables live plotting.
	Feed   *Feed[T]
	Logger *slog.Logger
	// Rand overrides the source seeded from EvolutionConfig.Seed.
	Rand *rand.Rand
	// RunID labels logs and metrics. A random UUID is used when empty.
	RunID string
}

// NewRand returns a PCG-backed source. A zero seed draws a random one.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// Evolution holds the state shared by every algorithm variant: the scored
// population, the best individuals, the generation counter, the stop flag
// and the score histories. Variants embed it and supply the transition that
// turns one generation into the next.
type Evolution[T Individual[T]] struct {
	problem   Problem[T]
	config    EvolutionConfig
	callbacks []Callback
	feed      *Feed[T]
	logger    *slog.Logger
	rng       *rand.Rand
	runID     string

	population  []T
	best        T
	currentBest T
	hasBest     bool

	generation        int
	stop              atomic.Bool
	bestScores        []float64
	currentBestScores []float64

	transition func(ctx context.Context) error
}

// newEvolution validates the shared configuration and builds the initial,
// fully scored population of config.PopulationSize individuals.
func newEvolution[T Individual[T]](problem Problem[T], config EvolutionConfig, opts Options[T], transition func(context.Context) error) (*Evolution[T], error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if problem == nil {
		return nil, fmt.Errorf("%w: problem is required", ErrInvalidConfig)
	}

	rng := opts.Rand
	if rng == nil {
		rng = NewRand(config.Seed)
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Evolution[T]{
		problem:           problem,
		config:            config,
		callbacks:         slices.Clone(opts.Callbacks),
		feed:              opts.Feed,
		logger:            logger.With(slog.String("run", runID)),
		rng:               rng,
		runID:             runID,
		bestScores:        make([]float64, 0, config.MaxGenerations),
		currentBestScores: make([]float64, 0, config.MaxGenerations),
		transition:        transition,
	}

	initial := make([]T, config.PopulationSize)
	for i := range initial {
		initial[i] = problem.CreateIndividual(rng)
	}
	if err := e.SetPopulation(initial); err != nil {
		return nil, fmt.Errorf("failed to set initial population: %w", err)
	}
	return e, nil
}

// SetPopulation scores every individual, recomputes the current best and
// replaces the best only if the new current best is strictly better.
func (e *Evolution[T]) SetPopulation(population []T) error {
	if len(population) == 0 {
		return ErrEmptyPopulation
	}
	for i, ind := range population {
		e.problem.ScoreIndividual(ind)
		if !ind.IsScored() {
			return fmt.Errorf("problem did not score individual %d: %w", i, ErrNotScored)
		}
	}

	currentBest, err := MinByScore(population)
	if err != nil {
		return err
	}
	e.population = population
	e.currentBest = currentBest

	if !e.hasBest {
		e.setBest(currentBest)
		return nil
	}
	better, err := Less(currentBest, e.best)
	if err != nil {
		return err
	}
	if better {
		e.setBest(currentBest)
	}
	return nil
}

// setBest keeps a private copy so later in-place operators cannot touch it.
func (e *Evolution[T]) setBest(ind T) {
	e.best = ind.Clone()
	e.hasBest = true
	e.logger.Info("new best", slog.Int("generation", e.generation), slog.Float64("score", MustScore(e.best)))
}

// Evolve runs generations until the stop flag is set, either by reaching
// MaxGenerations or through Stop, or until ctx is done. Cancellation is only
// observed between generations.
func (e *Evolution[T]) Evolve(ctx context.Context) error {
	if err := e.notify("OnTrainStart", Callback.OnTrainStart); err != nil {
		return err
	}

	start := time.Now()
	e.stop.Store(false)
	var ctxErr error
	for !e.stop.Load() {
		if ctxErr = ctx.Err(); ctxErr != nil {
			e.stop.Store(true)
			break
		}
		if err := e.EvolveOnce(ctx); err != nil {
			return err
		}
		e.publish()
	}

	e.logger.Info("evolution stopped",
		slog.Int("generation", e.generation),
		slog.Float64("best", MustScore(e.best)),
		slog.Duration("elapsed", time.Since(start)))

	if err := e.notify("OnTrainEnd", Callback.OnTrainEnd); err != nil {
		return err
	}
	return ctxErr
}

// EvolveOnce runs the variant's transition for one generation and does the
// shared bookkeeping: histories, generation counter and stop flag.
func (e *Evolution[T]) EvolveOnce(ctx context.Context) error {
	if err := e.notify("OnGenerationStart", Callback.OnGenerationStart); err != nil {
		return err
	}

	if err := e.transition(ctx); err != nil {
		return fmt.Errorf("generation %d failed: %w", e.generation+1, err)
	}

	e.bestScores = append(e.bestScores, MustScore(e.best))
	e.currentBestScores = append(e.currentBestScores, MustScore(e.currentBest))
	e.generation++
	if e.generation >= e.config.MaxGenerations {
		e.stop.Store(true)
	}

	if e.logger.Enabled(ctx, slog.LevelDebug) {
		if scores, err := Scores(e.population); err == nil {
			s := Summarize(scores)
			e.logger.Debug("generation finished",
				slog.Int("generation", e.generation),
				slog.Float64("best", MustScore(e.best)),
				slog.Float64("current_best", s.Min),
				slog.Float64("mean", s.Mean),
				slog.Float64("stdev", s.Stdev))
		}
	}

	return e.notify("OnGenerationEnd", Callback.OnGenerationEnd)
}

func (e *Evolution[T]) notify(hook string, call func(Callback, Progress) error) error {
	p := e.Progress()
	for _, cb := range e.callbacks {
		if err := call(cb, p); err != nil {
			return fmt.Errorf("callback %s failed in generation %d: %w", hook, e.generation, err)
		}
	}
	return nil
}

// publish pushes a deep copy of the progress to the feed, if any.
func (e *Evolution[T]) publish() {
	if e.feed == nil {
		return
	}
	kept := e.feed.Publish(Snapshot[T]{
		Generation:        e.generation,
		CurrentBestScores: slices.Clone(e.currentBestScores),
		BestScores:        slices.Clone(e.bestScores),
		Best:              e.best.Clone(),
	})
	if !kept {
		e.logger.Debug("progress snapshot dropped", slog.Int("generation", e.generation))
	}
}

// Stop asks the run to end at the next generation boundary. Safe for concurrent use.
func (e *Evolution[T]) Stop() { e.stop.Store(true) }

// Stopped reports whether the stop flag is set.
func (e *Evolution[T]) Stopped() bool { return e.stop.Load() }

// Progress returns the current view handed to callbacks.
func (e *Evolution[T]) Progress() Progress {
	return Progress{
		Generation:       e.generation,
		MaxGenerations:   e.config.MaxGenerations,
		BestScore:        MustScore(e.best),
		CurrentBestScore: MustScore(e.currentBest),
	}
}

// Population returns a copy of the current population slice.
func (e *Evolution[T]) Population() []T { return slices.Clone(e.population) }

// Best returns a copy of the best individual observed during the run.
func (e *Evolution[T]) Best() T { return e.best.Clone() }

// CurrentBest returns the best individual of the current population.
func (e *Evolution[T]) CurrentBest() T { return e.currentBest }

// PopulationSize returns the configured population size.
func (e *Evolution[T]) PopulationSize() int { return e.config.PopulationSize }

// Generation returns the number of completed generations.
func (e *Evolution[T]) Generation() int { return e.generation }

// BestScores returns the best score recorded after every generation.
func (e *Evolution[T]) BestScores() []float64 { return slices.Clone(e.bestScores) }

// CurrentBestScores returns the current-best score recorded after every generation.
func (e *Evolution[T]) CurrentBestScores() []float64 { return slices.Clone(e.currentBestScores) }

// RunID identifies the run in logs and metrics.
func (e *Evolution[T]) RunID() string { return e.runID }

// Rand returns the random source shared with the operators.
func (e *Evolution[T]) Rand() *rand.Rand { return e.rng }

// Problem returns the problem being optimized.
func (e *Evolution[T]) Problem() Problem[T] { return e.problem }
