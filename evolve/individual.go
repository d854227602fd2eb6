package evolve

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNotScored is returned when the score of an individual is read before it has been assigned.
var ErrNotScored = errors.New("individual has not been scored yet")

// Fitness holds the lazily assigned score of an individual.
// It is meant to be embedded; a smaller score is always a better score.
type Fitness struct {
	score  float64
	scored bool
}

// Score returns the assigned score or ErrNotScored.
func (f *Fitness) Score() (float64, error) {
	if !f.scored {
		return 0, ErrNotScored
	}
	return f.score, nil
}

// SetScore assigns the score. Scores are expected to be strictly positive.
func (f *Fitness) SetScore(score float64) {
	f.score = score
	f.scored = true
}

// IsScored reports whether a score has been assigned.
func (f *Fitness) IsScored() bool {
	return f.scored
}

// ClearScore forgets the assigned score, e.g. after the phenotype changed.
func (f *Fitness) ClearScore() {
	f.score = 0
	f.scored = false
}

// Individual is implemented by every candidate solution variant.
// T is the concrete variant type, so Clone stays typed: *PathIndividual
// implements Individual[*PathIndividual].
type Individual[T any] interface {
	Score() (float64, error)
	SetScore(score float64)
	IsScored() bool
	ClearScore()
	// Clone returns an independent deep copy, score included.
	Clone() T
}

// Chromosome is an Individual whose phenotype is a flat sequence of genes.
// Generic operators use it to build children without knowing the variant.
type Chromosome[G any, T any] interface {
	Individual[T]
	Genes() []G
	// Spawn returns a new, unscored individual with the given genes and the
	// receiver's variant settings (value range etc.).
	Spawn(genes []G) T
}

// Scorer is the minimal view needed to order individuals.
type Scorer interface {
	Score() (float64, error)
}

// Compare orders two individuals by score, lower is better.
// Both individuals must be scored.
func Compare[T Scorer](a, b T) (int, error) {
	sa, err := a.Score()
	if err != nil {
		return 0, err
	}
	sb, err := b.Score()
	if err != nil {
		return 0, err
	}
	switch {
	case sa < sb:
		return -1, nil
	case sa > sb:
		return 1, nil
	}
	return 0, nil
}

// Less reports whether a has a strictly better score than b.
func Less[T Scorer](a, b T) (bool, error) {
	c, err := Compare(a, b)
	return c < 0, err
}

// Scores returns the scores of the population in order.
func Scores[T Scorer](population []T) ([]float64, error) {
	scores := make([]float64, len(population))
	for i, ind := range population {
		s, err := ind.Score()
		if err != nil {
			return nil, fmt.Errorf("individual %d: %w", i, err)
		}
		scores[i] = s
	}
	return scores, nil
}

// SortByScore returns a copy of the population sorted by ascending score.
// The sort is stable, so ties keep their relative order.
func SortByScore[T Scorer](population []T) ([]T, error) {
	scores, err := Scores(population)
	if err != nil {
		return nil, err
	}
	idx := make([]int, len(population))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case scores[a] < scores[b]:
			return -1
		case scores[a] > scores[b]:
			return 1
		}
		return 0
	})
	sorted := make([]T, len(population))
	for i, j := range idx {
		sorted[i] = population[j]
	}
	return sorted, nil
}

// MinByScore returns the first individual with the lowest score.
func MinByScore[T Scorer](population []T) (T, error) {
	var best T
	if len(population) == 0 {
		return best, ErrEmptyPopulation
	}
	scores, err := Scores(population)
	if err != nil {
		return best, err
	}
	bestIdx := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] < scores[bestIdx] {
			bestIdx = i
		}
	}
	return population[bestIdx], nil
}

// MustScore returns the score of an individual the caller knows to be scored.
// It panics with ErrNotScored otherwise.
func MustScore[T Scorer](ind T) float64 {
	s, err := ind.Score()
	if err != nil {
		panic(err)
	}
	return s
}
