package evolve

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// --------------------------- BinaryIndividual ---------------------------

// BinaryIndividual is a fixed-length sequence of booleans.
type BinaryIndividual struct {
	Fitness
	Phenotype []bool
}

// NewBinaryIndividual wraps the given phenotype in an unscored individual.
func NewBinaryIndividual(phenotype []bool) *BinaryIndividual {
	return &BinaryIndividual{Phenotype: phenotype}
}

// NewRandomBinaryIndividual creates an individual with size independent random bits.
func NewRandomBinaryIndividual(size int, rng *rand.Rand) *BinaryIndividual {
	bits := make([]bool, size)
	for i := range bits {
		bits[i] = rng.IntN(2) == 1
	}
	return NewBinaryIndividual(bits)
}

func (b *BinaryIndividual) Clone() *BinaryIndividual {
	c := &BinaryIndividual{Fitness: b.Fitness}
	c.Phenotype = append([]bool(nil), b.Phenotype...)
	return c
}

func (b *BinaryIndividual) Genes() []bool { return b.Phenotype }

func (b *BinaryIndividual) Spawn(genes []bool) *BinaryIndividual {
	return NewBinaryIndividual(genes)
}

func (b *BinaryIndividual) String() string {
	var sb strings.Builder
	for _, bit := range b.Phenotype {
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// --------------------------- PathIndividual ---------------------------

// PathIndividual is a tour over n cities: a permutation of 0..n-1.
type PathIndividual struct {
	Fitness
	Phenotype []int
}

// NewPathIndividual wraps the given tour in an unscored individual.
func NewPathIndividual(phenotype []int) *PathIndividual {
	return &PathIndividual{Phenotype: phenotype}
}

// NewRandomPathIndividual creates a uniformly shuffled permutation of 0..size-1.
func NewRandomPathIndividual(size int, rng *rand.Rand) *PathIndividual {
	return NewPathIndividual(rng.Perm(size))
}

func (p *PathIndividual) Clone() *PathIndividual {
	c := &PathIndividual{Fitness: p.Fitness}
	c.Phenotype = append([]int(nil), p.Phenotype...)
	return c
}

func (p *PathIndividual) Genes() []int { return p.Phenotype }

func (p *PathIndividual) Spawn(genes []int) *PathIndividual {
	return NewPathIndividual(genes)
}

// IsPermutation reports whether the phenotype holds every index 0..n-1 exactly once.
func (p *PathIndividual) IsPermutation() bool {
	seen := make([]bool, len(p.Phenotype))
	for _, city := range p.Phenotype {
		if city < 0 || city >= len(seen) || seen[city] {
			return false
		}
		seen[city] = true
	}
	return true
}

func (p *PathIndividual) String() string {
	parts := make([]string, len(p.Phenotype))
	for i, city := range p.Phenotype {
		parts[i] = fmt.Sprint(city)
	}
	return "Path[" + strings.Join(parts, " -> ") + "]"
}

// --------------------------- RealValueIndividual ---------------------------

// ValueRange bounds each coordinate of a real-valued phenotype.
type ValueRange struct {
	Min float64
	Max float64
}

// DefaultValueRange is used when no range is configured.
var DefaultValueRange = ValueRange{Min: -1, Max: 1}

// Clamp restricts v to the range.
func (r ValueRange) Clamp(v float64) float64 {
	return clamp(v, r.Min, r.Max)
}

// Contains reports whether v lies inside the range.
func (r ValueRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// RealValueIndividual is a fixed-length vector of floats.
// Range is nominal: mutation does not re-clip unless asked to (see Clip).
type RealValueIndividual struct {
	Fitness
	Phenotype []float64
	Range     ValueRange
}

// NewRealValueIndividual wraps the given vector in an unscored individual.
func NewRealValueIndividual(phenotype []float64, valueRange ValueRange) *RealValueIndividual {
	return &RealValueIndividual{Phenotype: phenotype, Range: valueRange}
}

// NewRandomRealValueIndividual draws size coordinates uniformly from valueRange.
func NewRandomRealValueIndividual(size int, rng *rand.Rand, valueRange ValueRange) *RealValueIndividual {
	values := make([]float64, size)
	for i := range values {
		values[i] = valueRange.Min + rng.Float64()*(valueRange.Max-valueRange.Min)
	}
	return NewRealValueIndividual(values, valueRange)
}

func (r *RealValueIndividual) Clone() *RealValueIndividual {
	c := &RealValueIndividual{Fitness: r.Fitness, Range: r.Range}
	c.Phenotype = append([]float64(nil), r.Phenotype...)
	return c
}

func (r *RealValueIndividual) Genes() []float64 { return r.Phenotype }

func (r *RealValueIndividual) Spawn(genes []float64) *RealValueIndividual {
	return NewRealValueIndividual(genes, r.Range)
}

// Clip clamps every coordinate back into Range.
func (r *RealValueIndividual) Clip() {
	for i, v := range r.Phenotype {
		r.Phenotype[i] = r.Range.Clamp(v)
	}
}

// InRange reports whether every coordinate lies inside Range.
func (r *RealValueIndividual) InRange() bool {
	for _, v := range r.Phenotype {
		if !r.Range.Contains(v) {
			return false
		}
	}
	return true
}

func (r *RealValueIndividual) String() string {
	if s, err := r.Score(); err == nil {
		return fmt.Sprintf("RealValueIndividual(%v) with score %g", r.Phenotype, s)
	}
	return fmt.Sprintf("RealValueIndividual(%v)", r.Phenotype)
}

// Compile-time checks that every variant is a complete Chromosome.
var (
	_ Chromosome[bool, *BinaryIndividual]       = (*BinaryIndividual)(nil)
	_ Chromosome[int, *PathIndividual]          = (*PathIndividual)(nil)
	_ Chromosome[float64, *RealValueIndividual] = (*RealValueIndividual)(nil)
)
