// Package problems contains benchmark problems for the algorithms of package evolve.
package problems

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"github.com/baldhumanity/evolve-go/evolve"
)

// Function is a real-valued benchmark minimized over a box.
type Function struct {
	Name      string
	Dimension int
	Range     evolve.ValueRange
	// Minimum is the known global minimum of Eval, used to judge convergence.
	Minimum float64
	Eval    func(x []float64) float64
}

var _ evolve.Problem[*evolve.RealValueIndividual] = (*Function)(nil)

func (f *Function) CreateIndividual(rng *rand.Rand) *evolve.RealValueIndividual {
	return evolve.NewRandomRealValueIndividual(f.Dimension, rng, f.Range)
}

func (f *Function) ScoreIndividual(ind *evolve.RealValueIndividual) {
	ind.SetScore(f.Eval(ind.Phenotype))
}

// Gap returns how far a score is above the known minimum.
func (f *Function) Gap(score float64) float64 {
	return score - f.Minimum
}

func (f *Function) String() string {
	return fmt.Sprintf("%s(%dD, [%g, %g])", f.Name, f.Dimension, f.Range.Min, f.Range.Max)
}

// Sphere is sum(x_i^2), minimum 0 at the origin.
func Sphere(dimension int) *Function {
	return &Function{
		Name:      "Sphere",
		Dimension: dimension,
		Range:     evolve.ValueRange{Min: -5.12, Max: 5.12},
		Eval: func(x []float64) float64 {
			return floats.Dot(x, x)
		},
	}
}

// Rastrigin is a highly multimodal function, minimum 0 at the origin.
func Rastrigin(dimension int) *Function {
	return &Function{
		Name:      "Rastrigin",
		Dimension: dimension,
		Range:     evolve.ValueRange{Min: -5.12, Max: 5.12},
		Eval: func(x []float64) float64 {
			sum := 10 * float64(len(x))
			for _, v := range x {
				sum += v*v - 10*math.Cos(2*math.Pi*v)
			}
			return sum
		},
	}
}

// Booth is two-dimensional, minimum 0 at (1, 3).
func Booth() *Function {
	return &Function{
		Name:      "Booth",
		Dimension: 2,
		Range:     evolve.ValueRange{Min: -10, Max: 10},
		Eval: func(x []float64) float64 {
			a := x[0] + 2*x[1] - 7
			b := 2*x[0] + x[1] - 5
			return a*a + b*b
		},
	}
}

// GoldsteinPrice is two-dimensional, minimum 3 at (0, -1).
func GoldsteinPrice() *Function {
	return &Function{
		Name:      "GoldsteinPrice",
		Dimension: 2,
		Range:     evolve.ValueRange{Min: -2, Max: 2},
		Minimum:   3,
		Eval: func(x []float64) float64 {
			a, b := x[0], x[1]
			p := a + b + 1
			q := 2*a - 3*b
			left := 1 + p*p*(19-14*a+3*a*a-14*b+6*a*b+3*b*b)
			right := 30 + q*q*(18-32*a+12*a*a+48*b-36*a*b+27*b*b)
			return left * right
		},
	}
}

// FunctionByName returns a benchmark by its Name. Dimension is ignored by the
// fixed two-dimensional functions.
func FunctionByName(name string, dimension int) (*Function, error) {
	switch name {
	case "sphere", "Sphere":
		return Sphere(dimension), nil
	case "rastrigin", "Rastrigin":
		return Rastrigin(dimension), nil
	case "booth", "Booth":
		return Booth(), nil
	case "goldstein_price", "GoldsteinPrice":
		return GoldsteinPrice(), nil
	}
	return nil, fmt.Errorf("unknown function '%s'", name)
}
