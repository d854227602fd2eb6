package problems

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/baldhumanity/evolve-go/evolve"
)

// City is a point in the plane.
type City struct {
	X, Y float64
}

// Area bounds the randomly placed cities.
type Area struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// DefaultArea is the unit square scaled to 100.
var DefaultArea = Area{MaxX: 100, MaxY: 100}

// TravellingSalesman scores a tour by the length of the closed round trip.
type TravellingSalesman struct {
	Cities []City

	// dist[i][j] is the distance between city i and city j.
	dist [][]float64
}

var _ evolve.Problem[*evolve.PathIndividual] = (*TravellingSalesman)(nil)

// NewTravellingSalesman precomputes the distance matrix of the given cities.
func NewTravellingSalesman(cities []City) (*TravellingSalesman, error) {
	if len(cities) < 2 {
		return nil, fmt.Errorf("travelling salesman needs at least 2 cities, got %d", len(cities))
	}
	tsp := &TravellingSalesman{Cities: cities, dist: make([][]float64, len(cities))}
	for i, a := range cities {
		tsp.dist[i] = make([]float64, len(cities))
		for j, b := range cities {
			tsp.dist[i][j] = math.Hypot(a.X-b.X, a.Y-b.Y)
		}
	}
	return tsp, nil
}

// NewRandomTravellingSalesman places n cities uniformly inside area.
func NewRandomTravellingSalesman(n int, area Area, rng *rand.Rand) (*TravellingSalesman, error) {
	cities := make([]City, n)
	for i := range cities {
		cities[i] = City{
			X: area.MinX + rng.Float64()*(area.MaxX-area.MinX),
			Y: area.MinY + rng.Float64()*(area.MaxY-area.MinY),
		}
	}
	return NewTravellingSalesman(cities)
}

func (tsp *TravellingSalesman) CreateIndividual(rng *rand.Rand) *evolve.PathIndividual {
	return evolve.NewRandomPathIndividual(len(tsp.Cities), rng)
}

func (tsp *TravellingSalesman) ScoreIndividual(ind *evolve.PathIndividual) {
	ind.SetScore(tsp.TourLength(ind.Phenotype))
}

// TourLength returns the length of the round trip visiting the cities in order.
func (tsp *TravellingSalesman) TourLength(tour []int) float64 {
	if len(tour) == 0 {
		return 0
	}
	length := 0.0
	for i, city := range tour {
		next := tour[(i+1)%len(tour)]
		length += tsp.dist[city][next]
	}
	return length
}

// Distance returns the distance between two cities.
func (tsp *TravellingSalesman) Distance(a, b int) float64 {
	return tsp.dist[a][b]
}
