package operators

import (
	"math/rand/v2"

	"github.com/baldhumanity/evolve-go/evolve"
)

// SinglePoint cuts both parents at one random point and swaps the tails.
// It works on any Chromosome; on permutations it does not preserve the
// permutation invariant, use Order or Cycle there.
type SinglePoint[G any, T evolve.Chromosome[G, T]] struct{}

func (SinglePoint[G, T]) Cross(father, mother T, rng *rand.Rand) (T, T) {
	p1, p2 := father.Genes(), mother.Genes()
	n := min(len(p1), len(p2))
	if n < 2 {
		return father.Spawn(append([]G(nil), p1...)), mother.Spawn(append([]G(nil), p2...))
	}

	point := rng.IntN(n-1) + 1
	c1 := make([]G, 0, n)
	c1 = append(c1, p1[:point]...)
	c1 = append(c1, p2[point:n]...)
	c2 := make([]G, 0, n)
	c2 = append(c2, p2[:point]...)
	c2 = append(c2, p1[point:n]...)
	return father.Spawn(c1), mother.Spawn(c2)
}

// Order is the order crossover (OX) for tours: a random segment is copied from
// one parent, the remaining cities are filled in the order they appear in the
// other parent, starting after the segment.
type Order struct{}

func (Order) Cross(father, mother *evolve.PathIndividual, rng *rand.Rand) (*evolve.PathIndividual, *evolve.PathIndividual) {
	n := len(father.Phenotype)
	if n < 2 {
		return father.Spawn(append([]int(nil), father.Phenotype...)), mother.Spawn(append([]int(nil), mother.Phenotype...))
	}

	a, b := rng.IntN(n), rng.IntN(n)
	if a > b {
		a, b = b, a
	}
	if a == b {
		b = a + 1
		if b > n {
			a, b = n-1, n
		}
	}

	return evolve.NewPathIndividual(orderChild(father.Phenotype, mother.Phenotype, a, b)),
		evolve.NewPathIndividual(orderChild(mother.Phenotype, father.Phenotype, a, b))
}

// orderChild keeps donor[a:b] in place and fills the rest from filler.
func orderChild(donor, filler []int, a, b int) []int {
	n := len(donor)
	child := make([]int, n)
	used := make([]bool, n)
	for i := a; i < b; i++ {
		child[i] = donor[i]
		used[donor[i]] = true
	}

	pos := b % n
	for i := 0; i < n; i++ {
		city := filler[(b+i)%n]
		if used[city] {
			continue
		}
		child[pos] = city
		used[city] = true
		pos = (pos + 1) % n
		if pos == a {
			pos = b % n
		}
	}
	return child
}

// Cycle is the cycle crossover (CX) for tours: positions are partitioned into
// cycles between the parents, and children take alternate cycles from each parent.
type Cycle struct{}

func (Cycle) Cross(father, mother *evolve.PathIndividual, _ *rand.Rand) (*evolve.PathIndividual, *evolve.PathIndividual) {
	p1, p2 := father.Phenotype, mother.Phenotype
	n := len(p1)

	indexInP1 := make([]int, n)
	for i, city := range p1 {
		indexInP1[city] = i
	}

	c1, c2 := make([]int, n), make([]int, n)
	visited := make([]bool, n)
	fromFather := true
	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		for i := start; !visited[i]; i = indexInP1[p2[i]] {
			visited[i] = true
			if fromFather {
				c1[i], c2[i] = p1[i], p2[i]
			} else {
				c1[i], c2[i] = p2[i], p1[i]
			}
		}
		fromFather = !fromFather
	}
	return evolve.NewPathIndividual(c1), evolve.NewPathIndividual(c2)
}

// MultiCrossover delegates every call to one of its crossovers, chosen uniformly.
type MultiCrossover[T any] []evolve.Crossover[T]

func (m MultiCrossover[T]) Cross(father, mother T, rng *rand.Rand) (T, T) {
	return m[rng.IntN(len(m))].Cross(father, mother, rng)
}
