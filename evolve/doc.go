// Package evolve provides a generic implementation of two population based
// optimizers: a genetic algorithm with elitism and an evolution strategy
// with a self-adapting mutation strength (the 1/5 success rule).
//
// Candidate solutions implement Individual; lower scores are better. A
// Problem creates and scores individuals, while Selector, Crossover and
// Mutator values (see package operators) transform the population from one
// generation to the next. Every random decision draws from the *rand.Rand
// handed to the algorithm, so seeded runs are reproducible.
//
// Basic usage:
//
//	// Load configuration
//	config, err := evolve.LoadConfig("path/to/config.ini")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	// Create the algorithm; the initial population is built and scored here
//	ga, err := evolve.NewGeneticAlgorithm(config, evolve.Problem[*evolve.PathIndividual](tsp),
//		operators.Tournament[*evolve.PathIndividual]{Size: 3},
//		operators.Order{},
//		operators.Inversion{},
//		evolve.Options[*evolve.PathIndividual]{})
//	if err != nil {
//		log.Fatalf("Error creating algorithm: %v", err)
//	}
//
//	// Run until max_generations is reached, Stop is called or ctx is done
//	if err := ga.Evolve(ctx); err != nil {
//		log.Fatalf("Error running evolution: %v", err)
//	}
//	fmt.Println("Best:", ga.Best())
//
// Live progress is observed through a Feed attached via Options; see package plot.
package evolve
