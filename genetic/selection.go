package genetic

import "fmt"

// Selection performs roulette-wheel selection with replacement. Each Chromosome
// is weighted by 1/(fitness+1), so exact solutions get the largest share.
// The returned Population holds len(pop) fresh copies in draw order.
func Selection(fitness FitnessVector, pop Population, rng Rand) (Population, error) {
	if len(fitness) != len(pop) {
		return nil, fmt.Errorf("%w: %d fitness values for %d chromosomes", ErrMalformedPopulation, len(fitness), len(pop))
	}
	if _, err := pop.geneCount(); err != nil {
		return nil, err
	}

	weights := make([]float32, len(fitness))
	totalWeight := float32(0)
	for i, f := range fitness {
		weights[i] = 1 / (float32(f) + 1)
		totalWeight += weights[i]
	}

	cumulative := make([]float32, len(weights))
	sum := float32(0)
	for i, w := range weights {
		sum += w / totalWeight
		cumulative[i] = sum
	}

	selected := make(Population, len(pop))
	for i := range selected {
		selected[i] = pop[pick(cumulative, rng.Float32())].Copy()
	}
	return selected, nil
}

// pick returns the first index whose cumulative probability exceeds r. When
// rounding leaves the distribution's tail below r, the last index is used.
func pick(cumulative []float32, r float32) int {
	for i, p := range cumulative {
		if r < p {
			return i
		}
	}
	return len(cumulative) - 1
}
