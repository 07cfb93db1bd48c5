package genetic

import "fmt"

// Mutation replaces floor(len(pop) * genes * rMut) randomly chosen genes, in
// place. Indices are drawn with replacement over the flattened Population, and
// each new value is drawn from [0, target). With a target of 0 there is no
// value to draw, so the gene is set to 0.
func Mutation(pop Population, rMut float32, target int32, rng Rand) (Population, error) {
	if target < 0 {
		return nil, fmt.Errorf("%w: target %d is negative", ErrInvalidParams, target)
	}
	nBits, err := pop.geneCount()
	if err != nil {
		return nil, err
	}
	if nBits == 0 {
		return pop, nil
	}

	totalGenes := len(pop) * nBits
	count := int(float32(totalGenes) * rMut)

	for i := 0; i < count; i++ {
		r := rng.Intn(totalGenes)

		value := int32(0)
		if target > 0 {
			value = int32(rng.Intn(int(target)))
		}

		pop[r/nBits].genes[r%nBits] = value
	}

	return pop, nil
}
