package genetic

import "fmt"

// Crossover runs single-point crossover in place, writing offspring to the
// front slots of the Population (CrossoverFrontSlots).
func Crossover(pop Population, rCross float32, rng Rand) (Population, error) {
	return CrossoverWithMode(pop, rCross, CrossoverFrontSlots, rng)
}

// CrossoverWithMode picks parents with an independent rCross trial per
// Chromosome, then pairs each parent with the next one (the last wraps around to
// the first) and cuts at a random gene. The offspring takes the parent's genes
// before the cut and the partner's from the cut on.
//
// With CrossoverFrontSlots the i-th offspring replaces pop[i], leaving slots
// from len(parents) on untouched. With CrossoverParentSlots it replaces the
// slot its parent came from.
//
// Chromosomes must share a non-zero number of genes; otherwise
// ErrMalformedPopulation is returned before any draw is made.
func CrossoverWithMode(pop Population, rCross float32, mode CrossoverMode, rng Rand) (Population, error) {
	nBits, err := pop.geneCount()
	if err != nil {
		return nil, err
	}
	if nBits == 0 && len(pop) > 0 {
		return nil, fmt.Errorf("%w: chromosomes have no genes to cut", ErrMalformedPopulation)
	}

	var parents Population
	var slots []int
	for i, c := range pop {
		if rng.Float32() < rCross {
			parents = append(parents, c.Copy())
			slots = append(slots, i)
		}
	}

	for i, parent := range parents {
		partner := parents[0]
		if i+1 < len(parents) {
			partner = parents[i+1]
		}

		cut := rng.Intn(nBits)
		offspring, err := CrossoverAt(parent, partner, cut)
		if err != nil {
			return nil, err
		}

		slot := i
		if mode == CrossoverParentSlots {
			slot = slots[i]
		}
		pop[slot] = offspring
	}

	return pop, nil
}

// CrossoverAt builds a new Chromosome from a's genes before cut and b's genes
// from cut on
func CrossoverAt(a, b *Chromosome, cut int) (*Chromosome, error) {
	if a.Len() != b.Len() {
		return nil, fmt.Errorf("expected number of genes in both chromosomes to match (%d != %d)", a.Len(), b.Len())
	}
	if cut < 0 || cut > a.Len() {
		return nil, fmt.Errorf("cut %d outside [0, %d]", cut, a.Len())
	}

	genes := make([]int32, a.Len())
	copy(genes, a.genes[:cut])
	copy(genes[cut:], b.genes[cut:])
	return &Chromosome{genes: genes}, nil
}
