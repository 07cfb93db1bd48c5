package genetic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedPopulation is returned by the operators when chromosomes are
// missing or disagree on their number of genes
var ErrMalformedPopulation = errors.New("malformed population")

type Population []*Chromosome

// FitnessVector holds |result - target| per Chromosome, in Population order.
// 0 marks an exact solution.
type FitnessVector []uint64

// InitializePopulation draws NPop Chromosomes of NBits genes each, every gene
// uniform in [0, Target].
func InitializePopulation(params Params, rng Rand) Population {
	pop := make(Population, params.NPop)
	for i := range pop {
		pop[i] = RandomChromosome(params.NBits, params.Target, rng)
	}
	return pop
}

// Copy deep-copies every Chromosome
func (pop Population) Copy() Population {
	copied := make(Population, len(pop))
	for i, c := range pop {
		copied[i] = c.Copy()
	}
	return copied
}

// geneCount returns the number of genes every Chromosome shares, or 0 for an
// empty Population
func (pop Population) geneCount() (int, error) {
	for i, c := range pop {
		if c == nil {
			return 0, fmt.Errorf("%w: chromosome %d is nil", ErrMalformedPopulation, i)
		}
	}
	if len(pop) == 0 {
		return 0, nil
	}

	n := pop[0].Len()
	for i, c := range pop[1:] {
		if c.Len() != n {
			return 0, fmt.Errorf("%w: chromosome %d has %d genes, chromosome 0 has %d", ErrMalformedPopulation, i+1, c.Len(), n)
		}
	}
	return n, nil
}

// Genes returns a snapshot of every Chromosome's genes
func (pop Population) Genes() [][]int32 {
	genes := make([][]int32, len(pop))
	for i, c := range pop {
		genes[i] = append([]int32(nil), c.genes...)
	}
	return genes
}

func (pop Population) String() string {
	parts := make([]string, len(pop))
	for i, c := range pop {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Average is the truncated integer mean, as plotted per generation
func (f FitnessVector) Average() uint64 {
	if len(f) == 0 {
		return 0
	}

	sum := uint64(0)
	for _, v := range f {
		sum += v
	}
	return sum / uint64(len(f))
}

// Best returns the index and value of the lowest fitness, or -1 when empty
func (f FitnessVector) Best() (index int, fitness uint64) {
	index = -1
	for i, v := range f {
		if index < 0 || v < fitness {
			index, fitness = i, v
		}
	}
	return index, fitness
}

// Solutions lists the indices with fitness 0
func (f FitnessVector) Solutions() []int {
	var indices []int
	for i, v := range f {
		if v == 0 {
			indices = append(indices, i)
		}
	}
	return indices
}

func (f FitnessVector) Solved() bool {
	for _, v := range f {
		if v == 0 {
			return true
		}
	}
	return false
}

func (f FitnessVector) String() string {
	parts := make([]string, len(f))
	for i, v := range f {
		parts[i] = strconv.FormatUint(v, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
