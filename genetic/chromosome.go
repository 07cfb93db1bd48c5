package genetic

import (
	"strconv"
	"strings"
)

// Chromosome is one candidate assignment: gene i is the value of the i-th
// variable occurrence in the equation.
type Chromosome struct {
	genes []int32
}

func NewChromosome(genes []int32) *Chromosome {
	return &Chromosome{genes: genes}
}

// RandomChromosome draws n genes uniformly from [0, limit]
func RandomChromosome(n int, limit int32, rng Rand) *Chromosome {
	genes := make([]int32, n)
	for i := range genes {
		genes[i] = int32(rng.Intn(int(limit) + 1))
	}
	return &Chromosome{genes: genes}
}

func (c *Chromosome) Genes() []int32 {
	return c.genes
}

func (c *Chromosome) Len() int {
	return len(c.genes)
}

func (c *Chromosome) Copy() *Chromosome {
	copied := &Chromosome{genes: make([]int32, len(c.genes))}
	copy(copied.genes, c.genes)
	return copied
}

func (c *Chromosome) String() string {
	var buf strings.Builder
	buf.Grow(len(c.genes)*4 + 2)

	buf.WriteByte('[')
	for i, gene := range c.genes {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(strconv.FormatInt(int64(gene), 10))
	}
	buf.WriteByte(']')
	return buf.String()
}
