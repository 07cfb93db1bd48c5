package genetic

import (
	"errors"
	"fmt"
)

var ErrInvalidParams = errors.New("invalid genetic params")

// CrossoverMode picks where crossover offspring are written back
type CrossoverMode string

const (
	// Offspring of the i-th parent overwrites population slot i, so crossover
	// only ever touches the front of the population.
	CrossoverFrontSlots CrossoverMode = "front"

	// Offspring of a parent overwrites the slot that parent was drawn from
	CrossoverParentSlots CrossoverMode = "parent"
)

type Params struct {
	// Maximum number of generations to run after the initial population
	NIter int `toml:"iterations"`

	// Number of genes per Chromosome. Left at 0, it is derived from the
	// number of variables in the equation.
	NBits int `toml:"genes"`

	// Number of Chromosomes in the Population
	NPop int `toml:"population"`

	// Probability of each Chromosome joining the crossover parent pool
	RCross float32 `toml:"crossover_rate"`

	// Fraction of all genes replaced with a fresh random value each generation
	RMut float32 `toml:"mutation_rate"`

	// Value the equation must evaluate to. Genes are drawn from [0, Target].
	Target int32 `toml:"target"`

	// Seed for the random source. 0 seeds from the clock.
	Seed int64 `toml:"seed"`

	// Number of goroutines evaluating fitness. 0 evaluates inline.
	NumEvaluationWorkers int `toml:"evaluation_workers"`

	// Size of the LRU memo of evaluated expressions. 0 disables it.
	CacheSize int `toml:"cache_size"`

	CrossoverMode CrossoverMode `toml:"crossover_mode"`
}

// DefaultParams mirrors the fixed constants of the interactive solver
func DefaultParams() Params {
	return Params{
		NIter:         100,
		NPop:          20,
		RCross:        0.25,
		RMut:          0.05,
		CacheSize:     4096,
		CrossoverMode: CrossoverFrontSlots,
	}
}

func (p Params) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrInvalidParams, fmt.Sprintf(format, args...))
	}

	switch {
	case p.NIter < 0:
		return invalid("iterations must not be negative (%d)", p.NIter)
	case p.NBits < 1:
		return invalid("chromosomes need at least one gene (%d)", p.NBits)
	case p.NPop < 1:
		return invalid("population must not be empty (%d)", p.NPop)
	case p.RCross < 0 || p.RCross > 1:
		return invalid("crossover rate %v outside [0, 1]", p.RCross)
	case p.RMut < 0 || p.RMut > 1:
		return invalid("mutation rate %v outside [0, 1]", p.RMut)
	case p.Target < 0:
		return invalid("target %d is negative; genes are drawn from [0, target]", p.Target)
	case p.NumEvaluationWorkers < 0:
		return invalid("evaluation workers must not be negative (%d)", p.NumEvaluationWorkers)
	case p.CacheSize < 0:
		return invalid("cache size must not be negative (%d)", p.CacheSize)
	}

	switch p.CrossoverMode {
	case "", CrossoverFrontSlots, CrossoverParentSlots:
	default:
		return invalid("unknown crossover mode %q", p.CrossoverMode)
	}

	return nil
}
