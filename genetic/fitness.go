package genetic

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/they4kman/gensolve/calc"
	"github.com/they4kman/gensolve/equation"
)

// EvaluationError reports a Chromosome whose substituted equation could not be
// evaluated. Iteration is filled in by Simulation.
type EvaluationError struct {
	Iteration  int
	Index      int
	Chromosome *Chromosome
	Expression string
	Err        error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("generation %d: chromosome %d %s: evaluating %q: %v",
		e.Iteration, e.Index, e.Chromosome, e.Expression, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

type EvaluatorConfig struct {
	// Number of goroutines to split the Population across. 0 evaluates inline.
	Workers int

	// Number of evaluated expressions to remember. 0 disables the memo.
	CacheSize int
}

// Evaluator computes FitnessVectors for one equation and target
type Evaluator struct {
	equation string
	target   int32
	workers  int

	// expression text -> int32 result; only successful evaluations are stored
	memo *lru.Cache
}

func NewEvaluator(eq string, target int32, config EvaluatorConfig) (*Evaluator, error) {
	e := &Evaluator{
		equation: eq,
		target:   target,
		workers:  config.Workers,
	}

	if config.CacheSize > 0 {
		memo, err := lru.New(config.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating evaluation memo: %w", err)
		}
		e.memo = memo
	}

	return e, nil
}

// Evaluate computes the fitness of every Chromosome of a Population, using a
// one-off inline Evaluator.
func Evaluate(pop Population, eq string, target int32) (FitnessVector, error) {
	e, err := NewEvaluator(eq, target, EvaluatorConfig{})
	if err != nil {
		return nil, err
	}
	return e.Evaluate(pop)
}

func (e *Evaluator) Evaluate(pop Population) (FitnessVector, error) {
	fitness := make(FitnessVector, len(pop))

	if e.workers <= 1 || len(pop) < 2 {
		if err := e.evaluateRange(pop, fitness, 0, len(pop)); err != nil {
			return nil, err
		}
		return fitness, nil
	}

	chunkSize := (len(pop) + e.workers - 1) / e.workers
	numChunks := (len(pop) + chunkSize - 1) / chunkSize
	errs := make([]error, numChunks)

	wg := sync.WaitGroup{}
	for chunk := 0; chunk < numChunks; chunk++ {
		start, end := chunk*chunkSize, (chunk+1)*chunkSize
		if end > len(pop) {
			end = len(pop)
		}

		wg.Add(1)
		go func(chunk, start, end int) {
			defer wg.Done()
			errs[chunk] = e.evaluateRange(pop, fitness, start, end)
		}(chunk, start, end)
	}
	wg.Wait()

	// Chunks are ordered, so the first error is the lowest failing index,
	// matching what an inline evaluation would report
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return fitness, nil
}

func (e *Evaluator) evaluateRange(pop Population, fitness FitnessVector, start, end int) error {
	for i := start; i < end; i++ {
		expression := equation.Substitute(e.equation, pop[i].genes)

		result, err := e.solve(expression)
		if err != nil {
			return &EvaluationError{
				Index:      i,
				Chromosome: pop[i].Copy(),
				Expression: expression,
				Err:        err,
			}
		}

		fitness[i] = distance(result, e.target)
	}
	return nil
}

func (e *Evaluator) solve(expression string) (int32, error) {
	if e.memo != nil {
		if cached, ok := e.memo.Get(expression); ok {
			return cached.(int32), nil
		}
	}

	result, err := calc.Solve(expression)
	if err != nil {
		return 0, err
	}

	if e.memo != nil {
		e.memo.Add(expression, result)
	}
	return result, nil
}

func distance(result, target int32) uint64 {
	d := int64(result) - int64(target)
	if d < 0 {
		d = -d
	}
	return uint64(d)
}
