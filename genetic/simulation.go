package genetic

import (
	"context"
	"errors"
	"fmt"

	"github.com/they4kman/gensolve/equation"
)

var (
	ErrNotInitialized = errors.New("simulation has not been initialized")
	ErrTerminated     = errors.New("simulation has already terminated")
)

// Sample is one point of the convergence curve
type Sample struct {
	Iteration  int
	AvgFitness float64
}

// GenerationReport describes one evaluated generation. Population is a
// snapshot; observers may keep it.
type GenerationReport struct {
	Iteration   int
	Population  Population
	Fitness     FitnessVector
	AvgFitness  uint64
	BestIndex   int
	BestFitness uint64
}

func (r *GenerationReport) Solved() bool {
	return r.BestIndex >= 0 && r.BestFitness == 0
}

func (r *GenerationReport) Best() *Chromosome {
	if r.BestIndex < 0 {
		return nil
	}
	return r.Population[r.BestIndex]
}

// Observer receives every evaluated generation, including the initial one
// (Iteration 0). Returning an error stops the Simulation.
type Observer interface {
	OnGeneration(report *GenerationReport) error
}

type ObserverFunc func(report *GenerationReport) error

func (f ObserverFunc) OnGeneration(report *GenerationReport) error {
	return f(report)
}

type Result struct {
	// Number of generations run after the initial population
	Iterations int
	Solved     bool
	Solutions  []*Chromosome
	Samples    []Sample
	Population Population
	Fitness    FitnessVector
}

type Simulation struct {
	equation  string
	params    Params
	rng       Rand
	evaluator *Evaluator
	observers []Observer

	initialized bool
	failed      error
	iteration   int
	population  Population
	fitness     FitnessVector
	samples     []Sample
}

type Option func(sim *Simulation)

// WithRand replaces the Params.Seed-derived random source
func WithRand(rng Rand) Option {
	return func(sim *Simulation) {
		sim.rng = rng
	}
}

func WithObserver(observer Observer) Option {
	return func(sim *Simulation) {
		sim.observers = append(sim.observers, observer)
	}
}

// NewSimulation prepares a search for gene values that make eq evaluate to
// params.Target. When params.NBits is 0 it is taken from the equation.
func NewSimulation(eq string, params Params, opts ...Option) (*Simulation, error) {
	if params.NBits == 0 {
		params.NBits = equation.CountVariables(eq)
	}
	if params.CrossoverMode == "" {
		params.CrossoverMode = CrossoverFrontSlots
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	evaluator, err := NewEvaluator(eq, params.Target, EvaluatorConfig{
		Workers:   params.NumEvaluationWorkers,
		CacheSize: params.CacheSize,
	})
	if err != nil {
		return nil, err
	}

	sim := &Simulation{
		equation:  eq,
		params:    params,
		evaluator: evaluator,
	}
	for _, opt := range opts {
		opt(sim)
	}
	if sim.rng == nil {
		sim.rng = NewRand(params.Seed)
	}

	return sim, nil
}

func (sim *Simulation) Equation() string {
	return sim.equation
}

func (sim *Simulation) Params() Params {
	return sim.params
}

func (sim *Simulation) Iteration() int {
	return sim.iteration
}

func (sim *Simulation) Population() Population {
	return sim.population
}

func (sim *Simulation) Fitness() FitnessVector {
	return sim.fitness
}

func (sim *Simulation) Samples() []Sample {
	return sim.samples
}

// Init builds and evaluates the initial Population
func (sim *Simulation) Init() error {
	sim.iteration = 0
	sim.samples = nil
	sim.failed = nil
	sim.population = InitializePopulation(sim.params, sim.rng)

	fitness, err := sim.evaluate()
	if err != nil {
		sim.failed = err
		return err
	}
	sim.fitness = fitness
	sim.initialized = true

	return sim.notify()
}

// Done reports whether a solution was found, the iteration budget is spent,
// or a generation failed
func (sim *Simulation) Done() bool {
	if sim.failed != nil {
		return true
	}
	return sim.initialized && (sim.iteration >= sim.params.NIter || sim.fitness.Solved())
}

// Step runs one generation: selection, crossover, mutation, then evaluation
func (sim *Simulation) Step() (*GenerationReport, error) {
	switch {
	case sim.failed != nil:
		return nil, sim.failed
	case !sim.initialized:
		return nil, ErrNotInitialized
	case sim.Done():
		return nil, ErrTerminated
	}

	if err := sim.breed(); err != nil {
		sim.failed = fmt.Errorf("generation %d: %w", sim.iteration+1, err)
		return nil, sim.failed
	}
	sim.iteration++

	fitness, err := sim.evaluate()
	if err != nil {
		sim.failed = err
		return nil, err
	}
	sim.fitness = fitness
	sim.samples = append(sim.samples, Sample{
		Iteration:  sim.iteration,
		AvgFitness: float64(fitness.Average()),
	})

	report := sim.report()
	if err := sim.notifyReport(report); err != nil {
		return nil, err
	}
	return report, nil
}

// breed applies selection, crossover and mutation, in that order
func (sim *Simulation) breed() error {
	selected, err := Selection(sim.fitness, sim.population, sim.rng)
	if err != nil {
		return err
	}
	if _, err := CrossoverWithMode(selected, sim.params.RCross, sim.params.CrossoverMode, sim.rng); err != nil {
		return err
	}
	if _, err := Mutation(selected, sim.params.RMut, sim.params.Target, sim.rng); err != nil {
		return err
	}
	sim.population = selected
	return nil
}

// Run steps the Simulation until it is Done or ctx is cancelled, initializing
// it first if needed. On cancellation the partial Result is returned with
// ctx.Err().
func (sim *Simulation) Run(ctx context.Context) (*Result, error) {
	if !sim.initialized {
		if err := sim.Init(); err != nil {
			return nil, err
		}
	}

	for !sim.Done() {
		select {
		case <-ctx.Done():
			return sim.Result(), ctx.Err()
		default:
		}

		if _, err := sim.Step(); err != nil {
			return nil, err
		}
	}

	return sim.Result(), nil
}

func (sim *Simulation) Result() *Result {
	result := &Result{
		Iterations: sim.iteration,
		Solved:     sim.fitness.Solved(),
		Samples:    append([]Sample(nil), sim.samples...),
		Population: sim.population.Copy(),
		Fitness:    sim.fitness,
	}
	for _, i := range sim.fitness.Solutions() {
		result.Solutions = append(result.Solutions, sim.population[i].Copy())
	}
	return result
}

func (sim *Simulation) evaluate() (FitnessVector, error) {
	fitness, err := sim.evaluator.Evaluate(sim.population)
	if err != nil {
		var evalErr *EvaluationError
		if errors.As(err, &evalErr) {
			evalErr.Iteration = sim.iteration
		}
		return nil, err
	}
	return fitness, nil
}

func (sim *Simulation) report() *GenerationReport {
	bestIndex, bestFitness := sim.fitness.Best()
	return &GenerationReport{
		Iteration:   sim.iteration,
		Population:  sim.population.Copy(),
		Fitness:     sim.fitness,
		AvgFitness:  sim.fitness.Average(),
		BestIndex:   bestIndex,
		BestFitness: bestFitness,
	}
}

func (sim *Simulation) notify() error {
	return sim.notifyReport(sim.report())
}

func (sim *Simulation) notifyReport(report *GenerationReport) error {
	for _, observer := range sim.observers {
		if err := observer.OnGeneration(report); err != nil {
			sim.failed = fmt.Errorf("generation %d observer: %w", report.Iteration, err)
			return sim.failed
		}
	}
	return nil
}
