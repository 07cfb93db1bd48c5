package genetic

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/they4kman/gensolve/calc"
	"github.com/they4kman/gensolve/equation"
)

func seededParams(target int32, seed int64) Params {
	params := DefaultParams()
	params.Target = target
	params.Seed = seed
	return params
}

var _ = Describe("Simulation", func() {
	It("derives the gene count from the equation", func() {
		sim, err := NewSimulation("a + 2*b = 30", seededParams(30, 1))
		Expect(err).ToNot(HaveOccurred())
		Expect(sim.Params().NBits).To(Equal(2))
		Expect(sim.Params().CrossoverMode).To(Equal(CrossoverFrontSlots))
	})

	It("rejects invalid params", func() {
		_, err := NewSimulation("1 + 2 = 3", seededParams(3, 1))
		Expect(errors.Is(err, ErrInvalidParams)).To(BeTrue())

		params := seededParams(30, 1)
		params.RMut = 1.5
		_, err = NewSimulation("a = 30", params)
		Expect(errors.Is(err, ErrInvalidParams)).To(BeTrue())

		params = seededParams(30, 1)
		params.CrossoverMode = "sideways"
		_, err = NewSimulation("a = 30", params)
		Expect(errors.Is(err, ErrInvalidParams)).To(BeTrue())

		_, err = NewSimulation("a = -3", seededParams(-3, 1))
		Expect(errors.Is(err, ErrInvalidParams)).To(BeTrue())
	})

	It("refuses to step before Init", func() {
		sim, err := NewSimulation("a = 30", seededParams(30, 1))
		Expect(err).ToNot(HaveOccurred())
		_, err = sim.Step()
		Expect(err).To(MatchError(ErrNotInitialized))
	})

	It("runs the a + 2*b = 30 scenario to a solution or the iteration budget", func() {
		var reports []*GenerationReport
		sim, err := NewSimulation("a + 2*b = 30", seededParams(30, 42), WithObserver(ObserverFunc(func(r *GenerationReport) error {
			reports = append(reports, r)
			return nil
		})))
		Expect(err).ToNot(HaveOccurred())

		result, err := sim.Run(context.Background())
		Expect(err).ToNot(HaveOccurred())

		Expect(result.Iterations).To(BeNumerically("<=", 100))
		Expect(result.Samples).To(HaveLen(result.Iterations))
		Expect(reports).To(HaveLen(result.Iterations + 1))
		for i, sample := range result.Samples {
			Expect(sample.Iteration).To(Equal(i + 1))
		}

		for _, r := range reports {
			Expect(r.Population).To(HaveLen(20))
			Expect(r.Fitness).To(HaveLen(20))
			for _, c := range r.Population {
				Expect(c.Genes()).To(HaveLen(2))
			}
		}

		if result.Solved {
			Expect(result.Solutions).ToNot(BeEmpty())
			for _, c := range result.Solutions {
				value, err := calc.Solve(equation.Substitute("a + 2*b = 30", c.Genes()))
				Expect(err).ToNot(HaveOccurred())
				Expect(value).To(Equal(int32(30)))
			}
			// only the final generation may hold a solution
			for _, r := range reports[:len(reports)-1] {
				Expect(r.Solved()).To(BeFalse())
			}
		} else {
			Expect(result.Iterations).To(Equal(100))
		}
	})

	It("is reproducible for a fixed seed", func() {
		run := func() *Result {
			sim, err := NewSimulation("2a + 2b = 1001", seededParams(1001, 99))
			Expect(err).ToNot(HaveOccurred())
			result, err := sim.Run(context.Background())
			Expect(err).ToNot(HaveOccurred())
			return result
		}

		first, second := run(), run()
		Expect(second.Samples).To(Equal(first.Samples))
		Expect(second.Population.Genes()).To(Equal(first.Population.Genes()))
		Expect(second.Fitness).To(Equal(first.Fitness))
	})

	It("gives the same run with parallel evaluation", func() {
		run := func(workers int) *Result {
			params := seededParams(1001, 8)
			params.NumEvaluationWorkers = workers
			sim, err := NewSimulation("2a + 2b = 1001", params)
			Expect(err).ToNot(HaveOccurred())
			result, err := sim.Run(context.Background())
			Expect(err).ToNot(HaveOccurred())
			return result
		}

		Expect(run(4).Samples).To(Equal(run(0).Samples))
	})

	It("exhausts the budget on an unsolvable equation", func() {
		params := seededParams(1001, 3)
		params.NIter = 10
		sim, err := NewSimulation("2a + 2b = 1001", params)
		Expect(err).ToNot(HaveOccurred())

		result, err := sim.Run(context.Background())
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Solved).To(BeFalse())
		Expect(result.Iterations).To(Equal(10))
		Expect(result.Samples).To(HaveLen(10))

		_, err = sim.Step()
		Expect(err).To(MatchError(ErrTerminated))
	})

	It("stops at generation 0 when the initial population already solves it", func() {
		sim, err := NewSimulation("a = 0", seededParams(0, 1))
		Expect(err).ToNot(HaveOccurred())

		result, err := sim.Run(context.Background())
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Solved).To(BeTrue())
		Expect(result.Iterations).To(Equal(0))
		Expect(result.Samples).To(BeEmpty())
		Expect(result.Solutions).To(HaveLen(20))
	})

	It("lowers the average fitness over a run", func() {
		var initial, final uint64
		for seed := int64(1); seed <= 10; seed++ {
			params := seededParams(1001, seed)
			params.NIter = 50
			sim, err := NewSimulation("2a + 2b = 1001", params)
			Expect(err).ToNot(HaveOccurred())
			Expect(sim.Init()).To(Succeed())
			initial += sim.Fitness().Average()

			result, err := sim.Run(context.Background())
			Expect(err).ToNot(HaveOccurred())
			final += uint64(result.Samples[len(result.Samples)-1].AvgFitness)
		}

		Expect(final).To(BeNumerically("<", initial))
	})

	It("reports evaluation failures with the generation", func() {
		params := seededParams(30, 1)
		params.NBits = 1
		sim, err := NewSimulation("a*b = 30", params)
		Expect(err).ToNot(HaveOccurred())

		_, err = sim.Run(context.Background())
		Expect(err).To(HaveOccurred())

		var evalErr *EvaluationError
		Expect(errors.As(err, &evalErr)).To(BeTrue())
		Expect(evalErr.Iteration).To(Equal(0))

		var parseErr *calc.ParseError
		Expect(errors.As(err, &parseErr)).To(BeTrue())
		Expect(sim.Done()).To(BeTrue())
	})

	It("returns the partial result when cancelled", func() {
		sim, err := NewSimulation("2a + 2b = 1001", seededParams(1001, 4))
		Expect(err).ToNot(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := sim.Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
		Expect(result.Iterations).To(Equal(0))
		Expect(result.Population).To(HaveLen(20))
	})

	It("stops when an observer fails", func() {
		boom := errors.New("boom")
		sim, err := NewSimulation("2a + 2b = 1001", seededParams(1001, 4), WithObserver(ObserverFunc(func(r *GenerationReport) error {
			if r.Iteration == 2 {
				return boom
			}
			return nil
		})))
		Expect(err).ToNot(HaveOccurred())

		_, err = sim.Run(context.Background())
		Expect(errors.Is(err, boom)).To(BeTrue())
		Expect(sim.Iteration()).To(Equal(2))
	})

	It("runs with parent-slot crossover", func() {
		params := seededParams(30, 6)
		params.CrossoverMode = CrossoverParentSlots
		sim, err := NewSimulation("a + 2*b = 30", params)
		Expect(err).ToNot(HaveOccurred())

		result, err := sim.Run(context.Background())
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Population).To(HaveLen(20))
	})

	It("accepts an injected random source", func() {
		rng := &countingRand{Rand: NewRand(12)}
		params := seededParams(1001, 0)
		params.NIter = 1
		sim, err := NewSimulation("2a + 2b = 1001", params, WithRand(rng))
		Expect(err).ToNot(HaveOccurred())

		_, err = sim.Run(context.Background())
		Expect(err).ToNot(HaveOccurred())
		// 40 initial genes, 2 mutations of 2 draws each, plus crossover cuts
		Expect(rng.intCalls).To(BeNumerically(">=", 44))
		// 20 selection draws and 20 crossover trials
		Expect(rng.floatCalls).To(Equal(40))
	})
})

var _ = Describe("LogObserver", func() {
	It("logs every generation and the solution", func() {
		logger, hook := test.NewNullLogger()
		logger.SetLevel(logrus.InfoLevel)

		sim, err := NewSimulation("a = 0", seededParams(0, 1), WithObserver(NewLogObserver(logger)))
		Expect(err).ToNot(HaveOccurred())
		_, err = sim.Run(context.Background())
		Expect(err).ToNot(HaveOccurred())

		entries := hook.AllEntries()
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Message).To(Equal("generation evaluated"))
		Expect(entries[0].Data).To(HaveKeyWithValue("iteration", 0))
		Expect(entries[1].Message).To(Equal("solution found"))
		Expect(entries[1].Data).To(HaveKeyWithValue("solution", "[0]"))
	})

	It("includes the population at debug level", func() {
		logger, hook := test.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)

		params := seededParams(1001, 2)
		params.NIter = 1
		sim, err := NewSimulation("2a + 2b = 1001", params, WithObserver(NewLogObserver(logger)))
		Expect(err).ToNot(HaveOccurred())
		_, err = sim.Run(context.Background())
		Expect(err).ToNot(HaveOccurred())

		Expect(hook.AllEntries()).To(HaveLen(2))
		Expect(hook.LastEntry().Level).To(Equal(logrus.DebugLevel))
		Expect(hook.LastEntry().Data).To(HaveKey("population"))
		Expect(hook.LastEntry().Data).To(HaveKeyWithValue("avg_fitness", numPrinter.Sprintf("%d", sim.Fitness().Average())))
	})
})
