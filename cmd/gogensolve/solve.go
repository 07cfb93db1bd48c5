package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/they4kman/gensolve/calc"
	"github.com/they4kman/gensolve/config"
	"github.com/they4kman/gensolve/equation"
	"github.com/they4kman/gensolve/genetic"
	"github.com/they4kman/gensolve/plot"
	"github.com/they4kman/gensolve/store"
)

type solveOptions struct {
	configPath string
	equation   string
	target     int32
	profile    string
	profileDir string

	// flag values, only applied over the config when set
	params    genetic.Params
	mode      string
	plotPath  string
	dbPath    string
	logLevel  string
	logFormat string
}

func newSolveCommand(in io.Reader) *cobra.Command {
	opts := &solveOptions{params: genetic.DefaultParams()}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve an equation such as \"a + 2*b = 30\"",
		Long: `Solve searches for non-negative integers which, substituted for the
letters of the equation in order of appearance, make its left-hand side
evaluate to the target. The target defaults to the right-hand side.

Each letter is replaced by "*<value>", so "2a" reads as 2 times a. A letter
directly after +, -, /, % or ^ needs an explicit coefficient: write
"a + 1*b = 10" rather than "a + b = 10".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, opts, bufio.NewReader(in))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "TOML config file; flags override its settings")
	flags.StringVarP(&opts.equation, "equation", "e", "", "Equation to solve. Prompted for when missing")
	flags.Int32VarP(&opts.target, "target", "t", 0, "Value the equation must reach (default the equation's right-hand side)")
	flags.Int64Var(&opts.params.Seed, "seed", opts.params.Seed, "Random seed. 0 seeds from the clock")
	flags.IntVar(&opts.params.NIter, "iterations", opts.params.NIter, "Maximum number of generations")
	flags.IntVar(&opts.params.NPop, "population", opts.params.NPop, "Number of chromosomes in the population")
	flags.Float32Var(&opts.params.RCross, "crossover-rate", opts.params.RCross, "Probability of a chromosome joining the crossover parents")
	flags.Float32Var(&opts.params.RMut, "mutation-rate", opts.params.RMut, "Fraction of all genes mutated each generation")
	flags.IntVar(&opts.params.NumEvaluationWorkers, "workers", opts.params.NumEvaluationWorkers, "Goroutines evaluating fitness. 0 evaluates inline")
	flags.StringVar(&opts.mode, "crossover-mode", string(opts.params.CrossoverMode), "Where offspring are written: front or parent")
	flags.StringVar(&opts.plotPath, "plot", "", "Write a PNG plot of the average fitness to this path")
	flags.StringVar(&opts.dbPath, "db", "", "Record the run in this SQLite database")
	flags.StringVar(&opts.profile, "profile", "", "Profile the run: cpu or mem")
	flags.StringVar(&opts.profileDir, "profile-dir", ".", "Directory the profile is written to")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level")
	flags.StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")

	return cmd
}

// overlay copies every flag the user set onto the config
func (o *solveOptions) overlay(flags *pflag.FlagSet, c *config.Config) {
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "seed":
			c.Genetic.Seed = o.params.Seed
		case "iterations":
			c.Genetic.NIter = o.params.NIter
		case "population":
			c.Genetic.NPop = o.params.NPop
		case "crossover-rate":
			c.Genetic.RCross = o.params.RCross
		case "mutation-rate":
			c.Genetic.RMut = o.params.RMut
		case "workers":
			c.Genetic.NumEvaluationWorkers = o.params.NumEvaluationWorkers
		case "crossover-mode":
			c.Genetic.CrossoverMode = genetic.CrossoverMode(o.mode)
		case "plot":
			c.Plot.Path = o.plotPath
		case "db":
			c.Store.Path = o.dbPath
		case "log-level":
			c.Log.Level = o.logLevel
		case "log-format":
			c.Log.Format = o.logFormat
		}
	})
}

func prompt(out io.Writer, in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading %q: %w", strings.TrimSpace(label), err)
	}
	return strings.TrimSpace(line), nil
}

func (o *solveOptions) resolveTarget(flags *pflag.FlagSet, eq string, c *config.Config, out io.Writer, in *bufio.Reader) (int32, error) {
	if flags.Changed("target") {
		return o.target, nil
	}

	target, ok, err := equation.Target(eq)
	if err != nil {
		return 0, err
	}
	if ok {
		return target, nil
	}
	if c.Genetic.Target != 0 {
		return c.Genetic.Target, nil
	}

	text, err := prompt(out, in, "Equals to > ")
	if err != nil {
		return 0, err
	}
	parsed, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("failed to parse target %q: %w", text, err)
	}
	return int32(parsed), nil
}

func startProfile(mode, dir string) (interface{ Stop() }, error) {
	var kind func(*profile.Profile)
	switch mode {
	case "cpu":
		kind = profile.CPUProfile
	case "mem":
		kind = profile.MemProfile
	default:
		return nil, fmt.Errorf("unknown profile %q; expected cpu or mem", mode)
	}
	return profile.Start(kind, profile.ProfilePath(dir), profile.Quiet, profile.NoShutdownHook), nil
}

func runSolve(cmd *cobra.Command, opts *solveOptions, in *bufio.Reader) error {
	out := cmd.OutOrStdout()

	c := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		c = loaded
	}
	opts.overlay(cmd.Flags(), c)

	logger, err := c.Log.NewLogger()
	if err != nil {
		return err
	}
	logger.SetOutput(cmd.OutOrStderr())

	if opts.profile != "" {
		p, err := startProfile(opts.profile, opts.profileDir)
		if err != nil {
			return err
		}
		defer p.Stop()
	}

	eq := opts.equation
	if eq == "" {
		if eq, err = prompt(out, in, "Equation > "); err != nil {
			return err
		}
	}

	params := c.Genetic
	if params.Target, err = opts.resolveTarget(cmd.Flags(), eq, c, out, in); err != nil {
		return err
	}

	var recorder *store.Recorder
	options := []genetic.Option{genetic.WithObserver(genetic.NewLogObserver(logger))}
	if c.Store.Path != "" {
		s, err := store.Open(&c.Store)
		if err != nil {
			return err
		}
		defer s.Close()
		recorder = &store.Recorder{Store: s}
		options = append(options, genetic.WithObserver(recorder))
	}

	sim, err := genetic.NewSimulation(eq, params, options...)
	if err != nil {
		return err
	}

	if recorder != nil {
		run, err := recorder.Store.CreateRun(eq, sim.Params())
		if err != nil {
			return err
		}
		recorder.RunID = run.ID
		logger.WithField("run", run.ID).Info("recording run")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := sim.Run(ctx)
	if result == nil {
		return withSyntaxHint(err)
	}
	if err != nil {
		logger.WithError(err).Warn("run stopped early")
	}

	if recorder != nil {
		if ferr := recorder.Store.FinishRun(recorder.RunID, result); ferr != nil {
			return ferr
		}
	}

	report(out, eq, result)

	if c.Plot.Path != "" {
		perr := plot.WriteFile(c.Plot.Path, result.Samples, c.Plot.Options)
		switch {
		case errors.Is(perr, plot.ErrNoSamples):
			logger.Info("no generations ran; skipping plot")
		case perr != nil:
			return perr
		default:
			logger.WithField("path", c.Plot.Path).Info("plot written")
		}
	}

	return err
}

// withSyntaxHint points at the usual cause of substituted text failing to parse
func withSyntaxHint(err error) error {
	var parseErr *calc.ParseError
	if errors.As(err, &parseErr) && parseErr.Rule == calc.RuleOperand {
		return fmt.Errorf("%w\nhint: a variable after +, -, /, %% or ^ needs a coefficient, as in \"a + 1*b\"", err)
	}
	return err
}

func report(out io.Writer, eq string, result *genetic.Result) {
	if !result.Solved {
		fmt.Fprintf(out, "no solution after %d iterations\n", result.Iterations)
		return
	}

	fmt.Fprintf(out, "solved after %d iterations\n", result.Iterations)
	seen := map[string]bool{}
	for _, c := range result.Solutions {
		if seen[c.String()] {
			continue
		}
		seen[c.String()] = true
		fmt.Fprintf(out, "%s -> %s\n", c, equation.Substitute(eq, c.Genes()))
	}
}
