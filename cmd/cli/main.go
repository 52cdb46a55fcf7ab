package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"gointegral/adapters/api"
	"gointegral/adapters/sink"
	"gointegral/app"
	"gointegral/domain/catalog"
	"gointegral/domain/quadrature"
	"gointegral/internal"
	"gointegral/internal/config"
	"gointegral/internal/container"
	"gointegral/ports"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:          "gointegral",
		Short:        "Compare numerical integration methods against exact integrals",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newCompareCmd(cfg),
		newSweepCmd(cfg),
		newTrialsCmd(cfg),
		newExportCmd(cfg),
		newServeCmd(cfg),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// scenarioFlags are shared by every command that evaluates the catalog
type scenarioFlags struct {
	a, b     float64
	n        int
	seed     uint64
	parallel int
}

func (f *scenarioFlags) register(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().Float64Var(&f.a, "a", cfg.Integration.A, "Lower bound of the interval")
	cmd.Flags().Float64Var(&f.b, "b", cfg.Integration.B, "Upper bound of the interval")
	cmd.Flags().IntVar(&f.n, "n", cfg.Integration.N, "Number of partitions (samples for Monte Carlo)")
	cmd.Flags().Uint64Var(&f.seed, "seed", cfg.Integration.Seed, "Monte Carlo seed, 0 seeds from the clock")
	cmd.Flags().IntVar(&f.parallel, "parallel", cfg.Integration.Parallelism, "Functions compared concurrently")
}

// apply copies the flag values over the loaded configuration
func (f *scenarioFlags) apply(cfg *config.Config) error {
	cfg.Integration.A = f.a
	cfg.Integration.B = f.b
	cfg.Integration.N = f.n
	cfg.Integration.Seed = f.seed
	cfg.Integration.Parallelism = f.parallel
	return config.Validate(cfg)
}

// commandConfig copies base so flag overrides stay local to one command
func commandConfig(base *config.Config) *config.Config {
	cfg := *base
	return &cfg
}

func newContainer(cfg *config.Config) (*container.Container, error) {
	return container.New(cfg, internal.NewDefaultLogger())
}

// selectFunctions returns the whole catalog or the named entry
func selectFunctions(fns []catalog.SampleFunction, name string) ([]catalog.SampleFunction, error) {
	if name == "" {
		return fns, nil
	}
	sf, err := catalog.Lookup(fns, name)
	if err != nil {
		return nil, err
	}
	return []catalog.SampleFunction{sf}, nil
}

func newCompareCmd(base *config.Config) *cobra.Command {
	cfg := commandConfig(base)
	var flags scenarioFlags
	var function, method, xlsx string
	var store bool

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare every method on the catalog functions",
		Long: `Integrate the catalog functions with every method and print one table per function.

Example: gointegral compare --function F1 --a 0.5 --b 20.5 --n 10 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cfg); err != nil {
				return err
			}
			c, err := newContainer(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			fns, err := selectFunctions(catalog.Build(cfg.Integration.A, cfg.Integration.B), function)
			if err != nil {
				return err
			}

			if method != "" {
				return runSingleMethod(cmd, c, fns, method)
			}

			runs, err := c.Comparison.CompareCatalog(cmd.Context(), fns, cfg.Integration.A, cfg.Integration.B, cfg.Integration.N, cfg.Integration.Parallelism)
			if err != nil {
				return err
			}

			sinks := []ports.ResultSink{sink.NewTable(cmd.OutOrStdout())}
			if store {
				if err := c.InitWithDatabase(cmd.Context()); err != nil {
					return err
				}
				sinks = append(sinks, c.Runs)
			}
			if err := app.Publish(cmd.Context(), runs, sinks...); err != nil {
				return err
			}

			if xlsx != "" {
				return exportWorkbook(cmd.Context(), runs, xlsx)
			}
			return nil
		},
	}

	flags.register(cmd, cfg)
	cmd.Flags().StringVar(&function, "function", "", "Catalog function to compare (default: all)")
	cmd.Flags().StringVar(&method, "method", "", "Run a single method by name and print its value")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "Also write the tables to this workbook")
	cmd.Flags().BoolVar(&store, "store", false, "Persist runs to DATABASE_URL")

	return cmd
}

func runSingleMethod(cmd *cobra.Command, c *container.Container, fns []catalog.SampleFunction, name string) error {
	m, ok := c.Engine.Method(name)
	if !ok {
		return fmt.Errorf("unknown method %q", name)
	}
	in := c.Config.Integration
	for _, sf := range fns {
		v, err := m.Integrate(sf.Integrand, in.A, in.B, in.N)
		if err != nil {
			return fmt.Errorf("%s on %s: %w", m.Name(), sf.Name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.6f\n", sf.Name, m.Name(), v)
	}
	return nil
}

func newSweepCmd(base *config.Config) *cobra.Command {
	cfg := commandConfig(base)
	var flags scenarioFlags
	var function, ns string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compare one function across several partition counts",
		Long: `Run the comparison for each partition count to see how the error shrinks.

Example: gointegral sweep --function F1 --ns 10,100,1000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cfg); err != nil {
				return err
			}
			counts, err := parsePartitions(ns)
			if err != nil {
				return err
			}
			for _, n := range counts {
				if n > cfg.Integration.MaxPartitions {
					return fmt.Errorf("partition count %d exceeds MAX_PARTITIONS (%d)", n, cfg.Integration.MaxPartitions)
				}
			}
			c, err := newContainer(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			sf, err := catalog.Lookup(catalog.Build(cfg.Integration.A, cfg.Integration.B), function)
			if err != nil {
				return err
			}

			runs, err := c.Comparison.Sweep(cmd.Context(), sf, cfg.Integration.A, cfg.Integration.B, counts)
			if err != nil {
				return err
			}
			return app.Publish(cmd.Context(), runs, sink.NewTable(cmd.OutOrStdout()))
		},
	}

	flags.register(cmd, cfg)
	cmd.Flags().StringVar(&function, "function", "F1", "Catalog function to sweep")
	cmd.Flags().StringVar(&ns, "ns", "10,100,1000", "Comma separated partition counts")

	return cmd
}

// parsePartitions parses "10,100,1000"
func parsePartitions(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid partition count %q: %w", part, err)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no partition counts given")
	}
	return out, nil
}

func newTrialsCmd(base *config.Config) *cobra.Command {
	cfg := commandConfig(base)
	var flags scenarioFlags
	var function string
	var trials int

	cmd := &cobra.Command{
		Use:   "trials",
		Short: "Repeat the Monte Carlo method and summarise its spread",
		Long: `Run the Monte Carlo estimate many times and print mean, spread and error as JSON.

Example: gointegral trials --function F1 --n 1000 --trials 200`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cfg); err != nil {
				return err
			}
			c, err := newContainer(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			sf, err := catalog.Lookup(catalog.Build(cfg.Integration.A, cfg.Integration.B), function)
			if err != nil {
				return err
			}

			summary, err := c.Comparison.MonteCarloTrials(cmd.Context(), sf, cfg.Integration.A, cfg.Integration.B, cfg.Integration.N, trials)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}

	flags.register(cmd, cfg)
	cmd.Flags().StringVar(&function, "function", "F1", "Catalog function to integrate")
	cmd.Flags().IntVar(&trials, "trials", 200, "Number of Monte Carlo repetitions")

	return cmd
}

func newExportCmd(base *config.Config) *cobra.Command {
	cfg := commandConfig(base)
	var flags scenarioFlags
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog comparison to an xlsx workbook",
		Long: `Compare every catalog function and write one sheet per function.

Example: gointegral export --out results.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cfg); err != nil {
				return err
			}
			if out == "" {
				return fmt.Errorf("--out is required")
			}
			c, err := newContainer(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			runs, err := c.Comparison.CompareCatalog(cmd.Context(), catalog.Build(cfg.Integration.A, cfg.Integration.B), cfg.Integration.A, cfg.Integration.B, cfg.Integration.N, cfg.Integration.Parallelism)
			if err != nil {
				return err
			}
			if err := exportWorkbook(cmd.Context(), runs, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d sheets to %s\n", len(runs), out)
			return nil
		},
	}

	flags.register(cmd, cfg)
	cmd.Flags().StringVar(&out, "out", cfg.Export.Path, "Workbook path")

	return cmd
}

func newServeCmd(base *config.Config) *cobra.Command {
	cfg := commandConfig(base)
	var flags scenarioFlags
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve comparisons over HTTP",
		Long: `Start the JSON API. Runs are stored when DATABASE_URL is set.

Example: gointegral serve --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cfg); err != nil {
				return err
			}
			c, err := newContainer(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			opts := api.Options{
				Metrics:       c.Metrics.Handler(),
				Logger:        c.Logger,
				MaxPartitions: cfg.Integration.MaxPartitions,
			}
			if cfg.Database.URL != "" {
				if err := c.InitWithDatabase(cmd.Context()); err != nil {
					return err
				}
				opts.Runs = c.Runs
			}

			gin.SetMode(cfg.Server.GinMode)
			scenario := catalog.Scenario{A: cfg.Integration.A, B: cfg.Integration.B, N: cfg.Integration.N}
			server := api.NewServer(c.Comparison, scenario, opts)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.ListenAndServe(ctx, ":"+port)
		},
	}

	flags.register(cmd, cfg)
	cmd.Flags().StringVar(&port, "port", cfg.Server.Port, "Port to listen on")

	return cmd
}

func exportWorkbook(ctx context.Context, runs []*quadrature.Run, path string) error {
	wb := sink.NewWorkbook()
	defer wb.Close()

	if err := app.Publish(ctx, runs, wb); err != nil {
		return err
	}
	return wb.Save(path)
}
