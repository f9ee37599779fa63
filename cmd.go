package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bcdannyboy/sdequant/config"
	"github.com/bcdannyboy/sdequant/logger"
	"github.com/bcdannyboy/sdequant/models"
	"github.com/bcdannyboy/sdequant/probability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"github.com/xhhuango/json"
	"golang.org/x/sync/errgroup"
)

type app struct {
	envFiles    []string
	workers     int
	output      string
	metricsFile string
	quiet       bool
	confidence  float64
	barSteps    int

	settings config.Engine
	log      *slog.Logger
	closer   io.Closer
	engine   *models.Engine
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "sdequant",
		Short:        "Simulate stochastic processes and price options by Monte Carlo",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringSliceVar(&a.envFiles, "env", nil, "dotenv files to load (default .env if present)")
	flags.IntVarP(&a.workers, "workers", "w", 0, "parallel path workers (default "+config.EnvWorkers+" or logical CPUs)")
	flags.StringVarP(&a.output, "output", "o", "", "write JSON results to this file instead of stdout")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "hide the progress bar")

	root.AddCommand(a.simulateCmd(), a.priceCmd())
	return root
}

func (a *app) setup() error {
	settings, err := config.LoadEnv(a.envFiles...)
	if err != nil {
		return err
	}
	if a.workers > 0 {
		settings.Workers = a.workers
	}
	l, closer, err := logger.Init(settings.Log)
	if err != nil {
		return err
	}
	a.settings, a.log, a.closer = settings, l, closer
	a.engine = models.NewEngine(models.WithWorkers(settings.Workers), models.WithLogger(l))
	return nil
}

func (a *app) simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <scenarios.yaml>",
		Short: "Simulate every scenario and report the mean path and terminal distribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := config.LoadFile(args[0])
			if err != nil {
				return err
			}
			reports := make([]SimulationReport, len(scenarios))
			err = a.fanOut(cmd.Context(), "Simulating", cmd.ErrOrStderr(), len(scenarios), func(i int) error {
				rep, err := a.simulate(scenarios[i])
				reports[i] = rep
				return err
			})
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), reports)
		},
	}
	cmd.Flags().IntVar(&a.barSteps, "bar-steps", 0, "group this many steps into OHLC bars and report realized volatility (0 disables)")
	return cmd
}

func (a *app) priceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price <scenarios.yaml>",
		Short: "Price each scenario's option by Monte Carlo, with risk figures and analytic benchmarks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(a.confidence > 0 && a.confidence < 1) {
				return fmt.Errorf("confidence must be in (0, 1), got %v", a.confidence)
			}
			scenarios, err := config.LoadFile(args[0])
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			pricer := probability.NewMonteCarloPricer(a.engine)
			pricer.Logger = a.log
			pricer.Metrics = probability.NewMetrics("cli")
			if err := pricer.Metrics.Register(reg); err != nil {
				return err
			}

			reports := make([]PriceReport, len(scenarios))
			err = a.fanOut(cmd.Context(), "Pricing", cmd.ErrOrStderr(), len(scenarios), func(i int) error {
				rep, err := a.price(pricer, scenarios[i])
				reports[i] = rep
				return err
			})
			if err != nil {
				return err
			}
			if a.metricsFile != "" {
				if err := prometheus.WriteToTextfile(a.metricsFile, reg); err != nil {
					return fmt.Errorf("writing metrics: %w", err)
				}
			}
			return a.write(cmd.OutOrStdout(), reports)
		},
	}
	cmd.Flags().Float64VarP(&a.confidence, "confidence", "c", 0.95, "confidence level for intervals, VaR and expected shortfall")
	cmd.Flags().StringVar(&a.metricsFile, "metrics", "", "write Prometheus text metrics to this file")
	return cmd
}

// fanOut runs fn for every scenario index and tracks completion on a
// progress bar. The first error cancels scenarios that have not started.
func (a *app) fanOut(ctx context.Context, name string, out io.Writer, n int, fn func(i int) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if a.quiet {
		out = io.Discard
	}
	p := mpb.New(mpb.WithOutput(out), mpb.WithWidth(64))
	bar := p.AddBar(int64(n),
		mpb.PrependDecorators(
			decor.Name(name),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
		),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, a.settings.Workers))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			defer bar.Increment()
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	err := g.Wait()
	p.Wait()
	return err
}

func (a *app) write(stdout io.Writer, v any) error {
	w := stdout
	if a.output != "" {
		f, err := os.Create(a.output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	if a.output != "" {
		a.log.Info("results written", "file", a.output)
	}
	return nil
}
