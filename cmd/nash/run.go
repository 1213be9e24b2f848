package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/born-ml/nash/internal/experiment"
)

type runOptions struct {
	wine    string
	runs    int
	workers int
	seed    uint64
	out     string
	dataDir string
	noPlot  bool
	models  bool
}

func newRunCmd(a *app) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the convergence experiment on a wine dataset",
		Example: `  nash run --wine white
  nash run --wine red --runs 5 --workers 4 -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.wine, "wine", "w", "white", "dataset to run on (white or red)")
	f.IntVarP(&opts.runs, "runs", "n", 0, "number of Nash runs (overrides config)")
	f.IntVar(&opts.workers, "workers", 0, "concurrent runs, 0 for one per CPU (overrides config)")
	f.Uint64Var(&opts.seed, "seed", 0, "base random seed (overrides config)")
	f.StringVarP(&opts.out, "out", "o", "", "output directory for this dataset (overrides config)")
	f.StringVar(&opts.dataDir, "data-dir", "", "directory holding the CSV files (overrides config)")
	f.BoolVar(&opts.noPlot, "no-plot", false, "skip convergence.png")
	f.BoolVar(&opts.models, "save-models", false, "write a .born checkpoint per trained model")
	return cmd
}

func (a *app) run(cmd *cobra.Command, opts *runOptions) error {
	cfg := a.cfg
	flags := cmd.Flags()

	if flags.Changed("runs") {
		cfg.Runs = opts.runs
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.seed
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	if opts.noPlot {
		cfg.Output.Plot = false
	}
	if opts.models {
		cfg.Output.Models = true
	}
	if opts.out != "" {
		w, ok := cfg.Wines[opts.wine]
		if ok {
			w.OutputDir = opts.out
			cfg.Wines[opts.wine] = w
			cfg.ResultsDir = ""
		}
	}

	runner, err := experiment.NewRunner(cfg, opts.wine, a.logger)
	if err != nil {
		return err
	}

	a.logger.Info("starting experiment",
		zap.String("wine", opts.wine),
		zap.Int("runs", cfg.Runs),
		zap.Int("outer_epochs", cfg.Nash.OuterEpochs),
		zap.Int("inner_epochs", cfg.Nash.InnerEpochs),
	)

	report, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "experiment %s: %d runs written to %s\n", report.ID, len(report.Runs), report.OutputDir)
	for _, r := range report.Results() {
		fmt.Fprintf(out, "  %-5s run %-3d clean RMSE %.4f  attacked RMSE %.4f  (%s)\n",
			r.Kind, r.Index, r.CleanRMSE, r.AttackedRMSE, r.Elapsed.Round(time.Millisecond))
	}
	return nil
}
