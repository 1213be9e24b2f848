// Package experiment runs the wine convergence experiment: it prepares a
// dataset, fits the ridge baseline, trains repeated Nash models, and writes
// their loss curves and test errors.
package experiment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/nash/internal/autodiff"
	"github.com/born-ml/nash/internal/backend/cpu"
	"github.com/born-ml/nash/internal/config"
	"github.com/born-ml/nash/internal/dataset"
	"github.com/born-ml/nash/internal/nash"
	"github.com/born-ml/nash/internal/optim"
	"github.com/born-ml/nash/internal/tensor"
)

// Backend is the backend every run trains on. Each run owns its own
// instance because a gradient tape is not safe for concurrent use.
type Backend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

// Model kinds reported in RunResult.
const (
	KindRidge = "ridge"
	KindNash  = "nash"
)

// RunResult describes one trained model.
type RunResult struct {
	Kind         string
	Index        int
	Seed         uint64
	Loss         []float64 // per-epoch training loss
	Weights      []float64 // (v_1..v_d, b)
	CleanRMSE    float64   // test RMSE on clean data
	AttackedRMSE float64   // test RMSE after the attacker's best response
	Elapsed      time.Duration
}

// Report is the outcome of Runner.Run.
type Report struct {
	ID        string
	Wine      string
	OutputDir string
	Baseline  *RunResult
	Runs      []RunResult
}

// Results returns the baseline (if any) followed by the Nash runs.
func (r *Report) Results() []RunResult {
	out := make([]RunResult, 0, len(r.Runs)+1)
	if r.Baseline != nil {
		out = append(out, *r.Baseline)
	}
	return append(out, r.Runs...)
}

// Runner executes the experiment for one configured wine dataset.
type Runner struct {
	cfg    *config.Config
	wine   config.WineConfig
	name   string
	nash   nash.Config
	logger *zap.Logger
}

// NewRunner validates cfg and resolves the dataset called wine.
func NewRunner(cfg *config.Config, wine string, logger *zap.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w, err := cfg.Wine(wine)
	if err != nil {
		return nil, err
	}
	nc, err := NashConfig(cfg.Nash)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, wine: w, name: wine, nash: nc, logger: logger}, nil
}

// NashConfig converts the file configuration into trainer settings.
func NashConfig(c config.NashConfig) (nash.Config, error) {
	kind := optim.KindSGD
	if c.Optimizer != "" {
		k, err := optim.ParseKind(c.Optimizer)
		if err != nil {
			return nash.Config{}, fmt.Errorf("%w: %v", config.ErrInvalid, err)
		}
		kind = k
	}
	nc := nash.Config{
		Lambda:            c.Lambda,
		OuterLR:           c.OuterLR,
		InnerLR:           c.InnerLR,
		OuterEpochs:       c.OuterEpochs,
		InnerSteps:        c.InnerEpochs,
		Truncation:        c.Truncation,
		Optimizer:         kind,
		Momentum:          c.Momentum,
		ColdStart:         c.ColdStart,
		LinearizePostStep: c.LinearizePostStep,
		LogEvery:          c.LogEvery,
	}
	return nc, nc.Validate()
}

// Run loads the configured CSV and runs the experiment on it.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	sep, _ := utf8.DecodeRuneInString(r.wine.Separator)
	frame, err := dataset.LoadCSV(r.wine.File, sep, r.wine.Target)
	if err != nil {
		return nil, err
	}
	r.logger.Info("dataset loaded",
		zap.String("file", r.wine.File),
		zap.Int("rows", frame.Rows()),
		zap.Int("features", len(frame.Features)),
	)
	return r.RunFrame(ctx, frame)
}

// RunFrame runs the experiment on an already loaded table.
func (r *Runner) RunFrame(ctx context.Context, frame *dataset.Frame) (*Report, error) {
	report := &Report{
		ID:        uuid.NewString(),
		Wine:      r.name,
		OutputDir: r.wine.OutputDir,
	}
	logger := r.logger.With(zap.String("experiment", report.ID), zap.String("wine", r.name))

	if err := os.MkdirAll(r.wine.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.MkdirAll(r.cfg.TimeLogDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create time log directory: %w", err)
	}

	prep, err := dataset.Prepare(frame, r.cfg.TestFraction, tensor.NewRNG(r.cfg.Seed))
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dataset: %w", err)
	}
	logger.Info("dataset prepared",
		zap.Int("train", len(prep.TrainY)),
		zap.Int("test", len(prep.TestY)),
	)

	if r.cfg.Ridge.Enabled {
		baseline, err := r.runRidge(ctx, prep, report.ID, logger)
		if err != nil {
			return nil, err
		}
		report.Baseline = baseline
	}

	runs, err := r.runNash(ctx, prep, report.ID, logger)
	if err != nil {
		return nil, err
	}
	report.Runs = runs

	if r.cfg.Output.Plot && len(runs) > 0 {
		curves := make([][]float64, len(runs))
		for i, run := range runs {
			curves[i] = run.Loss
		}
		path := filepath.Join(r.wine.OutputDir, "convergence.png")
		if err := PlotConvergence(path, fmt.Sprintf("Nash convergence (%s)", r.name), curves); err != nil {
			return nil, err
		}
		logger.Info("plot written", zap.String("path", path))
	}

	if r.cfg.Output.Summary {
		path := filepath.Join(r.wine.OutputDir, "summary.csv")
		if err := WriteSummary(path, report.Results()); err != nil {
			return nil, err
		}
		logger.Info("summary written", zap.String("path", path))
	}

	return report, nil
}

// data holds one run's private copies of the prepared tensors.
type data struct {
	backend     Backend
	train, test nash.Problem[Backend]
}

func newData(prep *dataset.Prepared, attacker config.AttackerConfig) *data {
	backend := autodiff.New(cpu.New())
	train := fromDense(prep.TrainX, backend)
	test := fromDense(prep.TestX, backend)
	return &data{
		backend: backend,
		train: nash.Problem[Backend]{
			X:        train,
			Y:        tensor.FromColumn(prep.TrainY, backend),
			Attacker: nash.NewAttacker(len(prep.TrainY), attacker.TrainCost, attacker.TrainTarget, backend),
		},
		test: nash.Problem[Backend]{
			X:        test,
			Y:        tensor.FromColumn(prep.TestY, backend),
			Attacker: nash.NewAttacker(len(prep.TestY), attacker.TestCost, attacker.TestTarget, backend),
		},
	}
}

func fromDense(m *mat.Dense, backend Backend) *tensor.Tensor[Backend] {
	return tensor.New(tensor.FromDense(m), backend)
}

// evaluate fills the clean and attacked test RMSE of m.
func (d *data) evaluate(m *nash.Model[Backend], res *RunResult) error {
	clean, err := nash.Evaluate(m, d.test.X, d.test.Y)
	if err != nil {
		return err
	}
	attacked, err := nash.Attack(m, d.test.X, d.test.Attacker)
	if err != nil {
		return err
	}
	poisoned, err := nash.Evaluate(m, attacked, d.test.Y)
	if err != nil {
		return err
	}
	res.CleanRMSE, res.AttackedRMSE = clean, poisoned
	return nil
}

func (r *Runner) runRidge(ctx context.Context, prep *dataset.Prepared, id string, logger *zap.Logger) (*RunResult, error) {
	d := newData(prep, r.cfg.Attacker)
	rng := tensor.NewRNG(r.cfg.Seed)
	timer := StartTimer(r.cfg.TimeLogDir, "ridge_"+r.name, logger)

	model, losses, err := nash.TrainRidge(ctx, nash.NewModel(d.train.X.Shape().Cols(), rng, d.backend),
		d.train.X, d.train.Y, nash.RidgeConfig{
			Epochs: r.cfg.Ridge.Epochs,
			LR:     r.cfg.Ridge.LR,
			Lambda: r.cfg.Ridge.Lambda,
		}, logger)
	if err != nil {
		return nil, fmt.Errorf("ridge baseline: %w", err)
	}
	elapsed, err := timer.Stop()
	if err != nil {
		return nil, err
	}

	res := &RunResult{Kind: KindRidge, Seed: r.cfg.Seed, Loss: losses, Weights: model.Flatten(), Elapsed: elapsed}
	if err := d.evaluate(model, res); err != nil {
		return nil, fmt.Errorf("ridge baseline: %w", err)
	}
	if r.cfg.Output.Models {
		path := filepath.Join(r.wine.OutputDir, "ridge.born")
		if err := r.save(path, id, model, res, ""); err != nil {
			return nil, err
		}
	}
	logger.Info("ridge baseline finished",
		zap.Float64("clean_rmse", res.CleanRMSE),
		zap.Float64("attacked_rmse", res.AttackedRMSE),
	)
	return res, nil
}

func (r *Runner) runNash(ctx context.Context, prep *dataset.Prepared, id string, logger *zap.Logger) ([]RunResult, error) {
	workers := r.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]RunResult, r.cfg.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range r.cfg.Runs {
		g.Go(func() error {
			res, err := r.runOne(gctx, prep, i, id, logger.With(zap.Int("run", i)))
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) runOne(ctx context.Context, prep *dataset.Prepared, i int, id string, logger *zap.Logger) (*RunResult, error) {
	seed := r.cfg.Seed + uint64(i)
	rng := tensor.NewRNG(seed)
	d := newData(prep, r.cfg.Attacker)

	trainer, err := nash.NewTrainer(d.backend, r.nash, logger)
	if err != nil {
		return nil, err
	}

	timer := StartTimer(r.cfg.TimeLogDir, "nash_"+r.name, logger)
	initial := nash.NewModel(d.train.X.Shape().Cols(), rng, d.backend)
	result, err := trainer.Train(ctx, initial, d.train, rng)
	if err != nil {
		return nil, err
	}
	elapsed, err := timer.Stop()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(r.wine.OutputDir, fmt.Sprintf("convergence%d.csv", i))
	if err := WriteConvergence(path, result.Loss); err != nil {
		return nil, err
	}

	res := &RunResult{
		Kind:    KindNash,
		Index:   i,
		Seed:    seed,
		Loss:    result.Loss,
		Weights: result.Model.Flatten(),
		Elapsed: elapsed,
	}
	if err := d.evaluate(result.Model, res); err != nil {
		return nil, err
	}
	if r.cfg.Output.Models {
		ckpt := filepath.Join(r.wine.OutputDir, fmt.Sprintf("model%d.born", i))
		if err := r.save(ckpt, id, result.Model, res, string(r.nash.Optimizer)); err != nil {
			return nil, err
		}
	}

	logger.Info("nash run finished",
		zap.String("curve", path),
		zap.Float64("final_loss", lastLoss(result.Loss)),
		zap.Float64("clean_rmse", res.CleanRMSE),
		zap.Float64("attacked_rmse", res.AttackedRMSE),
	)
	return res, nil
}

func lastLoss(losses []float64) float64 {
	if len(losses) == 0 {
		return 0
	}
	return losses[len(losses)-1]
}
