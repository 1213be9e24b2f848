package experiment

import (
	"fmt"
	"strconv"

	"github.com/born-ml/nash/internal/autodiff"
	"github.com/born-ml/nash/internal/backend/cpu"
	"github.com/born-ml/nash/internal/nash"
	"github.com/born-ml/nash/internal/serialization"
)

// save writes m to path as a .born checkpoint describing res.
func (r *Runner) save(path, id string, m *nash.Model[Backend], res *RunResult, optimizer string) error {
	header := serialization.Header{
		ModelType: res.Kind,
		Metadata: map[string]string{
			"experiment":    id,
			"wine":          r.name,
			"run":           strconv.Itoa(res.Index),
			"clean_rmse":    strconv.FormatFloat(res.CleanRMSE, 'g', -1, 64),
			"attacked_rmse": strconv.FormatFloat(res.AttackedRMSE, 'g', -1, 64),
		},
		Training: &serialization.TrainingMeta{
			Epochs:    len(res.Loss),
			FinalLoss: lastLoss(res.Loss),
			Seed:      res.Seed,
			Optimizer: optimizer,
		},
	}
	if err := serialization.Save(path, m.StateDict(), header); err != nil {
		return fmt.Errorf("failed to save %s model: %w", res.Kind, err)
	}
	return nil
}

// LoadModel reads a checkpoint written by a run onto a fresh backend.
func LoadModel(path string) (*nash.Model[Backend], *serialization.Header, error) {
	ckpt, err := serialization.Load(path)
	if err != nil {
		return nil, nil, err
	}
	m, err := nash.LoadModel(ckpt.Tensors, autodiff.New(cpu.New()))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, &ckpt.Header, nil
}
