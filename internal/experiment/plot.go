package experiment

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotConvergence overlays the loss curves of all runs and saves them as
// an image; the format follows the file extension.
func PlotConvergence(path, title string, curves [][]float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = "learner loss"
	p.Add(plotter.NewGrid())

	for i, curve := range curves {
		if len(curve) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(curve))
		for epoch, loss := range curve {
			xys[epoch] = plotter.XY{X: float64(epoch), Y: loss}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
		// cycle through a few hues, faint enough to see overlaps
		line.Color = color.RGBA{R: uint8(40 + (i*67)%180), G: uint8(80 + (i*29)%120), B: 200, A: 160}
		line.Width = vg.Points(0.8)
		p.Add(line)
		if i == 0 {
			p.Legend.Add("runs", line)
		}
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
