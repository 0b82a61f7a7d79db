package seqlab

import (
	"github.com/unixpickle/essentials"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveLossPlot writes a training-loss line chart to an image
// file (the format follows the file extension, e.g. .png).
func SaveLossPlot(path string, h *History) error {
	p := plot.New()
	p.Title.Text = "Training loss"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Loss"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(h.Losses))
	for i, loss := range h.Losses {
		pts[i].X = float64(i)
		pts[i].Y = loss
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return essentials.AddCtx("plot loss", err)
	}
	line.LineStyle.Width = vg.Points(1)
	p.Add(line)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return essentials.AddCtx("plot loss", err)
	}
	return nil
}
