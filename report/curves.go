// Package report renders training curves to image files.
package report

import (
	"fmt"

	"github.com/YuminosukeSato/fedscaffold/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is one named curve. Point i is drawn at x = i.
type Series struct {
	Name   string
	Values []float64
}

// SaveCurves draws every series as a line on one chart and writes it to path.
// The format follows the extension (.png, .svg, .pdf, ...).
func SaveCurves(path, title, ylabel string, series []Series) error {
	if len(series) == 0 {
		return errors.NewValueError("SaveCurves", "no series to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())

	for i, s := range series {
		if len(s.Values) == 0 {
			return errors.NewValueError("SaveCurves", fmt.Sprintf("series %q is empty", s.Name))
		}
		pts := make(plotter.XYs, len(s.Values))
		for j, v := range s.Values {
			pts[j] = plotter.XY{X: float64(j), Y: v}
		}

		l, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrapf(err, "series %q", s.Name)
		}
		l.LineStyle.Width = vg.Points(1.5)
		l.LineStyle.Color = plotutil.Color(i)
		p.Add(l)
		p.Legend.Add(s.Name, l)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}
