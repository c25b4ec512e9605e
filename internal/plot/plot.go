// Package plot renders the cost curve and ROC curve of a threshold scan as
// PNG images, an HTML page and terminal output.
package plot

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/speed-threshold/internal/threshold"
)

// ErrNoCurve is returned when a scan result has no points to draw.
var ErrNoCurve = errors.New("plot: scan result has no curve points")

const (
	pngWidth  = 10 * vg.Inch
	pngHeight = 6 * vg.Inch
)

var bestColor = color.RGBA{R: 220, G: 30, B: 30, A: 255}

func checkResult(r *threshold.ScanResult) error {
	if r == nil || len(r.CostCurve) == 0 {
		return ErrNoCurve
	}
	return nil
}

// BestLabel is the annotation drawn next to the best threshold on the ROC
// curve.
func BestLabel(r *threshold.ScanResult) string {
	p, _ := r.BestROC()
	return fmt.Sprintf("Threshold: %g mph | FAR: %d, TPR: %d", r.BestThreshold, p.FAR, p.TPR)
}

func costCurvePlot(r *threshold.ScanResult) (*plot.Plot, error) {
	if err := checkResult(r); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = "Cost function as a function of threshold"
	p.X.Label.Text = "Threshold (mph)"
	p.Y.Label.Text = "Cost function"

	pts := make(plotter.XYs, len(r.CostCurve))
	for i, c := range r.CostCurve {
		pts[i] = plotter.XY{X: c.Threshold, Y: float64(c.Cost)}
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, err
	}
	line.Width = vg.Points(1)
	points.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(line, points, plotter.NewGrid())

	best, err := plotter.NewScatter(plotter.XYs{{X: r.BestThreshold, Y: float64(r.BestCost)}})
	if err != nil {
		return nil, err
	}
	best.GlyphStyle.Color = bestColor
	best.GlyphStyle.Shape = draw.CircleGlyph{}
	best.GlyphStyle.Radius = vg.Points(4)
	p.Add(best)
	p.Legend.Add(fmt.Sprintf("best %g mph (cost %d)", r.BestThreshold, r.BestCost), best)
	p.Legend.Top = true
	return p, nil
}

func rocPlot(r *threshold.ScanResult) (*plot.Plot, error) {
	if err := checkResult(r); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = "ROC curve by threshold"
	p.X.Label.Text = "False alarm count (FAR)"
	p.Y.Label.Text = "True positive count (TPR)"

	pts := make(plotter.XYs, len(r.ROC))
	for i, c := range r.ROC {
		pts[i] = plotter.XY{X: float64(c.FAR), Y: float64(c.TPR)}
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, err
	}
	line.Width = vg.Points(1)
	points.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(line, points, plotter.NewGrid())

	bp, ok := r.BestROC()
	if !ok {
		return p, nil
	}
	at := plotter.XYs{{X: float64(bp.FAR), Y: float64(bp.TPR)}}
	best, err := plotter.NewScatter(at)
	if err != nil {
		return nil, err
	}
	best.GlyphStyle.Color = bestColor
	best.GlyphStyle.Shape = draw.CircleGlyph{}
	best.GlyphStyle.Radius = vg.Points(4)

	label, err := plotter.NewLabels(plotter.XYLabels{XYs: at, Labels: []string{BestLabel(r)}})
	if err != nil {
		return nil, err
	}
	label.Offset = vg.Point{X: vg.Points(6), Y: vg.Points(-12)}
	p.Add(best, label)
	return p, nil
}

// SaveCostCurvePNG draws cost against threshold and writes it to path. The
// image format follows the file extension.
func SaveCostCurvePNG(r *threshold.ScanResult, path string) error {
	p, err := costCurvePlot(r)
	if err != nil {
		return err
	}
	if err := p.Save(pngWidth, pngHeight, path); err != nil {
		return fmt.Errorf("save cost curve: %w", err)
	}
	return nil
}

// SaveROCPNG draws the ROC curve with the best threshold highlighted and
// writes it to path.
func SaveROCPNG(r *threshold.ScanResult, path string) error {
	p, err := rocPlot(r)
	if err != nil {
		return err
	}
	if err := p.Save(pngWidth, pngHeight, path); err != nil {
		return fmt.Errorf("save roc curve: %w", err)
	}
	return nil
}
