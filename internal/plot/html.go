package plot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/speed-threshold/internal/threshold"
)

// RenderHTML writes a standalone page holding the cost curve and the ROC
// curve as interactive charts.
func RenderHTML(w io.Writer, r *threshold.ScanResult) error {
	if err := checkResult(r); err != nil {
		return err
	}

	x := make([]string, len(r.CostCurve))
	costs := make([]opts.LineData, len(r.CostCurve))
	for i, c := range r.CostCurve {
		x[i] = fmt.Sprintf("%g", c.Threshold)
		costs[i] = opts.LineData{Value: c.Cost}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Speed threshold", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Cost function", Subtitle: fmt.Sprintf("mode=%s best=%g mph cost=%d", r.Mode, r.BestThreshold, r.BestCost)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Threshold (mph)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Cost", NameLocation: "middle", NameGap: 30}),
	)
	line.SetXAxis(x).
		AddSeries("cost", costs,
			charts.WithMarkPointNameCoordItemOpts(opts.MarkPointNameCoordItem{
				Name:       "best",
				Coordinate: []interface{}{fmt.Sprintf("%g", r.BestThreshold), r.BestCost},
				Value:      fmt.Sprintf("%g", r.BestThreshold),
			}),
		)

	roc := make([]opts.ScatterData, len(r.ROC))
	for i, p := range r.ROC {
		roc[i] = opts.ScatterData{Name: fmt.Sprintf("%g mph", p.Threshold), Value: []interface{}{p.FAR, p.TPR}}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "ROC curve by threshold", Subtitle: BestLabel(r)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "FAR (count)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "TPR (count)", NameLocation: "middle", NameGap: 30}),
	)
	var seriesOpts []charts.SeriesOpts
	seriesOpts = append(seriesOpts, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	if bp, ok := r.BestROC(); ok {
		seriesOpts = append(seriesOpts, charts.WithMarkPointNameCoordItemOpts(opts.MarkPointNameCoordItem{
			Name:       "best",
			Coordinate: []interface{}{bp.FAR, bp.TPR},
			Value:      fmt.Sprintf("%g", bp.Threshold),
		}))
	}
	scatter.AddSeries("roc", roc, seriesOpts...)

	page := components.NewPage()
	page.SetPageTitle("Speed threshold")
	page.AddCharts(line, scatter)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
