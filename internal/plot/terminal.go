package plot

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"

	"github.com/banshee-data/speed-threshold/internal/threshold"
)

// ASCIICostCurve returns the cost curve as a terminal graph. A non-positive
// width keeps one column per threshold.
func ASCIICostCurve(r *threshold.ScanResult, width, height int) (string, error) {
	if err := checkResult(r); err != nil {
		return "", err
	}
	values := make([]float64, len(r.CostCurve))
	for i, c := range r.CostCurve {
		values[i] = float64(c.Cost)
	}
	first := r.CostCurve[0].Threshold
	last := r.CostCurve[len(r.CostCurve)-1].Threshold

	options := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Caption(fmt.Sprintf("cost by threshold, %g to %g mph (best %g, cost %d)", first, last, r.BestThreshold, r.BestCost)),
	}
	if width > 0 {
		options = append(options, asciigraph.Width(width))
	}
	return asciigraph.Plot(values, options...), nil
}

// WriteROCTable writes one row per threshold with its TP and FP counts and
// cost. The best threshold is marked with an asterisk.
func WriteROCTable(w io.Writer, r *threshold.ScanResult) error {
	if err := checkResult(r); err != nil {
		return err
	}
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Threshold", "TPR", "FAR", "Cost", "Best"})
	tbl.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, p := range r.ROC {
		mark := ""
		if p.Threshold == r.BestThreshold {
			mark = "*"
		}
		tbl.Append([]string{
			fmt.Sprintf("%g", p.Threshold),
			fmt.Sprintf("%d", p.TPR),
			fmt.Sprintf("%d", p.FAR),
			fmt.Sprintf("%d", p.CF),
			mark,
		})
	}
	tbl.Render()
	return nil
}
