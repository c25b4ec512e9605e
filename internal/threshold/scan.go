package threshold

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Confusion holds the confusion counts of a "flag if above" threshold.
type Confusion struct {
	TP int // positives above the threshold
	FP int // negatives above the threshold
	TN int // negatives at or below the threshold
	FN int // positives at or below the threshold
}

// Total is the number of samples the counts cover.
func (c Confusion) Total() int {
	return c.TP + c.FP + c.TN + c.FN
}

// ConfusionAt partitions every bucket of d by its key against t and counts
// the samples on each side.
func ConfusionAt(d *Dataset, t float64) Confusion {
	var c Confusion
	for _, b := range d.Buckets() {
		if b.Key <= t {
			c.FN += len(b.Positives)
			c.TN += len(b.Negatives)
		} else {
			c.TP += len(b.Positives)
			c.FP += len(b.Negatives)
		}
	}
	return c
}

// CostPoint is one point of the cost curve.
type CostPoint struct {
	Threshold float64
	Cost      int
}

// ROCPoint is one point of the detection/false-alarm curve. TPR and FAR are
// absolute counts (true positives and false positives), not rates.
type ROCPoint struct {
	Threshold float64
	TPR       int
	FAR       int
	CF        int
}

// ScanResult is the outcome of a threshold scan. Both curves hold one point
// per bucket key in ascending threshold order.
type ScanResult struct {
	BestThreshold float64
	BestCost      int
	Mode          CostMode
	CostCurve     []CostPoint
	ROC           []ROCPoint
}

// CostAt returns the cost recorded for threshold t.
func (r *ScanResult) CostAt(t float64) (int, bool) {
	for _, p := range r.CostCurve {
		if p.Threshold == t {
			return p.Cost, true
		}
	}
	return 0, false
}

// BestROC returns the ROC point of the chosen threshold.
func (r *ScanResult) BestROC() (ROCPoint, bool) {
	for _, p := range r.ROC {
		if p.Threshold == r.BestThreshold {
			return p, true
		}
	}
	return ROCPoint{}, false
}

// best is the running minimum folded through the ascending scan.
type best struct {
	threshold float64
	cost      int
	set       bool
}

// observe keeps the lower cost. The comparison is non-strict so that on a
// tie the later, higher threshold replaces the earlier one.
func (b best) observe(t float64, cost int) best {
	if !b.set || cost <= b.cost {
		return best{threshold: t, cost: cost, set: true}
	}
	return b
}

func checkScan(d *Dataset, mode CostMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidCostMode, mode)
	}
	if d.Total() == 0 {
		return ErrEmptyDataset
	}
	return nil
}

// Scan tries every bucket key of d as a threshold, in ascending order, and
// returns the lowest-cost threshold together with the full cost and ROC
// curves. Ties go to the highest threshold among the minima.
func Scan(d *Dataset, mode CostMode) (*ScanResult, error) {
	if err := checkScan(d, mode); err != nil {
		return nil, err
	}
	buckets := d.Buckets()
	counts := make([]Confusion, len(buckets))
	for i, b := range buckets {
		counts[i] = ConfusionAt(d, b.Key)
	}
	return fold(buckets, counts, mode), nil
}

// ScanConcurrent computes the per-threshold confusion counts on up to
// workers goroutines and then reduces them in ascending key order, so its
// result is identical to Scan.
func ScanConcurrent(ctx context.Context, d *Dataset, mode CostMode, workers int) (*ScanResult, error) {
	if workers <= 1 {
		return Scan(d, mode)
	}
	if err := checkScan(d, mode); err != nil {
		return nil, err
	}

	buckets := d.Buckets()
	counts := make([]Confusion, len(buckets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, b := range buckets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			counts[i] = ConfusionAt(d, b.Key)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("threshold scan: %w", err)
	}
	return fold(buckets, counts, mode), nil
}

// fold applies the cost function to counts (indexed like buckets) and
// threads the running best through them in bucket order.
func fold(buckets []*Bucket, counts []Confusion, mode CostMode) *ScanResult {
	res := &ScanResult{
		Mode:      mode,
		CostCurve: make([]CostPoint, 0, len(buckets)),
		ROC:       make([]ROCPoint, 0, len(buckets)),
	}
	var acc best
	for i, b := range buckets {
		c := counts[i]
		cf := Cost(c.FN, c.FP, mode)
		res.CostCurve = append(res.CostCurve, CostPoint{Threshold: b.Key, Cost: cf})
		res.ROC = append(res.ROC, ROCPoint{Threshold: b.Key, TPR: c.TP, FAR: c.FP, CF: cf})
		acc = acc.observe(b.Key, cf)
	}
	res.BestThreshold = acc.threshold
	res.BestCost = acc.cost
	return res
}
