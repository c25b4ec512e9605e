package threshold

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CountFalseAdmits returns the number of positives in buckets at or below
// threshold: targets the threshold lets through.
func CountFalseAdmits(threshold float64, d *Dataset) int {
	n := 0
	for _, b := range d.Buckets() {
		if b.Key <= threshold {
			n += len(b.Positives)
		}
	}
	return n
}

// CountFalseStops returns the number of negatives in buckets above
// threshold: non-targets the threshold flags.
func CountFalseStops(threshold float64, d *Dataset) int {
	n := 0
	for _, b := range d.Buckets() {
		if b.Key > threshold {
			n += len(b.Negatives)
		}
	}
	return n
}

// PopulationStats describes the ingested speeds of one label.
type PopulationStats struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summary is the printed report for a scan.
type Summary struct {
	BestThreshold float64
	BestCost      int
	Mode          CostMode
	FalseAdmits   int
	FalseStops    int
	Ingested      int
	Dropped       int
	Negatives     PopulationStats
	Positives     PopulationStats
}

// Summarize derives the operating-point counts for r's best threshold and
// the per-label speed statistics of d.
func Summarize(d *Dataset, r *ScanResult) Summary {
	s := Summary{
		Ingested:  d.Total(),
		Dropped:   d.Dropped(),
		Negatives: population(d, Negative),
		Positives: population(d, Positive),
	}
	if r == nil {
		return s
	}
	s.BestThreshold = r.BestThreshold
	s.BestCost = r.BestCost
	s.Mode = r.Mode
	s.FalseAdmits = CountFalseAdmits(r.BestThreshold, d)
	s.FalseStops = CountFalseStops(r.BestThreshold, d)
	return s
}

func population(d *Dataset, l Label) PopulationStats {
	var xs []float64
	for _, b := range d.Buckets() {
		xs = append(xs, b.Values(l)...)
	}
	if len(xs) == 0 {
		return PopulationStats{}
	}
	ps := PopulationStats{
		Count: len(xs),
		Min:   floats.Min(xs),
		Max:   floats.Max(xs),
	}
	if len(xs) > 1 {
		ps.Mean, ps.StdDev = stat.MeanStdDev(xs, nil)
	} else {
		ps.Mean = xs[0]
	}
	return ps
}
