package threshold

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountFalseAdmitsAndStops(t *testing.T) {
	d := twoBucketDataset(t)

	testCases := []struct {
		name      string
		threshold float64
		admits    int
		stops     int
	}{
		{"best_threshold", 45.0, 0, 0},
		{"top_bucket", 50.0, 1, 0},
		{"below_all_buckets", 40.0, 0, 2},
		{"between_keys", 47.5, 0, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.admits, CountFalseAdmits(tc.threshold, d))
			assert.Equal(t, tc.stops, CountFalseStops(tc.threshold, d))
		})
	}
}

func TestCountsOnEmptyOrNilDataset(t *testing.T) {
	assert.Zero(t, CountFalseAdmits(50, nil))
	assert.Zero(t, CountFalseStops(50, nil))

	d, err := NewDataset(DefaultKeyRange())
	require.NoError(t, err)
	assert.Zero(t, CountFalseAdmits(50, d))
	assert.Zero(t, CountFalseStops(50, d))
}

func TestCountsMatchScanConfusion(t *testing.T) {
	d := randomDataset(t, 99, 250)
	res, err := Scan(d, Unweighted)
	require.NoError(t, err)

	c := ConfusionAt(d, res.BestThreshold)
	assert.Equal(t, c.FN, CountFalseAdmits(res.BestThreshold, d))
	assert.Equal(t, c.FP, CountFalseStops(res.BestThreshold, d))
	assert.Equal(t, res.BestCost, CountFalseAdmits(res.BestThreshold, d)+CountFalseStops(res.BestThreshold, d))
}

func TestSummarize(t *testing.T) {
	d := twoBucketDataset(t)
	require.NoError(t, d.Ingest(Sample{Value: 200, Label: Negative}))

	res, err := Scan(d, Unweighted)
	require.NoError(t, err)
	s := Summarize(d, res)

	assert.Equal(t, 45.0, s.BestThreshold)
	assert.Equal(t, 0, s.BestCost)
	assert.Equal(t, Unweighted, s.Mode)
	assert.Equal(t, 0, s.FalseAdmits)
	assert.Equal(t, 0, s.FalseStops)
	assert.Equal(t, 3, s.Ingested)
	assert.Equal(t, 1, s.Dropped)

	assert.Equal(t, 2, s.Negatives.Count)
	assert.InDelta(t, 45.05, s.Negatives.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(0.005), s.Negatives.StdDev, 1e-9)
	assert.Equal(t, 45.0, s.Negatives.Min)
	assert.Equal(t, 45.1, s.Negatives.Max)

	assert.Equal(t, PopulationStats{Count: 1, Mean: 50.2, Min: 50.2, Max: 50.2}, s.Positives)
}

func TestSummarizeWithoutScan(t *testing.T) {
	d := twoBucketDataset(t)
	s := Summarize(d, nil)
	assert.Equal(t, 3, s.Ingested)
	assert.Zero(t, s.FalseAdmits)
	assert.Zero(t, s.BestCost)
}
