package threshold

import (
	"errors"
	"testing"
)

func TestCost(t *testing.T) {
	testCases := []struct {
		name   string
		fn, fp int
		mode   CostMode
		want   int
	}{
		{"unweighted_zero", 0, 0, Unweighted, 0},
		{"unweighted_sum", 3, 4, Unweighted, 7},
		{"weighted_zero", 0, 0, Weighted, 0},
		{"weighted_doubles_fn", 3, 4, Weighted, 10},
		{"weighted_fp_only", 0, 5, Weighted, 5},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Cost(tc.fn, tc.fp, tc.mode); got != tc.want {
				t.Errorf("Cost(%d, %d, %s) = %d, want %d", tc.fn, tc.fp, tc.mode, got, tc.want)
			}
		})
	}
}

func TestWeightedCostNeverBelowUnweighted(t *testing.T) {
	for fn := 0; fn < 50; fn++ {
		for fp := 0; fp < 50; fp++ {
			w, u := Cost(fn, fp, Weighted), Cost(fn, fp, Unweighted)
			if w < u {
				t.Fatalf("weighted %d < unweighted %d for fn=%d fp=%d", w, u, fn, fp)
			}
		}
	}
}

func TestParseCostMode(t *testing.T) {
	testCases := []struct {
		input     string
		want      CostMode
		expectErr bool
	}{
		{"", Unweighted, false},
		{"unweighted", Unweighted, false},
		{" Weighted ", Weighted, false},
		{"weighted", Weighted, false},
		{"double", 0, true},
		{"2", 0, true},
	}
	for _, tc := range testCases {
		got, err := ParseCostMode(tc.input)
		if tc.expectErr {
			if !errors.Is(err, ErrInvalidCostMode) {
				t.Errorf("ParseCostMode(%q) error = %v, want ErrInvalidCostMode", tc.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCostMode(%q) unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseCostMode(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestCostModeString(t *testing.T) {
	if Unweighted.String() != "unweighted" || Weighted.String() != "weighted" {
		t.Errorf("unexpected names %q %q", Unweighted, Weighted)
	}
	if CostMode(7).Valid() {
		t.Error("CostMode(7) should not be valid")
	}
}
