package threshold

import (
	"fmt"
	"strings"
)

// CostMode selects how missed positives are weighted against false alarms.
type CostMode int

const (
	// Unweighted counts every misclassification once.
	Unweighted CostMode = iota
	// Weighted counts a missed positive twice.
	Weighted
)

func (m CostMode) String() string {
	switch m {
	case Unweighted:
		return "unweighted"
	case Weighted:
		return "weighted"
	default:
		return fmt.Sprintf("CostMode(%d)", int(m))
	}
}

// Valid reports whether m is a known mode.
func (m CostMode) Valid() bool {
	return m == Unweighted || m == Weighted
}

// ParseCostMode maps a configuration string to a CostMode. The empty string
// selects Unweighted.
func ParseCostMode(s string) (CostMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unweighted":
		return Unweighted, nil
	case "weighted":
		return Weighted, nil
	default:
		return 0, fmt.Errorf("%w %q: expected unweighted or weighted", ErrInvalidCostMode, s)
	}
}

// Cost is the misclassification cost of a threshold with the given false
// negative and false positive counts.
func Cost(falseNegatives, falsePositives int, mode CostMode) int {
	if mode == Weighted {
		return 2*falseNegatives + falsePositives
	}
	return falseNegatives + falsePositives
}
