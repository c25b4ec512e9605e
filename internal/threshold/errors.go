package threshold

import "errors"

var (
	// ErrEmptyDataset is returned by the scanners when no sample landed in
	// any bucket. A scan over nothing has no meaningful best threshold.
	ErrEmptyDataset = errors.New("threshold: dataset has no samples")

	// ErrInvalidCostMode rejects an unknown weighting mode.
	ErrInvalidCostMode = errors.New("threshold: invalid cost mode")

	// ErrOutOfRange is returned by Ingest in strict mode for samples whose
	// bucket key is outside the configured range.
	ErrOutOfRange = errors.New("threshold: sample outside bucket range")

	ErrInvalidLabel = errors.New("threshold: invalid label")
	ErrInvalidRange = errors.New("threshold: invalid key range")
)
