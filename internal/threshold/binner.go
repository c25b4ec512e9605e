// Package threshold selects a single speed threshold separating two labelled
// populations. Samples are binned into fixed-width buckets, every bucket key
// is tried as a "flag if above" threshold, and the key with the lowest
// misclassification cost wins.
package threshold

import (
	"fmt"
	"math"

	"github.com/banshee-data/speed-threshold/internal/monitoring"
)

// Label identifies the population a sample belongs to.
type Label uint8

const (
	Negative Label = 0 // not a target (non-aggressive driver)
	Positive Label = 1 // target (aggressive driver)
)

// Valid reports whether l is one of the two known labels.
func (l Label) Valid() bool {
	return l == Negative || l == Positive
}

func (l Label) String() string {
	switch l {
	case Negative:
		return "negative"
	case Positive:
		return "positive"
	default:
		return fmt.Sprintf("label(%d)", uint8(l))
	}
}

// Sample is a single labelled measurement.
type Sample struct {
	Value float64
	Label Label
}

// maxBuckets bounds the number of keys a KeyRange may enumerate.
const maxBuckets = 10000

// KeyRange describes the pre-enumerated bucket keys: every multiple of Step
// between Low and High inclusive.
type KeyRange struct {
	Low  float64
	High float64
	Step float64
}

// DefaultKeyRange is 45 to 80 mph at half-mph resolution.
func DefaultKeyRange() KeyRange {
	return KeyRange{Low: 45, High: 80, Step: 0.5}
}

// Validate checks that the range enumerates at least one and at most
// maxBuckets keys.
func (r KeyRange) Validate() error {
	if math.IsNaN(r.Step) || math.IsInf(r.Step, 0) || r.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %f", ErrInvalidRange, r.Step)
	}
	if math.IsNaN(r.Low) || math.IsNaN(r.High) || math.IsInf(r.Low, 0) || math.IsInf(r.High, 0) {
		return fmt.Errorf("%w: bounds must be finite, got [%f, %f]", ErrInvalidRange, r.Low, r.High)
	}
	if r.Low > r.High {
		return fmt.Errorf("%w: low %f is above high %f", ErrInvalidRange, r.Low, r.High)
	}
	n := math.RoundToEven(r.High/r.Step) - math.RoundToEven(r.Low/r.Step) + 1
	if n > maxBuckets {
		return fmt.Errorf("%w: %.0f buckets exceeds limit of %d", ErrInvalidRange, n, maxBuckets)
	}
	return nil
}

// Keys returns the bucket keys in ascending order. It returns nil for an
// invalid range.
func (r KeyRange) Keys() []float64 {
	if r.Validate() != nil {
		return nil
	}
	lo, hi := r.firstIndex(), r.lastIndex()
	keys := make([]float64, 0, hi-lo+1)
	for k := lo; k <= hi; k++ {
		keys = append(keys, float64(k)*r.Step)
	}
	return keys
}

func (r KeyRange) firstIndex() int { return int(math.RoundToEven(r.Low / r.Step)) }
func (r KeyRange) lastIndex() int  { return int(math.RoundToEven(r.High / r.Step)) }

// BucketKey returns the key of the bucket value falls into: value rounded to
// the nearest multiple of step, halves going to the even multiple.
func BucketKey(value, step float64) float64 {
	return math.RoundToEven(value/step) * step
}

// Bucket holds the raw values of every sample whose bucket key equals Key,
// split by label in ingestion order.
type Bucket struct {
	Key       float64
	Negatives []float64
	Positives []float64
}

// Values returns the sequence for label l.
func (b *Bucket) Values(l Label) []float64 {
	if l == Positive {
		return b.Positives
	}
	return b.Negatives
}

// Count returns the number of samples with label l in the bucket.
func (b *Bucket) Count(l Label) int {
	return len(b.Values(l))
}

// Dataset is the bucketed form of a sample set. Buckets are ordered by
// ascending key and exist for every key of the range, whether or not any
// sample landed in them.
//
// A Dataset is not safe for concurrent Ingest. Once ingestion is finished it
// is read-only and may be scanned from multiple goroutines.
type Dataset struct {
	keys    KeyRange
	first   int
	buckets []*Bucket
	strict  bool

	ingested int
	dropped  int
}

// Option configures a Dataset.
type Option func(*Dataset)

// WithStrict makes Ingest fail with ErrOutOfRange instead of dropping
// samples outside the range.
func WithStrict() Option {
	return func(d *Dataset) { d.strict = true }
}

// NewDataset creates an empty bucket for every key in r.
func NewDataset(r KeyRange, opts ...Option) (*Dataset, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	d := &Dataset{keys: r, first: r.firstIndex()}
	for _, k := range r.Keys() {
		d.buckets = append(d.buckets, &Bucket{Key: k})
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Range returns the key range the dataset was built with.
func (d *Dataset) Range() KeyRange { return d.keys }

// Buckets returns the buckets in ascending key order. Callers must not
// modify them.
func (d *Dataset) Buckets() []*Bucket {
	if d == nil {
		return nil
	}
	return d.buckets
}

// Len returns the number of buckets.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.buckets)
}

// Lookup returns the bucket for value's key, if it is in range.
func (d *Dataset) Lookup(value float64) (*Bucket, bool) {
	if d == nil {
		return nil, false
	}
	// Index arithmetic stays in float64 so that huge or NaN values fail the
	// bounds check instead of overflowing an int conversion.
	i := math.RoundToEven(value/d.keys.Step) - float64(d.first)
	if !(i >= 0 && i < float64(len(d.buckets))) {
		return nil, false
	}
	return d.buckets[int(i)], true
}

// Ingest appends s to the bucket its value rounds into. Samples outside the
// range are counted as dropped, or rejected with ErrOutOfRange in strict
// mode.
func (d *Dataset) Ingest(s Sample) error {
	if !s.Label.Valid() {
		return fmt.Errorf("%w: %d for value %f", ErrInvalidLabel, s.Label, s.Value)
	}
	b, ok := d.Lookup(s.Value)
	if !ok {
		if d.strict {
			return fmt.Errorf("%w: %f (key %f) not in [%f, %f]", ErrOutOfRange,
				s.Value, BucketKey(s.Value, d.keys.Step), d.keys.Low, d.keys.High)
		}
		d.dropped++
		return nil
	}
	if s.Label == Positive {
		b.Positives = append(b.Positives, s.Value)
	} else {
		b.Negatives = append(b.Negatives, s.Value)
	}
	d.ingested++
	return nil
}

// IngestAll ingests samples in order and stops at the first error. A summary
// warning is logged when samples were dropped.
func (d *Dataset) IngestAll(samples []Sample) error {
	droppedBefore := d.dropped
	for i, s := range samples {
		if err := d.Ingest(s); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
	}
	if n := d.dropped - droppedBefore; n > 0 {
		monitoring.Warnf("dropped %d of %d samples outside [%.2f, %.2f]",
			n, len(samples), d.keys.Low, d.keys.High)
	}
	return nil
}

// Total returns the number of samples held in buckets.
func (d *Dataset) Total() int {
	if d == nil {
		return 0
	}
	return d.ingested
}

// Dropped returns the number of out-of-range samples discarded by Ingest.
func (d *Dataset) Dropped() int {
	if d == nil {
		return 0
	}
	return d.dropped
}

// Count returns the number of ingested samples with label l.
func (d *Dataset) Count(l Label) int {
	n := 0
	for _, b := range d.Buckets() {
		n += b.Count(l)
	}
	return n
}
