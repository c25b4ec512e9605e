// Package samples reads labelled speed samples from delimited files.
package samples

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/speed-threshold/internal/threshold"
	"github.com/banshee-data/speed-threshold/internal/units"
)

// Options controls how records are interpreted.
type Options struct {
	// SkipHeader discards the first record.
	SkipHeader bool
	// Units is the unit speeds are recorded in. Values are converted to mph.
	// Empty means mph.
	Units string
}

// ReadCSV parses records of the form speed,label where label is 0 or 1.
// Extra columns are ignored. Errors name the offending line.
func ReadCSV(r io.Reader, opts Options) ([]threshold.Sample, error) {
	from := opts.Units
	if from == "" {
		from = units.MPH
	}
	if !units.IsValid(from) {
		return nil, fmt.Errorf("invalid units %q: must be one of %s", from, units.GetValidUnitsString())
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var out []threshold.Sample
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if first {
			first = false
			if opts.SkipHeader {
				continue
			}
		}
		s, err := parseRecord(rec, from)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// ReadFile opens path and parses it with ReadCSV.
func ReadFile(path string, opts Options) ([]threshold.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open samples: %w", err)
	}
	defer f.Close()

	out, err := ReadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func parseRecord(rec []string, from string) (threshold.Sample, error) {
	if len(rec) < 2 {
		return threshold.Sample{}, fmt.Errorf("expected speed,label; got %d field(s)", len(rec))
	}
	speed, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
	if err != nil {
		return threshold.Sample{}, fmt.Errorf("invalid speed %q: %w", rec[0], err)
	}
	speed, err = units.Convert(speed, from, units.MPH)
	if err != nil {
		return threshold.Sample{}, err
	}
	label, err := strconv.Atoi(strings.TrimSpace(rec[1]))
	if err != nil {
		return threshold.Sample{}, fmt.Errorf("invalid label %q: %w", rec[1], err)
	}
	if label != int(threshold.Negative) && label != int(threshold.Positive) {
		return threshold.Sample{}, fmt.Errorf("%w: %d", threshold.ErrInvalidLabel, label)
	}
	return threshold.Sample{Value: speed, Label: threshold.Label(label)}, nil
}
