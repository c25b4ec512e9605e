package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/speed-threshold/internal/threshold"
	"github.com/banshee-data/speed-threshold/internal/units"
)

// DefaultConfigPath is the path to the canonical defaults file.
const DefaultConfigPath = "config/threshold.defaults.json"

const maxWorkers = 256

// ThresholdConfig is the configuration for a threshold run. Every field is
// optional; the Get* methods return the built-in default for unset fields,
// so partial files are safe.
type ThresholdConfig struct {
	// Bucket layout
	Step      *float64 `json:"step,omitempty"`
	RangeLow  *float64 `json:"range_low,omitempty"`
	RangeHigh *float64 `json:"range_high,omitempty"`

	// Scan
	CostMode *string `json:"cost_mode,omitempty"` // "unweighted" or "weighted"
	Workers  *int    `json:"workers,omitempty"`

	// Ingestion
	Strict     *bool   `json:"strict,omitempty"`
	InputUnits *string `json:"input_units,omitempty"`
	SkipHeader *bool   `json:"skip_header,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyThresholdConfig returns a ThresholdConfig with all fields unset.
func EmptyThresholdConfig() *ThresholdConfig {
	return &ThresholdConfig{}
}

// DefaultThresholdConfig returns a config with every field populated with
// its default value.
func DefaultThresholdConfig() *ThresholdConfig {
	return &ThresholdConfig{
		Step:       ptrFloat64(0.5),
		RangeLow:   ptrFloat64(45.0),
		RangeHigh:  ptrFloat64(80.0),
		CostMode:   ptrString("unweighted"),
		Workers:    ptrInt(1),
		Strict:     ptrBool(false),
		InputUnits: ptrString(units.MPH),
		SkipHeader: ptrBool(true),
	}
}

// LoadThresholdConfig loads a ThresholdConfig from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadThresholdConfig(path string) (*ThresholdConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyThresholdConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root. It panics if the file
// cannot be loaded and is intended for test setup.
func MustLoadDefaultConfig() *ThresholdConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadThresholdConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the configured values. An unknown cost mode is rejected
// here so that scans never see one.
func (c *ThresholdConfig) Validate() error {
	if err := c.KeyRange().Validate(); err != nil {
		return err
	}

	if c.CostMode != nil {
		if _, err := threshold.ParseCostMode(*c.CostMode); err != nil {
			return err
		}
	}

	if c.InputUnits != nil && *c.InputUnits != "" && !units.IsValid(*c.InputUnits) {
		return fmt.Errorf("input_units must be one of %s, got %q", units.GetValidUnitsString(), *c.InputUnits)
	}

	if c.Workers != nil && (*c.Workers < 1 || *c.Workers > maxWorkers) {
		return fmt.Errorf("workers must be between 1 and %d, got %d", maxWorkers, *c.Workers)
	}

	return nil
}

// KeyRange returns the bucket layout described by the config.
func (c *ThresholdConfig) KeyRange() threshold.KeyRange {
	return threshold.KeyRange{
		Low:  c.GetRangeLow(),
		High: c.GetRangeHigh(),
		Step: c.GetStep(),
	}
}

// GetStep returns the bucket width or the default.
func (c *ThresholdConfig) GetStep() float64 {
	if c.Step == nil {
		return 0.5 // default
	}
	return *c.Step
}

// GetRangeLow returns the lowest bucket key or the default.
func (c *ThresholdConfig) GetRangeLow() float64 {
	if c.RangeLow == nil {
		return 45.0 // default
	}
	return *c.RangeLow
}

// GetRangeHigh returns the highest bucket key or the default.
func (c *ThresholdConfig) GetRangeHigh() float64 {
	if c.RangeHigh == nil {
		return 80.0 // default
	}
	return *c.RangeHigh
}

// GetCostMode returns the parsed cost mode, falling back to Unweighted when
// unset or invalid. Call Validate to surface invalid values.
func (c *ThresholdConfig) GetCostMode() threshold.CostMode {
	if c.CostMode == nil {
		return threshold.Unweighted
	}
	mode, err := threshold.ParseCostMode(*c.CostMode)
	if err != nil {
		return threshold.Unweighted
	}
	return mode
}

// GetWorkers returns the scan parallelism or the default.
func (c *ThresholdConfig) GetWorkers() int {
	if c.Workers == nil {
		return 1 // default
	}
	return *c.Workers
}

// GetStrict returns the strict ingestion flag or the default.
func (c *ThresholdConfig) GetStrict() bool {
	if c.Strict == nil {
		return false // default
	}
	return *c.Strict
}

// GetInputUnits returns the unit of recorded speeds or the default.
func (c *ThresholdConfig) GetInputUnits() string {
	if c.InputUnits == nil || *c.InputUnits == "" {
		return units.MPH // default
	}
	return *c.InputUnits
}

// GetSkipHeader returns whether the first CSV record is a header.
func (c *ThresholdConfig) GetSkipHeader() bool {
	if c.SkipHeader == nil {
		return true // default
	}
	return *c.SkipHeader
}
