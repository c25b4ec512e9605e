package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/speed-threshold/internal/testutil"
	"github.com/banshee-data/speed-threshold/internal/threshold"
)

func TestDefaultThresholdConfig(t *testing.T) {
	cfg := DefaultThresholdConfig()

	if cfg.Step == nil || *cfg.Step != 0.5 {
		t.Errorf("Expected Step 0.5, got %v", cfg.Step)
	}
	if cfg.CostMode == nil || *cfg.CostMode != "unweighted" {
		t.Errorf("Expected CostMode 'unweighted', got %v", cfg.CostMode)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if got := cfg.KeyRange(); got != threshold.DefaultKeyRange() {
		t.Errorf("KeyRange() = %+v, want %+v", got, threshold.DefaultKeyRange())
	}
	if cfg.GetCostMode() != threshold.Unweighted {
		t.Errorf("GetCostMode() = %s, want unweighted", cfg.GetCostMode())
	}
}

func TestEmptyConfigGettersMatchDefaults(t *testing.T) {
	empty := EmptyThresholdConfig()
	def := DefaultThresholdConfig()

	if empty.KeyRange() != def.KeyRange() {
		t.Errorf("KeyRange mismatch: %+v vs %+v", empty.KeyRange(), def.KeyRange())
	}
	if empty.GetCostMode() != def.GetCostMode() {
		t.Errorf("GetCostMode mismatch")
	}
	if empty.GetWorkers() != def.GetWorkers() {
		t.Errorf("GetWorkers mismatch: %d vs %d", empty.GetWorkers(), def.GetWorkers())
	}
	if empty.GetStrict() != def.GetStrict() {
		t.Errorf("GetStrict mismatch")
	}
	if empty.GetInputUnits() != def.GetInputUnits() {
		t.Errorf("GetInputUnits mismatch: %s vs %s", empty.GetInputUnits(), def.GetInputUnits())
	}
	if empty.GetSkipHeader() != def.GetSkipHeader() {
		t.Errorf("GetSkipHeader mismatch")
	}
}

func TestLoadThresholdConfig(t *testing.T) {
	path := testutil.WriteFile(t, "run.json", `{
  "step": 1.0,
  "range_low": 20,
  "range_high": 40,
  "cost_mode": "weighted",
  "strict": true,
  "input_units": "kph",
  "workers": 4
}`)

	cfg, err := LoadThresholdConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if got, want := cfg.KeyRange(), (threshold.KeyRange{Low: 20, High: 40, Step: 1}); got != want {
		t.Errorf("KeyRange() = %+v, want %+v", got, want)
	}
	if cfg.GetCostMode() != threshold.Weighted {
		t.Errorf("GetCostMode() = %s, want weighted", cfg.GetCostMode())
	}
	if !cfg.GetStrict() {
		t.Error("Expected strict true")
	}
	if cfg.GetInputUnits() != "kph" {
		t.Errorf("GetInputUnits() = %s, want kph", cfg.GetInputUnits())
	}
	if cfg.GetWorkers() != 4 {
		t.Errorf("GetWorkers() = %d, want 4", cfg.GetWorkers())
	}
	// unset field keeps its default
	if !cfg.GetSkipHeader() {
		t.Error("Expected skip_header default true")
	}
}

func TestLoadThresholdConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"wrong_extension", "run.yaml", `{}`, ".json extension"},
		{"bad_json", "run.json", `{"step": "wide"`, "parse config JSON"},
		{"bad_cost_mode", "run.json", `{"cost_mode": "triple"}`, "invalid cost mode"},
		{"bad_range", "run.json", `{"range_low": 90, "range_high": 80}`, "invalid key range"},
		{"zero_step", "run.json", `{"step": 0}`, "step must be positive"},
		{"bad_units", "run.json", `{"input_units": "knots"}`, "input_units"},
		{"bad_workers", "run.json", `{"workers": 0}`, "workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, tt.file, tt.content)
			_, err := LoadThresholdConfig(path)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadThresholdConfigMissing(t *testing.T) {
	_, err := LoadThresholdConfig("/nonexistent/path/to/config.json")
	if err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadThresholdConfigTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.json")
	big := make([]byte, 1024*1024+1)
	for i := range big {
		big[i] = ' '
	}
	if err := os.WriteFile(path, big, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadThresholdConfig(path); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected too large error, got %v", err)
	}
}

func TestValidateRejectsCostModeAtConfigTime(t *testing.T) {
	cfg := EmptyThresholdConfig()
	cfg.CostMode = ptrString("lopsided")

	err := cfg.Validate()
	if !errors.Is(err, threshold.ErrInvalidCostMode) {
		t.Fatalf("Validate() = %v, want ErrInvalidCostMode", err)
	}
	// the getter stays total
	if cfg.GetCostMode() != threshold.Unweighted {
		t.Errorf("GetCostMode() fallback = %s", cfg.GetCostMode())
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	def := DefaultThresholdConfig()

	if cfg.KeyRange() != def.KeyRange() {
		t.Errorf("defaults file range %+v differs from built-in %+v", cfg.KeyRange(), def.KeyRange())
	}
	if cfg.GetCostMode() != def.GetCostMode() || cfg.GetInputUnits() != def.GetInputUnits() ||
		cfg.GetSkipHeader() != def.GetSkipHeader() || cfg.GetStrict() != def.GetStrict() ||
		cfg.GetWorkers() != def.GetWorkers() {
		t.Errorf("defaults file disagrees with DefaultThresholdConfig")
	}
}
