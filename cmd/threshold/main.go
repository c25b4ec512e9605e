// Command threshold picks the speed above which a driver is classed as
// aggressive. It reads labelled speed samples from a CSV file or the SQLite
// sample store, scans every candidate threshold and prints the threshold
// with the lowest misclassification cost.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/banshee-data/speed-threshold/internal/config"
	"github.com/banshee-data/speed-threshold/internal/db"
	"github.com/banshee-data/speed-threshold/internal/plot"
	"github.com/banshee-data/speed-threshold/internal/samples"
	"github.com/banshee-data/speed-threshold/internal/threshold"
	"github.com/banshee-data/speed-threshold/internal/version"
)

var (
	configPath = flag.String("config", "", "Path to JSON config (empty uses built-in defaults)")
	inputPath  = flag.String("input", "", "CSV file of speed,label records")
	dbPath     = flag.String("db", "", "SQLite sample store; with -input the file is imported first")
	batchID    = flag.String("batch", "", "Import batch to scan from -db (empty scans every stored sample)")
	importOnly = flag.Bool("import", false, "Import -input into -db and exit without scanning")

	costModeFlag = flag.String("cost-mode", "", "Cost mode: unweighted or weighted (overrides config)")
	stepFlag     = flag.Float64("step", 0, "Bucket width in mph (overrides config)")
	lowFlag      = flag.Float64("low", 0, "Lowest bucket key in mph (overrides config)")
	highFlag     = flag.Float64("high", 0, "Highest bucket key in mph (overrides config)")
	strictFlag   = flag.Bool("strict", false, "Fail on samples outside the bucket range (overrides config)")
	workersFlag  = flag.Int("workers", 0, "Concurrent scan workers (overrides config)")
	unitsFlag    = flag.String("units", "", "Units of the CSV speed column: mph, kph or mps (overrides config)")

	pngDir      = flag.String("png-dir", "", "Directory to write cost_curve.png and roc_curve.png")
	htmlPath    = flag.String("html", "", "Write an interactive HTML report to this file")
	asciiFlag   = flag.Bool("ascii", false, "Print the cost curve as a terminal graph")
	tableFlag   = flag.Bool("table", false, "Print the ROC curve as a table")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, setFlags()); err != nil {
		log.Fatalf("threshold: %v", err)
	}
}

// setFlags returns the names of flags given on the command line.
func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func run(ctx context.Context, w io.Writer, set map[string]bool) error {
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg, set)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if *importOnly {
		return importCSV(w, cfg)
	}

	data, err := loadSamples(cfg)
	if err != nil {
		return err
	}

	var opts []threshold.Option
	if cfg.GetStrict() {
		opts = append(opts, threshold.WithStrict())
	}
	d, err := threshold.NewDataset(cfg.KeyRange(), opts...)
	if err != nil {
		return err
	}
	if err := d.IngestAll(data); err != nil {
		return err
	}

	result, err := threshold.ScanConcurrent(ctx, d, cfg.GetCostMode(), cfg.GetWorkers())
	if err != nil {
		return err
	}

	printSummary(w, threshold.Summarize(d, result))
	return writeOutputs(w, result)
}

func loadConfig(path string) (*config.ThresholdConfig, error) {
	if path == "" {
		return config.DefaultThresholdConfig(), nil
	}
	return config.LoadThresholdConfig(path)
}

// applyOverrides copies explicitly set flags into cfg.
func applyOverrides(cfg *config.ThresholdConfig, set map[string]bool) {
	if set["cost-mode"] {
		cfg.CostMode = ptr(*costModeFlag)
	}
	if set["step"] {
		cfg.Step = ptr(*stepFlag)
	}
	if set["low"] {
		cfg.RangeLow = ptr(*lowFlag)
	}
	if set["high"] {
		cfg.RangeHigh = ptr(*highFlag)
	}
	if set["strict"] {
		cfg.Strict = ptr(*strictFlag)
	}
	if set["workers"] {
		cfg.Workers = ptr(*workersFlag)
	}
	if set["units"] {
		cfg.InputUnits = ptr(*unitsFlag)
	}
}

func ptr[T any](v T) *T { return &v }

func csvOptions(cfg *config.ThresholdConfig) samples.Options {
	return samples.Options{SkipHeader: cfg.GetSkipHeader(), Units: cfg.GetInputUnits()}
}

func importCSV(w io.Writer, cfg *config.ThresholdConfig) error {
	if *inputPath == "" || *dbPath == "" {
		return errors.New("-import needs both -input and -db")
	}
	data, err := samples.ReadFile(*inputPath, csvOptions(cfg))
	if err != nil {
		return err
	}
	store, err := db.NewDB(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	batch, err := store.ImportSamples(filepath.Base(*inputPath), data)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Imported %d samples as batch %s\n", batch.SampleCount, batch.BatchID)
	return nil
}

// loadSamples reads the CSV input, the sample store or both. When both are
// given the CSV is imported and only that batch is scanned.
func loadSamples(cfg *config.ThresholdConfig) ([]threshold.Sample, error) {
	switch {
	case *inputPath != "" && *dbPath == "":
		return samples.ReadFile(*inputPath, csvOptions(cfg))
	case *dbPath != "":
		store, err := db.NewDB(*dbPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		batch := *batchID
		if *inputPath != "" {
			data, err := samples.ReadFile(*inputPath, csvOptions(cfg))
			if err != nil {
				return nil, err
			}
			b, err := store.ImportSamples(filepath.Base(*inputPath), data)
			if err != nil {
				return nil, err
			}
			batch = b.BatchID
		}
		return store.Samples(batch)
	default:
		return nil, errors.New("no samples: set -input or -db")
	}
}

func printSummary(w io.Writer, s threshold.Summary) {
	fmt.Fprintf(w, "Best threshold: %g mph\n", s.BestThreshold)
	fmt.Fprintf(w, "Cost (%s): %d\n", s.Mode, s.BestCost)
	fmt.Fprintf(w, "Aggressive drivers let through: %d\n", s.FalseAdmits)
	fmt.Fprintf(w, "Non-aggressive drivers stopped: %d\n", s.FalseStops)
	fmt.Fprintf(w, "Samples binned: %d (dropped %d)\n", s.Ingested, s.Dropped)
	for _, p := range []struct {
		name  string
		stats threshold.PopulationStats
	}{
		{"non-aggressive", s.Negatives},
		{"aggressive", s.Positives},
	} {
		if p.stats.Count == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-15s n=%d mean=%.2f sd=%.2f min=%.2f max=%.2f\n",
			p.name, p.stats.Count, p.stats.Mean, p.stats.StdDev, p.stats.Min, p.stats.Max)
	}
}

func writeOutputs(w io.Writer, result *threshold.ScanResult) error {
	if *pngDir != "" {
		if err := os.MkdirAll(*pngDir, 0o755); err != nil {
			return err
		}
		if err := plot.SaveCostCurvePNG(result, filepath.Join(*pngDir, "cost_curve.png")); err != nil {
			return err
		}
		if err := plot.SaveROCPNG(result, filepath.Join(*pngDir, "roc_curve.png")); err != nil {
			return err
		}
	}
	if *htmlPath != "" {
		f, err := os.Create(*htmlPath)
		if err != nil {
			return err
		}
		if err := plot.RenderHTML(f, result); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	if *asciiFlag {
		graph, err := plot.ASCIICostCurve(result, 0, 12)
		if err != nil {
			return err
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, graph)
	}
	if *tableFlag {
		fmt.Fprintln(w)
		if err := plot.WriteROCTable(w, result); err != nil {
			return err
		}
	}
	return nil
}
