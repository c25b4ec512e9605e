package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/speed-threshold/internal/monitoring"
	"github.com/banshee-data/speed-threshold/internal/threshold"
)

// Batch describes one import of labelled samples.
type Batch struct {
	BatchID     string    `json:"batch_id"`
	Source      string    `json:"source"`
	SampleCount int       `json:"sample_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// ImportSamples stores samples in a new batch and returns it. Speeds are
// stored as given, which callers keep in mph. The whole batch is written in
// one transaction.
func (db *DB) ImportSamples(source string, samples []threshold.Sample) (*Batch, error) {
	b := &Batch{
		BatchID:     uuid.New().String(),
		Source:      source,
		SampleCount: len(samples),
		CreatedAt:   db.clock.Now(),
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO import_batches (batch_id, source, sample_count, created_at) VALUES (?, ?, ?, ?)`,
		b.BatchID, b.Source, b.SampleCount, b.CreatedAt.UnixNano(),
	); err != nil {
		return nil, fmt.Errorf("insert batch: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO labelled_speeds (batch_id, speed_mph, label) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range samples {
		if !s.Label.Valid() {
			return nil, fmt.Errorf("sample %d: %w: %d", i, threshold.ErrInvalidLabel, s.Label)
		}
		if _, err := stmt.Exec(b.BatchID, s.Value, int(s.Label)); err != nil {
			return nil, fmt.Errorf("insert sample %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	monitoring.Logf("imported %d samples from %s as batch %s", b.SampleCount, source, b.BatchID)
	return b, nil
}

// Samples returns the samples of batchID in import order. An empty batchID
// returns every stored sample.
func (db *DB) Samples(batchID string) ([]threshold.Sample, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if batchID == "" {
		rows, err = db.Query(`SELECT speed_mph, label FROM labelled_speeds ORDER BY sample_id`)
	} else {
		rows, err = db.Query(`SELECT speed_mph, label FROM labelled_speeds WHERE batch_id = ? ORDER BY sample_id`, batchID)
	}
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var out []threshold.Sample
	for rows.Next() {
		var (
			speed float64
			label int
		)
		if err := rows.Scan(&speed, &label); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		out = append(out, threshold.Sample{Value: speed, Label: threshold.Label(label)})
	}
	return out, rows.Err()
}

// Batches lists imports, newest first.
func (db *DB) Batches() ([]Batch, error) {
	rows, err := db.Query(`
		SELECT batch_id, source, sample_count, created_at
		FROM import_batches
		ORDER BY created_at DESC, batch_id`)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		var (
			b         Batch
			createdAt int64
		)
		if err := rows.Scan(&b.BatchID, &b.Source, &b.SampleCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		b.CreatedAt = time.Unix(0, createdAt)
		out = append(out, b)
	}
	return out, rows.Err()
}

// DeleteBatch removes a batch and its samples.
func (db *DB) DeleteBatch(batchID string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM labelled_speeds WHERE batch_id = ?`, batchID); err != nil {
		return fmt.Errorf("delete samples: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM import_batches WHERE batch_id = ?`, batchID)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("batch %s not found", batchID)
	}
	return tx.Commit()
}
