package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	_ "modernc.org/sqlite"

	"github.com/nicolasdeu/Tact/internal/adapters/metrics"
)

func openTimedTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "timed.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec("CREATE TABLE test (id TEXT PRIMARY KEY, val TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func recorded(t *testing.T, m *metrics.Metrics) int {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	total := 0
	for _, f := range families {
		if f.GetName() != "tact_store_query_duration_seconds" {
			continue
		}
		for _, metric := range f.GetMetric() {
			total += int(metric.GetHistogram().GetSampleCount())
		}
	}
	return total
}

// TestTimedDB_ExecContext verifies ExecContext records timing.
func TestTimedDB_ExecContext(t *testing.T) {
	m := metrics.New()
	tdb := NewTimedDB(openTimedTestDB(t), m, 0)

	_, err := tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello")
	if err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	if got := recorded(t, m); got != 1 {
		t.Errorf("recorded = %d, want 1", got)
	}
}

// TestTimedDB_QueryContext verifies QueryContext records timing.
func TestTimedDB_QueryContext(t *testing.T) {
	m := metrics.New()
	tdb := NewTimedDB(openTimedTestDB(t), m, 0)
	ctx := context.Background()

	tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello")

	rows, err := tdb.QueryContext(ctx, "SELECT id, val FROM test")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	count := 0
	for rows.Next() {
		count++
	}
	rows.Close()
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}
	// 1 exec + 1 query = 2 recorded
	if got := recorded(t, m); got != 2 {
		t.Errorf("recorded = %d, want 2", got)
	}
}

// TestTimedDB_QueryRowAndTx verifies QueryRowContext and BeginTx record timing.
func TestTimedDB_QueryRowAndTx(t *testing.T) {
	m := metrics.New()
	tdb := NewTimedDB(openTimedTestDB(t), m, time.Hour)
	ctx := context.Background()

	tx, err := tdb.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO test (id, val) VALUES ('1', 'a')"); err != nil {
		t.Fatalf("tx exec: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	var val string
	if err := tdb.QueryRowContext(ctx, "SELECT val FROM test WHERE id = ?", "1").Scan(&val); err != nil {
		t.Fatalf("QueryRowContext: %v", err)
	}
	if val != "a" {
		t.Errorf("val = %q, want a", val)
	}
	if got := recorded(t, m); got != 2 {
		t.Errorf("recorded = %d, want 2", got)
	}
	n, err := testutil.GatherAndCount(m.Registry(), "tact_store_query_duration_seconds")
	if err != nil {
		t.Fatalf("GatherAndCount: %v", err)
	}
	if n != 2 {
		t.Errorf("series = %d, want 2 (BeginTx, QueryRowContext)", n)
	}
}

// TestTimedDB_NilMetrics verifies a TimedDB works without instruments.
func TestTimedDB_NilMetrics(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), nil, 0)
	if _, err := tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES ('1', 'a')"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	if tdb.RawDB() == nil {
		t.Error("RawDB() = nil")
	}
}
