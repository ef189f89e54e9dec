package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kubetrim/kube-trim/pkg/measurement"
)

const schema = `
CREATE TABLE IF NOT EXISTS node_samples (
	ts          INTEGER NOT NULL,
	node        TEXT    NOT NULL,
	cpu_millis  INTEGER NOT NULL,
	memory_mib  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_node_samples_ts ON node_samples (ts);

CREATE TABLE IF NOT EXISTS pod_samples (
	ts                    INTEGER NOT NULL,
	namespace             TEXT    NOT NULL,
	pod                   TEXT    NOT NULL,
	cpu_millis            INTEGER NOT NULL,
	memory_mib            INTEGER NOT NULL,
	image                 TEXT    NOT NULL,
	requested_cpu_millis  INTEGER NOT NULL,
	requested_memory_mib  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pod_samples_ts ON pod_samples (ts);
`

// SQLite is a Store backed by a SQLite database file. It is safe for
// concurrent use; writes are serialized through WAL mode with a busy
// timeout.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if necessary) the database at path and
// ensures the schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store %q: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// AppendNodes implements Store.
func (s *SQLite) AppendNodes(ctx context.Context, samples []measurement.NodeSample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin node append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO node_samples (ts, node, cpu_millis, memory_mib) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare node append: %w", err)
	}
	defer stmt.Close()

	for _, sample := range samples {
		if _, err := stmt.ExecContext(ctx,
			sample.Timestamp.UnixNano(), sample.Node, sample.CPUMillis, sample.MemoryMiB); err != nil {
			return fmt.Errorf("append node sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit node append: %w", err)
	}

	storeAppendTotal.WithLabelValues("sqlite", "node").Add(float64(len(samples)))
	s.refreshSampleGauge(ctx, "node", "node_samples")
	return nil
}

// AppendPods implements Store.
func (s *SQLite) AppendPods(ctx context.Context, samples []measurement.PodSample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin pod append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pod_samples
		 (ts, namespace, pod, cpu_millis, memory_mib, image, requested_cpu_millis, requested_memory_mib)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare pod append: %w", err)
	}
	defer stmt.Close()

	for _, sample := range samples {
		if _, err := stmt.ExecContext(ctx,
			sample.Timestamp.UnixNano(), sample.Namespace, sample.Pod,
			sample.CPUMillis, sample.MemoryMiB, sample.Image,
			sample.RequestedCPUMillis, sample.RequestedMemoryMiB); err != nil {
			return fmt.Errorf("append pod sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit pod append: %w", err)
	}

	storeAppendTotal.WithLabelValues("sqlite", "pod").Add(float64(len(samples)))
	s.refreshSampleGauge(ctx, "pod", "pod_samples")
	return nil
}

// Nodes implements Store.
func (s *SQLite) Nodes(ctx context.Context) ([]measurement.NodeSample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ts, node, cpu_millis, memory_mib FROM node_samples ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query node samples: %w", err)
	}
	defer rows.Close()

	var out []measurement.NodeSample
	for rows.Next() {
		var ts int64
		var sample measurement.NodeSample
		if err := rows.Scan(&ts, &sample.Node, &sample.CPUMillis, &sample.MemoryMiB); err != nil {
			return nil, fmt.Errorf("scan node sample: %w", err)
		}
		sample.Timestamp = time.Unix(0, ts).UTC()
		out = append(out, sample)
	}

	return out, rows.Err()
}

// Pods implements Store.
func (s *SQLite) Pods(ctx context.Context) ([]measurement.PodSample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ts, namespace, pod, cpu_millis, memory_mib, image, requested_cpu_millis, requested_memory_mib
		 FROM pod_samples ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query pod samples: %w", err)
	}
	defer rows.Close()

	var out []measurement.PodSample
	for rows.Next() {
		var ts int64
		var sample measurement.PodSample
		if err := rows.Scan(&ts, &sample.Namespace, &sample.Pod,
			&sample.CPUMillis, &sample.MemoryMiB, &sample.Image,
			&sample.RequestedCPUMillis, &sample.RequestedMemoryMiB); err != nil {
			return nil, fmt.Errorf("scan pod sample: %w", err)
		}
		sample.Timestamp = time.Unix(0, ts).UTC()
		out = append(out, sample)
	}

	return out, rows.Err()
}

// Prune implements Store.
func (s *SQLite) Prune(ctx context.Context, cutoff time.Time) error {
	ts := cutoff.UnixNano()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM node_samples WHERE ts < ?`, ts); err != nil {
		return fmt.Errorf("prune node samples: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pod_samples WHERE ts < ?`, ts); err != nil {
		return fmt.Errorf("prune pod samples: %w", err)
	}
	s.refreshSampleGauge(ctx, "node", "node_samples")
	s.refreshSampleGauge(ctx, "pod", "pod_samples")
	return nil
}

// refreshSampleGauge keeps the retained-sample gauge in step with the
// database. A failed count leaves the gauge stale rather than failing the
// write that triggered it.
func (s *SQLite) refreshSampleGauge(ctx context.Context, kind, table string) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return
	}
	storeSamples.WithLabelValues("sqlite", kind).Set(float64(n))
}

// Close implements Store.
func (s *SQLite) Close() error {
	return s.db.Close()
}
