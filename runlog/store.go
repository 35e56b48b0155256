// Package runlog persists a record of every planning run: how many
// sources were used, the renal flags, and whether the synthesis fell
// back to the default protocol.
//
// Writes are asynchronous and batched; a full buffer drops records
// rather than blocking a planning run. A remote forwarder and matching
// ingest handler let a frontend process ship its run records to a
// central store.
package runlog

import (
	"database/sql"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/smartmri/planner/recommend"
)

// Schema for the runs table. Call Store.Init() or apply manually.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	sources_total INTEGER NOT NULL,
	sources_ok INTEGER NOT NULL,
	egfr REAL,
	reduced_renal_function INTEGER NOT NULL,
	contrast_contraindicated INTEGER NOT NULL,
	synthesis_fallback INTEGER NOT NULL,
	error TEXT
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id);
`

// Entry is one persisted run record.
type Entry struct {
	RunID                   string   `json:"run_id"`
	StartedAt               int64    `json:"started_at"` // unix milliseconds
	DurationMs              int64    `json:"duration_ms"`
	SourcesTotal            int      `json:"sources_total"`
	SourcesOK               int      `json:"sources_ok"`
	EGFR                    *float64 `json:"egfr,omitempty"`
	ReducedRenalFunction    bool     `json:"reduced_renal_function"`
	ContrastContraindicated bool     `json:"contrast_contraindicated"`
	SynthesisFallback       bool     `json:"synthesis_fallback"`
	Error                   string   `json:"error,omitempty"`
}

// FromReport converts a planner report into a run entry.
func FromReport(r recommend.Report) *Entry {
	return &Entry{
		RunID:                   r.RunID,
		StartedAt:               r.StartedAt.UnixMilli(),
		DurationMs:              r.Duration.Milliseconds(),
		SourcesTotal:            r.SourcesTotal,
		SourcesOK:               r.SourcesOK,
		EGFR:                    r.EGFR,
		ReducedRenalFunction:    r.ReducedRenalFunction,
		ContrastContraindicated: r.ContrastContraindicated,
		SynthesisFallback:       r.SynthesisFallback,
		Error:                   r.Err,
	}
}

// Store persists run entries to a SQLite table asynchronously.
type Store struct {
	db   *sql.DB
	ch   chan *Entry
	done chan struct{}
	once sync.Once
}

// Open opens the SQLite database at path and starts the flush loop.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := NewStore(db)
	if err := s.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore creates a run store backed by the given database connection.
func NewStore(db *sql.DB) *Store {
	s := &Store{
		db:   db,
		ch:   make(chan *Entry, 1024),
		done: make(chan struct{}),
	}
	go s.flushLoop()
	return s
}

// Init creates the runs table if it doesn't exist.
func (s *Store) Init() error {
	_, err := s.db.Exec(Schema)
	return err
}

// RecordAsync queues an entry for async persistence. Non-blocking; drops
// if the buffer is full.
func (s *Store) RecordAsync(e *Entry) {
	select {
	case s.ch <- e:
	default:
		// buffer full — drop rather than stall a planning run
	}
}

// Recent returns the latest n run entries, newest first.
func (s *Store) Recent(n int) ([]*Entry, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := s.db.Query(`SELECT run_id, started_at, duration_ms, sources_total, sources_ok,
		egfr, reduced_renal_function, contrast_contraindicated, synthesis_fallback, COALESCE(error, '')
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		var e Entry
		var egfr sql.NullFloat64
		if err := rows.Scan(&e.RunID, &e.StartedAt, &e.DurationMs, &e.SourcesTotal, &e.SourcesOK,
			&egfr, &e.ReducedRenalFunction, &e.ContrastContraindicated, &e.SynthesisFallback, &e.Error); err != nil {
			return nil, err
		}
		if egfr.Valid {
			v := egfr.Float64
			e.EGFR = &v
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Close drains the buffer, stops the flush goroutine, and closes the
// database.
func (s *Store) Close() error {
	s.once.Do(func() {
		close(s.ch)
		<-s.done
	})
	return s.db.Close()
}

func (s *Store) flushLoop() {
	defer close(s.done)

	batch := make([]*Entry, 0, 64)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-s.ch:
			if !ok {
				s.flushBatch(batch)
				return
			}
			batch = append(batch, e)
			if len(batch) >= 64 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *Store) flushBatch(batch []*Entry) {
	if len(batch) == 0 {
		return
	}

	tx, err := s.db.Begin()
	if err != nil {
		slog.Error("runlog: begin tx", "error", err)
		return
	}

	stmt, err := tx.Prepare(`INSERT INTO runs (run_id, started_at, duration_ms, sources_total, sources_ok,
		egfr, reduced_renal_function, contrast_contraindicated, synthesis_fallback, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		slog.Error("runlog: prepare", "error", err)
		return
	}
	defer stmt.Close()

	for _, e := range batch {
		var egfr any
		if e.EGFR != nil {
			egfr = *e.EGFR
		}
		if _, err := stmt.Exec(e.RunID, e.StartedAt, e.DurationMs, e.SourcesTotal, e.SourcesOK,
			egfr, e.ReducedRenalFunction, e.ContrastContraindicated, e.SynthesisFallback, e.Error); err != nil {
			slog.Error("runlog: insert", "error", err)
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("runlog: commit", "error", err)
	}
}
