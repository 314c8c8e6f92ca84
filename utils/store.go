package utils

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ruinedyourlife/netcode/utils/netcode"
)

// Store keeps parse runs in SQLite: one row per run, per parsed packet and
// per failed unit.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens or creates the database at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source_dir TEXT NOT NULL,
			started_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS packets (
			run_id TEXT NOT NULL REFERENCES runs(id),
			source TEXT NOT NULL,
			initial_name TEXT NOT NULL,
			name TEXT NOT NULL,
			packet_id INTEGER NOT NULL,
			schema TEXT NOT NULL,
			PRIMARY KEY (run_id, source)
		);
		CREATE INDEX IF NOT EXISTS idx_packets_id ON packets(run_id, packet_id);
		CREATE TABLE IF NOT EXISTS failures (
			run_id TEXT NOT NULL REFERENCES runs(id),
			source TEXT NOT NULL,
			kind TEXT NOT NULL,
			line_no INTEGER NOT NULL DEFAULT 0,
			line TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL,
			PRIMARY KEY (run_id, source)
		);
	`
	_, err := db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Run identifies one batch stored in the database.
type Run struct {
	ID        string
	SourceDir string
	StartedAt time.Time
}

func (s *Store) BeginRun(sourceDir string) (*Run, error) {
	run := &Run{ID: uuid.NewString(), SourceDir: sourceDir, StartedAt: time.Now()}
	_, err := s.db.Exec(`INSERT INTO runs (id, source_dir, started_at) VALUES (?, ?, ?)`,
		run.ID, run.SourceDir, run.StartedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	return run, nil
}

func (s *Store) SavePacket(run *Run, source string, schema *netcode.PacketSchema) error {
	data, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", schema.InitialName, err)
	}
	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO packets (run_id, source, initial_name, name, packet_id, schema)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, source, schema.InitialName, schema.Name, schema.ID, string(data))
	return err
}

func (s *Store) RecordFailure(run *Run, source string, failure error) error {
	kind := "io error"
	var lineNo int
	var line string
	var pe *netcode.ParseError
	if errors.As(failure, &pe) {
		kind = pe.Kind.Error()
		lineNo = pe.LineNo
		line = pe.Line
	}
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO failures (run_id, source, kind, line_no, line, message)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, source, kind, lineNo, line, failure.Error())
	return err
}

// SaveBatch stores every parsed packet and failure of a batch. Skipped
// units are not stored.
func (s *Store) SaveBatch(run *Run, batch *Batch) error {
	for _, o := range batch.Outcomes {
		var err error
		switch {
		case o.Err != nil:
			err = s.RecordFailure(run, o.Source, o.Err)
		case o.Schema != nil:
			err = s.SavePacket(run, o.Source, o.Schema)
		}
		if err != nil {
			return fmt.Errorf("storing %s: %w", o.Source, err)
		}
	}
	return nil
}

// Packets returns the packets of a run ordered by source path.
func (s *Store) Packets(run *Run) ([]*netcode.PacketSchema, error) {
	rows, err := s.db.Query(`SELECT schema FROM packets WHERE run_id = ? ORDER BY source`, run.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var packets []*netcode.PacketSchema
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var schema netcode.PacketSchema
		if err := json.Unmarshal([]byte(raw), &schema); err != nil {
			return nil, fmt.Errorf("decoding stored packet: %w", err)
		}
		packets = append(packets, &schema)
	}
	return packets, rows.Err()
}

// FailureCounts returns the number of failures per error kind for a run.
func (s *Store) FailureCounts(run *Run) (map[string]int, error) {
	rows, err := s.db.Query(`SELECT kind, COUNT(*) FROM failures WHERE run_id = ? GROUP BY kind`, run.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}
