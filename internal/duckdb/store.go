// Package duckdb stores mapping runs and their peak-gene associations in
// DuckDB so results can be queried after the fact.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding mapping results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, empty for an in-memory database.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		run_id VARCHAR PRIMARY KEY,
		genes_path VARCHAR,
		genes_size BIGINT,
		genes_mtime TIMESTAMP,
		peaks_path VARCHAR,
		peaks_size BIGINT,
		peaks_mtime TIMESTAMP,
		upstream_window BIGINT,
		downstream_window BIGINT,
		use_tss BOOLEAN,
		report_intergenic BOOLEAN,
		created_at TIMESTAMP
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS associations (
		run_id VARCHAR,
		peak_index BIGINT,
		hit_rank INTEGER,
		peak_id VARCHAR,
		chrom VARCHAR,
		peak_start BIGINT,
		peak_end BIGINT,
		gene_name VARCHAR,
		symbol VARCHAR,
		window_start BIGINT,
		window_end BIGINT,
		intergenic BOOLEAN
	)`)
	return err
}
