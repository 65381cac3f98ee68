package duckdb

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/inodb/peakmap/internal/mapper"
)

// FileFingerprint holds stat-based identity for an input file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file. Standard input
// ("-") yields a fingerprint carrying only the path.
func StatFile(path string) (FileFingerprint, error) {
	if path == "-" {
		return FileFingerprint{Path: path}, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Run describes one mapping invocation.
type Run struct {
	ID        string
	Genes     FileFingerprint
	Peaks     FileFingerprint
	Config    mapper.ConfigReport
	CreatedAt time.Time
}

// NewRun fingerprints the input files and assigns a fresh run id.
func NewRun(genesPath, peaksPath string, cfg mapper.Config) (Run, error) {
	genes, err := StatFile(genesPath)
	if err != nil {
		return Run{}, fmt.Errorf("stat gene file: %w", err)
	}
	peaks, err := StatFile(peaksPath)
	if err != nil {
		return Run{}, fmt.Errorf("stat peak file: %w", err)
	}
	return Run{
		ID:        uuid.NewString(),
		Genes:     genes,
		Peaks:     peaks,
		Config:    cfg.Report(),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Runs lists all stored runs, oldest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`SELECT
		run_id, genes_path, genes_size, genes_mtime,
		peaks_path, peaks_size, peaks_mtime,
		upstream_window, downstream_window, use_tss, report_intergenic,
		created_at
		FROM runs
		ORDER BY created_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.ID, &r.Genes.Path, &r.Genes.Size, &r.Genes.ModTime,
			&r.Peaks.Path, &r.Peaks.Size, &r.Peaks.ModTime,
			&r.Config.UpstreamWindow, &r.Config.DownstreamWindow,
			&r.Config.UseTSSForDownstream, &r.Config.ReportIntergenic,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
