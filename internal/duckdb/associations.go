package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/peakmap/internal/mapper"
)

// AssociationRow is one stored peak-gene pair. Intergenic peaks are stored
// with mapper.IntergenicGene as gene name and a zero window.
type AssociationRow struct {
	RunID       string
	PeakID      string
	Chrom       string
	Start       int64
	End         int64
	GeneName    string
	Symbol      string
	WindowStart int64
	WindowEnd   int64
	Intergenic  bool
}

// WriteRun records run metadata and batch-inserts the associations of res
// using the Appender API. If appending fails the run is removed again, so a
// stored run always carries its complete association set.
func (s *Store) WriteRun(run Run, res *mapper.Result) error {
	if _, err := s.db.Exec(`INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Genes.Path, run.Genes.Size, run.Genes.ModTime,
		run.Peaks.Path, run.Peaks.Size, run.Peaks.ModTime,
		run.Config.UpstreamWindow, run.Config.DownstreamWindow,
		run.Config.UseTSSForDownstream, run.Config.ReportIntergenic,
		run.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if err := s.appendAssociations(run.ID, res); err != nil {
		if derr := s.DeleteRun(run.ID); derr != nil {
			return fmt.Errorf("%w (cleanup failed: %v)", err, derr)
		}
		return err
	}
	return nil
}

func (s *Store) appendAssociations(runID string, res *mapper.Result) error {
	if len(res.Associations) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "associations")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for i, a := range res.Associations {
		p := a.Peak
		if a.Intergenic() {
			if err := appender.AppendRow(
				runID, int64(i), int32(0), p.ID, p.Chrom(), p.Interval.Start, p.Interval.End,
				mapper.IntergenicGene, "", int64(0), int64(0), true,
			); err != nil {
				return fmt.Errorf("append association: %w", err)
			}
			continue
		}
		for rank, h := range a.Hits {
			if err := appender.AppendRow(
				runID, int64(i), int32(rank), p.ID, p.Chrom(), p.Interval.Start, p.Interval.End,
				h.Gene.Name, h.Gene.Symbol, h.Window.Start, h.Window.End, false,
			); err != nil {
				return fmt.Errorf("append association: %w", err)
			}
		}
	}

	if err := appender.Flush(); err != nil {
		return fmt.Errorf("flush associations: %w", err)
	}
	return nil
}

// DeleteRun removes a run and its associations.
func (s *Store) DeleteRun(runID string) error {
	if _, err := s.db.Exec("DELETE FROM associations WHERE run_id=?", runID); err != nil {
		return fmt.Errorf("delete associations: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM runs WHERE run_id=?", runID); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

const associationColumns = `run_id, peak_id, chrom, peak_start, peak_end,
		gene_name, symbol, window_start, window_end, intergenic`

// LookupPeak returns the stored genes of a peak within one run, in the
// order they were reported.
func (s *Store) LookupPeak(runID, peakID string) ([]AssociationRow, error) {
	rows, err := s.db.Query(`SELECT `+associationColumns+`
		FROM associations
		WHERE run_id=? AND peak_id=?
		ORDER BY peak_index, hit_rank`, runID, peakID)
	if err != nil {
		return nil, fmt.Errorf("query peak: %w", err)
	}
	defer rows.Close()

	return scanAssociations(rows)
}

// SearchByGene returns every stored peak mapped to a gene, across runs.
func (s *Store) SearchByGene(geneName string) ([]AssociationRow, error) {
	rows, err := s.db.Query(`SELECT `+associationColumns+`
		FROM associations
		WHERE gene_name=?
		ORDER BY run_id, peak_index, hit_rank`, geneName)
	if err != nil {
		return nil, fmt.Errorf("query by gene: %w", err)
	}
	defer rows.Close()

	return scanAssociations(rows)
}

// scanAssociations scans rows into AssociationRow slices.
func scanAssociations(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]AssociationRow, error) {
	var out []AssociationRow
	for rows.Next() {
		var r AssociationRow
		if err := rows.Scan(
			&r.RunID, &r.PeakID, &r.Chrom, &r.Start, &r.End,
			&r.GeneName, &r.Symbol, &r.WindowStart, &r.WindowEnd, &r.Intergenic,
		); err != nil {
			return nil, fmt.Errorf("scan association: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate associations: %w", err)
	}
	return out, nil
}
