package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/inodb/peakmap/internal/duckdb"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Query associations stored with map --db",
		Example: `  peakmap db runs results.duckdb
  peakmap db peak results.duckdb <run-id> peak_17
  peakmap db gene results.duckdb uc001aaa.3
  peakmap db delete results.duckdb <run-id>`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "runs <db>",
		Short: "List stored runs",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(args[0], func(s *duckdb.Store) error {
				runs, err := s.Runs()
				if err != nil {
					return err
				}
				return writeRuns(cmd.OutOrStdout(), runs)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "peak <db> <run-id> <peak-id>",
		Short: "Show the genes a peak was mapped to in one run",
		Args:  exactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(args[0], func(s *duckdb.Store) error {
				rows, err := s.LookupPeak(args[1], args[2])
				if err != nil {
					return err
				}
				return writeAssociationRows(cmd.OutOrStdout(), rows)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "gene <db> <gene-id>",
		Short: "Show every stored peak mapped to a gene",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(args[0], func(s *duckdb.Store) error {
				rows, err := s.SearchByGene(args[1])
				if err != nil {
					return err
				}
				return writeAssociationRows(cmd.OutOrStdout(), rows)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <db> <run-id>",
		Short: "Remove a run and its associations",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(args[0], func(s *duckdb.Store) error {
				if err := s.DeleteRun(args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s from %s\n", args[1], s.Path())
				return nil
			})
		},
	})

	return cmd
}

// withStore opens an existing database; querying must not create one.
func withStore(path string, fn func(s *duckdb.Store) error) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	s, err := duckdb.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func writeRuns(w io.Writer, runs []duckdb.Run) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("#run_id\tcreated_at\tgenes\tpeaks\tupstream_window\tdownstream_window\ttss\tintergenic\n")
	for _, r := range runs {
		bw.WriteString(strings.Join([]string{
			r.ID,
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.Genes.Path,
			r.Peaks.Path,
			strconv.FormatInt(r.Config.UpstreamWindow, 10),
			strconv.FormatInt(r.Config.DownstreamWindow, 10),
			strconv.FormatBool(r.Config.UseTSSForDownstream),
			strconv.FormatBool(r.Config.ReportIntergenic),
		}, "\t") + "\n")
	}
	return bw.Flush()
}

func writeAssociationRows(w io.Writer, rows []duckdb.AssociationRow) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("#run_id\tgene_id\tsymbol\tchrom\tstart\tend\tpeak_id\twindow_start\twindow_end\n")
	for _, r := range rows {
		symbol, windowStart, windowEnd := r.Symbol, "-", "-"
		if symbol == "" {
			symbol = "-"
		}
		if !r.Intergenic {
			windowStart = strconv.FormatInt(r.WindowStart, 10)
			windowEnd = strconv.FormatInt(r.WindowEnd, 10)
		}
		bw.WriteString(strings.Join([]string{
			r.RunID,
			r.GeneName,
			symbol,
			r.Chrom,
			strconv.FormatInt(r.Start, 10),
			strconv.FormatInt(r.End, 10),
			r.PeakID,
			windowStart,
			windowEnd,
		}, "\t") + "\n")
	}
	return bw.Flush()
}
