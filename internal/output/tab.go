// Package output provides association output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/peakmap/internal/mapper"
)

// TabWriter writes one tab-delimited row per peak-gene pair. Intergenic
// peaks get a single row with mapper.IntergenicGene as gene id.
type TabWriter struct {
	w          *bufio.Writer
	columns    []string
	withSymbol bool
}

// NewTabWriter creates a new tab-delimited writer. withSymbol adds the
// gene symbol as second column; genes without a symbol repeat their name.
func NewTabWriter(w io.Writer, withSymbol bool) *TabWriter {
	columns := []string{"#gene_id"}
	if withSymbol {
		columns = append(columns, "symbol")
	}
	columns = append(columns,
		"chrom",
		"start",
		"end",
		"peak_id",
		"window_start",
		"window_end",
		"peak_fields",
	)
	return &TabWriter{
		w:          bufio.NewWriter(w),
		columns:    columns,
		withSymbol: withSymbol,
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes the rows of a single association.
func (tw *TabWriter) Write(a *mapper.Association) error {
	if a.Intergenic() {
		return tw.writeRow(a, mapper.IntergenicGene, "-", "-", "-")
	}
	for _, h := range a.Hits {
		if err := tw.writeRow(a, h.Gene.Name, h.Gene.DisplayName(),
			strconv.FormatInt(h.Window.Start, 10),
			strconv.FormatInt(h.Window.End, 10)); err != nil {
			return err
		}
	}
	return nil
}

func (tw *TabWriter) writeRow(a *mapper.Association, geneID, symbol, windowStart, windowEnd string) error {
	p := a.Peak
	values := make([]string, 0, len(tw.columns)+len(p.Fields))
	values = append(values, geneID)
	if tw.withSymbol {
		values = append(values, symbol)
	}
	values = append(values,
		p.Chrom(),
		strconv.FormatInt(p.Interval.Start, 10),
		strconv.FormatInt(p.Interval.End, 10),
		p.ID,
		windowStart,
		windowEnd,
	)
	if len(p.Fields) == 0 {
		values = append(values, "-")
	} else {
		values = append(values, p.Fields...)
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
