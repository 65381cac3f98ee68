// Package knowngene loads UCSC knownGene annotations and kgXref symbols.
package knowngene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inodb/peakmap/internal/genome"
	"github.com/inodb/peakmap/internal/tabfile"
)

// knownGene.sql column positions.
const (
	colName = iota
	colChrom
	colStrand
	colTxStart
	colTxEnd
)

// BED column positions, for gene files given as BED.
const (
	bedChrom  = 0
	bedStart  = 1
	bedEnd    = 2
	bedName   = 3
	bedStrand = 5
)

// Loader loads gene records from a knownGene table. BED files are also
// accepted; a row is read as knownGene when its third column is a strand.
type Loader struct {
	path string
}

// NewLoader creates a new knownGene loader.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads every gene of the file. Coordinates are kept as stored:
// knownGene and BED both use 0-based half-open intervals.
func (l *Loader) Load() ([]*genome.Gene, error) {
	r, err := tabfile.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open knownGene file: %w", err)
	}
	defer r.Close()

	return parseGenes(r)
}

func parseGenes(r *tabfile.Reader) ([]*genome.Gene, error) {
	r.SetSkip(isHeaderLine)

	var genes []*genome.Gene
	for {
		fields, err := r.Next()
		if err != nil {
			return nil, err
		}
		if fields == nil {
			return genes, nil
		}

		g, err := parseLine(fields)
		if err != nil {
			return nil, &tabfile.ParseError{Format: "knownGene", Line: r.LineNumber(), Message: err.Error()}
		}
		genes = append(genes, g)
	}
}

func isHeaderLine(line string) bool {
	return strings.HasPrefix(line, "#") ||
		strings.HasPrefix(line, "track") ||
		strings.HasPrefix(line, "browser")
}

// parseLine dispatches on the layout of the row.
func parseLine(fields []string) (*genome.Gene, error) {
	if len(fields) > colStrand && isStrand(fields[colStrand]) {
		return parseKnownGeneLine(fields)
	}
	if len(fields) < 3 {
		return nil, fmt.Errorf("expected at least 3 columns, found %d", len(fields))
	}
	return parseBEDLine(fields)
}

func parseKnownGeneLine(fields []string) (*genome.Gene, error) {
	if len(fields) < 5 {
		return nil, fmt.Errorf("expected at least 5 columns, found %d", len(fields))
	}

	start, err := strconv.ParseInt(fields[colTxStart], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid txStart: %s", fields[colTxStart])
	}
	end, err := strconv.ParseInt(fields[colTxEnd], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid txEnd: %s", fields[colTxEnd])
	}

	return &genome.Gene{
		Name:     fields[colName],
		Interval: genome.Interval{Chrom: fields[colChrom], Start: start, End: end},
		Strand:   genome.ParseStrand(fields[colStrand]),
	}, nil
}

func parseBEDLine(fields []string) (*genome.Gene, error) {
	start, err := strconv.ParseInt(fields[bedStart], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid start: %s", fields[bedStart])
	}
	end, err := strconv.ParseInt(fields[bedEnd], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid end: %s", fields[bedEnd])
	}

	g := &genome.Gene{
		Interval: genome.Interval{Chrom: fields[bedChrom], Start: start, End: end},
	}
	if len(fields) > bedName {
		g.Name = fields[bedName]
	} else {
		g.Name = g.Interval.String()
	}
	if len(fields) > bedStrand {
		g.Strand = genome.ParseStrand(fields[bedStrand])
	}
	return g, nil
}

func isStrand(s string) bool {
	return s == "+" || s == "-" || s == "."
}
