package peaks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inodb/peakmap/internal/genome"
	"github.com/inodb/peakmap/internal/tabfile"
)

// Parser reads peaks from a peak file.
type Parser struct {
	reader *tabfile.Reader
	format Format
}

// NewParser opens path and reads it in the given format. FormatAuto
// detects the format from the file name.
func NewParser(path string, format Format) (*Parser, error) {
	if format == FormatAuto || format == "" {
		format = DetectFormat(path)
	}
	r, err := tabfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open peaks file: %w", err)
	}
	return newParser(r, format), nil
}

func newParser(r *tabfile.Reader, format Format) *Parser {
	p := &Parser{reader: r, format: format}
	r.SetSkip(p.isHeaderLine)
	return p
}

// Format returns the format being parsed.
func (p *Parser) Format() Format {
	return p.format
}

// Next reads the next peak.
// Returns nil, nil when there are no more peaks.
func (p *Parser) Next() (*genome.Peak, error) {
	fields, err := p.reader.Next()
	if err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, nil
	}

	var peak *genome.Peak
	switch p.format {
	case FormatMACS:
		peak, err = parseMACS(fields)
	case FormatGPS:
		peak, err = parseGPS(fields)
	default:
		peak, err = parseBED(fields)
	}
	if err != nil {
		return nil, &tabfile.ParseError{Format: string(p.format), Line: p.reader.LineNumber(), Message: err.Error()}
	}
	return peak, nil
}

// ReadAll reads the remaining peaks.
func (p *Parser) ReadAll() ([]*genome.Peak, error) {
	var peaks []*genome.Peak
	for {
		peak, err := p.Next()
		if err != nil {
			return nil, err
		}
		if peak == nil {
			return peaks, nil
		}
		peaks = append(peaks, peak)
	}
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.reader.LineNumber()
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	return p.reader.Close()
}

func (p *Parser) isHeaderLine(line string) bool {
	if strings.HasPrefix(line, "#") {
		return true
	}
	switch p.format {
	case FormatMACS:
		return strings.HasPrefix(line, "chr\tstart\tend")
	case FormatGPS:
		return strings.HasPrefix(line, "Position")
	default:
		return strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser")
	}
}

// parseBED reads chrom, chromStart, chromEnd and an optional name. The
// remaining optional columns are kept as the peak payload.
func parseBED(fields []string) (*genome.Peak, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("expected at least 3 columns, found %d", len(fields))
	}
	start, end, err := parseBounds(fields[1], fields[2])
	if err != nil {
		return nil, err
	}

	peak := &genome.Peak{Interval: genome.Interval{Chrom: fields[0], Start: start, End: end}}
	if len(fields) > 3 {
		peak.ID = fields[3]
	}
	if len(fields) > 4 {
		peak.Fields = fields[4:]
	}
	setDefaultID(peak)
	return peak, nil
}

// MACS xls columns: chr start end length abs_summit pileup -log10(pvalue)
// fold_enrichment -log10(qvalue) name. Start is 1-based.
const macsName = 9

func parseMACS(fields []string) (*genome.Peak, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("expected at least 3 columns, found %d", len(fields))
	}
	start, end, err := parseBounds(fields[1], fields[2])
	if err != nil {
		return nil, err
	}

	peak := &genome.Peak{Interval: genome.Interval{Chrom: fields[0], Start: start - 1, End: end}}
	if len(fields) > macsName {
		peak.ID = fields[macsName]
		peak.Fields = fields[3:macsName]
	} else if len(fields) > 3 {
		peak.Fields = fields[3:]
	}
	setDefaultID(peak)
	return peak, nil
}

// parseGPS reads a GPS/GEM event. The Position column ("chr1:12345") is a
// single base, mapped to [pos, pos+1).
func parseGPS(fields []string) (*genome.Peak, error) {
	chrom, posStr, ok := strings.Cut(fields[0], ":")
	if !ok || chrom == "" {
		return nil, fmt.Errorf("invalid position: %s", fields[0])
	}
	pos, err := strconv.ParseInt(posStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid position: %s", fields[0])
	}

	return &genome.Peak{
		ID:       fields[0],
		Interval: genome.Interval{Chrom: chrom, Start: pos, End: pos + 1},
		Fields:   fields[1:],
	}, nil
}

func parseBounds(startStr, endStr string) (int64, int64, error) {
	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start: %s", startStr)
	}
	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end: %s", endStr)
	}
	return start, end, nil
}

func setDefaultID(p *genome.Peak) {
	if p.ID == "" || p.ID == "." {
		p.ID = p.Interval.String()
	}
}
