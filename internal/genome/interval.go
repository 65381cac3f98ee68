// Package genome provides the coordinate model shared by genes and peaks.
package genome

import "fmt"

// Interval is a half-open chromosome range [Start, End).
type Interval struct {
	Chrom string // Chromosome name (e.g., "chr1")
	Start int64  // 0-based start, inclusive
	End   int64  // 0-based end, exclusive
}

// Len returns the number of bases covered by the interval.
func (iv Interval) Len() int64 {
	if iv.End <= iv.Start {
		return 0
	}
	return iv.End - iv.Start
}

// IsEmpty returns true if the interval covers no bases.
func (iv Interval) IsEmpty() bool {
	return iv.End <= iv.Start
}

// Overlaps returns true if both intervals share at least one base.
// Intervals on different chromosomes never overlap, and touching
// boundaries ([a, b) and [b, c)) do not count.
func (iv Interval) Overlaps(other Interval) bool {
	if iv.Chrom != other.Chrom || iv.IsEmpty() || other.IsEmpty() {
		return false
	}
	return iv.Start < other.End && other.Start < iv.End
}

// Contains returns true if other lies entirely within iv.
func (iv Interval) Contains(other Interval) bool {
	return iv.Chrom == other.Chrom && iv.Start <= other.Start && other.End <= iv.End
}

// Validate checks the 0 <= Start < End invariant.
func (iv Interval) Validate() error {
	if iv.Start < 0 {
		return &RecordError{Kind: ErrInvalidRecord, Chrom: iv.Chrom, Start: iv.Start, End: iv.End, Reason: "negative start"}
	}
	if iv.Start >= iv.End {
		return &RecordError{Kind: ErrInvalidRecord, Chrom: iv.Chrom, Start: iv.Start, End: iv.End, Reason: "start must be less than end"}
	}
	return nil
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s:%d-%d", iv.Chrom, iv.Start, iv.End)
}
