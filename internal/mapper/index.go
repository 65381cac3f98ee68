package mapper

import (
	"fmt"
	"sort"

	"github.com/biogo/store/interval"

	"github.com/inodb/peakmap/internal/genome"
)

// Index answers overlap queries against the windows of one chromosome.
// It is built once and never modified afterwards, so concurrent queries
// are safe.
type Index struct {
	chrom string
	tree  interval.IntTree
}

// windowEntry is a window stored in the tree. uid keeps duplicate and
// nested windows apart.
type windowEntry struct {
	start, end int
	uid        uintptr
	window     Window
}

func (e windowEntry) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return e.end > b.Start && e.start < b.End
}
func (e windowEntry) ID() uintptr              { return e.uid }
func (e windowEntry) Range() interval.IntRange { return interval.IntRange{Start: e.start, End: e.end} }

// query is the overlapper handed to the tree.
type query struct {
	start, end int
}

func (q query) Overlap(b interval.IntRange) bool {
	return q.end > b.Start && q.start < b.End
}
func (q query) ID() uintptr              { return 0 }
func (q query) Range() interval.IntRange { return interval.IntRange{Start: q.start, End: q.end} }

// BuildIndex creates an index over windows that all lie on one chromosome.
func BuildIndex(windows []Window) (*Index, error) {
	idx := &Index{}
	if len(windows) == 0 {
		return idx, nil
	}
	idx.chrom = windows[0].Interval.Chrom

	for i, w := range windows {
		if w.Interval.Chrom != idx.chrom {
			return nil, fmt.Errorf("build index: window %s is not on %s", w.Interval, idx.chrom)
		}
		e := windowEntry{
			start:  int(w.Interval.Start),
			end:    int(w.Interval.End),
			uid:    uintptr(i),
			window: w,
		}
		if err := idx.tree.Insert(e, true); err != nil {
			return nil, fmt.Errorf("build index: insert %s: %w", w.Interval, err)
		}
	}
	idx.tree.AdjustRanges()

	return idx, nil
}

// Chrom returns the chromosome the index was built for.
func (x *Index) Chrom() string {
	return x.chrom
}

// Len returns the number of stored windows.
func (x *Index) Len() int {
	return x.tree.Len()
}

// Query returns all windows overlapping q, ordered by window start and then
// gene name. Empty queries and queries on another chromosome match nothing.
func (x *Index) Query(q genome.Interval) []Window {
	if x.tree.Len() == 0 || q.IsEmpty() || q.Chrom != x.chrom {
		return nil
	}

	var entries []windowEntry
	x.tree.DoMatching(func(iv interval.IntInterface) bool {
		entries = append(entries, iv.(windowEntry))
		return false
	}, query{start: int(q.Start), end: int(q.End)})

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.start != b.start {
			return a.start < b.start
		}
		if a.window.Gene.Name != b.window.Gene.Name {
			return a.window.Gene.Name < b.window.Gene.Name
		}
		return a.uid < b.uid
	})

	result := make([]Window, len(entries))
	for i, e := range entries {
		result[i] = e.window
	}
	return result
}
