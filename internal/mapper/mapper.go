package mapper

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/peakmap/internal/genome"
)

// IntergenicGene is reported in place of a gene name for peaks that
// overlap no window.
const IntergenicGene = "None"

// Hit is one gene whose window overlaps a peak.
type Hit struct {
	Gene   *genome.Gene
	Window genome.Interval
}

// Association links a peak to the genes it was mapped to.
type Association struct {
	Peak *genome.Peak
	Hits []Hit // ordered by window start, then gene name
}

// Intergenic returns true if the peak overlaps no gene window.
func (a *Association) Intergenic() bool {
	return len(a.Hits) == 0
}

// GeneNames returns the matched gene names, or IntergenicGene alone for an
// intergenic peak.
func (a *Association) GeneNames() []string {
	if a.Intergenic() {
		return []string{IntergenicGene}
	}
	names := make([]string, len(a.Hits))
	for i, h := range a.Hits {
		names[i] = h.Gene.Name
	}
	return names
}

// Result is the outcome of one mapping run.
type Result struct {
	Associations []Association // in peak input order
	Stats        Stats
	byID         map[string]int
}

// Lookup returns the association of the first peak with the given id.
func (r *Result) Lookup(peakID string) (*Association, bool) {
	i, ok := r.byID[peakID]
	if !ok {
		return nil, false
	}
	return &r.Associations[i], true
}

// Mapper maps peaks onto gene search windows.
type Mapper struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a mapper with the given configuration.
func New(cfg Config) *Mapper {
	return &Mapper{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and debug messages.
func (m *Mapper) SetLogger(l *zap.Logger) {
	m.logger = l
}

// MapPeaksToGenes runs a single mapping with a default logger.
func MapPeaksToGenes(ctx context.Context, genes []*genome.Gene, peaks []*genome.Peak, cfg Config) (*Result, error) {
	return New(cfg).Map(ctx, genes, peaks)
}

// peakSlot remembers the input position of a peak across partitioning.
type peakSlot struct {
	idx  int
	peak *genome.Peak
}

// Map assigns every peak to the genes whose windows it overlaps.
//
// Chromosomes are processed concurrently. Each worker builds its own index
// and writes only the result slots of its own peaks. The first invalid
// record aborts the run.
func (m *Mapper) Map(ctx context.Context, genes []*genome.Gene, peaks []*genome.Peak) (*Result, error) {
	if err := m.cfg.Validate(); err != nil {
		return nil, err
	}

	windows, err := BuildWindows(genes, m.cfg)
	if err != nil {
		return nil, err
	}

	slots := make([]peakSlot, len(peaks))
	for i, p := range peaks {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		slots[i] = peakSlot{idx: i, peak: p}
	}

	windowsByChrom := Partition(windows, func(w Window) string { return w.Interval.Chrom })
	peaksByChrom := Partition(slots, func(s peakSlot) string { return s.peak.Chrom() })

	workers := m.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	hits := make([][]Hit, len(peaks))
	unknownChromPeaks := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, chrom := range Chromosomes(peaksByChrom) {
		bucket := peaksByChrom[chrom]
		chromWindows, ok := windowsByChrom[chrom]
		if !ok {
			// Peaks on a chromosome without genes are intergenic.
			m.logger.Debug("no genes on chromosome",
				zap.String("chrom", chrom),
				zap.Int("peaks", len(bucket)))
			unknownChromPeaks += len(bucket)
			continue
		}

		g.Go(func() error {
			idx, err := BuildIndex(chromWindows)
			if err != nil {
				return fmt.Errorf("chromosome %s: %w", chrom, err)
			}
			for _, s := range bucket {
				if err := gctx.Err(); err != nil {
					return err
				}
				hits[s.idx] = collectHits(idx.Query(s.peak.Interval))
			}
			m.logger.Debug("mapped chromosome",
				zap.String("chrom", chrom),
				zap.Int("windows", idx.Len()),
				zap.Int("peaks", len(bucket)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{byID: make(map[string]int)}
	for i, p := range peaks {
		if len(hits[i]) == 0 && !m.cfg.ReportIntergenic {
			continue
		}
		if _, seen := res.byID[p.ID]; !seen {
			res.byID[p.ID] = len(res.Associations)
		}
		res.Associations = append(res.Associations, Association{Peak: p, Hits: hits[i]})
	}
	res.Stats = computeStats(genes, peaks, hits, unknownChromPeaks)

	m.logger.Info("mapped peaks to genes",
		zap.Int("genes", res.Stats.Genes),
		zap.Int("peaks", res.Stats.Peaks),
		zap.Int("mapped", res.Stats.MappedPeaks),
		zap.Int("intergenic", res.Stats.IntergenicPeaks))

	return res, nil
}

// collectHits converts ordered windows to hits, keeping the first window of
// each gene name.
func collectHits(windows []Window) []Hit {
	if len(windows) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(windows))
	hits := make([]Hit, 0, len(windows))
	for _, w := range windows {
		if seen[w.Gene.Name] {
			continue
		}
		seen[w.Gene.Name] = true
		hits = append(hits, Hit{Gene: w.Gene, Window: w.Interval})
	}
	return hits
}

// AssociationWriter defines the interface for writing associations.
type AssociationWriter interface {
	WriteHeader() error
	Write(a *Association) error
	Flush() error
}

// WriteAll writes the header and every association of r, then flushes.
func WriteAll(r *Result, w AssociationWriter) error {
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range r.Associations {
		if err := w.Write(&r.Associations[i]); err != nil {
			return fmt.Errorf("write association: %w", err)
		}
	}
	return w.Flush()
}
