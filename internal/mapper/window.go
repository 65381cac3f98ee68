package mapper

import (
	"github.com/inodb/peakmap/internal/genome"
)

// Window is the region searched for peaks on behalf of one gene.
type Window struct {
	Interval genome.Interval
	Gene     *genome.Gene
}

// BuildWindow derives the search window of g.
//
// The upstream arm extends away from the gene body on the TSS side. The
// downstream arm extends into the gene direction from the TES, or from the
// TSS when cfg.UseTSSForDownstream is set. The window always covers the
// whole transcript and is clipped at 0. Genes of unknown strand are
// oriented as forward.
func BuildWindow(g *genome.Gene, cfg Config) (Window, error) {
	if err := g.Validate(); err != nil {
		return Window{}, err
	}
	if cfg.UpstreamWindow < 0 || cfg.DownstreamWindow < 0 {
		return Window{}, &genome.RecordError{
			Kind:   genome.ErrInvalidRecord,
			Name:   g.Name,
			Chrom:  g.Chrom(),
			Start:  g.Interval.Start,
			End:    g.Interval.End,
			Reason: "negative window size",
		}
	}

	// +1 walks from 5' to 3' along the gene, -1 on the reverse strand.
	dir := int64(1)
	if g.IsReverseStrand() {
		dir = -1
	}

	tss := g.TSS()
	anchor := g.TES()
	if cfg.UseTSSForDownstream {
		anchor = tss
	}

	upstream := tss - dir*cfg.UpstreamWindow
	downstream := anchor + dir*cfg.DownstreamWindow

	start := min(upstream, downstream, g.Interval.Start, g.Interval.End)
	end := max(upstream, downstream, g.Interval.Start, g.Interval.End)
	if start < 0 {
		start = 0
	}

	return Window{
		Interval: genome.Interval{Chrom: g.Chrom(), Start: start, End: end},
		Gene:     g,
	}, nil
}

// BuildWindows builds one window per gene, failing on the first invalid gene.
func BuildWindows(genes []*genome.Gene, cfg Config) ([]Window, error) {
	windows := make([]Window, 0, len(genes))
	for _, g := range genes {
		w, err := BuildWindow(g, cfg)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, nil
}
