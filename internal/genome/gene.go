package genome

// Gene represents a transcript locus from the gene annotation.
type Gene struct {
	Name     string   // Transcript identifier (e.g., uc001aaa.3)
	Symbol   string   // Gene symbol from the cross-reference table, if any
	Interval Interval // Transcript bounds [txStart, txEnd)
	Strand   Strand
}

// Chrom returns the chromosome of the gene.
func (g *Gene) Chrom() string {
	return g.Interval.Chrom
}

// IsReverseStrand returns true if the gene is on the reverse strand.
// Genes with unknown strand are oriented as forward.
func (g *Gene) IsReverseStrand() bool {
	return g.Strand == StrandReverse
}

// TSS returns the transcription start site: txStart on the forward
// strand, txEnd on the reverse strand.
func (g *Gene) TSS() int64 {
	if g.IsReverseStrand() {
		return g.Interval.End
	}
	return g.Interval.Start
}

// TES returns the transcription end site, the end opposite the TSS.
func (g *Gene) TES() int64 {
	if g.IsReverseStrand() {
		return g.Interval.Start
	}
	return g.Interval.End
}

// DisplayName returns the symbol when known, otherwise the name.
func (g *Gene) DisplayName() string {
	if g.Symbol != "" {
		return g.Symbol
	}
	return g.Name
}

// Validate checks the transcript bounds.
func (g *Gene) Validate() error {
	if err := g.Interval.Validate(); err != nil {
		re := err.(*RecordError)
		re.Name = g.Name
		return re
	}
	return nil
}
