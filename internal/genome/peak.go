package genome

// Peak is a called region from a peak file.
type Peak struct {
	ID       string   // Peak name, or chrom:start-end when the file has none
	Interval Interval // Peak bounds [start, end)
	Fields   []string // Remaining columns of the source line, passed through untouched
}

// Chrom returns the chromosome of the peak.
func (p *Peak) Chrom() string {
	return p.Interval.Chrom
}

// Validate checks the peak bounds.
func (p *Peak) Validate() error {
	if err := p.Interval.Validate(); err != nil {
		re := err.(*RecordError)
		re.Name = p.ID
		return re
	}
	return nil
}
