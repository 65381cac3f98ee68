// Package mapper assigns peaks to the genes whose search windows they overlap.
package mapper

import (
	"fmt"

	"github.com/inodb/peakmap/internal/genome"
)

// Default window sizes in base pairs.
const (
	DefaultUpstreamWindow   = 100000
	DefaultDownstreamWindow = 0
)

// Config holds the options of a mapping run. It is passed by value and
// never modified by the mapper.
type Config struct {
	UpstreamWindow      int64 // bp upstream of the TSS
	DownstreamWindow    int64 // bp downstream of the TES (or TSS, see UseTSSForDownstream)
	UseTSSForDownstream bool  // measure the downstream window from the TSS
	ReportIntergenic    bool  // keep peaks without any gene, marked with IntergenicGene
	Workers             int   // chromosome workers; 0 means runtime.NumCPU()
}

// DefaultConfig returns the configuration used when no option is given.
func DefaultConfig() Config {
	return Config{
		UpstreamWindow:   DefaultUpstreamWindow,
		DownstreamWindow: DefaultDownstreamWindow,
	}
}

// Validate rejects negative window sizes.
func (c Config) Validate() error {
	if c.UpstreamWindow < 0 {
		return fmt.Errorf("%w: upstream window must be >= 0, got %d", genome.ErrConfiguration, c.UpstreamWindow)
	}
	if c.DownstreamWindow < 0 {
		return fmt.Errorf("%w: downstream window must be >= 0, got %d", genome.ErrConfiguration, c.DownstreamWindow)
	}
	return nil
}

// ConfigReport is the serializable form of a Config.
type ConfigReport struct {
	UpstreamWindow      int64 `yaml:"upstream_window"`
	DownstreamWindow    int64 `yaml:"downstream_window"`
	UseTSSForDownstream bool  `yaml:"tss"`
	ReportIntergenic    bool  `yaml:"intergenic"`
}

// Report returns the user-facing options of c.
func (c Config) Report() ConfigReport {
	return ConfigReport{
		UpstreamWindow:      c.UpstreamWindow,
		DownstreamWindow:    c.DownstreamWindow,
		UseTSSForDownstream: c.UseTSSForDownstream,
		ReportIntergenic:    c.ReportIntergenic,
	}
}
