package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/inodb/peakmap/internal/mapper"
)

// statsReport is the YAML document written for a run.
type statsReport struct {
	Config mapper.ConfigReport `yaml:"config"`
	Stats  mapper.Stats        `yaml:"stats"`
}

// WriteStats writes the run configuration and summary statistics as YAML.
func WriteStats(w io.Writer, cfg mapper.Config, stats mapper.Stats) error {
	out, err := yaml.Marshal(statsReport{Config: cfg.Report(), Stats: stats})
	if err != nil {
		return fmt.Errorf("marshaling stats: %w", err)
	}
	_, err = w.Write(out)
	return err
}
