package mapper

import (
	"gopkg.in/fatih/set.v0"

	"github.com/inodb/peakmap/internal/genome"
)

// Stats summarizes a mapping run.
type Stats struct {
	Genes                  int     `yaml:"genes"`
	Peaks                  int     `yaml:"peaks"`
	MappedPeaks            int     `yaml:"mapped_peaks"`
	IntergenicPeaks        int     `yaml:"intergenic_peaks"`
	UnknownChromosomePeaks int     `yaml:"unknown_chromosome_peaks"`
	Associations           int     `yaml:"associations"`
	GenesWithPeaks         int     `yaml:"genes_with_peaks"`
	Chromosomes            int     `yaml:"chromosomes"`
	MeanGenesPerMappedPeak float64 `yaml:"mean_genes_per_mapped_peak"`
}

func computeStats(genes []*genome.Gene, peaks []*genome.Peak, hits [][]Hit, unknownChromPeaks int) Stats {
	s := Stats{
		Genes:                  len(genes),
		Peaks:                  len(peaks),
		UnknownChromosomePeaks: unknownChromPeaks,
	}

	chroms := set.New(set.NonThreadSafe)
	for _, g := range genes {
		chroms.Add(g.Chrom())
	}
	for _, p := range peaks {
		chroms.Add(p.Chrom())
	}
	s.Chromosomes = chroms.Size()

	hitGenes := set.New(set.NonThreadSafe)
	for _, hs := range hits {
		if len(hs) == 0 {
			s.IntergenicPeaks++
			continue
		}
		s.MappedPeaks++
		s.Associations += len(hs)
		for _, h := range hs {
			hitGenes.Add(h.Gene.Name)
		}
	}
	s.GenesWithPeaks = hitGenes.Size()

	if s.MappedPeaks > 0 {
		s.MeanGenesPerMappedPeak = float64(s.Associations) / float64(s.MappedPeaks)
	}
	return s
}
