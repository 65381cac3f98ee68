package mapper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/peakmap/internal/genome"
)

func TestStats(t *testing.T) {
	genes := []*genome.Gene{
		gene("A", "chr1", 1000, 2000, genome.StrandForward),
		gene("B", "chr1", 1500, 2500, genome.StrandReverse),
		gene("C", "chr2", 100, 200, genome.StrandForward),
	}
	peaks := []*genome.Peak{
		peak("p1", "chr1", 1600, 1700), // A and B
		peak("p2", "chr1", 1100, 1200), // A
		peak("p3", "chr2", 5000, 5100), // none
		peak("p4", "chrX", 10, 20),     // no genes on chrX
	}

	res, err := MapPeaksToGenes(context.Background(), genes, peaks, Config{})
	require.NoError(t, err)

	assert.Equal(t, Stats{
		Genes:                  3,
		Peaks:                  4,
		MappedPeaks:            2,
		IntergenicPeaks:        2,
		UnknownChromosomePeaks: 1,
		Associations:           3,
		GenesWithPeaks:         2,
		Chromosomes:            3,
		MeanGenesPerMappedPeak: 1.5,
	}, res.Stats)
}
