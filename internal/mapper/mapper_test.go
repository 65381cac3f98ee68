package mapper

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/inodb/peakmap/internal/genome"
)

func peak(id, chrom string, start, end int64) *genome.Peak {
	return &genome.Peak{ID: id, Interval: genome.Interval{Chrom: chrom, Start: start, End: end}}
}

func TestMap_ForwardScenario(t *testing.T) {
	genes := []*genome.Gene{gene("G1", "chr1", 1000, 5000, genome.StrandForward)}
	peaks := []*genome.Peak{
		peak("p1", "chr1", 500, 600),
		peak("p2", "chr1", 6000, 6100),
	}

	res, err := MapPeaksToGenes(context.Background(), genes, peaks, Config{UpstreamWindow: 2000})
	require.NoError(t, err)

	require.Len(t, res.Associations, 1, "intergenic peak dropped by default")
	a, ok := res.Lookup("p1")
	require.True(t, ok)
	assert.Equal(t, []string{"G1"}, a.GeneNames())
	assert.Equal(t, genome.Interval{Chrom: "chr1", Start: 0, End: 5000}, a.Hits[0].Window)

	_, ok = res.Lookup("p2")
	assert.False(t, ok)
}

func TestMap_ReverseScenario(t *testing.T) {
	genes := []*genome.Gene{gene("G2", "chr1", 10000, 12000, genome.StrandReverse)}
	peaks := []*genome.Peak{
		peak("in-upstream", "chr1", 12500, 12600),
		peak("txStart-side", "chr1", 9000, 9500),
	}

	res, err := MapPeaksToGenes(context.Background(), genes, peaks, Config{UpstreamWindow: 1000})
	require.NoError(t, err)

	require.Len(t, res.Associations, 1)
	assert.Equal(t, "in-upstream", res.Associations[0].Peak.ID)
	assert.Equal(t, []string{"G2"}, res.Associations[0].GeneNames())
}

func TestMap_ReportIntergenic(t *testing.T) {
	genes := []*genome.Gene{gene("G1", "chr1", 1000, 5000, genome.StrandForward)}
	peaks := []*genome.Peak{
		peak("p1", "chr1", 6000, 6100),
		peak("p2", "chr1", 1500, 1600),
		peak("p3", "chrUn", 10, 20),
	}

	res, err := MapPeaksToGenes(context.Background(), genes, peaks, Config{ReportIntergenic: true})
	require.NoError(t, err)

	require.Len(t, res.Associations, 3)
	assert.Equal(t, "p1", res.Associations[0].Peak.ID, "input order kept")
	assert.True(t, res.Associations[0].Intergenic())
	assert.Equal(t, []string{IntergenicGene}, res.Associations[0].GeneNames())
	assert.Equal(t, []string{"G1"}, res.Associations[1].GeneNames())
	assert.True(t, res.Associations[2].Intergenic(), "chromosome without genes")

	assert.Equal(t, 1, res.Stats.MappedPeaks)
	assert.Equal(t, 2, res.Stats.IntergenicPeaks)
	assert.Equal(t, 1, res.Stats.UnknownChromosomePeaks)
}

func TestMap_MultipleGenesOrdered(t *testing.T) {
	genes := []*genome.Gene{
		gene("zeta", "chr1", 1000, 3000, genome.StrandForward),
		gene("beta", "chr1", 2000, 4000, genome.StrandForward),
		gene("alpha", "chr1", 2000, 2500, genome.StrandForward),
	}
	peaks := []*genome.Peak{peak("p", "chr1", 2200, 2300)}

	res, err := MapPeaksToGenes(context.Background(), genes, peaks, Config{})
	require.NoError(t, err)

	require.Len(t, res.Associations, 1)
	assert.Equal(t, []string{"zeta", "alpha", "beta"}, res.Associations[0].GeneNames())
	assert.Equal(t, 3, res.Stats.Associations)
}

func TestMap_SameNameReportedOnce(t *testing.T) {
	genes := []*genome.Gene{
		gene("G", "chr1", 1000, 3000, genome.StrandForward),
		gene("G", "chr1", 1500, 3500, genome.StrandForward),
	}
	peaks := []*genome.Peak{peak("p", "chr1", 2000, 2100)}

	res, err := MapPeaksToGenes(context.Background(), genes, peaks, Config{})
	require.NoError(t, err)

	require.Len(t, res.Associations, 1)
	require.Len(t, res.Associations[0].Hits, 1)
	assert.Equal(t, int64(1000), res.Associations[0].Hits[0].Window.Start)
}

func TestMap_Deterministic(t *testing.T) {
	var genes []*genome.Gene
	var peaks []*genome.Peak
	for c := 1; c <= 5; c++ {
		chrom := fmt.Sprintf("chr%d", c)
		for i := 0; i < 40; i++ {
			strand := genome.StrandForward
			if i%2 == 1 {
				strand = genome.StrandReverse
			}
			start := int64(i * 1500)
			genes = append(genes, gene(fmt.Sprintf("%s_g%02d", chrom, i), chrom, start, start+2000, strand))
		}
		for i := 0; i < 100; i++ {
			start := int64(i * 650)
			peaks = append(peaks, peak(fmt.Sprintf("%s_p%03d", chrom, i), chrom, start, start+120))
		}
	}
	cfg := Config{UpstreamWindow: 700, DownstreamWindow: 200, ReportIntergenic: true}

	single := New(Config{UpstreamWindow: 700, DownstreamWindow: 200, ReportIntergenic: true, Workers: 1})
	want, err := single.Map(context.Background(), genes, peaks)
	require.NoError(t, err)

	for run := 0; run < 3; run++ {
		cfg.Workers = 4
		m := New(cfg)
		m.SetLogger(zaptest.NewLogger(t))
		got, err := m.Map(context.Background(), genes, peaks)
		require.NoError(t, err)

		require.Len(t, got.Associations, len(want.Associations))
		for i := range want.Associations {
			assert.Equal(t, want.Associations[i].Peak.ID, got.Associations[i].Peak.ID)
			assert.Equal(t, want.Associations[i].GeneNames(), got.Associations[i].GeneNames())
		}
		assert.Equal(t, want.Stats, got.Stats)
	}
}

func TestMap_InvalidRecords(t *testing.T) {
	good := []*genome.Gene{gene("G1", "chr1", 1000, 5000, genome.StrandForward)}

	_, err := MapPeaksToGenes(context.Background(), good, []*genome.Peak{peak("bad", "chr7", 300, 300)}, DefaultConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, genome.ErrInvalidRecord)
	var re *genome.RecordError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "chr7", re.Chrom)
	assert.Equal(t, "bad", re.Name)

	badGene := []*genome.Gene{gene("G9", "chr1", 5000, 1000, genome.StrandReverse)}
	_, err = MapPeaksToGenes(context.Background(), badGene, nil, DefaultConfig())
	assert.ErrorIs(t, err, genome.ErrInvalidRecord)
}

func TestMap_ConfigurationError(t *testing.T) {
	genes := []*genome.Gene{gene("G1", "chr1", 1000, 5000, genome.StrandForward)}

	_, err := MapPeaksToGenes(context.Background(), genes, nil, Config{UpstreamWindow: -5})
	assert.ErrorIs(t, err, genome.ErrConfiguration)

	_, err = MapPeaksToGenes(context.Background(), genes, nil, Config{DownstreamWindow: -1})
	assert.ErrorIs(t, err, genome.ErrConfiguration)
}

func TestMap_Cancelled(t *testing.T) {
	genes := []*genome.Gene{gene("G1", "chr1", 1000, 5000, genome.StrandForward)}
	peaks := []*genome.Peak{peak("p1", "chr1", 1500, 1600)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MapPeaksToGenes(ctx, genes, peaks, DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMap_Empty(t *testing.T) {
	res, err := MapPeaksToGenes(context.Background(), nil, nil, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, res.Associations)
	assert.Equal(t, Stats{}, res.Stats)
}
