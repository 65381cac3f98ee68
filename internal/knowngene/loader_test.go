package knowngene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/peakmap/internal/genome"
	"github.com/inodb/peakmap/internal/tabfile"
)

const knownGeneFixture = `#name	chrom	strand	txStart	txEnd	cdsStart	cdsEnd	exonCount	exonStarts	exonEnds	proteinID	alignID
uc001aaa.3	chr1	+	11873	14409	11873	11873	3	11873,12612,13220,	12227,12721,14409,		uc001aaa.3
uc009vis.3	chr1	-	14361	16765	14361	14361	4	14361,14969,15795,16606,	14829,15038,15942,16765,		uc009vis.3
`

func newReader(t *testing.T, content string) *tabfile.Reader {
	t.Helper()
	r, err := tabfile.NewReader(strings.NewReader(content))
	require.NoError(t, err)
	return r
}

func TestParseGenes_KnownGene(t *testing.T) {
	genes, err := parseGenes(newReader(t, knownGeneFixture))
	require.NoError(t, err)
	require.Len(t, genes, 2)

	assert.Equal(t, "uc001aaa.3", genes[0].Name)
	assert.Equal(t, genome.Interval{Chrom: "chr1", Start: 11873, End: 14409}, genes[0].Interval)
	assert.Equal(t, genome.StrandForward, genes[0].Strand)

	assert.Equal(t, "uc009vis.3", genes[1].Name)
	assert.Equal(t, genome.StrandReverse, genes[1].Strand)
	assert.Equal(t, int64(16765), genes[1].TSS())
}

func TestParseGenes_NumericChromosome(t *testing.T) {
	genes, err := parseGenes(newReader(t, "ENST1\t1\t-\t100\t200\n"))
	require.NoError(t, err)
	require.Len(t, genes, 1)
	assert.Equal(t, "1", genes[0].Chrom())
	assert.Equal(t, genome.StrandReverse, genes[0].Strand)
}

func TestParseGenes_BED(t *testing.T) {
	content := "track name=genes\nchr2\t100\t200\tGENE_A\t0\t-\nchr2\t300\t400\n"
	genes, err := parseGenes(newReader(t, content))
	require.NoError(t, err)
	require.Len(t, genes, 2)

	assert.Equal(t, "GENE_A", genes[0].Name)
	assert.Equal(t, genome.StrandReverse, genes[0].Strand)
	assert.Equal(t, "chr2:300-400", genes[1].Name)
	assert.Equal(t, genome.StrandUnknown, genes[1].Strand)
}

func TestParseGenes_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
	}{
		{"non-numeric txStart", "uc1\tchr1\t+\tabc\t200\n", 1},
		{"too few columns", "uc1\tchr1\t+\t100\n", 1},
		{"two columns", "chr1\t100\n", 1},
		{"bad second row", "uc1\tchr1\t+\t100\t200\nuc2\tchr1\t-\t100\tx\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseGenes(newReader(t, tt.content))
			require.Error(t, err)
			var pe *tabfile.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.line, pe.Line)
			assert.Equal(t, "knownGene", pe.Format)
		})
	}
}

func TestLoader_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knownGene.txt")
	require.NoError(t, os.WriteFile(path, []byte(knownGeneFixture), 0644))

	genes, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Len(t, genes, 2)

	_, err = NewLoader(filepath.Join(t.TempDir(), "missing.txt")).Load()
	assert.Error(t, err)
}
