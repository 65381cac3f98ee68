package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/peakmap/internal/genome"
	"github.com/inodb/peakmap/internal/mapper"
)

func testResult(t *testing.T, intergenic bool) *mapper.Result {
	t.Helper()
	genes := []*genome.Gene{
		{Name: "uc001aaa.3", Symbol: "DDX11L1", Interval: genome.Interval{Chrom: "chr1", Start: 1000, End: 2000}, Strand: genome.StrandForward},
		{Name: "uc001aab.1", Interval: genome.Interval{Chrom: "chr1", Start: 1500, End: 3000}, Strand: genome.StrandReverse},
	}
	peaks := []*genome.Peak{
		{ID: "peak1", Interval: genome.Interval{Chrom: "chr1", Start: 1600, End: 1700}, Fields: []string{"12.5", "+"}},
		{ID: "peak2", Interval: genome.Interval{Chrom: "chr2", Start: 10, End: 20}},
	}
	cfg := mapper.Config{UpstreamWindow: 100, ReportIntergenic: intergenic, Workers: 1}
	res, err := mapper.MapPeaksToGenes(t.Context(), genes, peaks, cfg)
	require.NoError(t, err)
	return res
}

func TestTabWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf, false)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	header := strings.TrimSuffix(buf.String(), "\n")
	assert.Equal(t, "#gene_id\tchrom\tstart\tend\tpeak_id\twindow_start\twindow_end\tpeak_fields", header)
}

func TestTabWriter_WriteHeaderWithSymbol(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf, true)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	cols := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\t")
	require.Greater(t, len(cols), 2)
	assert.Equal(t, "#gene_id", cols[0])
	assert.Equal(t, "symbol", cols[1])
}

func TestTabWriter_WriteAll(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf, true)

	require.NoError(t, mapper.WriteAll(testResult(t, true), w))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "uc001aaa.3\tDDX11L1\tchr1\t1600\t1700\tpeak1\t900\t2000\t12.5\t+", lines[1])
	assert.Equal(t, "uc001aab.1\tuc001aab.1\tchr1\t1600\t1700\tpeak1\t1500\t3100\t12.5\t+", lines[2])
	assert.Equal(t, "None\t-\tchr2\t10\t20\tpeak2\t-\t-\t-", lines[3])
}

func TestTabWriter_OmitsIntergenic(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf, false)

	require.NoError(t, mapper.WriteAll(testResult(t, false), w))

	out := buf.String()
	assert.NotContains(t, out, "None")
	assert.NotContains(t, out, "peak2")
	assert.Equal(t, 3, strings.Count(out, "\n"))
}
