package knowngene

import (
	"fmt"

	"github.com/inodb/peakmap/internal/genome"
	"github.com/inodb/peakmap/internal/tabfile"
)

// Xref maps knownGene IDs to gene symbols.
type Xref map[string]string

// kgXref column positions: kgID mRNA spID spDisplayID geneSymbol refseq protAcc description.
const (
	xrefKgID       = 0
	xrefGeneSymbol = 4
)

// LoadXref loads a kgXref table.
func LoadXref(path string) (Xref, error) {
	r, err := tabfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open kgXref file: %w", err)
	}
	defer r.Close()

	return parseXref(r)
}

// parseXref reads kgID -> geneSymbol pairs. Rows without a symbol are skipped.
func parseXref(r *tabfile.Reader) (Xref, error) {
	r.SetSkip(isHeaderLine)

	xref := make(Xref)
	for {
		fields, err := r.Next()
		if err != nil {
			return nil, err
		}
		if fields == nil {
			return xref, nil
		}
		if len(fields) <= xrefGeneSymbol {
			return nil, &tabfile.ParseError{
				Format:  "kgXref",
				Line:    r.LineNumber(),
				Message: fmt.Sprintf("expected at least %d columns, found %d", xrefGeneSymbol+1, len(fields)),
			}
		}

		id, symbol := fields[xrefKgID], fields[xrefGeneSymbol]
		if id == "" || symbol == "" {
			continue
		}
		xref[id] = symbol
	}
}

// Symbol returns the symbol of id, or "" when unknown.
func (x Xref) Symbol(id string) string {
	return x[id]
}

// Apply sets the Symbol of every gene found in the table and returns the
// number of genes resolved.
func (x Xref) Apply(genes []*genome.Gene) int {
	n := 0
	for _, g := range genes {
		if s := x.Symbol(g.Name); s != "" {
			g.Symbol = s
			n++
		}
	}
	return n
}
