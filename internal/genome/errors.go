package genome

import (
	"errors"
	"fmt"
)

// Error kinds reported by the mapping core.
var (
	// ErrInvalidRecord marks a gene or peak whose coordinates break the
	// 0 <= start < end invariant.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrConfiguration marks an unusable mapping configuration.
	ErrConfiguration = errors.New("configuration error")
)

// RecordError describes the first offending record of a run.
type RecordError struct {
	Kind   error // ErrInvalidRecord or ErrConfiguration
	Name   string
	Chrom  string
	Start  int64
	End    int64
	Reason string
}

func (e *RecordError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%v: %s %s:%d-%d: %s", e.Kind, e.Name, e.Chrom, e.Start, e.End, e.Reason)
	}
	return fmt.Sprintf("%v: %s:%d-%d: %s", e.Kind, e.Chrom, e.Start, e.End, e.Reason)
}

func (e *RecordError) Unwrap() error {
	return e.Kind
}
