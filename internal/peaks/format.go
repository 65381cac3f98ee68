// Package peaks parses peak-caller output into peak records.
package peaks

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a peak file layout.
type Format string

const (
	FormatAuto Format = "auto"
	FormatBED  Format = "bed"  // BED3 to BED12
	FormatMACS Format = "macs" // MACS peaks.xls
	FormatGPS  Format = "gps"  // GPS/GEM event text output
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatBED, FormatMACS, FormatGPS:
		return f, nil
	default:
		return "", fmt.Errorf("unknown peak format %q (want auto, bed, macs or gps)", s)
	}
}

// DetectFormat picks a format from the file extension: .xls is MACS, .txt
// is GPS, anything else is BED. A trailing .gz is ignored.
func DetectFormat(path string) Format {
	lowerPath := strings.ToLower(path)
	lowerPath = strings.TrimSuffix(lowerPath, ".gz")

	switch filepath.Ext(lowerPath) {
	case ".xls":
		return FormatMACS
	case ".txt":
		return FormatGPS
	default:
		return FormatBED
	}
}
