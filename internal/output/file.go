package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// nopCloser keeps stdout and stderr open.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// gzipFile closes the gzip stream before the file.
type gzipFile struct {
	*gzip.Writer
	file *os.File
}

func (g *gzipFile) Close() error {
	if err := g.Writer.Close(); err != nil {
		g.file.Close()
		return err
	}
	return g.file.Close()
}

// Create opens an output destination. An empty path or "-" returns
// fallback; a path ending in .gz is gzip-compressed.
func Create(path string, fallback io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{fallback}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		return &gzipFile{Writer: gzip.NewWriter(f), file: f}, nil
	}
	return f, nil
}
