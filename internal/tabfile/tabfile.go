// Package tabfile reads tab-separated annotation files, plain or gzipped.
package tabfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Reader yields the tab-split fields of each data line of a file.
type Reader struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	skip       func(line string) bool
}

// Open opens path for reading, decompressing it when it starts with the
// gzip magic bytes. Use "-" for stdin.
func Open(path string) (*Reader, error) {
	if path == "-" {
		return NewReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	r := &Reader{file: file}

	buf := bufio.NewReader(file)
	magic, err := buf.Peek(2)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	// Check for gzip magic number (0x1f, 0x8b)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		r.gzipReader, err = gzip.NewReader(buf)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.reader = bufio.NewReader(r.gzipReader)
	} else {
		r.reader = buf
	}

	return r, nil
}

// NewReader reads uncompressed lines from r.
func NewReader(r io.Reader) (*Reader, error) {
	return &Reader{reader: bufio.NewReader(r)}, nil
}

// SetSkip installs a predicate for lines to ignore (headers, comments).
// Empty lines are always ignored.
func (r *Reader) SetSkip(skip func(line string) bool) {
	r.skip = skip
}

// Next returns the fields of the next data line.
// Returns nil, nil at end of input.
func (r *Reader) Next() ([]string, error) {
	for {
		line, err := r.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read line %d: %w", r.lineNumber+1, err)
		}
		if err == io.EOF && line == "" {
			return nil, nil
		}
		r.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			if err == io.EOF {
				return nil, nil
			}
			continue
		}
		if r.skip != nil && r.skip(line) {
			if err == io.EOF {
				return nil, nil
			}
			continue
		}

		return strings.Split(line, "\t"), nil
	}
}

// LineNumber returns the number of the last line read.
func (r *Reader) LineNumber() int {
	return r.lineNumber
}

// Close closes the reader and the underlying file.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// ParseError reports a malformed line.
type ParseError struct {
	Format  string // e.g. "bed", "knownGene"
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s parse error at line %d: %s", e.Format, e.Line, e.Message)
}
