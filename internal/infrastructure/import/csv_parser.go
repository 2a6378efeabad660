// Package csvimport reads delimited text exports into tracking tables.
package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rastreo/backend/internal/domain/tracking"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// encodingProbeSize is how much of the export is checked for valid UTF-8
const encodingProbeSize = 4096

type readerConfig struct {
	delimiter  rune
	lazyQuotes bool
	maxBytes   int64
}

// Option configures a TableReader
type Option func(*readerConfig)

// WithDelimiter sets the field separator. The default is a comma.
func WithDelimiter(d rune) Option {
	return func(c *readerConfig) { c.delimiter = d }
}

// WithLazyQuotes tolerates stray quotes inside unquoted cells (on by default)
func WithLazyQuotes(lazy bool) Option {
	return func(c *readerConfig) { c.lazyQuotes = lazy }
}

// WithMaxBytes fails the read with ErrFileTooLarge past n bytes. Zero means no limit.
func WithMaxBytes(n int64) Option {
	return func(c *readerConfig) { c.maxBytes = n }
}

// ParseDelimiter converts a configured delimiter string to a rune.
// The empty string selects the comma; "\t" and "tab" select a tab.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, s)
	}
	return r, nil
}

// TableReader turns an exported sheet into tracking rows keyed by header.
// The header is consumed when the reader is built.
type TableReader struct {
	cfg    readerConfig
	csv    *csv.Reader
	header []string
	line   int
	rows   int
}

// NewTableReader checks the export's encoding, drops a UTF-8 byte order
// mark and reads the header line
func NewTableReader(r io.Reader, opts ...Option) (*TableReader, error) {
	cfg := readerConfig{delimiter: ',', lazyQuotes: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.maxBytes > 0 {
		r = &capReader{r: r, remaining: cfg.maxBytes}
	}
	buf := bufio.NewReaderSize(r, encodingProbeSize)
	if err := checkEncoding(buf); err != nil {
		return nil, err
	}

	cr := csv.NewReader(transform.NewReader(buf, xunicode.BOMOverride(transform.Nop)))
	cr.Comma = cfg.delimiter
	cr.LazyQuotes = cfg.lazyQuotes
	cr.FieldsPerRecord = -1

	tr := &TableReader{cfg: cfg, csv: cr}
	if err := tr.readHeader(); err != nil {
		return nil, err
	}
	return tr, nil
}

func checkEncoding(buf *bufio.Reader) error {
	probe, err := buf.Peek(encodingProbeSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		if errors.Is(err, ErrFileTooLarge) {
			return err
		}
		return fmt.Errorf("read export: %w", err)
	}
	if len(probe) == 0 {
		return ErrEmptyFile
	}

	// a multi-byte rune may straddle the end of a full probe
	if len(probe) == encodingProbeSize {
		for i := 0; i < utf8.UTFMax && len(probe) > 0 && !utf8.FullRune(probe[lastRuneStart(probe):]); i++ {
			probe = probe[:lastRuneStart(probe)]
		}
	}
	if !utf8.Valid(probe) {
		return ErrInvalidEncoding
	}
	return nil
}

func lastRuneStart(b []byte) int {
	i := len(b) - 1
	for i > 0 && !utf8.RuneStart(b[i]) {
		i--
	}
	return i
}

// readHeader names every column. Repeated names are made unique with
// tracking.UniqueColumns so the later columns stay addressable.
func (tr *TableReader) readHeader() error {
	record, err := tr.csv.Read()
	if errors.Is(err, io.EOF) {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	tr.line = 1

	names := make([]string, len(record))
	for i, name := range record {
		names[i] = tr.clean(name)
	}
	tr.header = tracking.UniqueColumns(names)
	return nil
}

func (tr *TableReader) clean(s string) string {
	return strings.TrimFunc(s, unicode.IsSpace)
}

// Header returns the column names in sheet order
func (tr *TableReader) Header() []string {
	return tr.header
}

// Next returns the next record, or io.EOF after the last one.
// Empty cells and the cells missing from a short record are nil.
func (tr *TableReader) Next() (tracking.Row, error) {
	record, err := tr.csv.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	tr.line++
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return nil, ErrFileTooLarge
		}
		return nil, newRowError(tr.line, err)
	}
	tr.rows++

	row := make(tracking.Row, len(tr.header))
	for i, name := range tr.header {
		row[name] = nil
		if i < len(record) {
			if v := tr.clean(record[i]); v != "" {
				row[name] = v
			}
		}
	}
	return row, nil
}

// Line is the 1-based line of the last record read, the header being line 1
func (tr *TableReader) Line() int {
	return tr.line
}

// Rows counts the records read so far, blank ones included
func (tr *TableReader) Rows() int {
	return tr.rows
}

// ReadTable parses a whole export into a table named name.
// Records whose cells are all empty are dropped.
func ReadTable(name string, r io.Reader, opts ...Option) (*tracking.Table, error) {
	tr, err := NewTableReader(r, opts...)
	if err != nil {
		return nil, err
	}

	table := &tracking.Table{
		Name:    name,
		Columns: append([]string(nil), tr.Header()...),
	}
	for {
		row, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return table, nil
		}
		if err != nil {
			return nil, err
		}
		if !blank(row) {
			table.Rows = append(table.Rows, row)
		}
	}
}

// ReadTableBytes parses an export held in memory
func ReadTableBytes(name string, data []byte, opts ...Option) (*tracking.Table, error) {
	return ReadTable(name, bytes.NewReader(data), opts...)
}

func blank(row tracking.Row) bool {
	for _, v := range row {
		if v != nil {
			return false
		}
	}
	return true
}

// capReader fails with ErrFileTooLarge once more than remaining bytes arrive
type capReader struct {
	r         io.Reader
	remaining int64
}

func (c *capReader) Read(p []byte) (int, error) {
	if c.remaining < 0 {
		return 0, ErrFileTooLarge
	}
	if int64(len(p)) > c.remaining+1 {
		p = p[:c.remaining+1]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		return n, ErrFileTooLarge
	}
	return n, err
}
