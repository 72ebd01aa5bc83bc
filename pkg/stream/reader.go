package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ssargent/bodyfile/pkg/bodyfile"
)

// Reader provides sequential access to the records of a bodyfile
type Reader struct {
	file    *os.File
	scanner *bufio.Scanner
	codec   *bodyfile.Codec
	logger  *slog.Logger
	config  ReaderConfig
	line    int
	skipped int
}

// NewReader opens the bodyfile at config.FilePath
func NewReader(config ReaderConfig) (*Reader, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, err
	}

	r := NewReaderFrom(file, config)
	r.file = file
	return r, nil
}

// NewReaderFrom creates a reader over an arbitrary stream. Closing the
// reader does not close src.
func NewReaderFrom(src io.Reader, config ReaderConfig) *Reader {
	maxLine := config.MaxLineSize
	if maxLine <= 0 {
		maxLine = DefaultMaxLineSize
	}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, min(maxLine, 64*1024)), maxLine)

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reader{
		scanner: scanner,
		codec:   bodyfile.NewCodec(),
		logger:  logger,
		config:  config,
	}
}

// ReadNext reads and parses the next line. It returns io.EOF when the input
// is exhausted and a *LineError for lines that fail to parse, unless the
// reader is configured to skip them.
func (r *Reader) ReadNext() (bodyfile.Record, error) {
	for r.scanner.Scan() {
		r.line++
		// ScanLines drops one trailing \r
		record, err := r.codec.Decode(r.scanner.Text())
		if err == nil {
			return record, nil
		}

		if !r.config.SkipInvalid {
			return bodyfile.Record{}, &LineError{Line: r.line, Err: err}
		}

		r.skipped++
		r.logger.Warn("skipping invalid bodyfile line", "line", r.line, "error", err)
	}

	if err := r.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return bodyfile.Record{}, &LineError{Line: r.line + 1, Err: err}
		}
		return bodyfile.Record{}, fmt.Errorf("failed to read bodyfile: %w", err)
	}

	return bodyfile.Record{}, io.EOF
}

// ReadAll reads every remaining record
func (r *Reader) ReadAll() ([]bodyfile.Record, error) {
	var records []bodyfile.Record
	for {
		record, err := r.ReadNext()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}

// Line returns the number of the last line consumed
func (r *Reader) Line() int {
	return r.line
}

// Skipped returns the number of invalid lines skipped so far
func (r *Reader) Skipped() int {
	return r.skipped
}

// Iterator returns a streaming iterator for records
func (r *Reader) Iterator() RecordIterator {
	return &recordIterator{reader: r}
}

// Close closes the underlying file if the reader opened it
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// recordIterator implements RecordIterator for streaming access
type recordIterator struct {
	reader *Reader
	record bodyfile.Record
	err    error
}

func (it *recordIterator) Next() bool {
	if it.err != nil {
		return false
	}
	it.record, it.err = it.reader.ReadNext()
	return it.err == nil
}

func (it *recordIterator) Record() bodyfile.Record {
	return it.record
}

// Err returns the error that stopped iteration, or nil at end of input
func (it *recordIterator) Err() error {
	if it.err == io.EOF {
		return nil
	}
	return it.err
}

func (it *recordIterator) Close() error {
	// Don't close the underlying reader as it's owned by the caller
	return nil
}
