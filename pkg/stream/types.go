package stream

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ssargent/bodyfile/pkg/bodyfile"
)

// DefaultMaxLineSize is the longest line a Reader accepts unless configured
// otherwise. Names taken from event logs can be several kilobytes long.
const DefaultMaxLineSize = 1 << 20

// DefaultBufferSize is the write buffer size used when none is configured
const DefaultBufferSize = 64 * 1024

// ReaderConfig holds configuration for the bodyfile reader
type ReaderConfig struct {
	FilePath    string       // Path to the bodyfile (NewReader only)
	SkipInvalid bool         // Skip lines that fail to parse instead of returning an error
	MaxLineSize int          // Maximum accepted line length (0 = DefaultMaxLineSize)
	Logger      *slog.Logger // Logger for skipped lines (nil = slog.Default())
}

// WriterConfig holds configuration for the bodyfile writer
type WriterConfig struct {
	FilePath      string        // Path to the output file
	FsyncInterval time.Duration // How often to flush and fsync (0 = every write)
	BufferSize    int           // Write buffer size (0 = DefaultBufferSize)
	Truncate      bool          // Truncate an existing file instead of appending
}

// RecordIterator provides streaming access to records
type RecordIterator interface {
	Next() bool
	Record() bodyfile.Record
	Err() error
	Close() error
}

// LineError reports a line that could not be parsed.
// Err is usually one of the bodyfile.ParseError values.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
