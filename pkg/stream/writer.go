package stream

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ssargent/bodyfile/pkg/bodyfile"
)

// Writer appends formatted records to a bodyfile, one line per record
type Writer struct {
	file       *os.File
	writer     *bufio.Writer
	codec      *bodyfile.Codec
	fsyncTimer *time.Timer
	config     WriterConfig
	mutex      sync.Mutex
	offset     int64 // Current write offset
	count      int64
}

// NewWriter creates a writer for config.FilePath. The file is created if it
// does not exist and appended to unless Truncate is set.
func NewWriter(config WriterConfig) (*Writer, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0750); err != nil {
		return nil, err
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if config.Truncate {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}

	file, err := os.OpenFile(config.FilePath, flags, 0600)
	if err != nil {
		return nil, err
	}

	// Get current file size for offset tracking
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	w := &Writer{
		file:   file,
		writer: bufio.NewWriterSize(file, bufferSize(config.BufferSize)),
		codec:  bodyfile.NewCodec(),
		config: config,
		offset: stat.Size(),
	}

	// Set up fsync timer if interval is configured
	if config.FsyncInterval > 0 {
		w.fsyncTimer = time.AfterFunc(config.FsyncInterval, func() {
			w.mutex.Lock()
			defer w.mutex.Unlock()
			w.sync() // Ignore error in timer callback
		})
	}

	return w, nil
}

// NewStreamWriter creates a writer over an arbitrary stream such as stdout.
// Sync only flushes the buffer and Close does not close dst.
func NewStreamWriter(dst io.Writer, bufSize int) *Writer {
	return &Writer{
		writer: bufio.NewWriterSize(dst, bufferSize(bufSize)),
		codec:  bodyfile.NewCodec(),
	}
}

func bufferSize(size int) int {
	if size <= 0 {
		return DefaultBufferSize
	}
	return size
}

// Write appends a record and returns the offset at which its line starts
func (w *Writer) Write(record bodyfile.Record) (int64, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	line := w.codec.Encode(record)

	n, err := w.writer.WriteString(line)
	if err != nil {
		return 0, err
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return 0, err
	}

	// Calculate the offset where this line starts
	lineOffset := w.offset

	w.offset += int64(n) + 1
	w.count++

	if w.file != nil {
		// Sync immediately if no fsync interval configured
		if w.config.FsyncInterval == 0 {
			if err := w.sync(); err != nil {
				return 0, err
			}
		} else if w.fsyncTimer != nil {
			w.fsyncTimer.Reset(w.config.FsyncInterval)
		}
	}

	return lineOffset, nil
}

// Sync flushes buffered lines and fsyncs the file
func (w *Writer) Sync() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.sync()
}

// sync performs the actual flush and fsync (internal method)
func (w *Writer) sync() error {
	if err := w.writer.Flush(); err != nil {
		return err
	}
	if w.file == nil {
		return nil
	}
	return w.file.Sync()
}

// Close flushes all data and closes the file if the writer opened it
func (w *Writer) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.fsyncTimer != nil {
		w.fsyncTimer.Stop()
	}

	if err := w.sync(); err != nil {
		if w.file != nil {
			w.file.Close()
		}
		return err
	}

	if w.file == nil {
		return nil
	}
	return w.file.Close()
}

// Size returns the number of bytes written, including any existing content
func (w *Writer) Size() int64 {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.offset
}

// Count returns the number of records written by this writer
func (w *Writer) Count() int64 {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.count
}

// Path returns the file path, or "" for stream writers
func (w *Writer) Path() string {
	return w.config.FilePath
}
