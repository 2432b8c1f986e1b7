// Package transcript reads the tail of a session transcript and parses it
// into ordered conversation records without ever reading the file from the
// start.
package transcript

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/stopgate/stopgate/internal/models"
)

// ErrUnreadable indicates the transcript file does not exist or could not be
// opened. Callers treat this as missing evidence, not as a hard failure.
var ErrUnreadable = errors.New("transcript unreadable")

const (
	// DefaultTailBytes is how far back from the end of the file we read.
	DefaultTailBytes = 10 * 1024
	// DefaultMaxRecords caps how many trailing records are returned.
	DefaultMaxRecords = 20
)

// TailOptions bounds the cost of a tail read. Zero values select defaults.
type TailOptions struct {
	TailBytes  int64
	MaxRecords int
}

// Tail returns the last records of the transcript at path, reading at most
// opts.TailBytes from the end of the file.
//
// When the read starts mid-file the first line is dropped since it is
// almost certainly partial. An unterminated final line (a write in
// progress) is discarded. Lines that fail to parse as JSON are kept as
// raw-only records so text-level detectors can still see them.
func Tail(path string, opts TailOptions) ([]models.Record, error) {
	if opts.TailBytes <= 0 {
		opts.TailBytes = DefaultTailBytes
	}
	if opts.MaxRecords <= 0 {
		opts.MaxRecords = DefaultMaxRecords
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreadable, path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreadable, path)
	}
	if info.Size() == 0 {
		return nil, nil
	}

	dropFirstLine := false
	if info.Size() > opts.TailBytes {
		if _, err := f.Seek(-opts.TailBytes, io.SeekEnd); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnreadable, path)
		}
		dropFirstLine = true
	}

	var records []models.Record
	reader := bufio.NewReader(f)
	first := true

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			// A final line without a terminator is a partial write; skip it.
			if !errors.Is(err, io.EOF) {
				slog.Debug("transcript read stopped early", "path", path, "error", err)
			}
			break
		}

		if first && dropFirstLine {
			first = false
			continue
		}
		first = false

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		records = append(records, parseLine(trimmed))
	}

	if len(records) > opts.MaxRecords {
		records = records[len(records)-opts.MaxRecords:]
	}
	return records, nil
}
