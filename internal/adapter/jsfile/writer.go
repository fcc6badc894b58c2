// Package jsfile writes the dated station module read by the Nav-O assistant.
package jsfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/usgs-station-import/internal/domain"
)

// Writer streams station records into the station module.
// It implements pipeline.Loader.
type Writer struct {
	out    *bufio.Writer
	closer io.Closer
	path   string
	lines  int
	logger *slog.Logger
}

// Create opens <dir>/<YYYY-MM-DD>_usgs-stations.js for the current run date,
// truncating any file already written today. The caller owns the Writer and
// must Close it on every path; Close finalizes the file.
func Create(dir string, logger *slog.Logger) (*Writer, error) {
	path := filepath.Join(dir, domain.OutputFileName())
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create station module: %w", err)
	}
	logger.Info("station module opened", "path", path)
	return newWriter(f, f, path, logger), nil
}

func newWriter(w io.Writer, c io.Closer, path string, logger *slog.Logger) *Writer {
	return &Writer{
		out:    bufio.NewWriter(w),
		closer: c,
		path:   path,
		logger: logger,
	}
}

// Path is the file being written.
func (w *Writer) Path() string {
	return w.path
}

// Lines is the number of records written so far.
func (w *Writer) Lines() int {
	return w.lines
}

// Load appends one record line for the station.
func (w *Writer) Load(_ context.Context, s domain.Station) error {
	if _, err := w.out.WriteString(domain.NewRecord(s).Line()); err != nil {
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	w.lines++
	return nil
}

// Flush pushes buffered lines to the file.
func (w *Writer) Flush(_ context.Context) error {
	if err := w.out.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", w.path, err)
	}
	return nil
}

// Close flushes and closes the file. Calling Close more than once is a no-op.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	flushErr := w.out.Flush()
	if flushErr != nil {
		flushErr = fmt.Errorf("flush %s: %w", w.path, flushErr)
	}
	closeErr := w.closer.Close()
	if closeErr != nil {
		closeErr = fmt.Errorf("close %s: %w", w.path, closeErr)
	}
	w.closer = nil
	w.logger.Info("station module closed", "path", w.path, "lines", w.lines)
	return errors.Join(flushErr, closeErr)
}
