package views

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"motion-tracker/models"
	"motion-tracker/utils"
)

// ErrEmptyDataset is returned when an export is asked to write no readings.
var ErrEmptyDataset = errors.New("no data to export")

// CSVWriter is a concurrency-safe, buffered CSV writer for sensor rows.
//
// The underlying bufio.Writer absorbs write syscall overhead; callers
// decide when to Flush.
type CSVWriter struct {
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
	csv  *csv.Writer
	rows uint64
}

// NewCSVWriter creates a file and writes the CSV header row.
func NewCSVWriter(path string, bufSizeBytes int, header []string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv create %s: %w", path, err)
	}

	if bufSizeBytes <= 0 {
		bufSizeBytes = 64 * 1024
	}

	bw := bufio.NewWriterSize(f, bufSizeBytes)
	cw := csv.NewWriter(bw)

	w := &CSVWriter{
		file: f,
		buf:  bw,
		csv:  cw,
	}

	if err := cw.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("csv write header: %w", err)
	}

	return w, nil
}

// WriteRow appends a single CSV row. Thread-safe.
func (w *CSVWriter) WriteRow(row []string) {
	w.mu.Lock()
	_ = w.csv.Write(row) // error is buffered; checked on Flush
	w.rows++
	w.mu.Unlock()
}

// Flush pushes the buffered data to the OS.
func (w *CSVWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("csv flush: %w", err)
	}
	return w.buf.Flush()
}

// Close flushes remaining data and closes the file.
func (w *CSVWriter) Close() error {
	flushErr := w.Flush()
	w.mu.Lock()
	closeErr := w.file.Close()
	w.mu.Unlock()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// Rows returns the number of data rows written (excludes header).
func (w *CSVWriter) Rows() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows
}

// FormatCSV writes the header row followed by one row per reading.
// The header is written even when readings is empty.
func FormatCSV(out io.Writer, readings []models.SensorReading) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(models.SensorReading{}.CSVHeader()); err != nil {
		return fmt.Errorf("csv write header: %w", err)
	}
	for i := range readings {
		if err := cw.Write(readings[i].CSVRow()); err != nil {
			return fmt.Errorf("csv write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportResult describes one written file.
type ExportResult struct {
	Path  string
	Rows  int
	Bytes int64
}

// FileExporter writes reading batches as CSV files into one directory.
// It is the local stand-in for handing a file to the user.
type FileExporter struct {
	dir       string
	bufSize   int
	overwrite bool
}

// NewFileExporter creates the output directory if needed.
func NewFileExporter(cfg *utils.StorageConfig) (*FileExporter, error) {
	dir := cfg.Storage.BaseDir
	if !filepath.IsAbs(dir) {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &FileExporter{
		dir:       dir,
		bufSize:   cfg.Storage.CSV.BufferSizeKB * 1024,
		overwrite: cfg.Storage.Overwrite,
	}, nil
}

// Dir returns the absolute output directory.
func (e *FileExporter) Dir() string { return e.dir }

// Export writes readings to <dir>/<filename>. Empty input writes nothing
// and returns ErrEmptyDataset. Unless overwrite is set, an existing file is
// kept and the new one gets a -N suffix. A partially written file is removed.
func (e *FileExporter) Export(ctx context.Context, readings []models.SensorReading, filename string) (ExportResult, error) {
	if len(readings) == 0 {
		return ExportResult{}, ErrEmptyDataset
	}
	if err := ctx.Err(); err != nil {
		return ExportResult{}, err
	}

	path := filepath.Join(e.dir, filename)
	if !e.overwrite {
		var err error
		if path, err = freePath(path); err != nil {
			return ExportResult{}, err
		}
	}

	w, err := NewCSVWriter(path, e.bufSize, models.SensorReading{}.CSVHeader())
	if err != nil {
		return ExportResult{}, err
	}
	for i := range readings {
		w.WriteRow(readings[i].CSVRow())
	}
	if err := w.Close(); err != nil {
		_ = os.Remove(path)
		return ExportResult{}, fmt.Errorf("export %s: %w", path, err)
	}

	res := ExportResult{Path: path, Rows: len(readings)}
	if info, err := os.Stat(path); err == nil {
		res.Bytes = info.Size()
	}
	return res, nil
}

// maxNameAttempts bounds the -N suffix search in freePath.
const maxNameAttempts = 1000

// freePath returns path, or path with a -N suffix before the extension when
// a file of that name already exists.
func freePath(path string) (string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	candidate := path
	for n := 2; n <= maxNameAttempts+1; n++ {
		_, err := os.Stat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("export %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s-%d%s", base, n, ext)
	}
	return "", fmt.Errorf("export %s: no free file name", path)
}
