package views

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// MotionColumns is the fixed column layout of every exported file.
// models.SensorReading.CSVHeader must agree with it.
var MotionColumns = []string{
	"timestamp",
	"accel_x", "accel_y", "accel_z",
	"gyro_alpha", "gyro_beta", "gyro_gamma",
}

// CheckHeader reports whether header matches MotionColumns exactly.
func CheckHeader(header []string) error {
	if len(header) != len(MotionColumns) {
		return fmt.Errorf("header has %d columns, want %d", len(header), len(MotionColumns))
	}
	for i, col := range MotionColumns {
		if strings.TrimSpace(header[i]) != col {
			return fmt.Errorf("column %d is %q, want %q", i, header[i], col)
		}
	}
	return nil
}

// InspectFile validates the header of an exported CSV and counts its data rows.
func InspectFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(MotionColumns)
	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read header %s: %w", path, err)
	}
	if err := CheckHeader(header); err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}

	rows := 0
	for {
		_, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, fmt.Errorf("%s row %d: %w", path, rows+1, err)
		}
		rows++
	}
}
