package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"motion-tracker/models"
)

// maxCaptureLine bounds a single JSON line of a capture file.
const maxCaptureLine = 1 << 20

// DecodeCaptureLine parses one JSON-lines capture record.
func DecodeCaptureLine(line []byte) (*models.MotionEvent, error) {
	var ev models.MotionEvent
	if err := json.Unmarshal(line, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// ReadCapture parses a whole capture stream. Blank lines are ignored and
// malformed lines are counted in skipped rather than failing the read.
func ReadCapture(r io.Reader) (events []models.MotionEvent, skipped int, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxCaptureLine)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		ev, err := DecodeCaptureLine(line)
		if err != nil {
			skipped++
			continue
		}
		events = append(events, *ev)
	}
	if err := sc.Err(); err != nil {
		return events, skipped, fmt.Errorf("read capture: %w", err)
	}
	return events, skipped, nil
}
