package views

import (
	"fmt"

	"motion-tracker/utils"
)

// FileNamer builds export file names from the clock's current time:
//
//	<prefix>_YYYY-MM-DD_HH-MM-SS_chunk-NNN.csv
//	<prefix>_YYYY-MM-DD_HH-MM-SS_complete.csv
//	<prefix>_YYYY-MM-DD_HH-MM-SS.csv
type FileNamer struct {
	Prefix string
	Clock  utils.Clock
}

// NewFileNamer uses the system clock when clock is nil.
func NewFileNamer(prefix string, clock utils.Clock) FileNamer {
	if clock == nil {
		clock = utils.SystemClock
	}
	if prefix == "" {
		prefix = "motion-data"
	}
	return FileNamer{Prefix: prefix, Clock: clock}
}

func (n FileNamer) stamp() string {
	return n.Clock.Now().Format("2006-01-02_15-04-05")
}

// Chunk names the n-th chunk file of a chunked recording.
func (n FileNamer) Chunk(num int) string {
	return fmt.Sprintf("%s_%s_chunk-%03d.csv", n.Prefix, n.stamp(), num)
}

// Complete names the single file of a continuous recording.
func (n FileNamer) Complete() string {
	return fmt.Sprintf("%s_%s_complete.csv", n.Prefix, n.stamp())
}

// Plain names a standalone export.
func (n FileNamer) Plain() string {
	return fmt.Sprintf("%s_%s.csv", n.Prefix, n.stamp())
}
