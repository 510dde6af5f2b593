package models

import (
	"strconv"
	"time"
)

// ─── shared formatting helpers (package-private) ────────────────────────

func ftoa(v float64, prec int) string {
	if v == 0 {
		v = 0 // fold -0
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// ISOMillis is the timestamp layout of exported rows (UTC, millisecond precision).
const ISOMillis = "2006-01-02T15:04:05.000Z07:00"

func isoMillis(ns int64) string {
	return time.Unix(0, ns).UTC().Format(ISOMillis)
}

// CSVRowWriter is the interface every exportable model must satisfy.
type CSVRowWriter interface {
	CSVHeader() []string
	CSVRow() []string
}
