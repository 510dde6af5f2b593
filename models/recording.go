package models

import (
	"fmt"
	"strings"
	"time"
)

// RecordingMode decides when buffered readings are written out.
type RecordingMode int

const (
	// ModeChunked writes a file every ChunkSize readings while recording.
	ModeChunked RecordingMode = iota
	// ModeContinuous writes the whole dataset once, at stop.
	ModeContinuous
)

var modeNames = map[RecordingMode]string{
	ModeChunked:    "chunked",
	ModeContinuous: "continuous",
}

func (m RecordingMode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return "unknown"
}

// ParseRecordingMode accepts "chunked" or "continuous" (case-insensitive).
// An empty string yields the default, chunked.
func ParseRecordingMode(s string) (RecordingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "chunked":
		return ModeChunked, nil
	case "continuous":
		return ModeContinuous, nil
	}
	return ModeChunked, fmt.Errorf("unknown recording mode %q", s)
}

// Toggle returns the other mode.
func (m RecordingMode) Toggle() RecordingMode {
	if m == ModeChunked {
		return ModeContinuous
	}
	return ModeChunked
}

// PermissionState tracks sensor access.
type PermissionState int

const (
	PermissionUnknown PermissionState = iota
	PermissionRequesting
	PermissionGranted
	PermissionDenied
)

var permissionNames = [...]string{"unknown", "requesting", "granted", "denied"}

func (p PermissionState) String() string {
	if int(p) < len(permissionNames) {
		return permissionNames[p]
	}
	return "invalid"
}

// SensorSupport reports which event streams the platform can deliver.
type SensorSupport struct {
	Motion      bool `json:"motion"`
	Orientation bool `json:"orientation"`
}

// Any reports whether at least one stream is available.
func (s SensorSupport) Any() bool { return s.Motion || s.Orientation }

// RecordingSummary is returned when a recording stops.
type RecordingSummary struct {
	SessionID string          `json:"session_id"`
	Mode      RecordingMode   `json:"mode"`
	Duration  int             `json:"duration_s"`
	Chunks    int             `json:"chunks"`
	Samples   int             `json:"samples"`
	Files     []string        `json:"files"`
	Data      []SensorReading `json:"-"` // continuous mode only
	Message   string          `json:"message"`
}

// Elapsed returns the duration as a time.Duration.
func (s RecordingSummary) Elapsed() time.Duration {
	return time.Duration(s.Duration) * time.Second
}
