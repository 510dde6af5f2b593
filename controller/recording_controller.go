package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"motion-tracker/models"
	"motion-tracker/utils"
	"motion-tracker/views"
)

// ErrNotRecording is returned by Stop when no recording is active.
var ErrNotRecording = errors.New("not recording")

// Exporter writes one batch of readings to a named file.
type Exporter interface {
	Export(ctx context.Context, readings []models.SensorReading, filename string) (views.ExportResult, error)
}

// SessionOptions configures a RecordingSession. Zero values fall back to
// the defaults noted on each field.
type SessionOptions struct {
	ChunkSize     int         // readings per chunk file (1000)
	Clock         utils.Clock // utils.SystemClock
	Namer         views.FileNamer
	Notifier      *Notifier
	HasPermission func() bool // nil means always granted
}

// RecordingSession buffers motion samples for one recording and decides
// when they are written out.
//
// In chunked mode the oldest ChunkSize readings are taken off the buffer
// the moment it reaches ChunkSize and written by a background goroutine;
// the chunk counter only counts successful writes. In continuous mode the
// buffer grows until Stop. A one-second ticker advances the duration
// while recording.
type RecordingSession struct {
	mu sync.Mutex

	exporter  Exporter
	clock     utils.Clock
	namer     views.FileNamer
	notifier  *Notifier
	permitted func() bool
	chunkSize int

	id        string
	mode      models.RecordingMode
	recording bool
	stopping  bool
	buffer    []models.SensorReading
	duration  int
	chunks    int // successful chunk writes
	chunkSeq  int // last chunk number handed out
	samples   int
	files     []string

	stopTick chan struct{}
	tickDone chan struct{}
	flushes  sync.WaitGroup
}

// NewRecordingSession creates an idle session writing through exporter.
func NewRecordingSession(exporter Exporter, opts SessionOptions) *RecordingSession {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = utils.DefaultChunkSize
	}
	if opts.Clock == nil {
		opts.Clock = utils.SystemClock
	}
	if opts.Namer.Clock == nil {
		opts.Namer = views.NewFileNamer(opts.Namer.Prefix, opts.Clock)
	}
	if opts.HasPermission == nil {
		opts.HasPermission = func() bool { return true }
	}
	return &RecordingSession{
		exporter:  exporter,
		clock:     opts.Clock,
		namer:     opts.Namer,
		notifier:  opts.Notifier,
		permitted: opts.HasPermission,
		chunkSize: opts.ChunkSize,
	}
}

// Start resets the buffer and counters and begins the duration timer.
// It returns false without side effects when permission has not been
// granted or a recording is already running.
func (s *RecordingSession) Start(mode models.RecordingMode) bool {
	if !s.permitted() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recording || s.stopping {
		return false
	}

	s.id = uuid.NewString()
	s.mode = mode
	s.recording = true
	s.buffer = make([]models.SensorReading, 0, s.chunkSize)
	s.duration = 0
	s.chunks = 0
	s.chunkSeq = 0
	s.samples = 0
	s.files = nil

	t := s.clock.NewTicker(time.Second)
	s.stopTick = make(chan struct{})
	s.tickDone = make(chan struct{})
	go s.tick(t, s.stopTick, s.tickDone)

	utils.L().Info("recording started  session=%s mode=%s chunk_size=%d", s.id, mode, s.chunkSize)
	return true
}

func (s *RecordingSession) tick(t utils.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			s.mu.Lock()
			if s.recording {
				s.duration++
			}
			s.mu.Unlock()
		}
	}
}

// OnSample appends a reading to the buffer. Samples received while idle
// are dropped.
func (s *RecordingSession) OnSample(r models.SensorReading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording {
		return
	}

	s.buffer = append(s.buffer, r)
	s.samples++

	if s.mode != models.ModeChunked || len(s.buffer) < s.chunkSize {
		return
	}

	chunk := make([]models.SensorReading, s.chunkSize)
	copy(chunk, s.buffer[:s.chunkSize])
	rest := make([]models.SensorReading, len(s.buffer)-s.chunkSize, s.chunkSize)
	copy(rest, s.buffer[s.chunkSize:])
	s.buffer = rest

	s.chunkSeq++
	num, id := s.chunkSeq, s.id
	s.flushes.Add(1)
	go func() {
		defer s.flushes.Done()
		s.flushChunk(context.Background(), id, chunk, num)
	}()
}

// flushChunk writes one chunk and counts it on success. Failures are
// reported once and the chunk is not retried.
func (s *RecordingSession) flushChunk(ctx context.Context, sessionID string, chunk []models.SensorReading, num int) bool {
	res, err := s.exporter.Export(ctx, chunk, s.namer.Chunk(num))
	if err != nil {
		utils.L().Error("chunk %03d write failed  session=%s: %v", num, sessionID, err)
		s.notifier.Show(fmt.Sprintf("Chunk %d could not be saved", num))
		return false
	}

	s.mu.Lock()
	if s.id == sessionID {
		s.chunks++
		s.files = append(s.files, res.Path)
	}
	s.mu.Unlock()

	utils.L().Info("chunk %03d saved  rows=%d size=%s path=%s",
		num, res.Rows, humanize.Bytes(uint64(res.Bytes)), res.Path)
	return true
}

// Stop halts the timer, waits for in-flight chunk writes and flushes what
// is left: a final chunk in chunked mode, the whole recording in continuous
// mode. No file is written when nothing is buffered. The returned summary
// is valid even when the final write fails; that error is also returned.
func (s *RecordingSession) Stop(ctx context.Context) (models.RecordingSummary, error) {
	s.mu.Lock()
	if !s.recording {
		s.mu.Unlock()
		return models.RecordingSummary{}, ErrNotRecording
	}
	s.recording = false
	s.stopping = true
	close(s.stopTick)
	tickDone := s.tickDone
	remaining := s.buffer
	s.buffer = nil
	mode, id := s.mode, s.id
	s.mu.Unlock()

	<-tickDone
	s.flushes.Wait()

	s.mu.Lock()
	summary := models.RecordingSummary{
		SessionID: id,
		Mode:      mode,
		Duration:  s.duration,
		Samples:   s.samples,
	}
	finalNum := s.chunkSeq + 1
	s.mu.Unlock()

	var err error
	switch {
	case mode == models.ModeChunked && len(remaining) > 0:
		if s.flushChunk(ctx, id, remaining, finalNum) {
			s.mu.Lock()
			s.chunkSeq = finalNum
			s.mu.Unlock()
		} else {
			err = fmt.Errorf("final chunk %d not saved", finalNum)
		}
	case mode == models.ModeContinuous && len(remaining) > 0:
		summary.Data = remaining
		var res views.ExportResult
		res, err = s.exporter.Export(ctx, remaining, s.namer.Complete())
		if err == nil {
			s.mu.Lock()
			s.files = append(s.files, res.Path)
			s.mu.Unlock()
			utils.L().Info("recording saved  rows=%d size=%s path=%s",
				res.Rows, humanize.Bytes(uint64(res.Bytes)), res.Path)
		} else {
			err = fmt.Errorf("save recording: %w", err)
		}
	}

	s.mu.Lock()
	summary.Chunks = s.chunks
	summary.Files = append([]string(nil), s.files...)
	s.stopping = false
	s.mu.Unlock()

	summary.Message = summaryMessage(summary, err)
	if err != nil {
		utils.L().Error("recording stopped with error  session=%s: %v", id, err)
	}
	utils.L().Info("recording stopped  session=%s mode=%s duration=%s samples=%d chunks=%d files=%d",
		id, mode, views.FormatDuration(summary.Duration), summary.Samples, summary.Chunks, len(summary.Files))
	s.notifier.Show(summary.Message)
	return summary, err
}

func summaryMessage(s models.RecordingSummary, err error) string {
	dur := views.FormatDuration(s.Duration)
	switch {
	case err != nil:
		return "Export failed"
	case len(s.Files) == 0:
		return "No data to export"
	case s.Mode == models.ModeChunked:
		return fmt.Sprintf("Saved %d chunks - Total duration: %s", s.Chunks, dur)
	default:
		return fmt.Sprintf("Complete recording saved! Duration: %s", dur)
	}
}

// IsRecording reports whether a recording is active.
func (s *RecordingSession) IsRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// Mode returns the mode of the current or next recording.
func (s *RecordingSession) Mode() models.RecordingMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode changes the mode for the next recording. It is refused while
// recording.
func (s *RecordingSession) SetMode(m models.RecordingMode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recording || s.stopping {
		return false
	}
	s.mode = m
	return true
}

// Duration returns whole seconds recorded so far.
func (s *RecordingSession) Duration() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

// ChunkCount returns the number of chunk files written successfully.
func (s *RecordingSession) ChunkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chunks
}

// Buffered returns the number of readings waiting to be flushed.
func (s *RecordingSession) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffer)
}

// SessionID returns the id of the current or last recording.
func (s *RecordingSession) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// ChunkSize returns the number of readings per chunk file.
func (s *RecordingSession) ChunkSize() int { return s.chunkSize }
