package ingest

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"motion-tracker/models"
	"motion-tracker/utils"
)

// ReplayReader feeds a recorded JSON-lines capture back as live motion
// events, re-stamped with the current time, at the configured rate.
type ReplayReader struct {
	path     string
	rateHz   int
	loop     bool
	Out      chan *models.MotionEvent
	dropped  uint64
	produced uint64
	skipped  uint64
}

func NewReplayReader(src utils.SourceConfig, cfg utils.MotionConfig) *ReplayReader {
	buf := cfg.ChannelBuffer
	if buf <= 0 {
		buf = 512
	}
	rate := cfg.UpdateRateHz
	if rate <= 0 {
		rate = 60
	}
	return &ReplayReader{
		path:   src.ReplayPath,
		rateHz: rate,
		loop:   src.Loop,
		Out:    make(chan *models.MotionEvent, buf),
	}
}

// Check verifies the capture file can be opened.
func (r *ReplayReader) Check() error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("replay source: %w", err)
	}
	return f.Close()
}

func (r *ReplayReader) Start(ctx context.Context) {
	go r.run(ctx)
	utils.L().Info("replay reader started       (path=%s, rate=%dHz, loop=%v)", r.path, r.rateHz, r.loop)
}

func (r *ReplayReader) Events() <-chan *models.MotionEvent { return r.Out }

func (r *ReplayReader) run(ctx context.Context) {
	defer close(r.Out)

	ticker := time.NewTicker(time.Second / time.Duration(r.rateHz))
	defer ticker.Stop()

	for {
		played, done, err := r.replayOnce(ctx, ticker)
		if err != nil {
			utils.L().Error("replay %s: %v", r.path, err)
			return
		}
		if done || !r.loop || played == 0 {
			break
		}
	}
	utils.L().Info("replay reader stopped       (produced=%d, dropped=%d, skipped=%d)",
		atomic.LoadUint64(&r.produced), atomic.LoadUint64(&r.dropped), atomic.LoadUint64(&r.skipped))
}

// replayOnce plays the file from the start. done reports cancellation.
func (r *ReplayReader) replayOnce(ctx context.Context, ticker *time.Ticker) (played int, done bool, err error) {
	f, err := os.Open(r.path)
	if err != nil {
		return 0, false, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxCaptureLine)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		ev, err := DecodeCaptureLine(line)
		if err != nil {
			atomic.AddUint64(&r.skipped, 1)
			continue
		}

		select {
		case <-ctx.Done():
			return played, true, nil
		case <-ticker.C:
		}

		played++
		ev.TimestampNs = utils.NowNano()
		select {
		case r.Out <- ev:
			atomic.AddUint64(&r.produced, 1)
		default:
			atomic.AddUint64(&r.dropped, 1)
		}
	}
	return played, false, sc.Err()
}

func (r *ReplayReader) Stats() (uint64, uint64) {
	return atomic.LoadUint64(&r.produced), atomic.LoadUint64(&r.dropped)
}
