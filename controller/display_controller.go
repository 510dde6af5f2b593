package controller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"motion-tracker/models"
	"motion-tracker/utils"
)

// DisplayController decouples the sensor event rate from rendering. Events
// overwrite a latest-value slot; a frame loop copies that slot into the
// display state at a fixed rate.
type DisplayController struct {
	mu      sync.Mutex
	latest  models.SensorReading
	display models.SensorReading

	clock  utils.Clock
	fps    int
	frames uint64
}

// NewDisplayController renders at fps frames per second (60 when <= 0).
func NewDisplayController(fps int, clock utils.Clock) *DisplayController {
	if fps <= 0 {
		fps = 60
	}
	if clock == nil {
		clock = utils.SystemClock
	}
	return &DisplayController{fps: fps, clock: clock}
}

// UpdateMotion stores the newest motion sample.
func (dc *DisplayController) UpdateMotion(r models.SensorReading) {
	dc.mu.Lock()
	dc.latest = r
	dc.mu.Unlock()
}

// UpdateOrientation replaces only the gyroscope part of the latest sample.
func (dc *DisplayController) UpdateOrientation(ev models.OrientationEvent) {
	dc.mu.Lock()
	dc.latest.Gyroscope = models.Gyroscope{Alpha: ev.Alpha, Beta: ev.Beta, Gamma: ev.Gamma}
	dc.mu.Unlock()
}

// Start runs the frame loop until ctx is cancelled.
func (dc *DisplayController) Start(ctx context.Context) {
	ticker := dc.clock.NewTicker(time.Second / time.Duration(dc.fps))
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				dc.frame()
			}
		}
	}()
	utils.L().Info("display controller started (fps=%d)", dc.fps)
}

func (dc *DisplayController) frame() {
	dc.mu.Lock()
	dc.display = dc.latest
	dc.mu.Unlock()
	atomic.AddUint64(&dc.frames, 1)
}

// Snapshot returns the reading as of the last frame.
func (dc *DisplayController) Snapshot() models.SensorReading {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return dc.display
}

// Frames returns the number of frames rendered.
func (dc *DisplayController) Frames() uint64 {
	return atomic.LoadUint64(&dc.frames)
}
