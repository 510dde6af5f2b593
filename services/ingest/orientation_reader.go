package ingest

import (
	"context"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"motion-tracker/models"
	"motion-tracker/utils"
)

// OrientationSource is any producer of device-orientation events.
type OrientationSource interface {
	Start(ctx context.Context)
	Events() <-chan *models.OrientationEvent
	Stats() (produced, dropped uint64)
}

// OrientationReader simulates device-orientation events (absolute angles).
type OrientationReader struct {
	cfg      utils.OrientationConfig
	Out      chan *models.OrientationEvent
	dropped  uint64
	produced uint64
}

func NewOrientationReader(cfg utils.OrientationConfig) *OrientationReader {
	buf := cfg.ChannelBuffer
	if buf <= 0 {
		buf = 64
	}
	if cfg.UpdateRateHz <= 0 {
		cfg.UpdateRateHz = 30
	}
	return &OrientationReader{
		cfg: cfg,
		Out: make(chan *models.OrientationEvent, buf),
	}
}

func (r *OrientationReader) Start(ctx context.Context) {
	go r.run(ctx)
	utils.L().Info("orientation reader started  (rate=%dHz, buffer=%d)", r.cfg.UpdateRateHz, cap(r.Out))
}

func (r *OrientationReader) Events() <-chan *models.OrientationEvent { return r.Out }

func (r *OrientationReader) run(ctx context.Context) {
	defer close(r.Out)

	interval := time.Second / time.Duration(r.cfg.UpdateRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// compass heading drifts slowly around north
	heading := 0.0

	for {
		select {
		case <-ctx.Done():
			utils.L().Info("orientation reader stopped  (produced=%d, dropped=%d)",
				atomic.LoadUint64(&r.produced), atomic.LoadUint64(&r.dropped))
			return
		case <-ticker.C:
			heading = math.Mod(heading+0.2+rand.Float64()*0.1, 360)
			ev := &models.OrientationEvent{
				TimestampNs: utils.NowNano(),
				Alpha:       heading,
				Beta:        10 + rand.Float64()*2, // tilted towards the user
				Gamma:       rand.Float64()*4 - 2,
			}
			select {
			case r.Out <- ev:
				atomic.AddUint64(&r.produced, 1)
			default:
				atomic.AddUint64(&r.dropped, 1)
			}
		}
	}
}

func (r *OrientationReader) Stats() (uint64, uint64) {
	return atomic.LoadUint64(&r.produced), atomic.LoadUint64(&r.dropped)
}
