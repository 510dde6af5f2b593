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

// MotionSource is any producer of device-motion events.
type MotionSource interface {
	Start(ctx context.Context)
	Events() <-chan *models.MotionEvent
	Stats() (produced, dropped uint64)
}

// MotionReader simulates a handheld device's motion sensor at a fixed rate.
type MotionReader struct {
	cfg      utils.MotionConfig
	Out      chan *models.MotionEvent
	dropped  uint64
	produced uint64
}

func NewMotionReader(cfg utils.MotionConfig) *MotionReader {
	buf := cfg.ChannelBuffer
	if buf <= 0 {
		buf = 512
	}
	if cfg.UpdateRateHz <= 0 {
		cfg.UpdateRateHz = 60
	}
	return &MotionReader{
		cfg: cfg,
		Out: make(chan *models.MotionEvent, buf),
	}
}

func (r *MotionReader) Start(ctx context.Context) {
	go r.run(ctx)
	utils.L().Info("motion reader started       (rate=%dHz, buffer=%d)", r.cfg.UpdateRateHz, cap(r.Out))
}

func (r *MotionReader) Events() <-chan *models.MotionEvent { return r.Out }

func (r *MotionReader) run(ctx context.Context) {
	defer close(r.Out)

	interval := time.Second / time.Duration(r.cfg.UpdateRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var step float64
	for {
		select {
		case <-ctx.Done():
			utils.L().Info("motion reader stopped       (produced=%d, dropped=%d)",
				atomic.LoadUint64(&r.produced), atomic.LoadUint64(&r.dropped))
			return
		case <-ticker.C:
			ev := simulateMotion(step, utils.NowNano())
			step += 0.05

			select {
			case r.Out <- ev:
				atomic.AddUint64(&r.produced, 1)
			default:
				atomic.AddUint64(&r.dropped, 1)
			}
		}
	}
}

// simulateMotion models a phone held in the hand: gravity on z, a slow
// sway on x/y and small rotation rates.
func simulateMotion(step float64, ts int64) *models.MotionEvent {
	acc := models.Vector3{
		X: 0.3*math.Sin(step) + rand.Float64()*0.02,
		Y: 0.2*math.Cos(step) + rand.Float64()*0.02,
		Z: 0.05*math.Sin(step*0.5) + rand.Float64()*0.01,
	}
	return &models.MotionEvent{
		TimestampNs:  ts,
		Acceleration: &acc,
		AccelerationIncludingGravity: &models.Vector3{
			X: acc.X,
			Y: acc.Y,
			Z: acc.Z + 9.81,
		},
		RotationRate: &models.RotationRate{
			Alpha: 5*math.Sin(step*2) + rand.Float64()*0.5,
			Beta:  3*math.Cos(step*2) + rand.Float64()*0.5,
			Gamma: 1 + rand.Float64()*0.2,
		},
	}
}

func (r *MotionReader) Stats() (uint64, uint64) {
	return atomic.LoadUint64(&r.produced), atomic.LoadUint64(&r.dropped)
}
