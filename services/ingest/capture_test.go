package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motion-tracker/models"
	"motion-tracker/utils"
)

const captureFixture = `{"timestamp_ns":1714564800000000000,"acceleration":{"x":0.1,"y":0.2,"z":0.3},"rotation_rate":{"alpha":1,"beta":2,"gamma":3}}

not json
{"timestamp_ns":1714564800016000000,"acceleration_including_gravity":{"x":0.5,"y":0,"z":9.81}}
{"timestamp_ns":1714564800032000000}
`

func TestReadCapture(t *testing.T) {
	events, skipped, err := ReadCapture(strings.NewReader(captureFixture))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, events, 3)

	first := events[0].ToReading()
	assert.Equal(t, int64(1714564800000000000), first.TimestampNs)
	assert.Equal(t, models.Accelerometer{X: 0.1, Y: 0.2, Z: 0.3}, first.Accelerometer)
	assert.Equal(t, models.Gyroscope{Alpha: 1, Beta: 2, Gamma: 3}, first.Gyroscope)

	second := events[1].ToReading()
	assert.Equal(t, models.Accelerometer{X: 0.5, Y: 0, Z: 9.81}, second.Accelerometer)
	assert.Equal(t, models.Gyroscope{}, second.Gyroscope)

	assert.Equal(t, models.SensorReading{TimestampNs: 1714564800032000000}, events[2].ToReading())
}

func TestDecodeCaptureLine_Rejects(t *testing.T) {
	_, err := DecodeCaptureLine([]byte(`{"timestamp_ns":"soon"}`))
	assert.Error(t, err)
}

func writeCapture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func drain(t *testing.T, ch <-chan *models.MotionEvent) []*models.MotionEvent {
	t.Helper()
	var out []*models.MotionEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("replay did not finish")
			return out
		}
	}
}

func TestReplayReader_PlaysValidLinesOnce(t *testing.T) {
	path := writeCapture(t, captureFixture)
	r := NewReplayReader(utils.SourceConfig{Kind: "replay", ReplayPath: path},
		utils.MotionConfig{Enabled: true, UpdateRateHz: 500})
	require.NoError(t, r.Check())

	before := utils.NowNano()
	r.Start(context.Background())
	events := drain(t, r.Events())

	require.Len(t, events, 3)
	assert.Equal(t, 0.1, events[0].Acceleration.X)
	for _, ev := range events {
		assert.GreaterOrEqual(t, ev.TimestampNs, before, "replayed events carry the current time")
	}
	produced, dropped := r.Stats()
	assert.EqualValues(t, 3, produced)
	assert.Zero(t, dropped)
}

func TestReplayReader_LoopStopsOnCancel(t *testing.T) {
	path := writeCapture(t, captureFixture)
	r := NewReplayReader(utils.SourceConfig{Kind: "replay", ReplayPath: path, Loop: true},
		utils.MotionConfig{Enabled: true, UpdateRateHz: 500, ChannelBuffer: 4})

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	for i := 0; i < 7; i++ {
		select {
		case <-r.Events():
		case <-time.After(5 * time.Second):
			t.Fatal("loop replay stalled")
		}
	}
	cancel()
	drain(t, r.Events())
}

func TestReplayReader_NoValidLinesEnds(t *testing.T) {
	path := writeCapture(t, "garbage\n{\n")
	r := NewReplayReader(utils.SourceConfig{ReplayPath: path, Loop: true}, utils.MotionConfig{UpdateRateHz: 500})
	r.Start(context.Background())
	assert.Empty(t, drain(t, r.Events()))
}

func TestReplayReader_CheckMissingFile(t *testing.T) {
	r := NewReplayReader(utils.SourceConfig{ReplayPath: filepath.Join(t.TempDir(), "missing.jsonl")}, utils.MotionConfig{})
	assert.Error(t, r.Check())
}

func TestSimulatedReaders_ProduceUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	motion := NewMotionReader(utils.MotionConfig{Enabled: true, UpdateRateHz: 200})
	orientation := NewOrientationReader(utils.OrientationConfig{Enabled: true, UpdateRateHz: 200})
	motion.Start(ctx)
	orientation.Start(ctx)

	select {
	case ev := <-motion.Events():
		r := ev.ToReading()
		assert.InDelta(t, 0, r.Accelerometer.Z, 1, "gravity-free z hovers around zero")
	case <-time.After(2 * time.Second):
		t.Fatal("no motion event")
	}
	select {
	case ev := <-orientation.Events():
		assert.GreaterOrEqual(t, ev.Alpha, 0.0)
		assert.Less(t, ev.Alpha, 360.0)
	case <-time.After(2 * time.Second):
		t.Fatal("no orientation event")
	}

	cancel()
	drain(t, motion.Events())
	for range orientation.Events() {
	}
}
