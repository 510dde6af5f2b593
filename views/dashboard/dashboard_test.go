package dashboard

import (
	"context"
	"io"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motion-tracker/controller"
	"motion-tracker/models"
	"motion-tracker/services/ingest"
	"motion-tracker/utils"
	"motion-tracker/views"
)

func TestMain(m *testing.M) {
	utils.InitLogger(utils.ERROR, "", io.Discard)
	os.Exit(m.Run())
}

type memExporter struct{ files int }

func (e *memExporter) Export(_ context.Context, readings []models.SensorReading, filename string) (views.ExportResult, error) {
	e.files++
	return views.ExportResult{Path: filename, Rows: len(readings)}, nil
}

func newTestApp(t *testing.T, requirePrompt bool) *controller.App {
	t.Helper()
	sources := controller.Sources{
		Motion: func() ingest.MotionSource {
			return ingest.NewMotionReader(utils.MotionConfig{Enabled: true, UpdateRateHz: 60})
		},
	}
	notifier := controller.NewNotifier(0, nil)
	sensors := controller.NewSensorsController(sources, requirePrompt, nil)
	session := controller.NewRecordingSession(&memExporter{}, controller.SessionOptions{
		Notifier:      notifier,
		HasPermission: sensors.HasPermission,
	})
	app := controller.NewApp(sensors, session, controller.NewDisplayController(60, nil), notifier)
	t.Cleanup(func() { _, _ = app.Close(context.Background()) })
	return app
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

func TestRender_NoSensors(t *testing.T) {
	out := render(controller.Status{Permission: models.PermissionDenied}, false)
	assert.Contains(t, out, "Motion Tracker")
	assert.Contains(t, out, "Device sensors not available.")
	assert.NotContains(t, out, "Accelerometer")
}

func TestRender_PermissionStates(t *testing.T) {
	support := models.SensorSupport{Motion: true}
	cases := map[models.PermissionState]string{
		models.PermissionUnknown:    "Press a to allow motion access.",
		models.PermissionRequesting: "Requesting...",
		models.PermissionDenied:     "Permission denied.",
	}
	for state, want := range cases {
		out := render(controller.Status{Support: support, Permission: state}, false)
		assert.Contains(t, out, want, state.String())
		assert.NotContains(t, out, "Status:", state.String())
	}
}

func TestRender_Ready(t *testing.T) {
	out := render(controller.Status{
		Support:    models.SensorSupport{Motion: true, Orientation: true},
		Permission: models.PermissionGranted,
		Mode:       models.ModeChunked,
		ChunkSize:  1000,
		Reading: models.SensorReading{
			Accelerometer: models.Accelerometer{X: 0.12345, Y: -1, Z: 9.81},
			Gyroscope:     models.Gyroscope{Alpha: 12.5},
		},
		Notification: "Permission granted! Sensors are now active.",
	}, false)

	assert.Contains(t, out, "Status: Ready")
	assert.Contains(t, out, "Accelerometer")
	assert.Contains(t, out, "Gyroscope")
	assert.Contains(t, out, "0.123")
	assert.Contains(t, out, "9.810")
	assert.Contains(t, out, "12.500")
	assert.Contains(t, out, "Auto-save every 1000 data points")
	assert.Contains(t, out, "Save all data when stopped")
	assert.Contains(t, out, "Press space to begin data collection in chunked mode")
	assert.Contains(t, out, "Permission granted! Sensors are now active.")
	assert.NotContains(t, out, "Duration:")
}

func TestRender_Recording(t *testing.T) {
	status := controller.Status{
		Support:    models.SensorSupport{Motion: true},
		Permission: models.PermissionGranted,
		Recording:  true,
		Mode:       models.ModeChunked,
		Duration:   65,
		Chunks:     2,
		Buffered:   340,
		ChunkSize:  1000,
	}
	out := render(status, false)
	assert.Contains(t, out, "Status: Recording (chunked)")
	assert.Contains(t, out, "Duration: 1:05")
	assert.Contains(t, out, "Chunks Downloaded: 2")
	assert.Contains(t, out, "(340 buffered)")

	status.Mode = models.ModeContinuous
	out = render(status, false)
	assert.Contains(t, out, "Status: Recording (continuous)")
	assert.NotContains(t, out, "Chunks Downloaded")
	assert.Contains(t, out, "stop to save the complete file")

	assert.Contains(t, render(status, true), "Saving recording...")
}

func TestUpdate_RecordToggleAndModeLock(t *testing.T) {
	app := newTestApp(t, false)
	m := newModel(context.Background(), app, 60)

	m, _ = press(t, m, runes("m"))
	assert.Equal(t, models.ModeContinuous, m.status.Mode)

	m, cmd := press(t, m, runes("r"))
	assert.Nil(t, cmd)
	assert.True(t, m.status.Recording)
	assert.Equal(t, "Recording started in continuous mode", m.status.Notification)

	m, _ = press(t, m, runes("m"))
	assert.Equal(t, models.ModeContinuous, m.status.Mode, "mode is locked while recording")

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.NotNil(t, cmd)
	assert.True(t, m.stopping)
	assert.Contains(t, m.View(), "Saving recording...")

	m, cmd = press(t, m, cmd())
	assert.Nil(t, cmd)
	assert.False(t, m.stopping)
	assert.False(t, m.status.Recording)
	require.NotNil(t, m.last)
	assert.Equal(t, models.ModeContinuous, m.last.Mode)
}

func TestUpdate_QuitStopsRecordingFirst(t *testing.T) {
	app := newTestApp(t, false)
	m := newModel(context.Background(), app, 60)

	m, _ = press(t, m, runes("r"))
	require.True(t, app.Session.IsRecording())

	m, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.quitAfterStop)

	m, cmd = press(t, m, cmd())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
	assert.False(t, app.Session.IsRecording())
}

func TestUpdate_QuitWhenIdle(t *testing.T) {
	m := newModel(context.Background(), newTestApp(t, false), 60)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Nil(t, m.last)
}

func TestUpdate_AllowAndDeny(t *testing.T) {
	app := newTestApp(t, true)
	m := newModel(context.Background(), app, 60)
	require.Equal(t, models.PermissionUnknown, m.status.Permission)

	m, cmd := press(t, m, runes("r"))
	assert.Nil(t, cmd, "recording needs permission")
	assert.False(t, app.Session.IsRecording())

	m, cmd = press(t, m, runes("d"))
	require.NotNil(t, cmd)
	m, _ = press(t, m, cmd())
	assert.Equal(t, models.PermissionDenied, m.status.Permission)
	assert.Contains(t, m.View(), "Permission denied.")

	m, cmd = press(t, m, runes("a"))
	require.NotNil(t, cmd)
	m, _ = press(t, m, cmd())
	assert.Equal(t, models.PermissionGranted, m.status.Permission)
	assert.True(t, app.Sensors.Monitoring())
	assert.Contains(t, m.View(), "Status: Ready")

	_, cmd = press(t, m, runes("a"))
	assert.Nil(t, cmd, "already granted")
}
