package controller

import (
	"context"
	"errors"
	"fmt"

	"motion-tracker/models"
)

// App ties the sensors, the recording session and the display state
// together and turns every user action into a notification.
type App struct {
	Sensors  *SensorsController
	Session  *RecordingSession
	Display  *DisplayController
	Notifier *Notifier

	removers []func()
}

// Status is a point-in-time view of everything a front end renders.
type Status struct {
	Support      models.SensorSupport
	Permission   models.PermissionState
	Recording    bool
	Mode         models.RecordingMode
	Duration     int
	Chunks       int
	Buffered     int
	ChunkSize    int
	Reading      models.SensorReading
	Notification string
}

// NewApp registers the motion and orientation listeners.
func NewApp(sensors *SensorsController, session *RecordingSession, display *DisplayController, notifier *Notifier) *App {
	a := &App{Sensors: sensors, Session: session, Display: display, Notifier: notifier}
	a.removers = append(a.removers,
		sensors.AddMotionListener(display.UpdateMotion),
		sensors.AddMotionListener(session.OnSample),
		sensors.AddOrientationListener(display.UpdateOrientation),
	)
	return a
}

// Activate starts monitoring when access is already granted.
func (a *App) Activate(ctx context.Context) bool {
	return a.Sensors.StartMonitoring(ctx)
}

// RequestPermission prompts for access and starts monitoring on success.
func (a *App) RequestPermission(ctx context.Context, p Prompter) bool {
	if !a.Sensors.RequestPermission(ctx, p) {
		a.Notifier.Show("Permission denied. Please try again.")
		return false
	}
	a.Sensors.StartMonitoring(ctx)
	a.Notifier.Show("Permission granted! Sensors are now active.")
	return true
}

// StartRecording starts a recording in mode.
func (a *App) StartRecording(mode models.RecordingMode) bool {
	if !a.Session.Start(mode) {
		a.Notifier.Show("Could not start recording")
		return false
	}
	a.Notifier.Show(fmt.Sprintf("Recording started in %s mode", mode))
	return true
}

// StopRecording stops the active recording and writes what is left.
func (a *App) StopRecording(ctx context.Context) (models.RecordingSummary, error) {
	summary, err := a.Session.Stop(ctx)
	if errors.Is(err, ErrNotRecording) {
		a.Notifier.Show("Not recording")
	}
	return summary, err
}

// ToggleMode flips the mode of the next recording; refused while recording.
func (a *App) ToggleMode() bool {
	return a.Session.SetMode(a.Session.Mode().Toggle())
}

// Status snapshots the current state.
func (a *App) Status() Status {
	return Status{
		Support:      a.Sensors.Support(),
		Permission:   a.Sensors.Permission(),
		Recording:    a.Session.IsRecording(),
		Mode:         a.Session.Mode(),
		Duration:     a.Session.Duration(),
		Chunks:       a.Session.ChunkCount(),
		Buffered:     a.Session.Buffered(),
		ChunkSize:    a.Session.ChunkSize(),
		Reading:      a.Display.Snapshot(),
		Notification: a.Notifier.Current(),
	}
}

// Close stops an active recording, removes listeners and stops the readers.
func (a *App) Close(ctx context.Context) (*models.RecordingSummary, error) {
	var (
		summary *models.RecordingSummary
		err     error
	)
	if a.Session.IsRecording() {
		s, stopErr := a.Session.Stop(ctx)
		summary, err = &s, stopErr
	}
	for _, remove := range a.removers {
		remove()
	}
	a.removers = nil
	a.Sensors.StopMonitoring()
	return summary, err
}
