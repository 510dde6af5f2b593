// Package dashboard is the live terminal view of the motion sensors and the
// recording controls.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"motion-tracker/controller"
	"motion-tracker/models"
	"motion-tracker/views"
)

// message types

type frameMsg time.Time

type stopDoneMsg struct {
	summary models.RecordingSummary
	err     error
}

type permissionMsg struct {
	granted bool
}

// model

type model struct {
	ctx    context.Context
	app    *controller.App
	frame  time.Duration
	status controller.Status
	help   help.Model

	stopping      bool
	quitAfterStop bool
	quitting      bool
	last          *models.RecordingSummary
}

func newModel(ctx context.Context, app *controller.App, fps int) model {
	if fps <= 0 {
		fps = 60
	}
	return model{
		ctx:    ctx,
		app:    app,
		frame:  time.Second / time.Duration(fps),
		status: app.Status(),
		help:   help.New(),
	}
}

// Run starts the dashboard and blocks until the user quits or ctx is
// cancelled. An active recording is stopped before quitting. It returns the
// summary of the last recording stopped from the dashboard, if any.
func Run(ctx context.Context, app *controller.App, fps int) (*models.RecordingSummary, error) {
	m := newModel(ctx, app, fps)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	if fm, ok := final.(model); ok {
		return fm.last, nil
	}
	return nil, nil
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m model) stopCmd() tea.Cmd {
	return func() tea.Msg {
		s, err := m.app.StopRecording(m.ctx)
		return stopDoneMsg{summary: s, err: err}
	}
}

func (m model) permissionCmd(granted bool) tea.Cmd {
	return func() tea.Msg {
		return permissionMsg{granted: m.app.RequestPermission(m.ctx, controller.StaticPrompter(granted))}
	}
}

// Init starts the frame loop.
func (m model) Init() tea.Cmd {
	return m.tick()
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case frameMsg:
		m.status = m.app.Status()
		return m, m.tick()

	case stopDoneMsg:
		m.stopping = false
		if !errors.Is(msg.err, controller.ErrNotRecording) {
			s := msg.summary
			m.last = &s
		}
		m.status = m.app.Status()
		if m.quitAfterStop {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case permissionMsg:
		m.status = m.app.Status()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			if m.stopping {
				m.quitAfterStop = true
				return m, nil
			}
			if m.app.Session.IsRecording() {
				m.stopping = true
				m.quitAfterStop = true
				return m, m.stopCmd()
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Record):
			if m.stopping || m.status.Permission != models.PermissionGranted {
				return m, nil
			}
			if m.app.Session.IsRecording() {
				m.stopping = true
				return m, m.stopCmd()
			}
			m.app.StartRecording(m.app.Session.Mode())
			m.status = m.app.Status()
			return m, nil

		case key.Matches(msg, keys.Mode):
			m.app.ToggleMode()
			m.status = m.app.Status()
			return m, nil

		case key.Matches(msg, keys.Allow):
			if needsPermission(m.status) {
				return m, m.permissionCmd(true)
			}

		case key.Matches(msg, keys.Deny):
			if needsPermission(m.status) {
				return m, m.permissionCmd(false)
			}
		}
	}

	return m, nil
}

func needsPermission(s controller.Status) bool {
	return s.Support.Any() &&
		(s.Permission == models.PermissionUnknown || s.Permission == models.PermissionDenied)
}

// View renders the dashboard.
func (m model) View() string {
	if m.quitting {
		return ""
	}
	return render(m.status, m.stopping) + "\n" + m.help.View(keys)
}

// render is the pure part of View.
func render(s controller.Status, stopping bool) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Motion Tracker"))
	b.WriteString("\n")
	b.WriteString(styleSubtitle.Render("Real-time device motion sensing & data export"))
	b.WriteString("\n\n")

	switch {
	case !s.Support.Any():
		b.WriteString("Device sensors not available.\n")
		b.WriteString("No motion or orientation source is configured.\n")
	case s.Permission == models.PermissionDenied:
		b.WriteString("Permission denied.\n")
		b.WriteString("Motion sensor access was denied. Press a to ask again.\n")
	case s.Permission == models.PermissionRequesting:
		b.WriteString("Requesting...\n")
	case s.Permission == models.PermissionUnknown:
		b.WriteString("This tool needs access to the device's motion sensors to track\n")
		b.WriteString("accelerometer and gyroscope data. Press a to allow motion access.\n")
	default:
		b.WriteString(renderSensors(s))
		b.WriteString("\n")
		b.WriteString(renderControls(s, stopping))
	}

	if s.Notification != "" {
		b.WriteString("\n")
		b.WriteString(styleNotification.Render(s.Notification))
		b.WriteString("\n")
	}

	b.WriteString(styleFooter.Render("Data is processed locally • nothing is sent to external servers"))
	return b.String()
}

func renderSensors(s controller.Status) string {
	var status string
	if s.Recording {
		status = styleStatusRecording.Render(fmt.Sprintf("Status: Recording (%s)", s.Mode))
		status += "\n" + fmt.Sprintf("Duration: %s", views.FormatDuration(s.Duration))
		if s.Mode == models.ModeChunked && s.Chunks > 0 {
			status += "\n" + fmt.Sprintf("Chunks Downloaded: %d", s.Chunks)
		}
	} else {
		status = styleStatusReady.Render("Status: Ready")
	}

	v := views.FormatReading(s.Reading)
	accel := card("Accelerometer", [][2]string{{"x", v.AccelX}, {"y", v.AccelY}, {"z", v.AccelZ}})
	gyro := card("Gyroscope", [][2]string{{"alpha", v.GyroAlpha}, {"beta", v.GyroBeta}, {"gamma", v.GyroGamma}})

	return lipgloss.JoinVertical(lipgloss.Left,
		status,
		lipgloss.JoinHorizontal(lipgloss.Top, accel, gyro),
	)
}

func card(title string, rows [][2]string) string {
	lines := []string{styleCardTitle.Render(title)}
	for _, r := range rows {
		lines = append(lines, styleAxis.Render(r[0]+":")+styleValue.Render(r[1]))
	}
	return styleCard.Render(strings.Join(lines, "\n"))
}

func renderControls(s controller.Status, stopping bool) string {
	chunked, continuous := styleModeInactive, styleModeInactive
	if s.Mode == models.ModeChunked {
		chunked = styleModeActive
	} else {
		continuous = styleModeActive
	}
	selector := lipgloss.JoinHorizontal(lipgloss.Top,
		chunked.Render(fmt.Sprintf("Chunked\nAuto-save every %d data points", s.ChunkSize)),
		continuous.Render("Continuous\nSave all data when stopped"),
	)

	var info string
	switch {
	case stopping:
		info = "Saving recording..."
	case s.Recording && s.Mode == models.ModeChunked:
		info = fmt.Sprintf("Recording in chunked mode - files are saved as chunks (%d buffered)", s.Buffered)
	case s.Recording:
		info = fmt.Sprintf("Recording in continuous mode - stop to save the complete file (%d buffered)", s.Buffered)
	default:
		info = fmt.Sprintf("Press space to begin data collection in %s mode", s.Mode)
	}

	return lipgloss.JoinVertical(lipgloss.Left, "Recording Mode", selector, info)
}
