package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"motion-tracker/controller"
	"motion-tracker/models"
	"motion-tracker/utils"
	"motion-tracker/views"
	"motion-tracker/views/dashboard"
)

type recordOptions struct {
	mode     string
	duration int
	noTUI    bool
}

func recordCmd(g *globalOptions) *cobra.Command {
	opts := &recordOptions{}
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Show live sensor readings and record them to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd.Context(), g, opts)
		},
	}
	cmd.Flags().StringVar(&opts.mode, "mode", "", "chunked or continuous (overrides recording.mode)")
	cmd.Flags().IntVar(&opts.duration, "duration", 0, "stop automatically after N seconds (headless mode)")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "record headless: start immediately, stop on Ctrl+C or --duration")
	return cmd
}

func runRecord(parent context.Context, g *globalOptions, opts *recordOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	useTUI := !opts.noTUI && opts.duration == 0 &&
		term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))

	// ── Logger ───────────────────────────────────────────────────────
	// The dashboard owns the terminal, so logs only go to the file then.
	var console io.Writer = os.Stdout
	if useTUI {
		console = nil
	}
	logger := utils.InitLogger(utils.ParseLogLevel(g.logLevel), g.logFile, console)
	defer logger.Close()

	utils.L().Info("motion-tracker %s  GOMAXPROCS=%d  PID=%d", version, runtime.GOMAXPROCS(0), os.Getpid())

	// ── Load configs ─────────────────────────────────────────────────
	sensorsCfg, storageCfg, err := g.loadConfigs()
	if err != nil {
		return err
	}
	modeName := storageCfg.Recording.Mode
	if opts.mode != "" {
		modeName = opts.mode
	}
	mode, err := models.ParseRecordingMode(modeName)
	if err != nil {
		return err
	}
	duration := sensorsCfg.Simulation.DurationSeconds
	if opts.duration > 0 {
		duration = opts.duration
	}

	// ── Context with OS signal cancellation ──────────────────────────
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if duration > 0 && !useTUI {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(duration)*time.Second)
		defer cancel()
		utils.L().Info("recording will auto-stop after %ds", duration)
	}

	// ── Assembly ─────────────────────────────────────────────────────
	//
	//  readers ──► SensorsController ──► RecordingSession ──► FileExporter ──► *.csv
	//                     │
	//                     └──► DisplayController ──► dashboard / stats
	exporter, err := views.NewFileExporter(storageCfg)
	if err != nil {
		return err
	}
	notifier := controller.NewNotifier(time.Duration(sensorsCfg.Display.NotificationTTLMs)*time.Millisecond, nil)
	sensors := controller.NewSensorsController(
		controller.SourcesFromConfig(sensorsCfg),
		sensorsCfg.Sensors.RequirePermission,
		terminalPrompter(os.Stdin, os.Stdout),
	)
	session := controller.NewRecordingSession(exporter, controller.SessionOptions{
		ChunkSize:     storageCfg.Recording.ChunkSize,
		Namer:         views.NewFileNamer(storageCfg.Storage.FilePrefix, nil),
		Notifier:      notifier,
		HasPermission: sensors.HasPermission,
	})
	session.SetMode(mode)
	display := controller.NewDisplayController(sensorsCfg.Display.FPS, nil)
	display.Start(ctx)

	app := controller.NewApp(sensors, session, display, notifier)
	utils.L().Info("output directory: %s", exporter.Dir())

	if useTUI {
		app.Activate(ctx)
		last, runErr := dashboard.Run(ctx, app, sensorsCfg.Display.FPS)
		closing, closeErr := app.Close(context.Background())
		if closing != nil {
			last = closing
		}
		if last != nil {
			printSummary(os.Stdout, *last)
		}
		return errors.Join(runErr, closeErr)
	}

	return runHeadless(ctx, app, mode, sensorsCfg.Display.StatsIntervalSec)
}

// runHeadless records from start to cancellation, logging stats on a ticker.
func runHeadless(ctx context.Context, app *controller.App, mode models.RecordingMode, statsEvery int) error {
	if app.Sensors.Permission() == models.PermissionUnknown {
		app.RequestPermission(ctx, nil)
	}
	if !app.Activate(ctx) {
		return fmt.Errorf("sensor access %s", app.Sensors.Permission())
	}
	if !app.StartRecording(mode) {
		return errors.New("could not start recording")
	}
	utils.L().Info("recording, press Ctrl+C to stop")

	statsTicker := time.NewTicker(time.Duration(statsEvery) * time.Second)
	defer statsTicker.Stop()

	// ── Main event loop ──────────────────────────────────────────────
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-statsTicker.C:
			st := app.Status()
			utils.L().Info("── stats ─────────────────────────")
			app.Sensors.LogStats()
			utils.L().Info("  duration=%s  chunks=%d  buffered=%d",
				views.FormatDuration(st.Duration), st.Chunks, st.Buffered)
			utils.L().Info("──────────────────────────────────")
		}
	}

	utils.L().Info("stopping recording…")
	summary, err := app.Close(context.Background())
	if summary != nil {
		printSummary(os.Stdout, *summary)
	}
	return err
}

func printSummary(w io.Writer, s models.RecordingSummary) {
	fmt.Fprintf(w, "\n%s\n", s.Message)
	fmt.Fprintf(w, "  session:  %s\n", s.SessionID)
	fmt.Fprintf(w, "  mode:     %s\n", s.Mode)
	fmt.Fprintf(w, "  duration: %s (%s)\n", views.FormatDuration(s.Duration), s.Elapsed())
	fmt.Fprintf(w, "  samples:  %d\n", s.Samples)
	if s.Mode == models.ModeChunked {
		fmt.Fprintf(w, "  chunks:   %d\n", s.Chunks)
	}
	for _, f := range s.Files {
		fmt.Fprintf(w, "  file:     %s\n", f)
	}
}

// terminalPrompter asks on the terminal; anything but y/yes denies.
func terminalPrompter(in io.Reader, out io.Writer) controller.Prompter {
	return controller.PrompterFunc(func(ctx context.Context) (bool, error) {
		fmt.Fprint(out, "Allow access to motion sensors? [y/N] ")
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	})
}
