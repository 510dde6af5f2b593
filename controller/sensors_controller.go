package controller

import (
	"context"
	"sync"

	"motion-tracker/models"
	"motion-tracker/services/ingest"
	"motion-tracker/utils"
)

// Prompter asks the user for sensor access.
type Prompter interface {
	Prompt(ctx context.Context) (bool, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context) (bool, error)

func (f PrompterFunc) Prompt(ctx context.Context) (bool, error) { return f(ctx) }

// StaticPrompter answers every prompt with granted.
func StaticPrompter(granted bool) Prompter {
	return PrompterFunc(func(context.Context) (bool, error) { return granted, nil })
}

// Sources builds fresh readers each time monitoring starts. A nil factory
// means the platform does not deliver that event stream.
type Sources struct {
	Motion      func() ingest.MotionSource
	Orientation func() ingest.OrientationSource
}

// SourcesFromConfig wires the configured readers.
func SourcesFromConfig(cfg *utils.SensorsConfig) Sources {
	var src Sources
	if cfg.Sensors.Motion.Enabled {
		motion := cfg.Sensors.Motion
		if cfg.Source.Kind == "replay" {
			source := cfg.Source
			src.Motion = func() ingest.MotionSource { return ingest.NewReplayReader(source, motion) }
		} else {
			src.Motion = func() ingest.MotionSource { return ingest.NewMotionReader(motion) }
		}
	}
	if cfg.Sensors.Orientation.Enabled {
		orientation := cfg.Sensors.Orientation
		src.Orientation = func() ingest.OrientationSource { return ingest.NewOrientationReader(orientation) }
	}
	return src
}

// SensorsController owns sensor access: support detection, the permission
// state, reader lifecycles and the listeners events are dispatched to.
type SensorsController struct {
	mu sync.Mutex

	sources      Sources
	support      models.SensorSupport
	needsPrompt  bool
	prompter     Prompter
	permission   models.PermissionState
	nextListener int

	motionListeners      map[int]func(models.SensorReading)
	orientationListeners map[int]func(models.OrientationEvent)

	motion      ingest.MotionSource
	orientation ingest.OrientationSource
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewSensorsController detects support from sources. When requirePrompt is
// false access is granted up front if any stream is supported.
func NewSensorsController(sources Sources, requirePrompt bool, prompter Prompter) *SensorsController {
	sc := &SensorsController{
		sources:              sources,
		needsPrompt:          requirePrompt,
		prompter:             prompter,
		motionListeners:      make(map[int]func(models.SensorReading)),
		orientationListeners: make(map[int]func(models.OrientationEvent)),
		support: models.SensorSupport{
			Motion:      sources.Motion != nil,
			Orientation: sources.Orientation != nil,
		},
	}

	switch {
	case !sc.support.Any():
		sc.permission = models.PermissionDenied
	case requirePrompt:
		sc.permission = models.PermissionUnknown
	default:
		sc.permission = models.PermissionGranted
	}
	return sc
}

// Support reports which streams are available.
func (sc *SensorsController) Support() models.SensorSupport { return sc.support }

// Permission returns the current permission state.
func (sc *SensorsController) Permission() models.PermissionState {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.permission
}

// HasPermission reports whether access has been granted.
func (sc *SensorsController) HasPermission() bool {
	return sc.Permission() == models.PermissionGranted
}

// RequestPermission moves the state through requesting to granted or
// denied. p overrides the configured prompter when non-nil. A prompt error
// counts as a denial.
func (sc *SensorsController) RequestPermission(ctx context.Context, p Prompter) bool {
	sc.mu.Lock()
	if sc.permission == models.PermissionRequesting {
		sc.mu.Unlock()
		return false
	}
	sc.permission = models.PermissionRequesting
	if p == nil {
		p = sc.prompter
	}
	needsPrompt := sc.needsPrompt
	sc.mu.Unlock()

	granted := sc.support.Any()
	if granted && needsPrompt {
		if p == nil {
			granted = false
		} else {
			ok, err := p.Prompt(ctx)
			if err != nil {
				utils.L().Error("permission request failed: %v", err)
			}
			granted = ok && err == nil
		}
	}

	sc.mu.Lock()
	if granted {
		sc.permission = models.PermissionGranted
	} else {
		sc.permission = models.PermissionDenied
	}
	sc.mu.Unlock()

	utils.L().Info("sensor permission %s", sc.Permission())
	return granted
}

// AddMotionListener registers fn for every motion sample and returns a
// function that removes it.
func (sc *SensorsController) AddMotionListener(fn func(models.SensorReading)) (remove func()) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	id := sc.nextListener
	sc.nextListener++
	sc.motionListeners[id] = fn
	return func() {
		sc.mu.Lock()
		delete(sc.motionListeners, id)
		sc.mu.Unlock()
	}
}

// AddOrientationListener registers fn for every orientation event and
// returns a function that removes it.
func (sc *SensorsController) AddOrientationListener(fn func(models.OrientationEvent)) (remove func()) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	id := sc.nextListener
	sc.nextListener++
	sc.orientationListeners[id] = fn
	return func() {
		sc.mu.Lock()
		delete(sc.orientationListeners, id)
		sc.mu.Unlock()
	}
}

// StartMonitoring launches the readers and event dispatch. It does nothing
// and returns false without permission.
func (sc *SensorsController) StartMonitoring(ctx context.Context) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.permission != models.PermissionGranted {
		return false
	}
	if sc.cancel != nil {
		return true
	}

	ctx, sc.cancel = context.WithCancel(ctx)

	if sc.sources.Motion != nil {
		sc.motion = sc.sources.Motion()
		sc.motion.Start(ctx)
		sc.wg.Add(1)
		go sc.dispatchMotion(sc.motion.Events())
	}
	if sc.sources.Orientation != nil {
		sc.orientation = sc.sources.Orientation()
		sc.orientation.Start(ctx)
		sc.wg.Add(1)
		go sc.dispatchOrientation(sc.orientation.Events())
	}

	utils.L().Info("sensors controller: monitoring (motion=%v, orientation=%v)",
		sc.support.Motion, sc.support.Orientation)
	return true
}

// StopMonitoring stops the readers and waits for dispatch to drain.
func (sc *SensorsController) StopMonitoring() {
	sc.mu.Lock()
	cancel := sc.cancel
	sc.cancel = nil
	sc.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	sc.wg.Wait()
	utils.L().Info("sensors controller: monitoring stopped")
}

// Monitoring reports whether readers are running.
func (sc *SensorsController) Monitoring() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.cancel != nil
}

func (sc *SensorsController) dispatchMotion(ch <-chan *models.MotionEvent) {
	defer sc.wg.Done()
	for ev := range ch {
		r := ev.ToReading()
		sc.mu.Lock()
		fns := make([]func(models.SensorReading), 0, len(sc.motionListeners))
		for _, fn := range sc.motionListeners {
			fns = append(fns, fn)
		}
		sc.mu.Unlock()
		for _, fn := range fns {
			fn(r)
		}
	}
}

func (sc *SensorsController) dispatchOrientation(ch <-chan *models.OrientationEvent) {
	defer sc.wg.Done()
	for ev := range ch {
		sc.mu.Lock()
		fns := make([]func(models.OrientationEvent), 0, len(sc.orientationListeners))
		for _, fn := range sc.orientationListeners {
			fns = append(fns, fn)
		}
		sc.mu.Unlock()
		for _, fn := range fns {
			fn(*ev)
		}
	}
}

// LogStats prints current produce/drop counters for each active reader.
func (sc *SensorsController) LogStats() {
	sc.mu.Lock()
	motion, orientation := sc.motion, sc.orientation
	sc.mu.Unlock()
	if motion != nil {
		p, d := motion.Stats()
		utils.L().Info("  motion       produced=%d  dropped=%d", p, d)
	}
	if orientation != nil {
		p, d := orientation.Stats()
		utils.L().Info("  orientation  produced=%d  dropped=%d", p, d)
	}
}
