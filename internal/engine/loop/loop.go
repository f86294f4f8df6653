// Package loop drives the globe from a single render thread. The host
// signals visibility, viewport and exit changes from its own goroutine; the
// render thread observes them under one mutex and paces frames against a
// target frame rate.
package loop

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/beacon-earth/internal/logger"
)

// Frame rate bounds for SetTargetFrameRate.
const (
	MinFrameRate = 1
	MaxFrameRate = 60
)

const statsInterval = 5 * time.Second

// ErrAlreadyStarted is returned when Run is called more than once.
var ErrAlreadyStarted = errors.New("loop already started")

// Renderer is the capability set the loop needs from the scene. All methods
// are called on the render thread.
type Renderer interface {
	Initialize() error
	Resize(width, height int) error
	RenderFrame(state SceneState) error
	SetVisible(visible bool)
	Shutdown()
}

// Options configures a Loop.
type Options struct {
	VisibleFPS    int     // Target while visible, default 30
	HiddenFPS     int     // Target while hidden, default 1
	RotationSpeed float64 // Degrees per second
	Clock         Clock   // Defaults to SystemClock
	Logger        *zap.Logger
}

// Loop owns the render thread state machine.
type Loop struct {
	renderer   Renderer
	clock      Clock
	log        *zap.Logger
	visibleFPS int
	hiddenFPS  int

	mu              sync.Mutex
	cond            *sync.Cond
	state           RunState
	visible         bool
	visibilityDirty bool
	width, height   int
	resizePending   bool
	targetFPS       int
	started         bool
	pausedAt        time.Time
	pausedFor       time.Duration // Paused time not yet seen by the render thread

	done chan struct{}

	// Render thread only.
	scene      SceneState
	running    bool // lastFrame is set
	lastFrame  time.Time
	frames     uint64
	statsStart time.Time
	statsCount int
}

// New creates a paused loop around r.
func New(r Renderer, opts Options) *Loop {
	if opts.VisibleFPS == 0 {
		opts.VisibleFPS = 30
	}
	if opts.HiddenFPS == 0 {
		opts.HiddenFPS = 1
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Named("loop")
	}

	l := &Loop{
		renderer:   r,
		clock:      opts.Clock,
		log:        opts.Logger,
		visibleFPS: clampFrameRate(opts.VisibleFPS),
		hiddenFPS:  clampFrameRate(opts.HiddenFPS),
		state:      Paused,
		done:       make(chan struct{}),
		scene:      SceneState{RotationSpeed: opts.RotationSpeed},
	}
	l.targetFPS = l.hiddenFPS
	l.cond = sync.NewCond(&l.mu)
	return l
}

// SetVisible resumes the loop when visible and pauses it otherwise. The
// target frame rate follows the visibility. The renderer is told about the
// change from the render thread.
func (l *Loop) SetVisible(visible bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == ExitRequested {
		return
	}
	if visible {
		if l.state == Paused && !l.pausedAt.IsZero() {
			l.pausedFor += l.clock.Now().Sub(l.pausedAt)
			l.pausedAt = time.Time{}
		}
		l.state = Running
		l.targetFPS = l.visibleFPS
	} else {
		if l.state == Running {
			l.pausedAt = l.clock.Now()
		}
		l.state = Paused
		l.targetFPS = l.hiddenFPS
	}
	if visible != l.visible {
		l.visible = visible
		l.visibilityDirty = true
	}
	l.cond.Broadcast()
}

// SetViewport records a new surface size. It is applied before the next
// rendered frame.
func (l *Loop) SetViewport(width, height int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.width, l.height = width, height
	l.resizePending = true
	l.cond.Broadcast()
}

// SetTargetFrameRate overrides the frame rate until the next visibility
// change. fps is clamped to [MinFrameRate, MaxFrameRate].
func (l *Loop) SetTargetFrameRate(fps int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.targetFPS = clampFrameRate(fps)
}

// TargetFrameRate returns the current frame rate target.
func (l *Loop) TargetFrameRate() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.targetFPS
}

// State returns the current run state.
func (l *Loop) State() RunState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// RequestExit asks the render thread to stop after its current frame.
func (l *Loop) RequestExit() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state = ExitRequested
	l.cond.Broadcast()
}

// RequestExitAndWait requests exit and blocks until Run has shut the
// renderer down. It returns immediately if Run was never started.
func (l *Loop) RequestExitAndWait() {
	l.RequestExit()

	l.mu.Lock()
	started := l.started
	l.mu.Unlock()

	if started {
		<-l.done
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run is the render thread. It initializes the renderer, renders until exit
// is requested, then calls Shutdown exactly once. A renderer error ends the
// loop and is returned.
func (l *Loop) Run() error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return ErrAlreadyStarted
	}
	l.started = true
	l.mu.Unlock()

	defer close(l.done)

	// GL contexts are bound to the OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	err := l.run()

	l.mu.Lock()
	l.state = ExitRequested
	l.mu.Unlock()

	l.renderer.Shutdown()
	l.log.Info("render loop stopped", zap.Uint64("frames", l.frames), zap.Error(err))
	return err
}

func (l *Loop) run() error {
	l.log.Info("render loop starting")
	if err := l.renderer.Initialize(); err != nil {
		return fmt.Errorf("initialize renderer: %w", err)
	}

	for {
		more, err := l.step()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// step runs one iteration of the render thread. It blocks while paused and
// reports false once exit has been requested.
func (l *Loop) step() (bool, error) {
	l.mu.Lock()
	for l.state == Paused && !l.visibilityDirty {
		l.cond.Wait()
	}
	state := l.state
	visible, notify := l.visible, l.visibilityDirty
	l.visibilityDirty = false
	width, height, resize := l.width, l.height, false
	if state == Running && l.resizePending {
		resize = true
		l.resizePending = false
	}
	interval := time.Second / time.Duration(l.targetFPS)
	pausedFor := l.pausedFor
	l.pausedFor = 0
	l.mu.Unlock()

	// Time spent paused never reaches the animation. Running time before
	// and after a pause is kept.
	if l.running && pausedFor > 0 {
		l.lastFrame = l.lastFrame.Add(pausedFor)
		l.statsStart = l.statsStart.Add(pausedFor)
	}

	if notify {
		l.log.Debug("visibility changed", zap.Bool("visible", visible))
		l.renderer.SetVisible(visible)
	}

	switch state {
	case ExitRequested:
		return false, nil
	case Paused:
		return true, nil
	}

	now := l.clock.Now()
	if !l.running {
		l.running = true
		l.lastFrame = now
		l.statsStart, l.statsCount = now, 0
	}

	if resize {
		if err := l.renderer.Resize(width, height); err != nil {
			l.log.Warn("viewport rejected", zap.Int("width", width), zap.Int("height", height), zap.Error(err))
		}
	}

	elapsed := now.Sub(l.lastFrame)
	if elapsed < interval {
		l.clock.Sleep(interval - elapsed)
		return true, nil
	}

	l.scene.Advance(elapsed.Seconds())
	if err := l.renderer.RenderFrame(l.scene); err != nil {
		return false, fmt.Errorf("render frame %d: %w", l.frames, err)
	}
	l.lastFrame = now
	l.frames++
	l.logStats(now)

	return true, nil
}

func (l *Loop) logStats(now time.Time) {
	l.statsCount++
	span := now.Sub(l.statsStart)
	if span < statsInterval {
		return
	}
	l.log.Debug("frame rate",
		zap.Float64("fps", float64(l.statsCount)/span.Seconds()),
		zap.Float64("angle", l.scene.Angle),
	)
	l.statsStart, l.statsCount = now, 0
}

func clampFrameRate(fps int) int {
	if fps < MinFrameRate {
		return MinFrameRate
	}
	if fps > MaxFrameRate {
		return MaxFrameRate
	}
	return fps
}
