// Package app hosts the globe in a desktop window. The main thread owns the
// window and its events; the render loop runs on its own goroutine and is
// joined before the window is torn down.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/beacon-earth/internal/config"
	"github.com/Faultbox/beacon-earth/internal/engine/input"
	"github.com/Faultbox/beacon-earth/internal/engine/loop"
	"github.com/Faultbox/beacon-earth/internal/engine/renderer"
	"github.com/Faultbox/beacon-earth/internal/engine/scene"
	"github.com/Faultbox/beacon-earth/internal/engine/window"
	"github.com/Faultbox/beacon-earth/internal/logger"
)

// Title is the window title.
const Title = "Beacon Earth"

// Event wait while idle, in milliseconds.
const pollTimeoutMS = 50

// App is the desktop host.
type App struct {
	config *config.Config
	log    *zap.Logger
	window *window.Window
	input  *input.Input
	loop   *loop.Loop
}

// New opens the window and wires the scene to the render loop. Nothing is
// drawn until Run.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		config: cfg,
		log:    logger.Named("app"),
	}
	a.log.Info("initializing",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("beacons", len(cfg.Beacons.Cities)+1),
	)

	var err error
	a.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	drawer := renderer.New(renderer.DefaultConfig(), a.window)
	sc := scene.New(scene.ConfigFrom(cfg), drawer)

	a.loop = loop.New(sc, loop.Options{
		VisibleFPS:    cfg.Graphics.VisibleFPS,
		HiddenFPS:     cfg.Graphics.HiddenFPS,
		RotationSpeed: cfg.Planet.RotationSpeed,
	})
	a.input = input.New()

	return a, nil
}

// Run starts the render thread and pumps window events on the calling
// goroutine, which must be the main thread. It returns after the render
// thread has shut down, either because the window was closed, ctx was
// cancelled or rendering failed.
func (a *App) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(a.loop.Run)

	a.loop.SetViewport(a.window.DrawableSize())
	a.loop.SetVisible(a.window.Shown())

	a.pump(ctx)

	a.log.Info("stopping render loop")
	a.loop.RequestExit()
	return eg.Wait()
}

func (a *App) pump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.loop.Done():
			return
		default:
		}

		quit := a.input.Wait(pollTimeoutMS)
		for _, e := range a.input.Events() {
			a.log.Debug("window event", zap.Stringer("type", e.Type))
			switch e.Type {
			case input.EventWindowResize:
				a.loop.SetViewport(a.window.DrawableSize())
			case input.EventShown:
				a.loop.SetVisible(true)
			case input.EventHidden:
				a.loop.SetVisible(false)
			}
		}
		if quit {
			return
		}
	}
}

// Close destroys the window. Call it only after Run has returned.
func (a *App) Close() {
	a.log.Info("closing")
	if a.window != nil {
		a.window.Close()
	}
}
