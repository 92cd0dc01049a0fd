// Package app runs the configurator window: it owns the SDL window, the GL
// renderers and the audio device, feeds input to the session and presents
// each frame.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/plush-configurator/internal/config"
	"github.com/Faultbox/plush-configurator/internal/engine/audio"
	"github.com/Faultbox/plush-configurator/internal/engine/camera"
	"github.com/Faultbox/plush-configurator/internal/engine/input"
	"github.com/Faultbox/plush-configurator/internal/engine/renderer"
	"github.com/Faultbox/plush-configurator/internal/engine/ui2d"
	"github.com/Faultbox/plush-configurator/internal/engine/window"
	"github.com/Faultbox/plush-configurator/internal/export"
	"github.com/Faultbox/plush-configurator/internal/logger"
	"github.com/Faultbox/plush-configurator/internal/session"
)

// App is the configurator instance.
type App struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	ui       *ui2d.Context
	input    *input.Input
	audio    *audio.Player

	session  *session.Session
	controls *camera.Controls
	exporter *export.Exporter

	// Drawable size in pixels and the mouse scale from window points
	width, height int
	scaleX        float32
	scaleY        float32

	pressedThisFrame bool

	log *zap.Logger
}

// New creates the window, renderers, audio and session.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:      cfg,
		scaleX:   1,
		scaleY:   1,
		exporter: export.New(cfg.Export.Dir, "plush"),
		log:      logger.Named("app"),
	}
	a.log.Info("initializing configurator",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	// Create window (this also creates OpenGL context)
	var err error
	a.window, err = window.New(cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	a.width, a.height = a.window.GetDrawableSize()
	a.updateScale()

	viewW := a.viewWidth()
	a.renderer, err = renderer.New(cfg.Render, viewW, a.height)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	a.ui, err = ui2d.NewContext(a.width, a.height)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create ui: %w", err)
	}
	a.input = input.New()

	a.audio = audio.FromConfig(cfg.Audio, cfg.Assets.BaseDir)
	if err := a.audio.Init(); err != nil {
		// Clicks are optional.
		a.log.Warn("audio unavailable", zap.Error(err))
	}

	a.session, err = session.New(session.Options{
		Config:   cfg,
		Drawer:   a.renderer,
		Feedback: a.audio,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.session.Resize(viewW, a.height)
	a.session.Panel.AddButton("snapshot", "Save snapshot", a.saveSnapshot)
	a.session.Panel.AddButton("export", "Export order", a.exportOrder)
	a.controls = camera.NewControls(a.session.Scene.Camera())

	a.log.Info("configurator initialized")
	return a, nil
}

func (a *App) viewWidth() int {
	return max(a.width-a.cfg.Window.PanelWidth, 1)
}

func (a *App) updateScale() {
	w, h := a.window.GetSize()
	if w > 0 && h > 0 {
		a.scaleX = float32(a.width) / float32(w)
		a.scaleY = float32(a.height) / float32(h)
	}
}

// Run loads the product and runs the main loop until the window closes.
func (a *App) Run() error {
	a.running = true
	a.session.Start(time.Now())

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		a.pressedThisFrame = false
		if a.input.Update() {
			a.running = false
			break
		}
		for _, ev := range a.input.Events() {
			a.handleEvent(ev)
		}

		// Draws the product into the offscreen target.
		a.session.Tick(now, dt)

		r := a.ui.Renderer()
		r.Clear(ui2d.ColorPanelBg)
		r.DrawSceneTexture(0, 0, float32(a.viewWidth()), float32(a.height), a.renderer.ColorTexture())
		a.ui.Begin()
		a.session.Panel.Draw(a.ui, float32(a.width), float32(a.height))
		a.ui.End()

		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if a.cfg.Window.ShowFPS {
				a.window.SetTitle(fmt.Sprintf("%s (%d fps)", a.cfg.Window.Title, frameCount))
			}
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleEvent(ev input.Event) {
	ui := a.ui.Input()
	x, y := float32(ev.MouseX)*a.scaleX, float32(ev.MouseY)*a.scaleY

	switch ev.Type {
	case input.EventWindowResize:
		a.resize()

	case input.EventKeyDown:
		switch ev.Key {
		case input.KeyQuit:
			a.running = false
		case input.KeyResetCamera:
			a.session.Scene.ResetCamera()
		case input.KeySnapshot:
			a.saveSnapshot()
		}

	case input.EventMouseMove:
		ui.MouseX, ui.MouseY = x, y
		a.controls.Move(x, y)

	case input.EventMouseDown:
		ui.MouseX, ui.MouseY = x, y
		switch ev.Button {
		case input.ButtonLeft:
			ui.MouseLeftDown = true
			a.pressedThisFrame = true
			a.controls.Press(camera.GestureOrbit, x, y, a.inView(x, y))
		case input.ButtonRight, input.ButtonMiddle:
			a.controls.Press(camera.GesturePan, x, y, a.inView(x, y))
		}

	case input.EventMouseUp:
		switch ev.Button {
		case input.ButtonLeft:
			ui.MouseLeftDown = false
			if a.pressedThisFrame {
				ui.MouseLeftClicked = true
			}
			a.controls.Release(camera.GestureOrbit)
		case input.ButtonRight, input.ButtonMiddle:
			a.controls.Release(camera.GesturePan)
		}

	case input.EventMouseWheel:
		a.controls.Wheel(ev.WheelY, a.inView(x, y))
	}
}

// inView reports whether a drawable-space point is on the product view.
func (a *App) inView(x, y float32) bool {
	return !a.session.Panel.Contains(float32(a.width), float32(a.height), x, y) && y >= 0 && x >= 0
}

func (a *App) resize() {
	a.width, a.height = a.window.GetDrawableSize()
	a.updateScale()
	a.ui.Resize(a.width, a.height)
	a.session.Resize(a.viewWidth(), a.height)
	a.controls.Cancel()
}

// Close releases everything in reverse creation order.
func (a *App) Close() {
	a.log.Info("closing configurator")

	if a.session != nil {
		a.session.Close()
	}
	if a.audio != nil {
		a.audio.Close()
	}
	if a.ui != nil {
		a.ui.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
