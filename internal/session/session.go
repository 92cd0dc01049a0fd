// Package session is the composition root of the configurator. It builds
// the selection state, the scene manager, the controls and the asset loader
// once, wires them together, and drives them frame by frame. It owns no GL
// state, so the whole flow runs headless with a fake drawer.
package session

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/plush-configurator/internal/assets"
	"github.com/Faultbox/plush-configurator/internal/catalog"
	"github.com/Faultbox/plush-configurator/internal/config"
	"github.com/Faultbox/plush-configurator/internal/configurator"
	"github.com/Faultbox/plush-configurator/internal/engine/camera"
	"github.com/Faultbox/plush-configurator/internal/engine/lighting"
	"github.com/Faultbox/plush-configurator/internal/engine/model"
	"github.com/Faultbox/plush-configurator/internal/engine/scene"
	"github.com/Faultbox/plush-configurator/internal/logger"
	"github.com/Faultbox/plush-configurator/internal/state"
	"github.com/Faultbox/plush-configurator/internal/ui"
)

// Options configures a Session.
type Options struct {
	Config   *config.Config
	Decode   assets.DecodeFunc   // nil decodes glTF files
	Drawer   configurator.Drawer // Optional
	Feedback ui.Feedback         // Optional
}

// Session owns every long-lived piece of the configurator.
type Session struct {
	cfg *config.Config

	Palette    *catalog.Palette
	State      *state.State
	Scene      *configurator.Manager
	Controller *ui.Controller
	Panel      *ui.Panel

	loader *assets.Loader
	gate   *ui.ReadyGate

	loaded int
	issued int

	log *zap.Logger
}

// New builds and wires a session. No loads are issued until Start.
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	palette, err := cfg.ResolvedPalette().Build()
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	defaults, err := state.DefaultSelection(cfg.Defaults)
	if err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}
	exemption, err := configurator.NewExemption(cfg.Exemption)
	if err != nil {
		return nil, fmt.Errorf("exemption: %w", err)
	}

	s := &Session{
		cfg:     cfg,
		Palette: palette,
		State:   state.New(defaults),
		loader:  assets.NewLoader(opts.Decode),
		log:     logger.Named("session"),
	}
	s.Scene = configurator.New(configurator.Options{
		Palette:           palette,
		Exemption:         exemption,
		Placements:        configurator.PlacementsFromConfig(cfg.Placements),
		ExclusiveHeadwear: cfg.Accessories.ExclusiveHeadwear,
		Camera:            camera.FromConfig(cfg.Camera),
		Rig:               lighting.FromConfig(cfg.Lighting),
		Drawer:            opts.Drawer,
	})
	s.Controller = ui.NewController(ui.Options{
		State:             s.State,
		Scene:             s.Scene,
		Palette:           palette,
		ExclusiveHeadwear: cfg.Accessories.ExclusiveHeadwear,
		Feedback:          opts.Feedback,
	})
	s.Panel = ui.NewPanel(s.Controller, float32(cfg.Window.PanelWidth))
	s.Panel.Progress = s.Progress
	s.loader.SetProgress(func(done, total int) {
		s.loaded, s.issued = done, total
	})
	return s, nil
}

// Start issues every configured load and starts the fallback timer at now.
// Forms and accessories without an asset entry are skipped.
func (s *Session) Start(now time.Time) {
	for _, f := range catalog.Forms() {
		a, ok := s.cfg.Assets.Forms[f.String()]
		if !ok {
			s.log.Warn("no asset for form", zap.Stringer("form", f))
			continue
		}
		s.load(a, "form/"+f.String(), s.onForm(f))
	}
	for _, acc := range catalog.Accessories() {
		a, ok := s.cfg.Assets.Accessories[acc.String()]
		if !ok {
			s.log.Warn("no asset for accessory", zap.Stringer("accessory", acc))
			continue
		}
		s.load(a, "accessory/"+acc.String(), s.onAccessory(acc))
	}

	issued, _, _ := s.loader.Counts()
	s.issued = issued
	s.gate = ui.NewReadyGate(issued, s.cfg.Loader.FallbackDelay, now)
	s.log.Info("loading started",
		zap.Int("models", issued),
		zap.Duration("fallback", s.cfg.Loader.FallbackDelay),
	)
}

func (s *Session) load(a config.AssetConfig, name string, done func(*scene.Node)) {
	opts := model.NormalizeOptions{TargetSize: a.TargetSize, Anchor: model.ParseAnchor(a.Anchor)}
	s.loader.Load(s.cfg.ResolvePath(a.Path), name, opts, done)
}

// onForm registers a loaded variant. The variant for the selected form is
// shown and styled with the current selection.
func (s *Session) onForm(f catalog.Form) func(*scene.Node) {
	return func(n *scene.Node) {
		if !s.Scene.RegisterVariant(f, n) {
			return
		}
		cur := s.State.Current
		if f != cur.Form {
			return
		}
		s.Scene.SwitchForm(f)
		s.Scene.Recolor(catalog.ChannelFur, cur.Fur)
		s.Scene.Recolor(catalog.ChannelEyes, cur.Eyes)
	}
}

// onAccessory registers a loaded accessory with the current tint and
// visibility.
func (s *Session) onAccessory(a catalog.Accessory) func(*scene.Node) {
	return func(n *scene.Node) {
		if !s.Scene.RegisterAccessory(a, n) {
			return
		}
		cur := s.State.Current
		s.Scene.RecolorAccessory(a, cur.Tint)
		s.Scene.SetAccessoryVisible(a, cur.Visible(a))
	}
}

// Tick runs one frame: it delivers finished loads, opens the controls when
// the ready gate fires, advances the camera by dt seconds and draws.
func (s *Session) Tick(now time.Time, dt float32) {
	s.loader.Dispatch()
	if s.gate != nil && s.gate.Update(now, s.loader.Pending()) {
		if s.gate.TimedOut() {
			s.log.Warn("enabling controls before every model loaded",
				zap.Int("pending", s.loader.Pending()))
		}
		s.Controller.Enable()
	}
	s.Scene.Frame(dt)
}

// Progress returns finished and issued load counts.
func (s *Session) Progress() (done, total int) {
	return s.loaded, s.issued
}

// Resize sets the product view size.
func (s *Session) Resize(width, height int) {
	s.Scene.Resize(width, height)
}

// Wait blocks until every issued load has finished decoding. The results
// are delivered by the next Tick.
func (s *Session) Wait() {
	s.loader.Wait()
}

// Close abandons outstanding loads.
func (s *Session) Close() {
	s.loader.Close()
}
