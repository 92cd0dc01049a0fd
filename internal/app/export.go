package app

import (
	"errors"
	"time"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/plush-configurator/internal/export"
)

// saveSnapshot captures the product view and writes it as PNG.
func (a *App) saveSnapshot() {
	// Pixels must be read on the GL thread.
	w, h, pixels := a.renderer.ReadPixels()

	a.savePath("PNG Images", "png", "Save Snapshot", func(path string) {
		saved, err := a.exporter.Snapshot(path, pixels, w, h)
		if err != nil {
			a.log.Error("snapshot failed", zap.Error(err))
			return
		}
		a.log.Info("snapshot saved", zap.String("path", saved))
	})
}

// exportOrder writes the current selection as an order sheet.
func (a *App) exportOrder() {
	sheet := export.NewOrderSheet(a.cfg.Window.Title, a.session.State.Current, a.session.Palette, time.Now())

	a.savePath("Order Sheets", "yaml", "Export Order", func(path string) {
		saved, err := a.exporter.SaveOrder(path, sheet)
		if err != nil {
			a.log.Error("order export failed", zap.Error(err))
			return
		}
		a.log.Info("order exported",
			zap.String("path", saved),
			zap.String("form", string(sheet.Form)),
			zap.Int("accessories", len(sheet.Accessories)),
		)
	})
}

// savePath asks for a destination and runs write with it off the main
// thread. An empty path makes the exporter pick a timestamped name.
func (a *App) savePath(filterName, ext, title string, write func(path string)) {
	if !a.cfg.Export.UseDialog {
		go write("")
		return
	}
	go func() {
		path, err := dialog.File().
			Filter(filterName, ext).
			Title(title).
			SetStartDir(a.exporter.OutputDir()).
			Save()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				a.log.Warn("file dialog failed, using default name", zap.Error(err))
				write("")
			}
			return
		}
		write(path)
	}()
}
