package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/plush-configurator/internal/catalog"
)

// Validate checks every enumerated name in the config against the catalog.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window: size %dx%d", c.Window.Width, c.Window.Height)
	check(c.Window.PanelWidth >= 0 && c.Window.PanelWidth < c.Window.Width, "window: panel_width %d", c.Window.PanelWidth)
	check(c.Camera.MinDistance > 0 && c.Camera.MinDistance <= c.Camera.MaxDistance,
		"camera: distance range [%v, %v]", c.Camera.MinDistance, c.Camera.MaxDistance)
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera: fov %v", c.Camera.FOV)

	for name, a := range c.Assets.Forms {
		check(catalog.ParseForm(name).Valid(), "assets.forms: unknown form %q", name)
		errs = append(errs, validateAsset("assets.forms."+name, a)...)
	}
	for name, a := range c.Assets.Accessories {
		check(catalog.ParseAccessory(name).Valid(), "assets.accessories: unknown accessory %q", name)
		errs = append(errs, validateAsset("assets.accessories."+name, a)...)
	}

	switch c.Exemption.Mode {
	case "name":
		check(len(c.Exemption.Substrings) > 0, "exemption: name mode needs substrings")
	case "material":
		check(c.Exemption.Sentinel != "", "exemption: material mode needs a sentinel")
	default:
		errs = append(errs, fmt.Errorf("exemption: unknown mode %q", c.Exemption.Mode))
	}

	if _, err := c.Palette.Build(); err != nil {
		errs = append(errs, err)
	}

	check(catalog.ParseForm(c.Defaults.Form).Valid(), "defaults: unknown form %q", c.Defaults.Form)
	check(catalog.ChannelFur.Allows(catalog.ParseColor(c.Defaults.Fur)), "defaults: unknown fur color %q", c.Defaults.Fur)
	check(catalog.ChannelEyes.Allows(catalog.ParseColor(c.Defaults.Eyes)), "defaults: unknown eye color %q", c.Defaults.Eyes)
	check(catalog.ChannelTint.Allows(catalog.ParseColor(c.Defaults.Tint)), "defaults: unknown tint %q", c.Defaults.Tint)
	for _, a := range c.Defaults.Accessories {
		check(catalog.ParseAccessory(a).Valid(), "defaults: unknown accessory %q", a)
	}

	for form, table := range c.Placements {
		check(catalog.ParseForm(form).Valid(), "placements: unknown form %q", form)
		for acc := range table {
			check(catalog.ParseAccessory(acc).Valid(), "placements.%s: unknown accessory %q", form, acc)
		}
	}

	return errors.Join(errs...)
}

func validateAsset(where string, a AssetConfig) []error {
	var errs []error
	if a.Path == "" {
		errs = append(errs, fmt.Errorf("%s: empty path", where))
	}
	if a.TargetSize <= 0 {
		errs = append(errs, fmt.Errorf("%s: target_size must be positive", where))
	}
	if a.Anchor != "ground" && a.Anchor != "center" {
		errs = append(errs, fmt.Errorf("%s: unknown anchor %q", where, a.Anchor))
	}
	return errs
}

// Build resolves the configured swatches into a palette. Every offered
// color must have a swatch.
func (p PaletteConfig) Build() (*catalog.Palette, error) {
	pal := catalog.NewPalette()
	tables := []struct {
		ch      catalog.Channel
		entries map[string]SwatchConfig
	}{
		{catalog.ChannelFur, p.Fur},
		{catalog.ChannelEyes, p.Eyes},
		{catalog.ChannelTint, p.Tint},
	}
	for _, tbl := range tables {
		for name, sw := range tbl.entries {
			id := catalog.ParseColor(name)
			if err := pal.Set(tbl.ch, id, sw.Color, sw.Texture); err != nil {
				return nil, fmt.Errorf("palette.%s.%s: %w", tbl.ch, name, err)
			}
		}
	}
	if err := pal.Complete(); err != nil {
		return nil, err
	}
	return pal, nil
}
