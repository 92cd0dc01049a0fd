package ui2d

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Theme colors for the light studio look of the configurator.
var (
	ColorTransparent = Color{0, 0, 0, 0}
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}

	ColorPanelBg      = Color{0.97, 0.96, 0.94, 0.97}
	ColorPanelBorder  = Color{0.78, 0.75, 0.71, 1}
	ColorTitleBg      = Color{0.90, 0.87, 0.83, 1}
	ColorButtonNormal = Color{0.93, 0.91, 0.88, 1}
	ColorButtonHover  = Color{0.88, 0.85, 0.81, 1}
	ColorButtonActive = Color{0.36, 0.55, 0.75, 1}
	ColorInputBg      = Color{1, 1, 1, 1}
	ColorText         = Color{0.17, 0.16, 0.15, 1}
	ColorTextOnActive = Color{1, 1, 1, 1}
	ColorTextDim      = Color{0.6, 0.58, 0.55, 1}
	ColorHighlight    = Color{0.36, 0.55, 0.75, 1}
)

// RGB creates an opaque color from float components.
func RGB(rgb [3]float32) Color {
	return Color{rgb[0], rgb[1], rgb[2], 1}
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}

// Darken returns a darker version of the color.
func (c Color) Darken(factor float32) Color {
	return Color{
		R: c.R * (1 - factor),
		G: c.G * (1 - factor),
		B: c.B * (1 - factor),
		A: c.A,
	}
}

// Lighten returns a lighter version of the color.
func (c Color) Lighten(factor float32) Color {
	return Color{
		R: c.R + (1-c.R)*factor,
		G: c.G + (1-c.G)*factor,
		B: c.B + (1-c.B)*factor,
		A: c.A,
	}
}

// Dim blends the color towards the panel background for disabled widgets.
func (c Color) Dim() Color {
	return Color{
		R: c.R*0.45 + ColorPanelBg.R*0.55,
		G: c.G*0.45 + ColorPanelBg.G*0.55,
		B: c.B*0.45 + ColorPanelBg.B*0.55,
		A: c.A,
	}
}
