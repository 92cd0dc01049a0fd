package catalog

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Swatch is a resolved palette entry.
type Swatch struct {
	Hex     string
	SRGB    [3]float32 // Display color for swatch buttons
	Linear  [3]float32 // Linear RGB, ready for the lighting shader
	Texture string     // Optional surface image path
}

// RGBA returns the swatch as an opaque linear RGBA color.
func (s Swatch) RGBA() [4]float32 {
	return [4]float32{s.Linear[0], s.Linear[1], s.Linear[2], 1}
}

// Palette maps (channel, color) to swatches.
type Palette struct {
	swatches map[Channel]map[ColorID]Swatch
}

// NewPalette returns an empty palette.
func NewPalette() *Palette {
	return &Palette{swatches: make(map[Channel]map[ColorID]Swatch)}
}

// Set parses hex and stores the swatch. The color must be offered on ch.
func (p *Palette) Set(ch Channel, id ColorID, hex, texture string) error {
	if !ch.Allows(id) {
		return fmt.Errorf("color %q is not offered on channel %q", id, ch)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return fmt.Errorf("%s/%s: %w", ch, id, err)
	}
	r, g, b := c.LinearRgb()
	sr, sg, sb := c.RGB255()
	m, ok := p.swatches[ch]
	if !ok {
		m = make(map[ColorID]Swatch)
		p.swatches[ch] = m
	}
	m[id] = Swatch{
		Hex:     c.Hex(),
		SRGB:    [3]float32{float32(sr) / 255, float32(sg) / 255, float32(sb) / 255},
		Linear:  [3]float32{float32(r), float32(g), float32(b)},
		Texture: texture,
	}
	return nil
}

// Lookup returns the swatch for id on ch. The second result is false for
// unknown channels, unknown colors and colors missing from the palette.
func (p *Palette) Lookup(ch Channel, id ColorID) (Swatch, bool) {
	s, ok := p.swatches[ch][id]
	return s, ok
}

// Complete reports the first offered color with no swatch, if any.
func (p *Palette) Complete() error {
	for _, ch := range []Channel{ChannelFur, ChannelEyes, ChannelTint} {
		for _, id := range ch.Colors() {
			if _, ok := p.Lookup(ch, id); !ok {
				return fmt.Errorf("palette: no %s swatch for %q", ch, id)
			}
		}
	}
	return nil
}

// HexToLinear parses a hex color into linear RGBA.
func HexToLinear(hex string) ([4]float32, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return [4]float32{}, err
	}
	r, g, b := c.LinearRgb()
	return [4]float32{float32(r), float32(g), float32(b), 1}, nil
}
