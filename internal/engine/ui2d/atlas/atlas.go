// Package atlas rasterizes the UI bitmap font into a single alpha texture.
package atlas

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	firstRune = 32
	lastRune  = 127
	columns   = 16
)

// Atlas is a fixed-cell glyph sheet for printable ASCII. Runes outside the
// range render as '?'.
type Atlas struct {
	Image *image.Alpha
	CellW int
	CellH int
}

// New rasterizes basicfont.Face7x13.
func New() *Atlas {
	return FromFace(basicfont.Face7x13)
}

// FromFace rasterizes a fixed-advance face.
func FromFace(face font.Face) *Atlas {
	m := face.Metrics()
	adv, _ := face.GlyphAdvance('M')
	cellW := adv.Ceil()
	cellH := m.Height.Ceil()
	if h := (m.Ascent + m.Descent).Ceil(); h > cellH {
		cellH = h
	}

	count := lastRune - firstRune + 1
	rows := (count + columns - 1) / columns
	img := image.NewAlpha(image.Rect(0, 0, columns*cellW, rows*cellH))

	d := &font.Drawer{Dst: img, Src: image.Opaque, Face: face}
	for r := firstRune; r <= lastRune; r++ {
		i := r - firstRune
		col, row := i%columns, i/columns
		d.Dot = fixed.P(col*cellW, row*cellH+m.Ascent.Ceil())
		d.DrawString(string(rune(r)))
	}

	return &Atlas{Image: img, CellW: cellW, CellH: cellH}
}

// GlyphUV returns the texture coordinates of r's cell.
func (a *Atlas) GlyphUV(r rune) (u0, v0, u1, v1 float32) {
	if r < firstRune || r > lastRune {
		r = '?'
	}
	i := int(r - firstRune)
	col, row := i%columns, i/columns

	w := float32(a.Image.Rect.Dx())
	h := float32(a.Image.Rect.Dy())
	u0 = float32(col*a.CellW) / w
	v0 = float32(row*a.CellH) / h
	u1 = float32((col+1)*a.CellW) / w
	v1 = float32((row+1)*a.CellH) / h
	return u0, v0, u1, v1
}

// Measure returns the size of text drawn at scale. Newlines start a new line.
func (a *Atlas) Measure(text string, scale float32) (float32, float32) {
	lines, longest, cur := 1, 0, 0
	for _, r := range text {
		if r == '\n' {
			lines++
			cur = 0
			continue
		}
		cur++
		if cur > longest {
			longest = cur
		}
	}
	return float32(longest*a.CellW) * scale, float32(lines*a.CellH) * scale
}
