package ui2d

import "fmt"

// textScale draws the 7x13 font at native size.
const textScale = float32(1)

// Context is the immediate-mode widget layer.
type Context struct {
	renderer *Renderer
	input    *InputState

	activeWidget string
	disabled     bool

	windows       map[string]*WindowState
	currentWindow *WindowState

	// Layout state
	cursorX float32
	cursorY float32
	rowH    float32
}

// WindowState holds state for a UI window.
type WindowState struct {
	ID   string
	X, Y float32
	W, H float32
}

// NewContext creates a UI context with its renderer.
func NewContext(width, height int) (*Context, error) {
	r, err := New(width, height)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	return &Context{
		renderer: r,
		input:    &InputState{},
		windows:  make(map[string]*WindowState),
	}, nil
}

// Close releases resources.
func (c *Context) Close() {
	if c.renderer != nil {
		c.renderer.Close()
	}
}

// Renderer returns the underlying renderer.
func (c *Context) Renderer() *Renderer {
	return c.renderer
}

// Resize updates the screen size.
func (c *Context) Resize(width, height int) {
	c.renderer.Resize(width, height)
}

// Input returns the input state for modification.
func (c *Context) Input() *InputState {
	return c.input
}

// Begin starts a new UI frame.
func (c *Context) Begin() {
	c.input.Update()
	c.renderer.Begin()
}

// End finishes the UI frame.
func (c *Context) End() {
	c.renderer.End()
	c.input.EndFrame()
}

// WantsMouse reports whether the mouse is over a window or a widget is held.
func (c *Context) WantsMouse() bool {
	if c.activeWidget != "" {
		return true
	}
	for _, ws := range c.windows {
		if c.input.IsMouseInRect(ws.X, ws.Y, ws.W, ws.H) {
			return true
		}
	}
	return false
}

// SetDisabled makes following widgets draw dimmed and ignore input.
func (c *Context) SetDisabled(disabled bool) {
	c.disabled = disabled
}

// BeginWindow starts a fixed window with a title bar.
func (c *Context) BeginWindow(id string, x, y, w, h float32, title string) bool {
	ws, ok := c.windows[id]
	if !ok {
		ws = &WindowState{ID: id}
		c.windows[id] = ws
	}
	ws.X, ws.Y, ws.W, ws.H = x, y, w, h
	c.currentWindow = ws

	titleBarH := float32(26)
	c.renderer.DrawPanel(ws.X, ws.Y, ws.W, ws.H, ColorPanelBg, ColorPanelBorder)
	c.renderer.DrawRect(ws.X+1, ws.Y+1, ws.W-2, titleBarH-1, ColorTitleBg)

	_, textH := c.renderer.MeasureText(title, textScale)
	c.renderer.DrawText(ws.X+8, ws.Y+(titleBarH-textH)/2, title, textScale, ColorText)

	c.cursorX = ws.X + 8
	c.cursorY = ws.Y + titleBarH + 4
	c.rowH = 0
	return true
}

// EndWindow ends the current window.
func (c *Context) EndWindow() {
	c.currentWindow = nil
	c.disabled = false
}

// Row starts a new row with the given height.
func (c *Context) Row(height float32) {
	if c.currentWindow == nil {
		return
	}
	c.cursorX = c.currentWindow.X + 8
	c.cursorY += c.rowH + 4
	c.rowH = height
}

func (c *Context) contentWidth() float32 {
	return c.currentWindow.W - 16
}

// press reports a click on rect and tracks the held widget.
func (c *Context) press(fullID string, rect Rect) (hovered, clicked bool) {
	hovered = rect.Contains(c.input.MouseX, c.input.MouseY)
	if c.disabled {
		return hovered, false
	}
	if hovered && (c.input.MouseLeftPressed || c.input.MouseLeftClicked) {
		c.activeWidget = fullID
		clicked = true
		c.input.MouseLeftClicked = false
	}
	if c.activeWidget == fullID && c.input.MouseLeftReleased {
		c.activeWidget = ""
	}
	return hovered, clicked
}

func (c *Context) fill(base Color, hovered bool) Color {
	switch {
	case c.disabled:
		return base.Dim()
	case hovered:
		return base.Darken(0.05)
	default:
		return base
	}
}

func (c *Context) textColor(onActive bool) Color {
	switch {
	case c.disabled:
		return ColorTextDim
	case onActive:
		return ColorTextOnActive
	default:
		return ColorText
	}
}

func (c *Context) centeredLabel(x, y, w, h float32, label string, color Color) {
	textW, textH := c.renderer.MeasureText(label, textScale)
	c.renderer.DrawText(x+(w-textW)/2, y+(h-textH)/2, label, textScale, color)
}

func (c *Context) rowHeight(def float32) float32 {
	if c.rowH == 0 {
		return def
	}
	return c.rowH
}

// Button draws a button and returns true if clicked.
func (c *Context) Button(id string, width float32, label string) bool {
	return c.Toggle(id, width, label, false)
}

// Toggle draws a button with a persistent active marker.
func (c *Context) Toggle(id string, width float32, label string, active bool) bool {
	if c.currentWindow == nil {
		return false
	}
	x, y, h := c.cursorX, c.cursorY, c.rowHeight(26)
	if width == 0 {
		width = c.contentWidth()
	}

	fullID := c.currentWindow.ID + "_" + id
	hovered, clicked := c.press(fullID, Rect{x, y, width, h})

	base := ColorButtonNormal
	if active {
		base = ColorButtonActive
	} else if c.activeWidget == fullID {
		base = ColorButtonHover
	}
	c.renderer.DrawRect(x, y, width, h, c.fill(base, hovered))
	c.renderer.DrawRectOutline(x, y, width, h, 1, ColorPanelBorder)
	c.centeredLabel(x, y, width, h, label, c.textColor(active))

	c.cursorX += width + 4
	return clicked
}

// Swatch draws a square color button. The active swatch gets a ring.
func (c *Context) Swatch(id string, size float32, rgb [3]float32, active bool) bool {
	if c.currentWindow == nil {
		return false
	}
	x, y := c.cursorX, c.cursorY

	fullID := c.currentWindow.ID + "_" + id
	hovered, clicked := c.press(fullID, Rect{x, y, size, size})

	color := RGB(rgb)
	if c.disabled {
		color = color.Dim()
	}
	c.renderer.DrawRect(x, y, size, size, color)
	switch {
	case active:
		c.renderer.DrawRectOutline(x-2, y-2, size+4, size+4, 2, ColorHighlight)
	case hovered && !c.disabled:
		c.renderer.DrawRectOutline(x, y, size, size, 1, ColorText)
	default:
		c.renderer.DrawRectOutline(x, y, size, size, 1, ColorPanelBorder)
	}

	c.cursorX += size + 8
	return clicked
}

// Checkbox draws a checkbox and returns its new state.
func (c *Context) Checkbox(id string, label string, checked bool) bool {
	if c.currentWindow == nil {
		return checked
	}
	x, y := c.cursorX, c.cursorY
	boxSize := float32(18)
	labelW, textH := c.renderer.MeasureText(label, textScale)

	fullID := c.currentWindow.ID + "_" + id
	// Label is part of the hit area.
	hovered, clicked := c.press(fullID, Rect{x, y, boxSize + 8 + labelW, boxSize})
	if clicked {
		checked = !checked
	}

	c.renderer.DrawRect(x, y, boxSize, boxSize, c.fill(ColorInputBg, hovered))
	c.renderer.DrawRectOutline(x, y, boxSize, boxSize, 1, ColorPanelBorder)
	if checked {
		mark := ColorHighlight
		if c.disabled {
			mark = mark.Dim()
		}
		c.renderer.DrawRect(x+4, y+4, boxSize-8, boxSize-8, mark)
	}
	c.renderer.DrawText(x+boxSize+8, y+(boxSize-textH)/2, label, textScale, c.textColor(false))

	c.cursorX += boxSize + 8 + labelW + 8
	return checked
}

// Label draws a text label.
func (c *Context) Label(text string) {
	c.LabelColored(text, c.textColor(false))
}

// LabelColored draws a text label with a specific color.
func (c *Context) LabelColored(text string, color Color) {
	if c.currentWindow == nil {
		return
	}
	c.renderer.DrawText(c.cursorX, c.cursorY, text, textScale, color)
	w, _ := c.renderer.MeasureText(text, textScale)
	c.cursorX += w + 4
}

// Spacer adds vertical space.
func (c *Context) Spacer(height float32) {
	c.cursorY += height
}

// Separator draws a horizontal separator line.
func (c *Context) Separator() {
	if c.currentWindow == nil {
		return
	}
	c.cursorY += c.rowH + 6
	c.rowH = 0
	x := c.currentWindow.X + 8
	c.renderer.DrawRect(x, c.cursorY, c.contentWidth(), 1, ColorPanelBorder)
	c.cursorY += 4
	c.cursorX = x
}

// ProgressBar draws a progress bar.
func (c *Context) ProgressBar(fraction, width, height float32, label string) {
	if c.currentWindow == nil {
		return
	}
	x, y := c.cursorX, c.cursorY
	if height == 0 {
		height = 20
	}
	if width == 0 {
		width = c.contentWidth()
	}
	fraction = max(0, min(fraction, 1))

	c.renderer.DrawRect(x, y, width, height, ColorInputBg)
	c.renderer.DrawRectOutline(x, y, width, height, 1, ColorPanelBorder)
	if fill := (width - 2) * fraction; fill > 0 {
		c.renderer.DrawRect(x+1, y+1, fill, height-2, ColorHighlight.WithAlpha(0.6))
	}
	if label != "" {
		c.centeredLabel(x, y, width, height, label, ColorText)
	}
	c.cursorX = c.currentWindow.X + 8
}

// GetScreenSize returns the current screen dimensions.
func (c *Context) GetScreenSize() (float32, float32) {
	w, h := c.renderer.GetScreenSize()
	return float32(w), float32(h)
}

// Rect is a simple rectangle struct.
type Rect struct {
	X, Y, W, H float32
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}
