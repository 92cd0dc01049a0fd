package ui

import "fmt"

// Widgets is the immediate-mode toolkit the panel draws with. ui2d.Context
// implements it.
type Widgets interface {
	BeginWindow(id string, x, y, w, h float32, title string) bool
	EndWindow()
	Row(height float32)
	Label(text string)
	Separator()
	SetDisabled(disabled bool)
	Toggle(id string, width float32, label string, active bool) bool
	Swatch(id string, size float32, rgb [3]float32, active bool) bool
	Checkbox(id string, label string, checked bool) bool
	Button(id string, width float32, label string) bool
	ProgressBar(fraction, width, height float32, label string)
}

const (
	panelID    = "configurator"
	rowHeight  = 26
	swatchSize = 26
	padding    = 8
)

type extraButton struct {
	id, label string
	onClick   func()
}

// Panel lays out the controls in a window docked to the right edge.
type Panel struct {
	ctrl  *Controller
	width float32

	// Progress returns finished and issued load counts. Optional.
	Progress func() (done, total int)

	extras []extraButton
}

// NewPanel creates a panel of the given width.
func NewPanel(ctrl *Controller, width float32) *Panel {
	return &Panel{ctrl: ctrl, width: width}
}

// AddButton appends a button below the controls. Extra buttons stay usable
// while the controls are disabled.
func (p *Panel) AddButton(id, label string, onClick func()) {
	p.extras = append(p.extras, extraButton{id: id, label: label, onClick: onClick})
}

// Bounds returns the panel rectangle for a screen size.
func (p *Panel) Bounds(screenW, screenH float32) (x, y, w, h float32) {
	return screenW - p.width, 0, p.width, screenH
}

// Contains reports whether a screen point is over the panel.
func (p *Panel) Contains(screenW, screenH, px, py float32) bool {
	x, y, w, h := p.Bounds(screenW, screenH)
	return px >= x && px < x+w && py >= y && py < y+h
}

// Draw renders the panel and dispatches clicks to the controller.
func (p *Panel) Draw(w Widgets, screenW, screenH float32) {
	x, y, pw, ph := p.Bounds(screenW, screenH)
	if !w.BeginWindow(panelID, x, y, pw, ph, "Plush Cat") {
		return
	}
	defer w.EndWindow()

	inner := pw - 2*padding
	enabled := p.ctrl.Enabled()

	if p.Progress != nil {
		if done, total := p.Progress(); total > 0 && done < total {
			w.Row(rowHeight)
			w.ProgressBar(float32(done)/float32(total), inner, 18, fmt.Sprintf("Loading %d/%d", done, total))
		}
	}

	w.SetDisabled(!enabled)

	p.heading(w, "Pose")
	forms := p.ctrl.Group(GroupForm)
	w.Row(rowHeight)
	for _, ctrl := range forms {
		if w.Toggle(ctrl.ID, (inner-float32(len(forms)-1)*4)/float32(len(forms)), ctrl.Label, ctrl.Active) {
			p.ctrl.Activate(ctrl)
		}
	}

	p.swatches(w, "Fur", GroupFur)
	p.swatches(w, "Eyes", GroupEyes)

	p.heading(w, "Accessories")
	for _, ctrl := range p.ctrl.Group(GroupAccessory) {
		w.Row(rowHeight)
		if w.Checkbox(ctrl.ID, ctrl.Label, ctrl.Checked) != ctrl.Checked {
			p.ctrl.Activate(ctrl)
		}
	}

	p.swatches(w, "Accessory color", GroupTint)

	w.Separator()
	w.Row(rowHeight + 4)
	for _, ctrl := range p.ctrl.Group(GroupActions) {
		if w.Button(ctrl.ID, (inner-4)/2, ctrl.Label) {
			p.ctrl.Activate(ctrl)
		}
	}

	w.SetDisabled(false)

	for _, b := range p.extras {
		w.Row(rowHeight + 4)
		if w.Button(b.id, inner, b.label) && b.onClick != nil {
			b.onClick()
		}
	}
}

func (p *Panel) heading(w Widgets, text string) {
	w.Row(rowHeight - 6)
	w.Label(text)
}

func (p *Panel) swatches(w Widgets, title string, g Group) {
	p.heading(w, title)
	w.Row(swatchSize)
	for _, ctrl := range p.ctrl.Group(g) {
		if w.Swatch(ctrl.ID, swatchSize, ctrl.Display, ctrl.Active) {
			p.ctrl.Activate(ctrl)
		}
	}
}
