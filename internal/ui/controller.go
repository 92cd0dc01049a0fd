// Package ui binds the configurator controls to the selection state and the
// scene. It holds the control model (groups, active and checked marks,
// enabled flag); drawing lives in panel.go and is backend independent.
package ui

import (
	"go.uber.org/zap"

	"github.com/Faultbox/plush-configurator/internal/catalog"
	"github.com/Faultbox/plush-configurator/internal/logger"
	"github.com/Faultbox/plush-configurator/internal/state"
)

// Scene is the subset of the scene manager the controls drive.
type Scene interface {
	SwitchForm(f catalog.Form)
	Recolor(ch catalog.Channel, id catalog.ColorID)
	SetAccessoryVisible(a catalog.Accessory, visible bool)
	RecolorAccessory(a catalog.Accessory, id catalog.ColorID)
	ResetCamera()
}

// Feedback is notified after every handled control change.
type Feedback interface {
	Click()
}

// Group is a class of controls.
type Group int

const (
	GroupForm Group = iota
	GroupFur
	GroupEyes
	GroupAccessory
	GroupTint
	GroupActions
)

func (g Group) String() string {
	switch g {
	case GroupForm:
		return "form"
	case GroupFur:
		return "fur"
	case GroupEyes:
		return "eyes"
	case GroupAccessory:
		return "accessory"
	case GroupTint:
		return "tint"
	case GroupActions:
		return "action"
	default:
		return "unknown"
	}
}

// Action identifies an action button.
type Action int

const (
	ActionNone Action = iota
	ActionResetCamera
	ActionResetAll
)

// Control is one interactive element. Exactly one of Form, Color, Accessory
// and Action is meaningful, depending on Group.
type Control struct {
	ID        string
	Group     Group
	Label     string
	Form      catalog.Form
	Color     catalog.ColorID
	Accessory catalog.Accessory
	Action    Action
	Display   [3]float32 // Swatch color for color groups

	Active  bool // Single-select marker
	Checked bool // Accessory checkboxes
}

// Options configures a Controller.
type Options struct {
	State             *state.State
	Scene             Scene
	Palette           *catalog.Palette // Swatch display colors, optional
	ExclusiveHeadwear bool
	Feedback          Feedback // Optional
}

// Controller owns the controls and their handlers.
type Controller struct {
	state     *state.State
	scene     Scene
	exclusive bool
	feedback  Feedback

	controls []*Control
	byID     map[string]*Control
	enabled  bool

	log *zap.Logger
}

// NewController builds the full control set, disabled, with marks synced to
// the current state.
func NewController(opts Options) *Controller {
	c := &Controller{
		state:     opts.State,
		scene:     opts.Scene,
		exclusive: opts.ExclusiveHeadwear,
		feedback:  opts.Feedback,
		byID:      make(map[string]*Control),
		log:       logger.Named("ui"),
	}

	for _, f := range catalog.Forms() {
		c.add(&Control{Group: GroupForm, Label: f.String(), Form: f})
	}
	colorGroups := []struct {
		group Group
		ch    catalog.Channel
	}{
		{GroupFur, catalog.ChannelFur},
		{GroupEyes, catalog.ChannelEyes},
	}
	for _, cg := range colorGroups {
		for _, id := range cg.ch.Colors() {
			c.add(&Control{Group: cg.group, Label: id.String(), Color: id, Display: display(opts.Palette, cg.ch, id)})
		}
	}
	for _, a := range catalog.Accessories() {
		c.add(&Control{Group: GroupAccessory, Label: a.String(), Accessory: a})
	}
	for _, id := range catalog.ChannelTint.Colors() {
		c.add(&Control{Group: GroupTint, Label: id.String(), Color: id, Display: display(opts.Palette, catalog.ChannelTint, id)})
	}
	c.add(&Control{Group: GroupActions, Label: "Reset camera", Action: ActionResetCamera})
	c.add(&Control{Group: GroupActions, Label: "Reset all", Action: ActionResetAll})

	c.Sync()
	return c
}

func display(p *catalog.Palette, ch catalog.Channel, id catalog.ColorID) [3]float32 {
	if p == nil {
		return [3]float32{0.5, 0.5, 0.5}
	}
	sw, ok := p.Lookup(ch, id)
	if !ok {
		return [3]float32{0.5, 0.5, 0.5}
	}
	return sw.SRGB
}

func (c *Controller) add(ctrl *Control) {
	switch ctrl.Group {
	case GroupActions:
		switch ctrl.Action {
		case ActionResetCamera:
			ctrl.ID = "action/camera"
		case ActionResetAll:
			ctrl.ID = "action/reset"
		}
	default:
		ctrl.ID = ctrl.Group.String() + "/" + ctrl.Label
	}
	c.controls = append(c.controls, ctrl)
	c.byID[ctrl.ID] = ctrl
}

// Controls returns every control in display order.
func (c *Controller) Controls() []*Control { return c.controls }

// Control returns the control with the given ID, or nil.
func (c *Controller) Control(id string) *Control { return c.byID[id] }

// Group returns the controls of one group in display order.
func (c *Controller) Group(g Group) []*Control {
	var out []*Control
	for _, ctrl := range c.controls {
		if ctrl.Group == g {
			out = append(out, ctrl)
		}
	}
	return out
}

// Enabled reports whether the controls accept input.
func (c *Controller) Enabled() bool { return c.enabled }

// Enable turns the controls on. It is called once by the ready gate.
func (c *Controller) Enable() {
	if !c.enabled {
		c.enabled = true
		c.log.Info("controls enabled")
	}
}

// Activate handles a click on ctrl. Clicks on disabled controls are dropped.
func (c *Controller) Activate(ctrl *Control) {
	if !c.enabled || ctrl == nil {
		return
	}
	switch ctrl.Group {
	case GroupForm:
		c.SelectForm(ctrl.Form)
	case GroupFur:
		c.SelectFur(ctrl.Color)
	case GroupEyes:
		c.SelectEyes(ctrl.Color)
	case GroupAccessory:
		c.ToggleAccessory(ctrl.Accessory, !ctrl.Checked)
	case GroupTint:
		c.SelectTint(ctrl.Color)
	case GroupActions:
		switch ctrl.Action {
		case ActionResetCamera:
			c.ResetCamera()
		case ActionResetAll:
			c.ResetAll()
		}
	}
	if c.feedback != nil {
		c.feedback.Click()
	}
}

// SelectForm switches the product form. Fur and eye colors are re-applied
// so the newly shown variant matches the selection.
func (c *Controller) SelectForm(f catalog.Form) {
	cur := &c.state.Current
	cur.Form = f
	c.scene.SwitchForm(f)
	c.scene.Recolor(catalog.ChannelFur, cur.Fur)
	c.scene.Recolor(catalog.ChannelEyes, cur.Eyes)
	c.markActive(GroupForm, func(ctrl *Control) bool { return ctrl.Form == f })
	c.log.Debug("form selected", zap.Stringer("form", f))
}

// SelectFur recolors the fur.
func (c *Controller) SelectFur(id catalog.ColorID) {
	c.state.Current.Fur = id
	c.scene.Recolor(catalog.ChannelFur, id)
	c.markActive(GroupFur, func(ctrl *Control) bool { return ctrl.Color == id })
}

// SelectEyes recolors the eyes.
func (c *Controller) SelectEyes(id catalog.ColorID) {
	c.state.Current.Eyes = id
	c.scene.Recolor(catalog.ChannelEyes, id)
	c.markActive(GroupEyes, func(ctrl *Control) bool { return ctrl.Color == id })
}

// ToggleAccessory shows or hides an accessory. With exclusive headwear,
// checking one headwear piece unchecks and hides the others, even when the
// checked piece itself is not loaded.
func (c *Controller) ToggleAccessory(a catalog.Accessory, visible bool) {
	c.state.SetAccessory(a, visible)
	if visible && c.exclusive {
		for _, other := range a.Group().Members() {
			if other != a {
				c.state.SetAccessory(other, false)
				c.scene.SetAccessoryVisible(other, false)
			}
		}
	}
	c.scene.SetAccessoryVisible(a, visible)
	c.syncChecked()
}

// SelectTint recolors every accessory with the shared tint.
func (c *Controller) SelectTint(id catalog.ColorID) {
	c.state.Current.Tint = id
	for _, a := range catalog.Accessories() {
		c.scene.RecolorAccessory(a, id)
	}
	c.markActive(GroupTint, func(ctrl *Control) bool { return ctrl.Color == id })
}

// ResetCamera restores the default camera pose.
func (c *Controller) ResetCamera() {
	c.scene.ResetCamera()
}

// ResetAll restores the default selection, re-applies every scene operation
// with it and resyncs all marks.
func (c *Controller) ResetAll() {
	c.state.Reset()
	c.Apply()
	c.scene.ResetCamera()
	c.Sync()
	c.log.Info("configuration reset")
}

// Apply pushes the whole current selection into the scene.
func (c *Controller) Apply() {
	cur := c.state.Current
	c.scene.SwitchForm(cur.Form)
	c.scene.Recolor(catalog.ChannelFur, cur.Fur)
	c.scene.Recolor(catalog.ChannelEyes, cur.Eyes)
	for _, a := range catalog.Accessories() {
		c.scene.SetAccessoryVisible(a, cur.Visible(a))
		c.scene.RecolorAccessory(a, cur.Tint)
	}
}

// Sync sets every active and checked mark from the current selection.
func (c *Controller) Sync() {
	cur := c.state.Current
	c.markActive(GroupForm, func(ctrl *Control) bool { return ctrl.Form == cur.Form })
	c.markActive(GroupFur, func(ctrl *Control) bool { return ctrl.Color == cur.Fur })
	c.markActive(GroupEyes, func(ctrl *Control) bool { return ctrl.Color == cur.Eyes })
	c.markActive(GroupTint, func(ctrl *Control) bool { return ctrl.Color == cur.Tint })
	c.syncChecked()
}

func (c *Controller) markActive(g Group, match func(*Control) bool) {
	for _, ctrl := range c.controls {
		if ctrl.Group == g {
			ctrl.Active = match(ctrl)
		}
	}
}

func (c *Controller) syncChecked() {
	for _, ctrl := range c.controls {
		if ctrl.Group == GroupAccessory {
			ctrl.Checked = c.state.Current.Visible(ctrl.Accessory)
		}
	}
}
