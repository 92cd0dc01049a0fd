// Package state holds the in-memory record of the current product
// configuration.
package state

import (
	"fmt"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"github.com/Faultbox/plush-configurator/internal/catalog"
	"github.com/Faultbox/plush-configurator/internal/config"
	"github.com/Faultbox/plush-configurator/internal/logger"
)

// Selection is one complete set of choices.
type Selection struct {
	Form        catalog.Form
	Fur         catalog.ColorID
	Eyes        catalog.ColorID
	Accessories map[catalog.Accessory]bool
	Tint        catalog.ColorID
}

// Visible reports whether accessory a is selected.
func (s Selection) Visible(a catalog.Accessory) bool {
	return s.Accessories[a]
}

// Equal compares two selections. A missing accessory entry equals false.
func (s Selection) Equal(o Selection) bool {
	if s.Form != o.Form || s.Fur != o.Fur || s.Eyes != o.Eyes || s.Tint != o.Tint {
		return false
	}
	for a, v := range s.Accessories {
		if o.Accessories[a] != v {
			return false
		}
	}
	for a, v := range o.Accessories {
		if s.Accessories[a] != v {
			return false
		}
	}
	return true
}

// VisibleAccessories returns the selected accessories in catalog order.
func (s Selection) VisibleAccessories() []catalog.Accessory {
	var out []catalog.Accessory
	for _, a := range catalog.Accessories() {
		if s.Accessories[a] {
			out = append(out, a)
		}
	}
	return out
}

// DefaultSelection resolves the configured defaults. Every accessory gets an
// explicit entry.
func DefaultSelection(d config.DefaultsConfig) (Selection, error) {
	sel := Selection{
		Form:        catalog.ParseForm(d.Form),
		Fur:         catalog.ParseColor(d.Fur),
		Eyes:        catalog.ParseColor(d.Eyes),
		Tint:        catalog.ParseColor(d.Tint),
		Accessories: make(map[catalog.Accessory]bool),
	}
	if !sel.Form.Valid() {
		return Selection{}, fmt.Errorf("default form %q", d.Form)
	}
	if !catalog.ChannelFur.Allows(sel.Fur) {
		return Selection{}, fmt.Errorf("default fur %q", d.Fur)
	}
	if !catalog.ChannelEyes.Allows(sel.Eyes) {
		return Selection{}, fmt.Errorf("default eyes %q", d.Eyes)
	}
	if !catalog.ChannelTint.Allows(sel.Tint) {
		return Selection{}, fmt.Errorf("default tint %q", d.Tint)
	}
	for _, a := range catalog.Accessories() {
		sel.Accessories[a] = false
	}
	for _, name := range d.Accessories {
		a := catalog.ParseAccessory(name)
		if !a.Valid() {
			return Selection{}, fmt.Errorf("default accessory %q", name)
		}
		sel.Accessories[a] = true
	}
	return sel, nil
}

// State is the mutable current selection plus the defaults it resets to.
// Writes are not validated; values outside the catalog are carried as-is
// and ignored by the scene.
type State struct {
	Current  Selection
	defaults Selection
}

// New returns a state whose current selection equals defaults.
func New(defaults Selection) *State {
	s := &State{defaults: clone(defaults)}
	s.Reset()
	return s
}

// Defaults returns a copy of the default selection.
func (s *State) Defaults() Selection {
	return clone(s.defaults)
}

// Reset restores the current selection to the defaults. The accessories map
// is copied, never shared with the defaults.
func (s *State) Reset() {
	s.Current = clone(s.defaults)
}

// SetAccessory records the checked state of one accessory.
func (s *State) SetAccessory(a catalog.Accessory, visible bool) {
	if s.Current.Accessories == nil {
		s.Current.Accessories = make(map[catalog.Accessory]bool)
	}
	s.Current.Accessories[a] = visible
}

// clone deep-copies sel. Copy errors only arise for mismatched types, so
// they are logged and the partial copy is returned.
func clone(sel Selection) Selection {
	var out Selection
	if err := copier.CopyWithOption(&out, &sel, copier.Option{DeepCopy: true}); err != nil {
		logger.Named("state").Error("copying selection", zap.Error(err))
	}
	return out
}
