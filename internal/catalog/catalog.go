// Package catalog defines the enumerated product options: forms, colors,
// accessories and the channels colors apply to.
//
// Every enum has an explicit Unknown zero value. Parse functions never fail;
// they return Unknown for names outside the catalog, and callers treat
// Unknown as a no-op.
package catalog

import "strings"

func parse[T ~uint8](names []string, s string) T {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := 1; i < len(names); i++ {
		if names[i] == s {
			return T(i)
		}
	}
	return 0
}

func name(names []string, i uint8) string {
	if int(i) < len(names) {
		return names[i]
	}
	return names[0]
}

// Form is a body pose. Each form is a separate model file.
type Form uint8

const (
	FormUnknown Form = iota
	FormSitting
	FormStanding
	FormLying
)

var formNames = []string{"unknown", "sitting", "standing", "lying"}

// Forms returns every known form in display order.
func Forms() []Form {
	return []Form{FormSitting, FormStanding, FormLying}
}

// ParseForm returns the form with the given name, or FormUnknown.
func ParseForm(s string) Form { return parse[Form](formNames, s) }

func (f Form) String() string { return name(formNames, uint8(f)) }

// Valid reports whether f is a known form.
func (f Form) Valid() bool { return f > FormUnknown && int(f) < len(formNames) }

// MarshalText implements encoding.TextMarshaler.
func (f Form) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Form) UnmarshalText(b []byte) error {
	*f = ParseForm(string(b))
	return nil
}

// Accessory is an optional add-on model.
type Accessory uint8

const (
	AccessoryUnknown Accessory = iota
	AccessoryScarf
	AccessoryBow
	AccessoryGlasses
	AccessoryHat
	AccessoryCrown
)

var accessoryNames = []string{"unknown", "scarf", "bow", "glasses", "hat", "crown"}

// Accessories returns every known accessory in display order.
func Accessories() []Accessory {
	return []Accessory{AccessoryScarf, AccessoryBow, AccessoryGlasses, AccessoryHat, AccessoryCrown}
}

// ParseAccessory returns the accessory with the given name, or AccessoryUnknown.
func ParseAccessory(s string) Accessory { return parse[Accessory](accessoryNames, s) }

func (a Accessory) String() string { return name(accessoryNames, uint8(a)) }

// Valid reports whether a is a known accessory.
func (a Accessory) Valid() bool { return a > AccessoryUnknown && int(a) < len(accessoryNames) }

// MarshalText implements encoding.TextMarshaler.
func (a Accessory) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Accessory) UnmarshalText(b []byte) error {
	*a = ParseAccessory(string(b))
	return nil
}

// Group is a set of accessories of which at most one may be visible.
type Group uint8

const (
	GroupNone Group = iota
	GroupHeadwear
)

// Group returns the exclusive group a belongs to.
func (a Accessory) Group() Group {
	switch a {
	case AccessoryHat, AccessoryCrown:
		return GroupHeadwear
	default:
		return GroupNone
	}
}

// Members returns the accessories in group g. GroupNone has no members.
func (g Group) Members() []Accessory {
	if g == GroupNone {
		return nil
	}
	var out []Accessory
	for _, a := range Accessories() {
		if a.Group() == g {
			out = append(out, a)
		}
	}
	return out
}

// ColorID names a swatch. The same name may exist on several channels
// with different values (blue eyes, blue tint).
type ColorID uint8

const (
	ColorUnknown ColorID = iota
	ColorGinger
	ColorWhite
	ColorBlack
	ColorGrey
	ColorCream
	ColorGreen
	ColorBlue
	ColorAmber
	ColorHazel
	ColorRed
	ColorPink
	ColorGold
)

var colorNames = []string{
	"unknown", "ginger", "white", "black", "grey", "cream",
	"green", "blue", "amber", "hazel", "red", "pink", "gold",
}

// ParseColor returns the color with the given name, or ColorUnknown.
func ParseColor(s string) ColorID { return parse[ColorID](colorNames, s) }

func (c ColorID) String() string { return name(colorNames, uint8(c)) }

// MarshalText implements encoding.TextMarshaler.
func (c ColorID) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ColorID) UnmarshalText(b []byte) error {
	*c = ParseColor(string(b))
	return nil
}

// Channel is a recolorable part of the product.
type Channel uint8

const (
	ChannelUnknown Channel = iota
	ChannelFur
	ChannelEyes
	ChannelTint // Accessories
)

var channelNames = []string{"unknown", "fur", "eyes", "tint"}

// ParseChannel returns the channel with the given name, or ChannelUnknown.
func ParseChannel(s string) Channel { return parse[Channel](channelNames, s) }

func (c Channel) String() string { return name(channelNames, uint8(c)) }

// Colors returns the colors offered on the channel in display order.
func (c Channel) Colors() []ColorID {
	switch c {
	case ChannelFur:
		return []ColorID{ColorGinger, ColorWhite, ColorBlack, ColorGrey, ColorCream}
	case ChannelEyes:
		return []ColorID{ColorGreen, ColorBlue, ColorAmber, ColorHazel}
	case ChannelTint:
		return []ColorID{ColorRed, ColorBlue, ColorPink, ColorGold, ColorGreen}
	default:
		return nil
	}
}

// Allows reports whether id is offered on the channel.
func (c Channel) Allows(id ColorID) bool {
	for _, x := range c.Colors() {
		if x == id {
			return true
		}
	}
	return false
}
