package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/plush-configurator/internal/catalog"
	"github.com/Faultbox/plush-configurator/internal/state"
)

// OrderSheet is the exported record of one configuration.
type OrderSheet struct {
	Product     string           `yaml:"product"`
	CreatedAt   time.Time        `yaml:"created_at"`
	Form        catalog.Form     `yaml:"form"`
	Fur         ColorEntry       `yaml:"fur"`
	Eyes        ColorEntry       `yaml:"eyes"`
	Accessories []AccessoryEntry `yaml:"accessories"`
	Tint        *ColorEntry      `yaml:"tint,omitempty"` // Only with accessories
	Snapshot    string           `yaml:"snapshot,omitempty"`
}

// ColorEntry names a color and its hex value.
type ColorEntry struct {
	Name catalog.ColorID `yaml:"name"`
	Hex  string          `yaml:"hex,omitempty"`
}

// AccessoryEntry is one selected accessory.
type AccessoryEntry struct {
	Name catalog.Accessory `yaml:"name"`
}

// NewOrderSheet describes sel. Colors missing from the palette are written
// without a hex value.
func NewOrderSheet(product string, sel state.Selection, pal *catalog.Palette, at time.Time) OrderSheet {
	sheet := OrderSheet{
		Product:   product,
		CreatedAt: at.UTC().Truncate(time.Second),
		Form:      sel.Form,
		Fur:       colorEntry(pal, catalog.ChannelFur, sel.Fur),
		Eyes:      colorEntry(pal, catalog.ChannelEyes, sel.Eyes),
	}
	for _, a := range sel.VisibleAccessories() {
		sheet.Accessories = append(sheet.Accessories, AccessoryEntry{Name: a})
	}
	if len(sheet.Accessories) > 0 {
		tint := colorEntry(pal, catalog.ChannelTint, sel.Tint)
		sheet.Tint = &tint
	}
	return sheet
}

func colorEntry(pal *catalog.Palette, ch catalog.Channel, id catalog.ColorID) ColorEntry {
	e := ColorEntry{Name: id}
	if pal != nil {
		if sw, ok := pal.Lookup(ch, id); ok {
			e.Hex = sw.Hex
		}
	}
	return e
}

// Selection converts the sheet back into a selection.
func (o OrderSheet) Selection() state.Selection {
	sel := state.Selection{
		Form:        o.Form,
		Fur:         o.Fur.Name,
		Eyes:        o.Eyes.Name,
		Accessories: make(map[catalog.Accessory]bool),
	}
	for _, a := range catalog.Accessories() {
		sel.Accessories[a] = false
	}
	for _, a := range o.Accessories {
		sel.Accessories[a.Name] = true
	}
	if o.Tint != nil {
		sel.Tint = o.Tint.Name
	}
	return sel
}

// SaveOrder writes sheet as YAML. An empty path uses a timestamped name in
// the output directory. It returns the path written.
func (e *Exporter) SaveOrder(path string, sheet OrderSheet) (string, error) {
	if path == "" {
		path = e.Filename("yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	data, err := yaml.Marshal(sheet)
	if err != nil {
		return "", fmt.Errorf("encoding order: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// LoadOrder reads an order sheet written by SaveOrder.
func LoadOrder(path string) (OrderSheet, error) {
	var sheet OrderSheet
	data, err := os.ReadFile(path)
	if err != nil {
		return sheet, err
	}
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return sheet, fmt.Errorf("parsing %s: %w", path, err)
	}
	return sheet, nil
}
