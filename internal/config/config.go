// Package config handles configurator settings loading and management.
package config

import "time"

// Config holds all configurator settings.
type Config struct {
	Window      WindowConfig      `yaml:"window"`
	Render      RenderConfig      `yaml:"render"`
	Camera      CameraConfig      `yaml:"camera"`
	Lighting    LightingConfig    `yaml:"lighting"`
	Loader      LoaderConfig      `yaml:"loader"`
	Assets      AssetsConfig      `yaml:"assets"`
	Exemption   ExemptionConfig   `yaml:"exemption"`
	Palette     PaletteConfig     `yaml:"palette"`
	Defaults    DefaultsConfig    `yaml:"defaults"`
	Placements  PlacementTable    `yaml:"placements"`
	Accessories AccessoriesConfig `yaml:"accessories"`
	Audio       AudioConfig       `yaml:"audio"`
	Export      ExportConfig      `yaml:"export"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	PanelWidth int    `yaml:"panel_width"` // Control panel docked on the right
	ShowFPS    bool   `yaml:"show_fps"`
}

// RenderConfig holds product view rendering settings.
type RenderConfig struct {
	Background    string `yaml:"background"` // Hex color
	Shadows       bool   `yaml:"shadows"`
	ShadowMapSize int32  `yaml:"shadow_map_size"`
	GroundPlane   bool   `yaml:"ground_plane"`
	GroundColor   string `yaml:"ground_color"`
}

// CameraConfig holds the default orbit pose and control limits.
// Angles are in degrees.
type CameraConfig struct {
	FOV         float32    `yaml:"fov"`
	Distance    float32    `yaml:"distance"`
	Yaw         float32    `yaml:"yaw"`
	Pitch       float32    `yaml:"pitch"`
	Target      [3]float32 `yaml:"target"`
	MinDistance float32    `yaml:"min_distance"`
	MaxDistance float32    `yaml:"max_distance"`
	MinPitch    float32    `yaml:"min_pitch"`
	MaxPitch    float32    `yaml:"max_pitch"`
	Damping     float32    `yaml:"damping"` // Per-second convergence rate, 0 disables damping
	RotateSpeed float32    `yaml:"rotate_speed"`
	ZoomSpeed   float32    `yaml:"zoom_speed"`
}

// LightingConfig holds the key/fill/ambient light rig.
type LightingConfig struct {
	Ambient      float32 `yaml:"ambient"`
	SunLongitude int32   `yaml:"sun_longitude"` // Degrees around Y
	SunLatitude  int32   `yaml:"sun_latitude"`  // Degrees above horizon
	SunIntensity float32 `yaml:"sun_intensity"`
	Fill         float32 `yaml:"fill"`
}

// LoaderConfig holds asset loading settings.
type LoaderConfig struct {
	FallbackDelay time.Duration `yaml:"fallback_delay"` // Controls are enabled after this even if loads are pending
}

// AssetsConfig maps enumerated forms and accessories to model files.
type AssetsConfig struct {
	BaseDir     string                 `yaml:"base_dir"`
	Forms       map[string]AssetConfig `yaml:"forms"`
	Accessories map[string]AssetConfig `yaml:"accessories"`
}

// AssetConfig describes one model file and how it is normalized.
type AssetConfig struct {
	Path       string  `yaml:"path"`
	TargetSize float32 `yaml:"target_size"`
	Anchor     string  `yaml:"anchor"` // "ground" or "center"
}

// ExemptionConfig selects how eye/nose surfaces are told apart from fur.
type ExemptionConfig struct {
	Mode       string   `yaml:"mode"`        // "name" or "material"
	Substrings []string `yaml:"substrings"`  // name mode
	Sentinel   string   `yaml:"sentinel"`    // material mode
	EyeTargets []string `yaml:"eye_targets"` // Exempt surfaces that take the eye color, empty means all
}

// PaletteConfig holds the color swatches per channel, keyed by color name.
type PaletteConfig struct {
	Fur  map[string]SwatchConfig `yaml:"fur"`
	Eyes map[string]SwatchConfig `yaml:"eyes"`
	Tint map[string]SwatchConfig `yaml:"tint"`
}

// SwatchConfig is a hex color with an optional surface texture.
type SwatchConfig struct {
	Color   string `yaml:"color"`
	Texture string `yaml:"texture,omitempty"`
}

// DefaultsConfig is the initial configuration selection.
type DefaultsConfig struct {
	Form        string   `yaml:"form"`
	Fur         string   `yaml:"fur"`
	Eyes        string   `yaml:"eyes"`
	Tint        string   `yaml:"tint"`
	Accessories []string `yaml:"accessories"` // Visible at start
}

// PlacementTable maps form name to accessory name to placement.
type PlacementTable map[string]map[string]PlacementConfig

// PlacementConfig positions a normalized accessory on a form.
type PlacementConfig struct {
	Position [3]float32 `yaml:"position"`
	Yaw      float32    `yaml:"yaw"` // Degrees
	Scale    float32    `yaml:"scale"`
}

// AccessoriesConfig holds accessory behavior.
type AccessoriesConfig struct {
	ExclusiveHeadwear bool `yaml:"exclusive_headwear"`
}

// AudioConfig holds click feedback settings.
type AudioConfig struct {
	ClickSound string  `yaml:"click_sound"` // WAV file, empty disables
	Volume     float32 `yaml:"volume"`
	Muted      bool    `yaml:"muted"`
}

// ExportConfig holds snapshot and order sheet output settings.
type ExportConfig struct {
	Dir       string `yaml:"dir"`
	UseDialog bool   `yaml:"use_dialog"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Plush Configurator",
			Width:      1280,
			Height:     760,
			Fullscreen: false,
			VSync:      true,
			PanelWidth: 300,
		},
		Render: RenderConfig{
			Background:    "#e9e4dc",
			Shadows:       true,
			ShadowMapSize: 2048,
			GroundPlane:   true,
			GroundColor:   "#d8d0c4",
		},
		Camera: CameraConfig{
			FOV:         40,
			Distance:    4.2,
			Yaw:         25,
			Pitch:       18,
			Target:      [3]float32{0, 0.9, 0},
			MinDistance: 1.5,
			MaxDistance: 9,
			MinPitch:    -10,
			MaxPitch:    80,
			Damping:     8,
			RotateSpeed: 0.3,
			ZoomSpeed:   0.4,
		},
		Lighting: LightingConfig{
			Ambient:      0.35,
			SunLongitude: 45,
			SunLatitude:  50,
			SunIntensity: 0.9,
			Fill:         0.25,
		},
		Loader: LoaderConfig{
			FallbackDelay: 5 * time.Second,
		},
		Assets: AssetsConfig{
			BaseDir: "assets",
			Forms: map[string]AssetConfig{
				"sitting":  {Path: "models/cat_sitting.glb", TargetSize: 2.0, Anchor: "ground"},
				"standing": {Path: "models/cat_standing.glb", TargetSize: 2.0, Anchor: "ground"},
				"lying":    {Path: "models/cat_lying.glb", TargetSize: 2.0, Anchor: "ground"},
			},
			Accessories: map[string]AssetConfig{
				"scarf":   {Path: "models/scarf.glb", TargetSize: 0.9, Anchor: "center"},
				"bow":     {Path: "models/bow.glb", TargetSize: 0.35, Anchor: "center"},
				"glasses": {Path: "models/glasses.glb", TargetSize: 0.6, Anchor: "center"},
				"hat":     {Path: "models/hat.glb", TargetSize: 0.7, Anchor: "center"},
				"crown":   {Path: "models/crown.glb", TargetSize: 0.5, Anchor: "center"},
			},
		},
		Exemption: ExemptionConfig{
			Mode:       "name",
			Substrings: []string{"eye", "nose"},
			Sentinel:   "Exempt",
			EyeTargets: []string{"eye"},
		},
		Palette: PaletteConfig{
			Fur: map[string]SwatchConfig{
				"ginger": {Color: "#d9863b"},
				"white":  {Color: "#f2efe6"},
				"black":  {Color: "#2b2a29"},
				"grey":   {Color: "#8e8c8a"},
				"cream":  {Color: "#ecd9b0"},
			},
			Eyes: map[string]SwatchConfig{
				"green": {Color: "#3fa34d"},
				"blue":  {Color: "#3b7dd8"},
				"amber": {Color: "#e0a526"},
				"hazel": {Color: "#8e6b3a"},
			},
			Tint: map[string]SwatchConfig{
				"red":   {Color: "#c8323c"},
				"blue":  {Color: "#2f5fb3"},
				"pink":  {Color: "#e88fb4"},
				"gold":  {Color: "#d4af37"},
				"green": {Color: "#3c8c4a"},
			},
		},
		Defaults: DefaultsConfig{
			Form: "sitting",
			Fur:  "ginger",
			Eyes: "green",
			Tint: "red",
		},
		Placements: PlacementTable{
			"sitting": {
				"scarf":   {Position: [3]float32{0, 1.05, 0.05}, Scale: 1},
				"bow":     {Position: [3]float32{0.22, 1.85, 0.1}, Scale: 1},
				"glasses": {Position: [3]float32{0, 1.55, 0.42}, Scale: 1},
				"hat":     {Position: [3]float32{0, 2.0, 0}, Scale: 1},
				"crown":   {Position: [3]float32{0, 1.98, 0}, Scale: 1},
			},
			"standing": {
				"scarf":   {Position: [3]float32{0, 1.1, 0.45}, Yaw: 0, Scale: 0.9},
				"bow":     {Position: [3]float32{0.2, 1.7, 0.62}, Scale: 1},
				"glasses": {Position: [3]float32{0, 1.45, 0.95}, Scale: 1},
				"hat":     {Position: [3]float32{0, 1.88, 0.55}, Scale: 1},
				"crown":   {Position: [3]float32{0, 1.85, 0.55}, Scale: 1},
			},
			"lying": {
				"scarf":   {Position: [3]float32{0, 0.55, 0.6}, Scale: 0.85},
				"bow":     {Position: [3]float32{0.2, 1.0, 0.75}, Scale: 1},
				"glasses": {Position: [3]float32{0, 0.8, 1.05}, Scale: 1},
				"hat":     {Position: [3]float32{0, 1.15, 0.7}, Scale: 1},
				"crown":   {Position: [3]float32{0, 1.12, 0.7}, Scale: 1},
			},
		},
		Accessories: AccessoriesConfig{
			ExclusiveHeadwear: true,
		},
		Audio: AudioConfig{
			ClickSound: "sounds/click.wav",
			Volume:     0.6,
			Muted:      false,
		},
		Export: ExportConfig{
			Dir:       "exports",
			UseDialog: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
