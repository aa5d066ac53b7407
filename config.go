package verdant

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds everything a page built on verdant reads at startup.
type Config struct {
	Viewport ViewportConfig       `yaml:"viewport"`
	Scroll   ScrollConfig         `yaml:"scroll"`
	Fields   map[string]FieldSpec `yaml:"fields"`
	Story    StoryConfig          `yaml:"story"`
	Debug    bool                 `yaml:"debug"`
}

// ViewportConfig holds window settings.
type ViewportConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	Background string `yaml:"background"` // hex
}

// ScrollConfig holds choreography and scrolling parameters.
type ScrollConfig struct {
	NarrowBreakpoint float64 `yaml:"narrow_breakpoint"`
	RevealThreshold  float64 `yaml:"reveal_threshold"`
	Scrub            float32 `yaml:"scrub"`
	WheelStep        float64 `yaml:"wheel_step"`
	KeyStep          float64 `yaml:"key_step"`
	ProgressDuration float32 `yaml:"progress_duration"`
}

// FieldSpec is the YAML form of a FieldConfig. Colors are hex strings and
// ranges are two-element lists.
type FieldSpec struct {
	Count      int             `yaml:"count"`
	Color      string          `yaml:"color"`
	Tint       [3]float64      `yaml:"tint"`
	Size       [2]float64      `yaml:"size"`
	Speed      [2]float64      `yaml:"speed"`
	Opacity    [2]float64      `yaml:"opacity"`
	Lifetime   [2]int          `yaml:"lifetime"`
	Edge       string          `yaml:"edge"` // "respawn" or "wrap"
	Attraction *AttractionSpec `yaml:"attraction,omitempty"`
	Links      *LinkSpec       `yaml:"links,omitempty"`
}

// AttractionSpec enables pointer attraction when present.
type AttractionSpec struct {
	Radius   float64 `yaml:"radius"`
	Strength float64 `yaml:"strength"`
}

// LinkSpec enables proximity links when present.
type LinkSpec struct {
	Distance float64 `yaml:"distance"`
	Color    string  `yaml:"color"`
	Alpha    float64 `yaml:"alpha"`
	Width    float64 `yaml:"width"`
}

// StoryConfig lays out the journey page. Heights and widths are in viewport
// units.
type StoryConfig struct {
	PanelHeight    float64       `yaml:"panel_height"`
	JourneyWidth   float64       `yaml:"journey_width"`
	TreesPerSecond float64       `yaml:"trees_per_second"`
	Layers         []LayerConfig `yaml:"layers"`
}

// LayerConfig is one parallax layer inside the horizontal section.
type LayerConfig struct {
	Name  string  `yaml:"name"`
	Depth float64 `yaml:"depth"`
	Color string  `yaml:"color"`
}

// DefaultConfig returns the embedded defaults.
func DefaultConfig() *Config {
	cfg, err := LoadConfig("")
	if err != nil {
		panic(fmt.Sprintf("verdant: embedded defaults: %v", err))
	}
	return cfg
}

// LoadConfig loads a YAML file merged over the embedded defaults. Only keys
// present in the file change; an entry under fields replaces the default
// entry of the same name. An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate clamps numeric settings into range and reports values that cannot
// be repaired, such as malformed colors or unknown edge modes.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 {
		c.Viewport.Width = 1280
	}
	if c.Viewport.Height <= 0 {
		c.Viewport.Height = 720
	}
	if c.Viewport.Background != "" {
		if _, err := ParseColor(c.Viewport.Background); err != nil {
			return fmt.Errorf("viewport.background: %w", err)
		}
	}

	c.Scroll.RevealThreshold = clamp01(c.Scroll.RevealThreshold)
	if c.Scroll.NarrowBreakpoint < 0 {
		c.Scroll.NarrowBreakpoint = 0
	}
	if c.Scroll.Scrub < 0 {
		c.Scroll.Scrub = 0
	}
	if c.Scroll.ProgressDuration < 0 {
		c.Scroll.ProgressDuration = 0
	}
	if c.Scroll.WheelStep <= 0 {
		c.Scroll.WheelStep = defaultWheelStep
	}
	if c.Scroll.KeyStep <= 0 {
		c.Scroll.KeyStep = defaultKeyStep
	}

	for _, name := range c.FieldNames() {
		if _, err := c.Fields[name].FieldConfig(); err != nil {
			return fmt.Errorf("fields.%s: %w", name, err)
		}
	}

	if c.Story.PanelHeight <= 0 {
		c.Story.PanelHeight = 1
	}
	if c.Story.JourneyWidth < 1 {
		c.Story.JourneyWidth = 1
	}
	if c.Story.TreesPerSecond < 0 {
		c.Story.TreesPerSecond = 0
	}
	for i := range c.Story.Layers {
		l := &c.Story.Layers[i]
		l.Depth = clamp01(l.Depth)
		if _, err := ParseColor(l.Color); err != nil {
			return fmt.Errorf("story.layers[%d]: %w", i, err)
		}
	}
	return nil
}

// FieldNames returns the configured field names in sorted order.
func (c *Config) FieldNames() []string {
	names := make([]string, 0, len(c.Fields))
	for name := range c.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Field returns the named particle field configuration.
func (c *Config) Field(name string) (FieldConfig, error) {
	spec, ok := c.Fields[name]
	if !ok {
		return FieldConfig{}, fmt.Errorf("unknown field %q", name)
	}
	return spec.FieldConfig()
}

// Choreo returns choreographer options for the scroll settings.
func (c *Config) Choreo() []ChoreoOption {
	return []ChoreoOption{
		WithNarrowBreakpoint(c.Scroll.NarrowBreakpoint),
		WithRevealThreshold(c.Scroll.RevealThreshold),
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// FieldConfig converts s into a FieldConfig. Range checks happen in
// ParticleField, not here.
func (s FieldSpec) FieldConfig() (FieldConfig, error) {
	base, err := ParseColor(s.Color)
	if err != nil {
		return FieldConfig{}, fmt.Errorf("color: %w", err)
	}
	cfg := FieldConfig{
		Count:    s.Count,
		Color:    base,
		Tint:     s.Tint,
		Size:     Range{s.Size[0], s.Size[1]},
		Speed:    Range{s.Speed[0], s.Speed[1]},
		Opacity:  Range{s.Opacity[0], s.Opacity[1]},
		Lifetime: IntRange{s.Lifetime[0], s.Lifetime[1]},
	}
	switch s.Edge {
	case "", "respawn":
		cfg.Edge = EdgeRespawn
	case "wrap":
		cfg.Edge = EdgeWrap
	default:
		return FieldConfig{}, fmt.Errorf("unknown edge mode %q", s.Edge)
	}
	if a := s.Attraction; a != nil {
		cfg.Attraction = Attraction{Enabled: true, Radius: a.Radius, Strength: a.Strength}
	}
	if l := s.Links; l != nil {
		cfg.Links = LinkConfig{Enabled: true, Distance: l.Distance, Width: l.Width}
		if l.Color != "" {
			c, err := ParseColor(l.Color)
			if err != nil {
				return FieldConfig{}, fmt.Errorf("links.color: %w", err)
			}
			alpha := l.Alpha
			if alpha <= 0 {
				alpha = 1
			}
			cfg.Links.Color = c.WithAlpha(clamp01(alpha))
		}
	}
	return cfg, nil
}

// ParseColor parses a "#RRGGBB" hex string into an opaque Color.
func ParseColor(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("parsing color %q: %w", hex, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// MustParseColor is like ParseColor but panics on error.
func MustParseColor(hex string) Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}
