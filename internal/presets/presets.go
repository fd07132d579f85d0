// Package presets holds the wheel themes, coin styles and player colors the
// tools offer, loaded from YAML.
package presets

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abrezinsky/tinydecisions/internal/models"
)

//go:embed presets.yaml
var defaultYAML []byte

// WheelDefaults controls what a freshly created wheel looks like
type WheelDefaults struct {
	Emoji          string `yaml:"emoji"`
	OptionLabel    string `yaml:"option_label"` // fmt pattern taking the 1-based option number
	NewOptionLabel string `yaml:"new_option_label"`
	StarterOptions int    `yaml:"starter_options"`
}

// Presets is the full catalog
type Presets struct {
	Themes       []models.WheelTheme `yaml:"themes"`
	CoinStyles   []models.CoinStyle  `yaml:"coin_styles"`
	PlayerColors []string            `yaml:"player_colors"`
	Wheel        WheelDefaults       `yaml:"wheel"`
}

// Default returns the embedded catalog
func Default() Presets {
	p, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("presets: embedded catalog is invalid: %v", err))
	}
	return p
}

// Parse decodes a catalog and validates it
func Parse(raw []byte) (Presets, error) {
	var p Presets
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Presets{}, fmt.Errorf("presets: %w", err)
	}
	return p, p.Validate()
}

// Load reads path and fills any section it leaves empty from the embedded catalog.
// An empty path returns the embedded catalog.
func Load(path string) (Presets, error) {
	base := Default()
	if path == "" {
		return base, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Presets{}, err
	}
	var p Presets
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Presets{}, fmt.Errorf("%s: %w", path, err)
	}

	if len(p.Themes) == 0 {
		p.Themes = base.Themes
	}
	if len(p.CoinStyles) == 0 {
		p.CoinStyles = base.CoinStyles
	}
	if len(p.PlayerColors) == 0 {
		p.PlayerColors = base.PlayerColors
	}
	if p.Wheel.Emoji == "" {
		p.Wheel.Emoji = base.Wheel.Emoji
	}
	if p.Wheel.OptionLabel == "" {
		p.Wheel.OptionLabel = base.Wheel.OptionLabel
	}
	if p.Wheel.NewOptionLabel == "" {
		p.Wheel.NewOptionLabel = base.Wheel.NewOptionLabel
	}
	if p.Wheel.StarterOptions == 0 {
		p.Wheel.StarterOptions = base.Wheel.StarterOptions
	}
	return p, p.Validate()
}

// Validate checks that every list is usable
func (p Presets) Validate() error {
	if len(p.Themes) == 0 {
		return fmt.Errorf("presets: at least one theme is required")
	}
	seen := make(map[string]bool)
	for _, th := range p.Themes {
		if th.ID == "" {
			return fmt.Errorf("presets: theme %q has no id", th.Name)
		}
		if seen[th.ID] {
			return fmt.Errorf("presets: duplicate theme id %q", th.ID)
		}
		seen[th.ID] = true
		if len(th.Colors) == 0 {
			return fmt.Errorf("presets: theme %q has no colors", th.ID)
		}
	}
	if len(p.CoinStyles) == 0 {
		return fmt.Errorf("presets: at least one coin style is required")
	}
	for _, cs := range p.CoinStyles {
		if cs.ID == "" || cs.HeadsEmoji == "" || cs.TailsEmoji == "" {
			return fmt.Errorf("presets: coin style %q is incomplete", cs.ID)
		}
	}
	if len(p.PlayerColors) == 0 {
		return fmt.Errorf("presets: at least one player color is required")
	}
	if p.Wheel.StarterOptions < 0 {
		return fmt.Errorf("presets: starter_options must not be negative")
	}
	return nil
}

// Theme returns the theme with id, or the first theme when id is unknown
func (p Presets) Theme(id string) (models.WheelTheme, bool) {
	for _, th := range p.Themes {
		if th.ID == id {
			return th, true
		}
	}
	return p.Themes[0], false
}

// CoinStyle returns the coin style with id, or the first style when id is unknown
func (p Presets) CoinStyle(id string) (models.CoinStyle, bool) {
	for _, cs := range p.CoinStyles {
		if cs.ID == id {
			return cs, true
		}
	}
	return p.CoinStyles[0], false
}

// PlayerColor returns the color for the player at index i
func (p Presets) PlayerColor(i int) string {
	return p.PlayerColors[i%len(p.PlayerColors)]
}

// ThemeColor returns the palette color for option index i
func ThemeColor(theme models.WheelTheme, i int) string {
	if len(theme.Colors) == 0 {
		return ""
	}
	return theme.Colors[i%len(theme.Colors)]
}
