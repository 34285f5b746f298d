package camera

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset is a named set of capture constraints, loaded from a YAML file so
// stations can pin their camera setup without code changes.
//
//	presets:
//	  - name: door
//	    facing: environment
//	    width: 1280
//	    height: 720
//	    framerate: 30
type Preset struct {
	Name      string `yaml:"name"`
	Facing    Facing `yaml:"facing,omitempty"`
	Width     int    `yaml:"width,omitempty"`
	Height    int    `yaml:"height,omitempty"`
	FrameRate int    `yaml:"framerate,omitempty"`
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// Constraints converts the preset to capture constraints, filling anything
// unset from the defaults.
func (p Preset) Constraints() Constraints {
	c := DefaultConstraints()
	if p.Facing != "" {
		c.Facing = p.Facing
	}
	if p.Width > 0 {
		c.IdealWidth = p.Width
	}
	if p.Height > 0 {
		c.IdealHeight = p.Height
	}
	if p.FrameRate > 0 {
		c.FrameRate = p.FrameRate
	}
	return c
}

// LoadPresets reads the preset file and returns presets keyed by name.
func LoadPresets(path string) (map[string]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("presets: %w", err)
	}

	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("presets: parse %s: %w", path, err)
	}

	presets := make(map[string]Preset, len(file.Presets))
	for _, p := range file.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("presets: preset without name in %s", path)
		}
		presets[p.Name] = p
	}
	return presets, nil
}
