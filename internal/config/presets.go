package config

import "sort"

// Presets adjust the default configuration.
var Presets = map[string]func(*Config){
	"duck": func(c *Config) {},
	"rain": func(c *Config) {
		c.Balls.Count = 100
		c.Balls.SpawnMax[1] = 6
	},
	"moon": func(c *Config) {
		c.World.Gravity = 1.62
	},
	"bouncy": func(c *Config) {
		c.Contact.Restitution = 0.95
		c.Contact.Friction = 0.2
	},
	"offline": func(c *Config) {
		c.Model = "builtin:duck"
	},
}

// GetPreset returns the default configuration with the named preset
// applied, or nil if there is no such preset.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
