package config

import (
	"fmt"
	"sort"
)

// paramSetters are the numeric knobs that sweeps and searches can turn.
var paramSetters = map[string]func(*Config, float64){
	"gravity":     func(c *Config, v float64) { c.World.Gravity = v },
	"ground_y":    func(c *Config, v float64) { c.World.GroundY = v },
	"restitution": func(c *Config, v float64) { c.Contact.Restitution = v },
	"friction":    func(c *Config, v float64) { c.Contact.Friction = v },
	"touch_force": func(c *Config, v float64) { c.Touch.Force = v },
	"balls":       func(c *Config, v float64) { c.Balls.Count = int(v) },
	"radius":      func(c *Config, v float64) { c.Balls.Radius = v },
	"mass":        func(c *Config, v float64) { c.Balls.Mass = v },
	"model_size":  func(c *Config, v float64) { c.Balls.ModelSize = v },
	"damping":     func(c *Config, v float64) { c.Balls.Damping = v },
	"dt":          func(c *Config, v float64) { c.Dt = v },
	"sway":        func(c *Config, v float64) { c.Session.Sway = v },
}

// SetParam sets a named numeric parameter. The result is not validated.
func SetParam(c *Config, name string, v float64) error {
	set, ok := paramSetters[name]
	if !ok {
		return fmt.Errorf("unknown parameter %q (available: %v)", name, ParamNames())
	}
	set(c, v)
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(paramSetters))
	for name := range paramSetters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
