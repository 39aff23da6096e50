package config

import (
	"sort"
	"time"
)

// Presets adjust the default configuration for common runs.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	// quick compresses the timeline so a full run fits in well under a minute.
	"quick": func(c *Config) {
		c.Timeline.LineStagger = 300 * time.Millisecond
		c.Timeline.PoemHold = 3 * time.Second
		c.Timeline.SpawnEvery = 50 * time.Millisecond
		c.Timeline.WishHold = 500 * time.Millisecond
		c.Timeline.ExplodeFor = time.Second
		c.Timeline.QuestionHold = 2 * time.Second
		c.Timeline.GatherFor = 500 * time.Millisecond
		c.Timeline.PreHold = 2 * time.Second
		c.Timeline.SphereHold = time.Second
	},
	"dense": func(c *Config) {
		c.Text.Stride = 3
		c.Field.SphereCount = 1200
		c.Backdrop.Stars = 320
		c.Fireworks.Probability = 0.12
	},
	"sparse": func(c *Config) {
		c.Text.Stride = 6
		c.Field.SphereCount = 400
		c.Backdrop.Stars = 80
		c.Backdrop.Meteors = 5
		c.Fireworks.Probability = 0.04
		c.Fireworks.SparksMin = 60
		c.Fireworks.SparksRange = 40
	},
}

// GetPreset returns the default configuration with the named preset
// applied, or nil when no such preset exists.
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
