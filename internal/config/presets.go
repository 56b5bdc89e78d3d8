package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"lecture": func() *Config {
		c := DefaultConfig()
		c.Playback.Increment = 0.001
		c.Playback.ResumeIncrement = 0.001
		c.Playback.BoundaryDelayMs = 4000
		c.View.Theme = "minimal"
		return c
	}(),
	"quick": func() *Config {
		c := DefaultConfig()
		c.SegmentsU, c.SegmentsV = 32, 96
		c.Playback.Increment = 0.01
		c.Playback.ResumeIncrement = 0.01
		c.Playback.BoundaryDelayMs = 500
		return c
	}(),
	"english": func() *Config {
		c := DefaultConfig()
		c.View.Locale = "en"
		return c
	}(),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
