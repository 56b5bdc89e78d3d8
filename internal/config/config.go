package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/quadmorph/internal/label"
	"github.com/san-kum/quadmorph/internal/playback"
)

const (
	DefaultRadius          = 1.0
	DefaultSegmentsU       = 64
	DefaultSegmentsV       = 256
	DefaultIncrement       = 0.002
	DefaultBoundaryDelayMs = 2000
	DefaultStep            = 0.1
	DefaultFPS             = 60
	DefaultCameraDistance  = 8.0
	MinCameraDistance      = 1.0
	MaxCameraDistance      = 12.0
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Radius    float64        `yaml:"radius"`
	SegmentsU int            `yaml:"segments_u"`
	SegmentsV int            `yaml:"segments_v"`
	Playback  PlaybackConfig `yaml:"playback"`
	View      ViewConfig     `yaml:"view"`
	Textures  TextureConfig  `yaml:"textures"`
	Log       LogConfig      `yaml:"log"`
}

type PlaybackConfig struct {
	Increment       float64 `yaml:"increment"`
	ResumeIncrement float64 `yaml:"resume_increment"`
	BoundaryDelayMs int     `yaml:"boundary_delay_ms"`
	Step            float64 `yaml:"step"`
	ResumePolicy    string  `yaml:"resume_policy"`
}

type ViewConfig struct {
	FPS            int     `yaml:"fps"`
	Theme          string  `yaml:"theme"`
	Locale         string  `yaml:"locale"`
	Spin           bool    `yaml:"spin"`
	CameraDistance float64 `yaml:"camera_distance"`
}

// TextureConfig maps slots to image files; empty means flat shading.
type TextureConfig struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
	BladeA    string `yaml:"blade_a"`
	BladeB    string `yaml:"blade_b"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Radius:    DefaultRadius,
		SegmentsU: DefaultSegmentsU,
		SegmentsV: DefaultSegmentsV,
		Playback: PlaybackConfig{
			Increment:       DefaultIncrement,
			ResumeIncrement: DefaultIncrement,
			BoundaryDelayMs: DefaultBoundaryDelayMs,
			Step:            DefaultStep,
			ResumePolicy:    playback.CancelOnIdle.String(),
		},
		View: ViewConfig{
			FPS:            DefaultFPS,
			Theme:          "ocean",
			Locale:         string(label.Dutch),
			Spin:           true,
			CameraDistance: DefaultCameraDistance,
		},
		Textures: TextureConfig{
			Primary:   "assets/earth_MR.jpg",
			Secondary: "assets/earth_flip.png",
			BladeA:    "assets/earth_upper.png",
			BladeB:    "assets/earth_lower.png",
		},
		Log: LogConfig{Level: "info"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Radius > 0 && !math.IsInf(c.Radius, 0), "radius %v must be positive", c.Radius)
	check(c.SegmentsU > 0, "segments_u %d must be positive", c.SegmentsU)
	check(c.SegmentsV > 0, "segments_v %d must be positive", c.SegmentsV)
	check(c.Playback.Increment > 0, "playback.increment %v must be positive", c.Playback.Increment)
	check(c.Playback.ResumeIncrement > 0, "playback.resume_increment %v must be positive", c.Playback.ResumeIncrement)
	check(c.Playback.BoundaryDelayMs >= 0, "playback.boundary_delay_ms %d is negative", c.Playback.BoundaryDelayMs)
	check(c.Playback.Step > 0, "playback.step %v must be positive", c.Playback.Step)
	check(c.View.FPS > 0 && c.View.FPS <= 240, "view.fps %d out of range", c.View.FPS)
	check(c.View.CameraDistance >= MinCameraDistance && c.View.CameraDistance <= MaxCameraDistance,
		"view.camera_distance %v outside [%v, %v]", c.View.CameraDistance, MinCameraDistance, MaxCameraDistance)

	if _, err := playback.ParseResumePolicy(c.Playback.ResumePolicy); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalid, err))
	}
	if _, err := label.ParseLocale(c.View.Locale); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalid, err))
	}
	return errors.Join(errs...)
}

// PlaybackOptions converts the playback section. Call Validate first.
func (c *Config) PlaybackOptions() playback.Options {
	opts := playback.DefaultOptions()
	opts.Increment = c.Playback.Increment
	opts.ResumeIncrement = c.Playback.ResumeIncrement
	opts.BoundaryDelay = time.Duration(c.Playback.BoundaryDelayMs) * time.Millisecond
	opts.StepSize = c.Playback.Step
	opts.Policy, _ = playback.ParseResumePolicy(c.Playback.ResumePolicy)
	return opts
}

func (c *Config) Locale() label.Locale {
	l, _ := label.ParseLocale(c.View.Locale)
	return l
}

// FrameInterval is the duration of one tick at the configured FPS.
func (c *Config) FrameInterval() time.Duration {
	if c.View.FPS <= 0 {
		return time.Second / DefaultFPS
	}
	return time.Second / time.Duration(c.View.FPS)
}

// TexturePaths lists texture files in slot order.
func (c *Config) TexturePaths() [4]string {
	return [4]string{c.Textures.Primary, c.Textures.Secondary, c.Textures.BladeA, c.Textures.BladeB}
}
