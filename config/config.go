// Package config loads wheel settings from an optional YAML file with
// WHEEL_-prefixed environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/prize-wheel/spin"
	"github.com/lixenwraith/prize-wheel/wheel"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "WHEEL_"

// BiasedPopupDelay is the pause between settle and popup for the biased variant
const BiasedPopupDelay = 500 * time.Millisecond

// SliceConfig binds a slice to its label and artwork
type SliceConfig struct {
	Label string `yaml:"label"`
	Image string `yaml:"image"`
	Color string `yaml:"color"`
}

// SpinConfig mirrors spin.Params in config units
type SpinConfig struct {
	Decay         float64 `yaml:"decay" env:"DECAY"`
	StopThreshold float64 `yaml:"stop_threshold" env:"STOP_THRESHOLD"`
	MinSpeed      float64 `yaml:"min_speed" env:"MIN_SPEED"`
	MaxSpeed      float64 `yaml:"max_speed" env:"MAX_SPEED"`
	MinTurns      int     `yaml:"min_turns" env:"MIN_TURNS"`
	MaxTurns      int     `yaml:"max_turns" env:"MAX_TURNS"`
}

// AudioConfig controls the sound manager
type AudioConfig struct {
	Enabled bool    `yaml:"enabled" env:"ENABLED"`
	Volume  float64 `yaml:"volume" env:"VOLUME"`
}

// LogConfig controls the rotating debug log
type LogConfig struct {
	Enabled    bool   `yaml:"enabled" env:"ENABLED"`
	Path       string `yaml:"path" env:"PATH"`
	Level      string `yaml:"level" env:"LEVEL"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"MAX_SIZE_MB"`
	MaxBackups int    `yaml:"max_backups" env:"MAX_BACKUPS"`
}

// Config is the full program configuration
type Config struct {
	Variant    string        `yaml:"variant" env:"VARIANT"`
	Policy     string        `yaml:"policy" env:"POLICY"`
	Bias       float64       `yaml:"bias" env:"BIAS"`
	BiasStep   float64       `yaml:"bias_step" env:"BIAS_STEP"`
	PopupDelay time.Duration `yaml:"popup_delay" env:"POPUP_DELAY"` // negative selects the variant default
	ImageWidth int           `yaml:"image_width" env:"IMAGE_WIDTH"` // cap on sprite width in columns, 0 for none
	Seed       uint64        `yaml:"seed" env:"SEED"`               // 0 seeds from entropy

	Slices []SliceConfig `yaml:"slices"`
	Spin   SpinConfig    `yaml:"spin" envPrefix:"SPIN_"`
	Audio  AudioConfig   `yaml:"audio" envPrefix:"AUDIO_"`
	Log    LogConfig     `yaml:"log" envPrefix:"LOG_"`

	baseDir string
}

// Default returns the stock biased wheel with the two stock prizes
func Default() *Config {
	p := spin.DefaultParams()
	return &Config{
		Variant:    wheel.VariantBiased.String(),
		Policy:     spin.PolicyPost.String(),
		Bias:       0,
		BiasStep:   0.05,
		PopupDelay: -1,
		ImageWidth: 24,
		Slices: []SliceConfig{
			{Label: "Mi", Image: "Mi.png", Color: "#FFD700"},
			{Label: "Bun", Image: "Bun.png", Color: "#FF6347"},
		},
		Spin: SpinConfig{
			Decay:         p.Decay,
			StopThreshold: p.StopThreshold,
			MinSpeed:      p.MinSpeed,
			MaxSpeed:      p.MaxSpeed,
			MinTurns:      p.MinTurns,
			MaxTurns:      p.MaxTurns,
		},
		Audio: AudioConfig{Enabled: true, Volume: 0.6},
		Log: LogConfig{
			Path:       filepath.Join("logs", "prize-wheel.log"),
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		baseDir: ".",
	}
}

// Load reads path over the defaults, applies environment overrides and validates
// A missing file is not an error
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
			cfg.baseDir = filepath.Dir(path)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerations, ranges and the slice table
func (c *Config) Validate() error {
	if _, ok := wheel.ParseVariant(c.Variant); !ok {
		return fmt.Errorf("unknown variant %q", c.Variant)
	}
	if _, ok := spin.ParsePolicy(c.Policy); !ok {
		return fmt.Errorf("unknown policy %q", c.Policy)
	}
	if c.Bias < -1 || c.Bias > 1 {
		return fmt.Errorf("bias %v outside [-1, 1]", c.Bias)
	}
	if c.BiasStep <= 0 || c.BiasStep > 1 {
		return fmt.Errorf("bias step %v outside (0, 1]", c.BiasStep)
	}
	if len(c.Slices) != wheel.SliceCount {
		return fmt.Errorf("expected %d slices, got %d", wheel.SliceCount, len(c.Slices))
	}
	for i, s := range c.Slices {
		if s.Label == "" {
			return fmt.Errorf("slice %d has no label", i)
		}
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio volume %v outside [0, 1]", c.Audio.Volume)
	}
	if err := c.SpinParams().Validate(); err != nil {
		return fmt.Errorf("spin: %w", err)
	}
	return nil
}

// WheelVariant returns the parsed variant, fixed if invalid
func (c *Config) WheelVariant() wheel.Variant {
	v, _ := wheel.ParseVariant(c.Variant)
	return v
}

// SpinParams converts the spin section into resolver parameters
func (c *Config) SpinParams() spin.Params {
	p := spin.DefaultParams()
	p.Decay = c.Spin.Decay
	p.StopThreshold = c.Spin.StopThreshold
	p.MinSpeed = c.Spin.MinSpeed
	p.MaxSpeed = c.Spin.MaxSpeed
	p.MinTurns = c.Spin.MinTurns
	p.MaxTurns = c.Spin.MaxTurns
	p.Policy, _ = spin.ParsePolicy(c.Policy)
	return p
}

// EffectivePopupDelay resolves a negative PopupDelay to the variant default
func (c *Config) EffectivePopupDelay() time.Duration {
	if c.PopupDelay >= 0 {
		return c.PopupDelay
	}
	if c.WheelVariant() == wheel.VariantBiased {
		return BiasedPopupDelay
	}
	return 0
}

// Labels returns slice labels in wheel order
func (c *Config) Labels() []string {
	out := make([]string, len(c.Slices))
	for i, s := range c.Slices {
		out[i] = s.Label
	}
	return out
}

// ImagePaths returns slice image paths resolved against the config file directory
// Slices without an image get an empty entry
func (c *Config) ImagePaths() []string {
	out := make([]string, len(c.Slices))
	for i, s := range c.Slices {
		switch {
		case s.Image == "":
		case filepath.IsAbs(s.Image):
			out[i] = s.Image
		default:
			out[i] = filepath.Join(c.baseDir, s.Image)
		}
	}
	return out
}
