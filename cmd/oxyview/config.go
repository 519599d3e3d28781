package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrConfigFormat is returned for a config file whose extension is neither TOML nor YAML.
var ErrConfigFormat = errors.New("unsupported config format")

// Config is the viewer configuration, read from a .toml, .yaml or .yml file.
type Config struct {
	Window  WindowConfig `toml:"window" yaml:"window"`
	Shaders ShaderConfig `toml:"shaders" yaml:"shaders"`
	Scene   SceneConfig  `toml:"scene" yaml:"scene"`
	Engine  EngineConfig `toml:"engine" yaml:"engine"`
}

// WindowConfig selects the window size and context.
type WindowConfig struct {
	Title   string `toml:"title" yaml:"title"`
	Width   int    `toml:"width" yaml:"width"`
	Height  int    `toml:"height" yaml:"height"`
	Profile string `toml:"profile" yaml:"profile"` // "desktop" or "embedded"
	VSync   *bool  `toml:"vsync" yaml:"vsync"`
}

// ShaderPair names a vertex and fragment source file. Empty paths use the built-in sources.
type ShaderPair struct {
	Vertex   string `toml:"vertex" yaml:"vertex"`
	Fragment string `toml:"fragment" yaml:"fragment"`
}

// ShaderConfig holds the programs the viewer links.
type ShaderConfig struct {
	Textured ShaderPair `toml:"textured" yaml:"textured"`
	Flat     ShaderPair `toml:"flat" yaml:"flat"`
}

// SceneConfig describes what is drawn.
type SceneConfig struct {
	Textures   []string   `toml:"textures" yaml:"textures"`
	ClearColor [4]float32 `toml:"clear_color" yaml:"clear_color"`
	FlatColor  [4]float32 `toml:"flat_color" yaml:"flat_color"`
	Spin       [3]float32 `toml:"spin" yaml:"spin"` // radians per second around X, Y and Z
	Gizmo      *bool      `toml:"gizmo" yaml:"gizmo"`
}

// EngineConfig tunes the main loop.
type EngineConfig struct {
	TickRate    float64 `toml:"tick_rate" yaml:"tick_rate"`
	FrameLimit  float64 `toml:"frame_limit" yaml:"frame_limit"`
	Profiling   bool    `toml:"profiling" yaml:"profiling"`
	LoadWorkers int     `toml:"load_workers" yaml:"load_workers"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads a config file, choosing the decoder by extension, and fills unset fields
// with defaults.
//
// Parameters:
//   - path: the config file
//
// Returns:
//   - Config: the parsed configuration
//   - error: a read, decode or validation error
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := ParseConfig(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes config bytes in the format named by ext (".toml", ".yaml" or ".yml").
//
// Parameters:
//   - data: the file contents
//   - ext: the file extension including the dot
//
// Returns:
//   - Config: the parsed configuration
//   - error: ErrConfigFormat, a decode error or a validation error
func ParseConfig(data []byte, ext string) (Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode YAML: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrConfigFormat, ext)
	}
	cfg.applyDefaults()
	if _, err := cfg.Window.BackendProfile(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.Window.Title = common.Coalesce(c.Window.Title, "oxyview")
	c.Window.Width = common.Coalesce(c.Window.Width, 1280)
	c.Window.Height = common.Coalesce(c.Window.Height, 720)
	c.Window.Profile = common.Coalesce(strings.ToLower(c.Window.Profile), "desktop")
	if c.Window.VSync == nil {
		on := true
		c.Window.VSync = &on
	}
	c.Scene.ClearColor = common.Coalesce(c.Scene.ClearColor, [4]float32{0.1, 0.1, 0.12, 1})
	c.Scene.FlatColor = common.Coalesce(c.Scene.FlatColor, [4]float32{0.8, 0.8, 0.8, 1})
	if c.Scene.Gizmo == nil {
		on := true
		c.Scene.Gizmo = &on
	}
	c.Engine.TickRate = common.Coalesce(c.Engine.TickRate, 60)
}

// BackendProfile maps the profile name onto a backend profile.
//
// Returns:
//   - backend.Profile: the profile
//   - error: an error for an unknown name
func (w WindowConfig) BackendProfile() (backend.Profile, error) {
	switch w.Profile {
	case "desktop":
		return backend.ProfileDesktop, nil
	case "embedded":
		return backend.ProfileEmbedded, nil
	default:
		return 0, fmt.Errorf("unknown profile %q", w.Profile)
	}
}
