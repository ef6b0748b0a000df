package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

const (
	BackendOpenGL = "opengl"
	BackendWebGPU = "webgpu"
)

// ContextAttributes are the drawing surface creation attributes.
type ContextAttributes struct {
	Antialias             bool   `json:"antialias" yaml:"antialias"`
	Alpha                 bool   `json:"alpha" yaml:"alpha"`
	Depth                 bool   `json:"depth" yaml:"depth"`
	Stencil               bool   `json:"stencil" yaml:"stencil"`
	PremultipliedAlpha    bool   `json:"premultipliedAlpha" yaml:"premultipliedAlpha"`
	PreserveDrawingBuffer bool   `json:"preserveDrawingBuffer" yaml:"preserveDrawingBuffer"`
	PowerPreference       string `json:"powerPreference" yaml:"powerPreference"` // default, high-performance, low-power
}

type WindowConfig struct {
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
	Title  string `json:"title" yaml:"title"`

	// Paints the title bar with the clear color. Windows only.
	DarkTitleBar bool `json:"darkTitleBar" yaml:"darkTitleBar"`
}

// Config is read once at initialization.
type Config struct {
	Backend  string            `json:"backend" yaml:"backend"`
	LegacyGL bool              `json:"legacyGL" yaml:"legacyGL"`
	Context  ContextAttributes `json:"context" yaml:"context"`
	Window   WindowConfig      `json:"window" yaml:"window"`

	ClearColor [4]float32 `json:"clearColor" yaml:"clearColor"`

	LogLevel    string `json:"logLevel" yaml:"logLevel"`
	Development bool   `json:"development" yaml:"development"`

	// Async texture decoding
	TextureWorkers int `json:"textureWorkers" yaml:"textureWorkers"`
	MaxTextureSize int `json:"maxTextureSize" yaml:"maxTextureSize"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Backend: BackendOpenGL,
		Context: ContextAttributes{
			Antialias:       true,
			Alpha:           false,
			Depth:           true,
			Stencil:         false,
			PowerPreference: "high-performance",
		},
		Window: WindowConfig{
			Width:  1024,
			Height: 768,
			Title:  "iengine",
		},
		ClearColor:     [4]float32{0.1, 0.1, 0.1, 1.0},
		LogLevel:       "info",
		TextureWorkers: 4,
		MaxTextureSize: 4096,
	}
}

// Load reads a JSON or YAML file on top of the defaults. The format is
// picked from the file extension.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var err error

	switch c.Backend {
	case BackendOpenGL, BackendWebGPU:
	default:
		err = multierr.Append(err, fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height))
	}
	switch c.Context.PowerPreference {
	case "", "default", "high-performance", "low-power":
	default:
		err = multierr.Append(err, fmt.Errorf("%w: power preference %q", ErrInvalid, c.Context.PowerPreference))
	}
	if c.TextureWorkers < 1 {
		err = multierr.Append(err, fmt.Errorf("%w: textureWorkers must be at least 1", ErrInvalid))
	}
	if c.MaxTextureSize < 1 {
		err = multierr.Append(err, fmt.Errorf("%w: maxTextureSize must be positive", ErrInvalid))
	}
	for i, v := range c.ClearColor {
		if v < 0 || v > 1 {
			err = multierr.Append(err, fmt.Errorf("%w: clearColor[%d] out of range", ErrInvalid, i))
		}
	}

	return err
}
