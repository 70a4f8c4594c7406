// Package config handles loading and saving gantt configuration.
//
// Configuration follows the XDG Base Directory specification:
// ~/.config/gantt/config.yaml unless XDG_CONFIG_HOME is set.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/easty4690-png/ab-agri-timeline/pkg/layout"

	"gopkg.in/yaml.v3"
)

const appName = "gantt"

// RenderConfig mirrors layout.RenderConfig in YAML form. Pointer fields
// distinguish "not set" from false so defaults survive partial files.
type RenderConfig struct {
	Title                   string  `yaml:"title,omitempty"`
	ZoomFactor              float64 `yaml:"zoom_factor,omitempty"`
	MarkerSize              float64 `yaml:"marker_size,omitempty"`
	LabelOffsetScale        float64 `yaml:"label_offset_scale"`
	SuppressDuplicateLabels *bool   `yaml:"suppress_duplicate_labels,omitempty"`
	ColorUnknownSymbols     bool    `yaml:"color_unknown_symbols,omitempty"`
}

// ExportConfig holds output resolution settings.
type ExportConfig struct {
	PNGDPI        float64 `yaml:"png_dpi,omitempty"`
	PreviewDPI    float64 `yaml:"preview_dpi,omitempty"`
	SlideMarginIn float64 `yaml:"slide_margin_in,omitempty"`
}

// UIConfig holds the editor slider bounds.
type UIConfig struct {
	ZoomMin   float64 `yaml:"zoom_min,omitempty"`
	ZoomMax   float64 `yaml:"zoom_max,omitempty"`
	MarkerMin float64 `yaml:"marker_min,omitempty"`
	MarkerMax float64 `yaml:"marker_max,omitempty"`
}

// Config is the top-level configuration for gantt.
type Config struct {
	Render RenderConfig `yaml:"render,omitempty"`
	Export ExportConfig `yaml:"export,omitempty"`
	UI     UIConfig     `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	rc := layout.DefaultRenderConfig()
	suppress := rc.SuppressDuplicateLabels
	return Config{
		Render: RenderConfig{
			Title:                   rc.Title,
			ZoomFactor:              rc.ZoomFactor,
			MarkerSize:              rc.MarkerSize,
			LabelOffsetScale:        rc.LabelOffsetScale,
			SuppressDuplicateLabels: &suppress,
		},
		Export: ExportConfig{
			PNGDPI:        300,
			PreviewDPI:    100,
			SlideMarginIn: 0.3,
		},
		UI: UIConfig{
			ZoomMin:   0.5,
			ZoomMax:   2.0,
			MarkerMin: 50,
			MarkerMax: 150,
		},
	}
}

// ConfigDir returns the XDG config directory for gantt.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. Values missing from the file
// keep their defaults; out-of-range values are clamped by Normalize.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	cfg.Normalize()
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Normalize replaces zero or inverted bounds with defaults and clamps the
// render values into the UI slider ranges.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.UI.ZoomMin <= 0 || c.UI.ZoomMax < c.UI.ZoomMin {
		c.UI.ZoomMin, c.UI.ZoomMax = def.UI.ZoomMin, def.UI.ZoomMax
	}
	if c.UI.MarkerMin <= 0 || c.UI.MarkerMax < c.UI.MarkerMin {
		c.UI.MarkerMin, c.UI.MarkerMax = def.UI.MarkerMin, def.UI.MarkerMax
	}
	if c.Export.PNGDPI <= 0 {
		c.Export.PNGDPI = def.Export.PNGDPI
	}
	if c.Export.PreviewDPI <= 0 {
		c.Export.PreviewDPI = def.Export.PreviewDPI
	}
	if c.Export.SlideMarginIn < 0 {
		c.Export.SlideMarginIn = def.Export.SlideMarginIn
	}

	if c.Render.ZoomFactor <= 0 {
		c.Render.ZoomFactor = def.Render.ZoomFactor
	}
	if c.Render.MarkerSize <= 0 {
		c.Render.MarkerSize = def.Render.MarkerSize
	}
	c.Render.ZoomFactor = clamp(c.Render.ZoomFactor, c.UI.ZoomMin, c.UI.ZoomMax)
	c.Render.MarkerSize = clamp(c.Render.MarkerSize, c.UI.MarkerMin, c.UI.MarkerMax)
	c.Render.LabelOffsetScale = clamp(c.Render.LabelOffsetScale, 0, 1)
	if c.Render.SuppressDuplicateLabels == nil {
		c.Render.SuppressDuplicateLabels = def.Render.SuppressDuplicateLabels
	}
}

// ToRenderConfig converts the render section to the layout type.
func (c Config) ToRenderConfig() layout.RenderConfig {
	rc := layout.DefaultRenderConfig()
	if strings.TrimSpace(c.Render.Title) != "" {
		rc.Title = c.Render.Title
	}
	if c.Render.ZoomFactor > 0 {
		rc.ZoomFactor = c.Render.ZoomFactor
	}
	if c.Render.MarkerSize > 0 {
		rc.MarkerSize = c.Render.MarkerSize
	}
	rc.LabelOffsetScale = c.Render.LabelOffsetScale
	if c.Render.SuppressDuplicateLabels != nil {
		rc.SuppressDuplicateLabels = *c.Render.SuppressDuplicateLabels
	}
	rc.ColorUnknownSymbols = c.Render.ColorUnknownSymbols
	return rc
}

// SetRender stores rc back into the render section, e.g. after the editor
// sliders moved.
func (c *Config) SetRender(rc layout.RenderConfig) {
	suppress := rc.SuppressDuplicateLabels
	c.Render = RenderConfig{
		Title:                   rc.Title,
		ZoomFactor:              rc.ZoomFactor,
		MarkerSize:              rc.MarkerSize,
		LabelOffsetScale:        rc.LabelOffsetScale,
		SuppressDuplicateLabels: &suppress,
		ColorUnknownSymbols:     rc.ColorUnknownSymbols,
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
