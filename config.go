package floor

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/floor/layer"
)

// ConfigEnv names the environment variable LoadConfig falls back to.
const ConfigEnv = "FLOOR_CONFIG"

// ErrConfig wraps every configuration failure.
var ErrConfig = errors.New("floor: invalid config")

// Config is the optional YAML configuration of a renderer.
//
//	dynamic: false
//	backend: native
//	layers:
//	  - {name: water, liquid: true}
//	  - {name: normal}
//	  - {name: walls}
type Config struct {
	Dynamic bool          `yaml:"dynamic"`
	Backend string        `yaml:"backend"`
	Layers  []LayerConfig `yaml:"layers"`
}

// LayerConfig describes one cache layer. Blend is a preset name accepted
// by layer.ParseBlend.
type LayerConfig struct {
	Name   string `yaml:"name"`
	Liquid bool   `yaml:"liquid"`
	Blend  string `yaml:"blend"`
}

// LoadConfig reads a YAML config file. An empty path falls back to the
// FLOOR_CONFIG environment variable; when that is unset too, the default
// config is returned.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ConfigEnv)
		if path == "" {
			return &Config{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("floor: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates YAML config data.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if _, err := cfg.Registry(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Registry builds the layer registry described by the config. A config
// without layers yields layer.Default().
func (c *Config) Registry() (*layer.Registry, error) {
	if len(c.Layers) == 0 {
		return layer.Default(), nil
	}
	defs := make([]layer.Def, 0, len(c.Layers))
	for _, lc := range c.Layers {
		blend, err := layer.ParseBlend(lc.Blend)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %q: %w", ErrConfig, lc.Name, err)
		}
		defs = append(defs, layer.Def{Name: lc.Name, Liquid: lc.Liquid, Blend: blend})
	}
	r, err := layer.New(defs...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return r, nil
}

// Options converts the config into renderer options.
func (c *Config) Options() ([]Option, error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	return []Option{WithDynamic(c.Dynamic), WithRegistry(reg)}, nil
}
