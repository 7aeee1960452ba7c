// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Update  UpdateConfig  `yaml:"update"`
	Font    FontConfig    `yaml:"font"`
	Source  SourceConfig  `yaml:"source"`
	Monitor MonitorConfig `yaml:"monitor"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	// Path of the hidraw node; empty searches by vendor/product id
	Path      string `yaml:"path"`
	VendorID  uint16 `yaml:"vendor_id"`
	ProductID uint16 `yaml:"product_id"`
}

// ---- UPDATE LOOP ----

type UpdateConfig struct {
	RateHz        float64 `yaml:"rate_hz"`
	BlinkHz       float64 `yaml:"blink_hz"`
	SkipUnchanged bool    `yaml:"skip_unchanged"`

	// GPIO pin name driven high while streaming (optional)
	StatusPin string `yaml:"status_pin"`
}

// ---- FONT ----

type FontConfig struct {
	// Font sheet images (BMP or PNG), both or neither
	Normal   string `yaml:"normal"`
	Inverted string `yaml:"inverted"`

	// TrueType font rasterized into sheets
	TrueType string  `yaml:"truetype"`
	Size     float64 `yaml:"size"`
}

// ---- SOURCE ----

const (
	SourceStatic = "static"
	SourceModbus = "modbus"
	SourceLua    = "lua"
)

type SourceConfig struct {
	Type   string       `yaml:"type"`
	Static StaticConfig `yaml:"static"`
	Modbus ModbusConfig `yaml:"modbus"`
	Lua    LuaConfig    `yaml:"lua"`
}

type StaticConfig struct {
	Lines    []string `yaml:"lines"`
	Inverted []string `yaml:"inverted"`
}

type ModbusConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	Address   uint16 `yaml:"address"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type LuaConfig struct {
	Script string `yaml:"script"`
}

// ---- MONITOR ----

const (
	MonitorAuto   = "auto"
	MonitorText   = "text"
	MonitorPixels = "pixels"
)

type MonitorConfig struct {
	Console     bool              `yaml:"console"`
	Mode        string            `yaml:"mode"`
	Window      WindowConfig      `yaml:"window"`
	Framebuffer FramebufferConfig `yaml:"framebuffer"`
}

type WindowConfig struct {
	Scale int `yaml:"scale"`
}

// Linux fbdev mirror (optional)
type FramebufferConfig struct {
	Device string `yaml:"device"`
	Scale  int    `yaml:"scale"`
}

// Load reads a YAML configuration file. Unknown keys are errors.
// The result is neither validated nor normalized.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := new(Config)
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the normalized configuration used without a config file:
// a static source showing nothing, on the first matching device.
func Default() *Config {
	cfg := new(Config)
	Normalize(cfg)
	return cfg
}
