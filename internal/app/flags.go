package app

import (
	"flag"
	"fmt"

	"github.com/broosa/ded/internal/config"
)

// Flags are the command line options shared by the commands. Set flags
// override the configuration file.
type Flags struct {
	Config   string
	Device   string
	Rate     float64
	Console  bool
	Demo     bool
	NoDevice bool
}

// Register the flags on fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "YAML configuration file")
	fs.StringVar(&f.Device, "device", "", "hidraw device node (default: search by vendor and product id)")
	fs.Float64Var(&f.Rate, "rate", 0, "update rate in Hz (default 10)")
	fs.BoolVar(&f.Console, "console", false, "mirror the display on the console")
	fs.BoolVar(&f.Demo, "demo", false, "show demo contents instead of the configured source")
	fs.BoolVar(&f.NoDevice, "nodevice", false, "don't open the device, only mirror")
}

// Load reads the configuration file, if any, applies the flags, then
// validates and normalizes the result.
func (f *Flags) Load() (*config.Config, error) {
	cfg := new(config.Config)
	if f.Config != "" {
		var err error
		if cfg, err = config.Load(f.Config); err != nil {
			return nil, err
		}
	}

	if f.Device != "" {
		cfg.Device.Path = f.Device
	}
	if f.Rate != 0 {
		cfg.Update.RateHz = f.Rate
	}
	if f.Console {
		cfg.Monitor.Console = true
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}
