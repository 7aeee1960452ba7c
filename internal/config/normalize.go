// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultVendorID  = 0x4098
	DefaultProductID = 0xbf06
	DefaultRateHz    = 10
	DefaultBlinkHz   = 1
	DefaultTimeoutMs = 500
	DefaultFontSize  = 12
	DefaultScale     = 4
	DefaultFBScale   = 2
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Device.VendorID == 0 && cfg.Device.ProductID == 0 {
		cfg.Device.VendorID = DefaultVendorID
		cfg.Device.ProductID = DefaultProductID
	}

	if cfg.Update.RateHz == 0 {
		cfg.Update.RateHz = DefaultRateHz
	}
	if cfg.Update.BlinkHz == 0 {
		cfg.Update.BlinkHz = DefaultBlinkHz
	}

	if cfg.Font.TrueType != "" && cfg.Font.Size == 0 {
		cfg.Font.Size = DefaultFontSize
	}

	if cfg.Source.Type == "" {
		cfg.Source.Type = SourceStatic
	}
	if cfg.Source.Type == SourceModbus && cfg.Source.Modbus.TimeoutMs == 0 {
		cfg.Source.Modbus.TimeoutMs = DefaultTimeoutMs
	}

	if cfg.Monitor.Mode == "" {
		cfg.Monitor.Mode = MonitorAuto
	}
	if cfg.Monitor.Window.Scale == 0 {
		cfg.Monitor.Window.Scale = DefaultScale
	}
	if cfg.Monitor.Framebuffer.Device != "" && cfg.Monitor.Framebuffer.Scale == 0 {
		cfg.Monitor.Framebuffer.Scale = DefaultFBScale
	}
}
