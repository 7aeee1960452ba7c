// internal/config/validate.go
package config

import (
	"fmt"
)

const (
	maxRateHz  = 100
	maxBlinkHz = 10
	maxLines   = 5
	lineWidth  = 24
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	// ------------------------------------------------------------
	// UPDATE LOOP
	// ------------------------------------------------------------

	if cfg.Update.RateHz < 0 || cfg.Update.RateHz > maxRateHz {
		return fmt.Errorf("update: rate_hz must be between 0 and %d, got %g", maxRateHz, cfg.Update.RateHz)
	}
	if cfg.Update.BlinkHz < 0 || cfg.Update.BlinkHz > maxBlinkHz {
		return fmt.Errorf("update: blink_hz must be between 0 and %d, got %g", maxBlinkHz, cfg.Update.BlinkHz)
	}

	// ------------------------------------------------------------
	// FONT
	// ------------------------------------------------------------

	f := cfg.Font
	if (f.Normal == "") != (f.Inverted == "") {
		return fmt.Errorf("font: normal and inverted sheets must be set together")
	}
	if f.TrueType != "" && f.Normal != "" {
		return fmt.Errorf("font: truetype and sheets are mutually exclusive")
	}
	if f.Size < 0 {
		return fmt.Errorf("font: size must not be negative, got %g", f.Size)
	}

	// ------------------------------------------------------------
	// SOURCE
	// ------------------------------------------------------------

	switch cfg.Source.Type {
	case "", SourceStatic:
		s := cfg.Source.Static
		if len(s.Lines) > maxLines || len(s.Inverted) > maxLines {
			return fmt.Errorf("source.static: at most %d lines", maxLines)
		}
		for _, group := range [][]string{s.Lines, s.Inverted} {
			for i, line := range group {
				if err := checkLine(line); err != nil {
					return fmt.Errorf("source.static: line %d: %w", i+1, err)
				}
			}
		}

	case SourceModbus:
		m := cfg.Source.Modbus
		if m.Endpoint == "" {
			return fmt.Errorf("source.modbus: endpoint required")
		}
		if m.TimeoutMs < 0 {
			return fmt.Errorf("source.modbus: timeout_ms must not be negative")
		}

	case SourceLua:
		if cfg.Source.Lua.Script == "" {
			return fmt.Errorf("source.lua: script required")
		}

	default:
		return fmt.Errorf("source: unknown type %q", cfg.Source.Type)
	}

	// ------------------------------------------------------------
	// MONITOR
	// ------------------------------------------------------------

	switch cfg.Monitor.Mode {
	case "", MonitorAuto, MonitorText, MonitorPixels:
	default:
		return fmt.Errorf("monitor: unknown mode %q", cfg.Monitor.Mode)
	}
	if cfg.Monitor.Window.Scale < 0 {
		return fmt.Errorf("monitor.window: scale must not be negative")
	}
	if cfg.Monitor.Framebuffer.Scale < 0 {
		return fmt.Errorf("monitor.framebuffer: scale must not be negative")
	}

	return nil
}

// checkLine accepts ASCII lines that fit the display.
func checkLine(line string) error {
	if len(line) > lineWidth {
		return fmt.Errorf("longer than %d characters", lineWidth)
	}
	for i := 0; i < len(line); i++ {
		if line[i] > 0x7F {
			return fmt.Errorf("must contain ASCII characters only")
		}
	}
	return nil
}
