// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ded.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
device:
  path: /dev/hidraw3
update:
  rate_hz: 20
  skip_unchanged: true
  status_pin: GPIO17
source:
  type: modbus
  modbus:
    endpoint: 127.0.0.1:5020
    unit_id: 2
    address: 100
monitor:
  console: true
  mode: text
  framebuffer:
    device: /dev/fb1
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Normalize(cfg)

	if cfg.Device.Path != "/dev/hidraw3" {
		t.Errorf("expected device path /dev/hidraw3, got %q", cfg.Device.Path)
	}
	if cfg.Device.VendorID != DefaultVendorID {
		t.Errorf("expected vendor id %#x, got %#x", DefaultVendorID, cfg.Device.VendorID)
	}
	if cfg.Update.RateHz != 20 || cfg.Update.BlinkHz != DefaultBlinkHz || !cfg.Update.SkipUnchanged {
		t.Errorf("unexpected update config %+v", cfg.Update)
	}
	if cfg.Update.StatusPin != "GPIO17" {
		t.Errorf("expected status pin GPIO17, got %q", cfg.Update.StatusPin)
	}
	m := cfg.Source.Modbus
	if m.Endpoint != "127.0.0.1:5020" || m.UnitID != 2 || m.Address != 100 || m.TimeoutMs != DefaultTimeoutMs {
		t.Errorf("unexpected modbus config %+v", m)
	}
	if !cfg.Monitor.Console || cfg.Monitor.Mode != MonitorText {
		t.Errorf("unexpected monitor config %+v", cfg.Monitor)
	}
	if fb := cfg.Monitor.Framebuffer; fb.Device != "/dev/fb1" || fb.Scale != DefaultFBScale {
		t.Errorf("unexpected framebuffer config %+v", fb)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
	if _, err := Load(writeConfig(t, "update:\n  rate: 10\n")); err == nil {
		t.Error("expected an error for an unknown key")
	}
	if _, err := Load(writeConfig(t, "update: [")); err == nil {
		t.Error("expected an error for invalid YAML")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source.Type != SourceStatic {
		t.Errorf("expected source %q, got %q", SourceStatic, cfg.Source.Type)
	}
	if cfg.Update.RateHz != DefaultRateHz || cfg.Update.BlinkHz != DefaultBlinkHz {
		t.Errorf("unexpected update config %+v", cfg.Update)
	}
	if cfg.Monitor.Mode != MonitorAuto || cfg.Monitor.Window.Scale != DefaultScale {
		t.Errorf("unexpected monitor config %+v", cfg.Monitor)
	}
	if cfg.Font.Size != 0 {
		t.Errorf("expected no font size without a TrueType font, got %g", cfg.Font.Size)
	}
}

func TestNormalizeFontSize(t *testing.T) {
	cfg := &Config{Font: FontConfig{TrueType: "mono.ttf"}}
	Normalize(cfg)
	if cfg.Font.Size != DefaultFontSize {
		t.Errorf("expected font size %d, got %g", DefaultFontSize, cfg.Font.Size)
	}
	Normalize(nil)
}
