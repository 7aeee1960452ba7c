// Package app builds the update pipeline from the configuration. It is shared
// by the commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/broosa/ded"
	"github.com/broosa/ded/font"
	"github.com/broosa/ded/internal/config"
	"github.com/broosa/ded/telemetry"
	"github.com/broosa/ded/telemetry/lua"
	"github.com/broosa/ded/telemetry/modbus"
)

// Errors
var (
	ErrPinNotFound = errors.New("app: status pin not found")
)

// Demo contents, the clock on the third row is updated by Demo.
var (
	demoLines = []string{
		"UHF  242.00  STPT \x01  8",
		"",
		" VHF  10   \x0208:42:17\x02",
		"",
		"M1 3 C 6   MAN  T 75X",
	}
	demoInverted = []string{
		"",
		"",
		"           XXXXXXXXXX",
		"",
		"",
	}
)

// DemoSource returns a static source with demo contents.
func DemoSource() *telemetry.Static {
	return telemetry.NewStatic(demoLines, demoInverted)
}

// Demo updates the clock of a demo source every second until ctx is done.
func Demo(ctx context.Context, s *telemetry.Static) {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		s.SetLines(DemoLines(time.Now()), demoInverted)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// DemoLines returns the demo contents showing the time of day t.
func DemoLines(t time.Time) []string {
	lines := append([]string(nil), demoLines...)
	lines[2] = strings.Replace(lines[2], "08:42:17", t.Format("15:04:05"), 1)
	return lines
}

// App is a configured update pipeline.
type App struct {
	Config *config.Config
	Logger *log.Logger
	Screen *ded.Screen
	Glyphs *ded.GlyphTable
	Source telemetry.Source
	Status gpio.PinOut

	device  *ded.Device
	runner  atomic.Pointer[ded.Runner]
	closers []io.Closer
}

// New builds the source, font and status pin. The config must be validated
// and normalized.
func New(cfg *config.Config, logger *log.Logger) (*App, error) {
	return NewWithSource(cfg, nil, logger)
}

// NewWithSource is like New with a source that replaces the configured one.
func NewWithSource(cfg *config.Config, src telemetry.Source, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.Default()
	}
	a := &App{
		Config: cfg,
		Logger: logger,
		Screen: new(ded.Screen),
	}

	var err error
	if a.Glyphs, err = Glyphs(cfg.Font); err != nil {
		return nil, err
	}
	a.Source = src
	if a.Source == nil {
		if a.Source, err = a.openSource(cfg.Source); err != nil {
			return nil, err
		}
	}
	if cfg.Update.StatusPin != "" {
		if a.Status, err = StatusPin(cfg.Update.StatusPin); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

// Glyphs builds the glyph table of the configured font.
func Glyphs(cfg config.FontConfig) (*ded.GlyphTable, error) {
	switch {
	case cfg.Normal != "":
		normal, inverted, err := font.LoadSheets(cfg.Normal, cfg.Inverted)
		if err != nil {
			return nil, err
		}
		return ded.NewGlyphTable(normal, inverted)

	case cfg.TrueType != "":
		data, err := os.ReadFile(cfg.TrueType)
		if err != nil {
			return nil, err
		}
		normal, inverted, err := font.TrueType(data, cfg.Size)
		if err != nil {
			return nil, err
		}
		return ded.NewGlyphTable(normal, inverted)

	default:
		return ded.DefaultGlyphTable(), nil
	}
}

func (a *App) openSource(cfg config.SourceConfig) (telemetry.Source, error) {
	switch cfg.Type {
	case config.SourceModbus:
		s, err := modbus.Dial(modbus.Config{
			Endpoint: cfg.Modbus.Endpoint,
			UnitID:   cfg.Modbus.UnitID,
			Address:  cfg.Modbus.Address,
			Timeout:  time.Duration(cfg.Modbus.TimeoutMs) * time.Millisecond,
			Logger:   a.Logger,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		return s, nil

	case config.SourceLua:
		s, err := lua.NewFromFile(cfg.Lua.Script, a.Logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		return s, nil

	default:
		return telemetry.NewStatic(cfg.Static.Lines, cfg.Static.Inverted), nil
	}
}

// StatusPin initializes the host drivers and looks up a GPIO pin by name.
func StatusPin(name string) (gpio.PinOut, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("app: error initializing host drivers: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPinNotFound, name)
	}
	return p, nil
}

// Rate converts a rate in Hz.
func Rate(hz float64) physic.Frequency {
	return physic.Frequency(hz * float64(physic.Hertz))
}

// RunnerConfig returns the update loop configuration.
func (a *App) RunnerConfig() *ded.RunnerConfig {
	return &ded.RunnerConfig{
		Rate:          Rate(a.Config.Update.RateHz),
		BlinkRate:     Rate(a.Config.Update.BlinkHz),
		SkipUnchanged: a.Config.Update.SkipUnchanged,
		Glyphs:        a.Glyphs,
		Screen:        a.Screen,
		Status:        a.Status,
		Logger:        a.Logger,
		OnStateChange: func(from, to ded.RunState) {
			a.Logger.Printf("%s -> %s", from, to)
		},
	}
}

// OpenDevice opens the configured HID device.
func (a *App) OpenDevice() error {
	c, err := ded.OpenHID(&ded.HIDConfig{
		Path:      a.Config.Device.Path,
		VendorID:  a.Config.Device.VendorID,
		ProductID: a.Config.Device.ProductID,
	})
	if err != nil {
		return err
	}
	if a.device, err = ded.OpenWithLogger(c, a.Logger); err != nil {
		c.Close()
		return err
	}
	a.Logger.Printf("opened %s", a.device)
	return nil
}

// Connected reports if a device is open.
func (a *App) Connected() bool {
	return a.device != nil
}

// Run the update loop until ctx is done. Without an open device only the
// screen is updated.
func (a *App) Run(ctx context.Context) error {
	var dev ded.Updater = mirror{}
	if a.device != nil {
		dev = a.device
	}
	r := ded.NewRunner(a.Source, dev, a.RunnerConfig())
	a.runner.Store(r)
	err := r.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// StatusLine summarizes the source, device and update loop. It only reads
// what the update loop recorded and never polls the source.
func (a *App) StatusLine() string {
	var stats ded.Stats
	r := a.runner.Load()
	source, device := "DISCONNECTED", "DISCONNECTED"
	if r != nil {
		stats = r.Stats()
		if r.State() == ded.Streaming {
			source = "CONNECTED"
		}
	}
	if a.device != nil && !stats.Failing {
		device = "CONNECTED"
	}

	line := fmt.Sprintf("BMS: %s  DED: %s", source, device)
	if r != nil {
		line += fmt.Sprintf("  %s  %d frames", r.State(), stats.Frames)
		if stats.WriteErrors > 0 {
			line += fmt.Sprintf("  %d errors", stats.WriteErrors)
		}
	}
	return line
}

// Close the device and source.
func (a *App) Close() error {
	var errs []error
	if a.device != nil {
		errs = append(errs, a.device.Close())
	}
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// mirror only feeds the screen.
type mirror struct{}

func (mirror) Update(ded.PixelSource) error { return nil }
func (mirror) Clear() error                  { return nil }
