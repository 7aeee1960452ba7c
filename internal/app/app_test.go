package app

import (
	"context"
	"errors"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/font/gofont/gomono"
	"periph.io/x/conn/v3/physic"

	"github.com/broosa/ded"
	"github.com/broosa/ded/font"
	"github.com/broosa/ded/internal/config"
	"github.com/broosa/ded/telemetry"
)

var discard = log.New(io.Discard, "", 0)

func TestGlyphs(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		g, err := Glyphs(config.FontConfig{})
		if err != nil {
			t.Fatal(err)
		}
		if g != ded.DefaultGlyphTable() {
			t.Error("expected the default glyph table")
		}
	})

	t.Run("sheets", func(t *testing.T) {
		dir := t.TempDir()
		normal, inverted := font.Sheets()
		paths := []string{filepath.Join(dir, "normal.bmp"), filepath.Join(dir, "inverted.bmp")}
		for i, img := range []image.Image{normal, inverted} {
			f, err := os.Create(paths[i])
			if err != nil {
				t.Fatal(err)
			}
			if err = bmp.Encode(f, img); err != nil {
				t.Fatal(err)
			}
			f.Close()
		}

		g, err := Glyphs(config.FontConfig{Normal: paths[0], Inverted: paths[1]})
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range []byte("A1* ") {
			a, b := g.Resolve(c, false), ded.DefaultGlyphTable().Resolve(c, false)
			for row := 0; row < ded.GlyphHeight; row++ {
				for col := 0; col < ded.GlyphWidth; col++ {
					if a.IsPixelOn(row, col) != b.IsPixelOn(row, col) {
						t.Fatalf("expected %q loaded from files to match the built-in glyph", c)
					}
				}
			}
		}
	})

	t.Run("truetype", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mono.ttf")
		if err := os.WriteFile(path, gomono.TTF, 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Glyphs(config.FontConfig{TrueType: path, Size: 12}); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing")
		if _, err := Glyphs(config.FontConfig{Normal: missing, Inverted: missing}); err == nil {
			t.Error("expected an error for missing sheets")
		}
		if _, err := Glyphs(config.FontConfig{TrueType: missing}); err == nil {
			t.Error("expected an error for a missing TrueType font")
		}
	})
}

func TestRate(t *testing.T) {
	if r := Rate(10); r != 10*physic.Hertz {
		t.Errorf("expected %s, got %s", 10*physic.Hertz, r)
	}
	if r := Rate(0.5); r != 500*physic.MilliHertz {
		t.Errorf("expected %s, got %s", 500*physic.MilliHertz, r)
	}
}

func TestDemoLines(t *testing.T) {
	lines := DemoLines(time.Date(2024, 1, 1, 13, 5, 9, 0, time.UTC))
	if !strings.Contains(lines[2], "\x0213:05:09\x02") {
		t.Errorf("expected the clock in %q", lines[2])
	}
	if lines[2] == demoLines[2] || demoLines[2] != " VHF  10   \x0208:42:17\x02" {
		t.Error("expected DemoLines to leave the template unchanged")
	}
}

func TestApp(t *testing.T) {
	a, err := NewWithSource(config.Default(), DemoSource(), discard)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if a.Connected() {
		t.Error("expected no device")
	}
	if s := a.StatusLine(); s != "BMS: DISCONNECTED  DED: DISCONNECTED" {
		t.Errorf("unexpected status line %q", s)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for a.Screen.Version() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("expected Run to return nil on cancel, got %v", err)
	}

	state, version := a.Screen.Load()
	if version == 0 {
		t.Fatal("expected the screen to be updated")
	}
	if text := state.Text(); !strings.HasPrefix(text[0], "UHF  242.00") {
		t.Errorf("expected the demo contents, got %q", text[0])
	}
	if s := a.StatusLine(); !strings.HasPrefix(s, "BMS: CONNECTED  DED: DISCONNECTED  streaming") || !strings.Contains(s, "frames") {
		t.Errorf("expected loop stats in the status line, got %q", s)
	}
}

type countingSource struct {
	*telemetry.Static
	reads atomic.Int32
}

func (s *countingSource) IsLive() bool {
	s.reads.Add(1)
	return s.Static.IsLive()
}

func TestStatusLineSourceReads(t *testing.T) {
	src := &countingSource{Static: DemoSource()}
	a, err := NewWithSource(config.Default(), src, discard)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	for i := 0; i < 5; i++ {
		a.StatusLine()
	}
	if n := src.reads.Load(); n != 0 {
		t.Errorf("expected the status line to not read the source, got %d reads", n)
	}
}

// failConn accepts the reset packet and fails every later write.
type failConn struct {
	writes atomic.Int32
}

func (c *failConn) String() string { return "fail" }
func (c *failConn) Close() error   { return nil }

func (c *failConn) Write(b []byte) (int, error) {
	if c.writes.Add(1) > 1 {
		return 0, io.ErrClosedPipe
	}
	return len(b), nil
}

func TestStatusLineWriteErrors(t *testing.T) {
	a, err := NewWithSource(config.Default(), DemoSource(), discard)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if a.device, err = ded.Open(new(failConn)); err != nil {
		t.Fatal(err)
	}
	if s := a.StatusLine(); !strings.Contains(s, "DED: CONNECTED") {
		t.Errorf("expected an open device to be connected, got %q", s)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if r := a.runner.Load(); r != nil && r.Stats().WriteErrors > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("expected Run to return nil on cancel, got %v", err)
	}

	if s := a.StatusLine(); !strings.Contains(s, "DED: DISCONNECTED") || !strings.Contains(s, "errors") {
		t.Errorf("expected failing writes to show the device as disconnected, got %q", s)
	}
}

func TestNewStatic(t *testing.T) {
	cfg := config.Default()
	cfg.Source.Static.Lines = []string{"STPT 4"}
	a, err := New(cfg, discard)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if lines, _ := a.Source.Snapshot(); !strings.HasPrefix(lines[0], "STPT 4") {
		t.Errorf("expected the configured lines, got %q", lines[0])
	}
}

func TestNewErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Source.Type = config.SourceLua
	cfg.Source.Lua.Script = filepath.Join(t.TempDir(), "missing.lua")
	if _, err := New(cfg, discard); err == nil {
		t.Error("expected an error for a missing script")
	}

	cfg = config.Default()
	cfg.Device.Path = filepath.Join(t.TempDir(), "hidraw0")
	a, err := New(cfg, discard)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	var derr *ded.DeviceError
	if err := a.OpenDevice(); !errors.As(err, &derr) {
		t.Errorf("expected a *ded.DeviceError, got %v", err)
	}
}
