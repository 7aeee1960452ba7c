package lua

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/broosa/ded/telemetry"
)

var discard = log.New(io.Discard, "", 0)

const testScript = `
running = true
count = 0

function live()
	return running
end

function snapshot()
	count = count + 1
	return {
		pad("UHF  242.00  STPT " .. count),
		pad(""),
		pad("  VHF  10"),
		pad(""),
		pad("M1 3 C 6"),
	}, {
		"", "", pad("  XXXXXXX"), "", "",
	}
end
`

func TestSource(t *testing.T) {
	s, err := NewFromString("test", testScript, discard)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if !s.IsLive() {
		t.Fatal("expected the source to be live")
	}

	lines, inverted := s.Snapshot()
	if expected := telemetry.Pad("UHF  242.00  STPT 1"); lines[0] != expected {
		t.Errorf("expected line 0 %q, got %q", expected, lines[0])
	}
	if expected := telemetry.Pad("  XXXXXXX"); inverted[2] != expected {
		t.Errorf("expected inverted line 2 %q, got %q", expected, inverted[2])
	}
	if inverted[0] != "" {
		t.Errorf("expected inverted line 0 to be empty, got %q", inverted[0])
	}

	lines, _ = s.Snapshot()
	if expected := telemetry.Pad("UHF  242.00  STPT 2"); lines[0] != expected {
		t.Errorf("expected the script state to persist, got %q", lines[0])
	}

	if err := s.state.DoString("running = false"); err != nil {
		t.Fatal(err)
	}
	if s.IsLive() {
		t.Error("expected the source to not be live")
	}
}

func TestSourceErrors(t *testing.T) {
	s, err := NewFromString("broken", `
function live() error("no data") end
function snapshot() return nil end
`, discard)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if s.IsLive() {
		t.Error("expected a failing live() to not be live")
	}
	lines, inverted := s.Snapshot()
	for row := 0; row < telemetry.Rows; row++ {
		if lines[row] != "" || inverted[row] != "" {
			t.Errorf("expected row %d to be empty, got %q/%q", row, lines[row], inverted[row])
		}
	}
}

func TestNewFromString(t *testing.T) {
	tests := []struct {
		Name string
		Code string
	}{
		{"syntax", "function live("},
		{"no live", "function snapshot() return {}, {} end"},
		{"no snapshot", "function live() return true end"},
	}
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			if _, err := NewFromString(test.Name, test.Code, discard); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ded.lua")
	if err := os.WriteFile(path, []byte(testScript), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewFromFile(path, discard)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if s.String() != "Lua "+path {
		t.Errorf("expected name %q, got %q", "Lua "+path, s.String())
	}

	if _, err := NewFromFile(filepath.Join(t.TempDir(), "missing.lua"), discard); err == nil {
		t.Error("expected an error for a missing file")
	}
}
