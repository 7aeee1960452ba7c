// Package lua implements a telemetry source scripted in Lua.
//
// The script defines two global functions:
//
//	function live()      -- returns true while there is data to show
//	function snapshot()  -- returns two tables of five strings: lines, inverted
//
// The global pad(s) pads or truncates a string to the width of a row.
package lua

import (
	"fmt"
	"log"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/broosa/ded/telemetry"
)

// Source runs a Lua script. Calls into the interpreter are serialized.
type Source struct {
	mu     sync.Mutex
	name   string
	state  *lua.LState
	logger *log.Logger
	failed bool
}

// NewFromString loads a script from source code.
func NewFromString(name, code string, logger *log.Logger) (*Source, error) {
	s := newSource(name, logger)
	if err := s.state.DoString(code); err != nil {
		s.state.Close()
		return nil, fmt.Errorf("lua: error loading %s: %w", name, err)
	}
	if err := s.check(); err != nil {
		s.state.Close()
		return nil, err
	}
	return s, nil
}

// NewFromFile loads a script file.
func NewFromFile(path string, logger *log.Logger) (*Source, error) {
	s := newSource(path, logger)
	if err := s.state.DoFile(path); err != nil {
		s.state.Close()
		return nil, fmt.Errorf("lua: error loading %s: %w", path, err)
	}
	if err := s.check(); err != nil {
		s.state.Close()
		return nil, err
	}
	return s, nil
}

func newSource(name string, logger *log.Logger) *Source {
	if logger == nil {
		logger = log.Default()
	}
	L := lua.NewState()
	L.SetGlobal("pad", L.NewFunction(luaPad))
	return &Source{
		name:   name,
		state:  L,
		logger: logger,
	}
}

func luaPad(L *lua.LState) int {
	L.Push(lua.LString(telemetry.Pad(L.CheckString(1))))
	return 1
}

func (s *Source) check() error {
	for _, name := range []string{"live", "snapshot"} {
		if fn := s.state.GetGlobal(name); fn.Type() != lua.LTFunction {
			return fmt.Errorf("lua: %s does not define function %s()", s.name, name)
		}
	}
	return nil
}

func (s *Source) String() string {
	return "Lua " + s.name
}

// Close the interpreter.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Close()
	return nil
}

// IsLive calls live(). Script errors count as not live.
func (s *Source) IsLive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rets, err := s.call("live", 1)
	if err != nil {
		return false
	}
	return lua.LVAsBool(rets[0])
}

// Snapshot calls snapshot(). Script errors return blank lines.
func (s *Source) Snapshot() (lines, inverted [telemetry.Rows]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rets, err := s.call("snapshot", 2)
	if err != nil {
		return telemetry.Blank(), telemetry.Blank()
	}
	return toLines(rets[0]), toLines(rets[1])
}

func (s *Source) call(name string, nret int) ([]lua.LValue, error) {
	L := s.state
	err := L.CallByParam(lua.P{
		Fn:      L.GetGlobal(name),
		NRet:    nret,
		Protect: true,
	})
	if err != nil {
		if !s.failed {
			s.logger.Printf("lua: %s: error calling %s(): %v", s.name, name, err)
		}
		s.failed = true
		return nil, err
	}
	s.failed = false

	rets := make([]lua.LValue, nret)
	for i := range rets {
		rets[i] = L.Get(i - nret)
	}
	L.Pop(nret)
	return rets, nil
}

// toLines converts a Lua table of strings. Missing or non string entries
// are left empty, which the display shows as a blank row.
func toLines(v lua.LValue) (lines [telemetry.Rows]string) {
	t, ok := v.(*lua.LTable)
	if !ok {
		return
	}
	for i := range lines {
		if s, ok := t.RawGetInt(i + 1).(lua.LString); ok {
			lines[i] = string(s)
		}
	}
	return
}

// Interface checks.
var (
	_ telemetry.Source = (*Source)(nil)
)
