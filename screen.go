package ded

import "sync/atomic"

// Screen holds the current display state for passive readers such as
// mirrors. The update loop replaces the state as a whole; readers always see
// a complete state and never block the writer.
type Screen struct {
	current atomic.Pointer[screenSnapshot]
}

type screenSnapshot struct {
	state   *State
	version uint64
}

// Store publishes a new state and returns its version. Versions start at 1
// and increase with every Store.
func (s *Screen) Store(state *State) uint64 {
	for {
		old := s.current.Load()
		next := &screenSnapshot{state: state, version: 1}
		if old != nil {
			next.version = old.version + 1
		}
		if s.current.CompareAndSwap(old, next) {
			return next.version
		}
	}
}

// Load returns the current state and its version. Before the first Store it
// returns a blank state with version 0.
func (s *Screen) Load() (*State, uint64) {
	if snap := s.current.Load(); snap != nil {
		return snap.state, snap.version
	}
	return BlankState(), 0
}

// Version returns the version of the current state.
func (s *Screen) Version() uint64 {
	if snap := s.current.Load(); snap != nil {
		return snap.version
	}
	return 0
}

// IsPixelOn queries a pixel of the current state.
func (s *Screen) IsPixelOn(row, col int) bool {
	state, _ := s.Load()
	return state.IsPixelOn(row, col)
}
