package ded

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/broosa/ded/telemetry"
)

// RunState is the state of the update loop.
type RunState int32

// Update loop states.
const (
	AwaitingSource RunState = iota // No data, the waiting message is shown
	Streaming                      // Frames are sent at the update rate
	SourceLost                     // The source went away, about to wait again
)

func (s RunState) String() string {
	switch s {
	case AwaitingSource:
		return "awaiting source"
	case Streaming:
		return "streaming"
	case SourceLost:
		return "source lost"
	default:
		return fmt.Sprintf("state %d", int32(s))
	}
}

// Waiting message, shown on the middle row while there is no data.
const (
	waitingRow      = 2
	waitingLine     = "  \x02WAITING FOR BMS...\x02  "
	waitingInverted = "  X                  X  "
)

// Updater receives frames, it is implemented by [Device].
type Updater interface {
	Update(src PixelSource) error
	Clear() error
}

// RunnerConfig is the update loop configuration.
type RunnerConfig struct {
	// Rate is the frame rate while streaming.
	Rate physic.Frequency

	// BlinkRate is the rate of the waiting message blink.
	BlinkRate physic.Frequency

	// SkipUnchanged doesn't send frames identical to the previous one.
	SkipUnchanged bool

	// Glyphs used to render, nil uses the DefaultGlyphTable.
	Glyphs *GlyphTable

	// Screen receives every rendered state, optional.
	Screen *Screen

	// Status is driven high while streaming, optional.
	Status gpio.PinOut

	// Logger for write errors and state changes, defaults to the standard
	// logger.
	Logger *log.Logger

	// OnStateChange is called on every transition, optional.
	OnStateChange func(from, to RunState)
}

// DefaultRunnerConfig is used if no config is passed to NewRunner.
var DefaultRunnerConfig = RunnerConfig{
	Rate:      10 * physic.Hertz,
	BlinkRate: 1 * physic.Hertz,
}

// Stats are the update loop counters.
type Stats struct {
	// Frames sent while streaming.
	Frames uint64

	// Skipped unchanged frames.
	Skipped uint64

	// WriteErrors is the number of failed device writes.
	WriteErrors uint64

	// Failing is set while the last device write failed.
	Failing bool
}

// Runner drives a display from a telemetry source.
type Runner struct {
	src    telemetry.Source
	dev    Updater
	config RunnerConfig
	state  atomic.Int32

	mu    sync.Mutex
	stats Stats

	// Test hooks.
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewRunner returns a runner updating dev from src. Zero rates in config
// are replaced by the defaults.
func NewRunner(src telemetry.Source, dev Updater, config *RunnerConfig) *Runner {
	if config == nil {
		config = &DefaultRunnerConfig
	}
	r := &Runner{
		src:    src,
		dev:    dev,
		config: *config,
		now:    time.Now,
		sleep:  sleepContext,
	}
	if r.config.Rate <= 0 {
		r.config.Rate = DefaultRunnerConfig.Rate
	}
	if r.config.BlinkRate <= 0 {
		r.config.BlinkRate = DefaultRunnerConfig.BlinkRate
	}
	if r.config.Glyphs == nil {
		r.config.Glyphs = DefaultGlyphTable()
	}
	return r
}

// State returns the current loop state.
func (r *Runner) State() RunState {
	return RunState(r.state.Load())
}

// Stats returns a copy of the counters.
func (r *Runner) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Run the update loop until ctx is done. It always returns ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	r.state.Store(int32(AwaitingSource))
	r.setStatus(gpio.Low)
	defer r.setStatus(gpio.Low)

	for {
		var (
			state = r.State()
			next  RunState
			err   error
		)
		switch state {
		case AwaitingSource:
			next = Streaming
			err = r.await(ctx)
		case Streaming:
			next = SourceLost
			err = r.stream(ctx)
		default:
			next = AwaitingSource
		}
		if err != nil {
			return err
		}
		r.transition(state, next)
	}
}

func (r *Runner) transition(from, to RunState) {
	r.state.Store(int32(to))
	if debug {
		logf(r.config.Logger, "ded: %s -> %s", from, to)
	}
	if to == Streaming {
		r.setStatus(gpio.High)
	} else {
		r.setStatus(gpio.Low)
	}
	if r.config.OnStateChange != nil {
		r.config.OnStateChange(from, to)
	}
}

// await clears the display and blinks the waiting message until the source
// is live. Write errors are logged once until a write succeeds again.
func (r *Runner) await(ctx context.Context) error {
	failing := false
	if err := r.dev.Clear(); err != nil {
		r.writeError(err)
		failing = true
	} else {
		r.count(func(s *Stats) { s.Failing = false })
	}

	lines := BlankLines()
	lines[waitingRow] = waitingLine
	period := r.config.BlinkRate.Period()

	for blink := false; ; blink = !blink {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.src.IsLive() {
			return nil
		}

		inverted := BlankLines()
		if blink {
			inverted[waitingRow] = waitingInverted
		}
		state := NewState(r.config.Glyphs, lines, inverted)
		r.publish(state)

		if err := r.dev.Update(state); err != nil {
			if !failing {
				r.writeError(err)
			} else {
				r.count(func(s *Stats) { s.WriteErrors++ })
			}
			failing = true
		} else {
			failing = false
			r.count(func(s *Stats) { s.Failing = false })
		}

		if err := r.sleep(ctx, period); err != nil {
			return err
		}
	}
}

// stream sends a frame per period until the source is no longer live or a
// write fails. The frame taken before noticing the source is gone is still
// sent. A failed write still waits out its period.
func (r *Runner) stream(ctx context.Context) error {
	var (
		period = r.config.Rate.Period()
		last   *State
	)
	for {
		start := r.now()

		lines, inverted := r.src.Snapshot()
		state := NewState(r.config.Glyphs, lines, inverted)
		r.publish(state)

		if r.config.SkipUnchanged && state.Equal(last) {
			r.count(func(s *Stats) { s.Skipped++ })
		} else if err := r.dev.Update(state); err != nil {
			r.writeError(err)
			return r.sleep(ctx, max(0, period-r.now().Sub(start)))
		} else {
			r.count(func(s *Stats) {
				s.Frames++
				s.Failing = false
			})
		}
		last = state

		if !r.src.IsLive() {
			return nil
		}
		if err := r.sleep(ctx, max(0, period-r.now().Sub(start))); err != nil {
			return err
		}
	}
}

func (r *Runner) publish(state *State) {
	if r.config.Screen != nil {
		r.config.Screen.Store(state)
	}
}

func (r *Runner) writeError(err error) {
	r.count(func(s *Stats) {
		s.WriteErrors++
		s.Failing = true
	})

	var werr *WriteError
	if errors.As(err, &werr) {
		logf(r.config.Logger, "ded: %s: %v", r.State(), werr)
		return
	}
	logf(r.config.Logger, "ded: %s: error writing frame: %v", r.State(), err)
}

func (r *Runner) count(f func(*Stats)) {
	r.mu.Lock()
	f(&r.stats)
	r.mu.Unlock()
}

func (r *Runner) setStatus(l gpio.Level) {
	if r.config.Status == nil {
		return
	}
	if err := r.config.Status.Out(l); err != nil {
		logf(r.config.Logger, "ded: error setting status pin %s: %v", r.config.Status, err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Interface checks.
var (
	_ Updater = (*Device)(nil)
)
