package monitor

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"golang.org/x/term"
	"periph.io/x/conn/v3/physic"

	"github.com/broosa/ded"
)

// Mode selects how the console shows the display.
type Mode int

// Console modes.
const (
	// Text prints the five text rows.
	Text Mode = iota

	// Pixels draws the bitmap with Unicode half blocks, two pixel rows per
	// line of output.
	Pixels
)

// ANSI escapes.
const (
	escHome    = "\x1b[H"
	escClear   = "\x1b[2J"
	escReverse = "\x1b[7m"
	escReset   = "\x1b[0m"
)

// Console prints the display to a writer every time it changes.
type Console struct {
	w        io.Writer
	screen   *ded.Screen
	mode     Mode
	terminal bool
	version  uint64
	frames   int
}

// NewConsole returns a console mirror. If w is a terminal at least as wide
// as the display, the bitmap is drawn in place, otherwise the text rows are
// printed.
func NewConsole(w io.Writer, screen *ded.Screen) *Console {
	c := &Console{
		w:      w,
		screen: screen,
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.terminal = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width >= ded.Width {
			c.mode = Pixels
		}
	}
	return c
}

// SetMode overrides the mode picked by NewConsole.
func (c *Console) SetMode(mode Mode) {
	c.mode = mode
}

// Render prints the current state if it changed since the last call and
// reports if it did.
func (c *Console) Render() (bool, error) {
	state, version := c.screen.Load()
	if version == c.version && c.frames > 0 {
		return false, nil
	}
	c.version = version

	w := bufio.NewWriter(c.w)
	if c.terminal {
		if c.frames == 0 {
			io.WriteString(w, escClear)
		}
		io.WriteString(w, escHome)
	}
	c.frames++

	var err error
	switch c.mode {
	case Pixels:
		err = RenderPixels(w, state)
	default:
		if err = RenderText(w, state, c.terminal); err == nil && !c.terminal {
			_, err = io.WriteString(w, "\n")
		}
	}
	if err != nil {
		return true, err
	}
	return true, w.Flush()
}

// Run renders at rate until ctx is done.
func (c *Console) Run(ctx context.Context, rate physic.Frequency) error {
	if rate <= 0 {
		rate = 10 * physic.Hertz
	}
	t := time.NewTicker(rate.Period())
	defer t.Stop()
	for {
		if _, err := c.Render(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// RenderPixels draws state with half block characters.
func RenderPixels(w io.Writer, state *ded.State) error {
	line := make([]rune, 0, ded.Width+2)
	for row := 0; row < ded.Height; row += 2 {
		line = append(line[:0], '|')
		for col := 0; col < ded.Width; col++ {
			top := state.IsPixelOn(row, col)
			bottom := state.IsPixelOn(row+1, col)
			switch {
			case top && bottom:
				line = append(line, '█')
			case top:
				line = append(line, '▀')
			case bottom:
				line = append(line, '▄')
			default:
				line = append(line, ' ')
			}
		}
		line = append(line, '|', '\n')
		if _, err := io.WriteString(w, string(line)); err != nil {
			return err
		}
	}
	return nil
}

// RenderText prints the text rows. Inverted characters use reverse video if
// ansi is set, and are wrapped in brackets otherwise.
func RenderText(w io.Writer, state *ded.State, ansi bool) error {
	for row := 0; row < ded.Rows; row++ {
		var (
			line     []byte
			inverted bool
		)
		for col := 0; col < ded.Columns; col++ {
			cell := state.Cell(row, col)
			if cell.Inverted != inverted {
				inverted = cell.Inverted
				switch {
				case ansi && inverted:
					line = append(line, escReverse...)
				case ansi:
					line = append(line, escReset...)
				case inverted:
					line = append(line, '[')
				default:
					line = append(line, ']')
				}
			}
			line = append(line, printable(cell.Char)...)
		}
		if inverted {
			if ansi {
				line = append(line, escReset...)
			} else {
				line = append(line, ']')
			}
		}
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}

func printable(c byte) string {
	switch {
	case c == 0x01:
		return "↕"
	case c == 0x02:
		return "*"
	case c < 0x20 || c >= 0x7f:
		return "?"
	default:
		return string(rune(c))
	}
}
