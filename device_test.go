package ded

import (
	"errors"
	"testing"
)

func TestDevice(t *testing.T) {
	w := newRecorder()
	d, err := Open(w)
	if err != nil {
		t.Fatal(err)
	}
	if len(w.frames) != 1 || w.frames[0][1] != OpReset {
		t.Fatalf("expected Open to write the reset packet, got %d frames", len(w.frames))
	}
	if s := d.String(); s != "DED 200x65 on recorder" {
		t.Errorf("expected %q, got %q", "DED 200x65 on recorder", s)
	}

	lines := BlankLines()
	lines[2] = "       MAN TCN 10       "
	if err = d.Update(NewState(nil, lines, BlankLines())); err != nil {
		t.Fatal(err)
	}
	if n := len(w.frames); n != 1+28 {
		t.Fatalf("expected 28 frames for an update, got %d", n-1)
	}
	if seq := w.frames[1][2]; seq != 1 {
		t.Errorf("expected the first data packet to have sequence 1, got %d", seq)
	}

	if err = d.Clear(); err != nil {
		t.Fatal(err)
	}
	if n := len(w.frames); n != 1+28+28 {
		t.Fatalf("expected 28 frames for a clear, got %d", n-1-28)
	}
	var stream []byte
	for _, frame := range w.frames[29:] {
		packet, err := ParsePacket(frame)
		if err != nil {
			t.Fatal(err)
		}
		stream = append(stream, packet.Payload...)
	}
	c, _, err := DecodeCommand(stream)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range c.Data {
		if v != 0 {
			t.Fatal("expected a clear to write blank display memory")
		}
	}

	if err = d.Close(); err != nil {
		t.Fatal(err)
	}
	if err = d.Close(); err != nil {
		t.Errorf("expected a second Close to succeed, got %v", err)
	}
	err = d.Update(BlankState())
	var werr *WriteError
	if !errors.As(err, &werr) || !errors.Is(err, ErrClosed) {
		t.Errorf("expected a *WriteError wrapping %v, got %v", ErrClosed, err)
	}
}

func TestOpenResetError(t *testing.T) {
	w := newRecorder()
	w.failAt = 0
	if _, err := Open(w); err == nil {
		t.Error("expected an error when the reset packet can't be written")
	}
}
