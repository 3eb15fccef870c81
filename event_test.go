package smf

import "testing"

func TestNewChannelEventValidation(t *testing.T) {
	if _, e := NewChannelEvent(0, NoteOn, 16, 60, 100); e == nil {
		t.Fatalf("Expected an error for channel 16")
	}
	if _, e := NewChannelEvent(0, NoteOn, 0, 128, 100); e == nil {
		t.Fatalf("Expected an error for param1 128")
	}
	if _, e := NewChannelEvent(0, NoteOn, 0, 60, 128); e == nil {
		t.Fatalf("Expected an error for param2 128")
	}
	if _, e := NewChannelEvent(0, 0xf, 0, 60, 100); e == nil {
		t.Fatalf("Expected an error for an unrecognized channel event type")
	}
	ev, e := NewChannelEvent(10, NoteOn, 9, 60, 100)
	if e != nil {
		t.Fatalf("Unexpected error constructing a valid ChannelEvent: %s", e)
	}
	if ev.Delay() != 10 {
		t.Fatalf("Wrong delay: %d", ev.Delay())
	}
	ev.SetDelay(20)
	if ev.Delay() != 20 {
		t.Fatalf("SetDelay didn't take effect: %d", ev.Delay())
	}
}

func TestNewChannelEventIgnoresParam2WhenUnused(t *testing.T) {
	// ProgramChange has no second data byte, so an out-of-range Param2 should
	// be silently zeroed rather than rejected.
	ev, e := NewChannelEvent(0, ProgramChange, 0, 40, 255)
	if e != nil {
		t.Fatalf("Unexpected error: %s", e)
	}
	if ev.Param2 != 0 {
		t.Fatalf("Expected Param2 to be zeroed for ProgramChange, got %d", ev.Param2)
	}
}

func TestChannelEventPitchBend(t *testing.T) {
	ev, e := NewChannelEvent(0, PitchBend, 0, 0, 0)
	if e != nil {
		t.Fatalf("Unexpected error: %s", e)
	}
	if e := ev.SetPitchBendValue(0x3fff); e != nil {
		t.Fatalf("Unexpected error setting pitch bend value: %s", e)
	}
	if ev.PitchBendValue() != 0x3fff {
		t.Fatalf("Expected 0x3fff, got 0x%04x", ev.PitchBendValue())
	}
	if e := ev.SetPitchBendValue(0x4000); e == nil {
		t.Fatalf("Expected an error setting a pitch bend value over the 14-bit limit")
	}
}

func TestNewMetaEventLengthValidation(t *testing.T) {
	if _, e := NewMetaEvent(0, MetaSetTempo, []byte{0x07, 0xa1}); e == nil {
		t.Fatalf("Expected an error for a SET_TEMPO event with only 2 data bytes")
	}
	if _, e := NewMetaEvent(0, MetaTimeSignature, []byte{4, 2, 24}); e == nil {
		t.Fatalf("Expected an error for a TIME_SIGNATURE event with only 3 data bytes")
	}
	// Unrecognized types accept any length.
	if _, e := NewMetaEvent(0, 0x7f, []byte{1, 2, 3, 4, 5}); e != nil {
		t.Fatalf("Unexpected error for an unrecognized meta type: %s", e)
	}
}

func TestSetTempoEventAccessor(t *testing.T) {
	ev, e := NewSetTempoEvent(0, 500000)
	if e != nil {
		t.Fatalf("Unexpected error: %s", e)
	}
	got, ok := ev.Tempo()
	if !ok {
		t.Fatalf("Expected Tempo() to recognize a SET_TEMPO event")
	}
	if got != 500000 {
		t.Fatalf("Expected tempo 500000, got %d", got)
	}
	if _, e := NewSetTempoEvent(0, 0x1000000); e == nil {
		t.Fatalf("Expected an error for a tempo exceeding the 24-bit limit")
	}
}

func TestEndOfTrackEvent(t *testing.T) {
	ev := NewEndOfTrackEvent(5)
	if !ev.IsEndOfTrack() {
		t.Fatalf("Expected IsEndOfTrack to be true")
	}
	if ev.Delay() != 5 {
		t.Fatalf("Expected delay 5, got %d", ev.Delay())
	}
}

func TestMetaEventTextAccessor(t *testing.T) {
	ev, e := NewMetaEvent(0, MetaText, []byte("a test marker"))
	if e != nil {
		t.Fatalf("Unexpected error: %s", e)
	}
	text, ok := ev.Text()
	if !ok || text != "a test marker" {
		t.Fatalf("Wrong text: %q, %v", text, ok)
	}
	if _, ok := ev.MIDIChannel(); ok {
		t.Fatalf("MIDIChannel() should not recognize a TEXT event")
	}
}

func TestNewSysexEvent(t *testing.T) {
	ev, e := NewSysexEvent(3, []byte{0x43, 0x12, 0x00})
	if e != nil {
		t.Fatalf("Unexpected error: %s", e)
	}
	if ev.Delay() != 3 {
		t.Fatalf("Wrong delay: %d", ev.Delay())
	}
	ev.SetDelay(7)
	if ev.Delay() != 7 {
		t.Fatalf("SetDelay didn't take effect")
	}
}
