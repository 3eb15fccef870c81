package smf

import (
	"errors"
	"testing"
)

// TestRunningStatusNoteOnNoteOff covers the scenario: a note-on followed by a
// note-off written as a note-on with velocity 0 on the same channel, where
// the second event omits the status byte and relies on running status.
//
//	00 90 3C 40  -- delay 0, note-on channel 0, note 0x3C, velocity 0x40
//	60 3C 00     -- delay 0x60, running status (note-on), note 0x3C, velocity 0
func TestRunningStatusNoteOnNoteOff(t *testing.T) {
	data := []byte{
		0x00, 0x90, 0x3C, 0x40,
		0x60, 0x3C, 0x00,
	}
	c := NewCursor(data)
	var status byte
	var e error

	ev1, status, e := parseEvent(c, status)
	if e != nil {
		t.Fatalf("Failed parsing first event: %s", e)
	}
	ce1, ok := ev1.(*ChannelEvent)
	if !ok {
		t.Fatalf("Expected a ChannelEvent, got %T", ev1)
	}
	if ce1.Type != NoteOn || ce1.Channel != 0 || ce1.Param1 != 0x3C || ce1.Param2 != 0x40 {
		t.Fatalf("Wrong first event: %s", ce1)
	}
	if status != 0x90 {
		t.Fatalf("Expected running status 0x90, got 0x%02x", status)
	}

	ev2, status, e := parseEvent(c, status)
	if e != nil {
		t.Fatalf("Failed parsing second (running-status) event: %s", e)
	}
	ce2, ok := ev2.(*ChannelEvent)
	if !ok {
		t.Fatalf("Expected a ChannelEvent, got %T", ev2)
	}
	if ce2.Delay() != 0x60 || ce2.Type != NoteOn || ce2.Param1 != 0x3C || ce2.Param2 != 0 {
		t.Fatalf("Wrong second event: delay=%d %s", ce2.Delay(), ce2)
	}
	if !c.EOF() {
		t.Fatalf("Expected to have consumed the entire buffer")
	}

	// Re-encoding with running status carried across events should reproduce
	// the same bytes, and should be strictly shorter than encoding both
	// events independently.
	out := NewEncodeCursor()
	var encStatus byte
	encStatus, e = encodeEvent(out, ce1, encStatus)
	if e != nil {
		t.Fatalf("Failed encoding first event: %s", e)
	}
	encStatus, e = encodeEvent(out, ce2, encStatus)
	if e != nil {
		t.Fatalf("Failed encoding second event: %s", e)
	}
	got := out.Bytes()
	if len(got) != len(data) {
		t.Fatalf("Expected %d bytes, got %d: % x", len(data), len(got), got)
	}
	for i, b := range got {
		if b != data[i] {
			t.Fatalf("Byte %d: expected 0x%02x, got 0x%02x", i, data[i], b)
		}
	}
	if encodedEventLen(ce2, 0x90) >= encodedEventLen(ce2, 0) {
		t.Fatalf("Running status should strictly shorten the second event's encoding")
	}
}

// TestParseSetTempoMeta covers: 00 FF 51 03 07 A1 20 -- a SET_TEMPO meta
// event with no delay, setting 500000 microseconds per beat.
func TestParseSetTempoMeta(t *testing.T) {
	data := []byte{0x00, 0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20}
	ev, e := ParseEvent(data)
	if e != nil {
		t.Fatalf("Failed parsing tempo meta event: %s", e)
	}
	me, ok := ev.(*MetaEvent)
	if !ok {
		t.Fatalf("Expected a MetaEvent, got %T", ev)
	}
	tempo, ok := me.Tempo()
	if !ok {
		t.Fatalf("Expected Tempo() to recognize this event")
	}
	if tempo != 500000 {
		t.Fatalf("Expected tempo 500000, got %d", tempo)
	}

	out, e := EncodeEvent(me)
	if e != nil {
		t.Fatalf("Failed re-encoding tempo event: %s", e)
	}
	if len(out) != len(data) {
		t.Fatalf("Expected %d bytes, got %d", len(data), len(out))
	}
	for i, b := range out {
		if b != data[i] {
			t.Fatalf("Byte %d: expected 0x%02x, got 0x%02x", i, data[i], b)
		}
	}
}

func TestParseEventRunningStatusWithoutPriorStatus(t *testing.T) {
	// A data byte (high bit clear) as the very first status position, with
	// no running status in effect: must fail.
	data := []byte{0x00, 0x3C, 0x40}
	_, _, e := parseEvent(NewCursor(data), 0)
	if e == nil {
		t.Fatalf("Expected an error for running status with no prior status byte")
	}
	var ie *InvalidEvent
	if !errors.As(e, &ie) {
		t.Fatalf("Expected an InvalidEvent error, got: %s", e)
	}
}

func TestParseEventUnknownStatusByte(t *testing.T) {
	// 0xf4 is an undefined system-common status, not one this codec knows.
	data := []byte{0x00, 0xf4}
	_, _, e := parseEvent(NewCursor(data), 0)
	if e == nil {
		t.Fatalf("Expected an error for a not-supported status byte")
	}
}

func TestParseEventMetaClearsRunningStatus(t *testing.T) {
	// A note-on establishes running status; a following meta event must
	// clear it, so that a later data byte with no explicit status can't be
	// read as another note-on. Checks that the running status returned after
	// the meta event is 0.
	data := []byte{
		0x00, 0x90, 0x3C, 0x40, // note-on
		0x00, 0xFF, 0x2F, 0x00, // end of track (also clears running status)
	}
	c := NewCursor(data)
	_, status, e := parseEvent(c, 0)
	if e != nil {
		t.Fatalf("Failed parsing note-on: %s", e)
	}
	_, status, e = parseEvent(c, status)
	if e != nil {
		t.Fatalf("Failed parsing end-of-track: %s", e)
	}
	if status != 0 {
		t.Fatalf("Expected running status to be cleared after a meta event, got 0x%02x", status)
	}
}

func TestEncodeEventUnrecognizedType(t *testing.T) {
	// encodeEvent only understands the three Event implementations in this
	// package; nothing else should type-assert against them.
	_, e := encodeEvent(NewEncodeCursor(), fakeEvent{}, 0)
	if e == nil {
		t.Fatalf("Expected an error encoding an unrecognized Event implementation")
	}
}

type fakeEvent struct{}

func (fakeEvent) Delay() uint32  { return 0 }
func (fakeEvent) SetDelay(uint32) {}
func (fakeEvent) eventMarker()   {}
