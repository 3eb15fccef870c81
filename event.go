package smf

import "fmt"

// Recognized MetaEvent types (spec.md §3). Values outside this set are still
// valid meta events — MetaEvent.Data is simply opaque for them.
const (
	MetaSequenceNumber = 0x00
	MetaText           = 0x01
	MetaSequenceName   = 0x03
	MetaInstrumentName = 0x04
	MetaMIDIChannel    = 0x20
	MetaSetTempo       = 0x51
	MetaTimeSignature  = 0x58
	MetaKeySignature   = 0x59
	MetaEndOfTrack     = 0x2f
)

// Channel event types. The high nibble of a channel event's status byte.
const (
	NoteOff           = 0x8
	NoteOn            = 0x9
	KeyAftertouch     = 0xa
	Controller        = 0xb
	ProgramChange     = 0xc
	ChannelAftertouch = 0xd
	PitchBend         = 0xe
)

// Event is the tagged sum of the three SMF event variants. Every variant
// carries a Delay: the number of ticks elapsed since the previous event in
// the same track.
type Event interface {
	// Delay returns the event's delta time in ticks.
	Delay() uint32
	// SetDelay changes the event's delta time in ticks.
	SetDelay(uint32)
	// eventMarker restricts Event to the three variants defined in this
	// package.
	eventMarker()
}

// metaPayloadLengths gives the required Data length for recognized meta
// event types; types absent from this map accept any length.
var metaPayloadLengths = map[uint8]int{
	MetaSequenceNumber: 2,
	MetaMIDIChannel:    1,
	MetaSetTempo:       3,
	MetaTimeSignature:  4,
	MetaKeySignature:   2,
	MetaEndOfTrack:     0,
}

// MetaEvent carries a meta-event type and its raw payload. Typed accessors
// below interpret Data for the types recognized by this codec; Data is kept
// and round-tripped verbatim regardless of whether the type is recognized.
type MetaEvent struct {
	delay uint32
	Type  uint8
	Data  []byte
}

// NewMetaEvent constructs a MetaEvent, validating the payload length for
// recognized types. Unrecognized types accept any length.
func NewMetaEvent(delay uint32, eventType uint8, data []byte) (*MetaEvent, error) {
	if delay > maxVarInt {
		return nil, newInvalidArgument("delay %d exceeds the variable-length "+
			"integer limit of %d", delay, maxVarInt)
	}
	if want, recognized := metaPayloadLengths[eventType]; recognized {
		if len(data) != want {
			return nil, newInvalidArgument("meta event type 0x%02x requires "+
				"%d bytes of data, got %d", eventType, want, len(data))
		}
	}
	return &MetaEvent{delay: delay, Type: eventType, Data: data}, nil
}

func (m *MetaEvent) Delay() uint32  { return m.delay }
func (m *MetaEvent) eventMarker()   {}
func (m *MetaEvent) SetDelay(d uint32) { m.delay = d }

func (m *MetaEvent) String() string {
	return fmt.Sprintf("MetaEvent{type=0x%02x, %d bytes}", m.Type, len(m.Data))
}

// SequenceNumber returns the event's sequence number and true, if this is a
// SEQUENCE_NUMBER event.
func (m *MetaEvent) SequenceNumber() (uint16, bool) {
	if m.Type != MetaSequenceNumber {
		return 0, false
	}
	return uint16(m.Data[0])<<8 | uint16(m.Data[1]), true
}

// Text returns the event's text payload and true, if this is a TEXT,
// SEQUENCE_NAME, or INSTRUMENT_NAME event.
func (m *MetaEvent) Text() (string, bool) {
	switch m.Type {
	case MetaText, MetaSequenceName, MetaInstrumentName:
		return string(m.Data), true
	}
	return "", false
}

// MIDIChannel returns the associated channel number and true, if this is a
// MIDI_CHANNEL event.
func (m *MetaEvent) MIDIChannel() (uint8, bool) {
	if m.Type != MetaMIDIChannel {
		return 0, false
	}
	return m.Data[0], true
}

// Tempo returns the tempo in microseconds per beat and true, if this is a
// SET_TEMPO event.
func (m *MetaEvent) Tempo() (uint32, bool) {
	if m.Type != MetaSetTempo {
		return 0, false
	}
	return uint32(m.Data[0])<<16 | uint32(m.Data[1])<<8 | uint32(m.Data[2]), true
}

// TimeSignature returns (numerator, denominator-as-power-of-2,
// clocks-per-click, 32nds-per-beat) and true, if this is a TIME_SIGNATURE
// event.
func (m *MetaEvent) TimeSignature() (uint8, uint8, uint8, uint8, bool) {
	if m.Type != MetaTimeSignature {
		return 0, 0, 0, 0, false
	}
	return m.Data[0], m.Data[1], m.Data[2], m.Data[3], true
}

// KeySignature returns the signed sharps/flats count and whether the key is
// minor, and true, if this is a KEY_SIGNATURE event.
func (m *MetaEvent) KeySignature() (int8, bool, bool) {
	if m.Type != MetaKeySignature {
		return 0, false, false
	}
	return int8(m.Data[0]), m.Data[1] != 0, true
}

// IsEndOfTrack reports whether this is the mandatory End-of-Track event.
func (m *MetaEvent) IsEndOfTrack() bool { return m.Type == MetaEndOfTrack }

// NewSetTempoEvent builds a SET_TEMPO meta event from a microseconds-per-beat
// value. The value must fit in 24 bits.
func NewSetTempoEvent(delay uint32, microsecondsPerBeat uint32) (*MetaEvent, error) {
	if microsecondsPerBeat > 0xffffff {
		return nil, newInvalidArgument("tempo %d exceeds the 24-bit "+
			"microseconds-per-beat limit", microsecondsPerBeat)
	}
	return NewMetaEvent(delay, MetaSetTempo, []byte{
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	})
}

// NewEndOfTrackEvent builds the mandatory terminal End-of-Track meta event.
func NewEndOfTrackEvent(delay uint32) *MetaEvent {
	e, _ := NewMetaEvent(delay, MetaEndOfTrack, nil)
	return e
}

// SysexEvent carries a system-exclusive message's payload, not including the
// leading status byte (0xF0 or 0xF7) or the trailing 0xF7.
type SysexEvent struct {
	delay uint32
	Data  []byte
}

// NewSysexEvent constructs a SysexEvent.
func NewSysexEvent(delay uint32, data []byte) (*SysexEvent, error) {
	if delay > maxVarInt {
		return nil, newInvalidArgument("delay %d exceeds the variable-length "+
			"integer limit of %d", delay, maxVarInt)
	}
	return &SysexEvent{delay: delay, Data: data}, nil
}

func (s *SysexEvent) Delay() uint32     { return s.delay }
func (s *SysexEvent) eventMarker()      {}
func (s *SysexEvent) SetDelay(d uint32) { s.delay = d }

func (s *SysexEvent) String() string {
	return fmt.Sprintf("SysexEvent{%d bytes}", len(s.Data))
}

// channelEventHasParam2 reports whether a channel event type carries a
// second data byte on the wire. PROGRAM_CHANGE and CHANNEL_AFTERTOUCH are
// single-byte messages.
func channelEventHasParam2(eventType uint8) bool {
	return eventType != ProgramChange && eventType != ChannelAftertouch
}

// ChannelEvent represents a channel voice message: note on/off, aftertouch,
// controller change, program change, channel pressure, or pitch bend.
type ChannelEvent struct {
	delay   uint32
	Type    uint8
	Channel uint8
	Param1  uint8
	Param2  uint8
}

// NewChannelEvent constructs a ChannelEvent, validating that Type is
// recognized, Channel is within 0..15, and Param1/Param2 are within 0..127.
// Param2 is ignored for PROGRAM_CHANGE and CHANNEL_AFTERTOUCH.
func NewChannelEvent(delay uint32, eventType, channel, param1, param2 uint8) (*ChannelEvent, error) {
	if delay > maxVarInt {
		return nil, newInvalidArgument("delay %d exceeds the variable-length "+
			"integer limit of %d", delay, maxVarInt)
	}
	switch eventType {
	case NoteOff, NoteOn, KeyAftertouch, Controller, ProgramChange,
		ChannelAftertouch, PitchBend:
	default:
		return nil, newInvalidArgument("unrecognized channel event type 0x%x",
			eventType)
	}
	if channel > 0xf {
		return nil, newInvalidArgument("channel %d is out of range 0..15", channel)
	}
	if param1 > 0x7f {
		return nil, newInvalidArgument("param1 %d is out of range 0..127", param1)
	}
	if channelEventHasParam2(eventType) && param2 > 0x7f {
		return nil, newInvalidArgument("param2 %d is out of range 0..127", param2)
	}
	if !channelEventHasParam2(eventType) {
		param2 = 0
	}
	return &ChannelEvent{
		delay:   delay,
		Type:    eventType,
		Channel: channel,
		Param1:  param1,
		Param2:  param2,
	}, nil
}

func (c *ChannelEvent) Delay() uint32     { return c.delay }
func (c *ChannelEvent) eventMarker()      {}
func (c *ChannelEvent) SetDelay(d uint32) { c.delay = d }

func (c *ChannelEvent) String() string {
	return fmt.Sprintf("ChannelEvent{type=0x%x, channel=%d, %d, %d}",
		c.Type, c.Channel, c.Param1, c.Param2)
}

// status returns the composed status byte for this event: type in the high
// nibble, channel in the low nibble.
func (c *ChannelEvent) status() byte {
	return byte(c.Type<<4) | (c.Channel & 0xf)
}

// PitchBendValue returns the 14-bit unsigned pitch bend value encoded by
// Param1 (LSB) and Param2 (MSB). Only meaningful when Type == PitchBend.
func (c *ChannelEvent) PitchBendValue() uint16 {
	return uint16(c.Param2)<<7 | uint16(c.Param1)
}

// SetPitchBendValue sets Param1/Param2 from a 14-bit unsigned value.
func (c *ChannelEvent) SetPitchBendValue(value uint16) error {
	if value > 0x3fff {
		return newInvalidArgument("pitch bend value %d exceeds the 14-bit limit", value)
	}
	c.Param1 = uint8(value & 0x7f)
	c.Param2 = uint8(value >> 7)
	return nil
}
