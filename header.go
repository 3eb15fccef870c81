package smf

import (
	"errors"
	"fmt"
)

// FileType is the SMF header's format field.
type FileType uint16

const (
	// SingleTrack files contain exactly one track.
	SingleTrack FileType = 0
	// SyncTracks files contain multiple tracks that play simultaneously,
	// sharing one timebase.
	SyncTracks FileType = 1
	// AsyncTracks files contain multiple independent tracks, each with its
	// own sequence (rare; most software treats this like SyncTracks).
	AsyncTracks FileType = 2
)

func (t FileType) valid() bool {
	return t == SingleTrack || t == SyncTracks || t == AsyncTracks
}

// Division is the header's time-base field: a positive value gives ticks
// per quarter note (metrical timing); a negative value encodes an SMPTE
// frame rate and ticks-per-frame instead.
type Division int16

// NewMetricalDivision returns a Division expressing ticksPerBeat ticks per
// quarter note. ticksPerBeat must be in 1..32767.
func NewMetricalDivision(ticksPerBeat uint16) (Division, error) {
	if ticksPerBeat == 0 || ticksPerBeat > 32767 {
		return 0, newInvalidArgument("ticksPerBeat %d is out of range 1..32767",
			ticksPerBeat)
	}
	return Division(ticksPerBeat), nil
}

// validSMPTERates lists the frame rates the SMF format recognizes.
var validSMPTERates = map[uint8]bool{24: true, 25: true, 29: true, 30: true}

// NewSMPTEDivision returns a Division expressing an SMPTE timebase:
// framesPerSecond must be one of {24, 25, 29, 30}, and ticksPerFrame gives
// the sub-frame resolution.
func NewSMPTEDivision(framesPerSecond, ticksPerFrame uint8) (Division, error) {
	if !validSMPTERates[framesPerSecond] {
		return 0, newInvalidArgument("SMPTE frame rate %d is not one of "+
			"24, 25, 29, 30", framesPerSecond)
	}
	raw := (uint16(-int8(framesPerSecond)) << 8) | uint16(ticksPerFrame)
	return Division(int16(raw)), nil
}

// TicksPerBeat returns the number of ticks per quarter note and true, if d
// uses metrical timing.
func (d Division) TicksPerBeat() (uint16, bool) {
	if d < 0 {
		return 0, false
	}
	return uint16(d), true
}

// SMPTE returns the frame rate and ticks-per-frame, and true, if d uses
// SMPTE timing.
func (d Division) SMPTE() (framesPerSecond, ticksPerFrame uint8, ok bool) {
	if d >= 0 {
		return 0, 0, false
	}
	raw := uint16(d)
	framesPerSecond = uint8(-int8(raw >> 8))
	ticksPerFrame = uint8(raw & 0xff)
	return framesPerSecond, ticksPerFrame, true
}

// Header holds the fields of a file's MThd chunk, excluding trackCount: the
// File that owns a Header always derives trackCount from its current track
// list, per spec.md §3 and §4.7.
type Header struct {
	FileType FileType
	Division Division
}

// NewHeader constructs a Header, validating that fileType is one of
// SingleTrack, SyncTracks, or AsyncTracks.
func NewHeader(fileType FileType, division Division) (*Header, error) {
	if !fileType.valid() {
		return nil, newInvalidArgument("file type %d is not one of 0, 1, 2", fileType)
	}
	return &Header{FileType: fileType, Division: division}, nil
}

const headerChunkLength = 6

// parseHeader reads an MThd chunk from c, returning the Header and the
// trackCount field as read from the wire (the File assembler uses it to
// know how many MTrk chunks follow, then discards it in favor of the live
// track list's length).
func parseHeader(c *Cursor) (*Header, uint16, error) {
	body, _, e := readChunk(c, "MThd")
	if e != nil {
		var pe *ParserError
		if errors.As(e, &pe) && pe.Expected == "MThd" {
			return nil, 0, newNotMIDI(pe.Actual)
		}
		return nil, 0, e
	}
	if body.Len() != headerChunkLength {
		return nil, 0, newParserError("6-byte MThd body",
			fmt.Sprintf("%d-byte body", body.Len()), 0)
	}
	fileType, e := body.ReadUint16BE()
	if e != nil {
		return nil, 0, wrap(e, "reading header file type")
	}
	trackCount, e := body.ReadUint16BE()
	if e != nil {
		return nil, 0, wrap(e, "reading header track count")
	}
	rawDivision, e := body.ReadInt16BE()
	if e != nil {
		return nil, 0, wrap(e, "reading header division")
	}
	if !FileType(fileType).valid() {
		return nil, 0, newInvalidArgument("file type %d is not one of 0, 1, 2", fileType)
	}
	if FileType(fileType) == SingleTrack && trackCount != 1 {
		return nil, 0, newInvalidArgument("file type 0 (single track) "+
			"must declare exactly 1 track, got %d", trackCount)
	}
	return &Header{FileType: FileType(fileType), Division: Division(rawDivision)}, trackCount, nil
}

// encodeHeader appends an MThd chunk for h to c, writing trackCount as the
// file's current track count (overriding any value the Header might once
// have carried from a parse).
func encodeHeader(c *Cursor, h *Header, trackCount uint16) error {
	if !h.FileType.valid() {
		return newInvalidArgument("file type %d is not one of 0, 1, 2", h.FileType)
	}
	if h.FileType == SingleTrack && trackCount != 1 {
		return newInvalidArgument("file type 0 (single track) must encode "+
			"exactly 1 track, got %d", trackCount)
	}
	body := NewEncodeCursor()
	if e := body.WriteUint16BE(uint16(h.FileType)); e != nil {
		return e
	}
	if e := body.WriteUint16BE(trackCount); e != nil {
		return e
	}
	if e := body.WriteInt16BE(int16(h.Division)); e != nil {
		return e
	}
	return writeChunk(c, "MThd", body.Bytes())
}
