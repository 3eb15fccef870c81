package smf

// File owns exactly one Header and an ordered list of Tracks. Tracks
// exclusively own their Events; there are no shared references, and every
// mutation goes through the owning File or Track.
type File struct {
	Header *Header
	Tracks []*Track
}

// NewFile constructs an empty File with the given header and no tracks.
func NewFile(header *Header) *File {
	return &File{Header: header, Tracks: nil}
}

// Parse decodes buf as a Standard MIDI File. The first chunk must be MThd;
// if it isn't, Parse fails with a NotMIDI error rather than a generic
// ParserError, so callers can distinguish "this isn't a MIDI file" from "this
// MIDI file is corrupt".
func Parse(buf []byte) (*File, error) {
	c := NewCursor(buf)
	header, trackCount, e := parseHeader(c)
	if e != nil {
		return nil, e
	}
	tracks := make([]*Track, 0, trackCount)
	for i := 0; i < int(trackCount); i++ {
		// Unknown chunk types between or after the declared tracks are
		// silently skipped, per spec.md §4.8; only MTrk chunks advance the
		// track count.
		for {
			if c.EOF() {
				return nil, newParserError("MTrk chunk", "end of file", c.Tell())
			}
			chunkStart := c.Tell()
			_, actualType, peekErr := peekChunkType(c)
			if peekErr != nil {
				return nil, wrap(peekErr, "scanning for track %d", i)
			}
			if actualType == "MTrk" {
				c.Seek(chunkStart)
				break
			}
			// peekChunkType already consumed this non-MTrk chunk in full;
			// loop around to look at whatever follows it.
		}
		track, e := parseTrack(c)
		if e != nil {
			return nil, wrap(e, "parsing track %d", i)
		}
		tracks = append(tracks, track)
	}
	return &File{Header: header, Tracks: tracks}, nil
}

// peekChunkType reads a chunk's 4-byte type tag without validating it, for
// deciding whether to skip the chunk or hand it to parseTrack. It reads the
// whole chunk, leaving c positioned after its body; a caller that wants to
// parse the chunk again must Seek back to its start.
func peekChunkType(c *Cursor) (body *Cursor, chunkType string, e error) {
	return readChunk(c, "")
}

// Encode serializes f to its Standard MIDI File byte form: an MThd chunk
// (with trackCount reflecting the current track list) followed by each
// track's MTrk chunk in order.
func (f *File) Encode() ([]byte, error) {
	if len(f.Tracks) > 0xffff {
		return nil, newEncoderError("file has %d tracks, limited to %d",
			len(f.Tracks), 0xffff)
	}
	c := NewEncodeCursor()
	if e := encodeHeader(c, f.Header, uint16(len(f.Tracks))); e != nil {
		return nil, wrap(e, "encoding file header")
	}
	for i, t := range f.Tracks {
		if e := encodeTrack(c, t); e != nil {
			return nil, wrap(e, "encoding track %d", i)
		}
	}
	return c.Bytes(), nil
}

// TrackCount returns the number of tracks currently in the file.
func (f *File) TrackCount() int { return len(f.Tracks) }

// GetTrack returns the track at index i, or nil if i is out of range.
func (f *File) GetTrack(i int) *Track {
	if i < 0 || i >= len(f.Tracks) {
		return nil
	}
	return f.Tracks[i]
}

// AddTrack constructs a Track from events (appending an End-of-Track event
// if the caller's list lacks one) and inserts it at index, or appends it if
// index is negative.
func (f *File) AddTrack(index int, events []Event) (*Track, error) {
	if index < 0 {
		index = len(f.Tracks)
	}
	if index > len(f.Tracks) {
		return nil, newInvalidArgument("track index %d is out of range for "+
			"a file with %d tracks", index, len(f.Tracks))
	}
	t := NewTrack(events)
	f.Tracks = append(f.Tracks, nil)
	copy(f.Tracks[index+1:], f.Tracks[index:])
	f.Tracks[index] = t
	return t, nil
}

// RemoveTrack removes the track at index, or the last track if index is
// negative. Removing from an empty file is rejected.
func (f *File) RemoveTrack(index int) error {
	if len(f.Tracks) == 0 {
		return newInvalidArgument("can't remove a track from an empty file")
	}
	if index < 0 {
		index = len(f.Tracks) - 1
	}
	if index < 0 || index >= len(f.Tracks) {
		return newInvalidArgument("track index %d is out of range for a "+
			"file with %d tracks", index, len(f.Tracks))
	}
	f.Tracks = append(f.Tracks[:index], f.Tracks[index+1:]...)
	return nil
}
