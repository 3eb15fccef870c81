package smf

import (
	"errors"
	"testing"
)

// TestParseMinimalFile covers the 26-byte minimal SMF: one track containing
// only an End-of-Track event, fileType=1, 96 ticks per beat.
func TestParseMinimalFile(t *testing.T) {
	data := []byte{
		'M', 'T', 'h', 'd',
		0x00, 0x00, 0x00, 0x06,
		0x00, 0x01, 0x00, 0x01, 0x00, 0x60,
		'M', 'T', 'r', 'k',
		0x00, 0x00, 0x00, 0x04,
		0x00, 0xFF, 0x2F, 0x00,
	}
	if len(data) != 26 {
		t.Fatalf("Test fixture itself is wrong: expected 26 bytes, got %d", len(data))
	}

	f, e := Parse(data)
	if e != nil {
		t.Fatalf("Failed parsing the minimal file: %s", e)
	}
	if f.Header.FileType != SyncTracks {
		t.Fatalf("Expected fileType 1, got %d", f.Header.FileType)
	}
	ticks, ok := f.Header.Division.TicksPerBeat()
	if !ok || ticks != 96 {
		t.Fatalf("Expected 96 ticks per beat, got %d, %v", ticks, ok)
	}
	if f.TrackCount() != 1 {
		t.Fatalf("Expected 1 track, got %d", f.TrackCount())
	}
	track := f.GetTrack(0)
	if track.EventCount() != 1 {
		t.Fatalf("Expected 1 event, got %d", track.EventCount())
	}
	eot, ok := track.GetEvent(0).(*MetaEvent)
	if !ok || !eot.IsEndOfTrack() {
		t.Fatalf("Expected the sole event to be End-of-Track")
	}

	out, e := f.Encode()
	if e != nil {
		t.Fatalf("Failed re-encoding: %s", e)
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

// TestParseBadMagic covers the boundary case: an input starting with "RIFF"
// instead of "MThd" must fail with NotMIDI, not a generic parse error.
func TestParseBadMagic(t *testing.T) {
	data := []byte{'R', 'I', 'F', 'F', 0x00, 0x00, 0x00, 0x00}
	_, e := Parse(data)
	if e == nil {
		t.Fatalf("Expected an error for non-MIDI input")
	}
	var nm *NotMIDI
	if !errors.As(e, &nm) {
		t.Fatalf("Expected a NotMIDI error, got: %s", e)
	}
}

// TestEmptyFileEncodesToFourteenBytes covers the boundary case: a file with
// fileType SyncTracks and zero tracks encodes to just the 14-byte MThd
// chunk, since SyncTracks permits any track count including zero.
func TestEmptyFileEncodesToFourteenBytes(t *testing.T) {
	h, e := NewHeader(SyncTracks, Division(96))
	if e != nil {
		t.Fatalf("Unexpected error: %s", e)
	}
	f := NewFile(h)
	out, e := f.Encode()
	if e != nil {
		t.Fatalf("Unexpected error encoding an empty file: %s", e)
	}
	if len(out) != 14 {
		t.Fatalf("Expected 14 bytes, got %d", len(out))
	}
}

// TestMutationAddsTrack covers: starting from the minimal file, adding a
// second track raises the encoded header's trackCount to 2, with the new
// MTrk chunk following the original one.
func TestMutationAddsTrack(t *testing.T) {
	base := []byte{
		'M', 'T', 'h', 'd',
		0x00, 0x00, 0x00, 0x06,
		0x00, 0x01, 0x00, 0x01, 0x00, 0x60,
		'M', 'T', 'r', 'k',
		0x00, 0x00, 0x00, 0x04,
		0x00, 0xFF, 0x2F, 0x00,
	}
	f, e := Parse(base)
	if e != nil {
		t.Fatalf("Failed parsing the base file: %s", e)
	}

	noteOn, e := NewChannelEvent(0, NoteOn, 1, 69, 100)
	if e != nil {
		t.Fatalf("Unexpected error: %s", e)
	}
	eot := NewEndOfTrackEvent(480)
	if _, e := f.AddTrack(-1, []Event{noteOn, eot}); e != nil {
		t.Fatalf("Failed adding a track: %s", e)
	}
	if f.TrackCount() != 2 {
		t.Fatalf("Expected 2 tracks after AddTrack, got %d", f.TrackCount())
	}

	out, e := f.Encode()
	if e != nil {
		t.Fatalf("Failed encoding the mutated file: %s", e)
	}
	reparsed, e := Parse(out)
	if e != nil {
		t.Fatalf("Failed reparsing the mutated file: %s", e)
	}
	if reparsed.Header.FileType != SyncTracks {
		t.Fatalf("Header fileType changed unexpectedly: %d", reparsed.Header.FileType)
	}
	if reparsed.TrackCount() != 2 {
		t.Fatalf("Expected trackCount 2 in the reparsed file, got %d", reparsed.TrackCount())
	}
	// The original track is untouched and the new track follows it.
	second := reparsed.GetTrack(1)
	ce, ok := second.GetEvent(0).(*ChannelEvent)
	if !ok || ce.Type != NoteOn || ce.Channel != 1 || ce.Param1 != 69 {
		t.Fatalf("Second track's first event is wrong: %+v", second.GetEvent(0))
	}
}

func TestParseUnexpectedEOFLookingForTrack(t *testing.T) {
	data := []byte{
		'M', 'T', 'h', 'd',
		0x00, 0x00, 0x00, 0x06,
		0x00, 0x01, 0x00, 0x02, 0x00, 0x60, // declares 2 tracks
		'M', 'T', 'r', 'k',
		0x00, 0x00, 0x00, 0x04,
		0x00, 0xFF, 0x2F, 0x00,
		// no second track follows
	}
	_, e := Parse(data)
	if e == nil {
		t.Fatalf("Expected an error when fewer tracks are present than declared")
	}
}

func TestParseSkipsUnknownChunks(t *testing.T) {
	data := []byte{
		'M', 'T', 'h', 'd',
		0x00, 0x00, 0x00, 0x06,
		0x00, 0x01, 0x00, 0x01, 0x00, 0x60,
		'J', 'U', 'N', 'K',
		0x00, 0x00, 0x00, 0x02, 0xAA, 0xBB,
		'M', 'T', 'r', 'k',
		0x00, 0x00, 0x00, 0x04,
		0x00, 0xFF, 0x2F, 0x00,
	}
	f, e := Parse(data)
	if e != nil {
		t.Fatalf("Failed parsing a file with an unknown chunk before MTrk: %s", e)
	}
	if f.TrackCount() != 1 {
		t.Fatalf("Expected 1 track, got %d", f.TrackCount())
	}
}

func TestRemoveTrack(t *testing.T) {
	f := &File{}
	if e := f.RemoveTrack(-1); e == nil {
		t.Fatalf("Expected an error removing a track from an empty file")
	}
	h, _ := NewHeader(SyncTracks, Division(96))
	f = NewFile(h)
	if _, e := f.AddTrack(-1, nil); e != nil {
		t.Fatalf("Unexpected error: %s", e)
	}
	if e := f.RemoveTrack(-1); e != nil {
		t.Fatalf("Unexpected error removing the last track: %s", e)
	}
	if f.TrackCount() != 0 {
		t.Fatalf("Expected 0 tracks after removal, got %d", f.TrackCount())
	}
}
