// This defines a command-line utility for viewing or manipulating standard
// MIDI files (SMF, usually with a ".mid" extension).
package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/kestrelmidi/smf"
)

// Returns the value of a lower-case hex char
func hexCharToValue(b byte) byte {
	if (b >= '0') && (b <= '9') {
		return b - '0'
	}
	if (b >= 'a') && (b <= 'f') {
		return b - 'a' + 10
	}
	panic("Bad lowercase hex char.")
}

// Converts the string s to bytes. The string may only contain hex chars and
// whitespace.
func hexStringToBytes(s string) ([]byte, error) {
	s = regexp.MustCompile(`\s`).ReplaceAllString(s, "")
	s = strings.ToLower(s)
	ok, e := regexp.MatchString(`^([a-f0-9]{2})*$`, s)
	if e != nil {
		return nil, fmt.Errorf("error validating hex string: %s", e)
	}
	if !ok {
		return nil, fmt.Errorf("invalid hex bytes string")
	}
	textBytes := []byte(s)
	toReturn := make([]byte, len(textBytes)/2)
	for i := range toReturn {
		a := hexCharToValue(textBytes[i*2])
		b := hexCharToValue(textBytes[i*2+1])
		toReturn[i] = byte(b) | (a << 4)
	}
	return toReturn, nil
}

// Takes a track number (with 1 being the first track), and returns the
// track's data in the given File.
func getNumberedTrack(track int, f *smf.File) (*smf.Track, error) {
	if track <= 0 {
		return nil, fmt.Errorf("invalid track number: %d. Note that track "+
			"numbering starts at 1, rather than 0", track)
	}
	t := f.GetTrack(track - 1)
	if t == nil {
		return nil, fmt.Errorf("invalid track number: %d. The file only "+
			"contains %d tracks", track, f.TrackCount())
	}
	return t, nil
}

// Inserts a new event, encoded as a hex string, after the event at the given
// position in the given track.
func insertNewEvent(hexData string, track, position int, f *smf.File) error {
	t, e := getNumberedTrack(track, f)
	if e != nil {
		return e
	}
	data, e := hexStringToBytes(hexData)
	if e != nil {
		return fmt.Errorf("invalid new event data: %s", e)
	}
	event, e := smf.ParseEvent(data)
	if e != nil {
		return fmt.Errorf("couldn't parse new event: %s", e)
	}
	fmt.Printf("Inserting new event at delay %d: %s\n", event.Delay(), event)
	return t.AddEvent(position, event)
}

// Converts the given string to a number, and verifies that the number is
// between 0 and 15 (inclusive).
func stringToChannelNumber(s string) (uint8, error) {
	v, e := strconv.Atoi(s)
	if e != nil {
		return 0, fmt.Errorf("couldn't convert %s to number: %s", s, e)
	}
	if (v < 0) || (v > 15) {
		return 0, fmt.Errorf("invalid channel number: %d. Channel numbers "+
			"start at 0 in this tool", v)
	}
	return uint8(v), nil
}

// Reassigns every event in one channel to a different channel instead. Uses
// channel numbers starting from 0.
func reassignChannels(args string, f *smf.File) error {
	channelStrings := strings.Split(args, ",")
	if len(channelStrings) != 2 {
		return fmt.Errorf("%s doesn't contain two channel numbers", args)
	}
	originalChannel, e := stringToChannelNumber(channelStrings[0])
	if e != nil {
		return fmt.Errorf("bad original channel number: %s", e)
	}
	newChannel, e := stringToChannelNumber(channelStrings[1])
	if e != nil {
		return fmt.Errorf("bad new channel number: %s", e)
	}
	totalCount, modifiedCount := 0, 0
	for i := 0; i < f.TrackCount(); i++ {
		t := f.GetTrack(i)
		for j := 0; j < t.EventCount(); j++ {
			totalCount++
			ce, ok := t.GetEvent(j).(*smf.ChannelEvent)
			if !ok || ce.Channel != originalChannel {
				continue
			}
			ce.Channel = newChannel
			modifiedCount++
		}
	}
	fmt.Printf("Reassigned %d/%d events from channel %d to %d.\n", modifiedCount,
		totalCount, originalChannel, newChannel)
	return nil
}

// Scales the velocity of every note-on event in the indicated track.
func rescaleVelocity(scale float64, track int, f *smf.File) error {
	if (scale < 0) || (scale > 1) {
		return fmt.Errorf("velocity scale must be between 0 and 1, got %f", scale)
	}
	t, e := getNumberedTrack(track, f)
	if e != nil {
		return e
	}
	modifiedCount := 0
	for i := 0; i < t.EventCount(); i++ {
		ce, ok := t.GetEvent(i).(*smf.ChannelEvent)
		if !ok || ce.Type != smf.NoteOn {
			continue
		}
		newVelocity := uint8(float64(ce.Param2) * scale)
		if newVelocity > 127 {
			newVelocity = 127
		}
		ce.Param2 = newVelocity
		modifiedCount++
	}
	fmt.Printf("Updated the velocity of %d note-on events in track %d\n",
		modifiedCount, track)
	return nil
}

// Sets the time delta of the event at the given track and position.
func adjustTimeDelta(newTimeDelta, track, position int, f *smf.File) error {
	if newTimeDelta > 0x0fffffff {
		return fmt.Errorf("the time delta of %d exceeds the limit of %d",
			newTimeDelta, 0x0fffffff)
	}
	t, e := getNumberedTrack(track, f)
	if e != nil {
		return e
	}
	index := position - 1
	ev := t.GetEvent(index)
	if ev == nil {
		return fmt.Errorf("invalid track event number for delta-time "+
			"adjustment: %d", position)
	}
	ev.SetDelay(uint32(newTimeDelta))
	return nil
}

func deleteSMFEvent(track, position int, f *smf.File) error {
	t, e := getNumberedTrack(track, f)
	if e != nil {
		return e
	}
	return t.RemoveEvent(position - 1)
}

// Computes the longest-running track, in ticks.
func getLongestTrackTicks(f *smf.File) uint32 {
	toReturn := uint32(0)
	for i := 0; i < f.TrackCount(); i++ {
		t := f.GetTrack(i)
		current := uint32(0)
		for j := 0; j < t.EventCount(); j++ {
			current += t.GetEvent(j).Delay()
		}
		if current > toReturn {
			toReturn = current
		}
	}
	return toReturn
}

// Adds an additional track with some extra percussion to the file. Attempts
// to make the new track's tempo match the tempo specified in the file's
// division.
func addExtraBeats(f *smf.File) error {
	ticksToGenerate := getLongestTrackTicks(f)
	ticksPerBeat, ok := f.Header.Division.TicksPerBeat()
	if !ok || ticksPerBeat == 0 {
		return fmt.Errorf("unsupported: the file doesn't specify a metrical " +
			"ticks-per-beat division")
	}
	// We'll make this twice as fast as the file itself.
	ticksPerBeat /= 2
	beatsToGenerate := ticksToGenerate / uint32(ticksPerBeat)

	// This specifies the pattern of notes to play, apart from delta times.
	// Channel 9 is reserved for percussion under general MIDI.
	notes := []struct {
		note     uint8
		velocity uint8
	}{
		{36, 120}, // bass drum
		{42, 80},  // closed hi-hat
		{40, 100}, // electric snare
		{42, 80},  // closed hi-hat
	}

	events := make([]smf.Event, 0, beatsToGenerate*2+1)
	for i := 0; i < int(beatsToGenerate); i++ {
		n := notes[i%len(notes)]
		on, e := smf.NewChannelEvent(0, smf.NoteOn, 9, n.note, n.velocity)
		if e != nil {
			return e
		}
		off, e := smf.NewChannelEvent(uint32(ticksPerBeat), smf.NoteOff, 9, n.note, 0)
		if e != nil {
			return e
		}
		events = append(events, on, off)
	}
	newTrack, e := f.AddTrack(-1, events)
	if e != nil {
		return e
	}
	fmt.Printf("Appended track %d, with %d events.\n", f.TrackCount(),
		newTrack.EventCount())
	return nil
}

func run() int {
	var filename, outputFilename string
	var dumpEvents bool
	var track, position int
	var reassignChannel string
	var newEventHex string
	var deleteEvent bool
	var newTimeDelta int
	var scaleVelocity float64
	var bootsAndCats bool
	flag.StringVar(&filename, "input_file", "", "The .mid file to open.")
	flag.StringVar(&outputFilename, "output_file", "", "The name of the .mid "+
		"file to create.")
	flag.BoolVar(&dumpEvents, "dump_events", false, "If set, print a list of "+
		"all events in the file to stdout.")
	flag.IntVar(&track, "track", -1, "The track to modify.")
	flag.IntVar(&position, "position", -1, "The position in the track to "+
		"modify. If inserting a message, it will be inserted after this "+
		"position. 0 = insert at the first position.")
	flag.IntVar(&newTimeDelta, "new_time_delta", -1, "Set the time delta of "+
		"the event specified by -position and -track to this value. This "+
		"will be applied before -new_event.")
	flag.StringVar(&newEventHex, "new_event", "", "Provide a hex string of "+
		"bytes here, containing a delta time followed by an SMF event to "+
		"insert at the given position. Must not use running status.")
	flag.StringVar(&reassignChannel, "reassign_channel", "", "If provided, "+
		"this must be a comma-separated list of two integers indicating "+
		"channel numbers. Any events in the channel indicated by the first "+
		"number will be modified to happen in the second channel's number "+
		"instead. Uses channel numbers starting from 0.")
	flag.Float64Var(&scaleVelocity, "scale_velocity", -1, "If provided, "+
		"this must be a value between 0.0 and 1.0. The velocity of every "+
		"note-on event in the selected track will be scaled by this amount.")
	flag.BoolVar(&bootsAndCats, "boots_and_cats", false, "If set, this adds "+
		"an extra track to the MIDI file, for added rhythmic emphasis!")
	flag.BoolVar(&deleteEvent, "delete_event", false, "If set, delete the "+
		"event at the specified track and position. No other modifications "+
		"can be made if this is specified.")
	flag.Parse()
	if filename == "" {
		fmt.Printf("Invalid arguments. Run with -help for more information.\n")
		return 1
	}
	data, e := os.ReadFile(filename)
	if e != nil {
		fmt.Printf("Couldn't read %s: %s\n", filename, e)
		return 1
	}
	f, e := smf.Parse(data)
	if e != nil {
		fmt.Printf("Couldn't parse %s: %s\n", filename, e)
		return 1
	}
	fmt.Printf("Parsed %s OK. Contains %d tracks.\n", filename, f.TrackCount())

	if deleteEvent {
		if e = deleteSMFEvent(track, position, f); e != nil {
			fmt.Printf("Failed deleting event: %s\n", e)
			return 1
		}
	}

	if newTimeDelta >= 0 {
		if deleteEvent {
			fmt.Printf("Can't adjust time delta after deleting an event.\n")
			return 1
		}
		if e = adjustTimeDelta(newTimeDelta, track, position, f); e != nil {
			fmt.Printf("Failed adjusting time delta: %s\n", e)
			return 1
		}
	}

	if newEventHex != "" {
		if deleteEvent {
			fmt.Printf("Can't add new event after deleting an event.\n")
			return 1
		}
		if e = insertNewEvent(newEventHex, track, position, f); e != nil {
			fmt.Printf("Failed inserting new event: %s\n", e)
			return 1
		}
	}

	if reassignChannel != "" {
		if deleteEvent {
			fmt.Printf("Can't reassign channels after deleting an event.\n")
			return 1
		}
		if e = reassignChannels(reassignChannel, f); e != nil {
			fmt.Printf("Failed reassigning channel numbers: %s\n", e)
			return 1
		}
	}

	if (scaleVelocity >= 0) && (scaleVelocity <= 1.0) {
		if deleteEvent {
			fmt.Printf("Can't scale velocity after deleting an event.\n")
			return 1
		}
		if e = rescaleVelocity(scaleVelocity, track, f); e != nil {
			fmt.Printf("Failed scaling track velocity: %s\n", e)
			return 1
		}
	}

	if bootsAndCats {
		if deleteEvent {
			fmt.Printf("Can't add an extra track after deleting an event.\n")
			return 1
		}
		if e = addExtraBeats(f); e != nil {
			fmt.Printf("Failed adding extra track: %s\n", e)
			return 1
		}
	}

	if dumpEvents {
		for i := 0; i < f.TrackCount(); i++ {
			t := f.GetTrack(i)
			fmt.Printf("Track %d (%d events):\n", i+1, t.EventCount())
			for j := 0; j < t.EventCount(); j++ {
				ev := t.GetEvent(j)
				fmt.Printf("  %d. Delay %d: %v\n", j+1, ev.Delay(), ev)
			}
		}
	}

	if outputFilename != "" {
		out, e := f.Encode()
		if e != nil {
			fmt.Printf("Error encoding SMF file: %s\n", e)
			return 1
		}
		outFile, e := os.Create(outputFilename)
		if e != nil {
			fmt.Printf("Error creating output file %s: %s\n", outputFilename, e)
			return 1
		}
		defer outFile.Close()
		if _, e = outFile.Write(out); e != nil {
			fmt.Printf("Error writing SMF file: %s\n", e)
			return 1
		}
		fmt.Printf("%s saved OK.\n", outputFilename)
	}
	return 0
}

func main() {
	os.Exit(run())
}
