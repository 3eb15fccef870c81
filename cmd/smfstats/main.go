// This defines a command-line utility for gathering information about which
// program numbers are used by a directory of standard MIDI files. It is
// deliberately a consumer of the codec's ChannelEvent model only — it reports
// raw program numbers, not instrument names, since resolving a program
// number to a General-MIDI instrument name is the out-of-scope lookup table
// collaborator described alongside this codec.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kestrelmidi/smf"
)

// instrumentStats keeps a running event count for each of the 128 MIDI
// program numbers, plus a separate count for percussion (channel 9) notes,
// keyed by note number rather than program number.
type instrumentStats struct {
	eventCounts           [128]uint64
	percussionEventCounts [128]uint64
}

func (s *instrumentStats) printInfo() {
	for i := 0; i < 128; i++ {
		if s.eventCounts[i] == 0 {
			continue
		}
		fmt.Printf("Program %d: %d note-on events.\n", i, s.eventCounts[i])
	}
	for i := 0; i < 128; i++ {
		if s.percussionEventCounts[i] == 0 {
			continue
		}
		fmt.Printf("Percussion note %d: %d events.\n", i, s.percussionEventCounts[i])
	}
}

// addFile parses the named SMF file and adds its note-on events to the
// running totals, tracking the most recent program-change seen on each
// channel so a later note-on can be attributed to the right program.
func (s *instrumentStats) addFile(name string) error {
	data, e := os.ReadFile(name)
	if e != nil {
		return fmt.Errorf("failed reading %s: %w", name, e)
	}
	f, e := smf.Parse(data)
	if e != nil {
		return fmt.Errorf("failed parsing %s: %w", name, e)
	}
	var channelPrograms [16]uint8
	for i := 0; i < f.TrackCount(); i++ {
		track := f.GetTrack(i)
		// Program assignments don't carry across tracks in this tool's
		// model; each track starts from program 0 on every channel.
		for c := range channelPrograms {
			channelPrograms[c] = 0
		}
		for j := 0; j < track.EventCount(); j++ {
			ce, ok := track.GetEvent(j).(*smf.ChannelEvent)
			if !ok {
				continue
			}
			switch ce.Type {
			case smf.ProgramChange:
				channelPrograms[ce.Channel] = ce.Param1
			case smf.NoteOn:
				if ce.Param2 == 0 {
					// Note-on with velocity 0 is a note-off in disguise.
					continue
				}
				if ce.Channel == 9 {
					s.percussionEventCounts[ce.Param1]++
				} else {
					s.eventCounts[channelPrograms[ce.Channel]]++
				}
			}
		}
	}
	return nil
}

func run() int {
	var baseDir string
	flag.StringVar(&baseDir, "dir", "", "The directory to scan for .mid files")
	flag.Parse()
	if baseDir == "" {
		fmt.Println("A base directory must be specified. Run with -help for usage.")
		return 1
	}
	filenames, e := filepath.Glob(filepath.Join(baseDir, "*.mid"))
	if e != nil {
		fmt.Printf("Failed looking up MIDI files in dir %s: %s\n", baseDir, e)
		return 1
	}
	if len(filenames) == 0 {
		fmt.Printf("Didn't find any MIDI (.mid) files in dir %s.\n", baseDir)
		return 1
	}
	stats := &instrumentStats{}
	for i, name := range filenames {
		fmt.Printf("Scanning file %d/%d: %s\n", i+1, len(filenames), name)
		if e = stats.addFile(name); e != nil {
			fmt.Printf("Failed analyzing file %s: %s\n", name, e)
		}
	}
	stats.printInfo()
	return 0
}

func main() {
	os.Exit(run())
}
