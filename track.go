package smf

// Track is an ordered sequence of Events. A well-formed Track's last event
// is always a MetaEvent of type MetaEndOfTrack; the parser enforces this
// when reading, and the encoder guarantees it by appending one if it's
// missing.
type Track struct {
	Events []Event
}

// NewTrack builds a Track from events, appending an End-of-Track event with
// delay 0 if one isn't already present as the last event.
func NewTrack(events []Event) *Track {
	t := &Track{Events: append([]Event(nil), events...)}
	t.ensureEndOfTrack()
	return t
}

func (t *Track) ensureEndOfTrack() {
	if len(t.Events) > 0 {
		if m, ok := t.Events[len(t.Events)-1].(*MetaEvent); ok && m.IsEndOfTrack() {
			return
		}
	}
	t.Events = append(t.Events, NewEndOfTrackEvent(0))
}

// EventCount returns the number of events in the track, including the
// terminal End-of-Track event.
func (t *Track) EventCount() int { return len(t.Events) }

// GetEvent returns the event at index i, or nil if i is out of range.
func (t *Track) GetEvent(i int) Event {
	if i < 0 || i >= len(t.Events) {
		return nil
	}
	return t.Events[i]
}

// AddEvent inserts ev at index, or appends it if index is negative. Inserting
// after the current End-of-Track event is rejected: End-of-Track must remain
// the last event in the track.
func (t *Track) AddEvent(index int, ev Event) error {
	if index < 0 {
		index = len(t.Events)
	}
	if index > len(t.Events) {
		return newInvalidArgument("event index %d is out of range for a "+
			"track with %d events", index, len(t.Events))
	}
	if index == len(t.Events) && len(t.Events) > 0 {
		if m, ok := t.Events[len(t.Events)-1].(*MetaEvent); ok && m.IsEndOfTrack() {
			return newInvalidArgument("can't append after the track's " +
				"End-of-Track event")
		}
	}
	t.Events = append(t.Events, nil)
	copy(t.Events[index+1:], t.Events[index:])
	t.Events[index] = ev
	return nil
}

// RemoveEvent removes the event at index, or the last event if index is
// negative. Removing the final End-of-Track event is rejected; construct a
// new Track with NewTrack if the whole event list needs to change.
func (t *Track) RemoveEvent(index int) error {
	if len(t.Events) == 0 {
		return newInvalidArgument("can't remove an event from an empty track")
	}
	if index < 0 {
		index = len(t.Events) - 1
	}
	if index < 0 || index >= len(t.Events) {
		return newInvalidArgument("event index %d is out of range for a "+
			"track with %d events", index, len(t.Events))
	}
	if index == len(t.Events)-1 {
		if m, ok := t.Events[index].(*MetaEvent); ok && m.IsEndOfTrack() {
			return newInvalidArgument("can't remove the track's " +
				"End-of-Track event")
		}
	}
	t.Events = append(t.Events[:index], t.Events[index+1:]...)
	return nil
}

// parseTrack reads one MTrk chunk from c, returning the decoded Track. The
// final event must be an End-of-Track meta event.
func parseTrack(c *Cursor) (*Track, error) {
	body, _, e := readChunk(c, "MTrk")
	if e != nil {
		return nil, e
	}
	events := make([]Event, 0, body.Len()/3)
	runningStatus := byte(0)
	for !body.EOF() {
		var ev Event
		ev, runningStatus, e = parseEvent(body, runningStatus)
		if e != nil {
			return nil, wrap(e, "parsing track event %d", len(events))
		}
		events = append(events, ev)
		if m, ok := ev.(*MetaEvent); ok && m.IsEndOfTrack() {
			if !body.EOF() {
				return nil, newInvalidEvent("End-of-Track event is not the " +
					"last event in the track")
			}
			break
		}
	}
	if len(events) == 0 {
		return nil, newInvalidEvent("track chunk ended before an " +
			"End-of-Track event was read")
	}
	if last, ok := events[len(events)-1].(*MetaEvent); !ok || !last.IsEndOfTrack() {
		return nil, newInvalidEvent("track chunk ended before an " +
			"End-of-Track event was read")
	}
	return &Track{Events: events}, nil
}

// encodeTrack serializes t's events (resetting running status at the start)
// into an MTrk chunk appended to c. Appends an End-of-Track event first if
// t's event list doesn't already end with one.
func encodeTrack(c *Cursor, t *Track) error {
	t.ensureEndOfTrack()
	body := NewEncodeCursor()
	runningStatus := byte(0)
	for i, ev := range t.Events {
		var e error
		runningStatus, e = encodeEvent(body, ev, runningStatus)
		if e != nil {
			return wrap(e, "encoding track event %d", i)
		}
	}
	return writeChunk(c, "MTrk", body.Bytes())
}
