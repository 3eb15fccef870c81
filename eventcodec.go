package smf

// parseEvent reads one delta-time + event from c, given the running status
// byte in effect at the start of the call (0 meaning "none"). It returns the
// parsed Event and the running status in effect after it, per spec.md §4.4.
func parseEvent(c *Cursor, runningStatus byte) (Event, byte, error) {
	delay, e := readVarInt(c)
	if e != nil {
		return nil, runningStatus, wrap(e, "reading event delta time")
	}

	first, e := c.PeekByte()
	if e != nil {
		return nil, runningStatus, wrap(e, "reading event status byte")
	}

	status := first
	if (first & 0x80) != 0 {
		// A real status byte: consume it. Status bytes >= 0xf0 (meta, sysex)
		// clear any running status; channel events set a new one below.
		if _, e = c.ReadByte(); e != nil {
			return nil, runningStatus, e
		}
		if first >= 0xf0 {
			runningStatus = 0
		}
	} else {
		// A data byte with no status prefix: fall back to running status,
		// and leave the byte itself unconsumed for the channel parser below.
		if runningStatus == 0 {
			return nil, runningStatus, newInvalidEvent(
				"running status without prior status byte (byte %d)", c.Tell())
		}
		status = runningStatus
	}

	switch {
	case status == 0xff:
		ev, e := parseMetaEventBody(c, delay)
		return ev, 0, e

	case status == 0xf0 || status == 0xf7:
		ev, e := parseSysexEventBody(c, delay)
		return ev, 0, e

	case (status>>4) >= 0x8 && (status>>4) <= 0xe:
		ev, newStatus, e := parseChannelEventBody(c, delay, first, status, runningStatus)
		return ev, newStatus, e

	case status >= 0xf1 && status <= 0xf6, status >= 0xf8 && status <= 0xfe:
		return nil, runningStatus, newNotSupported(
			"system-common/realtime status byte 0x%02x inside an SMF track", status)

	default:
		return nil, runningStatus, newInvalidEvent("unknown status byte 0x%02x", status)
	}
}

func parseMetaEventBody(c *Cursor, delay uint32) (Event, error) {
	eventType, e := c.ReadByte()
	if e != nil {
		return nil, wrap(e, "reading meta event type")
	}
	length, e := readVarInt(c)
	if e != nil {
		return nil, wrap(e, "reading meta event length")
	}
	if want, recognized := metaPayloadLengths[eventType]; recognized && int(length) != want {
		return nil, newInvalidEvent("meta event type 0x%02x requires %d bytes "+
			"of data, got %d", eventType, want, length)
	}
	data, e := c.ReadBytes(int(length))
	if e != nil {
		return nil, wrap(e, "reading meta event data")
	}
	ev, e := NewMetaEvent(delay, eventType, data)
	if e != nil {
		return nil, e
	}
	return ev, nil
}

func parseSysexEventBody(c *Cursor, delay uint32) (Event, error) {
	length, e := readVarInt(c)
	if e != nil {
		return nil, wrap(e, "reading sysex length")
	}
	data, e := c.ReadBytes(int(length))
	if e != nil {
		return nil, wrap(e, "reading sysex data")
	}
	ev, e := NewSysexEvent(delay, data)
	if e != nil {
		return nil, e
	}
	return ev, nil
}

func parseChannelEventBody(c *Cursor, delay uint32, firstByte, status, runningStatus byte) (Event, byte, error) {
	eventType := status >> 4
	channel := status & 0xf

	readDataByte := func(alreadyHave *byte) (uint8, error) {
		if alreadyHave != nil {
			// parseEvent only peeked the running-status data byte; consume it.
			if _, e := c.ReadByte(); e != nil {
				return 0, wrap(e, "reading channel event data byte")
			}
			return *alreadyHave, nil
		}
		b, e := c.ReadByte()
		if e != nil {
			return 0, wrap(e, "reading channel event data byte")
		}
		if (b & 0x80) != 0 {
			return 0, newInvalidEvent("channel event data byte 0x%02x has its "+
				"high bit set", b)
		}
		return b, nil
	}

	var param1Source *byte
	if (firstByte & 0x80) == 0 {
		param1Source = &firstByte
	}
	param1, e := readDataByte(param1Source)
	if e != nil {
		return nil, runningStatus, e
	}

	var param2 uint8
	if channelEventHasParam2(eventType) {
		param2, e = readDataByte(nil)
		if e != nil {
			return nil, runningStatus, e
		}
	}

	ev, e := NewChannelEvent(delay, eventType, channel, param1, param2)
	if e != nil {
		return nil, runningStatus, e
	}
	return ev, status, nil
}

// encodeEvent appends the wire form of ev to c, given the running status in
// effect before it. Returns the running status in effect after it.
func encodeEvent(c *Cursor, ev Event, runningStatus byte) (byte, error) {
	if e := writeVarInt(c, ev.Delay()); e != nil {
		return runningStatus, wrap(e, "writing event delta time")
	}

	switch v := ev.(type) {
	case *ChannelEvent:
		status := v.status()
		if status != runningStatus {
			if e := c.WriteByte(status); e != nil {
				return runningStatus, e
			}
			runningStatus = status
		}
		if e := c.WriteByte(v.Param1); e != nil {
			return runningStatus, e
		}
		if channelEventHasParam2(v.Type) {
			if e := c.WriteByte(v.Param2); e != nil {
				return runningStatus, e
			}
		}
		return runningStatus, nil

	case *SysexEvent:
		if e := c.WriteByte(0xf0); e != nil {
			return 0, e
		}
		if e := writeVarInt(c, uint32(len(v.Data))); e != nil {
			return 0, wrap(e, "writing sysex length")
		}
		if e := c.WriteBytes(v.Data); e != nil {
			return 0, e
		}
		return 0, nil

	case *MetaEvent:
		if e := c.WriteByte(0xff); e != nil {
			return 0, e
		}
		if e := c.WriteByte(v.Type); e != nil {
			return 0, e
		}
		if e := writeVarInt(c, uint32(len(v.Data))); e != nil {
			return 0, wrap(e, "writing meta event length")
		}
		if e := c.WriteBytes(v.Data); e != nil {
			return 0, e
		}
		return 0, nil

	default:
		return runningStatus, newEncoderError("unrecognized Event implementation %T", ev)
	}
}

// ParseEvent decodes a single delta-time-prefixed event from data, such as a
// hex-entered event a caller wants to splice into an existing track. data
// must not rely on running status: there is no prior event to carry it from.
func ParseEvent(data []byte) (Event, error) {
	c := NewCursor(data)
	ev, _, e := parseEvent(c, 0)
	if e != nil {
		return nil, e
	}
	if !c.EOF() {
		return nil, newInvalidEvent("event data has %d trailing bytes", c.Len()-c.Tell())
	}
	return ev, nil
}

// EncodeEvent returns the wire form of ev in isolation, as if it were the
// first event in a track (running status starts clear).
func EncodeEvent(ev Event) ([]byte, error) {
	c := NewEncodeCursor()
	if _, e := encodeEvent(c, ev, 0); e != nil {
		return nil, e
	}
	return c.Bytes(), nil
}

// encodedEventLen returns the number of bytes encodeEvent would write for ev
// given runningStatus, without actually encoding it. Used by tests asserting
// that running status strictly shortens output.
func encodedEventLen(ev Event, runningStatus byte) int {
	n := varIntLen(ev.Delay())
	switch v := ev.(type) {
	case *ChannelEvent:
		if v.status() != runningStatus {
			n++
		}
		n++
		if channelEventHasParam2(v.Type) {
			n++
		}
	case *SysexEvent:
		n += 1 + varIntLen(uint32(len(v.Data))) + len(v.Data)
	case *MetaEvent:
		n += 2 + varIntLen(uint32(len(v.Data))) + len(v.Data)
	}
	return n
}
