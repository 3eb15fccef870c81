package smf

import (
	"math"
)

// Cursor is a positioned view over a contiguous byte buffer. Reads advance
// the position and fail with an Overflow error if they would cross the end
// of the buffer. A Cursor used for parsing wraps a fixed-size slice; a Cursor
// used for encoding wraps a buffer that grows on every write. Both share the
// same type so the event/chunk/track codecs can be written once and reused
// for both directions.
type Cursor struct {
	buf      []byte
	position int64
	growable bool
}

// NewCursor returns a fixed-size Cursor over buf, for parsing. Reads beyond
// len(buf) fail with Overflow; the Cursor never grows buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// NewEncodeCursor returns an empty, growable Cursor suitable for building up
// an encoded buffer with Write* calls. Bytes() returns the accumulated
// output.
func NewEncodeCursor() *Cursor {
	return &Cursor{buf: make([]byte, 0, 64), growable: true}
}

// Bytes returns the portion of the underlying buffer from the start up to
// (but not including) the current position, for a growable Cursor, or the
// entire backing buffer for a fixed one.
func (c *Cursor) Bytes() []byte {
	if c.growable {
		return c.buf[:c.position]
	}
	return c.buf
}

// Len returns the size of the backing buffer.
func (c *Cursor) Len() int64 { return int64(len(c.buf)) }

// Tell returns the current position.
func (c *Cursor) Tell() int64 { return c.position }

// Seek moves the position to an absolute offset. It does not validate the
// offset against the buffer size; an out-of-range position will be caught by
// the next read or write.
func (c *Cursor) Seek(position int64) { c.position = position }

// EOF reports whether the position has reached the end of a fixed buffer.
// Always false for a growable (encoding) Cursor.
func (c *Cursor) EOF() bool {
	if c.growable {
		return false
	}
	return c.position >= int64(len(c.buf))
}

func (c *Cursor) ensureReadable(n int) error {
	if c.position < 0 || c.position+int64(n) > int64(len(c.buf)) {
		return newOverflow(n, c.position, int64(len(c.buf)))
	}
	return nil
}

func (c *Cursor) ensureWritable(n int) {
	needed := c.position + int64(n)
	if needed <= int64(len(c.buf)) {
		return
	}
	grown := make([]byte, needed)
	copy(grown, c.buf)
	c.buf = grown
}

// PeekByte returns the byte at the current position without advancing it.
func (c *Cursor) PeekByte() (byte, error) {
	if e := c.ensureReadable(1); e != nil {
		return 0, e
	}
	return c.buf[c.position], nil
}

// ReadByte reads and returns a single unsigned byte, advancing the position.
func (c *Cursor) ReadByte() (byte, error) {
	b, e := c.PeekByte()
	if e != nil {
		return 0, e
	}
	c.position++
	return b, nil
}

// WriteByte appends a single byte, advancing the position.
func (c *Cursor) WriteByte(b byte) error {
	c.ensureWritable(1)
	c.buf[c.position] = b
	c.position++
	return nil
}

// ReadBytes reads and returns the next n bytes as a fresh slice, advancing
// the position by n.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if e := c.ensureReadable(n); e != nil {
		return nil, e
	}
	out := make([]byte, n)
	copy(out, c.buf[c.position:c.position+int64(n)])
	c.position += int64(n)
	return out, nil
}

// WriteBytes appends data verbatim, advancing the position by len(data).
func (c *Cursor) WriteBytes(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	c.ensureWritable(len(data))
	copy(c.buf[c.position:], data)
	c.position += int64(len(data))
	return nil
}

// Slice returns a new, fixed Cursor over the next n bytes of this Cursor,
// advancing this Cursor's position by n. Used to hand a chunk's body to a
// nested codec without letting it read past the chunk's declared length.
func (c *Cursor) Slice(n int) (*Cursor, error) {
	data, e := c.ReadBytes(n)
	if e != nil {
		return nil, e
	}
	return NewCursor(data), nil
}

func (c *Cursor) ReadUint8() (uint8, error) { return c.ReadByte() }

func (c *Cursor) WriteUint8(v uint8) error { return c.WriteByte(v) }

func (c *Cursor) ReadInt8() (int8, error) {
	v, e := c.ReadByte()
	return int8(v), e
}

func (c *Cursor) WriteInt8(v int8) error { return c.WriteByte(byte(v)) }

func (c *Cursor) ReadUint16BE() (uint16, error) {
	b, e := c.ReadBytes(2)
	if e != nil {
		return 0, e
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func (c *Cursor) WriteUint16BE(v uint16) error {
	return c.WriteBytes([]byte{byte(v >> 8), byte(v)})
}

func (c *Cursor) ReadUint16LE() (uint16, error) {
	b, e := c.ReadBytes(2)
	if e != nil {
		return 0, e
	}
	return uint16(b[1])<<8 | uint16(b[0]), nil
}

func (c *Cursor) WriteUint16LE(v uint16) error {
	return c.WriteBytes([]byte{byte(v), byte(v >> 8)})
}

func (c *Cursor) ReadInt16BE() (int16, error) {
	v, e := c.ReadUint16BE()
	return int16(v), e
}

func (c *Cursor) WriteInt16BE(v int16) error { return c.WriteUint16BE(uint16(v)) }

func (c *Cursor) ReadInt16LE() (int16, error) {
	v, e := c.ReadUint16LE()
	return int16(v), e
}

func (c *Cursor) WriteInt16LE(v int16) error { return c.WriteUint16LE(uint16(v)) }

func (c *Cursor) ReadUint32BE() (uint32, error) {
	b, e := c.ReadBytes(4)
	if e != nil {
		return 0, e
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

func (c *Cursor) WriteUint32BE(v uint32) error {
	return c.WriteBytes([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

func (c *Cursor) ReadUint32LE() (uint32, error) {
	b, e := c.ReadBytes(4)
	if e != nil {
		return 0, e
	}
	return uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0]), nil
}

func (c *Cursor) WriteUint32LE(v uint32) error {
	return c.WriteBytes([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

func (c *Cursor) ReadInt32BE() (int32, error) {
	v, e := c.ReadUint32BE()
	return int32(v), e
}

func (c *Cursor) WriteInt32BE(v int32) error { return c.WriteUint32BE(uint32(v)) }

func (c *Cursor) ReadInt32LE() (int32, error) {
	v, e := c.ReadUint32LE()
	return int32(v), e
}

func (c *Cursor) WriteInt32LE(v int32) error { return c.WriteUint32LE(uint32(v)) }

// ReadFloat32BE and the other float variants round out the positioned-buffer
// abstraction described by the codec design; the SMF codec itself never
// carries floating point fields, but the Cursor is a general-purpose binary
// reader/writer and other callers embedding it shouldn't need a second type.
func (c *Cursor) ReadFloat32BE() (float32, error) {
	v, e := c.ReadUint32BE()
	return math.Float32frombits(v), e
}

func (c *Cursor) WriteFloat32BE(v float32) error {
	return c.WriteUint32BE(math.Float32bits(v))
}

func (c *Cursor) ReadFloat32LE() (float32, error) {
	v, e := c.ReadUint32LE()
	return math.Float32frombits(v), e
}

func (c *Cursor) WriteFloat32LE(v float32) error {
	return c.WriteUint32LE(math.Float32bits(v))
}

func (c *Cursor) ReadFloat64BE() (float64, error) {
	hi, e := c.ReadUint32BE()
	if e != nil {
		return 0, e
	}
	lo, e := c.ReadUint32BE()
	if e != nil {
		return 0, e
	}
	return math.Float64frombits(uint64(hi)<<32 | uint64(lo)), nil
}

func (c *Cursor) WriteFloat64BE(v float64) error {
	bits := math.Float64bits(v)
	if e := c.WriteUint32BE(uint32(bits >> 32)); e != nil {
		return e
	}
	return c.WriteUint32BE(uint32(bits))
}

func (c *Cursor) ReadFloat64LE() (float64, error) {
	lo, e := c.ReadUint32LE()
	if e != nil {
		return 0, e
	}
	hi, e := c.ReadUint32LE()
	if e != nil {
		return 0, e
	}
	return math.Float64frombits(uint64(hi)<<32 | uint64(lo)), nil
}

func (c *Cursor) WriteFloat64LE(v float64) error {
	bits := math.Float64bits(v)
	if e := c.WriteUint32LE(uint32(bits)); e != nil {
		return e
	}
	return c.WriteUint32LE(uint32(bits >> 32))
}
