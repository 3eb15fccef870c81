package smf

import (
	"fmt"

	"github.com/pkg/errors"
)

// readChunk reads a chunk header (4-byte type tag, 4-byte big-endian length)
// from c and returns a fixed Cursor over exactly the chunk's body, leaving c
// positioned immediately after the chunk. If expectedType is non-empty and
// the chunk's type tag doesn't match it, returns a ParserError. A body shorter
// than the declared length is also a ParserError, wrapping the Overflow.
func readChunk(c *Cursor, expectedType string) (body *Cursor, actualType string, e error) {
	startOffset := c.Tell()
	typeBytes, e := c.ReadBytes(4)
	if e != nil {
		return nil, "", wrap(e, "reading chunk type")
	}
	actualType = string(typeBytes)
	if expectedType != "" && actualType != expectedType {
		return nil, actualType, newParserError(expectedType, actualType, startOffset)
	}
	length, e := c.ReadUint32BE()
	if e != nil {
		return nil, actualType, wrap(e, "reading chunk length")
	}
	bodyStart := c.Tell()
	body, e = c.Slice(int(length))
	if e != nil {
		return nil, actualType, errors.WithStack(&ParserError{
			Actual:   fmt.Sprintf("%d bytes", c.Len()-bodyStart),
			Expected: fmt.Sprintf("%d-byte %s body", length, actualType),
			Byte:     bodyStart,
			cause:    e,
		})
	}
	return body, actualType, nil
}

// writeChunk appends a chunk with the given 4-byte type tag and body to c.
func writeChunk(c *Cursor, chunkType string, body []byte) error {
	if len(chunkType) != 4 {
		return newEncoderError("chunk type %q must be exactly 4 bytes", chunkType)
	}
	if e := c.WriteBytes([]byte(chunkType)); e != nil {
		return e
	}
	if e := c.WriteUint32BE(uint32(len(body))); e != nil {
		return wrap(e, "writing chunk length")
	}
	return c.WriteBytes(body)
}
