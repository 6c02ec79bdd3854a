// Package wire implements the primitive byte-level codec that
// Marshal's tag-dispatch layer is built on: the variable-length signed
// "fixnum" integer packing and the length-prefixed byte sequences used
// for strings, symbols, and other raw byte payloads.
//
// Nothing in this package understands tags, objects, or references;
// it only knows how to turn bytes into numbers and back.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// FormatError reports that a length prefix violates the wire format's
// own constraints (negative, or exceeding what a fixnum can encode),
// as distinct from an I/O failure on the underlying reader or writer.
// Callers that need to tell the two apart can do so with errors.As.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string { return "wire: " + e.Reason }

// A Decoder reads Marshal's primitive encodings off a byte stream. It
// keeps no buffering state beyond what io.Reader itself buffers, so it
// composes directly with bufio.Reader when that matters to a caller.
type Decoder struct {
	In io.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{In: r}
}

// Read reads exactly n bytes, with no framing.
func (d *Decoder) Read(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	bs := make([]byte, n)
	if _, err := io.ReadFull(d.In, bs); err != nil {
		return nil, err
	}
	return bs, nil
}

// Byte reads a single raw byte.
func (d *Decoder) Byte() (byte, error) {
	bs, err := d.Read(1)
	if err != nil {
		return 0, err
	}
	return bs[0], nil
}

// FixNum reads one variable-length signed integer.
//
// Encoding, by leading byte c (interpreted as signed):
//   - c == 0: value is 0.
//   - 5 <= c <= 127: value is c-5.
//   - -128 <= c <= -5: value is c+5.
//   - 1 <= c <= 4: value is the c-byte little-endian unsigned payload
//     that follows.
//   - -4 <= c <= -1: value is the |c|-byte little-endian payload that
//     follows, sign-extended to 32 bits (i.e. the payload is the
//     two's-complement representation of a negative value, truncated
//     to |c| bytes).
func (d *Decoder) FixNum() (int32, error) {
	c, err := d.Byte()
	if err != nil {
		return 0, err
	}
	s := int8(c)
	switch {
	case s == 0:
		return 0, nil
	case s > 4:
		return int32(s) - 5, nil
	case s < -4:
		return int32(s) + 5, nil
	}

	n := int(s)
	neg := n < 0
	if neg {
		n = -n
	}
	bs, err := d.Read(n)
	if err != nil {
		return 0, err
	}
	var buf [4]byte
	if neg {
		buf = [4]byte{0xFF, 0xFF, 0xFF, 0xFF}
	}
	copy(buf[:], bs)
	return int32(binary.LittleEndian.Uint32(buf[:])), nil
}

// Bytes reads a fixnum length prefix followed by that many raw bytes.
// This is the wire shape shared by symbols, strings, and the other
// raw byte payloads. Bignum digits do not use it: their prefix counts
// 16-bit words, not bytes.
func (d *Decoder) Bytes() ([]byte, error) {
	n, err := d.FixNum()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, &FormatError{Reason: fmt.Sprintf("negative length %d", n)}
	}
	return d.Read(int(n))
}
