package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// An Encoder writes Marshal's primitive encodings to a byte stream. It
// is the symmetric counterpart to Decoder: every sequence an Encoder
// produces, a Decoder reads back unchanged.
type Encoder struct {
	Out io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{Out: w}
}

// Write writes bs as-is, with no framing.
func (e *Encoder) Write(bs []byte) error {
	_, err := e.Out.Write(bs)
	return err
}

// Byte writes a single raw byte.
func (e *Encoder) Byte(b byte) error {
	return e.Write([]byte{b})
}

// FixNum writes n using the variable-length signed encoding described
// in Decoder.FixNum, choosing the shortest legal representation for n.
func (e *Encoder) FixNum(n int32) error {
	switch {
	case n == 0:
		return e.Byte(0)
	case n >= 1 && n <= 122:
		return e.Byte(byte(n + 5))
	case n >= -123 && n <= -1:
		return e.Byte(byte(int8(n - 5)))
	}

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(n))

	if n > 0 {
		count := 4
		for count > 1 && buf[count-1] == 0x00 {
			count--
		}
		if err := e.Byte(byte(count)); err != nil {
			return err
		}
		return e.Write(buf[:count])
	}

	count := 4
	for count > 1 && buf[count-1] == 0xFF {
		count--
	}
	if err := e.Byte(byte(int8(-count))); err != nil {
		return err
	}
	return e.Write(buf[:count])
}

// Bytes writes a fixnum length prefix followed by bs verbatim.
func (e *Encoder) Bytes(bs []byte) error {
	if len(bs) > 0x7FFFFFFF {
		return &FormatError{Reason: fmt.Sprintf("length %d exceeds fixnum range", len(bs))}
	}
	if err := e.FixNum(int32(len(bs))); err != nil {
		return err
	}
	return e.Write(bs)
}
