package marshr

import "fmt"

// IoError wraps a failure from the underlying io.Reader or io.Writer.
// It is returned whenever a primitive read or write fails for reasons
// unrelated to the wire format itself: short reads, closed pipes, disk
// errors.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string { return fmt.Sprintf("marshr: %s: %v", e.Op, e.Err) }
func (e *IoError) Unwrap() error { return e.Err }

func ioErr(op string, err error) error {
	return &IoError{Op: op, Err: err}
}

// ParserError reports a malformed document: an unsupported version, an
// unrecognized tag byte, a back-reference to a slot that was never
// filled, or any other violation of the wire format's grammar.
type ParserError struct {
	Reason string
}

func (e *ParserError) Error() string { return "marshr: parse error: " + e.Reason }

func parserErr(format string, args ...any) error {
	return &ParserError{Reason: fmt.Sprintf(format, args...)}
}

// EncoderError reports a value graph that cannot be legally encoded:
// an out-of-range length, a dangling Uninitialized value that was
// never the target of an earlier back-reference, or a SymbolID/ObjectID
// with no corresponding entry in the Root.
type EncoderError struct {
	Reason string
}

func (e *EncoderError) Error() string { return "marshr: encode error: " + e.Reason }

func encoderErr(format string, args ...any) error {
	return &EncoderError{Reason: fmt.Sprintf(format, args...)}
}

// EncodingError reports a String whose declared text encoding could not
// be honored: a label the IANA index does not recognize, or bytes that are not
// valid under the encoding the String itself claims.
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string { return "marshr: encoding error: " + e.Reason }

func encodingErr(format string, args ...any) error {
	return &EncodingError{Reason: fmt.Sprintf(format, args...)}
}
