package marshr

import (
	"unicode/utf8"

	"github.com/creachadair/mds/value"
	"golang.org/x/text/encoding/ianaindex"
)

// Text decodes a String object's raw bytes to a Go string, following
// the encoding convention Ruby attaches to marshaled strings: an "E"
// instance variable selects UTF-8 (true) or US-ASCII (false), and an
// "encoding" instance variable (itself a String) names an encoding to
// look up instead. That name is resolved against the IANA index of
// names and aliases only; a label that only the WHATWG registry lists
// is not recognized and returns EncodingError. A String with neither
// ivar is binary data with no text interpretation and returns
// EncodingError.
func (r *Root) Text(id ObjectID) (string, error) {
	obj, ok := r.Object(id)
	if !ok || obj.Kind != ObjString {
		return "", encodingErr("object %d is not a String", id)
	}
	return r.decodeText(obj)
}

func (r *Root) decodeText(obj Object) (string, error) {
	label, ok := r.textLabel(obj).GetOK()
	if !ok {
		return "", encodingErr("string has no E or encoding instance variable; treat as binary")
	}

	switch name := label; name {
	case "UTF-8":
		if !utf8.Valid(obj.Bytes) {
			return "", encodingErr("invalid UTF-8 in string marked as UTF-8")
		}
		return string(obj.Bytes), nil
	case "US-ASCII":
		for _, b := range obj.Bytes {
			if b > 0x7F {
				return "", encodingErr("invalid US-ASCII byte 0x%02x", b)
			}
		}
		return string(obj.Bytes), nil
	default:
		enc, err := ianaindex.IANA.Encoding(name)
		if err != nil || enc == nil {
			return "", encodingErr("unrecognized text encoding %q", name)
		}
		out, err := enc.NewDecoder().Bytes(obj.Bytes)
		if err != nil {
			return "", encodingErr("decoding %q text: %v", name, err)
		}
		return string(out), nil
	}
}

// textLabel extracts the encoding label a String's ivars designate,
// without attempting to decode anything yet: "E" maps to the two
// built-in labels Ruby shortcuts to, "encoding" carries an arbitrary
// label as a nested String object.
func (r *Root) textLabel(obj Object) value.Maybe[string] {
	for _, iv := range obj.IVars {
		name, ok := r.Symbol(iv.Name)
		if !ok {
			continue
		}
		switch name {
		case "E":
			if b, ok := iv.Value.Bool(); ok {
				if b {
					return value.Just("UTF-8")
				}
				return value.Just("US-ASCII")
			}
		case "encoding":
			encID, ok := iv.Value.ObjectID()
			if !ok {
				continue
			}
			encObj, ok := r.Object(encID)
			if !ok || encObj.Kind != ObjString {
				continue
			}
			return value.Just(string(encObj.Bytes))
		}
	}
	return value.Absent[string]()
}
