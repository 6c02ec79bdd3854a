package marshr

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"math"

	"github.com/simplepad/marshr/internal/wire"
)

const debugDecode = false

func debugDecodef(msg string, args ...any) {
	if !debugDecode {
		return
	}
	log.Printf(msg, args...)
}

// Decoder reads one Marshal (4.8) document from an underlying
// io.Reader. A Decoder may be invoked repeatedly on the same source
// to read successive documents one after another; it keeps no state
// between calls to Decode.
type Decoder struct {
	r *wire.Decoder

	syms    []SymbolID
	root    *Root
	pending map[ObjectID]bool
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: wire.NewDecoder(r)}
}

// wireErr classifies an error from the underlying wire.Decoder: a
// wire.FormatError means the bytes were read fine but don't conform to
// the format (a ParserError), anything else is a genuine I/O failure.
func wireErr(op string, err error) error {
	var fe *wire.FormatError
	if errors.As(err, &fe) {
		return parserErr("%s: %s", op, fe.Reason)
	}
	return ioErr(op, err)
}

// readLength reads a fixnum expected to be a non-negative length or
// count (an array/hash/struct size, a bignum word count, an ivar
// count). what names the field in the resulting ParserError.
func (d *Decoder) readLength(what string) (int, error) {
	n, err := d.r.FixNum()
	if err != nil {
		return 0, wireErr("read "+what, err)
	}
	if n < 0 {
		return 0, parserErr("%s is negative: %d", what, n)
	}
	return int(n), nil
}

// Decode reads the package preamble and a single top-level value.
func Decode(r io.Reader) (*Root, error) {
	return NewDecoder(r).Decode()
}

// DecodeAll reads successive Marshal documents from r until it
// encounters end of stream at a document boundary. A truncated final
// document (end of stream partway through a preamble or value) is
// reported as an error, not silently dropped: DecodeAll only treats
// the stream as exhausted when zero bytes remain at the point a new
// document would start.
func DecodeAll(r io.Reader) ([]*Root, error) {
	br := bufio.NewReader(r)
	var roots []*Root
	for {
		if _, err := br.Peek(1); err != nil {
			if err == io.EOF {
				return roots, nil
			}
			return roots, ioErr("peek", err)
		}
		root, err := Decode(br)
		if err != nil {
			return roots, err
		}
		roots = append(roots, root)
	}
}

func (d *Decoder) Decode() (*Root, error) {
	if err := d.preamble(); err != nil {
		return nil, err
	}
	d.root = newRoot()
	d.syms = nil
	d.pending = map[ObjectID]bool{}
	v, err := d.value()
	if err != nil {
		return nil, err
	}
	d.root.root = v
	return d.root, nil
}

func (d *Decoder) preamble() error {
	bs, err := d.r.Read(2)
	if err != nil {
		return ioErr("read preamble", err)
	}
	if bs[0] > 4 || bs[1] > 8 {
		return parserErr("unsupported Marshal version %d.%d (want 4.8)", bs[0], bs[1])
	}
	return nil
}

// tag bytes, per the format's single-byte type dispatch.
const (
	tagNil           = '0'
	tagTrue          = 'T'
	tagFalse         = 'F'
	tagFixNum        = 'i'
	tagSymbol        = ':'
	tagSymbolRef     = ';'
	tagArray         = '['
	tagHash          = '{'
	tagHashDefault   = '}'
	tagFloat         = 'f'
	tagBigNum        = 'l'
	tagClass         = 'c'
	tagModule        = 'm'
	tagClassOrModule = 'M'
	tagString        = '"'
	tagRegExp        = '/'
	tagStruct        = 'S'
	tagObject        = 'o'
	tagUserClass     = 'C'
	tagUserDefined   = 'u'
	tagUserMarshal   = 'U'
	tagObjectRef     = '@'
	tagIVar          = 'I'
)

func (d *Decoder) value() (Value, error) {
	t, err := d.r.Byte()
	if err != nil {
		return Value{}, ioErr("read tag", err)
	}
	debugDecodef("tag %q", t)

	switch t {
	case tagNil:
		return NilValue(), nil
	case tagTrue:
		return BoolValue(true), nil
	case tagFalse:
		return BoolValue(false), nil
	case tagFixNum:
		n, err := d.r.FixNum()
		if err != nil {
			return Value{}, ioErr("read fixnum", err)
		}
		return FixNumValue(n), nil
	case tagSymbol:
		return d.newSymbol()
	case tagSymbolRef:
		return d.symbolRef()
	case tagArray:
		return d.array()
	case tagHash:
		return d.hash(false)
	case tagHashDefault:
		return d.hash(true)
	case tagFloat:
		return d.float()
	case tagBigNum:
		return d.bignum()
	case tagClass:
		return d.classLike(KindClass, ObjClass)
	case tagModule:
		return d.classLike(KindModule, ObjModule)
	case tagClassOrModule:
		return d.classLike(KindClassOrModule, ObjClassOrModule)
	case tagString:
		return d.rawString()
	case tagRegExp:
		return d.regexp()
	case tagStruct:
		return d.structValue()
	case tagObject:
		return d.object()
	case tagUserClass:
		return d.userClass()
	case tagUserDefined:
		return d.userDefined()
	case tagUserMarshal:
		return d.userMarshal()
	case tagObjectRef:
		return d.objectRef()
	case tagIVar:
		return d.withIVars()
	default:
		return Value{}, parserErr("unrecognized tag byte %q (0x%02x)", rune(t), t)
	}
}

func (d *Decoder) newSymbol() (Value, error) {
	bs, err := d.r.Bytes()
	if err != nil {
		return Value{}, wireErr("read symbol", err)
	}
	id := d.root.internSymbol(string(bs))
	d.syms = append(d.syms, id)
	return SymbolValue(id), nil
}

func (d *Decoder) symbolRef() (Value, error) {
	idx, err := d.r.FixNum()
	if err != nil {
		return Value{}, ioErr("read symbol back-reference", err)
	}
	if int(idx) < 0 || int(idx) >= len(d.syms) {
		return Value{}, parserErr("symbol back-reference %d out of range", idx)
	}
	return SymbolValue(d.syms[idx]), nil
}

func (d *Decoder) objectRef() (Value, error) {
	idx, err := d.r.FixNum()
	if err != nil {
		return Value{}, ioErr("read object back-reference", err)
	}
	id := ObjectID(idx)
	obj, ok := d.root.Object(id)
	if !ok {
		return Value{}, parserErr("object back-reference %d out of range", idx)
	}
	if obj.Kind == ObjEmpty {
		// A back-reference to a slot that's still Empty is only valid
		// as a self-reference reached while that slot's own children
		// are still being decoded (the "pending" set below). Anything
		// else means the document tried to reference an object before
		// it was ever written, which is malformed.
		if !d.pending[id] {
			return Value{}, parserErr("object back-reference %d refers to an unfilled slot", idx)
		}
		return UninitializedValue(id), nil
	}
	return refValue(obj.Kind.valueKind(), id), nil
}

func (d *Decoder) array() (Value, error) {
	id := d.root.allocSlot()
	d.pending[id] = true
	n, err := d.readLength("array length")
	if err != nil {
		return Value{}, err
	}
	elems := make([]Value, n)
	for i := range elems {
		v, err := d.value()
		if err != nil {
			return Value{}, err
		}
		elems[i] = v
	}
	delete(d.pending, id)
	d.root.fill(id, Object{Kind: ObjArray, Elems: elems})
	return ArrayValue(id), nil
}

func (d *Decoder) hash(withDefault bool) (Value, error) {
	id := d.root.allocSlot()
	d.pending[id] = true
	n, err := d.readLength("hash length")
	if err != nil {
		return Value{}, err
	}
	pairs := make([]HashPair, n)
	for i := range pairs {
		k, err := d.value()
		if err != nil {
			return Value{}, err
		}
		v, err := d.value()
		if err != nil {
			return Value{}, err
		}
		pairs[i] = HashPair{Key: k, Value: v}
	}
	obj := Object{Kind: ObjHash, Pairs: pairs}
	if withDefault {
		obj.Kind = ObjHashWithDefault
		def, err := d.value()
		if err != nil {
			return Value{}, err
		}
		obj.Default = def
	}
	delete(d.pending, id)
	d.root.fill(id, obj)
	return HashValue(id), nil
}

func (d *Decoder) float() (Value, error) {
	bs, err := d.r.Bytes()
	if err != nil {
		return Value{}, wireErr("read float", err)
	}
	f, err := parseRubyFloat(string(bs))
	if err != nil {
		return Value{}, parserErr("invalid float literal %q: %v", bs, err)
	}
	id := d.root.allocSlot()
	d.root.fill(id, Object{Kind: ObjFloat, Float: f})
	return FloatValue(id), nil
}

func (d *Decoder) bignum() (Value, error) {
	sign, err := d.r.Byte()
	if err != nil {
		return Value{}, ioErr("read bignum sign", err)
	}
	if sign != '+' && sign != '-' {
		return Value{}, parserErr("invalid bignum sign byte %q", sign)
	}
	nwords, err := d.readLength("bignum word count")
	if err != nil {
		return Value{}, err
	}
	digits, err := d.r.Read(nwords * 2)
	if err != nil {
		return Value{}, ioErr("read bignum digits", err)
	}
	var mag uint64
	for i := 0; i < len(digits); i += 2 {
		word := uint64(digits[i]) | uint64(digits[i+1])<<8
		mag |= word << (8 * uint(i))
	}
	// Widths beyond 64 bits overflow silently, matching the original
	// implementation's unchecked accumulation.
	n := int64(mag)
	if sign == '-' {
		n = -n
	}
	id := d.root.allocSlot()
	d.root.fill(id, Object{Kind: ObjBigNum, Big: n})
	return BigNumValue(id), nil
}

// readSymbol reads a value known to be a Symbol: the class-name field
// of Struct/Object/UserClass/UserDefined/UserMarshal, and a Struct's
// slot names, share the same symbol table (and so the same
// back-reference mechanism, tags ':' and ';') as ordinary Symbol
// values, rather than being written as plain length-prefixed bytes
// every time they repeat.
func (d *Decoder) readSymbol(what string) (SymbolID, error) {
	v, err := d.value()
	if err != nil {
		return 0, err
	}
	id, ok := v.SymbolID()
	if !ok {
		return 0, parserErr("%s is not a Symbol", what)
	}
	return id, nil
}

// classLike decodes the 'c'/'m'/'M' tags. Unlike Struct/Object/
// UserClass/UserDefined/UserMarshal, a class or module name is written
// as a plain length-prefixed byte sequence, not through the symbol
// table: it never back-references an earlier occurrence.
func (d *Decoder) classLike(vk ValueKind, ok ObjectKind) (Value, error) {
	name, err := d.r.Bytes()
	if err != nil {
		return Value{}, wireErr("read class/module name", err)
	}
	id := d.root.allocSlot()
	d.root.fill(id, Object{Kind: ok, Bytes: name})
	return refValue(vk, id), nil
}

func (d *Decoder) rawString() (Value, error) {
	bs, err := d.r.Bytes()
	if err != nil {
		return Value{}, wireErr("read string", err)
	}
	id := d.root.allocSlot()
	d.root.fill(id, Object{Kind: ObjString, Bytes: bs})
	return StringValue(id), nil
}

func (d *Decoder) regexp() (Value, error) {
	bs, err := d.r.Bytes()
	if err != nil {
		return Value{}, wireErr("read regexp source", err)
	}
	opts, err := d.r.Byte()
	if err != nil {
		return Value{}, ioErr("read regexp options", err)
	}
	id := d.root.allocSlot()
	d.root.fill(id, Object{Kind: ObjRegExp, Bytes: bs, Opts: opts})
	return RegExpValue(id), nil
}

func (d *Decoder) structValue() (Value, error) {
	id := d.root.allocSlot()
	d.pending[id] = true
	name, err := d.readSymbol("struct class name")
	if err != nil {
		return Value{}, err
	}
	n, err := d.readLength("struct member count")
	if err != nil {
		return Value{}, err
	}
	members := make([]MemberPair, n)
	for i := range members {
		slot, err := d.readSymbol("struct slot name")
		if err != nil {
			return Value{}, err
		}
		v, err := d.value()
		if err != nil {
			return Value{}, err
		}
		members[i] = MemberPair{Slot: slot, Value: v}
	}
	delete(d.pending, id)
	d.root.fill(id, Object{Kind: ObjStruct, Name: name, Members: members})
	return StructValue(id), nil
}

func (d *Decoder) object() (Value, error) {
	id := d.root.allocSlot()
	d.pending[id] = true
	name, err := d.readSymbol("object class name")
	if err != nil {
		return Value{}, err
	}
	ivars, err := d.ivarPairs()
	if err != nil {
		return Value{}, err
	}
	delete(d.pending, id)
	d.root.fill(id, Object{Kind: ObjObject, Name: name, IVars: ivars})
	return ObjectValue(id), nil
}

func (d *Decoder) userClass() (Value, error) {
	id := d.root.allocSlot()
	d.pending[id] = true
	name, err := d.readSymbol("user class name")
	if err != nil {
		return Value{}, err
	}
	wrapped, err := d.value()
	if err != nil {
		return Value{}, err
	}
	delete(d.pending, id)
	d.root.fill(id, Object{Kind: ObjUserClass, Name: name, Wrapped: wrapped})
	return UserClassValue(id), nil
}

func (d *Decoder) userDefined() (Value, error) {
	name, err := d.readSymbol("user-defined class name")
	if err != nil {
		return Value{}, err
	}
	payload, err := d.r.Bytes()
	if err != nil {
		return Value{}, wireErr("read user-defined payload", err)
	}
	id := d.root.allocSlot()
	d.root.fill(id, Object{Kind: ObjUserDefined, Name: name, Bytes: payload})
	return UserDefinedValue(id), nil
}

func (d *Decoder) userMarshal() (Value, error) {
	id := d.root.allocSlot()
	d.pending[id] = true
	name, err := d.readSymbol("user_marshal class name")
	if err != nil {
		return Value{}, err
	}
	wrapped, err := d.value()
	if err != nil {
		return Value{}, err
	}
	delete(d.pending, id)
	d.root.fill(id, Object{Kind: ObjUserMarshal, Name: name, Wrapped: wrapped})
	return UserMarshalValue(id), nil
}

// withIVars decodes the 'I' wrapper: an inner value (always a String,
// RegExp, UserClass, or UserDefined per the format) followed by a list
// of instance variables attached to it.
func (d *Decoder) withIVars() (Value, error) {
	inner, err := d.value()
	if err != nil {
		return Value{}, err
	}
	switch inner.Kind() {
	case KindString, KindRegExp, KindUserClass, KindUserDefined:
	default:
		return Value{}, parserErr("'I' wrapper applied to unsupported kind %s", inner.Kind())
	}
	id, _ := inner.ObjectID()
	ivars, err := d.ivarPairs()
	if err != nil {
		return Value{}, err
	}
	obj, _ := d.root.Object(id)
	obj.IVars = ivars
	d.root.fill(id, obj)
	return inner, nil
}

func (d *Decoder) ivarPairs() ([]IVarPair, error) {
	n, err := d.readLength("ivar count")
	if err != nil {
		return nil, err
	}
	pairs := make([]IVarPair, n)
	for i := range pairs {
		nameV, err := d.value()
		if err != nil {
			return nil, err
		}
		nameID, ok := nameV.SymbolID()
		if !ok {
			return nil, parserErr("ivar name is not a Symbol")
		}
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		pairs[i] = IVarPair{Name: nameID, Value: v}
	}
	return pairs, nil
}

func parseRubyFloat(s string) (float64, error) {
	switch s {
	case "inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	case "nan":
		return math.NaN(), nil
	}
	var f float64
	_, err := fmt.Sscanf(s, "%g", &f)
	return f, err
}
