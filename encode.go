package marshr

import (
	"errors"
	"io"
	"log"
	"math"
	"strconv"

	"github.com/creachadair/mds/mapset"

	"github.com/simplepad/marshr/internal/wire"
)

const debugEncode = false

func debugEncodef(msg string, args ...any) {
	if !debugEncode {
		return
	}
	log.Printf(msg, args...)
}

// Encoder writes a Root's value graph back to Marshal's wire format.
// Encoding the Root and Value returned by Decode reproduces the
// original bytes exactly: every back-reference the decoder resolved
// is re-emitted as a back-reference, in the same first-appearance
// order it was read in.
type Encoder struct {
	w *wire.Encoder

	root *Root

	// seenSym/seenObj record which symbols and objects have already
	// been written once, so later occurrences are emitted as
	// back-references instead of being written out again. symIndex
	// gives each newly-written symbol its position in the wire-order
	// symbol table, which is what a back-reference actually encodes.
	seenSym  mapset.Set[SymbolID]
	seenObj  mapset.Set[ObjectID]
	symIndex map[SymbolID]int32
	nextSym  int32
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		w:        wire.NewEncoder(w),
		seenSym:  mapset.New[SymbolID](),
		seenObj:  mapset.New[ObjectID](),
		symIndex: map[SymbolID]int32{},
	}
}

// Encode writes root's preamble and v to w.
func Encode(w io.Writer, root *Root, v Value) error {
	return NewEncoder(w).Encode(root, v)
}

func (e *Encoder) Encode(root *Root, v Value) error {
	e.root = root
	if err := e.w.Byte(4); err != nil {
		return ioErr("write preamble", err)
	}
	if err := e.w.Byte(8); err != nil {
		return ioErr("write preamble", err)
	}
	return e.value(v)
}

func (e *Encoder) value(v Value) error {
	debugEncodef("value kind=%s", v.Kind())

	switch v.Kind() {
	case KindNil:
		return e.w.Byte(tagNil)
	case KindBool:
		b, _ := v.Bool()
		if b {
			return e.w.Byte(tagTrue)
		}
		return e.w.Byte(tagFalse)
	case KindFixNum:
		n, _ := v.FixNum()
		if err := e.w.Byte(tagFixNum); err != nil {
			return ioErr("write tag", err)
		}
		if err := e.w.FixNum(n); err != nil {
			return ioErr("write fixnum", err)
		}
		return nil
	case KindSymbol:
		id, _ := v.SymbolID()
		return e.symbol(id)
	}

	id, ok := v.ObjectID()
	if !ok {
		return encoderErr("value of kind %s carries no object identity", v.Kind())
	}
	if e.seenObj.Has(id) {
		return e.backrefObject(id)
	}
	if v.Kind() == KindUninitialized {
		return encoderErr("object %d was never filled in (dangling self-reference)", id)
	}
	// Mark seen before descending into children: a composite that
	// contains a reference to itself will see seenObj.Has(id) true by
	// the time the self-reference is reached, and fall into the
	// back-reference path above instead of recursing forever.
	e.seenObj.Add(id)

	obj, ok := e.root.Object(id)
	if !ok {
		return encoderErr("object %d has no entry in the root", id)
	}

	switch obj.Kind {
	case ObjArray:
		return e.array(obj)
	case ObjHash:
		return e.hash(obj, false)
	case ObjHashWithDefault:
		return e.hash(obj, true)
	case ObjFloat:
		return e.float(obj)
	case ObjBigNum:
		return e.bignum(obj)
	case ObjClass:
		return e.classLike(tagClass, obj)
	case ObjModule:
		return e.classLike(tagModule, obj)
	case ObjClassOrModule:
		return e.classLike(tagClassOrModule, obj)
	case ObjString:
		return e.withIVars(obj.IVars, func() error { return e.rawString(obj) })
	case ObjRegExp:
		return e.withIVars(obj.IVars, func() error { return e.regexp(obj) })
	case ObjStruct:
		return e.structValue(obj)
	case ObjObject:
		return e.object(obj)
	case ObjUserClass:
		return e.withIVars(obj.IVars, func() error { return e.userClass(obj) })
	case ObjUserDefined:
		return e.withIVars(obj.IVars, func() error { return e.userDefined(obj) })
	case ObjUserMarshal:
		return e.userMarshal(obj)
	default:
		return encoderErr("object %d has unencodable kind %v", id, obj.Kind)
	}
}

func (e *Encoder) backrefObject(id ObjectID) error {
	if err := e.w.Byte(tagObjectRef); err != nil {
		return ioErr("write tag", err)
	}
	return wrapIO(e.w.FixNum(int32(id)))
}

// symbol emits id, either as a fresh symbol definition on its first
// occurrence or as a back-reference to the wire index it was first
// written at.
func (e *Encoder) symbol(id SymbolID) error {
	if e.seenSym.Has(id) {
		if err := e.w.Byte(tagSymbolRef); err != nil {
			return ioErr("write tag", err)
		}
		return wrapIO(e.w.FixNum(e.symIndex[id]))
	}
	name, ok := e.root.Symbol(id)
	if !ok {
		return encoderErr("symbol %d has no entry in the root", id)
	}
	e.seenSym.Add(id)
	e.symIndex[id] = e.nextSym
	e.nextSym++
	if err := e.w.Byte(tagSymbol); err != nil {
		return ioErr("write tag", err)
	}
	return wrapIO(e.w.Bytes([]byte(name)))
}

func (e *Encoder) array(obj Object) error {
	if err := e.w.Byte(tagArray); err != nil {
		return ioErr("write tag", err)
	}
	if err := e.w.FixNum(int32(len(obj.Elems))); err != nil {
		return ioErr("write array length", err)
	}
	for _, v := range obj.Elems {
		if err := e.value(v); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) hash(obj Object, withDefault bool) error {
	tag := byte(tagHash)
	if withDefault {
		tag = tagHashDefault
	}
	if err := e.w.Byte(tag); err != nil {
		return ioErr("write tag", err)
	}
	if err := e.w.FixNum(int32(len(obj.Pairs))); err != nil {
		return ioErr("write hash length", err)
	}
	for _, p := range obj.Pairs {
		if err := e.value(p.Key); err != nil {
			return err
		}
		if err := e.value(p.Value); err != nil {
			return err
		}
	}
	if withDefault {
		return e.value(obj.Default)
	}
	return nil
}

func (e *Encoder) float(obj Object) error {
	if err := e.w.Byte(tagFloat); err != nil {
		return ioErr("write tag", err)
	}
	return wrapIO(e.w.Bytes([]byte(formatRubyFloat(obj.Float))))
}

func (e *Encoder) bignum(obj Object) error {
	if err := e.w.Byte(tagBigNum); err != nil {
		return ioErr("write tag", err)
	}
	sign := byte('+')
	mag := uint64(obj.Big)
	if obj.Big < 0 {
		sign = '-'
		mag = uint64(-obj.Big)
	}
	if err := e.w.Byte(sign); err != nil {
		return ioErr("write bignum sign", err)
	}
	var digits []byte
	for mag > 0 {
		digits = append(digits, byte(mag), byte(mag>>8))
		mag >>= 16
	}
	if len(digits) == 0 {
		digits = []byte{0, 0}
	}
	nwords := len(digits) / 2
	if err := e.w.FixNum(int32(nwords)); err != nil {
		return ioErr("write bignum word count", err)
	}
	return wrapIO(e.w.Write(digits))
}

func (e *Encoder) classLike(tag byte, obj Object) error {
	if err := e.w.Byte(tag); err != nil {
		return ioErr("write tag", err)
	}
	return wrapIO(e.w.Bytes(obj.Bytes))
}

func (e *Encoder) rawString(obj Object) error {
	if err := e.w.Byte(tagString); err != nil {
		return ioErr("write tag", err)
	}
	return wrapIO(e.w.Bytes(obj.Bytes))
}

func (e *Encoder) regexp(obj Object) error {
	if err := e.w.Byte(tagRegExp); err != nil {
		return ioErr("write tag", err)
	}
	if err := wrapIO(e.w.Bytes(obj.Bytes)); err != nil {
		return err
	}
	return wrapIO(e.w.Byte(obj.Opts))
}

func (e *Encoder) structValue(obj Object) error {
	if err := e.w.Byte(tagStruct); err != nil {
		return ioErr("write tag", err)
	}
	if err := e.symbol(obj.Name); err != nil {
		return err
	}
	if err := e.w.FixNum(int32(len(obj.Members))); err != nil {
		return ioErr("write struct member count", err)
	}
	for _, m := range obj.Members {
		if err := e.symbol(m.Slot); err != nil {
			return err
		}
		if err := e.value(m.Value); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) object(obj Object) error {
	if err := e.w.Byte(tagObject); err != nil {
		return ioErr("write tag", err)
	}
	if err := e.symbol(obj.Name); err != nil {
		return err
	}
	return e.ivarPairs(obj.IVars)
}

func (e *Encoder) userClass(obj Object) error {
	if err := e.w.Byte(tagUserClass); err != nil {
		return ioErr("write tag", err)
	}
	if err := e.symbol(obj.Name); err != nil {
		return err
	}
	return e.value(obj.Wrapped)
}

func (e *Encoder) userDefined(obj Object) error {
	if err := e.w.Byte(tagUserDefined); err != nil {
		return ioErr("write tag", err)
	}
	if err := e.symbol(obj.Name); err != nil {
		return err
	}
	return wrapIO(e.w.Bytes(obj.Bytes))
}

func (e *Encoder) userMarshal(obj Object) error {
	if err := e.w.Byte(tagUserMarshal); err != nil {
		return ioErr("write tag", err)
	}
	if err := e.symbol(obj.Name); err != nil {
		return err
	}
	return e.value(obj.Wrapped)
}

// withIVars wraps writeInner's output in the 'I' tag when ivars is
// non-empty, matching the decoder's symmetric unwrap.
func (e *Encoder) withIVars(ivars []IVarPair, writeInner func() error) error {
	if len(ivars) == 0 {
		return writeInner()
	}
	if err := e.w.Byte(tagIVar); err != nil {
		return ioErr("write tag", err)
	}
	if err := writeInner(); err != nil {
		return err
	}
	return e.ivarPairs(ivars)
}

func (e *Encoder) ivarPairs(pairs []IVarPair) error {
	if err := e.w.FixNum(int32(len(pairs))); err != nil {
		return ioErr("write ivar count", err)
	}
	for _, p := range pairs {
		if err := e.symbol(p.Name); err != nil {
			return err
		}
		if err := e.value(p.Value); err != nil {
			return err
		}
	}
	return nil
}

// wrapIO classifies an error from the underlying wire.Encoder: a
// wire.FormatError means the value itself violates the wire format
// (an EncoderError), anything else is a genuine I/O failure.
func wrapIO(err error) error {
	if err == nil {
		return nil
	}
	var fe *wire.FormatError
	if errors.As(err, &fe) {
		return encoderErr(fe.Reason)
	}
	return ioErr("write", err)
}

func formatRubyFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
