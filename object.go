package marshr

// ObjectKind discriminates the variants of Object, the heavy payload
// stored in a Root's object arena. Every Value other than Nil/Bool/
// FixNum/Symbol points at one of these by ObjectID.
type ObjectKind int

const (
	// ObjEmpty marks a slot that has been allocated (so a
	// back-reference to it can resolve) but whose contents have not
	// yet been filled in. It only ever appears transiently during
	// decode of a self-referential graph; Root.fill replaces it before
	// Decode returns. See invariant 4 in the data model.
	ObjEmpty ObjectKind = iota
	ObjArray
	ObjHash
	ObjHashWithDefault
	ObjFloat
	ObjBigNum
	ObjClass
	ObjModule
	ObjClassOrModule
	ObjString
	ObjRegExp
	ObjStruct
	ObjObject
	ObjUserClass
	ObjUserDefined
	ObjUserMarshal
)

func (k ObjectKind) valueKind() ValueKind {
	switch k {
	case ObjArray:
		return KindArray
	case ObjHash, ObjHashWithDefault:
		return KindHash
	case ObjFloat:
		return KindFloat
	case ObjBigNum:
		return KindBigNum
	case ObjClass:
		return KindClass
	case ObjModule:
		return KindModule
	case ObjClassOrModule:
		return KindClassOrModule
	case ObjString:
		return KindString
	case ObjRegExp:
		return KindRegExp
	case ObjStruct:
		return KindStruct
	case ObjObject:
		return KindObject
	case ObjUserClass:
		return KindUserClass
	case ObjUserDefined:
		return KindUserDefined
	case ObjUserMarshal:
		return KindUserMarshal
	default:
		return KindUninitialized
	}
}

// HashPair is one key/value entry of a Hash or HashWithDefault, kept
// in wire order: Ruby hashes are insertion-ordered, and nothing about
// the format permits reordering on a round trip.
type HashPair struct {
	Key   Value
	Value Value
}

// MemberPair is one slot/value entry of a Struct, again in wire order.
type MemberPair struct {
	Slot  SymbolID
	Value Value
}

// IVarPair is one instance-variable name/value entry, either attached
// to a String, RegExp, UserClass or UserDefined object via the 'I'
// wrapper tag, or carried by an Object under its own 'o' tag.
type IVarPair struct {
	Name  SymbolID
	Value Value
}

// Object is the tagged union of everything a Value can point at. Only
// the fields relevant to Kind are meaningful; the rest are zero.
//
// Kind is named ObjectKind rather than reusing ValueKind's own
// KindObject constant because "Object" names both a Value variant
// (tag 'o', a generic Ruby object with a class and instance variables)
// and this Go type (the arena payload every reference Value points
// at); Obj-prefixed constants keep the two apart without either one
// stealing the plain name "Object".
type Object struct {
	Kind ObjectKind

	// ObjArray
	Elems []Value

	// ObjHash, ObjHashWithDefault
	Pairs   []HashPair
	Default Value

	// ObjFloat
	Float float64

	// ObjBigNum
	Big int64

	// ObjString, ObjRegExp, ObjUserDefined (opaque payload bytes),
	// ObjClass, ObjModule, ObjClassOrModule (name). Class/module names
	// are written to the wire as a plain length-prefixed byte sequence,
	// not through the symbol table, so they carry no back-reference of
	// their own.
	Bytes []byte

	// ObjRegExp
	Opts byte

	// ObjStruct, ObjObject, ObjUserClass, ObjUserDefined, ObjUserMarshal:
	// the symbol naming the struct/object/wrapper's class.
	Name SymbolID

	// ObjStruct
	Members []MemberPair

	// ObjObject, and ObjString, ObjRegExp, ObjUserClass, ObjUserDefined
	// when they were wrapped in 'I'.
	IVars []IVarPair

	// ObjUserClass, ObjUserMarshal: the wrapped Value (UserClass wraps
	// a concrete representation such as a String or Array;
	// UserDefined's payload lives in Bytes instead).
	Wrapped Value
}
