package marshr

import "fmt"

// ValueKind discriminates the variants of Value.
type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindFixNum
	KindSymbol
	KindArray
	KindHash
	KindFloat
	KindBigNum
	KindClass
	KindModule
	KindClassOrModule
	KindString
	KindRegExp
	KindStruct
	KindObject
	KindUserClass
	KindUserDefined
	KindUserMarshal
	KindUninitialized
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "Nil"
	case KindBool:
		return "Bool"
	case KindFixNum:
		return "FixNum"
	case KindSymbol:
		return "Symbol"
	case KindArray:
		return "Array"
	case KindHash:
		return "Hash"
	case KindFloat:
		return "Float"
	case KindBigNum:
		return "BigNum"
	case KindClass:
		return "Class"
	case KindModule:
		return "Module"
	case KindClassOrModule:
		return "ClassOrModule"
	case KindString:
		return "String"
	case KindRegExp:
		return "RegExp"
	case KindStruct:
		return "Struct"
	case KindObject:
		return "Object"
	case KindUserClass:
		return "UserClass"
	case KindUserDefined:
		return "UserDefined"
	case KindUserMarshal:
		return "UserMarshal"
	case KindUninitialized:
		return "Uninitialized"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// SymbolID indexes into a Root's symbol table.
type SymbolID int

// ObjectID indexes into a Root's object table.
type ObjectID int

// Value is the cheap, copyable handle every slot in a decoded graph is
// made of: scalars carry their payload inline, everything else is an
// ObjectID into the owning Root's object arena.
//
// Value deliberately has no methods that dereference into a Root: a
// Value is meaningless without the Root that allocated it, the same
// way a slice index is meaningless without the slice.
type Value struct {
	kind ValueKind
	b    bool
	n    int32
	id   int
}

func NilValue() Value                { return Value{kind: KindNil} }
func BoolValue(b bool) Value         { return Value{kind: KindBool, b: b} }
func FixNumValue(n int32) Value      { return Value{kind: KindFixNum, n: n} }
func SymbolValue(id SymbolID) Value  { return Value{kind: KindSymbol, id: int(id)} }
func UninitializedValue(id ObjectID) Value {
	return Value{kind: KindUninitialized, id: int(id)}
}

func refValue(kind ValueKind, id ObjectID) Value {
	return Value{kind: kind, id: int(id)}
}

func ArrayValue(id ObjectID) Value         { return refValue(KindArray, id) }
func HashValue(id ObjectID) Value          { return refValue(KindHash, id) }
func FloatValue(id ObjectID) Value         { return refValue(KindFloat, id) }
func BigNumValue(id ObjectID) Value        { return refValue(KindBigNum, id) }
func ClassValue(id ObjectID) Value         { return refValue(KindClass, id) }
func ModuleValue(id ObjectID) Value        { return refValue(KindModule, id) }
func ClassOrModuleValue(id ObjectID) Value { return refValue(KindClassOrModule, id) }
func StringValue(id ObjectID) Value        { return refValue(KindString, id) }
func RegExpValue(id ObjectID) Value        { return refValue(KindRegExp, id) }
func StructValue(id ObjectID) Value        { return refValue(KindStruct, id) }
func ObjectValue(id ObjectID) Value        { return refValue(KindObject, id) }
func UserClassValue(id ObjectID) Value     { return refValue(KindUserClass, id) }
func UserDefinedValue(id ObjectID) Value   { return refValue(KindUserDefined, id) }
func UserMarshalValue(id ObjectID) Value   { return refValue(KindUserMarshal, id) }

// Kind reports which variant v holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsNil reports whether v is the Nil value.
func (v Value) IsNil() bool { return v.kind == KindNil }

// Bool returns v's payload if v is a Bool, else (false, false).
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// FixNum returns v's payload if v is a FixNum, else (0, false).
func (v Value) FixNum() (int32, bool) {
	if v.kind != KindFixNum {
		return 0, false
	}
	return v.n, true
}

// ObjectID returns the arena index backing v, for any of the object
// reference variants (including Uninitialized). It returns (0, false)
// for Nil, Bool, FixNum and Symbol, none of which index the object
// arena — Symbol's id indexes the separate symbol table instead, see
// SymbolID.
func (v Value) ObjectID() (ObjectID, bool) {
	switch v.kind {
	case KindNil, KindBool, KindFixNum, KindSymbol:
		return 0, false
	default:
		return ObjectID(v.id), true
	}
}

// SymbolID returns v's payload if v is a Symbol, else (0, false).
func (v Value) SymbolID() (SymbolID, bool) {
	if v.kind != KindSymbol {
		return 0, false
	}
	return SymbolID(v.id), true
}

func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindFixNum:
		return fmt.Sprintf("%d", v.n)
	case KindSymbol:
		return fmt.Sprintf("Symbol(#%d)", v.id)
	default:
		return fmt.Sprintf("%s(@%d)", v.kind, v.id)
	}
}
