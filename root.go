package marshr

// Root owns the arena every Value in a decoded (or to-be-encoded)
// graph is an index into: the symbol table, the object table, and the
// single top-level Value the document represents.
//
// A Root returned by Decode is immutable from the caller's point of
// view; the unexported mutators (internSymbol, allocSlot, fill) exist
// only for the Decoder.
type Root struct {
	symbols []string
	objects []Object
	root    Value
}

func newRoot() *Root {
	return &Root{}
}

// Value returns the document's top-level Value.
func (r *Root) Value() Value { return r.root }

// Symbol returns the name interned at id.
func (r *Root) Symbol(id SymbolID) (string, bool) {
	if int(id) < 0 || int(id) >= len(r.symbols) {
		return "", false
	}
	return r.symbols[id], true
}

// Object returns the arena entry at id.
func (r *Root) Object(id ObjectID) (Object, bool) {
	if int(id) < 0 || int(id) >= len(r.objects) {
		return Object{}, false
	}
	return r.objects[id], true
}

// Symbols returns every interned symbol name, in table order (which
// is first-appearance order on the wire).
func (r *Root) Symbols() []string {
	out := make([]string, len(r.symbols))
	copy(out, r.symbols)
	return out
}

// Objects returns every arena entry, in table order.
func (r *Root) Objects() []Object {
	out := make([]Object, len(r.objects))
	copy(out, r.objects)
	return out
}

// SymbolID looks up the id of a previously interned symbol name. The
// lookup is a linear scan, matching the absence of a reverse index in
// the reference implementation; callers needing repeated lookups
// should build their own map from Symbols().
func (r *Root) SymbolID(name string) (SymbolID, bool) {
	for i, s := range r.symbols {
		if s == name {
			return SymbolID(i), true
		}
	}
	return 0, false
}

// SymbolCount reports how many symbols are interned.
func (r *Root) SymbolCount() int { return len(r.symbols) }

// Len reports how many objects are in the arena.
func (r *Root) Len() int { return len(r.objects) }

// internSymbol returns the SymbolID for name, interning it as a new
// table entry if this is the first appearance.
func (r *Root) internSymbol(name string) SymbolID {
	if id, ok := r.SymbolID(name); ok {
		return id
	}
	r.symbols = append(r.symbols, name)
	return SymbolID(len(r.symbols) - 1)
}

// allocSlot reserves the next ObjectID and fills it with an Empty
// placeholder, so that a recursive reference to this object (written
// before the object's own contents are known) has something to point
// at. fill must be called with the slot's real contents once they are
// known.
func (r *Root) allocSlot() ObjectID {
	r.objects = append(r.objects, Object{Kind: ObjEmpty})
	return ObjectID(len(r.objects) - 1)
}

// fill replaces the contents of a slot previously returned by
// allocSlot.
func (r *Root) fill(id ObjectID, obj Object) {
	r.objects[id] = obj
}
