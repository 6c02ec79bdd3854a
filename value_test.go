package marshr_test

import (
	"testing"

	"github.com/simplepad/marshr"
)

func TestValueAccessors(t *testing.T) {
	if !marshr.NilValue().IsNil() {
		t.Error("NilValue().IsNil() = false, want true")
	}
	if marshr.BoolValue(true).IsNil() {
		t.Error("BoolValue(true).IsNil() = true, want false")
	}

	if b, ok := marshr.BoolValue(true).Bool(); !ok || !b {
		t.Errorf("BoolValue(true).Bool() = %v, %v, want true, true", b, ok)
	}
	if _, ok := marshr.FixNumValue(1).Bool(); ok {
		t.Error("FixNumValue(1).Bool() ok = true, want false")
	}

	if n, ok := marshr.FixNumValue(42).FixNum(); !ok || n != 42 {
		t.Errorf("FixNumValue(42).FixNum() = %v, %v, want 42, true", n, ok)
	}

	sym := marshr.SymbolValue(3)
	if id, ok := sym.SymbolID(); !ok || id != 3 {
		t.Errorf("SymbolValue(3).SymbolID() = %v, %v, want 3, true", id, ok)
	}
	if _, ok := sym.ObjectID(); ok {
		t.Error("SymbolValue(3).ObjectID() ok = true, want false")
	}

	arr := marshr.ArrayValue(7)
	if arr.Kind() != marshr.KindArray {
		t.Errorf("ArrayValue(7).Kind() = %v, want KindArray", arr.Kind())
	}
	if id, ok := arr.ObjectID(); !ok || id != 7 {
		t.Errorf("ArrayValue(7).ObjectID() = %v, %v, want 7, true", id, ok)
	}
}
