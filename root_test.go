package marshr_test

import (
	"bytes"
	"testing"

	"github.com/simplepad/marshr"
)

func TestDecodeScalars(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want marshr.Value
	}{
		{"nil", []byte{4, 8, '0'}, marshr.NilValue()},
		{"true", []byte{4, 8, 'T'}, marshr.BoolValue(true)},
		{"false", []byte{4, 8, 'F'}, marshr.BoolValue(false)},
		{"fixnum zero", []byte{4, 8, 'i', 0x00}, marshr.FixNumValue(0)},
		{"fixnum one", []byte{4, 8, 'i', 0x06}, marshr.FixNumValue(1)},
		{"fixnum 122", []byte{4, 8, 'i', 0x7f}, marshr.FixNumValue(122)},
		{"fixnum -1", []byte{4, 8, 'i', 0xfa}, marshr.FixNumValue(-1)},
		{"fixnum 123", []byte{4, 8, 'i', 0x01, 0x7b}, marshr.FixNumValue(123)},
		{"fixnum -124", []byte{4, 8, 'i', 0xff, 0x84}, marshr.FixNumValue(-124)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			root, err := marshr.Decode(bytes.NewReader(c.in))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if root.Value() != c.want {
				t.Errorf("Decode(%x) = %v, want %v", c.in, root.Value(), c.want)
			}

			var buf bytes.Buffer
			if err := marshr.Encode(&buf, root, root.Value()); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !bytes.Equal(buf.Bytes(), c.in) {
				t.Errorf("Encode round trip = % x, want % x", buf.Bytes(), c.in)
			}
		})
	}
}

func TestDecodeRejectsBadOrTruncatedPreamble(t *testing.T) {
	cases := [][]byte{
		{5, 8, '0'},
		{4, 9, '0'},
		{4},
	}
	for _, in := range cases {
		if _, err := marshr.Decode(bytes.NewReader(in)); err == nil {
			t.Errorf("Decode(% x) succeeded, want error", in)
		}
	}
}

func TestRootSymbolAccessors(t *testing.T) {
	in := []byte{4, 8, ':', 0x08, 'f', 'o', 'o'} // :foo
	root, err := marshr.Decode(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if root.SymbolCount() != 1 {
		t.Fatalf("SymbolCount() = %d, want 1", root.SymbolCount())
	}
	id, ok := root.SymbolID("foo")
	if !ok {
		t.Fatal("SymbolID(\"foo\") not found")
	}
	name, ok := root.Symbol(id)
	if !ok || name != "foo" {
		t.Errorf("Symbol(%d) = %q, %v, want \"foo\", true", id, name, ok)
	}
	if _, ok := root.SymbolID("bar"); ok {
		t.Error("SymbolID(\"bar\") found, want not found")
	}
}

func TestDecodeAllStopsCleanlyAtBoundary(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{4, 8, '0'})
	buf.Write([]byte{4, 8, 'T'})

	roots, err := marshr.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("DecodeAll returned %d roots, want 2", len(roots))
	}
	if !roots[0].Value().IsNil() {
		t.Errorf("roots[0] = %v, want nil", roots[0].Value())
	}
	if b, _ := roots[1].Value().Bool(); !b {
		t.Errorf("roots[1] = %v, want true", roots[1].Value())
	}
}

func TestDecodeAllReportsTruncation(t *testing.T) {
	// A preamble with no value following it is a truncated document,
	// not a clean end of stream.
	in := []byte{4, 8}
	if _, err := marshr.DecodeAll(bytes.NewReader(in)); err == nil {
		t.Error("DecodeAll succeeded on truncated document, want error")
	}
}
