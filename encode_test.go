package marshr_test

import (
	"bytes"
	"testing"

	"github.com/simplepad/marshr"
)

func TestEncodeRepeatedSymbolBackref(t *testing.T) {
	// Round-tripping [:foo, :foo] must re-emit the second occurrence
	// as a symbol back-reference, not a second definition.
	in := []byte{
		4, 8, '[', 0x07,
		':', 0x08, 'f', 'o', 'o',
		';', 0x00,
	}
	root, err := marshr.Decode(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	var buf bytes.Buffer
	if err := marshr.Encode(&buf, root, root.Value()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), in) {
		t.Errorf("Encode = % x, want % x", buf.Bytes(), in)
	}
}

func TestEncodeSelfReferentialArray(t *testing.T) {
	in := []byte{4, 8, '[', 0x06, '@', 0x00}
	root, err := marshr.Decode(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	var buf bytes.Buffer
	if err := marshr.Encode(&buf, root, root.Value()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), in) {
		t.Errorf("Encode = % x, want % x", buf.Bytes(), in)
	}
}

func TestEncodeRepeatedClassNameBackref(t *testing.T) {
	// Two Foo instances: the second occurrence of the class name must
	// be re-emitted as a symbol back-reference, not a fresh definition.
	in := []byte{
		4, 8, '[', 0x07,
		'o', ':', 0x08, 'F', 'o', 'o', 0x00,
		'o', ';', 0x00, 0x00,
	}
	root, err := marshr.Decode(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if root.SymbolCount() != 1 {
		t.Fatalf("SymbolCount() = %d, want 1", root.SymbolCount())
	}
	var buf bytes.Buffer
	if err := marshr.Encode(&buf, root, root.Value()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), in) {
		t.Errorf("Encode = % x, want % x", buf.Bytes(), in)
	}
}

func TestEncodeRoundTripsClassStructUserVariants(t *testing.T) {
	cases := map[string][]byte{
		"class":       {4, 8, 'c', 0x08, 'F', 'o', 'o'},
		"object":      {4, 8, 'o', ':', 0x08, 'F', 'o', 'o', 0x06, ':', 0x07, '@', 'x', 'i', 0x06},
		"struct":      {4, 8, 'S', ':', 0x0a, 'P', 'o', 'i', 'n', 't', 0x07, ':', 0x06, 'a', 'i', 0x06, ':', 0x06, 'b', 'i', 0x07},
		"userDefined": {4, 8, 'u', ':', 0x08, 'F', 'o', 'o', 0x07, 'x', 'y'},
		"userClass":   {4, 8, 'C', ':', 0x08, 'F', 'o', 'o', '[', 0x06, 'i', 0x06},
		"userMarshal": {4, 8, 'U', ':', 0x08, 'F', 'o', 'o', 'i', 0x2f},
		"regexp":      {4, 8, '/', 0x07, 'a', 'b', 0x00},
		"float":       {4, 8, 'f', 0x08, '1', '.', '5'},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			root, err := marshr.Decode(bytes.NewReader(in))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			var buf bytes.Buffer
			if err := marshr.Encode(&buf, root, root.Value()); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !bytes.Equal(buf.Bytes(), in) {
				t.Errorf("Encode = % x, want % x", buf.Bytes(), in)
			}
		})
	}
}

func TestEncodeRejectsDanglingUninitialized(t *testing.T) {
	// An Uninitialized value that was never the target of an earlier
	// back-reference (i.e. nothing upstream of it ever marked its
	// ObjectID seen) is invalid on its own.
	var buf bytes.Buffer
	err := marshr.Encode(&buf, &marshr.Root{}, marshr.UninitializedValue(0))
	if err == nil {
		t.Error("Encode succeeded on a standalone Uninitialized value, want error")
	}
}
