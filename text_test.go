package marshr_test

import (
	"bytes"
	"testing"

	"github.com/simplepad/marshr"
)

func TestTextUTF8(t *testing.T) {
	// "foo".force_encoding("UTF-8"), I-wrapped with E=true
	in := []byte{
		4, 8,
		'I', '"', 0x08, 'f', 'o', 'o',
		0x06, ':', 0x06, 'E', 'T',
	}
	root, err := marshr.Decode(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	id, _ := root.Value().ObjectID()
	got, err := root.Text(id)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "foo" {
		t.Errorf("Text = %q, want %q", got, "foo")
	}
}

func TestTextUSASCII(t *testing.T) {
	in := []byte{
		4, 8,
		'I', '"', 0x08, 'f', 'o', 'o',
		0x06, ':', 0x06, 'E', 'F',
	}
	root, err := marshr.Decode(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	id, _ := root.Value().ObjectID()
	got, err := root.Text(id)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "foo" {
		t.Errorf("Text = %q, want %q", got, "foo")
	}
}

func TestTextWithEncodingLabel(t *testing.T) {
	// "caf\xE9" (latin-1 "café"), tagged encoding: "ISO-8859-1"
	in := []byte{
		4, 8,
		'I', '"', 0x09, 'c', 'a', 'f', 0xe9,
		0x06,
		':', 0x0d, 'e', 'n', 'c', 'o', 'd', 'i', 'n', 'g',
		'"', 0x0f, 'I', 'S', 'O', '-', '8', '8', '5', '9', '-', '1',
	}
	root, err := marshr.Decode(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	id, _ := root.Value().ObjectID()
	got, err := root.Text(id)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "café" {
		t.Errorf("Text = %q, want %q", got, "café")
	}
}

func TestTextBinaryHasNoEncoding(t *testing.T) {
	// A plain String with no 'I' wrapper at all: binary data.
	in := []byte{4, 8, '"', 0x08, 'f', 'o', 'o'}
	root, err := marshr.Decode(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	id, _ := root.Value().ObjectID()
	if _, err := root.Text(id); err == nil {
		t.Error("Text succeeded on a binary string, want EncodingError")
	}
}
