package wire

import (
	"bytes"
	"testing"
)

func TestFixNumRoundTrip(t *testing.T) {
	cases := []int32{
		0, 1, 122, 123, 255, 256, 65535, 65536,
		1073741824, 2147483647, -1, -123, -124, -200,
		-2147483648, 42, -42,
	}
	for _, n := range cases {
		var buf bytes.Buffer
		if err := NewEncoder(&buf).FixNum(n); err != nil {
			t.Fatalf("FixNum(%d) encode: %v", n, err)
		}
		got, err := NewDecoder(&buf).FixNum()
		if err != nil {
			t.Fatalf("FixNum(%d) decode: %v", n, err)
		}
		if got != n {
			t.Errorf("FixNum round trip: got %d, want %d", got, n)
		}
	}
}

func TestFixNumWireForm(t *testing.T) {
	cases := []struct {
		n    int32
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x06}},
		{122, []byte{0x7f}},
		{-1, []byte{0xfa}},
		{-123, []byte{0x80}},
		{123, []byte{0x01, 0x7b}},
		{-124, []byte{0xff, 0x84}},
		{256, []byte{0x02, 0x00, 0x01}},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		if err := NewEncoder(&buf).FixNum(c.n); err != nil {
			t.Fatalf("FixNum(%d) encode: %v", c.n, err)
		}
		if !bytes.Equal(buf.Bytes(), c.want) {
			t.Errorf("FixNum(%d) wire form: got % x, want % x", c.n, buf.Bytes(), c.want)
		}
	}
}

func TestBytesRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		[]byte("foo"),
		bytes.Repeat([]byte{0xAB}, 300),
	}
	for _, c := range cases {
		var buf bytes.Buffer
		if err := NewEncoder(&buf).Bytes(c); err != nil {
			t.Fatalf("Bytes(%v) encode: %v", c, err)
		}
		got, err := NewDecoder(&buf).Bytes()
		if err != nil {
			t.Fatalf("Bytes(%v) decode: %v", c, err)
		}
		if !bytes.Equal(got, c) && len(got)+len(c) != 0 {
			t.Errorf("Bytes round trip: got %v, want %v", got, c)
		}
	}
}
