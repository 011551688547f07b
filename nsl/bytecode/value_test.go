package bytecode

import "testing"

func TestDecodeValueTotal(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		v := DecodeValue(b)
		if i < 128 {
			if v != Num(b) {
				t.Fatalf("DecodeValue(0x%02x) = %+v, want Number(%d)", b, v, b)
			}
		} else if v != Buf(b-128) {
			t.Fatalf("DecodeValue(0x%02x) = %+v, want BufferIndex(%d)", b, v, b-128)
		}
		if got := v.Encode(); got != b {
			t.Fatalf("DecodeValue(0x%02x).Encode() = 0x%02x", b, got)
		}
	}
}

func TestValueRoundTrip(t *testing.T) {
	for n := uint8(0); n <= MaxMagnitude; n++ {
		if got := DecodeValue(Num(n).Encode()); got != Num(n) {
			t.Errorf("Number(%d) round trip = %+v", n, got)
		}
		if got := DecodeValue(Buf(n).Encode()); got != Buf(n) {
			t.Errorf("BufferIndex(%d) round trip = %+v", n, got)
		}
	}
}

func TestBufferIndexByte(t *testing.T) {
	v := DecodeValue(0x81)
	if v != Buf(1) {
		t.Fatalf("DecodeValue(0x81) = %+v, want BufferIndex(1)", v)
	}
	if b := v.Encode(); b != 0x81 {
		t.Fatalf("Encode = 0x%02x, want 0x81", b)
	}
}

func TestNumberSaturates(t *testing.T) {
	if b := Num(200).Encode(); b != 0x7F {
		t.Errorf("Number(200).Encode() = 0x%02x, want 0x7f", b)
	}
}

// Buffer indices are not saturated on encode; an index above 127 wraps
// into the literal range. Pinned so a change is deliberate.
func TestBufferIndexDoesNotSaturate(t *testing.T) {
	if b := Buf(127).Encode(); b != 0xFF {
		t.Errorf("BufferIndex(127).Encode() = 0x%02x, want 0xff", b)
	}
	if b := Buf(200).Encode(); b != 200+128-256 {
		t.Errorf("BufferIndex(200).Encode() = 0x%02x, want 0x%02x", b, 200+128-256)
	}
}

func TestClamp(t *testing.T) {
	v := Buf(50)
	if !v.Clamp(0, 31) {
		t.Error("expected Clamp to report reduction")
	}
	if v != Buf(31) {
		t.Errorf("clamped = %+v, want BufferIndex(31)", v)
	}
	if v.Clamp(0, 31) {
		t.Error("second Clamp should be a no-op")
	}
	if v != Buf(31) {
		t.Errorf("clamp not idempotent: %+v", v)
	}

	w := Num(2)
	if w.Clamp(5, 10) {
		t.Error("raising to min is not a reduction")
	}
	if w != Num(5) {
		t.Errorf("clamped = %+v, want Number(5)", w)
	}
}
