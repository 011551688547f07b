package bytecode

import "testing"

func TestSourceMax(t *testing.T) {
	want := []uint8{127, 127, 31, 31, 31, 31, 31, 3, 127, 127, 100}
	for i, m := range want {
		if got := Source(i).Max(); got != m {
			t.Errorf("Source(%d).Max() = %d, want %d", i, got, m)
		}
	}
	if Source(numSources).Known() {
		t.Error("Source(11) should be unknown")
	}
}

func TestOperandValidatePreservesKind(t *testing.T) {
	o := StepPitch(0x80 | 60) // buffer slot 60
	if !o.Validate() {
		t.Fatal("expected clamp")
	}
	if o.Value != Buf(31) {
		t.Fatalf("got %+v, want BufferIndex(31)", o.Value)
	}

	p := Params(9)
	p.Validate()
	if p.Value != Num(3) {
		t.Fatalf("got %+v, want Number(3)", p.Value)
	}

	r := RandomNote(127)
	r.Validate()
	if r.Value != Num(100) {
		t.Fatalf("got %+v, want Number(100)", r.Value)
	}
}

func TestOperandValidateIdempotent(t *testing.T) {
	ctors := []func(byte) Operand{
		Constant, Random, StepPitch, StepVelocity, StepLength, StepDensity,
		MemoryBuffer, Params, Scale, FullScale, RandomNote,
	}
	for _, ctor := range ctors {
		for _, b := range []byte{0, 3, 31, 100, 127, 0x80, 0x9F, 0xFF} {
			o := ctor(b)
			o.Validate()
			once := o
			if o.Validate() {
				t.Errorf("%s: second Validate clamped", once)
			}
			if o != once {
				t.Errorf("%s: Validate not idempotent: %s", once, o)
			}
		}
	}
}

func TestOperandEncode(t *testing.T) {
	tests := []struct {
		o    Operand
		want [2]byte
	}{
		{Constant(36), [2]byte{0x00, 0x24}},
		{StepPitch(0), [2]byte{0x02, 0x00}},
		{Scale(0x81), [2]byte{0x08, 0x81}},
		{RandomNote(0x28), [2]byte{0x0A, 0x28}},
		{StepVelocity(64), [2]byte{0x03, 0x1F}}, // clamped to 31
		{Params(0x85), [2]byte{0x07, 0x83}},    // buffer slot clamped to 3
	}
	for _, tt := range tests {
		if got := tt.o.Encode(); got != tt.want {
			t.Errorf("%s.Encode() = % x, want % x", tt.o, got, tt.want)
		}
	}
}

func TestEncodeOperandInPlace(t *testing.T) {
	o := MemoryBuffer(40)
	b, clamped := EncodeOperand(&o)
	if !clamped {
		t.Error("expected clamped")
	}
	if b != [2]byte{0x06, 31} || o.Value != Num(31) {
		t.Errorf("got % x, operand %+v", b, o)
	}
}

func TestDecodeOperand(t *testing.T) {
	for k := 0; k < numSources; k++ {
		o, ok := DecodeOperand(byte(k), 0x85)
		if !ok {
			t.Fatalf("kind %d reported unknown", k)
		}
		if o.Source != Source(k) || o.Value != Buf(5) {
			t.Errorf("kind %d decoded as %+v", k, o)
		}
	}
}

func TestDecodeOperandUnknownKind(t *testing.T) {
	o, ok := DecodeOperand(0x0B, 0x55)
	if ok {
		t.Fatal("expected ok == false")
	}
	if o != Constant(0) {
		t.Errorf("got %+v, want const 0", o)
	}
}

func TestWord(t *testing.T) {
	w := Word(0x1234)
	if got := w.Encode(); got != [2]byte{0x12, 0x34} {
		t.Errorf("Encode = % x", got)
	}
	if got := WordFrom(0x12, 0x34); got != w {
		t.Errorf("WordFrom = 0x%04x", got)
	}
	if got := WordFrom(0xFF, 0xFF); got != 65535 {
		t.Errorf("WordFrom(ff, ff) = %d", got)
	}
}

func TestTruncatedReaders(t *testing.T) {
	bc := []byte{byte(OpJump), 0x01} // jump with one of two target bytes
	if v, ok := GetWord(bc, 0); ok || v != 0 {
		t.Errorf("expected (0, false) for truncated word, got (%d, %v)", v, ok)
	}
	if _, _, ok := GetOperand(bc, 0, 0); ok {
		t.Error("expected ok == false for truncated operand")
	}
	if _, _, ok := GetOperand([]byte{byte(OpSet), 0, 1, 2}, 0, 1); ok {
		t.Error("expected ok == false for truncated second operand")
	}
}
