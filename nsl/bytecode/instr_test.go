package bytecode

import (
	"bytes"
	"errors"
	"testing"
)

// allInstrs returns one instance of every variant.
func allInstrs(x, y Operand, w Word) []Instr {
	return []Instr{
		None(),
		Set(x, y), Copy(x, y), ClearTrack(), ClearMemory(), ClearAll(),
		Add(x, y), Sub(x, y), Mul(x, y), Div(x, y),
		QuantizePitch(), GenerateProgression(), GenerateEuclidean(x, y),
		LoopSet(x), LoopEnd(), Jump(w),
		CondEq(x, y), CondNe(x, y), CondGt(x, y), CondLt(x, y), CondGte(x, y), CondLte(x, y), CondEnd(),
		End(),
	}
}

func TestOpcodeTable(t *testing.T) {
	want := map[Op]int{
		OpNone: 1,
		OpSet: 5, OpCopy: 5, OpClearTrack: 1, OpClearMemory: 1, OpClearAll: 1,
		OpAdd: 5, OpSub: 5, OpMul: 5, OpDiv: 5, OpQuantizePitch: 1, OpGenerateProgression: 1, OpGenerateEuclidean: 5,
		OpLoopSet: 3, OpLoopEnd: 1, OpJump: 3,
		OpCondEq: 5, OpCondNe: 5, OpCondGt: 5, OpCondLt: 5, OpCondGte: 5, OpCondLte: 5, OpCondEnd: 1,
		OpEnd: 1,
	}
	if len(want) != 24 {
		t.Fatalf("test table has %d entries", len(want))
	}
	known := 0
	for i := 0; i < 256; i++ {
		op := Op(i)
		n, ok := want[op]
		if op.Known() != ok {
			t.Errorf("Op(0x%02x).Known() = %v", i, op.Known())
		}
		if ok {
			known++
			if got := InstrLen(byte(i)); got != n {
				t.Errorf("InstrLen(0x%02x) = %d, want %d", i, got, n)
			}
		} else if got := InstrLen(byte(i)); got != 1 {
			t.Errorf("InstrLen(unknown 0x%02x) = %d, want 1", i, got)
		}
	}
	if known != 24 {
		t.Errorf("%d known opcodes, want 24", known)
	}
}

func TestLengthDeterminism(t *testing.T) {
	a := allInstrs(Constant(0), Constant(0), 0)
	b := allInstrs(StepPitch(0xFF), RandomNote(127), 0xFFFF)
	for i := range a {
		if a[i].Len() != b[i].Len() {
			t.Errorf("%s: Len %d vs %d", a[i].Op, a[i].Len(), b[i].Len())
		}
		if got := len(b[i].Encode()); got != b[i].Len() {
			t.Errorf("%s: encoded %d bytes, Len() = %d", b[i].Op, got, b[i].Len())
		}
		if a[i].Len() != InstrLen(a[i].Code()) {
			t.Errorf("%s: Len disagrees with InstrLen", a[i].Op)
		}
	}
}

func TestEncodeSet(t *testing.T) {
	got := Set(StepPitch(0), Constant(36)).Encode()
	want := []byte{0xA1, 0x02, 0x00, 0x00, 0x24}
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestEncodeShapes(t *testing.T) {
	tests := []struct {
		in   Instr
		want []byte
	}{
		{End(), []byte{0xFF}},
		{LoopEnd(), []byte{0xC1}},
		{LoopSet(Constant(32)), []byte{0xC0, 0x00, 0x20}},
		{Jump(0x0102), []byte{0xC2, 0x01, 0x02}},
		{CondGt(StepVelocity(0x80), Constant(0)), []byte{0xD2, 0x03, 0x80, 0x00, 0x00}},
		{Instr{Op: 0x42}, []byte{0x00}},
	}
	for _, tt := range tests {
		if got := tt.in.Encode(); !bytes.Equal(got, tt.want) {
			t.Errorf("%s: got % x, want % x", tt.in, got, tt.want)
		}
	}
}

func TestAppendInstrCountsClamps(t *testing.T) {
	in := Set(StepLength(99), Params(7))
	b, n := AppendInstr(nil, &in)
	if n != 2 {
		t.Errorf("clamped %d operands, want 2", n)
	}
	want := []byte{0xA1, 0x04, 31, 0x07, 3}
	if !bytes.Equal(b, want) {
		t.Errorf("got % x, want % x", b, want)
	}
	if in.X.Value != Num(31) || in.Y.Value != Num(3) {
		t.Errorf("operands not clamped in place: %s", in)
	}
}

func TestDecodeOpcodeSkeleton(t *testing.T) {
	in, ok := DecodeOpcode(0xB6)
	if !ok || in != GenerateEuclidean(Operand{}, Operand{}) {
		t.Errorf("got %+v ok=%v", in, ok)
	}
	in, ok = DecodeOpcode(0x07)
	if ok || in != None() {
		t.Errorf("unknown opcode: got %+v ok=%v", in, ok)
	}
}

func TestDecodeFrameRoundTrip(t *testing.T) {
	for _, in := range allInstrs(MemoryBuffer(0x81), Scale(100), 0xBEEF) {
		frame := in.Encode()
		got, st, err := DecodeFrame(frame)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if st != 0 {
			t.Errorf("%s: status %b", in, st)
		}
		if got != in {
			t.Errorf("decoded %s, want %s", got, in)
		}
	}
}

func TestDecodeFrameJump(t *testing.T) {
	in, _, err := DecodeFrame([]byte{0xC2, 0x00, 0x10})
	if err != nil {
		t.Fatal(err)
	}
	if in != Jump(16) {
		t.Errorf("got %s", in)
	}
}

func TestDecodeFrameUnknown(t *testing.T) {
	in, st, err := DecodeFrame([]byte{0x42})
	if err != nil {
		t.Fatal(err)
	}
	if in != None() || st&UnknownOpcode == 0 {
		t.Errorf("got %s status %b", in, st)
	}

	in, st, err = DecodeFrame([]byte{0xA1, 0x0F, 0x10, 0x00, 0x01})
	if err != nil {
		t.Fatal(err)
	}
	if st&UnknownSource == 0 {
		t.Error("expected UnknownSource")
	}
	if in != Set(Constant(0), Constant(1)) {
		t.Errorf("got %s", in)
	}
}

func TestDecodeFrameLength(t *testing.T) {
	for _, frame := range [][]byte{nil, {0xA1, 0x00}, {0xFF, 0x00}, {0xC0, 0, 0, 0}} {
		if _, _, err := DecodeFrame(frame); !errors.Is(err, ErrFrameLength) {
			t.Errorf("% x: err = %v, want ErrFrameLength", frame, err)
		}
	}
}

func TestInstrString(t *testing.T) {
	tests := []struct {
		in   Instr
		want string
	}{
		{Set(StepPitch(0), Constant(36)), "set step_pitch[0], 36"},
		{Add(StepPitch(0x80), Scale(0x81)), "add step_pitch[buf[0]], scale[buf[1]]"},
		{LoopSet(Constant(32)), "loop 32"},
		{Jump(7), "jump 7"},
		{End(), "end"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}
