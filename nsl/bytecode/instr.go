package bytecode

import (
	"errors"
	"fmt"
)

// ErrFrameLength is returned when a frame's size disagrees with its opcode.
var ErrFrameLength = errors.New("frame length does not match opcode")

// Instr is one NSL instruction. Op selects the variant; X and Y are used by
// operand shapes and Target by jump. Fields outside the variant's shape are
// zero.
type Instr struct {
	Op     Op
	X, Y   Operand
	Target Word
}

func op2(op Op, x, y Operand) Instr { return Instr{Op: op, X: x, Y: y} }

// None is the placeholder for an unknown opcode.
func None() Instr { return Instr{Op: OpNone} }

// Set sets x to y.
func Set(x, y Operand) Instr { return op2(OpSet, x, y) }

// Copy copies x to y.
func Copy(x, y Operand) Instr { return op2(OpCopy, x, y) }

func ClearTrack() Instr  { return Instr{Op: OpClearTrack} }
func ClearMemory() Instr { return Instr{Op: OpClearMemory} }
func ClearAll() Instr    { return Instr{Op: OpClearAll} }

func Add(x, y Operand) Instr { return op2(OpAdd, x, y) }
func Sub(x, y Operand) Instr { return op2(OpSub, x, y) }
func Mul(x, y Operand) Instr { return op2(OpMul, x, y) }
func Div(x, y Operand) Instr { return op2(OpDiv, x, y) }

// QuantizePitch quantizes the active track's pitch sequence.
func QuantizePitch() Instr { return Instr{Op: OpQuantizePitch} }

// GenerateProgression generates a chord progression.
func GenerateProgression() Instr { return Instr{Op: OpGenerateProgression} }

// GenerateEuclidean writes a Euclidean rhythm to the active track's
// velocity sequence.
func GenerateEuclidean(x, y Operand) Instr { return op2(OpGenerateEuclidean, x, y) }

// LoopSet opens a loop of x repetitions.
func LoopSet(x Operand) Instr { return Instr{Op: OpLoopSet, X: x} }
func LoopEnd() Instr          { return Instr{Op: OpLoopEnd} }

// Jump jumps to target.
func Jump(target Word) Instr { return Instr{Op: OpJump, Target: target} }

func CondEq(x, y Operand) Instr  { return op2(OpCondEq, x, y) }
func CondNe(x, y Operand) Instr  { return op2(OpCondNe, x, y) }
func CondGt(x, y Operand) Instr  { return op2(OpCondGt, x, y) }
func CondLt(x, y Operand) Instr  { return op2(OpCondLt, x, y) }
func CondGte(x, y Operand) Instr { return op2(OpCondGte, x, y) }
func CondLte(x, y Operand) Instr { return op2(OpCondLte, x, y) }
func CondEnd() Instr             { return Instr{Op: OpCondEnd} }

// End terminates the script.
func End() Instr { return Instr{Op: OpEnd} }

// Shape returns the payload layout of in.
func (in Instr) Shape() Shape { return in.Op.Info().Shape }

// Len returns the encoded length of in. It depends on the opcode only.
func (in Instr) Len() int { return InstrLen(byte(in.Op)) }

// Code returns the opcode byte. Unknown opcodes encode as OpNone.
func (in Instr) Code() byte {
	if !in.Op.Known() {
		return byte(OpNone)
	}
	return byte(in.Op)
}

// Encode returns the frame for a validated copy of in.
func (in Instr) Encode() []byte {
	b, _ := AppendInstr(make([]byte, 0, 5), &in)
	return b
}

// AppendInstr appends the frame for in to dst, validating its operands in
// place. It returns the extended slice and the number of operands clamped.
func AppendInstr(dst []byte, in *Instr) ([]byte, int) {
	log.Debugf("converting instruction: %s", in)
	start := len(dst)
	dst = append(dst, in.Code())
	clamped := 0
	emit := func(o *Operand) {
		b, c := EncodeOperand(o)
		if c {
			clamped++
		}
		dst = append(dst, b[:]...)
	}
	switch in.Shape() {
	case ShapeOperands:
		emit(&in.X)
		emit(&in.Y)
	case ShapeOperand:
		emit(&in.X)
	case ShapeWord:
		w := in.Target.Encode()
		dst = append(dst, w[:]...)
	}
	log.Debugf("converted instruction: %s > % x", in, dst[start:])
	return dst, clamped
}

// DecodeOpcode returns the skeleton for an opcode byte, with zero operands.
// Unknown bytes give None() and ok == false.
func DecodeOpcode(b byte) (in Instr, ok bool) {
	op := Op(b)
	if !op.Known() {
		return None(), false
	}
	return Instr{Op: op}, true
}

// Status flags anomalies absorbed while decoding a frame.
type Status uint8

const (
	UnknownOpcode Status = 1 << iota
	UnknownSource
)

// DecodeFrame decodes a complete frame. len(frame) must equal
// InstrLen(frame[0]).
func DecodeFrame(frame []byte) (Instr, Status, error) {
	if len(frame) == 0 {
		return Instr{}, 0, fmt.Errorf("empty frame: %w", ErrFrameLength)
	}
	in, ok := DecodeOpcode(frame[0])
	var st Status
	if !ok {
		st |= UnknownOpcode
	}
	if n := in.Len(); len(frame) != n {
		return Instr{}, st, fmt.Errorf("opcode 0x%02x wants %d bytes, got %d: %w",
			frame[0], n, len(frame), ErrFrameLength)
	}

	operand := func(n int) Operand {
		o, known, _ := GetOperand(frame, 0, n)
		if !known {
			st |= UnknownSource
		}
		return o
	}
	switch in.Shape() {
	case ShapeOperands:
		in.X = operand(0)
		in.Y = operand(1)
	case ShapeOperand:
		in.X = operand(0)
	case ShapeWord:
		in.Target, _ = GetWord(frame, 0)
	}
	log.Debugf("converted frame % x > %s", frame, in)
	return in, st, nil
}

func (in Instr) String() string {
	name := in.Op.String()
	switch in.Shape() {
	case ShapeOperands:
		return fmt.Sprintf("%s %s, %s", name, in.X, in.Y)
	case ShapeOperand:
		return fmt.Sprintf("%s %s", name, in.X)
	case ShapeWord:
		return fmt.Sprintf("%s %d", name, in.Target)
	}
	return name
}
