package bytecode

// Op is an instruction opcode byte.
type Op uint8

const (
	OpNone Op = 0x00 // placeholder for unknown opcodes

	OpSet         Op = 0xA1
	OpCopy        Op = 0xA2
	OpClearTrack  Op = 0xA3
	OpClearMemory Op = 0xA4
	OpClearAll    Op = 0xA5

	OpAdd                 Op = 0xB0
	OpSub                 Op = 0xB1
	OpMul                 Op = 0xB2
	OpDiv                 Op = 0xB3
	OpQuantizePitch       Op = 0xB4
	OpGenerateProgression Op = 0xB5
	OpGenerateEuclidean   Op = 0xB6

	OpLoopSet Op = 0xC0
	OpLoopEnd Op = 0xC1
	OpJump    Op = 0xC2

	OpCondEq  Op = 0xD0
	OpCondNe  Op = 0xD1
	OpCondGt  Op = 0xD2
	OpCondLt  Op = 0xD3
	OpCondGte Op = 0xD4
	OpCondLte Op = 0xD5
	OpCondEnd Op = 0xD6

	OpEnd Op = 0xFF
)

// Shape is the payload layout that follows an opcode.
type Shape uint8

const (
	ShapeNone     Shape = iota // opcode only
	ShapeOperand               // one operand
	ShapeWord                  // one big-endian word
	ShapeOperands              // two operands
)

// shapeLen is the full frame length for each shape, opcode included.
var shapeLen = [...]int8{
	ShapeNone:     1,
	ShapeOperand:  3,
	ShapeWord:     3,
	ShapeOperands: 5,
}

// OpInfo holds metadata about an opcode.
type OpInfo struct {
	Name   string
	Length int8 // 0 for unassigned opcodes
	Shape  Shape
}

// Opcodes maps every opcode byte to its metadata.
var Opcodes = func() (t [256]OpInfo) {
	def := func(op Op, name string, shape Shape) {
		t[op] = OpInfo{Name: name, Length: shapeLen[shape], Shape: shape}
	}
	def(OpNone, "none", ShapeNone)

	def(OpSet, "set", ShapeOperands)
	def(OpCopy, "copy", ShapeOperands)
	def(OpClearTrack, "cleartrack", ShapeNone)
	def(OpClearMemory, "clearmem", ShapeNone)
	def(OpClearAll, "clearall", ShapeNone)

	def(OpAdd, "add", ShapeOperands)
	def(OpSub, "sub", ShapeOperands)
	def(OpMul, "mul", ShapeOperands)
	def(OpDiv, "div", ShapeOperands)
	def(OpQuantizePitch, "quantize", ShapeNone)
	def(OpGenerateProgression, "genprog", ShapeNone)
	def(OpGenerateEuclidean, "geneuclid", ShapeOperands)

	def(OpLoopSet, "loop", ShapeOperand)
	def(OpLoopEnd, "endloop", ShapeNone)
	def(OpJump, "jump", ShapeWord)

	def(OpCondEq, "ifeq", ShapeOperands)
	def(OpCondNe, "ifne", ShapeOperands)
	def(OpCondGt, "ifgt", ShapeOperands)
	def(OpCondLt, "iflt", ShapeOperands)
	def(OpCondGte, "ifge", ShapeOperands)
	def(OpCondLte, "ifle", ShapeOperands)
	def(OpCondEnd, "endif", ShapeNone)

	def(OpEnd, "end", ShapeNone)
	return t
}()

// Known reports whether op is an assigned opcode. OpNone is known: it is
// what unknown bytes decode to and what it encodes back as.
func (op Op) Known() bool { return Opcodes[op].Length > 0 }

// Info returns the metadata for op, falling back to OpNone's.
func (op Op) Info() OpInfo {
	if !op.Known() {
		return Opcodes[OpNone]
	}
	return Opcodes[op]
}

func (op Op) String() string { return op.Info().Name }

// InstrLen returns the frame length announced by an opcode byte. Unknown
// opcodes are one byte long.
func InstrLen(b byte) int {
	return int(Op(b).Info().Length)
}

// IsCond reports whether op opens a conditional block.
func (op Op) IsCond() bool { return op >= OpCondEq && op <= OpCondLte }
