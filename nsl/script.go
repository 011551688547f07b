package nsl

import "github.com/zboralski/ngen-nsl/nsl/bytecode"

// Header bytes. Every encoded script starts with Magic followed by the
// format version byte.
const (
	Magic         = "NSL"
	FormatVersion = 0x01
	HeaderLen     = len(Magic) + 1
)

// Header returns the four header bytes written by the encoder.
func Header() [HeaderLen]byte {
	return [HeaderLen]byte{Magic[0], Magic[1], Magic[2], FormatVersion}
}

// HasMagic reports whether data starts with the three-byte tag.
func HasMagic(data []byte) bool {
	return len(data) >= len(Magic) && string(data[:len(Magic)]) == Magic
}

// Script is an ordered sequence of instructions.
type Script struct {
	// Version is the header version byte seen on decode. The encoder always
	// writes FormatVersion.
	Version uint8
	Instrs  []bytecode.Instr
}

// New returns an empty script.
func New() *Script {
	return &Script{Version: FormatVersion}
}

// Append adds instructions to the end of the script. Operands are not
// validated until encode.
func (s *Script) Append(in ...bytecode.Instr) {
	s.Instrs = append(s.Instrs, in...)
}

// AppendAll adds every instruction of ins.
func (s *Script) AppendAll(ins []bytecode.Instr) {
	s.Append(ins...)
}

// Len returns the number of instructions.
func (s *Script) Len() int { return len(s.Instrs) }

// Size returns the encoded size in bytes, header included.
func (s *Script) Size() int {
	n := HeaderLen
	for _, in := range s.Instrs {
		n += in.Len()
	}
	return n
}

// Offsets returns the stream offset of every instruction.
func (s *Script) Offsets() []int {
	offs := make([]int, len(s.Instrs))
	off := HeaderLen
	for i, in := range s.Instrs {
		offs[i] = off
		off += in.Len()
	}
	return offs
}
