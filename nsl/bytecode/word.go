package bytecode

// Word is a 16-bit jump target, stored big-endian.
type Word uint16

// WordFrom builds a Word from its high and low bytes.
func WordFrom(hi, lo byte) Word { return Word(hi)<<8 | Word(lo) }

// Encode returns [high, low].
func (w Word) Encode() [2]byte { return [2]byte{byte(w >> 8), byte(w)} }

// GetWord reads the big-endian word following the opcode at bc[off].
// ok is false when the input is truncated.
func GetWord(bc []byte, off int) (Word, bool) {
	if off+3 > len(bc) {
		return 0, false
	}
	return WordFrom(bc[off+1], bc[off+2]), true
}

// GetOperand reads the n-th operand (0 or 1) following the opcode at bc[off].
// ok is false when the input is truncated; known is false when the kind
// byte was not recognised.
func GetOperand(bc []byte, off, n int) (o Operand, known, ok bool) {
	p := off + 1 + 2*n
	if p+2 > len(bc) {
		return Operand{}, false, false
	}
	o, known = DecodeOperand(bc[p], bc[p+1])
	return o, known, true
}
