package bytecode

import (
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("nsl.bytecode")

// ValueKind selects between a literal magnitude and a memory buffer slot.
type ValueKind uint8

const (
	Number      ValueKind = 0
	BufferIndex ValueKind = 1
)

// MaxMagnitude is the largest magnitude a scalar byte can carry.
const MaxMagnitude = 0x7F

// bufferBit is the discriminant bit of an encoded scalar.
const bufferBit = 0x80

// Value is a scalar operand: a literal number or an index into the
// hardware memory buffer, both 0-127.
type Value struct {
	Kind ValueKind
	N    uint8
}

// Num returns a literal Value.
func Num(n uint8) Value { return Value{Kind: Number, N: n} }

// Buf returns a buffer-index Value.
func Buf(n uint8) Value { return Value{Kind: BufferIndex, N: n} }

// DecodeValue decodes a scalar byte. It is defined for every byte.
func DecodeValue(b byte) Value {
	if b > MaxMagnitude {
		return Buf(b - bufferBit)
	}
	return Num(b)
}

// Encode returns the scalar byte for v.
//
// Numbers saturate at 127. Buffer indices are not saturated: an index above
// 127 wraps past the discriminant bit. Operand validation keeps every
// ceiling at or below 127, so only a Value encoded outside an Operand can
// reach the wrapping branch.
func (v Value) Encode() byte {
	if v.Kind == BufferIndex {
		return v.N + bufferBit
	}
	if v.N > MaxMagnitude {
		return MaxMagnitude
	}
	return v.N
}

// Clamp limits the magnitude to [min, max] in place, keeping the kind.
// It reports whether the magnitude was reduced.
func (v *Value) Clamp(min, max uint8) bool {
	switch {
	case v.N < min:
		v.N = min
	case v.N > max:
		log.Debugf("clipping value %d to %d", v.N, max)
		v.N = max
		return true
	}
	return false
}

func (v Value) String() string {
	if v.Kind == BufferIndex {
		return fmt.Sprintf("buf[%d]", v.N)
	}
	return fmt.Sprintf("%d", v.N)
}
