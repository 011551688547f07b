package bytecode

import "fmt"

// Source identifies where an operand's value comes from. The ordinal is the
// kind byte written on the wire.
type Source uint8

const (
	SrcConstant     Source = 0x00 // literal 0-127
	SrcRandom       Source = 0x01 // random draw 0-127
	SrcStepPitch    Source = 0x02 // pitch sequence step 0-31
	SrcStepVelocity Source = 0x03 // velocity sequence step 0-31
	SrcStepLength   Source = 0x04 // length sequence step 0-31
	SrcStepDensity  Source = 0x05 // density sequence step 0-31
	SrcMemoryBuffer Source = 0x06 // memory buffer slot 0-31
	SrcParams       Source = 0x07 // param 1-4, zero indexed
	SrcScale        Source = 0x08 // scale degree 0-127
	SrcFullScale    Source = 0x09 // full scale degree 0-127
	SrcRandomNote   Source = 0x0A // random note 0-100

	numSources = 11
)

// sourceInfo is the per-kind metadata table, indexed by Source.
var sourceInfo = [numSources]struct {
	name string
	max  uint8
}{
	SrcConstant:     {"const", 127},
	SrcRandom:       {"random", 127},
	SrcStepPitch:    {"step_pitch", 31},
	SrcStepVelocity: {"step_velocity", 31},
	SrcStepLength:   {"step_length", 31},
	SrcStepDensity:  {"step_density", 31},
	SrcMemoryBuffer: {"mem", 31},
	SrcParams:       {"param", 3},
	SrcScale:        {"scale", 127},
	SrcFullScale:    {"full_scale", 127},
	SrcRandomNote:   {"random_note", 100},
}

// Known reports whether s is one of the defined kinds.
func (s Source) Known() bool { return s < numSources }

// Max returns the inclusive ceiling for magnitudes of kind s.
// Unknown kinds use the Constant ceiling.
func (s Source) Max() uint8 {
	if !s.Known() {
		return sourceInfo[SrcConstant].max
	}
	return sourceInfo[s].max
}

func (s Source) String() string {
	if !s.Known() {
		return fmt.Sprintf("src_0x%02x", uint8(s))
	}
	return sourceInfo[s].name
}

// Operand is a typed instruction argument.
type Operand struct {
	Source Source
	Value  Value
}

// Max returns the ceiling for o's kind.
func (o Operand) Max() uint8 { return o.Source.Max() }

// Validate clamps the magnitude into [0, Max()] and reports whether it was
// reduced. The value kind is preserved.
func (o *Operand) Validate() bool {
	return o.Value.Clamp(0, o.Max())
}

// Encode returns [kind, scalar] for a validated copy of o.
func (o Operand) Encode() [2]byte {
	EncodeOperand(&o)
	return [2]byte{byte(o.Source), o.Value.Encode()}
}

// EncodeOperand validates o in place and returns its wire form along with
// whether validation clamped it.
func EncodeOperand(o *Operand) ([2]byte, bool) {
	log.Debugf("converting operand: %s", o)
	clamped := o.Validate()
	b := [2]byte{byte(o.Source), o.Value.Encode()}
	log.Debugf("converted operand: %s > % x", o, b[:])
	return b, clamped
}

// DecodeOperand decodes a [kind, scalar] pair. An unknown kind decodes as
// Constant(0) with ok == false.
func DecodeOperand(kind, scalar byte) (o Operand, ok bool) {
	src := Source(kind)
	if !src.Known() {
		log.Debugf("unknown operand kind 0x%02x, using const 0", kind)
		return Constant(0), false
	}
	return Operand{Source: src, Value: DecodeValue(scalar)}, true
}

func (o Operand) String() string {
	if o.Source == SrcConstant {
		return o.Value.String()
	}
	return fmt.Sprintf("%s[%s]", o.Source, o.Value)
}

// Operand constructors. The argument is a raw scalar byte, so values with
// the top bit set select a memory buffer slot: StepPitch(0x81) reads the
// step index from buffer slot 1.

func Constant(b byte) Operand     { return Operand{SrcConstant, DecodeValue(b)} }
func Random(b byte) Operand       { return Operand{SrcRandom, DecodeValue(b)} }
func StepPitch(b byte) Operand    { return Operand{SrcStepPitch, DecodeValue(b)} }
func StepVelocity(b byte) Operand { return Operand{SrcStepVelocity, DecodeValue(b)} }
func StepLength(b byte) Operand   { return Operand{SrcStepLength, DecodeValue(b)} }
func StepDensity(b byte) Operand  { return Operand{SrcStepDensity, DecodeValue(b)} }
func MemoryBuffer(b byte) Operand { return Operand{SrcMemoryBuffer, DecodeValue(b)} }
func Params(b byte) Operand       { return Operand{SrcParams, DecodeValue(b)} }
func Scale(b byte) Operand        { return Operand{SrcScale, DecodeValue(b)} }
func FullScale(b byte) Operand    { return Operand{SrcFullScale, DecodeValue(b)} }
func RandomNote(b byte) Operand   { return Operand{SrcRandomNote, DecodeValue(b)} }

// SourceByName returns the kind with the given listing name.
func SourceByName(name string) (Source, bool) {
	for i, info := range sourceInfo {
		if info.name == name {
			return Source(i), true
		}
	}
	return 0, false
}
