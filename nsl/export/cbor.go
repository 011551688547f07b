// Package export converts scripts to and from a canonical CBOR document,
// for tools that want the instruction structure without parsing frames.
package export

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/zboralski/ngen-nsl/nsl"
	"github.com/zboralski/ngen-nsl/nsl/bytecode"
)

// cborEncMode is canonical so equal scripts marshal to equal bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("export: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Document is the CBOR form of a script.
type Document struct {
	Format  string        `cbor:"format"`
	Version uint8         `cbor:"version"`
	Instrs  []Instruction `cbor:"instrs"`
}

// Instruction is the CBOR form of one instruction. Code is authoritative;
// Op is the listing name and is ignored on import.
type Instruction struct {
	Op     string   `cbor:"op"`
	Code   uint8    `cbor:"code"`
	X      *Operand `cbor:"x,omitempty"`
	Y      *Operand `cbor:"y,omitempty"`
	Target *uint16  `cbor:"target,omitempty"`
}

// Operand is the CBOR form of an operand.
type Operand struct {
	Source string `cbor:"src"`
	Buffer bool   `cbor:"buf,omitempty"`
	N      uint8  `cbor:"n"`
}

func operandDoc(o bytecode.Operand) *Operand {
	return &Operand{
		Source: o.Source.String(),
		Buffer: o.Value.Kind == bytecode.BufferIndex,
		N:      o.Value.N,
	}
}

func (d *Operand) operand() (bytecode.Operand, error) {
	if d == nil {
		return bytecode.Operand{}, fmt.Errorf("missing operand")
	}
	src, ok := bytecode.SourceByName(d.Source)
	if !ok {
		return bytecode.Operand{}, fmt.Errorf("unknown source %q", d.Source)
	}
	v := bytecode.Num(d.N)
	if d.Buffer {
		v = bytecode.Buf(d.N)
	}
	return bytecode.Operand{Source: src, Value: v}, nil
}

// ToDocument builds the document for s.
func ToDocument(s *nsl.Script) *Document {
	doc := &Document{Format: nsl.Magic, Version: s.Version, Instrs: make([]Instruction, len(s.Instrs))}
	for i, in := range s.Instrs {
		di := Instruction{Op: in.Op.String(), Code: in.Code()}
		switch in.Shape() {
		case bytecode.ShapeOperands:
			di.X, di.Y = operandDoc(in.X), operandDoc(in.Y)
		case bytecode.ShapeOperand:
			di.X = operandDoc(in.X)
		case bytecode.ShapeWord:
			t := uint16(in.Target)
			di.Target = &t
		}
		doc.Instrs[i] = di
	}
	return doc
}

// Script rebuilds the script described by d.
func (d *Document) Script() (*nsl.Script, error) {
	if d.Format != nsl.Magic {
		return nil, fmt.Errorf("export: format %q: %w", d.Format, nsl.ErrBadMagic)
	}
	s := &nsl.Script{Version: d.Version, Instrs: make([]bytecode.Instr, 0, len(d.Instrs))}
	for i, di := range d.Instrs {
		in, ok := bytecode.DecodeOpcode(di.Code)
		if !ok {
			return nil, fmt.Errorf("export: instruction %d: code 0x%02x: %w", i, di.Code, nsl.ErrUnknownOpcode)
		}
		var err error
		switch in.Shape() {
		case bytecode.ShapeOperands:
			if in.X, err = di.X.operand(); err == nil {
				in.Y, err = di.Y.operand()
			}
		case bytecode.ShapeOperand:
			in.X, err = di.X.operand()
		case bytecode.ShapeWord:
			if di.Target == nil {
				err = fmt.Errorf("missing target")
			} else {
				in.Target = bytecode.Word(*di.Target)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("export: instruction %d (%s): %w", i, in.Op, err)
		}
		s.Instrs = append(s.Instrs, in)
	}
	return s, nil
}

// Marshal serializes s to canonical CBOR.
func Marshal(s *nsl.Script) ([]byte, error) {
	return cborEncMode.Marshal(ToDocument(s))
}

// Unmarshal deserializes a script from CBOR.
func Unmarshal(data []byte) (*nsl.Script, error) {
	var d Document
	if err := cbor.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("export: unmarshal document: %w", err)
	}
	return d.Script()
}
