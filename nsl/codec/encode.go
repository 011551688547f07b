package codec

import (
	"fmt"
	"os"

	"github.com/zboralski/ngen-nsl/nsl"
	"github.com/zboralski/ngen-nsl/nsl/bytecode"
)

// EncodeOpt encodes s, recording a "clamped" diagnostic for every
// instruction whose operands had to be clamped.
//
// Operands are validated in place, so after encoding s holds the values
// that were written.
func EncodeOpt(s *nsl.Script) nsl.Result[[]byte] {
	h := nsl.Header()
	out := make([]byte, 0, s.Size())
	out = append(out, h[:]...)

	var diags []nsl.Diagnostic
	for i := range s.Instrs {
		off := len(out)
		var n int
		out, n = bytecode.AppendInstr(out, &s.Instrs[i])
		if n > 0 {
			diags = append(diags, nsl.Diagnostic{
				Offset: off,
				Index:  i,
				Kind:   "clamped",
				Msg:    fmt.Sprintf("%d operand(s) of %s clamped", n, s.Instrs[i].Op),
			})
		}
	}
	log.Infof("encoded %d instructions into %d bytes", len(s.Instrs), len(out))
	return nsl.Result[[]byte]{Value: out, Diags: diags}
}

// Encode encodes s into an NSL byte stream.
func Encode(s *nsl.Script) []byte {
	return EncodeOpt(s).Value
}

// EncodeFile encodes s and writes it to path.
func EncodeFile(path string, s *nsl.Script) error {
	if err := os.WriteFile(path, Encode(s), 0644); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	return nil
}
