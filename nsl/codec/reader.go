package codec

import (
	"fmt"

	"github.com/zboralski/ngen-nsl/nsl"
	"github.com/zboralski/ngen-nsl/nsl/bytecode"
)

// reader walks a byte stream one frame at a time.
// In BestEffort mode a frame that runs past EOF is dropped and recorded as a
// diagnostic. Otherwise it is an error wrapping nsl.ErrTruncated.
type reader struct {
	data  []byte
	pos   int
	mode  nsl.Mode
	diags []nsl.Diagnostic
}

func newReader(data []byte, mode nsl.Mode) *reader {
	return &reader{data: data, mode: mode}
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) diag(kind, format string, args ...any) {
	r.addDiag(r.pos, -1, kind, fmt.Sprintf(format, args...))
}

func (r *reader) addDiag(off, index int, kind, msg string) {
	r.diags = append(r.diags, nsl.Diagnostic{Offset: off, Index: index, Kind: kind, Msg: msg})
}

func (r *reader) truncated(n int, what string) error {
	if r.mode == nsl.BestEffort {
		r.diag("truncated", "%s: need %d bytes, have %d", what, n, r.remaining())
		r.pos = len(r.data)
		return nil
	}
	return fmt.Errorf("%s at offset %d: need %d bytes, have %d: %w",
		what, r.pos, n, r.remaining(), nsl.ErrTruncated)
}

// frame returns the next instruction frame, sized by its opcode byte.
// It returns nil, nil when a truncated frame was dropped in BestEffort mode.
func (r *reader) frame() ([]byte, error) {
	op := r.data[r.pos]
	n := bytecode.InstrLen(op)
	if r.pos+n > len(r.data) {
		return nil, r.truncated(n, fmt.Sprintf("frame for opcode 0x%02x", op))
	}
	b := r.data[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return b, nil
}
