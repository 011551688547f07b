package disasm

import (
	"fmt"
	"strings"

	"github.com/zboralski/ngen-nsl/nsl"
	"github.com/zboralski/ngen-nsl/nsl/blocks"
	"github.com/zboralski/ngen-nsl/nsl/bytecode"
	"github.com/zboralski/ngen-nsl/nsl/codec"
)

const commentCol = 60

// Options controls listing layout.
type Options struct {
	Header bool // print the column header
	Bytes  bool // print the raw frame bytes
	Indent bool // indent instructions by block depth
}

// DefaultOptions returns the layout used by the nsldis tool.
func DefaultOptions() Options {
	return Options{Header: true, Bytes: true, Indent: true}
}

// Listing returns the text listing of s. Block analysis diagnostics are
// returned alongside.
func Listing(s *nsl.Script, lo Options) nsl.Result[string] {
	var b strings.Builder
	res := blocks.Analyze(s)
	tree := res.Value

	if lo.Header {
		if lo.Bytes {
			b.WriteString("loc    bytes           op\n")
			b.WriteString("-----  -----           --\n")
		} else {
			b.WriteString("loc    op\n")
			b.WriteString("-----  --\n")
		}
	}

	offs := s.Offsets()
	for i, in := range s.Instrs {
		col := 0
		addr := fmt.Sprintf("%05X  ", offs[i])
		b.WriteString(addr)
		col += len(addr)

		if lo.Bytes {
			raw := fmt.Sprintf("%-16s", fmt.Sprintf("% x", in.Encode()))
			b.WriteString(raw)
			col += len(raw)
		}
		if lo.Indent {
			pad := strings.Repeat("  ", tree.Depth[i])
			b.WriteString(pad)
			col += len(pad)
		}

		text := in.String()
		b.WriteString(text)
		col += len(text)

		if c := comment(in, i, tree); c != "" {
			pad := commentCol - col
			if pad < 1 {
				pad = 1
			}
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString("; ")
			b.WriteString(c)
		}
		b.WriteByte('\n')
	}
	return nsl.Result[string]{Value: b.String(), Diags: res.Diags}
}

// comment returns the annotation for instruction i.
func comment(in bytecode.Instr, i int, t *blocks.Tree) string {
	if id, ok := t.OpenAt[i]; ok {
		blk := t.Blocks[id]
		if !blk.Closed() {
			return fmt.Sprintf("%s #%d (unclosed)", blk.Kind, id)
		}
		return fmt.Sprintf("%s #%d", blk.Kind, id)
	}
	if id, ok := t.CloseAt[i]; ok {
		return fmt.Sprintf("end %s #%d", t.Blocks[id].Kind, id)
	}
	switch in.Op {
	case bytecode.OpLoopEnd, bytecode.OpCondEnd:
		return "unmatched"
	case bytecode.OpNone:
		return "unknown opcode"
	}
	return ""
}

// DisasmOpt decodes data and lists it. Decode diagnostics precede block
// diagnostics in the result.
func DisasmOpt(data []byte, opt nsl.Options, lo Options) (nsl.Result[string], error) {
	dec, err := codec.DecodeOpt(data, opt)
	if err != nil {
		return nsl.Result[string]{Diags: dec.Diags}, err
	}
	res := Listing(dec.Value, lo)
	res.Diags = append(dec.Diags, res.Diags...)
	return res, nil
}

// Disasm decodes data in Lenient mode and returns the default listing.
func Disasm(data []byte) (string, error) {
	res, err := DisasmOpt(data, nsl.DefaultOptions(), DefaultOptions())
	return res.Value, err
}
