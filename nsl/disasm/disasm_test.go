package disasm

import (
	"errors"
	"strings"
	"testing"

	"github.com/zboralski/ngen-nsl/nsl"
	"github.com/zboralski/ngen-nsl/nsl/bytecode"
)

func TestListing(t *testing.T) {
	s := nsl.New()
	s.Append(
		bytecode.LoopSet(bytecode.Constant(32)),
		bytecode.Set(bytecode.MemoryBuffer(0), bytecode.Constant(1)),
		bytecode.LoopEnd(),
		bytecode.End(),
	)
	res := Listing(s, Options{Indent: true})
	want := "00004  loop 32" + strings.Repeat(" ", 46) + "; loop #0\n" +
		"00007    set mem[0], 1\n" +
		"0000C  endloop" + strings.Repeat(" ", 46) + "; end loop #0\n" +
		"0000D  end\n"
	if res.Value != want {
		t.Errorf("listing mismatch:\n got:\n%s\nwant:\n%s", res.Value, want)
	}
	if len(res.Diags) != 0 {
		t.Errorf("unexpected diags: %+v", res.Diags)
	}
}

func TestDisasmBytes(t *testing.T) {
	data := []byte{'N', 'S', 'L', 1, 0xA1, 0x02, 0x00, 0x00, 0x24, 0xFF}
	out, err := Disasm(data)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"loc    bytes           op",
		"00004  a1 02 00 00 24  set step_pitch[0], 36",
		"00009  ff              end",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestDisasmUnknownOpcode(t *testing.T) {
	data := []byte{'N', 'S', 'L', 1, 0x42, 0xC1}
	res, err := DisasmOpt(data, nsl.DefaultOptions(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Value, "; unknown opcode") || !strings.Contains(res.Value, "; unmatched") {
		t.Errorf("got:\n%s", res.Value)
	}
	kinds := map[string]bool{}
	for _, d := range res.Diags {
		kinds[d.Kind] = true
	}
	if !kinds["unknown_opcode"] || !kinds["unbalanced"] {
		t.Errorf("got diags %+v", res.Diags)
	}

	if _, err := DisasmOpt(data, nsl.Options{Mode: nsl.Strict}, Options{}); !errors.Is(err, nsl.ErrUnknownOpcode) {
		t.Errorf("Strict err = %v", err)
	}
}

func TestDisasmBadMagic(t *testing.T) {
	if _, err := Disasm([]byte("XYZ")); !errors.Is(err, nsl.ErrBadMagic) {
		t.Errorf("err = %v", err)
	}
}
