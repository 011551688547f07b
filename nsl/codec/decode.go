package codec

import (
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/zboralski/ngen-nsl/nsl"
	"github.com/zboralski/ngen-nsl/nsl/bytecode"
)

var log = commonlog.GetLogger("nsl.codec")

// DecodeOpt parses an NSL byte stream with options.
//
// A stream that does not begin with "NSL" yields a nil script and
// nsl.ErrBadMagic in every mode. The version byte is recorded but not
// checked.
func DecodeOpt(data []byte, opt nsl.Options) (nsl.Result[*nsl.Script], error) {
	if !nsl.HasMagic(data) {
		n := min(len(data), len(nsl.Magic))
		return nsl.Result[*nsl.Script]{}, fmt.Errorf("%w: got %q", nsl.ErrBadMagic, data[:n])
	}
	log.Infof("decoding %d bytes", len(data))

	r := newReader(data, opt.Mode)
	s := &nsl.Script{}
	if len(data) >= nsl.HeaderLen {
		s.Version = data[nsl.HeaderLen-1]
		r.pos = nsl.HeaderLen
		if s.Version != nsl.FormatVersion {
			r.addDiag(nsl.HeaderLen-1, -1, "version",
				fmt.Sprintf("header version 0x%02x, expected 0x%02x", s.Version, nsl.FormatVersion))
		}
	} else {
		r.pos = len(data)
	}

	maxSteps := opt.EffectiveMaxSteps()
	for r.remaining() > 0 {
		if len(s.Instrs) >= maxSteps {
			if opt.Mode != nsl.BestEffort {
				return nsl.Result[*nsl.Script]{Diags: r.diags},
					fmt.Errorf("step limit %d exceeded at offset %d", maxSteps, r.pos)
			}
			r.diag("overflow", "step limit %d reached, truncating", maxSteps)
			break
		}

		off := r.pos
		log.Debugf("index %d: matching opcode 0x%02x (len %d)", off, r.data[off], bytecode.InstrLen(r.data[off]))
		frame, err := r.frame()
		if err != nil {
			return nsl.Result[*nsl.Script]{Diags: r.diags}, err
		}
		if frame == nil {
			break
		}

		in, st, err := bytecode.DecodeFrame(frame)
		if err != nil {
			return nsl.Result[*nsl.Script]{Diags: r.diags}, fmt.Errorf("offset %d: %w", off, err)
		}
		if st&bytecode.UnknownOpcode != 0 {
			if opt.Mode == nsl.Strict {
				return nsl.Result[*nsl.Script]{Diags: r.diags},
					fmt.Errorf("opcode 0x%02x at offset %d: %w", frame[0], off, nsl.ErrUnknownOpcode)
			}
			r.addDiag(off, len(s.Instrs), "unknown_opcode", fmt.Sprintf("unknown opcode 0x%02x", frame[0]))
		}
		if st&bytecode.UnknownSource != 0 {
			if opt.Mode == nsl.Strict {
				return nsl.Result[*nsl.Script]{Diags: r.diags},
					fmt.Errorf("instruction %s at offset %d: %w", in.Op, off, nsl.ErrUnknownSource)
			}
			r.addDiag(off, len(s.Instrs), "unknown_source",
				fmt.Sprintf("unknown operand kind in %s frame % x, using const 0", in.Op, frame))
		}
		log.Infof("converted step %d: %s", off, in)
		s.Instrs = append(s.Instrs, in)
	}

	return nsl.Result[*nsl.Script]{Value: s, Diags: r.diags}, nil
}

// Decode parses an NSL byte stream in Lenient mode.
func Decode(data []byte) (*nsl.Script, error) {
	res, err := DecodeOpt(data, nsl.DefaultOptions())
	return res.Value, err
}

// DecodeFileOpt reads a script file and decodes it with options.
func DecodeFileOpt(path string, opt nsl.Options) (nsl.Result[*nsl.Script], error) {
	data, err := ReadFile(path)
	if err != nil {
		return nsl.Result[*nsl.Script]{}, err
	}
	return DecodeOpt(data, opt)
}

// DecodeFile reads a script file and decodes it in Lenient mode.
func DecodeFile(path string) (*nsl.Script, error) {
	res, err := DecodeFileOpt(path, nsl.DefaultOptions())
	return res.Value, err
}

// ReadFile returns the raw bytes of a script file.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return data, nil
}
