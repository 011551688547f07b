package nsl

import (
	"errors"
	"io"

	"github.com/zboralski/ngen-nsl/nsl/bytecode"
)

var (
	// ErrBadMagic is returned when a stream does not start with "NSL".
	ErrBadMagic = errors.New("bad NSL magic")

	// ErrTruncated is returned when a frame runs past the end of the stream.
	ErrTruncated = io.ErrUnexpectedEOF

	// ErrUnknownOpcode is returned in Strict mode for unassigned opcodes.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrUnknownSource is returned in Strict mode for unassigned operand kinds.
	ErrUnknownSource = errors.New("unknown operand kind")

	// ErrFrameLength is returned when a frame's size disagrees with its opcode.
	ErrFrameLength = bytecode.ErrFrameLength
)
