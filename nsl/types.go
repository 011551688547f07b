package nsl

// Mode controls how decode reacts to input it cannot fully interpret.
type Mode int

const (
	// Lenient absorbs unknown opcodes and operand kinds as placeholders,
	// recording diagnostics. A truncated frame is an error.
	Lenient Mode = iota
	// Strict returns an error on the first unknown opcode, unknown operand
	// kind or truncated frame.
	Strict
	// BestEffort never fails once the header is accepted: a truncated
	// trailing frame is dropped with a diagnostic.
	BestEffort
)

func (m Mode) String() string {
	switch m {
	case Lenient:
		return "lenient"
	case Strict:
		return "strict"
	case BestEffort:
		return "besteffort"
	}
	return "unknown"
}

// Options configures decode behavior.
type Options struct {
	Mode Mode

	// MaxSteps caps the number of instructions decoded; 0 uses DefaultMaxSteps.
	MaxSteps int
}

// DefaultOptions returns Lenient mode with the default step limit.
func DefaultOptions() Options {
	return Options{Mode: Lenient}
}

// DefaultMaxSteps is the default safety cap for the decode loop.
const DefaultMaxSteps = 1 << 20

// EffectiveMaxSteps returns the effective step limit.
func (o Options) EffectiveMaxSteps() int {
	if o.MaxSteps <= 0 {
		return DefaultMaxSteps
	}
	return o.MaxSteps
}

// Diagnostic records one anomaly found during encode, decode or analysis.
type Diagnostic struct {
	Offset int    // byte offset in the stream, -1 when not applicable
	Index  int    // instruction index, -1 when not applicable
	Kind   string // "truncated", "unknown_opcode", "unknown_source", "clamped", "version", "overflow", "unbalanced"
	Msg    string
}

// Result pairs a value with accumulated diagnostics.
type Result[T any] struct {
	Value T
	Diags []Diagnostic
}
