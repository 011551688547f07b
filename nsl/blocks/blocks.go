// Package blocks recovers loop and conditional structure from the flat
// instruction sequence of a decoded script.
//
// The codec never checks that LoopSet/LoopEnd and Cond*/CondEnd markers
// balance; this pass does, reporting mismatches as diagnostics.
package blocks

import (
	"fmt"

	"github.com/zboralski/ngen-nsl/nsl"
	"github.com/zboralski/ngen-nsl/nsl/bytecode"
)

// Kind is the kind of a block.
type Kind int

const (
	Loop Kind = iota
	Cond
)

func (k Kind) String() string {
	if k == Loop {
		return "loop"
	}
	return "if"
}

// Block is a matched (or unclosed) region of the instruction sequence.
type Block struct {
	ID       int
	Kind     Kind
	Open     int // index of the opening instruction
	Close    int // index of the closing instruction, -1 if unclosed
	Depth    int // 0 for top-level blocks
	Parent   int // parent block ID, -1 for top-level blocks
	Children []int
}

// Closed reports whether the block has a matching end marker.
func (b *Block) Closed() bool { return b.Close >= 0 }

// Tree is the block structure of a script.
type Tree struct {
	Blocks []*Block
	Roots  []int // IDs of top-level blocks

	// Depth is the nesting depth of each instruction. Openers and closers
	// sit at the depth of the enclosing region.
	Depth []int

	// OpenAt and CloseAt map instruction indices to block IDs.
	OpenAt  map[int]int
	CloseAt map[int]int

	// Stray counts end markers with no open block of their kind.
	Stray int
}

// Balanced reports whether every block was closed and no stray end marker
// was found.
func (t *Tree) Balanced() bool {
	if t.Stray > 0 {
		return false
	}
	for _, b := range t.Blocks {
		if !b.Closed() {
			return false
		}
	}
	return true
}

// closerKind returns the block kind an end marker closes.
func closerKind(op bytecode.Op) (Kind, bool) {
	switch op {
	case bytecode.OpLoopEnd:
		return Loop, true
	case bytecode.OpCondEnd:
		return Cond, true
	}
	return 0, false
}

// openerKind returns the block kind an instruction opens.
func openerKind(op bytecode.Op) (Kind, bool) {
	switch {
	case op == bytecode.OpLoopSet:
		return Loop, true
	case op.IsCond():
		return Cond, true
	}
	return 0, false
}

// Analyze pairs block markers in s.
func Analyze(s *nsl.Script) nsl.Result[*Tree] {
	t := &Tree{
		Depth:   make([]int, len(s.Instrs)),
		OpenAt:  map[int]int{},
		CloseAt: map[int]int{},
	}
	var diags []nsl.Diagnostic
	offs := s.Offsets()
	diag := func(i int, msg string) {
		diags = append(diags, nsl.Diagnostic{Offset: offs[i], Index: i, Kind: "unbalanced", Msg: msg})
	}

	var stack []int // open block IDs
	for i, in := range s.Instrs {
		t.Depth[i] = len(stack)

		if k, ok := openerKind(in.Op); ok {
			b := &Block{ID: len(t.Blocks), Kind: k, Open: i, Close: -1, Depth: len(stack), Parent: -1}
			if len(stack) > 0 {
				b.Parent = stack[len(stack)-1]
				t.Blocks[b.Parent].Children = append(t.Blocks[b.Parent].Children, b.ID)
			} else {
				t.Roots = append(t.Roots, b.ID)
			}
			t.Blocks = append(t.Blocks, b)
			t.OpenAt[i] = b.ID
			stack = append(stack, b.ID)
			continue
		}

		k, ok := closerKind(in.Op)
		if !ok {
			continue
		}
		// Find the innermost open block of the matching kind.
		match := -1
		for j := len(stack) - 1; j >= 0; j-- {
			if t.Blocks[stack[j]].Kind == k {
				match = j
				break
			}
		}
		if match < 0 {
			diag(i, fmt.Sprintf("%s without open %s", in.Op, k))
			t.Stray++
			continue
		}
		// Blocks opened inside the match are left unclosed.
		for _, id := range stack[match+1:] {
			b := t.Blocks[id]
			diag(i, fmt.Sprintf("%s #%d opened at %d closed by %s", b.Kind, b.ID, b.Open, in.Op))
		}
		id := stack[match]
		t.Blocks[id].Close = i
		t.CloseAt[i] = id
		stack = stack[:match]
		t.Depth[i] = len(stack)
	}

	for _, id := range stack {
		b := t.Blocks[id]
		diag(b.Open, fmt.Sprintf("%s #%d never closed", b.Kind, b.ID))
	}
	return nsl.Result[*Tree]{Value: t, Diags: diags}
}
