package render

import (
	"fmt"
	"strings"

	"github.com/zboralski/ngen-nsl/nsl"
	"github.com/zboralski/ngen-nsl/nsl/blocks"
)

// maxBlockLines limits how many instructions are listed in one node.
const maxBlockLines = 8

// DOT renders the block tree of s in Graphviz DOT format. The root node
// holds top-level instructions; each loop or conditional becomes a child
// node listing the instructions directly inside it.
func DOT(s *nsl.Script, t *blocks.Tree, title string) string {
	const (
		ink    = "#1A1A1A"
		indigo = "#2D4A7A"
		red    = "#BF3F2F"
		gray   = "#9E9E9E"
		paper  = "#FAF6F0"
	)

	var b strings.Builder
	b.WriteString("digraph blocks {\n")
	b.WriteString("  rankdir=TB;\n")
	b.WriteString("  nodesep=0.4;\n")
	b.WriteString("  ranksep=0.5;\n")
	fmt.Fprintf(&b, "  bgcolor=%q;\n", paper)
	fmt.Fprintf(&b, "  node [shape=rect, style=filled, fillcolor=white, color=%q, penwidth=0.5, fontname=\"Courier,monospace\", fontsize=8, fontcolor=%q, margin=\"0.12,0.06\"];\n", gray, ink)
	fmt.Fprintf(&b, "  edge [color=%q, penwidth=0.5, arrowsize=0.5, arrowhead=vee];\n", gray)
	if title != "" {
		b.WriteString("  labelloc=t;\n  labeljust=l;\n")
		fmt.Fprintf(&b, "  label=<<font face=\"Helvetica Neue,Helvetica\" point-size=\"8\" color=\"%s\">%s</font>>;\n", ink, dotEscape(title))
	}
	b.WriteByte('\n')

	// Instructions owned directly by each block; -1 is the script root.
	owned := map[int][]int{}
	var stack []int
	for i := range s.Instrs {
		if id, ok := t.CloseAt[i]; ok {
			for len(stack) > 0 && stack[len(stack)-1] != id {
				stack = stack[:len(stack)-1]
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
		owner := -1
		if len(stack) > 0 {
			owner = stack[len(stack)-1]
		}
		if id, ok := t.OpenAt[i]; ok {
			owned[owner] = append(owned[owner], i)
			stack = append(stack, id)
			continue
		}
		if _, ok := t.CloseAt[i]; !ok {
			owned[owner] = append(owned[owner], i)
		}
	}

	fmt.Fprintf(&b, "  root [label=%s, fillcolor=%q, fontcolor=white, penwidth=0];\n",
		nodeLabel("main", s, owned[-1]), ink)
	for _, blk := range t.Blocks {
		head := fmt.Sprintf("%s #%d  [%d..%d]", blk.Kind, blk.ID, blk.Open, blk.Close)
		color := indigo
		style := "filled"
		if !blk.Closed() {
			head = fmt.Sprintf("%s #%d  [%d..?]", blk.Kind, blk.ID, blk.Open)
			color = red
			style = "filled,dashed"
		}
		fmt.Fprintf(&b, "  %s [label=%s, style=%q, color=%q];\n",
			blockID(blk.ID), nodeLabel(head, s, owned[blk.ID]), style, color)
	}
	b.WriteByte('\n')

	for _, id := range t.Roots {
		fmt.Fprintf(&b, "  root -> %s;\n", blockID(id))
	}
	for _, blk := range t.Blocks {
		for _, child := range blk.Children {
			fmt.Fprintf(&b, "  %s -> %s;\n", blockID(blk.ID), blockID(child))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// nodeLabel builds an HTML-like label: a bold heading followed by one line
// per instruction.
func nodeLabel(head string, s *nsl.Script, idx []int) string {
	var b strings.Builder
	b.WriteString("<<b>")
	b.WriteString(dotEscape(head))
	b.WriteString("</b>")
	for n, i := range idx {
		if n == maxBlockLines {
			fmt.Fprintf(&b, "<br align=\"left\"/>… %d more", len(idx)-n)
			break
		}
		fmt.Fprintf(&b, "<br align=\"left\"/>%d: %s", i, dotEscape(s.Instrs[i].String()))
	}
	b.WriteString("<br align=\"left\"/>>")
	return b.String()
}
