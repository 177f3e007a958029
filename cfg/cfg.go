// Package cfg builds the control-flow graph the intraprocedural
// points-to pass walks. Grounded on the shape of go/ssa's
// BasicBlock.Succs -- the teacher already walks *ssa.Function control
// flow this way when resolving terms (terms.go) -- generalized here
// from an ssa.Function's blocks to a lifted tac.MethodBody's blocks.
package cfg

import (
	"sort"

	"github.com/nortwick-labs/tacpta/tac"
)

// ControlFlowGraph is the successor/predecessor view of a lifted
// method's basic blocks (spec.md §4.6 "a cfg.ControlFlowGraph" input).
type ControlFlowGraph struct {
	Entry  uint32
	Blocks map[uint32]*tac.BasicBlock
	Succs  map[uint32][]uint32
	Preds  map[uint32][]uint32
}

// Build derives the CFG from mb's blocks by classifying each block's
// terminating instruction.
func Build(mb *tac.MethodBody) *ControlFlowGraph {
	g := &ControlFlowGraph{
		Entry:  mb.Entry,
		Blocks: mb.Blocks,
		Succs:  make(map[uint32][]uint32),
		Preds:  make(map[uint32][]uint32),
	}

	offsets := mb.BlockOffsets()
	for i, off := range offsets {
		block := mb.Blocks[off]
		var fallthroughOffset uint32
		hasFallthrough := i+1 < len(offsets)
		if hasFallthrough {
			fallthroughOffset = offsets[i+1]
		}
		succs := successorsOf(block, fallthroughOffset, hasFallthrough)
		g.Succs[off] = succs
		for _, s := range succs {
			g.Preds[s] = append(g.Preds[s], off)
		}
	}

	for off := range g.Preds {
		sort.Slice(g.Preds[off], func(i, j int) bool { return g.Preds[off][i] < g.Preds[off][j] })
	}
	return g
}

func successorsOf(b *tac.BasicBlock, fallthroughOffset uint32, hasFallthrough bool) []uint32 {
	var out []uint32
	seen := make(map[uint32]bool)
	add := func(target uint32) {
		if !seen[target] {
			seen[target] = true
			out = append(out, target)
		}
	}

	var last tac.TacInstr
	for _, instr := range b.Instrs {
		switch v := instr.(type) {
		case *tac.ExcBranch:
			add(v.Target)
		}
		last = instr
	}

	switch v := last.(type) {
	case *tac.Branch:
		add(v.Target)
		return out
	case *tac.CondBranch:
		add(v.Target)
	case *tac.Switch:
		for _, t := range v.Targets {
			add(t)
		}
	case *tac.Return, *tac.Throw:
		return out
	}

	if hasFallthrough {
		switch last.(type) {
		case *tac.Return, *tac.Throw, *tac.Branch:
			// no fallthrough
		default:
			add(fallthroughOffset)
		}
	}
	return out
}
