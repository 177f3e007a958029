// Package pta implements the intraprocedural points-to dataflow pass
// (spec.md §4.6): a forward worklist fixed point over a method's CFG,
// joining points-to graphs at merge points and applying one transfer
// function per TacInstr kind. Grounded on the teacher's fixed-point
// shape (analyze.go's queue-driven re-solving of terms until no more
// edges are added), generalized from unification to the monotone
// may-graph join implemented by ptg.Graph.
package pta

import (
	"github.com/nortwick-labs/tacpta/cfg"
	"github.com/nortwick-labs/tacpta/ptg"
	"github.com/nortwick-labs/tacpta/tac"
)

// derefField is the sentinel field name used to key an indirect
// load/store (*addr) into the same node.field map used for real fields
// (spec.md §4.6 "Deref is field access through a sentinel name").
const derefField = "$deref"

// Handlers lets the interprocedural driver hook into call sites without
// pta needing to know anything about call-graph resolution (spec.md
// §4.6: "Call/IndirectCall/NewObj delegate to a callback").
type Handlers struct {
	OnCall         func(call *tac.Call, graph *ptg.Graph)
	OnIndirectCall func(call *tac.IndirectCall, graph *ptg.Graph)
	// OnCtorCall runs after the NewObjInstr's receiver node has already
	// been allocated and bound to Dst, so the handler only needs to
	// model the constructor's side effects on that receiver.
	OnCtorCall func(ctor *tac.NewObjInstr, receiver ptg.NodeId, graph *ptg.Graph)
}

// Analyze runs the fixed point over g starting from entryGraph bound at
// g.Entry, returning the graph reached at the exit of every block (its
// state immediately after that block's last instruction). methodTag is
// folded into every AllocateAt site key so that two methods analyzed
// against the same shared node universe (spec.md §4.7's single
// nodeIdGen) never collide on identical raw offsets.
func Analyze(g *cfg.ControlFlowGraph, entryGraph *ptg.Graph, methodTag uint64, h Handlers) map[uint32]*ptg.Graph {
	in := map[uint32]*ptg.Graph{g.Entry: entryGraph}
	out := make(map[uint32]*ptg.Graph)

	worklist := []uint32{g.Entry}
	queued := map[uint32]bool{g.Entry: true}

	for len(worklist) > 0 {
		off := worklist[0]
		worklist = worklist[1:]
		queued[off] = false

		block, ok := g.Blocks[off]
		if !ok {
			continue
		}
		outGraph := transferBlock(block, in[off].Clone(), methodTag, h)

		if prev, had := out[off]; had && prev.Equals(outGraph) {
			continue
		}
		out[off] = outGraph

		for _, succ := range g.Succs[off] {
			succIn, ok := in[succ]
			changed := false
			if !ok {
				in[succ] = outGraph.Clone()
				changed = true
			} else {
				changed = succIn.Union(outGraph)
			}
			if changed && !queued[succ] {
				worklist = append(worklist, succ)
				queued[succ] = true
			}
		}
	}

	return out
}

func transferBlock(b *tac.BasicBlock, graph *ptg.Graph, methodTag uint64, h Handlers) *ptg.Graph {
	for _, instr := range b.Instrs {
		transferInstr(instr, graph, methodTag, h)
	}
	return graph
}

func site(methodTag uint64, offset uint32) uint64 { return methodTag | uint64(offset) }

func transferInstr(instr tac.TacInstr, graph *ptg.Graph, methodTag uint64, h Handlers) {
	switch v := instr.(type) {
	case *tac.Load:
		applyLoad(graph, v.Dst, v.Src)
	case *tac.Store:
		applyStore(graph, v.Dst, v.Src)
	case *tac.Catch:
		node := graph.AllocateAt(site(methodTag, v.SourceOffset()), v.ExcType)
		graph.AssignNode(v.ExcVar, node)
	case *tac.NewObjInstr:
		node := graph.AllocateAt(site(methodTag, v.SourceOffset()), v.Ctor.ContainingType())
		graph.AssignNode(v.Dst, node)
		if h.OnCtorCall != nil {
			h.OnCtorCall(v, node, graph)
		}
	case *tac.NewArrayInstr:
		node := graph.AllocateAt(site(methodTag, v.SourceOffset()), v.ElemType)
		graph.AssignNode(v.Dst, node)
	case *tac.Call:
		if h.OnCall != nil {
			h.OnCall(v, graph)
		}
	case *tac.IndirectCall:
		if h.OnIndirectCall != nil {
			h.OnIndirectCall(v, graph)
		}
	case *tac.LoadTokenInstr:
		node := graph.AllocateAt(site(methodTag, v.SourceOffset()), v.Type)
		graph.AssignNode(v.Dst, node)
	default:
		// Arithmetic, conversions, branches, switch, sizeof/localloc/
		// copy/init, and control markers carry no heap reference and
		// are treated as identity on the graph (spec.md §4.6).
	}
}

func applyLoad(graph *ptg.Graph, dst tac.Variable, src tac.TacOperand) {
	switch s := src.(type) {
	case tac.OperandVar:
		graph.Assign(dst, s.V)
	case tac.OperandDeref:
		graph.LoadField(dst, s.V, derefField)
	case tac.OperandInstField:
		graph.LoadField(dst, s.Obj, s.Field)
	case tac.OperandStaticField:
		graph.LoadStatic(dst, s.Type, s.Field)
	case tac.OperandArrayElem:
		graph.LoadElem(dst, s.Array)
	default:
		// OperandConst, OperandRef, OperandMethodPtr carry no tracked
		// heap reference for this system's purposes.
	}
}

func applyStore(graph *ptg.Graph, dst tac.TacOperand, src tac.TacOperand) {
	srcVar, ok := src.(tac.OperandVar)
	if !ok {
		return
	}
	switch d := dst.(type) {
	case tac.OperandVar:
		graph.Assign(d.V, srcVar.V)
	case tac.OperandDeref:
		graph.StoreField(d.V, derefField, srcVar.V)
	case tac.OperandInstField:
		graph.StoreField(d.Obj, d.Field, srcVar.V)
	case tac.OperandStaticField:
		graph.StoreStatic(d.Type, d.Field, srcVar.V)
	case tac.OperandArrayElem:
		graph.StoreElem(d.Array, srcVar.V)
	}
}
