// Package blockscan recognizes basic-block leaders in a raw operation
// stream (spec.md §4.2). Grounded on
// other_examples/bnb-chain-bsc__opcodeParser.go's program-counter scan
// for jump destinations, specialised to the leader/fall-through rules of
// spec.md §4.2.
package blockscan

import (
	"sort"

	"github.com/nortwick-labs/tacpta/bytecode"
	"github.com/nortwick-labs/tacpta/tac"
)

// Result is the outcome of a single recognition pass: every discovered
// leader offset, mapped to a fresh BasicBlock shell (instructions are
// filled in later by the lifter driver).
type Result struct {
	Blocks map[uint32]*tac.BasicBlock
}

// Offsets returns the recognized leader offsets in ascending order.
func (r *Result) Offsets() []uint32 {
	out := make([]uint32, 0, len(r.Blocks))
	for off := range r.Blocks {
		out = append(out, off)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Result) ensure(offset uint32, canFallThroughDefault bool) *tac.BasicBlock {
	if b, ok := r.Blocks[offset]; ok {
		return b
	}
	b := tac.NewBasicBlock(offset)
	b.CanFallThrough = canFallThroughDefault
	r.Blocks[offset] = b
	return b
}

// targetsOf returns the branch targets of a raw op that carries one (Br,
// Leave) or many (Switch) or one-plus-fallthrough (conditional
// branches).
func targetsOf(op bytecode.RawOp) []uint32 {
	switch op.Op {
	case bytecode.OpBr, bytecode.OpLeave,
		bytecode.OpBrTrue, bytecode.OpBrFalse,
		bytecode.OpBeq, bytecode.OpBne, bytecode.OpBlt, bytecode.OpBle, bytecode.OpBgt, bytecode.OpBge:
		if op.Operand.Kind == bytecode.ValBranchTarget {
			return []uint32{op.Operand.Target}
		}
		return nil
	case bytecode.OpSwitch:
		if op.Operand.Kind == bytecode.ValSwitchTargets {
			return op.Operand.Targets
		}
		return nil
	default:
		return nil
	}
}

// hasFallThrough reports whether execution may continue past op into the
// next offset in program order (spec.md §4.2).
func hasFallThrough(op bytecode.RawOp) bool {
	switch op.Op {
	case bytecode.OpRet, bytecode.OpEndFinally, bytecode.OpEndFilter, bytecode.OpThrow, bytecode.OpRethrow,
		bytecode.OpBr, bytecode.OpLeave:
		return false
	default:
		return true
	}
}

// Recognize performs the single pass over ops described in spec.md §4.2:
// a new block starts at offset 0, at any branch target, and at the
// instruction following a terminator.
func Recognize(ops []bytecode.RawOp) *Result {
	res := &Result{Blocks: make(map[uint32]*tac.BasicBlock)}
	if len(ops) == 0 {
		return res
	}

	// Offset 0 always starts a block; it has no predecessor to fall
	// through from.
	res.ensure(ops[0].Offset, false)

	for i, op := range ops {
		for _, target := range targetsOf(op) {
			// "targets created for a branch keep the default true
			// unless overwritten by a later leader that falls into
			// them" (spec.md §4.2).
			res.ensure(target, true)
		}

		if !op.Op.IsTerminator() {
			continue
		}
		if i+1 >= len(ops) {
			continue
		}

		next := ops[i+1].Offset
		// This is the authoritative walk reaching `next` in program
		// order: overwrite whatever default a prior branch-target
		// sighting installed.
		b := res.ensure(next, hasFallThrough(op))
		b.CanFallThrough = hasFallThrough(op)
	}

	return res
}
