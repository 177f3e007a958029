package tac

import "github.com/nortwick-labs/tacpta/symbols"

// BlockStatus tracks a basic block's progress through the lifter's
// worklist (spec.md §3/§4.4).
type BlockStatus int

const (
	StatusNone BlockStatus = iota
	StatusPending
	StatusProcessed
)

// BasicBlock is a maximal straight-line run of lifted instructions
// (spec.md §3).
type BasicBlock struct {
	Offset           uint32
	CanFallThrough   bool
	StackSizeAtEntry uint16
	Status           BlockStatus
	Instrs           []TacInstr
}

func NewBasicBlock(offset uint32) *BasicBlock {
	return &BasicBlock{Offset: offset, CanFallThrough: true}
}

func (b *BasicBlock) Append(instr TacInstr) {
	b.Instrs = append(b.Instrs, instr)
}

// CatchInfo describes one handler registered on a TryRegion.
type CatchInfo struct {
	BeginOffset uint32
	EndOffset   uint32
	ExcType     symbols.TypeRef
}

// FinallyInfo describes the (at most one) finally block of a TryRegion.
type FinallyInfo struct {
	BeginOffset uint32
	EndOffset   uint32
}

// TryRegion indexes one try block's handlers (spec.md §3/§4.3).
type TryRegion struct {
	BeginOffset uint32
	EndOffset   uint32
	Handlers    map[uint32]CatchInfo // keyed by handler begin offset
	Finally     *FinallyInfo
}

func NewTryRegion(begin, end uint32) *TryRegion {
	return &TryRegion{BeginOffset: begin, EndOffset: end, Handlers: make(map[uint32]CatchInfo)}
}

// OrderedHandlers returns this region's catch handlers in ascending
// handler begin offset. The order in which they appeared in the raw
// exception table is not kept.
func (r *TryRegion) OrderedHandlers() []CatchInfo {
	out := make([]CatchInfo, 0, len(r.Handlers))
	for _, h := range r.Handlers {
		out = append(out, h)
	}
	// Insertion order from a map isn't stable; sort by begin offset so
	// callers (and tests) see a deterministic, source-order sequence.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].BeginOffset < out[j-1].BeginOffset; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Diagnostic records a recoverable lifting problem (spec.md §7
// LiftError.UnknownOpcode: "recoverable; record a diagnostic and
// continue"). ID lets a caller correlate one diagnostic across logs and
// a later re-inspection of the produced MethodBody without re-deriving
// it from Offset+Message, which is not unique across repeated lifts of
// the same method.
type Diagnostic struct {
	ID      string
	Offset  uint32
	Message string
}
