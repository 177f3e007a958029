package tac

import (
	"sort"

	"github.com/google/uuid"
)

// MethodBody is the lifted method: a variable universe plus the basic
// blocks the lifter produced, organized as a CFG (spec.md §3/§4.4).
type MethodBody struct {
	variables   map[Variable]struct{}
	Blocks      map[uint32]*BasicBlock
	Entry       uint32
	Diagnostics []Diagnostic
}

func NewMethodBody() *MethodBody {
	return &MethodBody{
		variables: make(map[Variable]struct{}),
		Blocks:    make(map[uint32]*BasicBlock),
	}
}

// AddVariable registers v as part of this method's variable universe.
// The operand stack registers every Temp up front (spec.md §4.1: "The
// set of all temps (not just the live ones) is registered ... because
// later dataflow passes need stable identities across all paths").
func (m *MethodBody) AddVariable(v Variable) {
	m.variables[v] = struct{}{}
}

// HasVariable implements spec.md §8 P3 (variable closure).
func (m *MethodBody) HasVariable(v Variable) bool {
	_, ok := m.variables[v]
	return ok
}

func (m *MethodBody) Variables() map[Variable]struct{} {
	return m.variables
}

func (m *MethodBody) AddBlock(b *BasicBlock) {
	m.Blocks[b.Offset] = b
}

func (m *MethodBody) Block(offset uint32) (*BasicBlock, bool) {
	b, ok := m.Blocks[offset]
	return b, ok
}

// BlockOffsets returns every block's offset in ascending order.
func (m *MethodBody) BlockOffsets() []uint32 {
	out := make([]uint32, 0, len(m.Blocks))
	for off := range m.Blocks {
		out = append(out, off)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Instructions flattens every block's instructions in ascending
// block-offset order, for callers (tests, debug dumps) that want a
// single linear view of the lifted method.
func (m *MethodBody) Instructions() []TacInstr {
	var out []TacInstr
	for _, off := range m.BlockOffsets() {
		out = append(out, m.Blocks[off].Instrs...)
	}
	return out
}

// AddDiagnostic records d, assigning it a fresh correlation ID the same
// way chazu-maggie's ObjectSpace.GenerateID stamps a unique ID onto
// every new instance rather than trusting each caller to mint its own.
func (m *MethodBody) AddDiagnostic(d Diagnostic) {
	d.ID = uuid.New().String()
	m.Diagnostics = append(m.Diagnostics, d)
}
