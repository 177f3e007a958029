// Package opstack implements the fixed-capacity operand stack the lifter
// symbolically executes over (spec.md §4.1). Grounded on the pack's
// stack-bytecode lifters (other_examples/bnb-chain-bsc__MIRBasicBlock.go's
// ValueStack: pop operands, push a result temp, append the instruction),
// specialised to a pre-allocated Temp-slot stack per spec.md §4.1.
package opstack

import (
	"errors"

	"github.com/nortwick-labs/tacpta/tac"
)

// ErrOverflow and ErrUnderflow are lifter faults per spec.md §7
// LiftError.StackOverUnderflow.
var (
	ErrOverflow  = errors.New("opstack: push on full stack")
	ErrUnderflow = errors.New("opstack: pop on empty stack")
)

// Stack is a fixed-capacity container of Temp variables indexed
// 0..cap-1, with a `top` cursor (spec.md §4.1).
type Stack struct {
	slots []tac.Variable
	top   int
}

// New builds a stack with one Temp per slot, 0..capacity-1.
func New(capacity int) *Stack {
	slots := make([]tac.Variable, capacity)
	for i := range slots {
		slots[i] = tac.Temp(i)
	}
	return &Stack{slots: slots}
}

// Push returns the Temp for the new top-of-stack slot.
func (s *Stack) Push() (tac.Variable, error) {
	if s.top >= len(s.slots) {
		return tac.Variable{}, ErrOverflow
	}
	v := s.slots[s.top]
	s.top++
	return v, nil
}

// Pop returns the Temp for the slot just vacated.
func (s *Stack) Pop() (tac.Variable, error) {
	if s.top <= 0 {
		return tac.Variable{}, ErrUnderflow
	}
	s.top--
	return s.slots[s.top], nil
}

// Peek returns the current top-of-stack Temp without popping it.
func (s *Stack) Peek() (tac.Variable, error) {
	if s.top <= 0 {
		return tac.Variable{}, ErrUnderflow
	}
	return s.slots[s.top-1], nil
}

func (s *Stack) Clear() { s.top = 0 }

func (s *Stack) Size() uint16 { return uint16(s.top) }

// SetSize resets `top` to the given size without validating the
// contents of the slots below it; used by the lifter driver to
// establish a basic block's recorded entry stack size (spec.md §4.4).
func (s *Stack) SetSize(size uint16) {
	s.top = int(size)
}

// Capacity returns maxStack (spec.md §4.1/§8 P2: "Temp(i) exists iff
// i < maxStack").
func (s *Stack) Capacity() int { return len(s.slots) }

// AllTemps returns every Temp slot, live or not, for registration in
// MethodBody.variables (spec.md §4.1).
func (s *Stack) AllTemps() []tac.Variable {
	out := make([]tac.Variable, len(s.slots))
	copy(out, s.slots)
	return out
}
