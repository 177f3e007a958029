package ptg

import "github.com/nortwick-labs/tacpta/tac"

// Frame is the snapshot NewFrame pushes and RestoreFrame consumes
// (spec.md §4.5/§4.7, §9 "Frame stack" design note). A callee's Param
// and Temp slots structurally alias the caller's own variables of the
// same kind and index -- Variable carries no method identity -- so the
// graph cannot simply bind the callee's parameters alongside the
// caller's live variables; it must swap in a whole new root map seeded
// only from the call's argument binding, then swap back on return.
type Frame struct {
	saved map[tac.Variable]nodeSet
}

// NewFrame pushes g's current variable-root map and installs a fresh
// one seeded by binding: each callee parameter (the map's key) inherits
// the roots its bound caller argument (the map's value) currently holds
// (spec.md §4.5 "install a new map seeded by binding: calleeParam ->
// callerArg").
func (g *Graph) NewFrame(binding map[tac.Variable]tac.Variable) *Frame {
	seeded := make(map[tac.Variable]nodeSet, len(binding))
	for calleeVar, callerVar := range binding {
		if s, ok := g.varPts[callerVar]; ok {
			seeded[calleeVar] = s.clone()
		}
	}
	saved := g.varPts
	g.varPts = seeded
	return &Frame{saved: saved}
}

// RestoreFrame pops back to the map f saved, then applies binding
// (calleeReturnVar -> callerResultVar) to carry the callee's return
// value roots -- read from the map about to be discarded -- onto the
// restored caller map (spec.md §4.5 "restoreFrame(prev, binding): pop
// to prev, then apply binding ... to propagate the return value's
// roots back").
func (g *Graph) RestoreFrame(f *Frame, binding map[tac.Variable]tac.Variable) {
	exiting := g.varPts
	g.varPts = f.saved
	for calleeVar, callerVar := range binding {
		if s, ok := exiting[calleeVar]; ok {
			g.Bind(callerVar, s)
		}
	}
}
