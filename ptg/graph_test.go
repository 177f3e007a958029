package ptg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nortwick-labs/tacpta/symbols"
	"github.com/nortwick-labs/tacpta/tac"
)

func TestAllocateAssignLoadField(t *testing.T) {
	g := New(NewHasher())

	n := g.Allocate(symbols.SystemInt32)
	v := tac.Local("obj")
	assert.True(t, g.AssignNode(v, n))
	assert.False(t, g.AssignNode(v, n)) // already present: no change

	dst := tac.Local("alias")
	assert.True(t, g.Assign(dst, v))
	assert.Contains(t, g.PointsTo(dst), n)

	fieldNode := g.Allocate(symbols.SystemInt32)
	field := tac.Local("f")
	g.AssignNode(field, fieldNode)
	assert.True(t, g.StoreField(v, "next", field))
	other := tac.Local("r")
	assert.True(t, g.LoadField(other, v, "next"))
	assert.True(t, g.PointsTo(other).equals(g.PointsTo(field)))
}

func TestCloneIsIndependent(t *testing.T) {
	g := New(NewHasher())
	n := g.Allocate(symbols.SystemInt32)
	v := tac.Local("v")
	g.AssignNode(v, n)

	clone := g.Clone()
	other := tac.Local("w")
	clone.AssignNode(other, n)

	assert.False(t, g.Equals(clone))
	_, hasOther := g.PointsTo(other)[n]
	assert.False(t, hasOther)
}

func TestUnionIsJoinAndReachesFixedPoint(t *testing.T) {
	g1 := New(NewHasher())
	n1 := g1.Allocate(symbols.SystemInt32)
	v := tac.Local("v")
	g1.AssignNode(v, n1)

	g2 := g1.Clone()
	n2 := g2.Allocate(symbols.SystemInt32)
	g2.AssignNode(v, n2)

	changed := g1.Union(g2)
	require.True(t, changed)
	assert.Len(t, g1.PointsTo(v), 2)

	// Unioning the same thing again should not report further growth.
	changed = g1.Union(g2)
	assert.False(t, changed)
}

func TestStaticFieldRoundTrip(t *testing.T) {
	g := New(NewHasher())
	typ := symbols.SystemInt32
	n := g.Allocate(symbols.SystemInt32)
	src := tac.Local("src")
	g.AssignNode(src, n)

	assert.True(t, g.StoreStatic(typ, "Instance", src))
	dst := tac.Local("dst")
	assert.True(t, g.LoadStatic(dst, typ, "Instance"))
	assert.Contains(t, g.PointsTo(dst), n)
}

func TestNewFrameSeedsFromBindingAndRestoreUnwinds(t *testing.T) {
	g := New(NewHasher())
	n := g.Allocate(symbols.SystemInt32)
	callerArg := tac.Local("x")
	g.AssignNode(callerArg, n)

	// The caller's own p0 (e.g. left over from an enclosing call) must
	// not leak into the callee's frame unless named in the binding.
	unrelated := tac.Param(0)
	unrelatedNode := g.Allocate(symbols.SystemInt32)
	g.AssignNode(unrelated, unrelatedNode)

	calleeThis := tac.ThisParam()
	f := g.NewFrame(map[tac.Variable]tac.Variable{calleeThis: callerArg})
	assert.Contains(t, g.PointsTo(calleeThis), n)
	assert.Empty(t, g.PointsTo(unrelated))

	calleeLocal := tac.Local("tmp")
	calleeNode := g.Allocate(symbols.SystemInt32)
	g.AssignNode(calleeLocal, calleeNode)

	calleeResult := tac.Local("$return")
	g.AssignNode(calleeResult, calleeNode)

	callerResult := tac.Local("result")
	g.RestoreFrame(f, map[tac.Variable]tac.Variable{calleeResult: callerResult})

	assert.Contains(t, g.PointsTo(callerArg), n)
	assert.Contains(t, g.PointsTo(unrelated), unrelatedNode)
	assert.Contains(t, g.PointsTo(callerResult), calleeNode)
	assert.Empty(t, g.PointsTo(calleeLocal))
}
