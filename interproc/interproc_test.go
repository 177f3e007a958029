package interproc

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nortwick-labs/tacpta/cfg"
	"github.com/nortwick-labs/tacpta/errs"
	"github.com/nortwick-labs/tacpta/ptg"
	"github.com/nortwick-labs/tacpta/symbols"
	"github.com/nortwick-labs/tacpta/tac"
)

// fakeMethod is a pointer-identity MethodRef: tests key CallSite and
// CallGraph.Edges maps on MethodRef values, so the fake must stay
// comparable even though its fields (Parameters, a go/types.Signature)
// are not -- a pointer receiver sidesteps that entirely.
type fakeMethod struct {
	name       string
	static     bool
	containing symbols.TypeRef
	params     []symbols.ParameterRef
	ret        symbols.TypeRef
}

func (f *fakeMethod) Name() string                      { return f.name }
func (f *fakeMethod) IsStatic() bool                     { return f.static }
func (f *fakeMethod) ContainingType() symbols.TypeRef    { return f.containing }
func (f *fakeMethod) Parameters() []symbols.ParameterRef { return f.params }
func (f *fakeMethod) ReturnType() symbols.TypeRef        { return f.ret }
func (f *fakeMethod) Signature() *types.Signature {
	return types.NewSignature(nil, types.NewTuple(), nil, false)
}
func (f *fakeMethod) String() string {
	if f.containing != nil {
		return f.containing.Name() + "::" + f.name
	}
	return f.name
}

// fakeType is a pointer-identity TypeRef that also implements
// IBasicType, so it can stand in for a concrete receiver type during
// devirtualization.
type fakeType struct {
	name    string
	methods map[string]symbols.MethodRef
}

func (t *fakeType) TypeCode() symbols.TypeCode { return symbols.TypeReference }
func (t *fakeType) Name() string               { return t.name }
func (t *fakeType) Underlying() types.Type     { return nil }
func (t *fakeType) FindMethodImplementation(staticMethod symbols.MethodRef) (symbols.MethodRef, bool) {
	m, ok := t.methods[staticMethod.Name()]
	return m, ok
}

func block(offset uint32, canFallThrough bool, instrs ...tac.TacInstr) *tac.BasicBlock {
	b := tac.NewBasicBlock(offset)
	b.CanFallThrough = canFallThrough
	for _, i := range instrs {
		b.Append(i)
	}
	return b
}

// cfgOf wraps a single straight-line block into a one-block CFG, which
// is all these fixtures need.
func cfgOf(instrs ...tac.TacInstr) *cfg.ControlFlowGraph {
	mb := tac.NewMethodBody()
	mb.Entry = 0
	mb.AddBlock(block(0, false, instrs...))
	return cfg.Build(mb)
}

func TestAnalyzeResolvesStaticCallAndPropagatesReturnValue(t *testing.T) {
	bMethod := &fakeMethod{name: "B", static: true, ret: symbols.SystemInt32}
	aMethod := &fakeMethod{name: "A", static: true, ret: symbols.SystemInt32}

	bObj := tac.Local("obj")
	bCFG := cfgOf(
		tac.NewNewObj(0, bObj, &fakeMethod{name: "B.ctor", static: false, containing: symbols.SystemInt32}, nil),
		tac.NewReturn(1, tac.Var(bObj)),
	)

	dst := tac.Local("r")
	aCFG := cfgOf(
		tac.NewCall(0, &dst, bMethod, nil, false),
		tac.NewReturn(1, tac.Var(dst)),
	)

	cfgs := map[symbols.MethodRef]*cfg.ControlFlowGraph{aMethod: aCFG, bMethod: bCFG}
	d := NewDriver(DefaultHooks(func(m symbols.MethodRef) (*cfg.ControlFlowGraph, error) {
		g, ok := cfgs[m]
		if !ok {
			return nil, errs.NewLiftError(errs.UnknownOpcode, 0, "no fixture")
		}
		return g, nil
	}))

	cg, stats, err := d.Analyze(aMethod)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.EdgesAdded)
	assert.GreaterOrEqual(t, stats.Sweeps, 1)
	assert.GreaterOrEqual(t, stats.MethodsAnalyzed, 2) // at least A and B reached

	site := CallSite{Caller: aMethod, Offset: 0}
	callees := cg.Callees(site)
	require.Len(t, callees, 1)
	assert.Equal(t, "B", callees[0].Name())

	info, ok := d.Info(aMethod)
	require.True(t, ok)
	require.NotNil(t, info.OutputPTG)
	assert.Len(t, info.OutputPTG.PointsTo(returnVar), 1)

	bInfo, ok := d.Info(bMethod)
	require.True(t, ok)
	assert.False(t, bInfo.Unknown)
}

func TestResolveCalleesDevirtualizesToSingleOverride(t *testing.T) {
	typeA := &fakeType{name: "A"}
	typeB := &fakeType{name: "B"}
	aFoo := &fakeMethod{name: "foo", static: false, containing: typeA}
	bFoo := &fakeMethod{name: "foo", static: false, containing: typeB}
	typeB.methods = map[string]symbols.MethodRef{"foo": bFoo}

	recv := tac.Local("v")
	call := tac.NewCall(0, nil, aFoo, []tac.TacOperand{tac.Var(recv)}, true)

	g := ptg.New(ptg.NewHasher())
	node := g.AllocateAt(1, typeB)
	g.AssignNode(recv, node)

	d := NewDriver(Hooks{})
	edges, process := d.resolveCallees(call, g)

	// The call-graph edge set still records every reachable target: the
	// declared static method plus the devirtualized override.
	require.Len(t, edges, 2)
	edgeNames := map[string]bool{}
	for _, m := range edges {
		edgeNames[m.String()] = true
	}
	assert.True(t, edgeNames[aFoo.String()])
	assert.True(t, edgeNames[bFoo.String()])

	// But the set actually run interprocedurally resolves exclusively to
	// the override -- the abstract static method A.foo is never itself
	// analyzed as if it had a body.
	require.Len(t, process, 1)
	assert.Equal(t, bFoo.String(), process[0].String())
}

func TestUnknownMethodSkipLeavesOutputEqualToInput(t *testing.T) {
	unknownCallee := &fakeMethod{name: "External.Do", static: true, ret: symbols.SystemInt32}
	aMethod := &fakeMethod{name: "A", static: true, ret: symbols.SystemInt32}

	dst := tac.Local("r")
	aCFG := cfgOf(
		tac.NewCall(0, &dst, unknownCallee, nil, false),
		tac.NewReturn(1, tac.Var(dst)),
	)

	d := NewDriver(DefaultHooks(func(m symbols.MethodRef) (*cfg.ControlFlowGraph, error) {
		if m == aMethod {
			return aCFG, nil
		}
		return nil, errs.NewLiftError(errs.UnknownOpcode, 0, "external method, no body")
	}))

	cg, _, err := d.Analyze(aMethod)
	require.NoError(t, err)

	site := CallSite{Caller: aMethod, Offset: 0}
	assert.Len(t, cg.Callees(site), 1) // edge still recorded even though the callee is skipped

	calleeInfo, ok := d.Info(unknownCallee)
	require.True(t, ok)
	assert.True(t, calleeInfo.Unknown)
	assert.Nil(t, calleeInfo.InputPTG) // no INPUT_PTG entry written for a skipped callee

	info, ok := d.Info(aMethod)
	require.True(t, ok)
	assert.Empty(t, info.OutputPTG.PointsTo(returnVar)) // dst was never bound, call was a no-op
}

// TestMutualRecursionConvergesToUnionOfBothMethodsAllocations exercises
// spec.md §8 scenario 4: A allocates its own object then folds B's call
// result into the very same return-carrying variable (union, not
// overwrite -- ptg.Graph.Bind always unions into an existing points-to
// set), and B does the mirror image back into A. A's first pass through
// B necessarily sees an incomplete approximation of A itself (A is
// still on the Go call stack, mid-analysis, when B calls back into it),
// so if the driver stopped after one descent, B's OUTPUT_PTG would be
// stuck holding only its own allocation. The outer fixed point must
// revisit both methods until each one's return value reflects the union
// of both allocation sites.
func TestMutualRecursionConvergesToUnionOfBothMethodsAllocations(t *testing.T) {
	aMethod := &fakeMethod{name: "A", static: true, ret: symbols.SystemInt32}
	bMethod := &fakeMethod{name: "B", static: true, ret: symbols.SystemInt32}

	aVar := tac.Local("r")
	aCFG := cfgOf(
		tac.NewNewObj(0, aVar, &fakeMethod{name: "A.ctor", static: false, containing: symbols.SystemInt32}, nil),
		tac.NewCall(1, &aVar, bMethod, nil, false),
		tac.NewReturn(2, tac.Var(aVar)),
	)

	bVar := tac.Local("r")
	bCFG := cfgOf(
		tac.NewNewObj(0, bVar, &fakeMethod{name: "B.ctor", static: false, containing: symbols.SystemInt32}, nil),
		tac.NewCall(1, &bVar, aMethod, nil, false),
		tac.NewReturn(2, tac.Var(bVar)),
	)

	cfgs := map[symbols.MethodRef]*cfg.ControlFlowGraph{aMethod: aCFG, bMethod: bCFG}
	d := NewDriver(DefaultHooks(func(m symbols.MethodRef) (*cfg.ControlFlowGraph, error) {
		g, ok := cfgs[m]
		if !ok {
			// A.ctor/B.ctor have no fixture body; treat them the same as
			// any other unknown external method.
			return nil, errs.NewLiftError(errs.UnknownOpcode, 0, "no fixture")
		}
		return g, nil
	}))

	var err error
	require.NotPanics(t, func() {
		_, _, err = d.Analyze(aMethod)
	})
	require.NoError(t, err)

	aInfo, ok := d.Info(aMethod)
	require.True(t, ok)
	bInfo, ok := d.Info(bMethod)
	require.True(t, ok)

	// Both methods' returns must converge to the union of both
	// allocation sites, not just whichever one happened to finish first.
	assert.Len(t, aInfo.OutputPTG.PointsTo(returnVar), 2)
	assert.Len(t, bInfo.OutputPTG.PointsTo(returnVar), 2)
}
