package pta

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nortwick-labs/tacpta/cfg"
	"github.com/nortwick-labs/tacpta/ptg"
	"github.com/nortwick-labs/tacpta/symbols"
	"github.com/nortwick-labs/tacpta/tac"
)

type fakeCtor struct{}

func (fakeCtor) Name() string                      { return "ctor" }
func (fakeCtor) IsStatic() bool                     { return false }
func (fakeCtor) ContainingType() symbols.TypeRef    { return symbols.SystemInt32 }
func (fakeCtor) Parameters() []symbols.ParameterRef { return nil }
func (fakeCtor) ReturnType() symbols.TypeRef        { return symbols.Primitive(symbols.TypeVoid, "void") }
func (fakeCtor) Signature() *types.Signature {
	return types.NewSignature(nil, types.NewTuple(), nil, false)
}
func (fakeCtor) String() string { return "ctor" }

func block(offset uint32, canFallThrough bool, instrs ...tac.TacInstr) *tac.BasicBlock {
	b := tac.NewBasicBlock(offset)
	b.CanFallThrough = canFallThrough
	for _, i := range instrs {
		b.Append(i)
	}
	return b
}

func TestAnalyzeStraightLineAllocationAndAlias(t *testing.T) {
	mb := tac.NewMethodBody()
	mb.Entry = 0
	obj := tac.Local("obj")
	alias := tac.Local("alias")
	mb.AddBlock(block(0, false,
		tac.NewNewObj(0, obj, fakeCtor{}, nil),
		tac.NewLoad(1, alias, tac.Var(obj)),
		tac.NewReturn(2, tac.Var(alias)),
	))

	g := cfg.Build(mb)
	hasher := ptg.NewHasher()
	entry := ptg.New(hasher)

	out := Analyze(g, entry, 0, Handlers{})
	final := out[0]
	require.NotNil(t, final)

	objPts := final.PointsTo(obj)
	require.Len(t, objPts, 1)
	var node ptg.NodeId
	for n := range objPts {
		node = n
	}
	assert.Contains(t, final.PointsTo(alias), node)
}

func TestAnalyzeJoinsAtMergePoint(t *testing.T) {
	mb := tac.NewMethodBody()
	mb.Entry = 0
	v := tac.Local("v")

	entryBlk := block(0, false,
		tac.NewCondBranch(0, tac.Const(tac.ConstI32Of(1)), tac.CmpEq, tac.Const(tac.ConstI32Of(1)), 10),
	)
	thenBlk := block(1, true, tac.NewNewObj(1, v, fakeCtor{}, nil))
	elseBlk := block(10, true, tac.NewNewObj(10, v, fakeCtor{}, nil))
	joinBlk := block(20, true, tac.NewReturn(20, tac.Var(v)))

	mb.AddBlock(entryBlk)
	mb.AddBlock(thenBlk)
	mb.AddBlock(elseBlk)
	mb.AddBlock(joinBlk)

	g := cfg.Build(mb)
	// cfg.Build infers successors purely from terminators/fallthrough
	// offset ordering; wire the merge explicitly since this fixture's
	// blocks don't fall through into the join block by construction.
	g.Succs[1] = []uint32{20}
	g.Succs[10] = []uint32{20}

	hasher := ptg.NewHasher()
	entry := ptg.New(hasher)
	out := Analyze(g, entry, 0, Handlers{})

	join := out[20]
	require.NotNil(t, join)
	assert.Len(t, join.PointsTo(v), 2) // both allocation sites reach the join
}

func TestAnalyzeDelegatesCallsToHandler(t *testing.T) {
	mb := tac.NewMethodBody()
	mb.Entry = 0
	dst := tac.Local("r")
	callInstr := tac.NewCall(0, &dst, nil, nil, false)
	mb.AddBlock(block(0, false, callInstr, tac.NewReturn(1, tac.Var(dst))))

	g := cfg.Build(mb)
	hasher := ptg.NewHasher()
	entry := ptg.New(hasher)

	called := false
	out := Analyze(g, entry, 0, Handlers{
		OnCall: func(call *tac.Call, graph *ptg.Graph) {
			called = true
			node := graph.Allocate(symbols.SystemInt32)
			graph.AssignNode(*call.Dst, node)
		},
	})

	assert.True(t, called)
	assert.Len(t, out[0].PointsTo(dst), 1)
}
