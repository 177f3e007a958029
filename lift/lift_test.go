package lift

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nortwick-labs/tacpta/bytecode"
	"github.com/nortwick-labs/tacpta/symbols"
	"github.com/nortwick-labs/tacpta/tac"
)

func fakeSignature(paramCount int, hasReturn bool) *types.Signature {
	params := make([]*types.Var, paramCount)
	for i := range params {
		params[i] = types.NewVar(0, nil, "", types.Typ[types.Int])
	}
	var results *types.Tuple
	if hasReturn {
		results = types.NewTuple(types.NewVar(0, nil, "", types.Typ[types.Int]))
	}
	return types.NewSignature(nil, types.NewTuple(params...), results, false)
}

type testMethodRef struct {
	name       string
	static     bool
	containing symbols.TypeRef
	params     []symbols.ParameterRef
	ret        symbols.TypeRef
}

func (m testMethodRef) Name() string                    { return m.name }
func (m testMethodRef) IsStatic() bool                   { return m.static }
func (m testMethodRef) ContainingType() symbols.TypeRef  { return m.containing }
func (m testMethodRef) Parameters() []symbols.ParameterRef { return m.params }
func (m testMethodRef) ReturnType() symbols.TypeRef {
	if m.ret == nil {
		return symbols.Primitive(symbols.TypeVoid, "void")
	}
	return m.ret
}
func (m testMethodRef) Signature() *types.Signature { return fakeSignature(len(m.params), m.ret != nil) }
func (m testMethodRef) String() string               { return m.name }

type testMethodInput struct {
	static     bool
	containing symbols.TypeRef
	params     []symbols.ParameterRef
	body       bytecode.Body
	ref        symbols.MethodRef
}

func (t testMethodInput) IsStatic() bool                    { return t.static }
func (t testMethodInput) ContainingType() symbols.TypeRef    { return t.containing }
func (t testMethodInput) Parameters() []symbols.ParameterRef { return t.params }
func (t testMethodInput) Body() bytecode.Body                { return t.body }
func (t testMethodInput) Ref() symbols.MethodRef              { return t.ref }

func TestLiftPureArithmetic(t *testing.T) {
	// static int Add2(int a, int b) { return (a + b) * 2; }
	ops := []bytecode.RawOp{
		{Offset: 0, Op: bytecode.OpLdArg, Operand: bytecode.ParamValue(0)},
		{Offset: 1, Op: bytecode.OpLdArg, Operand: bytecode.ParamValue(1)},
		{Offset: 2, Op: bytecode.OpAdd},
		{Offset: 3, Op: bytecode.OpLdcI4, Operand: bytecode.I32Value(2)},
		{Offset: 4, Op: bytecode.OpMul},
		{Offset: 5, Op: bytecode.OpRet},
	}
	method := testMethodInput{
		static: true,
		params: []symbols.ParameterRef{{Index: 0, Name: "a"}, {Index: 1, Name: "b"}},
		body:   bytecode.Body{MaxStack: 2, Operations: ops},
		ref:    testMethodRef{name: "Add2", static: true, ret: symbols.SystemInt32},
	}

	mb, err := Lift(method)
	require.NoError(t, err)
	assert.Empty(t, mb.Diagnostics)

	instrs := mb.Instructions()
	require.Len(t, instrs, 6)

	assert.True(t, mb.HasVariable(tac.Param(0)))
	assert.True(t, mb.HasVariable(tac.Param(1)))
	assert.True(t, mb.HasVariable(tac.Temp(0)))
	assert.True(t, mb.HasVariable(tac.Temp(1)))

	add, ok := instrs[2].(*tac.BinOp)
	require.True(t, ok)
	assert.Equal(t, tac.BinAdd, add.Op)

	ret, ok := instrs[5].(*tac.Return)
	require.True(t, ok)
	assert.NotNil(t, ret.Value)
}

func TestLiftUnknownOpcodeRecordsDiagnostic(t *testing.T) {
	ops := []bytecode.RawOp{
		{Offset: 0, Op: bytecode.OpUnknown},
		{Offset: 1, Op: bytecode.OpRet},
	}
	method := testMethodInput{
		static: true,
		body:   bytecode.Body{MaxStack: 0, Operations: ops},
		ref:    testMethodRef{name: "Weird", static: true},
	}

	mb, err := Lift(method)
	require.NoError(t, err)
	require.Len(t, mb.Diagnostics, 1)
	assert.Equal(t, uint32(0), mb.Diagnostics[0].Offset)

	instrs := mb.Instructions()
	require.Len(t, instrs, 1) // only the Ret; the unknown op emits nothing
	_, ok := instrs[0].(*tac.Return)
	assert.True(t, ok)
}

func TestLiftSwitchEnqueuesEveryCaseTarget(t *testing.T) {
	ops := []bytecode.RawOp{
		{Offset: 0, Op: bytecode.OpLdArg, Operand: bytecode.ParamValue(0)},
		{Offset: 1, Op: bytecode.OpSwitch, Operand: bytecode.SwitchValue([]uint32{10, 20})},
		{Offset: 10, Op: bytecode.OpRet},
		{Offset: 20, Op: bytecode.OpRet},
	}
	method := testMethodInput{
		static: true,
		params: []symbols.ParameterRef{{Index: 0, Name: "x"}},
		body:   bytecode.Body{MaxStack: 1, Operations: ops},
		ref:    testMethodRef{name: "Dispatch", static: true},
	}

	mb, err := Lift(method)
	require.NoError(t, err)

	_, ok10 := mb.Block(10)
	_, ok20 := mb.Block(20)
	assert.True(t, ok10)
	assert.True(t, ok20)
	assert.Equal(t, tac.StatusProcessed, mb.Blocks[10].Status)
	assert.Equal(t, tac.StatusProcessed, mb.Blocks[20].Status)

	entry, ok := mb.Block(0)
	require.True(t, ok)
	sw, ok := entry.Instrs[len(entry.Instrs)-1].(*tac.Switch)
	require.True(t, ok)
	assert.Equal(t, []uint32{10, 20}, sw.Targets)
}

func TestLiftLeaveRedirectsToFinallyWhenNoCatches(t *testing.T) {
	// try { ... leave L; } finally { ... endfinally; } L: ret
	ops := []bytecode.RawOp{
		{Offset: 0, Op: bytecode.OpNop},                               // try body
		{Offset: 1, Op: bytecode.OpLeave, Operand: bytecode.TargetValue(20)},
		{Offset: 10, Op: bytecode.OpNop},                              // finally body
		{Offset: 11, Op: bytecode.OpEndFinally},
		{Offset: 20, Op: bytecode.OpRet},
	}
	excInfo := []bytecode.ExceptionInfo{
		{
			TryStartOffset: 0, TryEndOffset: 10,
			HandlerKind: bytecode.HandlerFinally, HandlerStartOffset: 10, HandlerEndOffset: 12,
		},
	}
	method := testMethodInput{
		static: true,
		body:   bytecode.Body{MaxStack: 1, Operations: ops, OperationExceptionInformation: excInfo},
		ref:    testMethodRef{name: "WithFinally", static: true},
	}

	mb, err := Lift(method)
	require.NoError(t, err)

	entry, ok := mb.Block(0)
	require.True(t, ok)
	require.Len(t, entry.Instrs, 2)
	_, isTry := entry.Instrs[0].(*tac.Try)
	assert.True(t, isTry)

	br, ok := entry.Instrs[1].(*tac.Branch)
	require.True(t, ok)
	assert.True(t, br.ViaFinally)
	assert.Equal(t, uint32(10), br.Target)

	finallyBlock, ok := mb.Block(10)
	require.True(t, ok)
	_, isFinally := finallyBlock.Instrs[0].(*tac.Finally)
	assert.True(t, isFinally)
}
