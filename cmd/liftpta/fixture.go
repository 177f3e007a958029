package main

import (
	"go/types"

	"github.com/nortwick-labs/tacpta/bytecode"
	"github.com/nortwick-labs/tacpta/symbols"
)

// method is a self-contained symbols.MethodRef, the same shape
// interproc's own tests use in place of a real go/types-backed symbol
// model: the concrete decoder that would normally produce MethodRef
// values is an external collaborator this demo program has none of.
type method struct {
	name       string
	static     bool
	containing symbols.TypeRef
	params     []symbols.ParameterRef
	ret        symbols.TypeRef
}

func (m *method) Name() string                      { return m.name }
func (m *method) IsStatic() bool                     { return m.static }
func (m *method) ContainingType() symbols.TypeRef    { return m.containing }
func (m *method) Parameters() []symbols.ParameterRef { return m.params }
func (m *method) ReturnType() symbols.TypeRef        { return m.ret }
func (m *method) Signature() *types.Signature {
	return types.NewSignature(nil, types.NewTuple(), nil, false)
}
func (m *method) String() string {
	if m.containing != nil {
		return m.containing.Name() + "::" + m.name
	}
	return m.name
}

// demoType is a minimal symbols.IBasicType backed by a fixed method
// table instead of go/types method-set lookup, so this program can
// exercise devirtualization without a real assembly to load.
type demoType struct {
	name    string
	methods map[string]symbols.MethodRef
}

func (t *demoType) TypeCode() symbols.TypeCode { return symbols.TypeReference }
func (t *demoType) Name() string               { return t.name }
func (t *demoType) Underlying() types.Type     { return nil }
func (t *demoType) FindMethodImplementation(staticMethod symbols.MethodRef) (symbols.MethodRef, bool) {
	m, ok := t.methods[staticMethod.Name()]
	return m, ok
}

// methodInput adapts a fixed raw operation stream into a
// bytecode.MethodInput.
type methodInput struct {
	ref  symbols.MethodRef
	body bytecode.Body
}

func (in *methodInput) IsStatic() bool                     { return in.ref.IsStatic() }
func (in *methodInput) ContainingType() symbols.TypeRef    { return in.ref.ContainingType() }
func (in *methodInput) Parameters() []symbols.ParameterRef { return in.ref.Parameters() }
func (in *methodInput) Body() bytecode.Body                { return in.body }
func (in *methodInput) Ref() symbols.MethodRef              { return in.ref }

// boxType is the reference type allocated by Box.ctor. Wrap allocates a
// Box and returns it; Main calls Wrap and returns whatever it got back,
// so running this fixture through the lifter and then the
// interprocedural driver exercises call resolution, NewObj allocation,
// and return-value propagation across a call edge end to end.
var boxType = &demoType{name: "Box"}

var boxCtor = &method{name: "Box.ctor", static: false, containing: boxType,
	ret: symbols.Primitive(symbols.TypeVoid, "void")}

var wrapMethod = &method{name: "Wrap", static: true, containing: boxType, ret: boxType}

var mainMethod = &method{name: "Main", static: true, containing: boxType, ret: boxType}

// fixtures is the complete set of methods this demo program knows how
// to lift, keyed by identity so the resolver hook in main.go can look a
// symbols.MethodRef straight up without a name index.
var fixtures = map[symbols.MethodRef]bytecode.MethodInput{
	mainMethod: &methodInput{
		ref: mainMethod,
		body: bytecode.Body{
			MaxStack: 2,
			Operations: []bytecode.RawOp{
				{Offset: 0, Op: bytecode.OpCall, Operand: bytecode.MethodValue(wrapMethod)},
				{Offset: 1, Op: bytecode.OpRet},
			},
		},
	},
	wrapMethod: &methodInput{
		ref: wrapMethod,
		body: bytecode.Body{
			MaxStack: 2,
			Operations: []bytecode.RawOp{
				{Offset: 0, Op: bytecode.OpNewObj, Operand: bytecode.MethodValue(boxCtor)},
				{Offset: 1, Op: bytecode.OpRet},
			},
		},
	},
}

// methodNamed looks up a fixture's entry point by its bare name, the
// closest equivalent this demo has to the teacher's package query
// string.
func methodNamed(name string) (symbols.MethodRef, bool) {
	for m := range fixtures {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}
