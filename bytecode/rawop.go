package bytecode

import "github.com/nortwick-labs/tacpta/symbols"

// OpValueKind discriminates the tagged variant carried by OpValue
// (spec.md §3 "OpValue is a tagged variant over {...}").
type OpValueKind int

const (
	ValNone OpValueKind = iota
	ValI32
	ValI64
	ValF32
	ValF64
	ValString
	ValTypeRef
	ValMethodRef
	ValFieldRef
	ValParamRef
	ValLocalRef
	ValBranchTarget
	ValSwitchTargets
)

// OpValue is the typed operand of a RawOp. Exactly one field is
// meaningful, selected by Kind.
type OpValue struct {
	Kind OpValueKind

	I32    int32
	I64    int64
	F32    float32
	F64    float64
	Str    string
	Type   symbols.TypeRef
	Method symbols.MethodRef
	Field  symbols.FieldRef
	Param  int
	Local  int
	Target uint32
	Targets []uint32

	// ArrayRank and ArrayLowerBounds extend the typed-operand carried by
	// OpNewArr: the element type travels in Type, the rank and whether
	// per-dimension lower bounds were supplied travel here.
	ArrayRank        int
	ArrayLowerBounds bool

	// ExtraArgs extends the typed-operand carried by OpCall/OpCallVirt:
	// the number of vararg-style arguments pushed after the callee's
	// declared parameters, which the decoder knows from the call-site
	// signature but the callee's own Parameters() does not carry.
	ExtraArgs int
}

func NoneValue() OpValue                { return OpValue{Kind: ValNone} }
func I32Value(v int32) OpValue          { return OpValue{Kind: ValI32, I32: v} }
func I64Value(v int64) OpValue          { return OpValue{Kind: ValI64, I64: v} }
func F32Value(v float32) OpValue        { return OpValue{Kind: ValF32, F32: v} }
func F64Value(v float64) OpValue        { return OpValue{Kind: ValF64, F64: v} }
func StringValue(v string) OpValue      { return OpValue{Kind: ValString, Str: v} }
func TypeValue(t symbols.TypeRef) OpValue { return OpValue{Kind: ValTypeRef, Type: t} }
func MethodValue(m symbols.MethodRef) OpValue {
	return OpValue{Kind: ValMethodRef, Method: m}
}
func FieldValue(f symbols.FieldRef) OpValue { return OpValue{Kind: ValFieldRef, Field: f} }
func ParamValue(i int) OpValue              { return OpValue{Kind: ValParamRef, Param: i} }
func LocalValue(i int) OpValue              { return OpValue{Kind: ValLocalRef, Local: i} }
func TargetValue(offset uint32) OpValue {
	return OpValue{Kind: ValBranchTarget, Target: offset}
}
func SwitchValue(targets []uint32) OpValue {
	return OpValue{Kind: ValSwitchTargets, Targets: targets}
}

// NewArrValue builds the operand of an OpNewArr instruction.
func NewArrValue(elemType symbols.TypeRef, rank int, lowerBounds bool) OpValue {
	return OpValue{Kind: ValTypeRef, Type: elemType, ArrayRank: rank, ArrayLowerBounds: lowerBounds}
}

// RawOp is one already-decoded operation (spec.md §3).
type RawOp struct {
	Offset  uint32
	Op      OpKind
	Operand OpValue
}

// HandlerKind discriminates an exception-table entry's handler (spec.md
// §6 operationExceptionInformation.handlerKind).
type HandlerKind int

const (
	HandlerCatch HandlerKind = iota
	HandlerFinally
	HandlerFilter
	HandlerFault
)

// ExceptionInfo is one entry of the raw exception table (spec.md §6).
type ExceptionInfo struct {
	TryStartOffset    uint32
	TryEndOffset      uint32
	HandlerKind       HandlerKind
	HandlerStartOffset uint32
	HandlerEndOffset   uint32
	ExceptionType      symbols.TypeRef // nil for Finally/Fault
}

// BodyKind discriminates whether Operations is still stack bytecode or
// has already been lowered to three-address form (spec.md §6).
type BodyKind int

const (
	KindBytecode BodyKind = iota
	KindThreeAddress
)

// Body is the decoded method body (spec.md §6 body: {...}).
type Body struct {
	MaxStack                  uint16
	Operations                []RawOp
	LocalVariables             []LocalVar
	OperationExceptionInformation []ExceptionInfo
	Size                       int
	Kind                       BodyKind
}

// LocalVar names one method-local slot; Name may be empty if the raw
// metadata carries no symbolic name (spec.md §6 source-location
// provider is then consulted by higher layers).
type LocalVar struct {
	Index int
	Name  string
	Type  symbols.TypeRef
}

// MethodInput is the method-definition handle named in spec.md §6.
type MethodInput interface {
	IsStatic() bool
	ContainingType() symbols.TypeRef
	Parameters() []symbols.ParameterRef
	Body() Body
	Ref() symbols.MethodRef
}
