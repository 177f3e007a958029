package tac

import (
	"fmt"

	"github.com/nortwick-labs/tacpta/symbols"
)

// ConstKind discriminates a literal constant operand.
type ConstKind int

const (
	ConstI32 ConstKind = iota
	ConstI64
	ConstF32
	ConstF64
	ConstString
	ConstNull
	ConstBool
)

// ConstValue is a literal value carried by an OperandConst.
type ConstValue struct {
	Kind ConstKind
	I32  int32
	I64  int64
	F32  float32
	F64  float64
	Str  string
	Bool bool
}

func ConstI32Of(v int32) ConstValue  { return ConstValue{Kind: ConstI32, I32: v} }
func ConstI64Of(v int64) ConstValue  { return ConstValue{Kind: ConstI64, I64: v} }
func ConstF32Of(v float32) ConstValue { return ConstValue{Kind: ConstF32, F32: v} }
func ConstF64Of(v float64) ConstValue { return ConstValue{Kind: ConstF64, F64: v} }
func ConstStringOf(v string) ConstValue { return ConstValue{Kind: ConstString, Str: v} }
func ConstNullOf() ConstValue         { return ConstValue{Kind: ConstNull} }
func ConstBoolOf(v bool) ConstValue   { return ConstValue{Kind: ConstBool, Bool: v} }

// TacOperand is the sum type `Var | Const | Ref | Deref | InstField |
// StaticField | ArrayElem | MethodPtr` from spec.md §3. Place is any
// addressable subset of it (variable, field access, array element).
type TacOperand interface {
	tacOperand()
	fmt.Stringer
}

// Place is the addressable subset of TacOperand; spec.md §3 defines it
// as "anything addressable (variable, field access, array element)".
type Place = TacOperand

type OperandVar struct{ V Variable }

func (OperandVar) tacOperand()     {}
func (o OperandVar) String() string { return o.V.String() }

type OperandConst struct{ Value ConstValue }

func (OperandConst) tacOperand() {}
func (o OperandConst) String() string {
	switch o.Value.Kind {
	case ConstI32:
		return fmt.Sprintf("%d", o.Value.I32)
	case ConstI64:
		return fmt.Sprintf("%d", o.Value.I64)
	case ConstF32:
		return fmt.Sprintf("%v", o.Value.F32)
	case ConstF64:
		return fmt.Sprintf("%v", o.Value.F64)
	case ConstString:
		return fmt.Sprintf("%q", o.Value.Str)
	case ConstBool:
		return fmt.Sprintf("%v", o.Value.Bool)
	default:
		return "null"
	}
}

type OperandRef struct{ Of Place }

func (OperandRef) tacOperand()     {}
func (o OperandRef) String() string { return "&" + o.Of.String() }

type OperandDeref struct{ V Variable }

func (OperandDeref) tacOperand()     {}
func (o OperandDeref) String() string { return "*" + o.V.String() }

type OperandInstField struct {
	Obj   Variable
	Field string
}

func (OperandInstField) tacOperand() {}
func (o OperandInstField) String() string {
	return o.Obj.String() + "." + o.Field
}

type OperandStaticField struct {
	Type  symbols.TypeRef
	Field string
}

func (OperandStaticField) tacOperand() {}
func (o OperandStaticField) String() string {
	return o.Type.Name() + "::" + o.Field
}

type OperandArrayElem struct {
	Array Variable
	Index Variable
}

func (OperandArrayElem) tacOperand() {}
func (o OperandArrayElem) String() string {
	return fmt.Sprintf("%s[%s]", o.Array, o.Index)
}

// OperandMethodPtr is Call(i)-able bare method reference, e.g. for Calli
// or function pointers loaded via ldftn-style opcodes. Receiver is nil
// for a static method pointer.
type OperandMethodPtr struct {
	Method   symbols.MethodRef
	Receiver *Variable
}

func (OperandMethodPtr) tacOperand() {}
func (o OperandMethodPtr) String() string {
	if o.Receiver != nil {
		return o.Receiver.String() + "::" + o.Method.Name()
	}
	return o.Method.String()
}

func Var(v Variable) TacOperand { return OperandVar{V: v} }
func Const(v ConstValue) TacOperand { return OperandConst{Value: v} }
