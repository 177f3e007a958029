// Package symbols defines the abstract symbol model that the lifter and
// points-to engine consume: types, methods, fields and parameters. The
// spec treats the concrete symbol model as an external collaborator; this
// package carries only the shapes the rest of the module needs, using
// go/types.Type as the concrete representation of a structural type
// reference so that method-set lookup and assignability checks come for
// free from the standard library rather than being reinvented.
package symbols

import "go/types"

// TypeCode mirrors the discriminant of IBasicType.typeCode from the
// external type model (spec.md §6).
type TypeCode int

const (
	TypeVoid TypeCode = iota
	TypeBoolean
	TypeInt8
	TypeUInt8
	TypeInt16
	TypeUInt16
	TypeInt32
	TypeUInt32
	TypeInt64
	TypeUInt64
	TypeIntPtr
	TypeUIntPtr
	TypeFloat32
	TypeFloat64
	TypeString
	TypeReference
)

// Platform primitive type references (spec.md §6).
var (
	SystemIntPtr  = Primitive(TypeIntPtr, "System.IntPtr")
	SystemInt8    = Primitive(TypeInt8, "System.SByte")
	SystemInt16   = Primitive(TypeInt16, "System.Int16")
	SystemInt32   = Primitive(TypeInt32, "System.Int32")
	SystemInt64   = Primitive(TypeInt64, "System.Int64")
	SystemUIntPtr = Primitive(TypeUIntPtr, "System.UIntPtr")
	SystemUInt8   = Primitive(TypeUInt8, "System.Byte")
	SystemUInt16  = Primitive(TypeUInt16, "System.UInt16")
	SystemUInt32  = Primitive(TypeUInt32, "System.UInt32")
	SystemUInt64  = Primitive(TypeUInt64, "System.UInt64")
	SystemFloat32 = Primitive(TypeFloat32, "System.Single")
	SystemFloat64 = Primitive(TypeFloat64, "System.Double")
)

// TypeRef is the abstract type reference named in spec.md §6.
type TypeRef interface {
	TypeCode() TypeCode
	Name() string
	// Underlying is the go/types stand-in used for structural operations
	// (method-set lookup, assignability). Nil for pure primitives.
	Underlying() types.Type
}

type primitiveType struct {
	code TypeCode
	name string
}

func (p primitiveType) TypeCode() TypeCode   { return p.code }
func (p primitiveType) Name() string         { return p.name }
func (p primitiveType) Underlying() types.Type { return nil }
func (p primitiveType) String() string       { return p.name }

// Primitive builds a TypeRef for a platform primitive.
func Primitive(code TypeCode, name string) TypeRef {
	return primitiveType{code: code, name: name}
}

// ReferenceType wraps a go/types.Type as a reference TypeRef. It also
// implements IBasicType: FindMethodImplementation resolves a virtual call
// against this type's method set.
type ReferenceType struct {
	GoType types.Type
}

func (r ReferenceType) TypeCode() TypeCode     { return TypeReference }
func (r ReferenceType) Name() string           { return r.GoType.String() }
func (r ReferenceType) Underlying() types.Type { return r.GoType }
func (r ReferenceType) String() string         { return r.Name() }

// IBasicType is the capability spec.md §6 requires of reference types:
// resolving a virtual call against the concrete receiver type.
type IBasicType interface {
	TypeRef
	// FindMethodImplementation resolves staticMethod (declared on some
	// supertype/interface) to the implementation provided by this
	// concrete type, if any.
	FindMethodImplementation(staticMethod MethodRef) (MethodRef, bool)
}

// FindMethodImplementation implements IBasicType for ReferenceType using
// go/types method-set lookup, mirroring the teacher's
// prog.MethodSets.MethodSet/ms.Lookup pattern (terms.go iterateCallees)
// generalized from *ssa.Function lookups to the abstract MethodRef.
func (r ReferenceType) FindMethodImplementation(staticMethod MethodRef) (MethodRef, bool) {
	named, ok := r.GoType.(*types.Named)
	if !ok {
		return nil, false
	}

	mset := types.NewMethodSet(named)
	for i := 0; i < mset.Len(); i++ {
		sel := mset.At(i)
		fn, ok := sel.Obj().(*types.Func)
		if !ok || fn.Name() != staticMethod.Name() {
			continue
		}
		if !types.Identical(fn.Type(), staticMethod.Signature()) {
			continue
		}
		return funcMethodRef{fn: fn, containing: r}, true
	}
	return nil, false
}

// ParameterRef describes a single formal parameter.
type ParameterRef struct {
	Index int
	Name  string
	Type  TypeRef
}

// FieldRef identifies a field by its textual member signature, omitting
// the containing type so that field keys are stable across reflective or
// sigless comparisons (spec.md §4.4 "Field access").
type FieldRef struct {
	Name string
	Type TypeRef
	// DeclaringType addresses a static field's owning type. It is not
	// part of field identity (two FieldRefs naming the same member are
	// still considered the same field regardless of how this was
	// populated); instance field access never consults it.
	DeclaringType TypeRef
}

// MethodRef is the abstract method reference named throughout spec.md
// §3/§4/§6.
type MethodRef interface {
	Name() string
	IsStatic() bool
	ContainingType() TypeRef
	Parameters() []ParameterRef
	ReturnType() TypeRef
	// Signature exposes the go/types signature backing this method, used
	// by FindMethodImplementation for identity checks.
	Signature() *types.Signature
	String() string
}

// funcMethodRef adapts a resolved *types.Func into a MethodRef.
type funcMethodRef struct {
	fn         *types.Func
	containing TypeRef
}

func (f funcMethodRef) Name() string          { return f.fn.Name() }
func (f funcMethodRef) IsStatic() bool        { return f.Signature().Recv() == nil }
func (f funcMethodRef) ContainingType() TypeRef { return f.containing }
func (f funcMethodRef) Signature() *types.Signature {
	return f.fn.Type().(*types.Signature)
}
func (f funcMethodRef) Parameters() []ParameterRef {
	sig := f.Signature()
	params := make([]ParameterRef, sig.Params().Len())
	for i := range params {
		v := sig.Params().At(i)
		params[i] = ParameterRef{Index: i, Name: v.Name(), Type: ReferenceType{GoType: v.Type()}}
	}
	return params
}
func (f funcMethodRef) ReturnType() TypeRef {
	sig := f.Signature()
	if sig.Results().Len() == 0 {
		return Primitive(TypeVoid, "void")
	}
	return ReferenceType{GoType: sig.Results().At(0).Type()}
}
func (f funcMethodRef) String() string {
	return f.containing.Name() + "::" + f.fn.Name()
}

// NewMethodRef adapts a *types.Func declared on containing into a
// MethodRef, for use by callers that only have go/types values on hand
// (tests, fixtures).
func NewMethodRef(containing TypeRef, fn *types.Func) MethodRef {
	return funcMethodRef{fn: fn, containing: containing}
}

// SourceLocationProvider is the optional hook from spec.md §6 that maps
// local definitions to their source-level names. A nil provider means
// "use the raw metadata name".
type SourceLocationProvider interface {
	LocalName(index int) (string, bool)
}
