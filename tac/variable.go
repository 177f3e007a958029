// Package tac defines the three-address-code data model the lifter
// produces (spec.md §3): variables, operands, instructions, basic
// blocks, exception regions and the method body that collects them.
package tac

import "strconv"

// VarKind discriminates the Variable tagged variant (spec.md §3).
type VarKind int

const (
	VarThis VarKind = iota
	VarParam
	VarLocal
	VarTemp
)

// Variable is `ThisParam | Param(index) | Local(name) | Temp(index)`.
// It is a plain comparable struct (not a pointer) so that two variables
// referring to the same slot are always equal, matching spec.md §3's
// "identity is their slot index" for Temp.
type Variable struct {
	Kind  VarKind
	Index int
	Name  string
}

func ThisParam() Variable         { return Variable{Kind: VarThis} }
func Param(index int) Variable    { return Variable{Kind: VarParam, Index: index} }
func Local(name string) Variable  { return Variable{Kind: VarLocal, Name: name} }
func Temp(index int) Variable     { return Variable{Kind: VarTemp, Index: index} }

func (v Variable) IsTemp() bool  { return v.Kind == VarTemp }
func (v Variable) IsParam() bool { return v.Kind == VarParam || v.Kind == VarThis }

func (v Variable) String() string {
	switch v.Kind {
	case VarThis:
		return "this"
	case VarParam:
		return paramName(v.Index)
	case VarLocal:
		return v.Name
	case VarTemp:
		return tempName(v.Index)
	default:
		return "?"
	}
}

func paramName(i int) string {
	return "p" + strconv.Itoa(i)
}

func tempName(i int) string {
	return "t" + strconv.Itoa(i)
}
