package tac

import "github.com/nortwick-labs/tacpta/symbols"

// BinOperator is the abstract binary operator carried by a BinOp
// instruction. Overflow-checked/unsigned source opcodes collapse to the
// same operator here (spec.md §4.4).
type BinOperator int

const (
	BinAdd BinOperator = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinAnd
	BinOr
	BinXor
	BinShl
	BinShr
	BinCeq
	BinCgt
	BinClt
)

// UnOperator is the abstract unary operator carried by a UnOp
// instruction.
type UnOperator int

const (
	UnNeg UnOperator = iota
	UnNot
)

// CompareOp is the comparison used by a CondBranch.
type CompareOp int

const (
	CmpEq CompareOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

// TacInstr is the sum type of spec.md §3's TacInstr grammar. Every
// variant carries its source offset.
type TacInstr interface {
	SourceOffset() uint32
	tacInstr()
}

// base is embedded by every concrete instruction to carry the common
// source offset field (spec.md §3: "All carry the source offset").
type base struct{ Offset uint32 }

func (b base) SourceOffset() uint32 { return b.Offset }
func (base) tacInstr()              {}

func newBase(offset uint32) base { return base{Offset: offset} }

type Load struct {
	base
	Dst Variable
	Src TacOperand
}

func NewLoad(offset uint32, dst Variable, src TacOperand) *Load {
	return &Load{base: newBase(offset), Dst: dst, Src: src}
}

type Store struct {
	base
	Dst Place
	Src TacOperand
}

func NewStore(offset uint32, dst Place, src TacOperand) *Store {
	return &Store{base: newBase(offset), Dst: dst, Src: src}
}

type BinOp struct {
	base
	Dst   Variable
	Left  TacOperand
	Op    BinOperator
	Right TacOperand
}

func NewBinOp(offset uint32, dst Variable, left TacOperand, op BinOperator, right TacOperand) *BinOp {
	return &BinOp{base: newBase(offset), Dst: dst, Left: left, Op: op, Right: right}
}

type UnOp struct {
	base
	Dst Variable
	Op  UnOperator
	Src TacOperand
}

func NewUnOp(offset uint32, dst Variable, op UnOperator, src TacOperand) *UnOp {
	return &UnOp{base: newBase(offset), Dst: dst, Op: op, Src: src}
}

type Convert struct {
	base
	Dst  Variable
	Type symbols.TypeRef
	Src  TacOperand
}

func NewConvert(offset uint32, dst Variable, typ symbols.TypeRef, src TacOperand) *Convert {
	return &Convert{base: newBase(offset), Dst: dst, Type: typ, Src: src}
}

// Branch is an unconditional transfer. ViaFinally records that this
// branch textually targets a finally block's begin offset because the
// enclosing try region had no catches (spec.md §4.4 Leave rule).
type Branch struct {
	base
	Target     uint32
	ViaFinally bool
}

func NewBranch(offset, target uint32) *Branch {
	return &Branch{base: newBase(offset), Target: target}
}

type CondBranch struct {
	base
	Left   TacOperand
	Cmp    CompareOp
	Right  TacOperand
	Target uint32
}

func NewCondBranch(offset uint32, left TacOperand, cmp CompareOp, right TacOperand, target uint32) *CondBranch {
	return &CondBranch{base: newBase(offset), Left: left, Cmp: cmp, Right: right, Target: target}
}

// ExcBranch models one of the per-handler edges emitted by Leave when
// inside a try region (spec.md §4.4).
type ExcBranch struct {
	base
	Target  uint32
	ExcType symbols.TypeRef
}

func NewExcBranch(offset, target uint32, excType symbols.TypeRef) *ExcBranch {
	return &ExcBranch{base: newBase(offset), Target: target, ExcType: excType}
}

type Switch struct {
	base
	Operand TacOperand
	Targets []uint32
}

func NewSwitch(offset uint32, operand TacOperand, targets []uint32) *Switch {
	return &Switch{base: newBase(offset), Operand: operand, Targets: targets}
}

// Call carries Virtual so the points-to engine can tell a Callvirt
// apart from a plain Call without re-inspecting the raw opcode
// (spec.md §4.7 step 1: "if the call is virtual and non-static").
type Call struct {
	base
	Dst     *Variable
	Callee  symbols.MethodRef
	Args    []TacOperand
	Virtual bool
}

func NewCall(offset uint32, dst *Variable, callee symbols.MethodRef, args []TacOperand, virtual bool) *Call {
	return &Call{base: newBase(offset), Dst: dst, Callee: callee, Args: args, Virtual: virtual}
}

type IndirectCall struct {
	base
	Dst   *Variable
	FnPtr Variable
	Sig   symbols.MethodRef
	Args  []TacOperand
}

func NewIndirectCall(offset uint32, dst *Variable, fnPtr Variable, sig symbols.MethodRef, args []TacOperand) *IndirectCall {
	return &IndirectCall{base: newBase(offset), Dst: dst, FnPtr: fnPtr, Sig: sig, Args: args}
}

type NewObjInstr struct {
	base
	Dst  Variable
	Ctor symbols.MethodRef
	Args []TacOperand
}

func NewNewObj(offset uint32, dst Variable, ctor symbols.MethodRef, args []TacOperand) *NewObjInstr {
	return &NewObjInstr{base: newBase(offset), Dst: dst, Ctor: ctor, Args: args}
}

type NewArrayInstr struct {
	base
	Dst         Variable
	ElemType    symbols.TypeRef
	Rank        int
	LowerBounds []TacOperand
	Sizes       []TacOperand
}

func NewNewArray(offset uint32, dst Variable, elemType symbols.TypeRef, rank int, lowerBounds, sizes []TacOperand) *NewArrayInstr {
	return &NewArrayInstr{base: newBase(offset), Dst: dst, ElemType: elemType, Rank: rank, LowerBounds: lowerBounds, Sizes: sizes}
}

type Return struct {
	base
	Value TacOperand // nil for a void return
}

func NewReturn(offset uint32, value TacOperand) *Return {
	return &Return{base: newBase(offset), Value: value}
}

type Throw struct {
	base
	Exc TacOperand // nil for Rethrow
}

func NewThrow(offset uint32, exc TacOperand) *Throw {
	return &Throw{base: newBase(offset), Exc: exc}
}

// Try marks the beginning of a try region at this instruction's offset.
type Try struct{ base }

func NewTry(offset uint32) *Try { return &Try{base: newBase(offset)} }

// Catch marks the beginning of a handler; ExcVar is the fresh temp
// pushed onto the stack before the handler's own ops execute.
type Catch struct {
	base
	ExcVar  Variable
	ExcType symbols.TypeRef
}

func NewCatch(offset uint32, excVar Variable, excType symbols.TypeRef) *Catch {
	return &Catch{base: newBase(offset), ExcVar: excVar, ExcType: excType}
}

// Finally marks the beginning of a finally region.
type Finally struct{ base }

func NewFinally(offset uint32) *Finally { return &Finally{base: newBase(offset)} }

type SizeofInstr struct {
	base
	Dst  Variable
	Type symbols.TypeRef
}

func NewSizeof(offset uint32, dst Variable, typ symbols.TypeRef) *SizeofInstr {
	return &SizeofInstr{base: newBase(offset), Dst: dst, Type: typ}
}

type LocalAllocInstr struct {
	base
	Dst  Variable
	Size TacOperand
}

func NewLocalAlloc(offset uint32, dst Variable, size TacOperand) *LocalAllocInstr {
	return &LocalAllocInstr{base: newBase(offset), Dst: dst, Size: size}
}

type CopyMemInstr struct {
	base
	Dst, Src, Size TacOperand
}

func NewCopyMem(offset uint32, dst, src, size TacOperand) *CopyMemInstr {
	return &CopyMemInstr{base: newBase(offset), Dst: dst, Src: src, Size: size}
}

type CopyObjInstr struct {
	base
	Dst, Src TacOperand
	Type     symbols.TypeRef
}

func NewCopyObj(offset uint32, dst, src TacOperand, typ symbols.TypeRef) *CopyObjInstr {
	return &CopyObjInstr{base: newBase(offset), Dst: dst, Src: src, Type: typ}
}

type InitMemInstr struct {
	base
	Dst, Size TacOperand
}

func NewInitMem(offset uint32, dst, size TacOperand) *InitMemInstr {
	return &InitMemInstr{base: newBase(offset), Dst: dst, Size: size}
}

type InitObjInstr struct {
	base
	Dst  TacOperand
	Type symbols.TypeRef
}

func NewInitObj(offset uint32, dst TacOperand, typ symbols.TypeRef) *InitObjInstr {
	return &InitObjInstr{base: newBase(offset), Dst: dst, Type: typ}
}

type LoadTokenInstr struct {
	base
	Dst  Variable
	Type symbols.TypeRef
}

func NewLoadToken(offset uint32, dst Variable, typ symbols.TypeRef) *LoadTokenInstr {
	return &LoadTokenInstr{base: newBase(offset), Dst: dst, Type: typ}
}

type NopInstr struct{ base }

func NewNop(offset uint32) *NopInstr { return &NopInstr{base: newBase(offset)} }

type BreakpointInstr struct{ base }

func NewBreakpoint(offset uint32) *BreakpointInstr { return &BreakpointInstr{base: newBase(offset)} }
