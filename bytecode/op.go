// Package bytecode models the raw, already-decoded operation stream that
// feeds the lifter (spec.md §3 RawOp, §6 method-definition handle). The
// decoder that produces this stream is an external collaborator (spec.md
// §1); this package only carries its output shape.
package bytecode

// OpKind enumerates the supported raw opcodes. Overflow-checked and
// unsigned arithmetic variants are not given separate kinds: the decoder
// is expected to have already collapsed them, mirroring spec.md §4.4's
// "Overflow-checked and unsigned variants collapse to the same abstract
// op; precision flags are discarded".
type OpKind int

const (
	OpUnknown OpKind = iota // unsupported opcode; triggers LiftError.UnknownOpcode

	OpNop
	OpBreakpoint
	OpDup
	OpPop

	// Binary arithmetic/logical/shift/compare (spec.md §4.4).
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpCeq
	OpCgt
	OpClt

	// Unary.
	OpNeg
	OpNot

	// Conversions, including Isinst/Castclass/Box/Unbox (spec.md §4.4).
	OpConvI1
	OpConvI2
	OpConvI4
	OpConvI8
	OpConvU1
	OpConvU2
	OpConvU4
	OpConvU8
	OpConvI
	OpConvU
	OpConvR4
	OpConvR8
	OpIsInst
	OpCastClass
	OpBox
	OpUnbox

	// Load constant.
	OpLdcI4
	OpLdcI8
	OpLdcR4
	OpLdcR8
	OpLdStr
	OpLdNull

	// Load/store argument, local, indirect.
	OpLdArg
	OpStArg
	OpLdLoc
	OpStLoc
	OpLdInd
	OpStInd

	// Field access.
	OpLdFld
	OpStFld
	OpLdSFld
	OpStSFld

	// Array.
	OpNewArr
	OpLdElem
	OpStElem
	OpLdLen

	// Calls and object creation.
	OpCall
	OpCallVirt
	OpCalli
	OpJmp
	OpNewObj

	// Branches and exception control flow.
	OpBr
	OpBrTrue
	OpBrFalse
	OpBeq
	OpBne
	OpBlt
	OpBle
	OpBgt
	OpBge
	OpSwitch
	OpLeave
	OpEndFinally
	OpEndFilter
	OpThrow
	OpRethrow
	OpRet

	// Misc.
	OpSizeof
	OpLocalAlloc
	OpCopyMem
	OpCopyObj
	OpInitMem
	OpInitObj
	OpLdToken
)

// IsTerminator returns true for opcodes that end a basic block (spec.md
// §4.2): the non-falling-through Ret, EndFinally, EndFilter, Throw,
// Rethrow, Br and Leave, plus the conditional branches and Switch, which
// also fall through to the next offset.
func (k OpKind) IsTerminator() bool {
	switch k {
	case OpRet, OpEndFinally, OpEndFilter, OpThrow, OpRethrow,
		OpBr, OpLeave:
		return true
	default:
		return k.IsConditionalBranch() || k == OpSwitch
	}
}

// IsConditionalBranch returns true for opcodes with both a fall-through
// successor and one or more branch targets.
func (k OpKind) IsConditionalBranch() bool {
	switch k {
	case OpBrTrue, OpBrFalse, OpBeq, OpBne, OpBlt, OpBle, OpBgt, OpBge:
		return true
	default:
		return false
	}
}

// IsBinary reports whether k is lifted by the generic binary transfer
// rule (pop right, pop left, push dst).
func (k OpKind) IsBinary() bool {
	switch k {
	case OpAdd, OpSub, OpMul, OpDiv, OpRem, OpAnd, OpOr, OpXor, OpShl, OpShr,
		OpCeq, OpCgt, OpClt:
		return true
	default:
		return false
	}
}

// IsUnary reports whether k is lifted by the generic unary transfer rule.
func (k OpKind) IsUnary() bool {
	return k == OpNeg || k == OpNot
}

// IsConversion reports whether k is lifted by the Convert transfer rule.
func (k OpKind) IsConversion() bool {
	switch k {
	case OpConvI1, OpConvI2, OpConvI4, OpConvI8, OpConvU1, OpConvU2, OpConvU4,
		OpConvU8, OpConvI, OpConvU, OpConvR4, OpConvR8, OpIsInst, OpCastClass,
		OpBox, OpUnbox:
		return true
	default:
		return false
	}
}

// IsLoadConst reports whether k is lifted by the load-constant transfer
// rule.
func (k OpKind) IsLoadConst() bool {
	switch k {
	case OpLdcI4, OpLdcI8, OpLdcR4, OpLdcR8, OpLdStr, OpLdNull:
		return true
	default:
		return false
	}
}

func (k OpKind) String() string {
	if name, ok := opNames[k]; ok {
		return name
	}
	return "UnknownOp"
}

var opNames = map[OpKind]string{
	OpNop: "nop", OpBreakpoint: "break", OpDup: "dup", OpPop: "pop",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpRem: "rem",
	OpAnd: "and", OpOr: "or", OpXor: "xor", OpShl: "shl", OpShr: "shr",
	OpCeq: "ceq", OpCgt: "cgt", OpClt: "clt",
	OpNeg: "neg", OpNot: "not",
	OpConvI1: "conv.i1", OpConvI2: "conv.i2", OpConvI4: "conv.i4", OpConvI8: "conv.i8",
	OpConvU1: "conv.u1", OpConvU2: "conv.u2", OpConvU4: "conv.u4", OpConvU8: "conv.u8",
	OpConvI: "conv.i", OpConvU: "conv.u", OpConvR4: "conv.r4", OpConvR8: "conv.r8",
	OpIsInst: "isinst", OpCastClass: "castclass", OpBox: "box", OpUnbox: "unbox",
	OpLdcI4: "ldc.i4", OpLdcI8: "ldc.i8", OpLdcR4: "ldc.r4", OpLdcR8: "ldc.r8",
	OpLdStr: "ldstr", OpLdNull: "ldnull",
	OpLdArg: "ldarg", OpStArg: "starg", OpLdLoc: "ldloc", OpStLoc: "stloc",
	OpLdInd: "ldind", OpStInd: "stind",
	OpLdFld: "ldfld", OpStFld: "stfld", OpLdSFld: "ldsfld", OpStSFld: "stsfld",
	OpNewArr: "newarr", OpLdElem: "ldelem", OpStElem: "stelem", OpLdLen: "ldlen",
	OpCall: "call", OpCallVirt: "callvirt", OpCalli: "calli", OpJmp: "jmp", OpNewObj: "newobj",
	OpBr: "br", OpBrTrue: "brtrue", OpBrFalse: "brfalse",
	OpBeq: "beq", OpBne: "bne", OpBlt: "blt", OpBle: "ble", OpBgt: "bgt", OpBge: "bge",
	OpSwitch: "switch", OpLeave: "leave", OpEndFinally: "endfinally", OpEndFilter: "endfilter",
	OpThrow: "throw", OpRethrow: "rethrow", OpRet: "ret",
	OpSizeof: "sizeof", OpLocalAlloc: "localloc", OpCopyMem: "cpblk", OpCopyObj: "cpobj",
	OpInitMem: "initblk", OpInitObj: "initobj", OpLdToken: "ldtoken",
}
