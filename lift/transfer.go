package lift

import (
	"fmt"

	"github.com/nortwick-labs/tacpta/bytecode"
	"github.com/nortwick-labs/tacpta/errs"
	"github.com/nortwick-labs/tacpta/exctab"
	"github.com/nortwick-labs/tacpta/symbols"
	"github.com/nortwick-labs/tacpta/tac"
)

// lowerOp is the per-opcode transfer switch of spec.md §4.4.
func (lf *lifter) lowerOp(b *tac.BasicBlock, op bytecode.RawOp) error {
	switch op.Op {
	case bytecode.OpNop:
		b.Append(tac.NewNop(op.Offset))
		return nil
	case bytecode.OpBreakpoint:
		b.Append(tac.NewBreakpoint(op.Offset))
		return nil
	case bytecode.OpDup:
		return lf.lowerDup(b, op)
	case bytecode.OpPop:
		_, err := lf.pop(op.Offset)
		return err

	case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpRem,
		bytecode.OpAnd, bytecode.OpOr, bytecode.OpXor, bytecode.OpShl, bytecode.OpShr,
		bytecode.OpCeq, bytecode.OpCgt, bytecode.OpClt:
		return lf.lowerBinary(b, op)

	case bytecode.OpNeg, bytecode.OpNot:
		return lf.lowerUnary(b, op)

	case bytecode.OpConvI1, bytecode.OpConvI2, bytecode.OpConvI4, bytecode.OpConvI8,
		bytecode.OpConvU1, bytecode.OpConvU2, bytecode.OpConvU4, bytecode.OpConvU8,
		bytecode.OpConvI, bytecode.OpConvU, bytecode.OpConvR4, bytecode.OpConvR8,
		bytecode.OpIsInst, bytecode.OpCastClass, bytecode.OpBox, bytecode.OpUnbox:
		return lf.lowerConvert(b, op)

	case bytecode.OpLdcI4, bytecode.OpLdcI8, bytecode.OpLdcR4, bytecode.OpLdcR8,
		bytecode.OpLdStr, bytecode.OpLdNull:
		return lf.lowerLoadConst(b, op)

	case bytecode.OpLdArg:
		return lf.lowerLdArg(b, op)
	case bytecode.OpStArg:
		return lf.lowerStArg(b, op)
	case bytecode.OpLdLoc:
		return lf.lowerLdLoc(b, op)
	case bytecode.OpStLoc:
		return lf.lowerStLoc(b, op)
	case bytecode.OpLdInd:
		return lf.lowerLdInd(b, op)
	case bytecode.OpStInd:
		return lf.lowerStInd(b, op)

	case bytecode.OpLdFld:
		return lf.lowerLdFld(b, op)
	case bytecode.OpStFld:
		return lf.lowerStFld(b, op)
	case bytecode.OpLdSFld:
		return lf.lowerLdSFld(b, op)
	case bytecode.OpStSFld:
		return lf.lowerStSFld(b, op)

	case bytecode.OpNewArr:
		return lf.lowerNewArr(b, op)
	case bytecode.OpLdElem:
		return lf.lowerLdElem(b, op)
	case bytecode.OpStElem:
		return lf.lowerStElem(b, op)
	case bytecode.OpLdLen:
		return lf.lowerLdLen(b, op)

	case bytecode.OpCall, bytecode.OpCallVirt:
		return lf.lowerCall(b, op)
	case bytecode.OpCalli:
		return lf.lowerCalli(b, op)
	case bytecode.OpJmp:
		return lf.lowerJmp(b, op)
	case bytecode.OpNewObj:
		return lf.lowerNewObj(b, op)

	case bytecode.OpBr:
		return lf.lowerBr(b, op)
	case bytecode.OpBrTrue:
		return lf.lowerBrCond(b, op, true)
	case bytecode.OpBrFalse:
		return lf.lowerBrCond(b, op, false)
	case bytecode.OpBeq, bytecode.OpBne, bytecode.OpBlt, bytecode.OpBle, bytecode.OpBgt, bytecode.OpBge:
		return lf.lowerCompareBranch(b, op)
	case bytecode.OpSwitch:
		return lf.lowerSwitch(b, op)
	case bytecode.OpLeave:
		return lf.lowerLeave(b, op)
	case bytecode.OpEndFinally:
		return lf.lowerEndFinally(b, op)
	case bytecode.OpEndFilter:
		// The filter's boolean verdict is consumed by the runtime's
		// exception dispatch, not by any TAC instruction; only its stack
		// effect matters here.
		_, err := lf.pop(op.Offset)
		return err
	case bytecode.OpThrow:
		return lf.lowerThrow(b, op)
	case bytecode.OpRethrow:
		b.Append(tac.NewThrow(op.Offset, nil))
		lf.stack.Clear()
		return nil
	case bytecode.OpRet:
		return lf.lowerRet(b, op)

	case bytecode.OpSizeof:
		return lf.lowerSizeof(b, op)
	case bytecode.OpLocalAlloc:
		return lf.lowerLocalAlloc(b, op)
	case bytecode.OpCopyMem:
		return lf.lowerCopyMem(b, op)
	case bytecode.OpCopyObj:
		return lf.lowerCopyObj(b, op)
	case bytecode.OpInitMem:
		return lf.lowerInitMem(b, op)
	case bytecode.OpInitObj:
		return lf.lowerInitObj(b, op)
	case bytecode.OpLdToken:
		return lf.lowerLdToken(b, op)

	default:
		lf.mb.AddDiagnostic(tac.Diagnostic{Offset: op.Offset, Message: fmt.Sprintf("unsupported opcode %s", op.Op)})
		lf.log.WithField("offset", op.Offset).Warnf("unknown opcode %s; preserving stack balance and continuing", op.Op)
		return nil
	}
}

func (lf *lifter) lowerDup(b *tac.BasicBlock, op bytecode.RawOp) error {
	top, err := lf.stack.Peek()
	if err != nil {
		return errs.NewLiftError(errs.StackOverUnderflow, op.Offset, err.Error())
	}
	dst, err := lf.push(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewLoad(op.Offset, dst, tac.Var(top)))
	return nil
}

func (lf *lifter) lowerBinary(b *tac.BasicBlock, op bytecode.RawOp) error {
	right, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	left, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	dst, err := lf.push(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewBinOp(op.Offset, dst, tac.Var(left), binOperatorOf(op.Op), tac.Var(right)))
	return nil
}

func (lf *lifter) lowerUnary(b *tac.BasicBlock, op bytecode.RawOp) error {
	src, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	dst, err := lf.push(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewUnOp(op.Offset, dst, unOperatorOf(op.Op), tac.Var(src)))
	return nil
}

func (lf *lifter) lowerConvert(b *tac.BasicBlock, op bytecode.RawOp) error {
	src, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	dst, err := lf.push(op.Offset)
	if err != nil {
		return err
	}
	target := fixedConvertTarget(op.Op)
	if target == nil {
		target = op.Operand.Type
	}
	b.Append(tac.NewConvert(op.Offset, dst, target, tac.Var(src)))
	return nil
}

func (lf *lifter) lowerLoadConst(b *tac.BasicBlock, op bytecode.RawOp) error {
	dst, err := lf.push(op.Offset)
	if err != nil {
		return err
	}
	var cv tac.ConstValue
	switch op.Op {
	case bytecode.OpLdcI4:
		cv = tac.ConstI32Of(op.Operand.I32)
	case bytecode.OpLdcI8:
		cv = tac.ConstI64Of(op.Operand.I64)
	case bytecode.OpLdcR4:
		cv = tac.ConstF32Of(op.Operand.F32)
	case bytecode.OpLdcR8:
		cv = tac.ConstF64Of(op.Operand.F64)
	case bytecode.OpLdStr:
		cv = tac.ConstStringOf(op.Operand.Str)
	default: // OpLdNull
		cv = tac.ConstNullOf()
	}
	b.Append(tac.NewLoad(op.Offset, dst, tac.Const(cv)))
	return nil
}

func (lf *lifter) lowerLdArg(b *tac.BasicBlock, op bytecode.RawOp) error {
	src := lf.paramVariable(op.Operand.Param)
	dst, err := lf.push(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewLoad(op.Offset, dst, tac.Var(src)))
	return nil
}

func (lf *lifter) lowerStArg(b *tac.BasicBlock, op bytecode.RawOp) error {
	src, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	dst := lf.paramVariable(op.Operand.Param)
	b.Append(tac.NewLoad(op.Offset, dst, tac.Var(src)))
	return nil
}

func (lf *lifter) lowerLdLoc(b *tac.BasicBlock, op bytecode.RawOp) error {
	src := lf.localVar(op.Operand.Local)
	dst, err := lf.push(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewLoad(op.Offset, dst, tac.Var(src)))
	return nil
}

func (lf *lifter) lowerStLoc(b *tac.BasicBlock, op bytecode.RawOp) error {
	src, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	dst := lf.localVar(op.Operand.Local)
	b.Append(tac.NewLoad(op.Offset, dst, tac.Var(src)))
	return nil
}

func (lf *lifter) lowerLdInd(b *tac.BasicBlock, op bytecode.RawOp) error {
	addr, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	dst, err := lf.push(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewLoad(op.Offset, dst, tac.OperandDeref{V: addr}))
	return nil
}

func (lf *lifter) lowerStInd(b *tac.BasicBlock, op bytecode.RawOp) error {
	val, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	addr, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewStore(op.Offset, tac.OperandDeref{V: addr}, tac.Var(val)))
	return nil
}

func (lf *lifter) lowerLdFld(b *tac.BasicBlock, op bytecode.RawOp) error {
	obj, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	dst, err := lf.push(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewLoad(op.Offset, dst, tac.OperandInstField{Obj: obj, Field: op.Operand.Field.Name}))
	return nil
}

func (lf *lifter) lowerStFld(b *tac.BasicBlock, op bytecode.RawOp) error {
	val, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	obj, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewStore(op.Offset, tac.OperandInstField{Obj: obj, Field: op.Operand.Field.Name}, tac.Var(val)))
	return nil
}

func (lf *lifter) lowerLdSFld(b *tac.BasicBlock, op bytecode.RawOp) error {
	dst, err := lf.push(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewLoad(op.Offset, dst, tac.OperandStaticField{Type: op.Operand.Field.DeclaringType, Field: op.Operand.Field.Name}))
	return nil
}

func (lf *lifter) lowerStSFld(b *tac.BasicBlock, op bytecode.RawOp) error {
	val, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewStore(op.Offset, tac.OperandStaticField{Type: op.Operand.Field.DeclaringType, Field: op.Operand.Field.Name}, tac.Var(val)))
	return nil
}

func (lf *lifter) lowerNewArr(b *tac.BasicBlock, op bytecode.RawOp) error {
	rank := op.Operand.ArrayRank
	if rank <= 0 {
		rank = 1
	}
	var lowerBounds []tac.TacOperand
	if op.Operand.ArrayLowerBounds {
		lbs, err := lf.popN(op.Offset, rank)
		if err != nil {
			return err
		}
		lowerBounds = lf.wrapVars(lbs)
	}
	sizes, err := lf.popN(op.Offset, rank)
	if err != nil {
		return err
	}
	dst, err := lf.push(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewNewArray(op.Offset, dst, op.Operand.Type, rank, lowerBounds, lf.wrapVars(sizes)))
	return nil
}

func (lf *lifter) lowerLdElem(b *tac.BasicBlock, op bytecode.RawOp) error {
	index, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	array, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	dst, err := lf.push(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewLoad(op.Offset, dst, tac.OperandArrayElem{Array: array, Index: index}))
	return nil
}

func (lf *lifter) lowerStElem(b *tac.BasicBlock, op bytecode.RawOp) error {
	val, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	index, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	array, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewStore(op.Offset, tac.OperandArrayElem{Array: array, Index: index}, tac.Var(val)))
	return nil
}

func (lf *lifter) lowerLdLen(b *tac.BasicBlock, op bytecode.RawOp) error {
	array, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	dst, err := lf.push(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewLoad(op.Offset, dst, tac.OperandInstField{Obj: array, Field: "$length"}))
	return nil
}

func (lf *lifter) lowerCall(b *tac.BasicBlock, op bytecode.RawOp) error {
	callee := op.Operand.Method
	if callee == nil {
		return errs.NewLiftError(errs.UnknownOpcode, op.Offset, "call with no resolved method reference")
	}

	extras, err := lf.popN(op.Offset, op.Operand.ExtraArgs)
	if err != nil {
		return err
	}
	declared, err := lf.popN(op.Offset, len(callee.Parameters()))
	if err != nil {
		return err
	}

	args := make([]tac.TacOperand, 0, len(declared)+len(extras)+1)
	if !callee.IsStatic() {
		recv, err := lf.pop(op.Offset)
		if err != nil {
			return err
		}
		args = append(args, tac.Var(recv))
	}
	args = append(args, lf.wrapVars(declared)...)
	args = append(args, lf.wrapVars(extras)...)

	var dst *tac.Variable
	if callee.ReturnType().TypeCode() != symbols.TypeVoid {
		v, err := lf.push(op.Offset)
		if err != nil {
			return err
		}
		dst = &v
	}
	b.Append(tac.NewCall(op.Offset, dst, callee, args, op.Op == bytecode.OpCallVirt))
	return nil
}

func (lf *lifter) lowerCalli(b *tac.BasicBlock, op bytecode.RawOp) error {
	sig := op.Operand.Method
	if sig == nil {
		return errs.NewLiftError(errs.UnknownOpcode, op.Offset, "calli with no call-site signature")
	}

	fnPtr, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	declared, err := lf.popN(op.Offset, len(sig.Parameters()))
	if err != nil {
		return err
	}
	args := lf.wrapVars(declared)
	if !sig.IsStatic() {
		recv, err := lf.pop(op.Offset)
		if err != nil {
			return err
		}
		args = append([]tac.TacOperand{tac.Var(recv)}, args...)
	}

	var dst *tac.Variable
	if sig.ReturnType().TypeCode() != symbols.TypeVoid {
		v, err := lf.push(op.Offset)
		if err != nil {
			return err
		}
		dst = &v
	}
	b.Append(tac.NewIndirectCall(op.Offset, dst, fnPtr, sig, args))
	return nil
}

func (lf *lifter) lowerJmp(b *tac.BasicBlock, op bytecode.RawOp) error {
	callee := op.Operand.Method
	if callee == nil {
		return errs.NewLiftError(errs.UnknownOpcode, op.Offset, "jmp with no resolved method reference")
	}

	args := make([]tac.TacOperand, 0, len(lf.method.Parameters())+1)
	if !lf.method.IsStatic() {
		args = append(args, tac.Var(tac.ThisParam()))
	}
	for i := range lf.method.Parameters() {
		args = append(args, tac.Var(tac.Param(i)))
	}
	b.Append(tac.NewCall(op.Offset, nil, callee, args, false))
	return nil
}

func (lf *lifter) lowerNewObj(b *tac.BasicBlock, op bytecode.RawOp) error {
	ctor := op.Operand.Method
	if ctor == nil {
		return errs.NewLiftError(errs.UnknownOpcode, op.Offset, "newobj with no resolved constructor reference")
	}
	args, err := lf.popN(op.Offset, len(ctor.Parameters()))
	if err != nil {
		return err
	}
	dst, err := lf.push(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewNewObj(op.Offset, dst, ctor, lf.wrapVars(args)))
	return nil
}

func (lf *lifter) lowerBr(b *tac.BasicBlock, op bytecode.RawOp) error {
	target := op.Operand.Target
	b.Append(tac.NewBranch(op.Offset, target))
	return lf.addPending(target, lf.stack.Size())
}

func (lf *lifter) lowerBrCond(b *tac.BasicBlock, op bytecode.RawOp, wantTrue bool) error {
	val, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	target := op.Operand.Target
	b.Append(tac.NewCondBranch(op.Offset, tac.Var(val), tac.CmpEq, tac.Const(tac.ConstBoolOf(wantTrue)), target))
	return lf.addPending(target, lf.stack.Size())
}

func (lf *lifter) lowerCompareBranch(b *tac.BasicBlock, op bytecode.RawOp) error {
	right, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	left, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	target := op.Operand.Target
	b.Append(tac.NewCondBranch(op.Offset, tac.Var(left), cmpOf(op.Op), tac.Var(right), target))
	return lf.addPending(target, lf.stack.Size())
}

func (lf *lifter) lowerSwitch(b *tac.BasicBlock, op bytecode.RawOp) error {
	val, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	targets := op.Operand.Targets
	b.Append(tac.NewSwitch(op.Offset, tac.Var(val), targets))
	for _, t := range targets {
		if err := lf.addPending(t, lf.stack.Size()); err != nil {
			return err
		}
	}
	return nil
}

// lowerLeave implements spec.md §4.4's Leave rule: one ExcBranch per
// registered catch handler, then an unconditional Branch to the leave
// target -- redirected to the enclosing finally's begin offset, with
// ViaFinally set, when that region has a finally and no catches.
func (lf *lifter) lowerLeave(b *tac.BasicBlock, op bytecode.RawOp) error {
	target := op.Operand.Target
	viaFinally := false

	insideTry := lf.ctx == exctab.ContextTry || lf.ctx == exctab.ContextCatch
	if region, ok := lf.idx.RegionContaining(op.Offset); ok && insideTry {
		for _, h := range region.OrderedHandlers() {
			b.Append(tac.NewExcBranch(op.Offset, h.BeginOffset, h.ExcType))
		}
		if region.Finally != nil && len(region.Handlers) == 0 {
			target = region.Finally.BeginOffset
			viaFinally = true
		}
	}

	br := tac.NewBranch(op.Offset, target)
	br.ViaFinally = viaFinally
	b.Append(br)

	lf.stack.Clear()
	return lf.addPending(target, lf.stack.Size())
}

func (lf *lifter) lowerEndFinally(b *tac.BasicBlock, op bytecode.RawOp) error {
	region, ok := lf.idx.FinallyContaining(op.Offset)
	if !ok {
		return errs.NewLiftError(errs.StackOverUnderflow, op.Offset, "endfinally outside a finally region")
	}
	target := region.Finally.EndOffset
	b.Append(tac.NewBranch(op.Offset, target))
	lf.stack.Clear()
	lf.ctx = exctab.ContextNone
	return lf.addPending(target, lf.stack.Size())
}

func (lf *lifter) lowerThrow(b *tac.BasicBlock, op bytecode.RawOp) error {
	exc, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewThrow(op.Offset, tac.Var(exc)))
	lf.stack.Clear()
	return nil
}

func (lf *lifter) lowerRet(b *tac.BasicBlock, op bytecode.RawOp) error {
	if lf.method.Ref().ReturnType().TypeCode() == symbols.TypeVoid {
		b.Append(tac.NewReturn(op.Offset, nil))
		return nil
	}
	val, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewReturn(op.Offset, tac.Var(val)))
	return nil
}

func (lf *lifter) lowerSizeof(b *tac.BasicBlock, op bytecode.RawOp) error {
	dst, err := lf.push(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewSizeof(op.Offset, dst, op.Operand.Type))
	return nil
}

func (lf *lifter) lowerLocalAlloc(b *tac.BasicBlock, op bytecode.RawOp) error {
	size, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	dst, err := lf.push(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewLocalAlloc(op.Offset, dst, tac.Var(size)))
	return nil
}

func (lf *lifter) lowerCopyMem(b *tac.BasicBlock, op bytecode.RawOp) error {
	size, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	src, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	dst, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewCopyMem(op.Offset, tac.Var(dst), tac.Var(src), tac.Var(size)))
	return nil
}

func (lf *lifter) lowerCopyObj(b *tac.BasicBlock, op bytecode.RawOp) error {
	src, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	dst, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewCopyObj(op.Offset, tac.Var(dst), tac.Var(src), op.Operand.Type))
	return nil
}

func (lf *lifter) lowerInitMem(b *tac.BasicBlock, op bytecode.RawOp) error {
	size, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	dst, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewInitMem(op.Offset, tac.Var(dst), tac.Var(size)))
	return nil
}

func (lf *lifter) lowerInitObj(b *tac.BasicBlock, op bytecode.RawOp) error {
	dst, err := lf.pop(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewInitObj(op.Offset, tac.Var(dst), op.Operand.Type))
	return nil
}

func (lf *lifter) lowerLdToken(b *tac.BasicBlock, op bytecode.RawOp) error {
	if op.Operand.Type == nil {
		return errs.NewResolveError(errs.NullTypeToken, fmt.Sprintf("ldtoken at offset %d has no resolved type", op.Offset))
	}
	dst, err := lf.push(op.Offset)
	if err != nil {
		return err
	}
	b.Append(tac.NewLoadToken(op.Offset, dst, op.Operand.Type))
	return nil
}

func binOperatorOf(k bytecode.OpKind) tac.BinOperator {
	switch k {
	case bytecode.OpAdd:
		return tac.BinAdd
	case bytecode.OpSub:
		return tac.BinSub
	case bytecode.OpMul:
		return tac.BinMul
	case bytecode.OpDiv:
		return tac.BinDiv
	case bytecode.OpRem:
		return tac.BinRem
	case bytecode.OpAnd:
		return tac.BinAnd
	case bytecode.OpOr:
		return tac.BinOr
	case bytecode.OpXor:
		return tac.BinXor
	case bytecode.OpShl:
		return tac.BinShl
	case bytecode.OpShr:
		return tac.BinShr
	case bytecode.OpCeq:
		return tac.BinCeq
	case bytecode.OpCgt:
		return tac.BinCgt
	default: // OpClt
		return tac.BinClt
	}
}

func unOperatorOf(k bytecode.OpKind) tac.UnOperator {
	if k == bytecode.OpNeg {
		return tac.UnNeg
	}
	return tac.UnNot
}

func cmpOf(k bytecode.OpKind) tac.CompareOp {
	switch k {
	case bytecode.OpBeq:
		return tac.CmpEq
	case bytecode.OpBne:
		return tac.CmpNe
	case bytecode.OpBlt:
		return tac.CmpLt
	case bytecode.OpBle:
		return tac.CmpLe
	case bytecode.OpBgt:
		return tac.CmpGt
	default: // OpBge
		return tac.CmpGe
	}
}

func fixedConvertTarget(k bytecode.OpKind) symbols.TypeRef {
	switch k {
	case bytecode.OpConvI1:
		return symbols.SystemInt8
	case bytecode.OpConvI2:
		return symbols.SystemInt16
	case bytecode.OpConvI4:
		return symbols.SystemInt32
	case bytecode.OpConvI8:
		return symbols.SystemInt64
	case bytecode.OpConvU1:
		return symbols.SystemUInt8
	case bytecode.OpConvU2:
		return symbols.SystemUInt16
	case bytecode.OpConvU4:
		return symbols.SystemUInt32
	case bytecode.OpConvU8:
		return symbols.SystemUInt64
	case bytecode.OpConvI:
		return symbols.SystemIntPtr
	case bytecode.OpConvU:
		return symbols.SystemUIntPtr
	case bytecode.OpConvR4:
		return symbols.SystemFloat32
	case bytecode.OpConvR8:
		return symbols.SystemFloat64
	default: // OpIsInst, OpCastClass, OpBox, OpUnbox: target travels with the operand
		return nil
	}
}
