// Package lift implements the bytecode lifter driver (spec.md §4.4): a
// worklist over recognized basic blocks that symbolically executes the
// operand stack one opcode at a time, emitting three-address code.
// Grounded on the teacher's ctx.queue/ctx.visited worklist shape
// (analyze.go) combined with other_examples/bnb-chain-bsc__MIRInterpreter.go's
// per-opcode transfer switch, specialised to the stack-bytecode-to-TAC
// lowering rules of spec.md §4.4.
package lift

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/nortwick-labs/tacpta/blockscan"
	"github.com/nortwick-labs/tacpta/bytecode"
	"github.com/nortwick-labs/tacpta/errs"
	"github.com/nortwick-labs/tacpta/exctab"
	"github.com/nortwick-labs/tacpta/opstack"
	"github.com/nortwick-labs/tacpta/symbols"
	"github.com/nortwick-labs/tacpta/tac"
)

// Options configures a lift. The zero value uses the raw metadata names
// for locals and logs to logrus's standard logger.
type Options struct {
	Source symbols.SourceLocationProvider
	Logger *logrus.Logger
}

// Lift reconstructs basic blocks, symbolically executes the operand
// stack, and emits a tac.MethodBody for method (spec.md §4.4).
func Lift(method bytecode.MethodInput) (*tac.MethodBody, error) {
	return LiftWithOptions(method, Options{})
}

// LiftWithOptions is Lift with an explicit source-location provider and
// logger.
func LiftWithOptions(method bytecode.MethodInput, opts Options) (*tac.MethodBody, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	body := method.Body()
	scan := blockscan.Recognize(body.Operations)
	idx := exctab.Build(body.OperationExceptionInformation)
	stack := opstack.New(int(body.MaxStack))
	mb := tac.NewMethodBody()

	for _, t := range stack.AllTemps() {
		mb.AddVariable(t)
	}
	if !method.IsStatic() {
		mb.AddVariable(tac.ThisParam())
	}
	for i := range method.Parameters() {
		mb.AddVariable(tac.Param(i))
	}
	localNames := buildLocalNames(body, opts.Source)
	for _, name := range localNames {
		mb.AddVariable(tac.Local(name))
	}

	lf := &lifter{
		method:     method,
		ops:        body.Operations,
		blocks:     scan.Blocks,
		idx:        idx,
		stack:      stack,
		mb:         mb,
		localNames: localNames,
		log:        log,
		ctx:        exctab.ContextNone,
	}
	lf.buildOpIndex()

	mb.Blocks = lf.blocks

	if len(lf.ops) == 0 {
		return mb, nil
	}
	mb.Entry = lf.ops[0].Offset
	if err := lf.addPending(mb.Entry, 0); err != nil {
		return nil, err
	}

	for len(lf.worklist) > 0 {
		offset := lf.worklist[len(lf.worklist)-1]
		lf.worklist = lf.worklist[:len(lf.worklist)-1]

		block := lf.blocks[offset]
		if block.Status == tac.StatusProcessed {
			continue
		}
		if err := lf.processBlock(block); err != nil {
			return nil, err
		}
	}

	return mb, nil
}

// lifter carries the mutable state of one method's lift (spec.md §4.4).
// It is not reused across methods.
type lifter struct {
	method     bytecode.MethodInput
	ops        []bytecode.RawOp
	opIndex    map[uint32]int
	blocks     map[uint32]*tac.BasicBlock
	idx        *exctab.Index
	stack      *opstack.Stack
	mb         *tac.MethodBody
	localNames map[int]string
	log        *logrus.Logger
	ctx        exctab.ContextKind
	worklist   []uint32 // LIFO: the lifter processes blocks in LIFO worklist order (spec.md §5)
}

func (lf *lifter) buildOpIndex() {
	lf.opIndex = make(map[uint32]int, len(lf.ops))
	for i, op := range lf.ops {
		lf.opIndex[op.Offset] = i
	}
}

func buildLocalNames(body bytecode.Body, source symbols.SourceLocationProvider) map[int]string {
	names := make(map[int]string, len(body.LocalVariables))
	for _, lv := range body.LocalVariables {
		name := lv.Name
		if source != nil {
			if n, ok := source.LocalName(lv.Index); ok {
				name = n
			}
		}
		if name == "" {
			name = "loc" + strconv.Itoa(lv.Index)
		}
		names[lv.Index] = name
	}
	return names
}

func (lf *lifter) localVar(index int) tac.Variable {
	if name, ok := lf.localNames[index]; ok {
		return tac.Local(name)
	}
	return tac.Local("loc" + strconv.Itoa(index))
}

// addPending enqueues offset if it has never been reached before, or
// checks that its recorded entry stack size agrees with size otherwise
// (spec.md §4.4/§7 LiftError.StackSizeMismatch).
func (lf *lifter) addPending(offset uint32, size uint16) error {
	b, ok := lf.blocks[offset]
	if !ok {
		b = tac.NewBasicBlock(offset)
		lf.blocks[offset] = b
	}

	switch b.Status {
	case tac.StatusNone:
		b.StackSizeAtEntry = size
		b.Status = tac.StatusPending
		lf.worklist = append(lf.worklist, offset)
	default:
		if b.StackSizeAtEntry != size {
			return errs.NewLiftError(errs.StackSizeMismatch, offset,
				fmt.Sprintf("block at offset %d entered with stack size %d, previously %d", offset, size, b.StackSizeAtEntry))
		}
	}
	return nil
}

// processBlock symbolically executes b's instructions starting from its
// recorded entry stack size, stopping either at the method's end or at
// the first op that starts a different recognized block -- that block is
// then the fall-through successor, enqueued with the stack size reached
// here (spec.md §4.4).
func (lf *lifter) processBlock(b *tac.BasicBlock) error {
	lf.stack.SetSize(b.StackSizeAtEntry)

	start, ok := lf.opIndex[b.Offset]
	if !ok {
		b.Status = tac.StatusProcessed
		return nil
	}

	for i := start; i < len(lf.ops); i++ {
		op := lf.ops[i]

		if i != start {
			if _, isLeader := lf.blocks[op.Offset]; isLeader {
				if err := lf.addPending(op.Offset, lf.stack.Size()); err != nil {
					return err
				}
				break
			}
		}

		if err := lf.markRegionEntry(b, op.Offset); err != nil {
			return err
		}
		if err := lf.lowerOp(b, op); err != nil {
			return err
		}
	}

	b.Status = tac.StatusProcessed
	return nil
}

// markRegionEntry emits the Try/Catch/Finally markers of spec.md §4.3 on
// first reaching a region's begin offset, and updates the current
// exception context.
func (lf *lifter) markRegionEntry(b *tac.BasicBlock, offset uint32) error {
	if _, ok := lf.idx.TryAt(offset); ok {
		b.Append(tac.NewTry(offset))
		lf.ctx = exctab.ContextTry
	}
	if _, info, ok := lf.idx.HandlerAt(offset); ok {
		excVar, err := lf.push(offset)
		if err != nil {
			return err
		}
		b.Append(tac.NewCatch(offset, excVar, info.ExcType))
		lf.ctx = exctab.ContextCatch
	}
	if _, ok := lf.idx.FinallyAt(offset); ok {
		b.Append(tac.NewFinally(offset))
		lf.ctx = exctab.ContextFinally
	}
	return nil
}

func (lf *lifter) push(offset uint32) (tac.Variable, error) {
	v, err := lf.stack.Push()
	if err != nil {
		return tac.Variable{}, errs.NewLiftError(errs.StackOverUnderflow, offset, err.Error())
	}
	return v, nil
}

func (lf *lifter) pop(offset uint32) (tac.Variable, error) {
	v, err := lf.stack.Pop()
	if err != nil {
		return tac.Variable{}, errs.NewLiftError(errs.StackOverUnderflow, offset, err.Error())
	}
	return v, nil
}

// popN pops n values and returns them in source (push) order.
func (lf *lifter) popN(offset uint32, n int) ([]tac.Variable, error) {
	out := make([]tac.Variable, n)
	for i := n - 1; i >= 0; i-- {
		v, err := lf.pop(offset)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (lf *lifter) wrapVars(vs []tac.Variable) []tac.TacOperand {
	out := make([]tac.TacOperand, len(vs))
	for i, v := range vs {
		out[i] = tac.Var(v)
	}
	return out
}

func (lf *lifter) paramVariable(rawIndex int) tac.Variable {
	if !lf.method.IsStatic() {
		if rawIndex == 0 {
			return tac.ThisParam()
		}
		return tac.Param(rawIndex - 1)
	}
	return tac.Param(rawIndex)
}
