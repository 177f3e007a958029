// Package interproc implements the interprocedural driver (spec.md
// §4.7): a worklist fixed point over a growing call graph, resolving
// virtual callees from the live points-to graph, devirtualizing on the
// fly, and memoizing each reachable method's intraprocedural dataflow
// result so it is only re-run when its input PTG strictly grows or one
// of its callees' output later settles to something more precise.
//
// Grounded on the teacher's top-level analyze.go loop -- a single
// program-wide store of derived facts (constraint terms there; CFG/PTA/
// PTG here) revisited until a full sweep adds nothing -- generalized
// from go/ssa's concrete call graph to the abstract symbols.MethodRef
// model this module analyzes against, and from the teacher's flat
// function-level worklist to a summary-graph worklist keyed by
// caller/callee dependency (grounded on
// awslabs-ar-go-tools__intra_procedural_monotone_analysis.go's
// changeFlag/fixed-point idiom).
package interproc

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nortwick-labs/tacpta/cfg"
	"github.com/nortwick-labs/tacpta/errs"
	"github.com/nortwick-labs/tacpta/internal/queue"
	islices "github.com/nortwick-labs/tacpta/internal/slices"
	"github.com/nortwick-labs/tacpta/pta"
	"github.com/nortwick-labs/tacpta/ptg"
	"github.com/nortwick-labs/tacpta/symbols"
	"github.com/nortwick-labs/tacpta/tac"
)

// CallSite identifies one call instruction inside a caller for the
// purposes of call-graph edge bookkeeping: the instruction's identity
// (its source offset) is enough to distinguish two calls to the same
// callee from the same caller.
type CallSite struct {
	Caller symbols.MethodRef
	Offset uint32
}

// CallGraph is the driver's output (spec.md §4.7 step 2, §6 "Output").
// golang.org/x/tools/go/callgraph.Graph is hard-typed to *ssa.Function
// nodes and cannot carry the abstract symbols.MethodRef this module
// analyzes against, so the shape is reimplemented here directly:
// adjacency keyed by call site rather than by caller alone, since one
// caller can devirtualize the same static callee to different concrete
// overrides at different call sites.
type CallGraph struct {
	Edges map[CallSite]map[string]symbols.MethodRef
}

func newCallGraph() *CallGraph {
	return &CallGraph{Edges: make(map[CallSite]map[string]symbols.MethodRef)}
}

// addEdge records a (caller, callSite) -> callee edge, keyed on the
// callee's String() so that two MethodRef values naming the same method
// collapse to one edge (spec.md P5: call-graph edges are monotone
// non-decreasing, never duplicated). Reports whether this was a new
// edge, for Stats.EdgesAdded.
func (cg *CallGraph) addEdge(site CallSite, callee symbols.MethodRef) bool {
	set, ok := cg.Edges[site]
	if !ok {
		set = make(map[string]symbols.MethodRef)
		cg.Edges[site] = set
	}
	k := callee.String()
	if _, exists := set[k]; exists {
		return false
	}
	set[k] = callee
	return true
}

// Callees returns the resolved callee set recorded for one call site.
func (cg *CallGraph) Callees(site CallSite) []symbols.MethodRef {
	set := cg.Edges[site]
	out := make([]symbols.MethodRef, 0, len(set))
	for _, m := range set {
		out = append(out, m)
	}
	return out
}

// MethodInfo is the per-method ProgramAnalysisInfo record (spec.md §9
// "Mutable shared info table": a per-method struct holding named, typed
// fields for CFG, PTA, PTG, INPUT_PTG, OUTPUT_PTG, replacing an ad-hoc
// string-keyed map). This module's intraprocedural pass (pta.Analyze)
// is a pure function of (cfg, entry graph) rather than a stateful
// object, so the PTA/PTG fields the spec names collapse into one cached
// per-block exit-map field here; CFG, INPUT_PTG and OUTPUT_PTG keep
// their own identity because each is compared/updated independently by
// the algorithm below.
type MethodInfo struct {
	CFG       *cfg.ControlFlowGraph
	Unknown   bool
	Exit      map[uint32]*ptg.Graph // per-block exit graphs from the last pta.Analyze run
	InputPTG  *ptg.Graph
	OutputPTG *ptg.Graph
	// analyzing is set for the duration of runMethod so a call that
	// recurses back into a method still on the Go call stack (direct or
	// mutual recursion) can be detected; see processOneCallee.
	analyzing bool
}

// Hooks are the three overridable callbacks of spec.md §6: callers
// install their own before calling Driver.Analyze, or take the defaults
// below, mirroring the teacher's pattern of a capability struct
// (pta.Handlers) rather than an interface a caller must fully implement.
type Hooks struct {
	// OnReachableMethodFound lifts (if needed) and caches the CFG for a
	// newly reached method. Returning an error marks the method unknown
	// (spec.md §7: "the interprocedural driver treats an aborted
	// lifting as an unknown method").
	OnReachableMethodFound func(method symbols.MethodRef) (*cfg.ControlFlowGraph, error)
	// OnUnknownMethodFound decides whether an unresolved or external
	// callee should still be modeled via synthesized parameters.
	OnUnknownMethodFound func(method symbols.MethodRef) bool
	// ProcessUnknownMethod models an unknown callee's side effects on
	// its own synthesized-parameter frame. Default is identity.
	ProcessUnknownMethod func(callee symbols.MethodRef, caller symbols.MethodRef, call *tac.Call, input *ptg.Graph) *ptg.Graph
}

// DefaultHooks returns the reference semantics named in spec.md §6: no
// method is ever reachable without an explicit resolver (so
// OnReachableMethodFound must be supplied by the caller), every unknown
// callee is skipped, and the unknown-method hook is the identity.
func DefaultHooks(resolve func(symbols.MethodRef) (*cfg.ControlFlowGraph, error)) Hooks {
	return Hooks{
		OnReachableMethodFound: resolve,
		OnUnknownMethodFound:   func(symbols.MethodRef) bool { return false },
		ProcessUnknownMethod: func(_, _ symbols.MethodRef, _ *tac.Call, input *ptg.Graph) *ptg.Graph {
			return input
		},
	}
}

// entryParamBase tags the site key used for the root method's own
// formal-parameter nodes so it can never collide with a real
// allocation-site offset, which is bounded by the bytecode size of any
// one method (spec.md §4.7 has no analogous construct for the source
// program's top-level entry point; this module supplies a synthetic one
// so Driver.Analyze(root) has an entry PTG to start from without a
// caller binding it via NewFrame, since root has no caller).
const entryParamBase uint64 = 1 << 56

// defaultMaxSweeps bounds the outer fixed-point loop (§12 "Bounded
// fixed-point guard"). The node/variable universe any one Analyze run
// can produce is finite (spec.md P6), so a genuine analysis converges
// far below this; it exists only so a misbehaving
// symbols.IBasicType.FindMethodImplementation that keeps manufacturing
// "new" overrides fails loudly instead of looping forever.
const defaultMaxSweeps = 100000

// Stats summarizes one Driver.Analyze run (§12 "Sweep/iteration
// statistics"): how many methods were reached, how many times the outer
// fixed-point loop (re-)ran a method's intraprocedural pass, and how
// many distinct call-graph edges were recorded. Echoes the teacher's
// cmd/pointer.go "%d reachable functions" log line, taken one step
// further into a structured result.
type Stats struct {
	MethodsAnalyzed int
	Sweeps          int
	EdgesAdded      int
}

// Driver runs the fixed point of spec.md §4.7 starting from one or more
// root methods.
type Driver struct {
	hooks   Hooks
	info    map[string]*MethodInfo
	methods map[string]symbols.MethodRef
	graph   *CallGraph
	tags    map[string]uint64
	nextTag uint64

	// dependents[calleeKey] is the set of caller keys whose last
	// computed call result incorporated calleeKey's OutputPTG. Required
	// for scenario 4 (mutual recursion must converge to the union of
	// both methods' contributions): when a callee still mid-cycle first
	// returns an under-approximation, and later -- once the cycle
	// unwinds -- its real OUTPUT_PTG settles to something larger, every
	// caller that read the earlier approximation must be re-run against
	// the real value. markDirty walks this map to re-enqueue them.
	dependents map[string]map[string]bool
	queue      queue.Queue[string]
	queued     map[string]bool

	stats Stats
	// MaxSweeps bounds the outer fixed-point loop; see defaultMaxSweeps.
	MaxSweeps int
	// Logger receives fixed-point sweep progress and hook-decision
	// messages (spec.md §10). Defaults to logrus's standard logger.
	Logger *logrus.Logger
}

// NewDriver builds a Driver ready to analyze from one shared node
// universe (spec.md §4.7's nodeIdGen is shared across every method so
// that a pointer flowing from caller to callee and back names the same
// abstract node).
func NewDriver(h Hooks) *Driver {
	return &Driver{
		hooks:      h,
		info:       make(map[string]*MethodInfo),
		methods:    make(map[string]symbols.MethodRef),
		graph:      newCallGraph(),
		tags:       make(map[string]uint64),
		nextTag:    1,
		dependents: make(map[string]map[string]bool),
		queued:     make(map[string]bool),
		MaxSweeps:  defaultMaxSweeps,
		Logger:     logrus.StandardLogger(),
	}
}

// Info returns the cached ProgramAnalysisInfo record for m, if any
// method reached it during Analyze.
func (d *Driver) Info(m symbols.MethodRef) (*MethodInfo, bool) {
	info, ok := d.info[key(m)]
	return info, ok
}

// Reachable returns every method the driver has recorded an info record
// for, in no particular order.
func (d *Driver) Reachable() []symbols.MethodRef {
	out := make([]symbols.MethodRef, 0, len(d.methods))
	for _, m := range d.methods {
		out = append(out, m)
	}
	return out
}

// Stats returns the running totals for the analysis performed so far.
func (d *Driver) Stats() Stats {
	s := d.stats
	s.MethodsAnalyzed = len(d.methods)
	return s
}

func key(m symbols.MethodRef) string { return m.String() }

// isAbortedLift reports whether err is one of the fatal lift/resolve
// kinds spec.md §7 says abort "the method being lifted" -- as opposed
// to a genuine plumbing failure the driver should not paper over.
func isAbortedLift(err error) bool {
	switch err.(type) {
	case *errs.LiftError, *errs.ResolveError:
		return true
	default:
		return false
	}
}

// methodTag assigns each method a stable, distinct tag so pta.Analyze's
// AllocateAt site keys never collide across methods sharing one global
// ptg.Graph node universe (offsets are only unique within one method's
// own bytecode).
func (d *Driver) methodTag(m symbols.MethodRef) uint64 {
	k := key(m)
	if t, ok := d.tags[k]; ok {
		return t
	}
	t := d.nextTag << 32
	d.nextTag++
	d.tags[k] = t
	return t
}

// addDependent records that caller's last computed result incorporated
// callee's OutputPTG, so a later change to callee's output re-enqueues
// caller (see markDirty).
func (d *Driver) addDependent(calleeKey, callerKey string) {
	set, ok := d.dependents[calleeKey]
	if !ok {
		set = make(map[string]bool)
		d.dependents[calleeKey] = set
	}
	set[callerKey] = true
}

// enqueue schedules methodKey for a(nother) run of runMethod, skipping
// it if it is already pending.
func (d *Driver) enqueue(methodKey string) {
	if d.queued[methodKey] {
		return
	}
	d.queued[methodKey] = true
	d.queue.Push(methodKey)
}

// markDirty re-enqueues every caller that depends on calleeKey's output,
// called from runMethod whenever a (re-)run changes that method's
// OUTPUT_PTG.
func (d *Driver) markDirty(calleeKey string) {
	for callerKey := range d.dependents[calleeKey] {
		d.enqueue(callerKey)
	}
}

// Analyze implements spec.md §4.7's analyze(root) entry point, running
// the outer fixed point (root, then every method a dependency change
// re-enqueues) until the worklist drains, and returns the resulting
// call graph alongside run statistics.
func (d *Driver) Analyze(root symbols.MethodRef) (*CallGraph, Stats, error) {
	info, err := d.ensureInfo(root)
	if err != nil {
		return nil, d.Stats(), err
	}
	if info.Unknown {
		return d.graph, d.Stats(), nil
	}

	entry := ptg.New(ptg.NewHasher())
	seedEntryParams(entry, root)
	info.InputPTG = entry
	d.enqueue(key(root))

	for !d.queue.Empty() {
		if d.stats.Sweeps >= d.MaxSweeps {
			return nil, d.Stats(), fmt.Errorf("interproc: exceeded sweep budget of %d method re-analyses", d.MaxSweeps)
		}

		k := d.queue.Pop()
		d.queued[k] = false

		m, ok := d.methods[k]
		mInfo := d.info[k]
		if !ok || mInfo == nil || mInfo.Unknown || mInfo.InputPTG == nil {
			continue
		}

		d.stats.Sweeps++
		d.Logger.WithFields(logrus.Fields{"method": m.String(), "sweep": d.stats.Sweeps}).
			Debug("interproc: running method")
		d.runMethod(m, mInfo, mInfo.InputPTG.Clone())
	}

	return d.graph, d.Stats(), nil
}

// ensureInfo looks up or creates the MethodInfo for m, lifting/building
// its CFG via OnReachableMethodFound on first sight. A lift failure
// marks m unknown rather than aborting the whole run (spec.md §7: "the
// interprocedural driver treats an aborted lifting as an unknown
// method").
func (d *Driver) ensureInfo(m symbols.MethodRef) (*MethodInfo, error) {
	k := key(m)
	if info, ok := d.info[k]; ok {
		return info, nil
	}
	d.methods[k] = m

	info := &MethodInfo{}
	g, err := d.hooks.OnReachableMethodFound(m)
	if err != nil {
		if isAbortedLift(err) {
			info.Unknown = true
			d.info[k] = info
			d.Logger.WithFields(logrus.Fields{"method": m.String(), "error": err}).
				Debug("interproc: marking method unknown, lift aborted")
			return info, nil
		}
		return nil, err
	}
	info.CFG = g
	d.info[k] = info
	return info, nil
}

// runMethod runs m's intraprocedural pass to a local fixed point over
// entry, storing the result under INPUT_PTG/OUTPUT_PTG and recursing
// into every call site it reaches via processMethodCall. This is the
// body of spec.md §4.7 step 1, generalized into a function both the
// initial descent (via Analyze's worklist) and the recursive
// callee-processing step can invoke; whichever invokes it, a change to
// OUTPUT_PTG propagates to dependent callers via markDirty.
func (d *Driver) runMethod(m symbols.MethodRef, info *MethodInfo, entry *ptg.Graph) {
	info.InputPTG = entry
	info.analyzing = true
	defer func() { info.analyzing = false }()

	prevOutput := info.OutputPTG

	tag := d.methodTag(m)
	handlers := pta.Handlers{
		OnCall: func(call *tac.Call, graph *ptg.Graph) {
			result := d.processMethodCall(m, call, graph)
			*graph = *result
		},
		OnIndirectCall: func(call *tac.IndirectCall, graph *ptg.Graph) {
			result := d.processIndirectCall(m, call, graph)
			*graph = *result
		},
		OnCtorCall: func(ctor *tac.NewObjInstr, receiver ptg.NodeId, graph *ptg.Graph) {
			d.processCtorCall(m, ctor, receiver, graph)
		},
	}

	exit := pta.Analyze(info.CFG, entry.Clone(), tag, handlers)
	info.Exit = exit

	out := ptg.New(ptg.NewHasher())
	first := true
	for off := range info.CFG.Blocks {
		g, ok := exit[off]
		if !ok || d.hasSuccessor(info.CFG, off) {
			continue
		}
		if first {
			out = g.Clone()
			first = false
		} else {
			out.Union(g)
		}
		// A Return's value variable is local to the block that returns
		// it -- different exit blocks may return through different
		// temps -- so the union above alone does not give the caller a
		// single place to read the result from. Fold each exit's
		// return-value points-to set into the reserved returnVar slot
		// (spec.md §4.7 step g's "calleeResult") so RestoreFrame has one
		// stable binding source regardless of how many return sites
		// contributed to it.
		block, ok := info.CFG.Blocks[off]
		if !ok || len(block.Instrs) == 0 {
			continue
		}
		ret, ok := block.Instrs[len(block.Instrs)-1].(*tac.Return)
		if !ok || ret.Value == nil {
			continue
		}
		if rv, ok := ret.Value.(tac.OperandVar); ok {
			out.Bind(returnVar, g.PointsTo(rv.V))
		}
	}
	if first {
		out = entry.Clone()
	}
	info.OutputPTG = out

	if prevOutput == nil || !out.Equals(prevOutput) {
		d.markDirty(key(m))
	}
}

func (d *Driver) hasSuccessor(g *cfg.ControlFlowGraph, off uint32) bool {
	return len(g.Succs[off]) > 0
}

// processMethodCall implements spec.md §4.7's processMethodCall,
// mutating graph in place to the call's output and returning it so the
// pta.Handlers.OnCall closure above can splice it back into the live
// intraprocedural dataflow.
func (d *Driver) processMethodCall(caller symbols.MethodRef, call *tac.Call, input *ptg.Graph) *ptg.Graph {
	site := CallSite{Caller: caller, Offset: call.SourceOffset()}

	edges, callees := d.resolveCallees(call, input)
	for _, callee := range edges {
		if d.graph.addEdge(site, callee) {
			d.stats.EdgesAdded++
		}
	}
	if len(callees) == 0 {
		return input
	}

	var output *ptg.Graph
	first := true
	for _, callee := range callees {
		result, ok := d.processOneCallee(caller, callee, call, call.Dst, call.Args, input)
		if !ok {
			continue
		}
		if first {
			output = result
			first = false
		} else {
			output.Union(result)
		}
	}
	if first {
		return input
	}
	return output
}

// processIndirectCall treats a Calli as a singleton non-virtual callee
// keyed on its declared signature (spec.md leaves function-pointer
// value tracking in the PTG out of scope; this module cannot resolve
// which concrete method a loaded function pointer actually names, so
// the best it can do soundly is model the call against the signature
// itself, exactly as an unresolved static callee would be modeled).
func (d *Driver) processIndirectCall(caller symbols.MethodRef, call *tac.IndirectCall, input *ptg.Graph) *ptg.Graph {
	site := CallSite{Caller: caller, Offset: call.SourceOffset()}
	if d.graph.addEdge(site, call.Sig) {
		d.stats.EdgesAdded++
	}

	result, ok := d.processOneCallee(caller, call.Sig, nil, call.Dst, call.Args, input)
	if !ok {
		return input
	}
	return result
}

// processCtorCall runs a NewObjInstr's constructor interprocedurally,
// non-virtually, prepending the already-allocated receiver to the
// ctor's own argument list (pta.Handlers.OnCtorCall's contract: the
// handler only needs to model the constructor's side effects on that
// receiver -- here that modeling is delegated to the same
// processOneCallee machinery a regular call uses, since a constructor
// is just a call whose receiver the PTA, not the caller, already
// allocated).
func (d *Driver) processCtorCall(caller symbols.MethodRef, ctor *tac.NewObjInstr, receiver ptg.NodeId, graph *ptg.Graph) {
	receiverVar := receiverSlot
	graph.AssignNode(receiverVar, receiver)

	args := make([]tac.TacOperand, 0, len(ctor.Args)+1)
	args = append(args, tac.Var(receiverVar))
	args = append(args, ctor.Args...)

	result, ok := d.processOneCallee(caller, ctor.Ctor, nil, nil, args, graph)
	if !ok {
		return
	}
	*graph = *result
}

// receiverSlot is a reserved Temp index used only to pass a NewObjInstr's
// already-allocated receiver node into processOneCallee's argument
// binding; it is never read back and, like returnVar, sits outside the
// index range any lifted method's operand stack can produce.
var receiverSlot = tac.Temp(-2)

// resolveCallees implements spec.md §4.7 steps 1 and 2, which name two
// distinct callee sets rather than one:
//
//   - edges (step 2, call-graph output): the static callee plus every
//     concrete override devirtualization finds through the receiver's
//     points-to set, since a caller's call-graph record should show
//     every override that could possibly be reached here.
//   - process (step 1, what actually gets run interprocedurally): for a
//     virtual, non-static call with at least one resolved override,
//     *exclusively* those overrides -- never the abstract static method
//     itself, which by construction has no body of its own to analyze
//     (scenario 2: "resolve exclusively to B.foo"). The static callee is
//     only used for processing when the call isn't virtual, or when it
//     is virtual but devirtualization found nothing to resolve to (the
//     receiver's points-to set is empty or yielded no override), in
//     which case modeling the call against the declared static method is
//     the only sound fallback available.
func (d *Driver) resolveCallees(call *tac.Call, input *ptg.Graph) (edges, process []symbols.MethodRef) {
	edgeSet := map[string]symbols.MethodRef{key(call.Callee): call.Callee}
	overrides := map[string]symbols.MethodRef{}

	if call.Virtual && !call.Callee.IsStatic() && len(call.Args) > 0 {
		if recvVar, ok := call.Args[0].(tac.OperandVar); ok {
			for node := range input.PointsTo(recvVar.V) {
				typ := input.NodeType(node)
				basic, ok := typ.(symbols.IBasicType)
				if !ok {
					continue
				}
				impl, ok := basic.FindMethodImplementation(call.Callee)
				if !ok {
					continue
				}
				edgeSet[key(impl)] = impl
				overrides[key(impl)] = impl
			}
		}
	}

	edges = make([]symbols.MethodRef, 0, len(edgeSet))
	for _, m := range edgeSet {
		edges = append(edges, m)
	}

	if call.Virtual && !call.Callee.IsStatic() && len(overrides) > 0 {
		process = make([]symbols.MethodRef, 0, len(overrides))
		for _, m := range overrides {
			process = append(process, m)
		}
		return edges, process
	}
	return edges, []symbols.MethodRef{call.Callee}
}

// processOneCallee implements spec.md §4.7 step 3.b-g for exactly one
// resolved callee: frame push, memoized re-analysis gated on INPUT_PTG
// growth, and frame pop with the return-value binding. ok is false when
// callee is unknown and the unknown-method hook rejected it (spec.md
// scenario 5: "the output PTG equals the input PTG for that branch ...
// no INPUT_PTG entry is written").
func (d *Driver) processOneCallee(
	caller, callee symbols.MethodRef,
	call *tac.Call,
	dst *tac.Variable,
	args []tac.TacOperand,
	input *ptg.Graph,
) (*ptg.Graph, bool) {
	info, err := d.ensureInfo(callee)
	if err != nil {
		info = &MethodInfo{Unknown: true}
	}
	d.addDependent(key(callee), key(caller))

	if info.Unknown {
		if !d.hooks.OnUnknownMethodFound(callee) {
			d.Logger.WithField("method", callee.String()).Debug("interproc: unknown method skipped")
			return nil, false
		}
		d.Logger.WithField("method", callee.String()).Debug("interproc: unknown method accepted for modeling")
	}

	binding := paramVars(callee, info.Unknown, len(args))
	argBinding := make(map[tac.Variable]tac.Variable, len(binding))
	for i, calleeVar := range binding {
		if i >= len(args) {
			break
		}
		if av, ok := args[i].(tac.OperandVar); ok {
			argBinding[calleeVar] = av.V
		}
	}

	working := input.Clone()
	prev := working.NewFrame(argBinding)

	changed := info.InputPTG == nil
	if !changed {
		changed = !working.Equals(info.InputPTG)
		if changed {
			working.Union(info.InputPTG)
			changed = !working.Equals(info.InputPTG)
		}
	}

	var result *ptg.Graph
	switch {
	case info.analyzing:
		// callee is still on the Go call stack above us (direct or
		// mutual recursion, spec.md scenario 4): its OUTPUT_PTG from
		// this particular call can't be known yet. Return the best
		// approximation on hand -- a previously completed OUTPUT_PTG if
		// one exists, otherwise working itself -- and rely on the
		// dependency edge just recorded above: once callee's own
		// runMethod call (further up the stack) completes and its
		// OUTPUT_PTG changes, markDirty re-enqueues caller so this call
		// is redone against the real value instead of staying frozen at
		// a first, incomplete approximation.
		if info.OutputPTG != nil {
			result = info.OutputPTG
		} else {
			result = working
		}
	case changed:
		info.InputPTG = working.Clone()
		if info.Unknown {
			result = d.hooks.ProcessUnknownMethod(callee, caller, call, working)
		} else {
			d.runMethod(callee, info, working)
			result = info.OutputPTG
		}
		info.OutputPTG = result
	default:
		result = info.OutputPTG
	}

	out := result.Clone()
	returnBinding := map[tac.Variable]tac.Variable{}
	if dst != nil {
		returnBinding[returnVar] = *dst
	}
	out.RestoreFrame(prev, returnBinding)
	return out, true
}

// returnVar is the callee-side slot a Return instruction's value is
// bound into for the purposes of frame restoration. It is a reserved
// Temp index outside the range any lifted method's operand stack can
// produce (bounded by maxStack, spec.md P2), so it can never alias a
// genuine callee temp.
var returnVar = tac.Temp(-1)

// paramVars returns, in argument order, the callee-side Variables a
// call's argument list binds into: the callee's own declared parameter
// slots (prefixed by ThisParam for an instance method) when the callee
// is known. When it is not, the list is ThisParam (unless static)
// followed by Param(0), Param(1), ... until it has argc entries; these
// slots carry no type, and the callee's declared parameter list is not
// consulted.
func paramVars(callee symbols.MethodRef, unknown bool, argc int) []tac.Variable {
	var out []tac.Variable
	if !callee.IsStatic() {
		out = append(out, tac.ThisParam())
	}
	if unknown {
		for i := 0; len(out) < argc; i++ {
			out = append(out, tac.Param(i))
		}
		return out
	}
	paramLocals := islices.Map(callee.Parameters(), func(p symbols.ParameterRef) tac.Variable {
		return tac.Param(p.Index)
	})
	return append(out, paramLocals...)
}

// seedEntryParams gives the root method an entry PTG that already holds
// fresh nodes for `this` (if any) and every declared parameter, so
// Driver.Analyze(root) has somewhere to start without a caller to bind
// arguments from (root has none).
func seedEntryParams(g *ptg.Graph, root symbols.MethodRef) {
	tag := entryParamBase
	if !root.IsStatic() {
		node := g.AllocateAt(tag, root.ContainingType())
		g.AssignNode(tac.ThisParam(), node)
		tag++
	}
	for _, p := range root.Parameters() {
		node := g.AllocateAt(tag, p.Type)
		g.AssignNode(tac.Param(p.Index), node)
		tag++
	}
}
