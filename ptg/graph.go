// Package ptg implements the monotone may-points-to graph the
// intraprocedural and interprocedural passes build up to a fixed point
// (spec.md §4.5/§9). Grounded on the teacher's unification-graph shape
// (terms.go: Term/union/find over *Term nodes) but reworked from a
// union-find structure into an explicit points-to set per variable,
// since spec.md §4.5 calls for a monotone may-graph rather than a
// unification lattice. typeutil.Hasher backs the static-field map so
// that two references to the same declaring type hash identically
// without round-tripping through a name string.
package ptg

import (
	"fmt"
	"sort"

	"golang.org/x/tools/go/types/typeutil"

	"github.com/nortwick-labs/tacpta/symbols"
	"github.com/nortwick-labs/tacpta/tac"
)

// NodeId identifies one abstract heap object, synthesized at an
// allocation site (spec.md §4.5).
type NodeId int

type nodeSet map[NodeId]struct{}

func newNodeSet(ids ...NodeId) nodeSet {
	s := make(nodeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s nodeSet) clone() nodeSet {
	out := make(nodeSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// unionInto adds every id of other into s, reporting whether s grew.
func (s nodeSet) unionInto(other nodeSet) bool {
	changed := false
	for id := range other {
		if _, ok := s[id]; !ok {
			s[id] = struct{}{}
			changed = true
		}
	}
	return changed
}

func (s nodeSet) equals(other nodeSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if _, ok := other[id]; !ok {
			return false
		}
	}
	return true
}

// elemField is the field name under which array elements are stored in
// the per-node fieldPts map. Array element access is modeled as a field
// access through the synthetic name "$elem" (spec.md §4.5's "treat
// array element access identically to field access, keyed by a
// sentinel field name").
const elemField = "$elem"

// Graph is the monotone may-points-to graph: variable -> node set,
// node.field -> node set, type.field -> node set (spec.md §4.5).
type Graph struct {
	hasher    *typeutil.Hasher
	varPts    map[tac.Variable]nodeSet
	fieldPts  map[NodeId]map[string]nodeSet
	staticPts *typeutil.Map // types.Type -> map[string]nodeSet
	// staticFallback covers TypeRefs whose Underlying() is nil (platform
	// primitives cannot own a static field in practice, but the fallback
	// keeps StoreStatic/LoadStatic total rather than panicking).
	staticFallback map[string]map[string]nodeSet
	nodeTypes      map[NodeId]symbols.TypeRef
	nextNode       *int
	// siteNodes backs AllocateAt's idempotent allocation-site cache.
	// It is a reference-typed map shared across every Clone descended
	// from the same New(), so re-visiting an allocation site during a
	// fixed-point sweep (e.g. a loop body) always yields the same
	// NodeId instead of manufacturing a fresh one per iteration --
	// spec.md §4.5's "idempotent per (siteLabel, type) within the
	// current caller frame", required for P6 termination.
	siteNodes map[siteKey]NodeId
}

// siteKey's site is a uint64 rather than the TAC offset's native uint32
// so that callers analyzing more than one method against the same
// shared node universe (spec.md §4.7's single nodeIdGen threaded across
// the whole interprocedural run) can fold a per-method tag into the
// high bits and keep two methods' identical raw offsets from colliding
// on the same allocation-site node.
type siteKey struct {
	site     uint64
	typeName string
}

func typeNameOf(typ symbols.TypeRef) string {
	if typ == nil {
		return ""
	}
	return typ.Name()
}

// NewHasher builds the shared typeutil.Hasher every Graph in a single
// analysis run should reuse (spec.md §9 design note: one
// ProgramAnalysisInfo per run).
func NewHasher() *typeutil.Hasher {
	h := typeutil.MakeHasher()
	return &h
}

// New builds an empty graph. nextNode is shared by every graph cloned
// from this one so that allocation sites get globally unique ids even
// after cloning (spec.md §4.5/§4.6: allocation always yields a fresh
// node).
func New(hasher *typeutil.Hasher) *Graph {
	n := 0
	return &Graph{
		hasher:         hasher,
		varPts:         make(map[tac.Variable]nodeSet),
		fieldPts:       make(map[NodeId]map[string]nodeSet),
		staticPts:      new(typeutil.Map),
		staticFallback: make(map[string]map[string]nodeSet),
		nodeTypes:      make(map[NodeId]symbols.TypeRef),
		nextNode:       &n,
		siteNodes:      make(map[siteKey]NodeId),
	}
}

func (g *Graph) staticMapFor(typ symbols.TypeRef) map[string]nodeSet {
	if typ == nil {
		return nil
	}
	if u := typ.Underlying(); u != nil {
		g.staticPts.SetHasher(*g.hasher)
		if v := g.staticPts.At(u); v != nil {
			return v.(map[string]nodeSet)
		}
		m := make(map[string]nodeSet)
		g.staticPts.Set(u, m)
		return m
	}
	if m, ok := g.staticFallback[typ.Name()]; ok {
		return m
	}
	m := make(map[string]nodeSet)
	g.staticFallback[typ.Name()] = m
	return m
}

// Allocate synthesizes a fresh node of type typ, not pointed to by
// anything yet (spec.md §4.5).
func (g *Graph) Allocate(typ symbols.TypeRef) NodeId {
	id := NodeId(*g.nextNode)
	*g.nextNode++
	g.nodeTypes[id] = typ
	return id
}

func (g *Graph) NodeType(id NodeId) symbols.TypeRef {
	return g.nodeTypes[id]
}

// AllocateAt synthesizes the node for an allocation site the first time
// it is reached, and returns the same NodeId on every subsequent call at
// that (site, type) pair (spec.md §4.5). Callers with a source offset
// (NewObj, NewArray, Catch, LoadToken) should use this instead of the
// bare Allocate so that fixed-point re-evaluation of the same
// instruction does not keep growing the node universe.
func (g *Graph) AllocateAt(site uint64, typ symbols.TypeRef) NodeId {
	key := siteKey{site: site, typeName: typeNameOf(typ)}
	if id, ok := g.siteNodes[key]; ok {
		return id
	}
	id := g.Allocate(typ)
	g.siteNodes[key] = id
	return id
}

// PointsTo returns v's current points-to set (never nil, possibly
// empty).
func (g *Graph) PointsTo(v tac.Variable) nodeSet {
	if s, ok := g.varPts[v]; ok {
		return s
	}
	return nodeSet{}
}

// Bind unions nodes into v's points-to set, reporting whether the set
// grew. It never removes nodes already bound to v.
func (g *Graph) Bind(v tac.Variable, nodes nodeSet) bool {
	cur, ok := g.varPts[v]
	if !ok {
		if len(nodes) == 0 {
			return false
		}
		g.varPts[v] = nodes.clone()
		return true
	}
	return cur.unionInto(nodes)
}

// AssignNode adds a single node to v's points-to set.
func (g *Graph) AssignNode(v tac.Variable, id NodeId) bool {
	return g.Bind(v, newNodeSet(id))
}

// Assign propagates src's points-to set into dst (spec.md §4.6 Load
// through a plain variable).
func (g *Graph) Assign(dst, src tac.Variable) bool {
	return g.Bind(dst, g.PointsTo(src))
}

// LoadField reads obj.field into dst for every node obj may point to
// (spec.md §4.5/§4.6).
func (g *Graph) LoadField(dst, obj tac.Variable, field string) bool {
	changed := false
	for objNode := range g.PointsTo(obj) {
		fields, ok := g.fieldPts[objNode]
		if !ok {
			continue
		}
		if g.Bind(dst, fields[field]) {
			changed = true
		}
	}
	return changed
}

// StoreField writes src's points-to set into obj.field for every node
// obj may point to.
func (g *Graph) StoreField(obj tac.Variable, field string, src tac.Variable) bool {
	changed := false
	srcNodes := g.PointsTo(src)
	for objNode := range g.PointsTo(obj) {
		fields, ok := g.fieldPts[objNode]
		if !ok {
			fields = make(map[string]nodeSet)
			g.fieldPts[objNode] = fields
		}
		cur, ok := fields[field]
		if !ok {
			if len(srcNodes) == 0 {
				continue
			}
			fields[field] = srcNodes.clone()
			changed = true
			continue
		}
		if cur.unionInto(srcNodes) {
			changed = true
		}
	}
	return changed
}

func (g *Graph) LoadElem(dst, array tac.Variable) bool {
	return g.LoadField(dst, array, elemField)
}

func (g *Graph) StoreElem(array tac.Variable, src tac.Variable) bool {
	return g.StoreField(array, elemField, src)
}

// LoadStatic reads typ::field into dst.
func (g *Graph) LoadStatic(dst tac.Variable, typ symbols.TypeRef, field string) bool {
	m := g.staticMapFor(typ)
	if m == nil {
		return false
	}
	return g.Bind(dst, m[field])
}

// StoreStatic writes src's points-to set into typ::field.
func (g *Graph) StoreStatic(typ symbols.TypeRef, field string, src tac.Variable) bool {
	m := g.staticMapFor(typ)
	if m == nil {
		return false
	}
	srcNodes := g.PointsTo(src)
	cur, ok := m[field]
	if !ok {
		if len(srcNodes) == 0 {
			return false
		}
		m[field] = srcNodes.clone()
		return true
	}
	return cur.unionInto(srcNodes)
}

// Clone deep-copies the graph's contents. The two graphs still share
// nextNode so that subsequent allocations in either never collide
// (spec.md §4.7 "clone the caller graph before descending into the
// callee").
func (g *Graph) Clone() *Graph {
	out := &Graph{
		hasher:         g.hasher,
		varPts:         make(map[tac.Variable]nodeSet, len(g.varPts)),
		fieldPts:       make(map[NodeId]map[string]nodeSet, len(g.fieldPts)),
		staticPts:      new(typeutil.Map),
		staticFallback: make(map[string]map[string]nodeSet, len(g.staticFallback)),
		nodeTypes:      make(map[NodeId]symbols.TypeRef, len(g.nodeTypes)),
		nextNode:       g.nextNode,
		siteNodes:      g.siteNodes,
	}
	for v, s := range g.varPts {
		out.varPts[v] = s.clone()
	}
	for node, fields := range g.fieldPts {
		clone := make(map[string]nodeSet, len(fields))
		for f, s := range fields {
			clone[f] = s.clone()
		}
		out.fieldPts[node] = clone
	}
	g.staticPts.SetHasher(*g.hasher)
	for _, k := range g.staticPts.Keys() {
		fields := g.staticPts.At(k).(map[string]nodeSet)
		clone := make(map[string]nodeSet, len(fields))
		for f, s := range fields {
			clone[f] = s.clone()
		}
		out.staticPts.SetHasher(*out.hasher)
		out.staticPts.Set(k, clone)
	}
	for name, fields := range g.staticFallback {
		clone := make(map[string]nodeSet, len(fields))
		for f, s := range fields {
			clone[f] = s.clone()
		}
		out.staticFallback[name] = clone
	}
	for id, t := range g.nodeTypes {
		out.nodeTypes[id] = t
	}
	return out
}

// Union merges other's contents into g in place, reporting whether g
// grew. This is the join operator of the fixed-point iteration (spec.md
// §4.6/§4.7).
func (g *Graph) Union(other *Graph) bool {
	changed := false
	for v, s := range other.varPts {
		if g.Bind(v, s) {
			changed = true
		}
	}
	for node, fields := range other.fieldPts {
		dst, ok := g.fieldPts[node]
		if !ok {
			dst = make(map[string]nodeSet)
			g.fieldPts[node] = dst
		}
		for f, s := range fields {
			cur, ok := dst[f]
			if !ok {
				if len(s) == 0 {
					continue
				}
				dst[f] = s.clone()
				changed = true
				continue
			}
			if cur.unionInto(s) {
				changed = true
			}
		}
	}
	other.staticPts.SetHasher(*other.hasher)
	for _, k := range other.staticPts.Keys() {
		fields := other.staticPts.At(k).(map[string]nodeSet)
		g.staticPts.SetHasher(*g.hasher)
		existing := g.staticPts.At(k)
		var dst map[string]nodeSet
		if existing != nil {
			dst = existing.(map[string]nodeSet)
		} else {
			dst = make(map[string]nodeSet)
			g.staticPts.Set(k, dst)
		}
		for f, s := range fields {
			cur, ok := dst[f]
			if !ok {
				if len(s) == 0 {
					continue
				}
				dst[f] = s.clone()
				changed = true
				continue
			}
			if cur.unionInto(s) {
				changed = true
			}
		}
	}
	for name, fields := range other.staticFallback {
		dst, ok := g.staticFallback[name]
		if !ok {
			dst = make(map[string]nodeSet)
			g.staticFallback[name] = dst
		}
		for f, s := range fields {
			cur, ok := dst[f]
			if !ok {
				if len(s) == 0 {
					continue
				}
				dst[f] = s.clone()
				changed = true
				continue
			}
			if cur.unionInto(s) {
				changed = true
			}
		}
	}
	for id, t := range other.nodeTypes {
		if _, ok := g.nodeTypes[id]; !ok {
			g.nodeTypes[id] = t
		}
	}
	return changed
}

// Equals reports whether g and other have identical variable points-to
// sets and identical node field edges, used to detect that a method's
// fixed point has been reached (spec.md §4.7). Static-field contents and
// node types are not compared: two graphs that differ only there are
// reported equal.
func (g *Graph) Equals(other *Graph) bool {
	if len(g.varPts) != len(other.varPts) {
		return false
	}
	for v, s := range g.varPts {
		if !s.equals(other.PointsTo(v)) {
			return false
		}
	}
	if len(g.fieldPts) != len(other.fieldPts) {
		return false
	}
	for node, fields := range g.fieldPts {
		oFields, ok := other.fieldPts[node]
		if !ok || len(fields) != len(oFields) {
			return false
		}
		for f, s := range fields {
			if !s.equals(oFields[f]) {
				return false
			}
		}
	}
	return true
}

// String renders a deterministic debug dump (spec.md §12 supplemental
// diagnostics).
func (g *Graph) String() string {
	vars := make([]tac.Variable, 0, len(g.varPts))
	for v := range g.varPts {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].String() < vars[j].String() })

	out := ""
	for _, v := range vars {
		nodes := idsOf(g.varPts[v])
		out += fmt.Sprintf("%s -> %v\n", v, nodes)
	}
	return out
}

func idsOf(s nodeSet) []NodeId {
	out := make([]NodeId, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
