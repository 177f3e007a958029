// Package exctab builds the exception-region index from a raw exception
// table (spec.md §4.3). Grounded on the teacher's map-based auxiliary
// index style (terms.go's varToTerm map[Site]*Term), applied here to
// try/catch/finally regions instead of unification terms.
package exctab

import (
	"sort"

	"github.com/nortwick-labs/tacpta/bytecode"
	"github.com/nortwick-labs/tacpta/tac"
)

// ContextKind gates the semantics of Leave/EndFinally during lifting
// (spec.md §4.3).
type ContextKind int

const (
	ContextNone ContextKind = iota
	ContextTry
	ContextCatch
	ContextFinally
)

// Index maps tryBeginOffset -> TryRegion (spec.md §4.3).
type Index struct {
	regions map[uint32]*tac.TryRegion
	// handlerOwner maps a handler/finally begin offset back to its
	// enclosing region, so that lifting code entering a handler can find
	// the region without a linear scan.
	handlerOwner map[uint32]*tac.TryRegion
	finallyOwner map[uint32]*tac.TryRegion
}

// Build constructs the index from the raw exception table.
func Build(entries []bytecode.ExceptionInfo) *Index {
	idx := &Index{
		regions:      make(map[uint32]*tac.TryRegion),
		handlerOwner: make(map[uint32]*tac.TryRegion),
		finallyOwner: make(map[uint32]*tac.TryRegion),
	}

	// Sort by try-begin offset, stably, so regions with the same begin
	// offset (nested identically) are merged in source order: the first
	// such entry fixes the region's end offset, and a later entry for the
	// same handler or finally offset replaces an earlier one.
	sorted := make([]bytecode.ExceptionInfo, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TryStartOffset < sorted[j].TryStartOffset
	})

	for _, e := range sorted {
		region, ok := idx.regions[e.TryStartOffset]
		if !ok {
			region = tac.NewTryRegion(e.TryStartOffset, e.TryEndOffset)
			idx.regions[e.TryStartOffset] = region
		}

		switch e.HandlerKind {
		case bytecode.HandlerCatch, bytecode.HandlerFilter:
			region.Handlers[e.HandlerStartOffset] = tac.CatchInfo{
				BeginOffset: e.HandlerStartOffset,
				EndOffset:   e.HandlerEndOffset,
				ExcType:     e.ExceptionType,
			}
			idx.handlerOwner[e.HandlerStartOffset] = region

		case bytecode.HandlerFinally, bytecode.HandlerFault:
			region.Finally = &tac.FinallyInfo{
				BeginOffset: e.HandlerStartOffset,
				EndOffset:   e.HandlerEndOffset,
			}
			idx.finallyOwner[e.HandlerStartOffset] = region
		}
	}

	return idx
}

// TryAt returns the region beginning at offset, if any.
func (idx *Index) TryAt(offset uint32) (*tac.TryRegion, bool) {
	r, ok := idx.regions[offset]
	return r, ok
}

// HandlerAt returns the region whose catch handler begins at offset,
// and the matching CatchInfo.
func (idx *Index) HandlerAt(offset uint32) (*tac.TryRegion, tac.CatchInfo, bool) {
	region, ok := idx.handlerOwner[offset]
	if !ok {
		return nil, tac.CatchInfo{}, false
	}
	return region, region.Handlers[offset], true
}

// FinallyAt returns the region whose finally block begins at offset.
func (idx *Index) FinallyAt(offset uint32) (*tac.TryRegion, bool) {
	r, ok := idx.finallyOwner[offset]
	return r, ok
}

// FinallyContaining returns the region whose finally block's
// [begin,end) range contains offset, used by EndFinally to find its
// own finally region regardless of where within the block it sits
// (spec.md §4.4).
func (idx *Index) FinallyContaining(offset uint32) (*tac.TryRegion, bool) {
	for _, r := range idx.regions {
		if r.Finally != nil && offset >= r.Finally.BeginOffset && offset < r.Finally.EndOffset {
			return r, true
		}
	}
	return nil, false
}

// RegionContaining finds the innermost try region whose [begin,end) range
// contains offset, used to resolve which region a Leave instruction is
// escaping (spec.md §4.4).
func (idx *Index) RegionContaining(offset uint32) (*tac.TryRegion, bool) {
	var best *tac.TryRegion
	for _, r := range idx.regions {
		if offset >= r.BeginOffset && offset < r.EndOffset {
			if best == nil || r.BeginOffset > best.BeginOffset {
				best = r
			}
		}
	}
	return best, best != nil
}
