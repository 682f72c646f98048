// Package stitch implements the lazy stitching engine over prepared
// component automata.
//
// # Main Types
//
//   - Stitcher: owns the prepared automata, the nonterminal map and the
//     instance table; exposes the composite start state and final costs
//   - Cursor: per-state arc enumeration for the search consumer
//   - ExpandedState: memoized result of resolving one stitch point against
//     one left-context phone
//
// # Thread Safety
//
// A Stitcher is safe for concurrent traversal. Each Cursor belongs to a
// single goroutine. The instance table and per-instance expansion caches
// are the only mutable shared state; racing writers may both compute a
// resolution, but resolution is a pure function of (state, phone), exactly
// one result is retained, and every later reader observes that one value.
//
// # Dispatch
//
// Ordinary states are enumerated straight off the component automaton's arc
// storage with no allocation; states marked with the sentinel final cost go
// through the expansion cache, which invokes context resolution at most
// once per distinct (state, preceding phone) pair.
package stitch
