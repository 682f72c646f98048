// Package grammarfst presents several independently compiled weighted
// finite-state automata as a single, logically infinite automaton, stitched
// together lazily at traversal time.
//
// A large, slow-to-recompile top-level graph references smaller,
// fast-to-build sub-grammars through placeholder labels. When a search
// reaches such a label, the engine activates the referenced automaton on
// demand, resolves the left-phonetic-context across the boundary, and hands
// the search an ordinary-looking arc. The composite graph is never
// materialized; only the call sites a search actually visits are expanded.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	grammarfst/          Root package with label, arc and state primitives
//	├── symbol/          Special-label packing and nonterminal kinds
//	├── fst/             Immutable component automata, builder, binary codec
//	├── prepare/         One-time structural transform and validation
//	├── stitch/          Lazy stitching engine and traversal cursor
//	├── config/          Load-time configuration (phones, grammar map)
//	├── errors/          Structured error types for diagnosis
//	└── cmd/grammarfst/  CLI: inspect, walk, explore, gen-demo
//
// # Quick Start
//
// Load prepared automata and traverse the composite graph:
//
//	eng, err := stitch.New(opts, top, subs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var cur stitch.Cursor
//	if err := cur.Reset(eng, eng.Start(), ctxPhone); err != nil {
//	    log.Fatal(err)
//	}
//	for cur.Next() {
//	    arc := cur.Arc() // fully resolved composite arc
//	}
//
// # Thread Safety
//
// An engine is safe for concurrent traversal from multiple goroutines.
// Component automata are immutable after preparation; the only shared
// mutable state is the engine's internal instance and expansion caches.
//
// # Memory Model
//
// Instance activations and expansion results are cached for the lifetime of
// the engine and never reclaimed. Memory grows with the number of distinct
// call sites and special states actually visited. Use one engine per decode
// session if memory must be bounded.
package grammarfst
