// Package fst holds the immutable weighted finite-state automata the
// stitching engine traverses.
//
// An Automaton is produced either by the Builder (used by compilation
// pipelines and tests) or by Read, which decodes the compact binary format
// written by Write. Once built, an Automaton never changes; every accessor
// is safe for concurrent use.
package fst
