// Package prepare transforms a raw component automaton into the form the
// stitching engine depends on.
//
// Preparation classifies every state, splits states that mix ordinary arcs
// with stitch-point arcs by inserting epsilon-labeled intermediates, marks
// each stitch-point state with the sentinel final cost, and verifies the
// structural invariants: one destination grammar per stitch state, and
// entry/exit/reentry fans covering exactly the configured left-context
// phone set. It runs once per automaton at load time, off the hot path, so
// traversal can assume well-formedness without per-arc checking.
package prepare
