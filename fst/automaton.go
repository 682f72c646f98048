package fst

import (
	grammarfst "github.com/aurelab/grammarfst"
)

type state struct {
	arcs  []grammarfst.Arc
	final grammarfst.Weight
}

// Automaton is one immutable compiled component: states addressed by local
// 32-bit ids, each with an ordered arc list and a final cost. +Inf final
// cost means non-final; the sentinel grammarfst.SpecialFinal is assigned
// only by the prepare package.
type Automaton struct {
	states []state
	start  grammarfst.StateID
}

// Start returns the start state id.
func (a *Automaton) Start() grammarfst.StateID {
	return a.start
}

// NumStates returns the number of states.
func (a *Automaton) NumStates() int {
	return len(a.states)
}

// Arcs returns the ordered outgoing arcs of s. The returned slice aliases
// the automaton's storage and must not be modified; this is what keeps
// ordinary-state enumeration allocation-free.
func (a *Automaton) Arcs(s grammarfst.StateID) []grammarfst.Arc {
	if int(s) >= len(a.states) {
		return nil
	}
	return a.states[s].arcs
}

// Final returns the final cost of s, or grammarfst.NoFinal when s is not
// final or out of range.
func (a *Automaton) Final(s grammarfst.StateID) grammarfst.Weight {
	if int(s) >= len(a.states) {
		return grammarfst.NoFinal
	}
	return a.states[s].final
}
