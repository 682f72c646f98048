package fst

import (
	grammarfst "github.com/aurelab/grammarfst"
	"github.com/aurelab/grammarfst/errors"
)

// Builder accumulates states and arcs, then freezes them into an immutable
// Automaton. A Builder is not safe for concurrent use.
type Builder struct {
	states   []state
	start    grammarfst.StateID
	hasStart bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddState appends a new non-final state and returns its id.
func (b *Builder) AddState() grammarfst.StateID {
	b.states = append(b.states, state{final: grammarfst.NoFinal})
	return grammarfst.StateID(len(b.states) - 1)
}

// SetStart marks s as the start state.
func (b *Builder) SetStart(s grammarfst.StateID) {
	b.start = s
	b.hasStart = true
}

// SetFinal assigns the final cost of s.
func (b *Builder) SetFinal(s grammarfst.StateID, w grammarfst.Weight) {
	if int(s) < len(b.states) {
		b.states[s].final = w
	}
}

// AddArc appends an outgoing arc to s. Arc order is preserved into the
// built automaton.
func (b *Builder) AddArc(s grammarfst.StateID, arc grammarfst.Arc) {
	if int(s) < len(b.states) {
		b.states[s].arcs = append(b.states[s].arcs, arc)
	}
}

// Build verifies structural sanity and returns the frozen automaton. The
// builder must not be reused afterwards.
func (b *Builder) Build() (*Automaton, error) {
	if len(b.states) == 0 {
		return nil, errors.Load("automaton has no states", nil)
	}
	if !b.hasStart {
		return nil, errors.Load("automaton has no start state", nil)
	}
	if int(b.start) >= len(b.states) {
		return nil, errors.New(errors.PhaseLoad, errors.KindOutOfRange).
			State(uint32(b.start)).Detail("start state out of range").Build()
	}
	n := len(b.states)
	for si := range b.states {
		for _, arc := range b.states[si].arcs {
			if int(arc.NextState) >= n {
				return nil, errors.New(errors.PhaseLoad, errors.KindOutOfRange).
					State(uint32(si)).Label(uint32(arc.ILabel)).
					Detail("arc targets state %d of %d", arc.NextState, n).Build()
			}
		}
	}
	a := &Automaton{states: b.states, start: b.start}
	b.states = nil
	return a, nil
}
