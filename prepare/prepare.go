package prepare

import (
	grammarfst "github.com/aurelab/grammarfst"
	"github.com/aurelab/grammarfst/errors"
	"github.com/aurelab/grammarfst/fst"
	"github.com/aurelab/grammarfst/symbol"
)

// Prepared wraps an automaton that has passed the structural transform and
// may be registered with the stitching engine.
type Prepared struct {
	auto     *fst.Automaton
	entryFan bool
}

// Automaton returns the transformed automaton.
func (p *Prepared) Automaton() *fst.Automaton {
	return p.auto
}

// HasEntryFan reports whether the automaton begins with a left-context
// entry fan, which every sub-grammar must and the top-level graph may not.
func (p *Prepared) HasEntryFan() bool {
	return p.entryFan
}

type mutState struct {
	arcs  []grammarfst.Arc
	final grammarfst.Weight
}

// arcGroup collects the arcs of one state that decode to the same
// nonterminal.
type arcGroup struct {
	nonterm symbol.Nonterminal
	arcs    []grammarfst.Arc
}

// Prepare transforms a raw component automaton so that every state whose
// arcs need context resolution or instance dispatch is marked with the
// sentinel final cost and carries arcs of exactly one kind, targeting at
// most one destination grammar. It fails with a structural error rather
// than produce an automaton the engine could misread.
func Prepare(a *fst.Automaton, enc symbol.Encoder, ctx *symbol.ContextSet) (*Prepared, error) {
	if a == nil {
		return nil, errors.New(errors.PhasePrepare, errors.KindInvalidData).
			Detail("nil automaton").Build()
	}

	n := a.NumStates()
	states := make([]mutState, n)
	for s := 0; s < n; s++ {
		sid := grammarfst.StateID(s)
		final := a.Final(sid)
		if grammarfst.IsSpecialFinal(final) {
			// A genuine final cost equal to the sentinel would be
			// misclassified as a stitch state at runtime.
			return nil, errors.SentinelCollision(uint32(s))
		}
		raw := a.Arcs(sid)
		states[s] = mutState{
			arcs:  append([]grammarfst.Arc(nil), raw...),
			final: final,
		}
	}

	start := a.Start()
	entryFan := false

	for s := 0; s < n; s++ {
		sid := grammarfst.StateID(s)
		ordinary, groups, err := partitionArcs(sid, states[s].arcs, enc, ctx)
		if err != nil {
			return nil, err
		}
		if len(groups) == 0 {
			continue
		}

		hasBegin := false
		for _, g := range groups {
			if g.nonterm == symbol.Begin {
				hasBegin = true
			}
		}

		if hasBegin {
			// The entry fan is consumed from the caller side; it must sit
			// alone on the start state, covering the whole context set.
			if sid != start {
				return nil, errors.New(errors.PhasePrepare, errors.KindInvalidData).
					State(uint32(s)).Detail("entry fan outside the start state").Build()
			}
			if len(groups) > 1 || len(ordinary) > 0 || grammarfst.IsFinal(states[s].final) {
				return nil, errors.FanMismatch(errors.PhasePrepare, uint32(s),
					"start state mixes the entry fan with other arcs")
			}
			if err := verifyFan(sid, groups[0], enc, ctx); err != nil {
				return nil, err
			}
			states[s].final = grammarfst.SpecialFinal
			entryFan = true
			continue
		}

		if len(groups) == 1 && len(ordinary) == 0 && !grammarfst.IsFinal(states[s].final) {
			// Already pure: mark in place.
			if err := verifyGroup(sid, groups[0], enc, ctx); err != nil {
				return nil, err
			}
			states[s].final = grammarfst.SpecialFinal
			continue
		}

		// Mixed state: keep the ordinary arcs and finality here, move each
		// nonterminal group behind an epsilon-labeled intermediate so no
		// state carries arcs of more than one kind.
		states[s].arcs = ordinary
		for _, g := range groups {
			gs := grammarfst.StateID(len(states))
			if err := verifyGroup(gs, g, enc, ctx); err != nil {
				return nil, err
			}
			states = append(states, mutState{
				arcs:  g.arcs,
				final: grammarfst.SpecialFinal,
			})
			states[s].arcs = append(states[s].arcs, grammarfst.Arc{
				ILabel:    grammarfst.Epsilon,
				OLabel:    grammarfst.Epsilon,
				Weight:    0,
				NextState: gs,
			})
		}
	}

	b := fst.NewBuilder()
	for range states {
		b.AddState()
	}
	b.SetStart(start)
	for s := range states {
		sid := grammarfst.StateID(s)
		b.SetFinal(sid, states[s].final)
		for _, arc := range states[s].arcs {
			b.AddArc(sid, arc)
		}
	}
	out, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &Prepared{auto: out, entryFan: entryFan}, nil
}

// partitionArcs splits a state's arcs into ordinary transitions and
// per-nonterminal special groups, preserving arc order within each bucket.
func partitionArcs(s grammarfst.StateID, arcs []grammarfst.Arc, enc symbol.Encoder, ctx *symbol.ContextSet) ([]grammarfst.Arc, []arcGroup, error) {
	var ordinary []grammarfst.Arc
	var groups []arcGroup

	for _, arc := range arcs {
		if !enc.IsSpecial(arc.ILabel) {
			ordinary = append(ordinary, arc)
			continue
		}
		nt, phone, ok := enc.Decode(arc.ILabel)
		if !ok {
			return nil, nil, errors.BadLabel(errors.PhasePrepare, uint32(s), uint32(arc.ILabel),
				"label in the special range does not decode")
		}
		if !ctx.Contains(phone) {
			return nil, nil, errors.BadLabel(errors.PhasePrepare, uint32(s), uint32(arc.ILabel),
				"context phone is not in the left-context set")
		}
		found := false
		for gi := range groups {
			if groups[gi].nonterm == nt {
				groups[gi].arcs = append(groups[gi].arcs, arc)
				found = true
				break
			}
		}
		if !found {
			groups = append(groups, arcGroup{nonterm: nt, arcs: []grammarfst.Arc{arc}})
		}
	}
	return ordinary, groups, nil
}

// verifyGroup checks the invariants of one special group placed on its own
// state.
func verifyGroup(s grammarfst.StateID, g arcGroup, enc symbol.Encoder, ctx *symbol.ContextSet) error {
	switch g.nonterm {
	case symbol.End, symbol.Reenter:
		// Exit and reentry fans mirror the entry fan: one arc per
		// left-context phone.
		return verifyFan(s, g, enc, ctx)
	case symbol.Begin:
		return errors.New(errors.PhasePrepare, errors.KindInvalidData).
			State(uint32(s)).Detail("entry fan outside the start state").Build()
	}
	// Named sub-grammar invocation: every arc must return to the same
	// caller state, since the engine stores a single reentry point per
	// activation.
	ret := g.arcs[0].NextState
	for _, arc := range g.arcs[1:] {
		if arc.NextState != ret {
			return errors.New(errors.PhasePrepare, errors.KindReentryConflict).
				State(uint32(s)).
				Detail("invocation arcs of %v disagree on the return state (%d vs %d)",
					g.nonterm, ret, arc.NextState).Build()
		}
	}
	return nil
}

// verifyFan checks that a structural fan covers the configured left-context
// set exactly: one arc per phone, no duplicates, no strays. Membership was
// already checked arc by arc in partitionArcs, so set equality reduces to a
// distinctness count.
func verifyFan(s grammarfst.StateID, g arcGroup, enc symbol.Encoder, ctx *symbol.ContextSet) error {
	if len(g.arcs) != ctx.Size() {
		return errors.FanMismatch(errors.PhasePrepare, uint32(s),
			"%v fan has %d arcs, left-context set has %d phones",
			g.nonterm, len(g.arcs), ctx.Size())
	}
	seen := make(map[grammarfst.PhoneID]struct{}, len(g.arcs))
	for _, arc := range g.arcs {
		_, phone, ok := enc.Decode(arc.ILabel)
		if !ok {
			return errors.BadLabel(errors.PhasePrepare, uint32(s), uint32(arc.ILabel),
				"label in the special range does not decode")
		}
		if _, dup := seen[phone]; dup {
			return errors.FanMismatch(errors.PhasePrepare, uint32(s),
				"%v fan repeats context phone %d", g.nonterm, phone)
		}
		seen[phone] = struct{}{}
	}
	return nil
}
