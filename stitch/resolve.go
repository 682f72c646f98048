package stitch

import (
	grammarfst "github.com/aurelab/grammarfst"
	"github.com/aurelab/grammarfst/errors"
	"github.com/aurelab/grammarfst/symbol"
)

// expand returns the memoized expansion of a stitch-point state, resolving
// it on first visit. Resolution is a pure function of (state, phone), so a
// lost race recomputes the same value and the first stored object wins.
func (s *Stitcher) expand(inst *instance, local grammarfst.StateID, phone grammarfst.PhoneID) (*ExpandedState, error) {
	key := expKey{state: local, phone: phone}
	if exp, ok := inst.cachedExpansion(key); ok {
		return exp, nil
	}
	exp, err := s.resolve(inst, local, phone)
	if err != nil {
		return nil, err
	}
	return inst.storeExpansion(key, exp), nil
}

// resolve materializes the arcs of one stitch-point state for one preceding
// left-context phone. The state's raw arcs all decode to the same
// nonterminal (the preparer guarantees it); the nonterminal kind selects
// the resolution mode.
func (s *Stitcher) resolve(inst *instance, local grammarfst.StateID, phone grammarfst.PhoneID) (*ExpandedState, error) {
	arcs := inst.auto.Arcs(local)
	if len(arcs) == 0 {
		return nil, errors.New(errors.PhaseResolve, errors.KindInvalidData).
			Instance(uint32(inst.id)).State(uint32(local)).
			Detail("stitch state has no arcs").Build()
	}
	nt, _, ok := s.enc.Decode(arcs[0].ILabel)
	if !ok {
		return nil, errors.New(errors.PhaseResolve, errors.KindBadLabel).
			Instance(uint32(inst.id)).State(uint32(local)).Label(uint32(arcs[0].ILabel)).
			Detail("stitch state carries an undecodable label").Build()
	}

	switch {
	case nt.User():
		return s.resolveInvoke(inst, local, arcs, nt, phone)
	case nt == symbol.End:
		return s.resolveReturn(inst, local, arcs, phone)
	case nt == symbol.Begin:
		return s.resolveEntry(inst, local, arcs)
	default:
		// A reentry fan is only ever consumed from inside the callee;
		// landing on it directly means the automaton was not prepared.
		return nil, errors.New(errors.PhaseResolve, errors.KindBadLabel).
			Instance(uint32(inst.id)).State(uint32(local)).Label(uint32(arcs[0].ILabel)).
			Detail("reentry fan enumerated directly").Build()
	}
}

// resolveInvoke handles entry into a named sub-grammar: the caller's
// invocation arc matching the preceding phone is combined with the callee's
// entry-fan arc for that same phone, cancelling the fan-out compensation.
func (s *Stitcher) resolveInvoke(inst *instance, local grammarfst.StateID, arcs []grammarfst.Arc, nt symbol.Nonterminal, phone grammarfst.PhoneID) (*ExpandedState, error) {
	if !s.ctx.Contains(phone) {
		return nil, errors.New(errors.PhaseResolve, errors.KindOutOfRange).
			Instance(uint32(inst.id)).State(uint32(local)).
			Detail("preceding phone %d is not a left-context phone", phone).Build()
	}

	exp := &ExpandedState{Final: grammarfst.NoFinal}
	for _, leaving := range arcs {
		ant, aphone, ok := s.enc.Decode(leaving.ILabel)
		if !ok || ant != nt {
			return nil, errors.New(errors.PhaseResolve, errors.KindMixedArcs).
				Instance(uint32(inst.id)).State(uint32(local)).Label(uint32(leaving.ILabel)).
				Detail("stitch state mixes nonterminals").Build()
		}
		if aphone != phone {
			continue
		}

		target := s.grammar(nt)
		if target == nil {
			return nil, errors.UnknownNonterminal(errors.PhaseResolve, int32(nt))
		}
		site := callSite{caller: inst.id, state: local, nonterm: nt}
		child, err := s.table.getOrActivate(site, target, leaving.NextState)
		if err != nil {
			return nil, err
		}

		// Pick the single entry-fan arc consistent with the actual
		// history; the other N-1 alternatives never materialize.
		entry := child.auto.Start()
		for _, arriving := range child.auto.Arcs(entry) {
			bnt, bphone, ok := s.enc.Decode(arriving.ILabel)
			if !ok || bnt != symbol.Begin {
				return nil, errors.New(errors.PhaseResolve, errors.KindBadLabel).
					Instance(uint32(child.id)).State(uint32(entry)).Label(uint32(arriving.ILabel)).
					Detail("sub-grammar start state is not an entry fan").Build()
			}
			if bphone != phone {
				continue
			}
			out, err := s.combineArcs(inst, local, leaving, arriving,
				grammarfst.JoinState(child.id, arriving.NextState))
			if err != nil {
				return nil, err
			}
			exp.Arcs = append(exp.Arcs, out)
		}
	}
	return exp, nil
}

// resolveReturn handles the exit fan of a sub-grammar: the callee's end arc
// matching the phone exposed to the caller is combined with the caller's
// reentry arc for that phone at the stored return state. With no caller
// (the automaton is being traversed standalone) the end arc resolves within
// the same instance.
func (s *Stitcher) resolveReturn(inst *instance, local grammarfst.StateID, arcs []grammarfst.Arc, phone grammarfst.PhoneID) (*ExpandedState, error) {
	exp := &ExpandedState{Final: grammarfst.NoFinal}
	logN := s.ctx.LogSize()

	for _, leaving := range arcs {
		ant, aphone, ok := s.enc.Decode(leaving.ILabel)
		if !ok || ant != symbol.End {
			return nil, errors.New(errors.PhaseResolve, errors.KindMixedArcs).
				Instance(uint32(inst.id)).State(uint32(local)).Label(uint32(leaving.ILabel)).
				Detail("exit fan mixes nonterminals").Build()
		}
		if aphone != phone {
			continue
		}

		if !inst.hasParent {
			exp.Arcs = append(exp.Arcs, grammarfst.CompositeArc{
				ILabel:    grammarfst.Epsilon,
				OLabel:    leaving.OLabel,
				Weight:    leaving.Weight - logN,
				NextState: grammarfst.JoinState(inst.id, leaving.NextState),
			})
			continue
		}

		parent := s.table.get(inst.parent)
		if parent == nil {
			return nil, errors.NotFound(errors.PhaseResolve, uint32(inst.parent), "parent instance vanished")
		}
		matched := false
		for _, arriving := range parent.auto.Arcs(inst.returnState) {
			rnt, rphone, ok := s.enc.Decode(arriving.ILabel)
			if !ok || rnt != symbol.Reenter {
				return nil, errors.New(errors.PhaseResolve, errors.KindBadLabel).
					Instance(uint32(parent.id)).State(uint32(inst.returnState)).Label(uint32(arriving.ILabel)).
					Detail("return state is not a reentry fan").Build()
			}
			if rphone != phone {
				continue
			}
			out, err := s.combineArcs(inst, local, leaving, arriving,
				grammarfst.JoinState(parent.id, arriving.NextState))
			if err != nil {
				return nil, err
			}
			exp.Arcs = append(exp.Arcs, out)
			matched = true
		}
		if !matched {
			return nil, errors.FanMismatch(errors.PhaseResolve, uint32(inst.returnState),
				"reentry fan has no arc for context phone %d", phone)
		}
	}
	return exp, nil
}

// resolveEntry handles an entry fan reached with no caller: only the
// top-level automaton can get here, and the actual context is the
// beginning-of-utterance unit regardless of the supplied phone.
func (s *Stitcher) resolveEntry(inst *instance, local grammarfst.StateID, arcs []grammarfst.Arc) (*ExpandedState, error) {
	bos := s.ctx.BOS()
	logN := s.ctx.LogSize()

	exp := &ExpandedState{Final: grammarfst.NoFinal}
	for _, arc := range arcs {
		ant, aphone, ok := s.enc.Decode(arc.ILabel)
		if !ok || ant != symbol.Begin {
			return nil, errors.New(errors.PhaseResolve, errors.KindMixedArcs).
				Instance(uint32(inst.id)).State(uint32(local)).Label(uint32(arc.ILabel)).
				Detail("entry fan mixes nonterminals").Build()
		}
		if aphone != bos {
			continue
		}
		exp.Arcs = append(exp.Arcs, grammarfst.CompositeArc{
			ILabel:    grammarfst.Epsilon,
			OLabel:    arc.OLabel,
			Weight:    arc.Weight - logN,
			NextState: grammarfst.JoinState(inst.id, arc.NextState),
		})
	}
	return exp, nil
}

// combineArcs fuses the arc leaving one side of a stitch with the arc
// arriving on the other side: the packed labels vanish, the surviving
// output label is whichever side carries one, the weights add, and log(N)
// cancels the compensation the compiler spread over the discarded
// alternatives.
func (s *Stitcher) combineArcs(inst *instance, local grammarfst.StateID, leaving, arriving grammarfst.Arc, next grammarfst.CompositeState) (grammarfst.CompositeArc, error) {
	olabel := leaving.OLabel
	if arriving.OLabel != grammarfst.Epsilon {
		if olabel != grammarfst.Epsilon {
			return grammarfst.CompositeArc{}, errors.New(errors.PhaseResolve, errors.KindInvalidData).
				Instance(uint32(inst.id)).State(uint32(local)).
				Detail("both sides of a stitch carry output labels").Build()
		}
		olabel = arriving.OLabel
	}
	return grammarfst.CompositeArc{
		ILabel:    grammarfst.Epsilon,
		OLabel:    olabel,
		Weight:    leaving.Weight + arriving.Weight - s.ctx.LogSize(),
		NextState: next,
	}, nil
}
