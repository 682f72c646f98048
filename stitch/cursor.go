package stitch

import (
	grammarfst "github.com/aurelab/grammarfst"
	"github.com/aurelab/grammarfst/errors"
)

// Cursor enumerates the outgoing composite arcs of one state. Reset
// dispatches on the sentinel final cost: ordinary states iterate the
// component automaton's raw arc storage directly, with no allocation
// beyond the cursor itself; stitch-point states iterate the memoized
// expansion. A Cursor may be reused across states and is not safe for
// concurrent use.
type Cursor struct {
	raw   []grammarfst.Arc
	exp   *ExpandedState
	inst  grammarfst.InstanceID
	final grammarfst.Weight
	i     int
}

// Reset positions the cursor on cs. For states that turn out to be stitch
// points, phone must be the left-context phone of the search hypothesis's
// path history; for ordinary states it is ignored.
func (c *Cursor) Reset(s *Stitcher, cs grammarfst.CompositeState, phone grammarfst.PhoneID) error {
	inst := s.table.get(cs.Instance())
	if inst == nil {
		return errors.NotFound(errors.PhaseTraverse, uint32(cs.Instance()), "unknown instance")
	}
	local := cs.Local()
	if int(local) >= inst.auto.NumStates() {
		return errors.New(errors.PhaseTraverse, errors.KindOutOfRange).
			Instance(uint32(cs.Instance())).State(uint32(local)).
			Detail("state beyond automaton").Build()
	}

	final := inst.auto.Final(local)
	if !grammarfst.IsSpecialFinal(final) {
		// Fast path: raw arcs, composite next states formed by pairing the
		// unchanged instance id with each local next state.
		c.raw = inst.auto.Arcs(local)
		c.exp = nil
		c.final = final
		c.inst = cs.Instance()
		c.i = -1
		return nil
	}

	exp, err := s.expand(inst, local, phone)
	if err != nil {
		return err
	}
	c.raw = nil
	c.exp = exp
	c.final = exp.Final
	c.inst = cs.Instance()
	c.i = -1
	return nil
}

// Next advances to the following arc, reporting false when exhausted.
func (c *Cursor) Next() bool {
	c.i++
	if c.exp != nil {
		return c.i < len(c.exp.Arcs)
	}
	return c.i < len(c.raw)
}

// Arc returns the arc the cursor is positioned on. Valid only after a true
// Next.
func (c *Cursor) Arc() grammarfst.CompositeArc {
	if c.exp != nil {
		return c.exp.Arcs[c.i]
	}
	a := c.raw[c.i]
	return grammarfst.CompositeArc{
		ILabel:    a.ILabel,
		OLabel:    a.OLabel,
		Weight:    a.Weight,
		NextState: grammarfst.JoinState(c.inst, a.NextState),
	}
}

// Len returns the number of arcs the cursor will yield.
func (c *Cursor) Len() int {
	if c.exp != nil {
		return len(c.exp.Arcs)
	}
	return len(c.raw)
}

// Final returns the state's final cost: the raw cost for ordinary states,
// not-final for stitch points unless resolution proved genuine
// terminality.
func (c *Cursor) Final() grammarfst.Weight {
	return c.final
}
