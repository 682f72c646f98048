package stitch

import (
	grammarfst "github.com/aurelab/grammarfst"
	"github.com/aurelab/grammarfst/errors"
	"github.com/aurelab/grammarfst/fst"
	"github.com/aurelab/grammarfst/prepare"
	"github.com/aurelab/grammarfst/symbol"
	"go.uber.org/zap"
)

// Options carries the load-time language configuration the engine needs to
// decode stitch-point labels and resolve left context.
type Options struct {
	// ContextPhones is the fixed left-context phone set of size N.
	ContextPhones []grammarfst.PhoneID

	// BOSPhone is the beginning-of-utterance context unit, used when a
	// stitch point has no true predecessor. Must be a member of
	// ContextPhones.
	BOSPhone grammarfst.PhoneID

	// NontermPhonesOffset determines the label packing multiple shared
	// with the compilation pipeline.
	NontermPhonesOffset int32
}

// Stitcher presents the top-level automaton and its sub-grammars as a
// single composite automaton, expanding stitch points lazily. Safe for
// concurrent use.
type Stitcher struct {
	enc      symbol.Encoder
	ctx      *symbol.ContextSet
	grammars map[symbol.Nonterminal]*prepare.Prepared
	table    *instanceTable
	topStart grammarfst.StateID
}

// Stats reports the monotonically growing cache footprint of an engine.
type Stats struct {
	Instances  int // activations, including the top level
	Expansions int // memoized stitch-point resolutions
}

// New builds an engine over a prepared top-level automaton and the map from
// named nonterminal to the prepared sub-grammar implementing it. Instance 0
// (the top level) is activated eagerly; everything else waits for traversal.
func New(opts Options, top *prepare.Prepared, grammars map[symbol.Nonterminal]*prepare.Prepared) (*Stitcher, error) {
	if top == nil {
		return nil, errors.BadConfig("no top-level automaton")
	}
	enc, err := symbol.NewEncoder(opts.NontermPhonesOffset)
	if err != nil {
		return nil, err
	}
	ctx, err := symbol.NewContextSet(opts.ContextPhones, opts.BOSPhone)
	if err != nil {
		return nil, err
	}

	byNonterm := make(map[symbol.Nonterminal]*prepare.Prepared, len(grammars))
	for nt, g := range grammars {
		if !nt.User() {
			return nil, errors.BadConfig("nonterminal %d is reserved and cannot name a sub-grammar", int32(nt))
		}
		if g == nil {
			return nil, errors.BadConfig("nonterminal %v maps to a nil automaton", nt)
		}
		if !g.HasEntryFan() {
			return nil, errors.NotPrepared(errors.PhaseConfig,
				"sub-grammar %v lacks a left-context entry fan", nt)
		}
		byNonterm[nt] = g
	}

	s := &Stitcher{
		enc:      enc,
		ctx:      ctx,
		grammars: byNonterm,
		table:    newInstanceTable(top.Automaton()),
		topStart: top.Automaton().Start(),
	}

	Logger().Info("stitching engine ready",
		zap.Int("context_phones", ctx.Size()),
		zap.Int("sub_grammars", len(byNonterm)),
		zap.Uint32("encoding_multiple", enc.Multiple()))

	return s, nil
}

// Start returns the composite start state: instance 0, the top-level
// automaton's start.
func (s *Stitcher) Start() grammarfst.CompositeState {
	return grammarfst.JoinState(0, s.topStart)
}

// ContextSet exposes the configured left-context phone set.
func (s *Stitcher) ContextSet() *symbol.ContextSet {
	return s.ctx
}

// Final reports the final cost of a composite state. Stitch-point states
// are never reported final; genuine terminality only occurs at ordinary
// states of the top-level automaton.
func (s *Stitcher) Final(cs grammarfst.CompositeState) (grammarfst.Weight, error) {
	inst := s.table.get(cs.Instance())
	if inst == nil {
		return grammarfst.NoFinal, errors.NotFound(errors.PhaseTraverse,
			uint32(cs.Instance()), "unknown instance")
	}
	w := inst.auto.Final(cs.Local())
	if grammarfst.IsSpecialFinal(w) {
		return grammarfst.NoFinal, nil
	}
	return w, nil
}

// Arcs enumerates the outgoing composite arcs of cs into a fresh slice,
// resolving context against the supplied preceding phone. Search consumers
// on the hot path should use a Cursor instead, which avoids the allocation
// for ordinary states.
func (s *Stitcher) Arcs(cs grammarfst.CompositeState, phone grammarfst.PhoneID) ([]grammarfst.CompositeArc, error) {
	var cur Cursor
	if err := cur.Reset(s, cs, phone); err != nil {
		return nil, err
	}
	out := make([]grammarfst.CompositeArc, 0, cur.Len())
	for cur.Next() {
		out = append(out, cur.Arc())
	}
	return out, nil
}

// Stats returns the current cache footprint. Growth is monotonic; bounding
// it is the consumer's concern (one engine per decode session).
func (s *Stitcher) Stats() Stats {
	return Stats{
		Instances:  s.table.size(),
		Expansions: s.table.expansionCount(),
	}
}

// grammar returns the automaton implementing nt, or nil.
func (s *Stitcher) grammar(nt symbol.Nonterminal) *fst.Automaton {
	g, ok := s.grammars[nt]
	if !ok {
		return nil
	}
	return g.Automaton()
}
