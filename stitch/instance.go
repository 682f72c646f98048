package stitch

import (
	"math"
	"sync"

	grammarfst "github.com/aurelab/grammarfst"
	"github.com/aurelab/grammarfst/errors"
	"github.com/aurelab/grammarfst/fst"
	"github.com/aurelab/grammarfst/symbol"
	"go.uber.org/zap"
)

// callSite identifies the point a sub-grammar was invoked from. Revisiting
// the same call site yields the same instance; distinct call sites,
// including recursive re-invocations, yield distinct instances.
type callSite struct {
	caller  grammarfst.InstanceID
	state   grammarfst.StateID
	nonterm symbol.Nonterminal
}

// expKey addresses one memoized expansion: a local special state paired
// with the preceding left-context phone.
type expKey struct {
	state grammarfst.StateID
	phone grammarfst.PhoneID
}

// ExpandedState is the memoized resolution of one stitch point. Arcs is
// ordered and fully resolved; Final is grammarfst.NoFinal unless the
// resolution proved the composite state genuinely terminal.
type ExpandedState struct {
	Arcs  []grammarfst.CompositeArc
	Final grammarfst.Weight
}

// instance is one activation of a component automaton. The expansion cache
// is per instance, which shards lock contention across the composite graph.
type instance struct {
	auto        *fst.Automaton
	expansions  map[expKey]*ExpandedState
	id          grammarfst.InstanceID
	nonterm     symbol.Nonterminal
	parent      grammarfst.InstanceID
	returnState grammarfst.StateID
	hasParent   bool
	mu          sync.RWMutex
}

// instanceTable owns every activation. Instance 0 is created eagerly for
// the top-level automaton; all others are born through getOrActivate,
// exactly once per distinct call site ever traversed. Nothing is reclaimed
// within the table's lifetime.
type instanceTable struct {
	sites     map[callSite]grammarfst.InstanceID
	instances []*instance
	mu        sync.RWMutex
}

func newInstanceTable(top *fst.Automaton) *instanceTable {
	root := &instance{
		auto:       top,
		expansions: make(map[expKey]*ExpandedState),
	}
	return &instanceTable{
		sites:     make(map[callSite]grammarfst.InstanceID),
		instances: []*instance{root},
	}
}

// get returns the activation with the given id, or nil.
func (t *instanceTable) get(id grammarfst.InstanceID) *instance {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(id) >= len(t.instances) {
		return nil
	}
	return t.instances[id]
}

// getOrActivate returns the memoized instance for site, activating auto as
// a fresh instance on first visit. returnState records where control
// reenters the caller when the sub-grammar exits.
func (t *instanceTable) getOrActivate(site callSite, auto *fst.Automaton, returnState grammarfst.StateID) (*instance, error) {
	t.mu.RLock()
	if id, ok := t.sites[site]; ok {
		inst := t.instances[id]
		t.mu.RUnlock()
		return inst, nil
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.sites[site]; ok {
		// Lost the race; the winner's activation is the one everyone sees.
		return t.instances[id], nil
	}
	if len(t.instances) > math.MaxUint32 {
		return nil, errors.New(errors.PhaseResolve, errors.KindOutOfRange).
			Detail("instance id space exhausted").Build()
	}
	inst := &instance{
		auto:        auto,
		expansions:  make(map[expKey]*ExpandedState),
		id:          grammarfst.InstanceID(len(t.instances)),
		nonterm:     site.nonterm,
		parent:      site.caller,
		returnState: returnState,
		hasParent:   true,
	}
	t.sites[site] = inst.id
	t.instances = append(t.instances, inst)

	Logger().Debug("activated grammar instance",
		zap.Uint32("instance", uint32(inst.id)),
		zap.Int32("nonterminal", int32(site.nonterm)),
		zap.Uint32("caller_instance", uint32(site.caller)),
		zap.Uint32("caller_state", uint32(site.state)))

	return inst, nil
}

// size returns the number of live activations.
func (t *instanceTable) size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.instances)
}

// expansionCount sums the cached expansions across all activations.
func (t *instanceTable) expansionCount() int {
	t.mu.RLock()
	insts := t.instances
	t.mu.RUnlock()

	total := 0
	for _, inst := range insts {
		inst.mu.RLock()
		total += len(inst.expansions)
		inst.mu.RUnlock()
	}
	return total
}

// cachedExpansion returns the memoized expansion for key, if present.
func (in *instance) cachedExpansion(key expKey) (*ExpandedState, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	exp, ok := in.expansions[key]
	return exp, ok
}

// storeExpansion memoizes exp for key. If a racing writer got there first,
// the first stored value wins and is returned, so every reader of a given
// key observes one identical object.
func (in *instance) storeExpansion(key expKey, exp *ExpandedState) *ExpandedState {
	in.mu.Lock()
	defer in.mu.Unlock()
	if prior, ok := in.expansions[key]; ok {
		return prior
	}
	in.expansions[key] = exp
	return exp
}
