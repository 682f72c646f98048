package grammarfst

import "math"

// Label is a transition label on an automaton arc. Labels below the special
// range (see symbol.LabelBase) are ordinary phones or disambiguation symbols
// and pass through the engine untouched.
type Label uint32

// Epsilon is the empty transition label.
const Epsilon Label = 0

// PhoneID identifies an atomic phonetic context unit.
type PhoneID int32

// NoPhone marks an absent or unknown context phone.
const NoPhone PhoneID = -1

// StateID is a state index local to one component automaton.
type StateID uint32

// NoState marks an absent state.
const NoState StateID = math.MaxUint32

// InstanceID identifies one activation of a component automaton within the
// composite graph. Instance 0 is always the top-level automaton.
type InstanceID uint32

// Weight is a cost in the log semiring. Lower is better; +Inf means
// "not final" when used as a final cost.
type Weight float32

// NoFinal is the final cost of a non-final state.
var NoFinal = Weight(math.Inf(1))

// SpecialFinal is the sentinel final cost marking a state whose arcs need
// context resolution or instance dispatch. It is chosen to be unreachable by
// any legitimately computed final cost; preparation fails if a genuine final
// cost collides with it.
const SpecialFinal Weight = 4096.0

// IsSpecialFinal reports whether w is the special-state sentinel. The test
// is exact floating-point equality; the encoding is confined to this
// predicate so call sites need not know the constant.
func IsSpecialFinal(w Weight) bool {
	return w == SpecialFinal
}

// IsFinal reports whether w represents a genuinely final state.
func IsFinal(w Weight) bool {
	return !math.IsInf(float64(w), 1) && !IsSpecialFinal(w)
}

// Arc is one transition of a component automaton, local to its instance.
type Arc struct {
	ILabel    Label
	OLabel    Label
	Weight    Weight
	NextState StateID
}

// CompositeState addresses a state of the stitched-together automaton:
// instance id in the high 32 bits, local state id in the low 32 bits.
// The packing is explicit; never rely on integer truncation to split it.
type CompositeState uint64

// JoinState packs an instance id and a local state id into a composite
// state id.
func JoinState(inst InstanceID, local StateID) CompositeState {
	return CompositeState(uint64(inst)<<32 | uint64(local))
}

// Instance returns the instance half of the composite state id.
func (cs CompositeState) Instance() InstanceID {
	return InstanceID(cs >> 32)
}

// Local returns the local state half of the composite state id.
func (cs CompositeState) Local() StateID {
	return StateID(cs & 0xffffffff)
}

// CompositeArc is a fully resolved transition of the composite automaton.
// Its labels and weight need no further interpretation by the consumer.
type CompositeArc struct {
	ILabel    Label
	OLabel    Label
	Weight    Weight
	NextState CompositeState
}
