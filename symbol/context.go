package symbol

import (
	"math"

	grammarfst "github.com/aurelab/grammarfst"
	"github.com/aurelab/grammarfst/errors"
)

// ContextSet is the fixed set of left-context phones for one language
// configuration: every phone that can legally end a word, the optional
// silence unit, and the beginning-of-utterance unit.
type ContextSet struct {
	phones  []grammarfst.PhoneID
	members map[grammarfst.PhoneID]struct{}
	bos     grammarfst.PhoneID
	logN    grammarfst.Weight
}

// NewContextSet validates and freezes a left-context phone set. The
// beginning-of-utterance phone must be a member.
func NewContextSet(phones []grammarfst.PhoneID, bos grammarfst.PhoneID) (*ContextSet, error) {
	if len(phones) == 0 {
		return nil, errors.BadConfig("left-context phone set is empty")
	}
	members := make(map[grammarfst.PhoneID]struct{}, len(phones))
	for _, p := range phones {
		if p < 0 {
			return nil, errors.BadConfig("left-context phone %d is negative", p)
		}
		if _, dup := members[p]; dup {
			return nil, errors.BadConfig("left-context phone %d listed twice", p)
		}
		members[p] = struct{}{}
	}
	if _, ok := members[bos]; !ok {
		return nil, errors.BadConfig("beginning-of-utterance phone %d is not in the left-context set", bos)
	}
	cs := &ContextSet{
		phones:  append([]grammarfst.PhoneID(nil), phones...),
		members: members,
		bos:     bos,
		logN:    grammarfst.Weight(math.Log(float64(len(phones)))),
	}
	return cs, nil
}

// Size returns N, the cardinality of the set.
func (cs *ContextSet) Size() int {
	return len(cs.phones)
}

// Contains reports membership.
func (cs *ContextSet) Contains(p grammarfst.PhoneID) bool {
	_, ok := cs.members[p]
	return ok
}

// BOS returns the beginning-of-utterance phone, the context used when a
// stitch point has no true predecessor.
func (cs *ContextSet) BOS() grammarfst.PhoneID {
	return cs.bos
}

// LogSize returns log(N), the compile-time compensation added to every fan
// arc and cancelled during context resolution.
func (cs *ContextSet) LogSize() grammarfst.Weight {
	return cs.logN
}

// Phones returns a copy of the set in configuration order.
func (cs *ContextSet) Phones() []grammarfst.PhoneID {
	return append([]grammarfst.PhoneID(nil), cs.phones...)
}
