package symbol

import (
	"math"

	grammarfst "github.com/aurelab/grammarfst"
	"github.com/aurelab/grammarfst/errors"
)

// LabelBase is the first label value reserved for packed special pairs.
// Labels below it are ordinary transitions and pass through unchanged.
const LabelBase grammarfst.Label = 1_000_000

// Encoder packs and unpacks (nonterminal, phone) pairs into single labels.
// The multiple depends only on the configured nonterminal phones offset, so
// one Encoder is shared by all automata of a load.
type Encoder struct {
	mult uint32
}

// NewEncoder derives the encoding multiple from the nonterminal phones
// offset: the smallest multiple of 1000 strictly greater than the offset.
func NewEncoder(nontermPhonesOffset int32) (Encoder, error) {
	if nontermPhonesOffset < 0 {
		return Encoder{}, errors.BadConfig("nonterminal phones offset %d is negative", nontermPhonesOffset)
	}
	mult := (uint32(nontermPhonesOffset)/1000 + 1) * 1000
	if uint64(mult) >= uint64(LabelBase) {
		return Encoder{}, errors.BadConfig("nonterminal phones offset %d leaves no room below the label base", nontermPhonesOffset)
	}
	return Encoder{mult: mult}, nil
}

// Multiple returns the derived encoding multiple.
func (e Encoder) Multiple() uint32 {
	return e.mult
}

// IsSpecial reports whether label carries a packed (nonterminal, phone)
// pair rather than an ordinary transition.
func (e Encoder) IsSpecial(label grammarfst.Label) bool {
	return label >= LabelBase
}

// Encode packs a nonterminal and a left-context phone into a label.
func (e Encoder) Encode(nt Nonterminal, phone grammarfst.PhoneID) (grammarfst.Label, error) {
	if nt < Begin {
		return 0, errors.New(errors.PhaseConfig, errors.KindOutOfRange).
			Detail("nonterminal %d is not encodable", int32(nt)).Build()
	}
	if phone < 0 || uint32(phone) >= e.mult {
		return 0, errors.New(errors.PhaseConfig, errors.KindOutOfRange).
			Detail("phone %d outside encoding multiple %d", int32(phone), e.mult).Build()
	}
	packed := uint64(LabelBase) + uint64(e.mult)*uint64(nt) + uint64(phone)
	if packed > math.MaxUint32 {
		return 0, errors.New(errors.PhaseConfig, errors.KindOutOfRange).
			Detail("nonterminal %d overflows the label space", int32(nt)).Build()
	}
	return grammarfst.Label(packed), nil
}

// Decode recovers the (nonterminal, phone) pair from a special label.
// The second return is false when label is below the special range or the
// quotient does not name a valid nonterminal.
func (e Encoder) Decode(label grammarfst.Label) (Nonterminal, grammarfst.PhoneID, bool) {
	if label < LabelBase {
		return 0, grammarfst.NoPhone, false
	}
	rem := uint32(label - LabelBase)
	nt := Nonterminal(rem / e.mult)
	phone := grammarfst.PhoneID(rem % e.mult)
	if nt < Begin {
		return 0, grammarfst.NoPhone, false
	}
	return nt, phone, true
}
