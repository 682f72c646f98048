package symbol

import "fmt"

// Nonterminal identifies a placeholder symbol at a stitch point. The three
// structural markers are shared by every component automaton; ids from
// UserBase upward name sub-grammars and map 1:1 to component automata.
type Nonterminal int32

const (
	// Begin guards the left-context entry fan at the start of every
	// non-top-level automaton.
	Begin Nonterminal = 1

	// End guards the left-context exit fan before returning to a caller.
	End Nonterminal = 2

	// Reenter guards the caller-side arcs consumed when a sub-grammar
	// returns.
	Reenter Nonterminal = 3

	// UserBase is the first id available for named sub-grammar references.
	UserBase Nonterminal = 4
)

// Structural reports whether n is one of the shared begin/end/reenter
// markers.
func (n Nonterminal) Structural() bool {
	return n >= Begin && n <= Reenter
}

// User reports whether n names a sub-grammar.
func (n Nonterminal) User() bool {
	return n >= UserBase
}

func (n Nonterminal) String() string {
	switch n {
	case Begin:
		return "#nonterm:begin"
	case End:
		return "#nonterm:end"
	case Reenter:
		return "#nonterm:reenter"
	}
	if n.User() {
		return fmt.Sprintf("#nonterm:%d", int32(n))
	}
	return fmt.Sprintf("#invalid-nonterm:%d", int32(n))
}
