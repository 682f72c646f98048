// Package symbol defines the special-label encoding shared by every
// producer and consumer of compiled grammar automata.
//
// Ordinary transition labels are small integers. A label at or above
// LabelBase packs a (nonterminal, left-context phone) pair:
//
//	label = LabelBase + multiple*nonterminal + phone
//
// where multiple is the smallest multiple of 1000 strictly greater than the
// configured nonterminal phones offset. The packing is exact and
// invertible; Encoder.Decode recovers both components or reports failure.
package symbol
