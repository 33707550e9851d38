// Package csa defines the external CSA (compressed suffix array) contract
// that the CST navigator is built against (spec.md §4.3, §6), and provides
// Plain: an uncompressed reference implementation used by the CLI tools and
// tests when no compressed CSA is wired in.
//
// The CSA is explicitly out of scope for the CST-CN core: the core only ever
// calls through the CSA interface below.
package csa

// CSA is the external collaborator contract the CST navigator depends on.
// Ranks and positions are all in [0, N()).
type CSA interface {
	// N is the length of the indexed text, including its unique terminator.
	N() uint64
	// SA returns the suffix-array value at rank i: the starting position in
	// the text of the i-th lexicographically smallest suffix.
	SA(i uint64) uint64
	// Psi returns the rank of the suffix one position to the right in text
	// order of the suffix at rank i (i.e. ISA[(SA[i]+1) mod N]).
	Psi(i uint64) uint64
	// F returns the first character of the suffix at rank p (the F-column).
	F(p uint64) byte
	// Char2Comp maps a text character to its rank in the compacted alphabet,
	// or 0 if c is not the smallest character and does not occur in the text.
	Char2Comp(c byte) uint8
	// C returns the cumulative count of suffixes whose first character has a
	// compacted rank strictly less than cc; C has CompAlphabetSize()+1 valid
	// indices, with C[0] == 0.
	C(cc uint8) uint64
	// CompAlphabetSize is the number of distinct characters in the text.
	CompAlphabetSize() uint8
	// BackwardSearch extends the SA-interval [lb, rb] (matching some pattern
	// P) to the interval matching cP. ok is false when c never precedes any
	// suffix in [lb, rb] (the Weiner link does not exist).
	BackwardSearch(lb, rb uint64, c byte) (nlb, nrb uint64, ok bool)
	// CharPos returns the lexicographic rank of the suffix that starts d
	// characters to the right, in text order, of the suffix at rank i.
	CharPos(i, d uint64) uint64
}
