package csa

import (
	"encoding/binary"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/rcanovas/cst-cn/internal/sa"
)

// terminator is appended to every text indexed by Plain. It must not occur
// elsewhere in the text and sorts before every other byte.
const terminator byte = 0x00

// Plain is an uncompressed, in-memory reference CSA: the text, SA, ISA and
// backward-search rank tables are held as plain slices, and Psi and the
// F-column are computed from them on each call.
// It exists so the CST-CN core (and its CLI harnesses) has something
// concrete to run against; a production deployment would substitute a real
// compressed CSA behind the same interface.
type Plain struct {
	text []byte
	sa   []uint64
	isa  []uint64

	char2comp [256]uint8
	comp2char []byte
	c         []uint64 // cumulative counts, len = sigma+1

	// bwtRank[cc][i] = number of occurrences of comp-char cc in BWT[0:i].
	bwtRank [][]uint32
}

var _ CSA = (*Plain)(nil)

// New builds a Plain CSA over text, appending the terminator. text must not
// already contain the terminator byte.
func New(text []byte) (*Plain, error) {
	for _, c := range text {
		if c == terminator {
			return nil, errors.New("text already contains the reserved terminator byte")
		}
	}
	full := make([]byte, len(text)+1)
	copy(full, text)
	full[len(text)] = terminator

	p := &Plain{text: full}
	p.sa = sa.Build(full)
	p.isa = make([]uint64, len(p.sa))
	for i, v := range p.sa {
		p.isa[v] = uint64(i)
	}
	p.buildAlphabet()
	p.buildBWTRanks()
	return p, nil
}

func (p *Plain) buildAlphabet() {
	var present [256]bool
	for _, c := range p.text {
		present[c] = true
	}
	for c := 0; c < 256; c++ {
		if present[c] {
			p.comp2char = append(p.comp2char, byte(c))
		}
	}
	sort.Slice(p.comp2char, func(i, j int) bool { return p.comp2char[i] < p.comp2char[j] })
	for cc, c := range p.comp2char {
		p.char2comp[c] = uint8(cc)
	}
	counts := make([]uint64, len(p.comp2char))
	for _, c := range p.text {
		counts[p.char2comp[c]]++
	}
	p.c = make([]uint64, len(p.comp2char)+1)
	for cc, cnt := range counts {
		p.c[cc+1] = p.c[cc] + cnt
	}
}

// bwt returns the Burrows-Wheeler transform character at SA rank i: the
// character preceding SA[i] in the text, wrapping at the terminator.
func (p *Plain) bwt(i uint64) byte {
	n := uint64(len(p.text))
	pos := (p.sa[i] + n - 1) % n
	return p.text[pos]
}

func (p *Plain) buildBWTRanks() {
	n := len(p.text)
	sigma := len(p.comp2char)
	p.bwtRank = make([][]uint32, sigma)
	for cc := range p.bwtRank {
		p.bwtRank[cc] = make([]uint32, n+1)
	}
	for i := 0; i < n; i++ {
		cc := p.char2comp[p.bwt(uint64(i))]
		for c := range p.bwtRank {
			p.bwtRank[c][i+1] = p.bwtRank[c][i]
		}
		p.bwtRank[cc][i+1]++
	}
}

func (p *Plain) N() uint64 { return uint64(len(p.text)) }

func (p *Plain) SA(i uint64) uint64 { return p.sa[i] }

func (p *Plain) Psi(i uint64) uint64 {
	n := p.N()
	return p.isa[(p.sa[i]+1)%n]
}

func (p *Plain) F(pos uint64) byte { return p.text[p.sa[pos]] }

func (p *Plain) Char2Comp(c byte) uint8 { return p.char2comp[c] }

func (p *Plain) C(cc uint8) uint64 { return p.c[cc] }

func (p *Plain) CompAlphabetSize() uint8 { return uint8(len(p.comp2char)) }

func (p *Plain) BackwardSearch(lb, rb uint64, c byte) (uint64, uint64, bool) {
	cc, known := p.compOf(c)
	if !known {
		return 0, 0, false
	}
	rank := p.bwtRank[cc]
	nlb := p.c[cc] + uint64(rank[lb])
	nrb := p.c[cc] + uint64(rank[rb+1]) - 1
	if nlb > nrb {
		return 0, 0, false
	}
	return nlb, nrb, true
}

func (p *Plain) compOf(c byte) (uint8, bool) {
	cc := p.char2comp[c]
	if int(cc) >= len(p.comp2char) || p.comp2char[cc] != c {
		return 0, false
	}
	return cc, true
}

func (p *Plain) CharPos(i, d uint64) uint64 {
	for k := uint64(0); k < d; k++ {
		i = p.Psi(i)
	}
	return i
}

// Locate returns, in lexicographic-rank order, the lexicographic rank range
// [lo, hi) of suffixes that start with pattern. It is not part of the CST-CN
// CSA contract; it is a pattern-search convenience on the reference CSA and
// is not called by the CLI tools.
func (p *Plain) Locate(pattern []byte) (lo, hi uint64) {
	n := uint64(len(p.text))
	lo = uint64(sort.Search(int(n), func(i int) bool {
		return comparePrefix(p.suffix(uint64(i)), pattern) >= 0
	}))
	hi = lo + uint64(sort.Search(int(n-lo), func(i int) bool {
		return comparePrefix(p.suffix(lo+uint64(i)), pattern) > 0
	}))
	return lo, hi
}

func (p *Plain) suffix(rank uint64) []byte {
	return p.text[p.sa[rank]:]
}

// comparePrefix compares a suffix with a prefix lexicographically, the same
// way nkamenev-suffixarr's single-text lookup does for []int32 text.
func comparePrefix(suf, prefix []byte) int {
	minLen := len(suf)
	if minLen > len(prefix) {
		minLen = len(prefix)
	}
	for i := 0; i < minLen; i++ {
		if suf[i] < prefix[i] {
			return -1
		}
		if suf[i] > prefix[i] {
			return 1
		}
	}
	if len(suf) < len(prefix) {
		return -1
	}
	return 0
}

// WriteTo serializes the Plain CSA as: text length, text bytes, then the SA
// values (8 bytes each, little-endian). Psi/F/C/BWT-rank tables are
// recomputed on load rather than stored.
func (p *Plain) WriteTo(w io.Writer) (int64, error) {
	var written int64
	n := uint64(len(p.text))
	if err := binary.Write(w, binary.LittleEndian, n); err != nil {
		return written, errors.Wrap(err, "writing csa text length")
	}
	written += 8
	if _, err := w.Write(p.text); err != nil {
		return written, errors.Wrap(err, "writing csa text")
	}
	written += int64(len(p.text))
	if err := binary.Write(w, binary.LittleEndian, p.sa); err != nil {
		return written, errors.Wrap(err, "writing csa suffix array")
	}
	written += int64(len(p.sa)) * 8
	return written, nil
}

// ReadFrom deserializes a Plain CSA previously written by WriteTo.
func ReadFrom(r io.Reader) (*Plain, error) {
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, errors.Wrap(err, "reading csa text length")
	}
	text := make([]byte, n)
	if _, err := io.ReadFull(r, text); err != nil {
		return nil, errors.Wrap(err, "reading csa text")
	}
	saVals := make([]uint64, n)
	if err := binary.Read(r, binary.LittleEndian, saVals); err != nil {
		return nil, errors.Wrap(err, "reading csa suffix array")
	}
	p := &Plain{text: text, sa: saVals, isa: make([]uint64, n)}
	for i, v := range saVals {
		p.isa[v] = uint64(i)
	}
	p.buildAlphabet()
	p.buildBWTRanks()
	return p, nil
}
