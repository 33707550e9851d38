// Package npr implements the NPR (next-smaller-value / previous-smaller-value
// / range-minimum-query) support structure over a read-only LCP array: the
// hierarchical block-minima index described in spec.md §4.1, in its two
// variants, CN and CNR.
//
// Ported from original_source/include/npr_support_cn.h and
// npr_support_cnr.h (Canovas & Navarro, "Practical Compressed Suffix Trees",
// SEA 2010). The shared NSV/PSV/RMQ recursion lives in ops.go behind the
// leveled interface; this file builds and serializes the CN variant, whose
// levels are all aggregated with the same block size.
package npr

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/rcanovas/cst-cn/internal/bitvec"
	"github.com/rcanovas/cst-cn/internal/lcp"
)

// Index is the NSV/PSV/RMQ contract shared by CN and CNR.
type Index interface {
	SetLCP(l lcp.LCP)
	FwdNSV(i, d uint64) (pos, value uint64)
	BwdPSV(i, d uint64) (pos, value uint64)
	NSV(i uint64) (pos, value uint64)
	PSV(i uint64) (pos, value uint64)
	RMQ(i, j uint64) (pos, value uint64)
	WriteTo(w io.Writer) (int64, error)
}

// CN is the uniform k-ary block-minima tree: every level, including level 0,
// is built with the same block size.
type CN struct {
	blockSizeVal uint8
	lcpArr    lcp.LCP
	minArray  []*bitvec.Vector // minArray[l]: block minima of level l
	posArray  []*bitvec.Vector // posArray[l]: local index of each block's leftmost minimum
}

var _ Index = (*CN)(nil)
var _ leveled = (*CN)(nil)

// BuildCN constructs the CN variant over l with the given block size.
func BuildCN(l lcp.LCP, blockSize uint8) *CN {
	t := &CN{blockSizeVal: blockSize, lcpArr: l}
	n := l.N()
	if n == 0 {
		return t
	}
	B := uint64(blockSize)

	levelSize := (n + B - 1) / B
	srcLen := n
	for {
		minVec := bitvec.New(levelSize, bitvec.WidthFor(n))
		posVec := bitvec.New(levelSize, bitvec.WidthFor(B-1))
		for k := uint64(0); k < levelSize; k++ {
			start := k * B
			bsize := B
			if start+B > srcLen {
				bsize = srcLen - start
			}
			minVal, minPos := n, uint64(0)
			for j := uint64(0); j < bsize; j++ {
				var v uint64
				if len(t.minArray) == 0 {
					v = l.Get(start + j)
				} else {
					v = t.minArray[len(t.minArray)-1].Get(start + j)
				}
				if v < minVal {
					minVal, minPos = v, j
				}
			}
			minVec.Set(k, minVal)
			posVec.Set(k, minPos)
		}
		t.minArray = append(t.minArray, minVec)
		t.posArray = append(t.posArray, posVec)
		if levelSize <= 1 {
			break
		}
		srcLen = levelSize
		levelSize = (levelSize + B - 1) / B
	}
	return t
}

// SetLCP rebinds the NPR's non-owning reference to the LCP array; callers
// must invoke this after any copy/move/swap/load transfers ownership of the
// LCP to a new container (spec.md §5, §9).
func (t *CN) SetLCP(l lcp.LCP) { t.lcpArr = l }

func (t *CN) sourceLen(level int) uint64 {
	if level == -1 {
		return t.lcpArr.N()
	}
	return t.minArray[level].Len()
}

func (t *CN) sourceGet(level int, idx uint64) uint64 {
	if level == -1 {
		return t.lcpArr.Get(idx)
	}
	return t.minArray[level].Get(idx)
}

func (t *CN) blockSize(int) uint64 { return uint64(t.blockSizeVal) }

func (t *CN) guideExists(guide int) bool { return guide < len(t.minArray) }

func (t *CN) guidePos(guide int, blockIdx uint64) uint64 { return t.posArray[guide].Get(blockIdx) }

// NSV returns the position of the next smaller value than LCP[i] within
// (i, n), and the value found there.
func (t *CN) NSV(i uint64) (uint64, uint64) {
	return t.FwdNSV(i+1, t.lcpArr.Get(i))
}

// FwdNSV returns the leftmost position p >= i with LCP[p] < d, or n if none.
func (t *CN) FwdNSV(i, d uint64) (uint64, uint64) {
	pos, val, ok := fwdNSV(t, -1, i, d)
	if !ok {
		return t.lcpArr.N(), t.lcpArr.N()
	}
	return pos, val
}

// PSV returns the position of the previous smaller value than LCP[i] within
// [0, i), and the value found there.
func (t *CN) PSV(i uint64) (uint64, uint64) {
	if i == 0 {
		return t.lcpArr.N(), t.lcpArr.N()
	}
	return t.BwdPSV(i-1, t.lcpArr.Get(i))
}

// BwdPSV returns the rightmost position p <= i with LCP[p] < d, or n if none.
func (t *CN) BwdPSV(i, d uint64) (uint64, uint64) {
	pos, val, ok := bwdPSV(t, -1, i, d)
	if !ok {
		return t.lcpArr.N(), t.lcpArr.N()
	}
	return pos, val
}

// RMQ returns the leftmost position of the minimum LCP value in [i, j]
// (0 <= i <= j < n), and that value.
func (t *CN) RMQ(i, j uint64) (uint64, uint64) {
	return rmq(t, -1, i, j)
}

// WriteTo serializes the CN variant: level count, then for each level,
// min_array[level] followed by pos_array[level] (spec.md §6).
func (t *CN) WriteTo(w io.Writer) (int64, error) {
	var written int64
	levels := uint64(len(t.minArray))
	if err := binary.Write(w, binary.LittleEndian, levels); err != nil {
		return written, errors.Wrap(err, "writing npr-cn level count")
	}
	written += 8
	for l := 0; l < len(t.minArray); l++ {
		n, err := t.minArray[l].WriteTo(w)
		written += n
		if err != nil {
			return written, errors.Wrapf(err, "writing npr-cn min level %d", l)
		}
		n, err = t.posArray[l].WriteTo(w)
		written += n
		if err != nil {
			return written, errors.Wrapf(err, "writing npr-cn pos level %d", l)
		}
	}
	return written, nil
}

// LoadCN reads a CN variant previously written by WriteTo and rebinds it to l.
func LoadCN(r io.Reader, blockSize uint8, l lcp.LCP) (*CN, error) {
	var levels uint64
	if err := binary.Read(r, binary.LittleEndian, &levels); err != nil {
		return nil, errors.Wrap(err, "reading npr-cn level count")
	}
	t := &CN{blockSizeVal: blockSize, lcpArr: l}
	for i := uint64(0); i < levels; i++ {
		minVec, err := bitvec.ReadFrom(r)
		if err != nil {
			return nil, errors.Wrapf(err, "reading npr-cn min level %d", i)
		}
		posVec, err := bitvec.ReadFrom(r)
		if err != nil {
			return nil, errors.Wrapf(err, "reading npr-cn pos level %d", i)
		}
		t.minArray = append(t.minArray, minVec)
		t.posArray = append(t.posArray, posVec)
	}
	return t, nil
}
