package npr

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/rcanovas/cst-cn/internal/bitvec"
	"github.com/rcanovas/cst-cn/internal/lcp"
)

// CNR is the two-tier block-minima tree: level 0 stores only the local
// position of each small block's minimum (the value is fetched on demand
// from the LCP array), level 1 aggregates those on-demand values with the
// same small block size, and every level from 2 up uses the larger block
// size B. This trades one extra indirection on the innermost level for a
// smaller structure, per spec.md §4.1's npr-cnr variant.
type CNR struct {
	smallBlock uint8 // b: block size for level 0 (over LCP) and level 1 (over level 0's values)
	blockSizeVal uint8 // B: block size for level 2 and up
	lcpArr     lcp.LCP

	pos0     *bitvec.Vector   // level 0: local position (0..b-1) of the min within each LCP block of size b
	minArray []*bitvec.Vector // minArray[0]: level-1 minima (values0 grouped by b); minArray[k>=1]: grouped by B
	posArray []*bitvec.Vector // aligned with minArray
}

var _ Index = (*CNR)(nil)
var _ leveled = (*CNR)(nil)

// BuildCNR constructs the CNR variant over l with small block size sbs (for
// levels 0 and 1) and block size bs (for level 2 and up).
func BuildCNR(l lcp.LCP, sbs, bs uint8) *CNR {
	t := &CNR{smallBlock: sbs, blockSizeVal: bs, lcpArr: l}
	n := l.N()
	if n == 0 {
		return t
	}
	b := uint64(sbs)

	numSmall := (n + b - 1) / b
	pos0 := bitvec.New(numSmall, bitvec.WidthFor(b-1))
	values0 := make([]uint64, numSmall)
	for k := uint64(0); k < numSmall; k++ {
		start := k * b
		bsize := b
		if start+b > n {
			bsize = n - start
		}
		minVal, minPos := n, uint64(0)
		for j := uint64(0); j < bsize; j++ {
			if v := l.Get(start + j); v < minVal {
				minVal, minPos = v, j
			}
		}
		pos0.Set(k, minPos)
		values0[k] = minVal
	}
	t.pos0 = pos0

	srcVals := values0
	for {
		curB := b
		if len(t.minArray) >= 1 {
			curB = uint64(bs)
		}
		srcLen := uint64(len(srcVals))
		newSize := (srcLen + curB - 1) / curB
		minVec := bitvec.New(newSize, bitvec.WidthFor(n))
		posVec := bitvec.New(newSize, bitvec.WidthFor(curB-1))
		for k := uint64(0); k < newSize; k++ {
			start := k * curB
			bsize := curB
			if start+curB > srcLen {
				bsize = srcLen - start
			}
			minVal, minPos := n, uint64(0)
			for j := uint64(0); j < bsize; j++ {
				if v := srcVals[start+j]; v < minVal {
					minVal, minPos = v, j
				}
			}
			minVec.Set(k, minVal)
			posVec.Set(k, minPos)
		}
		t.minArray = append(t.minArray, minVec)
		t.posArray = append(t.posArray, posVec)
		if newSize <= 1 {
			break
		}
		srcVals = vecToSlice(minVec)
	}
	return t
}

func vecToSlice(v *bitvec.Vector) []uint64 {
	out := make([]uint64, v.Len())
	for i := range out {
		out[i] = v.Get(uint64(i))
	}
	return out
}

// SetLCP rebinds the NPR's non-owning reference to the LCP array.
func (t *CNR) SetLCP(l lcp.LCP) { t.lcpArr = l }

func (t *CNR) sourceLen(level int) uint64 {
	switch {
	case level == -1:
		return t.lcpArr.N()
	case level == 0:
		return t.pos0.Len()
	default:
		return t.minArray[level-1].Len()
	}
}

func (t *CNR) sourceGet(level int, idx uint64) uint64 {
	switch {
	case level == -1:
		return t.lcpArr.Get(idx)
	case level == 0:
		b := uint64(t.smallBlock)
		return t.lcpArr.Get(idx*b + t.pos0.Get(idx))
	default:
		return t.minArray[level-1].Get(idx)
	}
}

func (t *CNR) blockSize(level int) uint64 {
	if level <= 0 {
		return uint64(t.smallBlock)
	}
	return uint64(t.blockSizeVal)
}

func (t *CNR) guideExists(guide int) bool {
	if guide == 0 {
		return t.pos0 != nil
	}
	return guide-1 < len(t.minArray)
}

func (t *CNR) guidePos(guide int, blockIdx uint64) uint64 {
	if guide == 0 {
		return t.pos0.Get(blockIdx)
	}
	return t.posArray[guide-1].Get(blockIdx)
}

// NSV returns the position of the next smaller value than LCP[i] within
// (i, n), and the value found there.
func (t *CNR) NSV(i uint64) (uint64, uint64) {
	return t.FwdNSV(i+1, t.lcpArr.Get(i))
}

// FwdNSV returns the leftmost position p >= i with LCP[p] < d, or n if none.
func (t *CNR) FwdNSV(i, d uint64) (uint64, uint64) {
	pos, val, ok := fwdNSV(t, -1, i, d)
	if !ok {
		return t.lcpArr.N(), t.lcpArr.N()
	}
	return pos, val
}

// PSV returns the position of the previous smaller value than LCP[i] within
// [0, i), and the value found there.
func (t *CNR) PSV(i uint64) (uint64, uint64) {
	if i == 0 {
		return t.lcpArr.N(), t.lcpArr.N()
	}
	return t.BwdPSV(i-1, t.lcpArr.Get(i))
}

// BwdPSV returns the rightmost position p <= i with LCP[p] < d, or n if none.
func (t *CNR) BwdPSV(i, d uint64) (uint64, uint64) {
	pos, val, ok := bwdPSV(t, -1, i, d)
	if !ok {
		return t.lcpArr.N(), t.lcpArr.N()
	}
	return pos, val
}

// RMQ returns the leftmost position of the minimum LCP value in [i, j].
func (t *CNR) RMQ(i, j uint64) (uint64, uint64) {
	return rmq(t, -1, i, j)
}

// WriteTo serializes the CNR variant: u64 level count (counting level 0, so
// levels == len(minArray)+1), then pos_array[0] (pos0), then for each
// ℓ in [1, levels) min_array[ℓ-1] followed by pos_array[ℓ].
func (t *CNR) WriteTo(w io.Writer) (int64, error) {
	var written int64
	levels := uint64(len(t.minArray)) + 1
	if err := binary.Write(w, binary.LittleEndian, levels); err != nil {
		return written, errors.Wrap(err, "writing npr-cnr level count")
	}
	written += 8
	n, err := t.pos0.WriteTo(w)
	written += n
	if err != nil {
		return written, errors.Wrap(err, "writing npr-cnr pos0")
	}
	for l := 0; l < len(t.minArray); l++ {
		n, err := t.minArray[l].WriteTo(w)
		written += n
		if err != nil {
			return written, errors.Wrapf(err, "writing npr-cnr min level %d", l+1)
		}
		n, err = t.posArray[l].WriteTo(w)
		written += n
		if err != nil {
			return written, errors.Wrapf(err, "writing npr-cnr pos level %d", l+1)
		}
	}
	return written, nil
}

// LoadCNR reads a CNR variant previously written by WriteTo and rebinds it to l.
func LoadCNR(r io.Reader, sbs, bs uint8, l lcp.LCP) (*CNR, error) {
	t := &CNR{smallBlock: sbs, blockSizeVal: bs, lcpArr: l}

	var levels uint64
	if err := binary.Read(r, binary.LittleEndian, &levels); err != nil {
		return nil, errors.Wrap(err, "reading npr-cnr level count")
	}

	pos0, err := bitvec.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading npr-cnr pos0")
	}
	t.pos0 = pos0
	if levels == 0 {
		return t, nil
	}

	for i := uint64(1); i < levels; i++ {
		minVec, err := bitvec.ReadFrom(r)
		if err != nil {
			return nil, errors.Wrapf(err, "reading npr-cnr min level %d", i)
		}
		posVec, err := bitvec.ReadFrom(r)
		if err != nil {
			return nil, errors.Wrapf(err, "reading npr-cnr pos level %d", i)
		}
		t.minArray = append(t.minArray, minVec)
		t.posArray = append(t.posArray, posVec)
	}
	return t, nil
}
