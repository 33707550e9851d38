package npr

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcanovas/cst-cn/internal/csa"
	"github.com/rcanovas/cst-cn/internal/lcp"
)

func bananaLCP(t *testing.T) *lcp.Array {
	c, err := csa.New([]byte("banana"))
	assert.NoError(t, err)
	return lcp.Build(c)
}

func TestCNBananaNSV(t *testing.T) {
	l := bananaLCP(t)
	idx := BuildCN(l, 4)

	// spec.md worked example: LCP = [0,0,1,3,0,0,2], n = 7.
	pos, val := idx.NSV(3) // LCP[3]=3, next smaller strictly after 3
	assert.Equal(t, uint64(4), pos)
	assert.Equal(t, uint64(0), val)

	pos, val = idx.NSV(6) // last index, no next smaller value
	assert.Equal(t, l.N(), pos)
	assert.Equal(t, l.N(), val)
}

func TestCNBananaPSV(t *testing.T) {
	l := bananaLCP(t)
	idx := BuildCN(l, 4)

	pos, val := idx.PSV(3) // LCP[3]=3, previous smaller before index 3
	assert.Equal(t, uint64(2), pos)
	assert.Equal(t, uint64(1), val)

	pos, val = idx.PSV(0)
	assert.Equal(t, l.N(), pos)
	assert.Equal(t, l.N(), val)
}

func TestCNBananaRMQ(t *testing.T) {
	l := bananaLCP(t)
	idx := BuildCN(l, 4)

	pos, val := idx.RMQ(0, 6)
	assert.Equal(t, uint64(0), val)
	assert.Contains(t, []uint64{0, 1, 4, 5}, pos)

	pos, val = idx.RMQ(3, 3)
	assert.Equal(t, uint64(3), pos)
	assert.Equal(t, uint64(3), val)
}

// naiveNSV/naivePSV/naiveRMQ are brute-force oracles checked against CN over
// random LCP-shaped arrays (monotone-ish sequences are not required; NSV/PSV
// are well-defined for any array of non-negative integers).
func naiveNSV(vals []uint64, i, d uint64) (uint64, uint64) {
	n := uint64(len(vals))
	for p := i; p < n; p++ {
		if vals[p] < d {
			return p, vals[p]
		}
	}
	return n, n
}

func naivePSV(vals []uint64, i, d uint64) (uint64, uint64) {
	n := uint64(len(vals))
	for p := int64(i); p >= 0; p-- {
		if vals[p] < d {
			return uint64(p), vals[p]
		}
	}
	return n, n
}

func naiveRMQ(vals []uint64, i, j uint64) (uint64, uint64) {
	minPos, minVal := i, vals[i]
	for p := i + 1; p <= j; p++ {
		if vals[p] < minVal {
			minPos, minVal = p, vals[p]
		}
	}
	return minPos, minVal
}

type fixedLCP struct{ vals []uint64 }

func (f *fixedLCP) N() uint64          { return uint64(len(f.vals)) }
func (f *fixedLCP) Get(i uint64) uint64 { return f.vals[i] }

func randLCPLike(n int, r *rand.Rand) []uint64 {
	vals := make([]uint64, n)
	for i := 1; i < n; i++ {
		vals[i] = uint64(r.Intn(6))
	}
	return vals
}

func TestCNAgainstNaive(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for _, n := range []int{1, 2, 5, 17, 33, 100} {
		vals := randLCPLike(n, r)
		l := &fixedLCP{vals: vals}
		for _, bs := range []uint8{2, 4, 8} {
			idx := BuildCN(l, bs)
			for i := 0; i < n; i++ {
				for _, d := range []uint64{0, 1, 2, 3, 6} {
					wantPos, wantVal := naiveNSV(vals, uint64(i), d)
					gotPos, gotVal := idx.FwdNSV(uint64(i), d)
					assert.Equal(t, wantPos, gotPos, "FwdNSV n=%d bs=%d i=%d d=%d", n, bs, i, d)
					assert.Equal(t, wantVal, gotVal, "FwdNSV value n=%d bs=%d i=%d d=%d", n, bs, i, d)

					wantPos, wantVal = naivePSV(vals, uint64(i), d)
					gotPos, gotVal = idx.BwdPSV(uint64(i), d)
					assert.Equal(t, wantPos, gotPos, "BwdPSV n=%d bs=%d i=%d d=%d", n, bs, i, d)
					assert.Equal(t, wantVal, gotVal, "BwdPSV value n=%d bs=%d i=%d d=%d", n, bs, i, d)
				}
				for j := i; j < n; j++ {
					_, wantVal := naiveRMQ(vals, uint64(i), uint64(j))
					_, gotVal := idx.RMQ(uint64(i), uint64(j))
					assert.Equal(t, wantVal, gotVal, "RMQ n=%d bs=%d i=%d j=%d", n, bs, i, j)
				}
			}
		}
	}
}

func TestCNBoundaryBehaviors(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	vals := randLCPLike(20, r)
	l := &fixedLCP{vals: vals}
	idx := BuildCN(l, 4)

	pos, val := idx.FwdNSV(5, 0)
	assert.Equal(t, l.N(), pos)
	assert.Equal(t, l.N(), val)

	pos, val = idx.BwdPSV(5, 0)
	assert.Equal(t, l.N(), pos)
	assert.Equal(t, l.N(), val)

	pos, val = idx.PSV(0)
	assert.Equal(t, l.N(), pos)
	assert.Equal(t, l.N(), val)

	for i := uint64(0); i < l.N(); i++ {
		pos, val := idx.RMQ(i, i)
		assert.Equal(t, i, pos)
		assert.Equal(t, l.Get(i), val)
	}
}

func TestCNSerializeRoundTrip(t *testing.T) {
	l := bananaLCP(t)
	idx := BuildCN(l, 4)

	var buf bytes.Buffer
	_, err := idx.WriteTo(&buf)
	assert.NoError(t, err)

	loaded, err := LoadCN(&buf, 4, l)
	assert.NoError(t, err)
	for i := uint64(0); i < l.N(); i++ {
		p1, v1 := idx.NSV(i)
		p2, v2 := loaded.NSV(i)
		assert.Equal(t, p1, p2)
		assert.Equal(t, v1, v2)
	}
}
