package npr

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCNRBananaNSV(t *testing.T) {
	l := bananaLCP(t)
	idx := BuildCNR(l, 4, 8)

	pos, val := idx.NSV(3)
	assert.Equal(t, uint64(4), pos)
	assert.Equal(t, uint64(0), val)

	pos, val = idx.NSV(6)
	assert.Equal(t, l.N(), pos)
	assert.Equal(t, l.N(), val)
}

func TestCNRBananaPSV(t *testing.T) {
	l := bananaLCP(t)
	idx := BuildCNR(l, 4, 8)

	pos, val := idx.PSV(3)
	assert.Equal(t, uint64(2), pos)
	assert.Equal(t, uint64(1), val)

	pos, val = idx.PSV(0)
	assert.Equal(t, l.N(), pos)
	assert.Equal(t, l.N(), val)
}

func TestCNRBananaRMQ(t *testing.T) {
	l := bananaLCP(t)
	idx := BuildCNR(l, 4, 8)

	_, val := idx.RMQ(0, 6)
	assert.Equal(t, uint64(0), val)

	pos, val := idx.RMQ(3, 3)
	assert.Equal(t, uint64(3), pos)
	assert.Equal(t, uint64(3), val)
}

func TestCNRAgainstNaive(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	for _, n := range []int{1, 2, 5, 17, 33, 100} {
		vals := randLCPLike(n, r)
		l := &fixedLCP{vals: vals}
		for _, sbs := range []uint8{2, 4} {
			for _, bs := range []uint8{4, 8} {
				idx := BuildCNR(l, sbs, bs)
				for i := 0; i < n; i++ {
					for _, d := range []uint64{0, 1, 2, 3, 6} {
						wantPos, wantVal := naiveNSV(vals, uint64(i), d)
						gotPos, gotVal := idx.FwdNSV(uint64(i), d)
						assert.Equal(t, wantPos, gotPos, "FwdNSV n=%d sbs=%d bs=%d i=%d d=%d", n, sbs, bs, i, d)
						assert.Equal(t, wantVal, gotVal, "FwdNSV value n=%d sbs=%d bs=%d i=%d d=%d", n, sbs, bs, i, d)

						wantPos, wantVal = naivePSV(vals, uint64(i), d)
						gotPos, gotVal = idx.BwdPSV(uint64(i), d)
						assert.Equal(t, wantPos, gotPos, "BwdPSV n=%d sbs=%d bs=%d i=%d d=%d", n, sbs, bs, i, d)
						assert.Equal(t, wantVal, gotVal, "BwdPSV value n=%d sbs=%d bs=%d i=%d d=%d", n, sbs, bs, i, d)
					}
					for j := i; j < n; j++ {
						_, wantVal := naiveRMQ(vals, uint64(i), uint64(j))
						_, gotVal := idx.RMQ(uint64(i), uint64(j))
						assert.Equal(t, wantVal, gotVal, "RMQ n=%d sbs=%d bs=%d i=%d j=%d", n, sbs, bs, i, j)
					}
				}
			}
		}
	}
}

// TestCNAndCNRAgree cross-checks the two variants against each other over
// identical random inputs across block-size combinations (spec.md §8,
// property 9: npr-cn and npr-cnr must answer every query identically).
func TestCNAndCNRAgree(t *testing.T) {
	r := rand.New(rand.NewSource(2024))
	for _, n := range []int{8, 16, 32, 65, 200} {
		vals := randLCPLike(n, r)
		l := &fixedLCP{vals: vals}
		for _, bs := range []uint8{4, 8} {
			cn := BuildCN(l, bs)
			cnr := BuildCNR(l, bs/2+1, bs)
			for i := 0; i < n; i++ {
				for _, d := range []uint64{0, 1, 3, 6} {
					p1, v1 := cn.FwdNSV(uint64(i), d)
					p2, v2 := cnr.FwdNSV(uint64(i), d)
					assert.Equal(t, p1, p2, "FwdNSV mismatch n=%d bs=%d i=%d d=%d", n, bs, i, d)
					assert.Equal(t, v1, v2, "FwdNSV value mismatch n=%d bs=%d i=%d d=%d", n, bs, i, d)

					p1, v1 = cn.BwdPSV(uint64(i), d)
					p2, v2 = cnr.BwdPSV(uint64(i), d)
					assert.Equal(t, p1, p2, "BwdPSV mismatch n=%d bs=%d i=%d d=%d", n, bs, i, d)
					assert.Equal(t, v1, v2, "BwdPSV value mismatch n=%d bs=%d i=%d d=%d", n, bs, i, d)
				}
				for j := i; j < n; j++ {
					_, v1 := cn.RMQ(uint64(i), uint64(j))
					_, v2 := cnr.RMQ(uint64(i), uint64(j))
					assert.Equal(t, v1, v2, "RMQ value mismatch n=%d bs=%d i=%d j=%d", n, bs, i, j)
				}
			}
		}
	}
}

func TestCNRBoundaryBehaviors(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	vals := randLCPLike(20, r)
	l := &fixedLCP{vals: vals}
	idx := BuildCNR(l, 4, 8)

	pos, val := idx.FwdNSV(5, 0)
	assert.Equal(t, l.N(), pos)
	assert.Equal(t, l.N(), val)

	pos, val = idx.BwdPSV(5, 0)
	assert.Equal(t, l.N(), pos)
	assert.Equal(t, l.N(), val)

	for i := uint64(0); i < l.N(); i++ {
		pos, val := idx.RMQ(i, i)
		assert.Equal(t, i, pos)
		assert.Equal(t, l.Get(i), val)
	}
}

func TestCNRSerializeRoundTrip(t *testing.T) {
	l := bananaLCP(t)
	idx := BuildCNR(l, 4, 8)

	var buf bytes.Buffer
	_, err := idx.WriteTo(&buf)
	assert.NoError(t, err)

	loaded, err := LoadCNR(&buf, 4, 8, l)
	assert.NoError(t, err)
	for i := uint64(0); i < l.N(); i++ {
		p1, v1 := idx.NSV(i)
		p2, v2 := loaded.NSV(i)
		assert.Equal(t, p1, p2)
		assert.Equal(t, v1, v2)
	}
}
