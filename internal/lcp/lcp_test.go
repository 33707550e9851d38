package lcp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcanovas/cst-cn/internal/csa"
)

func TestBuildBanana(t *testing.T) {
	c, err := csa.New([]byte("banana"))
	assert.NoError(t, err)

	a := Build(c)
	assert.Equal(t, uint64(7), a.N())
	want := []uint64{0, 0, 1, 3, 0, 0, 2}
	for i, w := range want {
		assert.Equal(t, w, a.Get(uint64(i)), "lcp[%d]", i)
	}
}

func TestBuildAgainstNaive(t *testing.T) {
	texts := [][]byte{
		[]byte("aaaa"),
		[]byte("mississippi"),
		[]byte("abracadabra"),
		[]byte("aabbaabbaabb"),
	}
	for _, text := range texts {
		c, err := csa.New(text)
		assert.NoError(t, err)
		a := Build(c)
		for i := uint64(1); i < a.N(); i++ {
			assert.Equal(t, naiveLCP(c, i), a.Get(i), "text=%q i=%d", text, i)
		}
	}
}

func naiveLCP(c csa.CSA, rank uint64) uint64 {
	n := c.N()
	x, y := c.SA(rank-1), c.SA(rank)
	var h uint64
	for x+h < n && y+h < n {
		cx := charAtPos(c, x+h)
		cy := charAtPos(c, y+h)
		if cx != cy {
			break
		}
		h++
	}
	return h
}

func charAtPos(c csa.CSA, pos uint64) byte {
	for rank := uint64(0); rank < c.N(); rank++ {
		if c.SA(rank) == pos {
			return c.F(rank)
		}
	}
	panic("position not found")
}

func TestSerializeRoundTrip(t *testing.T) {
	c, err := csa.New([]byte("banana"))
	assert.NoError(t, err)
	a := Build(c)

	var buf bytes.Buffer
	_, err = a.WriteTo(&buf)
	assert.NoError(t, err)

	loaded, err := Load(&buf)
	assert.NoError(t, err)
	assert.Equal(t, a.N(), loaded.N())
	for i := uint64(0); i < a.N(); i++ {
		assert.Equal(t, a.Get(i), loaded.Get(i))
	}
}
