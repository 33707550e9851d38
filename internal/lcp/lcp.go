// Package lcp defines the external LCP (longest-common-prefix array)
// contract the NPR index is built over (spec.md §4.3), and provides Array:
// a concrete, bit-packed, Kasai-built implementation.
package lcp

import (
	"io"

	"github.com/pkg/errors"

	"github.com/rcanovas/cst-cn/internal/bitvec"
	"github.com/rcanovas/cst-cn/internal/csa"
)

// LCP is the external, read-only, random-access LCP contract NPR is built
// against. LCP[0] == 0 by convention.
type LCP interface {
	N() uint64
	Get(i uint64) uint64
}

// Array is a plain, bit-packed LCP array.
type Array struct {
	vec *bitvec.Vector
}

var _ LCP = (*Array)(nil)

// N returns the length of the LCP array.
func (a *Array) N() uint64 { return a.vec.Len() }

// Get returns LCP[i].
func (a *Array) Get(i uint64) uint64 { return a.vec.Get(i) }

// Build computes the LCP array of the text indexed by c using Kasai's
// algorithm: for each text position i with rank isa[i] > 0, LCP[isa[i]] is
// the length of the common prefix shared with the suffix at rank isa[i]-1.
//
// Text characters are read by position through c's F-column (F(isa[pos])
// equals the text byte at pos, since F(rank) == text[SA[rank]]), so Build
// only needs SA and F from the CSA contract.
func Build(c csa.CSA) *Array {
	n := c.N()
	isa := make([]uint64, n)
	for rank := uint64(0); rank < n; rank++ {
		isa[c.SA(rank)] = rank
	}
	charAt := func(pos uint64) byte { return c.F(isa[pos]) }

	values := make([]uint64, n)
	var h uint64
	for i := uint64(0); i < n; i++ {
		rank := isa[i]
		if rank == 0 {
			h = 0
			continue
		}
		j := c.SA(rank - 1)
		for i+h < n && j+h < n && charAt(i+h) == charAt(j+h) {
			h++
		}
		values[rank] = h
		if h > 0 {
			h--
		}
	}
	values[0] = 0

	var maxVal uint64
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	vec := bitvec.New(n, bitvec.WidthFor(maxVal))
	for i, v := range values {
		vec.Set(uint64(i), v)
	}
	return &Array{vec: vec}
}

// Load reads an Array previously written by WriteTo.
func Load(r io.Reader) (*Array, error) {
	vec, err := bitvec.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrap(err, "loading lcp array")
	}
	return &Array{vec: vec}, nil
}

// WriteTo serializes the array as a bitvec (width + size + data).
func (a *Array) WriteTo(w io.Writer) (int64, error) {
	n, err := a.vec.WriteTo(w)
	if err != nil {
		return n, errors.Wrap(err, "writing lcp array")
	}
	return n, nil
}
