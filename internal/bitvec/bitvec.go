// Package bitvec implements fixed-width, bit-packed integer vectors: the
// shared on-disk and in-memory representation for the NPR level arrays and
// the LCP array.
package bitvec

import (
	"encoding/binary"
	"io"
	"math/bits"

	"github.com/pkg/errors"
)

const wordBits = 64

// Vector is a read/write array of n unsigned integers, each stored in
// exactly width bits, packed into a slice of uint64 words.
type Vector struct {
	data  []uint64
	n     uint64
	width uint8
}

// New allocates a vector of n entries, each width bits wide (0 <= width <= 64).
// All entries are initialized to 0.
func New(n uint64, width uint8) *Vector {
	if width > 64 {
		width = 64
	}
	words := (n*uint64(width) + wordBits - 1) / wordBits
	return &Vector{data: make([]uint64, words), n: n, width: width}
}

// WidthFor returns the number of bits needed to represent values in [0, maxValue],
// i.e. bits.Len(maxValue), with a floor of 1 bit so a vector is never zero-width.
func WidthFor(maxValue uint64) uint8 {
	w := bits.Len64(maxValue)
	if w == 0 {
		w = 1
	}
	return uint8(w)
}

// Len returns the number of entries in the vector.
func (v *Vector) Len() uint64 { return v.n }

// Width returns the bit width of each entry.
func (v *Vector) Width() uint8 { return v.width }

// Get returns the value stored at index i.
func (v *Vector) Get(i uint64) uint64 {
	if v.width == 0 {
		return 0
	}
	bitPos := i * uint64(v.width)
	word, off := bitPos/wordBits, bitPos%wordBits
	mask := uint64(1)<<v.width - 1
	if v.width == 64 {
		mask = ^uint64(0)
	}
	val := v.data[word] >> off
	if off+uint64(v.width) > wordBits {
		val |= v.data[word+1] << (wordBits - off)
	}
	return val & mask
}

// Set stores value at index i, truncated to the vector's width.
func (v *Vector) Set(i uint64, value uint64) {
	if v.width == 0 {
		return
	}
	mask := uint64(1)<<v.width - 1
	if v.width == 64 {
		mask = ^uint64(0)
	}
	value &= mask
	bitPos := i * uint64(v.width)
	word, off := bitPos/wordBits, bitPos%wordBits
	v.data[word] &^= mask << off
	v.data[word] |= value << off
	if off+uint64(v.width) > wordBits {
		spill := wordBits - off
		v.data[word+1] &^= mask >> spill
		v.data[word+1] |= value >> spill
	}
}

// WriteTo serializes the vector as: width (1 byte), size (8 bytes), then the
// packed words (8 bytes each), all little-endian.
func (v *Vector) WriteTo(w io.Writer) (int64, error) {
	var written int64
	if err := binary.Write(w, binary.LittleEndian, v.width); err != nil {
		return written, errors.Wrap(err, "writing bitvec width")
	}
	written++
	if err := binary.Write(w, binary.LittleEndian, v.n); err != nil {
		return written, errors.Wrap(err, "writing bitvec size")
	}
	written += 8
	if err := binary.Write(w, binary.LittleEndian, v.data); err != nil {
		return written, errors.Wrap(err, "writing bitvec data")
	}
	written += int64(len(v.data)) * 8
	return written, nil
}

// ReadFrom deserializes a vector previously written by WriteTo.
func ReadFrom(r io.Reader) (*Vector, error) {
	var width uint8
	if err := binary.Read(r, binary.LittleEndian, &width); err != nil {
		return nil, errors.Wrap(err, "reading bitvec width")
	}
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, errors.Wrap(err, "reading bitvec size")
	}
	v := New(n, width)
	if err := binary.Read(r, binary.LittleEndian, v.data); err != nil {
		return nil, errors.Wrap(err, "reading bitvec data")
	}
	return v, nil
}
