// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package sa builds suffix arrays over the byte alphabets the CSA layer
// works with, using the SA-IS induced-sorting algorithm (Nong, Zhang & Chen,
// "Linear Suffix Array Construction by Almost Pure Induced-Sorting", 2009).
package sa

// sorter carries the mutable state of one SA-IS recursion level: the
// character stream being sorted (the original byte text at the top level,
// or a summary string of LMS names one level down), the suffix array under
// construction, and scratch space reused across levels for frequency and
// bucket tables.
type sorter struct {
	text         []int32
	sa           []int32
	scratch      []int32 // freq | bucket, srcAlphaSize entries each half
	srcAlphaSize int32

	lo, hi   int32 // character range of text
	lmsCount int32 // number of LMS (left-most S-type) positions in text
}

// Build computes the suffix array of text and returns it as 0-based suffix
// starting positions in lexicographic order. The caller owns any sentinel
// byte the ordering should depend on (the CSA layer appends one smaller
// than every other byte before calling Build).
func Build(text []byte) []uint64 {
	if len(text) == 0 {
		return nil
	}
	runes := make([]int32, len(text))
	for i, c := range text {
		runes[i] = int32(c)
	}
	sa32 := sortRunes(runes)

	sa := make([]uint64, len(sa32))
	for i, v := range sa32 {
		sa[i] = uint64(v)
	}
	return sa
}

func sortRunes(text []int32) []int32 {
	if len(text) == 1 {
		return []int32{0}
	}
	return (&sorter{text: text}).run()
}

// run sorts s.text, allocating s.sa when this is a fresh top-level call; a
// recursive call instead supplies its own backing array via summarySA.
func (s *sorter) run() []int32 {
	s.scanAlphabet()
	alphaSize := s.hi - s.lo + 1
	if s.sa == nil {
		s.srcAlphaSize = alphaSize
		s.sa = make([]int32, len(s.text))
	}
	if alphaSize > 256 || alphaSize > s.srcAlphaSize {
		return s.runSparse()
	}
	return s.runDense(alphaSize)
}

// scanAlphabet walks s.text back to front once, recording its character
// range and the number of LMS positions: a position is LMS when it is
// S-type (its suffix is smaller than the next one) and immediately follows
// an L-type position.
func (s *sorter) scanAlphabet() {
	lo, hi := s.text[0], s.text[0]
	var cur, prev int32
	var inSRun bool
	var lmsCount int32
	for i := len(s.text) - 1; i >= 0; i-- {
		cur, prev = s.text[i], cur
		if cur < lo {
			lo = cur
		}
		if cur > hi {
			hi = cur
		}
		if cur < prev {
			inSRun = true
		} else if cur > prev && inSRun {
			inSRun = false
			lmsCount++
		}
	}
	s.lo, s.hi, s.lmsCount = lo, hi, lmsCount
}

// runDense handles alphabets that fit within the current scratch
// allocation (at most 256 symbols): place LMS suffixes into buckets,
// induce L/S suffixes around them to build a summary string of LMS names,
// recurse on the summary when its names aren't already unique, then induce
// the final L/S suffixes around the now-placed LMS suffixes.
func (s *sorter) runDense(alphaSize int32) []int32 {
	if int32(len(s.scratch)) < s.srcAlphaSize*2 {
		s.scratch = make([]int32, s.srcAlphaSize*2)
	}
	freq := s.scratch[:alphaSize]
	bucket := s.scratch[s.srcAlphaSize : s.srcAlphaSize+alphaSize]
	s.countFreq(freq)
	s.placeLMS(freq, bucket)

	if s.lmsCount > 1 {
		s.induceSummaryL(freq, bucket)
		s.induceSummaryS(freq, bucket)

		summary := s.sa[len(s.sa)-int(s.lmsCount):]
		maxName := s.nameSubstrings(summary)
		summarySA := s.sa[:s.lmsCount]
		if maxName < s.lmsCount {
			sub := &sorter{text: summary, sa: summarySA, scratch: s.scratch, srcAlphaSize: s.srcAlphaSize}
			sub.run()
			s.resolveNames(summarySA, summary)
		} else {
			copy(summarySA, summary)
			clear(s.sa[s.lmsCount:])
		}
		s.expandLMS(summarySA, freq, bucket)
	}
	s.induceFinalL(freq, bucket)
	s.induceFinalS(freq, bucket)
	return s.sa
}

func (s *sorter) countFreq(freq []int32) {
	clear(freq)
	for _, c := range s.text {
		freq[c-s.lo]++
	}
}

func fillBucketStarts(freq, bucket []int32) {
	var offset int32
	for i, n := range freq {
		if n > 0 {
			bucket[i] = offset
			offset += n
		}
	}
}

func fillBucketEnds(freq, bucket []int32) {
	var offset int32
	for i, n := range freq {
		if n > 0 {
			offset += n
			bucket[i] = offset - 1
		}
	}
}

// placeLMS drops each LMS suffix into the high end of its first
// character's bucket. When more than one LMS suffix exists, the last slot
// written is reset to 0 so induceSummaryL/induceSummaryS (which treat 0 as
// "not yet written") can tell it apart from a genuine suffix at position 0.
func (s *sorter) placeLMS(freq, bucket []int32) {
	fillBucketEnds(freq, bucket)
	var cur, prev, lastSlot int32
	var inSRun bool
	for i := int32(len(s.text) - 1); i >= 0; i-- {
		cur, prev = s.text[i], cur
		if cur < prev {
			inSRun = true
		} else if cur > prev && inSRun {
			inSRun = false
			col := prev - s.lo
			slot := bucket[col]
			bucket[col] = slot - 1
			s.sa[slot] = i + 1
			lastSlot = slot
		}
	}
	if s.lmsCount > 1 {
		s.sa[lastSlot] = 0
	}
}

// induceSummaryL induces L-type suffixes while building the LMS summary
// string. A slot already claimed (marked negative) is restored and left
// alone; everything else is derived from its successor and reinserted at
// the start of its character's bucket, itself marked negative when it is
// L-type so a later pass can distinguish it from a fresh value.
func (s *sorter) induceSummaryL(freq, bucket []int32) {
	fillBucketStarts(freq, bucket)
	last := int32(len(s.text) - 1)
	k := last
	l, r := s.text[k-1], s.text[k]
	lastChar := s.text[last]
	slot := bucket[lastChar-s.lo]
	if l < r {
		k = -k
	}
	bucket[lastChar-s.lo] = slot + 1
	s.sa[slot] = k

	for i := 0; i < len(s.sa); i++ {
		j := s.sa[i]
		if j == 0 {
			continue
		}
		if j < 0 {
			s.sa[i] = -j
			continue
		}
		s.sa[i] = 0
		k = j - 1
		l, r = s.text[k-1], s.text[k]
		if l < r {
			k = -k
		}
		slot = bucket[r-s.lo]
		bucket[r-s.lo] = slot + 1
		s.sa[slot] = k
	}
}

// induceSummaryS is induceSummaryL's mirror image for S-type suffixes,
// scanning backward and filling buckets from their high end.
func (s *sorter) induceSummaryS(freq, bucket []int32) {
	fillBucketEnds(freq, bucket)
	top := len(s.sa)
	for i := len(s.sa) - 1; i >= 0; i-- {
		j := s.sa[i]
		if j == 0 {
			continue
		}
		s.sa[i] = 0
		if j < 0 {
			top--
			s.sa[top] = -j
			continue
		}
		k := j - 1
		l, r := s.text[k-1], s.text[k]
		if l > r {
			k = -k
		}
		slot := bucket[r-s.lo]
		bucket[r-s.lo] = slot - 1
		s.sa[slot] = k
	}
}

// induceFinalL is induceSummaryL's counterpart once the LMS suffixes are in
// their final positions: every slot is trusted, so there is no need to
// distinguish claimed-but-pending entries from fresh ones.
func (s *sorter) induceFinalL(freq, bucket []int32) {
	fillBucketStarts(freq, bucket)
	n := len(s.text)
	k := int32(n - 1)
	l, r := s.text[k-1], s.text[k]
	lastChar := s.text[n-1]
	slot := bucket[lastChar-s.lo]
	if l < r {
		k = -k
	}
	bucket[lastChar-s.lo] = slot + 1
	s.sa[slot] = k

	for i := 0; i < len(s.sa); i++ {
		j := s.sa[i]
		if j <= 0 {
			continue
		}
		k = j - 1
		r = s.text[k]
		if k > 0 {
			if l = s.text[k-1]; l < r {
				k = -k
			}
		}
		slot = bucket[r-s.lo]
		bucket[r-s.lo] = slot + 1
		s.sa[slot] = k
	}
}

func (s *sorter) induceFinalS(freq, bucket []int32) {
	fillBucketEnds(freq, bucket)
	for i := len(s.sa) - 1; i >= 0; i-- {
		j := s.sa[i]
		if j >= 0 {
			continue
		}
		j = -j
		s.sa[i] = j
		k := j - 1
		r := s.text[k]
		if k > 0 {
			if l := s.text[k-1]; l <= r {
				k = -k
			}
		}
		slot := bucket[r-s.lo]
		bucket[r-s.lo] = slot - 1
		s.sa[slot] = k
	}
}

// expandLMS scatters the now-ordered LMS suffixes (named in summarySA)
// back into their final buckets in the full suffix array.
func (s *sorter) expandLMS(summarySA, freq, bucket []int32) {
	s.countFreq(freq)
	fillBucketEnds(freq, bucket)
	for i := len(summarySA) - 1; i >= 0; i-- {
		lmsIdx := summarySA[i]
		summarySA[i] = 0
		col := s.text[lmsIdx] - s.lo
		slot := bucket[col]
		s.sa[slot] = lmsIdx
		bucket[col] = slot - 1
	}
}

// resolveNames rebuilds the text positions of every LMS substring into
// lmsPos, then maps summarySA's sorted LMS-name order back onto them.
func (s *sorter) resolveNames(summarySA, lmsPos []int32) {
	j := int32(len(lmsPos))
	var cur, prev int32
	var inSRun bool
	for i := len(s.text) - 1; i >= 0; i-- {
		cur, prev = s.text[i], cur
		if cur < prev {
			inSRun = true
		} else if cur > prev && inSRun {
			inSRun = false
			j--
			lmsPos[j] = int32(i) + 1
		}
	}
	for i := 0; i < len(lmsPos); i++ {
		name := summarySA[i]
		s.sa[i] = lmsPos[name]
		lmsPos[name] = 0
	}
}

// lmsLengths writes the length of each LMS substring into s.sa, indexed by
// half its starting position (the packing nameSubstrings expects).
func (s *sorter) lmsLengths() {
	var cur, prevChar int32
	var inSRun bool
	prevPos := int32(len(s.text)) - 1
	for i := len(s.text) - 1; i >= 0; i-- {
		cur, prevChar = s.text[i], cur
		if cur < prevChar {
			inSRun = true
		} else if cur > prevChar && inSRun {
			inSRun = false
			s.sa[(i+1)/2] = prevPos - int32(i)
			prevPos = int32(i)
		}
	}
}

func (s *sorter) equalLMS(a, b, aLen, bLen int32) bool {
	if aLen != bLen {
		return false
	}
	for aLen > 0 {
		if s.text[a] != s.text[b] {
			return false
		}
		a++
		b++
		aLen--
	}
	return true
}

// nameSubstrings assigns the same name to equal LMS substrings (using s.sa
// as scratch for their lengths) and packs the names into summary in text
// order. It returns the number of distinct names assigned; when that
// equals lmsCount every name is already unique and recursion can be
// skipped.
func (s *sorter) nameSubstrings(summary []int32) int32 {
	s.lmsLengths()
	posLMS := summary
	name, maxName := int32(1), int32(1)
	prevLen := s.sa[posLMS[0]/2]
	s.sa[posLMS[0]/2] = name
	for i := 1; i < len(posLMS); i++ {
		prev, curr := posLMS[i-1], posLMS[i]
		if !s.equalLMS(prev, curr, prevLen, s.sa[curr/2]) {
			name++
			maxName++
		}
		prevLen = s.sa[curr/2]
		s.sa[curr/2] = name
	}
	if maxName >= s.lmsCount {
		return maxName
	}
	var j int
	for i := 0; i < len(s.sa)/2; i++ {
		v := s.sa[i]
		if v <= 0 {
			continue
		}
		s.sa[i], summary[j] = 0, v
		j++
	}
	return maxName
}
