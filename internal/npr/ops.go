package npr

// leveled abstracts the hierarchical block-minima array CN and CNR are each
// built from, so the NSV/PSV/RMQ recursion is implemented exactly once.
//
// Level -1 always denotes the raw LCP array. Level >= 0 denotes an
// aggregation level: for CN, minArray[level]; for CNR, the on-demand
// values-by-block array at level 0, then minArray[level-1] for level >= 1.
// guide always means level+1: the array one tier up, consulted to decide
// whether level's current block is worth scanning, and descended into when
// it isn't in the current block.
type leveled interface {
	sourceLen(level int) uint64
	sourceGet(level int, idx uint64) uint64
	blockSize(level int) uint64
	guideExists(guide int) bool
	// guidePos maps a block index in guide's coordinate space down to a
	// local offset within that block, in source(level)'s coordinate space.
	guidePos(guide int, blockIdx uint64) uint64
}

// fwdNSV finds the leftmost position p >= i in source(level) with value < d.
// Each recursive call operates entirely within its own level's coordinate
// space; ascent consults guide = level+1 to skip blocks that can't contain
// an answer, and guidePos maps a found guide-block back down one level.
func fwdNSV(t leveled, level int, i, d uint64) (pos, value uint64, found bool) {
	n := t.sourceLen(level)
	if d == 0 || i >= n {
		return 0, 0, false
	}
	B := t.blockSize(level)
	guide := level + 1
	block := i / B

	if !t.guideExists(guide) {
		for j := i; j < n; j++ {
			if v := t.sourceGet(level, j); v < d {
				return j, v, true
			}
		}
		return 0, 0, false
	}

	if t.sourceGet(guide, block) < d {
		until := B * (block + 1)
		if until > n {
			until = n
		}
		for j := i; j < until; j++ {
			if v := t.sourceGet(level, j); v < d {
				return j, v, true
			}
		}
		if until == n {
			return 0, 0, false
		}
	}

	nextBlock, nextVal, ok := fwdNSV(t, guide, block+1, d)
	if !ok {
		return 0, 0, false
	}
	until := nextBlock*B + t.guidePos(guide, nextBlock)
	if nextVal == d-1 {
		return until, nextVal, true
	}
	for j := nextBlock * B; j < until; j++ {
		if v := t.sourceGet(level, j); v < d {
			return j, v, true
		}
	}
	return until, t.sourceGet(level, until), true
}

// bwdPSV finds the rightmost position p <= i in source(level) with value < d.
func bwdPSV(t leveled, level int, i, d uint64) (pos, value uint64, found bool) {
	if d == 0 {
		return 0, 0, false
	}
	B := t.blockSize(level)
	guide := level + 1
	block := i / B

	if !t.guideExists(guide) {
		for j := int64(i); j >= 0; j-- {
			if v := t.sourceGet(level, uint64(j)); v < d {
				return uint64(j), v, true
			}
		}
		return 0, 0, false
	}

	if t.sourceGet(guide, block) < d {
		until := B * block
		for j := int64(i); j >= int64(until); j-- {
			if v := t.sourceGet(level, uint64(j)); v < d {
				return uint64(j), v, true
			}
		}
		if until == 0 {
			return 0, 0, false
		}
	}

	if block == 0 {
		return 0, 0, false
	}
	nextBlock, _, ok := bwdPSV(t, guide, block-1, d)
	if !ok {
		return 0, 0, false
	}
	until := nextBlock*B + t.guidePos(guide, nextBlock)
	last := (nextBlock+1)*B - 1
	for j := int64(last); j > int64(until); j-- {
		if v := t.sourceGet(level, uint64(j)); v < d {
			return uint64(j), v, true
		}
	}
	return until, t.sourceGet(level, until), true
}

// rmq answers RMQ over source(level)[i..j] by scanning the two boundary
// blocks directly and resolving whole blocks in between through guide,
// recursing further only if that span covers more than one of guide's own
// blocks. Ties break toward the smaller (leftmost) position.
func rmq(t leveled, level int, i, j uint64) (pos, val uint64) {
	B := t.blockSize(level)
	lBlock, rBlock := i/B, j/B

	if lBlock == rBlock {
		return bruteRMQ(t, level, i, j)
	}

	pos, val = bruteRMQ(t, level, i, (lBlock+1)*B-1)
	if p2, v2 := bruteRMQ(t, level, rBlock*B, j); v2 < val || (v2 == val && p2 < pos) {
		pos, val = p2, v2
	}

	if lBlock+1 <= rBlock-1 {
		guide := level + 1
		if t.guideExists(guide) {
			mPos, mVal := rmq(t, guide, lBlock+1, rBlock-1)
			absPos := mPos*B + t.guidePos(guide, mPos)
			if mVal < val || (mVal == val && absPos < pos) {
				pos, val = absPos, mVal
			}
		} else if p3, v3 := bruteRMQ(t, level, (lBlock+1)*B, rBlock*B-1); v3 < val || (v3 == val && p3 < pos) {
			pos, val = p3, v3
		}
	}
	return pos, val
}

func bruteRMQ(t leveled, level int, i, j uint64) (pos, val uint64) {
	val = ^uint64(0)
	for p := i; p <= j; p++ {
		if v := t.sourceGet(level, p); v < val {
			val, pos = v, p
		}
	}
	return pos, val
}
