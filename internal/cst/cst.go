// Package cst implements the CST-CN suffix-tree navigator: the full
// interface of spec.md §4.2, layered on a CSA, an LCP array and an NPR
// index without ever materializing tree pointers. A node is represented by
// its SA-interval [lb, rb], exactly as original_source/include/cst_cn.h.
package cst

import (
	"github.com/rcanovas/cst-cn/internal/csa"
	"github.com/rcanovas/cst-cn/internal/lcp"
	"github.com/rcanovas/cst-cn/internal/npr"
)

// Node identifies a suffix-tree node by its SA-interval [Lo, Hi]. A leaf has
// Lo == Hi.
type Node struct {
	Lo, Hi uint64
}

// CST is the suffix-tree navigator over a CSA, an LCP array and an NPR
// index. It holds no owning references: csa/lcp/npr are supplied by the
// caller and must already agree on the same text.
type CST struct {
	csa       csa.CSA
	lcp       lcp.LCP
	npr       npr.Index
	nodeCount uint64
}

// New builds a navigator over c/l/n, rebinding n's LCP reference to l and
// precomputing the total node count with a single DFS pass (spec.md §4.6;
// the reference implementation leaves nodes() unsupported — Design Note
// 9(c) explicitly invites computing and caching it instead).
func New(c csa.CSA, l lcp.LCP, n npr.Index) *CST {
	n.SetLCP(l)
	t := &CST{csa: c, lcp: l, npr: n}
	t.nodeCount = t.countNodes()
	return t
}

// Size returns the number of leaves of the whole tree (== text length).
func (t *CST) Size() uint64 { return t.csa.N() }

// Nodes returns the total number of nodes (internal + leaves) in the tree.
func (t *CST) Nodes() uint64 { return t.nodeCount }

// Root returns the root node.
func (t *CST) Root() Node { return Node{0, t.csa.N() - 1} }

// IsLeaf reports whether v is a leaf.
func (t *CST) IsLeaf(v Node) bool { return v.Lo == v.Hi }

// SelectLeaf returns the i-th leaf (1-based, left to right).
func (t *CST) SelectLeaf(i uint64) Node { return Node{i - 1, i - 1} }

// NumLeaves returns the number of leaves in the subtree rooted at v.
func (t *CST) NumLeaves(v Node) uint64 { return v.Hi - v.Lo + 1 }

// LeftmostLeaf returns the leftmost leaf of the subtree rooted at v.
func (t *CST) LeftmostLeaf(v Node) Node { return Node{v.Lo, v.Lo} }

// RightmostLeaf returns the rightmost leaf of the subtree rooted at v.
func (t *CST) RightmostLeaf(v Node) Node { return Node{v.Hi, v.Hi} }

// LB returns the left boundary (SA rank) of v.
func (t *CST) LB(v Node) uint64 { return v.Lo }

// RB returns the right boundary (SA rank) of v.
func (t *CST) RB(v Node) uint64 { return v.Hi }

// getNode reconstructs the node whose LCP-array representative is pos: its
// boundaries are the previous and next smaller LCP values around pos.
func (t *CST) getNode(pos uint64) Node {
	n := t.lcp.N()
	l, _ := t.npr.PSV(pos)
	r, _ := t.npr.NSV(pos)
	r--
	if l == n {
		l = 0
	}
	return Node{l, r}
}

// Parent returns the parent of v.
func (t *CST) Parent(v Node) Node {
	n := t.lcp.N()
	var lcpPos uint64
	if v.Hi == n-1 || t.lcp.Get(v.Lo) > t.lcp.Get(v.Hi+1) {
		lcpPos = v.Lo
	} else {
		lcpPos = v.Hi + 1
	}
	return t.getNode(lcpPos)
}

// Sibling returns the next sibling of v (to its right), or Root if v is the
// last child of its parent.
func (t *CST) Sibling(v Node) Node {
	p := t.Parent(v)
	if v.Hi >= p.Hi {
		return t.Root()
	}
	l := v.Hi + 1
	if l == p.Hi {
		return Node{p.Hi, p.Hi}
	}
	r, _ := t.npr.FwdNSV(l+1, t.lcp.Get(l)+1)
	return Node{l, r - 1}
}

// SelectChild returns the i-th child (1-based, left to right) of v, or Root
// if v is a leaf or has fewer than i children.
func (t *CST) SelectChild(v Node, i uint64) Node {
	if t.IsLeaf(v) {
		return t.Root()
	}
	leftMargin, lcpValue := t.npr.RMQ(v.Lo+1, v.Hi)
	ch := Node{v.Lo, leftMargin - 1}
	for i--; i > 0; i-- {
		left := ch.Hi + 1
		if ch.Hi >= v.Hi {
			return t.Root()
		}
		var right uint64
		if left == v.Hi {
			right = left
		} else {
			r, _ := t.npr.FwdNSV(left+1, lcpValue+1)
			right = r - 1
		}
		ch = Node{left, right}
	}
	return ch
}

// Children returns every child of v, left to right.
func (t *CST) Children(v Node) []Node {
	if t.IsLeaf(v) {
		return nil
	}
	leftMargin, lcpValue := t.npr.RMQ(v.Lo+1, v.Hi)
	children := []Node{{v.Lo, leftMargin - 1}}
	for {
		last := children[len(children)-1]
		left := last.Hi + 1
		if last.Hi >= v.Hi {
			break
		}
		var right uint64
		if left == v.Hi {
			right = left
		} else {
			r, _ := t.npr.FwdNSV(left+1, lcpValue+1)
			right = r - 1
		}
		children = append(children, Node{left, right})
	}
	return children
}

// Degree returns the number of children of v.
func (t *CST) Degree(v Node) uint64 {
	if t.IsLeaf(v) {
		return 0
	}
	return uint64(len(t.Children(v)))
}

// Child returns the child w of v whose edge label starts with c, or Root if
// no such child exists. The lexicographic-rank position used to find it (of
// the character at string depth d of v) is computed by child but not
// returned here.
func (t *CST) Child(v Node, c byte) Node {
	w, _ := t.child(v, c)
	return w
}

func (t *CST) child(v Node, c byte) (Node, uint64) {
	if t.IsLeaf(v) {
		return t.Root(), 0
	}
	cc := t.csa.Char2Comp(c)
	if cc == 0 && c != 0 {
		return t.Root(), 0
	}
	charExMax := t.csa.C(cc + 1)
	charIncMin := t.csa.C(cc)
	d := t.Depth(v)

	charPos := t.csa.CharPos(v.Lo, d)
	if charPos >= charExMax {
		return t.Root(), charPos
	}
	leftMargin, lcpValue := t.npr.RMQ(v.Lo+1, v.Hi)
	firstChild := Node{v.Lo, leftMargin - 1}
	if charPos >= charIncMin {
		return firstChild, charPos
	}

	charPos = t.csa.CharPos(v.Hi, d)
	if charPos < charIncMin {
		return t.Root(), charPos
	}
	lastL, _ := t.npr.BwdPSV(v.Hi, lcpValue+1)
	lastChild := Node{lastL, v.Hi}
	if charPos < charExMax {
		return lastChild, charPos
	}

	var middle []Node
	cursor := firstChild
	for cursor.Hi != lastChild.Lo-1 {
		left := cursor.Hi + 1
		var right uint64
		if left == lastChild.Lo-1 {
			right = left
		} else {
			r, _ := t.npr.FwdNSV(left+1, lcpValue+1)
			right = r - 1
		}
		cursor = Node{left, right}
		middle = append(middle, cursor)
	}
	lo, hi := 0, len(middle)
	for lo < hi {
		mid := (lo + hi) / 2
		charPos = t.csa.CharPos(middle[mid].Lo, d)
		switch {
		case charPos < charIncMin:
			lo = mid + 1
		case charPos >= charExMax:
			hi = mid
		default:
			return middle[mid], charPos
		}
	}
	return t.Root(), charPos
}

// Edge returns the d-th character (1-based) of the edge label leading to v.
func (t *CST) Edge(v Node, d uint64) byte {
	charPos := t.csa.CharPos(v.Lo, d-1)
	return t.csa.F(charPos)
}

// Ancestor reports whether v is an ancestor of (or equal to) w.
func (t *CST) Ancestor(v, w Node) bool {
	return v.Lo <= w.Lo && v.Hi >= w.Hi
}

// LCA returns the lowest common ancestor of v and w.
func (t *CST) LCA(v, w Node) Node {
	if t.Ancestor(v, w) {
		return v
	}
	if t.Ancestor(w, v) {
		return w
	}
	var k uint64
	if v.Hi < w.Lo {
		k, _ = t.npr.RMQ(v.Hi+1, w.Lo)
	} else {
		k, _ = t.npr.RMQ(w.Hi+1, v.Lo)
	}
	return t.getNode(k)
}

// Depth returns the string depth (length of the path label) of v.
func (t *CST) Depth(v Node) uint64 {
	if t.IsLeaf(v) {
		return t.csa.N() - t.csa.SA(v.Lo)
	}
	if v == t.Root() {
		return 0
	}
	_, val := t.npr.RMQ(v.Lo+1, v.Hi)
	return val
}

// NodeDepth returns the number of edges from the root to v.
func (t *CST) NodeDepth(v Node) uint64 {
	var d uint64
	for v != t.Root() {
		d++
		v = t.Parent(v)
	}
	return d
}

// SL returns the suffix link of v.
func (t *CST) SL(v Node) Node {
	if v == t.Root() {
		return t.Root()
	}
	if t.IsLeaf(v) {
		x := t.csa.Psi(v.Lo)
		return Node{x, x}
	}
	x, y := t.csa.Psi(v.Lo), t.csa.Psi(v.Hi)
	var k uint64
	if x < y {
		k, _ = t.npr.RMQ(x+1, y)
	} else {
		k, _ = t.npr.RMQ(y+1, x)
	}
	return t.getNode(k)
}

// WL returns the Weiner link of v by character c, or Root if v is a leaf or
// no suffix in the tree is preceded by c in this context.
func (t *CST) WL(v Node, c byte) Node {
	if t.IsLeaf(v) {
		return t.Root()
	}
	l, r, ok := t.csa.BackwardSearch(v.Lo, v.Hi, c)
	if !ok {
		return t.Root()
	}
	return Node{l, r}
}

// SN returns the suffix number (text position) of leaf v.
func (t *CST) SN(v Node) uint64 { return t.csa.SA(v.Lo) }

// ID computes a unique identification number for v: a leaf maps to its rank
// in [0, n), the root to 2n-1, and every other internal node to a value of
// at least 3n, so the ids are unique but not dense. The reference
// implementation shifts a tagged value with a logical-OR that
// silently discards the shifted bits for any nonzero value (a transcription
// bug per spec.md's design notes); this uses a bitwise OR of a single tag
// bit, which is what the shift-and-tag scheme actually intends.
func (t *CST) ID(v Node) uint64 {
	n := t.lcp.N()
	if t.IsLeaf(v) {
		return v.Lo
	}
	if v == t.Root() {
		return n + n - 1
	}
	val, tag := v.Lo, uint64(0)
	if v.Hi != n-1 && t.lcp.Get(v.Lo) < t.lcp.Get(v.Hi+1) {
		val, tag = v.Hi, 1
	}
	return n + ((n+val)<<1 | tag)
}

// InvID returns the node v such that ID(v) == id.
func (t *CST) InvID(id uint64) Node {
	n := t.lcp.N()
	if id < n {
		return Node{id, id}
	}
	id -= n
	if id == n-1 {
		return t.Root()
	}
	isSecond := id & 1
	i := (id >> 1) - n
	if isSecond == 1 {
		p, _ := t.npr.BwdPSV(i, t.lcp.Get(i+1))
		if p == n {
			p = 0
		}
		return Node{p, i}
	}
	r, _ := t.npr.FwdNSV(i+1, t.lcp.Get(i)+1)
	return Node{i, r - 1}
}

// NewNode constructs the node for SA-interval [lb, rb] directly.
func (t *CST) NewNode(lb, rb uint64) Node { return Node{lb, rb} }

// LAQS returns the lowest ancestor w of v with Depth(w) <= d (level ancestor
// by string depth).
func (t *CST) LAQS(v Node, d uint64) Node {
	if d == 0 {
		return t.Root()
	}
	l, _ := t.npr.BwdPSV(v.Lo, d+1)
	if l == t.lcp.N() {
		l = 0
	}
	r, _ := t.npr.FwdNSV(v.Hi, d+1)
	return Node{l, r - 1}
}

// LAQT returns the lowest ancestor w of v with NodeDepth(w) <= d (level
// ancestor by node depth).
func (t *CST) LAQT(v Node, d uint64) Node {
	if d == 0 {
		return t.Root()
	}
	res := t.LAQS(v, d)
	nodeD := t.NodeDepth(res)
	diff := int64(d) - int64(nodeD)
	for diff != 0 && res != v {
		nodeSD := t.Depth(res)
		aux := t.LAQS(v, nodeSD+uint64(diff))
		for aux != res {
			aux = t.Parent(aux)
			nodeD++
		}
		res = aux
		diff = int64(d) - int64(nodeD)
	}
	return res
}

// countNodes walks the whole tree once, counting each node on its Preorder
// yield only — an internal node's Postorder yield is the same node revisited,
// not a new one.
func (t *CST) countNodes() uint64 {
	var count uint64
	it := t.DFS()
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		if v.Direction == Preorder {
			count++
		}
	}
	return count
}
