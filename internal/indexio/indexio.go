// Package indexio wires the external CSA/LCP contracts and an NPR variant
// together into a complete CST-CN index, and serializes/deserializes that
// combination end to end (spec.md §6/§7). It exists so the two CLI
// harnesses, createcst and testoperations, share one build/load path
// instead of duplicating it.
package indexio

import (
	"io"

	"github.com/pkg/errors"

	"github.com/rcanovas/cst-cn/internal/csa"
	"github.com/rcanovas/cst-cn/internal/cst"
	"github.com/rcanovas/cst-cn/internal/lcp"
	"github.com/rcanovas/cst-cn/internal/npr"
)

// Config pins down the exact variant of every layer: a serialized index
// carries no self-describing header (spec.md §6/§7 Design Note), so the
// loader must be handed the same Config the builder used.
type Config struct {
	CSAKind    string // only "plain" is implemented
	LCPKind    string // only "kasai" is implemented
	NPRKind    string // "npr-cn" or "npr-cnr"
	BlockSize  uint8  // npr-cn block size, or npr-cnr's level-2+ block size
	SmallBlock uint8  // npr-cnr's level-0/1 block size; unused for npr-cn
}

// Index bundles the layers that make up one built CST-CN index.
type Index struct {
	CSA  *csa.Plain
	LCP  *lcp.Array
	NPR  npr.Index
	Tree *cst.CST
	Cfg  Config
}

// Build constructs a complete index over text according to cfg.
func Build(text []byte, cfg Config) (*Index, error) {
	c, err := csa.New(text)
	if err != nil {
		return nil, errors.Wrap(err, "building CSA")
	}
	l := lcp.Build(c)

	n, err := buildNPR(l, cfg)
	if err != nil {
		return nil, err
	}

	tree := cst.New(c, l, n)
	return &Index{CSA: c, LCP: l, NPR: n, Tree: tree, Cfg: cfg}, nil
}

func buildNPR(l lcp.LCP, cfg Config) (npr.Index, error) {
	switch cfg.NPRKind {
	case "npr-cn":
		return npr.BuildCN(l, cfg.BlockSize), nil
	case "npr-cnr":
		return npr.BuildCNR(l, cfg.SmallBlock, cfg.BlockSize), nil
	default:
		return nil, errors.Errorf("unknown npr kind %q", cfg.NPRKind)
	}
}

// WriteTo serializes idx's CSA, LCP, and NPR layers in order, returning the
// total number of bytes written.
func WriteTo(w io.Writer, idx *Index) (int64, error) {
	var total int64

	n, err := idx.CSA.WriteTo(w)
	total += n
	if err != nil {
		return total, errors.Wrap(err, "writing CSA")
	}

	n, err = idx.LCP.WriteTo(w)
	total += n
	if err != nil {
		return total, errors.Wrap(err, "writing LCP")
	}

	n, err = idx.NPR.WriteTo(w)
	total += n
	if err != nil {
		return total, errors.Wrap(err, "writing NPR")
	}

	return total, nil
}

// Load reads back an index previously written with WriteTo, using cfg to
// pick the matching CSA/LCP/NPR variants and block sizes.
func Load(r io.Reader, cfg Config) (*Index, error) {
	if cfg.CSAKind != "plain" {
		return nil, errors.Errorf("unknown csa kind %q", cfg.CSAKind)
	}
	c, err := csa.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading CSA")
	}

	if cfg.LCPKind != "kasai" {
		return nil, errors.Errorf("unknown lcp kind %q", cfg.LCPKind)
	}
	l, err := lcp.Load(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading LCP")
	}

	n, err := loadNPR(r, cfg, l)
	if err != nil {
		return nil, err
	}

	tree := cst.New(c, l, n)
	return &Index{CSA: c, LCP: l, NPR: n, Tree: tree, Cfg: cfg}, nil
}

func loadNPR(r io.Reader, cfg Config, l lcp.LCP) (npr.Index, error) {
	switch cfg.NPRKind {
	case "npr-cn":
		n, err := npr.LoadCN(r, cfg.BlockSize, l)
		if err != nil {
			return nil, errors.Wrap(err, "reading NPR (npr-cn)")
		}
		return n, nil
	case "npr-cnr":
		n, err := npr.LoadCNR(r, cfg.SmallBlock, cfg.BlockSize, l)
		if err != nil {
			return nil, errors.Wrap(err, "reading NPR (npr-cnr)")
		}
		return n, nil
	default:
		return nil, errors.Errorf("unknown npr kind %q", cfg.NPRKind)
	}
}
