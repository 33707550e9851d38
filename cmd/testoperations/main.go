// testOperations loads a previously-built CST-CN index and measures the
// average latency of its navigation primitives over random samples
// (spec.md §6).
package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rcanovas/cst-cn/internal/cst"
	"github.com/rcanovas/cst-cn/internal/indexio"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

const (
	ancestorSamples = 10000
	suffixSamples   = 1000
	lcaSamples      = 100000
)

var (
	nprKind    string
	csaKind    string
	lcpKind    string
	blockSize  uint8
	smallBlock uint8
)

var rootCmd = &cobra.Command{
	Use:   "testOperations <index_file>",
	Short: "Measure average nanoseconds per CST-CN operation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&nprKind, "index-type", "w", "npr-cn", "navigation primitive variant: npr-cn or npr-cnr")
	flags.StringVarP(&csaKind, "csa-kind", "c", "plain", "compressed suffix array implementation")
	flags.StringVarP(&lcpKind, "lcp-kind", "l", "kasai", "LCP array construction method")
	flags.Uint8VarP(&blockSize, "block-size", "b", 32, "block size for npr-cn, or level-2+ block size for npr-cnr (8, 16, or 32)")
	flags.Uint8VarP(&smallBlock, "small-block", "s", 8, "small block size for npr-cnr levels 0/1 (4 or 8); unused for npr-cn")
}

func run(indexFile string) error {
	if err := validateParams(); err != nil {
		return err
	}

	f, err := os.Open(indexFile)
	if err != nil {
		return errors.Wrapf(err, "opening index file %q", indexFile)
	}
	defer f.Close()

	cfg := indexio.Config{
		CSAKind:    csaKind,
		LCPKind:    lcpKind,
		NPRKind:    nprKind,
		BlockSize:  blockSize,
		SmallBlock: smallBlock,
	}
	idx, err := indexio.Load(f, cfg)
	if err != nil {
		return errors.Wrap(err, "loading index")
	}
	log.Info().Str("file", indexFile).Uint64("n", idx.Tree.Size()).
		Uint64("nodes", idx.Tree.Nodes()).Msg("index loaded")

	r := rand.New(rand.NewSource(1))
	benchmarkAncestorPath(idx.Tree, r)
	benchmarkSuffixLinks(idx.Tree, r)
	benchmarkLCA(idx.Tree, r)
	return nil
}

func validateParams() error {
	switch nprKind {
	case "npr-cn", "npr-cnr":
	default:
		return errors.Errorf("unknown index type %q: want npr-cn or npr-cnr", nprKind)
	}
	switch blockSize {
	case 8, 16, 32:
	default:
		return errors.Errorf("invalid block size %d: want one of 8, 16, 32", blockSize)
	}
	if nprKind == "npr-cnr" {
		switch smallBlock {
		case 4, 8:
		default:
			return errors.Errorf("invalid small block size %d: want 4 or 8", smallBlock)
		}
	}
	if csaKind != "plain" {
		return errors.Errorf("unknown csa kind %q: only plain is supported", csaKind)
	}
	if lcpKind != "kasai" {
		return errors.Errorf("unknown lcp kind %q: only kasai is supported", lcpKind)
	}
	return nil
}

// randomLeaf returns a uniformly random leaf node of tree.
func randomLeaf(tree *cst.CST, r *rand.Rand) cst.Node {
	n := tree.Size()
	return tree.SelectLeaf(uint64(r.Int63n(int64(n))) + 1)
}

// timeOp runs op `samples` times and reports the average latency.
func timeOp(name string, samples int, op func()) {
	start := time.Now()
	for i := 0; i < samples; i++ {
		op()
	}
	elapsed := time.Since(start)
	avgNs := float64(elapsed.Nanoseconds()) / float64(samples)
	log.Info().Str("op", name).Int("samples", samples).Float64("avg_ns", avgNs).Msg("measured")
}

// benchmarkAncestorPath times parent by walking from a random leaf up to the
// root, and times depth/first-child/sibling/node-depth/child once per random
// leaf (or its parent).
func benchmarkAncestorPath(tree *cst.CST, r *rand.Rand) {
	root := tree.Root()

	timeOp("parent", ancestorSamples, func() {
		v := randomLeaf(tree, r)
		for v != root {
			v = tree.Parent(v)
		}
	})

	timeOp("depth", ancestorSamples, func() {
		v := randomLeaf(tree, r)
		_ = tree.Depth(v)
	})

	timeOp("first_child", ancestorSamples, func() {
		v := randomLeaf(tree, r)
		p := v
		if v != root {
			p = tree.Parent(v)
		}
		_ = tree.SelectChild(p, 1)
	})

	timeOp("sibling", ancestorSamples, func() {
		v := randomLeaf(tree, r)
		if v != root {
			_ = tree.Sibling(v)
		}
	})

	timeOp("node_depth", ancestorSamples, func() {
		v := randomLeaf(tree, r)
		_ = tree.NodeDepth(v)
	})

	timeOp("child", ancestorSamples, func() {
		v := randomLeaf(tree, r)
		p := v
		if v != root {
			p = tree.Parent(v)
		}
		c := tree.Edge(v, tree.Depth(p)+1)
		_ = tree.Child(p, c)
	})
}

// benchmarkSuffixLinks times a single SL call per random leaf; it does not
// follow suffix-link chains.
func benchmarkSuffixLinks(tree *cst.CST, r *rand.Rand) {
	timeOp("suffix_link", suffixSamples, func() {
		v := randomLeaf(tree, r)
		_ = tree.SL(v)
	})
}

// benchmarkLCA samples random leaf pairs and computes their lowest common
// ancestor.
func benchmarkLCA(tree *cst.CST, r *rand.Rand) {
	timeOp("lca", lcaSamples, func() {
		v := randomLeaf(tree, r)
		w := randomLeaf(tree, r)
		_ = tree.LCA(v, w)
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("testOperations failed")
		os.Exit(1)
	}
}
