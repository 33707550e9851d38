// createCST builds a CST-CN index from a text file and serializes it to
// disk (spec.md §6).
package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rcanovas/cst-cn/internal/indexio"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

var (
	tmpDir     string
	outPath    string
	nprKind    string
	csaKind    string
	lcpKind    string
	blockSize  uint8
	smallBlock uint8
)

var rootCmd = &cobra.Command{
	Use:   "createCST <text_file>",
	Short: "Build a CST-CN index from a text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&tmpDir, "tmp", "t", os.TempDir(), "scratch directory for intermediate construction files")
	flags.StringVarP(&outPath, "out", "o", "", "output index file (required)")
	flags.StringVarP(&nprKind, "index-type", "w", "npr-cn", "navigation primitive variant: npr-cn or npr-cnr")
	flags.StringVarP(&csaKind, "csa-kind", "c", "plain", "compressed suffix array implementation")
	flags.StringVarP(&lcpKind, "lcp-kind", "l", "kasai", "LCP array construction method")
	flags.Uint8VarP(&blockSize, "block-size", "b", 32, "block size for npr-cn, or level-2+ block size for npr-cnr (8, 16, or 32)")
	flags.Uint8VarP(&smallBlock, "small-block", "s", 8, "small block size for npr-cnr levels 0/1 (4 or 8); unused for npr-cn")
	_ = flags.MarkHidden("tmp") // kept for CLI-surface parity; construction here is fully in-memory
}

func run(textFile string) error {
	if outPath == "" {
		return errors.New("-o/--out is required")
	}
	if err := validateParams(); err != nil {
		return err
	}

	text, err := os.ReadFile(textFile)
	if err != nil {
		return errors.Wrapf(err, "reading text file %q", textFile)
	}
	log.Info().Str("file", textFile).Int("bytes", len(text)).Msg("building index")

	cfg := indexio.Config{
		CSAKind:    csaKind,
		LCPKind:    lcpKind,
		NPRKind:    nprKind,
		BlockSize:  blockSize,
		SmallBlock: smallBlock,
	}
	built, err := indexio.Build(text, cfg)
	if err != nil {
		return errors.Wrap(err, "building index")
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(err, "creating output file %q", outPath)
	}
	defer out.Close()

	written, err := indexio.WriteTo(out, built)
	if err != nil {
		return errors.Wrap(err, "serializing index")
	}
	log.Info().Str("file", outPath).Int64("bytes", written).
		Uint64("nodes", built.Tree.Nodes()).Msg("index written")
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

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("createCST failed")
		os.Exit(1)
	}
}
