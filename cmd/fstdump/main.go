// Command fstdump walks an FST waveform container end-to-end and emits,
// for each block it finds, human-inspectable metadata and decoded/
// decompressed payloads under an output directory.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/arloliu/fstdump/block"
	"github.com/arloliu/fstdump/internal/sink"
)

func main() {
	outputDir := flag.String("output_dir", "output_blocks", "directory to save extracted blocks")
	verbose := flag.Bool("verbose", false, "log a one-line progress summary per block")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] input_fst\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	inputPath := flag.Arg(0)

	if err := run(inputPath, *outputDir, *verbose); err != nil {
		log.Printf("fstdump: %v", err)
		os.Exit(1)
	}
}

func run(inputPath, outputDir string, verbose bool) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", inputPath, err)
	}
	defer f.Close()

	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("reset output dir %s: %w", outputDir, err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", outputDir, err)
	}

	s := sink.New(outputDir)
	s.SetVerbose(verbose)

	w := block.NewWalker(s)
	w.SetVerbose(verbose)

	return w.Walk(f)
}
