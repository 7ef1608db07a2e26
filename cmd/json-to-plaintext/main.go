package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"lingeval/pkg/contrastive"
)

func main() {
	srcExt := flag.String("src-ext", "en", "Extension of the source-side output file")
	tgtExt := flag.String("tgt-ext", "de", "Extension of the target-side output file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] PREFIX\n\nReads PREFIX.json and writes PREFIX.<src-ext> and PREFIX.<tgt-ext>.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	prefix := flag.Arg(0)

	entries, err := contrastive.LoadFile(prefix + ".json")
	if err != nil {
		log.Fatalf("Failed to load reference: %v", err)
	}

	src, err := os.Create(prefix + "." + *srcExt)
	if err != nil {
		log.Fatalf("Failed to create source file: %v", err)
	}
	defer src.Close()

	tgt, err := os.Create(prefix + "." + *tgtExt)
	if err != nil {
		log.Fatalf("Failed to create target file: %v", err)
	}
	defer tgt.Close()

	lines, err := contrastive.WritePlaintext(entries, src, tgt)
	if err != nil {
		log.Fatalf("Failed to write plaintext: %v", err)
	}
	log.Printf("Wrote %d sentence pairs for %d entries", lines, len(entries))
}
