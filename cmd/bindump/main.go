// Copyright (c) 2025 Miðeind ehf
// SPDX-License-Identifier: MIT

// bindump is a small example program that exercises the bin engine
// against real data and prints the decoded entries for a query word,
// the way the teacher repository's cmd/main.go exercises bart against
// real routing tables. It is glue, not part of the core (spec §1).
package main

import (
	"flag"
	"log"
	"time"

	"github.com/mideind/binbart"
)

func main() {
	log.SetFlags(log.Lmicroseconds)

	image := flag.String("image", "", "path to the main BÍN image")
	prefixDAWG := flag.String("prefix-dawg", "", "path to the prefix DAWG")
	suffixDAWG := flag.String("suffix-dawg", "", "path to the suffix DAWG")
	sentenceStart := flag.Bool("sentence-start", false, "treat the word as sentence-initial")
	augmented := flag.Bool("augmented", false, "print augmented (ksnid) entries")
	flag.Parse()

	if *image == "" || flag.NArg() != 1 {
		log.Fatalf("usage: bindump -image PATH [-prefix-dawg PATH -suffix-dawg PATH] [-sentence-start] [-augmented] WORD")
	}

	cfg := bin.DefaultConfig()
	cfg.MainImagePath = *image
	cfg.PrefixDAWGPath = *prefixDAWG
	cfg.SuffixDAWGPath = *suffixDAWG
	cfg.AddCompounds = *prefixDAWG != "" && *suffixDAWG != ""

	ts := time.Now()
	e, err := bin.New(cfg)
	if err != nil {
		log.Fatalf("bin.New: %v", err)
	}
	defer e.Close()
	log.Printf("loaded image in %v", time.Since(ts))

	word := flag.Arg(0)

	if *augmented {
		key, entries := e.LookupKsnid(word, *sentenceStart, false)
		log.Printf("search key: %q, %d entries", key, len(entries))
		for _, en := range entries {
			log.Printf("  %s (%s/%s/%d) %s %q  correctness=%d publication=%c",
				en.Lemma, en.WordClass, en.Domain, en.LemmaID, en.Surface, en.Tag,
				en.Correctness, en.Publication)
		}
		return
	}

	key, entries := e.Lookup(word, *sentenceStart, false)
	log.Printf("search key: %q, %d entries", key, len(entries))
	for _, en := range entries {
		log.Printf("  %s (%s/%s/%d) %s %q", en.Lemma, en.WordClass, en.Domain, en.LemmaID, en.Surface, en.Tag)
	}
}
