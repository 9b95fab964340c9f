// cmd/tools/vocab-check/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"catalog-enricher/internal/tags"
)

// vocab-check validates a tag-vocabulary file before it is deployed, so a
// malformed file fails here instead of aborting an enrichment run.
func main() {
	path := flag.String("path", "configs/tag-vocabulary.json", "Path to vocabulary file")
	list := flag.Bool("list", false, "Print the parsed keyword -> synonym table")
	flag.Parse()

	vocab, err := tags.LoadVocabulary(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OK: %s (%d keywords)\n", *path, len(vocab))
	if *list {
		keywords := make([]string, 0, len(vocab))
		for keyword := range vocab {
			keywords = append(keywords, keyword)
		}
		sort.Strings(keywords)
		for _, keyword := range keywords {
			fmt.Printf("  %-14s -> %v\n", keyword, vocab[keyword])
		}
	}
}
