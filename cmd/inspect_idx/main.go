// Inspect a B+ tree index file (.idx).
// Usage: go run ./cmd/inspect_idx [-pagesize 1024] <path-to-.idx>
// Example: go run ./cmd/inspect_idx data/students.idx
package main

import (
	"flag"
	"fmt"
	"os"

	bplus "IndexDB/bplustree"
	"IndexDB/pagefile"
)

func main() {
	pageSize := flag.Int("pagesize", pagefile.DefaultPageSize, "page size the index was written with")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-pagesize n] <index.idx>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Example: %s data/students.idx\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)
	if err := bplus.InspectIndexFile(path, pagefile.WithPageSize(*pageSize)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
