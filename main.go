package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"IndexDB/pagefile"
	executor "IndexDB/query_executor"
	"IndexDB/recordfile"
)

func main() {
	dir := flag.String("dir", "data", "directory holding <table>.tbl and <table>.idx files")
	pageSize := flag.Int("pagesize", pagefile.DefaultPageSize, "page size of table and index files")
	cacheSize := flag.Int64("cache", recordfile.DefaultCacheSize, "record read cache per open table, in bytes (0 disables)")
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("IndexDB: ")

	engine, err := executor.New(*dir, os.Stdout,
		executor.WithPageSize(*pageSize),
		executor.WithCacheSize(*cacheSize))
	if err != nil {
		log.Fatal(err)
	}

	scanner := bufio.NewScanner(os.Stdin)
	// REPL
	for {
		fmt.Print("IndexDB> ")

		if !scanner.Scan() { // Ctrl+D pressed
			fmt.Println()
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			break
		}
		if line == "" {
			continue
		}

		start := time.Now()
		if err := engine.ExecuteSQL(line); err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		fmt.Printf("(%s)\n", time.Since(start).Round(time.Microsecond))
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}
}
