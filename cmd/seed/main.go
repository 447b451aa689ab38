// Seed program: writes sample load files and loads them into data/demo.
// Run: go run ./cmd/seed
// Then inspect: data/demo/*.tbl (records) and data/demo/*.idx (B+ tree indexes).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	executor "IndexDB/query_executor"
)

func main() {
	baseDir := flag.String("dir", "data/demo", "directory to seed")
	rows := flag.Int("rows", 2000, "rows in the generated numbers table")
	pageSize := flag.Int("pagesize", 1024, "page size of table and index files")
	seed := flag.Int64("seed", 1, "random seed for generated keys")
	flag.Parse()

	if err := os.MkdirAll(*baseDir, 0755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}

	engine, err := executor.New(*baseDir, os.Stdout, executor.WithPageSize(*pageSize))
	if err != nil {
		log.Fatalf("engine: %v", err)
	}

	run := func(sql string) {
		fmt.Println(">", sql)
		if err := engine.ExecuteSQL(sql); err != nil {
			log.Fatalf("execute %q: %v", sql, err)
		}
	}

	// Table 1: students, small and indexed
	students := writeLoadFile(*baseDir, "students.txt", func(w *bufio.Writer) {
		for i, name := range []string{"Alice", "Bob", "Carol", "Dave", "Eve", "Frank"} {
			fmt.Fprintf(w, "%d, '%s'\n", 1001+i, name)
		}
	})
	run(fmt.Sprintf("LOAD students FROM '%s' WITH INDEX", students))

	// Table 2: numbers, random keys with duplicates, big enough for a multi-level index
	r := rand.New(rand.NewSource(*seed))
	numbers := writeLoadFile(*baseDir, "numbers.txt", func(w *bufio.Writer) {
		for i := 0; i < *rows; i++ {
			k := r.Intn(*rows) - *rows/2
			fmt.Fprintf(w, "%d, \"n%d_%d\"\n", k, k, i)
		}
	})
	run(fmt.Sprintf("LOAD numbers FROM '%s' WITH INDEX", numbers))

	// Table 3: log, no index
	logFile := writeLoadFile(*baseDir, "log.txt", func(w *bufio.Writer) {
		for i := 0; i < 50; i++ {
			fmt.Fprintf(w, "%d, event %d\n", i%10, i)
		}
	})
	run(fmt.Sprintf("LOAD log FROM '%s'", logFile))

	fmt.Println("\n--- queries ---")
	run("SELECT * FROM students")
	run("SELECT value FROM students WHERE key >= 1003 AND key < 1005")
	run("SELECT COUNT(*) FROM numbers")
	run("SELECT key FROM numbers WHERE key > -10 AND key <= 10 AND key <> 0")
	run("SELECT COUNT(*) FROM log WHERE key = 3")

	fmt.Println("\nDone. Inspect:")
	fmt.Println("  - Record files:", filepath.Join(*baseDir, "*.tbl"))
	fmt.Println("  - Indexes:     ", filepath.Join(*baseDir, "*.idx"), "(go run ./cmd/inspect_idx <file>)")
}

func writeLoadFile(dir, name string, fill func(w *bufio.Writer)) string {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("create %s: %v", path, err)
	}
	w := bufio.NewWriter(f)
	fill(w)
	if err := w.Flush(); err != nil {
		log.Fatalf("write %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("close %s: %v", path, err)
	}
	return path
}
