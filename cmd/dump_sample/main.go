// Command dump_sample reseeds a demo database and writes a report of every
// table and index in it to one text file.
//
//	go run ./cmd/dump_sample -out report.txt
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	bplus "IndexDB/bplustree"
	"IndexDB/pagefile"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

func main() {
	out := flag.String("out", "sample_run_output.txt", "report file")
	dir := flag.String("dir", "data/demo", "database directory, relative to the module root")
	pageSize := flag.Int("pagesize", 1024, "page size passed to the seed and the inspector")
	reseed := flag.Bool("seed", true, "wipe the directory and rerun cmd/seed first")
	flag.Parse()

	root, err := moduleRoot()
	if err != nil {
		log.Fatalf("locate module root: %v", err)
	}
	dbDir := filepath.Join(root, *dir)

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create %s: %v", *out, err)
	}
	defer f.Close()

	if *reseed {
		if err := os.RemoveAll(dbDir); err != nil {
			log.Fatalf("clear %s: %v", dbDir, err)
		}
		section(f, "seed")
		if err := runSeed(f, root, *dir, *pageSize); err != nil {
			fmt.Fprintf(f, "seed failed: %v\n", err)
		}
	}

	tables, _ := filepath.Glob(filepath.Join(dbDir, "*.tbl"))
	section(f, "tables")
	for _, path := range tables {
		fi, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(f, "%s: %v\n", filepath.Base(path), err)
			continue
		}
		fmt.Fprintf(f, "%-16s %s\n", filepath.Base(path), humanize.IBytes(uint64(fi.Size())))
	}

	indexes, _ := filepath.Glob(filepath.Join(dbDir, "*.idx"))
	sort.Strings(indexes)
	for _, path := range indexes {
		section(f, filepath.Base(path))
		if err := bplus.InspectIndexFileTo(f, path, pagefile.WithPageSize(*pageSize)); err != nil {
			fmt.Fprintf(f, "inspect failed: %v\n", err)
		}
	}

	log.Printf("%d tables, %d indexes reported to %s", len(tables), len(indexes), *out)
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n==== %s ====\n", title)
}

// runSeed executes cmd/seed from the module root so its relative paths resolve.
func runSeed(w io.Writer, root, dir string, pageSize int) error {
	cmd := exec.Command("go", "run", "./cmd/seed", "-dir", dir, "-pagesize", fmt.Sprint(pageSize))
	cmd.Dir = root
	cmd.Stdout = w
	cmd.Stderr = w
	return cmd.Run()
}

// moduleRoot walks up from the working directory to the nearest go.mod.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Errorf("no go.mod above %s", dir)
		}
		dir = parent
	}
}
