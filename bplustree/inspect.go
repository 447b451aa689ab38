// Index file inspection for debugging.
// Use InspectIndexFile(path) to print a human-readable dump of an index (.idx).

package bplus

import (
	"fmt"
	"io"
	"os"

	"IndexDB/pagefile"

	"github.com/dustin/go-humanize"
)

// Stats summarizes the shape of an index.
type Stats struct {
	Height        int
	RootPageID    PageID
	InteriorPages int
	LeafPages     int
	Keys          int
	PageSize      int
	TotalPages    int
}

// Stats walks every node level by level.
func (t *Index) Stats() (Stats, error) {
	s := Stats{Height: int(t.height), RootPageID: t.root}
	if t.pager == nil {
		return s, ErrClosed
	}
	s.PageSize = t.pager.PageSize()
	s.TotalPages = int(t.pager.EndPageID())

	err := t.walk(func(level int32, pid PageID, interior *InteriorNode, leaf *LeafNode) {
		if interior != nil {
			s.InteriorPages++
			return
		}
		s.LeafPages++
		s.Keys += leaf.KeyCount()
	})
	return s, err
}

// walk visits the tree breadth first. Exactly one of interior / leaf is set.
func (t *Index) walk(visit func(level int32, pid PageID, interior *InteriorNode, leaf *LeafNode)) error {
	if t.root == InvalidPageID {
		return nil
	}
	queue := []PageID{t.root}
	for level := int32(1); len(queue) > 0; level++ {
		var next []PageID
		for _, pid := range queue {
			if level < t.height {
				node, err := t.readInterior(pid)
				if err != nil {
					return err
				}
				visit(level, pid, node, nil)
				next = append(next, node.children...)
				continue
			}
			leaf, err := t.readLeaf(pid)
			if err != nil {
				return err
			}
			visit(level, pid, nil, leaf)
		}
		queue = next
	}
	return nil
}

// Dump writes the meta data and a level-by-level listing of every node to w.
func (t *Index) Dump(w io.Writer) error {
	p := func(format string, args ...interface{}) { fmt.Fprintf(w, format, args...) }

	p("  Page 0 (meta): height = %d, root page id = %d\n", t.height, t.root)
	if t.root == InvalidPageID {
		fmt.Fprintln(w, "  (empty tree)")
		return nil
	}

	fmt.Fprintln(w, "\n  Nodes (BFS):")
	current := int32(0)
	err := t.walk(func(level int32, pid PageID, interior *InteriorNode, leaf *LeafNode) {
		if level != current {
			fmt.Fprintln(w, "  ---")
			p("  Level %d:\n", level)
			current = level
		}
		if interior != nil {
			p("    [page %d] INTERIOR keys=%v children=%v\n", pid, interior.keys, interior.children)
			return
		}
		p("    [page %d] LEAF numKeys=%d next=%d\n", pid, leaf.KeyCount(), leaf.next)
		for _, e := range leaf.entries {
			p("      %d -> %s\n", e.key, formatLocator(e.loc))
		}
	})
	fmt.Fprintln(w, "  ---")
	return err
}

// InspectIndexFile opens an index file read-only and prints its structure to stdout.
func InspectIndexFile(indexPath string, opts ...pagefile.Option) error {
	return InspectIndexFileTo(os.Stdout, indexPath, opts...)
}

// InspectIndexFileTo writes a human-readable dump of the index file to w.
func InspectIndexFileTo(w io.Writer, indexPath string, opts ...pagefile.Option) error {
	t, err := Open(indexPath, pagefile.ModeRead, opts...)
	if err != nil {
		return err
	}
	defer t.Close()

	s, err := t.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Index file: %s (%s, %s pages of %s)\n", indexPath,
		humanize.IBytes(uint64(s.TotalPages*s.PageSize)),
		humanize.Comma(int64(s.TotalPages)),
		humanize.IBytes(uint64(s.PageSize)))
	fmt.Fprintf(w, "  %s keys in %d leaf and %d interior pages (leaf cap %d, interior cap %d)\n",
		humanize.Comma(int64(s.Keys)), s.LeafPages, s.InteriorPages, t.leafCap, t.interiorCap)
	return t.Dump(w)
}

// formatLocator prints the raw locator bytes; the index does not know their
// meaning.
func formatLocator(loc Locator) string {
	return fmt.Sprintf("[% x]", loc[:])
}
