// Package format renders documents, history, and search results for the
// terminal: column alignment, tree drawing, and diff presentation.
package format

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jpl-au/patchd/internal/diff"
	"github.com/jpl-au/patchd/internal/store"
)

func humanSize(bytes int64) string {
	const (
		_        = iota
		kb int64 = 1 << (10 * iota)
		mb
		gb
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1fG", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.1fM", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1fK", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

// List prints one document per line: key, optional deleted marker, path.
func List(w io.Writer, docs []store.Document) error {
	for _, doc := range docs {
		prefix := ""
		if doc.DeletedAt != nil {
			prefix = "[deleted] "
		}
		fmt.Fprintf(w, "%s  %s%s\n", doc.Key, prefix, doc.Path)
	}
	return nil
}

// Long prints documents with key, version, date, and author columns.
func Long(w io.Writer, docs []store.Document) error {
	if len(docs) == 0 {
		return nil
	}

	maxPath := len("PATH")
	for _, doc := range docs {
		if len(doc.Path) > maxPath {
			maxPath = len(doc.Path)
		}
	}

	fmt.Fprintf(w, "%-8s  %-*s  %4s  %-10s  %s\n", "KEY", maxPath, "PATH", "VER", "UPDATED", "AUTHOR")

	for _, doc := range docs {
		date := time.Unix(doc.CreatedAt, 0).Format("2006-01-02")
		author := doc.Author
		if author == "" {
			author = "-"
		}
		deleted := ""
		if doc.DeletedAt != nil {
			deleted = " [deleted]"
		}
		fmt.Fprintf(w, "%s  %-*s  v%-3d  %s  %s%s\n", doc.Key, maxPath, doc.Path, doc.Version, date, author, deleted)
	}
	return nil
}

// LongMeta prints document metadata rows. Fixed-width columns lead; the
// variable-width author and path go last so they cannot skew alignment.
func LongMeta(w io.Writer, metas []store.DocumentMeta) error {
	if len(metas) == 0 {
		return nil
	}

	maxAuthor := len("AUTHOR")
	for _, m := range metas {
		author := m.Author
		if author == "" {
			author = "-"
		}
		if len(author) > maxAuthor {
			maxAuthor = len(author)
		}
	}

	fmt.Fprintf(w, "%4s  %-8s  %6s  %-16s  %-*s  %s\n", "VER", "KEY", "SIZE", "UPDATED", maxAuthor, "AUTHOR", "PATH")

	for _, m := range metas {
		updated := time.Unix(m.CreatedAt, 0).Format("2006-01-02 15:04")
		author := m.Author
		if author == "" {
			author = "-"
		}
		deleted := ""
		if m.DeletedAt != nil {
			deleted = " [deleted]"
		}
		fmt.Fprintf(w, "%4d  %s  %6s  %s  %-*s  %s%s\n", m.Version, m.Key, humanSize(m.Size), updated, maxAuthor, author, m.Path, deleted)
	}
	return nil
}

// Tree prints documents as a directory tree.
func Tree(w io.Writer, docs []store.Document) error {
	if len(docs) == 0 {
		return nil
	}

	type node struct {
		name     string
		children map[string]*node
		isDoc    bool
		deleted  bool
	}

	root := &node{children: make(map[string]*node)}

	for _, doc := range docs {
		parts := strings.Split(doc.Path, "/")
		current := root

		for i, part := range parts {
			if current.children[part] == nil {
				current.children[part] = &node{
					name:     part,
					children: make(map[string]*node),
				}
			}
			current = current.children[part]
			if i == len(parts)-1 {
				current.isDoc = true
				current.deleted = doc.DeletedAt != nil
			}
		}
	}

	var printNode func(n *node, prefix string)
	printNode = func(n *node, prefix string) {
		names := make([]string, 0, len(n.children))
		for name := range n.children {
			names = append(names, name)
		}
		sort.Strings(names)

		for i, name := range names {
			child := n.children[name]
			last := i == len(names)-1

			connector := "├── "
			if last {
				connector = "└── "
			}

			suffix := ""
			if !child.isDoc && len(child.children) > 0 {
				suffix = "/"
			}
			if child.deleted {
				suffix += " [deleted]"
			}

			fmt.Fprintf(w, "%s%s%s%s\n", prefix, connector, name, suffix)

			pfx := prefix
			if last {
				pfx += "    "
			} else {
				pfx += "│   "
			}

			if len(child.children) > 0 {
				printNode(child, pfx)
			}
		}
	}

	printNode(root, "")
	return nil
}

// patchSummary renders a batch record's edit counts, e.g.
// "2 applied, 1 unapplied". Skipped and unapplied only appear when nonzero.
func patchSummary(b store.Batch) string {
	s := fmt.Sprintf("%d applied", b.Applied)
	if b.Skipped > 0 {
		s += fmt.Sprintf(", %d skipped", b.Skipped)
	}
	if b.Unapplied > 0 {
		s += fmt.Sprintf(", %d unapplied", b.Unapplied)
	}
	return s
}

// History prints version history in list format. Versions created by a
// batch apply carry the batch's edit counts, so the audit trail tells
// patched versions from plain writes at a glance.
func History(w io.Writer, docs []store.Document, batches map[int]store.Batch) error {
	for _, doc := range docs {
		t := time.Unix(doc.CreatedAt, 0)
		msg := "-"
		if doc.Message != "" {
			msg = fmt.Sprintf("%q", doc.Message)
		}
		patched := ""
		if b, ok := batches[doc.Version]; ok {
			patched = fmt.Sprintf("  [patch: %s]", patchSummary(b))
		}
		fmt.Fprintf(w, "%s  v%-3d  %s  %-16s  %s%s\n",
			doc.Key,
			doc.Version,
			t.Format("2006-01-02 15:04"),
			doc.Author,
			msg,
			patched,
		)
	}
	return nil
}

// HistoryDiff prints version history with the diff between each adjacent
// pair. Docs arrive newest first.
func HistoryDiff(w io.Writer, docs []store.Document, batches map[int]store.Batch, colour bool) error {
	for i := 0; i < len(docs)-1; i++ {
		newer := docs[i]
		older := docs[i+1]

		t := time.Unix(newer.CreatedAt, 0)
		fmt.Fprintf(w, "=== v%d -> v%d (%s by %s) ===\n",
			older.Version, newer.Version,
			t.Format("2006-01-02 15:04"),
			newer.Author,
		)

		if newer.Message != "" {
			fmt.Fprintf(w, "Message: %s\n", newer.Message)
		}
		if b, ok := batches[newer.Version]; ok {
			fmt.Fprintf(w, "Patch: %s\n", patchSummary(b))
		}

		ol := "v" + strconv.Itoa(older.Version)
		nl := "v" + strconv.Itoa(newer.Version)
		r := diff.Compute(older.Content, newer.Content, ol, nl)
		fmt.Fprint(w, r.Format(colour))
		fmt.Fprintln(w)
	}
	return nil
}

// SearchResults prints matching lines as path:line: content, truncated to
// keep rows on one screen line.
func SearchResults(w io.Writer, docs []store.Document, query string) error {
	qLower := strings.ToLower(strings.TrimSuffix(query, "*"))
	for _, doc := range docs {
		for i, line := range strings.Split(doc.Content, "\n") {
			if !strings.Contains(strings.ToLower(line), qLower) {
				continue
			}
			display := line
			if len(display) > 80 {
				display = display[:77] + "..."
			}
			fmt.Fprintf(w, "%s:%d: %s\n", doc.Path, i+1, display)
		}
	}
	return nil
}

// Paths prints document paths, one per line.
func Paths(w io.Writer, docs []store.Document) error {
	for _, doc := range docs {
		fmt.Fprintln(w, doc.Path)
	}
	return nil
}
