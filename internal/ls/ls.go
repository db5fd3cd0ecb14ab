// Package ls lists documents with filtering and sorting.
//
// Plain listings load full documents through List; the tree view needs the
// rows anyway and short listings are cheap. The long format instead asks
// the store for metadata only, because it displays size and version columns
// and loading every document's content just to measure it would be wasted
// work. Both paths accept the same options.
package ls

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/jpl-au/patchd/internal/format"
	"github.com/jpl-au/patchd/internal/service"
	"github.com/jpl-au/patchd/internal/store"
)

// SortField selects the listing order. Time order puts the newest version
// first, which answers "what changed recently?" directly.
type SortField string

const (
	SortNone SortField = ""
	SortName SortField = "name"
	SortTime SortField = "time"
)

// Options configures a list operation.
type Options struct {
	Prefix      string    // Filter by path prefix
	IncludeAll  bool      // Include deleted documents
	DeletedOnly bool      // Show only deleted documents
	Tree        bool      // Display as tree
	Long        bool      // Long format with metadata
	Sort        SortField // Sort field (name, time)
	Reverse     bool      // Reverse sort order
}

// Result contains the outcome of a list operation. Exactly one of
// Documents or Metas is populated: plain listings fill Documents, the long
// format fills Metas.
type Result struct {
	Documents []store.Document
	Metas     []store.DocumentMeta
}

// Count returns the number of documents in the result.
func (r Result) Count() int {
	if len(r.Metas) > 0 {
		return len(r.Metas)
	}
	return len(r.Documents)
}

// MetaJSON is the API-friendly representation of DocumentMeta.
type MetaJSON struct {
	Key       string `json:"key"`
	Path      string `json:"path"`
	Version   int    `json:"version"`
	Author    string `json:"author"`
	Message   string `json:"message,omitempty"`
	CreatedAt string `json:"created_at"`
	Size      int64  `json:"size"`
	Deleted   bool   `json:"deleted,omitempty"`
}

// ToJSON converts the result to JSON-serialisable form.
func (r Result) ToJSON() any {
	if len(r.Metas) > 0 {
		out := make([]MetaJSON, len(r.Metas))
		for i, m := range r.Metas {
			out[i] = MetaJSON{
				Key:       m.Key,
				Path:      m.Path,
				Version:   m.Version,
				Author:    m.Author,
				Message:   m.Message,
				CreatedAt: time.Unix(m.CreatedAt, 0).UTC().Format(time.RFC3339),
				Size:      m.Size,
				Deleted:   m.DeletedAt != nil,
			}
		}
		return out
	}
	out := make([]store.DocJSON, len(r.Documents))
	for i := range r.Documents {
		out[i] = r.Documents[i].ToJSON(false)
	}
	return out
}

// sortItems orders a listing by the selected field. Name order is
// alphabetical by path; time order is newest first. Equal timestamps fall
// back to path so repeated runs print identically.
func sortItems[T any](items []T, field SortField, reverse bool, path func(T) string, created func(T) int64) {
	byPath := func(i, j int) bool {
		if reverse {
			return path(items[i]) > path(items[j])
		}
		return path(items[i]) < path(items[j])
	}

	switch field {
	case SortName:
		sort.Slice(items, byPath)
	case SortTime:
		sort.Slice(items, func(i, j int) bool {
			ci, cj := created(items[i]), created(items[j])
			if ci == cj {
				return byPath(i, j)
			}
			if reverse {
				return ci < cj
			}
			return ci > cj
		})
	}
}

// Run lists documents and writes formatted output to w. The long format is
// delegated to runLong so everything else can share the full-document path.
func Run(ctx context.Context, w io.Writer, svc service.Service, opts Options) (Result, error) {
	var result Result

	if opts.Long {
		return runLong(ctx, w, svc, opts)
	}

	docs, err := svc.List(ctx, opts.Prefix, opts.IncludeAll, opts.DeletedOnly)
	if err != nil {
		return result, err
	}

	sortItems(docs, opts.Sort, opts.Reverse,
		func(d store.Document) string { return d.Path },
		func(d store.Document) int64 { return d.CreatedAt })

	result.Documents = docs

	if opts.Tree {
		err = format.Tree(w, docs)
	} else {
		err = format.List(w, docs)
	}

	return result, err
}

// runLong renders the metadata table. ListMeta computes size with SQL
// length(), so content never leaves the database.
func runLong(ctx context.Context, w io.Writer, svc service.Service, opts Options) (Result, error) {
	var result Result

	// ListMeta takes one deleted flag, so -A and -D both widen the query;
	// -D then narrows the rows below.
	includeDeleted := opts.IncludeAll || opts.DeletedOnly
	metas, err := svc.ListMeta(ctx, opts.Prefix, includeDeleted)
	if err != nil {
		return result, err
	}

	if opts.DeletedOnly {
		var filtered []store.DocumentMeta
		for _, m := range metas {
			if m.DeletedAt != nil {
				filtered = append(filtered, m)
			}
		}
		metas = filtered
	}

	sortItems(metas, opts.Sort, opts.Reverse,
		func(m store.DocumentMeta) string { return m.Path },
		func(m store.DocumentMeta) int64 { return m.CreatedAt })

	result.Metas = metas
	err = format.LongMeta(w, metas)
	return result, err
}
