// Package history renders a document's version trail, optionally with
// diffs. Versions come from writes and from batch applies; the batches
// table records which were which, and history joins the two so patched
// versions show their edit counts.
package history

import (
	"context"
	"fmt"
	"io"

	"github.com/jpl-au/patchd/internal/format"
	"github.com/jpl-au/patchd/internal/service"
	"github.com/jpl-au/patchd/internal/store"
)

// Options configures a history operation.
type Options struct {
	Limit          int  // maximum versions to return (0 = all)
	IncludeDeleted bool // include deleted versions
	ShowDiff       bool // show diffs between versions
	Colour         bool // colourise diff output
}

// Result contains the outcome of a history operation.
type Result struct {
	Versions []store.Document
}

// Run retrieves a document's history and writes it to w. path can be a
// document path or a key; a key selects that version's document.
func Run(ctx context.Context, w io.Writer, svc service.Service, path string, opts Options) (Result, error) {
	var result Result

	doc, _, err := svc.Resolve(ctx, path, opts.IncludeDeleted)
	if err != nil {
		return result, err
	}
	path = doc.Path

	docs, err := svc.History(ctx, path, opts.Limit, opts.IncludeDeleted)
	if err != nil {
		return result, err
	}

	if len(docs) == 0 {
		return result, fmt.Errorf("no history found for %s", path)
	}

	result.Versions = docs

	byVersion, err := batchesByVersion(ctx, svc, path)
	if err != nil {
		return result, err
	}

	if opts.ShowDiff {
		err = format.HistoryDiff(w, docs, byVersion, opts.Colour)
	} else {
		err = format.History(w, docs, byVersion)
	}

	return result, err
}

// batchesByVersion indexes the document's batch records by the version each
// one produced. No-op applies (versionTo 0) created no version and are left
// out; they are visible through the batches command instead.
func batchesByVersion(ctx context.Context, svc service.Service, path string) (map[int]store.Batch, error) {
	batches, err := svc.Batches(ctx, path, 0)
	if err != nil {
		return nil, fmt.Errorf("batches for %s: %w", path, err)
	}

	byVersion := make(map[int]store.Batch, len(batches))
	for _, b := range batches {
		if b.VersionTo > 0 {
			byVersion[b.VersionTo] = b
		}
	}
	return byVersion, nil
}
