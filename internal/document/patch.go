// patch.go implements batch patch application against stored documents.
//
// Separated from write.go because applies are read-transform-write cycles
// with the engine in the middle. This file orchestrates: resolve the
// document, run the pure engine over its content, persist a new version
// when anything changed, record the batch outcome for audit, and notify
// extensions.
//
// Design: the engine itself never touches the store. Per-document
// serialisation comes from the store's transactional version allocation,
// so concurrent applies to the same path produce distinct versions rather
// than corruption. A batch that applies nothing still records a batches
// row - failed attempts are part of the document's story.

package document

import (
	"context"
	"fmt"
	"time"

	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/diff"
	"github.com/jpl-au/patchd/internal/patch"
	"github.com/jpl-au/patchd/internal/store"
	"github.com/jpl-au/patchd/internal/validate"
)

// ApplyBatch applies a patch batch to a document and writes a new version
// when the content changed. path can be a document path or a key.
//
// Unapplied edits are not an error: the outcome reports them and the edits
// that did match are still written. With opts.Strict set, any unapplied edit
// aborts the whole batch before anything is written.
func (s *Service) ApplyBatch(ctx context.Context, path string, opts patch.Options) (patch.Outcome, error) {
	if err := validate.Batch(opts.Edits, s.maxBatchEdits); err != nil {
		return patch.Outcome{}, err
	}

	doc, _, err := s.Resolve(ctx, path, false)
	if err != nil {
		return patch.Outcome{}, fmt.Errorf("apply %q: %w", path, err)
	}
	path = doc.Path // Use resolved path

	res := patch.Apply(doc.Content, opts.Edits, s.passes(opts.MaxPasses))
	out := s.outcome(path, doc, res)

	if opts.Strict && res.Unapplied > 0 {
		return out, fmt.Errorf("apply %q: %w (%d of %d)", path, patch.ErrUnapplied, res.Unapplied, len(opts.Edits))
	}

	author := opts.Author
	if author == "" {
		author = DefaultAuthor
	}

	if out.Changed {
		writeOpts := store.WriteOptions{
			Author:     author,
			Message:    opts.Message,
			MaxPath:    s.maxPath,
			MaxContent: s.maxContent,
		}
		if err := s.store.Write(ctx, path, res.Content, writeOpts); err != nil {
			return out, fmt.Errorf("apply %q: write: %w", path, err)
		}
		out.Version = doc.Version + 1
	}

	if err := s.recordBatch(ctx, out, doc.Version, author); err != nil {
		return out, err
	}

	event := extension.PatchApplyEvent{
		Path:      path,
		Version:   out.Version,
		Applied:   res.Applied,
		Skipped:   res.Skipped,
		Unapplied: res.Unapplied,
		Author:    author,
	}
	if out.Changed {
		event.Content = res.Content
	}
	s.fireEvent(event)
	return out, nil
}

// PreviewBatch runs a batch through the engine without writing anything and
// returns the outcome plus a formatted diff of the would-be change.
func (s *Service) PreviewBatch(ctx context.Context, path string, opts patch.Options) (patch.Outcome, string, error) {
	if err := validate.Batch(opts.Edits, s.maxBatchEdits); err != nil {
		return patch.Outcome{}, "", err
	}

	doc, _, err := s.Resolve(ctx, path, false)
	if err != nil {
		return patch.Outcome{}, "", fmt.Errorf("preview %q: %w", path, err)
	}

	res := patch.Apply(doc.Content, opts.Edits, s.passes(opts.MaxPasses))
	out := s.outcome(doc.Path, doc, res)

	var rendered string
	if out.Changed {
		r := diff.Compute(doc.Content, res.Content,
			fmt.Sprintf("%s (v%d)", doc.Path, doc.Version),
			fmt.Sprintf("%s (patched)", doc.Path))
		rendered = r.Format(false)
	}
	return out, rendered, nil
}

// Batches returns batch application records for a document, newest first.
// Pass empty path for records across all documents; limit 0 for everything.
func (s *Service) Batches(ctx context.Context, path string, limit int) ([]store.Batch, error) {
	if path != "" {
		doc, _, err := s.Resolve(ctx, path, true)
		if err != nil {
			return nil, fmt.Errorf("batches %q: %w", path, err)
		}
		path = doc.Path
	}
	return s.store.ListBatches(ctx, path, limit)
}

// outcome builds the caller-facing outcome from an engine result, attaching
// a closest-match hint when the first unapplied edit has a near-miss in the
// document.
func (s *Service) outcome(path string, doc *store.Document, res patch.Result) patch.Outcome {
	out := patch.Outcome{
		Path:           path,
		Applied:        res.Applied,
		Skipped:        res.Skipped,
		Unapplied:      res.Unapplied,
		Passes:         res.Passes,
		Changed:        res.Content != doc.Content,
		FirstUnapplied: res.FirstUnapplied,
	}
	if res.FirstUnapplied != nil {
		out.Hint = diff.Hint(doc.Content, res.FirstUnapplied.Original)
	}
	return out
}

// recordBatch persists the audit row for one apply. The row is written even
// for no-op applies so failed attempts remain visible in history.
func (s *Service) recordBatch(ctx context.Context, out patch.Outcome, versionFrom int, author string) error {
	_, err := s.store.RecordBatch(ctx, store.Batch{
		Path:        out.Path,
		VersionFrom: versionFrom,
		VersionTo:   out.Version,
		Applied:     out.Applied,
		Skipped:     out.Skipped,
		Unapplied:   out.Unapplied,
		Passes:      out.Passes,
		Author:      author,
		CreatedAt:   time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("record batch for %q: %w", out.Path, err)
	}
	return nil
}

// passes resolves the pass bound for one call: an explicit override wins,
// otherwise the configured default.
func (s *Service) passes(override int) int {
	if override > 0 {
		return override
	}
	return s.maxPasses
}
