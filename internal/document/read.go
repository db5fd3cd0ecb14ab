// read.go holds the Service's read-side operations. Each one normalises
// its path or prefix before touching the store, so "specs/auth" and
// "specs//auth" can never name two different documents regardless of which
// entry point (CLI, MCP, extension) issued the read.

package document

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jpl-au/patchd/internal/diff"
	"github.com/jpl-au/patchd/internal/glob"
	"github.com/jpl-au/patchd/internal/store"
)

// inPair runs two independent store lookups concurrently. Reads never block
// each other under WAL, so the pair costs one round trip instead of two.
func inPair(f1, f2 func()) {
	var wg sync.WaitGroup
	wg.Go(f1)
	wg.Go(f2)
	wg.Wait()
}

// Latest retrieves the newest version of the document at p.
func (s *Service) Latest(ctx context.Context, p string, includeDeleted bool) (*store.Document, error) {
	p, err := s.normalizePath(p)
	if err != nil {
		return nil, err
	}
	return s.store.Latest(ctx, p, includeDeleted)
}

// Version retrieves one specific version of the document at p.
func (s *Service) Version(ctx context.Context, p string, ver int) (*store.Document, error) {
	p, err := s.normalizePath(p)
	if err != nil {
		return nil, err
	}
	return s.store.Version(ctx, p, ver)
}

// ByKey retrieves the exact version carrying the given 8-char key.
func (s *Service) ByKey(ctx context.Context, key string) (*store.Document, error) {
	return s.store.ByKey(ctx, key)
}

// Resolve accepts either a path or a key, for entry points where the user
// types whichever they have to hand. Keys are exactly 8 characters, so any
// other length must be a path. An 8-character input is ambiguous: both
// lookups run, and the path wins, since a user who created a document at
// that path means the path, not a coincidentally matching key.
//
// A key names one fixed version; a path names the latest. The returned
// bool reports which kind of lookup matched: true means the input resolved
// as a key, so the document may be an older version.
func (s *Service) Resolve(ctx context.Context, pathOrKey string, includeDeleted bool) (*store.Document, bool, error) {
	if len(pathOrKey) != 8 {
		doc, err := s.Latest(ctx, pathOrKey, includeDeleted)
		return doc, false, err
	}

	var pathDoc, keyDoc *store.Document
	var pathErr, keyErr error
	inPair(
		func() { pathDoc, pathErr = s.Latest(ctx, pathOrKey, includeDeleted) },
		func() { keyDoc, keyErr = s.ByKey(ctx, pathOrKey) },
	)

	if pathErr == nil {
		return pathDoc, false, nil
	}
	if keyErr == nil {
		return keyDoc, true, nil
	}
	// Neither matched. The path error reads better for users.
	return nil, false, pathErr
}

// List returns the latest version of every document under prefix.
func (s *Service) List(ctx context.Context, prefix string, includeDeleted, deletedOnly bool) ([]store.Document, error) {
	prefix, err := s.normalizePrefix(prefix)
	if err != nil {
		return nil, err
	}
	return s.store.List(ctx, prefix, includeDeleted, deletedOnly)
}

// History returns a document's versions, newest first.
func (s *Service) History(ctx context.Context, p string, limit int, includeDeleted bool) ([]store.Document, error) {
	p, err := s.normalizePath(p)
	if err != nil {
		return nil, err
	}
	return s.store.History(ctx, p, limit, includeDeleted)
}

// Exists reports whether a live document exists at p, without fetching it.
func (s *Service) Exists(ctx context.Context, p string) (bool, error) {
	p, err := s.normalizePath(p)
	if err != nil {
		return false, err
	}
	return s.store.Exists(ctx, p)
}

// Count returns how many documents live under prefix.
func (s *Service) Count(ctx context.Context, prefix string) (int64, error) {
	prefix, err := s.normalizePrefix(prefix)
	if err != nil {
		return 0, err
	}
	return s.store.Count(ctx, prefix)
}

// Meta returns a document's metadata without its content.
func (s *Service) Meta(ctx context.Context, p string) (*store.DocumentMeta, error) {
	p, err := s.normalizePath(p)
	if err != nil {
		return nil, err
	}
	return s.store.Meta(ctx, p)
}

// Glob returns the stored paths matching pattern. An empty pattern matches
// everything.
func (s *Service) Glob(ctx context.Context, pattern string) ([]string, error) {
	all, err := s.store.ListPaths(ctx, "")
	if err != nil {
		return nil, err
	}

	if pattern == "" {
		return all, nil
	}

	var paths []string
	for _, p := range all {
		ok, err := glob.Match(pattern, p)
		if err != nil {
			return nil, err
		}
		if ok {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// Diff compares two pieces of document content and returns the computed
// diff. What gets compared depends on the options: a local file against a
// stored document, two documents, two versions of one document, or (by
// default) the latest version against the one before it.
func (s *Service) Diff(ctx context.Context, p string, opts diff.Options) (diff.Result, error) {
	var o, n, ol, nl string
	var err error

	switch {
	case opts.FileContent != "":
		o, n, ol, nl, err = s.diffWithFile(ctx, p, opts)
	case opts.Path2 != "":
		o, n, ol, nl, err = s.diffTwoPaths(ctx, p, opts)
	case opts.Version1 > 0 && opts.Version2 > 0:
		o, n, ol, nl, err = s.diffVersions(ctx, p, opts)
	default:
		o, n, ol, nl, err = s.diffPrevious(ctx, p, opts)
	}

	if err != nil {
		return diff.Result{}, err
	}
	return diff.Compute(o, n, ol, nl), nil
}

func pathLabel(p string, v int) string {
	return fmt.Sprintf("%s (v%d)", p, v)
}

func versionLabel(p string, v int) string {
	return fmt.Sprintf("%s v%d", p, v)
}

func (s *Service) diffWithFile(ctx context.Context, p string, opts diff.Options) (o, n, ol, nl string, err error) {
	np2, err := s.normalizePath(opts.Path2)
	if err != nil {
		return "", "", "", "", err
	}
	doc, err := s.store.Latest(ctx, np2, opts.IncludeDeleted)
	if err != nil {
		return "", "", "", "", fmt.Errorf("reading %s: %w", np2, err)
	}
	return opts.FileContent, doc.Content, p, pathLabel(np2, doc.Version), nil
}

func (s *Service) diffTwoPaths(ctx context.Context, p string, opts diff.Options) (o, n, ol, nl string, err error) {
	np1, err := s.normalizePath(p)
	if err != nil {
		return "", "", "", "", err
	}
	np2, err := s.normalizePath(opts.Path2)
	if err != nil {
		return "", "", "", "", err
	}

	var d1, d2 *store.Document
	var err1, err2 error
	inPair(
		func() { d1, err1 = s.store.Latest(ctx, np1, opts.IncludeDeleted) },
		func() { d2, err2 = s.store.Latest(ctx, np2, opts.IncludeDeleted) },
	)

	if err1 != nil {
		return "", "", "", "", fmt.Errorf("reading %s: %w", np1, err1)
	}
	if err2 != nil {
		return "", "", "", "", fmt.Errorf("reading %s: %w", np2, err2)
	}
	return d1.Content, d2.Content, pathLabel(np1, d1.Version), pathLabel(np2, d2.Version), nil
}

func (s *Service) diffVersions(ctx context.Context, p string, opts diff.Options) (o, n, ol, nl string, err error) {
	np, err := s.normalizePath(p)
	if err != nil {
		return "", "", "", "", err
	}

	var d1, d2 *store.Document
	var err1, err2 error
	inPair(
		func() { d1, err1 = s.store.Version(ctx, np, opts.Version1) },
		func() { d2, err2 = s.store.Version(ctx, np, opts.Version2) },
	)

	if err1 != nil {
		return "", "", "", "", fmt.Errorf("reading %s v%d: %w", np, opts.Version1, err1)
	}
	if err2 != nil {
		return "", "", "", "", fmt.Errorf("reading %s v%d: %w", np, opts.Version2, err2)
	}
	return d1.Content, d2.Content, versionLabel(np, opts.Version1), versionLabel(np, opts.Version2), nil
}

func (s *Service) diffPrevious(ctx context.Context, p string, opts diff.Options) (o, n, ol, nl string, err error) {
	np, err := s.normalizePath(p)
	if err != nil {
		return "", "", "", "", err
	}
	docs, err := s.store.History(ctx, np, 2, opts.IncludeDeleted)
	if err != nil {
		return "", "", "", "", err
	}
	if len(docs) < 2 {
		return "", "", "", "", fmt.Errorf("only one version exists for %s", np)
	}
	return docs[1].Content, docs[0].Content, versionLabel(np, docs[1].Version), versionLabel(np, docs[0].Version), nil
}

// ListPaths enumerates paths under prefix without loading content.
func (s *Service) ListPaths(ctx context.Context, prefix string) ([]string, error) {
	prefix, err := s.normalizePrefix(prefix)
	if err != nil {
		return nil, err
	}
	return s.store.ListPaths(ctx, prefix)
}

// ListDeletedPaths enumerates soft-deleted paths under prefix.
func (s *Service) ListDeletedPaths(ctx context.Context, prefix string) ([]string, error) {
	prefix, err := s.normalizePrefix(prefix)
	if err != nil {
		return nil, err
	}
	return s.store.ListDeletedPaths(ctx, prefix)
}

// ListMeta returns metadata rows for documents under prefix. Listings that
// only need size and version info use this to avoid hauling content.
func (s *Service) ListMeta(ctx context.Context, prefix string, includeDeleted bool) ([]store.DocumentMeta, error) {
	prefix, err := s.normalizePrefix(prefix)
	if err != nil {
		return nil, err
	}
	return s.store.ListMeta(ctx, prefix, includeDeleted)
}

// CountDeleted counts soft-deleted documents under prefix.
func (s *Service) CountDeleted(ctx context.Context, prefix string) (int64, error) {
	prefix, err := s.normalizePrefix(prefix)
	if err != nil {
		return 0, err
	}
	return s.store.CountDeleted(ctx, prefix)
}

// DeletedBefore returns paths deleted before t. Vacuum uses this to purge
// old deletions while leaving recent ones recoverable.
func (s *Service) DeletedBefore(ctx context.Context, t time.Time, prefix string) ([]string, error) {
	prefix, err := s.normalizePrefix(prefix)
	if err != nil {
		return nil, err
	}
	return s.store.DeletedBefore(ctx, t, prefix)
}

// VersionCount returns how many versions exist for p without loading them.
func (s *Service) VersionCount(ctx context.Context, p string) (int, error) {
	p, err := s.normalizePath(p)
	if err != nil {
		return 0, err
	}
	return s.store.VersionCount(ctx, p)
}

// ListAuthors returns every distinct author recorded in the store.
func (s *Service) ListAuthors(ctx context.Context) ([]string, error) {
	return s.store.ListAuthors(ctx)
}

// Stats returns aggregate figures for the whole database.
func (s *Service) Stats(ctx context.Context) (*store.Stats, error) {
	return s.store.Stats(ctx)
}
