// Package store holds the persistence types, the Store interface, and
// its SQLite implementation.
package store

import (
	"encoding/json"
	"time"
)

// Document is one version of a document. Writes never overwrite; each
// produces a new row with the next version number.
type Document struct {
	ID        int64  // database primary key
	Key       string // unique 8-char identifier for this version
	Path      string // e.g. "docs/readme"
	Content   string
	Version   int    // 1, 2, 3, ...
	Author    string
	Message   string // commit message for this version
	CreatedAt int64  // Unix timestamp
	DeletedAt *int64 // nil while the document is live
}

// DocumentMeta is Document minus the content column, for listings.
type DocumentMeta struct {
	Key       string
	Path      string
	Version   int
	Author    string
	Message   string
	CreatedAt int64
	DeletedAt *int64
	Size      int64 // content length in bytes
}

// Batch records one patch batch application against a document. Every apply
// that reaches the engine writes a row, including no-op applies, so the
// history of what an LLM attempted is auditable alongside the versions it
// produced.
type Batch struct {
	ID          string // UUID
	Path        string // Document path at application time
	VersionFrom int    // Version the batch was applied against
	VersionTo   int    // Version produced, 0 when content was unchanged
	Applied     int    // Edits applied
	Skipped     int    // Edits recognised as already applied
	Unapplied   int    // Edits that never matched
	Passes      int    // Match/apply cycles the engine ran
	Author      string // Who submitted the batch
	CreatedAt   int64  // Unix timestamp of application
}

// BatchJSON is the API-friendly representation of a Batch with formatted
// timestamps.
type BatchJSON struct {
	ID          string `json:"id"`
	Path        string `json:"path"`
	VersionFrom int    `json:"version_from"`
	VersionTo   int    `json:"version_to,omitempty"`
	Applied     int    `json:"applied"`
	Skipped     int    `json:"skipped"`
	Unapplied   int    `json:"unapplied"`
	Passes      int    `json:"passes"`
	Author      string `json:"author,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// ToJSON converts a Batch to its API representation with RFC3339 timestamps.
func (b *Batch) ToJSON() BatchJSON {
	return BatchJSON{
		ID:          b.ID,
		Path:        b.Path,
		VersionFrom: b.VersionFrom,
		VersionTo:   b.VersionTo,
		Applied:     b.Applied,
		Skipped:     b.Skipped,
		Unapplied:   b.Unapplied,
		Passes:      b.Passes,
		Author:      b.Author,
		CreatedAt:   time.Unix(b.CreatedAt, 0).UTC().Format(time.RFC3339),
	}
}

// DocJSON is the wire form of a Document, with RFC3339 timestamps and
// optional content.
type DocJSON struct {
	Key       string `json:"key"`
	Path      string `json:"path"`
	Content   string `json:"content,omitempty"`
	Version   int    `json:"version"`
	Author    string `json:"author"`
	Message   string `json:"message,omitempty"`
	CreatedAt string `json:"created_at"`
	Deleted   bool   `json:"deleted,omitempty"`
}

// ToJSON converts a Document to its wire form. Listings pass content
// false to keep output small.
func (d *Document) ToJSON(content bool) DocJSON {
	j := DocJSON{
		Key:       d.Key,
		Path:      d.Path,
		Version:   d.Version,
		Author:    d.Author,
		Message:   d.Message,
		CreatedAt: time.Unix(d.CreatedAt, 0).UTC().Format(time.RFC3339),
		Deleted:   d.DeletedAt != nil,
	}
	if content {
		j.Content = d.Content
	}
	return j
}

// MarshalJSON indents its output. All user-facing JSON goes through
// here rather than json.Marshal.
func MarshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// WriteOptions configures a write operation.
type WriteOptions struct {
	Author     string
	Message    string
	MaxPath    int   // 0 means no limit (not recommended for writes)
	MaxContent int64 // 0 means no limit (not recommended for writes)
}

// DeleteOptions configures a delete operation.
type DeleteOptions struct {
	MaxPath int
}

// DeleteVersionOptions configures a version-specific delete operation.
type DeleteVersionOptions struct {
	MaxPath int
}

// RestoreOptions configures a restore operation.
type RestoreOptions struct {
	MaxPath int
}

// MoveOptions configures a move operation.
type MoveOptions struct {
	MaxPath int
}

// CopyOptions configures a copy operation.
type CopyOptions struct {
	MaxPath int
}

// Stats aggregates store-wide counts for the db stats command.
type Stats struct {
	Documents       int64 // live documents
	DeletedDocs     int64 // soft-deleted, pending vacuum
	TotalVersions   int64 // history depth across all documents
	Batches         int64 // recorded patch batch applications
	UnappliedEdits  int64 // sum of unapplied edits across batches
	Authors         int64 // distinct authors
	OldestDoc       int64 // Unix timestamp of the earliest document
	NewestDoc       int64 // Unix timestamp of the most recent write
	OldestDeletedAt int64 // earliest soft-delete, 0 when none
}
