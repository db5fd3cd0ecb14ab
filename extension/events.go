// events.go defines the notifications the document service fires after each
// mutation commits.
//
// Events are fire-and-forget: handlers observe committed changes and cannot
// veto them, so the service stays predictable and a misbehaving handler can
// only cost a logged error. Every event carries enough state for a handler
// to act without re-querying the store - the sync extension maintains the
// filesystem mirror entirely from these payloads.

package extension

// EventType identifies the kind of event.
type EventType string

const (
	EventDocumentWrite   EventType = "document:write"
	EventDocumentDelete  EventType = "document:delete"
	EventDocumentRestore EventType = "document:restore"
	EventDocumentMove    EventType = "document:move"
	EventPatchApply      EventType = "patch:apply"
)

// Event is the base interface for all events.
type Event interface {
	EventType() EventType
	EventPath() string
}

// DocumentWriteEvent fires after a new version is stored, whether from a
// direct write or a copy.
type DocumentWriteEvent struct {
	Path    string
	Version int
	Author  string
	Message string
	Content string
}

func (e DocumentWriteEvent) EventType() EventType { return EventDocumentWrite }
func (e DocumentWriteEvent) EventPath() string    { return e.Path }

// DocumentDeleteEvent fires after a soft delete. Remaining is true when only
// one version was deleted and others survive; Content then holds the new
// latest version's text so handlers can refresh any derived state. When
// Remaining is false the path is gone.
type DocumentDeleteEvent struct {
	Path      string
	Version   int
	Remaining bool
	Content   string
}

func (e DocumentDeleteEvent) EventType() EventType { return EventDocumentDelete }
func (e DocumentDeleteEvent) EventPath() string    { return e.Path }

// DocumentRestoreEvent fires after a soft-deleted document comes back.
// Content holds the restored latest version's text.
type DocumentRestoreEvent struct {
	Path    string
	Version int
	Content string
}

func (e DocumentRestoreEvent) EventType() EventType { return EventDocumentRestore }
func (e DocumentRestoreEvent) EventPath() string    { return e.Path }

// DocumentMoveEvent fires after a rename. EventPath reports the destination,
// where the document now lives.
type DocumentMoveEvent struct {
	From    string
	To      string
	Version int
	Content string
}

func (e DocumentMoveEvent) EventType() EventType { return EventDocumentMove }
func (e DocumentMoveEvent) EventPath() string    { return e.To }

// PatchApplyEvent fires after a batch apply, including no-op applies where
// nothing matched. Version is 0 and Content empty when the document was
// unchanged. Applies fire this instead of DocumentWriteEvent even when they
// produce a new version.
type PatchApplyEvent struct {
	Path      string
	Version   int
	Applied   int
	Skipped   int
	Unapplied int
	Author    string
	Content   string
}

func (e PatchApplyEvent) EventType() EventType { return EventPatchApply }
func (e PatchApplyEvent) EventPath() string    { return e.Path }

// EventHandler is implemented by extensions that want to receive events.
type EventHandler interface {
	HandleEvent(ctx Context, e Event) error
}
