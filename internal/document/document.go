package document

import (
	"context"
	"errors"

	"github.com/tastien/teamup/internal/model"
)

// Standard errors for document store operations.
// Use errors.Is() to check these error types in calling code.
var (
	// ErrFetch indicates a transport or auth failure reaching the store.
	ErrFetch = errors.New("document fetch failed")

	// ErrParse indicates the document content could not be decoded.
	ErrParse = errors.New("malformed document content")

	// ErrNotFound indicates the document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrConflict indicates the document changed since it was read.
	ErrConflict = errors.New("document modified since read")

	// ErrTimeout indicates the store did not respond within the request timeout.
	ErrTimeout = errors.New("document request timed out")

	// ErrReadOnly indicates a write was attempted without a credential.
	ErrReadOnly = errors.New("document store is read-only without a credential")
)

// Revision is an opaque token identifying one remote state of the document.
type Revision string

// Snapshot is a point-in-time copy of the document plus the remote revision
// it was read at.
type Snapshot struct {
	Data     model.RoomsDocument
	Revision Revision
}

// Store is the versioned blob store holding the shared rooms document.
//
// Load is a pure read and may be abandoned by cancelling ctx. Save must run
// to completion or to a definitive error once the write has started; it
// must never leave a mutation half-applied.
type Store interface {
	// Load fetches and decodes the whole document.
	Load(ctx context.Context) (*Snapshot, error)

	// Save writes the whole document back. basedOn is the revision the
	// caller's mutation was computed from; Save fails with ErrConflict if
	// the remote document has moved past it.
	Save(ctx context.Context, doc model.RoomsDocument, basedOn Revision) error
}
