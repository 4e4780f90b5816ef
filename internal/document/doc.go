// Package document provides the versioned remote blob store holding the
// shared rooms document.
//
// The authoritative room list lives in one remote JSON document with no
// native transactions or locking. This package defines the Store interface
// over that document and a GitHub Gist implementation.
//
// # Revisions and conflict detection
//
// Every Load returns a Snapshot carrying the remote revision observed at
// read time. Save requires the revision the caller's mutation was based on
// and re-reads the remote revision immediately before writing back; if it
// no longer matches, Save fails with ErrConflict instead of silently
// overwriting a concurrent writer's change. This bounds, but cannot fully
// eliminate, the lost-update window: the check and the write are two
// separate requests because the remote API offers no conditional write.
//
// # Error Handling
//
// Standard errors cover the failure taxonomy:
//   - ErrFetch: transport or auth failure reaching the store
//   - ErrParse: malformed document content
//   - ErrNotFound: the document does not exist
//   - ErrConflict: the document changed since it was read
//   - ErrTimeout: the store did not respond within the request timeout
//   - ErrReadOnly: a write was attempted without a credential
//
// Use errors.Is() to check error types:
//
//	if errors.Is(err, document.ErrConflict) {
//	    // Re-fetch, re-apply, re-write
//	}
package document
