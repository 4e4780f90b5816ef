// Package model defines the domain types for the Teamup matchmaking core.
//
// All room and user data ultimately lives in one shared remote JSON document
// (see the document package), so every type here carries JSON tags matching
// the document wire format. Field names are camelCase because that is the
// format the shared document has always used; changing them would break
// every client that reads the same document.
//
// Enumerations (Profession, PlayerType, TeamStatus, ...) are closed string
// enums with Valid() checks so that an unknown value read from the document
// is rejected at the boundary instead of surfacing as a runtime lookup miss.
//
// Types in this package are plain values. They are copied into and out of
// the document snapshot; nothing holds a mutable reference into a stored
// room between operations.
package model
