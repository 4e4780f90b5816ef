// Package service implements the matchmaking engine and the room
// lifecycle.
//
// MatchingService is pure computation: compatibility scoring, room
// recommendation, team power evaluation, profession balance suggestions and
// batch carry grouping. RoomService applies lifecycle transitions
// (create/join/leave/delete) as pure functions over room snapshots and
// delegates persistence to the repository's read-modify-write cycle.
// Validation always runs before any I/O.
package service
