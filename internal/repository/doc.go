// Package repository owns the read-modify-write cycle against the shared
// rooms document.
//
// Every mutation is a full fetch-modify-write of the document: load a
// snapshot, apply a pure mutation to the copy, write the whole document
// back conditioned on the revision the snapshot was read at. On a detected
// conflict or a timeout the whole cycle is retried with exponential
// backoff, bounded to a small number of attempts; every other failure is
// surfaced immediately. Mutation callbacks see a private copy, so an
// aborted cycle leaves no shared state behind.
package repository
