// Package service implements the record management rules for travelrec.
//
// RecordService sits between the console and the repository layer. It
// validates records, enforces reference uniqueness, applies the collection
// cap and decides how each mutation reaches the store.
//
// # Store Modes
//
// The mode is picked from the injected store:
//
//   - flat file (repository.Store): mutations change only the in-memory
//     collection until Save rewrites the file. Update and Delete of an
//     unknown reference fail with domain.ErrNotFound.
//   - document store (repository.DocumentStore): every Create, Update and
//     Delete is written through. Update upserts and Delete of an unknown
//     reference is accepted.
//
// # Collections
//
// The caller owns the record slice. Mutating methods return a new slice and
// never modify their input, so a failed operation leaves the caller's state
// as it was.
package service
