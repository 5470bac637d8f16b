// Package repository defines the data access interfaces for travel records.
//
// This package provides the store abstraction the record service is built
// on. Implementations live in subpackages, one per backing medium.
//
// # Store Interfaces
//
// Store covers load and save of the whole collection. It is all a flat file
// can offer: mutations stay in memory until the next save.
//
// DocumentStore adds per-record insert, update and delete. Update has upsert
// semantics and delete of an unknown reference is not an error, mirroring
// document database behaviour.
//
// # Implementations
//
// - flatfile: CSV (default), JSON or YAML file picked by extension
// - sqlite: JSON documents in an embedded SQLite database
// - mongodb: a MongoDB collection
//
// # Testing
//
// The flatfile and sqlite stores are tested against temporary files and
// in-memory databases. The mongodb store tests run only when a test server
// URI is provided.
package repository
