// Package domain defines the core types for the travel-expense record manager.
//
// # Core Types
//
// Record is one travel-expense entry: a unique reference number, English
// title and purpose, start and end dates, five cost fields and a total.
// Currency values use shopspring/decimal so amounts compare exactly.
//
// Field enumerates record attributes in the documented column order. Field
// values are also the CSV headers and document keys used by the stores.
//
// Patch is a partial field set used by edit and upsert operations.
//
// # Errors
//
// ErrNotFound, ErrEmptyInput, ErrValidation and ErrPersistence form the error
// taxonomy. Stores wrap causes with these sentinels so callers can match with
// errors.Is.
//
// # Design Principles
//
// - Value types, passed and returned by copy
// - No database or I/O dependencies
package domain
