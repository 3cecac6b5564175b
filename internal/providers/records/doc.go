// Package records serves dog profiles and address book contacts from disk.
//
// Records are JSON files kept in a diskv tree, one directory per collection.
// Free text is sanitized before it leaves the store.
package records
