// Package storage defines the persistence contracts for the index
// artifact and the serialization helpers shared by backends.
//
// The IndexRepository interface is the only surface the engine and the
// index builder depend on. The badger subpackage provides the default
// implementation with atomic generation-swap publishing.
package storage
