// Package mock provides test doubles for the ai package interfaces.
//
// The mock embedder produces deterministic unit vectors derived from an
// FNV hash of the input text, so index builds and searches are repeatable
// without network access. Failure injection supports retry and fallback
// testing.
package mock
