// Package ai defines the interfaces for external AI services: text
// embedding and answer generation.
//
// The interfaces decouple the retrieval engine from concrete providers.
// A Provider exposes an ordered list of embedding strategies (primary
// first, then fallback) and a generator; the index builder iterates the
// embedder list until one succeeds, rather than handling provider
// failures with nested control flow.
//
// Production implementations live in the openai subpackage; test doubles
// live in the mock subpackage.
package ai
