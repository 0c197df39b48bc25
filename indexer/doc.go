// Package indexer builds the retrieval index from a document corpus.
//
// The Builder chunks documents with a worker pool, embeds the fragments
// in batches with retry and embedding-model fallback, and persists the
// result through a storage.IndexRepository so the new index becomes
// visible atomically.
package indexer
