// Package resolve implements tiered question answering over the built
// index.
//
// A question referencing a statute number is answered from exact title
// matches. Everything else goes through vector retrieval; when the best
// match scores below the confidence threshold, or the grounded answer
// turns out unusable, the resolver falls back to generation without
// retrieved context and tags the result accordingly.
package resolve
